package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/platform/obs"
	"intersect-service/internal/ports"

	"fortio.org/safecast"
)

// Postgres-backed implementation of the SolutionRepository port.
// A solution row holds the point and report; residuals go to a child table.
type SQLSolutionRepository struct {
	DB *sql.DB
}

func NewSQLSolutionRepository(db *sql.DB) *SQLSolutionRepository {
	return &SQLSolutionRepository{DB: db}
}

// Store a solution and its residuals, returning the new solution id.
func (s *SQLSolutionRepository) SaveSolution(ctx context.Context, sol domain.Solution) (_ int64, err error) {
	defer obs.Time(ctx, "solutions.Save")(&err)

	if s.DB == nil {
		return 0, errors.New("sql solution repository: DB is nil")
	}

	iterations, err := safecast.Conv[int32](sol.Iterations)
	if err != nil {
		return 0, fmt.Errorf("save solution: iterations: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save solution: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `
	INSERT INTO solutions (method, x, y, converged, iterations, reference_variance, report)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING solution_id;
	`,
		string(sol.Method), sol.Point.X, sol.Point.Y, sol.Converged, iterations, sol.ReferenceVariance, sol.Report,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save solution: insert solution: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO solution_residuals (solution_id, position, observation_id, kind, measured, computed, residual, weight)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`)
	if err != nil {
		return 0, fmt.Errorf("save solution: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range sol.Residuals {
		pos, err := safecast.Conv[int32](i)
		if err != nil {
			return 0, fmt.Errorf("save solution: residual position: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, pos, r.ObservationID, string(r.Kind), r.Measured, r.Computed, r.Value, r.Weight); err != nil {
			return 0, fmt.Errorf("save solution: insert residual %q: %w", r.ObservationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save solution: commit tx: %w", err)
	}

	return id, nil
}

// Load a stored solution by id.
func (s *SQLSolutionRepository) GetSolution(ctx context.Context, id int64) (_ ports.StoredSolution, err error) {
	defer obs.Time(ctx, "solutions.Get")(&err)

	if s.DB == nil {
		return ports.StoredSolution{}, errors.New("sql solution repository: DB is nil")
	}

	out := ports.StoredSolution{ID: id}
	sol := &out.Solution
	var method string
	err = s.DB.QueryRowContext(ctx, `
	SELECT method, x, y, converged, iterations, reference_variance, report, created_at
	FROM solutions
	WHERE solution_id = $1;
	`, id).Scan(&method, &sol.Point.X, &sol.Point.Y, &sol.Converged, &sol.Iterations, &sol.ReferenceVariance, &sol.Report, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: query solutions table: %w", id, err)
	}
	sol.Method = domain.Method(method)

	rows, err := s.DB.QueryContext(ctx, `
	SELECT observation_id, kind, measured, computed, residual, weight
	FROM solution_residuals
	WHERE solution_id = $1
	ORDER BY position;
	`, id)
	if err != nil {
		return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: query residuals: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Residual
		var kind string
		if err := rows.Scan(&r.ObservationID, &kind, &r.Measured, &r.Computed, &r.Value, &r.Weight); err != nil {
			return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: scan residual: %w", id, err)
		}
		r.Kind = domain.Kind(kind)
		sol.Residuals = append(sol.Residuals, r)
	}
	if err := rows.Err(); err != nil {
		return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: row iteration: %w", id, err)
	}

	return out, nil
}
