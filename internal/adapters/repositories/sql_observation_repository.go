package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/platform/obs"
	"strings"
)

// Postgres-backed implementation of the ObservationRepository port.
type SQLObservationRepository struct {
	DB *sql.DB
}

func NewSQLObservationRepository(db *sql.DB) *SQLObservationRepository {
	return &SQLObservationRepository{DB: db}
}

// Return all observations stored in the database.
func (s *SQLObservationRepository) ListObservations(ctx context.Context) (_ []domain.Observation, err error) {
	defer obs.Time(ctx, "observations.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql observation repository: DB is nil")
	}

	query := `
	SELECT id, kind, origin_x, origin_y, measured, sigma
	FROM observations
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list observations: query observations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Observation, 0, 64)
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("list observations: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list observations: row iteration: %w", err)
	}

	return out, nil
}

// Fetch observations for a set of ids.
func (s *SQLObservationRepository) GetObservations(
	ctx context.Context,
	ids []string,
) (_ map[string]domain.Observation, err error) {
	defer obs.Time(ctx, "observations.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("sql observation repository: DB is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	if len(uniq) == 0 {
		return map[string]domain.Observation{}, nil
	}

	q := `
	SELECT id, kind, origin_x, origin_y, measured, sigma
	FROM observations
	WHERE id = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get observations: query observations table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Observation, len(uniq))
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("get observations: %w", err)
		}
		out[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get observations: row iteration: %w", err)
	}

	return out, nil
}

// Insert or replace many observations in one transaction.
func (s *SQLObservationRepository) SaveObservations(ctx context.Context, list []domain.Observation) error {
	if s.DB == nil {
		return errors.New("sql observation repository: DB is nil")
	}

	if len(list) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save observations: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO observations (id, kind, origin_x, origin_y, measured, sigma)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET kind = EXCLUDED.kind,
		origin_x = EXCLUDED.origin_x,
		origin_y = EXCLUDED.origin_y,
		measured = EXCLUDED.measured,
		sigma = EXCLUDED.sigma;
	`)
	if err != nil {
		return fmt.Errorf("save observations: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, o := range list {
		if strings.TrimSpace(o.ID) == "" {
			return errors.New("save observations: empty observation id")
		}
		if err := o.Validate(); err != nil {
			return fmt.Errorf("save observations: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, o.ID, string(o.Kind), o.Origin.X, o.Origin.Y, o.Measured, o.Precision); err != nil {
			return fmt.Errorf("save observations id=%q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save observations commit: %w", err)
	}

	return nil
}

// Delete observations by id, or all of them when ids is empty.
func (s *SQLObservationRepository) DeleteObservations(ctx context.Context, ids []string) (_ int64, err error) {
	defer obs.Time(ctx, "observations.Delete")(&err)

	if s.DB == nil {
		return 0, errors.New("sql observation repository: DB is nil")
	}

	var res sql.Result
	if len(ids) == 0 {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM observations;`)
	} else {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM observations WHERE id = ANY($1::text[]);`, ids)
	}
	if err != nil {
		return 0, fmt.Errorf("delete observations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete observations: rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservation(row rowScanner) (domain.Observation, error) {
	var o domain.Observation
	var kind string
	if err := row.Scan(&o.ID, &kind, &o.Origin.X, &o.Origin.Y, &o.Measured, &o.Precision); err != nil {
		return domain.Observation{}, fmt.Errorf("scan observation row: %w", err)
	}
	o.Kind = domain.Kind(kind)
	return o, nil
}
