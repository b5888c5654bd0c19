package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"intersect-service/internal/domain"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createObservationsQuery := `
	CREATE TABLE IF NOT EXISTS observations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('distance', 'direction')),
		origin_x DOUBLE PRECISION NOT NULL,
		origin_y DOUBLE PRECISION NOT NULL,
		measured DOUBLE PRECISION NOT NULL,
		sigma DOUBLE PRECISION NOT NULL CHECK (sigma > 0)
	);
	`

	createSolutionsQuery := `
	CREATE TABLE IF NOT EXISTS solutions (
		solution_id BIGSERIAL PRIMARY KEY,
		method TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		converged BOOLEAN NOT NULL,
		iterations INTEGER NOT NULL,
		reference_variance DOUBLE PRECISION NOT NULL,
		report TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createResidualsQuery := `
	CREATE TABLE IF NOT EXISTS solution_residuals (
		solution_id BIGINT NOT NULL REFERENCES solutions(solution_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		observation_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		measured DOUBLE PRECISION NOT NULL,
		computed DOUBLE PRECISION NOT NULL,
		residual DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (solution_id, position)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solution_residuals_observation
	ON solution_residuals(observation_id);
	`

	statements := []string{
		createObservationsQuery,
		createSolutionsQuery,
		createResidualsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ObservationSeed struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Measured  float64 `json:"measured"`
	Precision float64 `json:"precision"`
}

// ParseObservationSeeds converts seed records into validated observations.
// A zero precision is filled with the configured default for the kind.
func ParseObservationSeeds(seeds []ObservationSeed, cfg domain.SolverConfig) ([]domain.Observation, error) {
	out := make([]domain.Observation, 0, len(seeds))
	for i, s := range seeds {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, fmt.Errorf("parse observations: item at index %d: id cannot be empty", i+1)
		}

		kind, err := domain.ParseKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("parse observations: item %q: %w", id, err)
		}

		o := cfg.FillPrecision(domain.Observation{
			ID:        id,
			Kind:      kind,
			Origin:    domain.Point{X: s.X, Y: s.Y},
			Measured:  s.Measured,
			Precision: s.Precision,
		})
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("parse observations: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Populate the database with observations from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string, cfg domain.SolverConfig) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed observations: read %q: %w", jsonPath, err)
	}

	var data []ObservationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed observations: parse json: %w", err)
	}

	obs, err := ParseObservationSeeds(data, cfg)
	if err != nil {
		return fmt.Errorf("seed observations: %w", err)
	}

	if err := NewSQLObservationRepository(db).SaveObservations(ctx, obs); err != nil {
		return fmt.Errorf("seed observations: %w", err)
	}

	return nil
}
