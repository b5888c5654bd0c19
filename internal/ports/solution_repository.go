package ports

import (
	"context"
	"errors"
	"intersect-service/internal/domain"
	"time"
)

var ErrNotFound = errors.New("not found")

// A persisted intersection point with its report.
type StoredSolution struct {
	ID        int64
	CreatedAt time.Time
	Solution  domain.Solution
}

// Port: persistence of solved points.
type SolutionRepository interface {
	SaveSolution(ctx context.Context, sol domain.Solution) (int64, error)
	// Return ErrNotFound when no solution has the id.
	GetSolution(ctx context.Context, id int64) (StoredSolution, error)
}
