package ports

import (
	"context"
	"intersect-service/internal/domain"
)

// Optional memoization of solve results keyed by a digest of the inputs.
type SolutionCache interface {
	Get(ctx context.Context, key string) (domain.Solution, bool, error)
	Put(ctx context.Context, key string, sol domain.Solution) error
}
