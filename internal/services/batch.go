package services

import (
	"context"
	"intersect-service/internal/domain"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentSolves = 4

// Problem is one independent solve request.
type Problem struct {
	Observations []domain.Observation
	Guess        domain.Point
}

// BatchResult holds either a solution or the solve error of one problem.
type BatchResult struct {
	Solution domain.Solution
	Err      error
}

// SolveBatch solves independent problems concurrently with the same config.
//
// A failing problem does not stop the others; its error is kept in its
// result slot. Only cancellation of ctx fails the whole batch.
func SolveBatch(ctx context.Context, problems []Problem, cfg domain.SolverConfig) ([]BatchResult, error) {
	results := make([]BatchResult, len(problems))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSolves)

	for i, p := range problems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sol, err := Solve(p.Observations, p.Guess, cfg)
			results[i] = BatchResult{Solution: sol, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
