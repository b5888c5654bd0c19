package services

import (
	"context"
	"errors"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/platform/obs"
	"intersect-service/internal/ports"
)

type IntersectAtRequest struct {
	At        domain.Point
	Tolerance float64
	Persist   bool
}

type IntersectAtResult struct {
	Solution     domain.Solution
	Observations []domain.Observation
	// Zero unless the solution was persisted.
	SolutionID int64
}

// IntersectAt solves the observations drawn near a clicked point.
//
// Stored observations within req.Tolerance of req.At are selected and solved
// with req.At as the initial guess. When req.Persist is set the solved point
// and its report are saved through store.
func IntersectAt(
	ctx context.Context,
	req IntersectAtRequest,
	repo ports.ObservationRepository,
	store ports.SolutionRepository,
	cfg domain.SolverConfig,
) (_ *IntersectAtResult, err error) {
	defer obs.Time(ctx, "services.IntersectAt")(&err)

	if repo == nil {
		return nil, errors.New("intersect at: observation repository must be non-nil")
	}
	if !(req.Tolerance > 0) {
		return nil, domain.NewSolveError("intersect at", domain.ErrInvalidInput, "tolerance must be > 0, got %g", req.Tolerance)
	}

	all, err := repo.ListObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("intersect at: list observations: %w", err)
	}

	selected := SelectObservations(all, req.At, req.Tolerance)
	if len(selected) < 2 {
		return nil, domain.NewSolveError("intersect at", domain.ErrInvalidInput,
			"%d observation(s) within %g of (%g, %g), need at least 2",
			len(selected), req.Tolerance, req.At.X, req.At.Y)
	}

	sol, err := Solve(selected, req.At, cfg)
	if err != nil {
		return nil, fmt.Errorf("intersect at: %w", err)
	}

	res := &IntersectAtResult{Solution: sol, Observations: selected}
	if req.Persist {
		if store == nil {
			return nil, errors.New("intersect at: persist requested but no solution store is configured")
		}
		id, err := store.SaveSolution(ctx, sol)
		if err != nil {
			return nil, fmt.Errorf("intersect at: save solution: %w", err)
		}
		res.SolutionID = id
	}

	return res, nil
}
