package services

import (
	"intersect-service/internal/domain"
)

// Solve fixes a point from observations.
//
// Two observations are intersected in closed form; three or more go through
// the least-squares adjustment. Every observation is validated up front so
// no solver runs on invalid input. The returned Solution carries its report.
func Solve(obs []domain.Observation, guess domain.Point, cfg domain.SolverConfig) (domain.Solution, error) {
	const op = "solve"

	if err := cfg.Validate(); err != nil {
		return domain.Solution{}, err
	}
	for _, o := range obs {
		if err := o.Validate(); err != nil {
			return domain.Solution{}, err
		}
	}
	if !guess.IsFinite() {
		return domain.Solution{}, domain.NewSolveError(op, domain.ErrInvalidInput, "initial guess must be finite")
	}

	var (
		sol domain.Solution
		err error
	)
	switch n := len(obs); {
	case n < 2:
		return domain.Solution{}, domain.NewSolveError(op, domain.ErrInvalidInput,
			"need at least 2 observations, got %d", n)
	case n == 2:
		sol, err = solveExact(obs[0], obs[1], guess)
	default:
		sol, err = Adjust(obs, guess, cfg)
	}
	if err != nil {
		return domain.Solution{}, err
	}

	sol.Report = FormatReport(sol)
	return sol, nil
}

func solveExact(a, b domain.Observation, guess domain.Point) (domain.Solution, error) {
	p, method, err := Intersect2(a, b, guess)
	if err != nil {
		return domain.Solution{}, err
	}

	obs := []domain.Observation{a, b}
	return domain.Solution{
		Point:             p,
		Method:            method,
		Converged:         true,
		Iterations:        0,
		Residuals:         residuals(obs, p),
		ReferenceVariance: 0,
	}, nil
}

// StationCentroid is the mean of the observation stations, a neutral
// initial guess when the caller has none.
func StationCentroid(obs []domain.Observation) domain.Point {
	var c domain.Point
	if len(obs) == 0 {
		return c
	}
	for _, o := range obs {
		c = c.Add(o.Origin)
	}
	return c.Scale(1 / float64(len(obs)))
}
