package services

import (
	"fmt"
	"intersect-service/internal/domain"
	"math"

	"gonum.org/v1/gonum/mat"
)

const singularTolerance = 1e-12

// Adjust fixes a point from three or more observations by iterated weighted
// least squares (Gauss-Newton).
//
// Each iteration linearizes every observation at the current estimate,
// solves the 2x2 normal equations JᵀWJ·Δ = JᵀWr and moves the estimate by Δ.
// The loop stops once max(|Δx|, |Δy|) drops below cfg.ConvergenceThreshold.
//
// Reaching cfg.MaxIterations is not an error: the estimate with the lowest
// weighted sum of squared residuals seen so far is returned with
// Converged=false, and callers decide whether to accept it
// (see domain.Solution.RequireConverged).
func Adjust(obs []domain.Observation, guess domain.Point, cfg domain.SolverConfig) (domain.Solution, error) {
	const op = "least squares adjustment"

	if err := cfg.Validate(); err != nil {
		return domain.Solution{}, err
	}
	if len(obs) < 3 {
		return domain.Solution{}, domain.NewSolveError(op, domain.ErrInvalidInput,
			"need at least 3 observations, got %d", len(obs))
	}
	for _, o := range obs {
		if err := o.Validate(); err != nil {
			return domain.Solution{}, err
		}
	}
	if !guess.IsFinite() {
		return domain.Solution{}, domain.NewSolveError(op, domain.ErrInvalidInput, "initial guess must be finite")
	}

	estimate := guess
	best := guess
	bestSSR := math.Inf(1)
	converged := false
	iterations := 0

	for iterations < cfg.MaxIterations {
		delta, ssr, err := step(obs, estimate)
		if err != nil {
			return domain.Solution{}, fmt.Errorf("%s: iteration %d: %w", op, iterations+1, err)
		}
		if ssr < bestSSR {
			best, bestSSR = estimate, ssr
		}

		estimate = estimate.Add(delta)
		iterations++

		if math.Max(math.Abs(delta.X), math.Abs(delta.Y)) < cfg.ConvergenceThreshold {
			converged = true
			break
		}
	}

	point := estimate
	if !converged {
		point = bestEstimate(obs, estimate, best, bestSSR)
	}

	sol := domain.Solution{
		Point:      point,
		Method:     domain.MethodLeastSquares,
		Converged:  converged,
		Iterations: iterations,
		Residuals:  residuals(obs, point),
	}
	sol.ReferenceVariance = referenceVariance(sol.Residuals)
	return sol, nil
}

// step performs one Gauss-Newton update from p and returns the correction
// together with the weighted sum of squared residuals at p.
func step(obs []domain.Observation, p domain.Point) (domain.Point, float64, error) {
	normal := mat.NewSymDense(2, nil)
	rhs := mat.NewVecDense(2, nil)
	ssr := 0.0

	for _, o := range obs {
		row, ok := linearize(o, p)
		if !ok {
			return domain.Point{}, 0, domain.NewSolveError("linearize", domain.ErrSingularSystem,
				"estimate on station of %q at (%g, %g), partials are undefined", o.ID, p.X, p.Y)
		}

		w := row.weight
		normal.SetSym(0, 0, normal.At(0, 0)+w*row.ax*row.ax)
		normal.SetSym(0, 1, normal.At(0, 1)+w*row.ax*row.ay)
		normal.SetSym(1, 1, normal.At(1, 1)+w*row.ay*row.ay)
		rhs.SetVec(0, rhs.AtVec(0)+w*row.ax*row.residual)
		rhs.SetVec(1, rhs.AtVec(1)+w*row.ay*row.residual)
		ssr += w * row.residual * row.residual
	}

	// Hadamard: det ≤ N00·N11 for a positive semi-definite matrix.
	scale := normal.At(0, 0) * normal.At(1, 1)
	det := mat.Det(normal)
	if !(scale > 0) || math.Abs(det) <= singularTolerance*scale {
		return domain.Point{}, 0, domain.NewSolveError("normal equations", domain.ErrSingularSystem,
			"determinant %g is negligible, observations do not constrain both axes", det)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(normal); !ok {
		return domain.Point{}, 0, domain.NewSolveError("normal equations", domain.ErrSingularSystem,
			"normal matrix is not positive definite")
	}

	var delta mat.VecDense
	if err := chol.SolveVecTo(&delta, rhs); err != nil {
		return domain.Point{}, 0, domain.NewSolveError("normal equations", domain.ErrSingularSystem, "%v", err)
	}

	return domain.Point{X: delta.AtVec(0), Y: delta.AtVec(1)}, ssr, nil
}

// bestEstimate returns the last estimate of a non-converged run unless the
// best one seen earlier fits better. A NaN fit never wins.
func bestEstimate(obs []domain.Observation, last, best domain.Point, bestSSR float64) domain.Point {
	if !(weightedSSR(obs, last) < bestSSR) {
		return best
	}
	return last
}

// weightedSSR is Σ w·r² in native units.
func weightedSSR(obs []domain.Observation, p domain.Point) float64 {
	sum := 0.0
	for _, o := range obs {
		_, r := nativeResidual(o, p)
		sum += o.Weight() * r * r
	}
	return sum
}

// residuals evaluates every observation at p, keeping input order.
func residuals(obs []domain.Observation, p domain.Point) []domain.Residual {
	out := make([]domain.Residual, 0, len(obs))
	for _, o := range obs {
		c, r := nativeResidual(o, p)
		out = append(out, domain.Residual{
			ObservationID: o.ID,
			Kind:          o.Kind,
			Measured:      o.Measured,
			Computed:      c,
			Value:         r,
			Weight:        o.Weight(),
		})
	}
	return out
}

// referenceVariance divides Σ w·r² by the degrees of freedom (N - 2).
// It is zero when there is no redundancy.
func referenceVariance(res []domain.Residual) float64 {
	dof := len(res) - 2
	if dof <= 0 {
		return 0
	}
	sum := 0.0
	for _, r := range res {
		sum += r.Weight * r.Value * r.Value
	}
	return sum / float64(dof)
}
