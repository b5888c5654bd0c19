package domain

// Method names the solver that produced a Solution.
type Method string

const (
	MethodCircleCircle Method = "circle-circle"
	MethodLineLine     Method = "line-line"
	MethodCircleLine   Method = "circle-line"
	MethodLeastSquares Method = "least-squares"
)

// Residual is the misclosure of one observation at the solved point,
// expressed in the observation's native unit.
type Residual struct {
	ObservationID string
	Kind          Kind
	Measured      float64
	Computed      float64
	Value         float64
	Weight        float64
}

// Solution is the immutable outcome of one solve call.
// Residuals follow the order of the input observations.
type Solution struct {
	Point             Point
	Method            Method
	Converged         bool
	Iterations        int
	Residuals         []Residual
	ReferenceVariance float64
	Report            string
}

// RequireConverged turns a best-effort, non-converged adjustment into an error
// for callers that refuse such results.
func (s Solution) RequireConverged() error {
	if s.Converged {
		return nil
	}
	return NewSolveError("require converged", ErrNonConvergence,
		"no convergence after %d iterations", s.Iterations)
}
