package domain

import "math"

// SolverConfig is the read-only solver configuration. It is passed by value
// so each solve works on its own snapshot.
type SolverConfig struct {
	MaxIterations        int
	ConvergenceThreshold float64

	// Used by callers to pre-fill missing precisions, never by the solvers.
	DefaultPrecisionDistance    float64
	DefaultPrecisionOrientation float64

	// Drawn length of a direction observation in dimension output.
	OrientationLength float64
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations:               15,
		ConvergenceThreshold:        0.0005,
		DefaultPrecisionDistance:    0.025,
		DefaultPrecisionOrientation: 0.5,
		OrientationLength:           4,
	}
}

func (c SolverConfig) Validate() error {
	if c.MaxIterations < 1 {
		return NewSolveError("validate config", ErrInvalidInput, "max iterations must be >= 1, got %d", c.MaxIterations)
	}
	if !(c.ConvergenceThreshold > 0) || math.IsInf(c.ConvergenceThreshold, 0) {
		return NewSolveError("validate config", ErrInvalidInput, "convergence threshold must be > 0, got %g", c.ConvergenceThreshold)
	}
	if !(c.DefaultPrecisionDistance > 0) || !(c.DefaultPrecisionOrientation > 0) {
		return NewSolveError("validate config", ErrInvalidInput, "default precisions must be > 0")
	}
	return nil
}

// FillPrecision returns o with a zero precision replaced by the default for its kind.
func (c SolverConfig) FillPrecision(o Observation) Observation {
	if o.Precision != 0 {
		return o
	}
	switch o.Kind {
	case KindDistance:
		o.Precision = c.DefaultPrecisionDistance
	case KindDirection:
		o.Precision = c.DefaultPrecisionOrientation
	}
	return o
}
