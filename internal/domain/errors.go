package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the solvers. Match them with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoIntersection = errors.New("no intersection")
	ErrParallelLines  = errors.New("parallel lines")
	ErrSingularSystem = errors.New("singular system")
	ErrNonConvergence = errors.New("non convergence")
)

// SolveError is the structured failure of a solve call.
// Kind is one of the Err* sentinels above.
type SolveError struct {
	Op     string
	Kind   error
	Detail string
}

func (e *SolveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
}

func (e *SolveError) Unwrap() error { return e.Kind }

// NewSolveError builds a SolveError with a formatted detail message.
func NewSolveError(op string, kind error, format string, args ...any) *SolveError {
	return &SolveError{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the sentinel kind carried by err, or nil when err is not a SolveError.
func KindOf(err error) error {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Kind
	}
	return nil
}
