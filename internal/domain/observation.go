package domain

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the residual function of an observation.
type Kind string

const (
	// KindDistance is a measured distance from a known station (a circle).
	KindDistance Kind = "distance"
	// KindDirection is a measured azimuth from a known station (a ray or prolongation).
	KindDirection Kind = "direction"
)

// ParseKind accepts the canonical names and the "prolongation"/"orientation"
// aliases used by field crews for directions.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "circle":
		return KindDistance, nil
	case "direction", "prolongation", "orientation":
		return KindDirection, nil
	}
	return "", fmt.Errorf("parse kind: unknown observation kind %q", s)
}

// Observation is one immutable field measurement.
//
// Measured is a distance in map units for KindDistance, or an azimuth in
// radians clockwise from grid north for KindDirection. Precision is the
// standard deviation in the same unit as Measured.
type Observation struct {
	ID        string
	Kind      Kind
	Origin    Point
	Measured  float64
	Precision float64
}

// Weight returns 1/precision² in the observation's native unit.
func (o Observation) Weight() float64 { return 1 / (o.Precision * o.Precision) }

// Validate checks the invariants every solver relies on.
func (o Observation) Validate() error {
	if o.Kind != KindDistance && o.Kind != KindDirection {
		return NewSolveError("validate observation", ErrInvalidInput, "observation %q has unknown kind %q", o.ID, o.Kind)
	}
	if !(o.Precision > 0) || math.IsInf(o.Precision, 0) {
		return NewSolveError("validate observation", ErrInvalidInput, "observation %q precision must be > 0, got %g", o.ID, o.Precision)
	}
	if !o.Origin.IsFinite() || math.IsNaN(o.Measured) || math.IsInf(o.Measured, 0) {
		return NewSolveError("validate observation", ErrInvalidInput, "observation %q has non-finite values", o.ID)
	}
	if o.Kind == KindDistance && o.Measured < 0 {
		return NewSolveError("validate observation", ErrInvalidInput, "observation %q distance must be >= 0, got %g", o.ID, o.Measured)
	}
	return nil
}

// Direction returns the unit vector of a direction observation's azimuth.
func (o Observation) Direction() Point {
	return Point{X: math.Sin(o.Measured), Y: math.Cos(o.Measured)}
}
