package services

import (
	"intersect-service/internal/domain"
	"math"
)

// SelectObservations returns the observations whose drawn geometry passes
// within tolerance of at: the circle of a distance, or the forward ray of a
// direction. Input order is kept.
func SelectObservations(obs []domain.Observation, at domain.Point, tolerance float64) []domain.Observation {
	out := make([]domain.Observation, 0, len(obs))
	for _, o := range obs {
		if geometryDistance(o, at) <= tolerance {
			out = append(out, o)
		}
	}
	return out
}

// geometryDistance is the shortest distance from p to the observation's geometry.
func geometryDistance(o domain.Observation, p domain.Point) float64 {
	if o.Kind == domain.KindDistance {
		return math.Abs(o.Origin.Dist(p) - o.Measured)
	}
	u := o.Direction()
	v := p.Sub(o.Origin)
	// Behind the station the nearest point of the ray is the station itself.
	if u.X*v.X+u.Y*v.Y < 0 {
		return math.Hypot(v.X, v.Y)
	}
	return math.Abs(u.X*v.Y - u.Y*v.X)
}
