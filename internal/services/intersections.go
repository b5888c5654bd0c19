package services

import (
	"intersect-service/internal/domain"
	"math"
)

const (
	tangentTolerance      = 1e-9
	concentricTolerance   = 1e-12
	parallelTolerance     = 1e-9
	discriminantTolerance = 1e-12
)

// Intersect2 intersects exactly two observations in closed form.
//
// The solver is chosen from the kind combination. When the geometry yields
// two points, the one nearer to guess is returned; guess plays no other role.
func Intersect2(a, b domain.Observation, guess domain.Point) (domain.Point, domain.Method, error) {
	switch {
	case a.Kind == domain.KindDistance && b.Kind == domain.KindDistance:
		p, err := CircleCircle(a, b, guess)
		return p, domain.MethodCircleCircle, err
	case a.Kind == domain.KindDirection && b.Kind == domain.KindDirection:
		p, err := LineLine(a, b)
		return p, domain.MethodLineLine, err
	case a.Kind == domain.KindDistance:
		p, err := CircleLine(a, b, guess)
		return p, domain.MethodCircleLine, err
	default:
		p, err := CircleLine(b, a, guess)
		return p, domain.MethodCircleLine, err
	}
}

// CircleCircle intersects two distance observations.
func CircleCircle(c1, c2 domain.Observation, guess domain.Point) (domain.Point, error) {
	const op = "circle-circle intersection"
	if c1.Kind != domain.KindDistance || c2.Kind != domain.KindDistance {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrInvalidInput, "both observations must be distances")
	}

	r1, r2 := c1.Measured, c2.Measured
	d := c1.Origin.Dist(c2.Origin)

	if d <= concentricTolerance*math.Max(1, math.Max(r1, r2)) {
		if r1 == r2 {
			return domain.Point{}, domain.NewSolveError(op, domain.ErrNoIntersection,
				"circles %q and %q coincide", c1.ID, c2.ID)
		}
		return domain.Point{}, domain.NewSolveError(op, domain.ErrNoIntersection,
			"circles %q and %q are concentric", c1.ID, c2.ID)
	}
	if d > r1+r2 {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrNoIntersection,
			"circles %q and %q are separate (d=%g > r1+r2=%g)", c1.ID, c2.ID, d, r1+r2)
	}
	if d < math.Abs(r1-r2) {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrNoIntersection,
			"circles %q and %q are nested (d=%g < |r1-r2|=%g)", c1.ID, c2.ID, d, math.Abs(r1-r2))
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		// rounding near tangency
		h2 = 0
	}
	h := math.Sqrt(h2)

	u := c2.Origin.Sub(c1.Origin).Scale(1 / d)
	mid := c1.Origin.Add(u.Scale(a))
	if h <= tangentTolerance*math.Max(1, r1) {
		return mid, nil
	}

	perp := domain.Point{X: -u.Y, Y: u.X}
	return nearest(guess, mid.Add(perp.Scale(h)), mid.Sub(perp.Scale(h))), nil
}

// LineLine intersects two direction observations. Both sight lines are
// treated as full lines, so the intersection may lie behind a station.
func LineLine(l1, l2 domain.Observation) (domain.Point, error) {
	const op = "line-line intersection"
	if l1.Kind != domain.KindDirection || l2.Kind != domain.KindDirection {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrInvalidInput, "both observations must be directions")
	}

	u1 := l1.Direction()
	u2 := l2.Direction()

	// Solve O1 + t1·u1 = O2 + t2·u2 for t1 by Cramer's rule.
	det := u2.X*u1.Y - u1.X*u2.Y
	if math.Abs(det) <= parallelTolerance {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrParallelLines,
			"directions %q and %q are parallel", l1.ID, l2.ID)
	}

	b := l2.Origin.Sub(l1.Origin)
	t1 := (u2.X*b.Y - b.X*u2.Y) / det

	return l1.Origin.Add(u1.Scale(t1)), nil
}

// CircleLine intersects a distance observation with a direction observation.
func CircleLine(circle, line domain.Observation, guess domain.Point) (domain.Point, error) {
	const op = "circle-line intersection"
	if circle.Kind != domain.KindDistance || line.Kind != domain.KindDirection {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrInvalidInput, "need one distance and one direction")
	}

	// |O + t·u - C|² = r² with |u| = 1 gives t² + 2bt + c = 0.
	u := line.Direction()
	oc := line.Origin.Sub(circle.Origin)
	r := circle.Measured
	b := u.X*oc.X + u.Y*oc.Y
	c := oc.X*oc.X + oc.Y*oc.Y - r*r

	disc := b*b - c
	tol := discriminantTolerance * math.Max(1, r*r)
	if disc < -tol {
		return domain.Point{}, domain.NewSolveError(op, domain.ErrNoIntersection,
			"direction %q misses circle %q", line.ID, circle.ID)
	}
	if disc <= tol {
		return line.Origin.Add(u.Scale(-b)), nil
	}

	s := math.Sqrt(disc)
	p1 := line.Origin.Add(u.Scale(-b + s))
	p2 := line.Origin.Add(u.Scale(-b - s))
	return nearest(guess, p1, p2), nil
}

// nearest returns the candidate closer to guess, preferring a on ties.
func nearest(guess, a, b domain.Point) domain.Point {
	if guess.SqrDist(b) < guess.SqrDist(a) {
		return b
	}
	return a
}
