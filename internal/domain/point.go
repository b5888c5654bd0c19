package domain

import "math"

// Point is a planar position in map units.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// SqrDist returns the squared distance to q.
func (p Point) SqrDist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Azimuth returns the grid bearing from p to q in radians, clockwise from north.
func (p Point) Azimuth(q Point) float64 { return math.Atan2(q.X-p.X, q.Y-p.Y) }

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
