package services

import (
	"intersect-service/internal/domain"
	"math"
)

// WrapAngle maps a into (-π, π].
func WrapAngle(a float64) float64 {
	w := math.Mod(a, 2*math.Pi)
	if w <= -math.Pi {
		w += 2 * math.Pi
	} else if w > math.Pi {
		w -= 2 * math.Pi
	}
	return w
}

// computed returns the value observation o would measure from p.
func computed(o domain.Observation, p domain.Point) float64 {
	if o.Kind == domain.KindDistance {
		return o.Origin.Dist(p)
	}
	return o.Origin.Azimuth(p)
}

// nativeResidual returns measured minus computed in the observation's unit.
// Direction residuals are wrapped into (-π, π].
func nativeResidual(o domain.Observation, p domain.Point) (computedValue, residual float64) {
	c := computed(o, p)
	if o.Kind == domain.KindDistance {
		return c, o.Measured - c
	}
	return c, WrapAngle(o.Measured - c)
}

// linearRow is one observation equation expressed in map units:
// the partial derivatives of the computed value, the residual and its weight.
type linearRow struct {
	ax, ay   float64
	residual float64
	weight   float64
}

// linearize expresses observation o at estimate p as a linear-equivalent
// equation. Directions are scaled by the station distance d: the residual
// becomes r·d, the partials become the unit normal to the sight line and
// the precision becomes σ·d. The weighted square w·r² is therefore the same
// in both unit systems. ok is false when p coincides with the station.
func linearize(o domain.Observation, p domain.Point) (row linearRow, ok bool) {
	dx := p.X - o.Origin.X
	dy := p.Y - o.Origin.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return linearRow{}, false
	}

	_, r := nativeResidual(o, p)
	if o.Kind == domain.KindDistance {
		return linearRow{
			ax:       dx / d,
			ay:       dy / d,
			residual: r,
			weight:   o.Weight(),
		}, true
	}

	sigma := o.Precision * d
	return linearRow{
		ax:       dy / d,
		ay:       -dx / d,
		residual: r * d,
		weight:   1 / (sigma * sigma),
	}, true
}
