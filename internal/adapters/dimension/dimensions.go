// Package dimension renders solved points and their observations as GeoJSON
// features so a map client can draw the dimensions.
package dimension

import (
	"intersect-service/internal/domain"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const circleSegments = 64

// Dimensions builds a FeatureCollection holding the solved point followed by
// one feature per observation: a ring for a distance, a segment of
// orientationLength along the azimuth for a direction.
//
// Residuals are matched to observations by id; observations without a
// residual carry no "residual" property.
func Dimensions(sol domain.Solution, obs []domain.Observation, orientationLength float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	pt := geojson.NewFeature(orb.Point{sol.Point.X, sol.Point.Y})
	pt.Properties["role"] = "solution"
	pt.Properties["method"] = string(sol.Method)
	pt.Properties["converged"] = sol.Converged
	pt.Properties["iterations"] = sol.Iterations
	pt.Properties["reference_variance"] = sol.ReferenceVariance
	fc.Append(pt)

	residuals := make(map[string]float64, len(sol.Residuals))
	for _, r := range sol.Residuals {
		residuals[r.ObservationID] = r.Value
	}

	for _, o := range obs {
		f := geojson.NewFeature(observationGeometry(o, orientationLength))
		f.Properties["role"] = "observation"
		f.Properties["id"] = o.ID
		f.Properties["kind"] = string(o.Kind)
		f.Properties["measured"] = o.Measured
		f.Properties["precision"] = o.Precision
		if r, ok := residuals[o.ID]; ok {
			f.Properties["residual"] = r
		}
		fc.Append(f)
	}

	return fc
}

func observationGeometry(o domain.Observation, orientationLength float64) orb.Geometry {
	if o.Kind == domain.KindDistance {
		return circle(o.Origin, o.Measured)
	}
	end := o.Origin.Add(o.Direction().Scale(orientationLength))
	return orb.LineString{{o.Origin.X, o.Origin.Y}, {end.X, end.Y}}
}

// circle approximates a circle by a closed ring.
func circle(c domain.Point, r float64) orb.Ring {
	ring := make(orb.Ring, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		ring = append(ring, orb.Point{c.X + r*math.Sin(a), c.Y + r*math.Cos(a)})
	}
	return append(ring, ring[0])
}
