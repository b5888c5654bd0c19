package dimension

import (
	"encoding/json"
	"intersect-service/internal/domain"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDimensions(t *testing.T) {
	obs := []domain.Observation{
		{ID: "c", Kind: domain.KindDistance, Origin: domain.Point{X: 0, Y: 0}, Measured: 5, Precision: 0.025},
		{ID: "l", Kind: domain.KindDirection, Origin: domain.Point{X: 1, Y: 1}, Measured: math.Pi / 2, Precision: 0.01},
	}
	sol := domain.Solution{
		Point:     domain.Point{X: 3, Y: 4},
		Method:    domain.MethodCircleLine,
		Converged: true,
		Residuals: []domain.Residual{{ObservationID: "c", Value: 0.001}},
	}

	fc := Dimensions(sol, obs, 4)
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(fc.Features))
	}

	if p, ok := fc.Features[0].Geometry.(orb.Point); !ok || p != (orb.Point{3, 4}) {
		t.Fatalf("solution geometry = %v", fc.Features[0].Geometry)
	}

	ring, ok := fc.Features[1].Geometry.(orb.Ring)
	if !ok {
		t.Fatalf("distance geometry = %T, want orb.Ring", fc.Features[1].Geometry)
	}
	if len(ring) != circleSegments+1 || ring[0] != ring[len(ring)-1] {
		t.Fatalf("ring is not closed with %d points", circleSegments+1)
	}
	for _, p := range ring {
		if r := math.Hypot(p[0], p[1]); math.Abs(r-5) > 1e-9 {
			t.Fatalf("ring point %v off the circle: r = %g", p, r)
		}
	}
	if fc.Features[1].Properties["residual"] != 0.001 {
		t.Fatalf("residual property = %v", fc.Features[1].Properties["residual"])
	}

	line, ok := fc.Features[2].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("direction geometry = %T, want orb.LineString", fc.Features[2].Geometry)
	}
	if math.Abs(line[1][0]-5) > 1e-9 || math.Abs(line[1][1]-1) > 1e-9 {
		t.Fatalf("segment end = %v, want [5 1]", line[1])
	}
	if _, ok := fc.Features[2].Properties["residual"]; ok {
		t.Fatalf("direction without residual should not carry one")
	}

	if _, err := json.Marshal(fc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}
