package services

import (
	"intersect-service/internal/domain"
	"strings"
	"testing"
)

func TestFormatReport(t *testing.T) {
	sol := domain.Solution{
		Point:      domain.Point{X: 3, Y: 4},
		Method:     domain.MethodLeastSquares,
		Converged:  false,
		Iterations: 15,
		Residuals: []domain.Residual{
			{ObservationID: "d1", Kind: domain.KindDistance, Measured: 5, Computed: 4.99, Value: 0.01, Weight: 1600},
			{ObservationID: "o1", Kind: domain.KindDirection, Measured: 0.5, Computed: 0.4999, Value: 0.0001, Weight: 4},
		},
		ReferenceVariance: 0.25,
	}

	report := FormatReport(sol)
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("report has %d lines, want 5:\n%s", len(lines), report)
	}

	if !strings.HasPrefix(lines[1], "d1") || !strings.Contains(lines[1], "distance") || !strings.Contains(lines[1], "0.0100") {
		t.Errorf("distance line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "o1") || !strings.Contains(lines[2], "0.0001000") {
		t.Errorf("direction line = %q", lines[2])
	}
	want := "method=least-squares iterations=15 reference_variance=0.25 converged=false"
	if lines[3] != want {
		t.Errorf("summary = %q, want %q", lines[3], want)
	}
}
