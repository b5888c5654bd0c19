package services

import (
	"fmt"
	"intersect-service/internal/domain"
	"strings"
	"text/tabwriter"
)

// FormatReport renders the residual report of a completed solution: one line
// per observation followed by a summary line. Angles are in radians.
func FormatReport(sol domain.Solution) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "id\tkind\tmeasured\tcomputed\tresidual\tweight")
	for _, r := range sol.Residuals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.6g\n",
			r.ObservationID, r.Kind,
			formatValue(r.Kind, r.Measured),
			formatValue(r.Kind, r.Computed),
			formatValue(r.Kind, r.Value),
			r.Weight,
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(&sb, "method=%s iterations=%d reference_variance=%.6g converged=%t\n",
		sol.Method, sol.Iterations, sol.ReferenceVariance, sol.Converged)
	fmt.Fprintf(&sb, "point x=%.4f y=%.4f\n", sol.Point.X, sol.Point.Y)

	return sb.String()
}

func formatValue(kind domain.Kind, v float64) string {
	if kind == domain.KindDirection {
		return fmt.Sprintf("%.7f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
