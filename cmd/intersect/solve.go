package main

import (
	"fmt"
	"intersect-service/internal/adapters/dimension"
	"intersect-service/internal/config"
	"intersect-service/internal/domain"
	"intersect-service/internal/services"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	solveConfigPath    string
	solveGuess         string
	solveMaxIterations int
	solveThreshold     float64
	solveGeoJSONPath   string
	solveStrict        bool
)

func init() {
	solveCmd.Flags().StringVar(&solveConfigPath, "config", "", "TOML file with a [solver] table")
	solveCmd.Flags().StringVar(&solveGuess, "guess", "", "initial guess as x,y (default: file guess or station centroid)")
	solveCmd.Flags().IntVar(&solveMaxIterations, "max-iterations", 0, "override the iteration cap")
	solveCmd.Flags().Float64Var(&solveThreshold, "threshold", 0, "override the convergence threshold")
	solveCmd.Flags().StringVar(&solveGeoJSONPath, "geojson", "", "write the solution and dimensions as GeoJSON to this path")
	solveCmd.Flags().BoolVar(&solveStrict, "strict", false, "fail when the adjustment did not converge")
}

var solveCmd = &cobra.Command{
	Use:   "solve FILE",
	Short: "Solve an observation file and print the residual report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := domain.DefaultSolverConfig()

		var err error
		if solveConfigPath != "" {
			if cfg, err = config.LoadSolverFile(solveConfigPath, cfg); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("max-iterations") {
			cfg.MaxIterations = solveMaxIterations
		}
		if cmd.Flags().Changed("threshold") {
			cfg.ConvergenceThreshold = solveThreshold
		}

		p, err := readProblem(args[0], cfg)
		if err != nil {
			return err
		}

		guess := services.StationCentroid(p.Observations)
		if p.HasGuess {
			guess = p.Guess
		}
		if solveGuess != "" {
			if guess, err = parsePoint(solveGuess); err != nil {
				return fmt.Errorf("--guess: %w", err)
			}
		}

		sol, err := services.Solve(p.Observations, guess, cfg)
		if err != nil {
			return err
		}

		printSolution(cmd.OutOrStdout(), sol, useColor(cmd))

		if solveGeoJSONPath != "" {
			if err := writeGeoJSON(solveGeoJSONPath, sol, p.Observations, cfg); err != nil {
				return err
			}
		}

		if solveStrict {
			return sol.RequireConverged()
		}
		return nil
	},
}

func printSolution(w io.Writer, sol domain.Solution, colored bool) {
	status := color.New(color.FgGreen, color.Bold)
	label := "converged"
	if !sol.Converged {
		status = color.New(color.FgYellow, color.Bold)
		label = "not converged"
	}
	if !colored {
		status.DisableColor()
	}

	fmt.Fprint(w, sol.Report)
	fmt.Fprintf(w, "%s (%s)\n", status.Sprint(label), sol.Method)
}

func writeGeoJSON(path string, sol domain.Solution, obs []domain.Observation, cfg domain.SolverConfig) error {
	b, err := dimension.Dimensions(sol, obs, cfg.OrientationLength).MarshalJSON()
	if err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
