package config

import (
	"fmt"
	"intersect-service/internal/domain"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a .env file when present. Missing files are not an error.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

// SolverFromEnv builds a SolverConfig from SOLVER_* variables on top of the defaults.
func SolverFromEnv() (domain.SolverConfig, error) {
	cfg := domain.DefaultSolverConfig()

	var err error
	if cfg.MaxIterations, err = getInt("SOLVER_MAX_ITERATIONS", cfg.MaxIterations); err != nil {
		return domain.SolverConfig{}, err
	}
	if cfg.ConvergenceThreshold, err = getFloat("SOLVER_CONVERGENCE_THRESHOLD", cfg.ConvergenceThreshold); err != nil {
		return domain.SolverConfig{}, err
	}
	if cfg.DefaultPrecisionDistance, err = getFloat("SOLVER_DEFAULT_PRECISION_DISTANCE", cfg.DefaultPrecisionDistance); err != nil {
		return domain.SolverConfig{}, err
	}
	if cfg.DefaultPrecisionOrientation, err = getFloat("SOLVER_DEFAULT_PRECISION_ORIENTATION", cfg.DefaultPrecisionOrientation); err != nil {
		return domain.SolverConfig{}, err
	}
	if cfg.OrientationLength, err = getFloat("SOLVER_ORIENTATION_LENGTH", cfg.OrientationLength); err != nil {
		return domain.SolverConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.SolverConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// solverFile mirrors the [solver] table of a TOML settings file.
type solverFile struct {
	Solver struct {
		MaxIterations               *int     `toml:"max_iterations"`
		ConvergenceThreshold        *float64 `toml:"convergence_threshold"`
		DefaultPrecisionDistance    *float64 `toml:"default_precision_distance"`
		DefaultPrecisionOrientation *float64 `toml:"default_precision_orientation"`
		OrientationLength           *float64 `toml:"orientation_length"`
	} `toml:"solver"`
}

// LoadSolverFile overlays the [solver] table of a TOML file on base.
// Keys absent from the file keep their base value.
func LoadSolverFile(path string, base domain.SolverConfig) (domain.SolverConfig, error) {
	var f solverFile
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return domain.SolverConfig{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return domain.SolverConfig{}, fmt.Errorf("config: %q: unknown key %q", path, undecoded[0].String())
	}

	cfg := base
	s := f.Solver
	if s.MaxIterations != nil {
		cfg.MaxIterations = *s.MaxIterations
	}
	if s.ConvergenceThreshold != nil {
		cfg.ConvergenceThreshold = *s.ConvergenceThreshold
	}
	if s.DefaultPrecisionDistance != nil {
		cfg.DefaultPrecisionDistance = *s.DefaultPrecisionDistance
	}
	if s.DefaultPrecisionOrientation != nil {
		cfg.DefaultPrecisionOrientation = *s.DefaultPrecisionOrientation
	}
	if s.OrientationLength != nil {
		cfg.OrientationLength = *s.OrientationLength
	}

	if err := cfg.Validate(); err != nil {
		return domain.SolverConfig{}, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}
