package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"intersect-service/internal/adapters/repositories"
	"intersect-service/internal/domain"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// problemFile is an observation file for offline solving.
//
// TOML files list observations as [[observation]] tables; JSON files are
// either the same object or a bare array of observations.
type problemFile struct {
	Guess        *[2]float64                    `json:"guess" toml:"guess"`
	Observations []repositories.ObservationSeed `json:"observations" toml:"observation"`
}

type problem struct {
	Observations []domain.Observation
	Guess        domain.Point
	HasGuess     bool
}

func readProblem(path string, cfg domain.SolverConfig) (problem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return problem{}, fmt.Errorf("read problem: %w", err)
	}

	var f problemFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(b), &f)
		if err != nil {
			return problem{}, fmt.Errorf("read problem: decode %q: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return problem{}, fmt.Errorf("read problem: %q: unknown key %q", path, undecoded[0].String())
		}
	default:
		trimmed := bytes.TrimSpace(b)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &f.Observations)
		} else {
			err = json.Unmarshal(trimmed, &f)
		}
		if err != nil {
			return problem{}, fmt.Errorf("read problem: decode %q: %w", path, err)
		}
	}

	obs, err := repositories.ParseObservationSeeds(f.Observations, cfg)
	if err != nil {
		return problem{}, fmt.Errorf("read problem: %q: %w", path, err)
	}

	p := problem{Observations: obs}
	if f.Guess != nil {
		p.Guess = domain.Point{X: f.Guess[0], Y: f.Guess[1]}
		p.HasGuess = true
	}
	return p, nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (domain.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return domain.Point{X: x, Y: y}, nil
}
