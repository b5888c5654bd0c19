package main

import (
	"encoding/json"
	"fmt"
	"intersect-service/internal/adapters/repositories"
	"intersect-service/internal/domain"
	"os"
)

// loadSeed reads a JSON observation seed for the in-memory store.
// An empty path yields no observations.
func loadSeed(path string, cfg domain.SolverConfig) ([]domain.Observation, error) {
	if path == "" {
		return nil, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var seeds []repositories.ObservationSeed
	if err := json.Unmarshal(b, &seeds); err != nil {
		return nil, fmt.Errorf("load seed: parse %q: %w", path, err)
	}

	return repositories.ParseObservationSeeds(seeds, cfg)
}
