package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"log"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the solver output for identical inputs may change.
const cacheKeyVersion = 1

type cacheKeyPayload struct {
	Version      int
	Observations []domain.Observation
	Guess        domain.Point
	Config       domain.SolverConfig
}

// CacheKey digests the inputs of a solve call. Solving is deterministic, so
// equal keys always map to equal solutions.
func CacheKey(obs []domain.Observation, guess domain.Point, cfg domain.SolverConfig) (string, error) {
	b, err := msgpack.Marshal(cacheKeyPayload{
		Version:      cacheKeyVersion,
		Observations: obs,
		Guess:        guess,
		Config:       cfg,
	})
	if err != nil {
		return "", fmt.Errorf("cache key: encode inputs: %w", err)
	}
	sum := sha256.Sum256(b)
	return "solution:" + hex.EncodeToString(sum[:]), nil
}

// CachedSolve wraps Solve with a memoizing cache.
//
// Cache failures are logged and never fail the solve. Solve errors are not cached.
func CachedSolve(
	ctx context.Context,
	cache ports.SolutionCache,
	obs []domain.Observation,
	guess domain.Point,
	cfg domain.SolverConfig,
) (domain.Solution, error) {
	if cache == nil {
		return Solve(obs, guess, cfg)
	}

	key, err := CacheKey(obs, guess, cfg)
	if err != nil {
		log.Printf("solution cache: %v", err)
		return Solve(obs, guess, cfg)
	}

	if sol, ok, err := cache.Get(ctx, key); err != nil {
		log.Printf("solution cache: get key=%s err=%v", key, err)
	} else if ok {
		return sol, nil
	}

	sol, err := Solve(obs, guess, cfg)
	if err != nil {
		return domain.Solution{}, err
	}

	if err := cache.Put(ctx, key, sol); err != nil {
		log.Printf("solution cache: put key=%s err=%v", key, err)
	}
	return sol, nil
}
