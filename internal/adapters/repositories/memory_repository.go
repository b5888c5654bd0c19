package repositories

import (
	"context"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"slices"
	"strings"
	"sync"
	"time"
)

// In-memory ObservationRepository used by the CLI and in tests.
type MemoryObservationRepository struct {
	mu  sync.RWMutex
	obs map[string]domain.Observation
}

func NewMemoryObservationRepository(seed []domain.Observation) *MemoryObservationRepository {
	r := &MemoryObservationRepository{obs: make(map[string]domain.Observation, len(seed))}
	for _, o := range seed {
		r.obs[o.ID] = o
	}
	return r
}

func (r *MemoryObservationRepository) ListObservations(ctx context.Context) ([]domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Observation, 0, len(r.obs))
	for _, o := range r.obs {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b domain.Observation) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *MemoryObservationRepository) GetObservations(ctx context.Context, ids []string) (map[string]domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.Observation, len(ids))
	for _, id := range ids {
		if o, ok := r.obs[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

func (r *MemoryObservationRepository) SaveObservations(ctx context.Context, obs []domain.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range obs {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("save observations: empty observation id")
		}
		r.obs[o.ID] = o
	}
	return nil
}

func (r *MemoryObservationRepository) DeleteObservations(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) == 0 {
		n := int64(len(r.obs))
		clear(r.obs)
		return n, nil
	}

	var n int64
	for _, id := range ids {
		if _, ok := r.obs[id]; ok {
			delete(r.obs, id)
			n++
		}
	}
	return n, nil
}

// In-memory SolutionRepository used when no database is configured.
type MemorySolutionRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]ports.StoredSolution
}

func NewMemorySolutionRepository() *MemorySolutionRepository {
	return &MemorySolutionRepository{items: make(map[int64]ports.StoredSolution)}
}

func (r *MemorySolutionRepository) SaveSolution(ctx context.Context, sol domain.Solution) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sol.Residuals = slices.Clone(sol.Residuals)
	r.items[r.nextID] = ports.StoredSolution{ID: r.nextID, CreatedAt: time.Now().UTC(), Solution: sol}
	return r.nextID, nil
}

func (r *MemorySolutionRepository) GetSolution(ctx context.Context, id int64) (ports.StoredSolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return ports.StoredSolution{}, fmt.Errorf("get solution id=%d: %w", id, ports.ErrNotFound)
	}
	return s, nil
}
