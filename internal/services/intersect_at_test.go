package services

import (
	"context"
	"errors"
	"intersect-service/internal/adapters/repositories"
	"intersect-service/internal/domain"
	"testing"
)

func TestIntersectAtSolvesAndPersists(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository([]domain.Observation{
		dist("c1", 0, 0, 5),
		dist("c2", 6, 0, 5),
		dist("unrelated", 500, 500, 10),
	})
	store := repositories.NewMemorySolutionRepository()

	req := IntersectAtRequest{At: domain.Point{X: 3.1, Y: 3.9}, Tolerance: 0.5, Persist: true}
	res, err := IntersectAt(context.Background(), req, repo, store, domain.DefaultSolverConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Observations) != 2 {
		t.Fatalf("selected %d observations, want 2", len(res.Observations))
	}
	assertPoint(t, res.Solution.Point, domain.Point{X: 3, Y: 4}, 1e-9)
	if res.SolutionID == 0 {
		t.Fatalf("expected a persisted solution id")
	}

	stored, err := store.GetSolution(context.Background(), res.SolutionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Solution.Report != res.Solution.Report {
		t.Fatalf("stored report differs from the returned one")
	}
}

func TestIntersectAtNeedsTwoObservations(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository([]domain.Observation{dist("c1", 0, 0, 5)})

	req := IntersectAtRequest{At: domain.Point{X: 3, Y: 4}, Tolerance: 0.5}
	_, err := IntersectAt(context.Background(), req, repo, nil, domain.DefaultSolverConfig())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestIntersectAtWithoutPersistence(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository([]domain.Observation{
		dist("c1", 0, 0, 5),
		dist("c2", 6, 0, 5),
	})

	req := IntersectAtRequest{At: domain.Point{X: 3, Y: -4}, Tolerance: 0.5}
	res, err := IntersectAt(context.Background(), req, repo, nil, domain.DefaultSolverConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SolutionID != 0 {
		t.Fatalf("solution id = %d, want 0", res.SolutionID)
	}
	assertPoint(t, res.Solution.Point, domain.Point{X: 3, Y: -4}, 1e-9)
}
