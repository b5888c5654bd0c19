package ports

import (
	"context"
	"intersect-service/internal/domain"
)

// Port: a boundary for storing and retrieving field observations.
type ObservationRepository interface {
	// Return all stored observations ordered by id.
	ListObservations(ctx context.Context) ([]domain.Observation, error)
	// Return the observations with the given ids. Unknown ids are absent from the map.
	GetObservations(ctx context.Context, ids []string) (map[string]domain.Observation, error)
	// Insert or replace observations by id.
	SaveObservations(ctx context.Context, obs []domain.Observation) error
	// Remove the observations with the given ids, or every observation when
	// ids is empty. Return how many were removed.
	DeleteObservations(ctx context.Context, ids []string) (int64, error)
}
