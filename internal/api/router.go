package api

import (
	"intersect-service/internal/api/handlers"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"net/http"
)

// Deps are the adapters the HTTP surface is wired to.
// Store and Cache are optional.
type Deps struct {
	Observations ports.ObservationRepository
	Store        ports.SolutionRepository
	Cache        ports.SolutionCache
	Config       domain.SolverConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	obsHandler := &handlers.ObservationHandler{Repo: deps.Observations, Config: deps.Config}
	solveHandler := &handlers.SolveHandler{Config: deps.Config, Cache: deps.Cache}
	intersectHandler := &handlers.IntersectionHandler{
		Repo:   deps.Observations,
		Store:  deps.Store,
		Config: deps.Config,
	}
	solutionHandler := &handlers.SolutionHandler{
		Store:  deps.Store,
		Repo:   deps.Observations,
		Config: deps.Config,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/observations", obsHandler.Handle)
	mux.HandleFunc("/solve", solveHandler.Solve)
	mux.HandleFunc("/solve/batch", solveHandler.Batch)
	mux.HandleFunc("/intersections", intersectHandler.Intersect)
	mux.HandleFunc("GET /solutions/{id}", solutionHandler.Get)
	mux.HandleFunc("GET /solutions/{id}/geojson", solutionHandler.GeoJSON)

	return loggingMiddleware(mux)
}
