package handlers

import (
	"context"
	"errors"
	"intersect-service/internal/api/dto"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"intersect-service/internal/services"
	"log"
	"net/http"
	"time"
)

const (
	maxBatchProblems = 100
	batchTimeout     = 30 * time.Second
)

// SolveHandler solves observation sets posted by the client.
// Cache is optional.
type SolveHandler struct {
	Config domain.SolverConfig
	Cache  ports.SolutionCache
}

func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	obs, err := toObservations(req.Observations, h.Config)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sol, err := services.CachedSolve(r.Context(), h.Cache, obs, toGuess(req.Guess, obs), h.Config)
	if err != nil {
		writeSolveError(w, r, "solve", err)
		return
	}
	if req.RequireConverged {
		if err := sol.RequireConverged(); err != nil {
			writeSolveError(w, r, "solve", err)
			return
		}
	}

	writeJSON(w, r, http.StatusOK, toSolutionResponse(sol))
}

func (h *SolveHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.BatchSolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Problems) == 0 {
		writeError(w, r, http.StatusBadRequest, "problems are required")
		return
	}
	if len(req.Problems) > maxBatchProblems {
		writeError(w, r, http.StatusBadRequest, "too many problems")
		return
	}

	problems := make([]services.Problem, 0, len(req.Problems))
	for _, p := range req.Problems {
		obs, err := toObservations(p.Observations, h.Config)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		problems = append(problems, services.Problem{
			Observations: obs,
			Guess:        toGuess(p.Guess, obs),
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), batchTimeout)
	defer cancel()

	results, err := services.SolveBatch(ctx, problems, h.Config)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, r, http.StatusGatewayTimeout, "batch timed out")
			return
		}
		log.Printf("solve batch failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.BatchSolveResponse{Results: make([]dto.BatchResultResponse, 0, len(results))}
	for _, br := range results {
		if br.Err != nil {
			res.Results = append(res.Results, dto.BatchResultResponse{
				Error: br.Err.Error(),
				Kind:  kindName(domain.KindOf(br.Err)),
			})
			continue
		}
		sol := toSolutionResponse(br.Solution)
		res.Results = append(res.Results, dto.BatchResultResponse{Solution: &sol})
	}

	writeJSON(w, r, http.StatusOK, res)
}
