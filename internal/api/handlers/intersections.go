package handlers

import (
	"intersect-service/internal/api/dto"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"intersect-service/internal/services"
	"net/http"
)

// IntersectionHandler solves the stored observations drawn near a point.
// Store may be nil, in which case persist requests are refused.
type IntersectionHandler struct {
	Repo   ports.ObservationRepository
	Store  ports.SolutionRepository
	Config domain.SolverConfig
}

func (h *IntersectionHandler) Intersect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.IntersectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Persist && h.Store == nil {
		writeError(w, r, http.StatusBadRequest, "persistence is not configured")
		return
	}

	res, err := services.IntersectAt(r.Context(), services.IntersectAtRequest{
		At:        domain.Point{X: req.X, Y: req.Y},
		Tolerance: req.Tolerance,
		Persist:   req.Persist,
	}, h.Repo, h.Store, h.Config)
	if err != nil {
		writeSolveError(w, r, "intersect", err)
		return
	}

	out := toSolutionResponse(res.Solution)
	out.ID = res.SolutionID
	status := http.StatusOK
	if res.SolutionID != 0 {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, out)
}
