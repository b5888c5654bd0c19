package handlers

import (
	"errors"
	"intersect-service/internal/adapters/dimension"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"log"
	"net/http"
	"strconv"
)

// SolutionHandler serves persisted intersection points.
type SolutionHandler struct {
	Store  ports.SolutionRepository
	Repo   ports.ObservationRepository
	Config domain.SolverConfig
}

func (h *SolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.load(w, r)
	if !ok {
		return
	}

	res := toSolutionResponse(stored.Solution)
	res.ID = stored.ID
	createdAt := stored.CreatedAt
	res.CreatedAt = &createdAt
	writeJSON(w, r, http.StatusOK, res)
}

// GeoJSON returns the solved point with the dimension geometry of the
// observations that produced it. Observations deleted since are skipped.
func (h *SolutionHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.load(w, r)
	if !ok {
		return
	}

	ids := make([]string, 0, len(stored.Solution.Residuals))
	for _, res := range stored.Solution.Residuals {
		ids = append(ids, res.ObservationID)
	}

	var obs []domain.Observation
	if h.Repo != nil && len(ids) > 0 {
		byID, err := h.Repo.GetObservations(r.Context(), ids)
		if err != nil {
			log.Printf("get observations failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		for _, id := range ids {
			if o, ok := byID[id]; ok {
				obs = append(obs, o)
			}
		}
	}

	fc := dimension.Dimensions(stored.Solution, obs, h.Config.OrientationLength)
	b, err := fc.MarshalJSON()
	if err != nil {
		log.Printf("encode geojson failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func (h *SolutionHandler) load(w http.ResponseWriter, r *http.Request) (ports.StoredSolution, bool) {
	if h.Store == nil {
		writeError(w, r, http.StatusNotFound, "persistence is not configured")
		return ports.StoredSolution{}, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid solution id")
		return ports.StoredSolution{}, false
	}

	stored, err := h.Store.GetSolution(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "solution not found")
			return ports.StoredSolution{}, false
		}
		log.Printf("get solution failed: id=%d err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return ports.StoredSolution{}, false
	}
	return stored, true
}
