package handlers

import (
	"errors"
	"intersect-service/internal/api/dto"
	"intersect-service/internal/domain"
	"intersect-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

// ObservationHandler lists and stores field observations.
type ObservationHandler struct {
	Repo   ports.ObservationRepository
	Config domain.SolverConfig
}

func (h *ObservationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost+", "+http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ObservationHandler) list(w http.ResponseWriter, r *http.Request) {
	obs, err := h.Repo.ListObservations(r.Context())
	if err != nil {
		log.Printf("list observations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListObservationsResponse{Observations: make([]dto.ObservationDTO, 0, len(obs))}
	for _, o := range obs {
		res.Observations = append(res.Observations, toObservationDTO(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ObservationHandler) save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveObservationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Observations) == 0 {
		writeError(w, r, http.StatusBadRequest, "observations are required")
		return
	}

	obs, err := toObservations(req.Observations, h.Config)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	for _, o := range obs {
		if o.ID == "" {
			writeError(w, r, http.StatusBadRequest, "observation id is required")
			return
		}
		if err := o.Validate(); err != nil {
			writeSolveError(w, r, "save observations", err)
			return
		}
	}

	if err := h.Repo.SaveObservations(r.Context(), obs); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeSolveError(w, r, "save observations", err)
			return
		}
		log.Printf("save observations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListObservationsResponse{Observations: make([]dto.ObservationDTO, 0, len(obs))}
	for _, o := range obs {
		res.Observations = append(res.Observations, toObservationDTO(o))
	}
	writeJSON(w, r, http.StatusCreated, res)
}

// delete removes the observations named by repeated ?id= parameters, or all
// observations when none is given.
func (h *ObservationHandler) delete(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range r.URL.Query()["id"] {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	n, err := h.Repo.DeleteObservations(r.Context(), ids)
	if err != nil {
		log.Printf("delete observations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeleteObservationsResponse{Deleted: n})
}
