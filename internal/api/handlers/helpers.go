package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"intersect-service/internal/api/dto"
	"intersect-service/internal/domain"
	"intersect-service/internal/services"
	"io"
	"log"
	"net/http"
)

// Cap request bodies; observation lists are small.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeSolveError maps the solver error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error and is only logged.
func writeSolveError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoIntersection),
		errors.Is(err, domain.ErrParallelLines),
		errors.Is(err, domain.ErrSingularSystem),
		errors.Is(err, domain.ErrNonConvergence):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, status, "internal server error")
		return
	}

	writeJSON(w, r, status, map[string]string{"error": err.Error(), "kind": kindName(kind)})
}

func kindName(kind error) string {
	switch kind {
	case domain.ErrInvalidInput:
		return "invalid_input"
	case domain.ErrNoIntersection:
		return "no_intersection"
	case domain.ErrParallelLines:
		return "parallel_lines"
	case domain.ErrSingularSystem:
		return "singular_system"
	case domain.ErrNonConvergence:
		return "non_convergence"
	}
	return "internal"
}

// decodeJSON reads exactly one JSON object with no unknown fields into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func toObservations(in []dto.ObservationDTO, cfg domain.SolverConfig) ([]domain.Observation, error) {
	out := make([]domain.Observation, 0, len(in))
	for i, o := range in {
		kind, err := domain.ParseKind(o.Kind)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i+1, err)
		}
		out = append(out, cfg.FillPrecision(domain.Observation{
			ID:        o.ID,
			Kind:      kind,
			Origin:    domain.Point{X: o.X, Y: o.Y},
			Measured:  o.Measured,
			Precision: o.Precision,
		}))
	}
	return out, nil
}

// toGuess falls back to the station centroid when the client sent no guess.
func toGuess(p *dto.PointDTO, obs []domain.Observation) domain.Point {
	if p == nil {
		return services.StationCentroid(obs)
	}
	return domain.Point{X: p.X, Y: p.Y}
}

func toObservationDTO(o domain.Observation) dto.ObservationDTO {
	return dto.ObservationDTO{
		ID:        o.ID,
		Kind:      string(o.Kind),
		X:         o.Origin.X,
		Y:         o.Origin.Y,
		Measured:  o.Measured,
		Precision: o.Precision,
	}
}

func toSolutionResponse(sol domain.Solution) dto.SolutionResponse {
	res := dto.SolutionResponse{
		Point:             dto.PointDTO{X: sol.Point.X, Y: sol.Point.Y},
		Method:            string(sol.Method),
		Converged:         sol.Converged,
		Iterations:        sol.Iterations,
		ReferenceVariance: sol.ReferenceVariance,
		Residuals:         make([]dto.ResidualResponse, 0, len(sol.Residuals)),
		Report:            sol.Report,
	}
	for _, r := range sol.Residuals {
		res.Residuals = append(res.Residuals, dto.ResidualResponse{
			ObservationID: r.ObservationID,
			Kind:          string(r.Kind),
			Measured:      r.Measured,
			Computed:      r.Computed,
			Residual:      r.Value,
			Weight:        r.Weight,
		})
	}
	return res
}
