package dto

import "time"

type PointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SolveRequest struct {
	Observations []ObservationDTO `json:"observations"`
	// Optional; the centroid of the stations when absent.
	Guess            *PointDTO `json:"guess"`
	RequireConverged bool      `json:"require_converged"`
}

type SolveProblem struct {
	Observations []ObservationDTO `json:"observations"`
	Guess        *PointDTO        `json:"guess"`
}

type BatchSolveRequest struct {
	Problems []SolveProblem `json:"problems"`
}

type IntersectRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tolerance float64 `json:"tolerance"`
	Persist   bool    `json:"persist"`
}

type ResidualResponse struct {
	ObservationID string  `json:"observation_id"`
	Kind          string  `json:"kind"`
	Measured      float64 `json:"measured"`
	Computed      float64 `json:"computed"`
	Residual      float64 `json:"residual"`
	Weight        float64 `json:"weight"`
}

type SolutionResponse struct {
	ID                int64              `json:"id,omitempty"`
	CreatedAt         *time.Time         `json:"created_at,omitempty"`
	Point             PointDTO           `json:"point"`
	Method            string             `json:"method"`
	Converged         bool               `json:"converged"`
	Iterations        int                `json:"iterations"`
	ReferenceVariance float64            `json:"reference_variance"`
	Residuals         []ResidualResponse `json:"residuals"`
	Report            string             `json:"report"`
}

type BatchResultResponse struct {
	Solution *SolutionResponse `json:"solution,omitempty"`
	Error    string            `json:"error,omitempty"`
	Kind     string            `json:"kind,omitempty"`
}

type BatchSolveResponse struct {
	Results []BatchResultResponse `json:"results"`
}
