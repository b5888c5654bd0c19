package dto

type ObservationDTO struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Measured  float64 `json:"measured"`
	Precision float64 `json:"precision"`
}

type ListObservationsResponse struct {
	Observations []ObservationDTO `json:"observations"`
}

type SaveObservationsRequest struct {
	Observations []ObservationDTO `json:"observations"`
}

type DeleteObservationsResponse struct {
	Deleted int64 `json:"deleted"`
}
