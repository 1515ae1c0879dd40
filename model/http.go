package model

type DecodeResponse struct {
	FileId       string        `json:"file_id"`
	Notes        []Note        `json:"notes"`
	Duration     float64       `json:"duration"`
	TempoChanges []TempoChange `json:"tempo_changes"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
