package main

import "time"

// MaxUploadBytes caps the multipart upload size (~100 MB covers long
// lossless files).
const MaxUploadBytes = 100 << 20

// DetectResponse is the response for POST /api/detect.
type DetectResponse struct {
	BPM             float64 `json:"bpm"`
	Filename        string  `json:"filename"`
	Confidence      float64 `json:"confidence"`
	SampleRate      int     `json:"sample_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
	AnalysisID      string  `json:"analysis_id,omitempty"`
}

// AnalysisDTO represents a stored analysis in API responses.
type AnalysisDTO struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	BPM             float64   `json:"bpm"`
	Confidence      float64   `json:"confidence"`
	SampleRate      int       `json:"sample_rate"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListAnalysesResponse is the response for GET /api/analyses.
type ListAnalysesResponse struct {
	Analyses []AnalysisDTO `json:"analyses"`
	Count    int           `json:"count"`
}

// DeleteAnalysisResponse is the response for DELETE /api/analyses/{id}.
type DeleteAnalysisResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MetricsResponse provides server health and history metrics.
type MetricsResponse struct {
	Status        string `json:"status"`
	DatabasePath  string `json:"database_path"`
	AnalysisCount int64  `json:"analysis_count"`
	AnalysisRate  int    `json:"analysis_rate"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
