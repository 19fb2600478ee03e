package beatscan

import "time"

// AnalysisRecord is a completed tempo analysis as stored in history.
type AnalysisRecord struct {
	ID              string
	Filename        string
	BPM             float64
	Confidence      float64
	SampleRate      int
	DurationSeconds float64
	CreatedAt       time.Time
}
