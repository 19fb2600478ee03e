package beatscan

import (
	"context"

	"github.com/rootsai/beatscan/internal/storage"
)

// Service is the public surface consumed by the HTTP server and the CLI.
type Service interface {
	// AnalyzeFile decodes an audio file, runs tempo detection, records
	// the run in history, and returns the record. originalName is the
	// user-facing filename (uploads land on disk under generated names).
	AnalyzeFile(ctx context.Context, audioPath, originalName string) (*AnalysisRecord, error)
	GetAnalysis(id string) (*AnalysisRecord, error)
	ListAnalyses() ([]AnalysisRecord, error)
	DeleteAnalysis(id string) error
	CountAnalyses() (int64, error)
	Close() error
}

// Storage is the history persistence surface, satisfied by
// internal/storage and replaceable in tests.
type Storage interface {
	RecordAnalysis(filename string, bpm, confidence float64, sampleRate int, durationSeconds float64) (string, error)
	GetAnalysisByID(id string) (*storage.Analysis, error)
	ListAnalyses() ([]storage.Analysis, error)
	DeleteAnalysisByID(id string) error
	CountAnalyses() (int64, error)
	Close() error
}

// Logger is the logging surface injected into the service.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
