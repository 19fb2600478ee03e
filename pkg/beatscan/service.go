// Package beatscan exposes the tempo-detection service: decode an audio
// file, run the analysis pipeline, and keep a history of results.
package beatscan

import (
	"context"
	"fmt"
	"time"

	"github.com/rootsai/beatscan/internal/audio"
	"github.com/rootsai/beatscan/internal/storage"
	"github.com/rootsai/beatscan/internal/tempo"
	"github.com/rootsai/beatscan/pkg/logger"
)

// bpmService is the default implementation of the Service interface.
type bpmService struct {
	analyzer *tempo.Analyzer
	storage  Storage
	log      Logger
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	analyzer, err := tempo.NewAnalyzer(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	stor := cfg.Storage
	if stor == nil {
		stor, err = storage.NewDBClient(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &bpmService{
		analyzer: analyzer,
		storage:  stor,
		log:      cfg.Logger,
		config:   cfg,
	}, nil
}

// AnalyzeFile runs the full path from audio file to stored result.
func (s *bpmService) AnalyzeFile(ctx context.Context, audioPath, originalName string) (*AnalysisRecord, error) {
	s.log.Infof("Analyzing: %s", originalName)
	start := time.Now()

	waveform, err := audio.Decode(ctx, audioPath, s.config.TempDir)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	result, err := s.analyzer.Analyze(waveform)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	id, err := s.storage.RecordAnalysis(
		originalName, result.BPM, result.Confidence,
		result.SampleRate, result.DurationSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	s.log.Infof("Detected %.1f BPM (confidence %.2f) in %s for %s",
		result.BPM, result.Confidence, time.Since(start).Round(time.Millisecond), originalName)

	return &AnalysisRecord{
		ID:              id,
		Filename:        originalName,
		BPM:             result.BPM,
		Confidence:      result.Confidence,
		SampleRate:      result.SampleRate,
		DurationSeconds: result.DurationSeconds,
		CreatedAt:       time.Now(),
	}, nil
}

func (s *bpmService) GetAnalysis(id string) (*AnalysisRecord, error) {
	rec, err := s.storage.GetAnalysisByID(id)
	if err != nil {
		return nil, err
	}
	out := fromStored(*rec)
	return &out, nil
}

func (s *bpmService) ListAnalyses() ([]AnalysisRecord, error) {
	recs, err := s.storage.ListAnalyses()
	if err != nil {
		return nil, err
	}
	out := make([]AnalysisRecord, len(recs))
	for i, rec := range recs {
		out[i] = fromStored(rec)
	}
	return out, nil
}

func (s *bpmService) DeleteAnalysis(id string) error {
	return s.storage.DeleteAnalysisByID(id)
}

func (s *bpmService) CountAnalyses() (int64, error) {
	return s.storage.CountAnalyses()
}

func (s *bpmService) Close() error {
	return s.storage.Close()
}

func fromStored(rec storage.Analysis) AnalysisRecord {
	return AnalysisRecord{
		ID:              rec.ID,
		Filename:        rec.Filename,
		BPM:             rec.BPM,
		Confidence:      rec.Confidence,
		SampleRate:      rec.SampleRate,
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       rec.CreatedAt,
	}
}
