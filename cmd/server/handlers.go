package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rootsai/beatscan/internal/audio"
	"github.com/rootsai/beatscan/internal/storage"
	"github.com/rootsai/beatscan/pkg/beatscan"
	"github.com/rootsai/beatscan/pkg/logger"
	"github.com/rootsai/beatscan/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service beatscan.Service
	config  *ServerConfig
	log     beatscan.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	AnalysisRate   int
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service beatscan.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "beatscan API",
		"status":  "online",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":         "GET /health",
			"metrics":        "GET /api/health/metrics",
			"detect":         "POST /api/detect",
			"listAnalyses":   "GET /api/analyses",
			"getAnalysis":    "GET /api/analyses/{id}",
			"deleteAnalysis": "DELETE /api/analyses/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET")
		return
	}

	count, err := s.service.CountAnalyses()
	if err != nil {
		s.log.Errorf("Failed to count analyses: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:        "healthy",
		DatabasePath:  s.config.DBPath,
		AnalysisCount: count,
		AnalysisRate:  s.config.AnalysisRate,
	})
}

// handleDetect handles POST /api/detect (multipart file upload)
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Use POST")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !audio.IsSupportedFormat(ext) {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file format %q. Allowed formats: %s",
				ext, strings.Join(audio.SupportedFormats(), ", ")))
		return
	}

	// Park the upload under a generated name; the original filename only
	// survives in the response and the history record.
	uploadPath := filepath.Join(s.config.TempDir, uuid.NewString()+ext)
	if err := utils.SaveToFile(file, uploadPath); err != nil {
		s.log.Errorf("Failed to save upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	defer utils.DeleteFile(uploadPath)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	rec, err := s.service.AnalyzeFile(ctx, uploadPath, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			s.respondError(w, http.StatusBadRequest, "Unsupported audio format")
		case errors.Is(err, audio.ErrCorruptAudio), errors.Is(err, audio.ErrNotWAV):
			s.respondError(w, http.StatusUnprocessableEntity, "Corrupt or unreadable audio data")
		default:
			s.log.Errorf("Analysis failed for %s: %v", header.Filename, err)
			s.respondError(w, http.StatusInternalServerError, "Error processing audio file")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, DetectResponse{
		BPM:             rec.BPM,
		Filename:        rec.Filename,
		Confidence:      rec.Confidence,
		SampleRate:      rec.SampleRate,
		DurationSeconds: rec.DurationSeconds,
		AnalysisID:      rec.ID,
	})
}

// handleAnalyses handles GET /api/analyses
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET")
		return
	}

	recs, err := s.service.ListAnalyses()
	if err != nil {
		s.log.Errorf("Failed to list analyses: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve analyses")
		return
	}

	dtos := make([]AnalysisDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toDTO(rec)
	}

	s.respondJSON(w, http.StatusOK, ListAnalysesResponse{
		Analyses: dtos,
		Count:    len(dtos),
	})
}

// handleAnalysis handles GET and DELETE /api/analyses/{id}
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.service.GetAnalysis(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.respondError(w, http.StatusNotFound, fmt.Sprintf("Analysis %s not found", id))
				return
			}
			s.log.Errorf("Failed to get analysis %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to retrieve analysis")
			return
		}
		s.respondJSON(w, http.StatusOK, toDTO(*rec))

	case http.MethodDelete:
		if err := s.service.DeleteAnalysis(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.respondError(w, http.StatusNotFound, fmt.Sprintf("Analysis %s not found", id))
				return
			}
			s.log.Errorf("Failed to delete analysis %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to delete analysis")
			return
		}
		s.respondJSON(w, http.StatusOK, DeleteAnalysisResponse{
			Message: "Analysis deleted successfully",
			ID:      id,
		})

	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET or DELETE")
	}
}

func toDTO(rec beatscan.AnalysisRecord) AnalysisDTO {
	return AnalysisDTO{
		ID:              rec.ID,
		Filename:        rec.Filename,
		BPM:             rec.BPM,
		Confidence:      rec.Confidence,
		SampleRate:      rec.SampleRate,
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       rec.CreatedAt,
	}
}
