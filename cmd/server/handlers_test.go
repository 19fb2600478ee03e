package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rootsai/beatscan/pkg/beatscan"
)

type stubService struct {
	count int64
}

func (s *stubService) AnalyzeFile(ctx context.Context, audioPath, originalName string) (*beatscan.AnalysisRecord, error) {
	return &beatscan.AnalysisRecord{}, nil
}
func (s *stubService) GetAnalysis(id string) (*beatscan.AnalysisRecord, error) {
	return &beatscan.AnalysisRecord{ID: id}, nil
}
func (s *stubService) ListAnalyses() ([]beatscan.AnalysisRecord, error) { return nil, nil }
func (s *stubService) DeleteAnalysis(id string) error                   { return nil }
func (s *stubService) CountAnalyses() (int64, error)                    { return s.count, nil }
func (s *stubService) Close() error                                     { return nil }

func newTestServer() *Server {
	return NewServer(&stubService{count: 3}, &ServerConfig{
		Port:         8080,
		DBPath:       "test.sqlite3",
		TempDir:      "/tmp",
		AnalysisRate: 22050,
	})
}

func TestHealthEndpointMethods(t *testing.T) {
	srv := newTestServer()
	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusMethodNotAllowed},
		{http.MethodPut, http.StatusMethodNotAllowed},
		{http.MethodDelete, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.handleHealth(rec, httptest.NewRequest(tt.method, "/health", nil))
			if rec.Code != tt.want {
				t.Errorf("%s /health = %d, want %d", tt.method, rec.Code, tt.want)
			}
		})
	}
}

func TestRootEndpointMethods(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET / = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	srv.handleRoot(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/health/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET metrics = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp MetricsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode metrics response: %v", err)
	}
	if resp.AnalysisCount != 3 {
		t.Errorf("Expected analysis count 3, got %d", resp.AnalysisCount)
	}

	rec = httptest.NewRecorder()
	srv.handleMetrics(rec, httptest.NewRequest(http.MethodPost, "/api/health/metrics", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST metrics = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
