// Package httpapi exposes the thin HTTP surface over the batch pipeline.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

// BatchRunner triggers one analysis pass.
type BatchRunner interface {
	Run(ctx context.Context) (domain.BatchReport, error)
}

// Server routes health, analyze and summary requests.
type Server struct {
	batch     BatchRunner
	summaries ports.SummaryReader
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewServer wires handlers onto a fresh mux.
func NewServer(batch BatchRunner, summaries ports.SummaryReader, logger *slog.Logger) *Server {
	s := &Server{
		batch:     batch,
		summaries: summaries,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /summary", s.handleSummary)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAnalyze runs one batch. An aborted batch reports a generic failure
// with no partial counts, since nothing was committed.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	report, err := s.batch.Run(r.Context())
	if err != nil {
		s.log().Error("batch run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.summaries.Summary(r.Context())
	if err != nil {
		s.log().Error("summary query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "summary failed"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
