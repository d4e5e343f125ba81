package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
)

type fakeRunner struct {
	report domain.BatchReport
	err    error
}

func (f *fakeRunner) Run(context.Context) (domain.BatchReport, error) {
	return f.report, f.err
}

type fakeSummaries struct {
	summary domain.Summary
	err     error
}

func (f *fakeSummaries) Summary(context.Context) (domain.Summary, error) {
	return f.summary, f.err
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := NewServer(&fakeRunner{}, &fakeSummaries{}, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		OK   bool   `json:"ok"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.OK || body.Time == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{report: domain.BatchReport{Processed: 5, Stored: 3}}
	server := NewServer(runner, &fakeSummaries{}, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report domain.BatchReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if report.Processed != 5 || report.Stored != 3 {
		t.Fatalf("report = %+v", report)
	}
}

func TestAnalyzeAbortIsGeneric(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("pq: connection refused")}
	server := NewServer(runner, &fakeSummaries{}, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatal("internal error detail must not leak to the caller")
	}
	if strings.Contains(rec.Body.String(), "processed") {
		t.Fatal("no partial-success payload may be returned on abort")
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	t.Parallel()

	server := NewServer(&fakeRunner{}, &fakeSummaries{}, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	summaries := &fakeSummaries{summary: domain.Summary{
		Support: []domain.StanceCount{
			{Candidate: "Alice", Stance: "support", Count: 12},
		},
		Sentiment: []domain.SentimentCount{
			{Candidate: "Alice", Sentiment: "positive", Count: 9},
		},
	}}
	server := NewServer(&fakeRunner{}, summaries, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var summary domain.Summary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(summary.Support) != 1 || summary.Support[0].Count != 12 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
