package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/classify"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/textnorm"
)

// fakeStore is an in-memory CommentStore tracking commit atomicity.
type fakeStore struct {
	candidates []domain.Candidate
	comments   []domain.Comment

	results     map[string]domain.AnalysisResult
	commitCalls int
	failCommit  bool
}

func newFakeStore(candidates []domain.Candidate, comments []domain.Comment) *fakeStore {
	return &fakeStore{
		candidates: candidates,
		comments:   comments,
		results:    map[string]domain.AnalysisResult{},
	}
}

func (s *fakeStore) ListCandidates(context.Context) ([]domain.Candidate, error) {
	return s.candidates, nil
}

func (s *fakeStore) ListUnanalyzed(_ context.Context, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range s.comments {
		if c.Analyzed {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) CommitBatch(_ context.Context, results []domain.AnalysisResult, processedIDs []string) error {
	s.commitCalls++
	if s.failCommit {
		return errors.New("database unreachable")
	}
	for _, r := range results {
		if _, exists := s.results[r.CommentID]; exists {
			continue // conflict-ignore
		}
		s.results[r.CommentID] = r
	}
	for _, id := range processedIDs {
		for i := range s.comments {
			if s.comments[i].ID == id {
				s.comments[i].Analyzed = true
			}
		}
	}
	return nil
}

// fakeClassifier returns fixed outputs or a configured error.
type fakeClassifier struct {
	stanceErr error
	calls     int
}

func (c *fakeClassifier) ClassifyStance(_ context.Context, _ string, labels []string) (domain.StanceResult, error) {
	c.calls++
	if c.stanceErr != nil {
		return domain.StanceResult{}, c.stanceErr
	}
	return domain.StanceResult{Labels: labels, Scores: []float64{0.7, 0.2, 0.07, 0.03}}, nil
}

func (c *fakeClassifier) ClassifySentiment(context.Context, string) (domain.SentimentResult, error) {
	return domain.SentimentResult{Label: "LABEL_POS", Score: 0.88}, nil
}

var _ ports.Classifier = (*fakeClassifier)(nil)

func testCandidates() []domain.Candidate {
	return []domain.Candidate{
		{ID: 1, Name: "Alice", Aliases: []string{"ally"}},
		{ID: 2, Name: "Bob", Aliases: []string{"bobby"}},
	}
}

func testBatch(store ports.CommentStore, classifier ports.Classifier) *Batch {
	return NewBatch(BatchDeps{
		Store:      store,
		Classifier: classifier,
		Normalizer: textnorm.New("hi", "en"),
		BatchSize:  10,
	})
}

func TestRunEmptyBatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testCandidates(), nil)
	report, err := testBatch(store, &fakeClassifier{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Processed != 0 || report.Stored != 0 {
		t.Fatalf("report = %+v, want zeroes", report)
	}
	if store.commitCalls != 0 {
		t.Fatal("empty batch must not touch the transaction")
	}
}

func TestRunMixedBatch(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := newFakeStore(testCandidates(), []domain.Comment{
		{ID: "c1", Text: "I love ALLY so much 🎉", CreatedTime: now},
		{ID: "c2", Text: "nothing political here", CreatedTime: now.Add(time.Second)},
		{ID: "c3", Text: "bobby must go http://x.co", CreatedTime: now.Add(2 * time.Second)},
	})

	report, err := testBatch(store, &fakeClassifier{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Processed != 3 || report.Stored != 2 {
		t.Fatalf("report = %+v, want processed=3 stored=2", report)
	}

	for _, c := range store.comments {
		if !c.Analyzed {
			t.Fatalf("comment %s not marked analyzed", c.ID)
		}
	}

	if _, ok := store.results["c2"]; ok {
		t.Fatal("comment without a mention must produce no result row")
	}

	r1, ok := store.results["c1"]
	if !ok {
		t.Fatal("missing result for c1")
	}
	if r1.CandidateID != 1 {
		t.Fatalf("c1 candidate = %d, want 1", r1.CandidateID)
	}
	if r1.Stance != domain.StanceSupport {
		t.Fatalf("c1 stance = %q, want support", r1.Stance)
	}
	if r1.Sentiment != domain.SentimentPositive {
		t.Fatalf("c1 sentiment = %q, want positive", r1.Sentiment)
	}
	if len(r1.Payload) == 0 {
		t.Fatal("raw classifier payload must be retained")
	}

	if r3 := store.results["c3"]; r3.CandidateID != 2 {
		t.Fatalf("c3 candidate = %d, want 2", r3.CandidateID)
	}
}

func TestRunIdempotentMarking(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testCandidates(), []domain.Comment{
		{ID: "c1", Text: "ally rocks", CreatedTime: time.Now()},
	})
	batch := testBatch(store, &fakeClassifier{})

	first, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Processed != 1 {
		t.Fatalf("first run processed = %d, want 1", first.Processed)
	}

	second, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Processed != 0 || second.Stored != 0 {
		t.Fatalf("second run = %+v, want zeroes", second)
	}

	if len(store.results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(store.results))
	}
}

func TestRunClassifierFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testCandidates(), []domain.Comment{
		{ID: "c1", Text: "ally rocks", CreatedTime: time.Now()},
	})
	classifier := &fakeClassifier{stanceErr: errors.New("inference timeout")}

	if _, err := testBatch(store, classifier).Run(context.Background()); err == nil {
		t.Fatal("expected run to fail")
	}

	if store.commitCalls != 0 {
		t.Fatal("aborted batch must not commit")
	}
	if len(store.results) != 0 {
		t.Fatal("no partial results may persist")
	}
	for _, c := range store.comments {
		if c.Analyzed {
			t.Fatalf("comment %s must stay unanalyzed for retry", c.ID)
		}
	}
}

func TestRunCommitFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testCandidates(), []domain.Comment{
		{ID: "c1", Text: "ally rocks", CreatedTime: time.Now()},
	})
	store.failCommit = true

	if _, err := testBatch(store, &fakeClassifier{}).Run(context.Background()); err == nil {
		t.Fatal("expected run to fail")
	}
	for _, c := range store.comments {
		if c.Analyzed {
			t.Fatal("failed commit must leave comments unanalyzed")
		}
	}
}

func TestRunMockClassifierEndToEnd(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testCandidates(), []domain.Comment{
		{ID: "c1", Text: "ally 2024", CreatedTime: time.Now()},
	})

	report, err := testBatch(store, classify.NewMock()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Stored != 1 {
		t.Fatalf("stored = %d, want 1", report.Stored)
	}

	r := store.results["c1"]
	switch r.Stance {
	case domain.StanceSupport, domain.StanceOppose, domain.StanceNeutral, domain.StanceIrrelevant:
	default:
		t.Fatalf("stance %q outside the closed label set", r.Stance)
	}
}
