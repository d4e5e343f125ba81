package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/resolver"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/textnorm"
)

// BatchDeps wires all driven adapters into the batch orchestrator.
type BatchDeps struct {
	Store      ports.CommentStore
	Classifier ports.Classifier
	Normalizer *textnorm.Normalizer
	Notifier   ports.Notifier
	Logger     *slog.Logger
	BatchSize  int
}

// Batch implements one analysis pass: fetch unanalyzed comments, resolve
// candidate mentions, classify, and commit results plus analyzed markers in
// a single transaction.
type Batch struct {
	store      ports.CommentStore
	classifier ports.Classifier
	normalizer *textnorm.Normalizer
	notifier   ports.Notifier
	logger     *slog.Logger
	batchSize  int
}

// NewBatch constructs the orchestration component.
func NewBatch(deps BatchDeps) *Batch {
	return &Batch{
		store:      deps.Store,
		classifier: deps.Classifier,
		normalizer: deps.Normalizer,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		batchSize:  deps.BatchSize,
	}
}

// rawPayload is the full classifier output stored alongside the collapsed
// labels for audit and debugging.
type rawPayload struct {
	Stance    domain.StanceResult    `json:"stance"`
	Sentiment domain.SentimentResult `json:"sentiment"`
}

// Run executes one batch invocation. Comments mentioning no candidate are
// marked analyzed without a result row; any store or classifier failure
// aborts the run before commit, leaving every fetched comment unanalyzed
// for the next invocation.
func (b *Batch) Run(ctx context.Context) (domain.BatchReport, error) {
	runID := uuid.NewString()
	log := b.log().With("run_id", runID)

	candidates, err := b.store.ListCandidates(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("load candidates: %w", err)
	}
	registry := resolver.NewRegistry(candidates)

	comments, err := b.store.ListUnanalyzed(ctx, b.batchSize)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("load comments: %w", err)
	}
	if len(comments) == 0 {
		log.Debug("no unanalyzed comments")
		return domain.BatchReport{}, nil
	}

	log.Debug("batch fetched", "comments", len(comments), "candidates", registry.Len())

	results := make([]domain.AnalysisResult, 0, len(comments))
	processed := make([]string, 0, len(comments))

	for _, comment := range comments {
		clean := b.normalizer.Normalize(comment.Text)

		candidateID, found := registry.Resolve(clean)
		if !found {
			processed = append(processed, comment.ID)
			continue
		}

		stanceOut, err := b.classifier.ClassifyStance(ctx, clean, domain.StanceLabels)
		if err != nil {
			return domain.BatchReport{}, fmt.Errorf("classify stance for comment %s: %w", comment.ID, err)
		}

		sentimentOut, err := b.classifier.ClassifySentiment(ctx, clean)
		if err != nil {
			return domain.BatchReport{}, fmt.Errorf("classify sentiment for comment %s: %w", comment.ID, err)
		}

		payload, err := json.Marshal(rawPayload{Stance: stanceOut, Sentiment: sentimentOut})
		if err != nil {
			return domain.BatchReport{}, fmt.Errorf("marshal payload for comment %s: %w", comment.ID, err)
		}

		results = append(results, domain.AnalysisResult{
			CommentID:   comment.ID,
			CandidateID: candidateID,
			Stance:      domain.Stance(stanceOut.Top()),
			Sentiment:   domain.CollapseSentiment(sentimentOut.Label),
			Payload:     payload,
		})
		processed = append(processed, comment.ID)
	}

	if err := b.store.CommitBatch(ctx, results, processed); err != nil {
		return domain.BatchReport{}, fmt.Errorf("commit batch: %w", err)
	}

	report := domain.BatchReport{Processed: len(processed), Stored: len(results)}
	log.Info("batch committed", "processed", report.Processed, "stored", report.Stored)

	if b.notifier != nil {
		message := fmt.Sprintf("comment-analyzer: processed %d, stored %d", report.Processed, report.Stored)
		if err := b.notifier.PublishReport(ctx, message); err != nil {
			log.Warn("publish report failed", "error", err)
		}
	}

	return report, nil
}

func (b *Batch) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}
