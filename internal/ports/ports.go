package ports

import (
	"context"
	"time"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
)

// CommentStore is the persistence boundary of the pipeline.
type CommentStore interface {
	// ListCandidates returns all candidates in data-source order; that order
	// is the resolver tie-break order for the whole batch run.
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)

	// ListUnanalyzed returns up to limit comments with analyzed=false,
	// oldest first.
	ListUnanalyzed(ctx context.Context, limit int) ([]domain.Comment, error)

	// CommitBatch inserts the result rows (ignoring per-comment uniqueness
	// conflicts) and marks the given comment ids analyzed, atomically. Either
	// both write-sets land or neither does.
	CommitBatch(ctx context.Context, results []domain.AnalysisResult, processedIDs []string) error
}

// SummaryReader serves the dashboard aggregation views.
type SummaryReader interface {
	Summary(ctx context.Context) (domain.Summary, error)
}

// Classifier wraps stance and sentiment inference behind a stable interface.
// Implementations must be safe for sequential reuse across comments.
type Classifier interface {
	ClassifyStance(ctx context.Context, text string, labels []string) (domain.StanceResult, error)
	ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error)
}

// Notifier publishes a human-readable batch report to an outbound channel.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}

// Scheduler controls when batch runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
