package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists candidates, comments and analysis results.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.CommentStore = (*PostgresStore)(nil)
var _ ports.SummaryReader = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListCandidates returns all candidates ordered by id. That order is the
// resolver tie-break order for the batch run that loaded it.
func (s *PostgresStore) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	query, args, err := psql.
		Select("id", "name", "aliases").
		From("candidates").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidates query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var cand domain.Candidate
		var aliases pq.StringArray
		if err := rows.Scan(&cand.ID, &cand.Name, &aliases); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		cand.Aliases = []string(aliases)
		candidates = append(candidates, cand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return candidates, nil
}

// ListUnanalyzed returns up to limit comments with analyzed=false, oldest
// first, so sustained backlog drains in FIFO order.
func (s *PostgresStore) ListUnanalyzed(ctx context.Context, limit int) ([]domain.Comment, error) {
	query, args, err := psql.
		Select("id", "text", "created_time").
		From("comments_raw").
		Where(sq.Eq{"analyzed": false}).
		OrderBy("created_time ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comments query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unanalyzed comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedTime); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return comments, nil
}

// CommitBatch writes both accumulated write-sets in one transaction: result
// rows with conflict-ignore semantics, then the analyzed markers. A duplicate
// comment_id from an overlapping run is dropped silently, never an error.
func (s *PostgresStore) CommitBatch(ctx context.Context, results []domain.AnalysisResult, processedIDs []string) error {
	if len(results) == 0 && len(processedIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if len(results) > 0 {
		builder := psql.
			Insert("analysis_results").
			Columns("comment_id", "candidate_id", "stance", "sentiment", "score").
			Suffix("ON CONFLICT (comment_id) DO NOTHING")
		for _, r := range results {
			builder = builder.Values(r.CommentID, r.CandidateID, string(r.Stance), string(r.Sentiment), string(r.Payload))
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("build results insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert results: %w", err)
		}
	}

	if len(processedIDs) > 0 {
		query, args, err := psql.
			Update("comments_raw").
			Set("analyzed", true).
			Where("id = ANY(?)", pq.StringArray(processedIDs)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build analyzed update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mark analyzed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

// Summary reads the per-candidate stance and sentiment aggregation views.
func (s *PostgresStore) Summary(ctx context.Context) (domain.Summary, error) {
	summary := domain.Summary{
		Support:   []domain.StanceCount{},
		Sentiment: []domain.SentimentCount{},
	}

	rows, err := s.db.QueryContext(ctx, `SELECT candidate, stance, count FROM v_support_counts`)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("query support counts: %w", err)
	}
	for rows.Next() {
		var c domain.StanceCount
		if err := rows.Scan(&c.Candidate, &c.Stance, &c.Count); err != nil {
			_ = rows.Close()
			return domain.Summary{}, fmt.Errorf("scan support count: %w", err)
		}
		summary.Support = append(summary.Support, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return domain.Summary{}, fmt.Errorf("rows iteration: %w", err)
	}
	if err := rows.Close(); err != nil {
		return domain.Summary{}, fmt.Errorf("close rows: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT candidate, sentiment, count FROM v_sentiment_counts`)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("query sentiment counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.SentimentCount
		if err := rows.Scan(&c.Candidate, &c.Sentiment, &c.Count); err != nil {
			return domain.Summary{}, fmt.Errorf("scan sentiment count: %w", err)
		}
		summary.Sentiment = append(summary.Sentiment, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Summary{}, fmt.Errorf("rows iteration: %w", err)
	}

	return summary, nil
}
