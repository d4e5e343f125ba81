package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create everything the analyzer touches. Statements are
// idempotent so migrate can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		aliases TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS comments_raw (
		id             TEXT PRIMARY KEY,
		post_id        TEXT,
		text           TEXT NOT NULL,
		like_count     INTEGER NOT NULL DEFAULT 0,
		created_time   TIMESTAMPTZ NOT NULL,
		commenter_hash TEXT,
		analyzed       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id           BIGSERIAL PRIMARY KEY,
		comment_id   TEXT NOT NULL UNIQUE REFERENCES comments_raw (id),
		candidate_id BIGINT NOT NULL REFERENCES candidates (id),
		stance       TEXT NOT NULL,
		sentiment    TEXT NOT NULL,
		score        JSONB,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_raw_unanalyzed
		ON comments_raw (created_time) WHERE analyzed = FALSE`,
	`CREATE OR REPLACE VIEW v_support_counts AS
		SELECT c.name AS candidate, r.stance, COUNT(*) AS count
		FROM analysis_results r
		JOIN candidates c ON c.id = r.candidate_id
		GROUP BY c.name, r.stance`,
	`CREATE OR REPLACE VIEW v_sentiment_counts AS
		SELECT c.name AS candidate, r.sentiment, COUNT(*) AS count
		FROM analysis_results r
		JOIN candidates c ON c.id = r.candidate_id
		GROUP BY c.name, r.sentiment`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
