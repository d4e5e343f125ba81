package storage

import (
	"context"
	"strings"
	"testing"
)

func TestCommitBatchEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	// No write-sets means no transaction; a nil handle must not be touched.
	store := NewPostgresStore(nil)
	if err := store.CommitBatch(context.Background(), nil, nil); err != nil {
		t.Fatalf("empty commit: %v", err)
	}
}

func TestSchemaStatements(t *testing.T) {
	t.Parallel()

	joined := strings.Join(schemaStatements, "\n")

	for _, fragment := range []string{
		"comment_id   TEXT NOT NULL UNIQUE",
		"analyzed       BOOLEAN NOT NULL DEFAULT FALSE",
		"v_support_counts",
		"v_sentiment_counts",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("schema missing %q", fragment)
		}
	}

	for _, stmt := range schemaStatements {
		if !strings.HasPrefix(stmt, "CREATE") {
			t.Fatalf("non-idempotent statement: %s", stmt)
		}
	}
}
