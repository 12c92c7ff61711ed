// Package testdb provides helpers for integration tests that need a real
// Postgres instance. It depends only on database/sql and the pgx driver so
// any package can import it without cycles. Tests using it skip themselves
// when no database URL is configured.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// Timeout bounds individual setup operations against the test database.
const Timeout = 5 * time.Second

// URL returns the test database URL from PROMOTER_TEST_DB_URL, falling back
// to DATABASE_URL. Empty means integration tests cannot run.
func URL() string {
	if url := os.Getenv("PROMOTER_TEST_DB_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// SkipIfNoDatabase skips the test when no test database is configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if URL() == "" {
		t.Skip("integration test: set PROMOTER_TEST_DB_URL or DATABASE_URL to run")
	}
}

// Open connects to the test database and registers cleanup. The connection
// is verified before returning.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", URL())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "test database unreachable")

	return db
}

// CreateSchema ensures the conversations table exists. It mirrors the goose
// migration so store tests do not depend on the migration runner.
func CreateSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			thread_id  TEXT PRIMARY KEY,
			state      JSONB NOT NULL DEFAULT '{"messages": [], "tasks": {}}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err, "failed to create conversations table")
}

// ResetConversations clears all thread state between tests.
func ResetConversations(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `TRUNCATE conversations`)
	require.NoError(t, err, "failed to truncate conversations")
}
