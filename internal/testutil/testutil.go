package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/studymate/reviewd/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied
// through the same path production uses. The single-connection pool keeps the
// in-memory database alive for the test's duration.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
