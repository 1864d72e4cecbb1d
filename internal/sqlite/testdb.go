package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new migrated in-memory SQLite database for testing
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.Migrate(context.Background()), "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
