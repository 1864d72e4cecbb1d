package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/config"
)

func TestOpenStore_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = config.DriverSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "jobs.db")

	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.Equal(t, config.DriverSQLite, store.Driver)
	require.NoError(t, store.Ping(context.Background()))
	require.NotNil(t, store.Users)
	require.NotNil(t, store.Applications)
	require.NotNil(t, store.PasswordReset)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "mongo"
	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestRunMigrations_NoPoolIsSkipped(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, "missing", zap.NewNop()))
}

func TestMigrationFilesPresent(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
