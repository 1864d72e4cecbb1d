package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/persistence"
	"github.com/spec-kit/job-tracker/internal/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.BcryptCost = 4
	return New(Dependencies{
		Config: cfg,
		Store:  persistence.NewSQLiteStore(sqlite.NewTestDB(t)),
	})
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.App.Test(httptest.NewRequest(http.MethodGet, "/api/applications", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServerShutdownDrainsWorker(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv.Start(ctx)
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	require.NoError(t, srv.Shutdown(shutdownCtx))
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Shutdown(context.Background()))
}
