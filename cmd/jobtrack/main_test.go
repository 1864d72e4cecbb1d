package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/persistence"
	"github.com/spec-kit/job-tracker/internal/server"
	"github.com/spec-kit/job-tracker/internal/sqlite"
)

func newAPI(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.BcryptCost = 4
	cfg.RateLimit.Enabled = false
	srv := server.New(server.Dependencies{
		Config: cfg,
		Store:  persistence.NewSQLiteStore(sqlite.NewTestDB(t)),
	})
	ts := httptest.NewServer(adaptor.FiberApp(srv.App))
	t.Cleanup(ts.Close)
	return ts.URL
}

func jobtrack(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"-api", url, "-email", "ada@example.com", "-password", "secret1"}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func TestCLI(t *testing.T) {
	t.Setenv("JOBTRACKER_CONFIG_PATH", "")
	url := newAPI(t)

	out, err := jobtrack(t, url, "register", "-name", "Ada Lovelace")
	require.NoError(t, err)
	require.Contains(t, out, "(AL)")

	_, err = jobtrack(t, url, "add", "-title", "Engineer", "-company", "Acme", "-date", "2025-01-10")
	require.NoError(t, err)
	_, err = jobtrack(t, url, "add", "-title", "Manager", "-company", "Globex", "-date", "2025-02-03", "-status", "offer")
	require.NoError(t, err)

	out, err = jobtrack(t, url, "list", "-q", "glob")
	require.NoError(t, err)
	require.Contains(t, out, "Manager")
	require.NotContains(t, out, "Engineer")

	out, err = jobtrack(t, url, "list", "-month", "2025-01")
	require.NoError(t, err)
	require.Contains(t, out, "Engineer")
	require.Contains(t, out, "Jan 10, 2025")

	out, err = jobtrack(t, url, "dashboard")
	require.NoError(t, err)
	require.Contains(t, out, "Total applications")
	require.Contains(t, out, "February 2025")
	require.Contains(t, out, "50.0%")

	_, err = jobtrack(t, url, "add", "-title", "Engineer")
	require.Error(t, err)

	_, err = jobtrack(t, url, "delete")
	require.ErrorIs(t, err, errUsage)

	_, err = jobtrack(t, url, "frobnicate")
	require.ErrorIs(t, err, errUsage)
}
