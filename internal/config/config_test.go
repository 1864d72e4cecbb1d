package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JOBTRACKER_CONFIG_PATH", "STORE_DRIVER", "POSTGRES_DSN", "SQLITE_PATH",
		"APP_PORT", "PORT", "LOG_LEVEL", "AUTH_JWT_SECRET", "JWT_SECRET",
		"RATE_LIMIT_RPS", "REDIS_DB", "REDIS_ADDR",
		"APP_PROXY_HEADER", "APP_TRUSTED_PROXIES", "AUTH_BCRYPT_COST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.Store.Driver)
	require.Equal(t, "5000", cfg.App.Port)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, time.Hour, cfg.Auth.PasswordResetTTL())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, 10*time.Second, cfg.Client.Timeout())
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoad_PostgresSelectedByDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jobs")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
}

func TestLoad_YAMLOverlayThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "7000"
logger:
  level: debug
store:
  driver: sqlite
sqlite:
  path: /tmp/jobs.db
rate_limit:
  requests_per_second: 2
`), 0o600))
	t.Setenv("JOBTRACKER_CONFIG_PATH", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.App.Port)
	require.Equal(t, "warn", cfg.Logger.Level)
	require.Equal(t, "/tmp/jobs.db", cfg.SQLite.Path)
	require.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
	require.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoad_ProxySettings(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.App.ProxyHeader)
	require.Empty(t, cfg.App.TrustedProxies)

	t.Setenv("APP_PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("APP_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.0/8,")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "X-Forwarded-For", cfg.App.ProxyHeader)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.App.TrustedProxies)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	_, err = Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("REDIS_DB", "zero")
	_, err = Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("AUTH_BCRYPT_COST", "40")
	_, err = Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("JOBTRACKER_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	require.Error(t, err)
}
