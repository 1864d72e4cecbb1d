package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/repository"
	"github.com/spec-kit/job-tracker/internal/sqlite"
)

// Store bundles the repositories of the configured driver.
type Store struct {
	Driver        string
	Users         repository.UserRepository
	Applications  repository.ApplicationRepository
	PasswordReset repository.PasswordResetRepository

	ping  func(ctx context.Context) error
	close func()
}

// Ping verifies the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases driver resources.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore connects the driver selected by cfg.Store.Driver and applies its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &Store{
			Driver:        config.DriverPostgres,
			Users:         repository.NewUserRepository(pool),
			Applications:  repository.NewApplicationRepository(pool),
			PasswordReset: repository.NewPasswordResetRepository(pool),
			ping:          pg.Ping,
			close:         pg.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.SQLite.Path))
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewSQLiteStore wraps an already migrated SQLite database.
func NewSQLiteStore(db *sqlite.DB) *Store {
	return &Store{
		Driver:        config.DriverSQLite,
		Users:         sqlite.NewUserRepository(db),
		Applications:  sqlite.NewApplicationRepository(db),
		PasswordReset: sqlite.NewPasswordResetRepository(db),
		ping:          db.Ping,
		close:         func() { _ = db.Close() },
	}
}
