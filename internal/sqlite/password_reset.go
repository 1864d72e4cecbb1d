package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/repository"
)

// PasswordResetRepository implements repository.PasswordResetRepository for SQLite
type PasswordResetRepository struct {
	db *DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, reset.UserID, reset.Token, formatTimestamp(reset.ExpiresAt), formatTimestamp(now))
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	reset.ID = id
	reset.CreatedAt = now
	return nil
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	var (
		reset            domain.PasswordReset
		expires, created string
		used             sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, used_at, created_at
		FROM password_reset_tokens WHERE token = ?
	`, token).Scan(&reset.ID, &reset.UserID, &reset.Token, &expires, &used, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset: %w", err)
	}
	if reset.ExpiresAt, err = parseTimestamp(expires); err != nil {
		return nil, err
	}
	if reset.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}
	if used.Valid {
		usedAt, err := parseTimestamp(used.String)
		if err != nil {
			return nil, err
		}
		reset.UsedAt = &usedAt
	}
	return &reset, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE password_reset_tokens SET used_at = ?
		WHERE id = ? AND used_at IS NULL
	`, formatTimestamp(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to mark password reset used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
