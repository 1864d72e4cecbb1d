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

// ApplicationRepository implements repository.ApplicationRepository for SQLite
type ApplicationRepository struct {
	db *DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, user_id, job_title, company, location, applied_on, status, notes, created_at, updated_at`

// ListByOwner returns the owner's records newest first. An empty status lists all.
func (r *ApplicationRepository) ListByOwner(ctx context.Context, userID string, status domain.Status) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY applied_on DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id, userID string) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ? AND user_id = ?`, id, userID)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return app, err
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (id, user_id, job_title, company, location, applied_on, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		app.UserID,
		app.JobTitle,
		app.Company,
		app.Location,
		app.Date.Format(dateLayout),
		string(app.Status),
		app.Notes,
		formatTimestamp(now),
		formatTimestamp(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	app.ID = id
	app.CreatedAt = now
	app.UpdatedAt = now
	return nil
}

// Update replaces the editable fields. A record owned by someone else reports ErrNotFound.
func (r *ApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET job_title = ?, company = ?, location = ?, applied_on = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`,
		app.JobTitle,
		app.Company,
		app.Location,
		app.Date.Format(dateLayout),
		string(app.Status),
		app.Notes,
		formatTimestamp(now),
		app.ID,
		app.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}

	stored, err := r.GetByID(ctx, app.ID, app.UserID)
	if err != nil {
		return err
	}
	*app = *stored
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*domain.Application, error) {
	var (
		app                  domain.Application
		status, appliedOn    string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.JobTitle,
		&app.Company,
		&app.Location,
		&appliedOn,
		&status,
		&app.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	var err error
	if app.Date, err = domain.ParseDate(appliedOn); err != nil {
		return nil, err
	}
	if app.Status, err = domain.ParseStatus(status); err != nil {
		return nil, err
	}
	if app.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if app.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &app, nil
}
