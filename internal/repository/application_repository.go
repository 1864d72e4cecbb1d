package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// ApplicationRepository encapsulates job application persistence. Every
// method that touches a single record is scoped by owner.
type ApplicationRepository interface {
	// ListByOwner returns the owner's records newest first. An empty status lists all.
	ListByOwner(ctx context.Context, userID string, status domain.Status) ([]domain.Application, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Application, error)
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id, userID string) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, user_id, job_title, company, location, applied_on, status, notes, created_at, updated_at`

func (r *applicationRepository) ListByOwner(ctx context.Context, userID string, status domain.Status) ([]domain.Application, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = r.pool.Query(ctx, `
        SELECT `+applicationColumns+`
        FROM applications WHERE user_id=$1
        ORDER BY applied_on DESC, created_at DESC`, userID)
	} else {
		rows, err = r.pool.Query(ctx, `
        SELECT `+applicationColumns+`
        FROM applications WHERE user_id=$1 AND status=$2
        ORDER BY applied_on DESC, created_at DESC`, userID, status)
	}
	if err != nil {
		return nil, translate(err)
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

func (r *applicationRepository) GetByID(ctx context.Context, id, userID string) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT `+applicationColumns+`
        FROM applications WHERE id=$1 AND user_id=$2`, id, userID)
	return scanApplication(row)
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (user_id, job_title, company, location, applied_on, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		app.UserID,
		app.JobTitle,
		app.Company,
		app.Location,
		app.Date,
		app.Status,
		app.Notes,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	return translate(err)
}

// Update replaces the editable fields. A record owned by someone else reports ErrNotFound.
func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	const query = `
        UPDATE applications SET job_title=$1, company=$2, location=$3, applied_on=$4, status=$5, notes=$6,
            updated_at=NOW()
        WHERE id=$7 AND user_id=$8
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		app.JobTitle,
		app.Company,
		app.Location,
		app.Date,
		app.Status,
		app.Notes,
		app.ID,
		app.UserID,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	return translate(err)
}

func (r *applicationRepository) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.JobTitle,
		&app.Company,
		&app.Location,
		&app.Date,
		&app.Status,
		&app.Notes,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	app.Date = domain.CalendarDate(app.Date)
	return &app, nil
}
