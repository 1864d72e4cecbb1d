package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/api/dto"
	"github.com/spec-kit/job-tracker/internal/cache"
	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/events"
	"github.com/spec-kit/job-tracker/internal/repository"
	apperrors "github.com/spec-kit/job-tracker/pkg/util/errorutil"
)

const (
	msgInvalidID      = "Invalid application ID"
	msgInvalidStatus  = "Invalid status"
	msgUpdateNotFound = "Application not found or you are not authorized to update it"
	msgDeleteNotFound = "Application not found or you are not authorized to delete it"
)

// ApplicationService runs owner-scoped CRUD over job applications.
type ApplicationService struct {
	apps       repository.ApplicationRepository
	cache      *cache.Applications
	validator  *Validator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	Cache           *cache.Applications
	Validator       *Validator
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewApplicationService builds the service. A nil cache disables caching.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		apps:       deps.ApplicationRepo,
		cache:      deps.Cache,
		validator:  v,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// ParseStatusFilter maps the status query parameter. Empty and "all" list everything.
func ParseStatusFilter(raw string) (domain.Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == domain.StatusAll {
		return "", nil
	}
	status := domain.Status(raw)
	if !status.Valid() {
		return "", apperrors.NewBadRequest(msgInvalidStatus)
	}
	return status, nil
}

// List returns the owner's records newest first, optionally filtered by status.
func (s *ApplicationService) List(ctx context.Context, userID, statusFilter string) ([]domain.Application, error) {
	status, err := ParseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(ctx, userID, status); ok {
		return cached, nil
	}
	gen, cacheable := s.cache.Generation(ctx, userID)
	apps, err := s.apps.ListByOwner(ctx, userID, status)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if cacheable {
		s.cache.Set(ctx, userID, status, gen, apps)
	}
	return apps, nil
}

// Create validates and stores a new record owned by userID.
func (s *ApplicationService) Create(ctx context.Context, userID string, req dto.ApplicationRequest) (*domain.Application, error) {
	app, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	app.UserID = userID
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.cache.Invalidate(ctx, userID)
	s.publish(ctx, events.EventApplicationCreated, app, "")
	return app, nil
}

// Update replaces the editable fields of a record owned by userID.
func (s *ApplicationService) Update(ctx context.Context, userID, id string, req dto.ApplicationRequest) (*domain.Application, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	app, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	var prev domain.Status
	if existing, err := s.apps.GetByID(ctx, id, userID); err == nil {
		prev = existing.Status
	} else if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound(msgUpdateNotFound)
	} else {
		return nil, apperrors.NewInternalError(err)
	}

	app.ID = id
	app.UserID = userID
	if err := s.apps.Update(ctx, app); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgUpdateNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.cache.Invalidate(ctx, userID)
	s.publish(ctx, events.EventApplicationUpdated, app, prev)
	return app, nil
}

// Delete removes a record owned by userID.
func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound(msgDeleteNotFound)
		}
		return apperrors.NewInternalError(err)
	}
	s.cache.Invalidate(ctx, userID)
	s.publish(ctx, events.EventApplicationDeleted, &domain.Application{ID: id, UserID: userID}, "")
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewBadRequest(msgInvalidID)
	}
	return nil
}

func (s *ApplicationService) fromRequest(req dto.ApplicationRequest) (*domain.Application, error) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Company = strings.TrimSpace(req.Company)
	req.Location = strings.TrimSpace(req.Location)
	req.Date = strings.TrimSpace(req.Date)
	req.Status = strings.TrimSpace(req.Status)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("Validation failed", []apperrors.FieldError{{Field: "date", Message: "Valid date is required"}})
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, apperrors.NewValidationError("Validation failed", []apperrors.FieldError{{Field: "status", Message: msgInvalidStatus}})
	}
	return &domain.Application{
		JobTitle: req.JobTitle,
		Company:  req.Company,
		Location: req.Location,
		Date:     date,
		Status:   status,
		Notes:    req.Notes,
	}, nil
}

func (s *ApplicationService) publish(ctx context.Context, eventType events.EventType, app *domain.Application, prev domain.Status) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    app.UserID,
		Timestamp: s.now(),
		Payload: events.ApplicationPayload{
			ApplicationID: app.ID,
			JobTitle:      app.JobTitle,
			Company:       app.Company,
			Status:        app.Status,
			PrevStatus:    prev,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("application event handler failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
