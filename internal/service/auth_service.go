package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/api/dto"
	"github.com/spec-kit/job-tracker/internal/auth"
	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/events"
	"github.com/spec-kit/job-tracker/internal/repository"
	apperrors "github.com/spec-kit/job-tracker/pkg/util/errorutil"
)

const (
	msgUserExists      = "User already exists with this email"
	msgWrongCredential = "Wrong email or password"
	msgNoUserForEmail  = "No user found with this email"
	msgResetInvalid    = "Password reset token is invalid or has expired."
)

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and password reset flows.
type AuthService struct {
	users         repository.UserRepository
	resets        repository.PasswordResetRepository
	tokenMgr      *auth.TokenManager
	validator     *Validator
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
	resetTTL      time.Duration
	resetLinkBase string
	now           func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Validator         *Validator
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	}
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:         deps.UserRepo,
		resets:        deps.PasswordResetRepo,
		tokenMgr:      tokens,
		validator:     v,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		resetTTL:      cfg.Auth.PasswordResetTTL(),
		resetLinkBase: cfg.Notification.ResetLinkBaseURL,
		now:           time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewBadRequest(msgUserExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewBadRequest(msgUserExists)
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewBadRequest(msgWrongCredential)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.NewBadRequest(msgWrongCredential)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Me returns the account behind userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// RequestPasswordReset stores a single-use token valid for the configured
// TTL and publishes the reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req dto.ForgotPasswordRequest) (*domain.PasswordReset, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound(msgNoUserForEmail)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	reset := &domain.PasswordReset{
		UserID:    user.ID,
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordResetRequested,
			UserID:    user.ID,
			Timestamp: s.now(),
			Payload: events.PasswordResetPayload{
				Email:     user.Email,
				Name:      user.Name,
				ResetLink: s.ResetLink(reset.Token),
				ExpiresAt: reset.ExpiresAt,
			},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("password reset notification failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return reset, nil
}

// ResetLink builds the link mailed to the user.
func (s *AuthService) ResetLink(token string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.resetLinkBase, "/"), url.PathEscape(token))
}

// ConfirmPasswordReset sets the new password, then consumes the token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token string, req dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	reset, err := s.resets.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewBadRequest(msgResetInvalid)
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !reset.Usable(s.now()) {
		return apperrors.NewBadRequest(msgResetInvalid)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	// The token stays usable until the password is actually stored.
	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewInternalError(err)
		}
		s.logger.Warn("password reset token consumed concurrently", zap.String("user_id", reset.UserID))
	}
	s.logger.Info("password reset completed", zap.String("user_id", reset.UserID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
