// Package server assembles the job tracker API from its configuration and
// backing stores.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/job-tracker/internal/api/http"
	"github.com/spec-kit/job-tracker/internal/api/http/handlers"
	"github.com/spec-kit/job-tracker/internal/auth"
	"github.com/spec-kit/job-tracker/internal/cache"
	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/events"
	"github.com/spec-kit/job-tracker/internal/observability"
	"github.com/spec-kit/job-tracker/internal/persistence"
	"github.com/spec-kit/job-tracker/internal/service"
	"github.com/spec-kit/job-tracker/internal/worker"
)

const (
	notificationBuffer     = 256
	rateLimitCleanupPeriod = time.Minute
)

// Dependencies are the resources a Server runs on. Redis and Metrics are optional.
type Dependencies struct {
	Config  *config.Config
	Store   *persistence.Store
	Redis   *persistence.Redis
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Server is the wired HTTP application plus its background work.
type Server struct {
	App     *fiber.App
	Auth    *service.AuthService
	Metrics *observability.Metrics

	cfg           *config.Config
	logger        *zap.Logger
	notifications *service.NotificationService
	worker        *worker.NotificationWorker
	limiter       *httptransport.RateLimiter
	started       bool
}

// New wires services, handlers and routes.
func New(deps Dependencies) *Server {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	notificationWorker := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), notificationBuffer, logger)
	notifications := service.NewNotificationService(notificationWorker, logger, metrics, cfg.Notification)

	var appCache *cache.Applications
	pingers := map[string]handlers.Pinger{"database": deps.Store}
	if deps.Redis != nil {
		appCache = cache.NewApplications(deps.Redis.Client, cfg.Redis.TTL(), logger)
		pingers["redis"] = deps.Redis
	}

	validator := service.NewValidator()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          deps.Store.Users,
		PasswordResetRepo: deps.Store.PasswordReset,
		Validator:         validator,
		Dispatcher:        notificationWorker,
		Logger:            logger,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: deps.Store.Applications,
		Cache:           appCache,
		Validator:       validator,
		Dispatcher:      notificationWorker,
		Logger:          logger,
	})

	var limiter *httptransport.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = httptransport.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	}

	app := httptransport.NewApp(logger, httptransport.AppOptions{
		RequestTimeout: cfg.App.RequestTimeout(),
		ProxyHeader:    cfg.App.ProxyHeader,
		TrustedProxies: cfg.App.TrustedProxies,
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pingers),
		Auth:           handlers.NewAuthHandler(authService),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), deps.Store.Users),
		RateLimiter:    limiter,
		Metrics:        metrics,
	})

	return &Server{
		App:           app,
		Auth:          authService,
		Metrics:       metrics,
		cfg:           cfg,
		logger:        logger,
		notifications: notifications,
		worker:        notificationWorker,
		limiter:       limiter,
	}
}

// Start launches the notification worker and rate limiter housekeeping.
// Both stop when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	s.started = true
	worker.StartNotificationWorker(ctx, s.notifications, s.worker)
	if s.limiter != nil {
		s.limiter.StartCleanup(rateLimitCleanupPeriod, ctx.Done())
	}
}

// Listen serves HTTP on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info("listening", zap.String("addr", s.cfg.App.Addr()))
	return s.App.Listen(s.cfg.App.Addr())
}

// Shutdown stops accepting requests, then waits for queued notifications
// to drain. The context passed to Start must already be cancelled for the
// drain to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.App.ShutdownWithContext(ctx); err != nil {
		return err
	}
	if !s.started {
		return nil
	}
	select {
	case <-s.worker.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
