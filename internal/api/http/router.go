package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/api/http/handlers"
	"github.com/spec-kit/job-tracker/internal/auth"
	"github.com/spec-kit/job-tracker/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Applications   *handlers.ApplicationsHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Use(cfg.RateLimiter.Handler())
	}
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password/:token", cfg.Auth.ResetPassword)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	applications := api.Group("/applications", cfg.AuthMiddleware.Handle)
	applications.Get("", cfg.Applications.List)
	applications.Post("", cfg.Applications.Create)
	applications.Put("/:id", cfg.Applications.Update)
	applications.Delete("/:id", cfg.Applications.Delete)
}

// AppOptions holds server-wide fiber settings.
type AppOptions struct {
	RequestTimeout time.Duration
	// ProxyHeader names the header carrying the client address when the
	// server sits behind a reverse proxy. Empty means the socket address.
	ProxyHeader string
	// TrustedProxies limits which peers may set ProxyHeader. Empty trusts all.
	TrustedProxies []string
}

// NewApp builds the fiber application with middleware and routes.
func NewApp(logger *zap.Logger, opts AppOptions, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                 "job-tracker",
		ErrorHandler:            ErrorHandler(logger, routes.Metrics),
		ProxyHeader:             opts.ProxyHeader,
		EnableIPValidation:      opts.ProxyHeader != "",
		EnableTrustedProxyCheck: len(opts.TrustedProxies) > 0,
		TrustedProxies:          opts.TrustedProxies,
	})
	RegisterMiddlewares(app, logger, routes.Metrics, opts.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}
