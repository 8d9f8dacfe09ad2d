package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/infrastructure/auth"
	"github.com/iho/cashbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler     *handler.EntryHandler
	PartyHandler     *handler.PartyHandler
	BalanceHandler   *handler.BalanceHandler
	AlertHandler     *handler.AlertHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints, outside auth
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Entries and settlements
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Patch("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
			r.Post("/{id}/settle", cfg.EntryHandler.Settle)
		})

		// Counterparties
		r.Route("/parties", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.Create)
			r.Get("/", cfg.PartyHandler.List)
			r.Get("/{id}", cfg.PartyHandler.Get)
			r.Delete("/{id}", cfg.PartyHandler.Delete)
		})

		// Balance
		r.Get("/balance", cfg.BalanceHandler.Get)
		r.Post("/balance/recalculate", cfg.BalanceHandler.Recalculate)

		// Alerts
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", cfg.AlertHandler.List)
			r.Post("/{id}/dismiss", cfg.AlertHandler.Dismiss)
		})

		// Reports
		r.Get("/reports/profit", cfg.ReportHandler.Profit)
		r.Get("/reports/summary", cfg.ReportHandler.MonthlySummary)
	})

	return r
}
