package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/starclip/wallet/internal/adapter/http/handler"
	"github.com/starclip/wallet/internal/adapter/http/middleware"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/auth"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
	"github.com/starclip/wallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler     *handler.WalletHandler
	WithdrawalHandler *handler.WithdrawalHandler
	EarningsHandler   *handler.EarningsHandler
	UserHandler       *handler.UserHandler
	HealthHandler     *handler.HealthHandler
	JWTManager        *auth.JWTManager
	IdempotencyStore  usecase.IdempotencyStore
	Metrics           *metrics.Metrics
	RateLimit         *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit.Limit)
	}

	// Health and telemetry endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Wallet
		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", cfg.WalletHandler.Balance)
			r.Post("/topups", cfg.WalletHandler.StartTopUp)
			r.Post("/topups/capture", cfg.WalletHandler.CaptureTopUp)
		})

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", cfg.WithdrawalHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleCreator))
				r.Post("/", cfg.WithdrawalHandler.Submit)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/{id}/approve", cfg.WithdrawalHandler.Approve)
				r.Post("/{id}/fail", cfg.WithdrawalHandler.Fail)
			})
		})

		// Earnings
		r.Route("/earnings", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleCreator, domain.RoleAdmin))
			r.Get("/", cfg.EarningsHandler.List)
			r.Get("/summary", cfg.EarningsHandler.Summary)
		})

		// Admin user operations
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Get("/{id}", cfg.UserHandler.Get)
			r.Post("/{id}/balance-adjustments", cfg.UserHandler.AdjustBalance)
		})
	})

	return r
}
