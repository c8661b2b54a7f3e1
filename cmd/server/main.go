package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/starclip/wallet/internal/adapter/http"
	"github.com/starclip/wallet/internal/adapter/http/handler"
	"github.com/starclip/wallet/internal/adapter/http/middleware"
	"github.com/starclip/wallet/internal/adapter/paypal"
	postgresRepo "github.com/starclip/wallet/internal/adapter/repository/postgres"
	redisRepo "github.com/starclip/wallet/internal/adapter/repository/redis"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/auth"
	"github.com/starclip/wallet/internal/infrastructure/config"
	"github.com/starclip/wallet/internal/infrastructure/eventpublisher"
	"github.com/starclip/wallet/internal/infrastructure/logger"
	"github.com/starclip/wallet/internal/infrastructure/logging"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
	"github.com/starclip/wallet/internal/infrastructure/postgres"
	"github.com/starclip/wallet/internal/infrastructure/redis"
	"github.com/starclip/wallet/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	appLog := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	earningRepo := postgresRepo.NewEarningRepository(pool)
	notificationRepo := postgresRepo.NewNotificationRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Payment gateway
	var gateway usecase.PaymentGateway
	paypalClient, err := paypal.NewClient(paypal.Config{
		ClientID:    cfg.PayPalClientID,
		Secret:      cfg.PayPalClientSecret,
		Environment: cfg.PayPalEnvironment,
		Timeout:     cfg.PayPalTimeout,
	}, nil)
	switch {
	case err == nil:
		gateway = paypalClient
	case errors.Is(err, domain.ErrGatewayNotConfigured):
		log.Warn().Msg("paypal credentials not configured, top-ups disabled")
		gateway = paypal.Disabled{}
	default:
		log.Fatal().Err(err).Msg("failed to initialize paypal client")
	}

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(walletRepo, withdrawalRepo, cache, m, appLog.Logger)
	withdrawalUC := usecase.NewWithdrawalUseCase(txManager, withdrawalRepo, balanceUC, notificationRepo, auditRepo, outboxRepo, idGen, m, appLog.Logger)
	topUpUC := usecase.NewTopUpUseCase(txManager, transactionRepo, notificationRepo, outboxRepo, gateway, idGen, m, appLog.Logger, cfg.Currency)
	earningsUC := usecase.NewEarningsUseCase(earningRepo, appLog.Logger)
	userUC := usecase.NewUserUseCase(txManager, userRepo, walletRepo, auditRepo, outboxRepo, idGen, appLog.Logger)

	// Change-feed publisher: drains the outbox into Redis pub/sub, where
	// reconcile sessions pick the events up.
	notifier := redisRepo.NewChangeNotifier(redisClient, appLog.Logger)
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  notifier,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(50, 100)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.Reset()
			}
		}
	}()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	walletHandler := handler.NewWalletHandler(balanceUC, topUpUC)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalUC)
	earningsHandler := handler.NewEarningsHandler(earningsUC)
	userHandler := handler.NewUserHandler(userUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WalletHandler:     walletHandler,
		WithdrawalHandler: withdrawalHandler,
		EarningsHandler:   earningsHandler,
		UserHandler:       userHandler,
		HealthHandler:     healthHandler,
		JWTManager:        jwtManager,
		IdempotencyStore:  idempotencyStore,
		Metrics:           m,
		RateLimit:         rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
