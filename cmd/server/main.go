package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpadapter "github.com/iho/cashbook/internal/adapter/http"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	postgresrepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	"github.com/iho/cashbook/internal/infrastructure/auth"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/infrastructure/redis"
	"github.com/iho/cashbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallbackLogger := zerolog.New(os.Stderr)
		fallbackLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg)

	logger.Info().Msg("Starting cashbook server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Metrics
	m := metrics.New()

	// Repositories
	txManager := postgresrepo.NewTxManager(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	balanceRepo := postgresrepo.NewBalanceRepository(pool)
	partyRepo := postgresrepo.NewPartyRepository(pool)
	alertRepo := postgresrepo.NewAlertRepository(pool)
	idGen := postgresrepo.NewULIDGenerator()
	retrier := postgresrepo.NewRetrier(logger)
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	// Use cases
	entryUC := usecase.NewEntryUseCase(txManager, entryRepo, balanceRepo, alertRepo, partyRepo, idGen, cache, m, logger)
	settlementUC := usecase.NewSettlementUseCase(txManager, entryRepo, balanceRepo, idGen, retrier, cache, m, logger)
	profitUC := usecase.NewProfitUseCase(entryRepo, cache, logger)
	balanceUC := usecase.NewBalanceUseCase(entryRepo, balanceRepo, m)
	alertUC := usecase.NewAlertUseCase(alertRepo)
	partyUC := usecase.NewPartyUseCase(txManager, partyRepo, entryRepo, idGen)

	// Auth is optional; without it the owner comes from X-Owner-ID.
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		logger.Warn().Msg("Authentication disabled, trusting the X-Owner-ID header")
	}

	// Handlers
	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		EntryHandler:     handler.NewEntryHandler(entryUC, settlementUC),
		PartyHandler:     handler.NewPartyHandler(partyUC),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC),
		AlertHandler:     handler.NewAlertHandler(alertUC),
		ReportHandler:    handler.NewReportHandler(profitUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logging:          middleware.NewLoggingMiddleware(logger),
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if cfg.LogFormat != "json" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Str("service", "cashbook").Logger()
}
