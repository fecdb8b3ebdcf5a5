package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/core/services"
	"github.com/softblue/bank_backend/internal/handlers"
	"github.com/softblue/bank_backend/internal/middleware"
	"github.com/softblue/bank_backend/internal/platform/cache"
	"github.com/softblue/bank_backend/internal/platform/config"
	"github.com/softblue/bank_backend/internal/platform/locking"
	"github.com/softblue/bank_backend/internal/platform/notification"
	"github.com/softblue/bank_backend/internal/repositories/database/pgsql"
	"github.com/softblue/bank_backend/internal/repositories/memory"
	"github.com/softblue/bank_backend/internal/utils"
	"github.com/softblue/bank_backend/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title SoftBlue Bank Backend API
// @version 1.0
// @description Accounts, balance-affecting transactions, statements and reports for SoftBlue Bank.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repos  repositories.RepositoryProvider
		dbPool *pgxpool.Pool
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbPool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)

		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	default:
		logger.Warn("Using in-memory storage")
		repos = memory.NewStore().Repositories()
	}

	var redisClient redis.UniversalClient
	if cfg.RedisAddr != "" {
		redisClient = cache.NewRedisClient([]string{cfg.RedisAddr}, cfg.RedisPassword)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to redis", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
		logger.Info("Redis client connected.", slog.String("addr", cfg.RedisAddr))
	}

	var locker portssvc.KeyedLocker = locking.NewLocal()
	if cfg.LockDriver == config.LockRedis {
		locker = locking.NewRedis(redisClient, cfg.LockTTL, logger)
	}

	var balanceCache portssvc.BalanceCache
	if redisClient != nil {
		balanceCache = cache.NewBalanceCache(redisClient, cfg.BalanceCacheTTL)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	var publishers []notification.Publisher
	var kafkaWriter *kafka.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter = notification.NewKafkaWriter(cfg.KafkaBrokers, logger)
		publishers = append(publishers, notification.NewKafkaPublisher(kafkaWriter, cfg.KafkaTopicPrefix))
	}
	if posthogClient.IsInitialized() {
		publishers = append(publishers, notification.NewPosthogPublisher(posthogClient))
	}

	dispatcher := notification.NewDispatcher(logger, cfg.NotificationBuffer, cfg.NotificationWorkers, publishers)
	dispatcher.Start()

	serviceContainer := services.NewServiceContainer(cfg, repos, services.Infrastructure{
		Locker:   locker,
		Cache:    balanceCache,
		Notifier: dispatcher,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouterDeps{
		RedisClient: redisClient,
		Posthog:     posthogClient,
	}); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	// Drain queued notifications before closing the publishers' clients.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Notification dispatcher did not drain", slog.String("error", err.Error()))
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("Error closing kafka writer", slog.String("error", err.Error()))
		}
	}
	logger.Info("Server stopped")
}
