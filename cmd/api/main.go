// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/wms-ledger/internal/adapters/db"
	redis_a "github.com/ammerola/wms-ledger/internal/adapters/redis_adapter"
	"github.com/ammerola/wms-ledger/internal/core/capacity"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/internal/handlers"
	"github.com/ammerola/wms-ledger/internal/handlers/middleware"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
	"github.com/ammerola/wms-ledger/internal/pkg/idgen"
	"github.com/ammerola/wms-ledger/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("info", "json").Logger

	slogger.Info("starting inventory ledger api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if !cfg.IsProduction() {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup(slogger)

	if deps.rateLimiter != nil {
		go deps.rateLimiter.Cleanup(ctx, cfg.Security.RateLimitDuration)
	}

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        deps.router.Handler(cfg, slogger),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", server.Addr),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)
		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		slogger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}
		slogger.Info("server shutdown complete")
	}
}

// dependencies holds everything the API process owns
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	rateLimiter    *middleware.RateLimiter
	router         *handlers.Router
}

func (d *dependencies) cleanup(logger *slog.Logger) {
	if d.asynqClient != nil {
		if err := d.asynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", slog.String("error", err.Error()))
		}
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func databaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		ApplicationName:    cfg.App.Name + "-api",
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
		LockTimeout:        cfg.Database.LockTimeout,
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)
	database, err := db.NewDatabase(ctx, databaseConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis", slog.String("addr", cfg.Redis.Addr()))
	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Addr(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		deps.cleanup(logger)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	cache := redis_a.NewCache(redisClient, cfg.Ledger.LocationsCacheTTL, logger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	sequence, err := idgen.NewGenerator(cfg.Ledger.NodeID)
	if err != nil {
		deps.cleanup(logger)
		return nil, fmt.Errorf("failed to create sequence generator: %w", err)
	}

	placements := db.NewPlacementStore(database, logger)
	packages := db.NewPackageRepository(database, logger)
	shelves := db.NewShelfRepository(database, logger)
	loads := db.NewLoadRepository(database, logger)
	history := db.NewTransactionRepository(database, logger)
	checker := capacity.NewChecker()

	movement := services.NewTransactionProcessor(services.MovementDeps{
		Tx:         database,
		Placements: placements,
		Packages:   packages,
		Shelves:    shelves,
		History:    history,
		Checker:    checker,
		Sequence:   sequence,
		Cache:      cache,
		Queue:      deps.asynqClient,
	}, services.MovementConfig{
		MaxRetries:   cfg.Ledger.MaxRetries,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	}, logger)

	intake := services.NewLoadIntake(services.IntakeDeps{
		Tx:         database,
		Loads:      loads,
		Packages:   packages,
		Placements: placements,
		Shelves:    shelves,
		Checker:    checker,
		Cache:      cache,
	}, services.IntakeConfig{ValidateCapacity: cfg.Ledger.ValidateIntakeCapacity}, logger)

	locations := services.NewLocationQuery(placements, packages, cache, cfg.Ledger.LocationsCacheTTL, logger)

	if cfg.Security.RateLimitRequests > 0 && cfg.Security.RateLimitDuration > 0 {
		deps.rateLimiter = middleware.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)
	}
	deps.router = &handlers.Router{
		Transactions: handlers.NewTransactionHandler(movement, logger),
		Loads:        handlers.NewLoadHandler(intake, logger),
		Locations:    handlers.NewLocationHandler(locations, logger),
		RateLimiter:  deps.rateLimiter,
	}
	if cfg.Server.EnableHealthCheck {
		deps.router.Health = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, logger)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, logger, 3)
}
