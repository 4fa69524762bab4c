// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/wms-ledger/internal/adapters/db"
	redis_a "github.com/ammerola/wms-ledger/internal/adapters/redis_adapter"
	"github.com/ammerola/wms-ledger/internal/adapters/storage"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
	"github.com/ammerola/wms-ledger/internal/pkg/logger"
	"github.com/ammerola/wms-ledger/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json").Logger

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat).Logger
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()
	database, err := initDatabase(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cache := redis_a.NewCache(redisClient, cfg.Ledger.LocationsCacheTTL, slogger)

	archive, err := initArchive(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize archive storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	placements := db.NewPlacementStore(database, slogger)
	packages := db.NewPackageRepository(database, slogger)
	history := db.NewTransactionRepository(database, slogger)
	locations := services.NewLocationQuery(placements, packages, cache, cfg.Ledger.LocationsCacheTTL, slogger)

	processors := &workers.Processors{
		Movement: workers.NewMovementProcessor(packages, locations, slogger),
		Audit:    workers.NewAuditProcessor(packages, cfg.Worker.AuditLimit, slogger),
		Archive:  workers.NewArchiveProcessor(history, archive, slogger),
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	asynqLogger := workers.NewAsynqLogger(slogger)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:         cfg.Asynq.Concurrency,
		Queues:              cfg.Asynq.Queues,
		StrictPriority:      cfg.Asynq.StrictPriority,
		ErrorHandler:        workers.ErrorHandler(slogger),
		RetryDelayFunc:      workers.RetryDelay,
		ShutdownTimeout:     cfg.Asynq.ShutdownTimeout,
		HealthCheckInterval: cfg.Asynq.HealthCheckInterval,
		HealthCheckFunc:     healthCheck(slogger),
		Logger:              asynqLogger,
	})

	mux := asynq.NewServeMux()
	processors.Register(mux)

	location, err := time.LoadLocation(cfg.Worker.Timezone)
	if err != nil {
		slogger.Error("invalid worker timezone", slog.String("timezone", cfg.Worker.Timezone), slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: location,
		Logger:   asynqLogger,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				slogger.Error("failed to enqueue scheduled task", slog.String("error", err.Error()))
			}
		},
	})
	if err := workers.RegisterSchedules(scheduler, workers.ScheduleConfig{
		AuditCron:   cfg.Worker.AuditCron,
		AuditLimit:  cfg.Worker.AuditLimit,
		ArchiveCron: cfg.Worker.ArchiveCron,
	}, slogger); err != nil {
		slogger.Error("failed to register schedules", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	if err := srv.Start(mux); err != nil {
		slogger.Error("failed to start worker server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		srv.Shutdown()
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	return db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		ApplicationName:    cfg.App.Name + "-worker",
		MaxConnections:     10,
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
		LockTimeout:        cfg.Database.LockTimeout,
	}, logger)
}

func initArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ArchiveStorage, error) {
	switch cfg.Archive.Backend {
	case "local":
		return storage.NewLocalStorage(cfg.Archive.LocalDir, logger), nil
	case "s3", "":
		return storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.Archive.Region,
			Bucket:          cfg.Archive.Bucket,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			Endpoint:        cfg.Archive.Endpoint,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

func healthCheck(logger *slog.Logger) func(error) {
	return func(err error) {
		if err != nil {
			logger.Error("worker health check failed", slog.String("error", err.Error()))
		}
	}
}
