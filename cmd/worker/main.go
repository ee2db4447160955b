// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/reorder-dashboard/internal/adapters/storage"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
	"github.com/ammerola/reorder-dashboard/internal/pkg/config"
	"github.com/ammerola/reorder-dashboard/internal/pkg/logger"
	"github.com/ammerola/reorder-dashboard/internal/workers"
)

// Build information injected at compile time
var Version = "dev"

const serviceName = "reorder-dashboard-worker"

func main() {
	// Setup logger
	slogger := logger.SetupLogger("info", "json", serviceName, Version, "")

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat, serviceName, Version, cfg.App.Environment)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	if cfg.AWS.SecretName != "" {
		sm, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.SecretName, slogger)
		if err == nil {
			err = config.ApplySecrets(ctx, cfg, sm)
		}
		if err != nil {
			slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	archive, err := initArchiveStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize archive storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	// Create Asynq server
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()

	archiveProcessor := workers.NewArchiveProcessor(archive, slogger)
	mux.HandleFunc(workers.TypeExportArchive, archiveProcessor.ArchiveExport)

	cleanupProcessor := workers.NewCleanupProcessor(cfg.FileProcessing.TempDir, cfg.FileProcessing.TempFileMaxAge, slogger)
	mux.HandleFunc(workers.TypeCleanupTempFiles, cleanupProcessor.CleanupTempFiles)

	// Periodic temp file sweep
	periodic := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(slogger),
	})
	if cfg.FileProcessing.CleanupInterval > 0 {
		spec := fmt.Sprintf("@every %s", cfg.FileProcessing.CleanupInterval)
		if _, err := periodic.Register(spec, workers.NewCleanupTempFilesTask()); err != nil {
			slogger.Error("failed to register cleanup schedule", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	if err := periodic.Start(); err != nil {
		slogger.Error("failed to start periodic scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.Duration("cleanup_interval", cfg.FileProcessing.CleanupInterval))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	periodic.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

// initArchiveStorage uses S3 when a bucket is configured and the local temp dir otherwise
func initArchiveStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ArchiveStorage, error) {
	if cfg.AWS.S3Bucket == "" {
		dir := filepath.Join(cfg.FileProcessing.TempDir, "archive")
		logger.Info("archiving exports to local disk", slog.String("path", dir))
		return storage.NewLocalStorage(dir, logger), nil
	}

	logger.Info("archiving exports to S3", slog.String("bucket", cfg.AWS.S3Bucket))
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("payload_bytes", len(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
