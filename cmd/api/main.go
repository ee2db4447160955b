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
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/reorder-dashboard/internal/adapters/gateway"
	redis_a "github.com/ammerola/reorder-dashboard/internal/adapters/redis_adapter"
	"github.com/ammerola/reorder-dashboard/internal/adapters/spreadsheet"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
	"github.com/ammerola/reorder-dashboard/internal/handlers"
	"github.com/ammerola/reorder-dashboard/internal/handlers/middleware"
	"github.com/ammerola/reorder-dashboard/internal/pkg/config"
	"github.com/ammerola/reorder-dashboard/internal/pkg/logger"
	"github.com/ammerola/reorder-dashboard/internal/pkg/metrics"
	"github.com/ammerola/reorder-dashboard/internal/scheduler"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

const serviceName = "reorder-dashboard-api"

func main() {
	slogger := logger.SetupLogger("debug", "json", serviceName, Version, "")

	slogger.Info("starting reorder dashboard",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat, serviceName, Version, cfg.App.Environment)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("reorder_service", cfg.Gateway.BaseURL),
	)

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

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Initial load reports its own failures as notifications
	deps.dashboard.Init(ctx)

	sched, err := scheduler.NewScheduler(cfg.Scheduler, deps.dashboard, slogger)
	if err != nil {
		slogger.Error("failed to create scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := sched.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		sched.Stop(shutdownCtx)

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		// Running syncs finish on the reorder service regardless; wait so
		// their results are logged and counted.
		if err := deps.dashboard.WaitForSyncs(shutdownCtx); err != nil {
			slogger.Warn("sync operations still running at shutdown", slog.String("error", err.Error()))
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient      *redis.Client
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	registry         *prometheus.Registry
	httpMetrics      *metrics.HTTPMetrics
	dashboard        *services.DashboardService
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	syncHandler      *handlers.SyncHandler
	exportHandler    *handlers.ExportHandler
	uploadHandler    *handlers.UploadHandler
	pivotHandler     *handlers.PivotHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Redis is optional; without it the dashboard runs without snapshots
	var cache ports.CacheRepository
	if cfg.Redis.Host != "" {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			PoolTimeout:  cfg.Redis.PoolTimeout,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
		cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, cfg.Redis.KeyPrefix, logger)
	}

	// Asynq carries export archiving to the worker
	var archiver ports.TaskEnqueuer
	if cfg.Asynq.RedisAddr != "" {
		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)
		if cfg.AWS.ArchiveExports {
			logger.Info("export archiving enabled")
			deps.asynqClient = asynq.NewClient(asynqRedisOpt)
			archiver = deps.asynqClient
		}
	}

	// Metrics
	deps.registry = prometheus.NewRegistry()
	deps.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	syncMetrics := metrics.NewSyncMetrics(deps.registry)
	deps.httpMetrics = metrics.NewHTTPMetrics(deps.registry)

	reorderGateway := gateway.NewClient(gateway.Config{
		BaseURL:     cfg.Gateway.BaseURL,
		ReadTimeout: cfg.Gateway.ReadTimeout,
		UserAgent:   cfg.Gateway.UserAgent,
	}, logger)
	workbook := spreadsheet.NewWorkbook(logger)
	maxUpload := cfg.UploadMaxBytes()

	// Services
	deps.dashboard = services.NewDashboardService(reorderGateway, cache, syncMetrics, services.DashboardConfig{
		Warehouses:           cfg.Dashboard.Warehouses,
		DefaultWarehouse:     cfg.Dashboard.DefaultWarehouse,
		SnapshotTTL:          cfg.Dashboard.SnapshotTTL,
		NotificationCapacity: cfg.Dashboard.NotificationCapacity,
	}, logger)
	uploads := services.NewUploadService(reorderGateway, workbook, deps.dashboard, maxUpload, logger)
	pivots := services.NewPivotService(reorderGateway, cache, deps.dashboard, cfg.Dashboard.PivotTTL, logger)

	// Handlers
	deps.healthHandler = handlers.NewHealthHandler(
		reorderGateway,
		deps.dashboard,
		deps.redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)
	deps.dashboardHandler = handlers.NewDashboardHandler(deps.dashboard, logger)
	deps.syncHandler = handlers.NewSyncHandler(deps.dashboard, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.dashboard, workbook, archiver, logger)
	deps.uploadHandler = handlers.NewUploadHandler(uploads, maxUpload, logger)
	deps.pivotHandler = handlers.NewPivotHandler(pivots, workbook, maxUpload, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	// Metrics must see the mux directly to read the matched pattern
	handler := middleware.Metrics(deps.httpMetrics)(mux)

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws, middleware.Compression)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(handler, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	if cfg.Server.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	}

	// Dashboard
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)
	mux.HandleFunc("PUT "+apiV1+"/dashboard/filters", deps.dashboardHandler.UpdateFilters)
	mux.HandleFunc("PUT "+apiV1+"/dashboard/warehouse", deps.dashboardHandler.SelectWarehouse)
	mux.HandleFunc("POST "+apiV1+"/dashboard/reload", deps.dashboardHandler.Reload)

	// Notifications
	mux.HandleFunc("GET "+apiV1+"/notifications", deps.dashboardHandler.ListNotifications)
	mux.HandleFunc("DELETE "+apiV1+"/notifications/{id}", deps.dashboardHandler.DismissNotification)

	// Sync operations
	mux.HandleFunc("GET "+apiV1+"/sync", deps.syncHandler.GetStatus)
	mux.HandleFunc("POST "+apiV1+"/sync/{kind}", deps.syncHandler.Trigger)

	// Export
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)

	// Uploads are forwarded to the reorder service and bounded by the processing timeout
	withTimeout := middleware.Timeout(processingTimeout(cfg))
	mux.Handle("POST "+apiV1+"/upload/{type}", withTimeout(http.HandlerFunc(deps.uploadHandler.Upload)))

	// Pivot
	mux.Handle("POST "+apiV1+"/pivot/sku-date", withTimeout(http.HandlerFunc(deps.pivotHandler.Build)))
	mux.HandleFunc("GET "+apiV1+"/pivot", deps.pivotHandler.GetLatest)
	mux.HandleFunc("GET "+apiV1+"/pivot/export", deps.pivotHandler.Export)
}

func processingTimeout(cfg *config.Config) time.Duration {
	if cfg.FileProcessing.ProcessingTimeout > 0 {
		return cfg.FileProcessing.ProcessingTimeout
	}
	return 5 * time.Minute
}
