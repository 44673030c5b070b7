package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/igor325/AGROTASKv2/internal/config"
	"github.com/igor325/AGROTASKv2/internal/handler"
	"github.com/igor325/AGROTASKv2/internal/health"
	"github.com/igor325/AGROTASKv2/internal/infra/dispatchrecorder"
	"github.com/igor325/AGROTASKv2/internal/infra/ledgerindex"
	"github.com/igor325/AGROTASKv2/internal/infra/store"
	"github.com/igor325/AGROTASKv2/internal/infra/waapi"
	"github.com/igor325/AGROTASKv2/internal/invoker"
	"github.com/igor325/AGROTASKv2/internal/observability/metrics"
	"github.com/igor325/AGROTASKv2/internal/observability/middleware"
	"github.com/igor325/AGROTASKv2/internal/service/dispatch"
	"github.com/igor325/AGROTASKv2/internal/service/engine"
	"github.com/igor325/AGROTASKv2/internal/service/ledger"
	"github.com/igor325/AGROTASKv2/internal/service/recurrence"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	// Dispatch result recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := dispatchrecorder.LoadConfig()
	recorder, err := dispatchrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize dispatch recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close dispatch recorder", slog.String("error", err.Error()))
		}
	}()

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database",
			slog.String("path", cfg.Database.Path),
			slog.String("error", err.Error()),
		)
		return 1
	}
	if err := st.Migrate(ctx); err != nil {
		slog.Error("failed to run database migrations", slog.String("error", err.Error()))
		return 1
	}
	slog.Info("database ready",
		slog.String("path", cfg.Database.Path),
	)

	redisOpts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.TLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	sentIndex := ledgerindex.NewSentIndex(redisClient)

	gateway := waapi.NewClient(cfg.WAAPI.APIURL, cfg.WAAPI.InstanceID, cfg.WAAPI.Token)
	dispatcher := dispatch.NewDispatcher(gateway,
		dispatch.WithMaxAttempts(cfg.Scheduler.DispatchMaxRetries),
	)

	clock := timewindow.NewClock(cfg.Scheduler.BusinessUTCOffsetMinutes)
	executionLedger := ledger.New(st, sentIndex)
	evaluator := recurrence.NewEvaluator(st)

	eng := engine.New(
		st,
		executionLedger,
		evaluator,
		dispatcher,
		recorder,
		clock,
		schedulerMetrics,
		engine.WithLookaheadMinutes(cfg.Scheduler.IndividualLookaheadMinutes),
		engine.WithWindowMinutes(cfg.Scheduler.InvocationPeriodMinutes),
	)
	schedulerHandler := handler.NewSchedulerHandler(eng)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		TracerName:  "github.com/igor325/AGROTASKv2/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(st.DB(), redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/scheduler/run", schedulerHandler.HandleActivityRun)
		v1.POST("/scheduler/reminders/run", schedulerHandler.HandleReminderRun)
	}

	// Optional in-process cron trigger for deployments without an
	// external scheduler calling the endpoints.
	if cfg.Scheduler.CronSpec != "" {
		inv, err := invoker.New(eng, cfg.Scheduler.CronSpec)
		if err != nil {
			slog.Error("invalid SCHEDULER_CRON spec",
				slog.String("spec", cfg.Scheduler.CronSpec),
				slog.String("error", err.Error()),
			)
			return 1
		}
		inv.Start()
		defer inv.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("utc_offset_minutes", cfg.Scheduler.BusinessUTCOffsetMinutes),
			slog.Int("lookahead_minutes", cfg.Scheduler.IndividualLookaheadMinutes),
			slog.Int("invocation_period_minutes", cfg.Scheduler.InvocationPeriodMinutes),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
