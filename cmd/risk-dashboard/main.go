// cmd/risk-dashboard/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"credit-risk-dashboard/internal/classifier"
	"credit-risk-dashboard/internal/common/camunda"
	"credit-risk-dashboard/internal/common/config"
	"credit-risk-dashboard/internal/common/database"
	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/common/observability"
	"credit-risk-dashboard/internal/risk"
	"credit-risk-dashboard/internal/web"
	"credit-risk-dashboard/pkg/registry"

	na "credit-risk-dashboard/internal/workers/credit/normalize-applicant"
	pcr "credit-risk-dashboard/internal/workers/credit/predict-credit-risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit risk dashboard...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.App.Version,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, zapLog)

	// --- Load classifier. Nothing is served without it. ---
	model, err := classifier.Load(classifier.Config{
		ModelPath:      cfg.Model.Path,
		MetadataPath:   cfg.Model.MetadataPath,
		RuntimeLibrary: cfg.Model.RuntimeLibrary,
	}, log)
	if err != nil {
		zapLog.Fatal("classifier load failed", zap.Error(err))
	}
	zapLog.Info("Classifier loaded", zap.String("modelVersion", model.Version()))

	dispatcher := risk.NewDispatcher(classifier.Instrument(model, obs))
	readiness := map[string]web.ReadinessCheck{}

	ctx := context.Background()

	// --- Rate limiter: shared Redis counters when configured ---
	var limiter web.Limiter
	var memLimiter *web.MemoryLimiter
	redisClient := database.NewRedis(cfg.Database.Redis)
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			err = camunda.RetryWithBackoff(ctx, camunda.BackoffConfig{
				MaxAttempts:  5,
				InitialDelay: time.Second,
				MaxDelay:     5 * time.Second,
			}, zapLog, "Redis connection", func() error {
				return redisClient.Ping(ctx)
			})
			if err != nil {
				zapLog.Fatal("redis failed after retries", zap.Error(err))
			}
			limiter = web.NewRedisLimiter(redisClient.GetClient(), cfg.RateLimit.RequestsPerMinute)
			readiness["redis"] = redisClient.Ping
			zapLog.Info("Redis rate limiter enabled", zap.String("address", cfg.Database.Redis.Address))
		} else {
			memLimiter = web.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
			limiter = memLimiter
			zapLog.Info("In-process rate limiter enabled")
		}
	}

	// --- Zeebe workers ---
	var zeebe *camunda.Client
	workers := camunda.NewWorkerGroup(zapLog)
	if cfg.Camunda.Enabled {
		reg, err := registry.LoadRegistry(cfg.RegistryPath)
		if err != nil {
			zapLog.Fatal("activity registry load failed", zap.String("path", cfg.RegistryPath), zap.Error(err))
		}
		if err := reg.Validate(); err != nil {
			zapLog.Fatal("activity registry invalid", zap.Error(err))
		}

		zeebe, err = camunda.NewClient(ctx, cfg.Camunda, camunda.DefaultBackoff, zapLog)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		readiness["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		if config.IsWorkerEnabled(cfg, na.TaskType) {
			naCfg, err := na.LoadConfig(reg)
			if err != nil {
				zapLog.Fatal("normalize-applicant config failed", zap.Error(err))
			}
			handler, err := na.NewHandler(naCfg, log)
			if err != nil {
				zapLog.Fatal("failed to create normalize-applicant handler", zap.Error(err))
			}
			workers.Start(zeebe.GetClient(), na.TaskType, config.GetWorkerConfig(cfg, na.TaskType), handler.Handle)
		}

		if config.IsWorkerEnabled(cfg, pcr.TaskType) {
			pcrCfg, err := pcr.LoadConfig(reg)
			if err != nil {
				zapLog.Fatal("predict-credit-risk config failed", zap.Error(err))
			}
			handler, err := pcr.NewHandler(pcrCfg, dispatcher, obs, log)
			if err != nil {
				zapLog.Fatal("failed to create predict-credit-risk handler", zap.Error(err))
			}
			workers.Start(zeebe.GetClient(), pcr.TaskType, config.GetWorkerConfig(cfg, pcr.TaskType), handler.Handle)
		}

		zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.TaskTypes()))
	}

	// --- Form server ---
	server := web.NewServer(web.Options{
		Address:      cfg.Server.Address,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		Limiter:      limiter,
		Readiness:    readiness,
	}, dispatcher, obs, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping...")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("Form server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down form server", zap.Error(err))
	}

	workers.Close()
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if memLimiter != nil {
		memLimiter.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if err := model.Close(); err != nil {
		zapLog.Error("Error releasing classifier", zap.Error(err))
	}
	obs.Shutdown(shutdownCtx)

	zapLog.Info("Credit risk dashboard stopped gracefully")
}
