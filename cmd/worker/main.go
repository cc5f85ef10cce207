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

	"github.com/kirillkom/resume-analyzer/internal/bootstrap"
	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/observability/logging"
	"github.com/kirillkom/resume-analyzer/internal/observability/metrics"
)

const (
	serviceName = "resume-worker"
	jobTimeout  = 5 * time.Minute
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, logger, workerMetrics)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, analysisID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, jobTimeout)
		defer cancel()

		started := time.Now()
		workerMetrics.StartJob()
		err := app.ProcessUC.ProcessByID(processCtx, analysisID)
		workerMetrics.FinishJob(time.Since(started), err)
		if err != nil {
			return err
		}
		logger.Info("analysis_job_completed", "analysis_id", analysisID, "duration_ms", time.Since(started).Milliseconds())
		return nil
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
