package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/core/usecase"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/resilience"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.AnalysisRepository
	AnalyzeUC *usecase.AnalyzeResumeUseCase
	IngestUC  ports.ResumeIngestor
	ProcessUC ports.AnalysisProcessor

	closeFn func()
}

// New wires the API and worker dependencies. When observer also implements
// nats.JobObserver it receives queue lag for consumed jobs.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, observer Observer) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	analyzeUC, err := NewAnalyzer(ctx, cfg, logger, observer)
	if err != nil {
		return nil, fmt.Errorf("init analyzer: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewAnalysisRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queueOpts := nats.Options{Logger: logger}
	executorOpts := []resilience.Option{resilience.WithLogger(logger)}
	if observer != nil {
		executorOpts = append(executorOpts, resilience.WithObserver(observer))
		if jobObserver, ok := observer.(nats.JobObserver); ok {
			queueOpts.Observer = jobObserver
		}
	}
	queueOpts.ResilienceExecutor = resilience.NewExecutor(resilience.DefaultConfig(), executorOpts...)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, queueOpts)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ingestUC := usecase.NewIngestResumeUseCase(repo, storage, queue)
	processUC := usecase.NewProcessAnalysisUseCase(repo, storage, analyzeUC)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		AnalyzeUC: analyzeUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
