package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/core/feedback"
	"github.com/kirillkom/resume-analyzer/internal/core/fields"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/core/scoring"
	"github.com/kirillkom/resume-analyzer/internal/core/usecase"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/lexicon"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm/openai"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/model/linear"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/resilience"
)

// Observer is implemented by the HTTP and worker metrics collectors.
type Observer interface {
	usecase.AnalysisObserver
	resilience.Observer
}

// NewAnalyzer builds the synchronous pipeline shared by every binary. A
// scoring model that fails to load is logged and left out; the scorer then
// reports the ML component as unavailable.
func NewAnalyzer(ctx context.Context, cfg config.Config, logger *slog.Logger, observer Observer) (*usecase.AnalyzeResumeUseCase, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	var model ports.ScoreModel
	if m, err := linear.Load(cfg.ModelPath); err != nil {
		logger.Warn("model_unavailable", "path", cfg.ModelPath, "error", err)
	} else {
		model = m
		logger.Info("model_loaded", "model", m.Name())
	}

	provider, err := newLLMProvider(ctx, cfg, logger, observer)
	if err != nil {
		return nil, err
	}

	var analysisObserver usecase.AnalysisObserver
	if observer != nil {
		analysisObserver = observer
	}

	return usecase.NewAnalyzeResumeUseCase(
		extractor.NewReader(cfg.PDFColumnSplit, logger),
		fields.NewExtractor(lex),
		scoring.NewScorer(model, cfg.MLWeight),
		feedback.NewGenerator(provider,
			feedback.WithTimeout(cfg.FeedbackTimeout),
			feedback.WithMaxItems(cfg.FeedbackMaxItems),
			feedback.WithLogger(logger),
		),
		analysisObserver,
		logger,
	), nil
}

func newLLMProvider(ctx context.Context, cfg config.Config, logger *slog.Logger, observer Observer) (ports.LLMProvider, error) {
	var next ports.LLMProvider
	switch cfg.FeedbackProvider {
	case "", "none":
		return nil, nil
	case "ollama":
		next = ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.FeedbackTimeout)
	case "openai":
		next = openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.FeedbackTimeout)
	case "gemini":
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		next = client
	default:
		return nil, fmt.Errorf("unknown feedback provider %q", cfg.FeedbackProvider)
	}

	opts := []resilience.Option{resilience.WithLogger(logger)}
	if observer != nil {
		opts = append(opts, resilience.WithObserver(observer))
	}
	executor := resilience.NewExecutor(llmResilienceConfig(cfg), opts...)
	logger.Info("feedback_provider_enabled", "provider", next.Name())
	return llm.NewResilientProvider(next, executor), nil
}

func llmResilienceConfig(cfg config.Config) resilience.Config {
	attempts := cfg.LLMRetryMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return resilience.Config{
		RetryMaxAttempts:    attempts,
		RetryInitialBackoff: cfg.LLMRetryInitialBackoff,
		RetryMaxBackoff:     cfg.LLMRetryMaxBackoff,
		// Each attempt gets its share of the feedback budget.
		AttemptTimeout: cfg.FeedbackTimeout / time.Duration(attempts),

		BreakerEnabled:          cfg.LLMBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.LLMBreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.LLMBreakerFailureRatio,
		BreakerOpenTimeout:      cfg.LLMBreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.LLMBreakerHalfOpenMaxCalls, 0)),
	}
}
