package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() config.Config {
	return config.Config{
		ModelPath:        filepath.Join("..", "..", "models", "resume_score_linear.json"),
		MLWeight:         0.7,
		PDFColumnSplit:   0.55,
		FeedbackProvider: "none",
		FeedbackTimeout:  2 * time.Second,
		FeedbackMaxItems: 5,
	}
}

func TestNewAnalyzerLoadsShippedModel(t *testing.T) {
	analyzer, err := NewAnalyzer(context.Background(), baseConfig(), quietLogger(), nil)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if !analyzer.ModelLoaded() {
		t.Fatalf("expected shipped model to load")
	}

	result, err := analyzer.Analyze(context.Background(), domain.AnalyzeRequest{
		Document: domain.RawDocument{
			Filename: "cv.txt",
			Data:     []byte("Jane Doe\njane@example.com\n\nSkills\nGo, SQL, Docker\n\nExperience\nBackend Engineer, Acme\nJan 2019 - Jan 2023\n\nEducation\nBSc Computer Science"),
		},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Diagnostics.ModelStatus != domain.MLSourceModel {
		t.Fatalf("expected model status, got %s", result.Diagnostics.ModelStatus)
	}
	if result.FinalScore < 0 || result.FinalScore > 100 || len(result.Feedback) == 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewAnalyzerDegradesWithoutModel(t *testing.T) {
	cfg := baseConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.json")

	analyzer, err := NewAnalyzer(context.Background(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if analyzer.ModelLoaded() {
		t.Fatalf("expected model to be unavailable")
	}
}

func TestNewAnalyzerRejectsBadLexicon(t *testing.T) {
	cfg := baseConfig()
	cfg.LexiconPath = filepath.Join(t.TempDir(), "absent.yaml")

	if _, err := NewAnalyzer(context.Background(), cfg, quietLogger(), nil); err == nil {
		t.Fatalf("expected lexicon load error")
	}
}

func TestNewLLMProviderSelection(t *testing.T) {
	cases := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{provider: "none"},
		{provider: ""},
		{provider: "ollama", wantName: "ollama:llama3.1:8b"},
		{provider: "openai", wantName: "openai:gpt-4o-mini"},
		{provider: "gemini", wantName: "gemini:gemini-2.5-flash"},
		{provider: "claude", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := baseConfig()
			cfg.FeedbackProvider = tc.provider
			cfg.OllamaGenModel = "llama3.1:8b"
			cfg.OpenAIModel = "gpt-4o-mini"
			cfg.GeminiModel = "gemini-2.5-flash"

			provider, err := newLLMProvider(context.Background(), cfg, quietLogger(), nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newLLMProvider() error = %v", err)
			}
			if tc.wantName == "" {
				if provider != nil {
					t.Fatalf("expected no provider, got %s", provider.Name())
				}
				return
			}
			if provider == nil || provider.Name() != tc.wantName {
				t.Fatalf("unexpected provider: %v", provider)
			}
		})
	}
}

func TestLLMResilienceConfigSplitsFeedbackBudget(t *testing.T) {
	cfg := baseConfig()
	cfg.FeedbackTimeout = 20 * time.Second
	cfg.LLMRetryMaxAttempts = 2
	cfg.LLMBreakerMinRequests = 5

	got := llmResilienceConfig(cfg)
	if got.AttemptTimeout != 10*time.Second {
		t.Fatalf("expected 10s per attempt, got %s", got.AttemptTimeout)
	}
	if got.RetryMaxAttempts != 2 || got.BreakerMinRequests != 5 {
		t.Fatalf("unexpected config: %+v", got)
	}
}
