// Command resumectl scores resumes from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-analyzer/internal/bootstrap"
	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/core/usecase"
	"github.com/kirillkom/resume-analyzer/internal/observability/logging"
)

const serviceName = "resumectl"

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Score resumes and suggest improvements",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootModelPath string
	rootProvider  string
	rootLogLevel  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootModelPath, "model", "", "Scoring model file (overrides MODEL_PATH)")
	rootCmd.PersistentFlags().StringVar(&rootProvider, "provider", "", "Feedback provider: none, ollama, openai or gemini (overrides FEEDBACK_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level written to stderr (overrides LOG_LEVEL)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAnalyzer builds the pipeline from the environment plus root flags.
// Logs go to stderr so stdout carries only command output.
func newAnalyzer(ctx context.Context) (*usecase.AnalyzeResumeUseCase, error) {
	cfg := config.Load()
	if rootModelPath != "" {
		cfg.ModelPath = rootModelPath
	}
	if rootProvider != "" {
		cfg.FeedbackProvider = rootProvider
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	} else {
		cfg.LogLevel = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(os.Stderr, serviceName, cfg.LogLevel)
	return bootstrap.NewAnalyzer(ctx, cfg, logger, nil)
}
