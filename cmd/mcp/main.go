package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/resume-analyzer/internal/adapters/mcp"
	"github.com/kirillkom/resume-analyzer/internal/bootstrap"
	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/observability/logging"
)

const (
	serviceName = "resume-mcp"
	version     = "1.0.0"
)

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol.
	logger := logging.NewLogger(os.Stderr, serviceName, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := bootstrap.NewAnalyzer(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	tools := mcpadapter.NewTools(analyzer, cfg.MaxUploadBytes(), logger)
	if err := server.ServeStdio(mcpadapter.NewServer(tools, version)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
