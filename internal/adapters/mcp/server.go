// Package mcpadapter exposes resume analysis as an MCP tool.
package mcpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
)

const (
	ToolAnalyzeResume = "analyze_resume"

	defaultMaxFileBytes = 10 << 20
)

type Tools struct {
	analyzer     ports.ResumeAnalyzer
	logger       *slog.Logger
	maxFileBytes int64
}

func NewTools(analyzer ports.ResumeAnalyzer, maxFileBytes int64, logger *slog.Logger) *Tools {
	if maxFileBytes <= 0 {
		maxFileBytes = defaultMaxFileBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{analyzer: analyzer, logger: logger, maxFileBytes: maxFileBytes}
}

// NewServer registers the analysis tools on a fresh MCP server.
func NewServer(tools *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"resume-analyzer",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(analyzeResumeTool(), tools.AnalyzeResume)
	return s
}

func analyzeResumeTool() mcp.Tool {
	return mcp.NewTool(ToolAnalyzeResume,
		mcp.WithDescription("Score a resume and return extracted fields, section coverage and improvement feedback. Pass either the resume text or a path to a PDF, DOCX, HTML or text file."),
		mcp.WithString("text", mcp.Description("Resume plain text.")),
		mcp.WithString("path", mcp.Description("Path to a resume file readable by the server.")),
		mcp.WithString("job_role", mcp.Description("Target job role; overrides the role found in the resume.")),
		mcp.WithBoolean("use_llm", mcp.Description("Ask the configured LLM provider for feedback.")),
	)
}

func (t *Tools) AnalyzeResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := t.document(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.analyzer.Analyze(ctx, domain.AnalyzeRequest{
		Document: doc,
		JobRole:  strings.TrimSpace(req.GetString("job_role", "")),
		UseLLM:   req.GetBool("use_llm", false),
	})
	if err != nil {
		t.logger.Warn("mcp_tool_failed", "tool", ToolAnalyzeResume, "filename", doc.Filename, "error", err)
		return mcp.NewToolResultErrorFromErr("analysis failed", err), nil
	}
	return mcp.NewToolResultJSON(result)
}

func (t *Tools) document(req mcp.CallToolRequest) (domain.RawDocument, error) {
	text := req.GetString("text", "")
	path := strings.TrimSpace(req.GetString("path", ""))

	switch {
	case text != "" && path != "":
		return domain.RawDocument{}, errors.New("pass either text or path, not both")
	case strings.TrimSpace(text) != "":
		return domain.RawDocument{
			Filename:    "resume.txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(text),
		}, nil
	case path != "":
		data, err := t.readFile(path)
		if err != nil {
			return domain.RawDocument{}, err
		}
		return domain.RawDocument{Filename: filepath.Base(path), Data: data}, nil
	default:
		return domain.RawDocument{}, errors.New("either text or path is required")
	}
}

func (t *Tools) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, t.maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > t.maxFileBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, t.maxFileBytes)
	}
	return data, nil
}
