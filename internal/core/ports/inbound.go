package ports

import (
	"context"
	"io"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// ResumeAnalyzer is the inbound contract for synchronous resume scoring.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, error)
}

// ResumeIngestor is the inbound contract for asynchronous resume upload.
type ResumeIngestor interface {
	Upload(ctx context.Context, upload domain.UploadRequest, body io.Reader) (*domain.Analysis, error)
}

// AnalysisReader is the inbound read model for analysis state.
type AnalysisReader interface {
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
}

// AnalysisProcessor is the inbound contract for queued analysis jobs.
type AnalysisProcessor interface {
	ProcessByID(ctx context.Context, analysisID string) error
}
