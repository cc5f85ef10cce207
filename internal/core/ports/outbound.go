package ports

import (
	"context"
	"io"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// AnalysisRepository persists and reads analysis state.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result *domain.AnalysisResult) error
}

// ObjectStorage stores uploaded resume bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes analysis jobs.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, analysisID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// DocumentReader turns raw resume bytes into normalized text.
// Only unsupported formats are reported as errors; unreadable documents
// come back as empty text with meta.Error set.
type DocumentReader interface {
	Extract(ctx context.Context, doc domain.RawDocument) (string, domain.ExtractionMeta, error)
}

// ScoreModel is a pre-trained regression model over a feature row.
// Predictions are clipped to [0,100] by the implementation.
type ScoreModel interface {
	Name() string
	Predict(row domain.FeatureRow) (float64, error)
}

// LLMProvider generates free-form text for a prompt.
type LLMProvider interface {
	Name() string
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
}

// FeedbackGenerator never fails: provider errors degrade to rule-based advice.
type FeedbackGenerator interface {
	Generate(ctx context.Context, in domain.FeedbackInput, useLLM bool) domain.Feedback
}
