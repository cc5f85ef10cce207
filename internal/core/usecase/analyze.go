package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/fields"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/core/scoring"
	"github.com/kirillkom/resume-analyzer/internal/core/sections"
)

// AnalysisObserver receives every completed analysis, e.g. for metrics.
type AnalysisObserver interface {
	ObserveAnalysis(result *domain.AnalysisResult, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveAnalysis(*domain.AnalysisResult, time.Duration) {}

// AnalyzeResumeUseCase runs the synchronous pipeline: read, normalize,
// sectionize, extract, score, feedback. All collaborators are built once
// at startup and shared read-only between requests.
type AnalyzeResumeUseCase struct {
	reader    ports.DocumentReader
	extractor *fields.Extractor
	scorer    *scoring.Scorer
	feedback  ports.FeedbackGenerator
	observer  AnalysisObserver
	logger    *slog.Logger
}

func NewAnalyzeResumeUseCase(
	reader ports.DocumentReader,
	extractor *fields.Extractor,
	scorer *scoring.Scorer,
	feedback ports.FeedbackGenerator,
	observer AnalysisObserver,
	logger *slog.Logger,
) *AnalyzeResumeUseCase {
	if extractor == nil {
		extractor = fields.NewExtractor(nil)
	}
	if scorer == nil {
		scorer = scoring.NewScorer(nil, scoring.DefaultMLWeight)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeResumeUseCase{
		reader:    reader,
		extractor: extractor,
		scorer:    scorer,
		feedback:  feedback,
		observer:  observer,
		logger:    logger,
	}
}

func (uc *AnalyzeResumeUseCase) ModelLoaded() bool { return uc.scorer.ModelLoaded() }

func (uc *AnalyzeResumeUseCase) ModelName() string { return uc.scorer.ModelName() }

func (uc *AnalyzeResumeUseCase) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	started := time.Now()

	text, meta, err := uc.reader.Extract(ctx, req.Document)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if meta.Error != "" {
		uc.logger.Warn("document_unreadable",
			"filename", req.Document.Filename,
			"kind", meta.DetectedKind,
			"error", meta.Error,
		)
	}

	result := uc.AnalyzeText(ctx, text, meta, req.JobRole, req.UseLLM)
	duration := time.Since(started)
	uc.observer.ObserveAnalysis(result, duration)
	uc.logger.Info("analysis_completed",
		"filename", req.Document.Filename,
		"kind", meta.DetectedKind,
		"extractor", meta.ExtractorUsed,
		"final_score", result.FinalScore,
		"ml_source", result.Diagnostics.ModelStatus,
		"feedback_source", result.FeedbackSource,
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return result, nil
}

// AnalyzeText runs every stage after document reading on already
// normalized text.
func (uc *AnalyzeResumeUseCase) AnalyzeText(
	ctx context.Context,
	text string,
	meta domain.ExtractionMeta,
	jobRole string,
	useLLM bool,
) *domain.AnalysisResult {
	sectionMap := sections.Detect(text)
	extracted, traces := uc.extractor.Extract(text, sectionMap, jobRole)
	coverage := scoring.Coverage(sectionMap, extracted)
	eval := uc.scorer.Evaluate(extracted, coverage, jobRole)

	diagnostics := domain.Diagnostics{
		Extraction:  meta,
		TextLength:  len(text),
		Sections:    sectionMap.Keys(),
		Unsectioned: sectionMap.Unsectioned(),
		ModelStatus: eval.Score.MLSource,
		FieldTraces: traces,
	}
	if eval.ModelErr != nil {
		diagnostics.ModelError = eval.ModelErr.Error()
		if eval.Score.MLSource == domain.MLSourceError {
			uc.logger.Warn("model_prediction_failed", "error", eval.ModelErr)
		} else {
			uc.logger.Debug("model_unavailable", "error", eval.ModelErr)
		}
	}

	fb := domain.Feedback{Source: domain.FeedbackSourceRules}
	if uc.feedback != nil {
		fb = uc.feedback.Generate(ctx, domain.FeedbackInput{
			Fields:   extracted,
			Coverage: coverage,
			Score:    eval.Score,
			JobRole:  jobRole,
		}, useLLM)
	}
	if fb.Items == nil {
		fb.Items = []string{}
	}
	diagnostics.FeedbackFallback = fb.FallbackReason

	return &domain.AnalysisResult{
		FinalScore:      eval.Score.Final,
		MLScore:         eval.Score.ML,
		StructureScore:  eval.Score.Structure,
		ExtractedFields: extracted,
		SectionCoverage: coverage,
		FeatureRow:      eval.Row,
		Feedback:        fb.Items,
		FeedbackSource:  fb.Source,
		Diagnostics:     diagnostics,
	}
}

// DetectSections exposes the sectionizer on extracted document text for
// debugging tools.
func (uc *AnalyzeResumeUseCase) DetectSections(ctx context.Context, doc domain.RawDocument) (domain.SectionMap, domain.ExtractionMeta, error) {
	text, meta, err := uc.reader.Extract(ctx, doc)
	if err != nil {
		return domain.SectionMap{}, meta, fmt.Errorf("extract text: %w", err)
	}
	return sections.Detect(text), meta, nil
}
