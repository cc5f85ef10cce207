package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/feedback"
	"github.com/kirillkom/resume-analyzer/internal/core/fields"
	"github.com/kirillkom/resume-analyzer/internal/core/scoring"
)

type readerFake struct {
	meta domain.ExtractionMeta
	err  error
}

func (f *readerFake) Extract(_ context.Context, doc domain.RawDocument) (string, domain.ExtractionMeta, error) {
	if f.err != nil {
		return "", domain.ExtractionMeta{}, f.err
	}
	meta := f.meta
	if len(doc.Data) == 0 {
		meta.Error = "empty document"
	}
	return string(doc.Data), meta, nil
}

type observerFake struct {
	results []*domain.AnalysisResult
}

func (f *observerFake) ObserveAnalysis(result *domain.AnalysisResult, _ time.Duration) {
	f.results = append(f.results, result)
}

type llmFake struct {
	err error
}

func (f *llmFake) Name() string { return "fake" }

func (f *llmFake) GenerateFromPrompt(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return `{"suggestions":["Quantify the SQL work"]}`, nil
}

func newAnalyzeFixture(provider *llmFake) (*AnalyzeResumeUseCase, *observerFake) {
	observer := &observerFake{}
	var gen *feedback.Generator
	if provider != nil {
		gen = feedback.NewGenerator(provider)
	} else {
		gen = feedback.NewGenerator(nil)
	}
	uc := NewAnalyzeResumeUseCase(
		&readerFake{meta: domain.ExtractionMeta{DetectedKind: domain.KindText, ExtractorUsed: "utf-8"}},
		fields.NewExtractor(nil),
		scoring.NewScorer(nil, scoring.DefaultMLWeight),
		gen,
		observer,
		nil,
	)
	return uc, observer
}

func TestAnalyzeScenarioPlainText(t *testing.T) {
	uc, observer := newAnalyzeFixture(nil)

	result, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{
		Document: domain.RawDocument{Filename: "cv.txt", Data: []byte("Skills:\nPython, SQL\nExperience:\n3 years")},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.StructureScore != 40 {
		t.Fatalf("structureScore = %v, want 40", result.StructureScore)
	}
	if result.ExtractedFields.ExperienceYears != 3 {
		t.Fatalf("experienceYears = %v", result.ExtractedFields.ExperienceYears)
	}
	cov := result.SectionCoverage
	if !cov[domain.SectionSkills] || !cov[domain.SectionExperience] || cov[domain.SectionEducation] {
		t.Fatalf("unexpected coverage %v", cov)
	}
	if result.Diagnostics.ModelStatus != domain.MLSourceUnavailable || result.Diagnostics.ModelError == "" {
		t.Fatalf("expected model unavailable diagnostics, got %+v", result.Diagnostics)
	}
	if math.Abs(result.FinalScore-0.3*result.StructureScore) > 1e-9 {
		t.Fatalf("finalScore = %v, want 0.3 * structure", result.FinalScore)
	}
	if result.FeedbackSource != domain.FeedbackSourceRules || len(result.Feedback) == 0 {
		t.Fatalf("expected rule feedback, got %s %v", result.FeedbackSource, result.Feedback)
	}
	if len(observer.results) != 1 {
		t.Fatalf("expected observer call")
	}
}

func TestAnalyzeEmptyDocumentScoresZero(t *testing.T) {
	uc, _ := newAnalyzeFixture(nil)

	result, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{Document: domain.RawDocument{Filename: "empty.txt"}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Diagnostics.Extraction.Error == "" {
		t.Fatalf("expected extraction error in diagnostics")
	}
	f := result.ExtractedFields
	if len(f.Skills) != 0 || f.ExperienceYears != 0 || f.Education != "" {
		t.Fatalf("expected default fields, got %+v", f)
	}
	if result.StructureScore != 0 || result.FinalScore != 0 {
		t.Fatalf("expected zero scores, got %v/%v", result.StructureScore, result.FinalScore)
	}
	if !result.Diagnostics.Unsectioned {
		t.Fatalf("empty text must be unsectioned")
	}
}

func TestAnalyzeUnsupportedFormatFails(t *testing.T) {
	uc := NewAnalyzeResumeUseCase(
		&readerFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "extract", errors.New("image/png"))},
		nil, nil, nil, nil, nil,
	)
	_, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{Document: domain.RawDocument{Data: []byte{0x89, 'P', 'N', 'G'}}})
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestAnalyzeLLMFeedback(t *testing.T) {
	uc, _ := newAnalyzeFixture(&llmFake{})
	result, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{
		Document: domain.RawDocument{Data: []byte("Skills:\nPython, SQL")},
		UseLLM:   true,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.FeedbackSource != domain.FeedbackSourceLLM || result.Feedback[0] != "Quantify the SQL work" {
		t.Fatalf("unexpected feedback %s %v", result.FeedbackSource, result.Feedback)
	}
}

func TestAnalyzeLLMFailureRecordedInDiagnostics(t *testing.T) {
	uc, _ := newAnalyzeFixture(&llmFake{err: errors.New("quota exceeded")})
	result, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{
		Document: domain.RawDocument{Data: []byte("Skills:\nPython, SQL")},
		UseLLM:   true,
	})
	if err != nil {
		t.Fatalf("feedback failures must not fail the request: %v", err)
	}
	if result.FeedbackSource != domain.FeedbackSourceRules || !strings.Contains(result.Diagnostics.FeedbackFallback, "quota exceeded") {
		t.Fatalf("expected rules fallback with reason, got %s %q", result.FeedbackSource, result.Diagnostics.FeedbackFallback)
	}
}

func TestAnalyzeRoleOverrideFlowsIntoFeatureRow(t *testing.T) {
	uc, _ := newAnalyzeFixture(nil)
	result, err := uc.Analyze(context.Background(), domain.AnalyzeRequest{
		Document: domain.RawDocument{Data: []byte("Jane Doe\nSoftware Engineer\nSkills: Go")},
		JobRole:  "Data Analyst",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.ExtractedFields.JobRole != "Data Analyst" || result.FeatureRow.JobRole != "Data Analyst" {
		t.Fatalf("override must win, got %q / %q", result.ExtractedFields.JobRole, result.FeatureRow.JobRole)
	}
}
