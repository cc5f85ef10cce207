package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
)

// MaxStoredResumeBytes bounds how much of a stored upload the worker reads.
const MaxStoredResumeBytes = 32 << 20

type ProcessAnalysisUseCase struct {
	repo     ports.AnalysisRepository
	storage  ports.ObjectStorage
	analyzer ports.ResumeAnalyzer
}

func NewProcessAnalysisUseCase(
	repo ports.AnalysisRepository,
	storage ports.ObjectStorage,
	analyzer ports.ResumeAnalyzer,
) *ProcessAnalysisUseCase {
	return &ProcessAnalysisUseCase{
		repo:     repo,
		storage:  storage,
		analyzer: analyzer,
	}
}

func (uc *ProcessAnalysisUseCase) ProcessByID(ctx context.Context, analysisID string) error {
	if err := uc.markStatus(ctx, analysisID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, analysisID)
	if err != nil {
		if failErr := uc.markFailed(ctx, analysisID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistResult(ctx, analysisID, result); err != nil {
		if failErr := uc.markFailed(ctx, analysisID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, analysisID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	return nil
}

func (uc *ProcessAnalysisUseCase) processPipeline(ctx context.Context, analysisID string) (*domain.AnalysisResult, error) {
	analysis, err := uc.loadAnalysis(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	data, err := uc.loadBytes(ctx, analysis.StoragePath)
	if err != nil {
		return nil, err
	}

	result, err := uc.analyzer.Analyze(ctx, domain.AnalyzeRequest{
		Document: domain.RawDocument{
			Filename:    analysis.Filename,
			ContentType: analysis.MimeType,
			Data:        data,
		},
		JobRole: analysis.JobRole,
		UseLLM:  analysis.UseLLM,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}
	return result, nil
}

func (uc *ProcessAnalysisUseCase) loadAnalysis(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	analysis, err := uc.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis by id: %w", err)
	}
	return analysis, nil
}

func (uc *ProcessAnalysisUseCase) loadBytes(ctx context.Context, key string) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open stored resume: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxStoredResumeBytes))
	if err != nil {
		return nil, fmt.Errorf("read stored resume: %w", err)
	}
	return data, nil
}

func (uc *ProcessAnalysisUseCase) persistResult(ctx context.Context, analysisID string, result *domain.AnalysisResult) error {
	if err := uc.repo.SaveResult(ctx, analysisID, result); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return nil
}

func (uc *ProcessAnalysisUseCase) markStatus(ctx context.Context, analysisID string, status domain.AnalysisStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, analysisID, status, errMessage)
}

func (uc *ProcessAnalysisUseCase) markFailed(ctx context.Context, analysisID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, analysisID, domain.StatusFailed, processErr.Error())
}
