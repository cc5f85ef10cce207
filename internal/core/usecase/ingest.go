package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
)

type IngestResumeUseCase struct {
	repo    ports.AnalysisRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestResumeUseCase(
	repo ports.AnalysisRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestResumeUseCase {
	return &IngestResumeUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestResumeUseCase) Upload(
	ctx context.Context,
	upload domain.UploadRequest,
	body io.Reader,
) (*domain.Analysis, error) {
	if strings.TrimSpace(upload.Filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload resume", errors.New("filename is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(upload.Filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	analysis := &domain.Analysis{
		ID:          id,
		Filename:    upload.Filename,
		MimeType:    upload.MimeType,
		StoragePath: storageKey,
		JobRole:     strings.TrimSpace(upload.JobRole),
		UseLLM:      upload.UseLLM,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("create analysis record: %w", err)
	}

	if err := uc.queue.PublishAnalysisRequested(ctx, analysis.ID); err != nil {
		return nil, fmt.Errorf("publish analysis job: %w", err)
	}

	return analysis, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "resume.bin"
	}
	return base
}
