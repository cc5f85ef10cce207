package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

type statusCall struct {
	status domain.AnalysisStatus
	errMsg string
}

type processRepoFake struct {
	analysis      *domain.Analysis
	getErr        error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall
	result        *domain.AnalysisResult
	resultID      string
}

func (f *processRepoFake) Create(context.Context, *domain.Analysis) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Analysis, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyAnalysis := *f.analysis
	return &copyAnalysis, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.AnalysisStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *processRepoFake) SaveResult(_ context.Context, id string, result *domain.AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.resultID = id
	f.result = result
	return nil
}

type processStorageFake struct {
	body    string
	openErr error
	opened  string
}

func (f *processStorageFake) Save(context.Context, string, io.Reader) error { return nil }

func (f *processStorageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened = key
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type analyzerFake struct {
	req    domain.AnalyzeRequest
	result *domain.AnalysisResult
	err    error
}

func (f *analyzerFake) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newProcessFixture() (*processRepoFake, *processStorageFake, *analyzerFake) {
	repo := &processRepoFake{analysis: &domain.Analysis{
		ID:          "an-1",
		Filename:    "cv.txt",
		MimeType:    "text/plain",
		StoragePath: "an-1_cv.txt",
		JobRole:     "Data Analyst",
		UseLLM:      true,
	}}
	return repo, &processStorageFake{body: "Skills: Python"}, &analyzerFake{result: &domain.AnalysisResult{FinalScore: 42}}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo, storage, analyzer := newProcessFixture()
	uc := NewProcessAnalysisUseCase(repo, storage, analyzer)

	if err := uc.ProcessByID(context.Background(), "an-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.resultID != "an-1" || repo.result.FinalScore != 42 {
		t.Fatalf("expected result save for an-1, got %s %+v", repo.resultID, repo.result)
	}
	if storage.opened != "an-1_cv.txt" {
		t.Fatalf("expected stored key to be opened, got %s", storage.opened)
	}
	req := analyzer.req
	if string(req.Document.Data) != "Skills: Python" || req.Document.ContentType != "text/plain" || req.JobRole != "Data Analyst" || !req.UseLLM {
		t.Fatalf("unexpected analyze request %+v", req)
	}
}

func TestProcessByIDMarksFailedOnAnalyzeError(t *testing.T) {
	repo, storage, analyzer := newProcessFixture()
	analyzer.err = domain.WrapError(domain.ErrUnsupportedFormat, "extract", errors.New("image/png"))
	uc := NewProcessAnalysisUseCase(repo, storage, analyzer)

	err := uc.ProcessByID(context.Background(), "an-1")
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected processing + failed status updates, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[1].errMsg, "image/png") {
		t.Fatalf("expected failure message, got %q", repo.statusCalls[1].errMsg)
	}
}

func TestProcessByIDMarksFailedOnStorageError(t *testing.T) {
	repo, storage, analyzer := newProcessFixture()
	storage.openErr = errors.New("no such file")
	uc := NewProcessAnalysisUseCase(repo, storage, analyzer)

	if err := uc.ProcessByID(context.Background(), "an-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
}

func TestProcessByIDReportsMarkFailedError(t *testing.T) {
	repo, storage, analyzer := newProcessFixture()
	repo.saveErr = errors.New("db down")
	repo.failStatusErr = errors.New("still down")
	uc := NewProcessAnalysisUseCase(repo, storage, analyzer)

	err := uc.ProcessByID(context.Background(), "an-1")
	if err == nil || !strings.Contains(err.Error(), "db down") || !strings.Contains(err.Error(), "still down") {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestProcessByIDStopsWhenProcessingStatusFails(t *testing.T) {
	repo, storage, analyzer := newProcessFixture()
	repo.statusErr = errors.New("db down")
	uc := NewProcessAnalysisUseCase(repo, storage, analyzer)

	if err := uc.ProcessByID(context.Background(), "an-1"); err == nil {
		t.Fatalf("expected error")
	}
	if analyzer.req.Document.Filename != "" {
		t.Fatalf("analyzer must not run")
	}
}
