package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/report"
)

type analyzerFake struct {
	calls atomic.Int32
}

func (f *analyzerFake) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	f.calls.Add(1)
	if strings.HasPrefix(req.Document.Filename, "bad") {
		return nil, errors.New("unsupported document format")
	}
	return &domain.AnalysisResult{FinalScore: float64(len(req.Document.Data))}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCollectResumesFiltersUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"), "x")
	writeFile(t, filepath.Join(dir, "a.docx"), "x")
	writeFile(t, filepath.Join(dir, "nested", "c.txt"), "x")
	writeFile(t, filepath.Join(dir, "photo.png"), "x")

	files, err := collectResumes(dir)
	if err != nil {
		t.Fatalf("collectResumes() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "nested", "c.txt"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestAnalyzeFilesKeepsOrderAndRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "one.txt"),
		filepath.Join(dir, "bad.txt"),
		filepath.Join(dir, "three.txt"),
		filepath.Join(dir, "missing.txt"),
	}
	writeFile(t, files[0], "a")
	writeFile(t, files[1], "bb")
	writeFile(t, files[2], "ccc")

	analyzer := &analyzerFake{}
	rows, err := analyzeFiles(context.Background(), analyzer, files, 2, "", false)
	if err != nil {
		t.Fatalf("analyzeFiles() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Result.FinalScore != 1 || rows[2].Result.FinalScore != 3 {
		t.Fatalf("rows out of order: %+v", rows)
	}
	if rows[1].Err == nil || rows[3].Err == nil {
		t.Fatalf("expected per-file errors, got %+v", rows)
	}
	if analyzer.calls.Load() != 3 {
		t.Fatalf("expected 3 analyzer calls, got %d", analyzer.calls.Load())
	}
}

func TestAnalyzeFilesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzeFiles(ctx, &analyzerFake{}, []string{"a.txt"}, 1, "", false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, report.Summary{Files: 3, Analysed: 2, Failed: 1, Average: 55, Median: 55, Min: 40, Max: 70}, "out.xlsx")

	got := buf.String()
	if !strings.Contains(got, "analysed 2 of 3 files (1 failed)") || !strings.Contains(got, "out.xlsx") {
		t.Fatalf("unexpected summary: %q", got)
	}
}
