package localfs

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Save(context.Background(), "id_cv.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := s.Open(context.Background(), "id_cv.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the saved file, got %d entries", len(entries))
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	s, _ := New(t.TempDir())
	_, err := s.Open(context.Background(), "missing.pdf")
	if !domain.IsKind(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejectsPathTraversal(t *testing.T) {
	s, _ := New(t.TempDir())
	for _, key := range []string{"", "../etc/passwd", "a/b.pdf", ".hidden"} {
		if err := s.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", key, err)
		}
	}
}
