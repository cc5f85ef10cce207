package linear

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const testModel = `{
  "name": "test-linear",
  "intercept": 10,
  "numeric": {
    "Experience (Years)": {"weight": 2, "cap": 10},
    "Projects Count": {"weight": 1.5, "mean": 1, "scale": 0.5}
  },
  "tokenCountWeight": {"Skills": 0.5},
  "tokens": {
    "Skills": {"Go": 4, "docker": 2},
    "Certifications": {"PMP": 3}
  },
  "categories": {
    "Education": {"master": 8, "master of business": 9},
    "Job Role": {"backend engineer": 5}
  }
}`

func TestPredict(t *testing.T) {
	m, err := Parse([]byte(testModel))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	row := domain.FeatureRow{
		Skills:          "Go, Docker, go, Rust",
		Education:       "Master of Business Administration",
		Certifications:  "PMP",
		JobRole:         "Senior Backend Engineer",
		ExperienceYears: 12,
		ProjectsCount:   2,
	}

	got, err := m.Predict(row)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	// 10 + 2*10 + 1.5*(2-1)/0.5 + (4+2+0) + 0.5*3 + 3 + 9 + 5
	if got != 57.5 {
		t.Fatalf("Predict() = %v, want 57.5", got)
	}
	if m.Name() != "test-linear" {
		t.Fatalf("unexpected name %q", m.Name())
	}
}

func TestPredictClipsAndRounds(t *testing.T) {
	high := New(Document{Name: "high", Intercept: 250})
	if got, _ := high.Predict(domain.FeatureRow{}); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	low := New(Document{Name: "low", Intercept: -40})
	if got, _ := low.Predict(domain.FeatureRow{}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	frac := New(Document{Name: "frac", Intercept: 33.333})
	if got, _ := frac.Predict(domain.FeatureRow{}); got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
}

func TestPredictRejectsNonFinite(t *testing.T) {
	m := New(Document{Name: "inf", Intercept: math.Inf(1), Numeric: map[string]Numeric{
		ColumnExperienceYears: {Weight: math.Inf(-1)},
	}})
	if _, err := m.Predict(domain.FeatureRow{ExperienceYears: 1}); err == nil {
		t.Fatal("expected error for non-finite prediction")
	}
}

func TestParseRejectsInvalidDocument(t *testing.T) {
	cases := map[string]string{
		"missing intercept": `{"name": "x"}`,
		"unknown column":    `{"name": "x", "intercept": 1, "numeric": {"Salary": {"weight": 1}}}`,
		"zero scale":        `{"name": "x", "intercept": 1, "numeric": {"Projects Count": {"weight": 1, "scale": 0}}}`,
		"not json":          `weights: 1`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(testModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil || !strings.Contains(err.Error(), "read model file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestShippedModelIsValid(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "..", "..", "models", "resume_score_linear.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Name() != "resume-score-linear@2024.1" {
		t.Fatalf("unexpected name %q", m.Name())
	}
	score, err := m.Predict(domain.FeatureRow{Skills: "Go, Docker", Education: "Bachelor of Science", ExperienceYears: 4, ProjectsCount: 2, JobRole: "Backend Engineer"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if score <= 0 || score >= 100 {
		t.Fatalf("expected score inside (0,100), got %v", score)
	}
}
