// Package scoring turns section coverage and extracted fields into the
// structure, ML and final scores.
//
// The structure score is penalty-only: it starts at 100 and loses
// CorePenalty for every missing core section and OptionalPenalty for every
// missing optional section.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
)

const (
	MaxScore        = 100.0
	CorePenalty     = 20.0
	OptionalPenalty = 10.0

	DefaultMLWeight = 0.7
)

var (
	CoreSections     = []domain.SectionKey{domain.SectionSkills, domain.SectionExperience, domain.SectionEducation}
	OptionalSections = []domain.SectionKey{domain.SectionProjects, domain.SectionCertifications, domain.SectionSummary, domain.SectionContact}
)

// Coverage marks a section present when its heading was detected or when
// the matching field was extracted without one.
func Coverage(sectionMap domain.SectionMap, fields domain.ExtractedFields) domain.Coverage {
	coverage := domain.NewCoverage()
	for _, key := range domain.CanonicalSections {
		coverage[key] = sectionMap.Has(key)
	}

	reinforce := func(key domain.SectionKey, present bool) {
		if present {
			coverage[key] = true
		}
	}
	reinforce(domain.SectionSkills, len(fields.Skills) > 0)
	reinforce(domain.SectionExperience, fields.ExperienceYears > 0)
	reinforce(domain.SectionEducation, strings.TrimSpace(fields.Education) != "")
	reinforce(domain.SectionCertifications, len(fields.Certifications) > 0)
	reinforce(domain.SectionProjects, fields.ProjectsListed)
	reinforce(domain.SectionContact, fields.Email != "" || fields.Phone != "")
	reinforce(domain.SectionLinks, len(fields.Links) > 0)
	return coverage
}

// StructureScore applies the penalty-only formula to coverage flags.
func StructureScore(coverage domain.Coverage) float64 {
	score := MaxScore
	for _, key := range CoreSections {
		if !coverage[key] {
			score -= CorePenalty
		}
	}
	for _, key := range OptionalSections {
		if !coverage[key] {
			score -= OptionalPenalty
		}
	}
	return Clamp(score)
}

// Blend is a convex combination; both scores and the weight are clamped first.
func Blend(ml, structure, mlWeight float64) float64 {
	w := clampRange(mlWeight, 0, 1)
	return Clamp(w*Clamp(ml) + (1-w)*Clamp(structure))
}

// Clamp bounds a score to [0,100]; NaN becomes 0.
func Clamp(v float64) float64 {
	return clampRange(v, 0, MaxScore)
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// BuildFeatureRow maps fields onto the model's fixed columns. A non-empty
// roleOverride replaces the extracted job role.
func BuildFeatureRow(fields domain.ExtractedFields, roleOverride string) domain.FeatureRow {
	role := strings.TrimSpace(roleOverride)
	if role == "" {
		role = fields.JobRole
	}
	years := fields.ExperienceYears
	if years < 0 || math.IsNaN(years) {
		years = 0
	}
	projects := fields.ProjectsCount
	if projects < 0 {
		projects = 0
	}
	return domain.FeatureRow{
		Skills:          strings.Join(fields.Skills, ", "),
		Education:       fields.Education,
		Certifications:  strings.Join(fields.Certifications, ", "),
		JobRole:         role,
		ExperienceYears: years,
		ProjectsCount:   projects,
	}
}

// Evaluation is the scorer output for one resume. ModelErr is informational:
// a failing or missing model never fails the evaluation.
type Evaluation struct {
	Score    domain.Score
	Row      domain.FeatureRow
	ModelErr error
}

// Scorer is built once at startup and shared read-only.
type Scorer struct {
	model    ports.ScoreModel
	mlWeight float64
}

// NewScorer accepts a nil model; the ML contribution is then zero and
// final = (1 - mlWeight) * structure.
func NewScorer(model ports.ScoreModel, mlWeight float64) *Scorer {
	return &Scorer{model: model, mlWeight: clampRange(mlWeight, 0, 1)}
}

func (s *Scorer) ModelLoaded() bool {
	return s.model != nil
}

func (s *Scorer) ModelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.Name()
}

func (s *Scorer) MLWeight() float64 {
	return s.mlWeight
}

func (s *Scorer) Evaluate(fields domain.ExtractedFields, coverage domain.Coverage, roleOverride string) Evaluation {
	row := BuildFeatureRow(fields, roleOverride)
	structure := StructureScore(coverage)

	ml, source, err := s.predict(row)
	return Evaluation{
		Score: domain.Score{
			Structure: structure,
			ML:        ml,
			Final:     Blend(ml, structure, s.mlWeight),
			MLSource:  source,
		},
		Row:      row,
		ModelErr: err,
	}
}

func (s *Scorer) predict(row domain.FeatureRow) (ml float64, source domain.MLSource, err error) {
	if s.model == nil {
		return 0, domain.MLSourceUnavailable, domain.ErrModelUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			ml, source, err = 0, domain.MLSourceError, fmt.Errorf("predict: recovered panic: %v", r)
		}
	}()
	value, err := s.model.Predict(row)
	if err != nil {
		return 0, domain.MLSourceError, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, domain.MLSourceError, fmt.Errorf("predict: non-finite prediction %v", value)
	}
	return Clamp(value), domain.MLSourceModel, nil
}
