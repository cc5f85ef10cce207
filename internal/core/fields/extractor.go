// Package fields pulls structured values out of normalized resume text.
// Every field is an ordered chain of named strategies; the first strategy
// that produces a value wins and each chain is exported for testing.
package fields

import (
	"strings"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	lexicon *Lexicon
	now     func() time.Time
}

type Option func(*Extractor)

// WithClock fixes the date that "Present" resolves to.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func NewExtractor(lexicon *Lexicon, opts ...Option) *Extractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	e := &Extractor{
		lexicon: lexicon,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Lexicon() *Lexicon {
	return e.lexicon
}

// Extract always returns complete fields: a miss or a recovered failure in
// one field leaves its default in place and never affects the others.
func (e *Extractor) Extract(text string, sectionMap domain.SectionMap, fallbackRole string) (domain.ExtractedFields, []domain.FieldTrace) {
	in := Input{Text: text, Sections: sectionMap, FallbackRole: fallbackRole}
	var traces []domain.FieldTrace

	skills, t := runChain("skills", in, e.SkillStrategies())
	traces = append(traces, t...)

	years, t := e.safeExperience(in)
	traces = append(traces, t...)

	education, t := runChain("education", in, e.EducationStrategies())
	traces = append(traces, t...)

	certs, t := runChain("certifications", in, e.CertificationStrategies())
	traces = append(traces, t...)

	projects, t := runChain("projectsCount", in, e.ProjectStrategies())
	traces = append(traces, t...)
	projectsListed := projects > 0 && matchedStrategy(t) != StrategyProjectMentions

	role, t := runChain("jobRole", in, e.JobRoleStrategies())
	traces = append(traces, t...)

	fields := domain.ExtractedFields{
		Skills:                 nonNil(skills),
		ExperienceYears:        years,
		Education:              education.Snippet,
		EducationLevel:         education.Level,
		Certifications:         nonNil(certs),
		ProjectsCount:          projects,
		ProjectsListed:         projectsListed,
		JobRole:                role,
		Email:                  Email(in),
		Phone:                  Phone(in),
		Links:                  nonNil(Links(text)),
		QuantifiedAchievements: QuantifiedAchievements(text),
		WordCount:              len(strings.Fields(text)),
		Readability:            Readability(text),
	}
	return fields, traces
}

func (e *Extractor) safeExperience(in Input) (years float64, traces []domain.FieldTrace) {
	defer func() {
		if r := recover(); r != nil {
			years = 0
			traces = append(traces, domain.FieldTrace{Field: "experienceYears", Note: "recovered failure, default applied"})
		}
	}()
	years, traces = e.experienceYears(in)
	if years < 0 {
		years = 0
	}
	return years, traces
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
