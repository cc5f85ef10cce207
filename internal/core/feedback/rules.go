// Package feedback produces short resume advice, either from local rules or
// from an LLM provider that degrades to the rules on any failure.
package feedback

import (
	"fmt"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	DefaultMaxItems = 8
	MinItems        = 1
	MaxItems        = 10

	minSkills          = 8
	lowReadability     = 45
	highReadability    = 80
	weakStructure      = 60
	shortResumeWords   = 150
	lengthyResumeWords = 1200
)

const strongResumeAdvice = "Overall structure looks strong with clear skills and quantified impact. Keep achievements concise."

// ClampItems bounds a configured item limit to [MinItems, MaxItems].
func ClampItems(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxItems
	case n > MaxItems:
		return MaxItems
	default:
		return n
	}
}

// Rules derives deterministic advice from missing coverage and low field
// counts, most severe first. The result is never empty.
func Rules(in domain.FeedbackInput, maxItems int) []string {
	f := in.Fields
	covered := func(key domain.SectionKey) bool { return in.Coverage[key] }

	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if !covered(domain.SectionContact) {
		add("Add a clearly formatted contact section (name, email, phone, location, LinkedIn).")
	}
	if !covered(domain.SectionExperience) {
		add("Add a Work Experience section summarizing role, company, dates and achievements.")
	} else if f.ExperienceYears == 0 {
		add("Add start and end dates (e.g. 'Jan 2021 - Present') to every role so experience can be measured.")
	}
	if !covered(domain.SectionEducation) {
		add("Education section is missing; include degree, institution and graduation year.")
	}
	if !covered(domain.SectionSkills) {
		add("Add a Skills section listing the tools and technologies you use.")
	} else if len(f.Skills) < minSkills {
		add("Include more relevant technical skills%s; group them by category (frontend/backend/devops).", roleSuffix(in.JobRole))
	}
	if !covered(domain.SectionSummary) {
		add("Open with a two or three line summary stating your target role and strongest qualifications.")
	}
	if f.QuantifiedAchievements == 0 {
		add("Add quantified achievements (e.g. 'reduced load time by 30%%').")
	}
	if f.Readability > 0 && f.Readability < lowReadability {
		add("Readability is low (Flesch %.0f); simplify sentences and avoid long jargon-heavy lines.", f.Readability)
	} else if f.Readability > highReadability && f.WordCount >= shortResumeWords {
		add("Readability is very high (Flesch %.0f); ensure professional tone and concise phrasing.", f.Readability)
	}
	if !f.ProjectsListed && !covered(domain.SectionProjects) {
		add("Include a Projects section highlighting 1-3 impactful projects with tech stack and outcomes.")
	}
	if len(f.Certifications) == 0 && !covered(domain.SectionCertifications) {
		add("Add relevant certifications if available (e.g. AWS, Azure, MongoDB).")
	}
	if strings.TrimSpace(in.JobRole) == "" && strings.TrimSpace(f.JobRole) == "" {
		add("State the role you are targeting near the top of the resume.")
	}
	switch {
	case f.WordCount > 0 && f.WordCount < shortResumeWords:
		add("The resume is short (%d words); expand on responsibilities and results for recent roles.", f.WordCount)
	case f.WordCount > lengthyResumeWords:
		add("The resume is long (%d words); trim older roles and keep it to one or two pages.", f.WordCount)
	}
	if in.Score.Structure < weakStructure {
		add("Use standard section headings (Summary, Experience, Education, Skills) so parsers can find your content.")
	}

	if len(out) == 0 {
		out = append(out, strongResumeAdvice)
	}
	if limit := ClampItems(maxItems); len(out) > limit {
		out = out[:limit]
	}
	return out
}

func roleSuffix(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}
	return " for " + role + " roles"
}
