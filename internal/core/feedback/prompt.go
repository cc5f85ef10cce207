package feedback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// BuildPrompt renders extracted fields, coverage and scores for an LLM
// reviewer. Resume text itself is not sent.
func BuildPrompt(in domain.FeedbackInput, maxItems int) string {
	f := in.Fields
	role := strings.TrimSpace(in.JobRole)
	if role == "" {
		role = f.JobRole
	}
	if role == "" {
		role = "not stated"
	}

	var missing, present []string
	for key, ok := range in.Coverage {
		if ok {
			present = append(present, string(key))
		} else {
			missing = append(missing, string(key))
		}
	}
	sort.Strings(missing)
	sort.Strings(present)

	return fmt.Sprintf(`You are an expert technical recruiter reviewing a resume.
Give concise, actionable feedback as %d or fewer short suggestions.
Avoid generic tips. Do not invent content. No job-description matching.
Return strict JSON: {"suggestions": ["..."]}. No markdown, no extra keys.

Target role: %s
Scores: final=%.0f structure=%.0f ml=%.0f (ml source: %s)
Sections present: %s
Sections missing: %s
Skills (%d): %s
Experience years: %.0f
Education: %s
Certifications (%d): %s
Projects: %d
Quantified achievements: %d
Word count: %d
Readability (Flesch): %.0f
`,
		ClampItems(maxItems),
		role,
		in.Score.Final, in.Score.Structure, in.Score.ML, in.Score.MLSource,
		joinOrNone(present),
		joinOrNone(missing),
		len(f.Skills), joinOrNone(f.Skills),
		f.ExperienceYears,
		orNone(f.Education),
		len(f.Certifications), joinOrNone(f.Certifications),
		f.ProjectsCount,
		f.QuantifiedAchievements,
		f.WordCount,
		f.Readability,
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
