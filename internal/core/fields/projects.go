package fields

import (
	"regexp"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// MaxProjectMentions clamps the word-count fallback.
const MaxProjectMentions = 6

// StrategyProjectMentions is the word-count fallback. Its count is kept for
// scoring input but is not evidence of a projects section.
const StrategyProjectMentions = "project-mentions"

var (
	listMarkerPattern   = regexp.MustCompile(`^(?:[-*+]|\d{1,2}[.)])\s+`)
	projectWordPattern  = regexp.MustCompile(`(?i)\bprojects?\b`)
	numberedItemPattern = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
)

func isListItem(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || numberedItemPattern.MatchString(line)
}

// ProjectStrategies count bullets in the projects block, then bullet lines
// that mention a project anywhere, then plain "project" mentions capped at
// MaxProjectMentions.
func (e *Extractor) ProjectStrategies() []Strategy[int] {
	return []Strategy[int]{
		{Name: "projects-section-bullets", Run: func(in Input) (int, bool) {
			block, ok := in.Section(domain.SectionProjects)
			if !ok {
				return 0, false
			}
			count := 0
			for _, line := range nonBlankLines(block) {
				if isListItem(line) {
					count++
				}
			}
			return count, count > 0
		}},
		{Name: "project-bullets", Run: func(in Input) (int, bool) {
			count := 0
			for _, line := range in.Lines() {
				if isListItem(line) && projectWordPattern.MatchString(line) {
					count++
				}
			}
			return count, count > 0
		}},
		{Name: StrategyProjectMentions, Run: func(in Input) (int, bool) {
			count := len(projectWordPattern.FindAllStringIndex(in.Text, -1))
			if count > MaxProjectMentions {
				count = MaxProjectMentions
			}
			return count, count > 0
		}},
	}
}
