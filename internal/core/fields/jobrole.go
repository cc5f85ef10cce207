package fields

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kirillkom/resume-analyzer/internal/core/sections"
)

const (
	roleScanLines = 10
	maxRoleLength = 80
)

var (
	roleFieldPattern   = regexp.MustCompile(`(?i)^(?:target role|desired role|desired position|job title|current role|title|position|role)\s*[:\-]\s*(.+)$`)
	roleKeywordPattern = regexp.MustCompile(`(?i)\b(?:developer|engineer|designer|analyst|manager|scientist|architect)\b`)
	roleSplitPattern   = regexp.MustCompile(`\s[|/]\s|\s-\s|,\s`)
)

// JobRoleStrategies apply the caller override first, then an explicit role
// field, then an early line with a role keyword, then a known role phrase.
func (e *Extractor) JobRoleStrategies() []Strategy[string] {
	return []Strategy[string]{
		{Name: "override", Run: func(in Input) (string, bool) {
			role := strings.TrimSpace(in.FallbackRole)
			return role, role != ""
		}},
		{Name: "role-field", Run: func(in Input) (string, bool) {
			for _, line := range in.Lines() {
				if m := roleFieldPattern.FindStringSubmatch(stripMarker(line)); m != nil {
					if role := cleanRole(m[1]); role != "" {
						return role, true
					}
				}
			}
			return "", false
		}},
		{Name: "early-line-keyword", Run: func(in Input) (string, bool) {
			lines := in.Lines()
			if len(lines) > roleScanLines {
				lines = lines[:roleScanLines]
			}
			for _, line := range lines {
				if _, _, heading := sections.MatchHeading(line); heading {
					continue
				}
				for _, part := range roleSplitPattern.Split(line, -1) {
					if roleKeywordPattern.MatchString(part) {
						if role := cleanRole(part); role != "" {
							return role, true
						}
					}
				}
			}
			return "", false
		}},
		{Name: "role-phrase", Run: func(in Input) (string, bool) {
			words := strings.FieldsFunc(strings.ToLower(in.Text), func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
			lower := " " + strings.Join(words, " ") + " "
			bestPos, best := -1, ""
			for _, phrase := range e.lexicon.roles {
				pos := strings.Index(lower, " "+phrase+" ")
				if pos < 0 {
					continue
				}
				if bestPos < 0 || pos < bestPos || (pos == bestPos && len(phrase) > len(best)) {
					bestPos, best = pos, phrase
				}
			}
			if best == "" {
				return "", false
			}
			return cases.Title(language.English).String(best), true
		}},
	}
}

func cleanRole(s string) string {
	s = stripContactInfo(s)
	s = strings.Trim(strings.Join(strings.Fields(s), " "), " .,;:-|")
	if s == "" || len(s) > maxRoleLength || sections.EmailPattern.MatchString(s) {
		return ""
	}
	return s
}
