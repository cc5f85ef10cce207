package fields

import (
	"regexp"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/sections"
)

const contactFallbackLines = 15

var (
	linkPattern        = regexp.MustCompile(`(?i)\bhttps?://[^\s|,;)]+|\bwww\.[^\s|,;)]+|\b(?:linkedin\.com|github\.com|gitlab\.com|behance\.net|dribbble\.com|medium\.com)/[^\s|,;)]+`)
	achievementPattern = regexp.MustCompile(`(?i)\b(?:increased|reduced|improved|grew|saved|cut|boosted|raised|decreased|generated|delivered|launched|led|scaled|accelerated)\b`)
	metricPattern      = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:%|x\b|k\b|m\b)|[$£€]\s?\d`)
	anyNumberPattern   = regexp.MustCompile(`\d`)
)

func stripContactInfo(s string) string {
	s = sections.EmailPattern.ReplaceAllString(s, "")
	return linkPattern.ReplaceAllString(s, "")
}

// Email returns the first email address in the contact block or the text.
func Email(in Input) string {
	if block, ok := in.Section(domain.SectionContact); ok {
		if m := sections.EmailPattern.FindString(block); m != "" {
			return m
		}
	}
	return sections.EmailPattern.FindString(in.Text)
}

// Phone looks in the contact block first, then in the top lines of the text.
func Phone(in Input) string {
	if block, ok := in.Section(domain.SectionContact); ok {
		for _, line := range nonBlankLines(block) {
			if p := sections.FindPhone(line); p != "" {
				return p
			}
		}
	}
	lines := in.Lines()
	if len(lines) > contactFallbackLines {
		lines = lines[:contactFallbackLines]
	}
	for _, line := range lines {
		if p := sections.FindPhone(line); p != "" {
			return p
		}
	}
	return ""
}

// Links returns profile and portfolio URLs in order of appearance.
func Links(text string) []string {
	var out []string
	for _, m := range linkPattern.FindAllString(text, -1) {
		out = append(out, strings.TrimRight(m, ".:"))
	}
	return DedupeFuzzy(out, 1, MaxListItems)
}

// QuantifiedAchievements counts lines that pair an impact verb with a
// number, or that state a percentage, multiplier or money amount.
func QuantifiedAchievements(text string) int {
	count := 0
	for _, line := range nonBlankLines(text) {
		if metricPattern.MatchString(line) ||
			(achievementPattern.MatchString(line) && anyNumberPattern.MatchString(line)) {
			count++
		}
	}
	return count
}
