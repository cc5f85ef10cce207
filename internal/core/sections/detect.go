// Package sections splits normalized resume text into canonical named blocks.
package sections

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	maxHeadingWords      = 8
	maxInlineHeadingWord = 4
	contactScanLines     = 10
	summaryMinWords      = 30
)

var (
	EmailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneCandidate   = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{7,}\d`)
	headingTrimChars = " \t:-=*#|_>.~"
)

var index = buildIndex()

var roleTitleWords = map[string]bool{
	"manager": true, "engineer": true, "developer": true, "designer": true, "analyst": true,
	"scientist": true, "architect": true, "consultant": true, "specialist": true,
	"director": true, "coordinator": true, "administrator": true, "officer": true,
	"intern": true, "lead": true,
}

// FindPhone returns the first phone-like run in line holding 9 to 15 digits.
// Year ranges such as "2019 - 2021" carry too few digits to qualify.
func FindPhone(line string) string {
	for _, candidate := range phoneCandidate.FindAllString(line, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 && digits <= 15 {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func hasContactSignal(line string) bool {
	return EmailPattern.MatchString(line) || FindPhone(line) != ""
}

type builder struct {
	sections []domain.Section
	lines    [][]string
	position map[domain.SectionKey]int
}

func newBuilder() *builder {
	return &builder{position: make(map[domain.SectionKey]int)}
}

func (b *builder) open(key domain.SectionKey, heading string, lineNo int) {
	if _, ok := b.position[key]; ok {
		return
	}
	b.position[key] = len(b.sections)
	b.sections = append(b.sections, domain.Section{Key: key, Heading: heading, StartLine: lineNo})
	b.lines = append(b.lines, nil)
}

func (b *builder) add(key domain.SectionKey, line string, lineNo int) {
	b.open(key, "", lineNo)
	i := b.position[key]
	b.lines[i] = append(b.lines[i], line)
}

func (b *builder) build(headings int) domain.SectionMap {
	out := domain.SectionMap{HeadingsFound: headings}
	for i, section := range b.sections {
		section.Text = strings.TrimSpace(strings.Join(b.lines[i], "\n"))
		if section.Text == "" && section.Heading == "" {
			continue
		}
		out.Sections = append(out.Sections, section)
	}
	return out
}

// Detect scans text line by line. A recognized heading opens a section that
// runs until the next heading. Text before the first heading, or all text when
// no heading is found, lands in the "other" block. Contact lines in the first
// non-blank lines are captured as the contact block even without a heading.
func Detect(text string) domain.SectionMap {
	if strings.TrimSpace(text) == "" {
		return domain.SectionMap{}
	}

	b := newBuilder()
	current := domain.SectionOther
	headings := 0
	nonBlank := 0

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if _, ok := b.position[current]; ok {
				b.add(current, "", lineNo)
			}
			continue
		}
		nonBlank++

		if key, rest, ok := MatchHeading(line); ok && !isSkillLabel(current, key, rest) {
			headings++
			current = key
			b.open(key, line, lineNo)
			if rest != "" {
				b.add(key, rest, lineNo)
			}
			continue
		}

		if nonBlank <= contactScanLines && current != domain.SectionContact && hasContactSignal(line) {
			b.add(domain.SectionContact, line, lineNo)
			continue
		}
		b.add(current, line, lineNo)
	}

	out := b.build(headings)
	if headings > 0 {
		inferSummary(&out)
	}
	return out
}

// isSkillLabel keeps "Languages: Go, Python" style category labels inside an
// open skills block instead of starting a new section. Only keys that double
// as skill categories qualify; core and optional headings always open.
func isSkillLabel(current, key domain.SectionKey, rest string) bool {
	return rest != "" && current == domain.SectionSkills && key == domain.SectionLanguages
}

// inferSummary promotes a long preamble to the summary block when the resume
// has headings but none of them is a summary.
func inferSummary(m *domain.SectionMap) {
	if _, ok := m.Get(domain.SectionSummary); ok {
		return
	}
	for i, section := range m.Sections {
		if section.Key != domain.SectionOther {
			continue
		}
		if len(strings.Fields(section.Text)) >= summaryMinWords {
			m.Sections[i].Key = domain.SectionSummary
		}
		return
	}
}

// MatchHeading reports whether line is a section heading. It returns the
// canonical key and any inline content after a "Heading:" prefix.
func MatchHeading(line string) (domain.SectionKey, string, bool) {
	if key, ok := matchExact(line); ok {
		return key, "", true
	}
	if head, rest, found := strings.Cut(line, ":"); found {
		rest = strings.TrimSpace(rest)
		if rest != "" && len(strings.Fields(head)) <= maxInlineHeadingWord {
			if key, ok := matchExact(head); ok {
				return key, rest, true
			}
		}
	}
	if key, ok := matchStylized(line); ok {
		return key, "", true
	}
	return "", "", false
}

func canonicalHeading(line string) string {
	s := strings.ToLower(strings.Trim(line, headingTrimChars))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "/", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// matchExact is the first tier: the whole line equals a synonym phrase.
func matchExact(line string) (domain.SectionKey, bool) {
	key, ok := index.phrases[canonicalHeading(line)]
	return key, ok
}

// matchStylized is the second tier: a short, mostly uppercase line that
// starts with a synonym phrase, or whose first word only starts synonyms of
// one key. Job titles such as "SENIOR PROJECT MANAGER" never qualify.
func matchStylized(line string) (domain.SectionKey, bool) {
	if strings.ContainsAny(line, "0123456789@") {
		return "", false
	}
	words := strings.Fields(canonicalHeading(line))
	if len(words) == 0 || len(words) > maxHeadingWords || !mostlyUpper(line) || isRoleTitle(words) {
		return "", false
	}

	bestKey, bestLen := domain.SectionKey(""), 0
	for phrase, key := range index.phrases {
		phraseWords := strings.Fields(phrase)
		if !hasWordPrefix(words, phraseWords) {
			continue
		}
		if len(phraseWords) > bestLen || (len(phraseWords) == bestLen && string(key) < string(bestKey)) {
			bestKey, bestLen = key, len(phraseWords)
		}
	}
	if bestKey != "" {
		return bestKey, true
	}

	key, ok := index.leadingWords[words[0]]
	return key, ok
}

func hasWordPrefix(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i := range prefix {
		if words[i] != prefix[i] {
			return false
		}
	}
	return true
}

func isRoleTitle(words []string) bool {
	for _, word := range words {
		if roleTitleWords[word] {
			return true
		}
	}
	return false
}

func mostlyUpper(line string) bool {
	upper, letters := 0, 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters >= 3 && upper*2 > letters
}
