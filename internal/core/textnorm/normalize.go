// Package textnorm cleans extracted resume text into a stable, ASCII-leaning form
// that the sectionizer and field extractors can scan line by line.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	pageBreakPattern   = regexp.MustCompile(`\f|\n{3,}`)
	spaceRunPattern    = regexp.MustCompile(`[ \t]{2,}`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
	leadingDashPattern = regexp.MustCompile(`^[ \t]*-[ \t]*`)
)

// bulletGlyphs are template bullets, including private-use glyphs emitted by
// Symbol and Wingdings fonts in converted documents.
const bulletGlyphs = "•·●○◦▪▫■□◆◇♦▶►▸▹‣⁃➤➢➣➔✓✔✦✧❖»"

var punctuationReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-", "−", "-",
	"…", "...",
	" ", " ", " ", " ", "​", "",
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "đ", "d", "Đ", "D", "ł", "l", "Ł", "L", "þ", "th",
)

// Normalize cleans raw extracted text. It never fails and is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
//
// Pages are split on form feeds or runs of three or more newlines, cleaned
// one by one, stripped of repeated headers and footers, and joined with a
// single blank line.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := transliterate(raw)
	pages := SplitPages(text)
	for i, page := range pages {
		page = rejoinHyphenation(page)
		page = normalizeBullets(page)
		page = collapseWhitespace(page)
		pages[i] = page
	}
	pages = StripRepeatedLines(pages)

	kept := pages[:0]
	for _, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			kept = append(kept, page)
		}
	}
	out := strings.Join(kept, "\n\n")
	out = blankRunPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// SplitPages splits text on form feeds and on runs of three or more newlines.
func SplitPages(text string) []string {
	return pageBreakPattern.Split(text, -1)
}

func transliterate(raw string) string {
	s := strings.ReplaceAll(raw, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = norm.NFKC.String(s)
	s = punctuationReplacer.Replace(s)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII:
			if r < ' ' && r != '\n' && r != '\t' && r != '\f' {
				return -1
			}
			return r
		case strings.ContainsRune(bulletGlyphs, r):
			return r
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// rejoinHyphenation merges "experi-" + "ence" style line wraps, including
// chains of several wrapped lines.
func rejoinHyphenation(page string) string {
	lines := strings.Split(page, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if n := len(out); n > 0 && endsWithWrapHyphen(out[n-1]) && startsWithLetter(line) {
			prev := out[n-1]
			out[n-1] = prev[:len(prev)-1] + line
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func endsWithWrapHyphen(line string) bool {
	if !strings.HasSuffix(line, "-") {
		return false
	}
	prev := []rune(strings.TrimSuffix(line, "-"))
	return len(prev) > 0 && unicode.IsLetter(prev[len(prev)-1])
}

func startsWithLetter(line string) bool {
	for _, r := range line {
		return unicode.IsLetter(r)
	}
	return false
}

// normalizeBullets turns bullet glyphs into a "-" marker and blanks lines
// that carry only decoration. Decorative lines become empty lines so that
// removing them never glues a wrapped hyphen onto the following line.
func normalizeBullets(page string) string {
	page = strings.Map(func(r rune) rune {
		if strings.ContainsRune(bulletGlyphs, r) {
			return '\u0001'
		}
		return r
	}, page)
	page = strings.ReplaceAll(page, "\u0001", " - ")

	lines := strings.Split(page, "\n")
	for i, line := range lines {
		if !hasWordRune(line) {
			lines[i] = ""
			continue
		}
		if leadingDashPattern.MatchString(line) {
			line = leadingDashPattern.ReplaceAllString(line, "- ")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func hasWordRune(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func collapseWhitespace(page string) string {
	page = spaceRunPattern.ReplaceAllString(page, " ")
	lines := strings.Split(page, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	page = strings.Join(lines, "\n")
	page = blankRunPattern.ReplaceAllString(page, "\n\n")
	return strings.TrimSpace(page)
}

// StripRepeatedLines removes running headers and footers. A page's first or
// last non-blank line that recurs verbatim in at least half of the pages
// (and in at least two of them) is blanked on every page.
func StripRepeatedLines(pages []string) []string {
	if len(pages) < 2 {
		return pages
	}

	candidates := make([]string, 0, len(pages)*2)
	for _, page := range pages {
		first, last := edgeLines(page)
		if first != "" {
			candidates = append(candidates, first)
		}
		if last != "" && last != first {
			candidates = append(candidates, last)
		}
	}

	repeated := make(map[string]bool)
	for _, candidate := range candidates {
		if repeated[candidate] {
			continue
		}
		count := 0
		for _, page := range pages {
			if containsLine(page, candidate) {
				count++
			}
		}
		if count >= 2 && count*2 >= len(pages) {
			repeated[candidate] = true
		}
	}
	if len(repeated) == 0 {
		return pages
	}

	out := make([]string, len(pages))
	for i, page := range pages {
		lines := strings.Split(page, "\n")
		for j, line := range lines {
			if repeated[strings.TrimSpace(line)] {
				lines[j] = ""
			}
		}
		out[i] = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return out
}

func edgeLines(page string) (string, string) {
	var first, last string
	for _, line := range strings.Split(page, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first == "" {
			first = line
		}
		last = line
	}
	return first, last
}

func containsLine(page, want string) bool {
	for _, line := range strings.Split(page, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}
