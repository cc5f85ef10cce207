package fields

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	MaxListItems        = 40
	FuzzyMergeThreshold = 0.92
)

var (
	skillDelimiterPattern = regexp.MustCompile(`[,;|:\n]|\s-\s`)
	skillTokenPattern     = regexp.MustCompile(`[A-Za-z.][A-Za-z0-9.+#\-]*`)
)

// SkillStrategies matches the lexicon against the skills block first and the
// whole text second.
func (e *Extractor) SkillStrategies() []Strategy[[]string] {
	return []Strategy[[]string]{
		{Name: "skills-section", Run: func(in Input) ([]string, bool) {
			block, ok := in.Section(domain.SectionSkills)
			if !ok {
				return nil, false
			}
			skills := e.MatchSkills(block)
			return skills, len(skills) > 0
		}},
		{Name: "full-text", Run: func(in Input) ([]string, bool) {
			skills := e.MatchSkills(in.Text)
			return skills, len(skills) > 0
		}},
	}
}

type skillHit struct {
	pos int
	raw string
}

// MatchSkills finds lexicon skills in text and returns their display labels
// in order of first appearance, deduplicated, fuzzy-merged and capped.
func (e *Extractor) MatchSkills(text string) []string {
	var hits []skillHit
	for _, segment := range splitKeepOffsets(text) {
		hits = append(hits, e.matchSegment(segment.text, segment.start)...)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	labels := make([]string, 0, len(hits))
	for _, hit := range hits {
		label := e.lexicon.Label(hit.raw)
		if e.lexicon.IsBanned(label) || e.lexicon.IsBanned(hit.raw) {
			continue
		}
		labels = append(labels, label)
	}
	return DedupeFuzzy(labels, FuzzyMergeThreshold, MaxListItems)
}

type segment struct {
	text  string
	start int
}

func splitKeepOffsets(text string) []segment {
	var out []segment
	last := 0
	for _, loc := range skillDelimiterPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, segment{text: text[last:loc[0]], start: last})
		}
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, segment{text: text[last:], start: last})
	}
	return out
}

// matchSegment prefers the longest phrase at a position, then single words
// that no phrase already covers.
func (e *Extractor) matchSegment(seg string, base int) []skillHit {
	lower := strings.ToLower(seg)
	covered := make([]bool, len(lower))
	var hits []skillHit

	type span struct{ start, end int }
	var spans []span
	for _, phrase := range e.lexicon.phrases {
		for from := 0; from < len(lower); {
			i := strings.Index(lower[from:], phrase)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(phrase)
			if boundaryAt(lower, start-1) && boundaryAt(lower, end) {
				spans = append(spans, span{start, end})
			}
			from = start + 1
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	for _, s := range spans {
		if anyCovered(covered, s.start, s.end) {
			continue
		}
		for k := s.start; k < s.end; k++ {
			covered[k] = true
		}
		hits = append(hits, skillHit{pos: base + s.start, raw: lower[s.start:s.end]})
	}

	for _, loc := range skillTokenPattern.FindAllStringIndex(lower, -1) {
		if anyCovered(covered, loc[0], loc[1]) {
			continue
		}
		token := strings.TrimRight(lower[loc[0]:loc[1]], ".-")
		token = strings.TrimLeft(token, "-")
		if token == "" || !e.lexicon.IsSkillWord(token) {
			continue
		}
		hits = append(hits, skillHit{pos: base + loc[0], raw: token})
	}
	return hits
}

func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !(unicode.IsLetter(r) || unicode.IsDigit(r))
}

func anyCovered(covered []bool, start, end int) bool {
	for k := start; k < end && k < len(covered); k++ {
		if covered[k] {
			return true
		}
	}
	return false
}

// DedupeFuzzy keeps the first occurrence of each item, dropping later items
// that equal an earlier one case-insensitively or whose normalized edit
// similarity to it is at least threshold. The result holds at most limit items.
func DedupeFuzzy(items []string, threshold float64, limit int) []string {
	out := make([]string, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := similarityKey(item)
		if key == "" || isNearDuplicate(key, keys, threshold) {
			continue
		}
		out = append(out, item)
		keys = append(keys, key)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func isNearDuplicate(key string, seen []string, threshold float64) bool {
	for _, other := range seen {
		if key == other || Similarity(key, other) >= threshold {
			return true
		}
	}
	return false
}

// Similarity is 1 - editDistance/maxLen over the two strings.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func similarityKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
