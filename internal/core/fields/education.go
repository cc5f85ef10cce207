package fields

import (
	"regexp"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const maxEducationSnippet = 160

// Degree is one rung of the ordinal degree table.
type Degree struct {
	Rank    int
	Label   string
	pattern *regexp.Regexp
}

// degreeTable is ordered from the highest rank down. Bare "MS" and "MA" need
// "in", "of" or a parenthesis after them so state codes and "MS Excel" miss.
var degreeTable = []Degree{
	{Rank: 4, Label: "PhD", pattern: regexp.MustCompile(`(?i:\bph\.?\s?d\b|\bdoctorate\b|\bdoctor of\b|\bd\.?phil\b)`)},
	{Rank: 3, Label: "Master", pattern: regexp.MustCompile(`(?i:\bmaster(?:'?s)?\b|\bm\.?\s?sc\b|\bmba\b|\bm\.?\s?eng\b|\bm\.?\s?tech\b|\bmphil\b)|\b(?:MS|MA)(?:\s+(?:in|of)\b|\s*\()|\bM\.[SA]\.`)},
	{Rank: 2, Label: "Bachelor", pattern: regexp.MustCompile(`(?i:\bbachelor(?:'?s)?\b|\bb\.?\s?sc\b|\bb\.?\s?eng\b|\bb\.?\s?tech\b|\bundergraduate degree\b)|\b(?:BS|BA|B\.S\.|B\.A\.)(?:\s|,|\(|$)`)},
	{Rank: 1, Label: "Diploma", pattern: regexp.MustCompile(`(?i:\bdiploma\b|\bhnd\b|\bhnc\b|\bassociate(?:'?s)? degree\b|\bassociate of\b)`)},
}

// DegreeTable returns the ordinal table used for education ranking.
func DegreeTable() []Degree {
	out := make([]Degree, len(degreeTable))
	copy(out, degreeTable)
	return out
}

// Education is the extracted degree value.
type Education struct {
	Level   int
	Label   string
	Snippet string
}

// EducationStrategies look for the highest ranked degree in the education
// block, then in the full text, and finally take the first line of an
// education block that names no known degree.
func (e *Extractor) EducationStrategies() []Strategy[Education] {
	return []Strategy[Education]{
		{Name: "education-section-degree", Run: func(in Input) (Education, bool) {
			block, ok := in.Section(domain.SectionEducation)
			if !ok {
				return Education{}, false
			}
			return HighestDegree(block)
		}},
		{Name: "full-text-degree", Run: func(in Input) (Education, bool) {
			return HighestDegree(in.Text)
		}},
		{Name: "education-section-first-line", Run: func(in Input) (Education, bool) {
			block, ok := in.Section(domain.SectionEducation)
			if !ok {
				return Education{}, false
			}
			lines := nonBlankLines(block)
			if len(lines) == 0 {
				return Education{}, false
			}
			return Education{Snippet: snippet(lines[0])}, true
		}},
	}
}

// HighestDegree returns the first line holding the highest ranked degree.
// Multiple degrees are never aggregated.
func HighestDegree(text string) (Education, bool) {
	lines := nonBlankLines(text)
	for _, degree := range degreeTable {
		for _, line := range lines {
			if degree.pattern.MatchString(line) {
				return Education{Level: degree.Rank, Label: degree.Label, Snippet: snippet(line)}, true
			}
		}
	}
	return Education{}, false
}

func snippet(line string) string {
	line = stripMarker(line)
	line = stripContactInfo(line)
	line = strings.Join(strings.Fields(line), " ")
	if len(line) > maxEducationSnippet {
		cut := strings.LastIndex(line[:maxEducationSnippet], " ")
		if cut <= 0 {
			cut = maxEducationSnippet
		}
		line = strings.TrimSpace(line[:cut])
	}
	return line
}
