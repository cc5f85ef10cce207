package fields

import (
	"fmt"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

// Input is what every field strategy looks at.
type Input struct {
	Text         string
	Sections     domain.SectionMap
	FallbackRole string
}

// Lines returns the trimmed non-blank lines of the full text.
func (in Input) Lines() []string {
	return nonBlankLines(in.Text)
}

// Section returns the text of a detected block and whether it has content.
func (in Input) Section(key domain.SectionKey) (string, bool) {
	if !in.Sections.Has(key) {
		return "", false
	}
	text, _ := in.Sections.Get(key)
	return text, true
}

// Strategy is one named rule in a field's fallback chain. Run reports false
// when the rule does not apply, letting the next rule try.
type Strategy[T any] struct {
	Name string
	Run  func(Input) (T, bool)
}

// runChain evaluates strategies in order and returns the first hit. A panic in
// one rule is recovered, traced, and treated as a miss.
func runChain[T any](field string, in Input, chain []Strategy[T]) (T, []domain.FieldTrace) {
	var traces []domain.FieldTrace
	for _, strategy := range chain {
		value, ok, err := safeRun(strategy, in)
		if err != nil {
			traces = append(traces, domain.FieldTrace{Field: field, Strategy: strategy.Name, Note: err.Error()})
			continue
		}
		if ok {
			traces = append(traces, domain.FieldTrace{Field: field, Strategy: strategy.Name, Note: "matched"})
			return value, traces
		}
	}
	var zero T
	traces = append(traces, domain.FieldTrace{Field: field, Note: "no strategy matched, default applied"})
	return zero, traces
}

// matchedStrategy names the rule that produced a chain's value, if any.
func matchedStrategy(traces []domain.FieldTrace) string {
	for _, trace := range traces {
		if trace.Note == "matched" {
			return trace.Strategy
		}
	}
	return ""
}

func safeRun[T any](strategy Strategy[T], in Input) (value T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
			ok = false
		}
	}()
	value, ok = strategy.Run(in)
	return value, ok, nil
}

func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripMarker drops a leading list marker such as "- " or "3. ".
func stripMarker(line string) string {
	line = strings.TrimSpace(line)
	if m := listMarkerPattern.FindString(line); m != "" {
		line = strings.TrimSpace(line[len(m):])
	}
	return line
}
