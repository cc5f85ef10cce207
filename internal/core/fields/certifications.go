package fields

import (
	"regexp"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/sections"
)

var (
	certKeywordPattern = regexp.MustCompile(`(?i)\b(?:certif\w*|certs?|licen[cs]\w*|accredit\w*)\b`)
	certVendorPattern  = regexp.MustCompile(`\b(?:AWS|Azure|GCP|PMP|Cisco|CCNA|CCNP|Oracle|CompTIA|ITIL|Scrum Master|PRINCE2|CISSP|CKA|CKAD)\b`)
	certHeadingPattern = regexp.MustCompile(`(?i)\b(?:certifications?|certificates|licen[cs]es)\b`)
)

const certNearHeadingLines = 8

// CertificationStrategies read the certifications block, then the lines
// under an inline certification heading, then keyword lines anywhere.
func (e *Extractor) CertificationStrategies() []Strategy[[]string] {
	return []Strategy[[]string]{
		{Name: "certifications-section", Run: func(in Input) ([]string, bool) {
			block, ok := in.Section(domain.SectionCertifications)
			if !ok {
				return nil, false
			}
			certs := certLines(nonBlankLines(block))
			return certs, len(certs) > 0
		}},
		{Name: "near-heading", Run: func(in Input) ([]string, bool) {
			lines := in.Lines()
			for i, line := range lines {
				if !certHeadingPattern.MatchString(line) || len(line) > 60 {
					continue
				}
				end := i + 1 + certNearHeadingLines
				if end > len(lines) {
					end = len(lines)
				}
				certs := certLines(lines[i+1 : end])
				return certs, len(certs) > 0
			}
			return nil, false
		}},
		{Name: "keyword-lines", Run: func(in Input) ([]string, bool) {
			var candidates []string
			for _, line := range in.Lines() {
				if _, rest, ok := sections.MatchHeading(line); ok && rest == "" {
					continue
				}
				if certKeywordPattern.MatchString(line) {
					candidates = append(candidates, line)
				}
			}
			certs := certLines(candidates)
			return certs, len(certs) > 0
		}},
	}
}

// certLines keeps lines carrying a certification keyword or a vendor name.
func certLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := snippet(line)
		if len(clean) < 3 {
			continue
		}
		if !certKeywordPattern.MatchString(clean) && !certVendorPattern.MatchString(clean) {
			continue
		}
		out = append(out, clean)
	}
	return DedupeFuzzy(out, FuzzyMergeThreshold, MaxListItems)
}
