package fields

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const maxPlausibleYears = 50

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	explicitYearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
	monthRangePattern    = regexp.MustCompile(
		`(?i)\b(` + monthNames + `)\.?,?\s*((?:19|20)\d{2})\s*(?:-|–|—|to|until)\s*(?:(present|current|now|today)|(` + monthNames + `)\.?,?\s*((?:19|20)\d{2}))`,
	)
	yearRangePattern = regexp.MustCompile(
		`(?i)\b((?:19|20)\d{2})\s*(?:-|–|—|to|until)\s*(?:((?:19|20)\d{2})|(present|current|now|today))\b`,
	)
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExplicitYears returns the largest "N years" figure below 50, or 0.
func ExplicitYears(text string) float64 {
	best := 0.0
	for _, m := range explicitYearsPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v >= maxPlausibleYears {
			continue
		}
		if v > best {
			best = v
		}
	}
	return best
}

// DateRangeYears sums the month spans of "Mon YYYY - Mon YYYY|Present" and
// "YYYY - YYYY|Present" ranges and rounds the total to whole years. Ranges
// that run backwards or span 50 years or more are skipped and counted.
func DateRangeYears(text string, now time.Time) (years float64, skipped int) {
	totalMonths := 0
	nowMonths := now.Year()*12 + int(now.Month()) - 1

	masked := []byte(text)
	for _, loc := range monthRangePattern.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string {
			if loc[2*i] < 0 {
				return ""
			}
			return text[loc[2*i]:loc[2*i+1]]
		}
		start := monthsOf(group(2), group(1))
		end := nowMonths
		if group(3) == "" {
			end = monthsOf(group(5), group(4))
		}
		if span, ok := plausibleSpan(start, end); ok {
			totalMonths += span
		} else {
			skipped++
		}
		for k := loc[0]; k < loc[1]; k++ {
			masked[k] = ' '
		}
	}

	for _, m := range yearRangePattern.FindAllStringSubmatch(string(masked), -1) {
		startYear, _ := strconv.Atoi(m[1])
		start := startYear * 12
		end := nowMonths
		if m[2] != "" {
			endYear, _ := strconv.Atoi(m[2])
			end = endYear * 12
		}
		if span, ok := plausibleSpan(start, end); ok {
			totalMonths += span
		} else {
			skipped++
		}
	}

	return math.Round(float64(totalMonths) / 12), skipped
}

func monthsOf(year, month string) int {
	y, _ := strconv.Atoi(year)
	name := strings.ToLower(month)
	if len(name) > 3 {
		name = name[:3]
	}
	m, ok := monthIndex[name]
	if !ok {
		m = 1
	}
	return y*12 + m - 1
}

func plausibleSpan(start, end int) (int, bool) {
	span := end - start
	if span < 0 || span >= maxPlausibleYears*12 {
		return 0, false
	}
	return span, true
}

// experienceYears takes the larger of the explicit and date-range estimates.
// Date ranges are read from the experience block when one exists so that
// study periods do not count as work.
func (e *Extractor) experienceYears(in Input) (float64, []domain.FieldTrace) {
	var traces []domain.FieldTrace
	explicit := ExplicitYears(in.Text)

	source, strategy := in.Text, "date-ranges:full-text"
	if block, ok := in.Section(domain.SectionExperience); ok {
		source, strategy = block, "date-ranges:experience-section"
	}
	ranged, skipped := DateRangeYears(source, e.now())
	if skipped > 0 {
		traces = append(traces, domain.FieldTrace{
			Field:    "experienceYears",
			Strategy: strategy,
			Note:     "skipped " + strconv.Itoa(skipped) + " implausible date ranges",
		})
	}

	years := math.Max(explicit, ranged)
	switch {
	case years <= 0:
		traces = append(traces, domain.FieldTrace{Field: "experienceYears", Note: "no strategy matched, default applied"})
		return 0, traces
	case explicit >= ranged:
		traces = append(traces, domain.FieldTrace{Field: "experienceYears", Strategy: "explicit-years", Note: "matched"})
	default:
		traces = append(traces, domain.FieldTrace{Field: "experienceYears", Strategy: strategy, Note: "matched"})
	}
	return years, traces
}
