package fields

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/sections"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultLexicon(), WithClock(fixedClock))
}

func extract(t *testing.T, text, role string) (domain.ExtractedFields, []domain.FieldTrace) {
	t.Helper()
	return newTestExtractor().Extract(text, sections.Detect(text), role)
}

func TestExtractScenarioSkillsAndExperience(t *testing.T) {
	fields, _ := extract(t, "Skills:\nPython, SQL\nExperience:\n3 years", "")

	if !reflect.DeepEqual(fields.Skills, []string{"Python", "SQL"}) {
		t.Fatalf("skills = %v", fields.Skills)
	}
	if fields.ExperienceYears != 3.0 {
		t.Fatalf("experienceYears = %v, want 3", fields.ExperienceYears)
	}
	if fields.Education != "" || fields.EducationLevel != 0 {
		t.Fatalf("education must be absent, got %q/%d", fields.Education, fields.EducationLevel)
	}
}

func TestExtractEmptyInputDefaults(t *testing.T) {
	fields, traces := extract(t, "", "")
	if len(fields.Skills) != 0 || fields.Skills == nil {
		t.Fatalf("expected empty non-nil skills, got %#v", fields.Skills)
	}
	if fields.ExperienceYears != 0 || fields.ProjectsCount != 0 || fields.Education != "" || fields.JobRole != "" {
		t.Fatalf("expected defaults, got %+v", fields)
	}
	if len(traces) == 0 {
		t.Fatalf("expected default traces")
	}
}

func TestMatchSkillsDeduplicatesCaseInsensitive(t *testing.T) {
	got := newTestExtractor().MatchSkills("Python, python, PYTHON")
	if !reflect.DeepEqual(got, []string{"Python"}) {
		t.Fatalf("MatchSkills() = %v", got)
	}
}

func TestMatchSkillsCanonicalLabelsAndPhrases(t *testing.T) {
	got := newTestExtractor().MatchSkills("ga4 | nodejs; Node.js, Google Analytics 4\n- HTML/CSS\n- powerbi")
	want := []string{"Google Analytics 4", "Node.js", "HTML/CSS", "Power BI"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchSkills() = %v, want %v", got, want)
	}
}

func TestMatchSkillsSkipsUnknownAndBanned(t *testing.T) {
	got := newTestExtractor().MatchSkills("Currently a developer at a company, Present")
	if len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestMatchSkillsCapsLength(t *testing.T) {
	words := []string{}
	for w := range DefaultLexicon().words {
		words = append(words, w)
	}
	got := newTestExtractor().MatchSkills(strings.Join(words, ", "))
	if len(got) > MaxListItems {
		t.Fatalf("expected at most %d skills, got %d", MaxListItems, len(got))
	}
}

func TestSkillStrategiesPreferSection(t *testing.T) {
	text := "Summary\nUsed Excel daily\nSkills\nGolang, Docker"
	fields, traces := extract(t, text, "")
	if !reflect.DeepEqual(fields.Skills, []string{"Go", "Docker"}) {
		t.Fatalf("skills = %v", fields.Skills)
	}
	if !hasTrace(traces, "skills", "skills-section") {
		t.Fatalf("expected skills-section trace, got %+v", traces)
	}
}

func TestDedupeFuzzy(t *testing.T) {
	got := DedupeFuzzy([]string{"Elasticsearch", "ElasticSearch", "Elasticsearh", "Go", "Docker"}, FuzzyMergeThreshold, 0)
	if !reflect.DeepEqual(got, []string{"Elasticsearch", "Go", "Docker"}) {
		t.Fatalf("DedupeFuzzy() = %v", got)
	}
	got = DedupeFuzzy([]string{"a1", "b2", "c3"}, FuzzyMergeThreshold, 2)
	if len(got) != 2 {
		t.Fatalf("expected limit to apply, got %v", got)
	}
}

func TestDateRangeYears(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		years   float64
		skipped int
	}{
		{name: "present", text: "Acme, Jan 2019 – Present", years: 5},
		{name: "month range", text: "Jun 2020 - Dec 2021", years: 2},
		{name: "year range", text: "2015 - 2018\n2018-2020", years: 5},
		{name: "masked month range not double counted", text: "Jan 2019 - Jan 2021", years: 2},
		{name: "backwards range skipped", text: "2021 - 2019", years: 0, skipped: 1},
		{name: "absurd range skipped", text: "1950 - 2020", years: 0, skipped: 1},
		{name: "no ranges", text: "nothing here", years: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, skipped := DateRangeYears(tt.text, fixedClock())
			if years != tt.years || skipped != tt.skipped {
				t.Fatalf("DateRangeYears(%q) = (%v, %d), want (%v, %d)", tt.text, years, skipped, tt.years, tt.skipped)
			}
		})
	}
}

func TestExplicitYears(t *testing.T) {
	if got := ExplicitYears("3 years of Go, 5+ yrs of Python"); got != 5 {
		t.Fatalf("ExplicitYears() = %v", got)
	}
	if got := ExplicitYears("born 1990, 2019 years"); got != 0 {
		t.Fatalf("ExplicitYears() = %v", got)
	}
}

func TestExperienceTakesLargerEstimate(t *testing.T) {
	fields, _ := extract(t, "Summary\n2 years in industry\nExperience\nAcme Jan 2019 - Present", "")
	if fields.ExperienceYears != 5 {
		t.Fatalf("experienceYears = %v, want 5", fields.ExperienceYears)
	}
}

func TestHighestDegree(t *testing.T) {
	edu, ok := HighestDegree("BSc Computer Science, 2015\nMSc Data Science, 2017\nDiploma in Art")
	if !ok || edu.Level != 3 || edu.Label != "Master" || edu.Snippet != "MSc Data Science, 2017" {
		t.Fatalf("HighestDegree() = %+v, %v", edu, ok)
	}
	if _, ok := HighestDegree("MS Excel power user"); ok {
		t.Fatalf("MS Excel must not read as a degree")
	}
	edu, ok = HighestDegree("Boston University, Boston, MA\nHigh school diploma pending")
	if !ok || edu.Level != 1 || edu.Snippet != "High school diploma pending" {
		t.Fatalf("state code ranked as a degree: %+v", edu)
	}
	for _, line := range []string{"MA in Economics", "MS (Computer Science)", "M.S. Statistics"} {
		if edu, ok := HighestDegree(line); !ok || edu.Level != 3 {
			t.Fatalf("HighestDegree(%q) = %+v, %v, want Master", line, edu, ok)
		}
	}
	edu, ok = HighestDegree("Ph.D. in Physics")
	if !ok || edu.Level != 4 {
		t.Fatalf("expected PhD, got %+v", edu)
	}
}

func TestEducationFallsBackToFirstLine(t *testing.T) {
	fields, traces := extract(t, "Education\nGeneral Assembly bootcamp\nSkills\nGo", "")
	if fields.Education != "General Assembly bootcamp" || fields.EducationLevel != 0 {
		t.Fatalf("education = %q/%d", fields.Education, fields.EducationLevel)
	}
	if !hasTrace(traces, "education", "education-section-first-line") {
		t.Fatalf("expected first-line trace, got %+v", traces)
	}
}

func TestCertifications(t *testing.T) {
	text := "Certifications\n- AWS Certified Solutions Architect\n- AWS Certified Solutions Architect\n- Coursera course\n- PMP"
	fields, _ := extract(t, text, "")
	want := []string{"AWS Certified Solutions Architect", "PMP"}
	if !reflect.DeepEqual(fields.Certifications, want) {
		t.Fatalf("certifications = %v, want %v", fields.Certifications, want)
	}

	fields, _ = extract(t, "Experience\nEngineer\nCisco Certified Network Associate (CCNA)", "")
	if len(fields.Certifications) != 1 {
		t.Fatalf("expected keyword line certification, got %v", fields.Certifications)
	}

	fields, _ = extract(t, "Summary\nI am certain I can ship reliable services.\nExperience\nEngineer", "")
	if len(fields.Certifications) != 0 {
		t.Fatalf("plain prose read as certification: %v", fields.Certifications)
	}
}

func TestProjectStrategies(t *testing.T) {
	fields, _ := extract(t, "Projects\n- Inventory app\n- Chat bot\n1. Compiler", "")
	if fields.ProjectsCount != 3 {
		t.Fatalf("projectsCount = %d, want 3", fields.ProjectsCount)
	}

	many := strings.Repeat("worked on a project. ", 10)
	fields, traces := extract(t, many, "")
	if fields.ProjectsCount != MaxProjectMentions {
		t.Fatalf("projectsCount = %d, want clamp %d", fields.ProjectsCount, MaxProjectMentions)
	}
	if !hasTrace(traces, "projectsCount", StrategyProjectMentions) {
		t.Fatalf("expected mention fallback trace, got %+v", traces)
	}
	if fields.ProjectsListed {
		t.Fatalf("word mentions must not count as listed projects")
	}

	fields, _ = extract(t, "Projects\n- Inventory app", "")
	if !fields.ProjectsListed {
		t.Fatalf("projects section bullets must count as listed")
	}
}

func TestJobRolePrecedence(t *testing.T) {
	text := "Jane Doe\nSenior Backend Engineer | Remote\nExperience\nBuilt things as a data scientist"

	fields, _ := extract(t, text, "Product Manager")
	if fields.JobRole != "Product Manager" {
		t.Fatalf("override must win, got %q", fields.JobRole)
	}

	fields, _ = extract(t, "Jane Doe\nTitle: Staff Engineer\nSenior Backend Engineer", "")
	if fields.JobRole != "Staff Engineer" {
		t.Fatalf("role field must win, got %q", fields.JobRole)
	}

	fields, _ = extract(t, text, "")
	if fields.JobRole != "Senior Backend Engineer" {
		t.Fatalf("early line must win, got %q", fields.JobRole)
	}

	lines := []string{"Jane Doe"}
	for i := 0; i < 12; i++ {
		lines = append(lines, "filler line")
	}
	lines = append(lines, "aspiring data scientist, curious")
	fields, _ = extract(t, strings.Join(lines, "\n"), "")
	if fields.JobRole != "Data Scientist" {
		t.Fatalf("role phrase must be title-cased, got %q", fields.JobRole)
	}

	fields, _ = extract(t, "nothing relevant", "")
	if fields.JobRole != "" {
		t.Fatalf("expected absent role, got %q", fields.JobRole)
	}
}

func TestContactFields(t *testing.T) {
	text := "Jane Doe\njane@example.com | +1 (555) 010-0199\nhttps://github.com/jane, linkedin.com/in/jane\nExperience\nIncreased revenue by 30%\nLed a team of 5\nWrote docs"
	fields, _ := extract(t, text, "")
	if fields.Email != "jane@example.com" {
		t.Fatalf("email = %q", fields.Email)
	}
	if fields.Phone == "" {
		t.Fatalf("expected phone")
	}
	if len(fields.Links) != 2 {
		t.Fatalf("links = %v", fields.Links)
	}
	if fields.QuantifiedAchievements != 2 {
		t.Fatalf("quantifiedAchievements = %d", fields.QuantifiedAchievements)
	}
}

func TestRunChainRecoversPanics(t *testing.T) {
	chain := []Strategy[int]{
		{Name: "boom", Run: func(Input) (int, bool) { panic("bad regex input") }},
		{Name: "ok", Run: func(Input) (int, bool) { return 7, true }},
	}
	got, traces := runChain("demo", Input{}, chain)
	if got != 7 {
		t.Fatalf("runChain() = %d", got)
	}
	if len(traces) != 2 || !strings.Contains(traces[0].Note, "recovered") || traces[1].Strategy != "ok" {
		t.Fatalf("unexpected traces %+v", traces)
	}
}

func hasTrace(traces []domain.FieldTrace, field, strategy string) bool {
	for _, tr := range traces {
		if tr.Field == field && tr.Strategy == strategy && tr.Note == "matched" {
			return true
		}
	}
	return false
}

func TestReadability(t *testing.T) {
	if got := Readability(""); got != 0 {
		t.Fatalf("Readability(empty) = %v", got)
	}
	simple := Readability("I ran. We did it. It was fun.")
	dense := Readability("Orchestrated comprehensive organizational transformation initiatives leveraging interdisciplinary methodologies and sophisticated infrastructural capabilities")
	if simple <= dense {
		t.Fatalf("expected simple text to read easier: simple=%v dense=%v", simple, dense)
	}
	if simple < 0 || simple > 100 || dense < 0 || dense > 100 {
		t.Fatalf("readability out of range: %v %v", simple, dense)
	}
}

func TestCountSyllables(t *testing.T) {
	tests := map[string]int{"go": 1, "make": 1, "table": 2, "python": 2, "engineering": 4, "rhythm": 1}
	for word, want := range tests {
		if got := countSyllables(word); got != want {
			t.Fatalf("countSyllables(%q) = %d, want %d", word, got, want)
		}
	}
}
