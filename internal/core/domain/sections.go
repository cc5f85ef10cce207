package domain

type SectionKey string

const (
	SectionSummary        SectionKey = "summary"
	SectionExperience     SectionKey = "experience"
	SectionEducation      SectionKey = "education"
	SectionSkills         SectionKey = "skills"
	SectionProjects       SectionKey = "projects"
	SectionCertifications SectionKey = "certifications"
	SectionContact        SectionKey = "contact"
	SectionLinks          SectionKey = "links"
	SectionAchievements   SectionKey = "achievements"
	SectionVolunteer      SectionKey = "volunteer"
	SectionLanguages      SectionKey = "languages"

	// SectionOther holds text outside any recognized heading. It never counts as coverage.
	SectionOther SectionKey = "other"
)

// CanonicalSections lists the vocabulary in display order.
var CanonicalSections = []SectionKey{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionContact,
	SectionLinks,
	SectionAchievements,
	SectionVolunteer,
	SectionLanguages,
}

func IsCanonicalSection(key SectionKey) bool {
	for _, k := range CanonicalSections {
		if k == key {
			return true
		}
	}
	return false
}

type Section struct {
	Key       SectionKey `json:"key"`
	Heading   string     `json:"heading,omitempty"`
	Text      string     `json:"text"`
	StartLine int        `json:"startLine"`
}

// SectionMap keeps detected sections in order of first appearance.
// A key absent from the map means the section was not detected.
type SectionMap struct {
	Sections      []Section `json:"sections"`
	HeadingsFound int       `json:"headingsFound"`
}

func (m SectionMap) Get(key SectionKey) (string, bool) {
	for _, s := range m.Sections {
		if s.Key == key {
			return s.Text, true
		}
	}
	return "", false
}

// Has reports whether key was detected with a non-blank block.
func (m SectionMap) Has(key SectionKey) bool {
	for _, s := range m.Sections {
		if s.Key == key {
			return hasText(s.Text)
		}
	}
	return false
}

func (m SectionMap) Keys() []SectionKey {
	keys := make([]SectionKey, 0, len(m.Sections))
	for _, s := range m.Sections {
		keys = append(keys, s.Key)
	}
	return keys
}

// Unsectioned is true when no heading of any canonical section was found.
func (m SectionMap) Unsectioned() bool {
	return m.HeadingsFound == 0
}

func hasText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

// Coverage flags canonical section presence, by heading or by extracted field.
type Coverage map[SectionKey]bool

func NewCoverage() Coverage {
	c := make(Coverage, len(CanonicalSections))
	for _, k := range CanonicalSections {
		c[k] = false
	}
	return c
}
