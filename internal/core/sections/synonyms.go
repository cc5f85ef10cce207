package sections

import "github.com/kirillkom/resume-analyzer/internal/core/domain"

// headingSynonyms backs each canonical key with the heading phrases resumes use
// for it. Phrases are lowercase with "&" spelled as "and".
var headingSynonyms = map[domain.SectionKey][]string{
	domain.SectionSummary: {
		"summary", "professional summary", "career summary", "profile", "professional profile",
		"personal profile", "objective", "career objective", "about me", "about",
	},
	domain.SectionExperience: {
		"experience", "work experience", "professional experience", "relevant experience",
		"employment", "employment history", "work history", "career history", "internships",
	},
	domain.SectionEducation: {
		"education", "academics", "academic background", "academic qualifications",
		"qualifications", "education and training",
	},
	domain.SectionSkills: {
		"skills", "skill", "technical skills", "core skills", "key skills", "skills and tools",
		"competencies", "core competencies", "technologies", "tools", "tooling", "tech stack", "expertise",
	},
	domain.SectionProjects: {
		"projects", "project", "personal projects", "key projects", "selected projects",
		"academic projects", "portfolio",
	},
	domain.SectionCertifications: {
		"certifications", "certification", "certificates", "licenses", "licences",
		"licenses and certifications", "courses and certifications", "courses",
	},
	domain.SectionContact: {
		"contact", "contact information", "contact info", "contact details", "personal details",
	},
	domain.SectionLinks: {
		"links", "profiles", "online profiles", "social", "social media", "github", "linkedin",
	},
	domain.SectionAchievements: {
		"achievements", "key achievements", "accomplishments", "awards", "honors", "honours",
		"awards and achievements", "honors and awards",
	},
	domain.SectionVolunteer: {
		"volunteer", "volunteering", "volunteer experience", "volunteer work", "community service",
	},
	domain.SectionLanguages: {
		"languages", "language skills", "spoken languages",
	},
}

type synonymIndex struct {
	phrases      map[string]domain.SectionKey
	leadingWords map[string]domain.SectionKey
}

// buildIndex maps every phrase to its key. A leading word is only indexed when
// it belongs to a single key, so "professional" never decides a heading alone.
func buildIndex() synonymIndex {
	idx := synonymIndex{
		phrases:      make(map[string]domain.SectionKey),
		leadingWords: make(map[string]domain.SectionKey),
	}
	ambiguous := make(map[string]bool)
	for _, key := range domain.CanonicalSections {
		for _, phrase := range headingSynonyms[key] {
			idx.phrases[phrase] = key
			word := firstWord(phrase)
			if owner, ok := idx.leadingWords[word]; ok && owner != key {
				ambiguous[word] = true
				continue
			}
			idx.leadingWords[word] = key
		}
	}
	for word := range ambiguous {
		delete(idx.leadingWords, word)
	}
	return idx
}

func firstWord(phrase string) string {
	for i, r := range phrase {
		if r == ' ' {
			return phrase[:i]
		}
	}
	return phrase
}

// Synonyms returns the heading phrases recognized for key.
func Synonyms(key domain.SectionKey) []string {
	out := make([]string, len(headingSynonyms[key]))
	copy(out, headingSynonyms[key])
	return out
}
