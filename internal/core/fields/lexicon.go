package fields

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lexicon is the read-only vocabulary used by the skill, certification and
// role extractors. Build it once at startup and share it between requests.
type Lexicon struct {
	words     map[string]struct{}
	phrases   []string
	canonical map[string]string
	banned    map[string]struct{}
	roles     []string
}

// LexiconOverrides extends the default vocabulary.
type LexiconOverrides struct {
	Words     []string
	Phrases   []string
	Canonical map[string]string
	Banned    []string
	Roles     []string
}

var defaultSkillWords = []string{
	// programming
	"python", "java", "javascript", "typescript", "golang", "rust", "kotlin", "swift", "scala", "ruby",
	"php", "perl", "c++", "c#", ".net", "matlab", "bash", "powershell",
	"html", "css", "sass", "sql", "mysql", "postgres", "postgresql", "mongodb", "redis", "sqlite", "oracle",
	"git", "github", "gitlab", "linux",
	"react", "angular", "vue", "svelte", "next.js", "nextjs", "node", "node.js", "nodejs",
	"django", "flask", "fastapi", "spring", "laravel", "rails", "jquery", "graphql", "grpc",
	"wordpress", "tailwind", "bootstrap", "selenium", "cypress", "jest", "pytest",
	// infrastructure
	"docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins", "aws", "azure", "gcp", "kafka", "rabbitmq",
	"nginx", "prometheus", "grafana", "airflow", "spark", "hadoop", "snowflake", "dbt",
	// data / analytics
	"excel", "tableau", "looker", "powerbi", "power-bi", "bigquery", "ga4", "pandas", "numpy",
	"tensorflow", "pytorch", "keras", "scikit-learn", "sklearn", "nlp", "etl",
	// product / web
	"ux", "ui", "rest", "api", "apis", "seo", "sem", "figma", "sketch", "jira", "confluence", "notion",
	// process
	"agile", "scrum", "kanban",
	// design / media
	"photoshop", "illustrator", "after-effects", "premiere", "indesign", "canva",
	// social / marketing
	"facebook", "instagram", "tiktok", "hubspot", "salesforce", "mailchimp",
}

var defaultSkillPhrases = []string{
	"html/css", "ci/cd", "front-end", "front end", "back-end", "back end", "full stack", "full-stack",
	"google analytics", "google analytics 4", "google ads", "google cloud", "power bi", "data analysis",
	"data visualization", "data visualisation", "machine learning", "deep learning", "computer vision",
	"natural language processing", "content marketing", "social media", "email marketing",
	"unit testing", "test automation", "continuous integration", "rest api", "rest apis", "microservices",
	"project management", "stakeholder management", "public speaking", "after effects", "react native",
	"spring boot", "ruby on rails", "sql server", "amazon web services", "microsoft azure", "ms excel",
}

var defaultCanonical = map[string]string{
	"nextjs":                      "Next.js",
	"next.js":                     "Next.js",
	"nodejs":                      "Node.js",
	"node.js":                     "Node.js",
	"node":                        "Node.js",
	"ga4":                         "Google Analytics 4",
	"google analytics 4":          "Google Analytics 4",
	"powerbi":                     "Power BI",
	"power-bi":                    "Power BI",
	"power bi":                    "Power BI",
	"html":                        "HTML",
	"css":                         "CSS",
	"html/css":                    "HTML/CSS",
	"sql":                         "SQL",
	"ux":                          "UX",
	"ui":                          "UI",
	"javascript":                  "JavaScript",
	"typescript":                  "TypeScript",
	"golang":                      "Go",
	"postgres":                    "PostgreSQL",
	"postgresql":                  "PostgreSQL",
	"mysql":                       "MySQL",
	"mongodb":                     "MongoDB",
	"github":                      "GitHub",
	"gitlab":                      "GitLab",
	"graphql":                     "GraphQL",
	"grpc":                        "gRPC",
	"fastapi":                     "FastAPI",
	"bigquery":                    "BigQuery",
	"aws":                         "AWS",
	"amazon web services":         "AWS",
	"gcp":                         "GCP",
	"google cloud":                "GCP",
	"microsoft azure":             "Azure",
	"k8s":                         "Kubernetes",
	"c++":                         "C++",
	"c#":                          "C#",
	".net":                        ".NET",
	"php":                         "PHP",
	"api":                         "APIs",
	"apis":                        "APIs",
	"rest":                        "REST",
	"rest api":                    "REST APIs",
	"rest apis":                   "REST APIs",
	"seo":                         "SEO",
	"sem":                         "SEM",
	"nlp":                         "NLP",
	"natural language processing": "NLP",
	"etl":                         "ETL",
	"ci/cd":                       "CI/CD",
	"continuous integration":      "CI/CD",
	"front end":                   "Front-End",
	"front-end":                   "Front-End",
	"back end":                    "Back-End",
	"back-end":                    "Back-End",
	"full stack":                  "Full-Stack",
	"full-stack":                  "Full-Stack",
	"scikit-learn":                "scikit-learn",
	"sklearn":                     "scikit-learn",
	"pytorch":                     "PyTorch",
	"tensorflow":                  "TensorFlow",
	"numpy":                       "NumPy",
	"tiktok":                      "TikTok",
	"hubspot":                     "HubSpot",
	"wordpress":                   "WordPress",
	"jquery":                      "jQuery",
	"after-effects":               "After Effects",
	"after effects":               "After Effects",
	"indesign":                    "InDesign",
	"ms excel":                    "Excel",
	"sql server":                  "SQL Server",
	"data visualisation":          "Data Visualization",
	"dbt":                         "dbt",
	"git":                         "Git",
	"vue":                         "Vue.js",
}

var defaultBanned = []string{
	"associate", "currently", "present", "hons", "summary", "professional",
	"year", "years", "month", "months", "gmail.com", "linkedin", "www", "com",
	"university", "engineer", "developer", "manager", "company", "project", "projects",
	"design", "product", "system", "team", "skills", "experience", "education",
}

var defaultRoles = []string{
	"full stack developer", "full stack engineer", "frontend developer", "front end developer",
	"backend developer", "back end developer", "software engineer", "software developer",
	"web developer", "mobile developer", "data scientist", "data analyst", "data engineer",
	"machine learning engineer", "devops engineer", "site reliability engineer", "qa engineer",
	"product manager", "project manager", "business analyst", "ux designer", "ui designer",
	"product designer", "graphic designer", "marketing manager", "digital marketing specialist",
	"full stack", "data science", "digital marketing",
}

// DefaultLexicon returns the built-in vocabulary.
func DefaultLexicon() *Lexicon {
	return NewLexicon(LexiconOverrides{})
}

// NewLexicon builds the default vocabulary extended with overrides.
func NewLexicon(overrides LexiconOverrides) *Lexicon {
	l := &Lexicon{
		words:     make(map[string]struct{}),
		canonical: make(map[string]string),
		banned:    make(map[string]struct{}),
	}
	for _, w := range append(append([]string{}, defaultSkillWords...), overrides.Words...) {
		if w = normalizeTerm(w); w != "" {
			l.words[w] = struct{}{}
		}
	}

	seen := make(map[string]bool)
	for _, p := range append(append([]string{}, defaultSkillPhrases...), overrides.Phrases...) {
		if p = normalizeTerm(p); p != "" && !seen[p] {
			seen[p] = true
			l.phrases = append(l.phrases, p)
		}
	}

	for k, v := range defaultCanonical {
		l.canonical[k] = v
	}
	for k, v := range overrides.Canonical {
		if k = normalizeTerm(k); k != "" && strings.TrimSpace(v) != "" {
			l.canonical[k] = strings.TrimSpace(v)
		}
	}

	for _, b := range append(append([]string{}, defaultBanned...), overrides.Banned...) {
		if b = normalizeTerm(b); b != "" {
			l.banned[b] = struct{}{}
		}
	}

	roleSeen := make(map[string]bool)
	for _, r := range append(append([]string{}, defaultRoles...), overrides.Roles...) {
		if r = normalizeTerm(r); r != "" && !roleSeen[r] {
			roleSeen[r] = true
			l.roles = append(l.roles, r)
		}
	}
	return l
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsSkillWord reports whether a single lowercase token is a known skill.
func (l *Lexicon) IsSkillWord(token string) bool {
	_, ok := l.words[token]
	return ok
}

func (l *Lexicon) Phrases() []string {
	out := make([]string, len(l.phrases))
	copy(out, l.phrases)
	return out
}

func (l *Lexicon) Roles() []string {
	out := make([]string, len(l.roles))
	copy(out, l.roles)
	return out
}

// IsBanned reports whether a label is resume boilerplate rather than a skill.
func (l *Lexicon) IsBanned(label string) bool {
	_, ok := l.banned[normalizeTerm(label)]
	return ok
}

// Label maps a matched raw form to its display label.
func (l *Lexicon) Label(raw string) string {
	key := normalizeTerm(raw)
	if label, ok := l.canonical[key]; ok {
		return label
	}
	if len(key) <= 3 && !strings.ContainsAny(key, " .-") {
		return strings.ToUpper(key)
	}
	return cases.Title(language.English).String(strings.ReplaceAll(key, "-", " "))
}
