package domain

type DocumentKind string

const (
	KindPDF  DocumentKind = "pdf"
	KindDOCX DocumentKind = "docx"
	KindHTML DocumentKind = "html"
	KindText DocumentKind = "text"
)

// RawDocument is an uploaded resume as received from a boundary.
type RawDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

const (
	AttemptOK    = "ok"
	AttemptEmpty = "empty"
	AttemptError = "error"
)

// ExtractionAttempt records one rung of an extractor fallback ladder.
type ExtractionAttempt struct {
	Strategy string `json:"strategy"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

type ExtractionMeta struct {
	DetectedKind  DocumentKind        `json:"detectedKind"`
	DetectedBy    string              `json:"detectedBy,omitempty"`
	PageCount     int                 `json:"pageCount,omitempty"`
	Encoding      string              `json:"encoding,omitempty"`
	ExtractorUsed string              `json:"extractorUsed,omitempty"`
	Error         string              `json:"error,omitempty"`
	Attempts      []ExtractionAttempt `json:"attempts,omitempty"`
}

// Record appends an attempt and remembers the first successful strategy.
func (m *ExtractionMeta) Record(strategy, outcome string, err error) {
	attempt := ExtractionAttempt{Strategy: strategy, Outcome: outcome}
	if err != nil {
		attempt.Error = err.Error()
	}
	m.Attempts = append(m.Attempts, attempt)
	if outcome == AttemptOK && m.ExtractorUsed == "" {
		m.ExtractorUsed = strategy
	}
}

// ExtractedFields holds structured values pulled out of resume text.
// Numeric fields default to zero and lists to empty so scoring stays total.
type ExtractedFields struct {
	Skills                 []string `json:"skills"`
	ExperienceYears        float64  `json:"experienceYears"`
	Education              string   `json:"education,omitempty"`
	EducationLevel         int      `json:"educationLevel"`
	Certifications         []string `json:"certifications"`
	ProjectsCount          int      `json:"projectsCount"`
	ProjectsListed         bool     `json:"projectsListed"`
	JobRole                string   `json:"jobRole,omitempty"`
	Email                  string   `json:"email,omitempty"`
	Phone                  string   `json:"phone,omitempty"`
	Links                  []string `json:"links"`
	QuantifiedAchievements int      `json:"quantifiedAchievements"`
	WordCount              int      `json:"wordCount"`
	Readability            float64  `json:"readability"`
}

// FieldTrace explains a strategy miss or a recovered failure for a field.
type FieldTrace struct {
	Field    string `json:"field"`
	Strategy string `json:"strategy"`
	Note     string `json:"note"`
}

// FeatureRow is the fixed-column input of the regression model.
type FeatureRow struct {
	Skills          string  `json:"Skills"`
	Education       string  `json:"Education"`
	Certifications  string  `json:"Certifications"`
	JobRole         string  `json:"Job Role"`
	ExperienceYears float64 `json:"Experience (Years)"`
	ProjectsCount   int     `json:"Projects Count"`
}

type MLSource string

const (
	MLSourceModel       MLSource = "model"
	MLSourceUnavailable MLSource = "unavailable"
	MLSourceError       MLSource = "error"
)

// Score values are always within [0,100].
type Score struct {
	Structure float64  `json:"structure"`
	ML        float64  `json:"ml"`
	Final     float64  `json:"final"`
	MLSource  MLSource `json:"mlSource"`
}

const (
	FeedbackSourceRules = "rules"
	FeedbackSourceLLM   = "llm"
)

type Feedback struct {
	Items          []string `json:"items"`
	Source         string   `json:"source"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
}

// FeedbackInput is everything a feedback provider may look at.
type FeedbackInput struct {
	Fields   ExtractedFields
	Coverage Coverage
	Score    Score
	JobRole  string
}
