package domain

import "time"

type AnalysisStatus string

const (
	StatusUploaded   AnalysisStatus = "uploaded"
	StatusProcessing AnalysisStatus = "processing"
	StatusReady      AnalysisStatus = "ready"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is the persisted record of an asynchronously scored resume.
type Analysis struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	MimeType    string          `json:"mime_type"`
	StoragePath string          `json:"storage_path"`
	JobRole     string          `json:"job_role,omitempty"`
	UseLLM      bool            `json:"use_llm"`
	Status      AnalysisStatus  `json:"status"`
	Error       string          `json:"error,omitempty"`
	Result      *AnalysisResult `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AnalyzeRequest carries one resume through the synchronous pipeline.
type AnalyzeRequest struct {
	Document RawDocument
	JobRole  string
	UseLLM   bool
}

// UploadRequest describes a resume accepted for asynchronous analysis.
type UploadRequest struct {
	Filename string
	MimeType string
	JobRole  string
	UseLLM   bool
}

// AnalysisResult is the response shape consumed by UI clients.
type AnalysisResult struct {
	FinalScore      float64         `json:"finalScore"`
	MLScore         float64         `json:"mlScore"`
	StructureScore  float64         `json:"structureScore"`
	ExtractedFields ExtractedFields `json:"extractedFields"`
	SectionCoverage Coverage        `json:"sectionCoverage"`
	FeatureRow      FeatureRow      `json:"featureRow"`
	Feedback        []string        `json:"feedback"`
	FeedbackSource  string          `json:"feedbackSource"`
	Diagnostics     Diagnostics     `json:"diagnostics"`
}

// Diagnostics makes every swallowed fallback in the pipeline observable.
type Diagnostics struct {
	Extraction       ExtractionMeta `json:"extraction"`
	TextLength       int            `json:"textLength"`
	Sections         []SectionKey   `json:"sections"`
	Unsectioned      bool           `json:"unsectioned"`
	ModelStatus      MLSource       `json:"modelStatus"`
	ModelError       string         `json:"modelError,omitempty"`
	FeedbackFallback string         `json:"feedbackFallback,omitempty"`
	FieldTraces      []FieldTrace   `json:"fieldTraces,omitempty"`
}
