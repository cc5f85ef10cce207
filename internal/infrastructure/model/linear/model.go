// Package linear serves a regression model exported as JSON: an intercept
// plus weights for numeric columns, comma-separated token columns and
// categorical columns of the feature row.
package linear

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	ColumnSkills          = "Skills"
	ColumnEducation       = "Education"
	ColumnCertifications  = "Certifications"
	ColumnJobRole         = "Job Role"
	ColumnExperienceYears = "Experience (Years)"
	ColumnProjectsCount   = "Projects Count"
)

//go:embed model.schema.json
var modelSchema string

var errNonFinite = errors.New("prediction is not a finite number")

type Numeric struct {
	Weight float64  `json:"weight"`
	Mean   float64  `json:"mean,omitempty"`
	Scale  float64  `json:"scale,omitempty"`
	Cap    *float64 `json:"cap,omitempty"`
}

// Document is the on-disk model format.
type Document struct {
	Name             string                        `json:"name"`
	Version          string                        `json:"version,omitempty"`
	Intercept        float64                       `json:"intercept"`
	Numeric          map[string]Numeric            `json:"numeric,omitempty"`
	Tokens           map[string]map[string]float64 `json:"tokens,omitempty"`
	Categories       map[string]map[string]float64 `json:"categories,omitempty"`
	TokenCountWeight map[string]float64            `json:"tokenCountWeight,omitempty"`
}

type category struct {
	label  string
	weight float64
}

// Model is immutable after Load and safe for concurrent use.
type Model struct {
	name       string
	intercept  float64
	numeric    map[string]Numeric
	tokens     map[string]map[string]float64
	categories map[string][]category
	countW     map[string]float64
}

// Load reads and validates a model file.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Model, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(modelSchema))
	if err != nil {
		return nil, fmt.Errorf("compile model schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid model file: %s", strings.Join(msgs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}
	return New(doc), nil
}

// New builds a model from an in-memory document. Token and category keys
// are matched case-insensitively.
func New(doc Document) *Model {
	m := &Model{
		name:       doc.Name,
		intercept:  doc.Intercept,
		numeric:    make(map[string]Numeric, len(doc.Numeric)),
		tokens:     make(map[string]map[string]float64, len(doc.Tokens)),
		categories: make(map[string][]category, len(doc.Categories)),
		countW:     make(map[string]float64, len(doc.TokenCountWeight)),
	}
	if doc.Version != "" {
		m.name = doc.Name + "@" + doc.Version
	}
	for col, n := range doc.Numeric {
		if n.Scale == 0 {
			n.Scale = 1
		}
		m.numeric[col] = n
	}
	for col, weights := range doc.Tokens {
		lowered := make(map[string]float64, len(weights))
		for token, w := range weights {
			lowered[normalizeToken(token)] = w
		}
		m.tokens[col] = lowered
	}
	for col, weights := range doc.Categories {
		cats := make([]category, 0, len(weights))
		for label, w := range weights {
			cats = append(cats, category{label: normalizeToken(label), weight: w})
		}
		// Longest label first so "master of business" beats "master".
		sort.Slice(cats, func(i, j int) bool {
			if len(cats[i].label) != len(cats[j].label) {
				return len(cats[i].label) > len(cats[j].label)
			}
			return cats[i].label < cats[j].label
		})
		m.categories[col] = cats
	}
	for col, w := range doc.TokenCountWeight {
		m.countW[col] = w
	}
	return m
}

func (m *Model) Name() string {
	return m.name
}

// Predict returns the clipped score rounded to one decimal.
func (m *Model) Predict(row domain.FeatureRow) (float64, error) {
	y := m.intercept
	y += m.numericTerm(ColumnExperienceYears, row.ExperienceYears)
	y += m.numericTerm(ColumnProjectsCount, float64(row.ProjectsCount))
	y += m.tokenTerm(ColumnSkills, row.Skills)
	y += m.tokenTerm(ColumnCertifications, row.Certifications)
	y += m.categoryTerm(ColumnEducation, row.Education)
	y += m.categoryTerm(ColumnJobRole, row.JobRole)

	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, errNonFinite
	}
	y = math.Max(0, math.Min(100, y))
	return math.Round(y*10) / 10, nil
}

func (m *Model) numericTerm(col string, v float64) float64 {
	n, ok := m.numeric[col]
	if !ok {
		return 0
	}
	if n.Cap != nil && v > *n.Cap {
		v = *n.Cap
	}
	return n.Weight * (v - n.Mean) / n.Scale
}

func (m *Model) tokenTerm(col, joined string) float64 {
	weights := m.tokens[col]
	var sum float64
	count := 0
	seen := make(map[string]bool)
	for _, token := range strings.Split(joined, ",") {
		token = normalizeToken(token)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		count++
		sum += weights[token]
	}
	return sum + m.countW[col]*float64(count)
}

func (m *Model) categoryTerm(col, value string) float64 {
	value = " " + normalizeToken(value) + " "
	for _, c := range m.categories[col] {
		if strings.Contains(value, " "+c.label+" ") {
			return c.weight
		}
	}
	return 0
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
