package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
)

const DefaultTimeout = 20 * time.Second

const suggestionsSchema = `{
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 3, "maxLength": 400}
    }
  }
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(suggestionsSchema))
})

var (
	errEmptyReply = errors.New("provider returned no suggestions")
	errNoJSON     = errors.New("no json object in reply")

	bulletPattern = regexp.MustCompile(`^(?:[-*•·]+|\d{1,2}[.)])\s*`)
)

// Generator is safe for concurrent use. It holds no lock across the
// provider call.
type Generator struct {
	provider ports.LLMProvider
	timeout  time.Duration
	maxItems int
	logger   *slog.Logger
}

type Option func(*Generator)

func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithMaxItems(n int) Option {
	return func(g *Generator) {
		g.maxItems = ClampItems(n)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator accepts a nil provider; LLM requests then fall back to rules.
func NewGenerator(provider ports.LLMProvider, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		timeout:  DefaultTimeout,
		maxItems: DefaultMaxItems,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

func (g *Generator) Generate(ctx context.Context, in domain.FeedbackInput, useLLM bool) domain.Feedback {
	rules := domain.Feedback{Items: Rules(in, g.maxItems), Source: domain.FeedbackSourceRules}
	if !useLLM {
		return rules
	}
	if g.provider == nil {
		rules.FallbackReason = "no feedback provider configured"
		return rules
	}

	items, err := g.generateLLM(ctx, in)
	if err != nil {
		g.logger.Warn("feedback_fallback", "provider", g.provider.Name(), "error", err)
		rules.FallbackReason = err.Error()
		return rules
	}
	return domain.Feedback{Items: items, Source: domain.FeedbackSourceLLM}
}

func (g *Generator) generateLLM(ctx context.Context, in domain.FeedbackInput) (items []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("feedback provider panic: %v", r)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.provider.GenerateFromPrompt(callCtx, BuildPrompt(in, g.maxItems))
	if err != nil {
		return nil, fmt.Errorf("feedback provider %s: %w", g.provider.Name(), err)
	}
	items, err = ParseSuggestions(raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errEmptyReply
	}
	if len(items) > g.maxItems {
		items = items[:g.maxItems]
	}
	return items, nil
}

// ParseSuggestions accepts a {"suggestions": [...]} object, optionally
// wrapped in prose or code fences. A reply without any JSON object is read
// as one item per non-blank line with list markers removed.
func ParseSuggestions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	items, err := parseJSONSuggestions(raw)
	if !errors.Is(err, errNoJSON) {
		return items, err
	}

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
		if len(line) < 3 || strings.HasSuffix(line, ":") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func parseJSONSuggestions(raw string) ([]string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoJSON
	}
	doc := raw[start : end+1]

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load suggestions schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate suggestions: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("suggestions do not match schema: %s", strings.Join(msgs, "; "))
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	out := make([]string, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
