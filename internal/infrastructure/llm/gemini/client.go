// Package gemini generates feedback with the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm"
)

const (
	providerName = "gemini"
	DefaultModel = "gemini-2.5-flash"
)

var errEmptyResponse = errors.New("gemini api returned empty response")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models contentGenerator
	model  string
}

// New returns a client whose calls fail with llm.ErrMissingCredentials when
// apiKey is empty, so a misconfigured provider degrades instead of
// preventing startup. baseURL overrides the API endpoint when set.
func New(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &Client{model: model}, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{models: client.Models, model: model}, nil
}

func (c *Client) Name() string {
	return providerName + ":" + c.model
}

func (c *Client) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	if c.models == nil {
		return "", llm.ErrMissingCredentials
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	}
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errEmptyResponse
	}
	return out, nil
}
