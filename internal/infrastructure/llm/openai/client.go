// Package openai talks to any OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm"
)

const (
	providerName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"

	systemPrompt = "You are an expert resume reviewer. Reply with a single JSON object and nothing else."
)

var errNoChoices = errors.New("openai returned no choices")

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return providerName + ":" + c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// GenerateFromPrompt fails fast with llm.ErrMissingCredentials when no API
// key is configured.
func (c *Client) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", llm.ErrMissingCredentials
	}

	var response chatResponse
	err := llm.PostJSON(ctx, c.httpClient, llm.Request{
		Provider:  providerName,
		Operation: "chat_completion",
		URL:       c.baseURL + "/chat/completions",
		Headers:   map[string]string{"Authorization": "Bearer " + c.apiKey},
		Payload: map[string]any{
			"model": c.model,
			"messages": []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			"temperature":     0.2,
			"response_format": map[string]string{"type": "json_object"},
		},
	}, &response)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errNoChoices
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
