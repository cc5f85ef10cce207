package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm"
)

const providerName = "ollama"

// Client generates feedback with a local Ollama model. Replies are
// requested in JSON mode.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return providerName + ":" + c.model
}

func (c *Client) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	err := llm.PostJSON(ctx, c.httpClient, llm.Request{
		Provider:  providerName,
		Operation: "generate",
		URL:       c.baseURL + "/api/generate",
		Payload: map[string]any{
			"model":  c.model,
			"prompt": prompt,
			"stream": false,
			"format": "json",
			"options": map[string]any{
				"temperature": 0.2,
			},
		},
	}, &response)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
