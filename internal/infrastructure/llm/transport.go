package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 2048

// Request describes one JSON POST to a provider endpoint.
type Request struct {
	Provider  string
	Operation string
	URL       string
	Headers   map[string]string
	Payload   any
}

// PostJSON sends the payload and decodes a 2xx response into out. Non-2xx
// responses become *HTTPStatusError carrying a truncated body.
func PostJSON(ctx context.Context, client *http.Client, r Request, out any) error {
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", r.Operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", r.Operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request: %w", r.Provider, r.Operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPStatusError{
			Provider:   r.Provider,
			Operation:  r.Operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Operation, err)
	}
	return nil
}
