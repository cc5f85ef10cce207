package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/kirillkom/resume-analyzer/internal/infrastructure/llm"
)

type modelsFake struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *modelsFake) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestGenerateJoinsCandidateText(t *testing.T) {
	fake := &modelsFake{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: `{"suggestions":`}, {Text: " "}, nil}}},
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: `["Add metrics"]}`}}}},
		},
	}}
	client := &Client{models: fake, model: "gemini-test"}

	got, err := client.GenerateFromPrompt(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("GenerateFromPrompt() error = %v", err)
	}
	if got != "{\"suggestions\":\n[\"Add metrics\"]}" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if fake.model != "gemini-test" || fake.prompt != "prompt text" {
		t.Fatalf("unexpected call: %s %q", fake.model, fake.prompt)
	}
	if fake.config == nil || fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response config, got %+v", fake.config)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	client := &Client{models: &modelsFake{resp: &genai.GenerateContentResponse{}}, model: "m"}
	if _, err := client.GenerateFromPrompt(context.Background(), "x"); !errors.Is(err, errEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestGenerateAPIErrorIsClassified(t *testing.T) {
	client := &Client{models: &modelsFake{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}}, model: "m"}
	_, err := client.GenerateFromPrompt(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !llm.Classify(err).Retryable {
		t.Fatalf("expected 503 to be retryable: %v", err)
	}
}

func TestNewWithoutKeyDegrades(t *testing.T) {
	client, err := New(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.Name() != "gemini:"+DefaultModel {
		t.Fatalf("unexpected name %q", client.Name())
	}
	if _, err := client.GenerateFromPrompt(context.Background(), "x"); !errors.Is(err, llm.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials, got %v", err)
	}
}
