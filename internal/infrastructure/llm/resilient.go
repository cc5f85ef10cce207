package llm

import (
	"context"

	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/resilience"
)

// ResilientProvider runs every generation through the executor: bounded
// retries, a per-attempt timeout and one circuit breaker per provider.
type ResilientProvider struct {
	next     ports.LLMProvider
	executor *resilience.Executor
}

func NewResilientProvider(next ports.LLMProvider, executor *resilience.Executor) *ResilientProvider {
	return &ResilientProvider{next: next, executor: executor}
}

func (p *ResilientProvider) Name() string {
	return p.next.Name()
}

func (p *ResilientProvider) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	op := "llm_generate_" + p.next.Name()
	var out string
	err := p.executor.Execute(ctx, op, func(callCtx context.Context) error {
		text, err := p.next.GenerateFromPrompt(callCtx, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	}, Classify)
	if err != nil {
		return "", WrapTemporaryIfNeeded(op, err)
	}
	return out, nil
}
