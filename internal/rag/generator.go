package rag

import (
	"context"
	"fmt"

	"github.com/Serhii-Leonenko/ragserver/internal/llm"
)

// Generator produces schema-validated answers from a question plus assembled
// context, using an LLM provider in JSON mode. Wrap the provider with
// llm.NewConcurrencyLimitedProvider to bound overlapping in-flight requests.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator driving the given provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Generate runs the prompt through the model and parses the structured
// Answer. Output that cannot be parsed into the Answer shape fails with
// ErrGenerationContract rather than returning malformed data.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Answer, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   2048,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	return parseAnswer(resp.Content)
}
