package llm

import "context"

// Provider is the completion backend the answer generator talks to. The
// server configures exactly one, an OpenAI-compatible endpoint selected by
// base URL, but the interface keeps the generator and its tests independent
// of any concrete client.
type Provider interface {
	// Complete runs one chat completion. Blocking; honors ctx cancellation.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name identifies the backend in logs.
	Name() string
}
