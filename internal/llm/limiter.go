package llm

import "context"

// ConcurrencyLimitedProvider wraps a Provider with an upper bound on
// simultaneously in-flight completion calls. Excess calls wait for a free
// slot or for their context to be cancelled.
type ConcurrencyLimitedProvider struct {
	provider Provider
	slots    chan struct{}
}

// NewConcurrencyLimitedProvider wraps the given provider, allowing at most
// maxInFlight concurrent Complete calls.
func NewConcurrencyLimitedProvider(provider Provider, maxInFlight int) Provider {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &ConcurrencyLimitedProvider{
		provider: provider,
		slots:    make(chan struct{}, maxInFlight),
	}
}

func (c *ConcurrencyLimitedProvider) Name() string {
	return c.provider.Name()
}

func (c *ConcurrencyLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.slots }()

	return c.provider.Complete(ctx, req)
}
