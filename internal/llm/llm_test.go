package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	Delay    time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	cur := m.inFlight.Add(1)
	for {
		max := m.maxInFlight.Load()
		if cur <= max || m.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	defer m.inFlight.Add(-1)

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockProvider) MaxInFlight() int32 { return m.maxInFlight.Load() }

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestConcurrencyLimitBoundsInFlightCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.Delay = 20 * time.Millisecond

	limited := NewConcurrencyLimitedProvider(mock, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := limited.Complete(ctx, CompletionRequest{}); err != nil {
				t.Errorf("Complete: %v", err)
			}
		}()
	}
	wg.Wait()

	if mock.CallCount() != 8 {
		t.Errorf("expected all 8 calls to complete, got %d", mock.CallCount())
	}
	if max := mock.MaxInFlight(); max > 2 {
		t.Errorf("observed %d concurrent calls, limit is 2", max)
	}
}

func TestConcurrencyLimitHonorsCancellation(t *testing.T) {
	mock := NewMockProvider()
	mock.Delay = time.Second

	limited := NewConcurrencyLimitedProvider(mock, 1)

	// Occupy the only slot.
	started := make(chan struct{})
	go func() {
		close(started)
		limited.Complete(context.Background(), CompletionRequest{})
	}()
	<-started
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := limited.Complete(ctx, CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded while waiting for a slot, got %v", err)
	}
}

func TestConcurrencyLimitPassesProviderError(t *testing.T) {
	mock := NewMockProvider()
	mock.Err = errors.New("upstream boom")

	limited := NewConcurrencyLimitedProvider(mock, 2)
	if _, err := limited.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Error("expected provider error to propagate")
	}
	if limited.Name() != "mock" {
		t.Errorf("Name = %q", limited.Name())
	}
}
