package rag

import (
	"context"
	"fmt"

	"github.com/Serhii-Leonenko/ragserver/internal/vectordb"
)

// TopK bounds for caller-supplied retrieval sizes.
const (
	MinTopK = 1
	MaxTopK = 20
)

// AnswerGenerator produces an Answer from an assembled prompt.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (*Answer, error)
}

// Service orchestrates one query: retrieval, context assembly, and grounded
// answer generation. It holds no cross-request state; concurrent queries are
// independent and may interleave arbitrarily.
type Service struct {
	store       vectordb.Store
	generator   AnswerGenerator
	defaultTopK int
}

// NewService creates the query orchestrator.
func NewService(store vectordb.Store, generator AnswerGenerator, defaultTopK int) *Service {
	return &Service{store: store, generator: generator, defaultTopK: defaultTopK}
}

// Query answers a free-text question from the indexed documents.
//
// Retrieval strictly precedes generation. When retrieval comes back empty the
// language model is never invoked: the cost of a generation call buys nothing
// without context, so a canned low-confidence answer is returned instead.
// Sources on the returned Answer are derived from the retrieval metadata, not
// from the model's self-report.
func (s *Service) Query(ctx context.Context, question string, topK int) (*Answer, error) {
	if topK < MinTopK || topK > MaxTopK {
		topK = s.defaultTopK
	}

	matches, err := s.store.Search(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}

	if len(matches) == 0 {
		return &Answer{
			Answer:     noDocumentsAnswer,
			Sources:    []Source{},
			Confidence: ConfidenceLow,
		}, nil
	}

	prompt := buildPrompt(formatContext(matches), question)

	ans, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation: %w", err)
	}

	ans.Sources = sourcesFromMatches(matches)
	return ans, nil
}

// sourcesFromMatches derives provenance deterministically from what was
// actually retrieved, in retrieval order.
func sourcesFromMatches(matches []vectordb.Match) []Source {
	sources := make([]Source, len(matches))
	for i, m := range matches {
		sources[i] = Source{
			Filename:   m.Metadata.Filename,
			ChunkIndex: m.Metadata.ChunkIndex,
		}
	}
	return sources
}
