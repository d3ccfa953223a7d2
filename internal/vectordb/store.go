package vectordb

import (
	"context"
	"errors"
)

// Sentinel errors for external index failures. Callers match with errors.Is
// and map them to boundary-layer statuses.
var (
	ErrIndexWrite = errors.New("vector index write")
	ErrIndexRead  = errors.New("vector index read")
)

// Store defines the interface to a vector-search capability. How embeddings
// are computed and how the index is structured is the backend's business.
type Store interface {
	// AddDocument stores one chunk per sentence of doc, in order, with
	// chunk_index equal to the sentence position.
	AddDocument(ctx context.Context, doc ProcessedDocument) error

	// Search returns the topK most relevant chunks for the query, best match
	// first. topK <= 0 selects the configured default. An empty index yields
	// an empty result, not an error.
	Search(ctx context.Context, query string, topK int) ([]Match, error)

	// DeleteByFilename removes every chunk whose metadata filename matches.
	// A filename with no stored chunks is a no-op.
	DeleteByFilename(ctx context.Context, filename string) error

	// Count returns the total chunk count across all filenames.
	Count() int

	// Filenames returns the distinct filenames across all stored chunks,
	// lexicographically ordered.
	Filenames() []string

	// Reset irreversibly discards all stored chunks and recreates an empty
	// index under the same configured identity.
	Reset(ctx context.Context) error
}
