package vectordb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/Serhii-Leonenko/ragserver/internal/embeddings"
)

// ChromemStore implements Store using chromem-go with on-disk persistence.
type ChromemStore struct {
	db          *chromem.DB
	name        string
	embedFunc   chromem.EmbeddingFunc
	defaultTopK int

	// mu guards collection and files. Reset swaps the collection pointer,
	// so every collection access goes through the lock; writes that shrink
	// the collection (delete, reset) take the write lock so a search never
	// observes the index shrinking mid-flight.
	mu         sync.RWMutex
	collection *chromem.Collection
	files      map[string]struct{}
}

// NewChromemStore opens (or creates) a persistent collection under persistDir.
// chromem does not enumerate stored documents, so the filename set for a
// pre-existing index must be restored via SeedFilenames after opening.
func NewChromemStore(persistDir, collection string, embedder embeddings.Embedder, defaultTopK int) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(persistDir, true)
	if err != nil {
		return nil, fmt.Errorf("opening vector db at %s: %w", persistDir, err)
	}

	ef := embeddings.ToChromemFunc(embedder)
	col, err := db.GetOrCreateCollection(collection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", collection, err)
	}

	return &ChromemStore{
		db:          db,
		collection:  col,
		name:        collection,
		embedFunc:   ef,
		defaultTopK: defaultTopK,
		files:       make(map[string]struct{}),
	}, nil
}

// SeedFilenames registers filenames already present in the persisted index.
func (s *ChromemStore) SeedFilenames(filenames []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range filenames {
		s.files[f] = struct{}{}
	}
}

func (s *ChromemStore) AddDocument(ctx context.Context, doc ProcessedDocument) error {
	if len(doc.Sentences) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(doc.Sentences))
	for i, sentence := range doc.Sentences {
		meta := ChunkMetadata{Filename: doc.Filename, ChunkIndex: i}
		chromDocs[i] = chromem.Document{
			ID:       meta.ChunkID(),
			Content:  sentence,
			Metadata: metadataToMap(meta),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.collection.AddDocuments(ctx, chromDocs, 1); err != nil {
		return fmt.Errorf("%w: adding %d chunks for %s: %w", ErrIndexWrite, len(chromDocs), doc.Filename, err)
	}

	s.files[doc.Filename] = struct{}{}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	// chromem-go requires nResults <= collection size, so the clamp and the
	// query must see the same collection state.
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrIndexRead, err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Text:       r.Content,
			Metadata:   mapToMetadata(r.Metadata),
			Similarity: r.Similarity,
		}
	}
	return matches, nil
}

func (s *ChromemStore) DeleteByFilename(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.files[filename]; !known {
		return nil
	}

	where := map[string]string{"filename": filename}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("%w: deleting chunks for %s: %w", ErrIndexWrite, filename, err)
	}

	delete(s.files, filename)
	return nil
}

func (s *ChromemStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Count()
}

func (s *ChromemStore) Filenames() []string {
	s.mu.RLock()
	filenames := make([]string, 0, len(s.files))
	for f := range s.files {
		filenames = append(filenames, f)
	}
	s.mu.RUnlock()

	sort.Strings(filenames)
	return filenames
}

func (s *ChromemStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("%w: deleting collection %s: %w", ErrIndexWrite, s.name, err)
	}

	col, err := s.db.GetOrCreateCollection(s.name, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("%w: recreating collection %s: %w", ErrIndexWrite, s.name, err)
	}
	s.collection = col
	s.files = make(map[string]struct{})
	return nil
}
