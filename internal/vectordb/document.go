package vectordb

import (
	"fmt"
	"strconv"
)

// ProcessedDocument is the chunked output of one uploaded source document.
// Sentence order is meaningful and becomes the chunk index.
type ProcessedDocument struct {
	Filename  string
	Sentences []string
}

// ChunkMetadata identifies where a stored chunk came from. The pair
// (Filename, ChunkIndex) is the chunk's identity across the whole index.
type ChunkMetadata struct {
	Filename   string
	ChunkIndex int
}

// ChunkID forms the globally unique chunk id "{filename}-{index}".
func (m ChunkMetadata) ChunkID() string {
	return fmt.Sprintf("%s-%d", m.Filename, m.ChunkIndex)
}

// Match is one similarity-search hit; results are ordered best match first.
type Match struct {
	Text       string
	Metadata   ChunkMetadata
	Similarity float32
}

// metadataToMap converts ChunkMetadata to a flat map[string]string for chromem.
func metadataToMap(m ChunkMetadata) map[string]string {
	return map[string]string{
		"filename":    m.Filename,
		"chunk_index": strconv.Itoa(m.ChunkIndex),
	}
}

// mapToMetadata converts a flat map[string]string back to ChunkMetadata.
func mapToMetadata(m map[string]string) ChunkMetadata {
	idx, _ := strconv.Atoi(m["chunk_index"])
	return ChunkMetadata{
		Filename:   m["filename"],
		ChunkIndex: idx,
	}
}
