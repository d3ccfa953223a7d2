package pdf

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyExtraction indicates a document yielded no indexable text.
var ErrEmptyExtraction = errors.New("no text could be extracted from the PDF")

// sentenceBoundary marks a split point: sentence-terminal punctuation followed
// by whitespace and an uppercase letter. This is a heuristic, not a full
// sentence tokenizer: abbreviations like "Mr. Smith" under-split, and text
// without capitalization cues over-merges.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+[A-Z]`)

// SplitSentences splits extracted document text into sentence-like units.
// Each unit is trimmed; units that trim to nothing are dropped. Output order
// equals input order and the result is deterministic for a given input.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// The boundary pattern is punct + whitespace + one ASCII uppercase
		// letter: the punctuation stays with the preceding sentence and the
		// letter starts the next one.
		sentences = appendTrimmed(sentences, text[start:loc[0]+1])
		start = loc[1] - 1
	}
	return appendTrimmed(sentences, text[start:])
}

func appendTrimmed(sentences []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
