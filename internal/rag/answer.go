package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrGenerationContract indicates the language model produced output that
// does not satisfy the Answer schema.
var ErrGenerationContract = errors.New("generation contract violated")

// Confidence grades how well the retrieved context supported the answer.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Source is one provenance record: which chunk of which uploaded file
// contributed to the answer.
type Source struct {
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
}

// Answer is the structured response of one query. It is produced per call
// and never persisted.
type Answer struct {
	Answer     string     `json:"answer"`
	Sources    []Source   `json:"sources"`
	Confidence Confidence `json:"confidence,omitempty"`
}

// parseAnswer parses a model response into an Answer, tolerating markdown
// code fences around the JSON body.
func parseAnswer(raw string) (*Answer, error) {
	raw = strings.TrimSpace(raw)

	// Strip markdown code fences if present.
	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			start := 1
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			raw = strings.Join(lines[start:end], "\n")
		}
	}

	var ans Answer
	if err := json.Unmarshal([]byte(raw), &ans); err != nil {
		return nil, fmt.Errorf("%w: json parse: %w", ErrGenerationContract, err)
	}

	if strings.TrimSpace(ans.Answer) == "" {
		return nil, fmt.Errorf("%w: empty answer field", ErrGenerationContract)
	}
	switch ans.Confidence {
	case "", ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		return nil, fmt.Errorf("%w: invalid confidence %q", ErrGenerationContract, ans.Confidence)
	}

	if ans.Sources == nil {
		ans.Sources = []Source{}
	}
	return &ans, nil
}
