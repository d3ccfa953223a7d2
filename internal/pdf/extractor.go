package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction indicates the source document could not be read as a PDF.
var ErrExtraction = errors.New("PDF extraction failed")

// Result holds the chunks produced from one uploaded document. Sentence order
// follows the order of appearance in the source text and is preserved as the
// chunk index when the document is stored.
type Result struct {
	Filename  string
	Sentences []string
}

// Processor extracts text from PDF files and splits it into sentences.
type Processor struct{}

// NewProcessor creates a PDF processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ExtractText returns the text content of the PDF at path, pages concatenated
// with newline separators.
func (p *Processor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", ErrExtraction, path, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: page %d of %s: %w", ErrExtraction, i, path, err)
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// Process extracts text from the PDF at path and chunks it into sentences.
// Returns ErrEmptyExtraction when the document has no extractable text, so
// callers never index zero chunks.
func (p *Processor) Process(path, filename string) (*Result, error) {
	text, err := p.ExtractText(path)
	if err != nil {
		return nil, err
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyExtraction)
	}

	return &Result{Filename: filename, Sentences: sentences}, nil
}
