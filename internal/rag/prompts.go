package rag

import (
	"fmt"
	"strings"

	"github.com/Serhii-Leonenko/ragserver/internal/vectordb"
)

const systemPrompt = `You are a helpful AI assistant that answers questions based on the provided context.

Your task is to:
1. Carefully read and understand the context provided from the documents
2. Answer the user's question based ONLY on the information in the context
3. If the context doesn't contain enough information to answer the question, clearly state that
4. Be concise but comprehensive in your answers
5. Cite specific parts of the context when relevant
6. If you're uncertain, express that uncertainty

Respond with a JSON object of the shape {"answer": string, "sources": [{"filename": string, "chunk_index": number}], "confidence": "low"|"medium"|"high"}.

Remember: Only use information from the provided context. Do not use external knowledge.`

const noDocumentsAnswer = "I don't have any documents to answer your question. Please upload some PDF documents first."

// formatContext renders retrieved chunks into labeled context blocks, one per
// match with its 1-based rank, source filename and chunk index, joined with
// blank-line separation. Match order (best first) is preserved.
func formatContext(matches []vectordb.Match) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("[Document %d - Source: %s, Chunk: %d]\n%s\n",
			i+1, m.Metadata.Filename, m.Metadata.ChunkIndex, m.Text)
	}
	return strings.Join(parts, "\n")
}

// buildPrompt embeds the assembled context and the original question.
func buildPrompt(context, question string) string {
	return fmt.Sprintf(`Context from documents:
%s

Question: %s

Please provide a detailed answer based on the context above.`, context, question)
}
