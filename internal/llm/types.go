package llm

// Role tags who produced a chat message. Queries send a system message
// carrying the grounding instructions and a user message carrying the
// assembled context plus question.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes one completion call. JSONMode constrains the
// model to emit a JSON object, which the structured-answer parser relies on.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the model's reply plus usage accounting.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
