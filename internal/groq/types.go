package groq

// Message roles used in chat completion requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message in a completion exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI-compatible completion request Groq accepts.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// ChatResponse is the subset of the completion response this tool reads.
// Raw preserves the undecoded body so callers can fall back to it when
// the response does not carry the expected shape.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Raw     []byte   `json:"-"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// FirstContent extracts the first choice's text content, reporting
// whether the response actually carried one.
func (r ChatResponse) FirstContent() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Message.Content == "" {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}
