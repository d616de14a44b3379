package chat

// Roles follow the message structure common to LLM chat APIs.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single message sent to or received from the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the LLM's reply to a chat completion request.
type Response struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}
