package models

// ChatMessage is a single message in the app-side conversation. The sequence
// is append-only within a session and ordered by Timestamp (epoch millis);
// it is never persisted beyond the session.
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsUser    bool   `json:"isUser"`
	Timestamp int64  `json:"timestamp"`
}

// ProviderMessage is the {role, content} shape sent to the model provider.
type ProviderMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat-assistant endpoint.
type ChatRequest struct {
	Message  string            `json:"message"`
	History  []ProviderMessage `json:"history"`
	Language string            `json:"language"`
}

// ChatResponse is the reply from the chat-assistant endpoint.
type ChatResponse struct {
	Reply string `json:"reply"`
}
