package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for chat completion providers.
// Implementations wrap cloud APIs (Gemini, Claude).
type LLMService interface {
	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context including
	// the system prompt, user messages, and previous assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ModelName returns the identifier of the underlying model
	ModelName() string

	// HealthCheck verifies the provider is configured and reachable
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations
	Close() error
}
