package oracle

import (
	"context"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a completion conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes a single completion call to a provider.
type CompletionRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// CompletionResponse is the provider's answer to a CompletionRequest.
type CompletionResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
}

// Provider abstracts the reasoning backend used for clarification,
// planning, follow-up decisions, and summaries. Implementations must be
// safe for concurrent use.
type Provider interface {
	// Name returns the provider name (e.g., "google", "scripted")
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks the health status of the provider and its connectivity
	Health(ctx context.Context) types.HealthStatus
}
