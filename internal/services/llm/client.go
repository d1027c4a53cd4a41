package llm

import (
	"context"
)

// CompletionRequest is a single-turn prompt sent as one user message.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client interface for chat-completion providers
type Client interface {
	// Complete returns the content of the first choice, unmodified
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
