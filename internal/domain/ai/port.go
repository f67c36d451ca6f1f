package ai

import (
	"context"
	"time"
)

// Client performs exactly one chat completion per call. Implementations must
// not retry and must return ErrNotConfigured without network I/O when no
// credential is present.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Configured() bool
}

// CompletionRequest is a single chat-style request to the live provider.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Completion is the successful outcome of one call.
type Completion struct {
	Text       string
	Model      string
	TokensUsed *int
}
