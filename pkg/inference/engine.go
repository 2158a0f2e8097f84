package inference

import (
	"context"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role/content entry of a completion prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Config carries the per-request generation parameters.
type Config struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// Engine is the completion interface: one ordered prompt list in, one
// response string out, or an error. Transport details (endpoint, payload
// shape, retries) are the implementation's concern.
type Engine interface {
	Complete(ctx context.Context, messages []Message, cfg Config) (string, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, messages []Message, cfg Config) (string, error)

func (f EngineFunc) Complete(ctx context.Context, messages []Message, cfg Config) (string, error) {
	return f(ctx, messages, cfg)
}
