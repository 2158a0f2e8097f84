package openai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/arbor/pkg/inference"
)

// Engine implements the completion interface on top of the OpenAI chat
// completion API.
type Engine struct {
	client *go_openai.Client
}

type Option func(*go_openai.ClientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *go_openai.ClientConfig) {
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}
}

func NewEngine(apiKey string, options ...Option) *Engine {
	cfg := go_openai.DefaultConfig(apiKey)
	for _, option := range options {
		option(&cfg)
	}

	return &Engine{
		client: go_openai.NewClientWithConfig(cfg),
	}
}

var _ inference.Engine = (*Engine)(nil)

func (e *Engine) Complete(ctx context.Context, messages []inference.Message, cfg inference.Config) (string, error) {
	req := makeCompletionRequest(messages, cfg)

	log.Debug().
		Str("model", cfg.Model).
		Int("num_messages", len(messages)).
		Int("max_tokens", cfg.MaxTokens).
		Msg("sending chat completion request")

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
