package openai

import (
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/arbor/pkg/inference"
)

func toOpenAIRole(role inference.Role) string {
	switch role {
	case inference.RoleSystem:
		return go_openai.ChatMessageRoleSystem
	case inference.RoleAssistant:
		return go_openai.ChatMessageRoleAssistant
	case inference.RoleUser:
		return go_openai.ChatMessageRoleUser
	}
	return go_openai.ChatMessageRoleUser
}

func makeCompletionRequest(messages []inference.Message, cfg inference.Config) go_openai.ChatCompletionRequest {
	msgs := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:    toOpenAIRole(msg.Role),
			Content: msg.Content,
		})
	}

	return go_openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    msgs,
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	}
}
