package openai

import (
	"testing"

	go_openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/arbor/pkg/inference"
)

func TestMakeCompletionRequestMapsRolesAndConfig(t *testing.T) {
	messages := []inference.Message{
		{Role: inference.RoleSystem, Content: "You are a helpful assistant."},
		{Role: inference.RoleUser, Content: "Hello"},
		{Role: inference.RoleAssistant, Content: "Hi"},
		{Role: inference.RoleUser, Content: "How are you?"},
	}
	cfg := inference.Config{
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   512,
	}

	req := makeCompletionRequest(messages, cfg)

	require.Equal(t, "gpt-4o-mini", req.Model)
	require.Equal(t, float32(0.7), req.Temperature)
	require.Equal(t, 512, req.MaxTokens)

	require.Len(t, req.Messages, 4)
	require.Equal(t, go_openai.ChatMessageRoleSystem, req.Messages[0].Role)
	require.Equal(t, go_openai.ChatMessageRoleUser, req.Messages[1].Role)
	require.Equal(t, go_openai.ChatMessageRoleAssistant, req.Messages[2].Role)
	require.Equal(t, "How are you?", req.Messages[3].Content)
}
