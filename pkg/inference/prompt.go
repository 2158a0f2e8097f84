package inference

import (
	"github.com/go-go-golems/arbor/pkg/conversation"
)

// roleForPublisher maps a message's publisher to its chat role.
func roleForPublisher(p conversation.Publisher) Role {
	if p == conversation.PublisherAI {
		return RoleAssistant
	}
	return RoleUser
}

// BuildPrompt assembles the ordered prompt for a completion call: system
// prompt first (when non-empty), then the ancestor chain mapped to chat
// roles, then the prompting message itself last. For a root message the
// chain is empty and only the system prompt and the target are sent.
func BuildPrompt(systemPrompt string, chain []*conversation.Message, target *conversation.Message) []Message {
	ret := make([]Message, 0, len(chain)+2)
	if systemPrompt != "" {
		ret = append(ret, Message{Role: RoleSystem, Content: systemPrompt})
	}
	for _, msg := range chain {
		ret = append(ret, Message{Role: roleForPublisher(msg.Publisher), Content: msg.Content})
	}
	ret = append(ret, Message{Role: roleForPublisher(target.Publisher), Content: target.Content})
	return ret
}
