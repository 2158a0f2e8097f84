package conversation

import (
	"encoding/json"

	"github.com/google/uuid"
)

type NodeID uuid.UUID

func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id))
}

func (id *NodeID) UnmarshalJSON(data []byte) error {
	var uuid uuid.UUID
	if err := json.Unmarshal(data, &uuid); err != nil {
		return err
	}
	*id = NodeID(uuid)
	return nil
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NullNode, err
	}
	return NodeID(u), nil
}

var NullNode NodeID = NodeID(uuid.Nil)

type Publisher string

const (
	PublisherUser Publisher = "user"
	PublisherAI   Publisher = "ai"
)

// Message is a single node in a conversation tree. Replies are ordered by
// insertion, which is also the display order. A message belongs to exactly
// one parent (or is a thread root); subtrees are never shared.
//
// Collapsed is a display flag only. It does not affect the reachability of
// the replies, only whether collapse-aware consumers render them.
type Message struct {
	ID        NodeID    `json:"id"`
	Content   string    `json:"content"`
	Publisher Publisher `json:"publisher"`
	// ModelName is set only for PublisherAI and names the model variant
	// that produced the content.
	ModelName string     `json:"modelName,omitempty"`
	Replies   []*Message `json:"replies"`
	Collapsed bool       `json:"isCollapsed"`
}

type MessageOption func(*Message)

func WithID(id NodeID) MessageOption {
	return func(message *Message) {
		message.ID = id
	}
}

func WithModelName(modelName string) MessageOption {
	return func(message *Message) {
		message.ModelName = modelName
	}
}

func WithReplies(replies ...*Message) MessageOption {
	return func(message *Message) {
		message.Replies = replies
	}
}

func WithCollapsed(collapsed bool) MessageOption {
	return func(message *Message) {
		message.Collapsed = collapsed
	}
}

func NewMessage(publisher Publisher, content string, options ...MessageOption) *Message {
	ret := &Message{
		ID:        NewNodeID(),
		Content:   content,
		Publisher: publisher,
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

func NewUserMessage(content string, options ...MessageOption) *Message {
	return NewMessage(PublisherUser, content, options...)
}

func NewAIMessage(content string, modelName string, options ...MessageOption) *Message {
	options = append([]MessageOption{WithModelName(modelName)}, options...)
	return NewMessage(PublisherAI, content, options...)
}

// clone returns a shallow copy of the message. Rewrite uses it to copy the
// path from a root to a mutated node while sharing untouched subtrees.
func (m *Message) clone() *Message {
	c := *m
	return &c
}
