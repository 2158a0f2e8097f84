package threads

import (
	"github.com/google/uuid"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

// DefaultTitle is the placeholder a freshly created thread starts with. The
// UI puts the title into an editable state right away.
const DefaultTitle = "New Thread"

// Thread is a named container for one forest of messages plus session
// metadata. A thread exclusively owns its message tree.
type Thread struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Messages conversation.Forest `json:"messages"`
	Pinned   bool                `json:"isPinned"`
}

func NewThread() *Thread {
	return &Thread{
		ID:    uuid.NewString(),
		Title: DefaultTitle,
	}
}
