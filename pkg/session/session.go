package session

import (
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/threads"
)

// Session holds the per-UI-session selection state: the single selected
// message, the single message being edited together with its draft, and the
// current thread. It only ever stores identifiers, never message values, so
// a deleted message simply invalidates the selection on the next
// revalidation instead of keeping a stale node alive.
//
// Reads go through the store's snapshot accessor, so the session never holds
// a tree that a concurrent mutation could swap out from under it.
//
// Commands that require a thread or a selection are ignored when there is
// none.
type Session struct {
	store *threads.Store

	selectedID conversation.NodeID
	editingID  conversation.NodeID
	draft      string
}

func New(store *threads.Store) *Session {
	return &Session{
		store:      store,
		selectedID: conversation.NullNode,
		editingID:  conversation.NullNode,
	}
}

func (s *Session) Store() *threads.Store {
	return s.store
}

func (s *Session) SelectedID() conversation.NodeID {
	return s.selectedID
}

// forest returns the current thread's id and tree snapshot.
func (s *Session) forest() (string, conversation.Forest, bool) {
	threadID := s.store.CurrentID()
	if threadID == "" {
		return "", nil, false
	}
	forest, ok := s.store.Messages(threadID)
	return threadID, forest, ok
}

// Selected resolves the selected id against the current tree. Consumers must
// use this instead of holding on to message pointers across mutations.
func (s *Session) Selected() (*conversation.Message, bool) {
	_, forest, ok := s.forest()
	if !ok || s.selectedID == conversation.NullNode {
		return nil, false
	}
	msg := conversation.Find(forest, s.selectedID)
	return msg, msg != nil
}

func (s *Session) IsEditing() bool {
	return s.editingID != conversation.NullNode
}

func (s *Session) EditingID() conversation.NodeID {
	return s.editingID
}

func (s *Session) Draft() string {
	return s.draft
}

func (s *Session) SetDraft(draft string) {
	s.draft = draft
}

// Select moves the selection to the given message. Selecting never collapses
// a node, but selecting a collapsed one expands it so its subtree is visible
// again.
func (s *Session) Select(id conversation.NodeID) {
	threadID, forest, ok := s.forest()
	if !ok {
		return
	}
	msg := conversation.Find(forest, id)
	if msg == nil {
		return
	}

	s.selectedID = id
	if msg.Collapsed {
		s.store.ToggleCollapse(threadID, id)
	}
}

func (s *Session) ClearSelection() {
	s.selectedID = conversation.NullNode
}

// NewThread creates a thread, makes it current and resets the selection.
func (s *Session) NewThread() *threads.Thread {
	t := s.store.CreateThread()
	s.reset()
	return t
}

// SwitchThread changes the current thread. Selection state always points
// into the current thread's tree, so it is reset.
func (s *Session) SwitchThread(id string) {
	if id == s.store.CurrentID() {
		return
	}
	s.store.SetCurrent(id)
	s.reset()
}

// DeleteThread removes a thread. If the session's state pointed into it, the
// state is reset; the store reassigns the current thread.
func (s *Session) DeleteThread(id string) {
	wasCurrent := id == s.store.CurrentID()
	s.store.DeleteThread(id)
	if wasCurrent {
		s.reset()
	}
}

func (s *Session) reset() {
	s.selectedID = conversation.NullNode
	s.editingID = conversation.NullNode
	s.draft = ""
}

// MoveToParent moves the selection to the selected node's parent. No-op at a
// root.
func (s *Session) MoveToParent() {
	_, forest, ok := s.forest()
	if !ok || s.selectedID == conversation.NullNode {
		return
	}
	path := conversation.FindWithAncestors(forest, s.selectedID)
	if len(path) < 2 {
		return
	}
	s.selectedID = path[len(path)-2].ID
}

// MoveToFirstChild moves the selection to the selected node's first reply.
// No-op on a leaf.
func (s *Session) MoveToFirstChild() {
	msg, ok := s.Selected()
	if !ok || len(msg.Replies) == 0 {
		return
	}
	s.selectedID = msg.Replies[0].ID
}

// MoveToPrevSibling moves the selection to the sibling before the selected
// node. Roots are siblings of each other. No-op at the first position.
func (s *Session) MoveToPrevSibling() {
	s.moveSibling(-1)
}

// MoveToNextSibling moves the selection to the sibling after the selected
// node. No-op at the last position.
func (s *Session) MoveToNextSibling() {
	s.moveSibling(1)
}

func (s *Session) moveSibling(offset int) {
	_, forest, ok := s.forest()
	if !ok || s.selectedID == conversation.NullNode {
		return
	}
	siblings, idx := conversation.Siblings(forest, s.selectedID)
	if idx < 0 {
		return
	}
	next := idx + offset
	if next < 0 || next >= len(siblings) {
		return
	}
	s.selectedID = siblings[next].ID
}

// Reply creates an empty user message as a new child of the selected node
// (or as a new root when nothing is selected), selects it and immediately
// enters editing on it. Replying to a collapsed node expands it first so the
// new message is visible.
func (s *Session) Reply() (conversation.NodeID, bool) {
	threadID, forest, ok := s.forest()
	if !ok {
		return conversation.NullNode, false
	}

	parentID := s.selectedID
	if parentID != conversation.NullNode {
		parent := conversation.Find(forest, parentID)
		if parent == nil {
			return conversation.NullNode, false
		}
		if parent.Collapsed {
			s.store.ToggleCollapse(threadID, parentID)
		}
	}

	id, ok := s.store.AddMessage(threadID, parentID, "", conversation.PublisherUser)
	if !ok {
		return conversation.NullNode, false
	}

	s.selectedID = id
	s.editingID = id
	s.draft = ""
	log.Debug().Str("message_id", id.String()).Msg("reply started")
	return id, true
}

// BeginEdit enters editing on the selected node, seeding the draft with its
// current content. The draft lives in the session until committed.
func (s *Session) BeginEdit() {
	msg, ok := s.Selected()
	if !ok {
		return
	}
	s.editingID = msg.ID
	s.draft = msg.Content
}

// CommitEdit stores the draft as the edited message's content. The store
// deletes the message instead when the draft is empty or whitespace-only.
func (s *Session) CommitEdit() {
	threadID, _, ok := s.forest()
	if !ok || s.editingID == conversation.NullNode {
		return
	}
	s.store.CommitEdit(threadID, s.editingID, s.draft)
	s.editingID = conversation.NullNode
	s.draft = ""
	s.Revalidate()
}

// CancelEdit abandons the edit, discarding the draft. A message whose
// persisted content is empty is deleted outright.
func (s *Session) CancelEdit() {
	threadID, _, ok := s.forest()
	if !ok || s.editingID == conversation.NullNode {
		return
	}
	s.store.CancelEdit(threadID, s.editingID)
	s.editingID = conversation.NullNode
	s.draft = ""
	s.Revalidate()
}

// Delete removes the selected message, with or without its subtree.
func (s *Session) Delete(deleteChildren bool) {
	threadID, _, ok := s.forest()
	if !ok || s.selectedID == conversation.NullNode {
		return
	}
	s.store.DeleteMessage(threadID, s.selectedID, deleteChildren)
	s.Revalidate()
}

// Revalidate re-resolves the selection and editing ids against the current
// tree and clears whatever no longer exists. Must be called after every tree
// change since a previously selected id may have been deleted or promoted.
func (s *Session) Revalidate() {
	_, forest, ok := s.forest()
	if !ok {
		s.reset()
		return
	}
	if s.selectedID != conversation.NullNode && conversation.Find(forest, s.selectedID) == nil {
		s.selectedID = conversation.NullNode
	}
	if s.editingID != conversation.NullNode && conversation.Find(forest, s.editingID) == nil {
		s.editingID = conversation.NullNode
		s.draft = ""
	}
}
