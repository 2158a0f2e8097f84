package threads

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/models"
)

// Store owns the collection of threads and the current-thread selection. All
// operations are synchronous and total: referencing an unknown thread id
// leaves the state unchanged, and referencing an unknown message id inside a
// valid thread is a no-op for mutations and an absent result for queries.
//
// Structural changes go through conversation.Rewrite, so a thread's tree is
// replaced wholesale on every mutation and a forest obtained from Messages is
// an immutable snapshot. A mutex guards the thread collection and the forest
// headers; the generation orchestrator mutates the store from its own
// goroutine while the UI reads snapshots, so consumers must go through
// Messages instead of holding on to a Thread's Messages field.
//
// Thread listing order: pinned threads first, then insertion order within
// each pin group.
type Store struct {
	mu        sync.RWMutex
	threads   []*Thread
	currentID string

	registry  *models.Registry
	publisher *events.PublisherManager
}

type StoreOption func(*Store)

// WithPublisherManager makes the store publish a thread-updated event after
// every successful mutation.
func WithPublisherManager(publisher *events.PublisherManager) StoreOption {
	return func(s *Store) {
		s.publisher = publisher
	}
}

func NewStore(registry *models.Registry, options ...StoreOption) *Store {
	ret := &Store{
		registry: registry,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Store) publish(threadID string, operation string) {
	log.Debug().Str("thread_id", threadID).Str("operation", operation).Msg("thread updated")
	if s.publisher != nil {
		s.publisher.PublishBlind(events.NewThreadUpdatedEvent(threadID, operation))
	}
}

// find looks up a thread by id. Callers must hold the mutex.
func (s *Store) find(id string) *Thread {
	for _, t := range s.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// CreateThread allocates a new thread with the placeholder title and makes it
// the current thread.
func (s *Store) CreateThread() *Thread {
	t := NewThread()

	s.mu.Lock()
	s.threads = append(s.threads, t)
	s.currentID = t.ID
	s.mu.Unlock()

	s.publish(t.ID, "create_thread")
	return t
}

// Thread returns the thread with the given id.
func (s *Store) Thread(id string) (*Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.find(id)
	return t, t != nil
}

// Messages returns the thread's current forest as an immutable snapshot. The
// snapshot stays valid while the store keeps mutating: rewrites replace the
// forest instead of modifying nodes in place.
func (s *Store) Messages(threadID string) (conversation.Forest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.find(threadID)
	if t == nil {
		return nil, false
	}
	return t.Messages, true
}

// Threads returns all threads in listing order: pinned first, insertion
// order within the same pin state.
func (s *Store) Threads() []*Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]*Thread, 0, len(s.threads))
	for _, t := range s.threads {
		if t.Pinned {
			ret = append(ret, t)
		}
	}
	for _, t := range s.threads {
		if !t.Pinned {
			ret = append(ret, t)
		}
	}
	return ret
}

// Current returns the current thread, if any.
func (s *Store) Current() (*Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return nil, false
	}
	t := s.find(s.currentID)
	return t, t != nil
}

func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// SetCurrent switches the current thread. Unknown ids are ignored.
func (s *Store) SetCurrent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) != nil {
		s.currentID = id
	}
}

// RenameThread replaces the thread's title, trimming surrounding whitespace.
// An empty title is kept as-is; it only exists transiently while the user is
// typing a new one.
func (s *Store) RenameThread(id string, newTitle string) {
	s.mu.Lock()
	t := s.find(id)
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.Title = strings.TrimSpace(newTitle)
	s.mu.Unlock()

	s.publish(id, "rename_thread")
}

func (s *Store) TogglePin(id string) {
	s.mu.Lock()
	t := s.find(id)
	if t == nil {
		s.mu.Unlock()
		return
	}
	t.Pinned = !t.Pinned
	s.mu.Unlock()

	s.publish(id, "toggle_pin")
}

// DeleteThread removes the thread. If it was the current thread, the first
// thread in listing order becomes current, or none if no threads remain.
func (s *Store) DeleteThread(id string) {
	s.mu.Lock()
	deleted := false
	for i, t := range s.threads {
		if t.ID != id {
			continue
		}
		s.threads = append(s.threads[:i], s.threads[i+1:]...)
		deleted = true
		break
	}
	if deleted && s.currentID == id {
		s.currentID = ""
		if len(s.threads) > 0 {
			next := s.threads[0]
			for _, t := range s.threads {
				if t.Pinned {
					next = t
					break
				}
			}
			s.currentID = next.ID
		}
	}
	s.mu.Unlock()

	if deleted {
		s.publish(id, "delete_thread")
	}
}

// AddMessage appends a new message as the last root of the thread when
// parentID is NullNode, or as the last reply of the parent message. An
// unknown parent id is a silent no-op, mirroring the rewrite contract.
//
// PublisherAI messages are stamped with the currently selected model's name.
// The returned id identifies the new message; the second return value is
// false when nothing was added.
func (s *Store) AddMessage(
	threadID string,
	parentID conversation.NodeID,
	content string,
	publisher conversation.Publisher,
	options ...conversation.MessageOption,
) (conversation.NodeID, bool) {
	if publisher == conversation.PublisherAI {
		options = append([]conversation.MessageOption{
			conversation.WithModelName(s.registry.Selected().Name),
		}, options...)
	}
	msg := conversation.NewMessage(publisher, content, options...)

	s.mu.Lock()
	t := s.find(threadID)
	if t == nil {
		s.mu.Unlock()
		return conversation.NullNode, false
	}

	if parentID == conversation.NullNode {
		t.Messages = append(append(conversation.Forest{}, t.Messages...), msg)
	} else {
		if conversation.Find(t.Messages, parentID) == nil {
			s.mu.Unlock()
			return conversation.NullNode, false
		}
		t.Messages = conversation.Rewrite(t.Messages, parentID, conversation.MutateInsertChild(msg))
	}
	s.mu.Unlock()

	log.Debug().
		Str("thread_id", threadID).
		Str("message_id", msg.ID.String()).
		Str("parent_id", parentID.String()).
		Str("publisher", string(publisher)).
		Msg("message added")
	s.publish(threadID, "add_message")

	return msg.ID, true
}

// ToggleCollapse flips the message's collapsed flag. Children are untouched.
func (s *Store) ToggleCollapse(threadID string, messageID conversation.NodeID) {
	s.applyMutation(threadID, messageID, conversation.MutateToggleCollapsed())
}

// DeleteMessage removes the message. With deleteChildren the whole subtree
// goes; without it the message's replies are promoted into its former slot.
func (s *Store) DeleteMessage(threadID string, messageID conversation.NodeID, deleteChildren bool) {
	s.applyMutation(threadID, messageID, conversation.MutateRemoveSelf(!deleteChildren))
}

// CommitEdit stores the draft as the message's new content. A draft that is
// empty or whitespace-only deletes the message instead (promoting its
// children); saving empty content is never allowed.
func (s *Store) CommitEdit(threadID string, messageID conversation.NodeID, draft string) {
	if strings.TrimSpace(draft) == "" {
		s.DeleteMessage(threadID, messageID, false)
		return
	}
	s.applyMutation(threadID, messageID, conversation.MutateReplaceContent(draft))
}

// CancelEdit abandons an edit. A message whose persisted content is empty was
// created solely to be composed in the editor, so abandoning it deletes it.
func (s *Store) CancelEdit(threadID string, messageID conversation.NodeID) {
	mutation := conversation.MutateRemoveSelf(true)

	s.mu.Lock()
	t := s.find(threadID)
	if t == nil {
		s.mu.Unlock()
		return
	}
	msg := conversation.Find(t.Messages, messageID)
	if msg == nil || msg.Content != "" {
		s.mu.Unlock()
		return
	}
	t.Messages = conversation.Rewrite(t.Messages, messageID, mutation)
	s.mu.Unlock()

	s.logMutation(threadID, messageID, mutation.Name())
}

func (s *Store) applyMutation(threadID string, messageID conversation.NodeID, mutation conversation.Mutation) {
	s.mu.Lock()
	t := s.find(threadID)
	if t == nil || conversation.Find(t.Messages, messageID) == nil {
		s.mu.Unlock()
		return
	}
	t.Messages = conversation.Rewrite(t.Messages, messageID, mutation)
	s.mu.Unlock()

	s.logMutation(threadID, messageID, mutation.Name())
}

func (s *Store) logMutation(threadID string, messageID conversation.NodeID, name string) {
	log.Debug().
		Str("thread_id", threadID).
		Str("message_id", messageID.String()).
		Str("mutation", name).
		Msg("message mutated")
	s.publish(threadID, name)
}
