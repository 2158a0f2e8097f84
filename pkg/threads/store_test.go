package threads

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/models"
)

func newTestStore() *Store {
	return NewStore(models.NewRegistry())
}

func TestCreateThreadBecomesCurrent(t *testing.T) {
	s := newTestStore()

	thread := s.CreateThread()
	require.Equal(t, DefaultTitle, thread.Title)
	require.False(t, thread.Pinned)
	require.Empty(t, thread.Messages)

	current, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, thread.ID, current.ID)
}

func TestRenameThreadTrimsAndAllowsTransientEmpty(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()

	s.RenameThread(thread.ID, "")
	require.Equal(t, "", thread.Title)

	s.RenameThread(thread.ID, "  Research  ")
	require.Equal(t, "Research", thread.Title)
}

func TestThreadsListsPinnedFirstInInsertionOrder(t *testing.T) {
	s := newTestStore()
	t1 := s.CreateThread()
	t2 := s.CreateThread()
	t3 := s.CreateThread()

	s.TogglePin(t3.ID)

	listed := s.Threads()
	require.Len(t, listed, 3)
	require.Equal(t, t3.ID, listed[0].ID)
	require.Equal(t, t1.ID, listed[1].ID)
	require.Equal(t, t2.ID, listed[2].ID)

	s.TogglePin(t3.ID)
	listed = s.Threads()
	require.Equal(t, []string{t1.ID, t2.ID, t3.ID},
		[]string{listed[0].ID, listed[1].ID, listed[2].ID})
}

func TestDeleteCurrentThreadReassignsToFirstRemaining(t *testing.T) {
	s := newTestStore()
	t1 := s.CreateThread()
	t2 := s.CreateThread()
	s.SetCurrent(t2.ID)

	s.DeleteThread(t2.ID)
	require.Equal(t, t1.ID, s.CurrentID())

	s.DeleteThread(t1.ID)
	_, ok := s.Current()
	require.False(t, ok)
}

func TestDeleteOtherThreadKeepsCurrent(t *testing.T) {
	s := newTestStore()
	t1 := s.CreateThread()
	t2 := s.CreateThread()
	require.Equal(t, t2.ID, s.CurrentID())

	s.DeleteThread(t1.ID)
	require.Equal(t, t2.ID, s.CurrentID())
}

func TestAddMessageAppendsRootAndChild(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()

	rootID, ok := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)
	require.True(t, ok)

	childID, ok := s.AddMessage(thread.ID, rootID, "Hi", conversation.PublisherAI)
	require.True(t, ok)

	secondID, ok := s.AddMessage(thread.ID, rootID, "Hey", conversation.PublisherAI)
	require.True(t, ok)

	root := conversation.Find(thread.Messages, rootID)
	require.NotNil(t, root)
	require.Equal(t, "Hello", root.Content)
	require.Equal(t, conversation.PublisherUser, root.Publisher)
	require.Empty(t, root.ModelName)

	require.Len(t, root.Replies, 2)
	require.Equal(t, childID, root.Replies[0].ID)
	require.Equal(t, secondID, root.Replies[1].ID)
	require.Equal(t, "Default Model", root.Replies[0].ModelName)
}

func TestAddMessageWithUnknownParentIsNoOp(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()

	_, ok := s.AddMessage(thread.ID, conversation.NewNodeID(), "orphan", conversation.PublisherUser)
	require.False(t, ok)
	require.Empty(t, thread.Messages)
}

func TestAddMessageToUnknownThreadIsNoOp(t *testing.T) {
	s := newTestStore()

	_, ok := s.AddMessage("missing", conversation.NullNode, "x", conversation.PublisherUser)
	require.False(t, ok)
}

func TestDeleteMessageKeepChildrenPromotesIntoFormerSlot(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()

	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)
	bID, _ := s.AddMessage(thread.ID, rootID, "Hi", conversation.PublisherAI)
	cID, _ := s.AddMessage(thread.ID, rootID, "Hey", conversation.PublisherAI)

	s.DeleteMessage(thread.ID, rootID, false)

	require.Len(t, thread.Messages, 2)
	require.Equal(t, bID, thread.Messages[0].ID)
	require.Equal(t, cID, thread.Messages[1].ID)
}

func TestDeleteMessageWithChildrenRemovesSubtree(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()

	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)
	s.AddMessage(thread.ID, rootID, "Hi", conversation.PublisherAI)
	otherID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Other", conversation.PublisherUser)

	s.DeleteMessage(thread.ID, rootID, true)

	require.Len(t, thread.Messages, 1)
	require.Equal(t, otherID, thread.Messages[0].ID)
}

func TestToggleCollapseTwiceRestoresState(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)

	s.ToggleCollapse(thread.ID, rootID)
	require.True(t, conversation.Find(thread.Messages, rootID).Collapsed)

	s.ToggleCollapse(thread.ID, rootID)
	require.False(t, conversation.Find(thread.Messages, rootID).Collapsed)
	require.Equal(t, 1, conversation.CountNodes(thread.Messages))
}

func TestCommitEditReplacesContent(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "draft", conversation.PublisherUser)

	s.CommitEdit(thread.ID, rootID, "final")
	require.Equal(t, "final", conversation.Find(thread.Messages, rootID).Content)
}

func TestCommitEditWithWhitespaceDraftDeletesNodeOnly(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)
	childID, _ := s.AddMessage(thread.ID, rootID, "kept", conversation.PublisherAI)

	s.CommitEdit(thread.ID, rootID, "   \n\t")

	require.Nil(t, conversation.Find(thread.Messages, rootID))
	require.NotNil(t, conversation.Find(thread.Messages, childID))
	require.Len(t, thread.Messages, 1)
}

func TestCancelEditDeletesMessageWithEmptyPersistedContent(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	emptyID, _ := s.AddMessage(thread.ID, conversation.NullNode, "", conversation.PublisherUser)

	s.CancelEdit(thread.ID, emptyID)
	require.Nil(t, conversation.Find(thread.Messages, emptyID))
}

func TestCancelEditKeepsMessageWithPersistedContent(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	rootID, _ := s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)

	s.CancelEdit(thread.ID, rootID)
	require.NotNil(t, conversation.Find(thread.Messages, rootID))
}

func TestMutationsOnUnknownMessageAreNoOps(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	s.AddMessage(thread.ID, conversation.NullNode, "Hello", conversation.PublisherUser)

	missing := conversation.NewNodeID()
	s.ToggleCollapse(thread.ID, missing)
	s.DeleteMessage(thread.ID, missing, true)
	s.CommitEdit(thread.ID, missing, "nope")
	s.CancelEdit(thread.ID, missing)

	require.Equal(t, 1, conversation.CountNodes(thread.Messages))
}

func TestMessagesReturnsStableSnapshot(t *testing.T) {
	s := newTestStore()
	thread := s.CreateThread()
	root, _ := s.AddMessage(thread.ID, conversation.NullNode, "root", conversation.PublisherUser)

	snapshot, ok := s.Messages(thread.ID)
	require.True(t, ok)
	require.Equal(t, 1, conversation.CountNodes(snapshot))

	s.AddMessage(thread.ID, root, "child", conversation.PublisherUser)
	s.CommitEdit(thread.ID, root, "root, revised")

	// the snapshot is untouched by later mutations
	require.Equal(t, 1, conversation.CountNodes(snapshot))
	require.Equal(t, "root", snapshot[0].Content)

	current, ok := s.Messages(thread.ID)
	require.True(t, ok)
	require.Equal(t, 2, conversation.CountNodes(current))
	require.Equal(t, "root, revised", current[0].Content)
}

func TestMessagesForUnknownThread(t *testing.T) {
	s := newTestStore()

	_, ok := s.Messages("nope")
	require.False(t, ok)
}

func TestDeleteCurrentThreadReassignsInListingOrder(t *testing.T) {
	s := newTestStore()
	s.CreateThread()
	t2 := s.CreateThread()
	t3 := s.CreateThread()
	s.TogglePin(t2.ID)
	s.SetCurrent(t3.ID)

	// t2 is pinned and therefore first in listing order
	s.DeleteThread(t3.ID)
	require.Equal(t, t2.ID, s.CurrentID())
}
