package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteInsertChildAppendsAsLastReply(t *testing.T) {
	forest, nodes := buildTestForest()

	child := NewUserMessage("new child")
	rewritten := Rewrite(forest, nodes["A"].ID, MutateInsertChild(child))

	a := Find(rewritten, nodes["A"].ID)
	require.Len(t, a.Replies, 3)
	require.Equal(t, child.ID, a.Replies[2].ID)

	// input forest untouched
	require.Len(t, nodes["A"].Replies, 2)
}

func TestRewriteSharesUnrelatedSubtrees(t *testing.T) {
	forest, nodes := buildTestForest()

	rewritten := Rewrite(forest, nodes["B"].ID, MutateReplaceContent("B'"))

	// path A -> B is copied
	require.NotSame(t, forest[0], rewritten[0])
	require.Equal(t, "B'", Find(rewritten, nodes["B"].ID).Content)
	require.Equal(t, "B", nodes["B"].Content)

	// sibling C, B's subtree and the other root E are shared pointers
	require.Same(t, nodes["C"], rewritten[0].Replies[1])
	require.Same(t, nodes["D"], Find(rewritten, nodes["B"].ID).Replies[0])
	require.Same(t, nodes["E"], rewritten[1])
}

func TestRewriteRemoveSelfDropsSubtree(t *testing.T) {
	forest, nodes := buildTestForest()

	rewritten := Rewrite(forest, nodes["B"].ID, MutateRemoveSelf(false))

	require.Equal(t, CountNodes(forest)-2, CountNodes(rewritten))
	require.Nil(t, Find(rewritten, nodes["B"].ID))
	require.Nil(t, Find(rewritten, nodes["D"].ID))
	require.NotNil(t, Find(rewritten, nodes["C"].ID))
}

func TestRewriteRemoveSelfPromotesChildrenIntoSlot(t *testing.T) {
	// root with replies B, C; deleting the root promotes B and C to roots
	// in that order.
	b := NewAIMessage("Hi", "test-model")
	c := NewAIMessage("Hey", "test-model")
	a := NewUserMessage("Hello", WithReplies(b, c))
	forest := Forest{a}

	rewritten := Rewrite(forest, a.ID, MutateRemoveSelf(true))

	require.Len(t, rewritten, 2)
	require.Equal(t, b.ID, rewritten[0].ID)
	require.Equal(t, c.ID, rewritten[1].ID)
}

func TestRewriteRemoveSelfPromotionPreservesSlotAmongSiblings(t *testing.T) {
	x := NewUserMessage("X")
	c1 := NewUserMessage("child 1")
	c2 := NewUserMessage("child 2")
	mid := NewUserMessage("middle", WithReplies(c1, c2))
	y := NewUserMessage("Y")
	root := NewUserMessage("root", WithReplies(x, mid, y))

	rewritten := Rewrite(Forest{root}, mid.ID, MutateRemoveSelf(true))

	replies := rewritten[0].Replies
	require.Len(t, replies, 4)
	require.Equal(t, x.ID, replies[0].ID)
	require.Equal(t, c1.ID, replies[1].ID)
	require.Equal(t, c2.ID, replies[2].ID)
	require.Equal(t, y.ID, replies[3].ID)
}

func TestRewriteRemoveSelfReducesCountByExactlySubtreeSize(t *testing.T) {
	forest, nodes := buildTestForest()

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		msg := nodes[name]
		k := CountDescendants(msg)

		withSubtree := Rewrite(forest, msg.ID, MutateRemoveSelf(false))
		require.Equal(t, CountNodes(forest)-k-1, CountNodes(withSubtree), "subtree delete of %s", name)

		promoted := Rewrite(forest, msg.ID, MutateRemoveSelf(true))
		require.Equal(t, CountNodes(forest)-1, CountNodes(promoted), "promoting delete of %s", name)
	}
}

func TestRewriteToggleCollapsedIsIdempotentWhenAppliedTwice(t *testing.T) {
	forest, nodes := buildTestForest()

	once := Rewrite(forest, nodes["B"].ID, MutateToggleCollapsed())
	require.True(t, Find(once, nodes["B"].ID).Collapsed)

	twice := Rewrite(once, nodes["B"].ID, MutateToggleCollapsed())
	require.False(t, Find(twice, nodes["B"].ID).Collapsed)
	require.Equal(t, CountNodes(forest), CountNodes(twice))
}

func TestRewriteToggleCollapsedDoesNotTouchReplies(t *testing.T) {
	forest, nodes := buildTestForest()

	rewritten := Rewrite(forest, nodes["B"].ID, MutateToggleCollapsed())

	b := Find(rewritten, nodes["B"].ID)
	require.Len(t, b.Replies, 1)
	require.Same(t, nodes["D"], b.Replies[0])
}

func TestRewriteUnknownIDReturnsForestUnchanged(t *testing.T) {
	forest, _ := buildTestForest()

	rewritten := Rewrite(forest, NewNodeID(), MutateReplaceContent("nope"))

	require.Len(t, rewritten, len(forest))
	for i := range forest {
		require.Same(t, forest[i], rewritten[i])
	}
}

func TestMutationNames(t *testing.T) {
	require.Equal(t, "insert_child", MutateInsertChild(NewUserMessage("x")).Name())
	require.Equal(t, "remove_self", MutateRemoveSelf(true).Name())
	require.Equal(t, "replace_content", MutateReplaceContent("x").Name())
	require.Equal(t, "toggle_collapsed", MutateToggleCollapsed().Name())
}
