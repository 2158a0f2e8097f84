package conversation

// Mutation represents a deterministic structural change applied to a single
// node of a forest. Each variant rewrites the matched node's entry in its
// sibling list: it may replace the entry, drop it, or splice several entries
// into its slot.
type Mutation interface {
	// rewriteEntry returns the entries that take the matched node's place
	// among its siblings.
	rewriteEntry(target *Message) []*Message
	Name() string
}

type insertChildMutation struct {
	child *Message
}

func (m insertChildMutation) rewriteEntry(target *Message) []*Message {
	c := target.clone()
	c.Replies = append(append([]*Message{}, target.Replies...), m.child)
	return []*Message{c}
}

func (m insertChildMutation) Name() string { return "insert_child" }

// MutateInsertChild appends child as the last reply of the target node.
func MutateInsertChild(child *Message) Mutation {
	return insertChildMutation{child: child}
}

type removeSelfMutation struct {
	promoteChildren bool
}

func (m removeSelfMutation) rewriteEntry(target *Message) []*Message {
	if !m.promoteChildren {
		return nil
	}
	return target.Replies
}

func (m removeSelfMutation) Name() string { return "remove_self" }

// MutateRemoveSelf excises the target node. With promoteChildren the target's
// direct replies are spliced into its former slot, preserving their relative
// order; without it the whole subtree is removed.
func MutateRemoveSelf(promoteChildren bool) Mutation {
	return removeSelfMutation{promoteChildren: promoteChildren}
}

type replaceContentMutation struct {
	content string
}

func (m replaceContentMutation) rewriteEntry(target *Message) []*Message {
	c := target.clone()
	c.Content = m.content
	return []*Message{c}
}

func (m replaceContentMutation) Name() string { return "replace_content" }

// MutateReplaceContent replaces the target node's content.
func MutateReplaceContent(content string) Mutation {
	return replaceContentMutation{content: content}
}

type toggleCollapsedMutation struct{}

func (m toggleCollapsedMutation) rewriteEntry(target *Message) []*Message {
	c := target.clone()
	c.Collapsed = !target.Collapsed
	return []*Message{c}
}

func (m toggleCollapsedMutation) Name() string { return "toggle_collapsed" }

// MutateToggleCollapsed flips the target node's collapsed flag.
func MutateToggleCollapsed() Mutation {
	return toggleCollapsedMutation{}
}

// Rewrite locates the target by pre-order search and returns a new forest
// with the mutation applied to it. The path from the root to the target is
// structurally copied; unrelated siblings and subtrees are shared with the
// input. If the id is not part of the forest the input forest is returned
// unchanged; callers that need to observe failure must check existence
// first with Find.
func Rewrite(forest Forest, id NodeID, mutation Mutation) Forest {
	rewritten, _ := rewrite(forest, id, mutation)
	return rewritten
}

func rewrite(forest Forest, id NodeID, mutation Mutation) (Forest, bool) {
	for i, msg := range forest {
		if msg.ID == id {
			entries := mutation.rewriteEntry(msg)
			ret := make(Forest, 0, len(forest)-1+len(entries))
			ret = append(ret, forest[:i]...)
			ret = append(ret, entries...)
			ret = append(ret, forest[i+1:]...)
			return ret, true
		}

		if len(msg.Replies) == 0 {
			continue
		}
		replies, ok := rewrite(msg.Replies, id, mutation)
		if !ok {
			continue
		}
		c := msg.clone()
		c.Replies = replies
		ret := append(Forest{}, forest...)
		ret[i] = c
		return ret, true
	}

	return forest, false
}
