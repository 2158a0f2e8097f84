package conversation

// Forest is the ordered sequence of root messages of one thread. A thread may
// have several independent roots.
//
// All functions in this file treat the forest as immutable: queries never
// modify it, and Rewrite (see mutations.go) returns a new forest instead of
// mutating in place. Search order is deterministic pre-order: roots in order,
// then each root's subtree depth-first, replies in order.
type Forest []*Message

// Find returns the message with the given id, or nil if it is not part of the
// forest.
func Find(forest Forest, id NodeID) *Message {
	for _, msg := range forest {
		if msg.ID == id {
			return msg
		}
		if found := Find(msg.Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// FindWithAncestors returns the root-to-target path including the target
// itself, or nil if the id is not part of the forest.
func FindWithAncestors(forest Forest, id NodeID) []*Message {
	return findPath(forest, id, nil)
}

func findPath(forest Forest, id NodeID, ancestors []*Message) []*Message {
	for _, msg := range forest {
		if msg.ID == id {
			return append(append([]*Message{}, ancestors...), msg)
		}
		if found := findPath(msg.Replies, id, append(ancestors, msg)); found != nil {
			return found
		}
	}
	return nil
}

// CountDescendants returns the total number of nodes in the subtree below the
// message, excluding the message itself. Collapsed-node summaries use this to
// show how many replies are hidden.
func CountDescendants(msg *Message) int {
	count := 0
	for _, reply := range msg.Replies {
		count += 1 + CountDescendants(reply)
	}
	return count
}

// CountNodes returns the total number of messages in the forest.
func CountNodes(forest Forest) int {
	count := 0
	for _, msg := range forest {
		count += 1 + CountDescendants(msg)
	}
	return count
}

// Siblings returns the sibling list the message with the given id belongs to:
// its parent's replies, or the forest's roots for a root message. The second
// return value is the message's position in that list, or -1 if the id is not
// part of the forest.
func Siblings(forest Forest, id NodeID) (Forest, int) {
	path := FindWithAncestors(forest, id)
	if path == nil {
		return nil, -1
	}

	siblings := forest
	if len(path) > 1 {
		siblings = path[len(path)-2].Replies
	}
	for i, msg := range siblings {
		if msg.ID == id {
			return siblings, i
		}
	}
	return nil, -1
}
