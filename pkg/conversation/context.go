package conversation

// BuildContext returns the ordered chain of ancestors of the target message,
// root first and exclusive of the target itself. It is the basis for prompt
// construction: the caller prepends the system prompt, maps each ancestor to
// its chat role and appends the target message last.
//
// A root message has no ancestors, so BuildContext returns an empty chain for
// it. An unknown id also yields an empty chain.
func BuildContext(forest Forest, id NodeID) []*Message {
	path := FindWithAncestors(forest, id)
	if len(path) == 0 {
		return nil
	}
	return path[:len(path)-1]
}
