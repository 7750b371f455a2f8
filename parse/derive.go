package parse

// Derive reconstructs one derivation tree from an accepting chart. ok is
// false when the chart has no accepting item.
//
// Where an item was reached in more than one way, the first recorded edge
// wins. Edge order is discovery order, so the result is deterministic for a
// given grammar and input, but it is not chosen by any other criterion.
func Derive(c *Chart) (node *Node, ok bool) {
	ref, ok := c.AcceptingItem()
	if !ok {
		return nil, false
	}
	return c.Render(ref), true
}

// Render builds the subtree for the item at ref.
func (c *Chart) Render(ref ItemRef) *Node {
	item := c.Item(ref)
	node := NewNonTerminal(string(item.Rule.LHS))

	// Walk back to dot 0, collecting children right to left.
	var rev []*Node
	cur := item
	for cur.Dot > 0 {
		if len(cur.Edges) == 0 {
			panic(&InvariantError{Ref: ref, Msg: "item past dot 0 has no edges"})
		}
		e := cur.Edges[0]
		if e.Scanned {
			rev = append(rev, NewTerminal(string(e.Terminal)))
		} else {
			rev = append(rev, c.Render(e.Child))
		}
		pred := c.Item(e.Pred)
		if pred.Rule != cur.Rule || pred.Dot != cur.Dot-1 {
			panic(&InvariantError{Ref: e.Pred, Msg: "predecessor does not precede " + cur.String()})
		}
		cur = pred
	}
	for i := len(rev) - 1; i >= 0; i-- {
		node.AddChild(rev[i])
	}
	return node
}
