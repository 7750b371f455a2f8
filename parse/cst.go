package parse

import (
	"strings"
)

// Node is a node of a derivation tree. Leaf nodes carry a matched token;
// interior nodes are labelled with a non-terminal.
type Node struct {
	Label    string
	Children []*Node // nil for terminals
	Leaf     bool
}

// IsTerminal returns true if this is a leaf node (token).
func (n *Node) IsTerminal() bool {
	return n.Leaf
}

// Text returns the token for terminals and the space separated tokens of
// the yield for non-terminals.
func (n *Node) Text() string {
	if n.Leaf {
		return n.Label
	}
	return strings.Join(n.Yield(), " ")
}

// Yield returns the leaves of the subtree from left to right.
func (n *Node) Yield() []string {
	var out []string
	n.Walk(func(m *Node) bool {
		if m.Leaf {
			out = append(out, m.Label)
		}
		return true
	})
	return out
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Equal compares two trees structurally.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Label != o.Label || n.Leaf != o.Leaf || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the tree as an s-expression, e.g. (S (A) b).
func (n *Node) String() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	if n.Leaf {
		b.WriteString(n.Label)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Label)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.writeTo(b)
	}
	b.WriteByte(')')
}

// NewTerminal creates a leaf node for a matched token.
func NewTerminal(tok string) *Node {
	return &Node{Label: tok, Leaf: true}
}

// NewNonTerminal creates a non-terminal node.
func NewNonTerminal(label string) *Node {
	return &Node{
		Label:    label,
		Children: make([]*Node, 0),
	}
}
