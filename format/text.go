package format

import (
	"io"
	"strings"

	"github.com/dhamidi/chart/parse"
)

// TextEncoder draws a tree with box characters, one node per line.
type TextEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.node != nil {
		sb.WriteString(label(e.node))
		sb.WriteByte('\n')
		writeChildren(&sb, e.node, "")
	}
	return []byte(sb.String()), nil
}

func writeChildren(sb *strings.Builder, n *parse.Node, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(label(c))
		sb.WriteByte('\n')
		writeChildren(sb, c, prefix+indent)
	}
}

func label(n *parse.Node) string {
	switch {
	case n.IsTerminal():
		return "\"" + n.Label + "\""
	case len(n.Children) == 0:
		return n.Label + " ε"
	default:
		return n.Label
	}
}
