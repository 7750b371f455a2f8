package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/chart/parse"
)

type JSONEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(JSONValue(e.node), "", "  ")
}

type jsonLeaf struct {
	Label string `json:"label"`
}

type jsonTree struct {
	Label    string `json:"label"`
	Children []any  `json:"children"`
}

// JSONValue converts a tree to the value a renderer consumes: leaves become
// {"label"} and interior nodes {"label", "children"}, with an empty
// children array for empty productions. A nil tree becomes null.
func JSONValue(n *parse.Node) any {
	if n == nil {
		return nil
	}
	if n.IsTerminal() {
		return jsonLeaf{Label: n.Label}
	}
	jt := jsonTree{Label: n.Label, Children: make([]any, 0, len(n.Children))}
	for _, c := range n.Children {
		jt.Children = append(jt.Children, JSONValue(c))
	}
	return jt
}
