package format

import (
	"io"

	"github.com/dhamidi/chart/parse"
)

// LineEncoder writes a tree as a single s-expression line.
type LineEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *parse.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return []byte("()\n"), nil
	}
	return []byte(e.node.String() + "\n"), nil
}
