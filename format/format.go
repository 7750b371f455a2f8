// Package format encodes derivation trees for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/chart/parse"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *parse.Node) error
}

// Names lists the formats accepted by NewEncoder.
var Names = []string{"json", "text", "line"}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "text":
		return NewTextEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}
