package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGrammar is returned when grammar text contains no rules.
	ErrEmptyGrammar = errors.New("grammar has no rules")
	// ErrNoStart is returned when a parse is requested without a start symbol.
	ErrNoStart = errors.New("start symbol is empty")
)

// SyntaxError reports a malformed line in grammar text.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
