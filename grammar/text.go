package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Arrow separates the left-hand side from the alternatives in rules text.
const Arrow = "->"

// IsEmptyMarker reports whether tok spells an empty production.
func IsEmptyMarker(tok string) bool {
	switch tok {
	case "ε", `""`, "''":
		return true
	}
	return false
}

// ParseRules reads rules text of the form
//
//	LHS -> RHS1 | RHS2 | ...
//
// with space separated symbols. Lines without an arrow are ignored.
func ParseRules(text string) ([]Production, error) {
	return ParseRulesReader("", strings.NewReader(text))
}

// ParseRulesReader is ParseRules over a reader; name is used in errors.
func ParseRulesReader(name string, r io.Reader) ([]Production, error) {
	var prods []Production
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, &SyntaxError{File: name, Line: lineNo, Msg: err.Error()}
		}
		if !ok {
			continue
		}
		prods = append(prods, line...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	if len(prods) == 0 {
		return nil, ErrEmptyGrammar
	}
	return prods, nil
}

// ParseLine reads a single line of rules text. ok is false for lines that
// carry no rule.
func ParseLine(line string) (prods []Production, ok bool, err error) {
	idx := strings.Index(line, Arrow)
	if idx < 0 {
		return nil, false, nil
	}
	lhs := strings.Fields(line[:idx])
	switch {
	case len(lhs) == 0:
		return nil, false, fmt.Errorf("missing left-hand side before %q", Arrow)
	case len(lhs) > 1:
		return nil, false, fmt.Errorf("left-hand side %q must be a single symbol", strings.Join(lhs, " "))
	}
	for _, alt := range strings.Split(line[idx+len(Arrow):], "|") {
		fields := strings.Fields(alt)
		if len(fields) == 1 && IsEmptyMarker(fields[0]) {
			fields = nil
		}
		rhs := make([]Symbol, len(fields))
		for i, f := range fields {
			rhs[i] = Symbol(f)
		}
		prods = append(prods, Production{LHS: Symbol(lhs[0]), RHS: rhs})
	}
	return prods, true, nil
}
