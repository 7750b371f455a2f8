package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/chart/grammar"
	"github.com/dhamidi/chart/parse"
)

// errNoParse signals a rejected input that has already been reported.
var errNoParse = errors.New("no parse")

// loadGrammar reads the grammar file and resolves the start symbol, which
// defaults to the left-hand side of the first rule.
func loadGrammar(path, start string) (*grammar.Grammar, grammar.Symbol, error) {
	if path == "" {
		return nil, "", errors.New("no grammar file given (use --grammar)")
	}
	g, err := grammar.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load grammar: %w", err)
	}
	sym := grammar.Symbol(start)
	if sym == "" {
		sym = g.DefaultStart()
	}
	if sym == "" {
		return nil, "", grammar.ErrNoStart
	}
	return g, sym, nil
}

// readTokens uses the arguments as tokens, or tokenizes r when there are none.
func readTokens(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return parse.Tokenize(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return parse.Tokenize(string(data)), nil
}

// describeRejection explains where a rejected chart got stuck.
func describeRejection(c *parse.Chart) string {
	k := c.Furthest()
	tokens := c.Tokens()
	var b strings.Builder
	if k < len(tokens) {
		fmt.Fprintf(&b, "no parse: unexpected %q at position %d", tokens[k], k)
	} else {
		fmt.Fprintf(&b, "no parse: unexpected end of input at position %d", k)
	}
	if expected := c.Expected(k); len(expected) > 0 {
		names := make([]string, len(expected))
		for i, sym := range expected {
			names[i] = fmt.Sprintf("%q", sym)
		}
		fmt.Fprintf(&b, ", expected one of %s", strings.Join(names, ", "))
	}
	return b.String()
}
