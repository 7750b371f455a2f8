package grammar

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// maxRangeSize bounds the number of alternatives a character range expands to.
const maxRangeSize = 1024

// ParseEBNF reads a grammar in Go EBNF notation and lowers it to productions.
func ParseEBNF(name string, r io.Reader) ([]Production, error) {
	g, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse ebnf: %w", err)
	}
	return FromEBNF(g)
}

// FromEBNF lowers an EBNF grammar to plain productions. Groups, options,
// repetitions and character ranges become fresh non-terminals named after
// the production they occur in, e.g. "list·r1". Named productions come
// first, sorted by name; the helper productions follow.
func FromEBNF(g ebnf.Grammar) ([]Production, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrammar
	}
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	l := &lowering{counts: make(map[string]int)}
	for _, name := range names {
		prod := g[name]
		if err := l.production(&l.named, Symbol(name), name, prod.Expr); err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
	}
	return append(l.named, l.aux...), nil
}

type lowering struct {
	named  []Production
	aux    []Production
	counts map[string]int
}

func (l *lowering) fresh(owner, kind string) Symbol {
	l.counts[owner]++
	return Symbol(fmt.Sprintf("%s·%s%d", owner, kind, l.counts[owner]))
}

func (l *lowering) production(dst *[]Production, lhs Symbol, owner string, expr ebnf.Expression) error {
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, branch := range alt {
			if err := l.production(dst, lhs, owner, branch); err != nil {
				return err
			}
		}
		return nil
	}
	rhs, err := l.sequence(owner, expr)
	if err != nil {
		return err
	}
	*dst = append(*dst, Production{LHS: lhs, RHS: rhs})
	return nil
}

func (l *lowering) sequence(owner string, expr ebnf.Expression) ([]Symbol, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case ebnf.Sequence:
		rhs := make([]Symbol, 0, len(e))
		for _, x := range e {
			sym, err := l.symbol(owner, x)
			if err != nil {
				return nil, err
			}
			rhs = append(rhs, sym)
		}
		return rhs, nil
	default:
		sym, err := l.symbol(owner, expr)
		if err != nil {
			return nil, err
		}
		return []Symbol{sym}, nil
	}
}

func (l *lowering) symbol(owner string, expr ebnf.Expression) (Symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		return Symbol(e.String), nil
	case *ebnf.Token:
		return Symbol(e.String), nil
	case *ebnf.Group:
		sym := l.fresh(owner, "g")
		return sym, l.production(&l.aux, sym, owner, e.Body)
	case ebnf.Alternative, ebnf.Sequence:
		sym := l.fresh(owner, "g")
		return sym, l.production(&l.aux, sym, owner, e)
	case *ebnf.Option:
		sym := l.fresh(owner, "o")
		if err := l.production(&l.aux, sym, owner, e.Body); err != nil {
			return "", err
		}
		l.aux = append(l.aux, Production{LHS: sym})
		return sym, nil
	case *ebnf.Repetition:
		sym := l.fresh(owner, "r")
		body, err := l.sequence(owner, e.Body)
		if err != nil {
			return "", err
		}
		l.aux = append(l.aux,
			Production{LHS: sym, RHS: append([]Symbol{sym}, body...)},
			Production{LHS: sym},
		)
		return sym, nil
	case *ebnf.Range:
		return l.charRange(owner, e)
	case *ebnf.Bad:
		return "", fmt.Errorf("%s: %s", e.TokPos, e.Error)
	default:
		return "", fmt.Errorf("unsupported expression %T", expr)
	}
}

func (l *lowering) charRange(owner string, e *ebnf.Range) (Symbol, error) {
	if utf8.RuneCountInString(e.Begin.String) != 1 || utf8.RuneCountInString(e.End.String) != 1 {
		return "", fmt.Errorf("%s: range bounds must be single characters", e.Pos())
	}
	lo, _ := utf8.DecodeRuneInString(e.Begin.String)
	hi, _ := utf8.DecodeRuneInString(e.End.String)
	if hi < lo {
		return "", fmt.Errorf("%s: empty range %q … %q", e.Pos(), lo, hi)
	}
	if hi-lo >= maxRangeSize {
		return "", fmt.Errorf("%s: range %q … %q is too large", e.Pos(), lo, hi)
	}
	sym := l.fresh(owner, "c")
	for r := lo; r <= hi; r++ {
		l.aux = append(l.aux, Production{LHS: sym, RHS: []Symbol{Symbol(string(r))}})
	}
	return sym, nil
}
