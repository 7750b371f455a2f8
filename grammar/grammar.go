// Package grammar holds context-free grammars as ordered sets of production
// rules and reads them from text.
package grammar

import (
	"fmt"
	"strings"
)

// Symbol is an opaque grammar symbol. Whether it is a terminal or a
// non-terminal depends on the grammar it is looked up in.
type Symbol string

// Production is a (lhs, rhs) pair as read from grammar text.
type Production struct {
	LHS Symbol
	RHS []Symbol
}

// Rule is a production owned by a Grammar. Rules are compared by pointer:
// two textually identical rules are distinct alternatives.
type Rule struct {
	ID  int // definition order within the grammar
	LHS Symbol
	RHS []Symbol
}

// IsEmpty reports whether the rule is an epsilon production.
func (r *Rule) IsEmpty() bool {
	return len(r.RHS) == 0
}

func (r *Rule) String() string {
	if len(r.RHS) == 0 {
		return fmt.Sprintf("%s -> ε", r.LHS)
	}
	parts := make([]string, len(r.RHS))
	for i, sym := range r.RHS {
		parts[i] = string(sym)
	}
	return fmt.Sprintf("%s -> %s", r.LHS, strings.Join(parts, " "))
}

// Grammar maps each non-terminal to its rules in definition order.
// A Grammar is immutable after New and safe for concurrent use.
type Grammar struct {
	rules  []*Rule
	byLHS  map[Symbol][]*Rule
	lhsOrd []Symbol
}

// New builds a grammar from an ordered production list. No validation is
// performed: an empty list is a valid grammar that accepts nothing.
func New(prods []Production) *Grammar {
	g := &Grammar{
		rules: make([]*Rule, 0, len(prods)),
		byLHS: make(map[Symbol][]*Rule),
	}
	for i, p := range prods {
		rhs := make([]Symbol, len(p.RHS))
		copy(rhs, p.RHS)
		r := &Rule{ID: i, LHS: p.LHS, RHS: rhs}
		if _, seen := g.byLHS[p.LHS]; !seen {
			g.lhsOrd = append(g.lhsOrd, p.LHS)
		}
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], r)
		g.rules = append(g.rules, r)
	}
	return g
}

// RulesFor returns the rules whose left-hand side is sym, or nil when sym is
// a terminal.
func (g *Grammar) RulesFor(sym Symbol) []*Rule {
	return g.byLHS[sym]
}

// IsNonTerminal reports whether sym is the left-hand side of some rule.
func (g *Grammar) IsNonTerminal(sym Symbol) bool {
	_, ok := g.byLHS[sym]
	return ok
}

// Rules returns every rule in definition order.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// NonTerminals returns the left-hand symbols in order of first definition.
func (g *Grammar) NonTerminals() []Symbol {
	return g.lhsOrd
}

// Terminals returns the symbols used on some right-hand side that never
// appear as a left-hand side, in order of first use.
func (g *Grammar) Terminals() []Symbol {
	seen := make(map[Symbol]bool)
	var out []Symbol
	for _, r := range g.rules {
		for _, sym := range r.RHS {
			if seen[sym] || g.IsNonTerminal(sym) {
				continue
			}
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}

// DefaultStart returns the left-hand side of the first rule, or "" for an
// empty grammar.
func (g *Grammar) DefaultStart() Symbol {
	if len(g.rules) == 0 {
		return ""
	}
	return g.rules[0].LHS
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.rules {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}
