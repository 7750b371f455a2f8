// Package parse implements Earley chart parsing over arbitrary context-free
// grammars and reconstructs a single derivation tree from the chart.
package parse

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/chart/grammar"
)

// Parser runs Earley parsing for one grammar. A Parser holds no per-input
// state and may be shared between goroutines.
type Parser struct {
	grammar *grammar.Grammar
	log     commonlog.Logger
}

// NewParser creates a parser for g that logs to "chart.parse".
func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{grammar: g, log: commonlog.GetLogger("chart.parse")}
}

// Parse builds the chart for tokens starting from start. Rejection is not an
// error: check the result with Chart.Accepted.
func (p *Parser) Parse(start grammar.Symbol, tokens []string) *Chart {
	c := newChart(p.grammar, start, tokens)
	r := &run{grammar: p.grammar, chart: c}

	for _, rule := range p.grammar.RulesFor(start) {
		c.AddItem(0, &Item{Rule: rule, Dot: 0, Origin: 0})
	}

	n := len(tokens)
	for k := 0; k <= n; k++ {
		set := c.Set(k)
		// set grows while it is processed; re-read its length every pass
		for slot := 0; slot < set.Len(); slot++ {
			item := set.At(slot)
			ref := ItemRef{Pos: k, Slot: slot}
			next, ok := item.Next()
			switch {
			case !ok:
				r.complete(k, ref, item)
			case p.grammar.IsNonTerminal(next):
				r.predict(k, ref, item, next)
			default:
				r.scan(k, ref, item, next)
			}
		}
		if p.log.AllowLevel(commonlog.Debug) {
			p.log.Debugf("position %d: %d items", k, set.Len())
		}
		if k < n && c.Set(k+1).Len() == 0 {
			p.log.Debugf("no items reach position %d, stopping at token %q", k+1, tokens[k])
			break
		}
	}

	if c.Accepted() {
		p.log.Debugf("accepted %d tokens from %s", n, start)
	} else {
		p.log.Debugf("rejected input at position %d", c.Furthest())
	}
	return c
}

// run carries the state of one Parse call.
type run struct {
	grammar *grammar.Grammar
	chart   *Chart
}

// predict adds fresh items for every rule of next. Items for next that
// already completed at k without consuming input (nullable) advance the
// predicting item right away, since their own completion step has already
// looked for waiting items.
func (r *run) predict(k int, ref ItemRef, item *Item, next grammar.Symbol) {
	for _, rule := range r.grammar.RulesFor(next) {
		r.chart.AddItem(k, &Item{Rule: rule, Dot: 0, Origin: k})
	}

	set := r.chart.Set(k)
	var advanced []*Item
	for _, slot := range set.nulledSlots(next) {
		advanced = append(advanced, &Item{
			Rule:   item.Rule,
			Dot:    item.Dot + 1,
			Origin: item.Origin,
			Edges:  []Edge{{Pred: ref, Child: ItemRef{Pos: k, Slot: slot}}},
		})
	}
	for _, a := range advanced {
		r.chart.AddItem(k, a)
	}
}

// scan advances item over the token at k when it matches next.
func (r *run) scan(k int, ref ItemRef, item *Item, next grammar.Symbol) {
	tokens := r.chart.tokens
	if k >= len(tokens) || grammar.Symbol(tokens[k]) != next {
		return
	}
	r.chart.AddItem(k+1, &Item{
		Rule:   item.Rule,
		Dot:    item.Dot + 1,
		Origin: item.Origin,
		Edges:  []Edge{{Pred: ref, Scanned: true, Terminal: next}},
	})
}

// complete advances every item at the completed item's origin that was
// waiting for its left-hand side.
func (r *run) complete(k int, ref ItemRef, completed *Item) {
	j := completed.Origin
	lhs := completed.Rule.LHS

	// Collect first: when j == k the origin set is the one being extended.
	origin := r.chart.Set(j)
	var advanced []*Item
	for slot, waiting := range origin.Items() {
		next, ok := waiting.Next()
		if !ok || next != lhs {
			continue
		}
		advanced = append(advanced, &Item{
			Rule:   waiting.Rule,
			Dot:    waiting.Dot + 1,
			Origin: waiting.Origin,
			Edges:  []Edge{{Pred: ItemRef{Pos: j, Slot: slot}, Child: ref}},
		})
	}
	for _, a := range advanced {
		r.chart.AddItem(k, a)
	}
}

// ParseTokens is a convenience function that parses tokens and derives a
// tree. ok is false when the input is rejected.
func ParseTokens(g *grammar.Grammar, start grammar.Symbol, tokens []string) (node *Node, c *Chart, ok bool) {
	c = NewParser(g).Parse(start, tokens)
	node, ok = Derive(c)
	return node, c, ok
}

// ParseString tokenizes input on whitespace and parses it.
func ParseString(g *grammar.Grammar, start grammar.Symbol, input string) (*Node, *Chart, bool) {
	return ParseTokens(g, start, Tokenize(input))
}
