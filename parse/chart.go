package parse

import (
	"fmt"
	"io"

	"github.com/dhamidi/chart/grammar"
)

// Chart is the result of one parse: positions 0..n, each with its item set.
// A chart belongs to a single parse and is read-only once Parse returns.
type Chart struct {
	grammar *grammar.Grammar
	start   grammar.Symbol
	tokens  []string
	sets    []*ItemSet
}

func newChart(g *grammar.Grammar, start grammar.Symbol, tokens []string) *Chart {
	c := &Chart{
		grammar: g,
		start:   start,
		tokens:  tokens,
		sets:    make([]*ItemSet, len(tokens)+1),
	}
	for i := range c.sets {
		c.sets[i] = newItemSet(i)
	}
	return c
}

// Len returns the number of positions, one more than the number of tokens.
func (c *Chart) Len() int {
	return len(c.sets)
}

// Set returns the item set at position k.
func (c *Chart) Set(k int) *ItemSet {
	return c.sets[k]
}

// Tokens returns the input the chart was built from.
func (c *Chart) Tokens() []string {
	return c.tokens
}

// AddItem adds item at position k, merging edges into an equivalent item if
// one exists. It returns the canonical item's reference and whether it was
// newly inserted.
func (c *Chart) AddItem(k int, item *Item) (ItemRef, bool) {
	_, slot, isNew := c.sets[k].Add(item)
	return ItemRef{Pos: k, Slot: slot}, isNew
}

// Item resolves ref. A reference to a missing item is an engine bug.
func (c *Chart) Item(ref ItemRef) *Item {
	if ref.Pos < 0 || ref.Pos >= len(c.sets) || ref.Slot < 0 || ref.Slot >= c.sets[ref.Pos].Len() {
		panic(&InvariantError{Ref: ref, Msg: "reference to missing item"})
	}
	return c.sets[ref.Pos].At(ref.Slot)
}

// AcceptingItem returns the first complete item at the last position whose
// rule derives the start symbol from position 0.
func (c *Chart) AcceptingItem() (ItemRef, bool) {
	n := len(c.sets) - 1
	for slot, item := range c.sets[n].Items() {
		if item.Complete() && item.Origin == 0 && item.Rule.LHS == c.start {
			return ItemRef{Pos: n, Slot: slot}, true
		}
	}
	return ItemRef{}, false
}

// Accepted reports whether the input is in the language of the grammar.
func (c *Chart) Accepted() bool {
	_, ok := c.AcceptingItem()
	return ok
}

// Furthest returns the last position that holds any item. For a rejected
// input the token at this position, if any, is where parsing got stuck.
func (c *Chart) Furthest() int {
	for k := len(c.sets) - 1; k > 0; k-- {
		if c.sets[k].Len() > 0 {
			return k
		}
	}
	return 0
}

// Expected returns the terminals that items at position k were waiting
// for, in order of first appearance.
func (c *Chart) Expected(k int) []grammar.Symbol {
	seen := make(map[grammar.Symbol]bool)
	var out []grammar.Symbol
	for _, item := range c.sets[k].Items() {
		next, ok := item.Next()
		if !ok || c.grammar.IsNonTerminal(next) || seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
	}
	return out
}

// Stats summarizes the size of a chart.
type Stats struct {
	Items     []int // per position
	Edges     []int // per position
	Ambiguous int   // items with more than one edge
}

// TotalItems returns the number of items over all positions.
func (s Stats) TotalItems() int {
	total := 0
	for _, n := range s.Items {
		total += n
	}
	return total
}

// Stats counts items and edges.
func (c *Chart) Stats() Stats {
	st := Stats{
		Items: make([]int, len(c.sets)),
		Edges: make([]int, len(c.sets)),
	}
	for k, set := range c.sets {
		st.Items[k] = set.Len()
		for _, item := range set.Items() {
			st.Edges[k] += len(item.Edges)
			if len(item.Edges) > 1 {
				st.Ambiguous++
			}
		}
	}
	return st
}

// Dump writes every position with its items and edges.
func (c *Chart) Dump(w io.Writer) error {
	for k, set := range c.sets {
		header := fmt.Sprintf("== %d", k)
		if k < len(c.tokens) {
			header += fmt.Sprintf(" (next %q)", c.tokens[k])
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for slot, item := range set.Items() {
			if _, err := fmt.Fprintf(w, "%3d %s", slot, item); err != nil {
				return err
			}
			for _, e := range item.Edges {
				if _, err := fmt.Fprintf(w, " {%s}", e); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// InvariantError is the panic value for internal inconsistencies in a chart.
type InvariantError struct {
	Ref ItemRef
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("chart invariant violated at %s: %s", e.Ref, e.Msg)
}
