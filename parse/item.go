package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/chart/grammar"
)

// ItemRef addresses an item by chart position and slot within that position.
type ItemRef struct {
	Pos  int
	Slot int
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%d.%d", r.Pos, r.Slot)
}

// Edge records one way an item reached its dot position: from Pred by
// scanning Terminal, or from Pred by completing Child.
type Edge struct {
	Pred     ItemRef
	Scanned  bool
	Terminal grammar.Symbol
	Child    ItemRef
}

func (e Edge) String() string {
	if e.Scanned {
		return fmt.Sprintf("%s + %q", e.Pred, e.Terminal)
	}
	return fmt.Sprintf("%s + %s", e.Pred, e.Child)
}

// Item is an Earley item: a rule with a dot position and the chart position
// where matching started.
type Item struct {
	Rule   *grammar.Rule
	Dot    int
	Origin int
	Edges  []Edge // in discovery order; never shrinks

	edgeSet map[Edge]struct{}
}

// Complete reports whether the dot is at the end of the rule.
func (it *Item) Complete() bool {
	return it.Dot >= len(it.Rule.RHS)
}

// Next returns the symbol after the dot. ok is false for complete items.
func (it *Item) Next() (sym grammar.Symbol, ok bool) {
	if it.Complete() {
		return "", false
	}
	return it.Rule.RHS[it.Dot], true
}

func (it *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s ->", it.Rule.LHS)
	for i, sym := range it.Rule.RHS {
		if i == it.Dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(string(sym))
	}
	if it.Complete() {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, ", %d]", it.Origin)
	return b.String()
}

func (it *Item) key() itemKey {
	return itemKey{rule: it.Rule, dot: it.Dot, origin: it.Origin}
}

// addEdge records e unless the item already has it.
func (it *Item) addEdge(e Edge) bool {
	if it.edgeSet == nil {
		it.edgeSet = make(map[Edge]struct{}, len(it.Edges)+1)
		for _, have := range it.Edges {
			it.edgeSet[have] = struct{}{}
		}
	}
	if _, ok := it.edgeSet[e]; ok {
		return false
	}
	it.edgeSet[e] = struct{}{}
	it.Edges = append(it.Edges, e)
	return true
}

// itemKey is the dedup key; rules compare by identity.
type itemKey struct {
	rule   *grammar.Rule
	dot    int
	origin int
}

// ItemSet holds the items of one chart position in insertion order.
// Items may be appended while the set is iterated by index.
type ItemSet struct {
	position int
	items    []*Item
	index    map[itemKey]int

	// complete items with origin == position, by left-hand side
	nulled map[grammar.Symbol][]int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		position: pos,
		items:    make([]*Item, 0),
		index:    make(map[itemKey]int),
		nulled:   make(map[grammar.Symbol][]int),
	}
}

// Len returns the current number of items.
func (s *ItemSet) Len() int {
	return len(s.items)
}

// Items returns the items in insertion order.
func (s *ItemSet) Items() []*Item {
	return s.items
}

// At returns the item in the given slot.
func (s *ItemSet) At(slot int) *Item {
	return s.items[slot]
}

// Add inserts item, or merges its edges into the equivalent item already
// present. It returns the canonical item, its slot, and whether it was new.
func (s *ItemSet) Add(item *Item) (*Item, int, bool) {
	k := item.key()
	if slot, ok := s.index[k]; ok {
		existing := s.items[slot]
		for _, e := range item.Edges {
			existing.addEdge(e)
		}
		return existing, slot, false
	}
	slot := len(s.items)
	s.index[k] = slot
	s.items = append(s.items, item)
	if item.Complete() && item.Origin == s.position {
		s.nulled[item.Rule.LHS] = append(s.nulled[item.Rule.LHS], slot)
	}
	return item, slot, true
}

// nulledSlots returns the slots of complete items for lhs that start and
// end at this position.
func (s *ItemSet) nulledSlots(lhs grammar.Symbol) []int {
	return s.nulled[lhs]
}
