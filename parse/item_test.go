package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/chart/grammar"
)

func TestItemSetDeduplication(t *testing.T) {
	g := grammar.New([]grammar.Production{
		{LHS: "test", RHS: []grammar.Symbol{"a"}},
		{LHS: "test", RHS: []grammar.Symbol{"a"}},
	})
	rules := g.RulesFor("test")
	set := newItemSet(1)

	item1 := &Item{Rule: rules[0], Dot: 1, Origin: 0, Edges: []Edge{{Pred: ItemRef{0, 0}, Scanned: true, Terminal: "a"}}}
	item2 := &Item{Rule: rules[1], Dot: 1, Origin: 0}

	if _, _, added := set.Add(item1); !added {
		t.Error("first item should be added")
	}
	if _, _, added := set.Add(item2); !added {
		t.Error("item with a distinct but identical rule should be added")
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 items, got %d", set.Len())
	}

	dup := &Item{Rule: rules[0], Dot: 1, Origin: 0, Edges: []Edge{{Pred: ItemRef{0, 3}, Scanned: true, Terminal: "a"}}}
	canonical, slot, added := set.Add(dup)
	if added {
		t.Error("equivalent item should not be added")
	}
	if canonical != item1 || slot != 0 {
		t.Errorf("expected existing item in slot 0, got %v in slot %d", canonical, slot)
	}
	if len(item1.Edges) != 2 {
		t.Fatalf("expected edges to be merged, got %v", item1.Edges)
	}
	if item1.Edges[0].Pred != (ItemRef{0, 0}) {
		t.Error("merging must keep the first edge in place")
	}

	set.Add(&Item{Rule: rules[0], Dot: 1, Origin: 0, Edges: []Edge{{Pred: ItemRef{0, 3}, Scanned: true, Terminal: "a"}}})
	if len(item1.Edges) != 2 {
		t.Errorf("identical edge should not be recorded twice, got %v", item1.Edges)
	}
}

func TestItemSet_MergeManyEdges(t *testing.T) {
	g := grammar.New([]grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{"S", "S"}},
	})
	rule := g.RulesFor("S")[0]
	set := newItemSet(0)

	const n = 5000
	edge := func(i int) Edge {
		return Edge{Pred: ItemRef{Pos: i, Slot: 0}, Child: ItemRef{Pos: i, Slot: 1}}
	}
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			set.Add(&Item{Rule: rule, Dot: 2, Origin: 0, Edges: []Edge{edge(i)}})
		}
	}
	if set.Len() != 1 {
		t.Fatalf("expected a single canonical item, got %d", set.Len())
	}
	edges := set.At(0).Edges
	if len(edges) != n {
		t.Fatalf("expected %d distinct edges, got %d", n, len(edges))
	}
	for i, e := range edges {
		if e != edge(i) {
			t.Fatalf("edge %d out of discovery order: %s", i, e)
		}
	}
}

func TestItemSet_AppendWhileIterating(t *testing.T) {
	g := grammar.New([]grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{"S", "x"}},
	})
	rule := g.RulesFor("S")[0]
	set := newItemSet(0)
	set.Add(&Item{Rule: rule, Dot: 0, Origin: 0})

	visited := 0
	for slot := 0; slot < set.Len(); slot++ {
		visited++
		if slot < 3 {
			set.Add(&Item{Rule: rule, Dot: 0, Origin: slot + 1})
		}
	}
	if visited != 4 {
		t.Errorf("expected to visit items appended during iteration, visited %d", visited)
	}
}

func TestItem_String(t *testing.T) {
	g := grammar.New([]grammar.Production{
		{LHS: "E", RHS: []grammar.Symbol{"E", "+", "T"}},
	})
	rule := g.RulesFor("E")[0]

	if got := (&Item{Rule: rule, Dot: 1, Origin: 2}).String(); got != "[E -> E • + T, 2]" {
		t.Errorf("unexpected item string %q", got)
	}
	if got := (&Item{Rule: rule, Dot: 3}).String(); got != "[E -> E + T •, 0]" {
		t.Errorf("unexpected complete item string %q", got)
	}
}

func TestChart_AddItemAndStats(t *testing.T) {
	g := mustGrammar(t, "S -> S S | a")
	c := NewParser(g).Parse("S", Tokenize("a a"))

	st := c.Stats()
	if len(st.Items) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(st.Items))
	}
	if st.TotalItems() == 0 {
		t.Error("expected items in chart")
	}

	rule := g.RulesFor("S")[1]
	before := c.Set(0).Len()
	ref, isNew := c.AddItem(0, &Item{Rule: rule, Dot: 0, Origin: 0})
	if isNew {
		t.Error("seed item should already be present")
	}
	if c.Set(0).Len() != before {
		t.Error("merging must not grow the set")
	}
	if c.Item(ref).Rule != rule {
		t.Error("returned reference should resolve to the canonical item")
	}
}

func TestChart_Dump(t *testing.T) {
	g := mustGrammar(t, "A -> \nS -> A b")
	c := NewParser(g).Parse("S", Tokenize("b"))

	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`== 0 (next "b")`, "== 1", "[S -> A b •, 0]", `"b"`} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestRender_MissingEdgePanics(t *testing.T) {
	g := mustGrammar(t, "S -> a")
	c := newChart(g, "S", []string{"a"})
	ref, _ := c.AddItem(1, &Item{Rule: g.RulesFor("S")[0], Dot: 1, Origin: 0})

	defer func() {
		r := recover()
		if _, ok := r.(*InvariantError); !ok {
			t.Fatalf("expected InvariantError panic, got %v", r)
		}
	}()
	c.Render(ref)
}

func TestChart_ItemOutOfRangePanics(t *testing.T) {
	g := mustGrammar(t, "S -> a")
	c := newChart(g, "S", nil)

	defer func() {
		if _, ok := recover().(*InvariantError); !ok {
			t.Fatal("expected InvariantError panic")
		}
	}()
	c.Item(ItemRef{Pos: 0, Slot: 7})
}
