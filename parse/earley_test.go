package parse

import (
	"testing"

	"github.com/dhamidi/chart/grammar"
)

const exprGrammar = `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

func mustGrammar(t *testing.T, text string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.FromText(text)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestEarleyParser_Expression(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	node, c, ok := ParseString(g, "E", "id + id * id")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if !c.Accepted() {
		t.Error("chart should report acceptance")
	}
	if node.Label != "E" {
		t.Errorf("expected root E, got %q", node.Label)
	}
	want := "(E (E (T (F id))) + (T (T (F id)) * (F id)))"
	if got := node.String(); got != want {
		t.Errorf("unexpected tree\nwant %s\ngot  %s", want, got)
	}
	if got := node.Text(); got != "id + id * id" {
		t.Errorf("unexpected yield %q", got)
	}
}

func TestEarleyParser_Parenthesized(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	node, _, ok := ParseString(g, "E", "( id + id ) * id")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	want := "(E (T (T (F ( (E (E (T (F id))) + (T (F id))) ))) * (F id)))"
	if got := node.String(); got != want {
		t.Errorf("unexpected tree\nwant %s\ngot  %s", want, got)
	}
}

func TestEarleyParser_Rejection(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	node, c, ok := ParseString(g, "E", "id +")
	if ok {
		t.Fatalf("expected rejection, got %s", node)
	}
	if node != nil {
		t.Error("rejected parse should not yield a tree")
	}
	if c.Accepted() {
		t.Error("chart should not report acceptance")
	}
	if c.Furthest() != 2 {
		t.Errorf("expected furthest position 2, got %d", c.Furthest())
	}
	expected := c.Expected(2)
	if len(expected) != 2 || expected[0] != "(" || expected[1] != "id" {
		t.Errorf("expected [( id], got %v", expected)
	}
}

func TestEarleyParser_RejectsUnexpectedToken(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	_, c, ok := ParseString(g, "E", "id id + id")
	if ok {
		t.Fatal("expected rejection")
	}
	if c.Furthest() != 1 {
		t.Errorf("expected parse to get stuck at position 1, got %d", c.Furthest())
	}
}

func TestEarleyParser_Epsilon(t *testing.T) {
	g := mustGrammar(t, "A -> \nS -> A b")

	node, _, ok := ParseString(g, "S", "b")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if node.Label != "S" || len(node.Children) != 2 {
		t.Fatalf("expected S with two children, got %s", node)
	}
	a, b := node.Children[0], node.Children[1]
	if a.Label != "A" || a.IsTerminal() || len(a.Children) != 0 {
		t.Errorf("expected empty A node, got %s", a)
	}
	if b.Label != "b" || !b.IsTerminal() {
		t.Errorf("expected leaf b, got %s", b)
	}
}

func TestEarleyParser_EmptyMarkersBehaveAlike(t *testing.T) {
	var trees []*Node
	for _, marker := range []string{"ε", `""`, "''", ""} {
		g := mustGrammar(t, "S -> A b\nA -> "+marker)
		node, _, ok := ParseString(g, "S", "b")
		if !ok {
			t.Fatalf("%q: expected input to be accepted", marker)
		}
		trees = append(trees, node)
	}
	for i := 1; i < len(trees); i++ {
		if !trees[0].Equal(trees[i]) {
			t.Errorf("tree %d differs: %s vs %s", i, trees[0], trees[i])
		}
	}
}

func TestEarleyParser_NullableSequence(t *testing.T) {
	g := mustGrammar(t, "S -> A A\nA -> ε | a")

	node, _, ok := ParseString(g, "S", "")
	if !ok {
		t.Fatal("expected empty input to be accepted")
	}
	if got := node.String(); got != "(S (A) (A))" {
		t.Errorf("unexpected tree %s", got)
	}

	node, _, ok = ParseString(g, "S", "a")
	if !ok {
		t.Fatal("expected a to be accepted")
	}
	if got := node.Text(); got != "a" {
		t.Errorf("unexpected yield %q", got)
	}

	if _, _, ok := ParseString(g, "S", "a a a"); ok {
		t.Error("expected a a a to be rejected")
	}
}

func TestEarleyParser_NullableChain(t *testing.T) {
	g := mustGrammar(t, "S -> B c\nB -> C C\nC -> D\nD -> ε")

	node, _, ok := ParseString(g, "S", "c")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if got := node.String(); got != "(S (B (C (D)) (C (D))) c)" {
		t.Errorf("unexpected tree %s", got)
	}
}

func TestEarleyParser_LeftRecursionTerminates(t *testing.T) {
	g := mustGrammar(t, "L -> L x | M\nM -> L y | z")

	for _, input := range []string{"z", "z x y x", "z y y y x", "x"} {
		c := NewParser(g).Parse("L", Tokenize(input))
		if c.Len() != len(Tokenize(input))+1 {
			t.Errorf("%q: expected %d positions, got %d", input, len(Tokenize(input))+1, c.Len())
		}
	}
	if _, _, ok := ParseString(g, "L", "z x y x"); !ok {
		t.Error("expected z x y x to be accepted")
	}
	if _, _, ok := ParseString(g, "L", "x"); ok {
		t.Error("expected x to be rejected")
	}
}

func TestEarleyParser_CyclicRule(t *testing.T) {
	g := mustGrammar(t, "S -> S | a")

	node, _, ok := ParseString(g, "S", "a")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if got := node.String(); got != "(S a)" {
		t.Errorf("unexpected tree %s", got)
	}
}

func TestEarleyParser_AmbiguityIsDeterministic(t *testing.T) {
	g := mustGrammar(t, "S -> S S | a")

	node, c, ok := ParseString(g, "S", "a a a")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if c.Stats().Ambiguous == 0 {
		t.Error("expected ambiguous items in chart")
	}
	for i := 0; i < 10; i++ {
		again, ok := Derive(c)
		if !ok {
			t.Fatal("expected derivation on repeated extraction")
		}
		if !node.Equal(again) {
			t.Fatalf("extraction %d differs: %s vs %s", i, node, again)
		}
	}
	if got := node.Text(); got != "a a a" {
		t.Errorf("unexpected yield %q", got)
	}
}

func TestEarleyParser_AmbiguousEdgesAreDistinct(t *testing.T) {
	g := mustGrammar(t, "S -> S S | a")

	const n = 12
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = "a"
	}
	c := NewParser(g).Parse("S", tokens)
	ref, ok := c.AcceptingItem()
	if !ok {
		t.Fatal("expected input to be accepted")
	}

	// one edge per split point of the outermost S -> S S
	edges := c.Item(ref).Edges
	if len(edges) != n-1 {
		t.Errorf("expected %d edges, got %d", n-1, len(edges))
	}
	for k := 0; k < c.Len(); k++ {
		for _, item := range c.Set(k).Items() {
			seen := make(map[Edge]bool)
			for _, e := range item.Edges {
				if seen[e] {
					t.Fatalf("duplicate edge %s on %s at %d", e, item, k)
				}
				seen[e] = true
			}
		}
	}
}

func BenchmarkParse_Ambiguous(b *testing.B) {
	g, err := grammar.FromText("S -> S S | a")
	if err != nil {
		b.Fatal(err)
	}
	tokens := make([]string, 40)
	for i := range tokens {
		tokens[i] = "a"
	}
	p := NewParser(g)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if c := p.Parse("S", tokens); !c.Accepted() {
			b.Fatal("expected input to be accepted")
		}
	}
}

func TestEarleyParser_Idempotent(t *testing.T) {
	var first *Node
	for i := 0; i < 5; i++ {
		g := mustGrammar(t, exprGrammar)
		node, _, ok := ParseString(g, "E", "( id ) * id + id")
		if !ok {
			t.Fatal("expected input to be accepted")
		}
		if first == nil {
			first = node
			continue
		}
		if !first.Equal(node) {
			t.Fatalf("run %d differs: %s vs %s", i, first, node)
		}
	}
}

func TestEarleyParser_DuplicateRules(t *testing.T) {
	g := mustGrammar(t, "S -> a\nS -> a")

	node, c, ok := ParseString(g, "S", "a")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	if got := node.String(); got != "(S a)" {
		t.Errorf("unexpected tree %s", got)
	}
	complete := 0
	for _, item := range c.Set(1).Items() {
		if item.Complete() {
			complete++
		}
	}
	if complete != 2 {
		t.Errorf("expected both duplicate rules to complete, got %d items", complete)
	}
}

func TestEarleyParser_NoParse(t *testing.T) {
	g := grammar.New(nil)
	if _, _, ok := ParseString(g, "S", "a"); ok {
		t.Error("empty grammar should accept nothing")
	}

	g = mustGrammar(t, "S -> a")
	if _, _, ok := ParseString(g, "X", "a"); ok {
		t.Error("start symbol without rules should accept nothing")
	}
	if _, _, ok := ParseString(g, "S", ""); ok {
		t.Error("empty input should be rejected")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  id +\tid\n* id ")
	want := []string{"id", "+", "id", "*", "id"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
