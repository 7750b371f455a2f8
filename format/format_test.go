package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/chart/grammar"
	"github.com/dhamidi/chart/parse"
)

func epsilonTree(t *testing.T) *parse.Node {
	t.Helper()
	g, err := grammar.FromText("A -> \nS -> A b")
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	node, _, ok := parse.ParseString(g, "S", "b")
	if !ok {
		t.Fatal("expected input to be accepted")
	}
	return node
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(epsilonTree(t)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got["label"] != "S" {
		t.Errorf("expected root label S, got %v", got["label"])
	}
	children, ok := got["children"].([]any)
	if !ok || len(children) != 2 {
		t.Fatalf("expected two children, got %v", got["children"])
	}

	a := children[0].(map[string]any)
	if kids, ok := a["children"].([]any); !ok || len(kids) != 0 {
		t.Errorf("expected empty children array for A, got %v", a["children"])
	}
	b := children[1].(map[string]any)
	if _, has := b["children"]; has {
		t.Errorf("leaf should not carry children: %v", b)
	}
	if b["label"] != "b" {
		t.Errorf("expected leaf b, got %v", b["label"])
	}
}

func TestJSONValue_Nil(t *testing.T) {
	if JSONValue(nil) != nil {
		t.Error("nil tree should encode as null")
	}
}

func TestTextEncoder(t *testing.T) {
	text, err := (&TextEncoder{node: epsilonTree(t)}).MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "S\n├── A ε\n└── \"b\"\n"
	if string(text) != want {
		t.Errorf("unexpected text\nwant %q\ngot  %q", want, string(text))
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(epsilonTree(t)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.String() != "(S (A) b)\n" {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Names {
		if _, err := NewEncoder(name, &bytes.Buffer{}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
