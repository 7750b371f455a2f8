package grammar

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a grammar file. Files ending in .ebnf are read as Go EBNF,
// everything else as rules text.
func Load(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	var prods []Production
	if filepath.Ext(path) == ".ebnf" {
		prods, err = ParseEBNF(path, f)
	} else {
		prods, err = ParseRulesReader(path, f)
	}
	if err != nil {
		return nil, err
	}
	return New(prods), nil
}

// FromText builds a grammar from rules text.
func FromText(text string) (*Grammar, error) {
	prods, err := ParseRules(text)
	if err != nil {
		return nil, err
	}
	return New(prods), nil
}
