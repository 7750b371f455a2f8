package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/chart/grammar"
)

func newCheckCmd() *cobra.Command {
	var filename string
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Read a grammar file and summarize its rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return errors.New("no grammar file given (use --grammar)")
			}
			out := cmd.OutOrStdout()

			if filepath.Ext(filename) == ".ebnf" && startProduction != "" {
				if err := verifyEBNF(out, filename, startProduction); err != nil {
					return err
				}
			}

			g, err := grammar.Load(filename)
			if err != nil {
				printErrors(out, err)
				return err
			}

			fmt.Fprintf(out, "%d rules, %d non-terminals, %d terminals\n",
				len(g.Rules()), len(g.NonTerminals()), len(g.Terminals()))
			fmt.Fprintf(out, "non-terminals: %s\n", joinSymbols(g.NonTerminals()))
			fmt.Fprintf(out, "terminals: %s\n", joinSymbols(g.Terminals()))

			if startProduction != "" && !g.IsNonTerminal(grammar.Symbol(startProduction)) {
				fmt.Fprintf(out, "warning: start symbol %q has no rules; every input is rejected\n", startProduction)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "grammar", "g", "", "grammar file (rules text, or Go EBNF for .ebnf)")
	cmd.Flags().StringVarP(&startProduction, "start", "s", "", "start production for verification (if empty, only reads the grammar)")

	return cmd
}

// verifyEBNF runs the EBNF package's own consistency checks.
func verifyEBNF(out io.Writer, filename, start string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		printErrors(out, err)
		return err
	}
	if err := ebnf.Verify(g, start); err != nil {
		printErrors(out, err)
		return err
	}
	return nil
}

func joinSymbols(syms []grammar.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// printErrors prints each error of an error list on its own line.
func printErrors(out io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(out, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(out, err)
	}
}
