package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chart/format"
	"github.com/dhamidi/chart/parse"
)

func newParseCmd() *cobra.Command {
	var grammarPath string
	var start string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [tokens...]",
		Short: "Parse tokens and print one derivation tree",
		Long: `Parse the given tokens, or whitespace separated tokens read from stdin,
and print one derivation tree. Exits with status 1 when the input is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, sym, err := loadGrammar(grammarPath, start)
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tokens, err := readTokens(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			node, c, ok := parse.ParseTokens(g, sym, tokens)
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), describeRejection(c))
				return errNoParse
			}
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file (rules text, or Go EBNF for .ebnf)")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start symbol (default: left-hand side of the first rule)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}
