package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chart/parse"
)

func newChartCmd() *cobra.Command {
	var grammarPath string
	var start string

	cmd := &cobra.Command{
		Use:   "chart [tokens...]",
		Short: "Dump the Earley chart built for the tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, sym, err := loadGrammar(grammarPath, start)
			if err != nil {
				return err
			}
			tokens, err := readTokens(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			c := parse.NewParser(g).Parse(sym, tokens)
			out := cmd.OutOrStdout()
			if err := c.Dump(out); err != nil {
				return err
			}

			st := c.Stats()
			fmt.Fprintf(out, "\n%d items, %d ambiguous, accepted: %t\n", st.TotalItems(), st.Ambiguous, c.Accepted())
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start symbol (default: left-hand side of the first rule)")

	return cmd
}
