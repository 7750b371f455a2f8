package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/chart/format"
	"github.com/dhamidi/chart/grammar"
	"github.com/dhamidi/chart/parse"
)

const replHelp = `enter tokens separated by spaces to parse them
:start SYM    change the start symbol
:format NAME  change the output format (json, text, line)
:rules        print the grammar
:chart TOKENS dump the chart for TOKENS
:quit         leave`

func newReplCmd() *cobra.Command {
	var grammarPath string
	var start string
	var outputFormat string
	var historyPath string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse lines interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, sym, err := loadGrammar(grammarPath, start)
			if err != nil {
				return err
			}
			if historyPath == "" {
				if home, err := os.UserHomeDir(); err == nil {
					historyPath = filepath.Join(home, ".chart_history")
				}
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			if historyPath != "" {
				if f, err := os.Open(historyPath); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(historyPath); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}

			r := &repl{grammar: g, start: sym, format: outputFormat, out: cmd.OutOrStdout()}
			fmt.Fprintf(r.out, "grammar %s, start %s; :help for commands\n", grammarPath, sym)
			for {
				line, err := ln.Prompt(string(r.start) + "> ")
				if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
					fmt.Fprintln(r.out)
					return nil
				}
				if err != nil {
					return fmt.Errorf("read line: %w", err)
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				ln.AppendHistory(line)
				if r.eval(line) {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start symbol (default: left-hand side of the first rule)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().StringVar(&historyPath, "history", "", "history file (default: ~/.chart_history)")

	return cmd
}

type repl struct {
	grammar *grammar.Grammar
	start   grammar.Symbol
	format  string
	out     io.Writer
}

// eval handles one input line and reports whether the session should end.
func (r *repl) eval(line string) (exit bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		r.parse(line)
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(r.out, replHelp)
	case ":start":
		if arg == "" {
			fmt.Fprintf(r.out, "start symbol is %s\n", r.start)
			break
		}
		r.start = grammar.Symbol(arg)
		if !r.grammar.IsNonTerminal(r.start) {
			fmt.Fprintf(r.out, "warning: %s has no rules\n", r.start)
		}
	case ":format":
		if _, err := format.NewEncoder(arg, io.Discard); err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		r.format = arg
	case ":rules":
		fmt.Fprint(r.out, r.grammar)
	case ":chart":
		c := parse.NewParser(r.grammar).Parse(r.start, parse.Tokenize(arg))
		if err := c.Dump(r.out); err != nil {
			fmt.Fprintln(r.out, err)
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s; :help lists commands\n", command)
	}
	return false
}

func (r *repl) parse(line string) {
	node, c, ok := parse.ParseString(r.grammar, r.start, line)
	if !ok {
		fmt.Fprintln(r.out, describeRejection(c))
		return
	}
	enc, err := format.NewEncoder(r.format, r.out)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if err := enc.Encode(node); err != nil {
		fmt.Fprintln(r.out, err)
	}
}
