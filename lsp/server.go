// Package lsp is a language server for grammar files in rules text.
package lsp

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/chart/grammar"
)

const lsName = "chart"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

func NewServer(version string) *Server {
	ls := &Server{
		version: version,
		log:     commonlog.GetLogger("chart.lsp"),
		docs:    make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Info("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.docs[uri] = text
	ls.mu.Unlock()

	diags := Diagnose(text)
	ls.log.Debugf("%s: %d diagnostics", uri, len(diags))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ls.mu.Lock()
	text, ok := ls.docs[params.TextDocument.URI]
	ls.mu.Unlock()
	if !ok {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	line := int(params.Position.Line)
	if line >= len(lines) {
		return nil, nil
	}
	word, start, end := wordAt(lines[line], int(params.Position.Character))
	if word == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: Describe(Lenient(text), word),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
		},
	}, nil
}

// Diagnose checks rules text line by line.
func Diagnose(text string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	rules := 0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		prods, ok, err := grammar.ParseLine(line)
		switch {
		case err != nil:
			diags = append(diags, lineDiagnostic(i, line, protocol.DiagnosticSeverityError, err.Error()))
		case ok:
			rules += len(prods)
		case strings.TrimSpace(line) != "":
			diags = append(diags, lineDiagnostic(i, line, protocol.DiagnosticSeverityHint,
				fmt.Sprintf("line has no %q and is ignored", grammar.Arrow)))
		}
	}
	if rules == 0 {
		diags = append(diags, lineDiagnostic(0, "", protocol.DiagnosticSeverityWarning, grammar.ErrEmptyGrammar.Error()))
	}
	return diags
}

// Lenient builds a grammar from the well-formed lines of text.
func Lenient(text string) *grammar.Grammar {
	var prods []grammar.Production
	for _, line := range strings.Split(text, "\n") {
		p, ok, err := grammar.ParseLine(line)
		if ok && err == nil {
			prods = append(prods, p...)
		}
	}
	return grammar.New(prods)
}

// Describe explains what sym is in g.
func Describe(g *grammar.Grammar, sym string) string {
	switch {
	case sym == grammar.Arrow || sym == "|":
		return "rule syntax"
	case grammar.IsEmptyMarker(sym):
		return "empty production"
	case g.IsNonTerminal(grammar.Symbol(sym)):
		rules := g.RulesFor(grammar.Symbol(sym))
		var b strings.Builder
		fmt.Fprintf(&b, "**%s**: non-terminal, %d rule", sym, len(rules))
		if len(rules) != 1 {
			b.WriteByte('s')
		}
		b.WriteString("\n\n```\n")
		for _, r := range rules {
			b.WriteString(r.String())
			b.WriteByte('\n')
		}
		b.WriteString("```")
		return b.String()
	default:
		return fmt.Sprintf("**%s**: terminal", sym)
	}
}

func lineDiagnostic(line int, text string, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(utf16Len(text))},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

// wordAt returns the whitespace delimited word containing the UTF-16
// column char. start and end are UTF-16 columns as well.
func wordAt(line string, char int) (word string, start, end int) {
	if char > utf16Len(line) {
		return "", 0, 0
	}
	col := protocol.Position{Character: protocol.UInteger(char)}.IndexIn(line)
	start = col
	for start > 0 && !isSpace(line[start-1]) {
		start--
	}
	end = col
	for end < len(line) && !isSpace(line[end]) {
		end++
	}
	word = line[start:end]
	start = utf16Len(line[:start])
	return word, start, start + utf16Len(word)
}

// utf16Len counts the UTF-16 code units of s, the unit of LSP columns.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
