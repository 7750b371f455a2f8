// Package ui serves parse results over HTTP and websockets to an external
// tree renderer.
package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/chart/format"
	"github.com/dhamidi/chart/grammar"
	"github.com/dhamidi/chart/parse"
)

//go:embed static
var embeddedFS embed.FS

// maxRequestBytes bounds the size of a parse request body.
const maxRequestBytes = 1 << 20

// Request asks for one parse. Every request builds its own grammar and chart.
type Request struct {
	Grammar string `json:"grammar"`
	Start   string `json:"start"`
	Input   string `json:"input"`
}

// Result is the answer to a Request. Tree is null when the input is rejected;
// Position is set only then, and may be 0.
type Result struct {
	Accepted bool     `json:"accepted"`
	Tree     any      `json:"tree"`
	Error    string   `json:"error,omitempty"`
	Position *int     `json:"position,omitempty"`
	Expected []string `json:"expected,omitempty"`
}

// Evaluate runs a request. The error is non-nil only for malformed grammar
// text or a missing start symbol; rejection is reported in the Result.
func Evaluate(req Request) (Result, error) {
	if req.Start == "" {
		return Result{}, grammar.ErrNoStart
	}
	g, err := grammar.FromText(req.Grammar)
	if err != nil {
		return Result{}, err
	}
	node, c, ok := parse.ParseString(g, grammar.Symbol(req.Start), req.Input)
	if ok {
		return Result{Accepted: true, Tree: format.JSONValue(node)}, nil
	}
	pos := c.Furthest()
	res := Result{Position: &pos}
	for _, sym := range c.Expected(pos) {
		res.Expected = append(res.Expected, string(sym))
	}
	return res, nil
}

type Server struct {
	staticFS fs.FS
	mux      *http.ServeMux
	log      commonlog.Logger
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  []*wsClient
}

type wsClient struct {
	conn *websocket.Conn
	log  commonlog.Logger
	mu   sync.Mutex
}

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewServer() *Server {
	s := &Server{
		staticFS: overlayFS("ui/static", mustSub(embeddedFS, "static")),
		mux:      http.NewServeMux(),
		log:      commonlog.GetLogger("chart.ui"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("GET /", http.FileServer(http.FS(s.staticFS)))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: "invalid JSON: " + err.Error()})
		return
	}
	res, err := Evaluate(req)
	if err != nil {
		s.log.Infof("rejected request: %s", err)
		s.writeJSON(w, http.StatusBadRequest, Result{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warningf("write response: %s", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warningf("websocket upgrade: %s", err)
		return
	}
	client := &wsClient{conn: conn, log: s.log}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Debugf("websocket client connected from %s (%d connected)", r.RemoteAddr, n)

	defer func() {
		conn.Close()
		s.mu.Lock()
		for i, c := range s.clients {
			if c == client {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		n := len(s.clients)
		s.mu.Unlock()
		s.log.Debugf("websocket client disconnected (%d connected)", n)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			client.write(rpcResponse{Error: &rpcError{Code: -32700, Message: err.Error()}})
			continue
		}
		client.write(s.handleRPC(req))
	}
}

func (c *wsClient) write(resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Errorf("marshal response: %s", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleRPC(req rpcRequest) rpcResponse {
	switch req.Method {
	case "parse":
		return s.rpcParse(req)
	default:
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: -32601, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
}

func (s *Server) rpcParse(req rpcRequest) rpcResponse {
	var p Request
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: -32602, Message: err.Error()}}
	}
	res, err := Evaluate(p)
	if err != nil {
		code := -32000
		if errors.Is(err, grammar.ErrNoStart) {
			code = -32602
		}
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: code, Message: err.Error()}}
	}
	return rpcResponse{ID: req.ID, Result: res}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS serves files from primaryPath on disk when present, so the page
// can be edited without rebuilding.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}
