// Package lsp serves walter diagnostics and document symbols to editors
// over the Language Server Protocol.
package lsp

import (
	"errors"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/driver"
	"github.com/you-not-fish/redditlang/internal/syntax"
)

const Name = "walter-lsp"

var log = commonlog.GetLogger("walter.lsp")

// Server holds the open documents of one editor session.
type Server struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]string

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New returns a Server reporting the given version.
func New(version string) *Server {
	s := &Server{
		docs:    make(map[protocol.DocumentUri]string),
		version: version,
	}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidClose:  s.didClose,

		TextDocumentDocumentSymbol: s.documentSymbol,
	}
	s.server = glspserver.NewServer(&s.handler, Name, false)
	return s
}

// RunStdio serves on stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initializing", "version", s.version)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	s.docs = make(map[protocol.DocumentUri]string)
	s.mu.Unlock()
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.update(uri, params.TextDocument.Text)
	s.publish(ctx, uri, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last event carries the whole text.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	uri := params.TextDocument.URI
	s.update(uri, whole.Text)
	s.publish(ctx, uri, whole.Text)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) documentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	text, ok := s.text(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return Symbols(params.TextDocument.URI, text), nil
}

func (s *Server) update(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

func (s *Server) text(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnose(uri, text),
	})
}

// Diagnose runs the pipeline over text and returns its first error, if
// any, as a diagnostic.
func Diagnose(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	_, err := driver.Compile(filename(uri), []byte(text), driver.Options{})
	if err == nil {
		return []protocol.Diagnostic{}
	}
	log.Debugf("%s: %v", uri, err)
	return []protocol.Diagnostic{toDiagnostic(err)}
}

func toDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := Name
	d := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
	var derr *diag.Error
	if errors.As(err, &derr) {
		d.Range = toRange(derr.Span)
		d.Message = derr.Kind.String() + ": " + derr.Msg
	}
	return d
}

// toRange converts a span to a 0-based range. An invalid span maps to
// the start of the document.
func toRange(s syntax.Span) protocol.Range {
	if !s.IsValid() {
		return protocol.Range{}
	}
	end := s.End
	if !end.IsValid() {
		end = s.Start
	}
	return protocol.Range{Start: toPosition(s.Start), End: toPosition(end)}
}

func toPosition(p syntax.Pos) protocol.Position {
	return protocol.Position{Line: p.Line() - 1, Character: p.Col() - 1}
}

func filename(uri protocol.DocumentUri) string {
	return strings.TrimPrefix(string(uri), "file://")
}

func boolPtr(b bool) *bool {
	return &b
}
