// Copyright © 2025 The movan authors

// Package lsp implements a Language Server Protocol server over the Move
// semantic-analysis engine. It provides go-to-definition, type definition,
// hover, completion, find-references, inlay hints, and code lenses.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
	"github.com/movelang/movan/xref"
)

const serverName = "movan-lsp"

// ErrNoParser is returned when the server starts without a registered
// front end.
var ErrNoParser = errors.New("no Move parser registered")

// Server is the Move language server. One mutex serializes every traversal
// against the shared project, matching the engine's single-writer contract;
// the whole-project re-prime runs on a background worker so it never blocks
// navigation queries.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore
	parser  Parser

	rootURI  string
	rootPath string

	// mu serializes traversals over project.
	mu      sync.Mutex
	project *sema.Project
	rootPkg *sema.Package
	index   *xref.Index

	addresses map[string]ast.Address

	watcher *workspaceWatcher

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// reindex wakes the background priming worker.
	reindex   chan struct{}
	closeOnce sync.Once
	closed    chan struct{}

	log commonlog.Logger

	// exitFn is called on the LSP exit notification. Overridable for tests.
	exitFn func(int)
}

// Option configures the server.
type Option func(*Server)

// WithParser injects the front end used to parse documents.
func WithParser(p Parser) Option {
	return func(s *Server) { s.parser = p }
}

// WithAddresses injects the resolved named-address table.
func WithAddresses(addrs map[string]ast.Address) Option {
	return func(s *Server) { s.addresses = addrs }
}

// New creates a Move LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		debounce: make(map[string]*time.Timer),
		reindex:  make(chan struct{}, 1),
		closed:   make(chan struct{}),
		log:      commonlog.GetLogger("movan.lsp"),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.project = sema.NewProject(s.docs, s.addresses)
	s.rootPkg = s.project.AddPackage("root")
	s.index = xref.NewIndex(s.project)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentTypeDefinition: s.textDocumentTypeDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentCodeLens:       s.textDocumentCodeLens,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	go s.reindexWorker()
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	if s.parser == nil {
		return ErrNoParser
	}
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	if s.parser == nil {
		return ErrNoParser
	}
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{":", "."},
	}
	capabilities.CodeLensProvider = &protocol.CodeLensOptions{}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	if s.rootPath != "" {
		w, err := newWorkspaceWatcher(s.rootPath, s.onDiskChange)
		if err != nil {
			s.log.Errorf("workspace watcher: %v", err)
		} else {
			s.watcher = w
		}
	}
	s.requestReindex()
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	if s.watcher != nil {
		s.watcher.Close()
	}
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) textDocumentDidOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := s.docs.Open(s.parser, params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	s.syncDocument(doc)
	s.requestReindex()
	return nil
}

func (s *Server) textDocumentDidChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	var content string
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			content = whole.Text
		}
	}
	uri := params.TextDocument.URI
	version := params.TextDocument.Version

	// Debounce rapid keystrokes; the engine re-parses whole files, so
	// intermediate states are wasted work.
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
	}
	s.debounce[uri] = time.AfterFunc(150*time.Millisecond, func() {
		doc := s.docs.Change(s.parser, uri, version, content)
		s.syncDocument(doc)
		s.requestReindex()
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(_ *glsp.Context, _ *protocol.DidSaveTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.Close(params.TextDocument.URI)
	return nil
}

// syncDocument pushes a parsed document's definitions into the project.
func (s *Server) syncDocument(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.project.FileFor(doc.Path); ok {
		if err := s.project.UpdateFile(doc.Path, doc.Hash, doc.Defs); err != nil {
			s.log.Errorf("update %s: %v", doc.Path, err)
		}
		return
	}
	kind := sema.KindSource
	if isTestPath(doc.Path) {
		kind = sema.KindTest
	}
	s.project.AddFile(s.rootPkg, doc.Path, doc.Hash, kind, doc.Defs)
}

func isTestPath(path string) bool {
	return containsSegment(path, "tests")
}

func containsSegment(path, seg string) bool {
	rest := path
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] != '/' {
			i++
		}
		if rest[:i] == seg {
			return true
		}
		if i == len(rest) {
			break
		}
		rest = rest[i+1:]
	}
	return false
}

// requestReindex wakes the background worker; coalesces bursts.
func (s *Server) requestReindex() {
	select {
	case s.reindex <- struct{}{}:
	default:
	}
}

// reindexWorker re-primes the global module table off the request path.
// Queries read the synchronously updated project state; the priming pass
// only fills in cross-file registrations, so its results are eventually
// consistent by design.
func (s *Server) reindexWorker() {
	for {
		select {
		case <-s.closed:
			return
		case <-s.reindex:
		}
		s.mu.Lock()
		h := &primer{}
		if err := s.project.RunFullVisitor(h); err != nil {
			s.log.Errorf("reindex: %v", err)
		}
		s.mu.Unlock()
	}
}

// onDiskChange handles workspace file changes outside the editor.
func (s *Server) onDiskChange(path string) {
	if s.docs.GetByPath(path) != nil {
		// Open documents are authoritative; the editor will resync.
		return
	}
	s.index.Invalidate()
	s.requestReindex()
}

// primer is the no-op handler used to run the registration phases over the
// whole project so the global table holds every module.
type primer struct{}

func (*primer) HandleItemOrAccess(*sema.Project, *sema.ProjectContext, sema.ItemOrAccess) {}
func (*primer) Finished() bool                                                           { return false }
