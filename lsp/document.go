// Copyright © 2025 The movan authors

package lsp

import (
	"sync"

	"github.com/movelang/movan/ast"
)

// Parser turns document text into parsed definitions. The Move parser is an
// external collaborator: embedders register one before starting the server.
type Parser interface {
	ParseFile(path string, content string) (ast.FileHash, []ast.Definition, error)
}

// Document represents an open text document tracked by the server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Path     string
	Version  int32
	Content  string
	Hash     ast.FileHash
	Defs     []ast.Definition
	parseErr error
	// lines holds the byte offset of each line start, for translating
	// byte-offset locations to line/column positions.
	lines []uint32
}

// parse re-parses the content and rebuilds the line index. Parse errors are
// recorded but not fatal: mid-edit source is the common case, and whatever
// definitions the parser salvaged still feed the engine.
func (d *Document) parse(p Parser) {
	hash, defs, err := p.ParseFile(d.Path, d.Content)
	d.parseErr = err
	if err == nil || len(defs) > 0 {
		d.Hash = hash
		d.Defs = defs
	} else {
		// Nothing salvaged: the retained definitions describe text this
		// document no longer holds. Dropping the hash unmaps their
		// locations so queries discard them rather than translate old
		// offsets through the new line table.
		d.Hash = ast.EmptyHash
	}
	d.lines = d.lines[:0]
	d.lines = append(d.lines, 0)
	for i := 0; i < len(d.Content); i++ {
		if d.Content[i] == '\n' {
			d.lines = append(d.lines, uint32(i+1))
		}
	}
}

// offsetToPosition translates a byte offset to 0-based line and column.
func (d *Document) offsetToPosition(offset uint32) (line, col uint32) {
	lo, hi := 0, len(d.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return uint32(lo), offset - d.lines[lo]
}

// positionToOffset translates a 0-based line and column to a byte offset.
func (d *Document) positionToOffset(line, col uint32) uint32 {
	if int(line) >= len(d.lines) {
		return uint32(len(d.Content))
	}
	return d.lines[line] + col
}

// DocumentStore manages open documents and doubles as the line-mapping
// collaborator the engine consults to translate locations.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	byHash map[ast.FileHash]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string]*Document),
		byHash: make(map[ast.FileHash]*Document),
	}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(p Parser, uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Path:    uriToPath(uri),
		Version: version,
		Content: content,
	}
	doc.parse(p)
	s.mu.Lock()
	s.docs[uri] = doc
	if doc.Hash != ast.EmptyHash {
		s.byHash[doc.Hash] = doc
	}
	s.mu.Unlock()
	return doc
}

// Change updates a document with full-sync content and re-parses it.
func (s *DocumentStore) Change(p Parser, uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri, Path: uriToPath(uri)}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	oldHash := doc.Hash
	doc.Version = version
	doc.Content = content
	doc.parse(p)
	doc.mu.Unlock()

	s.mu.Lock()
	if oldHash != ast.EmptyHash {
		delete(s.byHash, oldHash)
	}
	if doc.Hash != ast.EmptyHash {
		s.byHash[doc.Hash] = doc
	}
	s.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	if doc, ok := s.docs[uri]; ok && doc.Hash != ast.EmptyHash {
		delete(s.byHash, doc.Hash)
	}
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// GetByPath retrieves a document by file path.
func (s *DocumentStore) GetByPath(path string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.Path == path {
			return d
		}
	}
	return nil
}

// All returns a snapshot of the open documents.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

// ConvertLocRange translates a byte-offset location to a file range. A
// stale or unknown file hash reports false and the caller drops the event.
func (s *DocumentStore) ConvertLocRange(loc ast.Loc) (ast.FileRange, bool) {
	s.mu.RLock()
	doc := s.byHash[loc.Hash]
	s.mu.RUnlock()
	if doc == nil {
		return ast.UnknownRange(), false
	}
	startLine, startCol := doc.offsetToPosition(loc.Start)
	endLine, endCol := doc.offsetToPosition(loc.End)
	return ast.FileRange{
		Path:      doc.Path,
		LineStart: startLine,
		ColStart:  startCol,
		LineEnd:   endLine,
		ColEnd:    endCol,
	}, true
}
