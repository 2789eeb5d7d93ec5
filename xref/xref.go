// Copyright © 2025 The movan authors

// Package xref implements the cross-reference indexing strategy: cheap
// single-file queries for position lookups and locals, and a cached
// whole-project scan for everything else.
package xref

import (
	"sync"

	"github.com/tliron/commonlog"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// cacheKey identifies one reference result set. Repeated whole-project
// scans are the dominant cost in the engine, so non-local results are
// cached until the project version moves.
type cacheKey struct {
	includeDecl bool
	defLoc      ast.Loc
}

// Index answers find-references queries over one project.
type Index struct {
	p   *sema.Project
	mu  sync.Mutex
	ver uint64
	hot map[cacheKey][]ast.Loc
	log commonlog.Logger
}

// NewIndex builds an index over a project.
func NewIndex(p *sema.Project) *Index {
	return &Index{
		p:   p,
		hot: make(map[cacheKey][]ast.Loc),
		log: commonlog.GetLogger("movan.xref"),
	}
}

// Invalidate drops all cached results. The workspace watcher calls this
// when files change on disk outside the editor.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.hot = make(map[cacheKey][]ast.Loc)
	ix.ver = ix.p.Version()
}

// References returns every use location whose resolved definition matches
// defLoc. When the target is known local to one function, only that file is
// scanned; the result sets are identical either way because a local cannot
// be referenced from elsewhere.
func (ix *Index) References(path string, defLoc ast.Loc, isLocal, includeDecl bool) ([]ast.Loc, error) {
	if isLocal {
		h := newCollector(defLoc, includeDecl)
		if err := ix.p.RunVisitorForFile(h, path, true); err != nil {
			return nil, err
		}
		return h.results, nil
	}

	key := cacheKey{includeDecl: includeDecl, defLoc: defLoc}
	ix.mu.Lock()
	if ix.ver != ix.p.Version() {
		ix.hot = make(map[cacheKey][]ast.Loc)
		ix.ver = ix.p.Version()
	}
	if cached, ok := ix.hot[key]; ok {
		ix.mu.Unlock()
		return cached, nil
	}
	ix.mu.Unlock()

	h := newCollector(defLoc, includeDecl)
	if err := ix.p.RunFullVisitor(h); err != nil {
		return nil, err
	}
	ix.log.Debugf("scanned project for references to %s: %d hits", defLoc, len(h.results))

	ix.mu.Lock()
	if ix.ver == ix.p.Version() {
		ix.hot[key] = h.results
	}
	ix.mu.Unlock()
	return h.results, nil
}

// collector gathers every access resolving to one definition location. It
// wants all bodies and never finishes early.
type collector struct {
	defLoc      ast.Loc
	includeDecl bool
	seen        map[ast.Loc]bool
	results     []ast.Loc
}

func newCollector(defLoc ast.Loc, includeDecl bool) *collector {
	return &collector{
		defLoc:      defLoc,
		includeDecl: includeDecl,
		seen:        make(map[ast.Loc]bool),
	}
}

func (c *collector) add(loc ast.Loc) {
	if loc.IsUnknown() || c.seen[loc] {
		return
	}
	c.seen[loc] = true
	c.results = append(c.results, loc)
}

func (c *collector) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	switch x := ev.(type) {
	case sema.Access:
		use, def := x.AccessLoc()
		if def == c.defLoc {
			c.add(use)
		}
		if useLoc, defLoc, ok := sema.ModuleAccess(x); ok && defLoc == c.defLoc {
			c.add(useLoc)
		}
	case sema.Item:
		if c.includeDecl && x.DefLoc() == c.defLoc {
			c.add(x.DefLoc())
		}
	}
}

func (c *collector) Finished() bool { return false }

func (c *collector) ShouldVisitBody(ast.FileRange) bool { return true }
