// Copyright © 2025 The movan authors

package xref

import (
	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// Locator finds the event under a cursor position. It restricts the body
// pass to the enclosing function and stops at the first hit, so position
// queries stay cheap and synchronous.
type Locator struct {
	p    *sema.Project
	path string
	line uint32
	col  uint32

	// Item is set when the cursor is on a definition, Access when it is on
	// a use-site. ModuleDef is set when the cursor is on a module qualifier.
	Item      sema.Item
	Access    sema.Access
	ModuleDef ast.Loc
	found     bool
}

// NewLocator builds a position query for one file location.
func NewLocator(p *sema.Project, path string, line, col uint32) *Locator {
	return &Locator{p: p, path: path, line: line, col: col}
}

// Run executes the single-file traversal.
func (l *Locator) Run() error {
	return l.p.RunVisitorForFile(l, l.path, true)
}

func (l *Locator) contains(loc ast.Loc) bool {
	rng, ok := l.p.ConvertLocRange(loc)
	if !ok || rng.Path != l.path {
		return false
	}
	return rng.Contains(l.line, l.col)
}

func (l *Locator) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	if l.found {
		return
	}
	switch x := ev.(type) {
	case sema.Access:
		use, _ := x.AccessLoc()
		if l.contains(use) {
			l.Access = x
			l.found = true
			return
		}
		if useLoc, defLoc, ok := sema.ModuleAccess(x); ok && l.contains(useLoc) {
			l.Access = x
			l.ModuleDef = defLoc
			l.found = true
		}
	case sema.Item:
		if l.contains(x.DefLoc()) {
			l.Item = x
			l.found = true
		}
	}
}

func (l *Locator) Finished() bool { return l.found }

// ShouldVisitBody only admits the body enclosing the cursor.
func (l *Locator) ShouldVisitBody(rng ast.FileRange) bool {
	if rng.IsUnknown() {
		return true
	}
	return rng.Path == l.path && rng.Contains(l.line, l.col)
}
