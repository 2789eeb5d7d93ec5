// Copyright © 2025 The movan authors

package sema

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/movelang/movan/ast"
)

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer("movan/sema")
}

// ErrNoProject is reported when a query names a file that belongs to no
// known project. It is the only hard failure surfaced to consumers;
// resolution failures inside a traversal degrade to dummy items instead.
var ErrNoProject = errors.New("file belongs to no known project")

// SourceKind partitions a package's files the way the manifest does.
type SourceKind int

const (
	KindSource SourceKind = iota
	KindTest
	KindScript
)

// SourceFile is one parsed file: its identity hash and definitions.
type SourceFile struct {
	Path string
	Hash ast.FileHash
	Kind SourceKind
	Defs []ast.Definition
}

// Package groups the files of one manifest package.
type Package struct {
	Name  string
	Files []*SourceFile
}

// Project owns the parsed input and the persistent resolution state. The
// parser and manifest loader are external collaborators: they feed parsed
// definitions in through AddFile/UpdateFile and the named-address table in
// through the constructor.
//
// One Project serves one traversal at a time; the caller serializes
// concurrent queries.
type Project struct {
	// packages in reverse dependency order: dependencies first, root last.
	packages  []*Package
	files     map[string]*SourceFile
	ctx       *ProjectContext
	conv      ast.ConvertLoc
	addresses map[string]ast.Address
	version   uint64
	log       commonlog.Logger
}

// NewProject builds an empty project around a line-mapping collaborator and
// a resolved named-address table.
func NewProject(conv ast.ConvertLoc, addresses map[string]ast.Address) *Project {
	if addresses == nil {
		addresses = make(map[string]ast.Address)
	}
	return &Project{
		files:     make(map[string]*SourceFile),
		ctx:       NewProjectContext(),
		conv:      conv,
		addresses: addresses,
		log:       commonlog.GetLogger("movan.sema"),
	}
}

// Context exposes the persistent resolution context.
func (p *Project) Context() *ProjectContext { return p.ctx }

// Version increments on every definition update; caches key on it.
func (p *Project) Version() uint64 { return p.version }

// NameToAddr resolves a symbolic named address; unknown names map to the
// error address so resolution degrades instead of failing.
func (p *Project) NameToAddr(name string) ast.Address {
	if a, ok := p.addresses[name]; ok {
		return a
	}
	return ast.ErrAddress
}

// ConvertLocRange translates a location to a file range; ok is false when
// the file hash is stale or unknown, in which case the caller drops the
// affected event.
func (p *Project) ConvertLocRange(loc ast.Loc) (ast.FileRange, bool) {
	if p.conv == nil || loc.IsUnknown() {
		return ast.UnknownRange(), false
	}
	return p.conv.ConvertLocRange(loc)
}

// AddPackage appends a package; callers add dependencies before dependents.
func (p *Project) AddPackage(name string) *Package {
	pkg := &Package{Name: name}
	p.packages = append(p.packages, pkg)
	return pkg
}

// AddFile registers a parsed file under a package.
func (p *Project) AddFile(pkg *Package, path string, hash ast.FileHash, kind SourceKind, defs []ast.Definition) *SourceFile {
	f := &SourceFile{Path: path, Hash: hash, Kind: kind, Defs: defs}
	pkg.Files = append(pkg.Files, f)
	p.files[path] = f
	p.version++
	return f
}

// UpdateFile replaces a file's definitions after a re-parse, clearing the
// module records the old parse populated so registration can re-fill them
// wholesale. There is no incremental diffing.
func (p *Project) UpdateFile(path string, hash ast.FileHash, defs []ast.Definition) error {
	f, ok := p.files[path]
	if !ok {
		return errors.Wrapf(ErrNoProject, "update %s", path)
	}
	p.clearFileModules(f.Hash)
	f.Hash = hash
	f.Defs = defs
	p.version++
	p.log.Debugf("reparsed %s", path)
	return nil
}

// FileFor returns the parsed file for a path.
func (p *Project) FileFor(path string) (*SourceFile, bool) {
	f, ok := p.files[path]
	return f, ok
}

// clearFileModules drops the module records a file's previous parse
// registered. Records are removed, not cleared: a module the new parse
// renames or deletes must not survive as an empty entry under its old name.
func (p *Project) clearFileModules(hash ast.FileHash) {
	for addr, mods := range p.ctx.global.modules {
		for name, ms := range mods {
			if ms.NameLoc.Hash == hash {
				delete(mods, name)
			}
		}
		if len(mods) == 0 {
			delete(p.ctx.global.modules, addr)
		}
	}
}

// RunVisitorForFile runs the visitor over a single file's definitions.
// enterImports controls whether use declarations are entered into visible
// scope, which position queries need and shallow structural consumers skip.
func (p *Project) RunVisitorForFile(h Handler, path string, enterImports bool) error {
	f, ok := p.files[path]
	if !ok {
		return errors.Wrapf(ErrNoProject, "visit %s", path)
	}
	v := &visitor{p: p, ctx: p.ctx, h: h, enterImports: enterImports}
	v.visitFile(f)
	return nil
}

// RunFullVisitor runs the visitor over every module of every dependency,
// dependencies first, plus the root's test sources. This is the expensive
// path; only queries whose target cannot be proven local take it.
func (p *Project) RunFullVisitor(h Handler) error {
	_, span := tracer().Start(context.Background(), "full-visit")
	defer span.End()
	span.SetAttributes(
		attribute.Int("packages", len(p.packages)),
		attribute.Int("modules", p.ctx.global.ModuleCount()),
	)
	v := &visitor{p: p, ctx: p.ctx, h: h, enterImports: true}
	for _, pkg := range p.packages {
		for _, f := range pkg.Files {
			if f.Kind == KindTest {
				continue
			}
			v.visitFile(f)
			if h.Finished() {
				return nil
			}
		}
	}
	if len(p.packages) > 0 {
		root := p.packages[len(p.packages)-1]
		for _, f := range root.Files {
			if f.Kind != KindTest {
				continue
			}
			v.visitFile(f)
			if h.Finished() {
				return nil
			}
		}
	}
	return nil
}
