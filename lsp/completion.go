// Copyright © 2025 The movan authors

package lsp

import (
	"sort"

	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &completionCollector{
		p:    s.project,
		path: path,
		line: uint32(params.Position.Line),
		col:  uint32(params.Position.Character),
	}
	if err := s.project.RunVisitorForFile(c, path, true); err != nil {
		return nil, nil
	}

	names := make([]string, 0, len(c.candidates))
	for name := range c.candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		it := c.candidates[name]
		kind := completionKind(it)
		detail := it.String()
		label := name
		items = append(items, protocol.CompletionItem{
			Label:  label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

// completionCollector snapshots the visible bindings at the event closest
// to the cursor. Field accesses near the cursor contribute the owning
// struct's field map instead.
type completionCollector struct {
	p          *sema.Project
	path       string
	line, col  uint32
	candidates map[string]sema.Item
	passed     bool
}

func (c *completionCollector) HandleItemOrAccess(_ *sema.Project, ctx *sema.ProjectContext, ev sema.ItemOrAccess) {
	if c.passed {
		return
	}
	var loc ast.Loc
	switch x := ev.(type) {
	case sema.Access:
		loc, _ = x.AccessLoc()
		if af, ok := x.(*sema.AccessFiled); ok && c.near(loc) {
			fields := make(map[string]sema.Item, len(af.AllFields))
			for name, f := range af.AllFields {
				fields[name] = &sema.ItemConst{Name: f.Name, Ty: f.Ty}
			}
			c.candidates = fields
			c.passed = true
			return
		}
	case sema.Item:
		loc = x.DefLoc()
	}
	rng, ok := c.p.ConvertLocRange(loc)
	if !ok || rng.Path != c.path {
		return
	}
	if rng.LineStart > c.line || (rng.LineStart == c.line && rng.ColStart > c.col) {
		c.passed = true
		return
	}
	c.candidates = ctx.CollectItems(true)
}

func (c *completionCollector) near(loc ast.Loc) bool {
	rng, ok := c.p.ConvertLocRange(loc)
	if !ok || rng.Path != c.path {
		return false
	}
	return rng.Contains(c.line, c.col)
}

func (c *completionCollector) Finished() bool { return c.passed }

// ShouldVisitBody admits bodies up to and including the cursor's.
func (c *completionCollector) ShouldVisitBody(rng ast.FileRange) bool {
	if rng.IsUnknown() || rng.Path != c.path {
		return true
	}
	if rng.LineStart > c.line {
		return false
	}
	return true
}

func completionKind(it sema.Item) protocol.CompletionItemKind {
	switch it.(type) {
	case *sema.ItemFun, *sema.ItemMoveBuildInFun, *sema.ItemSpecBuildInFun:
		return protocol.CompletionItemKindFunction
	case *sema.ItemStruct, *sema.ItemStructNameRef:
		return protocol.CompletionItemKindStruct
	case *sema.ItemConst:
		return protocol.CompletionItemKindConstant
	case *sema.ItemBuildInType, *sema.ItemTParam:
		return protocol.CompletionItemKindTypeParameter
	case *sema.ItemModuleName, *sema.ItemUse:
		return protocol.CompletionItemKindModule
	case *sema.ItemSpecSchema:
		return protocol.CompletionItemKindInterface
	default:
		return protocol.CompletionItemKindVariable
	}
}
