// Copyright © 2025 The movan authors

package lsp

import (
	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// InlayHintKind distinguishes parameter-name hints from type hints.
type InlayHintKind int

const (
	HintParameter InlayHintKind = iota
	HintType
)

// InlayHint is one rendered hint. The protocol generation this server
// speaks predates the inlay-hint request, so hints are exposed through
// this API for embedders and newer transports.
type InlayHint struct {
	Kind  InlayHintKind
	Range ast.FileRange
	Label string
}

// InlayHints computes parameter-name and inferred-type hints for one file
// within a line range.
func (s *Server) InlayHints(uri string, lineStart, lineEnd uint32) ([]InlayHint, error) {
	path := uriToPath(uri)
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &hintCollector{
		p:         s.project,
		path:      path,
		lineStart: lineStart,
		lineEnd:   lineEnd,
	}
	if err := s.project.RunVisitorForFile(c, path, true); err != nil {
		return nil, err
	}
	return c.hints, nil
}

// hintCollector turns param/arg pairs into parameter hints and untyped let
// bindings into type hints once their type is fixed.
type hintCollector struct {
	p         *sema.Project
	path      string
	lineStart uint32
	lineEnd   uint32
	hints     []InlayHint
}

func (c *hintCollector) inRange(loc ast.Loc) (ast.FileRange, bool) {
	rng, ok := c.p.ConvertLocRange(loc)
	if !ok || rng.Path != c.path {
		return ast.UnknownRange(), false
	}
	if rng.LineEnd < c.lineStart || rng.LineStart > c.lineEnd {
		return ast.UnknownRange(), false
	}
	return rng, true
}

func (c *hintCollector) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	v, ok := ev.(*sema.ItemVar)
	if !ok || v.HasDeclTy || sema.IsUnknown(v.Ty) {
		return
	}
	if rng, ok := c.inRange(v.Var.Loc); ok {
		c.hints = append(c.hints, InlayHint{
			Kind:  HintType,
			Range: rng,
			Label: ": " + v.Ty.String(),
		})
	}
}

func (c *hintCollector) Finished() bool { return false }

func (c *hintCollector) ShouldVisitBody(rng ast.FileRange) bool {
	if rng.IsUnknown() || rng.Path != c.path {
		return true
	}
	return rng.LineEnd >= c.lineStart && rng.LineStart <= c.lineEnd
}

func (c *hintCollector) HandleParamArgPair(param ast.Name, arg ast.Exp) {
	if param.Value == "" || param.Value == "_" {
		return
	}
	if rng, ok := c.inRange(arg.GetLoc()); ok {
		c.hints = append(c.hints, InlayHint{
			Kind:  HintParameter,
			Range: rng,
			Label: param.Value + ":",
		})
	}
}
