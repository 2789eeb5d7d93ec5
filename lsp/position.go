// Copyright © 2025 The movan authors

package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}

func safeUint(n uint32) protocol.UInteger {
	return protocol.UInteger(n)
}

// rangeToLSP converts an engine file range to an LSP range.
func rangeToLSP(rng ast.FileRange) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(rng.LineStart), Character: safeUint(rng.ColStart)},
		End:   protocol.Position{Line: safeUint(rng.LineEnd), Character: safeUint(rng.ColEnd)},
	}
}

// locToLocation translates a byte-offset location to an LSP location; ok is
// false when the file hash is stale and the result must be dropped.
func (s *Server) locToLocation(loc ast.Loc) (protocol.Location, bool) {
	rng, ok := s.project.ConvertLocRange(loc)
	if !ok {
		return protocol.Location{}, false
	}
	return protocol.Location{
		URI:   pathToURI(rng.Path),
		Range: rangeToLSP(rng),
	}, true
}

func boolPtr(b bool) *bool { return &b }

// eventDefLoc extracts the definition location a navigation query should
// land on for one matched event.
func eventDefLoc(p *sema.Project, item sema.Item, access sema.Access, moduleDef ast.Loc) (ast.Loc, bool) {
	if !moduleDef.IsUnknown() {
		return moduleDef, true
	}
	if access != nil {
		// A use line binding navigates through to the imported definition.
		_, def := access.AccessLoc()
		if !def.IsUnknown() {
			return def, true
		}
		return ast.UnknownLoc(), false
	}
	if item == nil {
		return ast.UnknownLoc(), false
	}
	if use, ok := item.(*sema.ItemUse); ok {
		if target, found := useTarget(p, use); found {
			return target, true
		}
	}
	def := item.DefLoc()
	return def, !def.IsUnknown()
}

// useTarget resolves a use binding to the imported definition's location.
func useTarget(p *sema.Project, use *sema.ItemUse) (ast.Loc, bool) {
	for _, e := range use.Entries {
		switch x := e.(type) {
		case *sema.ItemUseModule:
			if ms, ok := p.Context().Global().Lookup(x.Module); ok {
				return ms.NameLoc, true
			}
		case *sema.ItemUseMember:
			ms, ok := p.Context().Global().Lookup(x.Module)
			if !ok {
				continue
			}
			if it, ok := ms.FindMember(x.Name.Value, false); ok {
				return it.DefLoc(), true
			}
		}
	}
	return ast.UnknownLoc(), false
}
