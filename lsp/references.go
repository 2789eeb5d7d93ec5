// Copyright © 2025 The movan authors

package lsp

import (
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/sema"
)

func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	loc, err := s.locate(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	def, ok := eventDefLoc(s.project, loc.Item, loc.Access, loc.ModuleDef)
	if !ok {
		return nil, nil
	}

	// Locals cannot escape their function's file, so the single-file pass
	// is complete for them and skips the whole-project scan.
	var isLocal bool
	if loc.Item != nil {
		isLocal = sema.IsLocal(loc.Item)
	} else if loc.Access != nil {
		isLocal = sema.IsLocal(loc.Access)
	}

	path := uriToPath(params.TextDocument.URI)
	includeDecl := params.Context.IncludeDeclaration

	s.mu.Lock()
	refs, err := s.index.References(path, def, isLocal, includeDecl)
	s.mu.Unlock()
	if err != nil {
		return nil, nil
	}

	// The index already carries the declaration when asked for it.
	var out []protocol.Location
	for _, r := range refs {
		if location, ok := s.locToLocation(r); ok {
			out = append(out, location)
		}
	}
	return out, nil
}
