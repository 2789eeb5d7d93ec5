// Copyright © 2025 The movan authors

package lsp

import (
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/sema"
	"github.com/movelang/movan/xref"
)

// locate runs the single-file position query under the server lock.
func (s *Server) locate(uri string, pos protocol.Position) (*xref.Locator, error) {
	path := uriToPath(uri)
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := xref.NewLocator(s.project, path, uint32(pos.Line), uint32(pos.Character))
	if err := loc.Run(); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	loc, err := s.locate(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	def, ok := eventDefLoc(s.project, loc.Item, loc.Access, loc.ModuleDef)
	if !ok {
		return nil, nil
	}
	location, ok := s.locToLocation(def)
	if !ok {
		return nil, nil
	}
	return location, nil
}

func (s *Server) textDocumentTypeDefinition(_ *glsp.Context, params *protocol.TypeDefinitionParams) (any, error) {
	loc, err := s.locate(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	ty := eventType(loc.Item, loc.Access)
	if ty == nil {
		return nil, nil
	}
	def := sema.TypeDefLoc(ty)
	if def.IsUnknown() {
		return nil, nil
	}
	location, ok := s.locToLocation(def)
	if !ok {
		return nil, nil
	}
	return location, nil
}

// eventType extracts the resolved type behind a matched event.
func eventType(item sema.Item, access sema.Access) sema.ResolvedType {
	switch x := access.(type) {
	case *sema.AccessApplyType:
		return x.Ty
	case *sema.AccessExprVar:
		return sema.ItemType(x.Item)
	case *sema.AccessExprAccessChain:
		return sema.ItemType(x.Item)
	case *sema.AccessFiled:
		return x.Ty
	}
	if item != nil {
		return sema.ItemType(item)
	}
	return nil
}
