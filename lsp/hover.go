// Copyright © 2025 The movan authors

package lsp

import (
	"github.com/muesli/reflow/wordwrap"
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/sema"
)

const hoverWrapWidth = 80

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	loc, err := s.locate(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}
	text := hoverText(loc.Item, loc.Access)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```move\n" + wordwrap.String(text, hoverWrapWidth) + "\n```",
		},
	}, nil
}

// hoverText renders the matched event. Built-ins show their notices;
// everything else shows the item's declaration form.
func hoverText(item sema.Item, access sema.Access) string {
	if access != nil {
		item = accessTarget(access)
	}
	switch x := item.(type) {
	case nil, *sema.ItemDummy:
		return ""
	case *sema.ItemMoveBuildInFun:
		return x.Kind.Notice()
	case *sema.ItemSpecBuildInFun:
		return x.Kind.Notice()
	default:
		return item.String()
	}
}

// accessTarget pulls the item a use-site resolves to.
func accessTarget(access sema.Access) sema.Item {
	switch x := access.(type) {
	case *sema.AccessExprVar:
		return x.Item
	case *sema.AccessExprAccessChain:
		return x.Item
	case *sema.AccessApplySchemaTo:
		return x.Item
	case *sema.AccessIncludeSchema:
		return x.Item
	case *sema.AccessSpecFor:
		return x.Item
	case *sema.AccessFriend:
		return x.To
	case *sema.AccessFiled:
		if x.Item != nil {
			return x.Item
		}
		return fieldHoverItem(x)
	case *sema.AccessApplyType:
		return typeHoverItem(x.Ty)
	default:
		return nil
	}
}

// fieldHoverItem synthesizes a display item for a plain field access.
func fieldHoverItem(a *sema.AccessFiled) sema.Item {
	return &sema.ItemConst{Name: a.To, Ty: a.Ty}
}

func typeHoverItem(ty sema.ResolvedType) sema.Item {
	switch t := ty.(type) {
	case *sema.TypeStruct:
		return t.Ref
	case *sema.TypeBuildIn:
		return &sema.ItemBuildInType{Kind: t.Kind}
	case *sema.TypeTParam:
		return &sema.ItemTParam{Name: t.Name, Abilities: t.Abilities}
	case *sema.TypeRef:
		return typeHoverItem(t.Inner)
	default:
		return nil
	}
}
