// Copyright © 2025 The movan authors

package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/ast"
)

const refContent = "module 0x2::m {\n" +
	"  const K: u64 = 1;\n" +
	"  fun a() {\n" +
	"    K;\n" +
	"    K;\n" +
	"  }\n" +
	"}\n"

const refHash = ast.FileHash("m.move")

// fixedParser serves one pre-built parse regardless of content.
type fixedParser struct {
	hash ast.FileHash
	defs []ast.Definition
}

func (p *fixedParser) ParseFile(string, string) (ast.FileHash, []ast.Definition, error) {
	return p.hash, p.defs, nil
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {}}
}

// lineColOf maps a byte offset of refContent to 0-based line and column.
func lineColOf(offset uint32) (line, col uint32) {
	for i := uint32(0); i < offset; i++ {
		if refContent[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// refDocDefs builds the parse of refContent with locations that match its
// actual byte offsets, so the document line table translates them.
func refDocDefs(t *testing.T) (defs []ast.Definition, kDef, use1, use2 ast.Loc) {
	t.Helper()
	span := func(start, n int) ast.Loc {
		return ast.Loc{Hash: refHash, Start: uint32(start), End: uint32(start + n)}
	}
	single := func(loc ast.Loc, value string) *ast.NameAccessChain {
		return &ast.NameAccessChain{
			Loc:    loc,
			Single: &ast.PathEntry{Name: ast.Name{Loc: loc, Value: value}},
		}
	}

	var ks []int
	for i := 0; i < len(refContent); i++ {
		if refContent[i] == 'K' {
			ks = append(ks, i)
		}
	}
	require.Len(t, ks, 3)
	kDef, use1, use2 = span(ks[0], 1), span(ks[1], 1), span(ks[2], 1)

	u64At := strings.Index(refContent, "u64")
	oneAt := strings.Index(refContent, "= 1") + 2
	k := &ast.Constant{
		Loc:       kDef,
		Name:      ast.Name{Loc: kDef, Value: "K"},
		Signature: &ast.ApplyType{Loc: span(u64At, 3), Chain: single(span(u64At, 3), "u64")},
		Value:     &ast.ValueExp{Loc: span(oneAt, 1), Kind: ast.ValueNum, Lit: "1"},
	}

	funStart := strings.Index(refContent, "fun a")
	funEnd := strings.Index(refContent, "  }") + 3
	fun := &ast.Function{
		Loc:  ast.Loc{Hash: refHash, Start: uint32(funStart), End: uint32(funEnd)},
		Name: ast.Name{Loc: span(funStart+4, 1), Value: "a"},
		Body: &ast.FunctionBody{
			Loc: ast.Loc{Hash: refHash, Start: uint32(funStart + 8), End: uint32(funEnd)},
			Seq: &ast.Sequence{Items: []ast.SequenceItem{
				&ast.SeqExp{Exp: &ast.NameExp{Loc: use1, Chain: single(use1, "K")}},
				&ast.SeqExp{Exp: &ast.NameExp{Loc: use2, Chain: single(use2, "K")}},
			}},
		},
	}

	addr := ast.LeadingNameAccess{
		Loc:  span(strings.Index(refContent, "0x2"), 3),
		Kind: ast.LeadingAnonAddress,
		Addr: ast.MustAddressFromHex("0x2"),
	}
	mAt := strings.Index(refContent, "::m") + 2
	mod := &ast.ModuleDefinition{
		Loc:     ast.Loc{Hash: refHash, Start: 0, End: uint32(len(refContent))},
		Address: &addr,
		Name:    ast.Name{Loc: span(mAt, 1), Value: "m"},
		Members: []ast.ModuleMember{k, fun},
	}
	return []ast.Definition{mod}, kDef, use1, use2
}

func openRefDoc(t *testing.T, s *Server) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(mockContext(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///src/m.move",
			LanguageID: "move",
			Version:    1,
			Text:       refContent,
		},
	}))
}

func referencesAt(t *testing.T, s *Server, offset uint32, includeDecl bool) []protocol.Location {
	t.Helper()
	line, col := lineColOf(offset)
	locs, err := s.textDocumentReferences(mockContext(), &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///src/m.move"},
			Position: protocol.Position{
				Line:      protocol.UInteger(line),
				Character: protocol.UInteger(col),
			},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: includeDecl},
	})
	require.NoError(t, err)
	return locs
}

func TestReferencesIncludesDeclarationOnce(t *testing.T) {
	defs, kDef, _, use2 := refDocDefs(t)
	s := New(WithParser(&fixedParser{hash: refHash, defs: defs}))
	openRefDoc(t, s)

	locs := referencesAt(t, s, use2.Start, true)
	require.Len(t, locs, 3, "declaration + 2 uses")

	declLine, _ := lineColOf(kDef.Start)
	declCount := 0
	for _, l := range locs {
		if l.Range.Start.Line == protocol.UInteger(declLine) {
			declCount++
		}
	}
	assert.Equal(t, 1, declCount, "declaration must appear exactly once")
}

func TestReferencesExcludesDeclaration(t *testing.T) {
	defs, kDef, _, use2 := refDocDefs(t)
	s := New(WithParser(&fixedParser{hash: refHash, defs: defs}))
	openRefDoc(t, s)

	locs := referencesAt(t, s, use2.Start, false)
	require.Len(t, locs, 2, "only the 2 uses")

	declLine, _ := lineColOf(kDef.Start)
	for _, l := range locs {
		assert.NotEqual(t, protocol.UInteger(declLine), l.Range.Start.Line)
	}
}
