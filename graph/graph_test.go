// Copyright © 2025 The movan authors

package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

type gfix struct {
	hash ast.FileHash
	next uint32
}

func (fx *gfix) loc() ast.Loc {
	fx.next += 16
	return ast.Loc{Hash: fx.hash, Start: fx.next, End: fx.next + 8}
}

func (fx *gfix) name(s string) ast.Name {
	return ast.Name{Loc: fx.loc(), Value: s}
}

func (fx *gfix) namedType(s string, targs ...ast.Type) *ast.ApplyType {
	n := fx.name(s)
	return &ast.ApplyType{Loc: n.Loc, Chain: &ast.NameAccessChain{
		Loc:    n.Loc,
		Single: &ast.PathEntry{Name: n, TypeArgs: targs},
	}}
}

func (fx *gfix) callTo(s string) *ast.CallExp {
	n := fx.name(s)
	chain := &ast.NameAccessChain{Loc: n.Loc, Single: &ast.PathEntry{Name: n}}
	return &ast.CallExp{Loc: n.Loc, Chain: chain}
}

func (fx *gfix) emptyBody() *ast.FunctionBody {
	return &ast.FunctionBody{Loc: fx.loc(), Seq: &ast.Sequence{}}
}

// graphProject builds:
//
//	module 0x2::m {
//	    struct A { b: B, items: vector<B> }
//	    struct B { x: u64 }
//	    fun f() { g(); }
//	    fun g() {}
//	}
func graphProject(t *testing.T) *sema.Project {
	t.Helper()
	fx := &gfix{hash: "g.move"}
	addr := ast.LeadingNameAccess{
		Loc:  fx.loc(),
		Kind: ast.LeadingAnonAddress,
		Addr: ast.MustAddressFromHex("0x2"),
	}

	structA := &ast.StructDefinition{
		Loc:  fx.loc(),
		Name: fx.name("A"),
		Fields: []ast.StructField{
			{Field: fx.name("b"), Type: fx.namedType("B")},
			{Field: fx.name("items"), Type: fx.namedType("vector", fx.namedType("B"))},
		},
	}
	structB := &ast.StructDefinition{
		Loc:  fx.loc(),
		Name: fx.name("B"),
		Fields: []ast.StructField{
			{Field: fx.name("x"), Type: fx.namedType("u64")},
		},
	}
	funF := &ast.Function{
		Loc:  fx.loc(),
		Name: fx.name("f"),
		Body: &ast.FunctionBody{
			Loc: fx.loc(),
			Seq: &ast.Sequence{Items: []ast.SequenceItem{&ast.SeqExp{Exp: fx.callTo("g")}}},
		},
	}
	funG := &ast.Function{
		Loc:  fx.loc(),
		Name: fx.name("g"),
		Body: fx.emptyBody(),
	}
	mod := &ast.ModuleDefinition{
		Loc:     fx.loc(),
		Address: &addr,
		Name:    fx.name("m"),
		Members: []ast.ModuleMember{structA, structB, funF, funG},
	}

	p := sema.NewProject(nil, nil)
	pkg := p.AddPackage("fixture")
	p.AddFile(pkg, "/src/g.move", fx.hash, sema.KindSource, []ast.Definition{mod})
	return p
}

func TestStructGraphEdges(t *testing.T) {
	p := graphProject(t)
	g := NewStructGraph()
	require.NoError(t, p.RunFullVisitor(g))

	key := sema.ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "m"}
	a := Node{Module: key, Name: "A"}
	b := Node{Module: key, Name: "B"}

	// Direct and vector-element dependencies collapse into one edge.
	assert.Equal(t, []Node{b}, g.Edges[a])
	assert.Empty(t, g.Edges[b])
}

func TestStructGraphDotDeterministic(t *testing.T) {
	p := graphProject(t)
	first := ""
	for i := 0; i < 3; i++ {
		g := NewStructGraph()
		require.NoError(t, p.RunFullVisitor(g))
		dot := g.Dot()
		assert.True(t, strings.HasPrefix(dot, "digraph structs {"))
		assert.Contains(t, dot, `"0x2::m::A" -> "0x2::m::B";`)
		if first == "" {
			first = dot
		}
		assert.Equal(t, first, dot)
	}
}

func TestCallGraph(t *testing.T) {
	p := graphProject(t)
	g := NewCallGraph()
	require.NoError(t, p.RunFullVisitor(g))

	key := sema.ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "m"}
	f := sema.FunID{Module: key, Name: "f"}
	gid := sema.FunID{Module: key, Name: "g"}
	assert.Equal(t, []sema.FunID{gid}, g.Edges[f])

	dot := g.Dot()
	assert.Contains(t, dot, `"0x2::m::f" -> "0x2::m::g";`)
}
