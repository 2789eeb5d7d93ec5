// Copyright © 2025 The movan authors

package sema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelang/movan/ast"
)

func findFun(events []ItemOrAccess, name string) *ItemFun {
	for _, ev := range events {
		if f, ok := ev.(*ItemFun); ok && f.Name.Value == name {
			return f
		}
	}
	return nil
}

func findStruct(events []ItemOrAccess, name string) *ItemStruct {
	for _, ev := range events {
		if s, ok := ev.(*ItemStruct); ok && s.Name.Value == name {
			return s
		}
	}
	return nil
}

func findConst(events []ItemOrAccess, name string) *ItemConst {
	for _, ev := range events {
		if c, ok := ev.(*ItemConst); ok && c.Name.Value == name {
			return c
		}
	}
	return nil
}

// chainAccesses returns every chain access whose final segment matches name,
// in traversal order.
func chainAccesses(events []ItemOrAccess, name string) []*AccessExprAccessChain {
	var out []*AccessExprAccessChain
	for _, ev := range events {
		if a, ok := ev.(*AccessExprAccessChain); ok && a.Chain.LastName().Value == name {
			out = append(out, a)
		}
	}
	return out
}

func TestModuleRegistration(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))

	var mods []string
	for _, ev := range h.events {
		if m, ok := ev.(*ItemModuleName); ok {
			mods = append(mods, m.Name.Value)
		}
	}
	assert.Equal(t, []string{"coin", "other"}, mods)

	key := ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "coin"}
	ms, ok := p.Context().Global().Lookup(key)
	require.True(t, ok)
	assert.False(t, ms.NameLoc.IsUnknown())
	assert.Equal(t, 2, p.Context().Global().ModuleCount())
}

func TestConstantType(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))

	c := findConst(h.events, "MAX")
	require.NotNil(t, c)
	assert.Equal(t, "u64", c.Ty.String())
	assert.False(t, c.IsSpec)
}

func TestForwardStructReference(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))

	// Wallet is declared before Coin; its field still resolves through the
	// placeholder registered ahead of struct bodies.
	wallet := findStruct(h.events, "Wallet")
	require.NotNil(t, wallet)
	require.Len(t, wallet.Fields, 1)
	st, ok := wallet.Fields[0].Ty.(*TypeStruct)
	require.True(t, ok, "field type %s", wallet.Fields[0].Ty)
	assert.Equal(t, "Coin", st.Ref.Name.Value)
	require.Len(t, st.TypeArgs, 1)
	assert.Equal(t, "u64", st.TypeArgs[0].String())
}

func TestFieldAccessThroughGenericRef(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	// &c.value with c: &Coin<T> resolves to &T: generics substituted, the
	// reference re-wrapped onto the field type.
	var dot *AccessFiled
	for _, ev := range h.events {
		if a, ok := ev.(*AccessFiled); ok && a.HasRef != nil && *a.HasRef {
			dot = a
			break
		}
	}
	require.NotNil(t, dot)
	assert.Equal(t, "value", dot.From.Value)
	assert.Equal(t, "&T", dot.Ty.String())
	assert.Contains(t, dot.AllFields, "value")
}

func TestPackResolvesFields(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	var pack *AccessFiled
	for _, ev := range h.events {
		if a, ok := ev.(*AccessFiled); ok && a.HasRef == nil {
			pack = a
			break
		}
	}
	require.NotNil(t, pack)
	assert.Equal(t, "value", pack.From.Value)
	// The field definition location comes from the struct, not the literal.
	assert.NotEqual(t, pack.From.Loc, pack.To.Loc)
}

func TestModuleAliasCall(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	calls := chainAccesses(h.events, "make")
	require.Len(t, calls, 1)
	fun, ok := calls[0].Item.(*ItemFun)
	require.True(t, ok, "resolved to %T", calls[0].Item)
	assert.Equal(t, "make", fun.Name.Value)
	require.NotNil(t, calls[0].Module)
	assert.Equal(t, "coin", calls[0].Module.Name.Value)
}

func TestMemberAliasCall(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	calls := chainAccesses(h.events, "gv")
	require.Len(t, calls, 1)
	fun, ok := calls[0].Item.(*ItemFun)
	require.True(t, ok, "resolved to %T", calls[0].Item)
	assert.Equal(t, "get_value", fun.Name.Value)
}

func TestLocalTypedFromCall(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	for _, ev := range h.events {
		if v, ok := ev.(*ItemVar); ok && v.Var.Value == "c" {
			assert.Equal(t, "Coin<u64>", v.Ty.String())
			return
		}
	}
	t.Fatal("local c never bound")
}

func TestInternalVisibility(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	calls := chainAccesses(h.events, "internal_only")
	require.Len(t, calls, 1)
	assert.IsType(t, &ItemDummy{}, calls[0].Item)
	// The qualifier still resolves for click-through even when the member
	// is inaccessible.
	require.NotNil(t, calls[0].Module)
	assert.Equal(t, "coin", calls[0].Module.Name.Value)
}

func TestFriendVisibility(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	calls := chainAccesses(h.events, "friendly")
	require.Len(t, calls, 1)
	fun, ok := calls[0].Item.(*ItemFun)
	require.True(t, ok, "friend call resolved to %T", calls[0].Item)
	assert.Equal(t, ast.VisFriend, fun.Vis)
}

func TestTestOnlyGating(t *testing.T) {
	p, _ := coinProject()
	h := &bodyRecorder{}
	require.NoError(t, p.RunFullVisitor(h))

	calls := chainAccesses(h.events, "test_helper")
	require.Len(t, calls, 2)
	// From a plain function the test-only helper is invisible; from a #[test]
	// function it resolves.
	assert.IsType(t, &ItemDummy{}, calls[0].Item)
	assert.IsType(t, &ItemFun{}, calls[1].Item)
}

func TestFriendDeclarationAccess(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))

	var friend *AccessFriend
	for _, ev := range h.events {
		if a, ok := ev.(*AccessFriend); ok {
			friend = a
			break
		}
	}
	require.NotNil(t, friend)
	assert.Equal(t, "other", friend.To.Name.Value)
	assert.Equal(t, ast.MustAddressFromHex("0x4"), friend.To.Module.Addr)
}

func TestUseBindingDefLocPrefersAlias(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))

	for _, ev := range h.events {
		use, ok := ev.(*ItemUse)
		if !ok {
			continue
		}
		switch e := use.Entries[0].(type) {
		case *ItemUseModule:
			require.NotNil(t, e.Alias)
			assert.Equal(t, e.Alias.Loc, use.DefLoc())
		case *ItemUseMember:
			require.NotNil(t, e.Alias)
			assert.Equal(t, e.Alias.Loc, use.DefLoc())
		}
	}
}

func TestEarlyFinishRestoresScopes(t *testing.T) {
	p, _ := coinProject()
	for limit := 1; limit <= 12; limit++ {
		h := &bodyRecorder{recorder: recorder{limit: limit}}
		require.NoError(t, p.RunFullVisitor(h))
		assert.Equal(t, 1, p.Context().ScopeDepth(), "limit %d", limit)
		assert.Len(t, h.events, limit)
	}
}

func TestDeterministicEventOrder(t *testing.T) {
	p, _ := coinProject()
	shape := func() []string {
		h := &bodyRecorder{}
		require.NoError(t, p.RunFullVisitor(h))
		out := make([]string, len(h.events))
		for i, ev := range h.events {
			out[i] = fmt.Sprintf("%T", ev)
			if it, ok := ev.(Item); ok {
				out[i] += ":" + it.String()
			}
		}
		return out
	}
	first := shape()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, shape())
	}
}

func TestUpdateFileClearsModules(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))
	v0 := p.Version()

	// Replace the file with a single empty module under the same address.
	fx2 := newFixture("coin2.move")
	addr := fx2.anon("0x2")
	defs := []ast.Definition{&ast.ModuleDefinition{
		Loc:     fx2.loc(),
		Address: &addr,
		Name:    fx2.name("coin"),
	}}
	require.NoError(t, p.UpdateFile("/src/coin.move", fx2.hash, defs))
	assert.Greater(t, p.Version(), v0)

	h2 := &recorder{}
	require.NoError(t, p.RunFullVisitor(h2))
	key := ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "coin"}
	ms, ok := p.Context().Global().Lookup(key)
	require.True(t, ok)
	_, found := ms.FindMember("make", false)
	assert.False(t, found, "stale member survived re-parse")
}

func TestUpdateFileDropsRenamedModule(t *testing.T) {
	p, _ := coinProject()
	require.NoError(t, p.RunFullVisitor(&recorder{}))

	// The re-parse renames 0x2::coin to 0x2::bank and drops 0x4::other.
	fx2 := newFixture("coin2.move")
	addr := fx2.anon("0x2")
	defs := []ast.Definition{&ast.ModuleDefinition{
		Loc:     fx2.loc(),
		Address: &addr,
		Name:    fx2.name("bank"),
	}}
	require.NoError(t, p.UpdateFile("/src/coin.move", fx2.hash, defs))
	require.NoError(t, p.RunFullVisitor(&recorder{}))

	g := p.Context().Global()
	_, ok := g.Lookup(ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "coin"})
	assert.False(t, ok, "renamed module survived under its old name")
	_, ok = g.Lookup(ModuleKey{Addr: ast.MustAddressFromHex("0x4"), Name: "other"})
	assert.False(t, ok, "deleted module survived")
	_, ok = g.Lookup(ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "bank"})
	require.True(t, ok)
	assert.Equal(t, 1, g.ModuleCount())
}

func TestUpdateUnknownFile(t *testing.T) {
	p, _ := coinProject()
	err := p.UpdateFile("/src/nope.move", "x", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestShallowHandlerSkipsBodies(t *testing.T) {
	p, _ := coinProject()
	h := &recorder{}
	require.NoError(t, p.RunFullVisitor(h))
	for _, ev := range h.events {
		_, isVar := ev.(*ItemVar)
		_, isParam := ev.(*ItemParam)
		assert.False(t, isVar || isParam, "body event %T from shallow pass", ev)
	}
}

func TestTryFixLocalVarTy(t *testing.T) {
	ctx := NewProjectContext()
	pop := ctx.EnterScope()
	defer pop()

	v := &ItemVar{Var: ast.Name{Value: "x"}, Ty: UnknownType()}
	ctx.EnterItem("x", v)

	ctx.TryFixLocalVarTy("x", NewBuildIn(BuildInU64))
	assert.Equal(t, "u64", v.Ty.String())

	// First write wins.
	ctx.TryFixLocalVarTy("x", NewBuildIn(BuildInBool))
	assert.Equal(t, "u64", v.Ty.String())

	// Declared types are never overwritten.
	d := &ItemVar{Var: ast.Name{Value: "y"}, Ty: UnknownType(), HasDeclTy: true}
	ctx.EnterItem("y", d)
	ctx.TryFixLocalVarTy("y", NewBuildIn(BuildInU64))
	assert.True(t, IsUnknown(d.Ty))
}

func TestUnderscoreNeverBinds(t *testing.T) {
	ctx := NewProjectContext()
	pop := ctx.EnterScope()
	defer pop()

	ctx.EnterItem("_", &ItemVar{Var: ast.Name{Value: "_"}})
	item, _ := ctx.findSingle("_")
	assert.IsType(t, &ItemDummy{}, item)
}
