// Copyright © 2025 The movan authors

package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelang/movan/ast"
)

func tparam(name string) *TypeTParam {
	return &TypeTParam{Name: ast.Name{Value: name}}
}

func structType(module, name string, args ...ResolvedType) *TypeStruct {
	return &TypeStruct{
		Ref: &ItemStructNameRef{
			Addr:       ast.MustAddressFromHex("0x2"),
			ModuleName: module,
			Name:       ast.Name{Value: name},
		},
		TypeArgs: args,
	}
}

func TestTypesEqualIgnoresReferences(t *testing.T) {
	u64 := NewBuildIn(BuildInU64)
	assert.True(t, TypesEqual(u64, u64))
	assert.True(t, TypesEqual(NewRef(false, u64), u64))
	assert.True(t, TypesEqual(u64, NewRef(true, u64)))
	assert.True(t, TypesEqual(NewRef(true, u64), NewRef(false, u64)))
	assert.False(t, TypesEqual(u64, NewBuildIn(BuildInBool)))
}

func TestTypesEqualStructsByIdentity(t *testing.T) {
	a := structType("coin", "Coin", NewBuildIn(BuildInU64))
	b := structType("coin", "Coin", NewBuildIn(BuildInU8))
	c := structType("coin", "Treasury")
	// Instantiations do not split identity; different names do.
	assert.True(t, TypesEqual(a, b))
	assert.False(t, TypesEqual(a, c))
}

func TestTypesEqualTuples(t *testing.T) {
	a := &TypeMultiple{Types: []ResolvedType{NewBuildIn(BuildInU64), NewBuildIn(BuildInBool)}}
	b := &TypeMultiple{Types: []ResolvedType{NewRef(false, NewBuildIn(BuildInU64)), NewBuildIn(BuildInBool)}}
	short := &TypeMultiple{Types: []ResolvedType{NewBuildIn(BuildInU64)}}
	assert.True(t, TypesEqual(a, b))
	assert.False(t, TypesEqual(a, short))
}

func TestBindTypeParameters(t *testing.T) {
	subst := map[string]ResolvedType{"T": NewBuildIn(BuildInU64)}

	vec := NewVector(tparam("T"))
	bound := BindTypeParameters(vec, subst)
	assert.Equal(t, "vector<u64>", bound.String())
	// The input tree is untouched.
	assert.Equal(t, "vector<T>", vec.String())

	st := structType("coin", "Coin", tparam("T"))
	assert.Equal(t, "Coin<u64>", BindTypeParameters(st, subst).String())
	assert.Equal(t, "Coin<T>", st.String())

	ref := NewRef(true, tparam("T"))
	assert.Equal(t, "&mut u64", BindTypeParameters(ref, subst).String())

	lam := &TypeLambda{Args: []ResolvedType{tparam("T")}, Ret: tparam("T")}
	assert.Equal(t, "|u64| u64", BindTypeParameters(lam, subst).String())

	// Unbound parameters pass through.
	assert.Equal(t, "U", BindTypeParameters(tparam("U"), subst).String())
}

func TestNthType(t *testing.T) {
	tuple := &TypeMultiple{Types: []ResolvedType{NewBuildIn(BuildInU64), NewBuildIn(BuildInBool)}}
	assert.Equal(t, "u64", NthType(tuple, 0).String())
	assert.Equal(t, "bool", NthType(tuple, 1).String())
	assert.True(t, IsUnknown(NthType(tuple, 2)))
	// Non-tuples project to themselves.
	assert.Equal(t, "u64", NthType(NewBuildIn(BuildInU64), 5).String())
}

func TestStripRef(t *testing.T) {
	u64 := NewBuildIn(BuildInU64)
	assert.Equal(t, u64, StripRef(NewRef(true, u64)))
	assert.Equal(t, u64, StripRef(u64))
	// Only one layer comes off.
	nested := NewRef(false, NewRef(false, u64))
	_, stillRef := StripRef(nested).(*TypeRef)
	assert.True(t, stillRef)
}

func TestStructBindTypeArgs(t *testing.T) {
	st := &ItemStruct{
		Addr:           ast.MustAddressFromHex("0x2"),
		ModuleName:     "coin",
		Name:           ast.Name{Value: "Coin"},
		TypeParameters: []ast.DatatypeTypeParameter{{Name: ast.Name{Value: "T"}}},
		Fields: []StructFieldItem{
			{Name: ast.Name{Value: "value"}, Ty: tparam("T")},
		},
	}
	bound := st.BindTypeArgs([]ResolvedType{NewBuildIn(BuildInU64)})
	ft, ok := bound.FieldType("value")
	require.True(t, ok)
	assert.Equal(t, "u64", ft.String())
	// The registered item keeps its parametric fields.
	orig, _ := st.FieldType("value")
	assert.Equal(t, "T", orig.String())
}

func TestTypeDefLoc(t *testing.T) {
	loc := ast.Loc{Hash: "f", Start: 4, End: 8}
	tp := &TypeTParam{Name: ast.Name{Loc: loc, Value: "T"}}
	assert.Equal(t, loc, TypeDefLoc(tp))
	assert.Equal(t, loc, TypeDefLoc(NewRef(false, tp)))
	assert.True(t, TypeDefLoc(NewBuildIn(BuildInU64)).IsUnknown())
}

func TestBuildInTypeFromName(t *testing.T) {
	for _, name := range NumTypeNames() {
		k, ok := BuildInTypeFromName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, k.String())
	}
	_, ok := BuildInTypeFromName("vector")
	assert.False(t, ok)
}

func TestSpecConstantsInSpecScope(t *testing.T) {
	ctx := NewProjectContext()
	// MAX_U64 and friends are spec-only: absent from the value floor,
	// present once the spec builtins are entered.
	item, _ := ctx.findSingle("MAX_U64")
	assert.IsType(t, &ItemDummy{}, item)

	pop := ctx.EnterScope()
	defer pop()
	enterSpecBuiltins(ctx.innermost())
	item, _ = ctx.findSingle("MAX_U64")
	c, ok := item.(*ItemConst)
	require.True(t, ok)
	assert.True(t, c.IsSpec)
}
