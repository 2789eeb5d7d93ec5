// Copyright © 2025 The movan authors

package specgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

func TestGenerateSkeleton(t *testing.T) {
	g := New()
	key := sema.ModuleKey{Addr: ast.MustAddressFromHex("0x2"), Name: "coin"}

	g.HandleItemOrAccess(nil, nil, &sema.ItemFun{
		Name:   ast.Name{Value: "transfer"},
		Module: key,
		TypeParameters: []sema.FunTParam{
			{Name: ast.Name{Value: "T"}},
		},
		Parameters: []sema.FunParam{
			{Var: ast.Name{Value: "amount"}, Ty: sema.NewBuildIn(sema.BuildInU64)},
		},
		Ret: sema.NewBuildIn(sema.BuildInBool),
	})
	g.HandleItemOrAccess(nil, nil, &sema.ItemStruct{
		Addr:       key.Addr,
		ModuleName: key.Name,
		Name:       ast.Name{Value: "Coin"},
	})

	out := g.Generate("coin")
	assert.Contains(t, out, "spec coin {")
	assert.Contains(t, out, "pragma verify = true;")
	assert.Contains(t, out, "spec transfer<T>(amount: u64): bool {")
	assert.Contains(t, out, "aborts_if false;")
	assert.Contains(t, out, "spec Coin {")
	assert.Contains(t, out, "invariant true;")
}

func TestGenerateSkipsTestAndSpecItems(t *testing.T) {
	g := New()
	g.HandleItemOrAccess(nil, nil, &sema.ItemFun{
		Name:   ast.Name{Value: "helper"},
		IsTest: ast.AttrTestOnly,
	})
	g.HandleItemOrAccess(nil, nil, &sema.ItemFun{
		Name:   ast.Name{Value: "ghost"},
		IsSpec: true,
	})
	g.HandleItemOrAccess(nil, nil, &sema.ItemStruct{
		Name:   ast.Name{Value: "Harness"},
		IsTest: true,
	})

	out := g.Generate("m")
	assert.NotContains(t, out, "helper")
	assert.NotContains(t, out, "ghost")
	assert.NotContains(t, out, "Harness")
}

func TestGenerateUnitReturnOmitted(t *testing.T) {
	g := New()
	g.HandleItemOrAccess(nil, nil, &sema.ItemFun{
		Name: ast.Name{Value: "noop"},
		Ret:  sema.UnitType(),
	})
	out := g.Generate("m")
	assert.Contains(t, out, "spec noop() {")
}
