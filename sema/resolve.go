// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// ResolveType converts a syntactic type to a ResolvedType against the
// current scope stack. Unresolvable names degrade to Unknown.
func (c *ProjectContext) ResolveType(ty ast.Type, n2a ast.Name2Addr) ResolvedType {
	if ty == nil {
		return UnknownType()
	}
	switch t := ty.(type) {
	case *ast.ApplyType:
		return c.resolveApplyType(t, n2a)
	case *ast.RefType:
		return &TypeRef{Mut: t.Mut, Inner: c.ResolveType(t.Inner, n2a)}
	case *ast.FunType:
		args := make([]ResolvedType, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.ResolveType(a, n2a)
		}
		ret := UnitType()
		if t.Ret != nil {
			ret = c.ResolveType(t.Ret, n2a)
		}
		return &TypeLambda{Args: args, Ret: ret}
	case *ast.UnitType:
		return UnitType()
	case *ast.MultipleType:
		out := make([]ResolvedType, len(t.Types))
		for i, x := range t.Types {
			out[i] = c.ResolveType(x, n2a)
		}
		return &TypeMultiple{Types: out}
	default:
		return UnknownType()
	}
}

// resolveApplyType handles named types. vector is special-cased before name
// lookup; struct types get their argument list replaced with the resolved
// actual arguments so later substitution has concrete targets.
func (c *ProjectContext) resolveApplyType(t *ast.ApplyType, n2a ast.Name2Addr) ResolvedType {
	chain := t.Chain
	if chain.Single != nil && chain.Single.Name.Value == "vector" {
		elem := UnknownType()
		if args := chain.Single.TypeArgs; len(args) > 0 {
			elem = c.ResolveType(args[0], n2a)
		}
		return NewVector(elem)
	}
	item, _ := c.FindNameChainType(chain, n2a)
	resolved := ItemType(item)
	st, ok := resolved.(*TypeStruct)
	if !ok {
		return resolved
	}
	astArgs := chain.LastTypeArgs()
	args := make([]ResolvedType, len(st.Ref.TypeParameters))
	for i := range args {
		if i < len(astArgs) {
			args[i] = c.ResolveType(astArgs[i], n2a)
		} else if i < len(st.TypeArgs) && st.TypeArgs[i] != nil {
			args[i] = st.TypeArgs[i]
		} else {
			args[i] = UnknownType()
		}
	}
	return &TypeStruct{Ref: st.Ref, TypeArgs: args}
}

// StructRefToStruct looks up a struct reference's defining module and
// returns its full item rebound to the reference's instantiation, so field
// types reflect the concrete type arguments.
func (c *ProjectContext) StructRefToStruct(ref *TypeStruct) (*ItemStruct, bool) {
	ms, ok := c.global.Lookup(ModuleKey{Addr: ref.Ref.Addr, Name: ref.Ref.ModuleName})
	if !ok {
		return nil, false
	}
	it, ok := ms.FindMember(ref.Ref.Name.Value, false)
	if !ok {
		return nil, false
	}
	st, ok := it.(*ItemStruct)
	if !ok {
		return nil, false
	}
	return st.BindTypeArgs(ref.TypeArgs), true
}
