// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// getExprType infers an expression's type against the current scope stack.
// It emits no events; the inference exists to drive field accesses, bind
// typing, and opted-in type delivery. Anything it cannot determine is
// Unknown, never an error.
func (v *visitor) getExprType(e ast.Exp) ResolvedType {
	if e == nil {
		return UnknownType()
	}
	switch x := e.(type) {
	case *ast.ValueExp:
		switch x.Kind {
		case ast.ValueNum:
			return NewBuildIn(BuildInNumType)
		case ast.ValueBool:
			return NewBuildIn(BuildInBool)
		case ast.ValueAddress:
			return NewBuildIn(BuildInAddress)
		case ast.ValueHexString, ast.ValueByteString:
			return NewVector(NewBuildIn(BuildInU8))
		}
		return UnknownType()
	case *ast.NameExp:
		item, _ := v.ctx.FindNameChainItem(x.Chain, v.p)
		return ItemType(item)
	case *ast.CallExp:
		return v.getCallType(x)
	case *ast.PackExp:
		item, _ := v.ctx.FindNameChainType(x.Chain, v.p)
		st, ok := ItemType(item).(*TypeStruct)
		if !ok {
			return UnknownType()
		}
		args := make([]ResolvedType, len(st.Ref.TypeParameters))
		astArgs := x.Chain.LastTypeArgs()
		for i := range args {
			if i < len(astArgs) {
				args[i] = v.ctx.ResolveType(astArgs[i], v.p)
			} else {
				args[i] = UnknownType()
			}
		}
		return &TypeStruct{Ref: st.Ref, TypeArgs: args}
	case *ast.VectorExp:
		if len(x.TypeArgs) > 0 {
			return NewVector(v.ctx.ResolveType(x.TypeArgs[0], v.p))
		}
		if len(x.Args) > 0 {
			return NewVector(v.getExprType(x.Args[0]))
		}
		return NewVector(UnknownType())
	case *ast.IfElseExp:
		return v.getExprType(x.Then)
	case *ast.WhileExp, *ast.LoopExp:
		return UnitType()
	case *ast.BlockExp:
		if x.Seq != nil && x.Seq.Final != nil {
			return v.getExprType(x.Seq.Final)
		}
		return UnitType()
	case *ast.LambdaExp:
		nargs := 0
		if x.Binds != nil {
			for _, bl := range x.Binds.Binds {
				nargs += len(bl.Binds)
			}
		}
		args := make([]ResolvedType, nargs)
		for i := range args {
			args[i] = UnknownType()
		}
		return &TypeLambda{Args: args, Ret: UnknownType()}
	case *ast.QuantExp:
		return NewBuildIn(BuildInBool)
	case *ast.ExpListExp:
		out := make([]ResolvedType, len(x.Exps))
		for i, sub := range x.Exps {
			out[i] = v.getExprType(sub)
		}
		return &TypeMultiple{Types: out}
	case *ast.UnitExp, *ast.AssignExp, *ast.ReturnExp, *ast.AbortExp,
		*ast.BreakExp, *ast.ContinueExp, *ast.SpecBlockExp:
		return UnitType()
	case *ast.DereferenceExp:
		return StripRef(v.getExprType(x.Exp))
	case *ast.UnaryExp:
		return NewBuildIn(BuildInBool)
	case *ast.BinopExp:
		return binopType(x.Op, v.getExprType(x.LHS))
	case *ast.BorrowExp:
		return NewRef(x.Mut, v.getExprType(x.Exp))
	case *ast.DotExp:
		return v.getDotType(x)
	case *ast.IndexExp:
		base := StripRef(v.getExprType(x.LHS))
		if vec, ok := base.(*TypeVec); ok {
			return vec.Elem
		}
		return UnknownType()
	case *ast.CastExp:
		return v.ctx.ResolveType(x.Type, v.p)
	case *ast.AnnotateExp:
		return v.ctx.ResolveType(x.Type, v.p)
	case *ast.MoveExp:
		return v.getExprType(x.Exp)
	case *ast.CopyExp:
		return v.getExprType(x.Exp)
	default:
		return UnknownType()
	}
}

func binopType(op string, lhs ResolvedType) ResolvedType {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||", "==>", "<==>":
		return NewBuildIn(BuildInBool)
	default:
		return lhs
	}
}

// getDotType mirrors the field-access resolution: compute the base type,
// strip one reference layer, substitute the owning struct's generics, and
// re-wrap the reference on the field type.
func (v *visitor) getDotType(dot *ast.DotExp) ResolvedType {
	baseTy := v.getExprType(dot.LHS)
	hasRef := false
	refMut := false
	if r, ok := baseTy.(*TypeRef); ok {
		hasRef = true
		refMut = r.Mut
	}
	sref, ok := StripRef(baseTy).(*TypeStruct)
	if !ok {
		return UnknownType()
	}
	st, found := v.ctx.StructRefToStruct(sref)
	if !found {
		return UnknownType()
	}
	ft, ok := st.FieldType(dot.Field.Value)
	if !ok {
		return UnknownType()
	}
	if hasRef {
		return NewRef(refMut, ft)
	}
	return ft
}

// getCallType resolves a call's result: built-ins by shape, functions by
// return type with type parameters bound from the call.
func (v *visitor) getCallType(call *ast.CallExp) ResolvedType {
	item, _ := v.ctx.FindNameChainItem(call.Chain, v.p)
	switch f := item.(type) {
	case *ItemFun:
		bound := v.instantiateCall(f, call)
		if bound.Ret == nil {
			return UnitType()
		}
		return bound.Ret
	case *ItemMoveBuildInFun:
		return v.moveBuiltinCallType(f.Kind, call)
	case *ItemSpecBuildInFun:
		return v.specBuiltinCallType(f.Kind, call)
	default:
		return UnknownType()
	}
}

func (v *visitor) explicitTypeArg(call *ast.CallExp) ResolvedType {
	args := call.Chain.LastTypeArgs()
	if len(args) == 0 {
		return UnknownType()
	}
	return v.ctx.ResolveType(args[0], v.p)
}

func (v *visitor) moveBuiltinCallType(kind MoveBuildInFun, call *ast.CallExp) ResolvedType {
	switch kind {
	case MoveBuildInMoveFrom:
		return v.explicitTypeArg(call)
	case MoveBuildInBorrowGlobal:
		return NewRef(false, v.explicitTypeArg(call))
	case MoveBuildInBorrowGlobalMut:
		return NewRef(true, v.explicitTypeArg(call))
	case MoveBuildInExists:
		return NewBuildIn(BuildInBool)
	case MoveBuildInFreeze:
		if len(call.Args) > 0 {
			return NewRef(false, StripRef(v.getExprType(call.Args[0])))
		}
		return UnknownType()
	default:
		return UnitType()
	}
}

func (v *visitor) specBuiltinCallType(kind SpecBuildInFun, call *ast.CallExp) ResolvedType {
	argTy := func(i int) ResolvedType {
		if i < len(call.Args) {
			return v.getExprType(call.Args[i])
		}
		return UnknownType()
	}
	switch kind {
	case SpecBuildInExists, SpecBuildInContains, SpecBuildInInRange:
		return NewBuildIn(BuildInBool)
	case SpecBuildInGlobal:
		return v.explicitTypeArg(call)
	case SpecBuildInLen, SpecBuildInIndexOf:
		return NewBuildIn(BuildInNumType)
	case SpecBuildInUpdate, SpecBuildInConcat:
		return StripRef(argTy(0))
	case SpecBuildInVec:
		if len(call.Args) > 0 {
			return NewVector(StripRef(argTy(0)))
		}
		return NewVector(v.explicitTypeArg(call))
	case SpecBuildInRange:
		return &TypeRange{}
	case SpecBuildInUpdateField, SpecBuildInOld, SpecBuildInTrace:
		return StripRef(argTy(0))
	default:
		return UnknownType()
	}
}
