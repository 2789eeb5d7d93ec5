// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// visitType resolves a syntactic type, emitting an apply access for every
// named type it walks through, type arguments included.
func (v *visitor) visitType(ty ast.Type) ResolvedType {
	if ty == nil || v.done {
		return UnknownType()
	}
	switch t := ty.(type) {
	case *ast.ApplyType:
		chain := t.Chain
		if chain.Single != nil && chain.Single.Name.Value == "vector" {
			elem := UnknownType()
			for i, a := range chain.Single.TypeArgs {
				r := v.visitType(a)
				if i == 0 {
					elem = r
				}
			}
			return NewVector(elem)
		}
		item, module := v.ctx.FindNameChainType(chain, v.p)
		resolved := ItemType(item)
		astArgs := chain.LastTypeArgs()
		args := make([]ResolvedType, 0, len(astArgs))
		for _, a := range astArgs {
			args = append(args, v.visitType(a))
		}
		if st, ok := resolved.(*TypeStruct); ok {
			full := make([]ResolvedType, len(st.Ref.TypeParameters))
			for i := range full {
				if i < len(args) {
					full[i] = args[i]
				} else {
					full[i] = UnknownType()
				}
			}
			resolved = &TypeStruct{Ref: st.Ref, TypeArgs: full}
		}
		v.emit(&AccessApplyType{Chain: chain, Module: module, Ty: resolved})
		return resolved
	case *ast.RefType:
		return &TypeRef{Mut: t.Mut, Inner: v.visitType(t.Inner)}
	case *ast.FunType:
		args := make([]ResolvedType, len(t.Args))
		for i, a := range t.Args {
			args[i] = v.visitType(a)
		}
		ret := UnitType()
		if t.Ret != nil {
			ret = v.visitType(t.Ret)
		}
		return &TypeLambda{Args: args, Ret: ret}
	case *ast.UnitType:
		return UnitType()
	case *ast.MultipleType:
		out := make([]ResolvedType, len(t.Types))
		for i, x := range t.Types {
			out[i] = v.visitType(x)
		}
		return &TypeMultiple{Types: out}
	default:
		return UnknownType()
	}
}

// visitUseDecl registers a use declaration's bindings. The first shallow
// pass enters silently so later phases can resolve through the imports;
// the second pass re-enters under the now-known access mode and emits the
// binding events. Inside spec bodies the scope stack is deeper than the
// builtin floor, and bindings go into the lexical scope instead of the
// module record.
func (v *visitor) visitUseDecl(key ModuleKey, isSpec bool, u *ast.UseDecl, emit bool) {
	srcAddr := u.Module.Address.Addr
	if u.Module.Address.Kind != ast.LeadingAnonAddress {
		srcAddr = v.p.NameToAddr(u.Module.Address.Name.Value)
	}
	srcKey := ModuleKey{Addr: srcAddr, Name: u.Module.Module.Value}
	isTest := ast.AttributesHasTest(u.Attributes).IsTest()
	lexical := v.ctx.ScopeDepth() > 1

	enter := func(name string, item *ItemUse) {
		if !v.enterImports {
			return
		}
		if lexical {
			v.ctx.EnterUseItem(name, item)
		} else {
			v.ctx.EnterTopUseItem(key, isSpec, name, item)
		}
	}

	if !u.HasMembers {
		alias := u.Module.Module
		if u.ModuleAlias != nil {
			alias = *u.ModuleAlias
		}
		item := &ItemUse{Entries: []ItemUseEntry{&ItemUseModule{
			Module: srcKey,
			Ident:  u.Module,
			Alias:  u.ModuleAlias,
			IsTest: isTest,
		}}}
		enter(alias.Value, item)
		if emit {
			v.emit(item)
		}
		return
	}

	if len(u.Members) == 0 {
		// use a::b::{} binds nothing, but the qualifier itself must still
		// resolve for navigation on the use line.
		if emit {
			v.emit(&ItemUse{Entries: []ItemUseEntry{&ItemUseModule{
				Module: srcKey,
				Ident:  u.Module,
				IsTest: isTest,
			}}})
		}
		return
	}

	for _, member := range u.Members {
		if member.Name.Value == "Self" {
			alias := u.Module.Module
			if member.Alias != nil {
				alias = *member.Alias
			}
			self := member.Name
			item := &ItemUse{Entries: []ItemUseEntry{&ItemUseModule{
				Module:   srcKey,
				Ident:    u.Module,
				Alias:    member.Alias,
				SelfName: &self,
				IsTest:   isTest,
			}}}
			enter(alias.Value, item)
			if emit {
				v.emit(item)
			}
			continue
		}
		alias := member.Name
		if member.Alias != nil {
			alias = *member.Alias
		}
		item := &ItemUse{Entries: []ItemUseEntry{&ItemUseMember{
			Module: srcKey,
			Ident:  u.Module,
			Name:   member.Name,
			Alias:  member.Alias,
			IsTest: isTest,
		}}}
		enter(alias.Value, item)
		if emit {
			v.emit(item)
		}
		if v.done {
			return
		}
	}
}

func (v *visitor) visitSequence(seq *ast.Sequence) {
	if seq == nil {
		return
	}
	pop := v.ctx.EnterScope()
	defer pop()
	for _, u := range seq.Uses {
		v.visitUseDecl(v.ctx.CurrentModule(), v.ctx.Env() == AccessSpec, u, true)
		if v.done {
			return
		}
	}
	for _, item := range seq.Items {
		switch x := item.(type) {
		case *ast.SeqExp:
			v.visitExpr(x.Exp)
		case *ast.SeqDeclare:
			ty := UnknownType()
			hasDecl := false
			if x.Type != nil {
				ty = v.visitType(x.Type)
				hasDecl = true
			}
			v.visitBindList(x.Binds, ty, nil, hasDecl)
		case *ast.SeqBind:
			v.visitExpr(x.Exp)
			ty := UnknownType()
			hasDecl := false
			if x.Type != nil {
				ty = v.visitType(x.Type)
				hasDecl = true
			} else if x.Exp != nil {
				ty = v.getExprType(x.Exp)
			}
			v.visitBindList(x.Binds, ty, x.Exp, hasDecl)
		}
		if v.done {
			return
		}
	}
	if seq.Final != nil {
		v.visitExpr(seq.Final)
	}
}

func (v *visitor) visitBindList(bl *ast.BindList, ty ResolvedType, rhs ast.Exp, hasDeclTy bool) {
	if bl == nil {
		return
	}
	for i, b := range bl.Binds {
		elemTy := ty
		if len(bl.Binds) > 1 {
			elemTy = NthType(ty, i)
		}
		var lambda *ast.LambdaExp
		if lam, ok := rhs.(*ast.LambdaExp); ok && len(bl.Binds) == 1 {
			lambda = lam
		}
		v.visitBind(b, elemTy, lambda, hasDeclTy)
		if v.done {
			return
		}
	}
}

func (v *visitor) visitBind(b ast.Bind, ty ResolvedType, lambda *ast.LambdaExp, hasDeclTy bool) {
	switch x := b.(type) {
	case *ast.VarBind:
		item := &ItemVar{Var: x.Var, Ty: ty, Lambda: lambda, HasDeclTy: hasDeclTy}
		v.ctx.EnterItem(x.Var.Value, item)
		v.emit(item)
	case *ast.UnpackBind:
		v.visitUnpackBind(x, ty)
	}
}

// visitUnpackBind destructures let Coin { value } = c. A reference on the
// unpacked value propagates into the bound field types.
func (v *visitor) visitUnpackBind(b *ast.UnpackBind, ty ResolvedType) {
	item, module := v.ctx.FindNameChainType(b.Chain, v.p)
	resolved := ItemType(item)
	v.emit(&AccessExprAccessChain{Chain: b.Chain, Module: module, Item: item})
	if v.done {
		return
	}

	hasRef := false
	refMut := false
	if r, ok := ty.(*TypeRef); ok {
		hasRef = true
		refMut = r.Mut
	}

	var st *ItemStruct
	if sref, ok := StripRef(ty).(*TypeStruct); ok {
		st, _ = v.ctx.StructRefToStruct(sref)
	}
	if st == nil {
		if sref, ok := resolved.(*TypeStruct); ok {
			args := make([]ResolvedType, 0)
			for _, a := range b.Chain.LastTypeArgs() {
				args = append(args, v.visitType(a))
			}
			st, _ = v.ctx.StructRefToStruct(&TypeStruct{Ref: sref.Ref, TypeArgs: args})
		}
	}

	for _, fb := range b.Fields {
		fieldTy := UnknownType()
		to := fb.Field
		var all map[string]StructFieldItem
		if st != nil {
			if ft, ok := st.FieldType(fb.Field.Value); ok {
				fieldTy = ft
			}
			for _, sf := range st.Fields {
				if sf.Name.Value == fb.Field.Value {
					to = sf.Name
				}
			}
			all = st.AllFields()
		}
		if hasRef {
			fieldTy = NewRef(refMut, fieldTy)
		}
		var bound Item
		if vb, ok := fb.Bind.(*ast.VarBind); ok {
			bv := &ItemVar{Var: vb.Var, Ty: fieldTy, HasDeclTy: true}
			v.ctx.EnterItem(vb.Var.Value, bv)
			bound = bv
		}
		ref := hasRef
		v.emit(&AccessFiled{
			From:      fb.Field,
			To:        to,
			Ty:        fieldTy,
			AllFields: all,
			Item:      bound,
			HasRef:    &ref,
		})
		if v.done {
			return
		}
		if _, isVar := fb.Bind.(*ast.VarBind); !isVar {
			v.visitBind(fb.Bind, fieldTy, nil, true)
		}
	}
}

func (v *visitor) visitExpr(e ast.Exp) {
	if e == nil || v.done {
		return
	}
	if sink, ok := v.h.(TypedExprSink); ok {
		sink.HandleExprType(e, v.getExprType(e))
	}
	switch x := e.(type) {
	case *ast.ValueExp:
		if x.Name != nil {
			v.emit(&AccessExprAddressName{Name: *x.Name})
		}
	case *ast.NameExp:
		item, module := v.ctx.FindNameChainItem(x.Chain, v.p)
		if x.Chain.Single != nil {
			switch item.(type) {
			case *ItemVar, *ItemParam:
				v.emit(&AccessExprVar{Var: x.Chain.Single.Name, Item: item})
				return
			}
		}
		for _, a := range x.Chain.LastTypeArgs() {
			v.visitType(a)
		}
		v.emit(&AccessExprAccessChain{Chain: x.Chain, Module: module, Item: item})
	case *ast.CallExp:
		v.visitCall(x)
	case *ast.PackExp:
		v.visitPack(x)
	case *ast.VectorExp:
		for _, t := range x.TypeArgs {
			v.visitType(t)
		}
		for _, a := range x.Args {
			v.visitExpr(a)
		}
	case *ast.IfElseExp:
		v.visitExpr(x.Cond)
		v.visitExpr(x.Then)
		if x.Else != nil {
			v.visitExpr(x.Else)
		}
	case *ast.WhileExp:
		v.visitExpr(x.Cond)
		v.visitExpr(x.Body)
	case *ast.LoopExp:
		v.visitExpr(x.Body)
	case *ast.BlockExp:
		v.visitSequence(x.Seq)
	case *ast.LambdaExp:
		v.visitLambda(x, nil)
	case *ast.QuantExp:
		v.visitQuant(x)
	case *ast.ExpListExp:
		for _, sub := range x.Exps {
			v.visitExpr(sub)
		}
	case *ast.UnitExp:
	case *ast.AssignExp:
		v.visitExpr(x.RHS)
		if name, ok := x.LHS.(*ast.NameExp); ok && name.Chain.Single != nil {
			rhsTy := v.getExprType(x.RHS)
			if !IsUnknown(rhsTy) {
				if lam := v.ctx.TryFixLocalVarTy(name.Chain.Single.Name.Value, rhsTy); lam != nil {
					if lt, ok := rhsTy.(*TypeLambda); ok {
						v.visitLambda(lam, lt)
					}
				}
			}
		}
		v.visitExpr(x.LHS)
	case *ast.ReturnExp:
		if x.Exp != nil {
			v.visitExpr(x.Exp)
		}
	case *ast.AbortExp:
		v.visitExpr(x.Exp)
	case *ast.BreakExp:
		v.emit(&AccessKeyword{Keyword: "break", Loc: x.Loc})
	case *ast.ContinueExp:
		v.emit(&AccessKeyword{Keyword: "continue", Loc: x.Loc})
	case *ast.DereferenceExp:
		v.visitExpr(x.Exp)
	case *ast.UnaryExp:
		v.visitExpr(x.Exp)
	case *ast.BinopExp:
		v.visitExpr(x.LHS)
		v.visitExpr(x.RHS)
	case *ast.BorrowExp:
		v.visitExpr(x.Exp)
	case *ast.DotExp:
		v.visitDot(x)
	case *ast.IndexExp:
		v.visitExpr(x.LHS)
		for _, idx := range x.Index {
			v.visitExpr(idx)
		}
	case *ast.CastExp:
		v.visitExpr(x.Exp)
		v.visitType(x.Type)
	case *ast.AnnotateExp:
		v.visitExpr(x.Exp)
		v.visitType(x.Type)
	case *ast.SpecBlockExp:
		v.visitSpecBody(v.ctx.CurrentModule(), x.Spec)
	case *ast.MoveExp:
		v.emit(&AccessKeyword{Keyword: "move", Loc: x.Loc})
		v.visitExpr(x.Exp)
	case *ast.CopyExp:
		v.emit(&AccessKeyword{Keyword: "copy", Loc: x.Loc})
		v.visitExpr(x.Exp)
	}
}

func (v *visitor) visitCall(call *ast.CallExp) {
	if macro, ok := MacroCallFromChain(call.Chain); ok {
		v.emit(&AccessMacroCall{Macro: macro, Chain: call.Chain})
		for _, a := range call.Args {
			v.visitExpr(a)
		}
		return
	}
	item, module := v.ctx.FindNameChainItem(call.Chain, v.p)
	for _, t := range call.Chain.LastTypeArgs() {
		v.visitType(t)
	}
	v.emit(&AccessExprAccessChain{Chain: call.Chain, Module: module, Item: item})
	if v.done {
		return
	}

	fun, isFun := item.(*ItemFun)
	if !isFun {
		for _, a := range call.Args {
			v.visitExpr(a)
		}
		return
	}

	if sink, ok := v.h.(CallPairSink); ok && v.currentFun != nil {
		sink.HandleCallPair(*v.currentFun, fun.ID())
	}

	bound := v.instantiateCall(fun, call)
	paramSink, wantPairs := v.h.(ParamArgSink)
	for i, a := range call.Args {
		if wantPairs && i < len(bound.Parameters) {
			paramSink.HandleParamArgPair(bound.Parameters[i].Var, a)
		}
		// A lambda-typed parameter slot fixes an untyped local and visits
		// the associated lambda body against the now-known type.
		if i < len(bound.Parameters) {
			if lt, isLambda := bound.Parameters[i].Ty.(*TypeLambda); isLambda {
				switch arg := a.(type) {
				case *ast.LambdaExp:
					v.visitLambda(arg, lt)
					continue
				case *ast.NameExp:
					if arg.Chain.Single != nil {
						if lam := v.ctx.TryFixLocalVarTy(arg.Chain.Single.Name.Value, bound.Parameters[i].Ty); lam != nil {
							v.visitExpr(a)
							v.visitLambda(lam, lt)
							continue
						}
					}
				}
			}
		}
		v.visitExpr(a)
		if v.done {
			return
		}
	}
}

// instantiateCall binds a callee's type parameters to the call's explicit
// type arguments, falling back to inference from argument types, and
// returns the function with parameter and return types substituted.
func (v *visitor) instantiateCall(fun *ItemFun, call *ast.CallExp) *ItemFun {
	types := make(map[string]ResolvedType)
	astArgs := call.Chain.LastTypeArgs()
	for i, tp := range fun.TypeParameters {
		if i < len(astArgs) {
			types[tp.Name.Value] = v.ctx.ResolveType(astArgs[i], v.p)
		}
	}
	if len(types) < len(fun.TypeParameters) {
		for i, p := range fun.Parameters {
			if i >= len(call.Args) {
				break
			}
			inferTypeParams(p.Ty, v.getExprType(call.Args[i]), types)
		}
	}
	if len(types) == 0 {
		return fun
	}
	out := fun.clone()
	for i := range out.Parameters {
		out.Parameters[i].Ty = BindTypeParameters(out.Parameters[i].Ty, types)
	}
	out.Ret = BindTypeParameters(out.Ret, types)
	return out
}

// inferTypeParams matches a declared parameter type against a concrete
// argument type, binding type-parameter leaves it encounters first.
func inferTypeParams(param, arg ResolvedType, out map[string]ResolvedType) {
	if param == nil || arg == nil || IsUnknown(arg) {
		return
	}
	param = StripRef(param)
	arg = StripRef(arg)
	switch p := param.(type) {
	case *TypeTParam:
		if _, seen := out[p.Name.Value]; !seen {
			out[p.Name.Value] = arg
		}
	case *TypeVec:
		if a, ok := arg.(*TypeVec); ok {
			inferTypeParams(p.Elem, a.Elem, out)
		}
	case *TypeStruct:
		if a, ok := arg.(*TypeStruct); ok {
			for i := range p.TypeArgs {
				if i < len(a.TypeArgs) {
					inferTypeParams(p.TypeArgs[i], a.TypeArgs[i], out)
				}
			}
		}
	case *TypeMultiple:
		if a, ok := arg.(*TypeMultiple); ok {
			for i := range p.Types {
				if i < len(a.Types) {
					inferTypeParams(p.Types[i], a.Types[i], out)
				}
			}
		}
	case *TypeLambda:
		if a, ok := arg.(*TypeLambda); ok {
			for i := range p.Args {
				if i < len(a.Args) {
					inferTypeParams(p.Args[i], a.Args[i], out)
				}
			}
			inferTypeParams(p.Ret, a.Ret, out)
		}
	}
}

func (v *visitor) visitPack(pack *ast.PackExp) {
	item, module := v.ctx.FindNameChainType(pack.Chain, v.p)
	for _, t := range pack.Chain.LastTypeArgs() {
		v.visitType(t)
	}
	v.emit(&AccessExprAccessChain{Chain: pack.Chain, Module: module, Item: item})
	if v.done {
		return
	}

	var st *ItemStruct
	if sref, ok := ItemType(item).(*TypeStruct); ok {
		args := make([]ResolvedType, 0)
		for _, a := range pack.Chain.LastTypeArgs() {
			args = append(args, v.ctx.ResolveType(a, v.p))
		}
		st, _ = v.ctx.StructRefToStruct(&TypeStruct{Ref: sref.Ref, TypeArgs: args})
	}

	for _, f := range pack.Fields {
		fieldTy := UnknownType()
		to := f.Field
		var all map[string]StructFieldItem
		if st != nil {
			if ft, ok := st.FieldType(f.Field.Value); ok {
				fieldTy = ft
			}
			for _, sf := range st.Fields {
				if sf.Name.Value == f.Field.Value {
					to = sf.Name
				}
			}
			all = st.AllFields()
		}
		// Field punning: XXX { x } makes x both a field and a variable read,
		// so the access back-links the variable item.
		var bound Item
		if name, ok := f.Exp.(*ast.NameExp); ok && name.Chain.Single != nil &&
			name.Chain.Single.Name.Value == f.Field.Value &&
			name.Chain.Single.Name.Loc == f.Field.Loc {
			bound = v.ctx.FindVar(f.Field.Value)
		}
		v.emit(&AccessFiled{
			From:      f.Field,
			To:        to,
			Ty:        fieldTy,
			AllFields: all,
			Item:      bound,
		})
		if v.done {
			return
		}
		if bound == nil {
			v.visitExpr(f.Exp)
		}
	}
}

func (v *visitor) visitDot(dot *ast.DotExp) {
	v.visitExpr(dot.LHS)
	if v.done {
		return
	}
	baseTy := v.getExprType(dot.LHS)
	hasRef := false
	refMut := false
	if r, ok := baseTy.(*TypeRef); ok {
		hasRef = true
		refMut = r.Mut
	}
	sref, ok := StripRef(baseTy).(*TypeStruct)
	if !ok {
		return
	}
	st, found := v.ctx.StructRefToStruct(sref)
	if !found {
		return
	}
	fieldTy := UnknownType()
	to := dot.Field
	if ft, ok := st.FieldType(dot.Field.Value); ok {
		fieldTy = ft
	}
	for _, sf := range st.Fields {
		if sf.Name.Value == dot.Field.Value {
			to = sf.Name
		}
	}
	if hasRef {
		fieldTy = NewRef(refMut, fieldTy)
	}
	ref := hasRef
	v.emit(&AccessFiled{
		From:      dot.Field,
		To:        to,
		Ty:        fieldTy,
		AllFields: st.AllFields(),
		HasRef:    &ref,
	})
}

// visitLambda visits a lambda body with parameters typed from the target
// lambda type when one is known.
func (v *visitor) visitLambda(lam *ast.LambdaExp, ty *TypeLambda) {
	pop := v.ctx.EnterScope()
	defer pop()
	argIdx := 0
	if lam.Binds != nil {
		for _, bl := range lam.Binds.Binds {
			for _, b := range bl.Binds {
				vb, ok := b.(*ast.VarBind)
				if !ok {
					continue
				}
				bty := UnknownType()
				if ty != nil && argIdx < len(ty.Args) {
					bty = ty.Args[argIdx]
				}
				item := &ItemVar{Var: vb.Var, Ty: bty, HasDeclTy: ty != nil}
				v.ctx.EnterItem(vb.Var.Value, item)
				v.emit(item)
				argIdx++
				if v.done {
					return
				}
			}
		}
	}
	v.visitExpr(lam.Body)
}

// visitQuant visits forall/exists/choose: each binding ranges over its
// domain expression, and the bound name takes the domain's element type.
func (v *visitor) visitQuant(q *ast.QuantExp) {
	pop := v.ctx.EnterScope()
	defer pop()
	for _, qb := range q.Binds {
		v.visitExpr(qb.Exp)
		if v.done {
			return
		}
		elemTy := quantElemType(v.getExprType(qb.Exp))
		v.visitBind(qb.Bind, elemTy, nil, true)
		if v.done {
			return
		}
	}
	for _, trigger := range q.Triggers {
		for _, t := range trigger {
			v.visitExpr(t)
		}
	}
	if q.Where != nil {
		v.visitExpr(q.Where)
	}
	v.visitExpr(q.Body)
}

func quantElemType(domain ResolvedType) ResolvedType {
	switch d := StripRef(domain).(type) {
	case *TypeVec:
		return d.Elem
	case *TypeRange:
		return NewBuildIn(BuildInNumType)
	default:
		return UnknownType()
	}
}
