// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// visitor drives one traversal. It proceeds in fixed phases per file so
// forward references resolve: module registration, constants, struct name
// placeholders, imports, struct bodies, function signatures, imports again
// with access-mode classification, friends and spec headers, and finally
// bodies when the handler asks for them.
type visitor struct {
	p            *Project
	ctx          *ProjectContext
	h            Handler
	enterImports bool
	done         bool
	// currentFun identifies the function whose body is being visited, for
	// call-pair delivery.
	currentFun *FunID
}

// emit delivers one event and latches the finished flag.
func (v *visitor) emit(ev ItemOrAccess) {
	if v.done {
		return
	}
	v.h.HandleItemOrAccess(v.p, v.ctx, ev)
	if v.h.Finished() {
		v.done = true
	}
}

type moduleEntry struct {
	key ModuleKey
	def *ast.ModuleDefinition
}

func (v *visitor) visitFile(f *SourceFile) {
	v.p.log.Debugf("visiting %s", f.Path)
	var modules []moduleEntry

	// Phase 1: register every module in the file before resolving anything,
	// so same-file cross-module references work regardless of order.
	for _, d := range f.Defs {
		switch x := d.(type) {
		case *ast.ModuleDefinition:
			if m := v.registerModule(x, nil, f.Kind == KindTest); m != nil {
				modules = append(modules, moduleEntry{key: m.Key, def: x})
			}
		case *ast.AddressDefinition:
			for _, mod := range x.Modules {
				if m := v.registerModule(mod, &x.Address, f.Kind == KindTest); m != nil {
					modules = append(modules, moduleEntry{key: m.Key, def: mod})
				}
			}
		case *ast.Script:
			v.visitScript(x, f)
		}
		if v.done {
			return
		}
	}

	for _, m := range modules {
		v.visitModuleShallow(m.key, m.def)
		if v.done {
			return
		}
	}

	if _, ok := wantsBodies(v.h); ok {
		for _, m := range modules {
			v.visitModuleBodies(m.key, m.def)
			if v.done {
				return
			}
		}
	}
}

// registerModule creates or refreshes the module's record and emits its
// name item. Spec modules reuse a record already created by the paired
// value module.
func (v *visitor) registerModule(m *ast.ModuleDefinition, enclosing *ast.LeadingNameAccess, testFile bool) *ModuleScope {
	addr := v.moduleAddr(m, enclosing)
	key := ModuleKey{Addr: addr, Name: m.Name.Value}
	isTest := testFile || ast.AttributesHasTest(m.Attributes).IsTest()

	ms, existed := v.ctx.global.Lookup(key)
	if !existed {
		ms = v.ctx.global.Ensure(key, m.Name.Loc, isTest)
	} else if !m.IsSpecModule {
		ms.NameLoc = m.Name.Loc
		ms.IsTest = isTest
	}
	v.emit(&ItemModuleName{Name: m.Name, Module: key, IsTest: isTest})
	return ms
}

func (v *visitor) moduleAddr(m *ast.ModuleDefinition, enclosing *ast.LeadingNameAccess) ast.Address {
	lead := m.Address
	if lead == nil {
		lead = enclosing
	}
	if lead == nil {
		return ast.ErrAddress
	}
	if lead.Kind == ast.LeadingAnonAddress {
		return lead.Addr
	}
	return v.p.NameToAddr(lead.Name.Value)
}

func (v *visitor) moduleEnv(key ModuleKey) AccessEnv {
	if ms, ok := v.ctx.global.Lookup(key); ok && ms.IsTest {
		return AccessTest
	}
	return AccessMove
}

// visitModuleShallow runs phases 2 through 8 for one module.
func (v *visitor) visitModuleShallow(key ModuleKey, m *ast.ModuleDefinition) {
	oldMod := v.ctx.SetCurrentModule(key)
	defer v.ctx.SetCurrentModule(oldMod)
	oldEnv := v.ctx.SetEnv(v.moduleEnv(key))
	defer v.ctx.SetEnv(oldEnv)

	isSpec := m.IsSpecModule

	// Phase 2: constants. They may not forward-reference other top-level
	// names; unresolvable value types degrade to Unknown.
	for _, member := range m.Members {
		c, ok := member.(*ast.Constant)
		if !ok {
			continue
		}
		v.visitConstant(key, isSpec, c)
		if v.done {
			return
		}
	}

	// Phase 3: struct name placeholders, so signatures anywhere in the
	// module can name a struct before its fields resolve.
	for _, member := range m.Members {
		s, ok := member.(*ast.StructDefinition)
		if !ok {
			continue
		}
		ref := &ItemStructNameRef{
			Addr:           key.Addr,
			ModuleName:     key.Name,
			Name:           s.Name,
			TypeParameters: s.TypeParameters,
			IsTest:         ast.AttributesHasTest(s.Attributes).IsTest(),
		}
		v.ctx.EnterTopItem(key, isSpec, s.Name.Value, ref)
		v.emit(ref)
		if v.done {
			return
		}
	}

	// Phase 4: imports, first pass. Entered silently so struct field types
	// can resolve through them; events wait for the classified second pass.
	for _, member := range m.Members {
		if u, ok := member.(*ast.UseDecl); ok {
			v.visitUseDecl(key, isSpec, u, false)
		}
	}

	// Phase 5: struct bodies, replacing each placeholder under its name.
	for _, member := range m.Members {
		s, ok := member.(*ast.StructDefinition)
		if !ok {
			continue
		}
		v.visitStructBody(key, isSpec, s)
		if v.done {
			return
		}
	}

	// Phase 6: function signatures, bodies untouched.
	for _, member := range m.Members {
		f, ok := member.(*ast.Function)
		if !ok {
			continue
		}
		v.visitFunctionSignature(key, isSpec, f, false)
		if v.done {
			return
		}
	}

	// Phase 7: imports again, now that module and test status are known.
	for _, member := range m.Members {
		if u, ok := member.(*ast.UseDecl); ok {
			v.visitUseDecl(key, isSpec, u, true)
			if v.done {
				return
			}
		}
	}

	// Phase 8: friends, and spec-block headers under Spec mode.
	for _, member := range m.Members {
		switch x := member.(type) {
		case *ast.FriendDecl:
			v.visitFriend(key, x)
		case *ast.SpecBlock:
			old := v.ctx.SetEnv(AccessSpec)
			v.visitSpecHeader(key, x)
			v.ctx.SetEnv(old)
		}
		if v.done {
			return
		}
	}
}

func (v *visitor) visitConstant(key ModuleKey, isSpec bool, c *ast.Constant) {
	pop := v.ctx.CloneModuleScopeAndEnter(key, isSpec)
	defer pop()
	ty := v.visitType(c.Signature)
	if c.Value != nil {
		v.visitExpr(c.Value)
	}
	item := &ItemConst{Name: c.Name, Ty: ty, IsSpec: isSpec}
	v.ctx.EnterTopItem(key, isSpec, c.Name.Value, item)
	v.emit(item)
}

func (v *visitor) visitStructBody(key ModuleKey, isSpec bool, s *ast.StructDefinition) {
	pop := v.ctx.CloneModuleScopeAndEnter(key, isSpec)
	defer pop()
	popT := v.ctx.EnterScope()
	defer popT()
	for _, tp := range s.TypeParameters {
		it := &ItemTParam{Name: tp.Name, Abilities: tp.Abilities}
		v.ctx.EnterTypes(tp.Name.Value, it)
		v.emit(it)
		if v.done {
			return
		}
	}
	item := &ItemStruct{
		Addr:           key.Addr,
		ModuleName:     key.Name,
		Name:           s.Name,
		TypeParameters: s.TypeParameters,
		IsTest:         ast.AttributesHasTest(s.Attributes).IsTest(),
	}
	for _, f := range s.Fields {
		fty := v.visitType(f.Type)
		item.Fields = append(item.Fields, StructFieldItem{Name: f.Field, Ty: fty})
		if v.done {
			return
		}
	}
	v.ctx.EnterTopItem(key, isSpec, s.Name.Value, item)
	v.emit(item)
}

// visitFunctionSignature resolves a function's declared shape and registers
// the item. asSpecFun registers into the spec overlay.
func (v *visitor) visitFunctionSignature(key ModuleKey, isSpec bool, f *ast.Function, asSpecFun bool) *ItemFun {
	pop := v.ctx.CloneModuleScopeAndEnter(key, isSpec || asSpecFun)
	defer pop()
	popT := v.ctx.EnterScope()
	defer popT()

	item := &ItemFun{
		Name:   f.Name,
		Vis:    f.Visibility,
		Module: key,
		IsSpec: asSpecFun,
		IsTest: ast.AttributesHasTest(f.Attributes),
	}
	for _, tp := range f.Signature.TypeParameters {
		it := &ItemTParam{Name: tp.Name, Abilities: tp.Abilities}
		v.ctx.EnterTypes(tp.Name.Value, it)
		v.emit(it)
		item.TypeParameters = append(item.TypeParameters, FunTParam{Name: tp.Name, Abilities: tp.Abilities})
		if v.done {
			return item
		}
	}
	for _, p := range f.Signature.Parameters {
		pty := v.visitType(p.Type)
		item.Parameters = append(item.Parameters, FunParam{Var: p.Var, Ty: pty})
		if v.done {
			return item
		}
	}
	if f.Signature.ReturnType != nil {
		item.Ret = v.visitType(f.Signature.ReturnType)
	} else {
		item.Ret = UnitType()
	}
	v.ctx.EnterTopItem(key, isSpec || asSpecFun, f.Name.Value, item)
	v.emit(item)
	return item
}

func (v *visitor) visitFriend(key ModuleKey, fd *ast.FriendDecl) {
	chain := fd.Friend
	if chain == nil {
		return
	}
	if chain.Single != nil {
		// A bare name is not valid friend syntax; keep a placeholder target
		// so completion still works mid-edit.
		placeholder := &ItemModuleName{
			Name:   chain.Single.Name,
			Module: ModuleKey{Addr: ast.ErrAddress, Name: chain.Single.Name.Value},
		}
		v.emit(&AccessFriend{Chain: chain, To: placeholder})
		return
	}
	item, _ := v.ctx.FindNameChainItem(chain, v.p)
	mod, ok := item.(*ItemModuleName)
	if !ok {
		addr := ast.ErrAddress
		if chain.Path.Root.Kind == ast.LeadingAnonAddress {
			addr = chain.Path.Root.Addr
		} else {
			addr = v.p.NameToAddr(chain.Path.Root.Name.Value)
		}
		mod = &ItemModuleName{
			Name:   chain.LastName(),
			Module: ModuleKey{Addr: addr, Name: chain.LastName().Value},
		}
	}
	v.ctx.AddFriend(key, mod.Module)
	v.emit(&AccessFriend{Chain: chain, To: mod})
}

// visitSpecHeader registers schemas and spec helper functions and emits the
// header target access; member bodies wait for the body phase.
func (v *visitor) visitSpecHeader(key ModuleKey, sb *ast.SpecBlock) {
	switch sb.Target.Kind {
	case ast.SpecTargetSchema:
		pop := v.ctx.CloneModuleScopeAndEnter(key, true)
		defer pop()
		popT := v.ctx.EnterScope()
		defer popT()
		schema := &ItemSpecSchema{Name: sb.Target.Name}
		for _, tp := range sb.Target.TypeParameters {
			it := &ItemTParam{Name: tp.Name, Abilities: tp.Abilities}
			v.ctx.EnterTypes(tp.Name.Value, it)
			v.emit(it)
			if v.done {
				return
			}
		}
		for _, member := range sb.Members {
			sv, ok := member.(*ast.SpecVariable)
			if !ok || sv.IsGlobal {
				continue
			}
			schema.Fields = append(schema.Fields, SchemaField{
				Name: sv.Name,
				Ty:   v.visitType(sv.Type),
			})
		}
		v.ctx.EnterTopItem(key, true, sb.Target.Name.Value, schema)
		v.emit(schema)
	case ast.SpecTargetMember:
		pop := v.ctx.CloneModuleScopeAndEnter(key, true)
		defer pop()
		item, _ := v.ctx.FindNameChainItem(&ast.NameAccessChain{
			Loc:    sb.Target.Name.Loc,
			Single: &ast.PathEntry{Name: sb.Target.Name},
		}, v.p)
		v.emit(&AccessSpecFor{Name: sb.Target.Name, Item: item})
	}
	for _, member := range sb.Members {
		sf, ok := member.(*ast.SpecFunction)
		if !ok {
			continue
		}
		v.visitFunctionSignature(key, false, sf.Fun, true)
		if v.done {
			return
		}
	}
}

// visitModuleBodies runs phase 9 for one module: function bodies and spec
// blocks, each filtered by the handler's range predicate.
func (v *visitor) visitModuleBodies(key ModuleKey, m *ast.ModuleDefinition) {
	bv, ok := wantsBodies(v.h)
	if !ok {
		return
	}
	oldMod := v.ctx.SetCurrentModule(key)
	defer v.ctx.SetCurrentModule(oldMod)

	for _, member := range m.Members {
		switch x := member.(type) {
		case *ast.Function:
			if !v.shouldVisit(bv, x.Loc) {
				continue
			}
			v.visitFunctionBody(key, m.IsSpecModule, x, false)
		case *ast.SpecBlock:
			if !v.shouldVisit(bv, x.Loc) {
				continue
			}
			v.visitSpecBody(key, x)
		}
		if v.done {
			return
		}
	}
}

func (v *visitor) shouldVisit(bv BodyVisitor, loc ast.Loc) bool {
	rng, ok := v.p.ConvertLocRange(loc)
	if !ok {
		rng = ast.UnknownRange()
	}
	return bv.ShouldVisitBody(rng)
}

func (v *visitor) visitFunctionBody(key ModuleKey, isSpec bool, f *ast.Function, asSpecFun bool) {
	if f.Body == nil || f.Body.Native || f.Body.Seq == nil {
		return
	}
	env := v.moduleEnv(key)
	if ast.AttributesHasTest(f.Attributes).IsTest() {
		env = AccessTest
	}
	if asSpecFun {
		env = AccessSpec
	}
	oldEnv := v.ctx.SetEnv(env)
	defer v.ctx.SetEnv(oldEnv)

	oldFun := v.currentFun
	id := FunID{Module: key, Name: f.Name.Value}
	v.currentFun = &id
	defer func() { v.currentFun = oldFun }()

	pop := v.ctx.CloneModuleScopeAndEnter(key, isSpec || asSpecFun)
	defer pop()
	popF := v.ctx.EnterScope()
	defer popF()

	for _, tp := range f.Signature.TypeParameters {
		it := &ItemTParam{Name: tp.Name, Abilities: tp.Abilities}
		v.ctx.EnterTypes(tp.Name.Value, it)
		v.emit(it)
		if v.done {
			return
		}
	}
	for i, p := range f.Signature.Parameters {
		pty := v.visitType(p.Type)
		item := &ItemParam{Var: p.Var, Ty: pty, Index: i}
		v.ctx.EnterItem(p.Var.Value, item)
		v.emit(item)
		if v.done {
			return
		}
	}
	v.visitSequence(f.Body.Seq)
}

func (v *visitor) visitSpecBody(key ModuleKey, sb *ast.SpecBlock) {
	oldEnv := v.ctx.SetEnv(AccessSpec)
	defer v.ctx.SetEnv(oldEnv)

	pop := v.ctx.CloneModuleScopeAndEnter(key, true)
	defer pop()
	popS := v.ctx.EnterScope()
	defer popS()

	for _, tp := range sb.Target.TypeParameters {
		it := &ItemTParam{Name: tp.Name, Abilities: tp.Abilities}
		v.ctx.EnterTypes(tp.Name.Value, it)
		v.emit(it)
		if v.done {
			return
		}
	}

	// A spec over a function sees that function's parameters and its result.
	if sb.Target.Kind == ast.SpecTargetMember {
		item, _ := v.ctx.FindNameChainItem(&ast.NameAccessChain{
			Loc:    sb.Target.Name.Loc,
			Single: &ast.PathEntry{Name: sb.Target.Name},
		}, v.p)
		if fun, ok := item.(*ItemFun); ok {
			for i, p := range fun.Parameters {
				v.ctx.EnterItem(p.Var.Value, &ItemParam{Var: p.Var, Ty: p.Ty, Index: i})
			}
			v.ctx.EnterItem("result", &ItemVar{
				Var:       ast.Name{Loc: fun.Name.Loc, Value: "result"},
				Ty:        fun.Ret,
				HasDeclTy: true,
			})
		}
	}

	for _, u := range sb.Uses {
		v.visitUseDecl(key, true, u, true)
		if v.done {
			return
		}
	}
	for _, member := range sb.Members {
		v.visitSpecMember(key, member)
		if v.done {
			return
		}
	}
}

func (v *visitor) visitSpecMember(key ModuleKey, member ast.SpecMember) {
	switch x := member.(type) {
	case *ast.SpecCondition:
		if x.Exp != nil {
			v.visitExpr(x.Exp)
		}
	case *ast.SpecLet:
		ty := UnknownType()
		if x.Exp != nil {
			ty = v.getExprType(x.Exp)
			v.visitExpr(x.Exp)
		}
		item := &ItemVar{Var: x.Name, Ty: ty, HasDeclTy: !IsUnknown(ty)}
		v.ctx.EnterItem(x.Name.Value, item)
		v.emit(item)
	case *ast.SpecVariable:
		ty := v.visitType(x.Type)
		item := &ItemVar{Var: x.Name, Ty: ty, HasDeclTy: true}
		v.ctx.EnterItem(x.Name.Value, item)
		v.emit(item)
		if x.Init != nil {
			v.visitExpr(x.Init)
		}
	case *ast.SpecInclude:
		item, _ := v.ctx.FindNameChainItem(x.Chain, v.p)
		v.emit(&AccessIncludeSchema{Chain: x.Chain, Item: item})
		if schema, ok := item.(*ItemSpecSchema); ok {
			for _, f := range schema.Fields {
				v.ctx.EnterItem(f.Name.Value, &ItemVar{Var: f.Name, Ty: f.Ty, HasDeclTy: true})
			}
		}
	case *ast.SpecApply:
		item, _ := v.ctx.FindNameChainItem(x.Chain, v.p)
		v.emit(&AccessApplySchemaTo{Chain: x.Chain, Item: item})
	case *ast.SpecFunction:
		v.visitFunctionBody(key, false, x.Fun, true)
	}
}

// visitScript treats a script as an anonymous module: uses, constants and
// the entry function, with no registration surviving beyond its record.
func (v *visitor) visitScript(s *ast.Script, f *SourceFile) {
	key := ModuleKey{Addr: ast.ErrAddress, Name: "<script>"}
	ms := v.ctx.global.Ensure(key, s.Loc, f.Kind == KindTest)
	ms.Clear()
	oldMod := v.ctx.SetCurrentModule(key)
	defer v.ctx.SetCurrentModule(oldMod)

	for _, u := range s.Uses {
		v.visitUseDecl(key, false, u, true)
		if v.done {
			return
		}
	}
	for _, c := range s.Constants {
		v.visitConstant(key, false, c)
		if v.done {
			return
		}
	}
	if s.Function == nil {
		return
	}
	v.visitFunctionSignature(key, false, s.Function, false)
	if v.done {
		return
	}
	if bv, ok := wantsBodies(v.h); ok && v.shouldVisit(bv, s.Function.Loc) {
		v.visitFunctionBody(key, false, s.Function, false)
	}
}
