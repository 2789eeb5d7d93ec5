// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// Access is a resolved use-site. Every Access exposes the (use location,
// definition location) pair cross-reference consumers key on.
type Access interface {
	ItemOrAccess
	accessNode()
	// AccessLoc returns the use location and the resolved definition
	// location. Unresolved accesses return an unknown definition location.
	AccessLoc() (useLoc ast.Loc, defLoc ast.Loc)
}

// AccessApplyType is a type used in type position.
type AccessApplyType struct {
	Chain *ast.NameAccessChain
	// Module is set when the type was reached through a module qualifier.
	Module *ItemModuleName
	Ty     ResolvedType
}

// AccessExprVar is a local variable or parameter read.
type AccessExprVar struct {
	Var  ast.Name
	Item Item
}

// AccessExprAccessChain is any resolved name-chain use. Module is set when
// the chain went through a module qualifier, enabling click-through on the
// qualifier itself.
type AccessExprAccessChain struct {
	Chain  *ast.NameAccessChain
	Module *ItemModuleName
	Item   Item
}

// AccessExprAddressName is a bare symbolic address token like @std.
type AccessExprAddressName struct {
	Name ast.Name
}

// AccessFiled is a field access or a field binding in a pack/unpack. From
// is the field name at the use-site, To the field name at the definition.
// AllFields carries the owning type's full field map for completion. Item
// back-links the bound expression item for shorthand `XXX { x }` where the
// field name doubles as a variable. HasRef records whether the access went
// through a reference, nil when not applicable.
type AccessFiled struct {
	From      ast.Name
	To        ast.Name
	Ty        ResolvedType
	AllFields map[string]StructFieldItem
	Item      Item
	HasRef    *bool
}

// AccessKeyword is a recognized keyword use, emitted for highlighting.
type AccessKeyword struct {
	Keyword string
	Loc     ast.Loc
}

// AccessMacroCall is a macro-style call such as assert!.
type AccessMacroCall struct {
	Macro MacroCall
	Chain *ast.NameAccessChain
}

// AccessFriend is a friend declaration naming another module.
type AccessFriend struct {
	Chain *ast.NameAccessChain
	To    *ItemModuleName
}

// AccessApplySchemaTo is the target of a spec apply.
type AccessApplySchemaTo struct {
	Chain *ast.NameAccessChain
	Item  Item
}

// AccessIncludeSchema is a schema inclusion inside a spec block.
type AccessIncludeSchema struct {
	Chain *ast.NameAccessChain
	Item  Item
}

// AccessSpecFor is the member a `spec <name>` block targets.
type AccessSpecFor struct {
	Name ast.Name
	Item Item
}

func (*AccessApplyType) itemOrAccess()       {}
func (*AccessExprVar) itemOrAccess()         {}
func (*AccessExprAccessChain) itemOrAccess() {}
func (*AccessExprAddressName) itemOrAccess() {}
func (*AccessFiled) itemOrAccess()           {}
func (*AccessKeyword) itemOrAccess()         {}
func (*AccessMacroCall) itemOrAccess()       {}
func (*AccessFriend) itemOrAccess()          {}
func (*AccessApplySchemaTo) itemOrAccess()   {}
func (*AccessIncludeSchema) itemOrAccess()   {}
func (*AccessSpecFor) itemOrAccess()         {}

func (*AccessApplyType) accessNode()       {}
func (*AccessExprVar) accessNode()         {}
func (*AccessExprAccessChain) accessNode() {}
func (*AccessExprAddressName) accessNode() {}
func (*AccessFiled) accessNode()           {}
func (*AccessKeyword) accessNode()         {}
func (*AccessMacroCall) accessNode()       {}
func (*AccessFriend) accessNode()          {}
func (*AccessApplySchemaTo) accessNode()   {}
func (*AccessIncludeSchema) accessNode()   {}
func (*AccessSpecFor) accessNode()         {}

func (a *AccessApplyType) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.LastName().Loc, TypeDefLoc(a.Ty)
}

func (a *AccessExprVar) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Var.Loc, a.Item.DefLoc()
}

func (a *AccessExprAccessChain) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.LastName().Loc, a.Item.DefLoc()
}

func (a *AccessExprAddressName) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Name.Loc, ast.UnknownLoc()
}

func (a *AccessFiled) AccessLoc() (ast.Loc, ast.Loc) {
	return a.From.Loc, a.To.Loc
}

func (a *AccessKeyword) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Loc, ast.UnknownLoc()
}

func (a *AccessMacroCall) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.Loc, ast.UnknownLoc()
}

func (a *AccessFriend) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.LastName().Loc, a.To.Name.Loc
}

func (a *AccessApplySchemaTo) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.LastName().Loc, a.Item.DefLoc()
}

func (a *AccessIncludeSchema) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Chain.LastName().Loc, a.Item.DefLoc()
}

func (a *AccessSpecFor) AccessLoc() (ast.Loc, ast.Loc) {
	return a.Name.Loc, a.Item.DefLoc()
}

// ModuleAccess returns the (qualifier use location, module definition
// location) pair for accesses that went through a module qualifier, so the
// qualifier itself can be click-through navigated. ok is false for
// unqualified accesses.
func ModuleAccess(a Access) (useLoc ast.Loc, defLoc ast.Loc, ok bool) {
	var chain *ast.NameAccessChain
	var module *ItemModuleName
	switch x := a.(type) {
	case *AccessExprAccessChain:
		chain, module = x.Chain, x.Module
	case *AccessApplyType:
		chain, module = x.Chain, x.Module
	default:
		return ast.UnknownLoc(), ast.UnknownLoc(), false
	}
	if module == nil || chain.Path == nil {
		return ast.UnknownLoc(), ast.UnknownLoc(), false
	}
	return chain.Path.Root.Loc, module.Name.Loc, true
}

// IsLocal reports whether an event can only be referenced from within the
// function that produced it. Local events allow find-references to skip the
// whole-project scan.
func IsLocal(ev ItemOrAccess) bool {
	switch x := ev.(type) {
	case *ItemVar, *ItemParam:
		return true
	case *AccessExprVar:
		_, isVar := x.Item.(*ItemVar)
		_, isParam := x.Item.(*ItemParam)
		return isVar || isParam
	default:
		return false
	}
}

// MacroCall identifies a macro-style call.
type MacroCall int

const (
	MacroAssert MacroCall = iota
)

func (m MacroCall) String() string {
	switch m {
	case MacroAssert:
		return "assert!"
	default:
		return "macro"
	}
}

// MacroCallFromChain recognizes macro names at call sites.
func MacroCallFromChain(chain *ast.NameAccessChain) (MacroCall, bool) {
	if chain.Single != nil && chain.Single.Name.Value == "assert" {
		return MacroAssert, true
	}
	return 0, false
}
