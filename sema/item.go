// Copyright © 2025 The movan authors

package sema

import (
	"fmt"
	"strings"

	"github.com/movelang/movan/ast"
)

// ItemOrAccess is the traversal's event unit: either an Item (a definition
// coming into scope) or an Access (a use of something already in scope).
// Consumers receive events in document order.
type ItemOrAccess interface {
	itemOrAccess()
}

// Item is a resolved definition. Its DefLoc is the stable identity key used
// for cross-referencing: two Items denote the same entity exactly when their
// definition locations coincide.
type Item interface {
	ItemOrAccess
	itemNode()
	DefLoc() ast.Loc
	String() string
}

// ModuleKey identifies a module record in the global table.
type ModuleKey struct {
	Addr ast.Address
	Name string
}

func (k ModuleKey) String() string {
	return k.Addr.ShortString() + "::" + k.Name
}

// FunID identifies a function for call-graph consumers.
type FunID struct {
	Module ModuleKey
	Name   string
}

// ItemDummy is the "no item" sentinel returned when resolution fails.
type ItemDummy struct{}

// ItemParam is a declared function parameter.
type ItemParam struct {
	Var   ast.Name
	Ty    ResolvedType
	Index int
}

// ItemVar is a local variable. Ty starts Unknown for `let x;` and is fixed
// in place by the first typed assignment. Lambda keeps the bound lambda body
// so higher-order uses resolve once the type lands.
type ItemVar struct {
	Var       ast.Name
	Ty        ResolvedType
	Lambda    *ast.LambdaExp
	HasDeclTy bool
}

// ItemConst is a constant; IsSpec marks specification-only constants like
// the MAX_U* limits.
type ItemConst struct {
	Name   ast.Name
	Ty     ResolvedType
	IsSpec bool
}

// ItemStructNameRef is the lightweight struct placeholder registered before
// field types resolve. It shares (addr, module, name) identity with the full
// definition, so resolutions against it stay valid once the definition lands.
type ItemStructNameRef struct {
	Addr           ast.Address
	ModuleName     string
	Name           ast.Name
	TypeParameters []ast.DatatypeTypeParameter
	IsTest         bool
}

// StructFieldItem is one resolved field of a struct item.
type StructFieldItem struct {
	Name ast.Name
	Ty   ResolvedType
}

// ItemStruct is a fully resolved struct definition. TypeArgs holds the
// instantiation when the item was produced for a concrete use.
type ItemStruct struct {
	Addr           ast.Address
	ModuleName     string
	Name           ast.Name
	TypeParameters []ast.DatatypeTypeParameter
	TypeArgs       []ResolvedType
	Fields         []StructFieldItem
	IsTest         bool
}

// NameRef projects the struct down to its placeholder form.
func (s *ItemStruct) NameRef() *ItemStructNameRef {
	return &ItemStructNameRef{
		Addr:           s.Addr,
		ModuleName:     s.ModuleName,
		Name:           s.Name,
		TypeParameters: s.TypeParameters,
		IsTest:         s.IsTest,
	}
}

// FieldType returns the resolved type of a named field.
func (s *ItemStruct) FieldType(name string) (ResolvedType, bool) {
	for _, f := range s.Fields {
		if f.Name.Value == name {
			return f.Ty, true
		}
	}
	return nil, false
}

// AllFields returns the field map attached to field-access events for
// completion consumers.
func (s *ItemStruct) AllFields() map[string]StructFieldItem {
	m := make(map[string]StructFieldItem, len(s.Fields))
	for _, f := range s.Fields {
		m[f.Name.Value] = f
	}
	return m
}

// BindTypeArgs rebinds the struct's field types to the given instantiation,
// returning a fresh item and leaving the registered one untouched.
func (s *ItemStruct) BindTypeArgs(args []ResolvedType) *ItemStruct {
	out := &ItemStruct{
		Addr:           s.Addr,
		ModuleName:     s.ModuleName,
		Name:           s.Name,
		TypeParameters: s.TypeParameters,
		TypeArgs:       args,
		IsTest:         s.IsTest,
	}
	types := make(map[string]ResolvedType)
	for i, tp := range s.TypeParameters {
		if i < len(args) {
			types[tp.Name.Value] = args[i]
		}
	}
	out.Fields = make([]StructFieldItem, len(s.Fields))
	for i, f := range s.Fields {
		out.Fields[i] = StructFieldItem{Name: f.Name, Ty: BindTypeParameters(f.Ty, types)}
	}
	return out
}

// FunParam pairs a parameter name with its resolved type.
type FunParam struct {
	Var ast.Name
	Ty  ResolvedType
}

// FunTParam is a function type parameter with its ability constraints.
type FunTParam struct {
	Name      ast.Name
	Abilities []ast.Ability
}

// ItemFun is a resolved function definition.
type ItemFun struct {
	Name           ast.Name
	TypeParameters []FunTParam
	Parameters     []FunParam
	Ret            ResolvedType
	Vis            ast.Visibility
	Module         ModuleKey
	IsSpec         bool
	IsTest         ast.AttrTest
}

func (f *ItemFun) clone() *ItemFun {
	out := *f
	out.Parameters = make([]FunParam, len(f.Parameters))
	copy(out.Parameters, f.Parameters)
	return &out
}

// ID returns the function's call-graph identity.
func (f *ItemFun) ID() FunID { return FunID{Module: f.Module, Name: f.Name.Value} }

// Accessible reports whether the function may be named from the context's
// current module under the given access mode. Spec functions need Spec mode,
// test functions need Test mode, internal visibility needs the same module,
// and friend visibility needs the current module in the friend set.
func (f *ItemFun) Accessible(ctx *ProjectContext, env AccessEnv) bool {
	if f.IsSpec && env != AccessSpec {
		return false
	}
	if f.IsTest.IsTest() && env != AccessTest {
		return false
	}
	current := ctx.CurrentModule()
	switch f.Vis {
	case ast.VisInternal:
		if current != f.Module {
			return false
		}
	case ast.VisFriend:
		if !ctx.WithFriends(f.Module, func(friends map[ModuleKey]bool) bool {
			return friends[current]
		}) {
			return false
		}
	}
	return true
}

// ItemBuildInType is a primitive registered in the outermost scope.
type ItemBuildInType struct {
	Kind BuildInType
}

// ItemMoveBuildInFun is a value-language built-in function.
type ItemMoveBuildInFun struct {
	Kind MoveBuildInFun
}

// ItemSpecBuildInFun is a specification-language built-in function.
type ItemSpecBuildInFun struct {
	Kind SpecBuildInFun
}

// ItemTParam is a declared type parameter in scope.
type ItemTParam struct {
	Name      ast.Name
	Abilities []ast.Ability
}

// SchemaField pairs a schema field name with its type.
type SchemaField struct {
	Name ast.Name
	Ty   ResolvedType
}

// ItemSpecSchema is a specification schema definition.
type ItemSpecSchema struct {
	Name   ast.Name
	Fields []SchemaField
}

// ItemModuleName is emitted when a module registers; it is also the target
// of friend declarations and module-qualifier clicks.
type ItemModuleName struct {
	Name   ast.Name
	Module ModuleKey
	IsTest bool
}

// ItemUseEntry is one binding produced by a use declaration.
type ItemUseEntry interface {
	useEntryNode()
}

// ItemUseModule binds a whole module, optionally under an alias. SelfName is
// set when the binding came from a `Self` member.
type ItemUseModule struct {
	Module   ModuleKey
	Ident    ast.ModuleIdent
	Alias    *ast.Name
	SelfName *ast.Name
	IsTest   bool
}

// ItemUseMember binds one member of another module, optionally aliased.
type ItemUseMember struct {
	Module ModuleKey
	Ident  ast.ModuleIdent
	Name   ast.Name
	Alias  *ast.Name
	IsTest bool
}

func (*ItemUseModule) useEntryNode() {}
func (*ItemUseMember) useEntryNode() {}

// ItemUse is a use-declaration binding: the entries that were registered
// under one visible name.
type ItemUse struct {
	Entries []ItemUseEntry
}

func (*ItemDummy) itemOrAccess()          {}
func (*ItemParam) itemOrAccess()          {}
func (*ItemVar) itemOrAccess()            {}
func (*ItemConst) itemOrAccess()          {}
func (*ItemStructNameRef) itemOrAccess()  {}
func (*ItemStruct) itemOrAccess()         {}
func (*ItemFun) itemOrAccess()            {}
func (*ItemBuildInType) itemOrAccess()    {}
func (*ItemMoveBuildInFun) itemOrAccess() {}
func (*ItemSpecBuildInFun) itemOrAccess() {}
func (*ItemTParam) itemOrAccess()         {}
func (*ItemSpecSchema) itemOrAccess()     {}
func (*ItemModuleName) itemOrAccess()     {}
func (*ItemUse) itemOrAccess()            {}

func (*ItemDummy) itemNode()          {}
func (*ItemParam) itemNode()          {}
func (*ItemVar) itemNode()            {}
func (*ItemConst) itemNode()          {}
func (*ItemStructNameRef) itemNode()  {}
func (*ItemStruct) itemNode()         {}
func (*ItemFun) itemNode()            {}
func (*ItemBuildInType) itemNode()    {}
func (*ItemMoveBuildInFun) itemNode() {}
func (*ItemSpecBuildInFun) itemNode() {}
func (*ItemTParam) itemNode()         {}
func (*ItemSpecSchema) itemNode()     {}
func (*ItemModuleName) itemNode()     {}
func (*ItemUse) itemNode()            {}

func (*ItemDummy) DefLoc() ast.Loc            { return ast.UnknownLoc() }
func (i *ItemParam) DefLoc() ast.Loc          { return i.Var.Loc }
func (i *ItemVar) DefLoc() ast.Loc            { return i.Var.Loc }
func (i *ItemConst) DefLoc() ast.Loc          { return i.Name.Loc }
func (i *ItemStructNameRef) DefLoc() ast.Loc  { return i.Name.Loc }
func (i *ItemStruct) DefLoc() ast.Loc         { return i.Name.Loc }
func (i *ItemFun) DefLoc() ast.Loc            { return i.Name.Loc }
func (*ItemBuildInType) DefLoc() ast.Loc      { return ast.UnknownLoc() }
func (*ItemMoveBuildInFun) DefLoc() ast.Loc   { return ast.UnknownLoc() }
func (*ItemSpecBuildInFun) DefLoc() ast.Loc   { return ast.UnknownLoc() }
func (i *ItemTParam) DefLoc() ast.Loc         { return i.Name.Loc }
func (i *ItemSpecSchema) DefLoc() ast.Loc     { return i.Name.Loc }
func (i *ItemModuleName) DefLoc() ast.Loc     { return i.Name.Loc }

// DefLoc of a use binding is the visible name's location on the use line:
// the alias when one was given, otherwise the imported name itself.
func (i *ItemUse) DefLoc() ast.Loc {
	if len(i.Entries) == 0 {
		return ast.UnknownLoc()
	}
	switch e := i.Entries[0].(type) {
	case *ItemUseModule:
		if e.Alias != nil {
			return e.Alias.Loc
		}
		return e.Ident.Module.Loc
	case *ItemUseMember:
		if e.Alias != nil {
			return e.Alias.Loc
		}
		return e.Name.Loc
	}
	return ast.UnknownLoc()
}

func (*ItemDummy) String() string { return "dummy" }

func (i *ItemParam) String() string {
	return fmt.Sprintf("%s: %s", i.Var.Value, i.Ty)
}

func (i *ItemVar) String() string {
	return fmt.Sprintf("let %s: %s", i.Var.Value, i.Ty)
}

func (i *ItemConst) String() string {
	return fmt.Sprintf("const %s: %s", i.Name.Value, i.Ty)
}

func (i *ItemStructNameRef) String() string {
	return "struct " + i.Name.Value
}

func (i *ItemStruct) String() string {
	var sb strings.Builder
	sb.WriteString("struct ")
	sb.WriteString(i.Name.Value)
	if len(i.TypeParameters) > 0 {
		sb.WriteString("<")
		for idx, tp := range i.TypeParameters {
			if idx > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name.Value)
		}
		sb.WriteString(">")
	}
	sb.WriteString(" {")
	for idx, f := range i.Fields {
		if idx > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, " %s: %s", f.Name.Value, f.Ty)
	}
	sb.WriteString(" }")
	return sb.String()
}

func (f *ItemFun) String() string {
	var sb strings.Builder
	if v := f.Vis.String(); v != "" {
		sb.WriteString(v)
		sb.WriteString(" ")
	}
	sb.WriteString("fun ")
	sb.WriteString(f.Name.Value)
	if len(f.TypeParameters) > 0 {
		sb.WriteString("<")
		for i, tp := range f.TypeParameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name.Value)
		}
		sb.WriteString(">")
	}
	sb.WriteString("(")
	for i, p := range f.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", p.Var.Value, p.Ty)
	}
	sb.WriteString(")")
	if f.Ret != nil {
		if _, unit := f.Ret.(*TypeUnit); !unit {
			sb.WriteString(": ")
			sb.WriteString(f.Ret.String())
		}
	}
	return sb.String()
}

func (i *ItemBuildInType) String() string    { return i.Kind.String() }
func (i *ItemMoveBuildInFun) String() string { return i.Kind.String() }
func (i *ItemSpecBuildInFun) String() string { return i.Kind.String() }
func (i *ItemTParam) String() string         { return i.Name.Value }
func (i *ItemSpecSchema) String() string     { return "schema " + i.Name.Value }
func (i *ItemModuleName) String() string     { return "module " + i.Name.Value }

func (i *ItemUse) String() string {
	if len(i.Entries) == 0 {
		return "use"
	}
	switch e := i.Entries[0].(type) {
	case *ItemUseModule:
		return "use " + e.Ident.String()
	case *ItemUseMember:
		return "use " + e.Ident.String() + "::" + e.Name.Value
	}
	return "use"
}

// ItemType converts an item to the resolved type it denotes when used in
// type or value position.
func ItemType(it Item) ResolvedType {
	switch x := it.(type) {
	case *ItemParam:
		return x.Ty
	case *ItemVar:
		return x.Ty
	case *ItemConst:
		return x.Ty
	case *ItemStructNameRef:
		return &TypeStruct{Ref: x}
	case *ItemStruct:
		return &TypeStruct{Ref: x.NameRef(), TypeArgs: x.TypeArgs}
	case *ItemFun:
		return &TypeFun{Fun: x}
	case *ItemBuildInType:
		return NewBuildIn(x.Kind)
	case *ItemTParam:
		return &TypeTParam{Name: x.Name, Abilities: x.Abilities}
	default:
		return UnknownType()
	}
}

// ItemIsTest reports whether the item is gated to test builds.
func ItemIsTest(it Item) bool {
	switch x := it.(type) {
	case *ItemStructNameRef:
		return x.IsTest
	case *ItemStruct:
		return x.IsTest
	case *ItemFun:
		return x.IsTest.IsTest()
	case *ItemModuleName:
		return x.IsTest
	default:
		return false
	}
}
