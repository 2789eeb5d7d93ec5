// Copyright © 2025 The movan authors

package ast

// Attribute is a parsed #[...] annotation. Only the name is inspected by
// the engine; arguments stay opaque.
type Attribute struct {
	Loc  Loc
	Name string
}

// AttrTest classifies the test annotations on a definition.
type AttrTest int

const (
	AttrTestNone AttrTest = iota
	AttrTestTest
	AttrTestOnly
)

// IsTest reports whether the definition is gated to test builds.
func (a AttrTest) IsTest() bool { return a != AttrTestNone }

// AttributesHasTest scans a definition's attributes for test markers.
func AttributesHasTest(attrs []Attribute) AttrTest {
	r := AttrTestNone
	for _, a := range attrs {
		switch a.Name {
		case "test":
			if r == AttrTestNone {
				r = AttrTestTest
			}
		case "test_only":
			r = AttrTestOnly
		}
	}
	return r
}

// Visibility of a function.
type Visibility int

const (
	VisInternal Visibility = iota
	VisPublic
	VisFriend
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisFriend:
		return "public(friend)"
	default:
		return ""
	}
}

// FunctionParameter is one declared parameter.
type FunctionParameter struct {
	Var  Name
	Type Type
}

// FunctionSignature is the declared shape of a function.
type FunctionSignature struct {
	TypeParameters []TypeParameter
	Parameters     []FunctionParameter
	ReturnType     Type
}

// FunctionBody is native or a defined sequence.
type FunctionBody struct {
	Loc    Loc
	Native bool
	Seq    *Sequence
}

// Function is a parsed function definition.
type Function struct {
	Attributes []Attribute
	Loc        Loc
	Name       Name
	Visibility Visibility
	IsEntry    bool
	Signature  FunctionSignature
	Body       *FunctionBody
}

// StructField is one named field of a struct.
type StructField struct {
	Field Name
	Type  Type
}

// StructDefinition is a parsed struct. Native structs have no fields.
type StructDefinition struct {
	Attributes     []Attribute
	Loc            Loc
	Name           Name
	Abilities      []Ability
	TypeParameters []DatatypeTypeParameter
	Fields         []StructField
	IsNative       bool
}

// Constant is a parsed constant definition.
type Constant struct {
	Attributes []Attribute
	Loc        Loc
	Name       Name
	Signature  Type
	Value      Exp
}

// UseMember is one imported member, optionally aliased. The member name
// "Self" imports the module itself.
type UseMember struct {
	Name  Name
	Alias *Name
}

// UseDecl is a parsed use declaration. When Members is nil the whole
// module is imported under ModuleAlias (or its own name); otherwise the
// listed members are imported individually.
type UseDecl struct {
	Attributes  []Attribute
	Loc         Loc
	Module      ModuleIdent
	ModuleAlias *Name
	Members     []UseMember
	HasMembers  bool
}

// FriendDecl is a parsed friend declaration.
type FriendDecl struct {
	Loc    Loc
	Friend *NameAccessChain
}

// SpecTargetKind discriminates what a specification block applies to.
type SpecTargetKind int

const (
	SpecTargetModule SpecTargetKind = iota
	SpecTargetMember
	SpecTargetSchema
)

// SpecTarget is the header of a spec block: spec module, spec <member>,
// or spec schema <Name><TParams>.
type SpecTarget struct {
	Loc            Loc
	Kind           SpecTargetKind
	Name           Name
	TypeParameters []TypeParameter
}

// SpecMember is one member of a specification block.
type SpecMember interface {
	specMemberNode()
}

// SpecCondition is assert/assume/ensures/requires/aborts_if/invariant....
type SpecCondition struct {
	Loc  Loc
	Kind string
	Exp  Exp
}

// SpecFunction is a spec-only helper function.
type SpecFunction struct {
	Fun *Function
}

// SpecVariable declares a schema field or spec-global variable.
type SpecVariable struct {
	Loc      Loc
	IsGlobal bool
	Name     Name
	Type     Type
	Init     Exp
}

// SpecInclude includes a schema.
type SpecInclude struct {
	Loc   Loc
	Chain *NameAccessChain
}

// SpecApply applies a schema to a pattern of members.
type SpecApply struct {
	Loc   Loc
	Chain *NameAccessChain
}

// SpecLet binds a name inside a spec block.
type SpecLet struct {
	Loc  Loc
	Name Name
	Exp  Exp
}

func (*SpecCondition) specMemberNode() {}
func (*SpecFunction) specMemberNode()  {}
func (*SpecVariable) specMemberNode()  {}
func (*SpecInclude) specMemberNode()   {}
func (*SpecApply) specMemberNode()     {}
func (*SpecLet) specMemberNode()       {}

// SpecBlock is a parsed specification block.
type SpecBlock struct {
	Attributes []Attribute
	Loc        Loc
	Target     SpecTarget
	Uses       []*UseDecl
	Members    []SpecMember
}

// ModuleMember is any top-level member of a module.
type ModuleMember interface {
	moduleMemberNode()
}

func (*Function) moduleMemberNode()         {}
func (*StructDefinition) moduleMemberNode() {}
func (*Constant) moduleMemberNode()         {}
func (*UseDecl) moduleMemberNode()          {}
func (*FriendDecl) moduleMemberNode()       {}
func (*SpecBlock) moduleMemberNode()        {}

// ModuleDefinition is a parsed module. IsSpecModule marks `spec module`
// companions ("module spec" files) that overlay a value module.
type ModuleDefinition struct {
	Attributes   []Attribute
	Loc          Loc
	Address      *LeadingNameAccess
	Name         Name
	IsSpecModule bool
	Members      []ModuleMember
}

// Script is a parsed script: uses, constants and one entry function.
type Script struct {
	Loc       Loc
	Uses      []*UseDecl
	Constants []*Constant
	Function  *Function
}

// Definition is one top-level item of a parsed file.
type Definition interface {
	definitionNode()
}

// AddressDefinition groups modules under one address block.
type AddressDefinition struct {
	Loc     Loc
	Address LeadingNameAccess
	Modules []*ModuleDefinition
}

func (*ModuleDefinition) definitionNode()  {}
func (*AddressDefinition) definitionNode() {}
func (*Script) definitionNode()            {}
