// Copyright © 2025 The movan authors

// Package sema implements the semantic-analysis core: the scope and symbol
// model, resolved types with generic substitution, and the phased resolution
// visitor that emits definition and use events to pluggable handlers.
package sema

import (
	"strings"

	"github.com/movelang/movan/ast"
)

// BuildInType is a primitive type of the value language.
type BuildInType int

const (
	BuildInBool BuildInType = iota
	BuildInU8
	BuildInU16
	BuildInU32
	BuildInU64
	BuildInU128
	BuildInU256
	BuildInAddress
	BuildInSigner
	// BuildInNumType is the type of an integer literal before its width is
	// pinned by context.
	BuildInNumType
	// BuildInString is the byte-string literal alias for vector<u8>.
	BuildInString
)

func (b BuildInType) String() string {
	switch b {
	case BuildInBool:
		return "bool"
	case BuildInU8:
		return "u8"
	case BuildInU16:
		return "u16"
	case BuildInU32:
		return "u32"
	case BuildInU64:
		return "u64"
	case BuildInU128:
		return "u128"
	case BuildInU256:
		return "u256"
	case BuildInAddress:
		return "address"
	case BuildInSigner:
		return "signer"
	case BuildInString:
		return "vector<u8>"
	case BuildInNumType:
		return "u256"
	default:
		return "unknown"
	}
}

// BuildInTypeFromName maps a primitive type name to its BuildInType.
func BuildInTypeFromName(name string) (BuildInType, bool) {
	switch name {
	case "bool":
		return BuildInBool, true
	case "u8":
		return BuildInU8, true
	case "u16":
		return BuildInU16, true
	case "u32":
		return BuildInU32, true
	case "u64":
		return BuildInU64, true
	case "u128":
		return BuildInU128, true
	case "u256":
		return BuildInU256, true
	case "address":
		return BuildInAddress, true
	case "signer":
		return BuildInSigner, true
	default:
		return 0, false
	}
}

// NumTypeNames lists the integer primitive names, for completion.
func NumTypeNames() []string {
	return []string{"u8", "u16", "u32", "u64", "u128", "u256"}
}

// BuildInTypes lists the primitives registered into the outermost scope.
func BuildInTypes() []BuildInType {
	return []BuildInType{
		BuildInU8, BuildInU16, BuildInU32, BuildInU64, BuildInU128,
		BuildInU256, BuildInAddress, BuildInSigner, BuildInBool,
	}
}

// ResolvedType is the engine's semantic type representation, distinct from
// the parser's syntactic ast.Type. The zero value of the model is
// TypeUnknown: resolution failures degrade to it instead of erroring.
type ResolvedType interface {
	resolvedType()
	String() string
}

// TypeUnknown is the sentinel for anything that failed to resolve.
type TypeUnknown struct{}

// TypeStruct is a struct reference instantiated with type arguments. The
// reference alone identifies the struct; field types live with the defining
// module and are substituted on demand.
type TypeStruct struct {
	Ref      *ItemStructNameRef
	TypeArgs []ResolvedType
}

// TypeBuildIn is a primitive.
type TypeBuildIn struct {
	Kind BuildInType
}

// TypeTParam is a reference to a declared type parameter.
type TypeTParam struct {
	Name      ast.Name
	Abilities []ast.Ability
}

// TypeRef is &T or &mut T.
type TypeRef struct {
	Mut   bool
	Inner ResolvedType
}

// TypeUnit is ().
type TypeUnit struct{}

// TypeMultiple is a tuple type, used for multi-value returns and blocks.
type TypeMultiple struct {
	Types []ResolvedType
}

// TypeFun wraps a function item used in type position.
type TypeFun struct {
	Fun *ItemFun
}

// TypeVec is vector<T>.
type TypeVec struct {
	Elem ResolvedType
}

// TypeLambda is the specification-language lambda type |T1..Tn| R.
type TypeLambda struct {
	Args []ResolvedType
	Ret  ResolvedType
}

// TypeRange is the specification-language range type.
type TypeRange struct{}

func (*TypeUnknown) resolvedType()  {}
func (*TypeStruct) resolvedType()   {}
func (*TypeBuildIn) resolvedType()  {}
func (*TypeTParam) resolvedType()   {}
func (*TypeRef) resolvedType()      {}
func (*TypeUnit) resolvedType()     {}
func (*TypeMultiple) resolvedType() {}
func (*TypeFun) resolvedType()      {}
func (*TypeVec) resolvedType()      {}
func (*TypeLambda) resolvedType()   {}
func (*TypeRange) resolvedType()    {}

func (*TypeUnknown) String() string { return "unknown" }

func (t *TypeStruct) String() string {
	if len(t.TypeArgs) == 0 {
		return t.Ref.Name.Value
	}
	args := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.String()
	}
	return t.Ref.Name.Value + "<" + strings.Join(args, ", ") + ">"
}

func (t *TypeBuildIn) String() string { return t.Kind.String() }
func (t *TypeTParam) String() string  { return t.Name.Value }

func (t *TypeRef) String() string {
	if t.Mut {
		return "&mut " + t.Inner.String()
	}
	return "&" + t.Inner.String()
}

func (*TypeUnit) String() string { return "()" }

func (t *TypeMultiple) String() string {
	parts := make([]string, len(t.Types))
	for i, x := range t.Types {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TypeFun) String() string { return "fun " + t.Fun.Name.Value }
func (t *TypeVec) String() string { return "vector<" + t.Elem.String() + ">" }

func (t *TypeLambda) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return "|" + strings.Join(args, ", ") + "| " + t.Ret.String()
}

func (*TypeRange) String() string { return "range" }

// UnknownType returns the shared resolution-failure sentinel.
func UnknownType() ResolvedType { return theUnknown }

var (
	theUnknown = &TypeUnknown{}
	theUnit    = &TypeUnit{}
)

// UnitType returns the shared () type.
func UnitType() ResolvedType { return theUnit }

// NewBuildIn wraps a primitive.
func NewBuildIn(k BuildInType) ResolvedType { return &TypeBuildIn{Kind: k} }

// NewRef wraps a reference.
func NewRef(mut bool, inner ResolvedType) ResolvedType {
	return &TypeRef{Mut: mut, Inner: inner}
}

// NewVector wraps a vector element type.
func NewVector(elem ResolvedType) ResolvedType { return &TypeVec{Elem: elem} }

// IsUnknown reports whether t is the resolution-failure sentinel.
func IsUnknown(t ResolvedType) bool {
	_, ok := t.(*TypeUnknown)
	return ok
}

// StripRef removes one reference layer if present.
func StripRef(t ResolvedType) ResolvedType {
	if r, ok := t.(*TypeRef); ok {
		return r.Inner
	}
	return t
}

// NthType projects element index out of a tuple; non-tuples project to
// themselves. Used when a multi-value expression feeds a bind list.
func NthType(t ResolvedType, index int) ResolvedType {
	if m, ok := t.(*TypeMultiple); ok {
		if index < len(m.Types) {
			return m.Types[index]
		}
		return UnknownType()
	}
	return t
}

// TypesEqual is the structural equality used for matching: reference
// mutability is ignored and a reference matches its pointee.
func TypesEqual(a, b ResolvedType) bool {
	if ra, ok := a.(*TypeRef); ok {
		if rb, ok := b.(*TypeRef); ok {
			return TypesEqual(ra.Inner, rb.Inner)
		}
		return TypesEqual(ra.Inner, b)
	}
	if rb, ok := b.(*TypeRef); ok {
		return TypesEqual(a, rb.Inner)
	}
	switch x := a.(type) {
	case *TypeStruct:
		y, ok := b.(*TypeStruct)
		return ok && x.Ref.Addr == y.Ref.Addr &&
			x.Ref.ModuleName == y.Ref.ModuleName &&
			x.Ref.Name.Value == y.Ref.Name.Value
	case *TypeBuildIn:
		y, ok := b.(*TypeBuildIn)
		return ok && x.Kind == y.Kind
	case *TypeMultiple:
		y, ok := b.(*TypeMultiple)
		if !ok || len(x.Types) != len(y.Types) {
			return false
		}
		for i := range x.Types {
			if !TypesEqual(x.Types[i], y.Types[i]) {
				return false
			}
		}
		return true
	case *TypeVec:
		_, ok := b.(*TypeVec)
		return ok
	case *TypeUnit:
		_, ok := b.(*TypeUnit)
		return ok
	case *TypeTParam:
		y, ok := b.(*TypeTParam)
		return ok && x.Name.Value == y.Name.Value && x.Name.Loc == y.Name.Loc
	default:
		return false
	}
}

// BindTypeParameters substitutes type-parameter leaves using a name to type
// mapping, returning a new tree and leaving the receiver's tree untouched.
func BindTypeParameters(t ResolvedType, types map[string]ResolvedType) ResolvedType {
	if len(types) == 0 || t == nil {
		return t
	}
	switch x := t.(type) {
	case *TypeTParam:
		if r, ok := types[x.Name.Value]; ok {
			return r
		}
		return x
	case *TypeRef:
		return &TypeRef{Mut: x.Mut, Inner: BindTypeParameters(x.Inner, types)}
	case *TypeMultiple:
		out := make([]ResolvedType, len(x.Types))
		for i, e := range x.Types {
			out[i] = BindTypeParameters(e, types)
		}
		return &TypeMultiple{Types: out}
	case *TypeVec:
		return &TypeVec{Elem: BindTypeParameters(x.Elem, types)}
	case *TypeStruct:
		out := make([]ResolvedType, len(x.TypeArgs))
		for i, e := range x.TypeArgs {
			out[i] = BindTypeParameters(e, types)
		}
		return &TypeStruct{Ref: x.Ref, TypeArgs: out}
	case *TypeFun:
		f := x.Fun.clone()
		for i := range f.Parameters {
			f.Parameters[i].Ty = BindTypeParameters(f.Parameters[i].Ty, types)
		}
		f.Ret = BindTypeParameters(f.Ret, types)
		return &TypeFun{Fun: f}
	case *TypeLambda:
		args := make([]ResolvedType, len(x.Args))
		for i, a := range x.Args {
			args[i] = BindTypeParameters(a, types)
		}
		return &TypeLambda{Args: args, Ret: BindTypeParameters(x.Ret, types)}
	default:
		return t
	}
}

// TypeDefLoc is the definition location used for type-definition queries.
// Only named types carry one.
func TypeDefLoc(t ResolvedType) ast.Loc {
	switch x := t.(type) {
	case *TypeTParam:
		return x.Name.Loc
	case *TypeStruct:
		return x.Ref.Name.Loc
	case *TypeFun:
		return x.Fun.Name.Loc
	case *TypeRef:
		return TypeDefLoc(x.Inner)
	default:
		return ast.UnknownLoc()
	}
}
