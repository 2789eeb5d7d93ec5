// Copyright © 2025 The movan authors

package sema

import "github.com/movelang/movan/ast"

// MoveBuildInFun is a value-language built-in function.
type MoveBuildInFun int

const (
	MoveBuildInMoveTo MoveBuildInFun = iota
	MoveBuildInMoveFrom
	MoveBuildInBorrowGlobalMut
	MoveBuildInBorrowGlobal
	MoveBuildInExists
	MoveBuildInFreeze
)

func (m MoveBuildInFun) String() string {
	switch m {
	case MoveBuildInMoveTo:
		return "move_to"
	case MoveBuildInMoveFrom:
		return "move_from"
	case MoveBuildInBorrowGlobalMut:
		return "borrow_global_mut"
	case MoveBuildInBorrowGlobal:
		return "borrow_global"
	case MoveBuildInExists:
		return "exists"
	case MoveBuildInFreeze:
		return "freeze"
	default:
		return "builtin"
	}
}

// Notice is the hover documentation for the built-in.
func (m MoveBuildInFun) Notice() string {
	switch m {
	case MoveBuildInMoveTo:
		return "move_to<T>(&signer, T)\nPublish T under signer.address."
	case MoveBuildInMoveFrom:
		return "move_from<T>(address): T\nRemove T from address and return it."
	case MoveBuildInBorrowGlobalMut:
		return "borrow_global_mut<T>(address): &mut T\nReturn a mutable reference to the T stored at address."
	case MoveBuildInBorrowGlobal:
		return "borrow_global<T>(address): &T\nReturn an immutable reference to the T stored at address."
	case MoveBuildInExists:
		return "exists<T>(address): bool\nReturn true if a T is stored at address."
	case MoveBuildInFreeze:
		return "freeze<T>(&mut T): &T\nConvert a mutable reference to an immutable reference."
	default:
		return ""
	}
}

// AllMoveBuildInFuns enumerates the value-language built-ins registered in
// the outermost scope.
func AllMoveBuildInFuns() []MoveBuildInFun {
	return []MoveBuildInFun{
		MoveBuildInMoveTo, MoveBuildInMoveFrom, MoveBuildInBorrowGlobalMut,
		MoveBuildInBorrowGlobal, MoveBuildInExists, MoveBuildInFreeze,
	}
}

// SpecBuildInFun is a specification-language built-in function.
type SpecBuildInFun int

const (
	SpecBuildInExists SpecBuildInFun = iota
	SpecBuildInGlobal
	SpecBuildInLen
	SpecBuildInUpdate
	SpecBuildInVec
	SpecBuildInConcat
	SpecBuildInContains
	SpecBuildInIndexOf
	SpecBuildInRange
	SpecBuildInInRange
	SpecBuildInUpdateField
	SpecBuildInOld
	SpecBuildInTrace
)

func (s SpecBuildInFun) String() string {
	switch s {
	case SpecBuildInExists:
		return "exists"
	case SpecBuildInGlobal:
		return "global"
	case SpecBuildInLen:
		return "len"
	case SpecBuildInUpdate:
		return "update"
	case SpecBuildInVec:
		return "vec"
	case SpecBuildInConcat:
		return "concat"
	case SpecBuildInContains:
		return "contains"
	case SpecBuildInIndexOf:
		return "index_of"
	case SpecBuildInRange:
		return "range"
	case SpecBuildInInRange:
		return "in_range"
	case SpecBuildInUpdateField:
		return "update_field"
	case SpecBuildInOld:
		return "old"
	case SpecBuildInTrace:
		return "TRACE"
	default:
		return "builtin"
	}
}

// Notice is the hover documentation for the built-in.
func (s SpecBuildInFun) Notice() string {
	switch s {
	case SpecBuildInExists:
		return "exists<T>(address): bool\nReturn true if the resource T exists at address."
	case SpecBuildInGlobal:
		return "global<T>(address): T\nReturn the resource value at address."
	case SpecBuildInLen:
		return "len<T>(vector<T>): num\nReturn the length of a vector."
	case SpecBuildInUpdate:
		return "update<T>(vector<T>, num, T): vector<T>\nReturn a new vector with the element at the index replaced."
	case SpecBuildInVec:
		return "vec<T>(): vector<T>\nReturn an empty vector, or a singleton from one argument."
	case SpecBuildInConcat:
		return "concat<T>(vector<T>, vector<T>): vector<T>\nReturn the concatenation of two vectors."
	case SpecBuildInContains:
		return "contains<T>(vector<T>, T): bool\nReturn true if the vector contains the element."
	case SpecBuildInIndexOf:
		return "index_of<T>(vector<T>, T): num\nReturn the lowest index of the element, or the length if absent."
	case SpecBuildInRange:
		return "range<T>(vector<T>): range\nReturn the index range of a vector."
	case SpecBuildInInRange:
		return "in_range<T>(vector<T>, num): bool\nReturn true if the number is in the index range of the vector."
	case SpecBuildInUpdateField:
		return "update_field(S, F, T): S\nReturn a new struct value with the named field replaced."
	case SpecBuildInOld:
		return "old(T): T\nReturn the value of the argument at function entry. Allowed in ensures and postconditions only."
	case SpecBuildInTrace:
		return "TRACE(T): T\nIdentity; the traced value is shown in verification error messages."
	default:
		return ""
	}
}

// AllSpecBuildInFuns enumerates the specification-language built-ins.
func AllSpecBuildInFuns() []SpecBuildInFun {
	return []SpecBuildInFun{
		SpecBuildInExists, SpecBuildInGlobal, SpecBuildInLen, SpecBuildInUpdate,
		SpecBuildInVec, SpecBuildInConcat, SpecBuildInContains, SpecBuildInIndexOf,
		SpecBuildInRange, SpecBuildInInRange, SpecBuildInUpdateField,
		SpecBuildInOld, SpecBuildInTrace,
	}
}

// specConstants are the integer limit constants visible in spec contexts.
var specConstants = []struct {
	Name string
	Kind BuildInType
}{
	{"MAX_U8", BuildInU8},
	{"MAX_U16", BuildInU16},
	{"MAX_U32", BuildInU32},
	{"MAX_U64", BuildInU64},
	{"MAX_U128", BuildInU128},
	{"MAX_U256", BuildInU256},
}

// newBuiltinScope builds the default outer scope holding primitives and
// value-language built-in functions. It sits at the bottom of every scope
// stack, so the stack is never empty.
func newBuiltinScope() *Scope {
	s := NewScope()
	for _, b := range BuildInTypes() {
		it := &ItemBuildInType{Kind: b}
		s.Types[b.String()] = it
		s.Items[b.String()] = it
	}
	for _, f := range AllMoveBuildInFuns() {
		s.Items[f.String()] = &ItemMoveBuildInFun{Kind: f}
	}
	return s
}

// enterSpecBuiltins seeds a spec overlay scope with the specification
// built-ins and limit constants.
func enterSpecBuiltins(s *Scope) {
	for _, f := range AllSpecBuildInFuns() {
		s.Items[f.String()] = &ItemSpecBuildInFun{Kind: f}
	}
	for _, c := range specConstants {
		s.Items[c.Name] = &ItemConst{
			Name:   ast.Name{Value: c.Name},
			Ty:     NewBuildIn(c.Kind),
			IsSpec: true,
		}
	}
}
