// Copyright © 2025 The movan authors

package ast

// Type is a syntactic type as produced by the parser. The engine converts
// it to a semantic ResolvedType during traversal.
type Type interface {
	typeNode()
	GetLoc() Loc
}

// ApplyType names a type, possibly qualified and instantiated:
// Coin<u64>, 0x1::option::Option<T>, vector<u8>.
type ApplyType struct {
	Loc   Loc
	Chain *NameAccessChain
}

// RefType is &T or &mut T.
type RefType struct {
	Loc   Loc
	Mut   bool
	Inner Type
}

// FunType is a specification-language lambda type |T1, T2| R.
type FunType struct {
	Loc  Loc
	Args []Type
	Ret  Type
}

// UnitType is ().
type UnitType struct {
	Loc Loc
}

// MultipleType is a tuple (T1, ..., Tn).
type MultipleType struct {
	Loc   Loc
	Types []Type
}

func (*ApplyType) typeNode()    {}
func (*RefType) typeNode()      {}
func (*FunType) typeNode()      {}
func (*UnitType) typeNode()     {}
func (*MultipleType) typeNode() {}

func (t *ApplyType) GetLoc() Loc    { return t.Loc }
func (t *RefType) GetLoc() Loc      { return t.Loc }
func (t *FunType) GetLoc() Loc      { return t.Loc }
func (t *UnitType) GetLoc() Loc     { return t.Loc }
func (t *MultipleType) GetLoc() Loc { return t.Loc }

// Ability is a declared type ability constraint (copy, drop, store, key).
type Ability struct {
	Loc   Loc
	Value string
}

// TypeParameter is a declared type parameter with its ability constraints.
type TypeParameter struct {
	Name      Name
	Abilities []Ability
}

// DatatypeTypeParameter is a struct type parameter; phantom parameters do
// not contribute to the struct's abilities.
type DatatypeTypeParameter struct {
	IsPhantom bool
	Name      Name
	Abilities []Ability
}
