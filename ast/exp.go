// Copyright © 2025 The movan authors

package ast

// Exp is a parsed expression form.
type Exp interface {
	expNode()
	GetLoc() Loc
}

// ValueKind discriminates literal values.
type ValueKind int

const (
	ValueAddress ValueKind = iota
	ValueNum
	ValueBool
	ValueHexString
	ValueByteString
)

// ValueExp is a literal. Address literals written with a symbolic name
// (@std) carry the name so the use can be reported as an access.
type ValueExp struct {
	Loc  Loc
	Kind ValueKind
	Lit  string
	// Name is non-nil for symbolic address literals.
	Name *Name
}

// NameExp references a variable or any name chain.
type NameExp struct {
	Loc   Loc
	Chain *NameAccessChain
}

// CallExp is a call, macro-style (assert!) or plain.
type CallExp struct {
	Loc   Loc
	Chain *NameAccessChain
	Args  []Exp
}

// PackExp is a struct literal: Coin { value: 1 } or Coin { value }.
type PackExp struct {
	Loc    Loc
	Chain  *NameAccessChain
	Fields []PackField
}

// PackField is one field initializer of a PackExp. Shorthand initializers
// (field punning) reuse the field name span as the expression.
type PackField struct {
	Field Name
	Exp   Exp
}

// VectorExp is a vector literal vector<T>[e1, e2].
type VectorExp struct {
	Loc      Loc
	TypeArgs []Type
	Args     []Exp
}

// IfElseExp is a conditional; Else may be nil.
type IfElseExp struct {
	Loc  Loc
	Cond Exp
	Then Exp
	Else Exp
}

// WhileExp is a while loop.
type WhileExp struct {
	Loc  Loc
	Cond Exp
	Body Exp
}

// LoopExp is an infinite loop.
type LoopExp struct {
	Loc  Loc
	Body Exp
}

// BlockExp is a brace block with its own scope.
type BlockExp struct {
	Loc Loc
	Seq *Sequence
}

// LambdaExp is a specification-language lambda |x, y| body.
type LambdaExp struct {
	Loc   Loc
	Binds *LambdaBindList
	Body  Exp
}

// QuantKind discriminates quantifier expressions.
type QuantKind int

const (
	QuantForall QuantKind = iota
	QuantExists
	QuantChoose
)

// QuantBind is one binding of a quantifier: name together with the domain
// expression it ranges over.
type QuantBind struct {
	Bind Bind
	Exp  Exp
}

// QuantExp is forall/exists/choose over bound names.
type QuantExp struct {
	Loc      Loc
	Kind     QuantKind
	Binds    []QuantBind
	Triggers [][]Exp
	Where    Exp
	Body     Exp
}

// ExpListExp is a parenthesized expression list (tuple construction).
type ExpListExp struct {
	Loc  Loc
	Exps []Exp
}

// UnitExp is ().
type UnitExp struct {
	Loc Loc
}

// AssignExp is lhs = rhs.
type AssignExp struct {
	Loc Loc
	LHS Exp
	RHS Exp
}

// ReturnExp returns from the enclosing function; Exp may be nil.
type ReturnExp struct {
	Loc Loc
	Exp Exp
}

// AbortExp aborts with a code.
type AbortExp struct {
	Loc Loc
	Exp Exp
}

// BreakExp exits the enclosing loop.
type BreakExp struct {
	Loc Loc
}

// ContinueExp restarts the enclosing loop.
type ContinueExp struct {
	Loc Loc
}

// DereferenceExp is *e.
type DereferenceExp struct {
	Loc Loc
	Exp Exp
}

// UnaryExp is !e.
type UnaryExp struct {
	Loc Loc
	Op  string
	Exp Exp
}

// BinopExp is lhs <op> rhs.
type BinopExp struct {
	Loc Loc
	LHS Exp
	Op  string
	RHS Exp
}

// BorrowExp is &e or &mut e.
type BorrowExp struct {
	Loc Loc
	Mut bool
	Exp Exp
}

// DotExp is a field access e.f.
type DotExp struct {
	Loc   Loc
	LHS   Exp
	Field Name
}

// IndexExp is e[i...].
type IndexExp struct {
	Loc   Loc
	LHS   Exp
	Index []Exp
}

// CastExp is (e as T).
type CastExp struct {
	Loc  Loc
	Exp  Exp
	Type Type
}

// AnnotateExp is (e: T).
type AnnotateExp struct {
	Loc  Loc
	Exp  Exp
	Type Type
}

// SpecBlockExp is an inline specification sub-block inside a function body.
type SpecBlockExp struct {
	Loc  Loc
	Spec *SpecBlock
}

// MoveExp is move e.
type MoveExp struct {
	Loc Loc
	Exp Exp
}

// CopyExp is copy e.
type CopyExp struct {
	Loc Loc
	Exp Exp
}

func (*ValueExp) expNode()       {}
func (*NameExp) expNode()        {}
func (*CallExp) expNode()        {}
func (*PackExp) expNode()        {}
func (*VectorExp) expNode()      {}
func (*IfElseExp) expNode()      {}
func (*WhileExp) expNode()       {}
func (*LoopExp) expNode()        {}
func (*BlockExp) expNode()       {}
func (*LambdaExp) expNode()      {}
func (*QuantExp) expNode()       {}
func (*ExpListExp) expNode()     {}
func (*UnitExp) expNode()        {}
func (*AssignExp) expNode()      {}
func (*ReturnExp) expNode()      {}
func (*AbortExp) expNode()       {}
func (*BreakExp) expNode()       {}
func (*ContinueExp) expNode()    {}
func (*DereferenceExp) expNode() {}
func (*UnaryExp) expNode()       {}
func (*BinopExp) expNode()       {}
func (*BorrowExp) expNode()      {}
func (*DotExp) expNode()         {}
func (*IndexExp) expNode()       {}
func (*CastExp) expNode()        {}
func (*AnnotateExp) expNode()    {}
func (*SpecBlockExp) expNode()   {}
func (*MoveExp) expNode()        {}
func (*CopyExp) expNode()        {}

func (e *ValueExp) GetLoc() Loc       { return e.Loc }
func (e *NameExp) GetLoc() Loc        { return e.Loc }
func (e *CallExp) GetLoc() Loc        { return e.Loc }
func (e *PackExp) GetLoc() Loc        { return e.Loc }
func (e *VectorExp) GetLoc() Loc      { return e.Loc }
func (e *IfElseExp) GetLoc() Loc      { return e.Loc }
func (e *WhileExp) GetLoc() Loc       { return e.Loc }
func (e *LoopExp) GetLoc() Loc        { return e.Loc }
func (e *BlockExp) GetLoc() Loc       { return e.Loc }
func (e *LambdaExp) GetLoc() Loc      { return e.Loc }
func (e *QuantExp) GetLoc() Loc       { return e.Loc }
func (e *ExpListExp) GetLoc() Loc     { return e.Loc }
func (e *UnitExp) GetLoc() Loc        { return e.Loc }
func (e *AssignExp) GetLoc() Loc      { return e.Loc }
func (e *ReturnExp) GetLoc() Loc      { return e.Loc }
func (e *AbortExp) GetLoc() Loc       { return e.Loc }
func (e *BreakExp) GetLoc() Loc       { return e.Loc }
func (e *ContinueExp) GetLoc() Loc    { return e.Loc }
func (e *DereferenceExp) GetLoc() Loc { return e.Loc }
func (e *UnaryExp) GetLoc() Loc       { return e.Loc }
func (e *BinopExp) GetLoc() Loc       { return e.Loc }
func (e *BorrowExp) GetLoc() Loc      { return e.Loc }
func (e *DotExp) GetLoc() Loc         { return e.Loc }
func (e *IndexExp) GetLoc() Loc       { return e.Loc }
func (e *CastExp) GetLoc() Loc        { return e.Loc }
func (e *AnnotateExp) GetLoc() Loc    { return e.Loc }
func (e *SpecBlockExp) GetLoc() Loc   { return e.Loc }
func (e *MoveExp) GetLoc() Loc        { return e.Loc }
func (e *CopyExp) GetLoc() Loc        { return e.Loc }

// Sequence is the content of a block: leading use declarations, statement
// items and an optional trailing value expression.
type Sequence struct {
	Uses  []*UseDecl
	Items []SequenceItem
	Final Exp
}

// SequenceItem is one statement of a block.
type SequenceItem interface {
	seqNode()
}

// SeqExp is an expression statement.
type SeqExp struct {
	Exp Exp
}

// SeqDeclare is let binds[: T]; without an initializer.
type SeqDeclare struct {
	Binds *BindList
	Type  Type
}

// SeqBind is let binds[: T] = e;.
type SeqBind struct {
	Binds *BindList
	Type  Type
	Exp   Exp
}

func (*SeqExp) seqNode()     {}
func (*SeqDeclare) seqNode() {}
func (*SeqBind) seqNode()    {}

// Bind is a binding pattern.
type Bind interface {
	bindNode()
	GetLoc() Loc
}

// VarBind binds a single variable.
type VarBind struct {
	Var Name
}

// FieldBind is one field of an unpack pattern. Shorthand (just the field
// name) is represented with a VarBind of the same name.
type FieldBind struct {
	Field Name
	Bind  Bind
}

// UnpackBind destructures a struct: let Coin { value } = c.
type UnpackBind struct {
	Loc    Loc
	Chain  *NameAccessChain
	Fields []FieldBind
}

func (*VarBind) bindNode()    {}
func (*UnpackBind) bindNode() {}

func (b *VarBind) GetLoc() Loc    { return b.Var.Loc }
func (b *UnpackBind) GetLoc() Loc { return b.Loc }

// BindList is a comma-separated list of binding patterns.
type BindList struct {
	Loc   Loc
	Binds []Bind
}

// LambdaBindList is the parameter list of a lambda.
type LambdaBindList struct {
	Loc   Loc
	Binds []*BindList
}
