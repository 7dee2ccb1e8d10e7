package hir

import (
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// Expr is one typed HIR node: every expression kind carries its resolved
// type and source span regardless of kind, so the move checker and backend
// never need a type-specific traversal to find them.
type Expr interface {
	isExpr()
	Type() types.TypeID
	Span() source.Span
}

type exprBase struct {
	ty   types.TypeID
	span source.Span
}

func (exprBase) isExpr()              {}
func (e exprBase) Type() types.TypeID { return e.ty }
func (e exprBase) Span() source.Span  { return e.span }

func newBase(ty types.TypeID, span source.Span) exprBase { return exprBase{ty, span} }

// IntLit, FloatLit, BoolLit, UnitExpr are literal values.
type IntLit struct {
	exprBase
	Value int64
}

func NewIntLit(ty types.TypeID, span source.Span, v int64) *IntLit {
	return &IntLit{newBase(ty, span), v}
}

type FloatLit struct {
	exprBase
	Value float64
}

func NewFloatLit(ty types.TypeID, span source.Span, v float64) *FloatLit {
	return &FloatLit{newBase(ty, span), v}
}

type BoolLit struct {
	exprBase
	Value bool
}

func NewBoolLit(ty types.TypeID, span source.Span, v bool) *BoolLit {
	return &BoolLit{newBase(ty, span), v}
}

// LiteralStr references the id-th entry of the owning Module's Literals
// table, materialized by the builder when it first encounters a StrLit.
type LiteralStr struct {
	exprBase
	ID int
}

func NewLiteralStr(ty types.TypeID, span source.Span, id int) *LiteralStr {
	return &LiteralStr{newBase(ty, span), id}
}

type UnitExpr struct{ exprBase }

func NewUnitExpr(ty types.TypeID, span source.Span) *UnitExpr { return &UnitExpr{newBase(ty, span)} }

// Var reads a local binding by name.
type Var struct {
	exprBase
	Name string
}

func NewVar(ty types.TypeID, span source.Span, name string) *Var {
	return &Var{newBase(ty, span), name}
}

// FnValue denotes a function as a first-class value (its address, for
// CallIndirect or storage), resolved to ref's dense function id by the
// backend.
type FnValue struct {
	exprBase
	Ref FuncRef
}

func NewFnValue(ty types.TypeID, span source.Span, ref FuncRef) *FnValue {
	return &FnValue{newBase(ty, span), ref}
}

// Call is a direct call: Builtin, User (possibly generic, resolved by
// monomorphization), or Trait (resolved to User by monomorphization's impl
// map).
type Call struct {
	exprBase
	Callee FuncRef
	Args   []Expr
}

func NewCall(ty types.TypeID, span source.Span, callee FuncRef, args ...Expr) *Call {
	return &Call{newBase(ty, span), callee, args}
}

// CallIndirect invokes a function value obtained at runtime, dispatched by
// the backend via a switch over reachable functions whose signature
// matches Params/Result.
type CallIndirect struct {
	exprBase
	Callee Expr
	Params []types.TypeID
	Result types.TypeID
	Args   []Expr
}

func NewCallIndirect(span source.Span, callee Expr, params []types.TypeID, result types.TypeID, args ...Expr) *CallIndirect {
	return &CallIndirect{newBase(result, span), callee, params, result, args}
}

// If is the branch expression; Else is nil when the if has no value (both
// paths end in Unit).
type If struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func NewIf(ty types.TypeID, span source.Span, cond, then, els Expr) *If {
	return &If{newBase(ty, span), cond, then, els}
}

// While is the loop expression; it always has Unit type.
type While struct {
	exprBase
	Cond Expr
	Body Expr
}

func NewWhile(ty types.TypeID, span source.Span, cond, body Expr) *While {
	return &While{newBase(ty, span), cond, body}
}

// MatchArm is one `Variant [binding] -> body` arm, lowered from the AST's
// arm by resolving Variant to the scrutinee enum's variant index.
type MatchArm struct {
	Variant      string
	VariantIndex int
	Binding      string // "" if the arm does not bind the payload
	BindingType  types.TypeID
	Body         Expr
}

// Match is the exhaustive pattern match over an enum scrutinee.
type Match struct {
	exprBase
	Scrutinee Expr
	EnumType  types.TypeID
	Arms      []MatchArm
}

func NewMatch(ty types.TypeID, span source.Span, scrutinee Expr, enumType types.TypeID, arms ...MatchArm) *Match {
	return &Match{newBase(ty, span), scrutinee, enumType, arms}
}

// EnumConstruct builds an enum value: VariantIndex selects the tag,
// Payload is nil for a tagless variant.
type EnumConstruct struct {
	exprBase
	VariantIndex int
	VariantName  string
	Payload      Expr
}

func NewEnumConstruct(ty types.TypeID, span source.Span, idx int, name string, payload Expr) *EnumConstruct {
	return &EnumConstruct{newBase(ty, span), idx, name, payload}
}

// StructConstruct builds a struct value with fields in declaration order
// (reordered from source order by the builder if the literal used named
// fields out of order).
type StructConstruct struct {
	exprBase
	Fields []Expr
}

func NewStructConstruct(ty types.TypeID, span source.Span, fields ...Expr) *StructConstruct {
	return &StructConstruct{newBase(ty, span), fields}
}

// TupleConstruct builds a tuple value.
type TupleConstruct struct {
	exprBase
	Items []Expr
}

func NewTupleConstruct(ty types.TypeID, span source.Span, items ...Expr) *TupleConstruct {
	return &TupleConstruct{newBase(ty, span), items}
}

// BlockLine is one statement-line of a Block, with the drop_result flag
// the builder sets when the line's value is unused (so a Call whose result
// is discarded is still observably dropped rather than silently kept
// live).
type BlockLine struct {
	Value      Expr
	DropResult bool
}

// Block sequences lines; its type is its last line's type (Unit if empty
// or if the last line is dropped).
type Block struct {
	exprBase
	Lines []BlockLine
	// Drops lists bindings the builder inserts an explicit Drop for at this
	// block's scope exit, in reverse declaration order.
	Drops []string
}

func NewBlock(ty types.TypeID, span source.Span, lines ...BlockLine) *Block {
	return &Block{newBase(ty, span), lines, nil}
}

// Let introduces a binding; its type is always Unit.
type Let struct {
	exprBase
	Name    string
	Mutable bool
	Value   Expr
}

func NewLet(unitTy types.TypeID, span source.Span, name string, mutable bool, value Expr) *Let {
	return &Let{newBase(unitTy, span), name, mutable, value}
}

// Set reassigns an existing `mut` binding; its type is always Unit.
type Set struct {
	exprBase
	Name  string
	Value Expr
}

func NewSet(unitTy types.TypeID, span source.Span, name string, value Expr) *Set {
	return &Set{newBase(unitTy, span), name, value}
}

// AddrOf takes a reference to an lvalue.
type AddrOf struct {
	exprBase
	Mutable bool
	Value   Expr
}

func NewAddrOf(ty types.TypeID, span source.Span, mutable bool, value Expr) *AddrOf {
	return &AddrOf{newBase(ty, span), mutable, value}
}

// Deref dereferences a reference or box value.
type Deref struct {
	exprBase
	Value Expr
}

func NewDeref(ty types.TypeID, span source.Span, value Expr) *Deref {
	return &Deref{newBase(ty, span), value}
}

// Intrinsic is a compiler-recognized operation lowered directly by the
// backend rather than through a call (size_of, load, store, add, casts,
// unreachable).
type Intrinsic struct {
	exprBase
	Name     string
	TypeArgs []types.TypeID
	Args     []Expr
}

func NewIntrinsic(ty types.TypeID, span source.Span, name string, typeArgs []types.TypeID, args ...Expr) *Intrinsic {
	return &Intrinsic{newBase(ty, span), name, typeArgs, args}
}

// Drop is an explicit scope-exit (or move-check-inserted) drop of an owned
// binding; its type is always Unit.
type Drop struct {
	exprBase
	Name string
}

func NewDrop(unitTy types.TypeID, span source.Span, name string) *Drop {
	return &Drop{newBase(unitTy, span), name}
}

// FieldAccess reads a struct field or tuple element by name/index.
type FieldAccess struct {
	exprBase
	Value Expr
	Field string
	Index int
}

func NewFieldAccess(ty types.TypeID, span source.Span, value Expr, field string, index int) *FieldAccess {
	return &FieldAccess{newBase(ty, span), value, field, index}
}
