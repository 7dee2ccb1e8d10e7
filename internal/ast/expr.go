package ast

import "neplcore/internal/source"

// Expr is every expression/statement-line node the parser can produce. A
// function body is a Block of Exprs; each line may be marked unused by the
// HIR builder when lowering (drop_result), not here.
type Expr interface {
	isExpr()
	Span() source.Span
}

type exprBase struct{ span source.Span }

func (exprBase) isExpr()            {}
func (e exprBase) Span() source.Span { return e.span }

// IntLit is an integer literal, e.g. `123`.
type IntLit struct {
	exprBase
	Value int64
}

func NewIntLit(span source.Span, v int64) IntLit { return IntLit{exprBase{span}, v} }

// FloatLit is a floating literal, e.g. `1.5`.
type FloatLit struct {
	exprBase
	Value float64
}

func NewFloatLit(span source.Span, v float64) FloatLit { return FloatLit{exprBase{span}, v} }

// BoolLit is `true`/`false`.
type BoolLit struct {
	exprBase
	Value bool
}

func NewBoolLit(span source.Span, v bool) BoolLit { return BoolLit{exprBase{span}, v} }

// StrLit is a string literal; the HIR builder materializes it into the
// per-module literal table.
type StrLit struct {
	exprBase
	Value string
}

func NewStrLit(span source.Span, v string) StrLit { return StrLit{exprBase{span}, v} }

// UnitLit is `()`.
type UnitLit struct{ exprBase }

func NewUnitLit(span source.Span) UnitLit { return UnitLit{exprBase{span}} }

// VarExpr references a binding or a callable item by name.
type VarExpr struct {
	exprBase
	Name string
}

func NewVarExpr(span source.Span, name string) VarExpr { return VarExpr{exprBase{span}, name} }

// CallExpr is `callee(args...)`. Callee is usually a VarExpr naming a
// function or overload set; it may be any expression for indirect calls.
type CallExpr struct {
	exprBase
	Callee   Expr
	TypeArgs []TypeExpr
	Args     []Expr
}

func NewCallExpr(span source.Span, callee Expr, typeArgs []TypeExpr, args ...Expr) CallExpr {
	return CallExpr{exprBase{span}, callee, typeArgs, args}
}

// IfExpr is `if cond: then else: else_`. Else is nil for a valueless if.
type IfExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func NewIfExpr(span source.Span, cond, then, els Expr) IfExpr {
	return IfExpr{exprBase{span}, cond, then, els}
}

// WhileExpr is `while cond: body`.
type WhileExpr struct {
	exprBase
	Cond Expr
	Body Expr
}

func NewWhileExpr(span source.Span, cond, body Expr) WhileExpr {
	return WhileExpr{exprBase{span}, cond, body}
}

// MatchArm is one `Variant [binding] -> body` arm.
type MatchArm struct {
	Variant string
	Binding string // "" if the variant carries no bound payload
	Body    Expr
	Span    source.Span
}

// MatchExpr is `match scrutinee: arm...`.
type MatchExpr struct {
	exprBase
	Scrutinee Expr
	Arms      []MatchArm
}

func NewMatchExpr(span source.Span, scrutinee Expr, arms ...MatchArm) MatchExpr {
	return MatchExpr{exprBase{span}, scrutinee, arms}
}

// BlockExpr is a sequence of lines evaluated in order; its value is its
// last line's value.
type BlockExpr struct {
	exprBase
	Lines []Expr
}

func NewBlockExpr(span source.Span, lines ...Expr) BlockExpr {
	return BlockExpr{exprBase{span}, lines}
}

// LetExpr introduces a binding: `let [mut] name = value`.
type LetExpr struct {
	exprBase
	Name    string
	Mutable bool
	Type    TypeExpr // nil if inferred
	Value   Expr
}

func NewLetExpr(span source.Span, name string, mutable bool, typ TypeExpr, value Expr) LetExpr {
	return LetExpr{exprBase{span}, name, mutable, typ, value}
}

// SetExpr is `name = value`, requiring name's binding to be `mut`.
type SetExpr struct {
	exprBase
	Name  string
	Value Expr
}

func NewSetExpr(span source.Span, name string, value Expr) SetExpr {
	return SetExpr{exprBase{span}, name, value}
}

// AddrOfExpr is `&expr` or `&mut expr`.
type AddrOfExpr struct {
	exprBase
	Mutable bool
	Value   Expr
}

func NewAddrOfExpr(span source.Span, mutable bool, value Expr) AddrOfExpr {
	return AddrOfExpr{exprBase{span}, mutable, value}
}

// DerefExpr is `*expr`.
type DerefExpr struct {
	exprBase
	Value Expr
}

func NewDerefExpr(span source.Span, value Expr) DerefExpr {
	return DerefExpr{exprBase{span}, value}
}

// IntrinsicExpr is a compiler-known operation: `size_of<T>()`, `load<T>(p)`,
// `store<T>(p, v)`, `add(a, b)`, casts, `unreachable()`.
type IntrinsicExpr struct {
	exprBase
	Name     string
	TypeArgs []TypeExpr
	Args     []Expr
}

func NewIntrinsicExpr(span source.Span, name string, typeArgs []TypeExpr, args ...Expr) IntrinsicExpr {
	return IntrinsicExpr{exprBase{span}, name, typeArgs, args}
}

// TupleExpr is `(a, b, c)`.
type TupleExpr struct {
	exprBase
	Items []Expr
}

func NewTupleExpr(span source.Span, items ...Expr) TupleExpr {
	return TupleExpr{exprBase{span}, items}
}

// FieldInit is one `name: value` pair in a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLit is `Name { field: value, ... }`.
type StructLit struct {
	exprBase
	Name   string
	Fields []FieldInit
}

func NewStructLit(span source.Span, name string, fields ...FieldInit) StructLit {
	return StructLit{exprBase{span}, name, fields}
}

// EnumLit is `Enum::Variant [payload]` or bare `Variant [payload]` when the
// enum is inferable from context.
type EnumLit struct {
	exprBase
	Enum    string // "" if not qualified
	Variant string
	Payload Expr // nil if the variant carries no payload
}

func NewEnumLit(span source.Span, enumName, variant string, payload Expr) EnumLit {
	return EnumLit{exprBase{span}, enumName, variant, payload}
}

// FieldAccessExpr is `value.field`.
type FieldAccessExpr struct {
	exprBase
	Value Expr
	Field string
}

func NewFieldAccessExpr(span source.Span, value Expr, field string) FieldAccessExpr {
	return FieldAccessExpr{exprBase{span}, value, field}
}

// BinaryExpr is an infix operator application lowered later to an
// intrinsic or an overloaded call.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func NewBinaryExpr(span source.Span, op string, left, right Expr) BinaryExpr {
	return BinaryExpr{exprBase{span}, op, left, right}
}
