package ast

import "neplcore/internal/source"

// TypeExpr is the surface-syntax representation of a type annotation,
// before the type checker resolves it into a types.TypeID.
type TypeExpr interface {
	isTypeExpr()
	Span() source.Span
}

type typeExprBase struct{ span source.Span }

func (typeExprBase) isTypeExpr()        {}
func (t typeExprBase) Span() source.Span { return t.span }

// NameType is a bare name: a builtin (i32, u8, f32, bool, ...) or a nominal
// struct/enum reference, possibly generic.
type NameType struct {
	typeExprBase
	Name     string
	TypeArgs []TypeExpr // non-empty for Apply(base, args)
}

func NewNameType(span source.Span, name string, args ...TypeExpr) NameType {
	return NameType{typeExprBase{span}, name, args}
}

// ReferenceType is `&T` or `&mut T`.
type ReferenceType struct {
	typeExprBase
	Mutable bool
	Inner   TypeExpr
}

func NewReferenceType(span source.Span, mutable bool, inner TypeExpr) ReferenceType {
	return ReferenceType{typeExprBase{span}, mutable, inner}
}

// BoxType is `own T` / `box T`.
type BoxType struct {
	typeExprBase
	Inner TypeExpr
}

func NewBoxType(span source.Span, inner TypeExpr) BoxType {
	return BoxType{typeExprBase{span}, inner}
}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	typeExprBase
	Items []TypeExpr
}

func NewTupleType(span source.Span, items ...TypeExpr) TupleType {
	return TupleType{typeExprBase{span}, items}
}

// FunctionType is `fn(T1, T2) -> R`.
type FunctionType struct {
	typeExprBase
	Params []TypeExpr
	Result TypeExpr
}

func NewFunctionType(span source.Span, params []TypeExpr, result TypeExpr) FunctionType {
	return FunctionType{typeExprBase{span}, params, result}
}

// TypeParam is a `<.T>` generic parameter declaration on a function or type.
type TypeParam struct {
	Name string
	Span source.Span
}
