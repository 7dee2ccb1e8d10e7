package ast

import "neplcore/internal/source"

// TraitMethodSig is one method signature declared inside a trait. The
// receiver's declared type is the literal `Self` placeholder name, resolved
// against whatever concrete type an impl block provides.
type TraitMethodSig struct {
	Name   string
	Params []Param
	Result TypeExpr // nil means unit
	Span   source.Span
}

// TraitDef declares a trait: a named set of method signatures every impl
// of that trait must provide a concrete body for.
type TraitDef struct {
	itemBase
	Name    string
	Vis     Visibility
	Methods []TraitMethodSig
}

func NewTraitDef(span source.Span, gates []GateDirective, name string, vis Visibility, methods ...TraitMethodSig) *TraitDef {
	return &TraitDef{itemBase: itemBase{span, gates}, Name: name, Vis: vis, Methods: methods}
}

// ImplDef provides concrete method bodies implementing Trait for SelfType.
// Each method is an ordinary FnDef whose receiver parameter is declared
// with SelfType directly, rather than the trait's `Self` placeholder.
type ImplDef struct {
	itemBase
	Trait    string
	SelfType TypeExpr
	Methods  []*FnDef
}

func NewImplDef(span source.Span, gates []GateDirective, trait string, selfType TypeExpr, methods ...*FnDef) *ImplDef {
	return &ImplDef{itemBase: itemBase{span, gates}, Trait: trait, SelfType: selfType, Methods: methods}
}
