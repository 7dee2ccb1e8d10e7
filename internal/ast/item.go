package ast

import "neplcore/internal/source"

// Item is a top-level module member: a function, a type definition, an
// extern declaration, or a raw-IR block.
type Item interface {
	isItem()
	Span() source.Span
	ItemGates() []GateDirective
}

type itemBase struct {
	span  source.Span
	gates []GateDirective // gate directives immediately preceding this item
}

func (itemBase) isItem()                      {}
func (i itemBase) Span() source.Span          { return i.span }
func (i itemBase) ItemGates() []GateDirective { return i.gates }

// Param is one function parameter.
type Param struct {
	Name string // "_" for a discarded parameter
	Type TypeExpr
}

// RawBody is one `#llvmir:`/`#wasm:` verbatim block attached to a function,
// gated by the GateDirective(s) immediately preceding it (§4.7.2).
type RawBody struct {
	Kind  RawKind
	Lines []string
	Gates []GateDirective
	Span  source.Span
}

type RawKind uint8

const (
	RawLlvmIR RawKind = iota
	RawWasm
)

// FnDef is a function definition, optionally carrying raw-body alternatives
// selected by gate evaluation (§4.7.2) ahead of the parsed body.
type FnDef struct {
	itemBase
	Name       string
	Vis        Visibility
	TypeParams []TypeParam
	Params     []Param
	Result     TypeExpr // nil means unit
	Body       Expr     // parsed body; nil if extern
	RawBodies  []RawBody
	Shadowable bool // false if marked non-shadowable
}

func NewFnDef(span source.Span, gates []GateDirective, name string, vis Visibility, params []Param, result TypeExpr, body Expr) *FnDef {
	return &FnDef{itemBase: itemBase{span, gates}, Name: name, Vis: vis, Params: params, Result: result, Body: body, Shadowable: true}
}

// StructField is one declared struct field, in declaration order (the
// order low-level-IR layout assigns offsets in).
type StructField struct {
	Name string
	Type TypeExpr
}

// StructDef is a struct type definition.
type StructDef struct {
	itemBase
	Name       string
	Vis        Visibility
	TypeParams []TypeParam
	Fields     []StructField
}

func NewStructDef(span source.Span, gates []GateDirective, name string, vis Visibility, fields ...StructField) *StructDef {
	return &StructDef{itemBase: itemBase{span, gates}, Name: name, Vis: vis, Fields: fields}
}

// EnumVariant is one variant; Payload is nil for a tagless/unit variant.
type EnumVariant struct {
	Name    string
	Payload TypeExpr
}

// EnumDef is an enum type definition.
type EnumDef struct {
	itemBase
	Name       string
	Vis        Visibility
	TypeParams []TypeParam
	Variants   []EnumVariant
}

func NewEnumDef(span source.Span, gates []GateDirective, name string, vis Visibility, variants ...EnumVariant) *EnumDef {
	return &EnumDef{itemBase: itemBase{span, gates}, Name: name, Vis: vis, Variants: variants}
}

// ExternDef declares a function implemented outside the module (the
// runtime, or a raw-IR block elsewhere); it has no parsed body.
type ExternDef struct {
	itemBase
	Name   string
	Params []Param
	Result TypeExpr
}

func NewExternDef(span source.Span, gates []GateDirective, name string, params []Param, result TypeExpr) *ExternDef {
	return &ExternDef{itemBase: itemBase{span, gates}, Name: name, Params: params, Result: result}
}

// RawBlockItem is a module-level raw-IR block not attached to a specific
// function (e.g. global declarations emitted verbatim).
type RawBlockItem struct {
	itemBase
	Kind  RawKind
	Lines []string
}

func NewRawBlockItem(span source.Span, gates []GateDirective, kind RawKind, lines ...string) *RawBlockItem {
	return &RawBlockItem{itemBase: itemBase{span, gates}, Kind: kind, Lines: lines}
}

// StmtItem wraps a top-level expression statement (rare outside function
// bodies, but the grammar permits it for directive-gated globals).
type StmtItem struct {
	itemBase
	Value Expr
}

func NewStmtItem(span source.Span, gates []GateDirective, value Expr) *StmtItem {
	return &StmtItem{itemBase: itemBase{span, gates}, Value: value}
}
