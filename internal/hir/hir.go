// Package hir defines the typed intermediate representation the type
// checker lowers to: functions over fully resolved types, blocks of
// drop-flagged lines, and trait-impl bindings. Move checking,
// monomorphization, and backend lowering all operate on these types.
package hir

import (
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// Module is one compilation's complete typed program: every function
// (after loading, before monomorphization these may still be generic),
// externs, the entry function's name if any, and the string-literal table
// the builder materializes string constants into.
type Module struct {
	Functions []*Function
	Externs   []*Extern
	EntryName string
	Literals  []string // indexed by LiteralStr(id)
	Impls     []Impl
}

func (m *Module) FuncByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Extern declares a function with no body, implemented by the runtime or a
// raw-IR block.
type Extern struct {
	Name   string
	Type   types.TypeID // Function type
	Params []Param
	Result types.TypeID
	Span   source.Span
}

// Param is one function parameter's name and resolved type.
type Param struct {
	Name string
	Type types.TypeID
}

// Body is a function's implementation. The type checker fills only Block;
// RawLlvmIR and RawWasm are copied through by mono when set, and the
// backend selects gated raw bodies from the AST definition itself.
type Body struct {
	Block     *Block
	RawLlvmIR []string
	RawWasm   []string
}

// Function is a fully typed, not-yet-monomorphized (unless TypeParams is
// empty) function definition.
type Function struct {
	Name       string
	TypeParams []string // `<.T>` parameter names in declaration order
	Type       types.TypeID // KindFunction
	Result     types.TypeID
	Params     []Param
	Body       Body
	Span       source.Span

	// Origin is the pre-monomorphization declared name this function
	// specialized from (equal to Name for an originally non-generic
	// function); empty before monomorphization runs. The backend uses it
	// to find the unique mangled specialization of a base name for
	// symbol aliasing.
	Origin string
}

// Impl records one trait method implementation, keyed for monomorphization's
// impl-map lookup by (Trait, Method, SelfType).
type Impl struct {
	Trait    string
	Method   string
	SelfType types.TypeID
	FuncName string // the concrete Function.Name implementing this method
}

// FuncRefKind discriminates how a Call resolves its callee.
type FuncRefKind uint8

const (
	FuncRefBuiltin FuncRefKind = iota
	FuncRefUser
	FuncRefTrait
)

// FuncRef names a call target. User calls carry their instantiation type
// arguments so the monomorphizer can mangle them; Trait calls are resolved
// to a concrete User ref during monomorphization via the impl map.
type FuncRef struct {
	Kind     FuncRefKind
	Name     string       // Builtin/User: the function name
	TypeArgs []types.TypeID // User: instantiation arguments

	Trait  string // Trait only
	Method string // Trait only
	SelfTy types.TypeID // Trait only
}

func Builtin(name string) FuncRef { return FuncRef{Kind: FuncRefBuiltin, Name: name} }
func User(name string, typeArgs ...types.TypeID) FuncRef {
	return FuncRef{Kind: FuncRefUser, Name: name, TypeArgs: typeArgs}
}
func Trait(trait, method string, selfTy types.TypeID) FuncRef {
	return FuncRef{Kind: FuncRefTrait, Trait: trait, Method: method, SelfTy: selfTy}
}
