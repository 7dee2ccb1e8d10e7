// Package types implements the core's TypeID arena: structural interning,
// unification over type variables, and the builtin-type table.
package types

import "neplcore/internal/source"

// TypeID indexes into an Interner's arena. The zero value is reserved as
// the invalid/unallocated sentinel.
type TypeID uint32

const NoTypeID TypeID = 0

// Kind discriminates a Type's shape.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindNever
	KindBool
	KindI32
	KindU8
	KindF32
	KindNamed   // Named(string): i64, f64, and other nominal scalars/aliases
	KindReference
	KindBox
	KindTuple
	KindStruct
	KindEnum
	KindApply
	KindFunction
	KindVar
)

// EnumVariant is one (name, optional payload) pair on an Enum type.
type EnumVariant struct {
	Name    source.StringID
	Payload TypeID // NoTypeID if the variant carries no payload
}

// StructField is one (name, type) pair on a Struct type, in declaration
// order (the order the layout package assigns offsets in).
type StructField struct {
	Name source.StringID
	Type TypeID
}

// Type is the structural descriptor interned for one TypeID. Only the
// fields relevant to Kind are populated; this mirrors a tagged union as a
// flat struct instead of Go's interface-per-variant, which keeps
// structural hashing (typeKey) a plain comparable struct.
type Type struct {
	Kind Kind

	Name source.StringID // Named, Struct, Enum

	Elem    TypeID // Reference/Box inner type
	Mutable bool   // Reference mutability

	Items []TypeID // Tuple element types

	Fields []StructField // Struct fields

	Variants []EnumVariant // Enum variants

	Base TypeID   // Apply base
	Args []TypeID // Apply / Function-instantiation type arguments

	TypeParams []source.StringID // Struct/Enum/Function generic parameters

	Params []TypeID // Function parameter types
	Result TypeID   // Function result type

	Var uint32 // Var id, unique per fresh type variable
}

// typeKey is the comparable projection of a Type used for structural
// interning. Slice fields are folded into a stable string so two
// structurally equal descriptors hash identically.
type typeKey struct {
	Kind    Kind
	Name    source.StringID
	Elem    TypeID
	Mutable bool
	Base    TypeID
	Result  TypeID
	Var     uint32
	Shape   string // encodes Items/Fields/Variants/Args/Params/TypeParams
}

func keyOf(t Type) typeKey {
	return typeKey{
		Kind:    t.Kind,
		Name:    t.Name,
		Elem:    t.Elem,
		Mutable: t.Mutable,
		Base:    t.Base,
		Result:  t.Result,
		Var:     t.Var,
		Shape:   shapeOf(t),
	}
}

func shapeOf(t Type) string {
	var b []byte
	appendIDs(&b, t.Items)
	b = append(b, '|')
	for _, f := range t.Fields {
		b = appendUint32(b, uint32(f.Name))
		b = append(b, ':')
		b = appendUint32(b, uint32(f.Type))
		b = append(b, ',')
	}
	b = append(b, '|')
	for _, v := range t.Variants {
		b = appendUint32(b, uint32(v.Name))
		b = append(b, ':')
		b = appendUint32(b, uint32(v.Payload))
		b = append(b, ',')
	}
	b = append(b, '|')
	appendIDs(&b, t.Args)
	b = append(b, '|')
	appendIDs(&b, t.Params)
	b = append(b, '|')
	for _, p := range t.TypeParams {
		b = appendUint32(b, uint32(p))
		b = append(b, ',')
	}
	return string(b)
}

func appendIDs(b *[]byte, ids []TypeID) {
	for _, id := range ids {
		*b = appendUint32(*b, uint32(id))
		*b = append(*b, ',')
	}
}

func appendUint32(b []byte, n uint32) []byte {
	if n == 0 {
		return append(b, '0')
	}
	var tmp [10]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, tmp[i:]...)
}
