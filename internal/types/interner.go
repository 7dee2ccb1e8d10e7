package types

import (
	"fmt"

	"fortio.org/safecast"

	"neplcore/internal/source"
)

// Builtins holds the TypeIDs for the primitive scalar types every module
// can reference without an import.
type Builtins struct {
	Unit  TypeID
	Never TypeID
	Bool  TypeID
	I32   TypeID
	U8    TypeID
	F32   TypeID
	I64   TypeID
	F64   TypeID
}

// Interner is the arena backing unification: every Type is structurally
// interned, and Var entries carry a mutable indirection resolved by
// resolveID (the arena's union-find-style "follow the chain" step).
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	subst    map[uint32]TypeID // Var id -> bound TypeID (may itself be a Var)
	nextVar  uint32
	builtins Builtins
	Strings  *source.Interner
}

func NewInterner(strings *source.Interner) *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		subst:   make(map[uint32]TypeID),
		Strings: strings,
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // NoTypeID sentinel
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.I32 = in.Intern(Type{Kind: KindI32})
	in.builtins.U8 = in.Intern(Type{Kind: KindU8})
	in.builtins.F32 = in.Intern(Type{Kind: KindF32})
	in.builtins.I64 = in.Intern(Type{Kind: KindNamed, Name: strings.Intern("i64")})
	in.builtins.F64 = in.Intern(Type{Kind: KindNamed, Name: strings.Intern("f64")})
	return in
}

func (in *Interner) Builtins() Builtins { return in.builtins }

// Intern returns the stable TypeID for t, allocating a new arena slot the
// first time a structurally equal descriptor is seen.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	k := keyOf(t)
	if id, ok := in.index[k]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: arena overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[k] = id
	return id
}

// Lookup returns the descriptor for id without following Var indirections.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// NewVar allocates a fresh type variable, used to instantiate `<.T>`
// generic parameters at each use site.
func (in *Interner) NewVar() TypeID {
	v := in.nextVar
	in.nextVar++
	return in.Intern(Type{Kind: KindVar, Var: v})
}

// ResolveID follows Var -> bound-TypeID indirections to the representative
// type, the arena's equivalent of union-find's "find".
func (in *Interner) ResolveID(id TypeID) TypeID {
	for {
		t, ok := in.Lookup(id)
		if !ok || t.Kind != KindVar {
			return id
		}
		bound, ok := in.subst[t.Var]
		if !ok {
			return id
		}
		id = bound
	}
}

// Resolve returns the representative descriptor for id after following
// unification indirections.
func (in *Interner) Resolve(id TypeID) (Type, bool) {
	return in.Lookup(in.ResolveID(id))
}

// Bind records that the Var identified by id unifies with target. Callers
// must have already confirmed id resolves to an unbound Var.
func (in *Interner) Bind(id, target TypeID) {
	t := in.MustLookup(id)
	if t.Kind != KindVar {
		panic("types: Bind on a non-Var TypeID")
	}
	in.subst[t.Var] = target
}

// IsCopy reports whether values of id may be implicitly copied rather than
// moved. Primitive scalars (including Named ones such as i64/f64), function
// values, and `&T` references are Copy; `Box`, enums, structs, and tuples are heap
// or aggregate values owned by exactly one binding and are never Copy —
// an enum value here is a heap pointer materialized by the enum
// constructor, not a primitive scalar.
func (in *Interner) IsCopy(id TypeID) bool {
	t, ok := in.Resolve(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindUnit, KindNever, KindBool, KindI32, KindU8, KindF32, KindNamed, KindFunction:
		return true
	case KindReference:
		return !t.Mutable
	default:
		return false
	}
}
