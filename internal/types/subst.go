package types

import "neplcore/internal/source"

// Subst maps a generic parameter's interned name to the concrete TypeID it
// is instantiated with. A struct/enum/function's TypeParams field lists the
// names a Subst may bind; an unbound name passes through unchanged (used
// when checking a generic definition's own body, before any call site
// supplies concrete arguments).
type Subst map[source.StringID]TypeID

// Apply recursively rewrites every KindNamed leaf in t whose Name is bound
// in s to its concrete type, re-interning the result. Structurally
// unaffected types (no bound name reachable) return unchanged.
func (in *Interner) Apply(t TypeID, s Subst) TypeID {
	if len(s) == 0 || t == NoTypeID {
		return t
	}
	tt, ok := in.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case KindNamed:
		if concrete, bound := s[tt.Name]; bound {
			return concrete
		}
		return t
	case KindReference:
		return in.Intern(Type{Kind: KindReference, Mutable: tt.Mutable, Elem: in.Apply(tt.Elem, s)})
	case KindBox:
		return in.Intern(Type{Kind: KindBox, Elem: in.Apply(tt.Elem, s)})
	case KindTuple:
		return in.Intern(Type{Kind: KindTuple, Items: in.applyIDs(tt.Items, s)})
	case KindFunction:
		return in.Intern(Type{Kind: KindFunction, Params: in.applyIDs(tt.Params, s), Result: in.Apply(tt.Result, s)})
	case KindApply:
		return in.Intern(Type{Kind: KindApply, Base: in.Apply(tt.Base, s), Args: in.applyIDs(tt.Args, s)})
	case KindStruct:
		fields := make([]StructField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = StructField{Name: f.Name, Type: in.Apply(f.Type, s)}
		}
		return in.Intern(Type{Kind: KindStruct, Name: tt.Name, Fields: fields, TypeParams: tt.TypeParams})
	case KindEnum:
		variants := make([]EnumVariant, len(tt.Variants))
		for i, v := range tt.Variants {
			payload := v.Payload
			if payload != NoTypeID {
				payload = in.Apply(payload, s)
			}
			variants[i] = EnumVariant{Name: v.Name, Payload: payload}
		}
		return in.Intern(Type{Kind: KindEnum, Name: tt.Name, Variants: variants, TypeParams: tt.TypeParams})
	default:
		return t
	}
}

func (in *Interner) applyIDs(ids []TypeID, s Subst) []TypeID {
	out := make([]TypeID, len(ids))
	for i, id := range ids {
		out[i] = in.Apply(id, s)
	}
	return out
}

// Instantiate resolves Apply(base, args) into a concrete Struct/Enum by
// substituting base's TypeParams (in declaration order) with args. If base
// is not a generic Struct/Enum (or the arities mismatch), base is returned
// unchanged.
func (in *Interner) Instantiate(base TypeID, args []TypeID) TypeID {
	tt, ok := in.Lookup(base)
	if !ok || len(tt.TypeParams) != len(args) {
		return base
	}
	s := make(Subst, len(args))
	for i, p := range tt.TypeParams {
		s[p] = args[i]
	}
	return in.Apply(base, s)
}

// ResolveApply fully resolves id, following one level of Apply(base, args)
// into its instantiated Struct/Enum if id's representative is an Apply.
func (in *Interner) ResolveApply(id TypeID) TypeID {
	tt, ok := in.Resolve(id)
	if !ok || tt.Kind != KindApply {
		return in.ResolveID(id)
	}
	return in.Instantiate(in.ResolveID(tt.Base), tt.Args)
}
