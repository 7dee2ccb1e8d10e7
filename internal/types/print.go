package types

import "strconv"

// String renders the resolved type at id into the underscore-joined
// form the monomorphizer uses for name mangling and the
// backend uses for signature-keyed aliasing (§4.7.6).
func (in *Interner) String(id TypeID) string {
	t, ok := in.Resolve(id)
	if !ok {
		return "invalid"
	}
	switch t.Kind {
	case KindUnit:
		return "unit"
	case KindNever:
		return "never"
	case KindBool:
		return "bool"
	case KindI32:
		return "i32"
	case KindU8:
		return "u8"
	case KindF32:
		return "f32"
	case KindNamed:
		return in.Strings.MustLookup(t.Name)
	case KindReference:
		if t.Mutable {
			return "refmut" + in.String(t.Elem)
		}
		return "ref" + in.String(t.Elem)
	case KindBox:
		return "box" + in.String(t.Elem)
	case KindTuple:
		s := "tuple"
		for _, it := range t.Items {
			s += "_" + in.String(it)
		}
		return s
	case KindStruct, KindEnum:
		s := in.Strings.MustLookup(t.Name)
		for _, a := range t.Args {
			s += "_" + in.String(a)
		}
		return s
	case KindApply:
		s := in.String(t.Base)
		for _, a := range t.Args {
			s += "_" + in.String(a)
		}
		return s
	case KindFunction:
		s := "fn"
		for _, p := range t.Params {
			s += "_" + in.String(p)
		}
		return s + "_to_" + in.String(t.Result)
	case KindVar:
		return "var" + strconv.FormatUint(uint64(t.Var), 10)
	default:
		return "invalid"
	}
}
