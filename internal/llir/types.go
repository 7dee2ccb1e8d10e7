package llir

import "neplcore/internal/types"

// llvmType renders id as the low-level-IR type keyword this backend uses
// for registers, parameters, and return values. Struct/Tuple/Enum values
// are always addressed through memory (this backend never passes
// aggregates by raw value), so they render as "ptr" regardless of their
// layout.Engine byte size.
func llvmType(in *types.Interner, id types.TypeID) string {
	t, ok := in.Resolve(id)
	if !ok {
		return "i32"
	}
	switch t.Kind {
	case types.KindUnit, types.KindNever:
		return "void"
	case types.KindBool:
		return "i1"
	case types.KindU8:
		return "i8"
	case types.KindF32:
		return "float"
	case types.KindI32, types.KindReference, types.KindBox, types.KindFunction:
		return "i32"
	case types.KindNamed:
		name, _ := in.Strings.Lookup(t.Name)
		switch name {
		case "i64":
			return "i64"
		case "f64":
			return "double"
		default:
			return "i32"
		}
	case types.KindTuple, types.KindStruct, types.KindEnum, types.KindApply:
		return "ptr"
	default:
		return "i32"
	}
}

func icmpOp(name string) string {
	switch name {
	case "eq":
		return "eq"
	case "ne":
		return "ne"
	case "lt":
		return "slt"
	case "le":
		return "sle"
	case "gt":
		return "sgt"
	case "ge":
		return "sge"
	default:
		return "eq"
	}
}
