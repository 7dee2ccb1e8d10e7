package layout

import "neplcore/internal/types"

// storageWidth returns a scalar's storage width in bytes: 1 for u8, 4 for
// i32/f32/pointer/bool, 8 for i64/f64. Non-scalars are sized recursively.
func (e *Engine) storageWidth(t types.TypeID) int {
	tt, ok := e.types.Resolve(t)
	if !ok {
		return 4
	}
	switch tt.Kind {
	case types.KindU8:
		return 1
	case types.KindI32, types.KindBool, types.KindF32, types.KindReference, types.KindBox, types.KindFunction:
		return 4
	case types.KindNamed:
		name, _ := e.types.Strings.Lookup(tt.Name)
		if name == "i64" || name == "f64" {
			return 8
		}
		return 4
	case types.KindUnit, types.KindNever:
		return 0
	default:
		return e.SizeOf(t)
	}
}

func (e *Engine) computeLayout(id types.TypeID) TypeLayout {
	tt, ok := e.types.Resolve(id)
	if !ok {
		return TypeLayout{Size: 0}
	}
	switch tt.Kind {
	case types.KindUnit, types.KindNever:
		return TypeLayout{Size: 0}
	case types.KindBool, types.KindI32, types.KindF32, types.KindReference, types.KindBox, types.KindFunction:
		return TypeLayout{Size: 4}
	case types.KindU8:
		return TypeLayout{Size: 1}
	case types.KindNamed:
		return TypeLayout{Size: e.storageWidth(id)}
	case types.KindTuple:
		return e.fieldsLayout(tt.Items)
	case types.KindStruct:
		fieldTypes := make([]types.TypeID, len(tt.Fields))
		for i, f := range tt.Fields {
			fieldTypes[i] = f.Type
		}
		return e.fieldsLayout(fieldTypes)
	case types.KindEnum:
		return e.enumLayout(tt)
	case types.KindApply:
		return e.LayoutOf(tt.Base)
	default:
		return TypeLayout{Size: 0}
	}
}

// fieldsLayout places fields in declaration order at the running sum of
// storage widths, with no padding beyond that sum.
func (e *Engine) fieldsLayout(items []types.TypeID) TypeLayout {
	offsets := make([]int, len(items))
	offset := 0
	for i, item := range items {
		offsets[i] = offset
		offset += e.storageWidth(item)
	}
	return TypeLayout{Size: offset, FieldOffsets: offsets}
}

// enumLayout places the i32 tag at offset 0 and, if any variant carries a
// payload, the payload at offset 4 (payload width <= 4) or offset 8
// (8-byte payload). Total size is 4 (no payload), 8 (<=4-byte payload), or
// 16 (8-byte payload).
func (e *Engine) enumLayout(tt types.Type) TypeLayout {
	maxWidth := 0
	for _, v := range tt.Variants {
		if v.Payload == types.NoTypeID {
			continue
		}
		if w := e.storageWidth(v.Payload); w > maxWidth {
			maxWidth = w
		}
	}
	switch {
	case maxWidth == 0:
		return TypeLayout{Size: 4, TagSize: 4}
	case maxWidth <= 4:
		return TypeLayout{Size: 8, TagSize: 4, PayloadOffset: 4}
	default:
		return TypeLayout{Size: 16, TagSize: 4, PayloadOffset: 8}
	}
}
