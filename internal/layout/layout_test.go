package layout

import (
	"testing"

	"neplcore/internal/source"
	"neplcore/internal/types"
)

func TestStructFieldOffsetsNoPadding(t *testing.T) {
	strings := source.NewInterner()
	interner := types.NewInterner(strings)
	b := interner.Builtins()
	structTy := interner.Intern(types.Type{
		Kind: types.KindStruct,
		Name: strings.Intern("Pair"),
		Fields: []types.StructField{
			{Name: strings.Intern("a"), Type: b.U8},
			{Name: strings.Intern("b"), Type: b.I32},
		},
	})
	e := New(interner)
	l := e.LayoutOf(structTy)
	if l.FieldOffsets[0] != 0 || l.FieldOffsets[1] != 1 {
		t.Fatalf("expected offsets [0,1], got %v", l.FieldOffsets)
	}
	if l.Size != 5 {
		t.Fatalf("expected total size 5, got %d", l.Size)
	}
}

func TestEnumLayoutWidths(t *testing.T) {
	strings := source.NewInterner()
	interner := types.NewInterner(strings)
	b := interner.Builtins()

	unit := interner.Intern(types.Type{Kind: types.KindEnum, Name: strings.Intern("Unit"),
		Variants: []types.EnumVariant{{Name: strings.Intern("A")}}})
	small := interner.Intern(types.Type{Kind: types.KindEnum, Name: strings.Intern("Small"),
		Variants: []types.EnumVariant{{Name: strings.Intern("Some"), Payload: b.I32}}})
	big := interner.Intern(types.Type{Kind: types.KindEnum, Name: strings.Intern("Big"),
		Variants: []types.EnumVariant{{Name: strings.Intern("Some"), Payload: b.I64}}})

	e := New(interner)
	if got := e.SizeOf(unit); got != 4 {
		t.Fatalf("unit enum: expected size 4, got %d", got)
	}
	if l := e.LayoutOf(small); l.Size != 8 || l.PayloadOffset != 4 {
		t.Fatalf("small-payload enum: expected size 8 offset 4, got %+v", l)
	}
	if l := e.LayoutOf(big); l.Size != 16 || l.PayloadOffset != 8 {
		t.Fatalf("8-byte-payload enum: expected size 16 offset 8, got %+v", l)
	}
}
