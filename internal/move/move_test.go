package move

import (
	"strings"
	"testing"

	"neplcore/internal/hir"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

func boxExpr(ty types.TypeID) hir.Expr { return hir.NewUnitExpr(ty, source.Dummy()) }

func varExpr(ty types.TypeID, name string) hir.Expr { return hir.NewVar(ty, source.Dummy(), name) }

func TestDoubleUseAfterMoveReported(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)
	boxTy := in.Intern(types.Type{Kind: types.KindBox, Elem: in.Builtins().I32})

	lines := []hir.BlockLine{
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "x", false, boxExpr(boxTy))},
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "y", false, varExpr(boxTy, "x"))},
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "z", false, varExpr(boxTy, "x"))},
	}
	block := hir.NewBlock(in.Builtins().Unit, source.Dummy(), lines...)
	fn := &hir.Function{Name: "f", Result: in.Builtins().Unit, Body: hir.Body{Block: block}}
	mod := &hir.Module{Functions: []*hir.Function{fn}}

	diags := New(in).CheckModule(mod)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "use of moved value: x") {
		t.Fatalf("unexpected message: %s", diags[0].Message)
	}
}

func TestSetRestoresUsability(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)
	boxTy := in.Intern(types.Type{Kind: types.KindBox, Elem: in.Builtins().I32})

	lines := []hir.BlockLine{
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "x", true, boxExpr(boxTy))},
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "y", false, varExpr(boxTy, "x"))},
		{Value: hir.NewSet(in.Builtins().Unit, source.Dummy(), "x", boxExpr(boxTy))},
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "z", false, varExpr(boxTy, "x"))},
	}
	block := hir.NewBlock(in.Builtins().Unit, source.Dummy(), lines...)
	fn := &hir.Function{Name: "f", Result: in.Builtins().Unit, Body: hir.Body{Block: block}}
	mod := &hir.Module{Functions: []*hir.Function{fn}}

	diags := New(in).CheckModule(mod)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics after Set restores x, got %v", diags)
	}
}

func TestLoopSecondIterationMoveReported(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)
	boxTy := in.Intern(types.Type{Kind: types.KindBox, Elem: in.Builtins().I32})

	body := hir.NewBlock(in.Builtins().Unit, source.Dummy(),
		hir.BlockLine{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "y", false, varExpr(boxTy, "x"))},
	)
	cond := hir.NewBoolLit(in.Builtins().Bool, source.Dummy(), true)
	loop := hir.NewWhile(in.Builtins().Unit, source.Dummy(), cond, body)

	lines := []hir.BlockLine{
		{Value: hir.NewLet(in.Builtins().Unit, source.Dummy(), "x", false, boxExpr(boxTy))},
		{Value: loop},
	}
	block := hir.NewBlock(in.Builtins().Unit, source.Dummy(), lines...)
	fn := &hir.Function{Name: "f", Result: in.Builtins().Unit, Body: hir.Body{Block: block}}
	mod := &hir.Module{Functions: []*hir.Function{fn}}

	diags := New(in).CheckModule(mod)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic from the second loop iteration, got %d: %v", len(diags), diags)
	}
}
