package llir

import (
	"fmt"
	"strings"

	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/source"
)

// calleeSymbol resolves a FuncRef to the symbol a call instruction
// targets. By the time the backend runs, monomorphization has already
// resolved every reachable Trait ref to a User ref; one that survives
// means the dispatch was ambiguous or had no match, which is diagnosed
// here rather than silently emitting a broken call.
func (e *Emitter) calleeSymbol(ref hir.FuncRef) string {
	switch ref.Kind {
	case hir.FuncRefUser:
		return ref.Name
	case hir.FuncRefBuiltin:
		return "builtin_" + ref.Name
	default:
		e.Bag.Add(diag.Errorf(diag.UnsupportedHirLowering, source.Dummy(),
			fmt.Sprintf("unresolved trait call %s.%s reached the backend", ref.Trait, ref.Method)))
		return "__unresolved_trait_call"
	}
}

// maybeEmitDealloc emits a dealloc call for an owned binding's scope-exit
// drop, only when the module defines one; the fallback bump allocator
// never reclaims memory, so a drop under it is a pure no-op.
func (e *Emitter) maybeEmitDealloc(buf *strings.Builder, ptr string) {
	if !e.hasDealloc || ptr == "" {
		return
	}
	fmt.Fprintf(buf, "  call void @dealloc(ptr %s)\n", ptr)
}

func (fl *funcLowering) intrinsic(v *hir.Intrinsic) (string, bool) {
	switch v.Name {
	case "size_of":
		sz := 0
		if len(v.TypeArgs) > 0 {
			sz = fl.e.Layout.SizeOf(v.TypeArgs[0])
		}
		return fmt.Sprintf("%d", sz), true
	case "align_of":
		align := 4
		if len(v.TypeArgs) > 0 {
			switch w := fl.e.Layout.SizeOf(v.TypeArgs[0]); {
			case w == 1:
				align = 1
			case w >= 8:
				align = 8
			default:
				align = 4
			}
		}
		return fmt.Sprintf("%d", align), true
	case "load":
		return fl.intrinsicLoad(v)
	case "store":
		return fl.intrinsicStore(v)
	case "add", "sub", "mul", "div":
		a, _ := fl.expr(v.Args[0])
		b, _ := fl.expr(v.Args[1])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = %s i32 %s, %s\n", t, arithOp(v.Name), a, b)
		return t, true
	case "eq", "ne", "lt", "le", "gt", "ge":
		a, _ := fl.expr(v.Args[0])
		b, _ := fl.expr(v.Args[1])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = icmp %s i32 %s, %s\n", t, icmpOp(v.Name), a, b)
		return t, true
	case "i32_to_u8":
		a, _ := fl.expr(v.Args[0])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = trunc i32 %s to i8\n", t, a)
		return t, true
	case "u8_to_i32":
		a, _ := fl.expr(v.Args[0])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = zext i8 %s to i32\n", t, a)
		return t, true
	case "i32_to_f32":
		a, _ := fl.expr(v.Args[0])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = sitofp i32 %s to float\n", t, a)
		return t, true
	case "f32_to_i32":
		a, _ := fl.expr(v.Args[0])
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = fptosi float %s to i32\n", t, a)
		return t, true
	case "unreachable":
		fl.body.WriteString("  unreachable\n")
		return "", false
	default:
		fl.e.Bag.Add(diag.Errorf(diag.UnknownIntrinsic, v.Span(),
			fmt.Sprintf("unknown intrinsic %q reached the backend", v.Name)))
		return "", false
	}
}

func (fl *funcLowering) intrinsicLoad(v *hir.Intrinsic) (string, bool) {
	ptr, _ := fl.expr(v.Args[0])
	ty := v.Type()
	if len(v.TypeArgs) > 0 {
		ty = v.TypeArgs[0]
	}
	llty := llvmType(fl.e.Types, ty)
	t := fl.newTmp()
	if llty == "i8" {
		raw := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = load i8, ptr %s\n", raw, ptr)
		fmt.Fprintf(&fl.body, "  %s = zext i8 %s to i32\n", t, raw)
	} else {
		fmt.Fprintf(&fl.body, "  %s = load %s, ptr %s\n", t, llty, ptr)
	}
	return t, true
}

func (fl *funcLowering) intrinsicStore(v *hir.Intrinsic) (string, bool) {
	ptr, _ := fl.expr(v.Args[0])
	val, _ := fl.expr(v.Args[1])
	ty := v.Args[1].Type()
	if len(v.TypeArgs) > 0 {
		ty = v.TypeArgs[0]
	}
	llty := llvmType(fl.e.Types, ty)
	if llty == "i8" {
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = trunc i32 %s to i8\n", t, val)
		fmt.Fprintf(&fl.body, "  store i8 %s, ptr %s\n", t, ptr)
	} else {
		fmt.Fprintf(&fl.body, "  store %s %s, ptr %s\n", llty, val, ptr)
	}
	return "", false
}

func arithOp(name string) string {
	switch name {
	case "add":
		return "add"
	case "sub":
		return "sub"
	case "mul":
		return "mul"
	case "div":
		return "sdiv"
	default:
		return "add"
	}
}
