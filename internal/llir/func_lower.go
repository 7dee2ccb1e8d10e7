package llir

import (
	"fmt"
	"sort"
	"strings"

	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// funcLowering lowers one HIR function body to instruction text: every
// value-producing expression yields a %tN temporary (or no value at all
// for a Unit-typed expression), and control flow threads through
// bbN-numbered labels.
type funcLowering struct {
	e  *Emitter
	fn *hir.Function

	tmp  int
	lbl  int
	body strings.Builder

	locals map[string]string // binding name -> the %slot holding its address
}

func (fl *funcLowering) newTmp() string {
	fl.tmp++
	return fmt.Sprintf("%%t%d", fl.tmp)
}

func (fl *funcLowering) newLabel() string {
	fl.lbl++
	return fmt.Sprintf("bb%d", fl.lbl)
}

func (fl *funcLowering) lower() {
	fl.locals = make(map[string]string, len(fl.fn.Params))
	params := make([]string, len(fl.fn.Params))
	for i, p := range fl.fn.Params {
		slot := "%arg." + p.Name
		fl.locals[p.Name] = slot
		params[i] = fmt.Sprintf("%s %s", llvmType(fl.e.Types, p.Type), slot)
	}
	resultTy := llvmType(fl.e.Types, fl.fn.Result)
	fmt.Fprintf(&fl.body, "define %s @%s(%s) {\n", resultTy, fl.fn.Name, strings.Join(params, ", "))

	val, ok := fl.expr(fl.fn.Body.Block)
	if resultTy == "void" || !ok {
		fl.body.WriteString("  ret void\n")
	} else {
		fmt.Fprintf(&fl.body, "  ret %s %s\n", resultTy, val)
	}
	fl.body.WriteString("}\n\n")
	fl.e.out.WriteString(fl.body.String())
}

// expr lowers x, returning the SSA value referring to its result (and
// true), or ("", false) for a Unit-typed expression that produced no
// value worth naming.
func (fl *funcLowering) expr(x hir.Expr) (string, bool) {
	switch v := x.(type) {
	case *hir.IntLit:
		return fmt.Sprintf("%d", v.Value), true
	case *hir.FloatLit:
		return fmt.Sprintf("%g", v.Value), true
	case *hir.BoolLit:
		if v.Value {
			return "1", true
		}
		return "0", true
	case *hir.UnitExpr:
		return "", false
	case *hir.LiteralStr:
		return fl.lowerLiteralStr(v), true
	case *hir.Var:
		slot, ok := fl.locals[v.Name]
		if !ok {
			slot = "%" + v.Name
		}
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = load %s, ptr %s\n", t, llvmType(fl.e.Types, v.Type()), slot)
		return t, true
	case *hir.FnValue:
		id := fl.e.funcIDs[fl.e.calleeSymbol(v.Ref)]
		return fmt.Sprintf("%d", id), true
	case *hir.Call:
		return fl.lowerCall(v)
	case *hir.CallIndirect:
		return fl.lowerCallIndirect(v)
	case *hir.If:
		return fl.lowerIf(v)
	case *hir.While:
		return fl.lowerWhile(v)
	case *hir.Match:
		return fl.lowerMatch(v)
	case *hir.EnumConstruct:
		return fl.lowerEnumConstruct(v)
	case *hir.StructConstruct:
		return fl.lowerAggregate(v.Type(), v.Fields)
	case *hir.TupleConstruct:
		return fl.lowerAggregate(v.Type(), v.Items)
	case *hir.Block:
		var last string
		var hasLast bool
		for _, line := range v.Lines {
			val, ok := fl.expr(line.Value)
			if !line.DropResult {
				last, hasLast = val, ok
			}
		}
		for _, name := range v.Drops {
			fl.e.maybeEmitDealloc(&fl.body, fl.locals[name])
		}
		return last, hasLast
	case *hir.Let:
		ty := llvmType(fl.e.Types, v.Value.Type())
		slot := "%local." + v.Name
		fmt.Fprintf(&fl.body, "  %s = alloca %s\n", slot, ty)
		if val, ok := fl.expr(v.Value); ok {
			fmt.Fprintf(&fl.body, "  store %s %s, ptr %s\n", ty, val, slot)
		}
		fl.locals[v.Name] = slot
		return "", false
	case *hir.Set:
		slot, ok := fl.locals[v.Name]
		if !ok {
			slot = "%" + v.Name
		}
		if val, ok := fl.expr(v.Value); ok {
			fmt.Fprintf(&fl.body, "  store %s %s, ptr %s\n", llvmType(fl.e.Types, v.Value.Type()), val, slot)
		}
		return "", false
	case *hir.AddrOf:
		if vr, ok := v.Value.(*hir.Var); ok {
			if slot, ok2 := fl.locals[vr.Name]; ok2 {
				return slot, true
			}
		}
		return fl.expr(v.Value)
	case *hir.Deref:
		ptr, _ := fl.expr(v.Value)
		t := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = load %s, ptr %s\n", t, llvmType(fl.e.Types, v.Type()), ptr)
		return t, true
	case *hir.FieldAccess:
		return fl.lowerFieldAccess(v)
	case *hir.Intrinsic:
		return fl.intrinsic(v)
	case *hir.Drop:
		fl.e.maybeEmitDealloc(&fl.body, fl.locals[v.Name])
		return "", false
	default:
		return "", false
	}
}

func (fl *funcLowering) lowerLiteralStr(v *hir.LiteralStr) string {
	lit := ""
	if v.ID >= 0 && v.ID < len(fl.e.literals) {
		lit = fl.e.literals[v.ID]
	}
	n := len(lit)
	ptr := fl.allocPtr(n + 4)
	fmt.Fprintf(&fl.body, "  store i32 %d, ptr %s\n", n, ptr)
	dataPtr := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr %s, i32 4\n", dataPtr, ptr)
	fmt.Fprintf(&fl.body, "  call void @llir_copy_bytes(ptr %s, ptr @lit.%d, i32 %d)\n", dataPtr, v.ID, n)
	return ptr
}

// allocPtr calls the program's alloc (user-defined or the fallback bump
// allocator) and turns the returned i32 offset into a memory-global
// pointer ready for getelementptr/store.
func (fl *funcLowering) allocPtr(size int) string {
	raw := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = call i32 @alloc(i32 %d)\n", raw, size)
	ptr := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr @mem, i32 %s\n", ptr, raw)
	return ptr
}

func (fl *funcLowering) lowerCall(v *hir.Call) (string, bool) {
	args := make([]string, 0, len(v.Args))
	for _, a := range v.Args {
		if val, ok := fl.expr(a); ok {
			args = append(args, fmt.Sprintf("%s %s", llvmType(fl.e.Types, a.Type()), val))
		}
	}
	callee := fl.e.calleeSymbol(v.Callee)
	resultTy := llvmType(fl.e.Types, v.Type())
	if resultTy == "void" {
		fmt.Fprintf(&fl.body, "  call void @%s(%s)\n", callee, strings.Join(args, ", "))
		return "", false
	}
	t := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = call %s @%s(%s)\n", t, resultTy, callee, strings.Join(args, ", "))
	return t, true
}

func (fl *funcLowering) lowerCallIndirect(v *hir.CallIndirect) (string, bool) {
	fnVal, _ := fl.expr(v.Callee)
	args := make([]string, 0, len(v.Args))
	for _, a := range v.Args {
		if val, ok := fl.expr(a); ok {
			args = append(args, fmt.Sprintf("%s %s", llvmType(fl.e.Types, a.Type()), val))
		}
	}
	candidates := fl.e.candidatesFor(v.Params, v.Result)
	defaultL, endL := fl.newLabel(), fl.newLabel()
	caseLabels := make([]string, len(candidates))
	for i := range candidates {
		caseLabels[i] = fl.newLabel()
	}
	fmt.Fprintf(&fl.body, "  switch i32 %s, label %%%s [\n", fnVal, defaultL)
	for i, name := range candidates {
		fmt.Fprintf(&fl.body, "    i32 %d, label %%%s\n", fl.e.funcIDs[name], caseLabels[i])
	}
	fl.body.WriteString("  ]\n")

	resultTy := llvmType(fl.e.Types, v.Result)
	hasResult := resultTy != "void"
	var resultTmp string
	for i, name := range candidates {
		fmt.Fprintf(&fl.body, "%s:\n", caseLabels[i])
		if hasResult {
			t := fl.newTmp()
			fmt.Fprintf(&fl.body, "  %s = call %s @%s(%s)\n", t, resultTy, name, strings.Join(args, ", "))
			resultTmp = t
		} else {
			fmt.Fprintf(&fl.body, "  call void @%s(%s)\n", name, strings.Join(args, ", "))
		}
		fmt.Fprintf(&fl.body, "  br label %%%s\n", endL)
	}
	fmt.Fprintf(&fl.body, "%s:\n  unreachable\n%s:\n", defaultL, endL)
	return resultTmp, hasResult
}

func (fl *funcLowering) lowerIf(v *hir.If) (string, bool) {
	cond, _ := fl.expr(v.Cond)
	thenL, elseL, endL := fl.newLabel(), fl.newLabel(), fl.newLabel()
	fmt.Fprintf(&fl.body, "  br i1 %s, label %%%s, label %%%s\n", cond, thenL, elseL)

	fmt.Fprintf(&fl.body, "%s:\n", thenL)
	thenVal, thenOk := fl.expr(v.Then)
	fmt.Fprintf(&fl.body, "  br label %%%s\n", endL)

	fmt.Fprintf(&fl.body, "%s:\n", elseL)
	var elseVal string
	var elseOk bool
	if v.Else != nil {
		elseVal, elseOk = fl.expr(v.Else)
	}
	fmt.Fprintf(&fl.body, "  br label %%%s\n", endL)

	fmt.Fprintf(&fl.body, "%s:\n", endL)
	if thenOk && elseOk {
		t := fl.newTmp()
		ty := llvmType(fl.e.Types, v.Type())
		fmt.Fprintf(&fl.body, "  %s = phi %s [ %s, %%%s ], [ %s, %%%s ]\n", t, ty, thenVal, thenL, elseVal, elseL)
		return t, true
	}
	return "", false
}

func (fl *funcLowering) lowerWhile(v *hir.While) (string, bool) {
	condL, bodyL, endL := fl.newLabel(), fl.newLabel(), fl.newLabel()
	fmt.Fprintf(&fl.body, "  br label %%%s\n%s:\n", condL, condL)
	cond, _ := fl.expr(v.Cond)
	fmt.Fprintf(&fl.body, "  br i1 %s, label %%%s, label %%%s\n%s:\n", cond, bodyL, endL, bodyL)
	fl.expr(v.Body)
	fmt.Fprintf(&fl.body, "  br label %%%s\n%s:\n", condL, endL)
	return "", false
}

func (fl *funcLowering) lowerMatch(v *hir.Match) (string, bool) {
	scrut, _ := fl.expr(v.Scrutinee)
	tag := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = load i32, ptr %s\n", tag, scrut)

	defaultL, endL := fl.newLabel(), fl.newLabel()
	armLabels := make([]string, len(v.Arms))
	for i := range v.Arms {
		armLabels[i] = fl.newLabel()
	}
	fmt.Fprintf(&fl.body, "  switch i32 %s, label %%%s [\n", tag, defaultL)
	for i, arm := range v.Arms {
		fmt.Fprintf(&fl.body, "    i32 %d, label %%%s\n", arm.VariantIndex, armLabels[i])
	}
	fl.body.WriteString("  ]\n")

	resultTy := llvmType(fl.e.Types, v.Type())
	hasResult := resultTy != "void"
	var resultTmp string
	payloadOff := fl.e.Layout.LayoutOf(v.EnumType).PayloadOffset
	for i, arm := range v.Arms {
		fmt.Fprintf(&fl.body, "%s:\n", armLabels[i])
		if arm.Binding != "" {
			slot := fl.newTmp()
			fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr %s, i32 %d\n", slot, scrut, payloadOff)
			fl.locals[arm.Binding] = slot
		}
		val, ok := fl.expr(arm.Body)
		if ok && hasResult {
			resultTmp = val
		}
		fmt.Fprintf(&fl.body, "  br label %%%s\n", endL)
	}
	fmt.Fprintf(&fl.body, "%s:\n  unreachable\n%s:\n", defaultL, endL)
	return resultTmp, hasResult
}

func (fl *funcLowering) lowerEnumConstruct(v *hir.EnumConstruct) (string, bool) {
	ptr := fl.allocPtr(fl.e.Layout.SizeOf(v.Type()))
	fmt.Fprintf(&fl.body, "  store i32 %d, ptr %s\n", v.VariantIndex, ptr)
	if v.Payload != nil {
		if val, ok := fl.expr(v.Payload); ok {
			off := fl.e.Layout.LayoutOf(v.Type()).PayloadOffset
			slot := fl.newTmp()
			fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr %s, i32 %d\n", slot, ptr, off)
			fmt.Fprintf(&fl.body, "  store %s %s, ptr %s\n", llvmType(fl.e.Types, v.Payload.Type()), val, slot)
		}
	}
	return ptr, true
}

func (fl *funcLowering) lowerAggregate(ty types.TypeID, fields []hir.Expr) (string, bool) {
	ptr := fl.allocPtr(fl.e.Layout.SizeOf(ty))
	for i, f := range fields {
		val, ok := fl.expr(f)
		if !ok {
			continue
		}
		off := fl.e.Layout.FieldOffset(ty, i)
		slot := fl.newTmp()
		fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr %s, i32 %d\n", slot, ptr, off)
		fmt.Fprintf(&fl.body, "  store %s %s, ptr %s\n", llvmType(fl.e.Types, f.Type()), val, slot)
	}
	return ptr, true
}

func (fl *funcLowering) lowerFieldAccess(v *hir.FieldAccess) (string, bool) {
	base, _ := fl.expr(v.Value)
	off := fl.e.Layout.FieldOffset(v.Value.Type(), v.Index)
	slot := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = getelementptr i8, ptr %s, i32 %d\n", slot, base, off)
	t := fl.newTmp()
	fmt.Fprintf(&fl.body, "  %s = load %s, ptr %s\n", t, llvmType(fl.e.Types, v.Type()), slot)
	return t, true
}

// candidatesFor returns every reachable function, in deterministic name
// order, whose signature exactly matches params/result.
func (e *Emitter) candidatesFor(params []types.TypeID, result types.TypeID) []string {
	names := make([]string, 0, len(e.sigOf))
	for n := range e.sigOf {
		names = append(names, n)
	}
	sort.Strings(names)
	var out []string
	for _, n := range names {
		sig := e.sigOf[n]
		if len(sig.params) != len(params) {
			continue
		}
		if e.Types.ResolveID(sig.result) != e.Types.ResolveID(result) {
			continue
		}
		match := true
		for i := range params {
			if e.Types.ResolveID(sig.params[i]) != e.Types.ResolveID(params[i]) {
				match = false
				break
			}
		}
		if match {
			out = append(out, n)
		}
	}
	return out
}
