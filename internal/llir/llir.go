// Package llir lowers a monomorphized HIR module to textual, typed,
// SSA-like low-level IR suitable for an external assembler: directive
// gating, raw-IR splicing, entry bridging, linear-memory layout, the
// fallback allocator, symbol aliasing, and intrinsic lowering all live
// here, grounded on an LLVM-flavored text emission idiom (`%tN`
// temporaries, `bbN:` labels, `getelementptr`/`bitcast`/`switch`).
package llir

import (
	"fmt"
	"sort"
	"strings"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/layout"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// memSize is the emitted program's linear-memory global width (~64 MiB).
const memSize = 64 * 1024 * 1024

type fnSig struct {
	params []types.TypeID
	result types.TypeID
}

// Emitter holds everything one module's lowering needs: the type arena
// and layout engine to size and offset values, the active
// target/profile for directive gating, and the growing output buffer.
type Emitter struct {
	Types  *types.Interner
	Layout *layout.Engine
	Bag    *diag.Bag

	target  ast.Target
	profile ast.Profile

	funcIDs  map[string]int
	sigOf    map[string]fnSig
	literals []string
	hasDealloc bool

	out strings.Builder
}

func New(interner *types.Interner, layoutEngine *layout.Engine, target ast.Target, profile ast.Profile) *Emitter {
	return &Emitter{
		Types:   interner,
		Layout:  layoutEngine,
		Bag:     diag.NewBag(),
		target:  target,
		profile: profile,
	}
}

// Emit lowers mod (already monomorphized) to low-level IR text. astMod
// supplies the raw-IR blocks and gate directives the HIR itself does not
// carry (those are resolved against source syntax, not typed HIR).
func (e *Emitter) Emit(astMod *ast.Module, mod *hir.Module) (string, []*diag.Diagnostic) {
	e.literals = mod.Literals
	e.hasDealloc = mod.FuncByName("dealloc") != nil
	e.assignFuncIDs(mod)

	e.emitMemoryGlobal()
	e.emitLiteralGlobals()
	e.emitModuleRawBlocks(astMod)

	rawByFn := collectRawBodies(astMod)

	names := make([]string, 0, len(mod.Functions))
	byName := make(map[string]*hir.Function, len(mod.Functions))
	for _, fn := range mod.Functions {
		names = append(names, fn.Name)
		byName[fn.Name] = fn
	}
	sort.Strings(names)
	for _, name := range names {
		fn := byName[name]
		e.emitFunction(fn, rawByFn[fn.Origin])
	}
	for _, ext := range mod.Externs {
		e.emitExternDecl(ext)
	}

	e.emitAliases(mod)
	e.emitEntryBridge(mod)
	if !e.hasUserAlloc(mod) {
		e.emitFallbackAllocator()
	}

	e.Bag.Sort()
	return e.out.String(), e.Bag.Items()
}

// assignFuncIDs gives every reachable function a dense positive integer
// id in sorted-name order (so ids are stable across repeat compiles) and
// records its signature for CallIndirect candidate matching.
func (e *Emitter) assignFuncIDs(mod *hir.Module) {
	names := make([]string, 0, len(mod.Functions))
	for _, fn := range mod.Functions {
		names = append(names, fn.Name)
	}
	sort.Strings(names)
	e.funcIDs = make(map[string]int, len(names))
	e.sigOf = make(map[string]fnSig, len(names))
	byName := make(map[string]*hir.Function, len(mod.Functions))
	for _, fn := range mod.Functions {
		byName[fn.Name] = fn
	}
	for i, name := range names {
		e.funcIDs[name] = i + 1
		fn := byName[name]
		params := make([]types.TypeID, len(fn.Params))
		for j, p := range fn.Params {
			params[j] = p.Type
		}
		e.sigOf[name] = fnSig{params: params, result: fn.Result}
	}
}

func (e *Emitter) emitMemoryGlobal() {
	fmt.Fprintf(&e.out, "@mem = global [%d x i8] zeroinitializer\n\n", memSize)
}

func (e *Emitter) emitLiteralGlobals() {
	for i, lit := range e.literals {
		fmt.Fprintf(&e.out, "@lit.%d = constant [%d x i8] c%q\n", i, len(lit), lit)
	}
	if len(e.literals) > 0 {
		e.out.WriteByte('\n')
	}
}

// emitModuleRawBlocks splices verbatim module-level raw-IR blocks
// (globals not attached to a specific function) that gate-admit under
// the active target/profile.
func (e *Emitter) emitModuleRawBlocks(astMod *ast.Module) {
	if astMod == nil {
		return
	}
	for _, item := range astMod.Items {
		rb, ok := item.(*ast.RawBlockItem)
		if !ok || rb.Kind != ast.RawLlvmIR {
			continue
		}
		if !e.gateAdmitted(rb.ItemGates()) {
			continue
		}
		for _, line := range rb.Lines {
			e.out.WriteString(line)
			e.out.WriteByte('\n')
		}
	}
	e.out.WriteByte('\n')
}

// collectRawBodies indexes every FnDef's raw-body alternatives by
// declared name, for lookup by a specialized hir.Function's Origin.
func collectRawBodies(astMod *ast.Module) map[string][]ast.RawBody {
	out := make(map[string][]ast.RawBody)
	if astMod == nil {
		return out
	}
	for _, item := range astMod.Items {
		fn, ok := item.(*ast.FnDef)
		if !ok || len(fn.RawBodies) == 0 {
			continue
		}
		out[fn.Name] = fn.RawBodies
	}
	return out
}

// gateAdmitted implements the same target/profile predicate as the type
// checker's directive gating, reimplemented here since raw-IR selection
// runs directly against ast nodes the HIR does not carry.
func (e *Emitter) gateAdmitted(gates []ast.GateDirective) bool {
	for _, g := range gates {
		switch g.Kind {
		case ast.GateTarget:
			if !targetPermits(e.target, g.Value) {
				return false
			}
		case ast.GateProfile:
			if g.Value != e.profile.String() {
				return false
			}
		}
	}
	return true
}

func targetPermits(active ast.Target, want string) bool {
	if active.String() == want {
		return true
	}
	if active == ast.TargetWasi && want == "wasm" {
		return true
	}
	if active == ast.TargetStd && want == "core" {
		return true
	}
	return false
}

// selectRawBody implements §4.7.2: zero active forms falls back to the
// parsed body, one active form wins outright, more than one is
// ConflictingRawBodies (diagnosed, then degraded by picking the first so
// the rest of the module still emits).
func (e *Emitter) selectRawBody(bodies []ast.RawBody) ([]string, bool) {
	var active []ast.RawBody
	for _, rb := range bodies {
		if rb.Kind != ast.RawLlvmIR {
			continue
		}
		if e.gateAdmitted(rb.Gates) {
			active = append(active, rb)
		}
	}
	switch len(active) {
	case 0:
		return nil, false
	case 1:
		return active[0].Lines, true
	default:
		e.Bag.Add(diag.Errorf(diag.ConflictingRawBodies, active[0].Span,
			"more than one raw IR body is active for this function under the current target/profile"))
		return active[0].Lines, true
	}
}

func (e *Emitter) emitFunction(fn *hir.Function, rawBodies []ast.RawBody) {
	if lines, ok := e.selectRawBody(rawBodies); ok {
		for _, line := range lines {
			e.out.WriteString(line)
			e.out.WriteByte('\n')
		}
		e.out.WriteByte('\n')
		return
	}
	if fn.Body.RawLlvmIR != nil {
		for _, line := range fn.Body.RawLlvmIR {
			e.out.WriteString(line)
			e.out.WriteByte('\n')
		}
		e.out.WriteByte('\n')
		return
	}
	if fn.Body.RawWasm != nil {
		e.Bag.Add(diag.Errorf(diag.UnsupportedWasmBody, fn.Span,
			fmt.Sprintf("function %q has only a wasm raw body; this backend needs llvm IR or a parsed body", fn.Name)))
		return
	}
	if v, ok := trivialI32Const(fn); ok && e.Types.ResolveID(fn.Result) == e.Types.Builtins().I32 {
		fmt.Fprintf(&e.out, "define i32 @%s() {\n  ret i32 %d\n}\n\n", fn.Name, v)
		return
	}
	if fn.Body.Block == nil {
		e.Bag.Add(diag.Errorf(diag.UnsupportedParsedFunctionBody, fn.Span,
			fmt.Sprintf("function %q has no llvm IR block, wasm block, or parsed body to lower", fn.Name)))
		return
	}
	(&funcLowering{e: e, fn: fn}).lower()
}

// trivialI32Const recognizes §4.7.2's single-literal fast path: a body
// that is just `i32 literal` skips HIR lowering entirely.
func trivialI32Const(fn *hir.Function) (int64, bool) {
	if fn.Body.Block == nil || len(fn.Body.Block.Lines) != 1 {
		return 0, false
	}
	lit, ok := fn.Body.Block.Lines[0].Value.(*hir.IntLit)
	if !ok {
		return 0, false
	}
	return lit.Value, true
}

func (e *Emitter) emitExternDecl(ext *hir.Extern) {
	params := make([]string, len(ext.Params))
	for i, p := range ext.Params {
		params[i] = llvmType(e.Types, p.Type)
	}
	fmt.Fprintf(&e.out, "declare %s @%s(%s)\n", llvmType(e.Types, ext.Result), ext.Name, strings.Join(params, ", "))
}

// emitAliases implements the symbol-alias law: when a declared name
// specialized to exactly one reachable mangled function, a forwarder
// under the bare declared name is emitted too.
func (e *Emitter) emitAliases(mod *hir.Module) {
	byOrigin := make(map[string][]*hir.Function)
	for _, fn := range mod.Functions {
		byOrigin[fn.Origin] = append(byOrigin[fn.Origin], fn)
	}
	origins := make([]string, 0, len(byOrigin))
	for o := range byOrigin {
		origins = append(origins, o)
	}
	sort.Strings(origins)
	for _, origin := range origins {
		fns := byOrigin[origin]
		if len(fns) != 1 || fns[0].Name == origin {
			continue
		}
		fn := fns[0]
		resultTy := llvmType(e.Types, fn.Result)
		params := make([]string, len(fn.Params))
		args := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = fmt.Sprintf("%s %%%s", llvmType(e.Types, p.Type), p.Name)
			args[i] = fmt.Sprintf("%s %%%s", llvmType(e.Types, p.Type), p.Name)
		}
		fmt.Fprintf(&e.out, "define %s @%s(%s) {\n", resultTy, origin, strings.Join(params, ", "))
		if resultTy == "void" {
			fmt.Fprintf(&e.out, "  call void @%s(%s)\n  ret void\n}\n\n", fn.Name, strings.Join(args, ", "))
		} else {
			fmt.Fprintf(&e.out, "  %%r = call %s @%s(%s)\n  ret %s %%r\n}\n\n", resultTy, fn.Name, strings.Join(args, ", "), resultTy)
		}
	}
}

// emitEntryBridge implements §4.7.3: a void entry is renamed under a
// private alias and a plain `main` returning 0 is generated; a non-void,
// non-`main` entry gets a `main` wrapper that returns its result.
func (e *Emitter) emitEntryBridge(mod *hir.Module) {
	if mod.EntryName == "" {
		return
	}
	entry := mod.FuncByName(mod.EntryName)
	if entry == nil {
		e.Bag.Add(diag.Errorf(diag.MissingEntryFunction, source.Dummy(),
			fmt.Sprintf("entry function %q was not defined after monomorphization", mod.EntryName)))
		return
	}
	if e.Types.ResolveID(entry.Result) == e.Types.Builtins().Unit {
		const alias = "__nepl_entry_main"
		fmt.Fprintf(&e.out, "define void @%s() {\n  call void @%s()\n  ret void\n}\n\n", alias, entry.Name)
		e.out.WriteString("define i32 @main() {\n")
		fmt.Fprintf(&e.out, "  call void @%s()\n  ret i32 0\n}\n\n", alias)
		return
	}
	if entry.Name == "main" {
		return
	}
	fmt.Fprintf(&e.out, "define i32 @main() {\n  %%r = call i32 @%s()\n  ret i32 %%r\n}\n\n", entry.Name)
}

func (e *Emitter) hasUserAlloc(mod *hir.Module) bool {
	fn := mod.FuncByName("alloc")
	if fn == nil {
		return false
	}
	return len(fn.Params) == 1 && e.Types.ResolveID(fn.Params[0].Type) == e.Types.Builtins().I32 &&
		e.Types.ResolveID(fn.Result) == e.Types.Builtins().I32
}

// emitFallbackAllocator is the §4.7.4 internal bump allocator: a global
// cursor starting at offset 16, advancing in 8-byte-aligned increments.
func (e *Emitter) emitFallbackAllocator() {
	e.out.WriteString(`@alloc.cursor = global i32 16

define i32 @alloc(i32 %n) {
  %cur = load i32, ptr @alloc.cursor
  %rem = srem i32 %n, 8
  %pad = sub i32 8, %rem
  %padOk = icmp eq i32 %rem, 0
  %padded = add i32 %n, %pad
  %aligned = select i1 %padOk, i32 %n, i32 %padded
  %next = add i32 %cur, %aligned
  store i32 %next, ptr @alloc.cursor
  ret i32 %cur
}

`)
}
