// Package mono specializes generic functions and trait-dispatched calls
// into a flat, fully concrete function set reachable from the program's
// entry point, grounded on the same Checker-with-Bag shape as sema.Checker
// and move.Checker but driven by a worklist instead of a single pass.
package mono

import (
	"fmt"
	"sort"
	"strings"

	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

type workItem struct {
	name     string
	typeArgs []types.TypeID
}

type implKey struct {
	trait  string
	method string
	selfTy types.TypeID
}

// Monomorphizer walks a worklist of (declared name, concrete type
// arguments) pairs, specializing each into a mangled, monomorphic
// hir.Function and enqueuing every callee it reaches along the way.
type Monomorphizer struct {
	Types *types.Interner
	Bag   *diag.Bag

	byName map[string][]*hir.Function
	impls  map[implKey]*hir.Function
	done   map[string]*hir.Function
	queued map[string]bool
	work   []workItem
}

func New(interner *types.Interner) *Monomorphizer {
	return &Monomorphizer{Types: interner, Bag: diag.NewBag()}
}

// Run specializes mod's reachable functions and returns a new module
// containing only those specializations, plus the externs, literal table,
// and entry name carried over unchanged.
func (m *Monomorphizer) Run(mod *hir.Module) *hir.Module {
	m.byName = make(map[string][]*hir.Function, len(mod.Functions))
	for _, fn := range mod.Functions {
		m.byName[fn.Name] = append(m.byName[fn.Name], fn)
	}
	m.impls = make(map[implKey]*hir.Function, len(mod.Impls))
	for _, impl := range mod.Impls {
		if fn := mod.FuncByName(impl.FuncName); fn != nil {
			m.impls[implKey{impl.Trait, impl.Method, m.Types.ResolveID(impl.SelfType)}] = fn
		}
	}
	m.done = make(map[string]*hir.Function)
	m.queued = make(map[string]bool)
	m.work = nil

	m.seed(mod)
	for len(m.work) > 0 {
		item := m.work[0]
		m.work = m.work[1:]
		m.specialize(item)
	}

	out := &hir.Module{
		Externs:   mod.Externs,
		EntryName: mod.EntryName,
		Literals:  mod.Literals,
	}
	names := make([]string, 0, len(m.done))
	for n := range m.done {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		out.Functions = append(out.Functions, m.done[n])
	}
	return out
}

// seed roots the worklist at the entry function (or, lacking one, every
// non-generic function) plus any runtime allocation helper, which must
// survive even when nothing in the reachable call graph names it directly.
func (m *Monomorphizer) seed(mod *hir.Module) {
	if mod.EntryName != "" {
		m.enqueue(mod.EntryName, nil)
	} else {
		for _, fn := range mod.Functions {
			if len(fn.TypeParams) == 0 {
				m.enqueue(fn.Name, nil)
			}
		}
	}
	for _, fn := range mod.Functions {
		if isRuntimeHelper(fn.Name) {
			m.enqueue(fn.Name, nil)
		}
	}
}

// isRuntimeHelper reports whether name is alloc/dealloc/realloc, in either
// bare or namespaced (`mem::alloc`, `alloc__i32`, `::alloc__i32`) form.
func isRuntimeHelper(name string) bool {
	seg := name
	if idx := strings.LastIndex(seg, "::"); idx >= 0 {
		seg = seg[idx+2:]
	}
	for _, base := range []string{"alloc", "dealloc", "realloc"} {
		if seg == base || strings.HasPrefix(seg, base+"__") {
			return true
		}
	}
	return false
}

// enqueue records a (name, typeArgs) work item the first time it is seen
// and returns the mangled name its specialization will carry.
func (m *Monomorphizer) enqueue(name string, typeArgs []types.TypeID) string {
	mangled := mangledName(m.Types, name, typeArgs)
	if !m.queued[mangled] {
		m.queued[mangled] = true
		m.work = append(m.work, workItem{name: name, typeArgs: typeArgs})
	}
	return mangled
}

// mangledName renders name_TYARG_TYARG deterministically from the
// interner's canonical type spelling; a non-generic call leaves name bare.
func mangledName(in *types.Interner, name string, typeArgs []types.TypeID) string {
	if len(typeArgs) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	for _, a := range typeArgs {
		b.WriteByte('_')
		b.WriteString(in.String(a))
	}
	return b.String()
}

// specialize builds the one specialization named by item, substituting its
// type arguments through the signature and body and enqueuing every
// callee reached while doing so.
func (m *Monomorphizer) specialize(item workItem) {
	mangled := mangledName(m.Types, item.name, item.typeArgs)
	if _, ok := m.done[mangled]; ok {
		return
	}

	candidates := m.byName[item.name]
	if len(candidates) == 0 {
		m.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, source.Dummy(),
			fmt.Sprintf("monomorphization: no function named %q", item.name)))
		return
	}
	fn := candidates[0]
	for _, c := range candidates {
		if len(c.TypeParams) == len(item.typeArgs) {
			fn = c
			break
		}
	}

	subst := make(types.Subst, len(fn.TypeParams))
	for i, p := range fn.TypeParams {
		if i < len(item.typeArgs) {
			subst[m.Types.Strings.Intern(p)] = item.typeArgs[i]
		}
	}

	sp := &specializer{m: m, s: subst}
	out := &hir.Function{
		Name:   mangled,
		Origin: item.name,
		Type:   m.Types.Apply(fn.Type, subst),
		Result: m.Types.Apply(fn.Result, subst),
		Span:   fn.Span,
	}
	out.Params = make([]hir.Param, len(fn.Params))
	for i, p := range fn.Params {
		out.Params[i] = hir.Param{Name: p.Name, Type: m.Types.Apply(p.Type, subst)}
	}
	switch {
	case fn.Body.Block != nil:
		out.Body.Block = sp.expr(fn.Body.Block).(*hir.Block)
	case fn.Body.RawLlvmIR != nil:
		out.Body.RawLlvmIR = fn.Body.RawLlvmIR
	case fn.Body.RawWasm != nil:
		out.Body.RawWasm = fn.Body.RawWasm
	}
	m.done[mangled] = out
}

// resolveImpl looks up the impl map for an exact (trait, method, selfTy)
// hit first, then falls back to unifying selfTy against every impl for
// that (trait, method) and accepting the result only if exactly one
// candidate unifies.
func (m *Monomorphizer) resolveImpl(trait, method string, selfTy types.TypeID) (*hir.Function, bool) {
	if fn, ok := m.impls[implKey{trait, method, m.Types.ResolveID(selfTy)}]; ok {
		return fn, true
	}
	var match *hir.Function
	count := 0
	for k, fn := range m.impls {
		if k.trait != trait || k.method != method {
			continue
		}
		snap := m.Types.Snapshot()
		ok := m.Types.Unify(k.selfTy, selfTy)
		m.Types.Restore(snap)
		if ok {
			match = fn
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return nil, false
}
