// Package move checks use-after-move on typed HIR with branch-sensitive
// state merging, following the same Checker-with-Bag shape as sema.Checker
// and mono.Monomorphizer, applied to a much smaller state machine than a
// full borrow analysis would need.
package move

import (
	"fmt"

	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// State is a binding's move status.
type State uint8

const (
	Valid State = iota
	Moved
)

// env maps binding names to their current move state. It is passed by
// value at branch points so If/While/Match can fork it and merge the
// results without mutating a shared structure.
type env map[string]State

func (e env) clone() env {
	out := make(env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// merge combines two states reached from a common ancestor: a binding
// moved on either path is moved afterward; otherwise both paths agree.
func merge(a, b env) env {
	out := make(env, len(a))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if v == Moved {
			out[k] = Moved
		} else if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Checker walks one module's functions checking for use-after-move.
type Checker struct {
	Types *types.Interner
	Bag   *diag.Bag
}

func New(interner *types.Interner) *Checker {
	return &Checker{Types: interner, Bag: diag.NewBag()}
}

// CheckModule runs the pass over every function with a parsed body
// (raw-IR bodies bypass HIR entirely and have nothing to check here).
func (c *Checker) CheckModule(mod *hir.Module) []*diag.Diagnostic {
	for _, fn := range mod.Functions {
		if fn.Body.Block == nil {
			continue
		}
		e := make(env, len(fn.Params))
		for _, p := range fn.Params {
			e[p.Name] = Valid
		}
		c.walkBlock(fn.Body.Block, e)
	}
	c.Bag.Sort()
	return c.Bag.Items()
}

// use records a read of name at ty's type: Copy types never move; a
// non-Copy type transitions Valid->Moved, and a read while already Moved
// is the use-after-move diagnostic.
func (c *Checker) use(name string, ty types.TypeID, e env, span hir.Expr) {
	if c.Types.IsCopy(ty) {
		return
	}
	if e[name] == Moved {
		c.Bag.Add(diag.Errorf(diag.UseOfMovedValue, span.Span(), fmt.Sprintf("use of moved value: %s", name)))
		return
	}
	e[name] = Moved
}

// walkBlock processes a block's lines in order against e, then restores
// e to its pre-block shape for every name the block itself declared
// (Drops lists them in scope-exit order; only the post-restore presence
// matters here, not the order).
func (c *Checker) walkBlock(b *hir.Block, e env) {
	prior := make(env, len(b.Drops))
	for _, name := range b.Drops {
		if s, ok := e[name]; ok {
			prior[name] = s
		}
	}
	for _, line := range b.Lines {
		c.walk(line.Value, e)
	}
	for _, name := range b.Drops {
		if s, ok := prior[name]; ok {
			e[name] = s
		} else {
			delete(e, name)
		}
	}
}

// walk dispatches on every HIR expression kind, mutating e in place
// except at the branch points (If/While/Match) which fork and merge
// explicitly.
func (c *Checker) walk(x hir.Expr, e env) {
	switch v := x.(type) {
	case *hir.Var:
		c.use(v.Name, v.Type(), e, v)
	case *hir.Let:
		c.walk(v.Value, e)
		e[v.Name] = Valid
	case *hir.Set:
		c.walk(v.Value, e)
		e[v.Name] = Valid
	case *hir.Drop:
		e[v.Name] = Moved
	case *hir.Block:
		c.walkBlock(v, e)
	case *hir.If:
		c.walk(v.Cond, e)
		thenEnv := e.clone()
		c.walk(v.Then, thenEnv)
		if v.Else == nil {
			merged := merge(e, thenEnv)
			for k := range e {
				delete(e, k)
			}
			for k, s := range merged {
				e[k] = s
			}
			return
		}
		elseEnv := e.clone()
		c.walk(v.Else, elseEnv)
		merged := merge(thenEnv, elseEnv)
		for k := range e {
			delete(e, k)
		}
		for k, s := range merged {
			e[k] = s
		}
	case *hir.While:
		c.walk(v.Cond, e)
		once := e.clone()
		c.walk(v.Body, once)
		// Re-evaluate from the one-iteration state to expose a move that
		// only a second pass through the loop body would use-after.
		twice := once.clone()
		c.walk(v.Cond, twice)
		c.walk(v.Body, twice)
		merged := merge(e, once)
		for k := range e {
			delete(e, k)
		}
		for k, s := range merged {
			e[k] = s
		}
	case *hir.Match:
		c.walk(v.Scrutinee, e)
		var armEnvs []env
		for _, arm := range v.Arms {
			armEnv := e.clone()
			if arm.Binding != "" {
				armEnv[arm.Binding] = Valid
			}
			c.walk(arm.Body, armEnv)
			delete(armEnv, arm.Binding)
			armEnvs = append(armEnvs, armEnv)
		}
		merged := e.clone()
		for _, ae := range armEnvs {
			merged = merge(merged, ae)
		}
		for k := range e {
			delete(e, k)
		}
		for k, s := range merged {
			e[k] = s
		}
	case *hir.Call:
		for _, a := range v.Args {
			c.walk(a, e)
		}
	case *hir.CallIndirect:
		c.walk(v.Callee, e)
		for _, a := range v.Args {
			c.walk(a, e)
		}
	case *hir.EnumConstruct:
		if v.Payload != nil {
			c.walk(v.Payload, e)
		}
	case *hir.StructConstruct:
		for _, f := range v.Fields {
			c.walk(f, e)
		}
	case *hir.TupleConstruct:
		for _, it := range v.Items {
			c.walk(it, e)
		}
	case *hir.AddrOf:
		c.walk(v.Value, e)
	case *hir.Deref:
		c.walk(v.Value, e)
	case *hir.FieldAccess:
		c.walk(v.Value, e)
	case *hir.Intrinsic:
		for _, a := range v.Args {
			c.walk(a, e)
		}
	default:
		// Literals, FnValue, and Unit carry no sub-bindings to track.
	}
}
