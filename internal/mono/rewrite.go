package mono

import (
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// specializer rebuilds one function body under a fixed substitution,
// re-resolving every expression's type and rewriting every FuncRef it
// passes through (enqueuing new work items for calls it reaches for the
// first time). hir.Expr nodes carry their type at construction, so
// substitution means rebuilding each node via its constructor rather than
// mutating one in place.
type specializer struct {
	m *Monomorphizer
	s types.Subst
}

func (sp *specializer) ty(id types.TypeID) types.TypeID {
	return sp.m.Types.Apply(id, sp.s)
}

func (sp *specializer) tys(ids []types.TypeID) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = sp.ty(id)
	}
	return out
}

func (sp *specializer) exprs(xs []hir.Expr) []hir.Expr {
	out := make([]hir.Expr, len(xs))
	for i, x := range xs {
		out[i] = sp.expr(x)
	}
	return out
}

// ref rewrites a call target: Builtin passes through unchanged, User
// enqueues (and renames to) its mangled specialization, and Trait is
// resolved to a concrete User ref via the impl map when a unique impl
// unifies, else left as an unresolved Trait ref for the backend to
// diagnose.
func (sp *specializer) ref(r hir.FuncRef) hir.FuncRef {
	switch r.Kind {
	case hir.FuncRefUser:
		args := sp.tys(r.TypeArgs)
		resolved := make([]types.TypeID, len(args))
		for i, a := range args {
			resolved[i] = sp.m.Types.ResolveID(a)
		}
		return hir.User(sp.m.enqueue(r.Name, resolved))
	case hir.FuncRefTrait:
		selfTy := sp.m.Types.ResolveID(sp.ty(r.SelfTy))
		if fn, ok := sp.m.resolveImpl(r.Trait, r.Method, selfTy); ok {
			return hir.User(sp.m.enqueue(fn.Name, nil))
		}
		return hir.Trait(r.Trait, r.Method, selfTy)
	default: // FuncRefBuiltin
		return r
	}
}

func (sp *specializer) expr(x hir.Expr) hir.Expr {
	t := sp.ty(x.Type())
	switch v := x.(type) {
	case *hir.IntLit:
		return hir.NewIntLit(t, v.Span(), v.Value)
	case *hir.FloatLit:
		return hir.NewFloatLit(t, v.Span(), v.Value)
	case *hir.BoolLit:
		return hir.NewBoolLit(t, v.Span(), v.Value)
	case *hir.LiteralStr:
		return hir.NewLiteralStr(t, v.Span(), v.ID)
	case *hir.UnitExpr:
		return hir.NewUnitExpr(t, v.Span())
	case *hir.Var:
		return hir.NewVar(t, v.Span(), v.Name)
	case *hir.FnValue:
		return hir.NewFnValue(t, v.Span(), sp.ref(v.Ref))
	case *hir.Call:
		return hir.NewCall(t, v.Span(), sp.ref(v.Callee), sp.exprs(v.Args)...)
	case *hir.CallIndirect:
		return hir.NewCallIndirect(v.Span(), sp.expr(v.Callee), sp.tys(v.Params), t, sp.exprs(v.Args)...)
	case *hir.If:
		var els hir.Expr
		if v.Else != nil {
			els = sp.expr(v.Else)
		}
		return hir.NewIf(t, v.Span(), sp.expr(v.Cond), sp.expr(v.Then), els)
	case *hir.While:
		return hir.NewWhile(t, v.Span(), sp.expr(v.Cond), sp.expr(v.Body))
	case *hir.Match:
		arms := make([]hir.MatchArm, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = hir.MatchArm{
				Variant:      a.Variant,
				VariantIndex: a.VariantIndex,
				Binding:      a.Binding,
				BindingType:  sp.ty(a.BindingType),
				Body:         sp.expr(a.Body),
			}
		}
		return hir.NewMatch(t, v.Span(), sp.expr(v.Scrutinee), sp.ty(v.EnumType), arms...)
	case *hir.EnumConstruct:
		var payload hir.Expr
		if v.Payload != nil {
			payload = sp.expr(v.Payload)
		}
		return hir.NewEnumConstruct(t, v.Span(), v.VariantIndex, v.VariantName, payload)
	case *hir.StructConstruct:
		return hir.NewStructConstruct(t, v.Span(), sp.exprs(v.Fields)...)
	case *hir.TupleConstruct:
		return hir.NewTupleConstruct(t, v.Span(), sp.exprs(v.Items)...)
	case *hir.Block:
		lines := make([]hir.BlockLine, len(v.Lines))
		for i, l := range v.Lines {
			lines[i] = hir.BlockLine{Value: sp.expr(l.Value), DropResult: l.DropResult}
		}
		blk := hir.NewBlock(t, v.Span(), lines...)
		blk.Drops = append([]string(nil), v.Drops...)
		return blk
	case *hir.Let:
		return hir.NewLet(t, v.Span(), v.Name, v.Mutable, sp.expr(v.Value))
	case *hir.Set:
		return hir.NewSet(t, v.Span(), v.Name, sp.expr(v.Value))
	case *hir.AddrOf:
		return hir.NewAddrOf(t, v.Span(), v.Mutable, sp.expr(v.Value))
	case *hir.Deref:
		return hir.NewDeref(t, v.Span(), sp.expr(v.Value))
	case *hir.Intrinsic:
		return hir.NewIntrinsic(t, v.Span(), v.Name, sp.tys(v.TypeArgs), sp.exprs(v.Args)...)
	case *hir.Drop:
		return hir.NewDrop(t, v.Span(), v.Name)
	case *hir.FieldAccess:
		return hir.NewFieldAccess(t, v.Span(), sp.expr(v.Value), v.Field, v.Index)
	default:
		return x
	}
}
