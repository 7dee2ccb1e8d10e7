package types

// Unify attempts to make a and b structurally equal by binding unbound
// Vars, following existing indirections first via ResolveID. Reports
// whether unification succeeded; on failure no partial bindings from this
// call are rolled back (callers that need backtracking, e.g. overload
// resolution, operate on a scratch Interner copy-of-substitutions instead).
func (in *Interner) Unify(a, b TypeID) bool {
	a = in.ResolveID(a)
	b = in.ResolveID(b)
	if a == b {
		return true
	}
	ta, aok := in.Lookup(a)
	tb, bok := in.Lookup(b)
	if !aok || !bok {
		return false
	}
	if ta.Kind == KindVar {
		in.Bind(a, b)
		return true
	}
	if tb.Kind == KindVar {
		in.Bind(b, a)
		return true
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindUnit, KindNever, KindBool, KindI32, KindU8, KindF32:
		return true
	case KindNamed:
		return ta.Name == tb.Name
	case KindReference:
		return ta.Mutable == tb.Mutable && in.Unify(ta.Elem, tb.Elem)
	case KindBox:
		return in.Unify(ta.Elem, tb.Elem)
	case KindTuple:
		return in.unifyIDs(ta.Items, tb.Items)
	case KindStruct, KindEnum:
		return ta.Name == tb.Name && in.unifyIDs(ta.Args, tb.Args)
	case KindApply:
		return in.Unify(ta.Base, tb.Base) && in.unifyIDs(ta.Args, tb.Args)
	case KindFunction:
		return in.unifyIDs(ta.Params, tb.Params) && in.Unify(ta.Result, tb.Result)
	default:
		return false
	}
}

func (in *Interner) unifyIDs(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !in.Unify(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Snapshot captures the current Var substitution so speculative unification
// (overload candidate probing) can be rolled back.
type Snapshot struct {
	subst   map[uint32]TypeID
	nextVar uint32
}

func (in *Interner) Snapshot() Snapshot {
	cp := make(map[uint32]TypeID, len(in.subst))
	for k, v := range in.subst {
		cp[k] = v
	}
	return Snapshot{subst: cp, nextVar: in.nextVar}
}

func (in *Interner) Restore(s Snapshot) {
	in.subst = s.subst
	in.nextVar = s.nextVar
}
