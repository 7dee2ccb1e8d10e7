package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// resolveCall picks the unique candidate (user function or builtin) whose
// parameters unify with argTypes, emitting NoMatchingOverload /
// AmbiguousOverload on failure. On success it returns the FuncRef to lower
// the call to, plus the call's resolved result type.
func (c *Checker) resolveCall(name string, argTypes []types.TypeID, callSpan ast.Expr) (hir.FuncRef, types.TypeID, bool) {
	type trial struct {
		userFn *ast.FnDef // nil for a builtin match
		ref    hir.FuncRef
		result types.TypeID
	}
	var matches []trial
	baseline := c.Types.Snapshot()

	for _, fn := range c.fnsByName[name] {
		snap := c.Types.Snapshot()
		fnType, typeArgVars := c.instantiateUser(fn)
		ft := c.Types.MustLookup(fnType)
		if len(ft.Params) == len(argTypes) && c.unifyParams(ft.Params, argTypes) {
			resolvedArgs := make([]types.TypeID, len(typeArgVars))
			for i, v := range typeArgVars {
				resolvedArgs[i] = c.Types.ResolveID(v)
			}
			matches = append(matches, trial{
				userFn: fn,
				ref:    hir.User(fn.Name, resolvedArgs...),
				result: c.Types.ResolveID(ft.Result),
			})
		}
		c.Types.Restore(snap)
	}
	for _, sig := range c.Builtins.Candidates(name) {
		snap := c.Types.Snapshot()
		if len(sig.Params) == len(argTypes) && c.unifyParams(sig.Params, argTypes) {
			matches = append(matches, trial{ref: hir.Builtin(name), result: sig.Result})
		}
		c.Types.Restore(snap)
	}

	c.Types.Restore(baseline)
	switch len(matches) {
	case 0:
		if ref, result, ok := c.resolveTraitCall(name, argTypes); ok {
			return ref, result, true
		}
		c.Bag.Add(diag.Errorf(diag.NoMatchingOverload, callSpan.Span(), fmt.Sprintf("no matching overload for %q", name)))
		return hir.FuncRef{}, types.NoTypeID, false
	case 1:
		m := matches[0]
		if m.userFn == nil {
			return m.ref, m.result, true
		}
		// Re-run the winning trial for real so its Var bindings stick (the
		// bulk loop above restores after every attempt, including the last).
		fnType, typeArgVars := c.instantiateUser(m.userFn)
		ft := c.Types.MustLookup(fnType)
		c.unifyParams(ft.Params, argTypes)
		resolvedArgs := make([]types.TypeID, len(typeArgVars))
		for i, v := range typeArgVars {
			resolvedArgs[i] = c.Types.ResolveID(v)
		}
		return hir.User(m.userFn.Name, resolvedArgs...), c.Types.ResolveID(ft.Result), true
	default:
		c.Bag.Add(diag.Errorf(diag.AmbiguousOverload, callSpan.Span(), fmt.Sprintf("ambiguous overload for %q", name)))
		return hir.FuncRef{}, types.NoTypeID, false
	}
}

// instantiateUser builds a fresh-Var instantiation of fn's signature,
// returning the instantiated Function TypeID and the fresh Vars standing
// in for each of fn's own TypeParams (in declaration order), so the
// caller can read back their resolved bindings after a successful unify.
func (c *Checker) instantiateUser(fn *ast.FnDef) (types.TypeID, []types.TypeID) {
	base := c.fnTypes[fn]
	bt := c.Types.MustLookup(base)
	if len(bt.TypeParams) == 0 {
		return base, nil
	}
	subst := make(types.Subst, len(bt.TypeParams))
	vars := make([]types.TypeID, len(bt.TypeParams))
	for i, p := range bt.TypeParams {
		v := c.Types.NewVar()
		subst[p] = v
		vars[i] = v
	}
	return c.Types.Apply(base, subst), vars
}

func (c *Checker) unifyParams(params []types.TypeID, argTypes []types.TypeID) bool {
	for i, p := range params {
		if !c.Types.Unify(p, argTypes[i]) {
			return false
		}
	}
	return true
}
