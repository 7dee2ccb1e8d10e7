package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// selfParamName is the trait method receiver's placeholder type, substituted
// with an impl's concrete self type before a call is dispatched.
const selfParamName = "Self"

// collectTraitDecls records every trait's method signatures (Self left as
// an unresolved named placeholder) so call sites recognize a trait method
// name and impl bodies can be checked against the contract they implement.
func (c *Checker) collectTraitDecls(mod *ast.Module) {
	selfParams := map[string]bool{selfParamName: true}
	for _, item := range mod.Items {
		if !c.gateAdmitted(item.ItemGates()) {
			continue
		}
		trait, ok := item.(*ast.TraitDef)
		if !ok {
			continue
		}
		for _, m := range trait.Methods {
			if owner, dup := c.traitMethods[m.Name]; dup {
				c.Bag.Add(diag.Errorf(diag.TraitMethodConflict, m.Span,
					fmt.Sprintf("method %q already declared by trait %q", m.Name, owner)))
				continue
			}
			c.traitMethods[m.Name] = trait.Name
			params := make([]types.TypeID, len(m.Params))
			for i, p := range m.Params {
				params[i] = c.resolveTypeExpr(p.Type, selfParams, nil)
			}
			result := c.Types.Builtins().Unit
			if m.Result != nil {
				result = c.resolveTypeExpr(m.Result, selfParams, nil)
			}
			c.traitSigs[m.Name] = c.Types.Intern(types.Type{Kind: types.KindFunction, Params: params, Result: result})
		}
	}
}

// resolveTraitCall recognizes a call to a declared trait method. The
// concrete implementation is not picked here: the first argument stands in
// for the trait's Self placeholder, and the call is lowered as an
// unresolved FuncRef::Trait that monomorphization later resolves through an
// impl-map lookup keyed on (trait, method, resolved self type).
func (c *Checker) resolveTraitCall(name string, argTypes []types.TypeID) (hir.FuncRef, types.TypeID, bool) {
	trait, ok := c.traitMethods[name]
	if !ok || len(argTypes) == 0 {
		return hir.FuncRef{}, types.NoTypeID, false
	}
	subst := types.Subst{c.Strings.Intern(selfParamName): argTypes[0]}
	ft := c.Types.MustLookup(c.Types.Apply(c.traitSigs[name], subst))
	if len(ft.Params) != len(argTypes) {
		return hir.FuncRef{}, types.NoTypeID, false
	}
	snap := c.Types.Snapshot()
	if !c.unifyParams(ft.Params, argTypes) {
		c.Types.Restore(snap)
		return hir.FuncRef{}, types.NoTypeID, false
	}
	return hir.Trait(trait, name, c.Types.ResolveID(argTypes[0])), c.Types.ResolveID(ft.Result), true
}

// checkImplDef type-checks every method in an impl block against the trait
// contract it claims to implement, registers each as a distinctly named
// hir.Function, and records the (trait, method, self type) -> function
// binding monomorphization's impl map is built from.
func (c *Checker) checkImplDef(impl *ast.ImplDef, out *hir.Module) {
	selfTy := c.resolveTypeExpr(impl.SelfType, nil, nil)
	for _, m := range impl.Methods {
		trait, known := c.traitMethods[m.Name]
		if !known || trait != impl.Trait {
			c.Bag.Add(diag.Errorf(diag.UnknownTraitMethod, m.Span(),
				fmt.Sprintf("%q is not a method of trait %q", m.Name, impl.Trait)))
			continue
		}
		expected := c.Types.Apply(c.traitSigs[m.Name], types.Subst{c.Strings.Intern(selfParamName): selfTy})

		renamed := *m
		renamed.Name = fmt.Sprintf("%s::%s::%s", impl.Trait, m.Name, c.Types.String(selfTy))
		fn := c.checkFnDef(&renamed)
		if fn == nil {
			continue
		}
		if !c.Types.Unify(expected, fn.Type) {
			c.Bag.Add(diag.Errorf(diag.TraitSignatureMismatch, m.Span(),
				fmt.Sprintf("impl %s for %s: %q does not match the trait's declared signature", impl.Trait, c.Types.String(selfTy), m.Name)))
			continue
		}
		out.Functions = append(out.Functions, fn)
		out.Impls = append(out.Impls, hir.Impl{Trait: impl.Trait, Method: m.Name, SelfType: selfTy, FuncName: renamed.Name})
	}
}
