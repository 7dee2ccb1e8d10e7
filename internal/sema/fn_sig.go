package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/types"
)

// collectFnSignatures resolves every function definition's parameter and
// result types (making overload candidates available before any body is
// checked, so mutually-recursive calls resolve without a forward-decl
// pass). Overloading is by arity+parameter-type only: two FnDefs sharing a
// name accumulate as candidates in fnsByName, unless one of them is marked
// non-shadowable, in which case the redeclaration is a shadow violation
// rather than a new overload.
func (c *Checker) collectFnSignatures(mod *ast.Module) {
	for _, item := range mod.Items {
		if !c.gateAdmitted(item.ItemGates()) {
			continue
		}
		fn, ok := item.(*ast.FnDef)
		if !ok {
			continue
		}
		if existing := c.fnsByName[fn.Name]; len(existing) > 0 {
			if !fn.Shadowable || !existing[0].Shadowable {
				c.Bag.Add(diag.Errorf(diag.NoShadowConflict, fn.Span(), fmt.Sprintf("%s is marked non-shadowable", fn.Name)))
			}
		}
		c.fnsByName[fn.Name] = append(c.fnsByName[fn.Name], fn)
		c.fnTypes[fn] = c.signatureOf(fn)
		if !fn.Shadowable {
			c.shadowed[fn.Name] = true
		}
	}
}

func (c *Checker) signatureOf(fn *ast.FnDef) types.TypeID {
	params := c.typeParamScope(fn.TypeParams)
	ps := make([]types.TypeID, len(fn.Params))
	for i, p := range fn.Params {
		ps[i] = c.resolveTypeExpr(p.Type, params, nil)
	}
	result := c.Types.Builtins().Unit
	if fn.Result != nil {
		result = c.resolveTypeExpr(fn.Result, params, nil)
	}
	return c.Types.Intern(types.Type{Kind: types.KindFunction, Params: ps, Result: result, TypeParams: c.paramNames(fn.TypeParams)})
}
