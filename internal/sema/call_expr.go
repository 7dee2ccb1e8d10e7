package sema

import (
	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// checkCall lowers a direct named call (resolved through overload
// resolution) or, when the callee is not a bare identifier naming a known
// function, an indirect call through a function-valued expression.
func (c *Checker) checkCall(x ast.CallExpr) hir.Expr {
	args := make([]hir.Expr, len(x.Args))
	argTypes := make([]types.TypeID, len(x.Args))
	for i, a := range x.Args {
		args[i] = c.checkExpr(a)
		argTypes[i] = args[i].Type()
	}

	name, isName := calleeName(x.Callee)
	if isName && c.isCallable(name) {
		ref, result, ok := c.resolveCall(name, argTypes, x)
		if !ok {
			return hir.NewCall(types.NoTypeID, x.Span(), hir.FuncRef{}, args...)
		}
		return hir.NewCall(result, x.Span(), ref, args...)
	}

	callee := c.checkExpr(x.Callee)
	ct, ok := c.Types.Resolve(callee.Type())
	result := types.NoTypeID
	if ok && ct.Kind == types.KindFunction {
		result = ct.Result
	} else {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Callee.Span(), "callee is not callable"))
	}
	params := make([]types.TypeID, len(argTypes))
	copy(params, argTypes)
	return hir.NewCallIndirect(x.Span(), callee, params, result, args...)
}

func calleeName(e ast.Expr) (string, bool) {
	v, ok := e.(ast.VarExpr)
	if !ok {
		return "", false
	}
	return v.Name, true
}

func (c *Checker) isCallable(name string) bool {
	if len(c.fnsByName[name]) > 0 {
		return true
	}
	if len(c.Builtins.Candidates(name)) > 0 {
		return true
	}
	_, isTrait := c.traitMethods[name]
	return isTrait
}
