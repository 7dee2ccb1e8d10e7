package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// checkFnDef type-checks and lowers one function definition. It never
// returns nil: signature errors are reported to c.Bag and the body is
// still lowered against whatever parameter and result types resolved.
func (c *Checker) checkFnDef(fn *ast.FnDef) *hir.Function {
	fnType, ok := c.fnTypes[fn]
	if !ok {
		fnType = c.signatureOf(fn)
		c.fnTypes[fn] = fnType
	}
	ft := c.Types.MustLookup(fnType)

	c.pushScope()
	for i, p := range fn.Params {
		c.declare(p.Name, ft.Params[i], false)
	}

	var body hir.Body
	if fn.Body != nil {
		block := c.checkBlockBody(fn.Body, ft.Result, fn.Name)
		body = hir.Body{Block: block}
	}
	c.popScope()

	params := make([]hir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = hir.Param{Name: p.Name, Type: ft.Params[i]}
	}
	return &hir.Function{
		Name:       fn.Name,
		TypeParams: c.stringNames(ft.TypeParams),
		Type:       fnType,
		Result:     ft.Result,
		Params:     params,
		Body:       body,
		Span:       fn.Span(),
	}
}

// checkBlockBody checks fn's body expression as a block, coercing a bare
// (non-Block) expression body into a single-line block, and verifies the
// resulting type unifies with the declared result type.
func (c *Checker) checkBlockBody(body ast.Expr, result types.TypeID, fnName string) *hir.Block {
	blk, ok := body.(ast.BlockExpr)
	if !ok {
		blk = ast.NewBlockExpr(body.Span(), body)
	}
	lowered := c.checkBlock(blk)
	if !c.Types.Unify(result, lowered.Type()) {
		c.Bag.Add(diag.Errorf(diag.ReturnTypeMismatch, body.Span(),
			fmt.Sprintf("function %q: body type does not match declared result", fnName)))
	}
	return lowered
}

func (c *Checker) stringNames(ids []source.StringID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = c.Strings.MustLookup(id)
	}
	return out
}

// checkExternDef resolves an extern declaration's signature; externs have
// no body to lower.
func (c *Checker) checkExternDef(ext *ast.ExternDef) *hir.Extern {
	ps := make([]hir.Param, len(ext.Params))
	params := make([]types.TypeID, len(ext.Params))
	for i, p := range ext.Params {
		ty := c.resolveTypeExpr(p.Type, nil, nil)
		ps[i] = hir.Param{Name: p.Name, Type: ty}
		params[i] = ty
	}
	result := c.Types.Builtins().Unit
	if ext.Result != nil {
		result = c.resolveTypeExpr(ext.Result, nil, nil)
	}
	fnType := c.Types.Intern(types.Type{Kind: types.KindFunction, Params: params, Result: result})
	return &hir.Extern{Name: ext.Name, Type: fnType, Params: ps, Result: result, Span: ext.Span()}
}
