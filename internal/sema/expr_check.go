package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// checkExpr infers e's type and returns the typed HIR node for it in one
// pass. On an unrecoverable error a diagnostic has already been added to
// c.Bag and the returned node carries types.NoTypeID; callers that unify
// against NoTypeID fail harmlessly rather than cascading.
func (c *Checker) checkExpr(e ast.Expr) hir.Expr {
	b := c.Types.Builtins()
	switch x := e.(type) {
	case ast.IntLit:
		return hir.NewIntLit(b.I32, x.Span(), x.Value)
	case ast.FloatLit:
		return hir.NewFloatLit(b.F32, x.Span(), x.Value)
	case ast.BoolLit:
		return hir.NewBoolLit(b.Bool, x.Span(), x.Value)
	case ast.StrLit:
		return hir.NewLiteralStr(b.I32, x.Span(), c.literalID(x.Value))
	case ast.UnitLit:
		return hir.NewUnitExpr(b.Unit, x.Span())
	case ast.VarExpr:
		return c.checkVar(x)
	case ast.CallExpr:
		return c.checkCall(x)
	case ast.IfExpr:
		return c.checkIf(x)
	case ast.WhileExpr:
		return c.checkWhile(x)
	case ast.MatchExpr:
		return c.checkMatch(x)
	case ast.BlockExpr:
		return c.checkBlock(x)
	case ast.LetExpr:
		return c.checkLet(x)
	case ast.SetExpr:
		return c.checkSet(x)
	case ast.AddrOfExpr:
		return c.checkAddrOf(x)
	case ast.DerefExpr:
		return c.checkDeref(x)
	case ast.IntrinsicExpr:
		return c.checkIntrinsic(x)
	case ast.TupleExpr:
		return c.checkTuple(x)
	case ast.StructLit:
		return c.checkStructLit(x)
	case ast.EnumLit:
		return c.checkEnumLit(x)
	case ast.FieldAccessExpr:
		return c.checkFieldAccess(x)
	case ast.BinaryExpr:
		return c.checkBinary(x)
	default:
		c.Bag.Add(diag.Errorf(diag.UnknownIntrinsic, e.Span(), fmt.Sprintf("unsupported expression node %T", e)))
		return hir.NewUnitExpr(types.NoTypeID, e.Span())
	}
}

func (c *Checker) checkVar(x ast.VarExpr) hir.Expr {
	if binding, ok := c.lookup(x.Name); ok {
		return hir.NewVar(binding.ty, x.Span(), x.Name)
	}
	if vis, ok := c.Visible[x.Name]; ok && vis.Kind == "fn" {
		return hir.NewFnValue(vis.Type, x.Span(), hir.User(x.Name))
	}
	if cands := c.fnsByName[x.Name]; len(cands) > 0 {
		return hir.NewFnValue(c.fnTypes[cands[0]], x.Span(), hir.User(x.Name))
	}
	c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Span(), fmt.Sprintf("undefined identifier: %s", x.Name)))
	return hir.NewVar(types.NoTypeID, x.Span(), x.Name)
}

func (c *Checker) checkIf(x ast.IfExpr) hir.Expr {
	b := c.Types.Builtins()
	cond := c.checkExpr(x.Cond)
	if !c.Types.Unify(cond.Type(), b.Bool) {
		c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Cond.Span(), "if condition must be bool"))
	}
	then := c.checkExpr(x.Then)
	if x.Else == nil {
		return hir.NewIf(b.Unit, x.Span(), cond, then, nil)
	}
	els := c.checkExpr(x.Else)
	ty := then.Type()
	if !c.Types.Unify(then.Type(), els.Type()) {
		ty = b.Unit
	}
	return hir.NewIf(ty, x.Span(), cond, then, els)
}

func (c *Checker) checkWhile(x ast.WhileExpr) hir.Expr {
	b := c.Types.Builtins()
	cond := c.checkExpr(x.Cond)
	if !c.Types.Unify(cond.Type(), b.Bool) {
		c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Cond.Span(), "while condition must be bool"))
	}
	body := c.checkExpr(x.Body)
	return hir.NewWhile(b.Unit, x.Span(), cond, body)
}

func (c *Checker) checkBlock(x ast.BlockExpr) *hir.Block {
	b := c.Types.Builtins()
	c.pushScope()
	lines := make([]hir.BlockLine, len(x.Lines))
	var resultTy types.TypeID = b.Unit
	for i, line := range x.Lines {
		val := c.checkExpr(line)
		drop := i != len(x.Lines)-1
		lines[i] = hir.BlockLine{Value: val, DropResult: drop}
		if !drop {
			resultTy = val.Type()
		}
	}
	declared := c.popScope()
	blk := hir.NewBlock(resultTy, x.Span(), lines...)
	blk.Drops = declared
	return blk
}

func (c *Checker) checkLet(x ast.LetExpr) hir.Expr {
	b := c.Types.Builtins()
	val := c.checkExpr(x.Value)
	ty := val.Type()
	if x.Type != nil {
		declared := c.resolveTypeExpr(x.Type, nil, nil)
		if !c.Types.Unify(declared, ty) {
			c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Span(), fmt.Sprintf("let %s: annotation does not match value type", x.Name)))
		}
		ty = declared
	}
	if c.shadowed[x.Name] {
		if _, exists := c.lookup(x.Name); exists {
			c.Bag.Add(diag.Errorf(diag.NoShadowViolation, x.Span(), fmt.Sprintf("%s is marked non-shadowable", x.Name)))
		}
	}
	c.declare(x.Name, ty, x.Mutable)
	return hir.NewLet(b.Unit, x.Span(), x.Name, x.Mutable, val)
}

func (c *Checker) checkSet(x ast.SetExpr) hir.Expr {
	b := c.Types.Builtins()
	binding, ok := c.lookup(x.Name)
	if !ok {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Span(), fmt.Sprintf("undefined identifier: %s", x.Name)))
	} else if !binding.mutable {
		c.Bag.Add(diag.Errorf(diag.ImmutableMutation, x.Span(), fmt.Sprintf("cannot assign to non-mut binding %s", x.Name)))
	}
	val := c.checkExpr(x.Value)
	if ok {
		c.Types.Unify(binding.ty, val.Type())
	}
	return hir.NewSet(b.Unit, x.Span(), x.Name, val)
}

func (c *Checker) checkAddrOf(x ast.AddrOfExpr) hir.Expr {
	val := c.checkExpr(x.Value)
	ty := c.Types.Intern(types.Type{Kind: types.KindReference, Mutable: x.Mutable, Elem: val.Type()})
	return hir.NewAddrOf(ty, x.Span(), x.Mutable, val)
}

func (c *Checker) checkDeref(x ast.DerefExpr) hir.Expr {
	val := c.checkExpr(x.Value)
	elemTy := types.NoTypeID
	if t, ok := c.Types.Resolve(val.Type()); ok && (t.Kind == types.KindReference || t.Kind == types.KindBox) {
		elemTy = t.Elem
	} else {
		c.Bag.Add(diag.Errorf(diag.InvalidFieldAccess, x.Span(), "cannot dereference a non-reference value"))
	}
	return hir.NewDeref(elemTy, x.Span(), val)
}

func (c *Checker) checkTuple(x ast.TupleExpr) hir.Expr {
	items := make([]hir.Expr, len(x.Items))
	itemTypes := make([]types.TypeID, len(x.Items))
	for i, it := range x.Items {
		items[i] = c.checkExpr(it)
		itemTypes[i] = items[i].Type()
	}
	ty := c.Types.Intern(types.Type{Kind: types.KindTuple, Items: itemTypes})
	return hir.NewTupleConstruct(ty, x.Span(), items...)
}

func (c *Checker) checkFieldAccess(x ast.FieldAccessExpr) hir.Expr {
	val := c.checkExpr(x.Value)
	t, ok := c.Types.Resolve(val.Type())
	if !ok {
		return hir.NewFieldAccess(types.NoTypeID, x.Span(), val, x.Field, -1)
	}
	switch t.Kind {
	case types.KindStruct:
		for i, f := range t.Fields {
			if c.Strings.MustLookup(f.Name) == x.Field {
				return hir.NewFieldAccess(f.Type, x.Span(), val, x.Field, i)
			}
		}
	case types.KindTuple:
		var idx int
		if _, err := fmt.Sscanf(x.Field, "%d", &idx); err == nil && idx >= 0 && idx < len(t.Items) {
			return hir.NewFieldAccess(t.Items[idx], x.Span(), val, x.Field, idx)
		}
	}
	c.Bag.Add(diag.Errorf(diag.InvalidFieldAccess, x.Span(), fmt.Sprintf("no field %q on this type", x.Field)))
	return hir.NewFieldAccess(types.NoTypeID, x.Span(), val, x.Field, -1)
}
