package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// checkMatch type-checks a match expression: the scrutinee must resolve to
// an Enum (directly, or via an Apply over one); arms are checked for
// duplicates and exhaustiveness against the enum's variant list.
func (c *Checker) checkMatch(x ast.MatchExpr) hir.Expr {
	scrutinee := c.checkExpr(x.Scrutinee)
	enumTy := c.Types.ResolveApply(scrutinee.Type())
	et, ok := c.Types.Resolve(enumTy)
	if !ok || et.Kind != types.KindEnum {
		c.Bag.Add(diag.Errorf(diag.MatchScrutineeMustBeEnum, x.Scrutinee.Span(), "match scrutinee must be an enum"))
		return hir.NewMatch(types.NoTypeID, x.Span(), scrutinee, types.NoTypeID)
	}

	variantIndex := make(map[string]int, len(et.Variants))
	for i, v := range et.Variants {
		variantIndex[c.Strings.MustLookup(v.Name)] = i
	}

	seen := make(map[string]bool, len(x.Arms))
	arms := make([]hir.MatchArm, len(x.Arms))
	var resultTy types.TypeID = c.Types.Builtins().Unit
	for i, arm := range x.Arms {
		if seen[arm.Variant] {
			c.Bag.Add(diag.Errorf(diag.DuplicateMatchArm, arm.Span, fmt.Sprintf("duplicate arm for variant %s", arm.Variant)))
		}
		seen[arm.Variant] = true

		idx, known := variantIndex[arm.Variant]
		if !known {
			c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, arm.Span, fmt.Sprintf("unknown variant %s", arm.Variant)))
		}

		c.pushScope()
		bindingTy := types.NoTypeID
		if arm.Binding != "" && known {
			bindingTy = et.Variants[idx].Payload
			c.declare(arm.Binding, bindingTy, false)
		}
		body := c.checkExpr(arm.Body)
		c.popScope()

		arms[i] = hir.MatchArm{Variant: arm.Variant, VariantIndex: idx, Binding: arm.Binding, BindingType: bindingTy, Body: body}
		if i == 0 {
			resultTy = body.Type()
		} else if !c.Types.Unify(resultTy, body.Type()) {
			resultTy = c.Types.Builtins().Unit
		}
	}

	for _, v := range et.Variants {
		if name := c.Strings.MustLookup(v.Name); !seen[name] {
			c.Bag.Add(diag.Errorf(diag.NonExhaustiveMatch, x.Span(), fmt.Sprintf("non-exhaustive match: missing variant %s", name)))
		}
	}

	return hir.NewMatch(resultTy, x.Span(), scrutinee, enumTy, arms...)
}
