package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
)

// binaryIntrinsic maps a surface infix operator to the backend intrinsic
// name it lowers to, and whether that intrinsic's result is bool (a
// comparison) rather than its operands' own type.
var binaryIntrinsic = map[string]struct {
	name string
	cmp  bool
}{
	"+": {"add", false},
	"-": {"sub", false},
	"*": {"mul", false},
	"/": {"div", false},
	"==": {"eq", true},
	"!=": {"ne", true},
	"<":  {"lt", true},
	"<=": {"le", true},
	">":  {"gt", true},
	">=": {"ge", true},
}

// checkBinary lowers an infix expression to an Intrinsic node. Unlike
// user-written IntrinsicExpr calls, a compiler-synthesized operator name
// never triggers UnknownIntrinsic: an unrecognized operator is a parser
// defect outside this package's scope, not a user-facing diagnostic.
func (c *Checker) checkBinary(x ast.BinaryExpr) hir.Expr {
	left := c.checkExpr(x.Left)
	right := c.checkExpr(x.Right)
	if !c.Types.Unify(left.Type(), right.Type()) {
		c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Span(), fmt.Sprintf("operator %s: operand type mismatch", x.Op)))
	}

	op, ok := binaryIntrinsic[x.Op]
	name := x.Op
	result := left.Type()
	if ok {
		name = op.name
		if op.cmp {
			result = c.Types.Builtins().Bool
		}
	}
	return hir.NewIntrinsic(result, x.Span(), name, nil, left, right)
}
