package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// knownIntrinsics names every intrinsic a written `name<T...>(args...)` call
// may use. The backend also lowers the operator intrinsics checkBinary
// synthesizes and i32_to_f32, none of which is accepted here.
var knownIntrinsics = map[string]bool{
	"size_of": true, "align_of": true,
	"load": true, "store": true,
	"add":         true,
	"unreachable": true,
	"f32_to_i32":  true, "i32_to_u8": true, "u8_to_i32": true,
}

// checkIntrinsic resolves a `name<T...>(args...)` intrinsic call. Type
// arguments are carried through unresolved (sizeOf/load/store reference
// them); the backend computes their layout-derived constants.
func (c *Checker) checkIntrinsic(x ast.IntrinsicExpr) hir.Expr {
	b := c.Types.Builtins()
	if !knownIntrinsics[x.Name] {
		c.Bag.Add(diag.Errorf(diag.UnknownIntrinsic, x.Span(), fmt.Sprintf("unknown intrinsic: %s", x.Name)))
	}

	typeArgs := make([]types.TypeID, len(x.TypeArgs))
	for i, t := range x.TypeArgs {
		typeArgs[i] = c.resolveTypeExpr(t, nil, nil)
	}
	args := make([]hir.Expr, len(x.Args))
	for i, a := range x.Args {
		args[i] = c.checkExpr(a)
	}

	result := b.Unit
	switch x.Name {
	case "size_of", "align_of":
		result = b.I32
	case "load":
		if len(typeArgs) == 1 {
			result = typeArgs[0]
		}
	case "store":
		result = b.Unit
	case "add":
		result = b.I32
	case "unreachable":
		result = b.Never
	case "f32_to_i32":
		result = b.I32
	case "i32_to_u8":
		result = b.U8
	case "u8_to_i32":
		result = b.I32
	}
	return hir.NewIntrinsic(result, x.Span(), x.Name, typeArgs, args...)
}
