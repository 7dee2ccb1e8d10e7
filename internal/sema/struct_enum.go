package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/types"
)

// checkStructLit resolves the named struct type, checks every declared
// field is initialized exactly once, and reorders initializers into
// declaration order (the order the layout package assigns offsets in)
// regardless of the order they appeared in source.
func (c *Checker) checkStructLit(x ast.StructLit) hir.Expr {
	structTy := c.lookupNominal(x.Name)
	st, ok := c.Types.Resolve(structTy)
	if !ok || st.Kind != types.KindStruct {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Span(), fmt.Sprintf("undefined struct: %s", x.Name)))
		return hir.NewStructConstruct(types.NoTypeID, x.Span())
	}

	byName := make(map[string]ast.Expr, len(x.Fields))
	for _, f := range x.Fields {
		if _, dup := byName[f.Name]; dup {
			c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, f.Value.Span(), fmt.Sprintf("field %s initialized more than once in %s literal", f.Name, x.Name)))
		}
		byName[f.Name] = f.Value
	}

	fields := make([]hir.Expr, len(st.Fields))
	for i, decl := range st.Fields {
		name := c.Strings.MustLookup(decl.Name)
		valExpr, given := byName[name]
		if !given {
			c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Span(), fmt.Sprintf("missing field %s in %s literal", name, x.Name)))
			fields[i] = hir.NewUnitExpr(decl.Type, x.Span())
			continue
		}
		val := c.checkExpr(valExpr)
		if !c.Types.Unify(decl.Type, val.Type()) {
			c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, valExpr.Span(), fmt.Sprintf("field %s: type mismatch", name)))
		}
		fields[i] = val
	}
	return hir.NewStructConstruct(structTy, x.Span(), fields...)
}

// checkEnumLit resolves an `Enum::Variant payload?` (or bare `Variant`)
// literal. When Enum is omitted, every enum type this module has defined
// is searched for a matching variant name; an ambiguous bare variant is
// reported the same way an unresolved identifier would be.
func (c *Checker) checkEnumLit(x ast.EnumLit) hir.Expr {
	var enumTy types.TypeID
	if x.Enum != "" {
		enumTy = c.lookupNominal(x.Enum)
	} else {
		enumTy = c.findEnumForVariant(x.Variant)
	}
	et, ok := c.Types.Resolve(enumTy)
	if !ok || et.Kind != types.KindEnum {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Span(), fmt.Sprintf("undefined enum variant: %s", x.Variant)))
		return hir.NewEnumConstruct(types.NoTypeID, x.Span(), -1, x.Variant, nil)
	}

	idx := -1
	var payloadTy types.TypeID
	for i, v := range et.Variants {
		if c.Strings.MustLookup(v.Name) == x.Variant {
			idx = i
			payloadTy = v.Payload
			break
		}
	}
	if idx < 0 {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, x.Span(), fmt.Sprintf("%s has no variant %s", x.Enum, x.Variant)))
		return hir.NewEnumConstruct(types.NoTypeID, x.Span(), -1, x.Variant, nil)
	}

	var payload hir.Expr
	if x.Payload != nil {
		payload = c.checkExpr(x.Payload)
		if payloadTy != types.NoTypeID && !c.Types.Unify(payloadTy, payload.Type()) {
			c.Bag.Add(diag.Errorf(diag.AnnotationMismatch, x.Payload.Span(), "enum payload type mismatch"))
		}
	}
	return hir.NewEnumConstruct(enumTy, x.Span(), idx, x.Variant, payload)
}

func (c *Checker) lookupNominal(name string) types.TypeID {
	if id, ok := c.typeDefs[name]; ok {
		return id
	}
	if vis, ok := c.Visible[name]; ok {
		return vis.Type
	}
	return types.NoTypeID
}

func (c *Checker) findEnumForVariant(variant string) types.TypeID {
	found := types.NoTypeID
	for _, id := range c.typeDefs {
		t, ok := c.Types.Resolve(id)
		if !ok || t.Kind != types.KindEnum {
			continue
		}
		for _, v := range t.Variants {
			if c.Strings.MustLookup(v.Name) == variant {
				if found != types.NoTypeID && found != id {
					return types.NoTypeID
				}
				found = id
				break
			}
		}
	}
	return found
}
