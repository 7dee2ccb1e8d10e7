package sema

import (
	"fmt"

	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// collectTypeDecls records every struct/enum definition's name (admitted
// by the active gate) without resolving field/variant types yet, so
// mutually- and forward-referencing declarations can resolve each other on
// demand in resolveTypeDecls.
func (c *Checker) collectTypeDecls(mod *ast.Module) {
	for _, item := range mod.Items {
		if !c.gateAdmitted(item.ItemGates()) {
			continue
		}
		switch it := item.(type) {
		case *ast.StructDef:
			c.typeDecls[it.Name] = it
		case *ast.EnumDef:
			c.typeDecls[it.Name] = it
		}
	}
}

// resolveTypeDecls resolves every collected declaration's concrete TypeID.
func (c *Checker) resolveTypeDecls() {
	resolving := make(map[string]bool, len(c.typeDecls))
	for name := range c.typeDecls {
		c.resolveNamedDecl(name, resolving)
	}
}

// resolveNamedDecl resolves (and memoizes in c.typeDefs) the TypeID for a
// struct/enum declaration by name, recursing into forward references. A
// name already "resolving" indicates a by-value cycle with no indirection
// to break it; the cycle is cut by treating the inner reference as an
// opaque named type so resolution terminates (an infinite-size type is a
// user error the layout package would otherwise need to detect
// separately; this core only guarantees it does not loop).
func (c *Checker) resolveNamedDecl(name string, resolving map[string]bool) types.TypeID {
	if id, ok := c.typeDefs[name]; ok {
		return id
	}
	decl, ok := c.typeDecls[name]
	if !ok || resolving[name] {
		return c.Types.Intern(types.Type{Kind: types.KindNamed, Name: c.Strings.Intern(name)})
	}
	resolving[name] = true
	defer delete(resolving, name)

	switch d := decl.(type) {
	case *ast.StructDef:
		params := c.typeParamScope(d.TypeParams)
		fields := make([]types.StructField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = types.StructField{Name: c.Strings.Intern(f.Name), Type: c.resolveTypeExpr(f.Type, params, resolving)}
		}
		id := c.Types.Intern(types.Type{Kind: types.KindStruct, Name: c.Strings.Intern(d.Name), Fields: fields, TypeParams: c.paramNames(d.TypeParams)})
		c.typeDefs[name] = id
		return id
	case *ast.EnumDef:
		params := c.typeParamScope(d.TypeParams)
		variants := make([]types.EnumVariant, len(d.Variants))
		for i, v := range d.Variants {
			payload := types.NoTypeID
			if v.Payload != nil {
				payload = c.resolveTypeExpr(v.Payload, params, resolving)
			}
			variants[i] = types.EnumVariant{Name: c.Strings.Intern(v.Name), Payload: payload}
		}
		id := c.Types.Intern(types.Type{Kind: types.KindEnum, Name: c.Strings.Intern(d.Name), Variants: variants, TypeParams: c.paramNames(d.TypeParams)})
		c.typeDefs[name] = id
		return id
	default:
		return types.NoTypeID
	}
}

func (c *Checker) paramNames(params []ast.TypeParam) []source.StringID {
	if len(params) == 0 {
		return nil
	}
	out := make([]source.StringID, len(params))
	for i, p := range params {
		out[i] = c.Strings.Intern(p.Name)
	}
	return out
}

func (c *Checker) typeParamScope(params []ast.TypeParam) map[string]bool {
	if len(params) == 0 {
		return nil
	}
	m := make(map[string]bool, len(params))
	for _, p := range params {
		m[p.Name] = true
	}
	return m
}

// resolveTypeExpr converts a surface TypeExpr into a TypeID. params names
// this function/type's own `<.T>` generic parameters (nil outside a
// generic signature); resolving is the in-progress set threaded through
// for forward-reference recursion (nil once all decls are resolved, in
// which case a nominal name is looked up in typeDefs/Visible instead).
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, params map[string]bool, resolving map[string]bool) types.TypeID {
	b := c.Types.Builtins()
	switch t := te.(type) {
	case ast.NameType:
		if params[t.Name] {
			return c.Types.Intern(types.Type{Kind: types.KindNamed, Name: c.Strings.Intern(t.Name)})
		}
		switch t.Name {
		case "i32":
			return b.I32
		case "u8":
			return b.U8
		case "f32":
			return b.F32
		case "i64":
			return b.I64
		case "f64":
			return b.F64
		case "bool":
			return b.Bool
		case "unit":
			return b.Unit
		case "never":
			return b.Never
		}
		return c.resolveNominal(t, params, resolving)
	case ast.ReferenceType:
		return c.Types.Intern(types.Type{Kind: types.KindReference, Mutable: t.Mutable, Elem: c.resolveTypeExpr(t.Inner, params, resolving)})
	case ast.BoxType:
		return c.Types.Intern(types.Type{Kind: types.KindBox, Elem: c.resolveTypeExpr(t.Inner, params, resolving)})
	case ast.TupleType:
		items := make([]types.TypeID, len(t.Items))
		for i, it := range t.Items {
			items[i] = c.resolveTypeExpr(it, params, resolving)
		}
		return c.Types.Intern(types.Type{Kind: types.KindTuple, Items: items})
	case ast.FunctionType:
		ps := make([]types.TypeID, len(t.Params))
		for i, p := range t.Params {
			ps[i] = c.resolveTypeExpr(p, params, resolving)
		}
		result := b.Unit
		if t.Result != nil {
			result = c.resolveTypeExpr(t.Result, params, resolving)
		}
		return c.Types.Intern(types.Type{Kind: types.KindFunction, Params: ps, Result: result})
	default:
		return types.NoTypeID
	}
}

func (c *Checker) resolveNominal(t ast.NameType, params map[string]bool, resolving map[string]bool) types.TypeID {
	var base types.TypeID
	if resolving != nil {
		if _, known := c.typeDecls[t.Name]; known {
			base = c.resolveNamedDecl(t.Name, resolving)
		}
	}
	if base == types.NoTypeID {
		if id, ok := c.typeDefs[t.Name]; ok {
			base = id
		} else if vis, ok := c.Visible[t.Name]; ok {
			base = vis.Type
		}
	}
	if base == types.NoTypeID {
		c.Bag.Add(diag.Errorf(diag.UndefinedIdentifier, t.Span(), fmt.Sprintf("undefined type %q", t.Name)))
		return types.NoTypeID
	}
	if len(t.TypeArgs) == 0 {
		return base
	}
	args := make([]types.TypeID, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = c.resolveTypeExpr(a, params, resolving)
	}
	return c.Types.Intern(types.Type{Kind: types.KindApply, Base: base, Args: args})
}
