package compiler

import (
	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/loader"
	"neplcore/internal/sema"
	"neplcore/internal/source"
	"neplcore/internal/symbols"
	"neplcore/internal/types"
)

// moduleResult is one graph node's finished sema pass: the checker (kept
// around so later modules can query PublicType against it) and the HIR it
// lowered to.
type moduleResult struct {
	checker *sema.Checker
	hir     *hir.Module
}

// checkGraph runs the name resolver over the whole module graph, then
// type-checks every module in dependency order, translating symbols'
// cross-module DefInfo into this module's sema.Visible map as each
// dependency's PublicType becomes available. A name's concrete Type is
// only known once its declaring module has been checked, which is exactly
// what the topological order guarantees.
func checkGraph(g *loader.Graph, strs *source.Interner, typesIn *types.Interner, builtins *sema.Registry, target ast.Target, profile ast.Profile) (map[loader.ModuleID]*moduleResult, []*diag.Diagnostic) {
	defs := symbols.CollectDefs(g)
	exports := symbols.ComposeExports(g, defs)
	imports := symbols.ResolveImports(g, exports)
	visible, diags := symbols.BuildVisibleMap(g, defs, exports, imports)

	byID := make(map[loader.ModuleID]loader.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	results := make(map[loader.ModuleID]*moduleResult, len(g.Nodes))
	for _, id := range topoOrder(g) {
		node := byID[id]
		vis := make(map[string]sema.VisibleDef)
		for name, info := range visible[id] {
			if info.Module == id {
				continue // local decl; the checker resolves these against its own module directly
			}
			dep, ok := results[info.Module]
			if !ok {
				continue
			}
			t, ok := dep.checker.PublicType(info.Name, info.Kind)
			if !ok {
				continue
			}
			vis[name] = sema.VisibleDef{Kind: defKindName(info.Kind), Type: t}
		}
		checker := sema.New(typesIn, strs, builtins, vis, target, profile)
		out, modDiags := checker.CheckModule(node.Module)
		diags = append(diags, modDiags...)
		results[id] = &moduleResult{checker: checker, hir: out}
	}
	return results, diags
}

func defKindName(k symbols.DefKind) string {
	switch k {
	case symbols.DefFunction:
		return "fn"
	case symbols.DefStruct:
		return "struct"
	case symbols.DefEnum:
		return "enum"
	default:
		return ""
	}
}

// mergeProgram flattens every module's HIR into one program-wide module:
// functions and externs concatenate, literal tables concatenate with each
// module's LiteralStr references shifted by the running offset, impls
// concatenate, and the entry name is taken from the entry module alone
// (only the root file's #entry directive names the program's entry point;
// a library module's own #entry, if any, only matters when it is loaded
// as its own compilation's root).
func mergeProgram(g *loader.Graph, results map[loader.ModuleID]*moduleResult) *hir.Module {
	out := &hir.Module{}
	if len(g.Nodes) > 0 {
		out.EntryName = results[g.Nodes[0].ID].hir.EntryName
	}
	for _, n := range g.Nodes {
		mod := results[n.ID].hir
		offset := len(out.Literals)
		out.Literals = append(out.Literals, mod.Literals...)
		for _, fn := range mod.Functions {
			if fn.Body.Block != nil {
				shiftLiterals(fn.Body.Block, offset)
			}
			out.Functions = append(out.Functions, fn)
		}
		out.Externs = append(out.Externs, mod.Externs...)
		out.Impls = append(out.Impls, mod.Impls...)
	}
	return out
}

// shiftLiterals rewrites every LiteralStr node's table index in place by
// offset, so a module's string literals keep referring to the same text
// after its local table is appended into the program-wide one.
func shiftLiterals(e hir.Expr, offset int) {
	if e == nil || offset == 0 {
		return
	}
	switch v := e.(type) {
	case *hir.LiteralStr:
		v.ID += offset
	case *hir.Call:
		for _, a := range v.Args {
			shiftLiterals(a, offset)
		}
	case *hir.CallIndirect:
		shiftLiterals(v.Callee, offset)
		for _, a := range v.Args {
			shiftLiterals(a, offset)
		}
	case *hir.If:
		shiftLiterals(v.Cond, offset)
		shiftLiterals(v.Then, offset)
		shiftLiterals(v.Else, offset)
	case *hir.While:
		shiftLiterals(v.Cond, offset)
		shiftLiterals(v.Body, offset)
	case *hir.Match:
		shiftLiterals(v.Scrutinee, offset)
		for _, a := range v.Arms {
			shiftLiterals(a.Body, offset)
		}
	case *hir.EnumConstruct:
		shiftLiterals(v.Payload, offset)
	case *hir.StructConstruct:
		for _, f := range v.Fields {
			shiftLiterals(f, offset)
		}
	case *hir.TupleConstruct:
		for _, it := range v.Items {
			shiftLiterals(it, offset)
		}
	case *hir.Block:
		for _, l := range v.Lines {
			shiftLiterals(l.Value, offset)
		}
	case *hir.Let:
		shiftLiterals(v.Value, offset)
	case *hir.Set:
		shiftLiterals(v.Value, offset)
	case *hir.AddrOf:
		shiftLiterals(v.Value, offset)
	case *hir.Deref:
		shiftLiterals(v.Value, offset)
	case *hir.Intrinsic:
		for _, a := range v.Args {
			shiftLiterals(a, offset)
		}
	case *hir.FieldAccess:
		shiftLiterals(v.Value, offset)
	}
}

// mergedAST concatenates every graph node's items into one synthetic
// module so the backend's raw-IR splicing (which reads directly from ast
// nodes, not HIR) sees the whole program's raw blocks regardless of which
// file declared them.
func mergedAST(g *loader.Graph) *ast.Module {
	out := ast.NewModule("<program>")
	for _, n := range g.Nodes {
		for _, item := range n.Module.Items {
			out.AddItem(item)
		}
	}
	return out
}
