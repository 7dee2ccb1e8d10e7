package symbols

import (
	"sort"
	"testing"

	"neplcore/internal/ast"
	"neplcore/internal/loader"
	"neplcore/internal/source"
)

func graphOf(t *testing.T, modules map[string]*ast.Module, deps map[string][]loader.Dep) *loader.Graph {
	t.Helper()
	g := &loader.Graph{}
	ids := make(map[string]loader.ModuleID)
	i := 0
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	// main.nepl (the entry) gets ID 0, the rest follow by name, so the
	// Dep IDs and visible-map keys the tests hard-code match the nodes.
	sort.Slice(names, func(a, b int) bool {
		if (names[a] == "main.nepl") != (names[b] == "main.nepl") {
			return names[a] == "main.nepl"
		}
		return names[a] < names[b]
	})
	for _, name := range names {
		ids[name] = loader.ModuleID(i)
		i++
	}
	for _, name := range names {
		g.Nodes = append(g.Nodes, loader.Node{ID: ids[name], FileID: source.FileID(ids[name]), Path: name, Module: modules[name], Deps: deps[name]})
	}
	return g
}

func TestCollectDefsOnlyPublic(t *testing.T) {
	m := ast.NewModule("a.nepl")
	m.AddItem(ast.NewFnDef(source.Span{}, nil, "pub_fn", ast.VisPublic, nil, nil, nil))
	m.AddItem(ast.NewFnDef(source.Span{}, nil, "priv_fn", ast.VisPrivate, nil, nil, nil))
	g := graphOf(t, map[string]*ast.Module{"a.nepl": m}, nil)
	defs := CollectDefs(g)
	names := defs.ByModule[0]
	if _, ok := names["pub_fn"]; !ok {
		t.Fatalf("expected pub_fn to be collected")
	}
	if _, ok := names["priv_fn"]; ok {
		t.Fatalf("did not expect priv_fn to be collected")
	}
}

func TestBuildVisibleMapLocalBeatsOpen(t *testing.T) {
	lib := ast.NewModule("lib.nepl")
	lib.AddItem(ast.NewFnDef(source.Span{}, nil, "f", ast.VisPublic, nil, nil, nil))
	main := ast.NewModule("main.nepl")
	main.AddItem(ast.NewFnDef(source.Span{}, nil, "f", ast.VisPublic, nil, nil, nil))

	g := graphOf(t, map[string]*ast.Module{"main.nepl": main, "lib.nepl": lib}, map[string][]loader.Dep{
		"main.nepl": {{ID: 1, Path: "lib.nepl", Clause: ast.ImportOpen}},
	})
	defs := CollectDefs(g)
	exports := ComposeExports(g, defs)
	imports := ResolveImports(g, exports)
	visible, diags := BuildVisibleMap(g, defs, exports, imports)
	if len(diags) != 0 {
		t.Fatalf("expected no ambiguity diagnostics, got %+v", diags)
	}
	if visible[0]["f"].Module != 0 {
		t.Fatalf("expected local definition to win over open import")
	}
}

func TestBuildVisibleMapAmbiguousOpenImport(t *testing.T) {
	a := ast.NewModule("a.nepl")
	a.AddItem(ast.NewFnDef(source.Span{}, nil, "f", ast.VisPublic, nil, nil, nil))
	b := ast.NewModule("b.nepl")
	b.AddItem(ast.NewFnDef(source.Span{}, nil, "f", ast.VisPublic, nil, nil, nil))
	main := ast.NewModule("main.nepl")

	g := graphOf(t, map[string]*ast.Module{"main.nepl": main, "a.nepl": a, "b.nepl": b}, map[string][]loader.Dep{
		"main.nepl": {{ID: 1, Path: "a.nepl", Clause: ast.ImportOpen}, {ID: 2, Path: "b.nepl", Clause: ast.ImportOpen}},
	})
	defs := CollectDefs(g)
	exports := ComposeExports(g, defs)
	imports := ResolveImports(g, exports)
	_, diags := BuildVisibleMap(g, defs, exports, imports)
	if len(diags) != 1 {
		t.Fatalf("expected 1 ambiguity diagnostic, got %d: %+v", len(diags), diags)
	}
}
