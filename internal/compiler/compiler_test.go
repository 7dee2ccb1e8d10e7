package compiler

import (
	"strings"
	"testing"

	"neplcore/internal/ast"
	"neplcore/internal/loader"
	"neplcore/internal/sema"
	"neplcore/internal/source"
)

// graphOf builds a loader.Graph directly from already-parsed modules, the
// same shape symbols' own tests use, since the real lexer/parser is out of
// this repository's scope.
func graphOf(modules map[string]*ast.Module, deps map[string][]loader.Dep) *loader.Graph {
	g := &loader.Graph{}
	ids := make(map[string]loader.ModuleID)
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sortStrings(names)
	for i, name := range names {
		ids[name] = loader.ModuleID(i)
	}
	for _, name := range names {
		g.Nodes = append(g.Nodes, loader.Node{ID: ids[name], FileID: source.FileID(ids[name]), Path: name, Module: modules[name], Deps: deps[name]})
	}
	return g
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func i32Type(span source.Span) ast.TypeExpr { return ast.NewNameType(span, "i32") }

func TestCompileSingleModuleEmitsEntry(t *testing.T) {
	sp := source.Span{}
	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))
	body := ast.NewBlockExpr(sp, ast.NewIntLit(sp, 42))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, i32Type(sp), body))

	g := graphOf(map[string]*ast.Module{"main.nepl": main}, nil)

	artifact, diags, err := Compile(g, CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v (diags: %+v)", err, diags)
	}
	if artifact == nil || artifact.Text == "" {
		t.Fatalf("expected non-empty emitted text")
	}
	if !strings.Contains(artifact.Text, "main") {
		t.Fatalf("expected emitted text to mention the entry function, got:\n%s", artifact.Text)
	}
}

func TestCompileCrossModuleCallResolvesPublicType(t *testing.T) {
	sp := source.Span{}

	lib := ast.NewModule("lib.nepl")
	libBody := ast.NewBlockExpr(sp, ast.NewIntLit(sp, 1))
	lib.AddItem(ast.NewFnDef(sp, nil, "one", ast.VisPublic, nil, i32Type(sp), libBody))

	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))
	callBody := ast.NewBlockExpr(sp, ast.NewCallExpr(sp, ast.NewVarExpr(sp, "one"), nil))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, i32Type(sp), callBody))

	// graphOf assigns IDs in sorted-path order, so "lib.nepl" (0) precedes
	// "main.nepl" (1).
	g := graphOf(
		map[string]*ast.Module{"main.nepl": main, "lib.nepl": lib},
		map[string][]loader.Dep{"main.nepl": {{ID: 0, Path: "lib.nepl", Clause: ast.ImportOpen}}},
	)

	artifact, diags, err := Compile(g, CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v (diags: %+v)", err, diags)
	}
	if artifact == nil || artifact.Text == "" {
		t.Fatalf("expected non-empty emitted text")
	}
}

func TestCompileTraitImplDispatchResolvesCall(t *testing.T) {
	sp := source.Span{}
	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))

	main.AddItem(ast.NewTraitDef(sp, nil, "Show", ast.VisPublic,
		ast.TraitMethodSig{
			Name:   "show",
			Params: []ast.Param{{Name: "self", Type: ast.NewNameType(sp, "Self")}},
			Result: i32Type(sp),
		},
	))

	showBody := ast.NewBlockExpr(sp, ast.NewVarExpr(sp, "self"))
	showImpl := ast.NewFnDef(sp, nil, "show", ast.VisPublic, []ast.Param{{Name: "self", Type: i32Type(sp)}}, i32Type(sp), showBody)
	main.AddItem(ast.NewImplDef(sp, nil, "Show", i32Type(sp), showImpl))

	callBody := ast.NewBlockExpr(sp, ast.NewCallExpr(sp, ast.NewVarExpr(sp, "show"), nil, ast.NewIntLit(sp, 9)))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, i32Type(sp), callBody))

	g := graphOf(map[string]*ast.Module{"main.nepl": main}, nil)

	artifact, diags, err := Compile(g, CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v (diags: %+v)", err, diags)
	}
	if !strings.Contains(artifact.Text, "Show") {
		t.Fatalf("expected emitted text to reference the resolved impl, got:\n%s", artifact.Text)
	}
}

func TestCompileAbortsAfterTypeCheckError(t *testing.T) {
	sp := source.Span{}
	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))
	// Calling an undefined function should fail name/type resolution before
	// move check, monomorphization, or emission ever run.
	body := ast.NewBlockExpr(sp, ast.NewCallExpr(sp, ast.NewVarExpr(sp, "does_not_exist"), nil))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, i32Type(sp), body))

	g := graphOf(map[string]*ast.Module{"main.nepl": main}, nil)

	artifact, diags, err := Compile(g, CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry())
	if err == nil {
		t.Fatalf("expected an error from an unresolvable call")
	}
	if artifact != nil {
		t.Fatalf("expected no artifact on failure")
	}
	if !hasError(diags) {
		t.Fatalf("expected at least one error-severity diagnostic, got %+v", diags)
	}
}
