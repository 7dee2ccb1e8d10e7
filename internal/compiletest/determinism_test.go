package compiletest

import (
	"context"
	"testing"

	"neplcore/internal/ast"
	"neplcore/internal/compiler"
	"neplcore/internal/loader"
	"neplcore/internal/sema"
	"neplcore/internal/source"
)

func TestRunDetectsNoMismatchOnCleanModule(t *testing.T) {
	sp := source.Span{}
	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))
	body := ast.NewBlockExpr(sp, ast.NewIntLit(sp, 7))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, ast.NewNameType(sp, "i32"), body))

	g := &loader.Graph{Nodes: []loader.Node{{ID: 0, FileID: source.FileID(0), Path: "main.nepl", Module: main}}}

	mismatch, err := Run(context.Background(), g, compiler.CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mismatch != nil {
		t.Fatalf("expected no mismatch across repeat compiles, got: %v", mismatch)
	}
}

func TestRunAgreesOnFailure(t *testing.T) {
	sp := source.Span{}
	main := ast.NewModule("main.nepl")
	main.AddDirective(ast.NewEntryDirective(sp, "main"))
	body := ast.NewBlockExpr(sp, ast.NewCallExpr(sp, ast.NewVarExpr(sp, "missing"), nil))
	main.AddItem(ast.NewFnDef(sp, nil, "main", ast.VisPublic, nil, ast.NewNameType(sp, "i32"), body))

	g := &loader.Graph{Nodes: []loader.Node{{ID: 0, FileID: source.FileID(0), Path: "main.nepl", Module: main}}}

	mismatch, err := Run(context.Background(), g, compiler.CompileOptions{Target: ast.TargetLlvm, Profile: ast.ProfileDebug}, sema.NewRegistry(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mismatch != nil {
		t.Fatalf("expected every run to fail identically, got: %v", mismatch)
	}
}
