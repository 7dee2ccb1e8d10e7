package testkit

import (
	"testing"

	"neplcore/internal/ast"
	"neplcore/internal/source"
)

func TestCheckSpanInvariantsAcceptsWellFormedModule(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.nepl", []byte("fn main()->i32: 0"))
	sf := fs.Get(id)

	mod := ast.NewModule("main.nepl")
	mod.AddItem(ast.NewFnDef(source.Span{File: id, Start: 0, End: 17}, nil, "main", ast.VisPrivate, nil, nil,
		ast.NewIntLit(source.Span{File: id, Start: 16, End: 17}, 0)))

	if err := CheckSpanInvariants(mod, sf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckSpanInvariantsRejectsOutOfBoundsSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.nepl", []byte("fn a()->i32: 0"))
	sf := fs.Get(id)

	mod := ast.NewModule("main.nepl")
	mod.AddItem(ast.NewFnDef(source.Span{File: id, Start: 0, End: 999}, nil, "a", ast.VisPrivate, nil, nil,
		ast.NewIntLit(source.Span{File: id, Start: 13, End: 14}, 0)))

	if err := CheckSpanInvariants(mod, sf); err == nil {
		t.Fatalf("expected an error for an out-of-bounds span")
	}
}
