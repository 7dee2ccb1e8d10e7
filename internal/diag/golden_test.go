package diag

import (
	"testing"

	"neplcore/internal/source"
)

func TestFormatGoldenDiagnosticsSortsDeterministically(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.nepl", []byte("fn f()->i32: x\n"))
	diags := []*Diagnostic{
		Errorf(UndefinedIdentifier, source.Span{File: a, Start: 13, End: 14}, "undefined identifier: x"),
		Warnf(NonExhaustiveMatch, source.Span{File: a, Start: 0, End: 2}, "non-exhaustive match"),
	}
	got := FormatGoldenDiagnostics(diags, fs, false)
	want := "warning D3008 a.nepl:1:1 non-exhaustive match\nerror D3001 a.nepl:1:14 undefined identifier: x"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBagSortOrdersBySpanThenSeverity(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.nepl", []byte("abc\n"))
	b := NewBag()
	b.Add(Warnf(PipeError, source.Span{File: a, Start: 2, End: 3}, "w"))
	b.Add(Errorf(PipeError, source.Span{File: a, Start: 0, End: 1}, "e"))
	b.Sort()
	items := b.Items()
	if items[0].Primary.Start != 0 {
		t.Fatalf("expected earliest span first, got %+v", items[0].Primary)
	}
}
