package ast

import (
	"testing"

	"neplcore/internal/source"
)

func TestModuleTargetDirectivesCollectsAll(t *testing.T) {
	m := NewModule("a.nepl")
	m.AddDirective(NewTargetDirective(source.Span{}, "llvm"))
	m.AddDirective(NewTargetDirective(source.Span{}, "wasm"))
	got := m.TargetDirectives()
	if len(got) != 2 {
		t.Fatalf("expected 2 target directives, got %d", len(got))
	}
	if got[1].Name != "wasm" {
		t.Fatalf("unexpected second directive: %+v", got[1])
	}
}

func TestEntryDirectivesLastWins(t *testing.T) {
	m := NewModule("a.nepl")
	m.AddDirective(NewEntryDirective(source.Span{}, "first"))
	m.AddDirective(NewEntryDirective(source.Span{}, "second"))
	ds := m.EntryDirectives()
	if ds[len(ds)-1].Name != "second" {
		t.Fatalf("expected last entry directive to be 'second', got %+v", ds)
	}
}

func TestFnDefBuilderRoundTrip(t *testing.T) {
	body := NewBlockExpr(source.Span{}, NewIntLit(source.Span{}, 123))
	fn := NewFnDef(source.Span{}, nil, "c", VisPublic, nil, NewNameType(source.Span{}, "i32"), body)
	m := NewModule("a.nepl")
	m.AddItem(fn)
	if len(m.Items) != 1 {
		t.Fatalf("expected 1 item")
	}
	got, ok := m.Items[0].(*FnDef)
	if !ok || got.Name != "c" {
		t.Fatalf("expected FnDef named c, got %+v", m.Items[0])
	}
}
