package types

import (
	"testing"

	"neplcore/internal/source"
)

func TestInternDeduplicatesStructurallyEqualTypes(t *testing.T) {
	in := NewInterner(source.NewInterner())
	a := in.Intern(Type{Kind: KindI32})
	b := in.Intern(Type{Kind: KindI32})
	if a != b {
		t.Fatalf("expected i32 to intern to the same id, got %d and %d", a, b)
	}
	if a != in.Builtins().I32 {
		t.Fatalf("expected i32 to match builtin, got %d vs %d", a, in.Builtins().I32)
	}
}

func TestUnifyBindsVar(t *testing.T) {
	in := NewInterner(source.NewInterner())
	v := in.NewVar()
	if !in.Unify(v, in.Builtins().I32) {
		t.Fatalf("expected unification to succeed")
	}
	resolved, ok := in.Resolve(v)
	if !ok || resolved.Kind != KindI32 {
		t.Fatalf("expected var to resolve to i32, got %+v", resolved)
	}
}

func TestUnifyRejectsMismatchedKinds(t *testing.T) {
	in := NewInterner(source.NewInterner())
	if in.Unify(in.Builtins().I32, in.Builtins().Bool) {
		t.Fatalf("expected unification between i32 and bool to fail")
	}
}

func TestIsCopy(t *testing.T) {
	in := NewInterner(source.NewInterner())
	if !in.IsCopy(in.Builtins().I32) {
		t.Fatalf("expected i32 to be Copy")
	}
	tup := in.Intern(Type{Kind: KindTuple, Items: []TypeID{in.Builtins().I32, in.Builtins().Bool}})
	if in.IsCopy(tup) {
		t.Fatalf("expected tuple to not be Copy")
	}
	mutRef := in.Intern(Type{Kind: KindReference, Mutable: true, Elem: in.Builtins().I32})
	if in.IsCopy(mutRef) {
		t.Fatalf("expected &mut T to not be Copy")
	}
	ref := in.Intern(Type{Kind: KindReference, Mutable: false, Elem: in.Builtins().I32})
	if !in.IsCopy(ref) {
		t.Fatalf("expected &T to be Copy")
	}
}

func TestSnapshotRestoreRollsBackBindings(t *testing.T) {
	in := NewInterner(source.NewInterner())
	v := in.NewVar()
	snap := in.Snapshot()
	in.Bind(v, in.Builtins().I32)
	resolved, _ := in.Resolve(v)
	if resolved.Kind != KindI32 {
		t.Fatalf("expected bound var to resolve to i32")
	}
	in.Restore(snap)
	if in.ResolveID(v) != v {
		t.Fatalf("expected var to be unbound after restore")
	}
}
