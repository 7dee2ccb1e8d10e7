package mono

import (
	"testing"

	"neplcore/internal/hir"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

func namedParam(in *types.Interner, name string) types.TypeID {
	return in.Intern(types.Type{Kind: types.KindNamed, Name: in.Strings.Intern(name)})
}

// identity<T>(x: T) -> T called once at i32 specializes to identity_i32 and
// drops the ungeneric shell; the entry and the helper it calls are the only
// two reachable specializations.
func TestSpecializesGenericCallSite(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)
	tParam := namedParam(in, "T")
	genericFnTy := in.Intern(types.Type{Kind: types.KindFunction, Params: []types.TypeID{tParam}, Result: tParam, TypeParams: []source.StringID{strs.Intern("T")}})

	identity := &hir.Function{
		Name:       "identity",
		TypeParams: []string{"T"},
		Type:       genericFnTy,
		Result:     tParam,
		Params:     []hir.Param{{Name: "x", Type: tParam}},
		Body: hir.Body{Block: hir.NewBlock(tParam, source.Dummy(),
			hir.BlockLine{Value: hir.NewVar(tParam, source.Dummy(), "x")},
		)},
	}

	mainBody := hir.NewBlock(in.Builtins().Unit, source.Dummy(),
		hir.BlockLine{
			Value:      hir.NewCall(in.Builtins().I32, source.Dummy(), hir.User("identity", in.Builtins().I32), hir.NewIntLit(in.Builtins().I32, source.Dummy(), 7)),
			DropResult: true,
		},
	)
	main := &hir.Function{
		Name:   "main",
		Type:   in.Intern(types.Type{Kind: types.KindFunction, Params: nil, Result: in.Builtins().Unit}),
		Result: in.Builtins().Unit,
		Body:   hir.Body{Block: mainBody},
	}

	mod := &hir.Module{Functions: []*hir.Function{main, identity}, EntryName: "main"}
	out := New(in).Run(mod)

	if len(out.Functions) != 2 {
		t.Fatalf("expected main + one specialization, got %d: %v", len(out.Functions), names(out.Functions))
	}
	if out.FuncByName("main") == nil {
		t.Fatalf("entry function dropped: %v", names(out.Functions))
	}
	if out.FuncByName("identity_i32") == nil {
		t.Fatalf("expected identity_i32 specialization, got %v", names(out.Functions))
	}
	if out.FuncByName("identity") != nil {
		t.Fatalf("unspecialized generic shell should not survive: %v", names(out.Functions))
	}
}

// A runtime allocation helper unreferenced by any reachable call still
// survives monomorphization as a forced root.
func TestRuntimeHelperRetainedUnreferenced(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)

	main := &hir.Function{
		Name:   "main",
		Type:   in.Intern(types.Type{Kind: types.KindFunction, Result: in.Builtins().Unit}),
		Result: in.Builtins().Unit,
		Body:   hir.Body{Block: hir.NewBlock(in.Builtins().Unit, source.Dummy())},
	}
	alloc := &hir.Function{
		Name:   "mem::alloc",
		Type:   in.Intern(types.Type{Kind: types.KindFunction, Params: []types.TypeID{in.Builtins().I32}, Result: in.Builtins().I32}),
		Result: in.Builtins().I32,
		Params: []hir.Param{{Name: "n", Type: in.Builtins().I32}},
		Body:   hir.Body{Block: hir.NewBlock(in.Builtins().I32, source.Dummy(), hir.BlockLine{Value: hir.NewIntLit(in.Builtins().I32, source.Dummy(), 0)})},
	}
	mod := &hir.Module{Functions: []*hir.Function{main, alloc}, EntryName: "main"}

	out := New(in).Run(mod)
	if out.FuncByName("mem::alloc") == nil {
		t.Fatalf("unreferenced runtime helper should be retained: %v", names(out.Functions))
	}
}

// A call through FuncRef::Trait resolves to the impl registered for the
// receiver's concrete type, and the unresolved Trait ref never reaches the
// output module.
func TestResolvesTraitCallToImpl(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner(strs)

	showI32 := &hir.Function{
		Name:   "Show::show::i32",
		Type:   in.Intern(types.Type{Kind: types.KindFunction, Params: []types.TypeID{in.Builtins().I32}, Result: in.Builtins().I32}),
		Result: in.Builtins().I32,
		Params: []hir.Param{{Name: "self", Type: in.Builtins().I32}},
		Body: hir.Body{Block: hir.NewBlock(in.Builtins().I32, source.Dummy(),
			hir.BlockLine{Value: hir.NewVar(in.Builtins().I32, source.Dummy(), "self")},
		)},
	}

	mainBody := hir.NewBlock(in.Builtins().Unit, source.Dummy(),
		hir.BlockLine{
			Value: hir.NewCall(in.Builtins().I32, source.Dummy(),
				hir.Trait("Show", "show", in.Builtins().I32),
				hir.NewIntLit(in.Builtins().I32, source.Dummy(), 7)),
			DropResult: true,
		},
	)
	main := &hir.Function{
		Name:   "main",
		Type:   in.Intern(types.Type{Kind: types.KindFunction, Result: in.Builtins().Unit}),
		Result: in.Builtins().Unit,
		Body:   hir.Body{Block: mainBody},
	}

	mod := &hir.Module{
		Functions: []*hir.Function{main, showI32},
		EntryName: "main",
		Impls:     []hir.Impl{{Trait: "Show", Method: "show", SelfType: in.Builtins().I32, FuncName: "Show::show::i32"}},
	}

	out := New(in).Run(mod)
	if out.FuncByName("Show::show::i32") == nil {
		t.Fatalf("impl specialization dropped: %v", names(out.Functions))
	}
	call := out.FuncByName("main").Body.Block.Lines[0].Value.(*hir.Call)
	if call.Callee.Kind != hir.FuncRefUser || call.Callee.Name != "Show::show::i32" {
		t.Fatalf("expected trait call resolved to Show::show::i32, got %+v", call.Callee)
	}
}

func names(fns []*hir.Function) []string {
	out := make([]string, len(fns))
	for i, f := range fns {
		out[i] = f.Name
	}
	return out
}
