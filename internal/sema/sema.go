// Package sema type-checks a module's items against a unification-based
// TypeID context and directly lowers each checked function to HIR: the
// spec's "type checker" and "HIR builder" stages are fused into one
// recursive walk here (checkExpr both infers a type and returns the typed
// hir.Expr for it) rather than run as two separate passes.
package sema

import (
	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/hir"
	"neplcore/internal/source"
	"neplcore/internal/types"
)

// Checker holds everything one module's check-and-lower pass needs. A
// fresh Checker is built per module; Visible carries the cross-module
// identifier map the name resolver already computed.
type Checker struct {
	Types    *types.Interner
	Strings  *source.Interner
	Builtins *Registry
	Visible  map[string]VisibleDef // name -> resolvable definition (this module's composed visible map)
	Bag      *diag.Bag

	Target  ast.Target
	Profile ast.Profile

	typeDefs  map[string]types.TypeID // struct/enum template TypeIDs, this module's own decls
	typeDecls map[string]ast.Item     // original decl, for re-resolution of field/variant types
	fnsByName map[string][]*ast.FnDef // overload candidates: this module's own FnDefs
	fnTypes   map[*ast.FnDef]types.TypeID
	literals  []string

	traitMethods map[string]string     // method name -> declaring trait name
	traitSigs    map[string]types.TypeID // method name -> Function TypeID, Self left as a named placeholder

	shadowed map[string]bool // NoShadow-marked names already declared in this module

	scope *scope
}

// VisibleDef is what the resolver's per-module visible map contributes:
// enough to type a reference to a cross-module function/struct/enum
// without re-resolving its body (bodies are checked once, in their
// defining module).
type VisibleDef struct {
	Kind string // "fn", "struct", "enum"
	Type types.TypeID
}

// New builds a Checker for one module. builtins may be nil (a fresh empty
// Registry is used, per the spec's open builtins-table question).
func New(interner *types.Interner, strings *source.Interner, builtins *Registry, visible map[string]VisibleDef, target ast.Target, profile ast.Profile) *Checker {
	if builtins == nil {
		builtins = NewRegistry()
	}
	return &Checker{
		Types:     interner,
		Strings:   strings,
		Builtins:  builtins,
		Visible:   visible,
		Bag:       diag.NewBag(),
		Target:    target,
		Profile:   profile,
		typeDefs:  make(map[string]types.TypeID),
		typeDecls: make(map[string]ast.Item),
		fnsByName: make(map[string][]*ast.FnDef),
		fnTypes:   make(map[*ast.FnDef]types.TypeID),
		shadowed:  make(map[string]bool),

		traitMethods: make(map[string]string),
		traitSigs:    make(map[string]types.TypeID),
	}
}

// CheckModule runs all phases over mod and returns the lowered HIR plus
// every diagnostic collected.
func (c *Checker) CheckModule(mod *ast.Module) (*hir.Module, []*diag.Diagnostic) {
	out := &hir.Module{}
	for _, entry := range mod.EntryDirectives() {
		out.EntryName = entry.Name // last one wins, directives are in source order
	}

	c.collectTypeDecls(mod)
	c.resolveTypeDecls()
	c.collectTraitDecls(mod)
	c.collectFnSignatures(mod)

	for _, item := range mod.Items {
		if !c.gateAdmitted(item.ItemGates()) {
			continue
		}
		switch it := item.(type) {
		case *ast.FnDef:
			if fn := c.checkFnDef(it); fn != nil {
				out.Functions = append(out.Functions, fn)
			}
		case *ast.ExternDef:
			out.Externs = append(out.Externs, c.checkExternDef(it))
		case *ast.ImplDef:
			c.checkImplDef(it, out)
		case *ast.RawBlockItem:
			// Verbatim module-level IR; spliced in by the backend directly
			// from the AST, not represented in HIR.
		}
	}
	out.Literals = c.literals
	c.Bag.Sort()
	return out, c.Bag.Items()
}

// gateAdmitted implements §4.7.1: every gate directive immediately
// preceding an item must admit it for the active target/profile.
func (c *Checker) gateAdmitted(gates []ast.GateDirective) bool {
	for _, g := range gates {
		switch g.Kind {
		case ast.GateTarget:
			if !targetPermits(c.Target, g.Value) {
				return false
			}
		case ast.GateProfile:
			if g.Value != c.Profile.String() {
				return false
			}
		}
	}
	return true
}

// targetPermits implements the capability-set relation: wasi's capability
// set includes wasm (a wasi build can run wasm-gated code), std's includes
// core, and every other target only admits itself.
func targetPermits(active ast.Target, want string) bool {
	if active.String() == want {
		return true
	}
	if active == ast.TargetWasi && want == "wasm" {
		return true
	}
	if active == ast.TargetStd && want == "core" {
		return true
	}
	return false
}

func (c *Checker) literalID(s string) int {
	for i, existing := range c.literals {
		if existing == s {
			return i
		}
	}
	id := len(c.literals)
	c.literals = append(c.literals, s)
	return id
}
