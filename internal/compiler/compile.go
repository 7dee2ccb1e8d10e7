// Package compiler wires the loader, name resolver, type checker, move
// check, monomorphizer, and low-level-IR backend into the single
// Compile API the spec's external interfaces describe, mirroring the
// teacher's driver package: one exported entry point sequencing phases
// that each already know how to run on their own, aborting after the
// first phase that reports an Error-severity diagnostic.
package compiler

import (
	"neplcore/internal/ast"
	"neplcore/internal/diag"
	"neplcore/internal/llir"
	"neplcore/internal/loader"
	"neplcore/internal/mono"
	"neplcore/internal/move"
	"neplcore/internal/project"
	"neplcore/internal/sema"
	"neplcore/internal/source"
	"neplcore/internal/types"

	"neplcore/internal/layout"
)

// CompileOptions selects the target/profile a compilation runs under, per
// spec.md §6's Compile API.
type CompileOptions struct {
	Target  ast.Target
	Profile ast.Profile
	Verbose bool
}

// Artifact is one compilation's successful output. This core only
// implements the low-level-IR backend (the VM bytecode backend is an
// out-of-scope external collaborator, per spec.md §1), so only Text is
// ever populated.
type Artifact struct {
	Text string
}

// Compile runs the full pipeline over an already-loaded module graph:
// name resolution, type checking (which lowers straight to HIR), move
// checking, monomorphization, and low-level-IR emission. It returns every
// diagnostic collected even on failure; err is non-nil only when an
// Error-severity diagnostic aborted a phase before a later one could run.
func Compile(g *loader.Graph, opts CompileOptions, builtins *sema.Registry) (*Artifact, []*diag.Diagnostic, error) {
	strs := source.NewInterner()
	typesIn := types.NewInterner(strs)

	results, diags := checkGraph(g, strs, typesIn, builtins, opts.Target, opts.Profile)
	if hasError(diags) {
		return nil, diags, errPhase("type check")
	}

	program := mergeProgram(g, results)

	moveChecker := move.New(typesIn)
	moveDiags := moveChecker.CheckModule(program)
	diags = append(diags, moveDiags...)
	if hasError(diags) {
		return nil, diags, errPhase("move check")
	}

	monomorphizer := mono.New(typesIn)
	specialized := monomorphizer.Run(program)
	diags = append(diags, monomorphizer.Bag.Items()...)
	if hasError(diags) {
		return nil, diags, errPhase("monomorphization")
	}

	layoutEngine := layout.New(typesIn)
	emitter := llir.New(typesIn, layoutEngine, opts.Target, opts.Profile)
	text, emitDiags := emitter.Emit(mergedAST(g), specialized)
	diags = append(diags, emitDiags...)
	if hasError(diags) {
		return nil, diags, errPhase("low-level IR emission")
	}

	return &Artifact{Text: text}, diags, nil
}

// CompilePath loads entryPath through provider using cfg's stdlib root
// before running Compile, the shape a CLI or test harness drives the core
// with (spec.md §6's "compile_module(Module, CompileOptions)" plus the
// loader step ahead of it).
func CompilePath(provider loader.SourceProvider, parse loader.ParseFunc, cfg project.Config, entryPath string, opts CompileOptions, builtins *sema.Registry) (*Artifact, []*diag.Diagnostic, error) {
	ld := loader.New(provider, parse, loader.Options{StdlibRoot: cfg.StdlibRoot})
	res, err := ld.Load(entryPath)
	if err != nil {
		return nil, nil, err
	}
	if hasError(res.Warnings) {
		return nil, res.Warnings, errPhase("load")
	}
	artifact, diags, err := Compile(res.Graph, opts, builtins)
	all := make([]*diag.Diagnostic, 0, len(res.Warnings)+len(diags))
	all = append(all, res.Warnings...)
	all = append(all, diags...)
	return artifact, all, err
}

func hasError(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

type phaseError string

func (e phaseError) Error() string { return "compiler: " + string(e) + " reported an error-severity diagnostic" }

func errPhase(name string) error { return phaseError(name) }
