// Package compiletest drives the same compilation repeatedly from multiple
// goroutines to check the pipeline's determinism guarantee: the loader's
// SourceProvider, the module graph it produces, and compiler.Compile itself
// build fresh interners and checker state per call, so N concurrent runs
// over the same input must produce byte-identical artifacts.
package compiletest

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"neplcore/internal/compiler"
	"neplcore/internal/diag"
	"neplcore/internal/loader"
	"neplcore/internal/sema"
)

// Mismatch describes the first run whose outcome differed from run 0:
// success versus failure, different artifact text, or a different number
// of diagnostics. A real lexer/parser would additionally vary FileSet
// contents per run; since this core's module graph is supplied pre-parsed,
// Run isolates the checker/mono/backend stages' own determinism.
type Mismatch struct {
	RunIndex    int
	WantText    string
	GotText     string
	WantDiagLen int
	GotDiagLen  int
}

func (m Mismatch) Error() string {
	if m.WantText != m.GotText {
		return fmt.Sprintf("compiletest: run %d produced different output text than run 0", m.RunIndex)
	}
	return fmt.Sprintf("compiletest: run %d produced %d diagnostics, run 0 produced %d", m.RunIndex, m.GotDiagLen, m.WantDiagLen)
}

// Run executes runs independent compilations of g with opts/builtins
// concurrently (capped at GOMAXPROCS workers) and returns the first
// Mismatch found, or nil if every run agreed with run 0. Runs agree when
// they match in success/failure, artifact text, and diagnostic count; the
// diagnostics' contents are not compared.
// It never runs fewer than 2 compilations; builtins is shared read-only
// across goroutines (Registry is never mutated after construction).
func Run(ctx context.Context, g *loader.Graph, opts compiler.CompileOptions, builtins *sema.Registry, runs int) (*Mismatch, error) {
	if runs < 2 {
		runs = 2
	}

	type outcome struct {
		artifact *compiler.Artifact
		diags    []*diag.Diagnostic
		err      error
	}
	outcomes := make([]outcome, runs)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < runs; i++ {
		eg.Go(func(i int) func() error {
			return func() error {
				select {
				case <-egctx.Done():
					return egctx.Err()
				default:
				}
				artifact, diags, err := compiler.Compile(g, opts, builtins)
				outcomes[i] = outcome{artifact: artifact, diags: diags, err: err}
				return nil
			}
		}(i))
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	want := outcomes[0]
	for i := 1; i < runs; i++ {
		got := outcomes[i]
		if (want.err == nil) != (got.err == nil) {
			return &Mismatch{RunIndex: i, WantDiagLen: len(want.diags), GotDiagLen: len(got.diags)}, nil
		}
		wantText, gotText := "", ""
		if want.artifact != nil {
			wantText = want.artifact.Text
		}
		if got.artifact != nil {
			gotText = got.artifact.Text
		}
		if wantText != gotText {
			return &Mismatch{RunIndex: i, WantText: wantText, GotText: gotText}, nil
		}
		if len(want.diags) != len(got.diags) {
			return &Mismatch{RunIndex: i, WantDiagLen: len(want.diags), GotDiagLen: len(got.diags)}, nil
		}
	}
	return nil, nil
}
