// Package testkit holds shared invariant checks used by the pipeline's own
// tests: span sanity on a loaded module. The repeat-compile determinism
// check lives in internal/compiletest.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"neplcore/internal/ast"
	"neplcore/internal/source"
)

// CheckSpanInvariants verifies that every item in mod has a non-empty span
// that falls within sf's content bounds, and that no two item spans are
// byte-identical to a different item (a sign the loader mis-assigned a
// span during lowering).
func CheckSpanInvariants(mod *ast.Module, sf *source.File) error {
	if mod == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	contentLen, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}

	seen := make(map[source.Span]ast.Item, len(mod.Items))
	for _, item := range mod.Items {
		sp := item.Span()
		if sp.End < sp.Start {
			return fmt.Errorf("inverted item span: %v", sp)
		}
		if sp.Empty() {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			continue // item belongs to an included file, not sf
		}
		if sp.End > contentLen {
			return fmt.Errorf("item span end beyond content: %v > %d", sp, contentLen)
		}
		if other, dup := seen[sp]; dup && other != item {
			return fmt.Errorf("two distinct items share span %v", sp)
		}
		seen[sp] = item
	}
	return nil
}
