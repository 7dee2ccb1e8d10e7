// Package layout computes the linear-memory placement of every type the
// low-level-IR backend needs an offset or width for: enum tag/payload
// layout, struct/tuple field offsets, and scalar storage widths, following
// this core's fixed (alignment-free) layout rules rather than a
// conventional ABI's aligned ones.
package layout

import "neplcore/internal/types"

// TypeLayout is one type's storage shape: total byte size, and for
// Struct/Tuple the per-field offset in declaration order.
type TypeLayout struct {
	Size int

	// Struct/Tuple only, parallel to the field/item order.
	FieldOffsets []int

	// Enum only.
	TagSize       int // always 4
	PayloadOffset int // 0 if the enum carries no payload in any variant
}

// Engine memoizes LayoutOf by TypeID against an Interner's arena.
type Engine struct {
	types *types.Interner
	cache *cache
}

func New(typesIn *types.Interner) *Engine {
	return &Engine{types: typesIn, cache: newCache()}
}

// LayoutOf returns t's layout, computing and caching it on first use.
func (e *Engine) LayoutOf(t types.TypeID) TypeLayout {
	if l, ok := e.cache.get(t); ok {
		return l
	}
	l := e.computeLayout(t)
	e.cache.put(t, l)
	return l
}

func (e *Engine) SizeOf(t types.TypeID) int { return e.LayoutOf(t).Size }

// FieldOffset returns the byte offset of a struct or tuple field by index.
func (e *Engine) FieldOffset(structOrTuple types.TypeID, idx int) int {
	l := e.LayoutOf(structOrTuple)
	if idx < 0 || idx >= len(l.FieldOffsets) {
		return 0
	}
	return l.FieldOffsets[idx]
}
