package sema

import (
	"neplcore/internal/symbols"
	"neplcore/internal/types"
)

// PublicType resolves name's TypeID after this module's CheckModule has
// run, for the compiler to feed into a dependent module's Visible map
// without re-checking this module's body. A function's TypeID is its
// first-declared overload's signature (this core's cross-module visible
// map, like its DefTable, carries one TypeID per name; overload sets are
// only resolved within the declaring module).
func (c *Checker) PublicType(name string, kind symbols.DefKind) (types.TypeID, bool) {
	switch kind {
	case symbols.DefFunction:
		fns := c.fnsByName[name]
		if len(fns) == 0 {
			return types.NoTypeID, false
		}
		t, ok := c.fnTypes[fns[0]]
		return t, ok
	case symbols.DefStruct, symbols.DefEnum:
		t, ok := c.typeDefs[name]
		return t, ok
	default:
		return types.NoTypeID, false
	}
}
