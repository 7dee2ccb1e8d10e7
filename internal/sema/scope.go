package sema

import "neplcore/internal/types"

// binding is one local's current type and mutability declaration. Move
// state lives in the separate move-check pass, not here: the type checker
// only needs to know what a name resolves to and whether Set is legal.
type binding struct {
	ty      types.TypeID
	mutable bool
}

// scope is one lexical block's declarations, chained to its parent so
// lookups walk outward. pushScope/popScope bracket a Block's lifetime.
// order records declaration order so scope exit can hand back bindings
// for Drop insertion deterministically (map iteration order is not
// stable, and emitted IR must be byte-identical across repeat compiles).
type scope struct {
	vars   map[string]binding
	order  []string
	parent *scope
}

func (c *Checker) pushScope() {
	c.scope = &scope{vars: make(map[string]binding), parent: c.scope}
}

// popScope returns this scope's declared names in reverse declaration
// order, the order scope-exit Drop nodes are inserted in.
func (c *Checker) popScope() []string {
	names := make([]string, len(c.scope.order))
	for i, name := range c.scope.order {
		names[len(names)-1-i] = name
	}
	c.scope = c.scope.parent
	return names
}

func (c *Checker) declare(name string, ty types.TypeID, mutable bool) {
	if _, redeclared := c.scope.vars[name]; !redeclared {
		c.scope.order = append(c.scope.order, name)
	}
	c.scope.vars[name] = binding{ty: ty, mutable: mutable}
}

func (c *Checker) lookup(name string) (binding, bool) {
	for s := c.scope; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}
