package sema

import "neplcore/internal/types"

// Signature is one builtin overload candidate's parameter/result shape.
type Signature struct {
	Params []types.TypeID
	Result types.TypeID
}

// Registry holds builtins a Checker may resolve identifiers against,
// without the checker itself ever needing to know a builtin's name. It
// starts empty; entries are added via RegisterBuiltin before CheckModule
// runs.
type Registry struct {
	byName map[string][]Signature
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string][]Signature)}
}

// RegisterBuiltin adds one overload candidate for name. Registering the
// same name twice accumulates candidates for overload resolution rather
// than replacing the previous entry.
func (r *Registry) RegisterBuiltin(name string, sig Signature) {
	r.byName[name] = append(r.byName[name], sig)
}

func (r *Registry) Candidates(name string) []Signature {
	return r.byName[name]
}
