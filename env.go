package trinity

import "sort"

// Env is the mutable named-binding store for one visualisation session.
// It is a flat mapping — the language has no nested scopes. One Env must
// never be shared between concurrent evaluations; the engine is reentrant
// across independent Envs.
//
// Env itself performs no naming-convention check: hosts restoring a
// persisted session write bindings verbatim through Set. The evaluator
// enforces the convention on every assignment expression.
type Env struct {
	table map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{table: make(map[string]Value)}
}

// Get retrieves the binding for name.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.table[name]
	return v, ok
}

// Set binds name to v, overwriting any prior binding regardless of its
// former variant.
func (e *Env) Set(name string, v Value) {
	e.table[name] = v
}

// Delete removes the binding for name, if present.
func (e *Env) Delete(name string) {
	delete(e.table, name)
}

// Names returns all bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.table))
	for name := range e.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of bindings.
func (e *Env) Len() int { return len(e.table) }

// Reset drops every binding, returning the session to a clean state.
func (e *Env) Reset() {
	e.table = make(map[string]Value)
}
