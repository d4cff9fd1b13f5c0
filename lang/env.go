package lang

import (
	"iter"
	"maps"
	"slices"
)

// Env is one lexical scope: a set of bindings plus an optional parent scope.
// Lookups walk from the scope outward to the root.
//
// An Env is owned by the single evaluation that created it and must not be
// shared between goroutines.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a scope whose parent is parent. A nil parent creates a root
// (global) scope.
func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]Value),
		parent: parent,
	}
}

// Child creates a new scope whose parent is e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name in this scope only, shadowing any outer binding of the
// same name and overwriting any existing binding in this scope.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Lookup returns the value bound to name in the nearest scope that defines it.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Get returns the value bound to name, or a [*NameError] if no scope in the
// chain defines it.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}

	return Value{}, &NameError{Name: name}
}

// Assign rebinds name in the nearest scope that already defines it. It never
// creates a binding; if no scope defines name it returns a [*NameError].
func (e *Env) Assign(name string, v Value) error {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v

			return nil
		}
	}

	return &NameError{Name: name}
}

// Has reports whether name is bound in this scope, ignoring ancestors.
func (e *Env) Has(name string) bool {
	_, ok := e.vars[name]

	return ok
}

// All returns an iterator over every visible binding. Each name is yielded
// once with the value from the innermost scope defining it. Order is by name.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range e.Names() {
			v, _ := e.Lookup(name)
			if !yield(name, v) {
				return
			}
		}
	}
}

// Names returns the sorted names visible from this scope.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for s := e; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
