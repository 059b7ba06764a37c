package checker

import (
	"sort"

	"snff/pkg/types"
)

// Variable is a named binding in a Scope.
type Variable struct {
	Name  string
	Type  types.Type
	Const bool
}

// Scope manages variable and type bindings for one block. Lookups walk the
// parent chain, nearest scope first.
type Scope struct {
	variables map[string]*Variable
	typeDecls map[string]types.Type
	parent    *Scope
}

// NewScope creates a scope nested in parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		variables: make(map[string]*Variable),
		typeDecls: make(map[string]types.Type),
		parent:    parent,
	}
}

// NewRootScope creates a top-level scope with the builtin types declared.
func NewRootScope() *Scope {
	s := NewScope(nil)
	for _, b := range types.Builtins() {
		s.DeclareType(b.Name, b)
	}
	return s
}

// Fork creates a child scope.
func (s *Scope) Fork() *Scope {
	return NewScope(s)
}

// Absorb copies the bindings declared directly in other into s, replacing
// bindings of the same name.
func (s *Scope) Absorb(other *Scope) {
	for name, v := range other.variables {
		s.variables[name] = v
	}
	for name, t := range other.typeDecls {
		s.typeDecls[name] = t
	}
}

// Parent returns the enclosing scope, nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare binds a variable in this scope, replacing any earlier binding of
// the same name.
func (s *Scope) Declare(name string, typ types.Type, isConst bool) *Variable {
	v := &Variable{Name: name, Type: typ, Const: isConst}
	s.variables[name] = v
	return v
}

// DeclareType binds a type name in this scope.
func (s *Scope) DeclareType(name string, typ types.Type) {
	s.typeDecls[name] = typ
}

// Lookup resolves a variable through the scope chain.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupLocal resolves a variable in this scope only.
func (s *Scope) LookupLocal(name string) (*Variable, bool) {
	v, ok := s.variables[name]
	return v, ok
}

// LookupType resolves a type name through the scope chain.
func (s *Scope) LookupType(name string) (types.Type, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if t, ok := scope.typeDecls[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Variables returns the variables declared directly in this scope, sorted by
// name.
func (s *Scope) Variables() []*Variable {
	vars := make([]*Variable, 0, len(s.variables))
	for _, v := range s.variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// Types returns the names of the types declared directly in this scope,
// sorted.
func (s *Scope) Types() []string {
	names := make([]string, 0, len(s.typeDecls))
	for name := range s.typeDecls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
