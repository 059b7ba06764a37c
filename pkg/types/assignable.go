package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// --- Type Assignability ---

// IsAssignable reports whether a value of type value may be used where target
// is expected. Both sides are compared after unwrapping aliases and plain
// references, so two alias names for the same structure are compatible.
func IsAssignable(value, target Type) bool {
	a := &assignability{assumed: set.New[assumption](8)}
	return a.check(value, target)
}

// assumption is a (value, target) pair already under comparison. Structural
// comparison of self-referential classes reaches the same pair again; the
// pair is then assumed to hold.
type assumption struct {
	value, target string
}

type assignability struct {
	assumed *set.Set[assumption]
}

func (a *assignability) check(value, target Type) bool {
	if value == nil || target == nil {
		return false
	}
	optional := IsOptional(target)
	v, t := Unwrap(value), Unwrap(target)

	if v == t || v == Any || t == Any {
		return true
	}
	if v == Null && optional {
		return true
	}

	// a union value fits only if both of its sides do
	if u, ok := v.(*Union); ok {
		return a.check(u.Left, target) && a.check(u.Right, target)
	}
	switch tt := t.(type) {
	case *Union:
		return a.check(value, tt.Left) || a.check(value, tt.Right)
	case *Intersection:
		return a.check(value, tt.Left) && a.check(value, tt.Right)
	}

	switch vv := v.(type) {
	case *Reference:
		switch tt := t.(type) {
		case *Reference:
			return a.sameInstantiation(vv, tt)
		case *Class:
			return a.structural(vv, tt)
		}

	case *Class:
		switch tt := t.(type) {
		case *Reference:
			// the bare generic (the type of []) fits any instantiation of itself
			return len(vv.TypeParams) > 0 && Unwrap(tt.Decl) == Type(vv)
		case *Class:
			return a.structural(vv, tt)
		}

	case *Function:
		if tt, ok := t.(*Function); ok {
			return a.function(vv, tt)
		}

	case *Intersection:
		return a.check(vv.Left, target) || a.check(vv.Right, target)
	}
	return false
}

// sameInstantiation compares two instantiated generics: same declaration and
// pairwise assignable arguments.
func (a *assignability) sameInstantiation(value, target *Reference) bool {
	if Unwrap(value.Decl) != Unwrap(target.Decl) || len(value.Args) != len(target.Args) {
		return false
	}
	for i := range value.Args {
		if !a.check(value.Args[i], target.Args[i]) {
			return false
		}
	}
	return true
}

// function compares parameters by position. Parameters are checked in the
// same direction as the functions themselves (value param to target param).
func (a *assignability) function(value, target *Function) bool {
	if len(value.Params) != len(target.Params) {
		return false
	}
	for i := range value.Params {
		if !a.check(value.Params[i].Type, target.Params[i].Type) {
			return false
		}
	}
	if target.Return == nil || Unwrap(target.Return) == Void {
		return true
	}
	return a.check(value.Return, target.Return)
}

// structural reports whether value has every member target declares, each
// with an assignable type.
func (a *assignability) structural(value, target Type) bool {
	if nominal(value) || nominal(target) {
		return false
	}
	key := assumption{value: typeKey(value), target: typeKey(target)}
	if !a.assumed.Insert(key) {
		return true
	}

	vc, ok := ClassOf(value)
	if !ok {
		return false
	}
	tc, ok := ClassOf(target)
	if !ok {
		return false
	}
	for _, p := range tc.Properties {
		if p.Static {
			continue
		}
		vt, ok := vc.Member(p.Name)
		if !ok || !a.check(vt, p.Type) {
			return false
		}
	}
	for _, m := range tc.Methods {
		vm, ok := vc.Method(m.Name)
		if !ok || !a.function(vm, m) {
			return false
		}
	}
	return true
}

func nominal(t Type) bool {
	c, ok := Unwrap(t).(*Class)
	return ok && (c.primitive || c.param)
}

// Identity keys t for deduplication. Named declarations are told apart by
// the declaration itself, so two classes sharing a name stay distinct, while
// anonymous classes and function types are keyed by their shape.
func Identity(t Type) string {
	switch v := t.(type) {
	case *Class:
		if v.Name == "" {
			return "{}" + TypeToString(v)
		}
	case *Function:
		return "fn" + TypeToString(v)
	case *Reference:
		if v.Optional {
			return typeKey(v) + "?"
		}
	}
	return typeKey(t)
}

// typeKey identifies a type by declaration identity, so that freshly
// instantiated generics of the same declaration and arguments share a key.
func typeKey(t Type) string {
	switch v := t.(type) {
	case *Reference:
		if len(v.Args) == 0 {
			return typeKey(v.Decl)
		}
		args := make([]string, len(v.Args))
		for i, arg := range v.Args {
			args[i] = typeKey(arg)
		}
		return typeKey(v.Decl) + "<" + strings.Join(args, ",") + ">"
	case *Union:
		return "(" + typeKey(v.Left) + "|" + typeKey(v.Right) + ")"
	case *Intersection:
		return "(" + typeKey(v.Left) + "&" + typeKey(v.Right) + ")"
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T@%p", t, t)
}
