package types

import (
	"github.com/hashicorp/go-set/v3"
)

// Unwrap follows aliases and argument-free references to the structural type
// they name. An instantiated generic (`Array<number>`) stays a Reference,
// except that instantiated aliases are expanded. Alias cycles stop at the
// first repeated type.
func Unwrap(t Type) Type {
	visited := set.New[Type](4)
	for t != nil && visited.Insert(t) {
		switch v := t.(type) {
		case *Alias:
			t = v.Target
		case *Reference:
			if v.Decl == nil {
				return t
			}
			if len(v.Args) == 0 {
				t = v.Decl
				continue
			}
			alias, ok := v.Decl.(*Alias)
			if !ok || len(alias.TypeParams) == 0 {
				return t
			}
			t = Substitute(alias.Target, alias.TypeParams, v.Args)
		default:
			return t
		}
	}
	return t
}

// IsOptional reports whether t was written with a `?` suffix, either directly
// or on the definition of an alias it names.
func IsOptional(t Type) bool {
	visited := set.New[Type](4)
	for t != nil && visited.Insert(t) {
		switch v := t.(type) {
		case *Alias:
			t = v.Target
		case *Reference:
			if v.Optional {
				return true
			}
			if v.Decl == nil {
				return false
			}
			if len(v.Args) == 0 {
				t = v.Decl
				continue
			}
			alias, ok := v.Decl.(*Alias)
			if !ok || len(alias.TypeParams) == 0 {
				return false
			}
			t = Substitute(alias.Target, alias.TypeParams, v.Args)
		default:
			return false
		}
	}
	return false
}

// Substitute replaces the generic parameters params with args throughout t.
// Missing arguments become any. Named classes are never rebuilt: they are
// reached through References, whose arguments are substituted instead.
func Substitute(t Type, params []*Class, args []Type) Type {
	if len(params) == 0 || t == nil {
		return t
	}
	switch v := t.(type) {
	case *Class:
		for i, p := range params {
			if v == p {
				if i < len(args) {
					return args[i]
				}
				return Any
			}
		}
		if v.Name != "" {
			return v
		}
		out := &Class{Interface: v.Interface}
		for _, p := range v.Properties {
			out.Properties = append(out.Properties, &Property{Name: p.Name, Type: Substitute(p.Type, params, args), Static: p.Static, Const: p.Const})
		}
		for _, m := range v.Methods {
			out.Methods = append(out.Methods, substituteFunction(m, params, args))
		}
		return out

	case *Reference:
		if c, ok := v.Decl.(*Class); ok && c.param && len(v.Args) == 0 {
			decl := Substitute(c, params, args)
			if decl == c {
				return v
			}
			if v.Optional {
				return &Reference{Name: declName(decl), Decl: decl, Optional: true}
			}
			return decl
		}
		out := &Reference{Name: v.Name, Decl: v.Decl, Optional: v.Optional}
		for _, a := range v.Args {
			out.Args = append(out.Args, Substitute(a, params, args))
		}
		return out

	case *Union:
		return &Union{Left: Substitute(v.Left, params, args), Right: Substitute(v.Right, params, args)}

	case *Intersection:
		return &Intersection{Left: Substitute(v.Left, params, args), Right: Substitute(v.Right, params, args)}

	case *Function:
		return substituteFunction(v, params, args)
	}
	return t
}

func substituteFunction(fn *Function, params []*Class, args []Type) *Function {
	out := &Function{Name: fn.Name, TypeParams: fn.TypeParams, Return: Substitute(fn.Return, params, args)}
	for _, p := range fn.Params {
		out.Params = append(out.Params, &Param{Name: p.Name, Type: Substitute(p.Type, params, args), Optional: p.Optional, Variadic: p.Variadic})
	}
	return out
}

// ClassOf returns the structural class behind t, used for member lookup.
// Instantiated generics are returned with their arguments substituted, and
// intersections merge the members of both sides.
func ClassOf(t Type) (*Class, bool) {
	switch u := Unwrap(t).(type) {
	case *Class:
		return u, true

	case *Reference:
		decl, ok := Unwrap(u.Decl).(*Class)
		if !ok {
			return nil, false
		}
		out := &Class{Name: u.String(), Interface: decl.Interface, Operators: decl.Operators}
		for _, p := range decl.Properties {
			out.Properties = append(out.Properties, &Property{Name: p.Name, Type: Substitute(p.Type, decl.TypeParams, u.Args), Static: p.Static, Const: p.Const})
		}
		for _, m := range decl.Methods {
			out.Methods = append(out.Methods, substituteFunction(m, decl.TypeParams, u.Args))
		}
		return out, true

	case *Intersection:
		left, lok := ClassOf(u.Left)
		right, rok := ClassOf(u.Right)
		if !lok || !rok {
			return nil, false
		}
		out := &Class{Name: u.String()}
		for _, c := range []*Class{left, right} {
			for _, p := range c.Properties {
				out.AddProperty(p)
			}
			for _, m := range c.Methods {
				out.AddMethod(m)
			}
		}
		return out, true
	}
	return nil, false
}
