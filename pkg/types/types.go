package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by all type representations. The set of
// implementations is closed: Reference, Union, Intersection, Function, Class
// and Alias.
type Type interface {
	// String returns the type as it is written in diagnostics.
	String() string

	// typeNode() keeps the set of Type implementations inside this package.
	typeNode()
}

// --- References ---

// Reference names a declared type, optionally instantiated with generic
// arguments. Decl is the declaration the name resolved to (a *Class or an
// *Alias). A Reference without arguments is transparent: it unwraps to Decl.
type Reference struct {
	Name     string
	Decl     Type
	Args     []Type
	Optional bool
}

// Ref creates a reference to decl named after the declaration.
func Ref(decl Type, args ...Type) *Reference {
	return &Reference{Name: declName(decl), Decl: decl, Args: args}
}

func (r *Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Args) > 0 {
		sb.WriteString("<" + joinTypes(r.Args, ", ") + ">")
	} else if c, ok := r.Decl.(*Class); ok && len(c.TypeParams) > 0 {
		// an uninstantiated generic, e.g. the type of []
		sb.WriteString("<>")
	}
	if r.Optional {
		sb.WriteString("?")
	}
	return sb.String()
}
func (r *Reference) typeNode() {}

// --- Combinators ---

// Union is `Left | Right`. Longer unions nest to the right.
type Union struct {
	Left, Right Type
}

func (u *Union) String() string { return u.Left.String() + " | " + u.Right.String() }
func (u *Union) typeNode()      {}

// NewUnion right-folds members into a Union chain. A single member is
// returned as is; no members yields nil.
func NewUnion(members ...Type) Type {
	if len(members) == 0 {
		return nil
	}
	result := members[len(members)-1]
	for i := len(members) - 2; i >= 0; i-- {
		result = &Union{Left: members[i], Right: result}
	}
	return result
}

// Intersection is `Left & Right`.
type Intersection struct {
	Left, Right Type
}

func (it *Intersection) String() string { return it.Left.String() + " & " + it.Right.String() }
func (it *Intersection) typeNode()      {}

// --- Functions ---

// Param is one parameter of a Function type.
type Param struct {
	Name     string
	Type     Type
	Optional bool // declared with a default value
	Variadic bool
}

func (p *Param) String() string {
	prefix := ""
	if p.Variadic {
		prefix = "..."
	}
	suffix := ""
	if p.Optional {
		suffix = "?"
	}
	return fmt.Sprintf("%s%s%s: %s", prefix, p.Name, suffix, TypeToString(p.Type))
}

// Function is the type of a function, method or operator overload.
type Function struct {
	Name       string
	TypeParams []*Class
	Params     []*Param
	Return     Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + TypeToString(f.Return)
}
func (f *Function) typeNode() {}

// Param returns the parameter with the given name.
func (f *Function) Param(name string) (int, *Param) {
	for i, p := range f.Params {
		if p.Name == name {
			return i, p
		}
	}
	return -1, nil
}

// Arity returns the minimum and maximum number of arguments accepted. most is
// -1 for variadic functions.
func (f *Function) Arity() (least, most int) {
	for _, p := range f.Params {
		switch {
		case p.Variadic:
			return least, -1
		case !p.Optional:
			least++
		}
	}
	return least, len(f.Params)
}

// --- Classes ---

// Property is a named, typed member of a Class.
type Property struct {
	Name   string
	Type   Type
	Static bool
	Const  bool
}

// Class is a structural object type: classes, interfaces, object type
// literals and map literals all become Classes. Builtin primitives and type
// parameters are Classes too but compare by identity only.
type Class struct {
	Name       string
	TypeParams []*Class
	Properties []*Property
	Methods    []*Function
	Operators  map[string]*Function
	Interface  bool

	primitive bool // number, string, ...: never structurally compatible
	param     bool // a generic type parameter
}

// NewClass creates an empty class type.
func NewClass(name string) *Class {
	return &Class{Name: name}
}

// NewTypeParam creates the placeholder for a generic parameter.
func NewTypeParam(name string) *Class {
	return &Class{Name: name, param: true}
}

// IsTypeParam reports whether c is a generic parameter placeholder.
func (c *Class) IsTypeParam() bool { return c.param }

// IsPrimitive reports whether c is a builtin scalar type.
func (c *Class) IsPrimitive() bool { return c.primitive }

func (c *Class) String() string {
	if c.Name != "" {
		return c.Name
	}
	parts := make([]string, 0, len(c.Properties)+len(c.Methods))
	for _, p := range c.Properties {
		parts = append(parts, p.Name+": "+TypeToString(p.Type))
	}
	for _, m := range c.Methods {
		parts = append(parts, m.Name+": "+m.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (c *Class) typeNode() {}

// Property returns the type of the named property.
func (c *Class) Property(name string) (*Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Method returns the named method.
func (c *Class) Method(name string) (*Function, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Member returns the type of a property or method named name.
func (c *Class) Member(name string) (Type, bool) {
	if p, ok := c.Property(name); ok {
		return p.Type, true
	}
	if m, ok := c.Method(name); ok {
		return m, true
	}
	return nil, false
}

// AddProperty declares or replaces a property.
func (c *Class) AddProperty(p *Property) {
	for i, existing := range c.Properties {
		if existing.Name == p.Name {
			c.Properties[i] = p
			return
		}
	}
	c.Properties = append(c.Properties, p)
}

// AddMethod declares or replaces a method.
func (c *Class) AddMethod(fn *Function) {
	for i, existing := range c.Methods {
		if existing.Name == fn.Name {
			c.Methods[i] = fn
			return
		}
	}
	c.Methods = append(c.Methods, fn)
}

// AddOperator declares an operator overload.
func (c *Class) AddOperator(op string, fn *Function) {
	if c.Operators == nil {
		c.Operators = make(map[string]*Function)
	}
	c.Operators[op] = fn
}

// OperatorNames returns the overloaded operators in sorted order.
func (c *Class) OperatorNames() []string {
	names := make([]string, 0, len(c.Operators))
	for name := range c.Operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Aliases ---

// Alias is a named type introduced by a `type` declaration.
type Alias struct {
	Name       string
	TypeParams []*Class
	Target     Type
}

func (a *Alias) String() string { return a.Name }
func (a *Alias) typeNode()      {}

// --- Rendering ---

// TypeToString renders t for diagnostics; nil renders as "unknown".
func TypeToString(t Type) string {
	if t == nil {
		return "unknown"
	}
	return t.String()
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = TypeToString(t)
	}
	return strings.Join(parts, sep)
}

func declName(t Type) string {
	switch d := t.(type) {
	case *Class:
		return d.Name
	case *Alias:
		return d.Name
	case *Reference:
		return d.Name
	}
	return TypeToString(t)
}
