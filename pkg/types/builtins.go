package types

func primitive(name string) *Class {
	return &Class{Name: name, primitive: true}
}

// Pre-defined builtin declarations. They are singletons, so identity is
// equality.
var (
	Number  = primitive("number")
	String  = primitive("string")
	Boolean = primitive("boolean")
	Null    = primitive("null")
	Void    = primitive("void")
	Any     = primitive("any")
)

func init() {
	String.AddProperty(&Property{Name: "length", Type: Number})
}

// ArrayElem is the element parameter of Array.
var ArrayElem = NewTypeParam("T")

// Array is the builtin generic list type, Array<T>.
var Array = &Class{
	Name:       "Array",
	TypeParams: []*Class{ArrayElem},
	Properties: []*Property{{Name: "length", Type: Number}},
	Methods: []*Function{
		{Name: "push", Params: []*Param{{Name: "item", Type: ArrayElem}}, Return: Number},
		{Name: "pop", Return: ArrayElem},
		{Name: "indexOf", Params: []*Param{{Name: "item", Type: ArrayElem}}, Return: Number},
		{Name: "join", Params: []*Param{{Name: "separator", Type: String, Optional: true}}, Return: String},
		{Name: "includes", Params: []*Param{{Name: "item", Type: ArrayElem}}, Return: Boolean},
	},
}

// Map is an opaque builtin keyed collection, Map<K, V>.
var Map = &Class{
	Name:       "Map",
	TypeParams: []*Class{NewTypeParam("K"), NewTypeParam("V")},
}

// Builtins lists every builtin type declaration in root scope order.
func Builtins() []*Class {
	return []*Class{Number, String, Boolean, Null, Void, Any, Array, Map}
}

// ArrayOf returns the type Array<elem>.
func ArrayOf(elem Type) *Reference {
	return Ref(Array, elem)
}

// ElementType returns the element type of an Array type. A bare Array (the
// type of an empty literal) has element type any.
func ElementType(t Type) (Type, bool) {
	switch u := Unwrap(t).(type) {
	case *Reference:
		if Unwrap(u.Decl) == Array && len(u.Args) == 1 {
			return u.Args[0], true
		}
	case *Class:
		if u == Array {
			return Any, true
		}
	}
	return nil, false
}
