package types

import (
	"testing"
)

func TestArrayInstantiation(t *testing.T) {
	numbers := ArrayOf(Ref(Number))
	class, ok := ClassOf(numbers)
	if !ok {
		t.Fatalf("expected Array<number> to have members")
	}
	push, ok := class.Method("push")
	if !ok {
		t.Fatalf("expected push method")
	}
	if !IsAssignable(Number, push.Params[0].Type) {
		t.Errorf("expected push to take number, got %s", push.Params[0].Type)
	}
	if IsAssignable(String, push.Params[0].Type) {
		t.Errorf("expected push to reject string")
	}
	pop, _ := class.Method("pop")
	if got := TypeToString(pop.Return); got != "number" {
		t.Errorf("expected pop to return number, got %s", got)
	}
	// the declaration itself is untouched
	if Array.Methods[0].Params[0].Type != ArrayElem {
		t.Errorf("substitution mutated the Array declaration")
	}
}

func TestElementType(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
		ok       bool
	}{
		{ArrayOf(Ref(String)), "string", true},
		{Ref(Array), "any", true},
		{&Alias{Name: "Names", Target: ArrayOf(Ref(String))}, "string", true},
		{Ref(Number), "", false},
	}
	for _, tt := range tests {
		elem, ok := ElementType(tt.typ)
		if ok != tt.ok {
			t.Errorf("ElementType(%s): expected ok=%v", tt.typ, tt.ok)
			continue
		}
		if ok && TypeToString(elem) != tt.expected {
			t.Errorf("ElementType(%s): expected %s, got %s", tt.typ, tt.expected, elem)
		}
	}
}

func TestGenericAliasExpansion(t *testing.T) {
	a, b := NewTypeParam("A"), NewTypeParam("B")
	pair := &Alias{
		Name:       "Pair",
		TypeParams: []*Class{a, b},
		Target: &Class{Properties: []*Property{
			{Name: "first", Type: Ref(a)},
			{Name: "second", Type: Ref(b)},
		}},
	}
	inst := Ref(pair, Ref(Number), Ref(String))
	class, ok := ClassOf(inst)
	if !ok {
		t.Fatalf("expected Pair<number, string> to expand to a class")
	}
	if got := class.String(); got != "{first: number, second: string}" {
		t.Errorf("unexpected expansion %s", got)
	}

	value := &Class{Properties: []*Property{
		{Name: "first", Type: Ref(Number)},
		{Name: "second", Type: Ref(String)},
	}}
	if !IsAssignable(value, inst) {
		t.Errorf("expected %s to be assignable to %s", value, inst)
	}
	if IsAssignable(value, Ref(pair, Ref(String), Ref(String))) {
		t.Errorf("expected mismatch on first")
	}
}

func TestTypeToString(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{nil, "unknown"},
		{Ref(Number), "number"},
		{ArrayOf(NewUnion(Ref(Number), Ref(String), Ref(Boolean))), "Array<number | string | boolean>"},
		{Ref(Array), "Array<>"},
		{&Reference{Name: "Point", Decl: point(), Optional: true}, "Point?"},
		{&Intersection{Left: Ref(Number), Right: Ref(String)}, "number & string"},
		{&Alias{Name: "Id", Target: Ref(Number)}, "Id"},
		{Ref(Map, Ref(String), Ref(Number)), "Map<string, number>"},
		{&Function{Params: []*Param{{Name: "a", Type: Ref(Number)}, {Name: "rest", Type: ArrayOf(Ref(String)), Variadic: true}}, Return: Ref(Void)},
			"(a: number, ...rest: Array<string>) => void"},
		{&Class{Properties: []*Property{{Name: "x", Type: Ref(Number)}}}, "{x: number}"},
	}
	for _, tt := range tests {
		if got := TypeToString(tt.typ); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestNewUnionFoldsRight(t *testing.T) {
	u, ok := NewUnion(Ref(Number), Ref(String), Ref(Boolean)).(*Union)
	if !ok {
		t.Fatalf("expected a union")
	}
	if _, ok := u.Right.(*Union); !ok {
		t.Errorf("expected right-nested union, got %T", u.Right)
	}
	if NewUnion(Ref(Number)).String() != "number" {
		t.Errorf("single member should not be wrapped")
	}
	if NewUnion() != nil {
		t.Errorf("empty union should be nil")
	}
}

func TestArity(t *testing.T) {
	fn := &Function{Params: []*Param{
		{Name: "a", Type: Number},
		{Name: "b", Type: Number, Optional: true},
	}}
	if least, most := fn.Arity(); least != 1 || most != 2 {
		t.Errorf("expected arity 1..2, got %d..%d", least, most)
	}
	fn.Params = append(fn.Params, &Param{Name: "rest", Type: ArrayOf(Number), Variadic: true})
	if _, most := fn.Arity(); most != -1 {
		t.Errorf("expected variadic arity, got %d", most)
	}
}
