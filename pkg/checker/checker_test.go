package checker

import (
	stderrors "errors"
	"strings"
	"testing"

	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

func checkString(t *testing.T, input string) (*Result, error) {
	t.Helper()
	program, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", input, err)
	}
	return CheckProgram(program)
}

func checkOrFail(t *testing.T, input string) *Result {
	t.Helper()
	result, err := checkString(t, input)
	if err != nil {
		t.Fatalf("CheckProgram(%q) returned error: %v", input, err)
	}
	return result
}

func variableType(t *testing.T, result *Result, name string) string {
	t.Helper()
	v, ok := result.Scope.Lookup(name)
	if !ok {
		t.Fatalf("variable %s not declared", name)
	}
	return types.TypeToString(v.Type)
}

func TestAnnotationMismatch(t *testing.T) {
	_, err := checkString(t, `let x: number = "a"`)
	var typeErr *errors.TypeError
	if !stderrors.As(err, &typeErr) {
		t.Fatalf("expected *errors.TypeError, got %T (%v)", err, err)
	}
	msg := typeErr.Message()
	if !strings.Contains(msg, "string") || !strings.Contains(msg, "number") {
		t.Errorf("expected message to mention string and number, got %q", msg)
	}
	if typeErr.Pos().Line != 1 || typeErr.Pos().Column != 17 {
		t.Errorf("expected error at the initializer, got %d:%d", typeErr.Pos().Line, typeErr.Pos().Column)
	}
}

func TestInferredTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		variable string
		expected string
	}{
		{"call result", "func add(a: number, b: number): number { return a + b }\nlet r = add(1, 2)", "r", "number"},
		{"mixed array", `let xs = [1, "a", true]`, "xs", "Array<number | string | boolean>"},
		{"repeated element types", "let xs = [1, 2, 3]", "xs", "Array<number>"},
		{"empty array", "let xs = []", "xs", "Array<>"},
		{"map literal", `let m = { x: 1, name: "a" }`, "m", "{x: number, name: string}"},
		{"string concatenation", `let s = "n = " + 1`, "s", "string"},
		{"comparison", "let b = 1 < 2", "b", "boolean"},
		{"bitwise", "let n = 6 & 3 | 1", "n", "number"},
		{"inferred return", "func two() { return 2 }\nlet x = two()", "x", "number"},
		{"void return", "func nothing() { }\nlet x = nothing()", "x", "void"},
		{"generic inference", "func first<T>(xs: T[]): T { return xs[0] }\nlet n = first([1, 2])", "n", "number"},
		{"array method", "let xs = [1, 2]\nlet n = xs.pop()", "n", "number"},
		{"string length", `let n = "abc".length`, "n", "number"},
		{"hoisted call", "let x = later(1)\nfunc later(n: number): string { return \"\" }", "x", "string"},
		{"generic class", "class Box<T> {\n value: T\n operator new(value: T) { this.value = value }\n}\nlet b = new Box(3)\nlet v = b.value", "v", "number"},
		{"generic instance", "class Box<T> {\n value: T\n operator new(value: T) { this.value = value }\n}\nlet b = new Box(\"s\")", "b", "Box<string>"},
		{"operator overload", "class V {\n x: number\n operator +(o: V): V { return o }\n}\nlet a = new V()\nlet b = a + a", "b", "V"},
		{"named arguments", "func f(a: number, b: string = \"x\"): string { return b }\nlet s = f(b: \"y\", a: 1)", "s", "string"},
		{"variadic", "func sum(...ns: number[]): number { return 0 }\nlet n = sum(1, 2, 3)", "n", "number"},
		{"alias", "type Id = number | string\nlet i: Id = 3", "i", "Id"},
		{"static member", "class C {\n static let count = 0\n}\nlet n = C.count", "n", "number"},
		{"inherited member", "class A {\n x: number\n}\nclass B extends A {\n y: number\n}\nlet b = new B()\nlet n = b.x", "n", "number"},
		{"map index", "func get(m: Map<string, number>): number { return m[\"k\"] }\nlet n = get", "n", "(m: Map<string, number>) => number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkOrFail(t, tt.input)
			if got := variableType(t, result, tt.variable); got != tt.expected {
				t.Errorf("expected %s: %s, got %s", tt.variable, tt.expected, got)
			}
		})
	}
}

func TestStructuralAssignment(t *testing.T) {
	input := `class Point {
		x: number
		y: number
	}
	let p: Point = { x: 1, y: 2 }
	p.z`
	_, err := checkString(t, input)
	if err == nil {
		t.Fatalf("expected an error for p.z")
	}
	var typeErr *errors.TypeError
	if !stderrors.As(err, &typeErr) {
		t.Fatalf("expected *errors.TypeError, got %T (%v)", err, err)
	}
	if got := typeErr.Message(); got != "property z is not declared on Point" {
		t.Errorf("unexpected message %q", got)
	}
	if typeErr.Pos().Line != 6 {
		t.Errorf("expected error on line 6, got %d", typeErr.Pos().Line)
	}

	// without the bad access the literal is accepted
	checkOrFail(t, strings.TrimSuffix(input, "p.z"))
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"arity", "func add(a: number, b: number): number { return a + b }\nadd(1)",
			"function add expects 2 arguments, but 1 were given"},
		{"too many arguments", "func one(a: number) { }\none(1, 2)",
			"function one expects 1 arguments, but 2 were given"},
		{"method arity", "let xs = [1]\nxs.push(1, 2)",
			"method push expects 1 arguments, but 2 were given"},
		{"argument type", "let xs = [1]\nxs.push(\"a\")",
			"type string is not assignable to number"},
		{"unknown named argument", "func f(a: number) { }\nf(c: 1)",
			"function f has no parameter named c"},
		{"not callable", "let n = 1\nn()",
			"n is not a function"},
		{"const assignment", "const c = 1\nc = 2",
			"cannot assign to constant c"},
		{"const update", "const c = 1\nc++",
			"cannot assign to constant c"},
		{"compound assignment", "let s = 1\ns += \"a\"",
			"type string is not assignable to number"},
		{"invalid target", "1 = 2",
			"invalid assignment target 1"},
		{"binary operand", "let x = 1 - \"a\"",
			"operator - cannot be applied to number and string"},
		{"unary operand", "let x = -\"a\"",
			"operator - cannot be applied to string"},
		{"return outside function", "return 1",
			"return statement outside of a function"},
		{"return type", "func f(): number { return \"a\" }",
			"type string is not assignable to number"},
		{"circular alias", "type A = B\ntype B = A",
			"type alias A circularly references itself"},
		{"not iterable", "for x of 3 { }",
			"type number is not iterable"},
		{"loop element", "for s of [\"a\"] { let n: number = s }",
			"type string is not assignable to number"},
		{"missing member", "interface Named {\n name: string\n}\nclass A implements Named {\n id: number\n}",
			"class A does not implement Named: missing name"},
		{"this outside class", "let t = this",
			"this is only available inside a class"},
		{"new on interface", "interface I { }\nlet i = new I()",
			"I is not a class"},
		{"type arguments", "let m: Map<string> = 1",
			"type Map expects 2 type arguments, but 1 were given"},
		{"optional to required", "let n: number? = null\nlet s: string = n",
			"type number? is not assignable to string"},
		{"annotated default", "let d = \"s\"\nfunc f(x: number = d) { }",
			"type string is not assignable to number"},
		{"optional alias to required", "type N = number?\nlet n: N = null\nlet s: string = n",
			"type N is not assignable to string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkString(t, tt.input)
			var typeErr *errors.TypeError
			if !stderrors.As(err, &typeErr) {
				t.Fatalf("expected *errors.TypeError, got %T (%v)", err, err)
			}
			if got := typeErr.Message(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestReferenceErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x = y", "variable y is not declared"},
		{"let x: Shape = 1", "type Shape is not declared"},
		{"{ let inner = 1 }\ninner", "variable inner is not declared"},
		{"let b = new Missing()", "type Missing is not declared"},
	}
	for _, tt := range tests {
		_, err := checkString(t, tt.input)
		var refErr *errors.ReferenceError
		if !stderrors.As(err, &refErr) {
			t.Errorf("%q: expected *errors.ReferenceError, got %T (%v)", tt.input, err, err)
			continue
		}
		if got := refErr.Message(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		"let n: number? = null",
		"let a: any = 1\nlet s: string = a",
		"let xs: number[] = []",
		"interface Shape {\n area: number\n}\nclass Square implements Shape {\n area: number\n}",
		"class Node {\n value: number\n next: Node?\n}\nlet n: Node = { value: 1, next: null }",
		"let i = 0\nwhile i < 3 { i++ }",
		"for (let i = 0; i < 3; i += 1) { }",
		"outer: loop { break outer }",
		"do { } while false",
		"import { a, b as c } from \"m\"\nlet x = a + c",
		"export func f(): number { return 1 }",
		"if 1 < 2 { } else if true { } else { }",
		"type Pair<A, B> = { first: A, second: B }\nlet p: Pair<number, string> = { first: 1, second: \"s\" }",
		"func f(a: number, b: number = 2) { }\nf(1)",
		"class A {\n func me(): A { return this }\n}",
		"type N = number?\nlet n: N = null",
		"type Maybe<T> = T?\nlet s: Maybe<string> = null",
	}
	for _, input := range tests {
		if _, err := checkString(t, input); err != nil {
			t.Errorf("%q: unexpected error: %v", input, err)
		}
	}
}

func TestRecordsExpressionTypes(t *testing.T) {
	program, err := parser.ParseString("let x = 1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	result, err := c.CheckProgram(program)
	if err != nil {
		t.Fatal(err)
	}
	init := program.Statements[0].(*parser.VariableDeclaration).Initializer
	if got := types.TypeToString(result.Types[init]); got != "number" {
		t.Errorf("expected number for %s, got %s", init, got)
	}
	if c.TypeOf(init) != result.Types[init] {
		t.Errorf("TypeOf disagrees with Result.Types")
	}
}

func TestWithScopeKeepsBindings(t *testing.T) {
	scope := NewRootScope()
	for _, input := range []string{"let a = 1", "func f(): string { return \"\" }"} {
		program, err := parser.ParseString(input)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := New(WithScope(scope)).CheckProgram(program); err != nil {
			t.Fatalf("%q: %v", input, err)
		}
	}

	program, err := parser.ParseString("let b: string = a")
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(WithScope(scope)).CheckProgram(program)
	if err == nil || !strings.Contains(err.Error(), "type number is not assignable to string") {
		t.Errorf("expected a to keep its type across checkers, got %v", err)
	}
	if _, ok := scope.Lookup("f"); !ok {
		t.Errorf("expected f to be declared in the shared scope")
	}
}

func TestImportsAreCollected(t *testing.T) {
	result := checkOrFail(t, "import m from \"mod\"\nimport { x } from \"other\"")
	if len(result.Imports) != 2 || result.Imports[1].Source != "other" {
		t.Errorf("unexpected imports: %v", result.Imports)
	}
	if got := variableType(t, result, "m"); got != "any" {
		t.Errorf("expected imported binding to be any, got %s", got)
	}
}

func TestCallResolvesToReturnType(t *testing.T) {
	program, err := parser.ParseString("func add(a: number, b: number): number { return a + b } add(1, 2)")
	if err != nil {
		t.Fatal(err)
	}
	result, err := CheckProgram(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := program.Statements[1].(*parser.ExpressionStatement).Expression
	if got := types.TypeToString(result.Types[call]); got != "number" {
		t.Errorf("expected add(1, 2) to be number, got %s", got)
	}
}

func TestSingleLineClassBody(t *testing.T) {
	_, err := checkString(t, "class Point { x: number; y: number }\nlet p: Point = { x: 1, y: 2 }\np.z")
	var typeErr *errors.TypeError
	if !stderrors.As(err, &typeErr) || typeErr.Key != errors.MsgUndeclaredProp {
		t.Errorf("expected an undeclared property error, got %v", err)
	}
}

func TestDeclarationsSeeEarlierBindings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		variable string
		expected string
	}{
		{"property initializer", "let a = 1\nclass C { x = a }\nlet c = new C()\nlet n = c.x", "n", "number"},
		{"static initializer", "let a = \"s\"\nclass C {\n static let label = a\n}\nlet n = C.label", "n", "string"},
		{"parameter default", "let d = 1\nfunc f(x = d) { return x }\nlet n = f()", "n", "number"},
		{"method default", "let d = \"s\"\nclass C {\n func m(x = d) { return x }\n}\nlet c = new C()\nlet n = c.m()", "n", "string"},
		{"default sees earlier parameter", "func f(a: number, b = a) { return b }\nlet n = f(1)", "n", "number"},
		{"property read before declaration", "let c = new C()\nlet early = c.x\nclass C { x = 1 }", "early", "any"},
		{"call before declaration", "let early = f()\nfunc f(x = 1) { return x }", "early", "any"},
		{"default parameter type", "let d = 1\nfunc f(x = d) { }\nlet g = f", "g", "(x?: number) => void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkOrFail(t, tt.input)
			if got := variableType(t, result, tt.variable); got != tt.expected {
				t.Errorf("expected %s: %s, got %s", tt.variable, tt.expected, got)
			}
		})
	}
}

func TestSameNamedClassesStayDistinct(t *testing.T) {
	input := `class P { x: number }
let outer = new P()
func f() {
	class P { y: string }
	return [outer, new P()]
}
let xs = f()`
	result := checkOrFail(t, input)
	v, _ := result.Scope.Lookup("xs")
	elem, ok := types.ElementType(v.Type)
	if !ok {
		t.Fatalf("expected an array, got %s", types.TypeToString(v.Type))
	}
	if _, ok := types.Unwrap(elem).(*types.Union); !ok {
		t.Errorf("expected both classes named P in the element type, got %s", types.TypeToString(elem))
	}

	same := checkOrFail(t, "class P { x: number }\nlet xs = [new P(), new P()]")
	if got := variableType(t, same, "xs"); got != "Array<P>" {
		t.Errorf("expected instances of one class to collapse, got %s", got)
	}
}
