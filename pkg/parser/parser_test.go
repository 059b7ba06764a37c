package parser

import (
	stderrors "errors"
	"testing"

	"snff/pkg/errors"
)

func parseOrFail(t *testing.T, input string) *Program {
	t.Helper()
	program, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", input, err)
	}
	return program
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"2 * 3 ** 2", "(2 * (3 ** 2))"},
		{"a < b && c > d", "((a < b) && (c > d))"},
		{"a + 1 < b * 2", "((a + 1) < (b * 2))"},
		{"a == b != c", "((a == b) != c)"},
		{"a < b == c", "((a < b) == c)"},
		{"a && b || c", "((a && b) || c)"},
		{"a << 1 & b", "(a << (1 & b))"},
		{"a & b < c", "((a & b) < c)"},
		{"a < b & c", "(a < (b & c))"},
		{"a << 1 < b", "((a << 1) < b)"},
		{"a < b + c", "(a < (b + c))"},
		{"x = y = 3", "(x = (y = 3))"},
		{"x += 1 + 2", "(x += (1 + 2))"},
		{"-a * b", "(-(a * b))"},
		{"!done", "(!done)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"i++", "(i++)"},
		{"a.b.c", "a.b.c"},
		{"a[0].b", "a[0].b"},
		{"f(1, 2)(3)", "f(1, 2)(3)"},
		{"obj.method(x + 1)", "obj.method((x + 1))"},
		{"f(a, b: 2)", "f(a, b: 2)"},
		{"new Point(1, 2)", "new Point(1, 2)"},
		{"this.x", "this.x"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[1, 2,]", "[1, 2]"},
		{"true && null", "(true && null)"},
		{"infinity", "infinity"},
	}

	for _, tt := range tests {
		program := parseOrFail(t, tt.input)
		if len(program.Statements) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
			continue
		}
		if got := program.String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestMapLiteralEntries(t *testing.T) {
	program := parseOrFail(t, `x = {a: 1, "b": 2, [k]: 3}`)
	assign := program.Statements[0].(*ExpressionStatement).Expression.(*AssignmentExpression)
	m, ok := assign.Value.(*MapLiteral)
	if !ok {
		t.Fatalf("expected *MapLiteral, got %T", assign.Value)
	}
	keys := []string{"a", "b", ""}
	for i, entry := range m.Entries {
		if entry.KeyName() != keys[i] {
			t.Errorf("entry %d: expected key %q, got %q", i, keys[i], entry.KeyName())
		}
	}
	if !m.Entries[2].Computed {
		t.Errorf("expected third entry to be computed")
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x: number = 1", "let x: number = 1"},
		{"let y", "let y"},
		{"const s = \"hi\"", "const s = \"hi\""},
		{"if a { b } else if c { d } else { e }", "if a { b } else if c { d } else { e }"},
		{"loop { break }", "loop { break }"},
		{"outer: loop { continue outer }", "outer: loop { continue outer }"},
		{"while x < 3 { x++ }", "while (x < 3) { (x++) }"},
		{"do { x++ } while x < 3", "do { (x++) } while (x < 3)"},
		{"for (let i = 0; i < 3; i++) { }", "for (let i = 0; (i < 3); (i++)) { }"},
		{"for x of xs { }", "for x of xs { }"},
		{"return", "return"},
		{"{ 1; 2 }", "{ 1 2 }"},
	}

	for _, tt := range tests {
		program := parseOrFail(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestFunctionDeclaration(t *testing.T) {
	program := parseOrFail(t, "func add<T>(a: number, b: number = 1, ...rest: number[]): number { return a + b }")
	fn, ok := program.Statements[0].(*FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *FunctionDeclaration, got %T", program.Statements[0])
	}
	if fn.Name != "add" || len(fn.TypeParams) != 1 || fn.TypeParams[0] != "T" {
		t.Errorf("unexpected name or type params: %s %v", fn.Name, fn.TypeParams)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Errorf("expected default on second param")
	}
	if !fn.Params[2].Variadic {
		t.Errorf("expected third param to be variadic")
	}
	if got := fn.Params[2].TypeAnnotation.String(); got != "Array<number>" {
		t.Errorf("expected rest type Array<number>, got %s", got)
	}
	if fn.ReturnType.String() != "number" {
		t.Errorf("expected return type number, got %s", fn.ReturnType)
	}
}

func TestVariadicMustBeLast(t *testing.T) {
	_, err := ParseString("func f(...a: number[], b: number) { }")
	var syntaxErr *errors.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestClassDeclaration(t *testing.T) {
	input := `class Point<T> extends Base implements Shape, Named<T> with Mixin {
		x: number
		private static let count: number = 0
		protected func norm(): number { return this.x }
		operator +(other: Point): Point { return other }
		operator new(x: number) { }
	}`
	program := parseOrFail(t, input)
	class, ok := program.Statements[0].(*ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ClassDeclaration, got %T", program.Statements[0])
	}
	if class.Extends == nil || class.Extends.Name != "Base" {
		t.Errorf("expected extends Base")
	}
	if len(class.Implements) != 2 || class.Implements[1].String() != "Named<T>" {
		t.Errorf("unexpected implements: %v", class.Implements)
	}
	if len(class.With) != 1 {
		t.Errorf("expected one mixin, got %d", len(class.With))
	}
	if len(class.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(class.Properties))
	}
	if class.Properties[0].Declaration.Keyword != "" {
		t.Errorf("expected bare property, got keyword %q", class.Properties[0].Declaration.Keyword)
	}
	count := class.Properties[1]
	if count.Access != Private || !count.Static || count.Declaration.Initializer == nil {
		t.Errorf("unexpected count property: %+v", count)
	}
	if len(class.Methods) != 1 || class.Methods[0].Access != Protected {
		t.Errorf("expected one protected method")
	}
	if len(class.Operators) != 2 || class.Operators[0].Operator != "+" || class.Operators[1].Operator != "new" {
		t.Errorf("unexpected operators: %v", class.Operators)
	}
}

func TestInterfaceAndTypeDeclarations(t *testing.T) {
	input := `interface Shape extends Named {
		area: number
		func scale(by: number): Shape
		operator ==(other: Shape): boolean
	}
	type Pair<A, B> = { first: A, second: B }
	type Id = number | string?`
	program := parseOrFail(t, input)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	iface := program.Statements[0].(*InterfaceDeclaration)
	if len(iface.Properties) != 1 || len(iface.Methods) != 1 || len(iface.Operators) != 1 {
		t.Errorf("unexpected interface members: %s", iface)
	}
	if iface.Operators[0].Body != nil {
		t.Errorf("interface operator must not have a body")
	}
	pair := program.Statements[1].(*TypeDeclaration)
	if len(pair.TypeParams) != 2 {
		t.Errorf("expected 2 type params, got %v", pair.TypeParams)
	}
	if _, ok := pair.Type.(*ObjectTypeNode); !ok {
		t.Errorf("expected object type, got %T", pair.Type)
	}
	id := program.Statements[2].(*TypeDeclaration)
	union, ok := id.Type.(*UnionTypeNode)
	if !ok {
		t.Fatalf("expected union, got %T", id.Type)
	}
	if !union.Right.IsOptional() {
		t.Errorf("expected optional right side")
	}
}

func TestTypeRefShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let a: number[]", "let a: Array<number>"},
		{"let a: number[][]", "let a: Array<Array<number>>"},
		{"let a: Array<Array<number>>", "let a: Array<Array<number>>"},
		{"let a: A | B & C", "let a: (A | (B & C))"},
		{"let a: A & B | C", "let a: (A & (B | C))"},
		{"let a: (A | B)[]", "let a: Array<(A | B)>"},
		{"let a: Map<string, number>?", "let a: Map<string, number>?"},
		{"let a: null", "let a: null"},
	}
	for _, tt := range tests {
		program := parseOrFail(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestImportExport(t *testing.T) {
	program := parseOrFail(t, `import { a, b as c } from "lib"
	import d from "other"
	export func f() { }`)
	imp := program.Statements[0].(*ImportDeclaration)
	if imp.Source != "lib" || len(imp.Specifiers) != 2 || imp.Specifiers[1].LocalName() != "c" {
		t.Errorf("unexpected import: %s", imp)
	}
	if def := program.Statements[1].(*ImportDeclaration); def.Local != "d" {
		t.Errorf("expected default import d, got %q", def.Local)
	}
	exp := program.Statements[2].(*ExportDeclaration)
	if _, ok := exp.Declaration.(*FunctionDeclaration); !ok {
		t.Errorf("expected exported function, got %T", exp.Declaration)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input    string
		got      string
		expected string
	}{
		{"let x = \"abc", "unterminated string", `"\""`},
		{"if x { let y = 1", "EOF", `"}"`},
		{"f(1, 2", "EOF", `")"`},
		{"let = 3", `"="`, "IdentifierToken"},
		{"const c: number", "EOF", `"="`},
		{"let x = 1 +", "EOF", "Expression"},
		{"outer: x = 1", "IdentifierToken", "loop statement"},
		{"}", `"}"`, "Statement"},
	}

	for _, tt := range tests {
		_, err := ParseString(tt.input)
		var syntaxErr *errors.SyntaxError
		if !stderrors.As(err, &syntaxErr) {
			t.Errorf("%q: expected SyntaxError, got %v", tt.input, err)
			continue
		}
		if syntaxErr.Got != tt.got || syntaxErr.Expected != tt.expected {
			t.Errorf("%q: expected got=%s expected=%s, got got=%s expected=%s",
				tt.input, tt.got, tt.expected, syntaxErr.Got, syntaxErr.Expected)
		}
	}
}

func TestLexErrorSurfaces(t *testing.T) {
	_, err := ParseString("let x = 1 @ 2")
	var lexErr *errors.LexError
	if !stderrors.As(err, &lexErr) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if lexErr.Char != '@' {
		t.Errorf("expected '@', got %q", lexErr.Char)
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "class A { x: number } let a = new A(x: 1); for v of [1, 2] { a.x += v }"
	first := parseOrFail(t, input).String()
	for range 5 {
		if got := parseOrFail(t, input).String(); got != first {
			t.Fatalf("parse is not deterministic:\n%s\n%s", first, got)
		}
	}
}

func TestNodeKinds(t *testing.T) {
	program := parseOrFail(t, "let x = 1")
	if program.Kind() != KindProgram {
		t.Errorf("expected KindProgram, got %s", program.Kind())
	}
	decl := program.Statements[0]
	if decl.Kind() != KindVariableDeclaration || decl.Kind().String() != "VariableDeclaration" {
		t.Errorf("unexpected kind %s", decl.Kind())
	}
	if pos := decl.Pos(); pos.Line != 1 || pos.Column != 1 {
		t.Errorf("expected position 1:1, got %d:%d", pos.Line, pos.Column)
	}
}
