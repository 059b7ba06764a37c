package parser

import (
	"bytes"
	"strconv"
	"strings"

	"snff/pkg/errors"
	"snff/pkg/lexer"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes. The set of implementations is
// closed: every node embeds the token it starts at and reports its NodeKind.
type Node interface {
	Kind() NodeKind
	String() string // Source-like rendering, used for debugging and tests
	Pos() errors.Position
	node()
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// TypeNode represents a type annotation in the AST.
type TypeNode interface {
	Node
	typeNode()
	IsOptional() bool
}

// --- Program Node ---

// Program is the root node of the AST.
type Program struct {
	lexer.Token
	Statements []Statement
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statement Nodes ---

// BlockStatement is a brace-delimited statement list.
type BlockStatement struct {
	lexer.Token // The '{' token
	Statements  []Statement
}

func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// ExpressionStatement represents a statement consisting of a single expression.
type ExpressionStatement struct {
	lexer.Token // The first token of the expression
	Expression  Expression
}

func (es *ExpressionStatement) String() string { return es.Expression.String() }

// VariableDeclaration is `let`/`const` <Name> [: <Type>] [= <Initializer>].
// Class properties reuse it without the keyword.
type VariableDeclaration struct {
	lexer.Token
	Const          bool
	Keyword        string // "let", "const" or "" for class properties
	Name           string
	TypeAnnotation TypeNode
	Initializer    Expression
}

func (vd *VariableDeclaration) String() string {
	var out bytes.Buffer
	if vd.Keyword != "" {
		out.WriteString(vd.Keyword + " ")
	}
	out.WriteString(vd.Name)
	if vd.TypeAnnotation != nil {
		out.WriteString(": " + vd.TypeAnnotation.String())
	}
	if vd.Initializer != nil {
		out.WriteString(" = " + vd.Initializer.String())
	}
	return out.String()
}

// Parameter is a function parameter with optional type and default.
type Parameter struct {
	lexer.Token
	Name           string
	TypeAnnotation TypeNode
	Default        Expression
	Variadic       bool
}

func (p *Parameter) String() string {
	var out bytes.Buffer
	if p.Variadic {
		out.WriteString("...")
	}
	out.WriteString(p.Name)
	if p.TypeAnnotation != nil {
		out.WriteString(": " + p.TypeAnnotation.String())
	}
	if p.Default != nil {
		out.WriteString(" = " + p.Default.String())
	}
	return out.String()
}

func paramsString(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func typeParamsString(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

// FunctionDeclaration is `func <Name>[<T>](<Params>) [: <ReturnType>] <Body>`.
// Body is nil for interface method signatures.
type FunctionDeclaration struct {
	lexer.Token
	Name       string
	TypeParams []string
	Params     []*Parameter
	ReturnType TypeNode
	Body       *BlockStatement
}

func (fd *FunctionDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("func " + fd.Name + typeParamsString(fd.TypeParams) + paramsString(fd.Params))
	if fd.ReturnType != nil {
		out.WriteString(": " + fd.ReturnType.String())
	}
	if fd.Body != nil {
		out.WriteString(" " + fd.Body.String())
	}
	return out.String()
}

// Access is a class member access modifier.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

func modifiers(access Access, static bool) string {
	s := ""
	if access != Public {
		s = access.String() + " "
	}
	if static {
		s += "static "
	}
	return s
}

// ClassProperty is a field declared in a class body.
type ClassProperty struct {
	lexer.Token
	Access      Access
	Static      bool
	Declaration *VariableDeclaration
}

func (cp *ClassProperty) String() string {
	return modifiers(cp.Access, cp.Static) + cp.Declaration.String()
}

// ClassMethod is a method declared in a class body.
type ClassMethod struct {
	lexer.Token
	Access   Access
	Static   bool
	Function *FunctionDeclaration
}

func (cm *ClassMethod) String() string {
	return modifiers(cm.Access, cm.Static) + cm.Function.String()
}

// ClassOperator is an `operator <op>(...)` overload. Body is nil inside
// interfaces.
type ClassOperator struct {
	lexer.Token
	Access     Access
	Static     bool
	Operator   string
	Params     []*Parameter
	ReturnType TypeNode
	Body       *BlockStatement
}

func (co *ClassOperator) String() string {
	var out bytes.Buffer
	out.WriteString(modifiers(co.Access, co.Static) + "operator " + co.Operator + paramsString(co.Params))
	if co.ReturnType != nil {
		out.WriteString(": " + co.ReturnType.String())
	}
	if co.Body != nil {
		out.WriteString(" " + co.Body.String())
	}
	return out.String()
}

// ClassDeclaration is `class <Name> [extends X] [implements A, B] [with M] { ... }`.
type ClassDeclaration struct {
	lexer.Token
	Name       string
	TypeParams []string
	Extends    *Identifier
	Implements []TypeNode
	With       []*Identifier
	Properties []*ClassProperty
	Methods    []*ClassMethod
	Operators  []*ClassOperator
}

func (cd *ClassDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("class " + cd.Name + typeParamsString(cd.TypeParams))
	if cd.Extends != nil {
		out.WriteString(" extends " + cd.Extends.String())
	}
	if len(cd.Implements) > 0 {
		out.WriteString(" implements " + joinNodes(cd.Implements, ", "))
	}
	if len(cd.With) > 0 {
		out.WriteString(" with " + joinNodes(cd.With, ", "))
	}
	out.WriteString(" { ")
	for _, p := range cd.Properties {
		out.WriteString(p.String() + "; ")
	}
	for _, m := range cd.Methods {
		out.WriteString(m.String() + " ")
	}
	for _, o := range cd.Operators {
		out.WriteString(o.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// InterfaceProperty is `<Name>: <Type>` inside an interface body.
type InterfaceProperty struct {
	lexer.Token
	Name           string
	TypeAnnotation TypeNode
}

func (ip *InterfaceProperty) String() string {
	if ip.TypeAnnotation == nil {
		return ip.Name
	}
	return ip.Name + ": " + ip.TypeAnnotation.String()
}

// InterfaceMethod is a method signature inside an interface body.
type InterfaceMethod struct {
	lexer.Token
	Name       string
	Params     []*Parameter
	ReturnType TypeNode
}

func (im *InterfaceMethod) String() string {
	s := "func " + im.Name + paramsString(im.Params)
	if im.ReturnType != nil {
		s += ": " + im.ReturnType.String()
	}
	return s
}

// InterfaceDeclaration is `interface <Name> [extends A, B] { ... }`.
type InterfaceDeclaration struct {
	lexer.Token
	Name       string
	TypeParams []string
	Extends    []TypeNode
	Properties []*InterfaceProperty
	Methods    []*InterfaceMethod
	Operators  []*ClassOperator
}

func (id *InterfaceDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("interface " + id.Name + typeParamsString(id.TypeParams))
	if len(id.Extends) > 0 {
		out.WriteString(" extends " + joinNodes(id.Extends, ", "))
	}
	out.WriteString(" { ")
	for _, p := range id.Properties {
		out.WriteString(p.String() + "; ")
	}
	for _, m := range id.Methods {
		out.WriteString(m.String() + " ")
	}
	for _, o := range id.Operators {
		out.WriteString(o.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// TypeDeclaration is `type <Name> = <Type>`.
type TypeDeclaration struct {
	lexer.Token
	Name       string
	TypeParams []string
	Type       TypeNode
}

func (td *TypeDeclaration) String() string {
	return "type " + td.Name + typeParamsString(td.TypeParams) + " = " + td.Type.String()
}

// ImportSpecifier is one `name [as alias]` entry of an import list.
type ImportSpecifier struct {
	lexer.Token
	Name  string
	Alias string
}

func (is *ImportSpecifier) String() string {
	if is.Alias != "" {
		return is.Name + " as " + is.Alias
	}
	return is.Name
}

// LocalName is the binding introduced in the importing scope.
func (is *ImportSpecifier) LocalName() string {
	if is.Alias != "" {
		return is.Alias
	}
	return is.Name
}

// ImportDeclaration is `import <local> from "src"` or `import { a, b as c } from "src"`.
type ImportDeclaration struct {
	lexer.Token
	Local      string
	Specifiers []*ImportSpecifier
	Source     string
}

func (id *ImportDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("import ")
	if id.Local != "" {
		out.WriteString(id.Local)
	} else {
		out.WriteString("{ " + joinNodes(id.Specifiers, ", ") + " }")
	}
	out.WriteString(" from " + strconv.Quote(id.Source))
	return out.String()
}

// ExportDeclaration wraps a declaration made visible to importers.
type ExportDeclaration struct {
	lexer.Token
	Declaration Statement
}

func (ed *ExportDeclaration) String() string { return "export " + ed.Declaration.String() }

// IfStatement is `if <cond> <block> [else <block|if>]`.
type IfStatement struct {
	lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement or *IfStatement
}

func (is *IfStatement) String() string {
	s := "if " + is.Condition.String() + " " + is.Consequence.String()
	if is.Alternative != nil {
		s += " else " + is.Alternative.String()
	}
	return s
}

func labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return label + ": "
}

// LoopStatement is an unconditional `loop { }`.
type LoopStatement struct {
	lexer.Token
	Label string
	Body  *BlockStatement
}

func (ls *LoopStatement) String() string { return labelPrefix(ls.Label) + "loop " + ls.Body.String() }

// WhileStatement is `while <cond> { }`.
type WhileStatement struct {
	lexer.Token
	Label     string
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) String() string {
	return labelPrefix(ws.Label) + "while " + ws.Condition.String() + " " + ws.Body.String()
}

// DoWhileStatement is `do { } while <cond>`.
type DoWhileStatement struct {
	lexer.Token
	Label     string
	Body      *BlockStatement
	Condition Expression
}

func (dw *DoWhileStatement) String() string {
	return labelPrefix(dw.Label) + "do " + dw.Body.String() + " while " + dw.Condition.String()
}

// ForStatement is `for (<init>; <cond>; <update>) { }`. Every clause is optional.
type ForStatement struct {
	lexer.Token
	Label       string
	Initializer *VariableDeclaration
	Condition   Expression
	Update      Expression
	Body        *BlockStatement
}

func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString(labelPrefix(fs.Label) + "for (")
	if fs.Initializer != nil {
		out.WriteString(fs.Initializer.String())
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(") " + fs.Body.String())
	return out.String()
}

// ForOfStatement is `for <ident> of <iterable> { }`.
type ForOfStatement struct {
	lexer.Token
	Label    string
	Iterator *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fo *ForOfStatement) String() string {
	return labelPrefix(fo.Label) + "for " + fo.Iterator.String() + " of " + fo.Iterable.String() + " " + fo.Body.String()
}

// BreakStatement is `break [label]`.
type BreakStatement struct {
	lexer.Token
	Label string
}

func (bs *BreakStatement) String() string { return strings.TrimSpace("break " + bs.Label) }

// ContinueStatement is `continue [label]`.
type ContinueStatement struct {
	lexer.Token
	Label string
}

func (cs *ContinueStatement) String() string { return strings.TrimSpace("continue " + cs.Label) }

// ReturnStatement is `return [value]`.
type ReturnStatement struct {
	lexer.Token
	Value Expression
}

func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// --- Expression Nodes ---

// NumberLiteral represents numeric literals (integers or floats).
type NumberLiteral struct {
	lexer.Token
	Value float64
}

func (nl *NumberLiteral) String() string { return nl.Lexeme }

// StringLiteral holds the unquoted value; the token keeps the raw lexeme.
type StringLiteral struct {
	lexer.Token
	Value string
}

func (sl *StringLiteral) String() string { return sl.Lexeme }

// BooleanLiteral represents `true` or `false`.
type BooleanLiteral struct {
	lexer.Token
	Value bool
}

func (bl *BooleanLiteral) String() string { return strconv.FormatBool(bl.Value) }

// NullLiteral represents `null`.
type NullLiteral struct{ lexer.Token }

func (nl *NullLiteral) String() string { return "null" }

// VoidLiteral represents `void`.
type VoidLiteral struct{ lexer.Token }

func (vl *VoidLiteral) String() string { return "void" }

// InfinityLiteral represents `infinity`.
type InfinityLiteral struct{ lexer.Token }

func (il *InfinityLiteral) String() string { return "infinity" }

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct {
	lexer.Token
	Elements []Expression
}

func (al *ArrayLiteral) String() string { return "[" + joinNodes(al.Elements, ", ") + "]" }

// MapEntry is one `key: value` pair of a map literal. Computed keys are
// written `[expr]: value`.
type MapEntry struct {
	lexer.Token
	Key      Expression
	Computed bool
	Value    Expression
}

func (me *MapEntry) String() string {
	key := me.Key.String()
	if me.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + me.Value.String()
}

// KeyName returns the literal key name, or "" for computed keys.
func (me *MapEntry) KeyName() string {
	switch k := me.Key.(type) {
	case *Identifier:
		if !me.Computed {
			return k.Name
		}
	case *StringLiteral:
		if !me.Computed {
			return k.Value
		}
	}
	return ""
}

// MapLiteral is `{ key: value, ... }`.
type MapLiteral struct {
	lexer.Token
	Entries []*MapEntry
}

func (ml *MapLiteral) String() string { return "{" + joinNodes(ml.Entries, ", ") + "}" }

// Identifier represents a name in expression position.
type Identifier struct {
	lexer.Token
	Name string
}

func (i *Identifier) String() string { return i.Name }

// ThisExpression represents `this` inside a class body.
type ThisExpression struct{ lexer.Token }

func (te *ThisExpression) String() string { return "this" }

// BinaryOperator identifies the operation of a BinaryExpression.
type BinaryOperator string

const (
	OpAdd          BinaryOperator = "+"
	OpSubtract     BinaryOperator = "-"
	OpMultiply     BinaryOperator = "*"
	OpDivide       BinaryOperator = "/"
	OpModulo       BinaryOperator = "%"
	OpPower        BinaryOperator = "**"
	OpAnd          BinaryOperator = "&&"
	OpOr           BinaryOperator = "||"
	OpBitwiseAnd   BinaryOperator = "&"
	OpBitwiseOr    BinaryOperator = "|"
	OpBitwiseXor   BinaryOperator = "^"
	OpLeftShift    BinaryOperator = "<<"
	OpRightShift   BinaryOperator = ">>"
	OpLess         BinaryOperator = "<"
	OpLessEqual    BinaryOperator = "<="
	OpGreater      BinaryOperator = ">"
	OpGreaterEqual BinaryOperator = ">="
	OpEqual        BinaryOperator = "=="
	OpNotEqual     BinaryOperator = "!="
)

// BinaryExpression is `<left> <op> <right>`.
type BinaryExpression struct {
	lexer.Token // The operator token
	Operator    BinaryOperator
	Left        Expression
	Right       Expression
}

func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + string(be.Operator) + " " + be.Right.String() + ")"
}

// UnaryOperator identifies the operation of a UnaryExpression.
type UnaryOperator string

const (
	OpNot          UnaryOperator = "!"
	OpBitwiseNot   UnaryOperator = "~"
	OpNegative     UnaryOperator = "-"
	OpPositive     UnaryOperator = "+"
	OpPreIncrement UnaryOperator = "++"
	OpPreDecrement UnaryOperator = "--"
)

// UnaryExpression is a prefix operator applied to an operand.
type UnaryExpression struct {
	lexer.Token
	Operator UnaryOperator
	Operand  Expression
}

func (ue *UnaryExpression) String() string {
	return "(" + string(ue.Operator) + ue.Operand.String() + ")"
}

// UpdateExpression is a postfix `x++` / `x--` on an identifier.
type UpdateExpression struct {
	lexer.Token
	Operator string // "++" or "--"
	Target   *Identifier
}

func (ue *UpdateExpression) String() string { return "(" + ue.Target.Name + ue.Operator + ")" }

// AssignmentExpression is `<target> <op> <value>` with op one of = += -= *= /= %=.
type AssignmentExpression struct {
	lexer.Token
	Operator string
	Target   Expression
	Value    Expression
}

func (ae *AssignmentExpression) String() string {
	return "(" + ae.Target.String() + " " + ae.Operator + " " + ae.Value.String() + ")"
}

// MemberExpression is `obj.prop` or `obj[expr]`.
type MemberExpression struct {
	lexer.Token
	Object   Expression
	Property Expression // *Identifier when not computed
	Computed bool
}

func (me *MemberExpression) String() string {
	if me.Computed {
		return me.Object.String() + "[" + me.Property.String() + "]"
	}
	return me.Object.String() + "." + me.Property.String()
}

// PropertyName returns the dotted property name, or "" for computed access.
func (me *MemberExpression) PropertyName() string {
	if id, ok := me.Property.(*Identifier); ok && !me.Computed {
		return id.Name
	}
	return ""
}

// CallExpression is `<callee>(<args>)`.
type CallExpression struct {
	lexer.Token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) String() string {
	return ce.Callee.String() + "(" + joinNodes(ce.Arguments, ", ") + ")"
}

// NamedArgument is `name: value` inside a call's argument list.
type NamedArgument struct {
	lexer.Token
	Name  string
	Value Expression
}

func (na *NamedArgument) String() string { return na.Name + ": " + na.Value.String() }

// NewExpression is `new <Class>(<args>)`.
type NewExpression struct {
	lexer.Token
	Class     *Identifier
	Arguments []Expression
}

func (ne *NewExpression) String() string {
	return "new " + ne.Class.Name + "(" + joinNodes(ne.Arguments, ", ") + ")"
}

// --- Type Nodes ---

// TypeReference is a named type with optional generic arguments: `Name<A, B>?`.
type TypeReference struct {
	lexer.Token
	Name     string
	Args     []TypeNode
	Optional bool
}

func (tr *TypeReference) String() string {
	s := tr.Name
	if len(tr.Args) > 0 {
		s += "<" + joinNodes(tr.Args, ", ") + ">"
	}
	return s + optionalSuffix(tr.Optional)
}

// UnionTypeNode is `<left> | <right>`.
type UnionTypeNode struct {
	lexer.Token
	Left     TypeNode
	Right    TypeNode
	Optional bool
}

func (ut *UnionTypeNode) String() string {
	return "(" + ut.Left.String() + " | " + ut.Right.String() + ")" + optionalSuffix(ut.Optional)
}

// IntersectionTypeNode is `<left> & <right>`.
type IntersectionTypeNode struct {
	lexer.Token
	Left     TypeNode
	Right    TypeNode
	Optional bool
}

func (it *IntersectionTypeNode) String() string {
	return "(" + it.Left.String() + " & " + it.Right.String() + ")" + optionalSuffix(it.Optional)
}

// ObjectTypeEntry is one `key: Type` of an inline object type.
type ObjectTypeEntry struct {
	lexer.Token
	Key  string
	Type TypeNode
}

func (oe *ObjectTypeEntry) String() string { return oe.Key + ": " + oe.Type.String() }

// ObjectTypeNode is an inline structural type `{ a: A, b: B }`.
type ObjectTypeNode struct {
	lexer.Token
	Entries  []*ObjectTypeEntry
	Optional bool
}

func (ot *ObjectTypeNode) String() string {
	return "{" + joinNodes(ot.Entries, ", ") + "}" + optionalSuffix(ot.Optional)
}

func optionalSuffix(optional bool) string {
	if optional {
		return "?"
	}
	return ""
}

func (tr *TypeReference) IsOptional() bool        { return tr.Optional }
func (ut *UnionTypeNode) IsOptional() bool        { return ut.Optional }
func (it *IntersectionTypeNode) IsOptional() bool { return it.Optional }
func (ot *ObjectTypeNode) IsOptional() bool       { return ot.Optional }

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
