package checker

import (
	"fmt"

	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// functionContext tracks the function whose body is being checked.
type functionContext struct {
	fn      *types.Function
	infer   bool // no declared return type; collect returns instead
	returns []types.Type
}

// pendingDecl is a class or interface whose members are not resolved yet.
type pendingDecl struct {
	node  parser.Statement
	scope *Scope
}

// Checker walks an AST, infers expression types and reports the first type
// or reference error. A Checker is not safe for concurrent use.
type Checker struct {
	root      *Scope
	exprTypes map[parser.Expression]types.Type
	imports   []*parser.ImportDeclaration

	fn   *functionContext
	this *types.Class

	// hoisted declarations, keyed by their AST node
	classes    map[*parser.ClassDeclaration]*types.Class
	interfaces map[*parser.InterfaceDeclaration]*types.Class
	aliases    map[*parser.TypeDeclaration]*types.Alias
	signatures map[*parser.FunctionDeclaration]*types.Function
	operators  map[*parser.ClassOperator]*types.Function
	statics    map[*types.Class]*types.Class
	pending    map[*types.Class]pendingDecl
}

// Option configures a Checker.
type Option func(*Checker)

// WithScope makes the checker declare top-level bindings into scope instead
// of a fresh root scope. The REPL uses it to keep bindings across inputs.
func WithScope(scope *Scope) Option {
	return func(c *Checker) { c.root = scope }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		exprTypes:  make(map[parser.Expression]types.Type),
		classes:    make(map[*parser.ClassDeclaration]*types.Class),
		interfaces: make(map[*parser.InterfaceDeclaration]*types.Class),
		aliases:    make(map[*parser.TypeDeclaration]*types.Alias),
		signatures: make(map[*parser.FunctionDeclaration]*types.Function),
		operators:  make(map[*parser.ClassOperator]*types.Function),
		statics:    make(map[*types.Class]*types.Class),
		pending:    make(map[*types.Class]pendingDecl),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.root == nil {
		c.root = NewRootScope()
	}
	return c
}

// Result is the outcome of checking a program.
type Result struct {
	Scope   *Scope                            // top-level bindings
	Types   map[parser.Expression]types.Type // inferred type of every expression
	Imports []*parser.ImportDeclaration
}

// CheckProgram checks prog in a fresh root scope.
func CheckProgram(prog *parser.Program) (*Result, error) {
	return New().CheckProgram(prog)
}

// CheckProgram checks prog in the checker's root scope.
func (c *Checker) CheckProgram(prog *parser.Program) (*Result, error) {
	if _, err := c.Check(prog, c.root); err != nil {
		return nil, err
	}
	return &Result{Scope: c.root, Types: c.exprTypes, Imports: c.imports}, nil
}

// TypeOf returns the type inferred for expr by an earlier Check.
func (c *Checker) TypeOf(expr parser.Expression) types.Type {
	return c.exprTypes[expr]
}

// Check checks node in scope and returns its type: the inferred type of an
// expression, or the declared type of a declaration. Statements without a
// type return nil.
func (c *Checker) Check(node parser.Node, scope *Scope) (types.Type, error) {
	debugPrintf("// [Checker] %s at %d:%d\n", node.Kind(), node.Pos().Line, node.Pos().Column)

	switch n := node.(type) {
	// --- Statements ---
	case *parser.Program:
		return nil, c.checkStatements(n.Statements, scope)
	case *parser.BlockStatement:
		return nil, c.checkStatements(n.Statements, scope.Fork())
	case *parser.ExpressionStatement:
		return c.Check(n.Expression, scope)
	case *parser.VariableDeclaration:
		return c.checkVariableDeclaration(n, scope)
	case *parser.FunctionDeclaration:
		return c.checkFunctionDeclaration(n, scope)
	case *parser.ClassDeclaration:
		return c.checkClassDeclaration(n, scope)
	case *parser.InterfaceDeclaration:
		return c.checkInterfaceDeclaration(n, scope)
	case *parser.TypeDeclaration:
		return c.checkTypeDeclaration(n, scope)
	case *parser.ImportDeclaration:
		c.checkImportDeclaration(n, scope)
		return nil, nil
	case *parser.ExportDeclaration:
		return c.Check(n.Declaration, scope)
	case *parser.IfStatement:
		return nil, c.checkIfStatement(n, scope)
	case *parser.LoopStatement:
		return c.Check(n.Body, scope)
	case *parser.WhileStatement:
		if _, err := c.Check(n.Condition, scope); err != nil {
			return nil, err
		}
		return c.Check(n.Body, scope)
	case *parser.DoWhileStatement:
		if _, err := c.Check(n.Body, scope); err != nil {
			return nil, err
		}
		_, err := c.Check(n.Condition, scope)
		return nil, err
	case *parser.ForStatement:
		return nil, c.checkForStatement(n, scope)
	case *parser.ForOfStatement:
		return nil, c.checkForOfStatement(n, scope)
	case *parser.BreakStatement, *parser.ContinueStatement:
		return nil, nil
	case *parser.ReturnStatement:
		return nil, c.checkReturnStatement(n, scope)

	// --- Expressions ---
	case parser.Expression:
		t, err := c.checkExpression(n, scope)
		if err != nil {
			return nil, err
		}
		c.exprTypes[n] = t
		return t, nil

	// --- Parts of other nodes, checked by their owners ---
	case *parser.Parameter, *parser.ClassProperty, *parser.ClassMethod, *parser.ClassOperator,
		*parser.InterfaceProperty, *parser.InterfaceMethod, *parser.ImportSpecifier,
		*parser.MapEntry, *parser.ObjectTypeEntry:
		return nil, nil
	case parser.TypeNode:
		return c.resolveType(n, scope)
	}
	return nil, nil
}

func (c *Checker) checkStatements(stmts []parser.Statement, scope *Scope) error {
	if err := c.hoist(stmts, scope); err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := c.Check(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkVariableDeclaration(n *parser.VariableDeclaration, scope *Scope) (types.Type, error) {
	var declared, inferred types.Type
	var err error
	if n.TypeAnnotation != nil {
		if declared, err = c.resolveType(n.TypeAnnotation, scope); err != nil {
			return nil, err
		}
	}
	if n.Initializer != nil {
		if inferred, err = c.Check(n.Initializer, scope); err != nil {
			return nil, err
		}
		if declared != nil && !types.IsAssignable(inferred, declared) {
			return nil, notAssignable(n.Initializer, inferred, declared)
		}
	}

	t := declared
	if t == nil {
		t = inferred
	}
	if t == nil {
		t = types.Any
	}
	scope.Declare(n.Name, t, n.Const)
	return t, nil
}

func (c *Checker) checkIfStatement(n *parser.IfStatement, scope *Scope) error {
	if _, err := c.Check(n.Condition, scope); err != nil {
		return err
	}
	if _, err := c.Check(n.Consequence, scope); err != nil {
		return err
	}
	if n.Alternative != nil {
		if _, err := c.Check(n.Alternative, scope); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkForStatement(n *parser.ForStatement, scope *Scope) error {
	inner := scope.Fork()
	if n.Initializer != nil {
		if _, err := c.Check(n.Initializer, inner); err != nil {
			return err
		}
	}
	for _, expr := range []parser.Expression{n.Condition, n.Update} {
		if expr == nil {
			continue
		}
		if _, err := c.Check(expr, inner); err != nil {
			return err
		}
	}
	_, err := c.Check(n.Body, inner)
	return err
}

func (c *Checker) checkForOfStatement(n *parser.ForOfStatement, scope *Scope) error {
	iterable, err := c.Check(n.Iterable, scope)
	if err != nil {
		return err
	}
	elem, ok := types.ElementType(iterable)
	if !ok {
		switch types.Unwrap(iterable) {
		case types.Any:
			elem = types.Any
		case types.String:
			elem = types.Ref(types.String)
		default:
			return errors.NewTypeError(n.Iterable.Pos(), errors.MsgNotIterable, types.TypeToString(iterable))
		}
	}
	inner := scope.Fork()
	inner.Declare(n.Iterator.Name, elem, false)
	c.exprTypes[n.Iterator] = elem
	_, err = c.Check(n.Body, inner)
	return err
}

func (c *Checker) checkReturnStatement(n *parser.ReturnStatement, scope *Scope) error {
	if c.fn == nil {
		return errors.NewTypeError(n.Pos(), errors.MsgReturnOutside)
	}
	var t types.Type = types.Ref(types.Void)
	if n.Value != nil {
		var err error
		if t, err = c.Check(n.Value, scope); err != nil {
			return err
		}
	}
	if c.fn.infer {
		c.fn.returns = append(c.fn.returns, t)
		return nil
	}
	if !types.IsAssignable(t, c.fn.fn.Return) {
		var at parser.Node = n
		if n.Value != nil {
			at = n.Value
		}
		return notAssignable(at, t, c.fn.fn.Return)
	}
	return nil
}

func (c *Checker) checkImportDeclaration(n *parser.ImportDeclaration, scope *Scope) {
	if n.Local != "" {
		scope.Declare(n.Local, types.Any, true)
	}
	for _, spec := range n.Specifiers {
		scope.Declare(spec.LocalName(), types.Any, true)
	}
	c.imports = append(c.imports, n)
}

func notAssignable(at parser.Node, value, target types.Type) *errors.TypeError {
	return errors.NewTypeError(at.Pos(), errors.MsgNotAssignable, types.TypeToString(value), types.TypeToString(target))
}
