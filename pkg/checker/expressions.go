package checker

import (
	"github.com/hashicorp/go-set/v3"

	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

func (c *Checker) checkExpression(node parser.Expression, scope *Scope) (types.Type, error) {
	switch n := node.(type) {
	// --- Literals ---
	case *parser.NumberLiteral, *parser.InfinityLiteral:
		return types.Ref(types.Number), nil
	case *parser.StringLiteral:
		return types.Ref(types.String), nil
	case *parser.BooleanLiteral:
		return types.Ref(types.Boolean), nil
	case *parser.NullLiteral:
		return types.Ref(types.Null), nil
	case *parser.VoidLiteral:
		return types.Ref(types.Void), nil
	case *parser.ArrayLiteral:
		return c.checkArrayLiteral(n, scope)
	case *parser.MapLiteral:
		return c.checkMapLiteral(n, scope)

	// --- Names ---
	case *parser.Identifier:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, errors.NewReferenceError(n.Pos(), n.Name)
		}
		return v.Type, nil
	case *parser.ThisExpression:
		if c.this == nil {
			return nil, errors.NewTypeError(n.Pos(), errors.MsgThisOutside)
		}
		return c.this, nil

	// --- Operators ---
	case *parser.BinaryExpression:
		return c.checkBinaryExpression(n, scope)
	case *parser.UnaryExpression:
		return c.checkUnaryExpression(n, scope)
	case *parser.UpdateExpression:
		return c.checkUpdateExpression(n, scope)
	case *parser.AssignmentExpression:
		return c.checkAssignmentExpression(n, scope)

	// --- Access and calls ---
	case *parser.MemberExpression:
		return c.checkMemberExpression(n, scope)
	case *parser.CallExpression:
		return c.checkCallExpression(n, scope)
	case *parser.NewExpression:
		return c.checkNewExpression(n, scope)
	case *parser.NamedArgument:
		return c.Check(n.Value, scope)
	}
	return types.Any, nil
}

// distinct drops repeated types. Named types compare by declaration.
func distinct(ts []types.Type) []types.Type {
	seen := set.New[string](len(ts))
	out := make([]types.Type, 0, len(ts))
	for _, t := range ts {
		if seen.Insert(types.Identity(t)) {
			out = append(out, t)
		}
	}
	return out
}

// checkArrayLiteral infers Array<E> where E is the union of the distinct
// element types. An empty literal is the bare Array.
func (c *Checker) checkArrayLiteral(n *parser.ArrayLiteral, scope *Scope) (types.Type, error) {
	if len(n.Elements) == 0 {
		return types.Ref(types.Array), nil
	}
	elems := make([]types.Type, 0, len(n.Elements))
	for _, el := range n.Elements {
		t, err := c.Check(el, scope)
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
	}
	return types.ArrayOf(types.NewUnion(distinct(elems)...)), nil
}

// checkMapLiteral infers an anonymous class with one property per literal
// key. Computed keys are checked but add no property.
func (c *Checker) checkMapLiteral(n *parser.MapLiteral, scope *Scope) (types.Type, error) {
	cls := &types.Class{}
	for _, entry := range n.Entries {
		if entry.Computed {
			if _, err := c.Check(entry.Key, scope); err != nil {
				return nil, err
			}
		}
		t, err := c.Check(entry.Value, scope)
		if err != nil {
			return nil, err
		}
		if name := entry.KeyName(); name != "" {
			cls.AddProperty(&types.Property{Name: name, Type: t})
		}
	}
	return cls, nil
}

// --- Operators ---

func isNumber(t types.Type) bool { return types.IsAssignable(t, types.Number) }

func isString(t types.Type) bool { return types.Unwrap(t) == types.String }

// overload returns the operator overload declared by the class of t.
func overload(t types.Type, op string) (*types.Function, bool) {
	cls, ok := types.ClassOf(t)
	if !ok || cls.Operators == nil {
		return nil, false
	}
	fn, ok := cls.Operators[op]
	return fn, ok
}

func returnOf(fn *types.Function) types.Type {
	if fn.Return == nil {
		return types.Any
	}
	return fn.Return
}

// binaryType computes the result type of `left op right`. at positions the
// error.
func binaryType(at parser.Node, op parser.BinaryOperator, left, right types.Type) (types.Type, error) {
	if fn, ok := overload(left, string(op)); ok {
		if len(fn.Params) > 0 && !types.IsAssignable(right, fn.Params[0].Type) {
			return nil, notAssignable(at, right, fn.Params[0].Type)
		}
		return returnOf(fn), nil
	}

	mismatch := func() error {
		return errors.NewTypeError(at.Pos(), errors.MsgBinaryOperand, string(op), types.TypeToString(left), types.TypeToString(right))
	}

	switch op {
	case parser.OpAdd:
		if isString(left) || isString(right) {
			return types.Ref(types.String), nil
		}
		if isNumber(left) && isNumber(right) {
			return types.Ref(types.Number), nil
		}
		return nil, mismatch()

	case parser.OpSubtract, parser.OpMultiply, parser.OpDivide, parser.OpModulo, parser.OpPower,
		parser.OpBitwiseAnd, parser.OpBitwiseOr, parser.OpBitwiseXor, parser.OpLeftShift, parser.OpRightShift:
		if isNumber(left) && isNumber(right) {
			return types.Ref(types.Number), nil
		}
		return nil, mismatch()

	case parser.OpLess, parser.OpLessEqual, parser.OpGreater, parser.OpGreaterEqual:
		if (isNumber(left) && isNumber(right)) || (isString(left) && isString(right)) {
			return types.Ref(types.Boolean), nil
		}
		return nil, mismatch()

	case parser.OpEqual, parser.OpNotEqual, parser.OpAnd, parser.OpOr:
		return types.Ref(types.Boolean), nil
	}
	return nil, mismatch()
}

func (c *Checker) checkBinaryExpression(n *parser.BinaryExpression, scope *Scope) (types.Type, error) {
	left, err := c.Check(n.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := c.Check(n.Right, scope)
	if err != nil {
		return nil, err
	}
	return binaryType(n, n.Operator, left, right)
}

func (c *Checker) checkUnaryExpression(n *parser.UnaryExpression, scope *Scope) (types.Type, error) {
	operand, err := c.Check(n.Operand, scope)
	if err != nil {
		return nil, err
	}
	if fn, ok := overload(operand, string(n.Operator)); ok && len(fn.Params) == 0 {
		return returnOf(fn), nil
	}

	switch n.Operator {
	case parser.OpNot:
		return types.Ref(types.Boolean), nil
	case parser.OpPreIncrement, parser.OpPreDecrement:
		if err := c.checkMutable(n.Operand, scope); err != nil {
			return nil, err
		}
	}
	if !isNumber(operand) {
		return nil, errors.NewTypeError(n.Pos(), errors.MsgUnaryOperand, string(n.Operator), types.TypeToString(operand))
	}
	return types.Ref(types.Number), nil
}

func (c *Checker) checkUpdateExpression(n *parser.UpdateExpression, scope *Scope) (types.Type, error) {
	target, err := c.Check(n.Target, scope)
	if err != nil {
		return nil, err
	}
	if err := c.checkMutable(n.Target, scope); err != nil {
		return nil, err
	}
	if !isNumber(target) {
		return nil, errors.NewTypeError(n.Pos(), errors.MsgUnaryOperand, n.Operator, types.TypeToString(target))
	}
	return types.Ref(types.Number), nil
}

// checkMutable rejects assignment to anything but a non-constant variable
// or a non-constant property.
func (c *Checker) checkMutable(target parser.Expression, scope *Scope) error {
	switch t := target.(type) {
	case *parser.Identifier:
		v, ok := scope.Lookup(t.Name)
		if !ok {
			return errors.NewReferenceError(t.Pos(), t.Name)
		}
		if v.Const {
			return errors.NewTypeError(t.Pos(), errors.MsgConstAssign, t.Name)
		}
		return nil
	case *parser.MemberExpression:
		name := t.PropertyName()
		if name == "" {
			return nil
		}
		obj, ok := c.exprTypes[t.Object]
		if !ok {
			return nil
		}
		if cls, ok := types.ClassOf(obj); ok {
			if p, ok := cls.Property(name); ok && p.Const {
				return errors.NewTypeError(t.Property.Pos(), errors.MsgConstAssign, name)
			}
		}
		return nil
	}
	return errors.NewTypeError(target.Pos(), errors.MsgInvalidTarget, target.String())
}

var compoundOperators = map[string]parser.BinaryOperator{
	"+=": parser.OpAdd,
	"-=": parser.OpSubtract,
	"*=": parser.OpMultiply,
	"/=": parser.OpDivide,
	"%=": parser.OpModulo,
}

func (c *Checker) checkAssignmentExpression(n *parser.AssignmentExpression, scope *Scope) (types.Type, error) {
	target, err := c.Check(n.Target, scope)
	if err != nil {
		return nil, err
	}
	if err := c.checkMutable(n.Target, scope); err != nil {
		return nil, err
	}
	value, err := c.Check(n.Value, scope)
	if err != nil {
		return nil, err
	}
	if op, ok := compoundOperators[n.Operator]; ok {
		if value, err = binaryType(n, op, target, value); err != nil {
			return nil, err
		}
	}
	if !types.IsAssignable(value, target) {
		return nil, notAssignable(n.Value, value, target)
	}
	return target, nil
}

// --- Member access ---

func (c *Checker) checkMemberExpression(n *parser.MemberExpression, scope *Scope) (types.Type, error) {
	obj, err := c.Check(n.Object, scope)
	if err != nil {
		return nil, err
	}
	if n.Computed {
		return c.checkIndex(n, obj, scope)
	}

	name := n.PropertyName()
	if types.Unwrap(obj) == types.Any {
		return types.Any, nil
	}
	if cls, ok := types.ClassOf(obj); ok {
		if t, ok := cls.Member(name); ok {
			c.exprTypes[n.Property] = t
			return t, nil
		}
	}
	return nil, errors.NewTypeError(n.Property.Pos(), errors.MsgUndeclaredProp, name, types.TypeToString(obj))
}

// checkIndex types obj[index]: arrays take numbers, Map<K, V> takes K, and
// a string literal index on a class reads the named member.
func (c *Checker) checkIndex(n *parser.MemberExpression, obj types.Type, scope *Scope) (types.Type, error) {
	index, err := c.Check(n.Property, scope)
	if err != nil {
		return nil, err
	}
	if elem, ok := types.ElementType(obj); ok {
		if !isNumber(index) {
			return nil, notAssignable(n.Property, index, types.Number)
		}
		return elem, nil
	}

	switch u := types.Unwrap(obj).(type) {
	case *types.Reference:
		if types.Unwrap(u.Decl) == types.Map && len(u.Args) == 2 {
			if !types.IsAssignable(index, u.Args[0]) {
				return nil, notAssignable(n.Property, index, u.Args[0])
			}
			return u.Args[1], nil
		}
	case *types.Class:
		if u == types.String {
			if !isNumber(index) {
				return nil, notAssignable(n.Property, index, types.Number)
			}
			return types.Ref(types.String), nil
		}
	}

	if key, ok := n.Property.(*parser.StringLiteral); ok {
		if cls, ok := types.ClassOf(obj); ok && !cls.IsPrimitive() {
			if t, ok := cls.Member(key.Value); ok {
				return t, nil
			}
			return nil, errors.NewTypeError(key.Pos(), errors.MsgUndeclaredProp, key.Value, types.TypeToString(obj))
		}
	}
	return types.Any, nil
}
