package checker

import (
	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

// callee describes what is being called, for diagnostics.
type callee struct {
	name   string
	method bool
}

func describeCallee(expr parser.Expression, t types.Type) callee {
	switch e := expr.(type) {
	case *parser.Identifier:
		return callee{name: e.Name}
	case *parser.MemberExpression:
		if name := e.PropertyName(); name != "" {
			return callee{name: name, method: true}
		}
	}
	return callee{name: types.TypeToString(t)}
}

func (c *Checker) checkCallExpression(n *parser.CallExpression, scope *Scope) (types.Type, error) {
	t, err := c.Check(n.Callee, scope)
	if err != nil {
		return nil, err
	}
	who := describeCallee(n.Callee, t)

	var fn *types.Function
	switch u := types.Unwrap(t).(type) {
	case *types.Function:
		fn = u
	case *types.Class:
		if u == types.Any {
			for _, arg := range n.Arguments {
				if _, err := c.Check(arg, scope); err != nil {
					return nil, err
				}
			}
			return types.Any, nil
		}
	}
	if fn == nil {
		if op, ok := overload(t, "call"); ok {
			fn = op
		}
	}
	if fn == nil {
		return nil, errors.NewTypeError(n.Callee.Pos(), errors.MsgNotCallable, who.name)
	}

	ret, _, err := c.checkArguments(fn, who, n, n.Arguments, scope)
	return ret, err
}

// checkNewExpression types `new C(args)`. The constructor is the class's
// `operator new`, or a `constructor` method. Generic class arguments are
// inferred from the constructor arguments.
func (c *Checker) checkNewExpression(n *parser.NewExpression, scope *Scope) (types.Type, error) {
	name := n.Class.Name
	t, ok := scope.LookupType(name)
	if !ok {
		return nil, errors.NewTypeReferenceError(n.Class.Pos(), name)
	}
	cls, ok := types.Unwrap(t).(*types.Class)
	if !ok || cls.IsPrimitive() || cls.IsTypeParam() || cls.Interface {
		return nil, errors.NewTypeError(n.Class.Pos(), errors.MsgNotConstructible, name)
	}
	if err := c.complete(cls); err != nil {
		return nil, err
	}

	ctor, ok := cls.Operators["new"]
	if !ok {
		ctor, ok = cls.Method("constructor")
	}
	if !ok {
		for _, arg := range n.Arguments {
			if _, err := c.Check(arg, scope); err != nil {
				return nil, err
			}
		}
		return types.Ref(cls), nil
	}

	sig := *ctor
	sig.TypeParams = append(append([]*types.Class(nil), cls.TypeParams...), ctor.TypeParams...)
	_, bound, err := c.checkArguments(&sig, callee{name: name}, n, n.Arguments, scope)
	if err != nil {
		return nil, err
	}
	if len(cls.TypeParams) == 0 {
		return types.Ref(cls), nil
	}
	return types.Ref(cls, bound[:len(cls.TypeParams)]...), nil
}

// checkArguments matches args against fn's parameters. Positional arguments
// fill parameters in order, the variadic parameter absorbs the rest, and
// named arguments fill the parameter of that name. Generic parameters are
// bound from the arguments, first binding wins. It returns the call's result
// type and the bound type arguments, any for those left unbound.
func (c *Checker) checkArguments(fn *types.Function, who callee, at parser.Node, args []parser.Expression, scope *Scope) (types.Type, []types.Type, error) {
	arityError := func(expected int) error {
		key := errors.MsgArity
		if who.method {
			key = errors.MsgMethodArity
		}
		return errors.NewTypeError(at.Pos(), key, who.name, expected, len(args))
	}

	least, most := fn.Arity()
	if most >= 0 && len(args) > most {
		return nil, nil, arityError(most)
	}

	variadic := -1
	for i, p := range fn.Params {
		if p.Variadic {
			variadic = i
		}
	}

	type match struct {
		arg   parser.Expression
		typ   types.Type
		param types.Type
	}
	var matches []match
	filled := make([]bool, len(fn.Params))
	positional := 0

	for _, arg := range args {
		if named, ok := arg.(*parser.NamedArgument); ok {
			i, p := fn.Param(named.Name)
			if p == nil {
				return nil, nil, errors.NewTypeError(named.Pos(), errors.MsgUnknownNamedArg, who.name, named.Name)
			}
			t, err := c.Check(named, scope)
			if err != nil {
				return nil, nil, err
			}
			filled[i] = true
			matches = append(matches, match{arg: named.Value, typ: t, param: p.Type})
			continue
		}

		t, err := c.Check(arg, scope)
		if err != nil {
			return nil, nil, err
		}
		idx := positional
		positional++

		var param types.Type
		switch {
		case variadic >= 0 && idx >= variadic:
			filled[variadic] = true
			elem, ok := types.ElementType(fn.Params[variadic].Type)
			if !ok {
				elem = types.Any
			}
			param = elem
		case idx < len(fn.Params):
			filled[idx] = true
			param = fn.Params[idx].Type
		default:
			return nil, nil, arityError(most)
		}
		matches = append(matches, match{arg: arg, typ: t, param: param})
	}

	for i, p := range fn.Params {
		if !filled[i] && !p.Optional && !p.Variadic {
			return nil, nil, arityError(least)
		}
	}

	bindings := make(map[*types.Class]types.Type)
	if len(fn.TypeParams) > 0 {
		for _, m := range matches {
			bind(m.param, m.typ, fn.TypeParams, bindings)
		}
	}
	bound := make([]types.Type, len(fn.TypeParams))
	for i, p := range fn.TypeParams {
		if t, ok := bindings[p]; ok {
			bound[i] = t
		} else {
			bound[i] = types.Any
		}
	}

	for _, m := range matches {
		param := types.Substitute(m.param, fn.TypeParams, bound)
		if !types.IsAssignable(m.typ, param) {
			return nil, nil, notAssignable(m.arg, m.typ, param)
		}
	}
	return types.Substitute(returnOf(fn), fn.TypeParams, bound), bound, nil
}

// bind records the type bound to each generic parameter that param
// mentions, reading it from the matching position of arg.
func bind(param, arg types.Type, params []*types.Class, bindings map[*types.Class]types.Type) {
	if param == nil || arg == nil {
		return
	}
	isParam := func(c *types.Class) bool {
		for _, p := range params {
			if p == c {
				return true
			}
		}
		return false
	}
	record := func(c *types.Class) {
		if _, done := bindings[c]; !done {
			bindings[c] = arg
		}
	}

	switch p := param.(type) {
	case *types.Class:
		if isParam(p) {
			record(p)
		}
	case *types.Reference:
		if decl, ok := p.Decl.(*types.Class); ok && len(p.Args) == 0 && isParam(decl) {
			record(decl)
			return
		}
		a, ok := types.Unwrap(arg).(*types.Reference)
		if !ok || types.Unwrap(a.Decl) != types.Unwrap(p.Decl) || len(a.Args) != len(p.Args) {
			return
		}
		for i := range p.Args {
			bind(p.Args[i], a.Args[i], params, bindings)
		}
	case *types.Union:
		bind(p.Left, arg, params, bindings)
		bind(p.Right, arg, params, bindings)
	case *types.Function:
		if a, ok := types.Unwrap(arg).(*types.Function); ok && len(a.Params) == len(p.Params) {
			for i := range p.Params {
				bind(p.Params[i].Type, a.Params[i].Type, params, bindings)
			}
			bind(p.Return, a.Return, params, bindings)
		}
	}
}
