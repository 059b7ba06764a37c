package checker

import (
	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

// --- Hoisting ---

// hoist declares every class, interface, type alias and function of a
// statement list before any statement is checked, so declarations may refer
// to each other regardless of order. Shells come first, then alias targets,
// interface members, function signatures and finally class members.
func (c *Checker) hoist(stmts []parser.Statement, scope *Scope) error {
	var (
		classes    []*parser.ClassDeclaration
		interfaces []*parser.InterfaceDeclaration
		aliases    []*parser.TypeDeclaration
		funcs      []*parser.FunctionDeclaration
	)
	for _, stmt := range stmts {
		if exp, ok := stmt.(*parser.ExportDeclaration); ok {
			stmt = exp.Declaration
		}
		switch n := stmt.(type) {
		case *parser.ClassDeclaration:
			classes = append(classes, n)
		case *parser.InterfaceDeclaration:
			interfaces = append(interfaces, n)
		case *parser.TypeDeclaration:
			aliases = append(aliases, n)
		case *parser.FunctionDeclaration:
			funcs = append(funcs, n)
		}
	}

	for _, n := range classes {
		cls := &types.Class{Name: n.Name, TypeParams: typeParams(n.TypeParams)}
		c.classes[n] = cls
		c.statics[cls] = types.NewClass("typeof " + n.Name)
		c.pending[cls] = pendingDecl{node: n, scope: scope}
		scope.DeclareType(n.Name, cls)
		scope.Declare(n.Name, c.statics[cls], true)
	}
	for _, n := range interfaces {
		iface := &types.Class{Name: n.Name, TypeParams: typeParams(n.TypeParams), Interface: true}
		c.interfaces[n] = iface
		c.pending[iface] = pendingDecl{node: n, scope: scope}
		scope.DeclareType(n.Name, iface)
	}
	for _, n := range aliases {
		alias := &types.Alias{Name: n.Name, TypeParams: typeParams(n.TypeParams)}
		c.aliases[n] = alias
		scope.DeclareType(n.Name, alias)
	}

	for _, n := range aliases {
		alias := c.aliases[n]
		target, err := c.resolveType(n.Type, withTypeParams(scope, alias.TypeParams))
		if err != nil {
			return err
		}
		alias.Target = target
	}
	for _, n := range interfaces {
		if err := c.complete(c.interfaces[n]); err != nil {
			return err
		}
	}
	for _, n := range funcs {
		fn, err := c.signature(n.Name, n.TypeParams, n.Params, n.ReturnType, scope)
		if err != nil {
			return err
		}
		c.signatures[n] = fn
		scope.Declare(n.Name, fn, true)
	}
	for _, n := range classes {
		if err := c.complete(c.classes[n]); err != nil {
			return err
		}
	}
	return nil
}

func typeParams(names []string) []*types.Class {
	if len(names) == 0 {
		return nil
	}
	params := make([]*types.Class, len(names))
	for i, name := range names {
		params[i] = types.NewTypeParam(name)
	}
	return params
}

// withTypeParams returns a scope in which the generic parameters resolve.
func withTypeParams(scope *Scope, params []*types.Class) *Scope {
	if len(params) == 0 {
		return scope
	}
	inner := scope.Fork()
	for _, p := range params {
		inner.DeclareType(p.Name, p)
	}
	return inner
}

// complete resolves the members of a hoisted class or interface. A
// declaration is completed at most once; a parent reached again while it is
// being completed is seen with the members resolved so far.
func (c *Checker) complete(cls *types.Class) error {
	p, ok := c.pending[cls]
	if !ok {
		return nil
	}
	delete(c.pending, cls)

	switch n := p.node.(type) {
	case *parser.ClassDeclaration:
		return c.completeClass(n, cls, p.scope)
	case *parser.InterfaceDeclaration:
		return c.completeInterface(n, cls, p.scope)
	}
	return nil
}

// inherit copies the members of parent into cls.
func (c *Checker) inherit(cls *types.Class, parent *types.Class) error {
	if err := c.complete(parent); err != nil {
		return err
	}
	for _, p := range parent.Properties {
		cls.AddProperty(p)
	}
	for _, m := range parent.Methods {
		cls.AddMethod(m)
	}
	for _, op := range parent.OperatorNames() {
		cls.AddOperator(op, parent.Operators[op])
	}
	return nil
}

// lookupClass resolves a name used after extends or with.
func (c *Checker) lookupClass(id *parser.Identifier, scope *Scope) (*types.Class, error) {
	t, ok := scope.LookupType(id.Name)
	if !ok {
		return nil, errors.NewTypeReferenceError(id.Pos(), id.Name)
	}
	cls, ok := types.Unwrap(t).(*types.Class)
	if !ok || cls.IsPrimitive() || cls.IsTypeParam() {
		return nil, errors.NewTypeError(id.Pos(), errors.MsgNotConstructible, id.Name)
	}
	return cls, nil
}

func (c *Checker) completeClass(n *parser.ClassDeclaration, cls *types.Class, scope *Scope) error {
	debugPrintf("// [Checker] completing class %s\n", n.Name)
	ts := withTypeParams(scope, cls.TypeParams)
	static := c.statics[cls]

	if n.Extends != nil {
		parent, err := c.lookupClass(n.Extends, scope)
		if err != nil {
			return err
		}
		if err := c.inherit(cls, parent); err != nil {
			return err
		}
		if ps, ok := c.statics[parent]; ok {
			if err := c.inherit(static, ps); err != nil {
				return err
			}
		}
	}
	for _, id := range n.With {
		mixin, err := c.lookupClass(id, scope)
		if err != nil {
			return err
		}
		if err := c.inherit(cls, mixin); err != nil {
			return err
		}
	}

	// an unannotated property is any until its declaration is checked
	for _, prop := range n.Properties {
		decl := prop.Declaration
		var t types.Type = types.Any
		if decl.TypeAnnotation != nil {
			resolved, err := c.resolveType(decl.TypeAnnotation, ts)
			if err != nil {
				return err
			}
			t = resolved
		}
		p := &types.Property{Name: decl.Name, Type: t, Static: prop.Static, Const: decl.Const}
		if prop.Static {
			static.AddProperty(p)
		} else {
			cls.AddProperty(p)
		}
	}

	for _, m := range n.Methods {
		f := m.Function
		fn, err := c.signature(f.Name, f.TypeParams, f.Params, f.ReturnType, ts)
		if err != nil {
			return err
		}
		c.signatures[f] = fn
		if m.Static {
			static.AddMethod(fn)
		} else {
			cls.AddMethod(fn)
		}
	}

	for _, op := range n.Operators {
		fn, err := c.signature(op.Operator, nil, op.Params, op.ReturnType, ts)
		if err != nil {
			return err
		}
		c.operators[op] = fn
		cls.AddOperator(op.Operator, fn)
	}
	return nil
}

func (c *Checker) completeInterface(n *parser.InterfaceDeclaration, iface *types.Class, scope *Scope) error {
	ts := withTypeParams(scope, iface.TypeParams)

	for _, ext := range n.Extends {
		t, err := c.resolveType(ext, ts)
		if err != nil {
			return err
		}
		if decl, ok := types.Unwrap(t).(*types.Class); ok {
			if err := c.complete(decl); err != nil {
				return err
			}
		}
		parent, ok := types.ClassOf(t)
		if !ok || parent.IsPrimitive() {
			return errors.NewTypeError(ext.Pos(), errors.MsgNotConstructible, types.TypeToString(t))
		}
		if err := c.inherit(iface, parent); err != nil {
			return err
		}
	}

	for _, prop := range n.Properties {
		var t types.Type = types.Any
		if prop.TypeAnnotation != nil {
			resolved, err := c.resolveType(prop.TypeAnnotation, ts)
			if err != nil {
				return err
			}
			t = resolved
		}
		iface.AddProperty(&types.Property{Name: prop.Name, Type: t})
	}
	for _, m := range n.Methods {
		fn, err := c.signature(m.Name, nil, m.Params, m.ReturnType, ts)
		if err != nil {
			return err
		}
		iface.AddMethod(fn)
	}
	for _, op := range n.Operators {
		fn, err := c.signature(op.Operator, nil, op.Params, op.ReturnType, ts)
		if err != nil {
			return err
		}
		iface.AddOperator(op.Operator, fn)
	}
	return nil
}

// signature resolves a function type from its declaration. A missing return
// annotation leaves Return nil until the body has been checked, and a
// parameter known only by its default is any until then.
func (c *Checker) signature(name string, typeParamNames []string, params []*parser.Parameter, ret parser.TypeNode, scope *Scope) (*types.Function, error) {
	fn := &types.Function{Name: name, TypeParams: typeParams(typeParamNames)}
	ts := withTypeParams(scope, fn.TypeParams)

	for _, p := range params {
		param := &types.Param{Name: p.Name, Optional: p.Default != nil, Variadic: p.Variadic}
		switch {
		case p.TypeAnnotation != nil:
			t, err := c.resolveType(p.TypeAnnotation, ts)
			if err != nil {
				return nil, err
			}
			param.Type = t
		case p.Variadic:
			param.Type = types.ArrayOf(types.Any)
		default:
			param.Type = types.Any
		}
		fn.Params = append(fn.Params, param)
	}

	if ret != nil {
		t, err := c.resolveType(ret, ts)
		if err != nil {
			return nil, err
		}
		fn.Return = t
	}
	return fn, nil
}

// --- Declaration checks ---

func (c *Checker) checkFunctionDeclaration(n *parser.FunctionDeclaration, scope *Scope) (types.Type, error) {
	fn, ok := c.signatures[n]
	if !ok {
		if err := c.hoist([]parser.Statement{n}, scope); err != nil {
			return nil, err
		}
		fn = c.signatures[n]
	}
	if err := c.checkBody(fn, n.Params, n.Body, scope, nil); err != nil {
		return nil, err
	}
	return fn, nil
}

func (c *Checker) checkClassDeclaration(n *parser.ClassDeclaration, scope *Scope) (types.Type, error) {
	cls, ok := c.classes[n]
	if !ok {
		if err := c.hoist([]parser.Statement{n}, scope); err != nil {
			return nil, err
		}
		cls = c.classes[n]
	}
	if err := c.complete(cls); err != nil {
		return nil, err
	}
	ts := withTypeParams(scope, cls.TypeParams)

	for _, prop := range n.Properties {
		decl := prop.Declaration
		if decl.Initializer == nil {
			continue
		}
		owner := cls
		if prop.Static {
			owner = c.statics[cls]
		}
		p, _ := owner.Property(decl.Name)
		value, err := c.withThis(cls, func() (types.Type, error) {
			return c.Check(decl.Initializer, ts)
		})
		if err != nil {
			return nil, err
		}
		if decl.TypeAnnotation == nil {
			p.Type = value
			continue
		}
		if !types.IsAssignable(value, p.Type) {
			return nil, notAssignable(decl.Initializer, value, p.Type)
		}
	}

	for _, m := range n.Methods {
		this := cls
		if m.Static {
			this = c.statics[cls]
		}
		if err := c.checkBody(c.signatures[m.Function], m.Function.Params, m.Function.Body, ts, this); err != nil {
			return nil, err
		}
	}
	for _, op := range n.Operators {
		if err := c.checkBody(c.operators[op], op.Params, op.Body, ts, cls); err != nil {
			return nil, err
		}
	}

	for _, impl := range n.Implements {
		target, err := c.resolveType(impl, ts)
		if err != nil {
			return nil, err
		}
		if missing, ok := missingMember(cls, target); !ok {
			return nil, errors.NewTypeError(impl.Pos(), errors.MsgMissingMember, cls.Name, types.TypeToString(target), missing)
		}
	}
	return cls, nil
}

// missingMember reports the first member of target that cls lacks or
// declares with an incompatible type.
func missingMember(cls *types.Class, target types.Type) (string, bool) {
	if types.IsAssignable(cls, target) {
		return "", true
	}
	tc, ok := types.ClassOf(target)
	if !ok {
		return types.TypeToString(target), false
	}
	for _, p := range tc.Properties {
		t, ok := cls.Member(p.Name)
		if !ok || !types.IsAssignable(t, p.Type) {
			return p.Name, false
		}
	}
	for _, m := range tc.Methods {
		fn, ok := cls.Method(m.Name)
		if !ok || !types.IsAssignable(fn, m) {
			return m.Name, false
		}
	}
	return types.TypeToString(target), false
}

func (c *Checker) checkInterfaceDeclaration(n *parser.InterfaceDeclaration, scope *Scope) (types.Type, error) {
	iface, ok := c.interfaces[n]
	if !ok {
		if err := c.hoist([]parser.Statement{n}, scope); err != nil {
			return nil, err
		}
		iface = c.interfaces[n]
	}
	if err := c.complete(iface); err != nil {
		return nil, err
	}
	ts := withTypeParams(scope, iface.TypeParams)
	for _, m := range n.Methods {
		fn, ok := iface.Method(m.Name)
		if !ok {
			continue
		}
		if err := c.bindParams(fn, m.Params, ts.Fork()); err != nil {
			return nil, err
		}
	}
	return iface, nil
}

func (c *Checker) checkTypeDeclaration(n *parser.TypeDeclaration, scope *Scope) (types.Type, error) {
	alias, ok := c.aliases[n]
	if !ok {
		if err := c.hoist([]parser.Statement{n}, scope); err != nil {
			return nil, err
		}
		alias = c.aliases[n]
	}
	if _, cyclic := types.Unwrap(alias).(*types.Alias); cyclic {
		return nil, errors.NewTypeError(n.Pos(), errors.MsgCircularAlias, n.Name)
	}
	return alias, nil
}

// --- Function bodies ---

// checkBody checks a function body against fn. Parameters are bound in a
// fresh scope; this is the class the body belongs to, nil for free
// functions. When fn has no declared return type it is inferred from the
// return statements, void if there are none.
func (c *Checker) checkBody(fn *types.Function, params []*parser.Parameter, body *parser.BlockStatement, scope *Scope, this *types.Class) error {
	inner := withTypeParams(scope, fn.TypeParams).Fork()
	if err := c.bindParams(fn, params, inner); err != nil {
		return err
	}
	if body == nil {
		return nil
	}

	savedFn, savedThis := c.fn, c.this
	c.fn = &functionContext{fn: fn, infer: fn.Return == nil}
	c.this = this
	defer func() { c.fn, c.this = savedFn, savedThis }()

	if _, err := c.Check(body, inner); err != nil {
		return err
	}
	if c.fn.infer {
		if len(c.fn.returns) == 0 {
			fn.Return = types.Ref(types.Void)
		} else {
			fn.Return = types.NewUnion(distinct(c.fn.returns)...)
		}
	}
	return nil
}

// bindParams declares the parameters of fn in inner, in order, so a default
// sees the parameters before it. A default is checked against the annotated
// type, or becomes the parameter type when there is no annotation.
func (c *Checker) bindParams(fn *types.Function, params []*parser.Parameter, inner *Scope) error {
	for i, p := range params {
		param := fn.Params[i]
		if p.Default != nil {
			t, err := c.Check(p.Default, inner)
			if err != nil {
				return err
			}
			if p.TypeAnnotation == nil {
				param.Type = t
			} else if !types.IsAssignable(t, param.Type) {
				return notAssignable(p.Default, t, param.Type)
			}
		}
		inner.Declare(p.Name, param.Type, false)
	}
	return nil
}

// withThis evaluates check with this bound to cls.
func (c *Checker) withThis(cls *types.Class, check func() (types.Type, error)) (types.Type, error) {
	saved := c.this
	c.this = cls
	defer func() { c.this = saved }()
	return check()
}
