package parser

import (
	"snff/pkg/errors"
	"snff/pkg/lexer"
)

// overloadableOperators are the tokens allowed after `operator` besides the
// `new` and `call` keywords.
var overloadableOperators = map[*lexer.TokenType]bool{
	lexer.And: true, lexer.Or: true, lexer.Power: true,
	lexer.Increment: true, lexer.Decrement: true,
	lexer.BitwiseLeftShift: true, lexer.BitwiseRightShift: true,
	lexer.Equal: true, lexer.NotEqual: true,
	lexer.GreaterThanOrEqual: true, lexer.LessThanOrEqual: true,
	lexer.Not: true, lexer.Ampersand: true, lexer.Pipe: true,
	lexer.BitwiseXor: true, lexer.BitwiseNot: true,
	lexer.GreaterThan: true, lexer.LessThan: true,
	lexer.Plus: true, lexer.Minus: true, lexer.Multiply: true,
	lexer.Divide: true, lexer.Modulo: true,
}

// parseVariableDeclaration parses `let x: T = v` and `const x = v`. Without
// a required keyword it also accepts the bare `x: T` form used by class and
// interface members.
func (p *Parser) parseVariableDeclaration(requireKeyword, allowInitializer bool) (*VariableDeclaration, error) {
	start, _ := p.l.Lookahead()
	decl := &VariableDeclaration{Token: start}

	if tok, ok := p.keyword("let"); ok {
		decl.Keyword = tok.Lexeme
	} else if tok, ok := p.keyword("const"); ok {
		decl.Keyword = tok.Lexeme
		decl.Const = true
	} else if requireKeyword {
		return nil, p.l.Unexpected(`"let" or "const"`)
	}

	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Lexeme

	if _, ok := p.l.Accept(lexer.Colon); ok {
		if decl.TypeAnnotation, err = p.requireType(); err != nil {
			return nil, err
		}
	}

	if allowInitializer {
		if _, ok := p.l.Accept(lexer.Assign); ok {
			if decl.Initializer, err = p.requireExpression(); err != nil {
				return nil, err
			}
		}
	}
	if decl.Const && decl.Initializer == nil {
		return nil, p.l.Unexpected(lexer.Assign.DisplayName())
	}
	return decl, nil
}

func (p *Parser) parseFunctionDeclaration() (*FunctionDeclaration, error) {
	tok, err := p.expectKeyword("func")
	if err != nil {
		return nil, err
	}
	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	fn := &FunctionDeclaration{Token: tok, Name: name.Lexeme}
	if fn.TypeParams, err = p.parseTypeParams(); err != nil {
		return nil, err
	}
	if fn.Params, fn.ReturnType, err = p.parseSignature(); err != nil {
		return nil, err
	}
	if fn.Body, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseSignature parses `(params): ReturnType`; the return type is optional.
func (p *Parser) parseSignature() ([]*Parameter, TypeNode, error) {
	if _, err := p.l.Match(lexer.LeftParenthesis); err != nil {
		return nil, nil, err
	}
	params, err := parseList(p, lexer.RightParenthesis, "parameter", p.parseParameter)
	if err != nil {
		return nil, nil, err
	}
	for _, param := range params[:max(len(params)-1, 0)] {
		if param.Variadic {
			return nil, nil, &errors.SyntaxError{Position: param.Pos(), Got: lexer.Ellipsis.DisplayName(), Expected: "last parameter"}
		}
	}

	var ret TypeNode
	if _, ok := p.l.Accept(lexer.Colon); ok {
		if ret, err = p.requireType(); err != nil {
			return nil, nil, err
		}
	}
	return params, ret, nil
}

func (p *Parser) parseParameter() (*Parameter, error) {
	start, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}
	param := &Parameter{Token: start}
	if _, ok := p.l.Accept(lexer.Ellipsis); ok {
		param.Variadic = true
	}
	name, ok := p.l.Accept(lexer.Identifier)
	if !ok {
		if param.Variadic {
			return nil, p.l.Unexpected(lexer.Identifier.DisplayName())
		}
		return nil, nil
	}
	param.Name = name.Lexeme

	var err error
	if _, ok := p.l.Accept(lexer.Colon); ok {
		if param.TypeAnnotation, err = p.requireType(); err != nil {
			return nil, err
		}
	}
	if _, ok := p.l.Accept(lexer.Assign); ok {
		if param.Default, err = p.requireExpression(); err != nil {
			return nil, err
		}
	}
	return param, nil
}

// parseTypeParams parses an optional `<T, U>` list of generic parameters.
func (p *Parser) parseTypeParams() ([]string, error) {
	if _, ok := p.l.Accept(lexer.LessThan); !ok {
		return nil, nil
	}
	return parseList(p, lexer.GreaterThan, lexer.Identifier.DisplayName(), func() (string, error) {
		tok, _ := p.l.Accept(lexer.Identifier)
		return tok.Lexeme, nil
	})
}

func (p *Parser) parseIdentifierList() ([]*Identifier, error) {
	var ids []*Identifier
	for {
		tok, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		ids = append(ids, &Identifier{Token: tok, Name: tok.Lexeme})
		if _, ok := p.l.Accept(lexer.Comma); !ok {
			return ids, nil
		}
	}
}

func (p *Parser) parseTypeList() ([]TypeNode, error) {
	var types []TypeNode
	for {
		t, err := p.requireType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if _, ok := p.l.Accept(lexer.Comma); !ok {
			return types, nil
		}
	}
}

// --- Classes ---

func (p *Parser) parseClassDeclaration() (*ClassDeclaration, error) {
	tok, err := p.expectKeyword("class")
	if err != nil {
		return nil, err
	}
	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	class := &ClassDeclaration{Token: tok, Name: name.Lexeme}
	if class.TypeParams, err = p.parseTypeParams(); err != nil {
		return nil, err
	}

	if _, ok := p.keyword("extends"); ok {
		base, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		class.Extends = &Identifier{Token: base, Name: base.Lexeme}
	}
	if _, ok := p.keyword("implements"); ok {
		if class.Implements, err = p.parseTypeList(); err != nil {
			return nil, err
		}
	}
	if _, ok := p.keyword("with"); ok {
		if class.With, err = p.parseIdentifierList(); err != nil {
			return nil, err
		}
	}

	if _, err := p.l.Match(lexer.LeftBrace); err != nil {
		return nil, err
	}
	for {
		p.skipSemicolons()
		if _, ok := p.l.Accept(lexer.RightBrace); ok {
			return class, nil
		}
		if err := p.parseClassMember(class); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseClassMember(class *ClassDeclaration) error {
	start, _ := p.l.Lookahead()
	access := Public
	if _, ok := p.keyword("private"); ok {
		access = Private
	} else if _, ok := p.keyword("protected"); ok {
		access = Protected
	} else {
		p.keyword("public")
	}
	_, static := p.keyword("static")

	switch {
	case p.l.LookaheadKeyword("operator"):
		op, err := p.parseOperator(true)
		if err != nil {
			return err
		}
		op.Token = start
		op.Access = access
		op.Static = static
		class.Operators = append(class.Operators, op)

	case p.l.LookaheadKeyword("func"):
		fn, err := p.parseFunctionDeclaration()
		if err != nil {
			return err
		}
		class.Methods = append(class.Methods, &ClassMethod{Token: start, Access: access, Static: static, Function: fn})

	case p.l.LookaheadIs(lexer.Identifier), p.l.LookaheadKeyword("let"), p.l.LookaheadKeyword("const"):
		decl, err := p.parseVariableDeclaration(false, true)
		if err != nil {
			return err
		}
		class.Properties = append(class.Properties, &ClassProperty{Token: start, Access: access, Static: static, Declaration: decl})

	default:
		return p.l.Unexpected(lexer.RightBrace.DisplayName())
	}
	return nil
}

// parseOperator parses `operator <op>(params): T`, with a body when
// withBody is set.
func (p *Parser) parseOperator(withBody bool) (*ClassOperator, error) {
	tok, err := p.expectKeyword("operator")
	if err != nil {
		return nil, err
	}
	op := &ClassOperator{Token: tok}

	sym, ok := p.l.Lookahead()
	switch {
	case ok && sym.Type == lexer.Keyword && (sym.Lexeme == "new" || sym.Lexeme == "call"):
	case ok && overloadableOperators[sym.Type]:
	default:
		return nil, p.l.Unexpected("operator")
	}
	p.l.Consume(1)
	op.Operator = sym.Lexeme

	if op.Params, op.ReturnType, err = p.parseSignature(); err != nil {
		return nil, err
	}
	if withBody {
		if op.Body, err = p.parseBlockStatement(); err != nil {
			return nil, err
		}
	}
	return op, nil
}

// --- Interfaces and type aliases ---

func (p *Parser) parseInterfaceDeclaration() (*InterfaceDeclaration, error) {
	tok, err := p.expectKeyword("interface")
	if err != nil {
		return nil, err
	}
	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	iface := &InterfaceDeclaration{Token: tok, Name: name.Lexeme}
	if iface.TypeParams, err = p.parseTypeParams(); err != nil {
		return nil, err
	}
	if _, ok := p.keyword("extends"); ok {
		if iface.Extends, err = p.parseTypeList(); err != nil {
			return nil, err
		}
	}

	if _, err := p.l.Match(lexer.LeftBrace); err != nil {
		return nil, err
	}
	for {
		p.skipSemicolons()
		p.l.Accept(lexer.Comma)
		if _, ok := p.l.Accept(lexer.RightBrace); ok {
			return iface, nil
		}
		if err := p.parseInterfaceMember(iface); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseInterfaceMember(iface *InterfaceDeclaration) error {
	start, _ := p.l.Lookahead()
	switch {
	case p.l.LookaheadKeyword("operator"):
		op, err := p.parseOperator(false)
		if err != nil {
			return err
		}
		iface.Operators = append(iface.Operators, op)

	case p.l.LookaheadKeyword("func"):
		p.l.Consume(1)
		name, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return err
		}
		method := &InterfaceMethod{Token: start, Name: name.Lexeme}
		if method.Params, method.ReturnType, err = p.parseSignature(); err != nil {
			return err
		}
		iface.Methods = append(iface.Methods, method)

	case p.l.LookaheadIs(lexer.Identifier):
		decl, err := p.parseVariableDeclaration(false, false)
		if err != nil {
			return err
		}
		iface.Properties = append(iface.Properties, &InterfaceProperty{Token: start, Name: decl.Name, TypeAnnotation: decl.TypeAnnotation})

	default:
		return p.l.Unexpected(lexer.RightBrace.DisplayName())
	}
	return nil
}

func (p *Parser) parseTypeDeclaration() (*TypeDeclaration, error) {
	tok, err := p.expectKeyword("type")
	if err != nil {
		return nil, err
	}
	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	decl := &TypeDeclaration{Token: tok, Name: name.Lexeme}
	if decl.TypeParams, err = p.parseTypeParams(); err != nil {
		return nil, err
	}
	if _, err := p.l.Match(lexer.Assign); err != nil {
		return nil, err
	}
	if decl.Type, err = p.requireType(); err != nil {
		return nil, err
	}
	return decl, nil
}
