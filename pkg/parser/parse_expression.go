package parser

import (
	"strconv"

	"snff/pkg/lexer"
)

var assignmentOperators = map[*lexer.TokenType]string{
	lexer.Assign:         "=",
	lexer.PlusAssign:     "+=",
	lexer.MinusAssign:    "-=",
	lexer.MultiplyAssign: "*=",
	lexer.DivideAssign:   "/=",
	lexer.ModuloAssign:   "%=",
}

var (
	logicalOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.And: OpAnd,
		lexer.Or:  OpOr,
	}
	equalityOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.Equal:    OpEqual,
		lexer.NotEqual: OpNotEqual,
	}
	shiftOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.BitwiseLeftShift:  OpLeftShift,
		lexer.BitwiseRightShift: OpRightShift,
	}
	bitwiseOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.Ampersand:  OpBitwiseAnd,
		lexer.Pipe:       OpBitwiseOr,
		lexer.BitwiseXor: OpBitwiseXor,
	}
	relationalOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.LessThan:           OpLess,
		lexer.LessThanOrEqual:    OpLessEqual,
		lexer.GreaterThan:        OpGreater,
		lexer.GreaterThanOrEqual: OpGreaterEqual,
	}
	additiveOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.Plus:  OpAdd,
		lexer.Minus: OpSubtract,
	}
	multiplicativeOperators = map[*lexer.TokenType]BinaryOperator{
		lexer.Multiply: OpMultiply,
		lexer.Divide:   OpDivide,
		lexer.Modulo:   OpModulo,
	}
)

var unaryOperators = map[*lexer.TokenType]UnaryOperator{
	lexer.Not:        OpNot,
	lexer.BitwiseNot: OpBitwiseNot,
	lexer.Minus:      OpNegative,
	lexer.Plus:       OpPositive,
	lexer.Increment:  OpPreIncrement,
	lexer.Decrement:  OpPreDecrement,
}

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is right associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignment() (Expression, error) {
	left, err := p.parseLogical()
	if left == nil || err != nil {
		return left, err
	}
	tok, ok := p.l.Lookahead()
	if !ok {
		return left, nil
	}
	op, found := assignmentOperators[tok.Type]
	if !found {
		return left, nil
	}
	p.l.Consume(1)
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.l.Unexpected("Expression")
	}
	return &AssignmentExpression{Token: tok, Operator: op, Target: left, Value: value}, nil
}

// parseBinary parses one left associative precedence level.
func (p *Parser) parseBinary(ops map[*lexer.TokenType]BinaryOperator, next func() (Expression, error)) (Expression, error) {
	left, err := next()
	if left == nil || err != nil {
		return left, err
	}
	for {
		tok, ok := p.l.Lookahead()
		if !ok {
			return left, nil
		}
		op, found := ops[tok.Type]
		if !found {
			return left, nil
		}
		p.l.Consume(1)
		right, err := next()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.l.Unexpected("Expression")
		}
		left = &BinaryExpression{Token: tok, Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseLogical() (Expression, error) {
	return p.parseBinary(logicalOperators, p.parseEquality)
}

func (p *Parser) parseEquality() (Expression, error) {
	return p.parseBinary(equalityOperators, p.parseRelational)
}

// parseRelational binds looser than the shift and bitwise levels, so
// a < b & c compares a with b & c. Without those operators its operands
// are plain additive expressions.
func (p *Parser) parseRelational() (Expression, error) {
	return p.parseBinary(relationalOperators, p.parseShift)
}

func (p *Parser) parseShift() (Expression, error) {
	return p.parseBinary(shiftOperators, p.parseBitwise)
}

func (p *Parser) parseBitwise() (Expression, error) {
	return p.parseBinary(bitwiseOperators, p.parseAdditive)
}

func (p *Parser) parseAdditive() (Expression, error) {
	return p.parseBinary(additiveOperators, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	return p.parseBinary(multiplicativeOperators, p.parsePower)
}

// parsePower is right associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) parsePower() (Expression, error) {
	left, err := p.parseUnary()
	if left == nil || err != nil {
		return left, err
	}
	tok, ok := p.l.Accept(lexer.Power)
	if !ok {
		return left, nil
	}
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, p.l.Unexpected("Expression")
	}
	return &BinaryExpression{Token: tok, Operator: OpPower, Left: left, Right: right}, nil
}

// parseUnary applies a prefix operator to a whole expression, so -a * b
// negates the product.
func (p *Parser) parseUnary() (Expression, error) {
	tok, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}
	op, found := unaryOperators[tok.Type]
	if !found {
		return p.parseTerm()
	}
	p.l.Consume(1)
	operand, err := p.requireExpression()
	if err != nil {
		return nil, err
	}
	return &UnaryExpression{Token: tok, Operator: op, Operand: operand}, nil
}

// parseTerm parses a primary expression followed by any member accesses and
// calls.
func (p *Parser) parseTerm() (Expression, error) {
	tok, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}

	var expr Expression
	switch tok.Type {
	case lexer.LeftParenthesis:
		p.l.Consume(1)
		inner, err := p.requireExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.l.Match(lexer.RightParenthesis); err != nil {
			return nil, err
		}
		expr = inner

	case lexer.Identifier:
		toks := p.l.Peek(2)
		if len(toks) == 2 && (toks[1].Type == lexer.Increment || toks[1].Type == lexer.Decrement) {
			p.l.Consume(2)
			return &UpdateExpression{
				Token:    tok,
				Operator: toks[1].Lexeme,
				Target:   &Identifier{Token: tok, Name: tok.Lexeme},
			}, nil
		}
		p.l.Consume(1)
		expr = &Identifier{Token: tok, Name: tok.Lexeme}

	case lexer.Number:
		p.l.Consume(1)
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "number")
		}
		expr = &NumberLiteral{Token: tok, Value: value}

	case lexer.String:
		p.l.Consume(1)
		expr = &StringLiteral{Token: tok, Value: unquote(tok.Lexeme)}

	case lexer.UnterminatedString:
		return nil, p.errorAt(tok, strconv.Quote(`"`))

	case lexer.LeftBracket:
		p.l.Consume(1)
		elements, err := parseList(p, lexer.RightBracket, "Expression", p.parseExpression)
		if err != nil {
			return nil, err
		}
		expr = &ArrayLiteral{Token: tok, Elements: elements}

	case lexer.LeftBrace:
		p.l.Consume(1)
		entries, err := parseList(p, lexer.RightBrace, "map entry", p.parseMapEntry)
		if err != nil {
			return nil, err
		}
		expr = &MapLiteral{Token: tok, Entries: entries}

	case lexer.Keyword:
		var err error
		expr, err = p.parseKeywordTerm(tok)
		if expr == nil || err != nil {
			return nil, err
		}

	default:
		return nil, nil
	}

	return p.parsePostfix(expr)
}

func (p *Parser) parseKeywordTerm(tok lexer.Token) (Expression, error) {
	switch tok.Lexeme {
	case "true", "false":
		p.l.Consume(1)
		return &BooleanLiteral{Token: tok, Value: tok.Lexeme == "true"}, nil
	case "null":
		p.l.Consume(1)
		return &NullLiteral{Token: tok}, nil
	case "void":
		p.l.Consume(1)
		return &VoidLiteral{Token: tok}, nil
	case "infinity":
		p.l.Consume(1)
		return &InfinityLiteral{Token: tok}, nil
	case "this":
		p.l.Consume(1)
		return &ThisExpression{Token: tok}, nil
	case "new":
		p.l.Consume(1)
		name, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.l.Match(lexer.LeftParenthesis); err != nil {
			return nil, err
		}
		args, err := parseList(p, lexer.RightParenthesis, "Expression or NamedArgument", p.parseArgument)
		if err != nil {
			return nil, err
		}
		return &NewExpression{Token: tok, Class: &Identifier{Token: name, Name: name.Lexeme}, Arguments: args}, nil
	}
	return nil, nil
}

// parsePostfix wraps expr in member accesses (a.b, a[i]) and calls (a(x)).
func (p *Parser) parsePostfix(expr Expression) (Expression, error) {
	for {
		tok, ok := p.l.Lookahead()
		if !ok {
			return expr, nil
		}
		switch tok.Type {
		case lexer.Dot:
			p.l.Consume(1)
			name, err := p.parsePropertyName()
			if err != nil {
				return nil, err
			}
			expr = &MemberExpression{Token: tok, Object: expr, Property: &Identifier{Token: name, Name: name.Lexeme}}

		case lexer.LeftBracket:
			p.l.Consume(1)
			index, err := p.requireExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.l.Match(lexer.RightBracket); err != nil {
				return nil, err
			}
			expr = &MemberExpression{Token: tok, Object: expr, Property: index, Computed: true}

		case lexer.LeftParenthesis:
			p.l.Consume(1)
			args, err := parseList(p, lexer.RightParenthesis, "Expression or NamedArgument", p.parseArgument)
			if err != nil {
				return nil, err
			}
			expr = &CallExpression{Token: tok, Callee: expr, Arguments: args}

		default:
			return expr, nil
		}
	}
}

// parsePropertyName accepts identifiers and keywords after a dot, so
// `x.type` and `m.new` are valid member accesses.
func (p *Parser) parsePropertyName() (lexer.Token, error) {
	if tok, ok := p.l.Accept(lexer.Identifier); ok {
		return tok, nil
	}
	if tok, ok := p.l.Accept(lexer.Keyword); ok {
		return tok, nil
	}
	return lexer.Token{}, p.l.Unexpected(lexer.Identifier.DisplayName())
}

// parseArgument parses `name: value` or a plain expression.
func (p *Parser) parseArgument() (Expression, error) {
	name, ok := p.l.Accept(lexer.Identifier)
	if !ok {
		return p.parseExpression()
	}
	if _, ok := p.l.Accept(lexer.Colon); !ok {
		p.l.Unread(name)
		return p.parseExpression()
	}
	value, err := p.requireExpression()
	if err != nil {
		return nil, err
	}
	return &NamedArgument{Token: name, Name: name.Lexeme, Value: value}, nil
}

func (p *Parser) parseMapEntry() (*MapEntry, error) {
	tok, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}

	entry := &MapEntry{Token: tok}
	switch tok.Type {
	case lexer.Identifier, lexer.Keyword:
		p.l.Consume(1)
		entry.Key = &Identifier{Token: tok, Name: tok.Lexeme}
	case lexer.String:
		p.l.Consume(1)
		entry.Key = &StringLiteral{Token: tok, Value: unquote(tok.Lexeme)}
	case lexer.LeftBracket:
		p.l.Consume(1)
		key, err := p.requireExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.l.Match(lexer.RightBracket); err != nil {
			return nil, err
		}
		entry.Key = key
		entry.Computed = true
	default:
		return nil, nil
	}

	if _, err := p.l.Match(lexer.Colon); err != nil {
		return nil, err
	}
	value, err := p.requireExpression()
	if err != nil {
		return nil, err
	}
	entry.Value = value
	return entry, nil
}
