package parser

import (
	"snff/pkg/lexer"
)

// parseTypeRef parses a type annotation. After the first term it checks once
// for `| Type` and then once for `& Type`, each side recursing into a full
// TypeRef, so `A | B & C` is `A | (B & C)`.
func (p *Parser) parseTypeRef() (TypeNode, error) {
	t, err := p.parseTypeTerm()
	if t == nil || err != nil {
		return t, err
	}
	if tok, ok := p.l.Accept(lexer.Pipe); ok {
		right, err := p.requireType()
		if err != nil {
			return nil, err
		}
		t = &UnionTypeNode{Token: tok, Left: t, Right: right}
	}
	if tok, ok := p.l.Accept(lexer.Ampersand); ok {
		right, err := p.requireType()
		if err != nil {
			return nil, err
		}
		t = &IntersectionTypeNode{Token: tok, Left: t, Right: right}
	}
	return t, nil
}

func (p *Parser) requireType() (TypeNode, error) {
	t, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, p.l.Unexpected("type")
	}
	return t, nil
}

func (p *Parser) parseTypeTerm() (TypeNode, error) {
	tok, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}

	var t TypeNode
	switch {
	case tok.Type == lexer.LeftParenthesis:
		p.l.Consume(1)
		inner, err := p.requireType()
		if err != nil {
			return nil, err
		}
		if _, err := p.l.Match(lexer.RightParenthesis); err != nil {
			return nil, err
		}
		t = inner

	case tok.Type == lexer.LeftBrace:
		obj, err := p.parseObjectType()
		if err != nil {
			return nil, err
		}
		t = obj

	case tok.Type == lexer.Identifier,
		tok.Type == lexer.Keyword && (tok.Lexeme == "null" || tok.Lexeme == "void"):
		p.l.Consume(1)
		ref := &TypeReference{Token: tok, Name: tok.Lexeme}
		if _, ok := p.l.Accept(lexer.LessThan); ok {
			args, err := parseList(p, lexer.GreaterThan, "type", p.parseTypeRef)
			if err != nil {
				return nil, err
			}
			ref.Args = args
		}
		t = ref

	default:
		return nil, nil
	}

	if _, ok := p.l.Accept(lexer.QuestionMark); ok {
		setOptional(t)
	}
	// T[] is shorthand for Array<T>.
	for p.peekPair(lexer.LeftBracket, lexer.RightBracket) {
		p.l.Consume(2)
		t = &TypeReference{Token: tok, Name: "Array", Args: []TypeNode{t}}
		if _, ok := p.l.Accept(lexer.QuestionMark); ok {
			setOptional(t)
		}
	}
	return t, nil
}

func (p *Parser) parseObjectType() (*ObjectTypeNode, error) {
	tok, err := p.l.Match(lexer.LeftBrace)
	if err != nil {
		return nil, err
	}
	obj := &ObjectTypeNode{Token: tok}
	for {
		p.skipSemicolons()
		p.l.Accept(lexer.Comma)
		if _, ok := p.l.Accept(lexer.RightBrace); ok {
			return obj, nil
		}

		key, ok := p.l.Lookahead()
		if !ok || (key.Type != lexer.Identifier && key.Type != lexer.Keyword && key.Type != lexer.String) {
			return nil, p.l.Unexpected(lexer.RightBrace.DisplayName())
		}
		p.l.Consume(1)
		entry := &ObjectTypeEntry{Token: key, Key: key.Lexeme}
		if key.Type == lexer.String {
			entry.Key = unquote(key.Lexeme)
		}
		if _, err := p.l.Match(lexer.Colon); err != nil {
			return nil, err
		}
		if entry.Type, err = p.requireType(); err != nil {
			return nil, err
		}
		obj.Entries = append(obj.Entries, entry)
	}
}

func setOptional(t TypeNode) {
	switch t := t.(type) {
	case *TypeReference:
		t.Optional = true
	case *UnionTypeNode:
		t.Optional = true
	case *IntersectionTypeNode:
		t.Optional = true
	case *ObjectTypeNode:
		t.Optional = true
	}
}
