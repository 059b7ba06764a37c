package parser

import (
	"fmt"
	"strconv"

	"snff/pkg/errors"
	"snff/pkg/lexer"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser is a recursive-descent parser over a token stream. Every rule
// returns (node, error): a nil node with a nil error means the rule did not
// match and nothing was consumed; a non-nil error is a committed failure.
type Parser struct {
	l *lexer.Lexer
}

// NewParser creates a Parser reading from l.
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// ParseProgram parses a whole token stream into a Program.
func ParseProgram(l *lexer.Lexer) (*Program, error) {
	return NewParser(l).ParseProgram()
}

// ParseString lexes text with the default dictionary and parses it.
func ParseString(text string) (*Program, error) {
	l := lexer.FromSource(lexer.Default, text)
	defer l.Close()
	return ParseProgram(l)
}

// ParseProgram parses statements until the end of the stream. Anything left
// over that cannot start a statement is a SyntaxError, and a lex error that
// cut the stream short is reported instead of a truncated program.
func (p *Parser) ParseProgram() (*Program, error) {
	start, _ := p.l.Lookahead()
	program := &Program{Token: start}
	stmts, err := p.parseStatements(nil)
	if err != nil {
		return nil, err
	}
	program.Statements = stmts
	if _, ok := p.l.Lookahead(); ok {
		return nil, p.l.Unexpected("Statement")
	}
	if err := p.l.Err(); err != nil {
		return nil, err
	}
	debugPrint("ParseProgram: %d statements", len(stmts))
	return program, nil
}

// --- Helpers ---

func (p *Parser) keyword(word string) (lexer.Token, bool) {
	if !p.l.LookaheadKeyword(word) {
		return lexer.Token{}, false
	}
	return p.l.Consume(1)[0], true
}

func (p *Parser) expectKeyword(word string) (lexer.Token, error) {
	if tok, ok := p.keyword(word); ok {
		return tok, nil
	}
	return lexer.Token{}, p.l.Unexpected(strconv.Quote(word))
}

func (p *Parser) skipSemicolons() {
	for {
		if _, ok := p.l.Accept(lexer.Semicolon); !ok {
			return
		}
	}
}

// peekPair reports whether the next two tokens have the given types.
func (p *Parser) peekPair(first, second *lexer.TokenType) bool {
	toks := p.l.Peek(2)
	return len(toks) == 2 && toks[0].Type == first && toks[1].Type == second
}

// closeAngle consumes a closing `>` of a generic list. A `>>` token is split
// so that nested lists like Array<Array<number>> close one level at a time.
func (p *Parser) closeAngle() bool {
	if _, ok := p.l.Accept(lexer.GreaterThan); ok {
		return true
	}
	tok, ok := p.l.Accept(lexer.BitwiseRightShift)
	if !ok {
		return false
	}
	rest := tok
	rest.Type = lexer.GreaterThan
	rest.Lexeme = ">"
	rest.Column++
	rest.Offset++
	rest.Length = 1
	p.l.Unread(rest)
	return true
}

// parseList parses comma separated items up to and including closer. The
// opening token has already been consumed. A trailing comma is allowed.
func parseList[T comparable](p *Parser, closer *lexer.TokenType, what string, item func() (T, error)) ([]T, error) {
	closed := func() bool {
		if closer == lexer.GreaterThan {
			return p.closeAngle()
		}
		_, ok := p.l.Accept(closer)
		return ok
	}

	var zero T
	list := []T{}
	for {
		if closed() {
			return list, nil
		}
		if len(list) > 0 {
			if _, ok := p.l.Accept(lexer.Comma); !ok {
				return nil, p.l.Unexpected(closer.DisplayName())
			}
			if closed() {
				return list, nil
			}
		}
		v, err := item()
		if err != nil {
			return nil, err
		}
		if v == zero {
			return nil, p.l.Unexpected(what)
		}
		list = append(list, v)
	}
}

// --- Statements ---

// parseStatements parses statements until one fails to match or closer is
// next. Semicolons between statements are skipped.
func (p *Parser) parseStatements(closer *lexer.TokenType) ([]Statement, error) {
	stmts := []Statement{}
	for {
		p.skipSemicolons()
		if closer != nil && p.l.LookaheadIs(closer) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return stmts, nil
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStatement() (Statement, error) {
	tok, ok := p.l.Lookahead()
	if !ok {
		return nil, nil
	}
	debugPrint("parseStatement: %s", tok)

	if tok.Type == lexer.Keyword {
		switch tok.Lexeme {
		case "import":
			return p.parseImportDeclaration()
		case "export":
			return p.parseExportDeclaration()
		case "let", "const":
			return p.parseVariableDeclaration(true, true)
		case "class":
			return p.parseClassDeclaration()
		case "interface":
			return p.parseInterfaceDeclaration()
		case "type":
			return p.parseTypeDeclaration()
		case "if":
			return p.parseIfStatement()
		case "func":
			return p.parseFunctionDeclaration()
		case "loop", "do", "while", "for":
			return p.parseLoop("")
		case "break":
			p.l.Consume(1)
			return &BreakStatement{Token: tok, Label: p.optionalLabel()}, nil
		case "continue":
			p.l.Consume(1)
			return &ContinueStatement{Token: tok, Label: p.optionalLabel()}, nil
		case "return":
			return p.parseReturnStatement()
		}
	}

	// A label is an identifier followed by a colon; anything else starts an
	// expression, so the identifier is pushed back.
	if tok.Type == lexer.Identifier {
		p.l.Consume(1)
		if _, ok := p.l.Accept(lexer.Colon); ok {
			if !p.l.LookaheadKeyword("loop") && !p.l.LookaheadKeyword("do") &&
				!p.l.LookaheadKeyword("while") && !p.l.LookaheadKeyword("for") {
				return nil, p.l.Unexpected("loop statement")
			}
			return p.parseLoop(tok.Lexeme)
		}
		p.l.Unread(tok)
	}

	if tok.Type == lexer.LeftBrace {
		return p.parseBlockStatement()
	}

	expr, err := p.parseExpression()
	if err != nil || expr == nil {
		return nil, err
	}
	return &ExpressionStatement{Token: tok, Expression: expr}, nil
}

func (p *Parser) optionalLabel() string {
	if tok, ok := p.l.Accept(lexer.Identifier); ok {
		return tok.Lexeme
	}
	return ""
}

func (p *Parser) parseBlockStatement() (*BlockStatement, error) {
	tok, err := p.l.Match(lexer.LeftBrace)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(lexer.RightBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.l.Match(lexer.RightBrace); err != nil {
		return nil, err
	}
	return &BlockStatement{Token: tok, Statements: stmts}, nil
}

func (p *Parser) requireExpression() (Expression, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, p.l.Unexpected("Expression")
	}
	return expr, nil
}

func (p *Parser) parseIfStatement() (*IfStatement, error) {
	tok, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	stmt := &IfStatement{Token: tok}
	if stmt.Condition, err = p.requireExpression(); err != nil {
		return nil, err
	}
	if stmt.Consequence, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}
	if _, ok := p.keyword("else"); !ok {
		return stmt, nil
	}
	if p.l.LookaheadKeyword("if") {
		alt, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		stmt.Alternative = alt
		return stmt, nil
	}
	alt, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	stmt.Alternative = alt
	return stmt, nil
}

// parseLoop parses loop, do-while, while, for and for-of statements.
func (p *Parser) parseLoop(label string) (Statement, error) {
	tok, _ := p.l.Lookahead()
	p.l.Consume(1)

	switch tok.Lexeme {
	case "loop":
		body, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		return &LoopStatement{Token: tok, Label: label, Body: body}, nil

	case "do":
		body, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("while"); err != nil {
			return nil, err
		}
		cond, err := p.requireExpression()
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{Token: tok, Label: label, Body: body, Condition: cond}, nil

	case "while":
		cond, err := p.requireExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		return &WhileStatement{Token: tok, Label: label, Condition: cond, Body: body}, nil
	}

	if _, ok := p.l.Accept(lexer.LeftParenthesis); !ok {
		return p.parseForOf(tok, label)
	}

	stmt := &ForStatement{Token: tok, Label: label}
	if p.l.LookaheadKeyword("let") || p.l.LookaheadKeyword("const") {
		decl, err := p.parseVariableDeclaration(true, true)
		if err != nil {
			return nil, err
		}
		stmt.Initializer = decl
	}
	if _, err := p.l.Match(lexer.Semicolon); err != nil {
		return nil, err
	}
	var err error
	if stmt.Condition, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.l.Match(lexer.Semicolon); err != nil {
		return nil, err
	}
	if stmt.Update, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.l.Match(lexer.RightParenthesis); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseForOf(tok lexer.Token, label string) (*ForOfStatement, error) {
	name, err := p.l.Match(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("of"); err != nil {
		return nil, err
	}
	stmt := &ForOfStatement{Token: tok, Label: label, Iterator: &Identifier{Token: name, Name: name.Lexeme}}
	if stmt.Iterable, err = p.requireExpression(); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlockStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseReturnStatement() (*ReturnStatement, error) {
	tok, err := p.expectKeyword("return")
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ReturnStatement{Token: tok, Value: value}, nil
}

// --- Modules ---

func (p *Parser) parseImportDeclaration() (*ImportDeclaration, error) {
	tok, err := p.expectKeyword("import")
	if err != nil {
		return nil, err
	}
	decl := &ImportDeclaration{Token: tok}

	if _, ok := p.l.Accept(lexer.LeftBrace); ok {
		decl.Specifiers, err = parseList(p, lexer.RightBrace, "Identifier", p.parseImportSpecifier)
		if err != nil {
			return nil, err
		}
	} else {
		name, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		decl.Local = name.Lexeme
	}

	p.keyword("from")
	source, err := p.l.Match(lexer.String)
	if err != nil {
		return nil, err
	}
	decl.Source = unquote(source.Lexeme)
	return decl, nil
}

func (p *Parser) parseImportSpecifier() (*ImportSpecifier, error) {
	name, ok := p.l.Accept(lexer.Identifier)
	if !ok {
		return nil, nil
	}
	spec := &ImportSpecifier{Token: name, Name: name.Lexeme}
	if _, ok := p.keyword("as"); ok {
		alias, err := p.l.Match(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		spec.Alias = alias.Lexeme
	}
	return spec, nil
}

func (p *Parser) parseExportDeclaration() (*ExportDeclaration, error) {
	tok, err := p.expectKeyword("export")
	if err != nil {
		return nil, err
	}
	next, ok := p.l.Lookahead()
	if !ok || next.Type != lexer.Keyword {
		return nil, p.l.Unexpected("declaration")
	}

	var decl Statement
	switch next.Lexeme {
	case "let", "const":
		decl, err = p.parseVariableDeclaration(true, true)
	case "func":
		decl, err = p.parseFunctionDeclaration()
	case "class":
		decl, err = p.parseClassDeclaration()
	case "interface":
		decl, err = p.parseInterfaceDeclaration()
	case "type":
		decl, err = p.parseTypeDeclaration()
	default:
		return nil, p.l.Unexpected("declaration")
	}
	if err != nil {
		return nil, err
	}
	return &ExportDeclaration{Token: tok, Declaration: decl}, nil
}

// --- Errors ---

func (p *Parser) errorAt(tok lexer.Token, expected string) error {
	return &errors.SyntaxError{Position: tok.Pos(), Got: tok.Type.DisplayName(), Expected: expected}
}

func unquote(lexeme string) string {
	if s, err := strconv.Unquote(lexeme); err == nil {
		return s
	}
	return lexeme[1 : len(lexeme)-1]
}
