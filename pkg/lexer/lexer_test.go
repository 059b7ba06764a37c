package lexer

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"snff/pkg/errors"
)

func collect(t *testing.T, input string) []Token {
	t.Helper()
	var out []Token
	for tok, err := range Tokenize(Default, input) {
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		out = append(out, tok)
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const ten = 10.5 // trailing comment

func add(x: number, y: number): number {
  return x + y
}

/* block
   comment */
let result = add(five, ten)
!~-/5 ** 2;
a <= b >= c << d >> e == f != g && h || i
x += 1 ...rest
"foo bar"`

	tests := []struct {
		expectedType    *TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{Keyword, "let", 1},
		{Identifier, "five", 1},
		{Assign, "=", 1},
		{Number, "5", 1},
		{Semicolon, ";", 1},
		{Keyword, "const", 2},
		{Identifier, "ten", 2},
		{Assign, "=", 2},
		{Number, "10.5", 2},
		{Keyword, "func", 4},
		{Identifier, "add", 4},
		{LeftParenthesis, "(", 4},
		{Identifier, "x", 4},
		{Colon, ":", 4},
		{Identifier, "number", 4},
		{Comma, ",", 4},
		{Identifier, "y", 4},
		{Colon, ":", 4},
		{Identifier, "number", 4},
		{RightParenthesis, ")", 4},
		{Colon, ":", 4},
		{Identifier, "number", 4},
		{LeftBrace, "{", 4},
		{Keyword, "return", 5},
		{Identifier, "x", 5},
		{Plus, "+", 5},
		{Identifier, "y", 5},
		{RightBrace, "}", 6},
		{Keyword, "let", 10},
		{Identifier, "result", 10},
		{Assign, "=", 10},
		{Identifier, "add", 10},
		{LeftParenthesis, "(", 10},
		{Identifier, "five", 10},
		{Comma, ",", 10},
		{Identifier, "ten", 10},
		{RightParenthesis, ")", 10},
		{Not, "!", 11},
		{BitwiseNot, "~", 11},
		{Minus, "-", 11},
		{Divide, "/", 11},
		{Number, "5", 11},
		{Power, "**", 11},
		{Number, "2", 11},
		{Semicolon, ";", 11},
		{Identifier, "a", 12},
		{LessThanOrEqual, "<=", 12},
		{Identifier, "b", 12},
		{GreaterThanOrEqual, ">=", 12},
		{Identifier, "c", 12},
		{BitwiseLeftShift, "<<", 12},
		{Identifier, "d", 12},
		{BitwiseRightShift, ">>", 12},
		{Identifier, "e", 12},
		{Equal, "==", 12},
		{Identifier, "f", 12},
		{NotEqual, "!=", 12},
		{Identifier, "g", 12},
		{And, "&&", 12},
		{Identifier, "h", 12},
		{Or, "||", 12},
		{Identifier, "i", 12},
		{Identifier, "x", 13},
		{PlusAssign, "+=", 13},
		{Number, "1", 13},
		{Ellipsis, "...", 13},
		{Identifier, "rest", 13},
		{String, `"foo bar"`, 14},
	}

	toks := collect(t, input)
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(toks), toks)
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType.Name, tok.Type.Name, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Lexeme)
		}
		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong for %q. expected=%d, got=%d", i, tok.Lexeme, tt.expectedLine, tok.Line)
		}
	}
}

func TestKeywordBoundary(t *testing.T) {
	tests := []struct {
		input    string
		expected *TokenType
	}{
		{"let", Keyword},
		{"letter", Identifier},
		{"classify", Identifier},
		{"do", Keyword},
		{"done", Identifier},
		{"of", Keyword},
		{"offset", Identifier},
		{"import_", Identifier},
		{"this$", Identifier},
		{"new2", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(t, tt.input)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %v", toks)
			}
			if toks[0].Type != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected.Name, toks[0].Type.Name)
			}
		})
	}
}

func TestIgnoredTokensNeverYielded(t *testing.T) {
	input := "  // c\n let /* x */ a = 1 \t\n"
	for _, tok := range collect(t, input) {
		if tok.Type.Ignore {
			t.Errorf("ignored token %s leaked into the stream", tok)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"let x: number = 1 + 2 * 3 // done\n",
		"class Point {\n\tx: number; y: number\n}\n/* tail */",
		"",
		"func f(...rest) { return rest }",
	}
	for _, input := range inputs {
		toks, err := Scan(Default, input, true)
		if err != nil {
			t.Fatalf("Scan(%q) failed: %v", input, err)
		}
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Lexeme)
		}
		if sb.String() != input {
			t.Errorf("round trip mismatch:\nwant %q\ngot  %q", input, sb.String())
		}
	}
}

func TestDeterministic(t *testing.T) {
	input := `interface Shape { area(): number } let s = [1, "a", true]`
	first := collect(t, input)
	second := collect(t, input)
	if !slices.Equal(first, second) {
		t.Errorf("lexing is not deterministic:\n%v\n%v", first, second)
	}
}

func TestLexError(t *testing.T) {
	var got error
	var toks []Token
	for tok, err := range Tokenize(Default, "let a = 1 @ 2") {
		if err != nil {
			got = err
			break
		}
		toks = append(toks, tok)
	}
	var lexErr *errors.LexError
	if !stderrors.As(got, &lexErr) {
		t.Fatalf("expected LexError, got %v", got)
	}
	if lexErr.Char != '@' {
		t.Errorf("expected offending char '@', got %q", lexErr.Char)
	}
	if lexErr.Column != 11 {
		t.Errorf("expected column 11, got %d", lexErr.Column)
	}
	if len(toks) != 4 {
		t.Errorf("expected 4 tokens before the error, got %d", len(toks))
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := collect(t, `let s = "abc`)
	last := toks[len(toks)-1]
	if last.Type != UnterminatedString {
		t.Fatalf("expected unterminated string token, got %s", last)
	}
}

func TestPeekConsumeUnread(t *testing.T) {
	l := FromSource(Default, "a : b c")
	defer l.Close()

	peeked := l.Peek(3)
	if len(peeked) != 3 || peeked[0].Lexeme != "a" || peeked[2].Lexeme != "b" {
		t.Fatalf("unexpected peek result %v", peeked)
	}
	if !l.LookaheadIs(Identifier) {
		t.Fatalf("expected identifier lookahead")
	}

	first := l.Consume(1)[0]
	if l.LookaheadIs(Identifier) {
		t.Fatalf("expected colon after consuming identifier")
	}
	l.Unread(first)
	if tok, _ := l.Lookahead(); tok.Lexeme != "a" {
		t.Fatalf("expected pushed back token, got %v", tok)
	}

	rest := l.Consume(10)
	if len(rest) != 4 {
		t.Fatalf("expected 4 remaining tokens, got %v", rest)
	}
	if got := l.Consume(1); len(got) != 0 {
		t.Fatalf("expected exhausted stream, got %v", got)
	}
	if _, ok := l.Lookahead(); ok {
		t.Fatalf("expected no lookahead at EOF")
	}
}

func TestDoubleUnreadPanics(t *testing.T) {
	l := FromSource(Default, "a b")
	defer l.Close()
	toks := l.Consume(2)

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on second Unread")
		}
	}()
	l.Unread(toks[1])
	l.Unread(toks[0])
}

func TestMatchErrors(t *testing.T) {
	l := FromSource(Default, "(")
	defer l.Close()

	if _, err := l.Match(LeftParenthesis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := l.Match(RightParenthesis)
	var syn *errors.SyntaxError
	if !stderrors.As(err, &syn) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if syn.Got != "EOF" || syn.Expected != `")"` {
		t.Errorf("unexpected error fields: got=%q expected=%q", syn.Got, syn.Expected)
	}
}

func TestStickyLexErrorWins(t *testing.T) {
	l := FromSource(Default, "a #")
	defer l.Close()
	l.Consume(1)
	if _, ok := l.Lookahead(); ok {
		t.Fatalf("expected stream to stop at the bad character")
	}
	_, err := l.Match(Identifier)
	var lexErr *errors.LexError
	if !stderrors.As(err, &lexErr) {
		t.Fatalf("expected LexError to surface, got %v", err)
	}
	if l.Err() == nil {
		t.Errorf("expected Err() to report the lex error")
	}
}

func TestMatchString(t *testing.T) {
	if n, ok := Keyword.MatchString("while(x)"); !ok || n != 5 {
		t.Errorf("expected keyword match of length 5, got %d %v", n, ok)
	}
	if _, ok := Keyword.MatchString("whiles"); ok {
		t.Errorf("keyword must not match a prefix of an identifier")
	}
	if n, ok := Power.MatchString("**="); !ok || n != 2 {
		t.Errorf("expected literal match of length 2, got %d %v", n, ok)
	}
	if !IsKeyword("interface") || IsKeyword("number") {
		t.Errorf("IsKeyword misclassified")
	}
}
