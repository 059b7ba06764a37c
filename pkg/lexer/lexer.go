package lexer

import (
	"fmt"
	"iter"

	"snff/pkg/errors"
)

// Token is a classified lexeme.
type Token struct {
	Type   *TokenType
	Lexeme string
	Line   int // 1-based line number where the token starts
	Column int // 1-based column number (rune index) where the token starts
	Offset int // 0-based rune offset where the token starts
	Length int // length in runes
}

// Pos returns the token's position for diagnostics.
func (t Token) Pos() errors.Position {
	return errors.Position{Line: t.Line, Column: t.Column, StartPos: t.Offset, EndPos: t.Offset + t.Length}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type.Name, t.Lexeme, t.Line, t.Column)
}

// scanner walks the input once, classifying prefixes against the dictionary.
type scanner struct {
	dict   Dictionary
	src    []rune
	pos    int
	line   int
	column int
}

func newScanner(dict Dictionary, text string) *scanner {
	return &scanner{dict: dict, src: []rune(text), line: 1, column: 1}
}

// next returns the next token including ignored ones. ok is false at end of
// input.
func (s *scanner) next() (tok Token, ok bool, err error) {
	if s.pos >= len(s.src) {
		return Token{}, false, nil
	}
	for _, tt := range s.dict {
		n := tt.Match(s.src, s.pos)
		if n <= 0 {
			continue
		}
		tok = Token{
			Type:   tt,
			Lexeme: string(s.src[s.pos : s.pos+n]),
			Line:   s.line,
			Column: s.column,
			Offset: s.pos,
			Length: n,
		}
		s.advance(n)
		return tok, true, nil
	}
	return Token{}, false, &errors.LexError{
		Position: errors.Position{Line: s.line, Column: s.column, StartPos: s.pos, EndPos: s.pos + 1},
		Char:     s.src[s.pos],
	}
}

func (s *scanner) advance(n int) {
	for _, r := range s.src[s.pos : s.pos+n] {
		if r == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}
	s.pos += n
}

// Tokenize lazily lexes text against dict. Ignored tokens are never yielded.
// When no entry matches, the sequence yields a *errors.LexError and stops.
func Tokenize(dict Dictionary, text string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := newScanner(dict, text)
		for {
			tok, ok, err := s.next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !ok {
				return
			}
			if tok.Type.Ignore {
				continue
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Scan lexes the whole text eagerly. With includeIgnored the result also
// holds whitespace and comments, so concatenating every lexeme gives back text.
func Scan(dict Dictionary, text string, includeIgnored bool) ([]Token, error) {
	s := newScanner(dict, text)
	var out []Token
	for {
		tok, ok, err := s.next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if tok.Type.Ignore && !includeIgnored {
			continue
		}
		out = append(out, tok)
	}
}

// Lexer is a pull-based token stream with a lookahead buffer and one-token
// pushback.
type Lexer struct {
	next   func() (Token, error, bool)
	stop   func()
	queue  []Token
	err    error
	done   bool
	unread bool  // a pushed back token sits at the front of queue
	last   *Token // most recently consumed token, for EOF positions
}

// FromSource creates a Lexer over text. Call Close when parsing stops early.
func FromSource(dict Dictionary, text string) *Lexer {
	next, stop := iter.Pull2(Tokenize(dict, text))
	return &Lexer{next: next, stop: stop}
}

// Close releases the underlying token iterator.
func (l *Lexer) Close() {
	l.stop()
	l.done = true
}

// Err returns the lex error that ended the stream, if any.
func (l *Lexer) Err() error { return l.err }

func (l *Lexer) fill(count int) {
	for len(l.queue) < count && !l.done {
		tok, err, ok := l.next()
		if !ok {
			l.done = true
			break
		}
		if err != nil {
			l.err = err
			l.done = true
			break
		}
		l.queue = append(l.queue, tok)
	}
}

// Peek returns up to count tokens without consuming them.
func (l *Lexer) Peek(count int) []Token {
	l.fill(count)
	n := min(count, len(l.queue))
	return l.queue[:n:n]
}

// Lookahead returns the next token; ok is false at end of stream.
func (l *Lexer) Lookahead() (Token, bool) {
	toks := l.Peek(1)
	if len(toks) == 0 {
		return Token{}, false
	}
	return toks[0], true
}

// Consume removes and returns up to count tokens.
func (l *Lexer) Consume(count int) []Token {
	l.fill(count)
	n := min(count, len(l.queue))
	out := make([]Token, n)
	copy(out, l.queue[:n])
	l.queue = l.queue[n:]
	if n > 0 {
		l.unread = false
		l.last = &out[n-1]
	}
	return out
}

// LookaheadIs reports whether the next token has type tt.
func (l *Lexer) LookaheadIs(tt *TokenType) bool {
	tok, ok := l.Lookahead()
	return ok && tok.Type == tt
}

// LookaheadKeyword reports whether the next token is the given keyword.
func (l *Lexer) LookaheadKeyword(word string) bool {
	tok, ok := l.Lookahead()
	return ok && tok.Type == Keyword && tok.Lexeme == word
}

// Accept consumes the next token when it has type tt.
func (l *Lexer) Accept(tt *TokenType) (Token, bool) {
	if !l.LookaheadIs(tt) {
		return Token{}, false
	}
	return l.Consume(1)[0], true
}

// Match consumes the next token, which must have type tt.
func (l *Lexer) Match(tt *TokenType) (Token, error) {
	if tok, ok := l.Accept(tt); ok {
		return tok, nil
	}
	return Token{}, l.Unexpected(tt.DisplayName())
}

// Unexpected builds the error for the current lookahead. A pending lex error
// takes precedence, since the stream only looks exhausted because of it.
func (l *Lexer) Unexpected(expected string) error {
	tok, ok := l.Lookahead()
	if l.err != nil && !ok {
		return l.err
	}
	if !ok {
		return &errors.SyntaxError{Got: "EOF", Expected: expected, Position: l.eofPos()}
	}
	return &errors.SyntaxError{Got: tok.Type.DisplayName(), Expected: expected, Position: tok.Pos()}
}

func (l *Lexer) eofPos() errors.Position {
	if l.last == nil {
		return errors.Position{Line: 1, Column: 1}
	}
	end := l.last.Offset + l.last.Length
	return errors.Position{Line: l.last.Line, Column: l.last.Column + l.last.Length, StartPos: end, EndPos: end + 1}
}

// Unread pushes tok back to the front of the stream. Only one token may be
// pushed back until it is consumed again.
func (l *Lexer) Unread(tok Token) {
	if l.unread {
		panic("lexer: Unread called twice without an intervening Consume")
	}
	l.queue = append([]Token{tok}, l.queue...)
	l.unread = true
}
