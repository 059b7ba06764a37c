package lexer

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/hashicorp/go-set/v3"
)

// Matcher recognizes a prefix of src starting at rune offset at. It returns
// the length of the match in runes, or -1 when it does not match.
type Matcher interface {
	Match(src []rune, at int) int
}

// TokenType is one entry of a token dictionary.
type TokenType struct {
	Name   string
	Label  string // Display name used in diagnostics; falls back to Name
	Ignore bool   // Suppressed from the token stream (whitespace, comments)
	match  Matcher
}

// Option customizes a TokenType at construction.
type Option func(*TokenType)

// Ignored marks the token type as suppressed from the stream.
func Ignored() Option {
	return func(t *TokenType) { t.Ignore = true }
}

// Labeled overrides the display label.
func Labeled(label string) Option {
	return func(t *TokenType) { t.Label = label }
}

// New builds a TokenType around an arbitrary matcher.
func New(name string, m Matcher, opts ...Option) *TokenType {
	t := &TokenType{Name: name, match: m}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Literal builds a TokenType that matches the exact text. Its label is the
// quoted text.
func Literal(name, text string, opts ...Option) *TokenType {
	opts = append([]Option{Labeled(strconv.Quote(text))}, opts...)
	return New(name, literalMatcher([]rune(text)), opts...)
}

// Pattern builds a TokenType from a regular expression. The expression is
// anchored at the current position, so only prefixes of the remaining input
// can match. It panics if expr does not compile.
func Pattern(name, expr string, opts ...Option) *TokenType {
	re := regexp2.MustCompile(`\G(?:`+expr+`)`, regexp2.None)
	return New(name, &patternMatcher{re: re}, opts...)
}

// Match runs the matcher at rune offset at.
func (t *TokenType) Match(src []rune, at int) int {
	return t.match.Match(src, at)
}

// MatchString is the text-prefix form of Match.
func (t *TokenType) MatchString(text string) (int, bool) {
	n := t.match.Match([]rune(text), 0)
	return n, n >= 0
}

// DisplayName returns the label when set, otherwise the name.
func (t *TokenType) DisplayName() string {
	if t == nil {
		return "EOF"
	}
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

func (t *TokenType) String() string { return t.DisplayName() }

type literalMatcher []rune

func (m literalMatcher) Match(src []rune, at int) int {
	if len(m) == 0 || len(src)-at < len(m) {
		return -1
	}
	for i, r := range m {
		if src[at+i] != r {
			return -1
		}
	}
	return len(m)
}

type patternMatcher struct {
	re *regexp2.Regexp
}

func (m *patternMatcher) Match(src []rune, at int) int {
	match, err := m.re.FindRunesMatchStartingAt(src, at)
	if err != nil || match == nil || match.Index != at || match.Length == 0 {
		return -1
	}
	return match.Length
}

// Dictionary is an ordered list of token types. Matching tries entries in
// order and the first one that matches wins.
type Dictionary []*TokenType

// Lookup returns the entry with the given name.
func (d Dictionary) Lookup(name string) (*TokenType, bool) {
	for _, t := range d {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Keywords reserved by the default dictionary.
var Keywords = []string{
	"let", "const", "if", "else", "return", "true", "false", "infinity", "func",
	"for", "while", "do", "with", "type", "loop", "break", "continue", "null", "void",
	"import", "export", "as", "from", "of", "interface", "class", "extends",
	"implements", "new", "this", "public", "private", "protected", "static",
	"super", "operator", "call",
}

var keywordSet = set.From(Keywords)

// IsKeyword reports whether s is reserved.
func IsKeyword(s string) bool { return keywordSet.Contains(s) }

const identChar = `[\p{L}\p{N}_$]`

// keywordPattern matches a reserved word only when no identifier character
// follows it, so "letter" lexes as an identifier rather than "let" + "ter".
func keywordPattern() string {
	return `(?:` + strings.Join(Keywords, "|") + `)(?!` + identChar + `)`
}

// --- Default dictionary entries ---
var (
	// Comments
	SingleLineComment = Pattern("SingleLineCommentToken", `//[^\n]*`, Ignored())
	MultiLineComment  = Pattern("MultiLineCommentToken", `/\*[\s\S]*?\*/`, Ignored())

	// Literals
	Keyword            = Pattern("KeywordToken", keywordPattern())
	Number             = Pattern("NumberToken", `[0-9]+(?:\.[0-9]+)?`)
	String             = Pattern("StringToken", `"(?:[^"\\\n]|\\.)*"`)
	UnterminatedString = Pattern("UnterminatedStringToken", `"(?:[^"\\\n]|\\.)*`, Labeled("unterminated string"))

	// Identifiers
	Identifier = Pattern("IdentifierToken", `[\p{L}_$]`+identChar+`*`)

	// Multi-character operators come before their single-character prefixes.
	Ellipsis           = Literal("EllipsisToken", "...")
	And                = Literal("AndToken", "&&")
	Or                 = Literal("OrToken", "||")
	Power              = Literal("PowerToken", "**")
	Increment          = Literal("IncrementToken", "++")
	Decrement          = Literal("DecrementToken", "--")
	PlusAssign         = Literal("PlusAssignToken", "+=")
	MinusAssign        = Literal("MinusAssignToken", "-=")
	MultiplyAssign     = Literal("MultiplyAssignToken", "*=")
	DivideAssign       = Literal("DivideAssignToken", "/=")
	ModuloAssign       = Literal("ModuloAssignToken", "%=")
	BitwiseLeftShift   = Literal("BitwiseLeftShiftToken", "<<")
	BitwiseRightShift  = Literal("BitwiseRightShiftToken", ">>")
	Equal              = Literal("EqualToken", "==")
	NotEqual           = Literal("NotEqualToken", "!=")
	GreaterThanOrEqual = Literal("GreaterThanOrEqualToken", ">=")
	LessThanOrEqual    = Literal("LessThanOrEqualToken", "<=")

	// Single-character operators
	Not         = Literal("NotToken", "!")
	Ampersand   = Literal("BitwiseAndToken", "&")
	Pipe        = Literal("PipeToken", "|")
	BitwiseXor  = Literal("BitwiseXorToken", "^")
	BitwiseNot  = Literal("BitwiseNotToken", "~")
	GreaterThan = Literal("GreaterThanToken", ">")
	LessThan    = Literal("LessThanToken", "<")
	Plus        = Literal("PlusToken", "+")
	Minus       = Literal("MinusToken", "-")
	Multiply    = Literal("MultiplyToken", "*")
	Divide      = Literal("DivideToken", "/")
	Modulo      = Literal("ModuloToken", "%")
	Assign      = Literal("AssignToken", "=")

	// Punctuation
	LeftParenthesis  = Literal("LeftParenthesisToken", "(")
	RightParenthesis = Literal("RightParenthesisToken", ")")
	LeftBrace        = Literal("LeftBraceToken", "{")
	RightBrace       = Literal("RightBraceToken", "}")
	LeftBracket      = Literal("LeftBracketToken", "[")
	RightBracket     = Literal("RightBracketToken", "]")
	Comma            = Literal("CommaToken", ",")
	Dot              = Literal("DotToken", ".")
	Semicolon        = Literal("SemicolonToken", ";")
	Colon            = Literal("ColonToken", ":")
	QuestionMark     = Literal("QuestionMarkToken", "?")

	// Whitespace
	Whitespace = Pattern("WhitespaceToken", `\s+`, Ignored())
)

// Default is the dictionary of the snff language, in matching order.
var Default = Dictionary{
	SingleLineComment, MultiLineComment,
	Keyword, Number, String, UnterminatedString, Identifier,
	Ellipsis, And, Or, Power, Increment, Decrement,
	PlusAssign, MinusAssign, MultiplyAssign, DivideAssign, ModuloAssign,
	BitwiseLeftShift, BitwiseRightShift, Equal, NotEqual, GreaterThanOrEqual, LessThanOrEqual,
	Not, Ampersand, Pipe, BitwiseXor, BitwiseNot, GreaterThan, LessThan,
	Plus, Minus, Multiply, Divide, Modulo, Assign,
	LeftParenthesis, RightParenthesis, LeftBrace, RightBrace, LeftBracket, RightBracket,
	Comma, Dot, Semicolon, Colon, QuestionMark,
	Whitespace,
}
