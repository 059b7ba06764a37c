package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"snff/pkg/source"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&LexError{Position: Position{Line: 1, Column: 3}, Char: '@'},
			"Lex Error at 1:3: unexpected character '@'"},
		{&SyntaxError{Position: Position{Line: 2, Column: 1}, Got: "EOF", Expected: `"}"`},
			`Syntax Error at 2:1: expected "}" but found EOF`},
		{&SyntaxError{Position: Position{Line: 1, Column: 1}, Got: `"}"`},
			`Syntax Error at 1:1: unexpected token "}"`},
		{NewTypeError(Position{Line: 1, Column: 17}, MsgNotAssignable, "string", "number"),
			"Type Error at 1:17: type string is not assignable to number"},
		{NewReferenceError(Position{Line: 4, Column: 2}, "y"),
			"Reference Error at 4:2: variable y is not declared"},
		{NewTypeReferenceError(Position{}, "Shape"),
			"Reference Error: type Shape is not declared"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestLocalizedMessages(t *testing.T) {
	err := NewTypeError(Position{Line: 1, Column: 1}, MsgNotAssignable, "string", "number")
	pt := ParseLocale("pt-BR")
	if got := err.Localized(pt); got != "O tipo string não é um sub-tipo de number" {
		t.Errorf("unexpected Portuguese message %q", got)
	}
	if got := Localize(err, English); got != err.Message() {
		t.Errorf("expected English Localize to match Message, got %q", got)
	}
	plain := fmt.Errorf("boom")
	if got := Localize(plain, pt); got != "boom" {
		t.Errorf("expected non-diagnostics to keep their text, got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected language.Tag
	}{
		{"", English},
		{"en", English},
		{"pt-BR", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"not a tag!", English},
		{"ja", English},
	}
	for _, tt := range tests {
		if got := ParseLocale(tt.input); got != tt.expected {
			t.Errorf("ParseLocale(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestSyntaxErrorUnwrapsCause(t *testing.T) {
	cause := &LexError{Position: Position{Line: 1, Column: 1}, Char: '#'}
	err := error(&SyntaxError{Got: "EOF", Cause: cause})
	var lexErr *LexError
	if !stderrors.As(err, &lexErr) || lexErr != cause {
		t.Errorf("expected the lex error to be reachable through Unwrap")
	}
	if !err.(*SyntaxError).IsEOF() {
		t.Errorf("expected IsEOF")
	}
}

func TestDisplayErrors(t *testing.T) {
	src := source.NewSourceFile("main.snff", "", "let a = 1\nlet x: number = \"a\"\n")
	err := NewTypeError(Position{Line: 2, Column: 17, StartPos: 26, EndPos: 29}, MsgNotAssignable, "string", "number")

	var out strings.Builder
	DisplayErrors(&out, src, []Diagnostic{err}, English)

	lines := strings.Split(out.String(), "\n")
	if lines[0] != "main.snff:2:17: Type Error: type string is not assignable to number" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != `  let x: number = "a"` {
		t.Errorf("unexpected source line %q", lines[1])
	}
	if lines[2] != "  "+strings.Repeat(" ", 16)+"^~~" {
		t.Errorf("unexpected marker %q", lines[2])
	}
}
