package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"snff/pkg/source"
)

// Diagnostic is the interface implemented by all pipeline errors.
type Diagnostic interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Lex", "Syntax", "Type", "Reference"
	// Message returns the specific error message without position info.
	Message() string
	// Localized renders the message in the given language.
	Localized(tag language.Tag) string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

func format(kind string, pos Position, msg string) string {
	if !pos.IsValid() {
		return fmt.Sprintf("%s Error: %s", kind, msg)
	}
	return fmt.Sprintf("%s Error at %d:%d: %s", kind, pos.Line, pos.Column, msg)
}

// --- Concrete Error Types ---

// LexError is raised when no dictionary entry matches the remaining input.
type LexError struct {
	Position
	Char rune
}

func (e *LexError) Error() string   { return format(e.Kind(), e.Position, e.Message()) }
func (e *LexError) Pos() Position   { return e.Position }
func (e *LexError) Kind() string    { return "Lex" }
func (e *LexError) Message() string { return e.Localized(English) }
func (e *LexError) Unwrap() error   { return nil }
func (e *LexError) Localized(tag language.Tag) string {
	return sprintf(tag, MsgUnexpectedChar, e.Char)
}

// SyntaxError is raised when a required grammar element is absent.
// Got holds the label of the offending token or "EOF"; Expected is empty when
// the parser cannot name the construct it wanted.
type SyntaxError struct {
	Position
	Got      string
	Expected string
	Cause    error // Underlying cause, if any
}

func (e *SyntaxError) Error() string   { return format(e.Kind(), e.Position, e.Message()) }
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Localized(English) }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) Localized(tag language.Tag) string {
	if e.Expected != "" {
		return sprintf(tag, MsgExpected, e.Expected, e.Got)
	}
	return sprintf(tag, MsgUnexpected, e.Got)
}

// IsEOF reports whether the parser ran out of input. The REPL uses it to ask
// for a continuation line.
func (e *SyntaxError) IsEOF() bool { return e.Got == "EOF" }

// TypeError represents an assignability, arity or member failure found during
// type checking.
type TypeError struct {
	Position
	Key   string
	Args  []any
	Cause error
}

// NewTypeError builds a TypeError from a message key and its arguments.
func NewTypeError(pos Position, key string, args ...any) *TypeError {
	return &TypeError{Position: pos, Key: key, Args: args}
}

func (e *TypeError) Error() string   { return format(e.Kind(), e.Position, e.Message()) }
func (e *TypeError) Pos() Position   { return e.Position }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Localized(English) }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) Localized(tag language.Tag) string {
	return sprintf(tag, e.Key, e.Args...)
}
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// ReferenceError represents a name that does not resolve in the scope chain.
type ReferenceError struct {
	Position
	Key  string // MsgUndeclaredVar or MsgUndeclaredType
	Name string
}

// NewReferenceError builds a ReferenceError for an unresolved variable.
func NewReferenceError(pos Position, name string) *ReferenceError {
	return &ReferenceError{Position: pos, Key: MsgUndeclaredVar, Name: name}
}

// NewTypeReferenceError builds a ReferenceError for an unresolved type name.
func NewTypeReferenceError(pos Position, name string) *ReferenceError {
	return &ReferenceError{Position: pos, Key: MsgUndeclaredType, Name: name}
}

func (e *ReferenceError) Error() string   { return format(e.Kind(), e.Position, e.Message()) }
func (e *ReferenceError) Pos() Position   { return e.Position }
func (e *ReferenceError) Kind() string    { return "Reference" }
func (e *ReferenceError) Message() string { return e.Localized(English) }
func (e *ReferenceError) Unwrap() error   { return nil }
func (e *ReferenceError) Localized(tag language.Tag) string {
	return sprintf(tag, e.Key, e.Name)
}

// --- Error Reporting ---

// Localize renders err in the language tag. Errors that are not diagnostics
// keep their own text.
func Localize(err error, tag language.Tag) string {
	var d Diagnostic
	if stderrors.As(err, &d) {
		return d.Localized(tag)
	}
	return err.Error()
}

// DisplayErrors prints diagnostics to w in a user-friendly format,
// including the source line and position marker.
func DisplayErrors(w io.Writer, src *source.SourceFile, errs []Diagnostic, tag language.Tag) {
	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Localized(tag)

		line := ""
		if src != nil {
			line = src.Line(pos.Line)
		}
		if !pos.IsValid() || src == nil {
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		name := src.DisplayPath()
		fmt.Fprintf(w, "%s:%d:%d: %s Error: %s\n", name, pos.Line, pos.Column, kind, msg)
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r\n\t "))

		// Columns are 1-based; keep tabs so the caret lines up under them.
		var marker strings.Builder
		for i, r := range []rune(line) {
			if i >= pos.Column-1 {
				break
			}
			if r == '\t' {
				marker.WriteRune('\t')
			} else {
				marker.WriteRune(' ')
			}
		}
		marker.WriteRune('^')
		if span := pos.EndPos - pos.StartPos; span > 1 {
			marker.WriteString(strings.Repeat("~", span-1))
		}
		fmt.Fprintf(w, "  %s\n\n", marker.String())
	}
}
