package driver

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"snff/pkg/checker"
	"snff/pkg/errors"
	"snff/pkg/lexer"
	"snff/pkg/parser"
	"snff/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Session is a persistent checking session. Declarations made by a
// successful Run stay visible to later ones; a failed Run leaves the session
// unchanged.
type Session struct {
	config Config
	scope  *checker.Scope
}

// NewSession creates a session with a fresh root scope.
func NewSession(cfg Config) *Session {
	return &Session{config: cfg, scope: checker.NewRootScope()}
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.config }

// Scope returns the top-level scope shared by every Run.
func (s *Session) Scope() *checker.Scope { return s.scope }

// Parse lexes and parses src without checking it.
func (s *Session) Parse(src *source.SourceFile) (*parser.Program, error) {
	if s.config.Normalize {
		src.Normalize()
	}
	l := lexer.FromSource(lexer.Default, src.Content)
	defer l.Close()
	return parser.NewParser(l).ParseProgram()
}

// Run parses and checks src in the session scope.
func (s *Session) Run(src *source.SourceFile) (*Result, error) {
	debugPrintf("// [Driver] running %s\n", src.DisplayPath())
	program, err := s.Parse(src)
	if err != nil {
		return nil, err
	}

	// declarations reach the session scope only when the whole input checks
	run := s.scope.Fork()
	checked, err := checker.New(checker.WithScope(run)).CheckProgram(program)
	if err != nil {
		return nil, err
	}
	s.scope.Absorb(run)
	return newResult(src, program, checked, s.config.DumpAST), nil
}

// Report prints err to w, with the offending source line when err is a
// diagnostic.
func (s *Session) Report(w io.Writer, src *source.SourceFile, err error) {
	var d errors.Diagnostic
	if stderrors.As(err, &d) {
		errors.DisplayErrors(w, src, []errors.Diagnostic{d}, s.config.Tag())
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}

// CheckString checks text in a new session with the default configuration.
func CheckString(text string) (*Result, error) {
	return NewSession(DefaultConfig()).Run(source.NewEvalSource(text))
}

// CheckFile checks the file at path and writes the result, or the error, in
// the configured format. It reports whether checking succeeded.
func CheckFile(path string, cfg Config, stdout, stderr io.Writer) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read file '%s': %s\n", path, err)
		return false
	}
	return RunSource(source.FromFile(path, string(content)), cfg, stdout, stderr)
}

// RunSource checks src in a new session and writes the outcome.
func RunSource(src *source.SourceFile, cfg Config, stdout, stderr io.Writer) bool {
	session := NewSession(cfg)
	result, err := session.Run(src)
	if err != nil {
		session.Report(stderr, src, err)
		return false
	}
	if err := result.Render(stdout, cfg.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return false
	}
	return true
}
