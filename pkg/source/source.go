package source

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SourceFile represents a program text handed to the pipeline together with its metadata.
type SourceFile struct {
	Name    string   // Display name (e.g., "main.snff", "<stdin>", "<eval>")
	Path    string   // Full file path (empty for REPL/eval)
	Content string   // The source code content
	lines   []string // Cached split lines (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for -e input
func NewEvalSource(content string) *SourceFile {
	return NewSourceFile("<eval>", "", content)
}

// NewReplSource creates a source file for REPL input
func NewReplSource(content string) *SourceFile {
	return NewSourceFile("<repl>", "", content)
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return NewSourceFile("<stdin>", "", content)
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Normalize rewrites the content to Unicode NFC so that identifiers typed with
// combining marks lex the same as their precomposed spelling. The cached lines
// are dropped.
func (sf *SourceFile) Normalize() *SourceFile {
	if !norm.NFC.IsNormalString(sf.Content) {
		sf.Content = norm.NFC.String(sf.Content)
		sf.lines = nil
	}
	return sf
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 1-based line n, or "" when out of range.
func (sf *SourceFile) Line(n int) string {
	lines := sf.Lines()
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
