package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"gopkg.in/yaml.v3"

	"snff/pkg/checker"
	"snff/pkg/parser"
	"snff/pkg/source"
	"snff/pkg/types"
)

// Binding is one top-level variable in a Result.
type Binding struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Const bool   `yaml:"const,omitempty"`
}

// Import is one import declaration in a Result.
type Import struct {
	Source string   `yaml:"source"`
	Names  []string `yaml:"names"`
}

// Result summarizes a successful check: the top-level bindings and user
// declared types the input added, and its imports.
type Result struct {
	Source    string    `yaml:"source"`
	AST       string    `yaml:"ast,omitempty"`
	Variables []Binding `yaml:"variables,omitempty"`
	Types     []string  `yaml:"types,omitempty"`
	Imports   []Import  `yaml:"imports,omitempty"`
	// Last is the type of the final expression statement, if any.
	Last string `yaml:"last,omitempty"`
}

func newResult(src *source.SourceFile, program *parser.Program, checked *checker.Result, dumpAST bool) *Result {
	r := &Result{Source: src.DisplayPath()}
	if dumpAST {
		r.AST = program.String()
	}

	for _, v := range checked.Scope.Variables() {
		r.Variables = append(r.Variables, Binding{Name: v.Name, Type: types.TypeToString(v.Type), Const: v.Const})
	}

	builtins := set.From(types.Builtins())
	for _, name := range checked.Scope.Types() {
		t, _ := checked.Scope.LookupType(name)
		if cls, ok := t.(*types.Class); ok && builtins.Contains(cls) {
			continue
		}
		r.Types = append(r.Types, name)
	}

	for _, imp := range checked.Imports {
		entry := Import{Source: imp.Source}
		if imp.Local != "" {
			entry.Names = append(entry.Names, imp.Local)
		}
		for _, spec := range imp.Specifiers {
			entry.Names = append(entry.Names, spec.LocalName())
		}
		r.Imports = append(r.Imports, entry)
	}

	if n := len(program.Statements); n > 0 {
		if stmt, ok := program.Statements[n-1].(*parser.ExpressionStatement); ok {
			r.Last = types.TypeToString(checked.Types[stmt.Expression])
		}
	}
	return r
}

// Render writes the result in the given format.
func (r *Result) Render(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Text renders the result as declarations, one per line.
func (r *Result) Text() string {
	var sb strings.Builder
	if r.AST != "" {
		sb.WriteString(r.AST + "\n")
	}
	for _, imp := range r.Imports {
		fmt.Fprintf(&sb, "import { %s } from %q\n", strings.Join(imp.Names, ", "), imp.Source)
	}
	for _, name := range r.Types {
		fmt.Fprintf(&sb, "type %s\n", name)
	}
	for _, v := range r.Variables {
		keyword := "let"
		if v.Const {
			keyword = "const"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", keyword, v.Name, v.Type)
	}
	if r.Last != "" {
		fmt.Fprintf(&sb, "=> %s\n", r.Last)
	}
	return sb.String()
}
