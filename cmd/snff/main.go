package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"snff/pkg/driver"
	"snff/pkg/errors"
	"snff/pkg/source"
	"snff/pkg/types"
)

const (
	historyFile = ".snff_history"
	promptMain  = "> "
	promptCont  = ". "
)

func main() {
	exprFlag := flag.String("e", "", "Check the given source text and exit")
	astDumpFlag := flag.Bool("ast", false, "Include the parsed AST in the output")
	configFlag := flag.String("config", "", "YAML configuration file")
	localeFlag := flag.String("locale", "", "Diagnostic language (en, pt-BR)")
	formatFlag := flag.String("format", "", "Output format (text, yaml)")

	flag.Parse()

	cfg := driver.DefaultConfig()
	if *configFlag != "" {
		loaded, err := driver.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(64) // Exit code 64: command line usage error
		}
		cfg = loaded
	}
	if *localeFlag != "" {
		cfg.Locale = *localeFlag
	}
	if *formatFlag != "" {
		cfg.Format = *formatFlag
	}
	if *astDumpFlag {
		cfg.DumpAST = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(64)
	}

	if *exprFlag != "" {
		if !driver.RunSource(source.NewEvalSource(*exprFlag), cfg, os.Stdout, os.Stderr) {
			os.Exit(70) // Exit code 70: internal software error
		}
		return
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Usage: snff [options] [file] or snff -e \"source\"\n")
		os.Exit(64)
	} else if flag.NArg() == 1 {
		if !driver.CheckFile(flag.Arg(0), cfg, os.Stdout, os.Stderr) {
			os.Exit(70)
		}
	} else {
		os.Exit(runRepl(cfg))
	}
}

// runRepl checks one input at a time in a persistent session, echoing the
// type of the last expression.
func runRepl(cfg driver.Config) int {
	fmt.Println("snff (:quit to exit, :scope to list bindings)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := driver.NewSession(cfg)
	for {
		code, ok := readInput(ln, session)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit":
				return 0
			case ":scope":
				for _, v := range session.Scope().Variables() {
					fmt.Printf("%s: %s\n", v.Name, types.TypeToString(v.Type))
				}
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		src := source.NewReplSource(code)
		result, err := session.Run(src)
		if err != nil {
			session.Report(os.Stderr, src, err)
			continue
		}
		if cfg.DumpAST && result.AST != "" {
			fmt.Println(result.AST)
		}
		if result.Last != "" {
			fmt.Printf("=> %s\n", result.Last)
		}
	}
}

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readInput reads lines until they parse or fail for a reason other than
// running out of input. It reports false when no more input can be read.
func readInput(ln prompter, session *driver.Session) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if stderrors.Is(err, io.EOF) || stderrors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		text := b.String()
		if strings.HasPrefix(strings.TrimSpace(text), ":") {
			return text, true
		}
		_, perr := session.Parse(source.NewReplSource(text))
		var syntaxErr *errors.SyntaxError
		if stderrors.As(perr, &syntaxErr) && syntaxErr.IsEOF() {
			continue
		}
		return text, true
	}
}
