// Package main implements the compiler front end entry point.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/vbfront/vbfront/internal/sem"
	"github.com/vbfront/vbfront/internal/syntax"
	"github.com/vbfront/vbfront/internal/types"
)

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	check      = flag.Bool("check", false, "Run semantic analysis and print diagnostics")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vbfront compiler front end %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: vbfc [options] <file.bas>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("vbfc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: vbfc [options] <file.bas>")
		os.Exit(1)
	}

	filename := args[0]

	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	if *emitAST {
		os.Exit(runEmitAST(filename))
	}

	if *check {
		os.Exit(runCheck(filename))
	}

	// The default mode is a syntax-only pass, reporting parse errors.
	os.Exit(runParse(filename))
}

// readSource loads the input file.
func readSource(filename string) (string, bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return "", false
	}
	return string(data), true
}

// runEmitTokens scans the input file and prints all tokens with positions.
// Trivia (whitespace, line continuations) is included so the dump is a
// faithful picture of the source.
func runEmitTokens(filename string) int {
	src, ok := readSource(filename)
	if !ok {
		return 1
	}

	lx := syntax.NewLexer(filename, src)
	lx.SetKeepTrivia(true)
	toks, err := lx.Tokenize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fmt.Printf("%-16s %-12s %s\n", "POSITION", "TOKEN", "TEXT")
	fmt.Printf("%-16s %-12s %s\n",
		strings.Repeat("-", 16), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, t := range toks {
		pos := fmt.Sprintf("%s:%d:%d", filename, t.Line, t.Col)
		fmt.Printf("%-16s %-12s %s\n", pos, t.Kind, formatText(t.Text))
	}
	return 0
}

// formatText formats token text for display, escaping control characters.
func formatText(text string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range text {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// parseFile tokenizes and parses the input, printing lexer faults and
// parse errors to stderr. The module may be partial when errs > 0.
func parseFile(filename, src string) (*syntax.Module, int) {
	toks, err := syntax.Tokenize(filename, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, 1
	}

	m, perrs := syntax.ParseModule(filename, toks)
	for _, e := range perrs {
		fmt.Fprintf(os.Stderr, "%s: %s\n", e.Pos, e.Msg)
	}
	return m, len(perrs)
}

// runParse is the default mode: parse and report syntax errors only.
func runParse(filename string) int {
	src, ok := readSource(filename)
	if !ok {
		return 1
	}
	m, nerrs := parseFile(filename, src)
	if m == nil || nerrs > 0 {
		return 1
	}
	return 0
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	src, ok := readSource(filename)
	if !ok {
		return 1
	}
	m, nerrs := parseFile(filename, src)
	if m == nil {
		return 1
	}

	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, m); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, m)
	}

	if nerrs > 0 {
		return 1
	}
	return 0
}

// runCheck parses and analyzes the input file, printing every diagnostic.
// Analysis runs even over a partial AST so all problems surface at once.
func runCheck(filename string) int {
	src, ok := readSource(filename)
	if !ok {
		return 1
	}
	m, nerrs := parseFile(filename, src)
	if m == nil {
		return 1
	}

	r := sem.NewAnalyzer(types.NewSystem()).Analyze(m)
	for _, d := range r.Errors {
		fmt.Fprintln(os.Stderr, d)
	}
	for _, d := range r.Warnings {
		fmt.Fprintln(os.Stderr, d)
	}

	fmt.Printf("%d procedures, %d symbols, %d errors, %d warnings\n",
		r.Metrics.Procedures, r.Metrics.Symbols,
		r.Metrics.Errors, r.Metrics.Warnings)

	if nerrs > 0 || len(r.Errors) > 0 {
		return 1
	}
	return 0
}
