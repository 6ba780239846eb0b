package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/sem"
	"github.com/schwa-lang/schwa/internal/validator"
)

// frontEnd runs lex, parse, and structural validation over the file at
// path, printing every stage's diagnostics as they're produced (so a lex
// error doesn't hide behind a cascade of parser recovery noise). It returns
// the parsed tree and whether the tree is clean enough to hand to the
// analyzer.
func frontEnd(path string) (*ast.Node, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		printError("%v\n", err)
		return nil, false
	}

	toks, lexLog := lexer.New(bytes.NewReader(src)).Tokenize()
	printDiagnostics(path, lexLog)

	root, parseLog := parser.New(toks).Parse()
	printDiagnostics(path, parseLog)

	valLog := validator.Validate(root)
	printDiagnostics(path, valLog)

	ok := !lexLog.HasErrors() && !parseLog.HasErrors() && !valLog.HasErrors()
	return root, ok
}

// analyze runs the semantic analyzer over an already front-ended tree,
// printing its diagnostics and reporting whether analysis succeeded.
func analyze(path string, root *ast.Node) (*sem.Analyzer, bool) {
	a := sem.NewAnalyzer()
	a.Analyze(root)
	printDiagnostics(path, a.Log)
	return a, !a.Log.HasErrors()
}

func printDiagnostics(path string, log *diag.Logger) {
	for _, d := range log.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", path, d.Span.Row, d.Span.Col, d.Severity, d.Message)
	}
}
