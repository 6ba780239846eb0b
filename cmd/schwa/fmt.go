package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schwa-lang/schwa/internal/format"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
)

var fmtWrite bool

func init() {
	cmd := newFmtCmd()
	cmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite the file in place instead of printing to stdout")
	rootCmd.AddCommand(cmd)
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file.schwa>",
		Short: "Print a Schwa source file in its canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(args[0])
		},
	}
}

func runFmt(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	toks, lexLog := lexer.New(bytes.NewReader(src)).Tokenize()
	printDiagnostics(path, lexLog)
	if lexLog.HasErrors() {
		return fmt.Errorf("%s: failed to lex", path)
	}

	root, parseLog := parser.New(toks).Parse()
	printDiagnostics(path, parseLog)
	if parseLog.HasErrors() {
		return fmt.Errorf("%s: failed to parse", path)
	}

	out := format.Print(root)
	if !fmtWrite {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
