package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schwa-lang/schwa/internal/codegen"
)

var (
	buildOut         string
	buildMemoryPages int
)

func init() {
	cmd := newBuildCmd()
	cmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output .wasm path (default: input file with a .wasm extension)")
	cmd.Flags().IntVar(&buildMemoryPages, "memory-pages", 1, "Minimum linear memory size, in 64KiB pages")
	rootCmd.AddCommand(cmd)
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file.schwa>",
		Short: "Compile a Schwa source file to a WebAssembly module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0])
		},
	}
}

func runBuild(path string) error {
	root, ok := frontEnd(path)
	if !ok {
		return fmt.Errorf("%s: failed to parse", path)
	}

	printVerbose("analyzing %s\n", path)
	_, ok = analyze(path, root)
	if !ok {
		return fmt.Errorf("%s: failed semantic analysis", path)
	}

	mod, err := codegen.Generate(root, buildMemoryPages)
	if err != nil {
		return fmt.Errorf("%s: code generation failed: %w", path, err)
	}

	wasm := mod.Bytes()
	if err := codegen.Verify(wasm); err != nil {
		return fmt.Errorf("%s: generated an invalid module: %w", path, err)
	}

	out := buildOut
	if out == "" {
		ext := filepath.Ext(path)
		out = strings.TrimSuffix(path, ext) + ".wasm"
	}
	if err := os.WriteFile(out, wasm, 0o644); err != nil {
		return err
	}

	printInfo("wrote %s (%d bytes)\n", out, len(wasm))
	return nil
}
