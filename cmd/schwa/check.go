package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.schwa>",
		Short: "Run the front end and semantic analyzer without generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	root, ok := frontEnd(path)
	if !ok {
		return fmt.Errorf("%s: failed to parse", path)
	}

	_, ok = analyze(path, root)
	if !ok {
		return fmt.Errorf("%s: failed semantic analysis", path)
	}

	printInfo("%s: ok\n", path)
	return nil
}
