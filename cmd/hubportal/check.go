package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hubportal/internal/pysyntax"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.py>",
		Short: "Check a MicroPython source file for syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			result := pysyntax.NewChecker().Check(string(source))
			if !result.Valid {
				return fmt.Errorf("%s:%d:%d: %s", args[0], result.Line, result.Column, result.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: syntax OK\n", args[0])
			return nil
		},
	}
}
