package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hubportal/internal/compiler"
	"hubportal/internal/logging"
)

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "compile <file.py>",
		Short: "Compile a MicroPython source file to .mpy bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			comp := compiler.New(cfg, logging.NewNop())
			artifact, err := comp.Retrieve(cmd.Context(), string(source), filepath.Base(args[0]))
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = artifact.Name
			}
			if err := os.WriteFile(target, artifact.Data, 0o644); err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", target, len(artifact.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the compiled artifact")
	return cmd
}
