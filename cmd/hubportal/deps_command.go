package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hubportal/internal/deps"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show availability of the external toolchain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			var rows [][]string
			missingRequired := false
			for _, status := range deps.CheckBinaries(deps.Toolchain(cfg)) {
				available := yesNo(status.Available)
				if colorize {
					if status.Available {
						available = ansiGreen + available + ansiReset
					} else {
						available = ansiRed + available + ansiReset
					}
				}
				if !status.Available && !status.Optional {
					missingRequired = true
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					available,
					yesNo(status.Optional),
					status.Detail,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Available", "Optional", "Detail"},
				rows,
			))
			if missingRequired {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
