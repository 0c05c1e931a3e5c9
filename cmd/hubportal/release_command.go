package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hubportal/internal/release"
)

func newReleaseCommand(ctx *commandContext) *cobra.Command {
	var restoreFamily bool

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Show the latest published firmware asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			repo := cfg.Release.FirmwareRepo
			patternSource := cfg.Release.FirmwareAssetPattern
			family := "install"
			if restoreFamily {
				repo = cfg.Release.RestoreRepo
				patternSource = cfg.Release.RestoreAssetPattern
				family = "restore"
			}

			pattern, err := release.CompilePattern(patternSource)
			if err != nil {
				return fmt.Errorf("compile asset pattern: %w", err)
			}

			client := release.NewClient(cfg.Release)
			asset, err := client.LatestAsset(cmd.Context(), repo, pattern)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Family", "Repository", "Asset", "Download"},
				[][]string{{family, repo, asset.Name, asset.DownloadURL}},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&restoreFamily, "restore", false, "Show the restore-image family instead of install archives")
	return cmd
}
