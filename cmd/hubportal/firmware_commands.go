package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hubportal/internal/firmware"
	"hubportal/internal/logging"
	"hubportal/internal/textutil"
)

func newFirmwareCommand(ctx *commandContext) *cobra.Command {
	firmwareCmd := &cobra.Command{
		Use:   "firmware",
		Short: "Install or restore hub firmware over USB DFU",
	}

	firmwareCmd.AddCommand(newFirmwareInstallCommand(ctx))
	firmwareCmd.AddCommand(newFirmwareInstallStableCommand(ctx))
	firmwareCmd.AddCommand(newFirmwareRestoreCommand(ctx))
	firmwareCmd.AddCommand(newFirmwareRestoreBundledCommand(ctx))
	firmwareCmd.AddCommand(newFirmwareRestoreRemoteCommand(ctx))

	return firmwareCmd
}

func (c *commandContext) newFlasher() (*firmware.Flasher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return firmware.New(cfg, logging.NewNop())
}

// reportFlash prints the outcome, expanding classified failures with their
// remediation steps and raw tool output.
func reportFlash(cmd *cobra.Command, result firmware.Result, err error) error {
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	}

	var classified *firmware.ClassifiedError
	if errors.As(err, &classified) {
		fmt.Fprintln(cmd.ErrOrStderr(), classified.Message)
		if output := strings.TrimSpace(classified.Output); output != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "")
			fmt.Fprintln(cmd.ErrOrStderr(), output)
		}
		return fmt.Errorf("firmware operation failed: %s", textutil.HumanizeLabel(string(classified.Category)))
	}
	return err
}

func newFirmwareInstallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "install <firmware.zip>",
		Short: "Flash a Pybricks firmware archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flasher, err := ctx.newFlasher()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read firmware archive: %w", err)
			}
			result, err := flasher.InstallFromArchive(cmd.Context(), filepath.Base(args[0]), data)
			return reportFlash(cmd, result, err)
		},
	}
}

func newFirmwareInstallStableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "install-stable",
		Short: "Flash the latest stable Pybricks firmware from the release index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flasher, err := ctx.newFlasher()
			if err != nil {
				return err
			}
			result, err := flasher.InstallFromRemote(cmd.Context())
			return reportFlash(cmd, result, err)
		},
	}
}

func newFirmwareRestoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup.bin>",
		Short: "Restore the hub from a full-device backup image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flasher, err := ctx.newFlasher()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup image: %w", err)
			}
			result, err := flasher.RestoreFromUpload(cmd.Context(), filepath.Base(args[0]), data)
			return reportFlash(cmd, result, err)
		},
	}
}

func newFirmwareRestoreBundledCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-bundled",
		Short: "Restore the hub from the bundled image on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flasher, err := ctx.newFlasher()
			if err != nil {
				return err
			}
			result, err := flasher.RestoreFromBundled(cmd.Context())
			return reportFlash(cmd, result, err)
		},
	}
}

func newFirmwareRestoreRemoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-remote",
		Short: "Restore the hub from the latest published restore image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flasher, err := ctx.newFlasher()
			if err != nil {
				return err
			}
			result, err := flasher.RestoreFromRemote(cmd.Context())
			return reportFlash(cmd, result, err)
		},
	}
}
