package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hubportal/internal/logging"
	"hubportal/internal/preflight"
	"hubportal/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				if result.Passed {
					logger.Debug("preflight passed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail))
					continue
				}
				logger.Warn("preflight check failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail))
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize server: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			srv.Stop()
			return nil
		},
	}
}
