package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cinedex/internal/api"
	"cinedex/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if b := strings.TrimSpace(bind); b != "" {
				cfg.API.Bind = b
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			svc, closeStore, err := buildService(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warn("close store", logging.Error(err))
				}
			}()

			srv, err := api.NewServer(cfg, svc, logger)
			if err != nil {
				return fmt.Errorf("create api server: %w", err)
			}
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			logger.Info("cinedex serving",
				logging.String("address", srv.Addr()),
				logging.String("backend", cfg.Store.Backend),
				logging.String("store", cfg.Store.Path))

			<-signalCtx.Done()
			logger.Info("cinedex shutting down")
			srv.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the [api] bind address")
	return cmd
}
