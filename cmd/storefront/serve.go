package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/server"
	"github.com/livefir/storefront/internal/token"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, svc, err := a.openShop(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if a.cfg.Database.SeedDemo || a.cfg.Server.Dev {
				if _, err := svc.SeedDemo(ctx); err != nil {
					return err
				}
			}

			tokens, err := token.NewTokenService([]byte(a.cfg.Auth.Secret), &token.Config{TTL: a.cfg.Auth.TokenTTL})
			if err != nil {
				return err
			}

			srv, err := server.New(a.cfg, server.Deps{
				DB:      conn,
				Shop:    svc,
				Tokens:  tokens,
				Metrics: metrics.NewCollector(),
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			a.logger.Info("starting storefront",
				zap.String("version", version),
				zap.String("public_url", a.cfg.Server.PublicURL))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().Bool("dev", false, "Development mode: demo data, console logs, template reload")
	return cmd
}
