package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/poiskkino-client/internal/config"
	"github.com/Sternrassler/poiskkino-client/internal/server"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups over HTTP",
		Long: `Serve lookups over a JSON HTTP API.

Routes:
  GET /health
  GET /metrics
  GET /v1/search?query=<title>&year=<year>
  GET /v1/movie/<id>
  GET /v1/season/<seriesId>/<number>
  GET /v1/episode/<seriesId>/<season>/<episode>
  GET /v1/quota

Callers may send their own X-API-KEY header; the configured key is used otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withBackend(cmd, func(ctx context.Context, cfg *config.Config, b *backend) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if addr == "" {
					addr = cfg.Addr()
				}
				if cfg.PoiskKino.APIKey == "" {
					log.Warn().Msg("No API key configured; requests without an X-API-KEY header will be rejected")
				}

				srv := server.New(b, server.Options{
					APIKey:           cfg.PoiskKino.APIKey,
					IgnoreTMDbImages: cfg.PoiskKino.IgnoreTMDbImages,
				})
				return srv.Run(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config)")
	return cmd
}
