package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salesdash/internal/api"
	"salesdash/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long: `Start the JSON API used by the dashboard front end. Exports are re-read only
when their modification time or size changes, so the server picks up a new
pipeline run without restarting.

Environment variables:
  HTTP_ADDR        - listen address (default :8080)
  ALLOWED_ORIGINS  - comma-separated CORS origins (default *)`,
	Example: `  salesdash serve
  salesdash serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cfg, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	log.Info().Str("addr", addr).Strs("origins", cfg.AllowedOrigins).Msg("Starting API server")
	srv := api.NewServer(svc, api.Config{Addr: addr, AllowedOrigins: cfg.AllowedOrigins})
	return srv.ListenAndServe(ctx)
}
