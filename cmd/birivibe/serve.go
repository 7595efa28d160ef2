// ABOUTME: CLI command for starting the HTTP server.
// ABOUTME: Serves the JSON API and HTML report until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/birivibe/birivibe/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the BiriVibe HTTP server.

The server exposes the JSON API under /api, a printable report at /report and
a health check at /health. Every request acts as the configured user.

EXAMPLES:

  birivibe serve                   # Listen on server.addr (default :3000)
  birivibe serve --addr :8080      # Listen on a different port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		server := api.NewServer(repo, newModel(), logger, api.Options{
			Addr:              addr,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			UserEmail:         cfg.User.Email,
			UserName:          cfg.User.Name,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
