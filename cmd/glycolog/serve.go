// cmd/glycolog/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"glycolog/internal/server"
)

var (
	serveHost   string
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the glycolog HTTP and MCP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host address (overrides HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port for HTTP transport (overrides PORT)")
	serveCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Database path (overrides DB_PATH)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveDBPath != "" {
		cfg.DBPath = serveDBPath
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
	}

	cancel()
	if err := srv.Stop(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
		return err
	}
	return nil
}
