package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/skillspace-mcp/internal/config"
	"github.com/dshills/skillspace-mcp/internal/httpapi"
	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/mcp"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			mcp.ServerVersion = version
			logging.Info().
				Str("version", version).
				Str("driver", storage.DriverName).
				Str("build_mode", storage.BuildMode).
				Str("database", cfg.Database.Path).
				Msg("skillspace MCP server starting")

			// Warm the snapshot so the first tool call does not pay for it
			if _, err := a.snapshots.Get(cmd.Context()); err != nil {
				logging.Warn().Err(err).Msg("snapshot not loaded, tools fail until an import completes")
			}

			// SIGHUP picks up an import written while the server runs
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)

			errCh := make(chan error, 1)
			go func() { errCh <- mcp.NewServer(a.storage, a.snapshots, a.service).Serve(cmd.Context()) }()

			for {
				select {
				case err := <-errCh:
					return err
				case <-hup:
					if _, err := a.snapshots.Reload(cmd.Context()); err != nil {
						logging.Warn().Err(err).Msg("snapshot reload failed")
					} else {
						logging.Info().Msg("snapshot reloaded")
					}
				case <-cmd.Context().Done():
					logging.Info().Msg("received shutdown signal")
					return nil
				}
			}
		},
	}
}

func newHTTPCmd(cfg *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			return httpapi.NewHandler(a.service, a.storage, a.snapshots).Serve(cmd.Context(), httpapi.ServerConfig{
				Addr:            cfg.HTTP.Addr,
				ReadTimeout:     cfg.HTTP.ReadTimeout,
				WriteTimeout:    cfg.HTTP.WriteTimeout,
				ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
