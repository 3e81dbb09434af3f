package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TheValverde/spacetraders-mcp/internal/api"
	"github.com/TheValverde/spacetraders-mcp/internal/config"
	"github.com/TheValverde/spacetraders-mcp/internal/httpapi"
	"github.com/TheValverde/spacetraders-mcp/internal/mcp"
	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server on the configured transport (stdio or http) together
with the operational HTTP API for token management, health, and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := setupLogger(cfg.LogLevel)

		store, err := tokenstore.Open(cfg.TokenFile, logger)
		if err != nil {
			return fmt.Errorf("open token store: %w", err)
		}

		client := api.NewClient(cfg.BaseURL, cfg.RateLimitRPS, logger)
		server := mcp.NewServer(client, store, cfg.AccountToken, logger)
		opsServer := httpapi.NewServer(store, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 2)
		go func() {
			errCh <- opsServer.Run(ctx, cfg.OpsAddr)
		}()

		switch cfg.Transport {
		case "stdio":
			go func() {
				errCh <- server.ServeStdio()
			}()
		case "http":
			go func() {
				errCh <- server.RunHTTP(ctx, cfg.HTTPAddr())
			}()
		}

		select {
		case <-ctx.Done():
			// Give the servers a moment to shut down cleanly.
			return <-errCh
		case err := <-errCh:
			return err
		}
	},
}

// setupLogger configures zerolog: console output at debug and below for
// readability, JSON otherwise. Logs go to stderr so stdio transport stays
// clean on stdout.
func setupLogger(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	if parsed <= zerolog.DebugLevel {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02 15:04:05.000",
		}).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
