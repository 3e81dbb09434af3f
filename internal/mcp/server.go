// Package mcp exposes the SpaceTraders API as MCP tools. Each tool maps to
// one remote endpoint: resolve the acting agent's token, make the call, trim
// the response, return JSON text.
package mcp

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/TheValverde/spacetraders-mcp/internal/api"
	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
	"github.com/TheValverde/spacetraders-mcp/internal/version"
)

// Server wraps the mcp-go server with the SpaceTraders tool set.
type Server struct {
	api          *api.Client
	tokens       *tokenstore.Store
	accountToken string
	logger       zerolog.Logger
	mcpServer    *server.MCPServer
	httpServer   *server.StreamableHTTPServer
}

// NewServer creates an MCP server with all SpaceTraders tools registered.
// accountToken authenticates account-level endpoints (registration, faction
// listings) and may be empty; per-agent calls resolve tokens from the store.
func NewServer(apiClient *api.Client, tokens *tokenstore.Store, accountToken string, logger zerolog.Logger) *Server {
	s := &Server{
		api:          apiClient,
		tokens:       tokens,
		accountToken: accountToken,
		logger:       logger.With().Str("component", "mcp").Logger(),
	}

	mcpServer := server.NewMCPServer(
		"Space-Traders-MCP",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("SpaceTraders MCP server - register agents, command ships, trade cargo, and fulfill contracts through the SpaceTraders game API."),
	)

	s.mcpServer = mcpServer
	s.registerTools()
	s.httpServer = server.NewStreamableHTTPServer(mcpServer)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info().Msg("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Handler returns the streamable HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.httpServer
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is canceled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.httpServer,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // streaming responses need long-lived connections
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info().Str("addr", addr).Msg("starting MCP server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
