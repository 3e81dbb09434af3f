// Package httpapi serves the operational HTTP API: token store management,
// health probes, and Prometheus metrics. It runs alongside the MCP transport
// so operators can manage agent credentials without an MCP client.
package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
	"github.com/TheValverde/spacetraders-mcp/internal/version"
)

// Server is the operational HTTP API server.
type Server struct {
	tokens *tokenstore.Store
	logger zerolog.Logger
	mux    *http.ServeMux
	api    huma.API
}

// NewServer creates the ops API server backed by the given token store.
func NewServer(tokens *tokenstore.Store, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("SpaceTraders MCP Ops API", version.Version)
	config.Info.Description = "Operational API for the SpaceTraders MCP server: agent token management and health."

	api := humago.New(mux, config)

	s := &Server{
		tokens: tokens,
		logger: logger.With().Str("component", "httpapi").Logger(),
		mux:    mux,
		api:    api,
	}

	s.registerRoutes()

	return s
}

type TokenListResponse struct {
	Body TokenList
}

type TokenList struct {
	Agents []string `json:"agents"`
	Count  int      `json:"count"`
}

type PutTokenInput struct {
	AgentSymbol string `path:"agentSymbol" json:"agentSymbol"`
	Body        struct {
		Token string `json:"token" minLength:"1"`
	}
}

type TokenStatusResponse struct {
	Body TokenStatus
}

type TokenStatus struct {
	AgentSymbol string `json:"agentSymbol"`
	Stored      bool   `json:"stored"`
}

type DeleteTokenInput struct {
	AgentSymbol string `path:"agentSymbol" json:"agentSymbol"`
}

func (s *Server) registerRoutes() {
	tags := []string{"tokens"}

	huma.Register(s.api, huma.Operation{
		OperationID: "list-tokens",
		Method:      http.MethodGet,
		Path:        "/v0/tokens",
		Summary:     "List agents with stored tokens",
		Tags:        tags,
	}, func(ctx context.Context, input *struct{}) (*TokenListResponse, error) {
		symbols := s.tokens.Symbols()
		return &TokenListResponse{
			Body: TokenList{Agents: symbols, Count: len(symbols)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "put-token",
		Method:      http.MethodPut,
		Path:        "/v0/tokens/{agentSymbol}",
		Summary:     "Store or replace an agent token",
		Tags:        tags,
	}, func(ctx context.Context, input *PutTokenInput) (*TokenStatusResponse, error) {
		if err := s.tokens.Set(input.AgentSymbol, input.Body.Token); err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("failed to store token: %v", err))
		}
		s.logger.Info().Str("agent", input.AgentSymbol).Msg("token stored")
		return &TokenStatusResponse{
			Body: TokenStatus{AgentSymbol: input.AgentSymbol, Stored: true},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-token",
		Method:      http.MethodDelete,
		Path:        "/v0/tokens/{agentSymbol}",
		Summary:     "Delete an agent token",
		Tags:        tags,
	}, func(ctx context.Context, input *DeleteTokenInput) (*TokenStatusResponse, error) {
		if _, ok := s.tokens.Get(input.AgentSymbol); !ok {
			return nil, huma.Error404NotFound(fmt.Sprintf("no token stored for agent %q", input.AgentSymbol))
		}
		if err := s.tokens.Delete(input.AgentSymbol); err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("failed to delete token: %v", err))
		}
		s.logger.Info().Str("agent", input.AgentSymbol).Msg("token deleted")
		return &TokenStatusResponse{
			Body: TokenStatus{AgentSymbol: input.AgentSymbol, Stored: false},
		}, nil
	})

	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// Handler returns the ops API handler with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(s.mux)
}

// Run serves the ops API on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info().Str("addr", addr).Msg("starting ops API server")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down ops API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
