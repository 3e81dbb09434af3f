// Package api is a thin client for the SpaceTraders v2 REST API. It performs
// one authenticated call per invocation: no retries, no caching. The remote
// API is the sole source of truth for all game state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production SpaceTraders API root.
const DefaultBaseURL = "https://api.spacetraders.io/v2"

// Client issues rate-limited HTTP requests against the SpaceTraders API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a client for the API at baseURL. requestsPerSecond caps
// the outgoing request rate; the SpaceTraders API allows 2 per second.
func NewClient(baseURL string, requestsPerSecond float64, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request. When token is empty the call is made
// unauthenticated. On 2xx the full response body is decoded into out (out may
// be nil); callers model the API's "data" envelope in their out types. The
// returned int is the HTTP status code.
func (c *Client) Get(ctx context.Context, path, token string, query url.Values, out any) (int, error) {
	return c.do(ctx, http.MethodGet, path, token, query, nil, out)
}

// Post performs a POST request with a JSON body. A nil body is sent as an
// empty JSON object to satisfy the API's Content-Type requirement.
func (c *Client) Post(ctx context.Context, path, token string, body, out any) (int, error) {
	if body == nil {
		body = struct{}{}
	}
	return c.do(ctx, http.MethodPost, path, token, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(method, "error")
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	observeRequest(method, fmt.Sprintf("%d", resp.StatusCode))
	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, parseAPIError(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
