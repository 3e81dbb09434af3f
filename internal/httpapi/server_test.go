package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
)

func setupServer(t *testing.T) (*httptest.Server, *tokenstore.Store) {
	t.Helper()
	store, err := tokenstore.Open(filepath.Join(t.TempDir(), "tokens.json"), zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(store, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListTokens_Empty(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/v0/tokens", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Agents []string `json:"agents"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Agents)
	assert.Zero(t, body.Count)
}

func TestPutToken_StoresAndLists(t *testing.T) {
	srv, store := setupServer(t)

	resp := doRequest(t, http.MethodPut, srv.URL+"/v0/tokens/HERO", `{"token":"tok-hero"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := store.Get("HERO")
	require.True(t, ok)
	assert.Equal(t, "tok-hero", token)

	resp = doRequest(t, http.MethodGet, srv.URL+"/v0/tokens", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Agents []string `json:"agents"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"HERO"}, body.Agents)
	assert.Equal(t, 1, body.Count)
}

func TestPutToken_RejectsEmptyToken(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodPut, srv.URL+"/v0/tokens/HERO", `{"token":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteToken(t *testing.T) {
	srv, store := setupServer(t)
	require.NoError(t, store.Set("HERO", "tok-hero"))

	resp := doRequest(t, http.MethodDelete, srv.URL+"/v0/tokens/HERO", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, ok := store.Get("HERO")
	assert.False(t, ok)
}

func TestDeleteToken_NotFound(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodDelete, srv.URL+"/v0/tokens/STRANGER", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := setupServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp := doRequest(t, http.MethodGet, srv.URL+path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
