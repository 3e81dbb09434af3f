package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheValverde/spacetraders-mcp/internal/api"
	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
)

func newTestServer(t *testing.T, accountToken string, handler http.Handler) *Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := tokenstore.Open(filepath.Join(t.TempDir(), "tokens.json"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Set("HERO", "tok-hero"))

	client := api.NewClient(srv.URL, 1000, zerolog.Nop())
	return NewServer(client, store, accountToken, zerolog.Nop())
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegisterUsers_StoresToken(t *testing.T) {
	var body map[string]any
	s := newTestServer(t, "acct-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "Bearer acct-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"token":"tok-new","agent":{"symbol":"NEW_AGENT","startingFaction":"COSMIC"}}}`))
	}))

	result, err := s.handleRegisterUsers(context.Background(), callRequest(map[string]any{
		"callsign": "NEW_AGENT",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Successfully registered agent NEW_AGENT with faction COSMIC")
	assert.Equal(t, "COSMIC", body["faction"], "faction defaults to COSMIC")

	token, ok := s.tokens.Get("NEW_AGENT")
	require.True(t, ok)
	assert.Equal(t, "tok-new", token)
}

func TestRegisterUsers_NoAccountToken(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without an account token")
	}))

	result, err := s.handleRegisterUsers(context.Background(), callRequest(map[string]any{
		"callsign": "NEW_AGENT",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "SPACETRADERS_API_KEY")
}

func TestViewAgentDetails_TrimsResponse(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my/agent", r.URL.Path)
		assert.Equal(t, "Bearer tok-hero", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"accountId":"acc-1","symbol":"HERO","headquarters":"X1-DF55-20250Z","credits":175000,"startingFaction":"COSMIC","shipCount":2}}`))
	}))

	result, err := s.handleViewAgentDetails(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{
		"symbol": "HERO",
		"headquarters": "X1-DF55-20250Z",
		"credits": 175000,
		"startingFaction": "COSMIC",
		"shipCount": 2
	}`, resultText(t, result), "accountId is not surfaced")
}

func TestViewAgentDetails_UnknownAgent(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a stored token")
	}))

	result, err := s.handleViewAgentDetails(context.Background(), callRequest(map[string]any{
		"agent_symbol": "STRANGER",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No token stored for agent 'STRANGER'")
}

func TestGetContract_RemoteErrorFormatting(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Contract not found."}}`))
	}))

	result, err := s.handleGetContract(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
		"contract_id":  "bogus",
	}))
	require.NoError(t, err, "remote failures are tool errors, not handler errors")
	assert.True(t, result.IsError)
	assert.Equal(t, "Failed to get contract: Contract not found. (Status code: 404)", resultText(t, result))
}

func TestGetPublicAgent_NoAuthHeader(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agents/SOMEONE", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"symbol":"SOMEONE","headquarters":"X1-A1-B2","credits":100,"startingFaction":"VOID","shipCount":1}}`))
	}))

	result, err := s.handleGetPublicAgent(context.Background(), callRequest(map[string]any{
		"agent_symbol": "SOMEONE",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"symbol": "SOMEONE"`)
}

func TestListFactions_FlattensTraitNames(t *testing.T) {
	s := newTestServer(t, "acct-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acct-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"symbol":"COSMIC","name":"Cosmic Engineers","description":"Builders.","headquarters":"X1-DF55","traits":[{"symbol":"INNOVATIVE","name":"Innovative","description":"..."},{"symbol":"BOLD","name":"Bold","description":"..."}],"isRecruiting":true}]}`))
	}))

	result, err := s.handleListFactions(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `[{
		"symbol": "COSMIC",
		"name": "Cosmic Engineers",
		"description": "Builders.",
		"headquarters": "X1-DF55",
		"traits": ["Innovative", "Bold"]
	}]`, resultText(t, result))
}

func TestOrbitShip_RouteOriginBecomesDeparture(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my/ships/HERO-1/orbit", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data":{"nav":{"status":"IN_ORBIT","waypointSymbol":"X1-DF55-20250Z","route":{"destination":{"symbol":"X1-DF55-20250Z","type":"PLANET","systemSymbol":"X1-DF55","x":5,"y":9},"origin":{"symbol":"X1-DF55-20250Z","type":"PLANET","systemSymbol":"X1-DF55","x":5,"y":9},"arrival":"2026-08-25T00:00:00Z","departureTime":"2026-08-25T00:00:00Z"}}}}`))
	}))

	result, err := s.handleOrbitShip(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
		"ship_symbol":  "HERO-1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "IN_ORBIT", out["status"])
	route, ok := out["route"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, route, "departure")
	assert.NotContains(t, route, "origin")
}

func TestGetShipCooldown_NoContent(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	result, err := s.handleGetShipCooldown(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
		"ship_symbol":  "HERO-1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "No cooldown", resultText(t, result))
}

func TestSellCargo_DocksFirstWhenInOrbit(t *testing.T) {
	var calls []string
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/my/ships/HERO-1":
			w.Write([]byte(`{"data":{"nav":{"status":"IN_ORBIT"}}}`))
		case "/my/ships/HERO-1/dock":
			w.Write([]byte(`{"data":{"nav":{"status":"DOCKED"}}}`))
		case "/my/ships/HERO-1/sell":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"agent":{"credits":180000},"cargo":{"capacity":40,"units":0,"inventory":[]},"transaction":{"waypointSymbol":"X1-A1-B2","tradeSymbol":"IRON_ORE","type":"SELL","units":10,"pricePerUnit":50,"totalPrice":500}}}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	result, err := s.handleSellCargo(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
		"ship_symbol":  "HERO-1",
		"cargo_symbol": "IRON_ORE",
		"units":        float64(10),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{
		"GET /my/ships/HERO-1",
		"POST /my/ships/HERO-1/dock",
		"POST /my/ships/HERO-1/sell",
	}, calls)
	assert.Contains(t, resultText(t, result), `"totalPrice": 500`)
}

func TestExtractResources_SkipsOrbitWhenAlreadyInOrbit(t *testing.T) {
	var calls []string
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/my/ships/HERO-1":
			w.Write([]byte(`{"data":{"nav":{"status":"IN_ORBIT"}}}`))
		case "/my/ships/HERO-1/extract":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"extraction":{"shipSymbol":"HERO-1","yield":{"symbol":"IRON_ORE","units":7}},"cargo":{"capacity":40,"units":7,"inventory":[{"symbol":"IRON_ORE","units":7}]},"cooldown":{"shipSymbol":"HERO-1","totalSeconds":70,"remainingSeconds":70,"expiration":"2026-08-25T00:01:10Z"}}}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	result, err := s.handleExtractResources(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
		"ship_symbol":  "HERO-1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{
		"GET /my/ships/HERO-1",
		"POST /my/ships/HERO-1/extract",
	}, calls, "no orbit call when the ship is already in orbit")
	assert.Contains(t, resultText(t, result), `"symbol": "IRON_ORE"`)
}

func TestListWaypoints_Filters(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/systems/X1-DF55/waypoints", r.URL.Path)
		assert.Equal(t, "ENGINEERED_ASTEROID", r.URL.Query().Get("type"))
		assert.Equal(t, "MARKETPLACE", r.URL.Query().Get("traits"))
		w.Write([]byte(`{"data":[{"symbol":"X1-DF55-20250Z","type":"ENGINEERED_ASTEROID","systemSymbol":"X1-DF55","x":5,"y":9,"orbitals":[],"traits":[{"symbol":"MARKETPLACE","name":"Marketplace","description":"..."}],"faction":{"symbol":"COSMIC"}}]}`))
	}))

	result, err := s.handleListWaypoints(context.Background(), callRequest(map[string]any{
		"agent_symbol":  "HERO",
		"system_symbol": "X1-DF55",
		"waypoint_type": "ENGINEERED_ASTEROID",
		"trait":         "MARKETPLACE",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var listings []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "COSMIC", listings[0]["faction"], "faction flattened to its symbol")
}

func TestViewMarket_DerivesSystemAndCapsTransactions(t *testing.T) {
	transactions := `[{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2},
		{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2},
		{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2},
		{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2},
		{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2},
		{"waypointSymbol":"X1-DF55-20250Z","tradeSymbol":"FUEL","type":"SELL","units":1,"pricePerUnit":2,"totalPrice":2}]`
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/systems/X1-DF55/waypoints/X1-DF55-20250Z/market", r.URL.Path)
		w.Write([]byte(`{"data":{"symbol":"X1-DF55-20250Z","exports":[{"symbol":"IRON"}],"imports":[{"symbol":"FOOD"}],"exchange":[{"symbol":"FUEL"}],"transactions":` + transactions + `,"tradeGoods":[{"symbol":"FUEL","type":"EXCHANGE","supply":"MODERATE","purchasePrice":3,"sellPrice":2}]}}`))
	}))

	result, err := s.handleViewMarket(context.Background(), callRequest(map[string]any{
		"agent_symbol":    "HERO",
		"waypoint_symbol": "X1-DF55-20250Z",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &view))
	assert.Equal(t, []any{"IRON"}, view["exports"])
	assert.Equal(t, []any{"FOOD"}, view["imports"])
	assert.Equal(t, []any{"FUEL"}, view["exchange"])
	assert.Len(t, view["transactions"], 5, "only the most recent transactions are shown")
}

func TestListShips_Summarizes(t *testing.T) {
	s := newTestServer(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my/ships", r.URL.Path)
		w.Write([]byte(`{"data":[{"symbol":"HERO-1","registration":{"name":"HERO-1","role":"COMMAND"},"nav":{"status":"DOCKED","waypointSymbol":"X1-DF55-20250Z"},"cargo":{"capacity":40,"units":3}}]}`))
	}))

	result, err := s.handleListShips(context.Background(), callRequest(map[string]any{
		"agent_symbol": "HERO",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `[{
		"symbol": "HERO-1",
		"registration": {"name": "HERO-1", "role": "COMMAND"},
		"nav": {"status": "DOCKED", "location": "X1-DF55-20250Z"},
		"cargo": {"capacity": 40, "units": 3}
	}]`, resultText(t, result))
}

func TestSystemFromWaypoint(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "X1-DF55", systemFromWaypoint("X1-DF55-20250Z"))
	assert.Equal(t, "X1-DF55", systemFromWaypoint("X1-DF55"))
	assert.Equal(t, "X1", systemFromWaypoint("X1"))
}
