package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleRegisterUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	callsign := getStringArg(args, "callsign")
	if callsign == "" {
		return errorResult("callsign is required"), nil
	}
	faction := getStringArg(args, "faction")
	if faction == "" {
		faction = "COSMIC"
	}

	accountToken, errRes := s.requireAccountToken()
	if errRes != nil {
		return errRes, nil
	}

	body := struct {
		Symbol  string `json:"symbol"`
		Faction string `json:"faction"`
	}{Symbol: callsign, Faction: faction}

	var out struct {
		Data struct {
			Token string       `json:"token"`
			Agent agentSummary `json:"agent"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "register", accountToken, body, &out); err != nil {
		return apiErrorResult("Registration failed", err), nil
	}

	if err := s.tokens.Set(out.Data.Agent.Symbol, out.Data.Token); err != nil {
		s.logger.Error().Err(err).Str("agent", out.Data.Agent.Symbol).Msg("failed to persist agent token")
		return errorResult(fmt.Sprintf("Registered agent %s but failed to store its token: %v", out.Data.Agent.Symbol, err)), nil
	}

	s.logger.Info().Str("agent", out.Data.Agent.Symbol).Str("faction", out.Data.Agent.StartingFaction).Msg("registered new agent")
	return textResult(fmt.Sprintf("Successfully registered agent %s with faction %s. Token has been stored for future use.",
		out.Data.Agent.Symbol, out.Data.Agent.StartingFaction)), nil
}

func (s *Server) handleViewAgentDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, errRes := s.agentToken(getStringArg(request.GetArguments(), "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data agentSummary `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/agent", token, nil, &out); err != nil {
		return apiErrorResult("Failed to get agent details", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleListAgents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, errRes := s.agentToken(getStringArg(request.GetArguments(), "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data []listedAgent `json:"data"`
		Meta meta          `json:"meta"`
	}
	if _, err := s.api.Get(ctx, "agents", token, nil, &out); err != nil {
		return apiErrorResult("Failed to list agents", err), nil
	}

	result := struct {
		Agents []listedAgent `json:"agents"`
		Meta   meta          `json:"meta"`
	}{Agents: out.Data, Meta: out.Meta}
	if result.Agents == nil {
		result.Agents = []listedAgent{}
	}
	return jsonResult(result), nil
}

// handleGetPublicAgent looks up public agent data. The endpoint does not
// require authentication, so no stored token is needed.
func (s *Server) handleGetPublicAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentSymbol := getStringArg(request.GetArguments(), "agent_symbol")
	if agentSymbol == "" {
		return errorResult("agent_symbol is required"), nil
	}

	var out struct {
		Data agentSummary `json:"data"`
	}
	if _, err := s.api.Get(ctx, "agents/"+agentSymbol, "", nil, &out); err != nil {
		return apiErrorResult("Failed to get public agent details", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleListFactions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accountToken, errRes := s.requireAccountToken()
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data []faction `json:"data"`
	}
	if _, err := s.api.Get(ctx, "factions", accountToken, nil, &out); err != nil {
		return apiErrorResult("Failed to list factions", err), nil
	}

	summaries := make([]factionSummary, 0, len(out.Data))
	for _, f := range out.Data {
		summaries = append(summaries, summarizeFaction(f))
	}
	return jsonResult(summaries), nil
}

func (s *Server) handleGetFaction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	factionSymbol := getStringArg(request.GetArguments(), "faction_symbol")
	if factionSymbol == "" {
		return errorResult("faction_symbol is required"), nil
	}

	accountToken, errRes := s.requireAccountToken()
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data faction `json:"data"`
	}
	if _, err := s.api.Get(ctx, "factions/"+factionSymbol, accountToken, nil, &out); err != nil {
		return apiErrorResult("Failed to get faction details", err), nil
	}
	return jsonResult(out.Data), nil
}
