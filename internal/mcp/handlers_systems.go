package mcp

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleListWaypoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	systemSymbol := getStringArg(args, "system_symbol")
	if systemSymbol == "" {
		return errorResult("system_symbol is required"), nil
	}

	query := url.Values{}
	if waypointType := getStringArg(args, "waypoint_type"); waypointType != "" {
		query.Set("type", waypointType)
	}
	if trait := getStringArg(args, "trait"); trait != "" {
		query.Set("traits", trait)
	}

	var out struct {
		Data []waypoint `json:"data"`
	}
	if _, err := s.api.Get(ctx, "systems/"+systemSymbol+"/waypoints", token, query, &out); err != nil {
		return apiErrorResult("Failed to list waypoints", err), nil
	}

	listings := make([]waypointListing, 0, len(out.Data))
	for _, wp := range out.Data {
		listings = append(listings, summarizeWaypoint(wp))
	}
	return jsonResult(listings), nil
}

func (s *Server) handleViewMarket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	waypointSymbol := getStringArg(args, "waypoint_symbol")
	if waypointSymbol == "" {
		return errorResult("waypoint_symbol is required"), nil
	}
	systemSymbol := systemFromWaypoint(waypointSymbol)

	var out struct {
		Data market `json:"data"`
	}
	if _, err := s.api.Get(ctx, "systems/"+systemSymbol+"/waypoints/"+waypointSymbol+"/market", token, nil, &out); err != nil {
		return apiErrorResult("Failed to view market", err), nil
	}
	return jsonResult(summarizeMarket(out.Data)), nil
}

func (s *Server) handleViewShipyard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	waypointSymbol := getStringArg(args, "waypoint_symbol")
	if waypointSymbol == "" {
		return errorResult("waypoint_symbol is required"), nil
	}
	systemSymbol := systemFromWaypoint(waypointSymbol)

	var out struct {
		Data shipyard `json:"data"`
	}
	if _, err := s.api.Get(ctx, "systems/"+systemSymbol+"/waypoints/"+waypointSymbol+"/shipyard", token, nil, &out); err != nil {
		return apiErrorResult("Failed to view shipyard", err), nil
	}
	return jsonResult(summarizeShipyard(out.Data)), nil
}
