package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TheValverde/spacetraders-mcp/internal/api"
)

func (s *Server) registerTools() {
	// Agent and account tools
	s.mcpServer.AddTool(mcp.NewTool("Register_Users",
		mcp.WithDescription("Register a new agent with the SpaceTraders API. The new agent starts with a command ship, 175,000 credits, and a faction contract. The agent token is stored for future use."),
		mcp.WithString("callsign", mcp.Description("Unique callsign for the new agent"), mcp.Required()),
		mcp.WithString("faction", mcp.Description("Starting faction symbol (default COSMIC)")),
	), s.handleRegisterUsers)

	s.mcpServer.AddTool(mcp.NewTool("View_Agent_Details",
		mcp.WithDescription("Get an agent's own status including credits, headquarters location, and ship count"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent to view details for"), mcp.Required()),
	), s.handleViewAgentDetails)

	s.mcpServer.AddTool(mcp.NewTool("List_Agents",
		mcp.WithDescription("Fetch public details about all agents in the game"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent making the request"), mcp.Required()),
	), s.handleListAgents)

	s.mcpServer.AddTool(mcp.NewTool("Get_Public_Agent",
		mcp.WithDescription("Get public details for a specific agent by symbol"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent to look up"), mcp.Required()),
	), s.handleGetPublicAgent)

	s.mcpServer.AddTool(mcp.NewTool("List_Factions",
		mcp.WithDescription("List all factions in the game with their symbols, headquarters, and traits"),
	), s.handleListFactions)

	s.mcpServer.AddTool(mcp.NewTool("Get_Faction",
		mcp.WithDescription("View the details of a specific faction"),
		mcp.WithString("faction_symbol", mcp.Description("The symbol of the faction to view"), mcp.Required()),
	), s.handleGetFaction)

	// Contract tools
	s.mcpServer.AddTool(mcp.NewTool("List_Contracts",
		mcp.WithDescription("List all contracts for an agent"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent whose contracts to list"), mcp.Required()),
	), s.handleListContracts)

	s.mcpServer.AddTool(mcp.NewTool("Get_Contract",
		mcp.WithDescription("Get the details of a specific contract"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("contract_id", mcp.Description("The ID of the contract to view"), mcp.Required()),
	), s.handleGetContract)

	s.mcpServer.AddTool(mcp.NewTool("Negotiate_Contract",
		mcp.WithDescription("Negotiate a new contract using a ship. The ship must be at a waypoint with a faction presence, and an agent can only have one active contract at a time."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to use for negotiation"), mcp.Required()),
	), s.handleNegotiateContract)

	s.mcpServer.AddTool(mcp.NewTool("Accept_Contract",
		mcp.WithDescription("Accept a contract that was offered, has not been accepted yet, and has not expired. The advance payment is received immediately."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("contract_id", mcp.Description("The ID of the contract to accept"), mcp.Required()),
	), s.handleAcceptContract)

	s.mcpServer.AddTool(mcp.NewTool("Deliver_Contract_Cargo",
		mcp.WithDescription("Deliver cargo to fulfill a contract. The ship must be at the delivery destination with the cargo in its hold."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("contract_id", mcp.Description("The ID of the contract to deliver to"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship delivering cargo"), mcp.Required()),
		mcp.WithString("trade_symbol", mcp.Description("The symbol of the cargo to deliver"), mcp.Required()),
		mcp.WithNumber("units", mcp.Description("The number of units to deliver"), mcp.Required()),
	), s.handleDeliverContractCargo)

	s.mcpServer.AddTool(mcp.NewTool("Fulfill_Contract",
		mcp.WithDescription("Fulfill a contract after all delivery terms have been met, awarding the remaining payment"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("contract_id", mcp.Description("The ID of the contract to fulfill"), mcp.Required()),
	), s.handleFulfillContract)

	// Fleet tools
	s.mcpServer.AddTool(mcp.NewTool("List_Ships",
		mcp.WithDescription("List all ships under an agent's command"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent whose ships to list"), mcp.Required()),
	), s.handleListShips)

	s.mcpServer.AddTool(mcp.NewTool("View_Ship_Details",
		mcp.WithDescription("Get detailed information about a specific ship"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to view details for"), mcp.Required()),
	), s.handleViewShipDetails)

	s.mcpServer.AddTool(mcp.NewTool("Purchase_Ship",
		mcp.WithDescription("Purchase a ship from a shipyard. A ship owned by the agent must be present at the waypoint, and the shipyard must sell the desired ship type."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_type", mcp.Description("The type of ship to purchase (e.g. SHIP_MINING_DRONE)"), mcp.Required()),
		mcp.WithString("waypoint_symbol", mcp.Description("The symbol of the waypoint where to purchase the ship"), mcp.Required()),
	), s.handlePurchaseShip)

	s.mcpServer.AddTool(mcp.NewTool("Orbit_Ship",
		mcp.WithDescription("Move a ship into orbit at its current location. Ships in orbit can navigate or extract resources but cannot access the local market or shipyard."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to move into orbit"), mcp.Required()),
	), s.handleOrbitShip)

	s.mcpServer.AddTool(mcp.NewTool("Dock_Ship",
		mcp.WithDescription("Dock a ship at its current waypoint. Docking is required to access the local market, shipyard, or to refuel."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to dock"), mcp.Required()),
	), s.handleDockShip)

	s.mcpServer.AddTool(mcp.NewTool("Navigate_Ship",
		mcp.WithDescription("Navigate a ship to a waypoint. The ship must be in orbit, enters IN_TRANSIT status, and most actions are locked until arrival."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to navigate"), mcp.Required()),
		mcp.WithString("waypoint_symbol", mcp.Description("The symbol of the waypoint to navigate to"), mcp.Required()),
	), s.handleNavigateShip)

	s.mcpServer.AddTool(mcp.NewTool("Refuel_Ship",
		mcp.WithDescription("Refuel a ship at its current waypoint. The ship must be docked at a waypoint with a marketplace."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to refuel"), mcp.Required()),
	), s.handleRefuelShip)

	s.mcpServer.AddTool(mcp.NewTool("View_Ship_Cargo",
		mcp.WithDescription("Get the current cargo inventory of a ship"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to check cargo"), mcp.Required()),
	), s.handleViewShipCargo)

	s.mcpServer.AddTool(mcp.NewTool("Jettison_Cargo",
		mcp.WithDescription("Jettison (throw away) cargo from a ship"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to jettison cargo from"), mcp.Required()),
		mcp.WithString("cargo_symbol", mcp.Description("The symbol of the cargo item to jettison"), mcp.Required()),
		mcp.WithNumber("units", mcp.Description("The number of units to jettison"), mcp.Required()),
	), s.handleJettisonCargo)

	s.mcpServer.AddTool(mcp.NewTool("Sell_Cargo",
		mcp.WithDescription("Sell cargo at the current waypoint's marketplace. The ship is docked automatically if it is not already."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship selling cargo"), mcp.Required()),
		mcp.WithString("cargo_symbol", mcp.Description("The symbol of the cargo item to sell"), mcp.Required()),
		mcp.WithNumber("units", mcp.Description("The number of units to sell"), mcp.Required()),
	), s.handleSellCargo)

	s.mcpServer.AddTool(mcp.NewTool("Transfer_Cargo",
		mcp.WithDescription("Transfer cargo between two ships at the same waypoint in the same state (both docked or both in orbit)"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("source_ship", mcp.Description("The symbol of the ship transferring cargo"), mcp.Required()),
		mcp.WithString("destination_ship", mcp.Description("The symbol of the ship receiving cargo"), mcp.Required()),
		mcp.WithString("cargo_symbol", mcp.Description("The symbol of the cargo item to transfer"), mcp.Required()),
		mcp.WithNumber("units", mcp.Description("The number of units to transfer"), mcp.Required()),
	), s.handleTransferCargo)

	s.mcpServer.AddTool(mcp.NewTool("Extract_Resources",
		mcp.WithDescription("Extract resources using the ship's mining equipment at a valid extraction point. The ship is put into orbit automatically if it is not already, and enters a cooldown afterwards."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform extraction"), mcp.Required()),
	), s.handleExtractResources)

	s.mcpServer.AddTool(mcp.NewTool("Refine_Ship",
		mcp.WithDescription("Refine raw materials on a ship with a Refinery module. 100 basic goods convert into 10 processed goods."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform refining"), mcp.Required()),
		mcp.WithString("produce", mcp.Description("The good to produce (IRON, COPPER, SILVER, GOLD, ALUMINUM, PLATINUM, URANITE, MERITIUM, FUEL)"), mcp.Required()),
	), s.handleRefineShip)

	s.mcpServer.AddTool(mcp.NewTool("Chart_Waypoint",
		mcp.WithDescription("Chart the waypoint at the ship's current location, revealing its traits to all agents"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform the charting"), mcp.Required()),
	), s.handleChartWaypoint)

	s.mcpServer.AddTool(mcp.NewTool("Get_Ship_Cooldown",
		mcp.WithDescription("Retrieve the details of a ship's reactor cooldown. Returns 'No cooldown' if none is active."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to check cooldown for"), mcp.Required()),
	), s.handleGetShipCooldown)

	s.mcpServer.AddTool(mcp.NewTool("Create_Survey",
		mcp.WithDescription("Create a survey of the current waypoint using a ship with a Surveyor mount"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to use for surveying"), mcp.Required()),
	), s.handleCreateSurvey)

	s.mcpServer.AddTool(mcp.NewTool("Scan_Systems",
		mcp.WithDescription("Scan for nearby systems using the ship's sensor array. The ship enters a cooldown after scanning."),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform the scan"), mcp.Required()),
	), s.handleScanSystems)

	s.mcpServer.AddTool(mcp.NewTool("Scan_Waypoints",
		mcp.WithDescription("Scan for nearby waypoints using the ship's sensor array, revealing traits of uncharted waypoints"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform the scan"), mcp.Required()),
	), s.handleScanWaypoints)

	s.mcpServer.AddTool(mcp.NewTool("Scan_Ships",
		mcp.WithDescription("Scan for nearby ships using the ship's sensor array"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("ship_symbol", mcp.Description("The symbol of the ship to perform the scan"), mcp.Required()),
	), s.handleScanShips)

	// System and waypoint tools
	s.mcpServer.AddTool(mcp.NewTool("List_Waypoints",
		mcp.WithDescription("List waypoints in a system, optionally filtered by type and/or trait"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent"), mcp.Required()),
		mcp.WithString("system_symbol", mcp.Description("The symbol of the system to search in"), mcp.Required()),
		mcp.WithString("waypoint_type", mcp.Description("Optional waypoint type filter (e.g. ENGINEERED_ASTEROID, PLANET)")),
		mcp.WithString("trait", mcp.Description("Optional trait filter (e.g. SHIPYARD, MARKETPLACE)")),
	), s.handleListWaypoints)

	s.mcpServer.AddTool(mcp.NewTool("View_Market",
		mcp.WithDescription("View market data at a waypoint with the Marketplace trait"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent making the request"), mcp.Required()),
		mcp.WithString("waypoint_symbol", mcp.Description("The symbol of the waypoint/market to view"), mcp.Required()),
	), s.handleViewMarket)

	s.mcpServer.AddTool(mcp.NewTool("View_Shipyard",
		mcp.WithDescription("View the shipyard at a waypoint with the Shipyard trait"),
		mcp.WithString("agent_symbol", mcp.Description("The symbol/callsign of the agent making the request"), mcp.Required()),
		mcp.WithString("waypoint_symbol", mcp.Description("The symbol of the waypoint/shipyard to view"), mcp.Required()),
	), s.handleViewShipyard)
}

// --- Helper functions ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to marshal result: %v", err))
	}
	return textResult(string(data))
}

func getStringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getIntArg(args map[string]interface{}, key string, defaultVal int) int {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return defaultVal
}

// apiErrorResult formats a failed API call as a tool error. Remote rejections
// keep the API's message and status verbatim; transport failures fall back to
// the underlying error text.
func apiErrorResult(op string, err error) *mcp.CallToolResult {
	if apiErr, ok := api.AsAPIError(err); ok {
		return errorResult(fmt.Sprintf("%s: %s (Status code: %d)", op, apiErr.Message, apiErr.Status))
	}
	return errorResult(fmt.Sprintf("%s: %v", op, err))
}

// agentToken resolves the bearer token for agent_symbol from the token store.
// A missing token is a tool error, never a crash.
func (s *Server) agentToken(agentSymbol string) (string, *mcp.CallToolResult) {
	if agentSymbol == "" {
		return "", errorResult("agent_symbol is required")
	}
	token, ok := s.tokens.Get(agentSymbol)
	if !ok {
		return "", errorResult(fmt.Sprintf("No token stored for agent '%s'. Register the agent with Register_Users or store its token with the token command.", agentSymbol))
	}
	return token, nil
}

// requireAccountToken gates the endpoints that authenticate at account level.
func (s *Server) requireAccountToken() (string, *mcp.CallToolResult) {
	if s.accountToken == "" {
		return "", errorResult("SPACETRADERS_API_KEY is not set. Obtain an account token from https://my.spacetraders.io and set the environment variable.")
	}
	return s.accountToken, nil
}

// systemFromWaypoint derives the system symbol from a waypoint symbol.
// Waypoints are formatted as SYSTEM-X-Y, e.g. X1-DF55-20250Z -> X1-DF55.
func systemFromWaypoint(waypointSymbol string) string {
	parts := strings.SplitN(waypointSymbol, "-", 3)
	if len(parts) < 2 {
		return waypointSymbol
	}
	return parts[0] + "-" + parts[1]
}
