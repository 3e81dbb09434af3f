package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// shipArgs resolves the agent token and ship symbol shared by most fleet
// tools.
func (s *Server) shipArgs(args map[string]interface{}) (token, shipSymbol string, errRes *mcp.CallToolResult) {
	token, errRes = s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return "", "", errRes
	}
	shipSymbol = getStringArg(args, "ship_symbol")
	if shipSymbol == "" {
		return "", "", errorResult("ship_symbol is required")
	}
	return token, shipSymbol, nil
}

// shipNavStatus fetches the ship's current nav status, used by the tools
// that auto-dock or auto-orbit before acting.
func (s *Server) shipNavStatus(ctx context.Context, token, shipSymbol string) (string, error) {
	var out struct {
		Data struct {
			Nav shipNav `json:"nav"`
		} `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/ships/"+shipSymbol, token, nil, &out); err != nil {
		return "", err
	}
	return out.Data.Nav.Status, nil
}

func (s *Server) handleListShips(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, errRes := s.agentToken(getStringArg(request.GetArguments(), "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data []fleetShip `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/ships", token, nil, &out); err != nil {
		return apiErrorResult("Failed to list ships", err), nil
	}

	listings := make([]shipListing, 0, len(out.Data))
	for _, ship := range out.Data {
		listings = append(listings, summarizeShip(ship))
	}
	return jsonResult(listings), nil
}

func (s *Server) handleViewShipDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data shipDetails `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/ships/"+shipSymbol, token, nil, &out); err != nil {
		return apiErrorResult("Failed to get ship details", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handlePurchaseShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	shipType := getStringArg(args, "ship_type")
	waypointSymbol := getStringArg(args, "waypoint_symbol")
	if shipType == "" || waypointSymbol == "" {
		return errorResult("ship_type and waypoint_symbol are required"), nil
	}

	body := struct {
		ShipType       string `json:"shipType"`
		WaypointSymbol string `json:"waypointSymbol"`
	}{ShipType: shipType, WaypointSymbol: waypointSymbol}

	var out struct {
		Data struct {
			Agent       agentFunds          `json:"agent"`
			Ship        purchasedShip       `json:"ship"`
			Transaction shipyardTransaction `json:"transaction"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships", token, body, &out); err != nil {
		return apiErrorResult("Failed to purchase ship", err), nil
	}

	result := struct {
		Agent agentFunds `json:"agent"`
		Ship  struct {
			Symbol       string           `json:"symbol"`
			Registration shipRegistration `json:"registration"`
			Nav          struct {
				Status   string `json:"status"`
				Location string `json:"location"`
			} `json:"nav"`
			Frame   any        `json:"frame"`
			Reactor any        `json:"reactor"`
			Engine  any        `json:"engine"`
			Modules any        `json:"modules"`
			Mounts  any        `json:"mounts"`
			Cargo   cargoCount `json:"cargo"`
		} `json:"ship"`
		Transaction shipyardTransaction `json:"transaction"`
	}{Agent: out.Data.Agent, Transaction: out.Data.Transaction}

	ship := out.Data.Ship
	result.Ship.Symbol = ship.Symbol
	result.Ship.Registration = ship.Registration
	result.Ship.Nav.Status = ship.Nav.Status
	result.Ship.Nav.Location = ship.Nav.WaypointSymbol
	result.Ship.Frame = ship.Frame
	result.Ship.Reactor = ship.Reactor
	result.Ship.Engine = ship.Engine
	result.Ship.Modules = ship.Modules
	result.Ship.Mounts = ship.Mounts
	result.Ship.Cargo = ship.Cargo

	return jsonResult(result), nil
}

func (s *Server) handleOrbitShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Nav shipNav `json:"nav"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/orbit", token, nil, &out); err != nil {
		return apiErrorResult("Failed to move ship into orbit", err), nil
	}
	return jsonResult(summarizeNav(out.Data.Nav)), nil
}

func (s *Server) handleDockShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Nav shipNav `json:"nav"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/dock", token, nil, &out); err != nil {
		return apiErrorResult("Failed to dock ship", err), nil
	}
	return jsonResult(summarizeNav(out.Data.Nav)), nil
}

func (s *Server) handleNavigateShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, shipSymbol, errRes := s.shipArgs(args)
	if errRes != nil {
		return errRes, nil
	}
	waypointSymbol := getStringArg(args, "waypoint_symbol")
	if waypointSymbol == "" {
		return errorResult("waypoint_symbol is required"), nil
	}

	body := struct {
		WaypointSymbol string `json:"waypointSymbol"`
	}{WaypointSymbol: waypointSymbol}

	var out struct {
		Data struct {
			Nav  shipNav  `json:"nav"`
			Fuel shipFuel `json:"fuel"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/navigate", token, body, &out); err != nil {
		return apiErrorResult("Failed to navigate ship", err), nil
	}

	result := struct {
		Nav  navStatus `json:"nav"`
		Fuel shipFuel  `json:"fuel"`
	}{Nav: summarizeNav(out.Data.Nav), Fuel: out.Data.Fuel}
	return jsonResult(result), nil
}

func (s *Server) handleRefuelShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Agent       agentFunds        `json:"agent"`
			Fuel        fuelLevel         `json:"fuel"`
			Transaction refuelTransaction `json:"transaction"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/refuel", token, nil, &out); err != nil {
		return apiErrorResult("Failed to refuel ship", err), nil
	}

	result := struct {
		Agent struct {
			Credits int64 `json:"credits"`
		} `json:"agent"`
		Fuel        fuelLevel         `json:"fuel"`
		Transaction refuelTransaction `json:"transaction"`
	}{Fuel: out.Data.Fuel, Transaction: out.Data.Transaction}
	result.Agent.Credits = out.Data.Agent.Credits
	return jsonResult(result), nil
}

func (s *Server) handleViewShipCargo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data shipCargo `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/ships/"+shipSymbol+"/cargo", token, nil, &out); err != nil {
		return apiErrorResult("Failed to view cargo", err), nil
	}
	if out.Data.Inventory == nil {
		out.Data.Inventory = []cargoItem{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleJettisonCargo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, shipSymbol, errRes := s.shipArgs(args)
	if errRes != nil {
		return errRes, nil
	}
	cargoSymbol := getStringArg(args, "cargo_symbol")
	if cargoSymbol == "" {
		return errorResult("cargo_symbol is required"), nil
	}

	body := struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	}{Symbol: cargoSymbol, Units: getIntArg(args, "units", 0)}

	var out struct {
		Data struct {
			Cargo slimCargo `json:"cargo"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/jettison", token, body, &out); err != nil {
		return apiErrorResult("Failed to jettison cargo", err), nil
	}
	return jsonResult(out.Data), nil
}

// handleSellCargo sells at the local marketplace, docking the ship first if
// it is not already docked.
func (s *Server) handleSellCargo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, shipSymbol, errRes := s.shipArgs(args)
	if errRes != nil {
		return errRes, nil
	}
	cargoSymbol := getStringArg(args, "cargo_symbol")
	if cargoSymbol == "" {
		return errorResult("cargo_symbol is required"), nil
	}

	if status, err := s.shipNavStatus(ctx, token, shipSymbol); err == nil && status != "DOCKED" {
		if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/dock", token, nil, nil); err != nil {
			return apiErrorResult("Failed to dock before selling", err), nil
		}
	}

	body := struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	}{Symbol: cargoSymbol, Units: getIntArg(args, "units", 0)}

	var out struct {
		Data struct {
			Agent       agentFunds        `json:"agent"`
			Cargo       slimCargo         `json:"cargo"`
			Transaction marketTransaction `json:"transaction"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/sell", token, body, &out); err != nil {
		return apiErrorResult("Failed to sell cargo", err), nil
	}

	result := struct {
		Agent struct {
			Credits int64 `json:"credits"`
		} `json:"agent"`
		Cargo       slimCargo         `json:"cargo"`
		Transaction marketTransaction `json:"transaction"`
	}{Cargo: out.Data.Cargo, Transaction: out.Data.Transaction}
	result.Agent.Credits = out.Data.Agent.Credits
	return jsonResult(result), nil
}

func (s *Server) handleTransferCargo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	sourceShip := getStringArg(args, "source_ship")
	destinationShip := getStringArg(args, "destination_ship")
	cargoSymbol := getStringArg(args, "cargo_symbol")
	if sourceShip == "" || destinationShip == "" || cargoSymbol == "" {
		return errorResult("source_ship, destination_ship, and cargo_symbol are required"), nil
	}

	body := struct {
		TradeSymbol string `json:"tradeSymbol"`
		Units       int    `json:"units"`
		ShipSymbol  string `json:"shipSymbol"`
	}{TradeSymbol: cargoSymbol, Units: getIntArg(args, "units", 0), ShipSymbol: destinationShip}

	var out struct {
		Data struct {
			Cargo shipCargo `json:"cargo"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+sourceShip+"/transfer", token, body, &out); err != nil {
		return apiErrorResult("Failed to transfer cargo", err), nil
	}
	return jsonResult(out.Data), nil
}

// handleExtractResources mines at the ship's current waypoint, moving the
// ship into orbit first if it is not already.
func (s *Server) handleExtractResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	if status, err := s.shipNavStatus(ctx, token, shipSymbol); err == nil && status != "IN_ORBIT" {
		if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/orbit", token, nil, nil); err != nil {
			return apiErrorResult("Failed to achieve orbit before extraction", err), nil
		}
	}

	var out struct {
		Data struct {
			Extraction extraction   `json:"extraction"`
			Cargo      slimCargo    `json:"cargo"`
			Cooldown   shipCooldown `json:"cooldown"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/extract", token, nil, &out); err != nil {
		return apiErrorResult("Failed to extract resources", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleRefineShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, shipSymbol, errRes := s.shipArgs(args)
	if errRes != nil {
		return errRes, nil
	}
	produce := getStringArg(args, "produce")
	if produce == "" {
		return errorResult("produce is required"), nil
	}

	body := struct {
		Produce string `json:"produce"`
	}{Produce: produce}

	var out struct {
		Data struct {
			Cargo    shipCargo     `json:"cargo"`
			Cooldown shipCooldown  `json:"cooldown"`
			Produced []refineYield `json:"produced"`
			Consumed []refineYield `json:"consumed"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/refine", token, body, &out); err != nil {
		return apiErrorResult("Failed to refine materials", err), nil
	}
	if out.Data.Produced == nil {
		out.Data.Produced = []refineYield{}
	}
	if out.Data.Consumed == nil {
		out.Data.Consumed = []refineYield{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleChartWaypoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Chart    chartRecord `json:"chart"`
			Waypoint waypoint    `json:"waypoint"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/chart", token, nil, &out); err != nil {
		return apiErrorResult("Failed to chart waypoint", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleGetShipCooldown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data shipCooldown `json:"data"`
	}
	status, err := s.api.Get(ctx, "my/ships/"+shipSymbol+"/cooldown", token, nil, &out)
	if err != nil {
		return apiErrorResult("Failed to get ship cooldown", err), nil
	}
	if status == http.StatusNoContent {
		return textResult("No cooldown"), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleCreateSurvey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Cooldown shipCooldown      `json:"cooldown"`
			Surveys  []json.RawMessage `json:"surveys"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/survey", token, nil, &out); err != nil {
		return apiErrorResult("Failed to create survey", err), nil
	}
	if out.Data.Surveys == nil {
		out.Data.Surveys = []json.RawMessage{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleScanSystems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Systems  []scannedSystem `json:"systems"`
			Cooldown shipCooldown    `json:"cooldown"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/scan/systems", token, nil, &out); err != nil {
		return apiErrorResult("Failed to scan systems", err), nil
	}
	if out.Data.Systems == nil {
		out.Data.Systems = []scannedSystem{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleScanWaypoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Waypoints []waypoint   `json:"waypoints"`
			Cooldown  shipCooldown `json:"cooldown"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/scan/waypoints", token, nil, &out); err != nil {
		return apiErrorResult("Failed to scan waypoints", err), nil
	}
	if out.Data.Waypoints == nil {
		out.Data.Waypoints = []waypoint{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleScanShips(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, shipSymbol, errRes := s.shipArgs(request.GetArguments())
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data struct {
			Ships    []scannedShip `json:"ships"`
			Cooldown shipCooldown  `json:"cooldown"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/scan/ships", token, nil, &out); err != nil {
		return apiErrorResult("Failed to scan ships", err), nil
	}
	if out.Data.Ships == nil {
		out.Data.Ships = []scannedShip{}
	}
	return jsonResult(out.Data), nil
}
