package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleListContracts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, errRes := s.agentToken(getStringArg(request.GetArguments(), "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}

	var out struct {
		Data []contract `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/contracts", token, nil, &out); err != nil {
		return apiErrorResult("Failed to list contracts", err), nil
	}
	if out.Data == nil {
		out.Data = []contract{}
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleGetContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	contractID := getStringArg(args, "contract_id")
	if contractID == "" {
		return errorResult("contract_id is required"), nil
	}

	var out struct {
		Data contract `json:"data"`
	}
	if _, err := s.api.Get(ctx, "my/contracts/"+contractID, token, nil, &out); err != nil {
		return apiErrorResult("Failed to get contract", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleNegotiateContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	shipSymbol := getStringArg(args, "ship_symbol")
	if shipSymbol == "" {
		return errorResult("ship_symbol is required"), nil
	}

	var out struct {
		Data struct {
			Contract contract `json:"contract"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/ships/"+shipSymbol+"/negotiate/contract", token, nil, &out); err != nil {
		return apiErrorResult("Failed to negotiate contract", err), nil
	}
	return jsonResult(out.Data.Contract), nil
}

func (s *Server) handleAcceptContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	contractID := getStringArg(args, "contract_id")
	if contractID == "" {
		return errorResult("contract_id is required"), nil
	}

	var out struct {
		Data struct {
			Agent    agentFunds `json:"agent"`
			Contract contract   `json:"contract"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/contracts/"+contractID+"/accept", token, nil, &out); err != nil {
		return apiErrorResult("Failed to accept contract", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleDeliverContractCargo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	contractID := getStringArg(args, "contract_id")
	shipSymbol := getStringArg(args, "ship_symbol")
	tradeSymbol := getStringArg(args, "trade_symbol")
	if contractID == "" || shipSymbol == "" || tradeSymbol == "" {
		return errorResult("contract_id, ship_symbol, and trade_symbol are required"), nil
	}

	body := struct {
		ShipSymbol  string `json:"shipSymbol"`
		TradeSymbol string `json:"tradeSymbol"`
		Units       int    `json:"units"`
	}{
		ShipSymbol:  shipSymbol,
		TradeSymbol: tradeSymbol,
		Units:       getIntArg(args, "units", 0),
	}

	var out struct {
		Data struct {
			Contract contract  `json:"contract"`
			Cargo    slimCargo `json:"cargo"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/contracts/"+contractID+"/deliver", token, body, &out); err != nil {
		return apiErrorResult("Failed to deliver cargo", err), nil
	}
	return jsonResult(out.Data), nil
}

func (s *Server) handleFulfillContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	token, errRes := s.agentToken(getStringArg(args, "agent_symbol"))
	if errRes != nil {
		return errRes, nil
	}
	contractID := getStringArg(args, "contract_id")
	if contractID == "" {
		return errorResult("contract_id is required"), nil
	}

	var out struct {
		Data struct {
			Agent    agentFunds `json:"agent"`
			Contract contract   `json:"contract"`
		} `json:"data"`
	}
	if _, err := s.api.Post(ctx, "my/contracts/"+contractID+"/fulfill", token, nil, &out); err != nil {
		return apiErrorResult("Failed to fulfill contract", err), nil
	}
	return jsonResult(out.Data), nil
}
