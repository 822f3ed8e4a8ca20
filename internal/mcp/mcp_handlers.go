package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/caudal/core"
	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig builds a per-call Config from the base Config and the request arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateInputFile(cfg, request.GetString("input_file", "")); err != nil {
		return nil, err
	}
	if s := request.GetString("sheet", ""); s != "" {
		cfg.Sheet = s
	}
	if err := contract.RevalidateRange(cfg, request.GetString("start", ""), request.GetString("end", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *toolHandler) handleGetCycles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetCycleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDailyTotals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetCycleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.NewDailyReport(result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
