// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Caudal MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Caudal Production Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_cycles ---
	s.AddTool(mcp.NewTool("get_cycles",
		mcp.WithDescription("Segment flow-rate readings into production cycles and report the volume of each cycle."),
		mcp.WithString("input_file", mcp.Description("Path to a CSV, TSV or Excel file with fecha_hora and flowRate columns."), mcp.Required()),
		mcp.WithString("start", mcp.Description("First calendar date to include (YYYY-MM-DD, today, yesterday or 'N days ago'). Defaults to the first date in the data.")),
		mcp.WithString("end", mcp.Description("Last calendar date to include. Defaults to the last date in the data.")),
		mcp.WithString("sheet", mcp.Description("Worksheet name for Excel inputs. Defaults to the first sheet.")),
	), h.handleGetCycles)

	// --- 2. Tool: get_daily_totals ---
	s.AddTool(mcp.NewTool("get_daily_totals",
		mcp.WithDescription("Report produced volume per calendar day, grouped by cycle start date."),
		mcp.WithString("input_file", mcp.Description("Path to a CSV, TSV or Excel file with fecha_hora and flowRate columns."), mcp.Required()),
		mcp.WithString("start", mcp.Description("First calendar date to include.")),
		mcp.WithString("end", mcp.Description("Last calendar date to include.")),
		mcp.WithString("sheet", mcp.Description("Worksheet name for Excel inputs.")),
	), h.handleGetDailyTotals)

	return s
}

// StartMCPServer starts the Caudal MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
