package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthsignal/health-engine/pkg/services"
)

// RegisterSourceTools adds the data-source selection and base-connection
// tools.
func RegisterSourceTools(s *server.MCPServer, orch *services.Orchestrator) {
	setSource := mcp.NewTool(
		"set_data_source",
		mcp.WithDescription("Select which data source to use for customer health analysis (static, airtable, or postgres)"),
		mcp.WithString("data_source",
			mcp.Required(),
			mcp.Description("The data source to activate: static, airtable, or postgres"),
		),
	)
	s.AddTool(setSource, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := trimString(req.GetString("data_source", ""))
		if source == "" {
			return NewErrorResult("invalid_params", "data_source parameter is required"), nil
		}
		status, err := orch.SetDataSource(source)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(status)
	})

	getStatus := mcp.NewTool(
		"get_data_source_status",
		mcp.WithDescription("Show current data source configuration and available options"),
	)
	s.AddTool(getStatus, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(orch.Status())
	})

	connect := mcp.NewTool(
		"connect_to_base",
		mcp.WithDescription("Connect to a specific Airtable base - all subsequent operations on the airtable source will use this base"),
		mcp.WithString("base_id",
			mcp.Required(),
			mcp.Description("The Airtable base ID to connect to (starts with 'app')"),
		),
	)
	s.AddTool(connect, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		baseID := trimString(req.GetString("base_id", ""))
		if baseID == "" {
			return NewErrorResult("invalid_params", "base_id parameter is required"), nil
		}
		status, err := orch.ConnectToBase(ctx, baseID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(status)
	})

	current := mcp.NewTool(
		"get_current_base",
		mcp.WithDescription("Show information about the currently connected Airtable base"),
	)
	s.AddTool(current, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := orch.Status()
		if status.ActiveBaseID == "" {
			return NewErrorResult("not_connected", "no Airtable base is currently active; call connect_to_base or set AIRTABLE_BASE_ID"), nil
		}
		return jsonResult(map[string]any{
			"base_id":        status.ActiveBaseID,
			"current_source": status.CurrentSource,
		})
	})
}
