package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthsignal/health-engine/pkg/services"
)

// RegisterDiscoveryTools adds the schema-discovery tools.
func RegisterDiscoveryTools(s *server.MCPServer, orch *services.Orchestrator) {
	bases := mcp.NewTool(
		"discover_bases",
		mcp.WithDescription("Discover all accessible Airtable bases for the configured API token"),
	)
	s.AddTool(bases, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		found, err := orch.DiscoverBases(ctx)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]any{
			"bases": found,
			"count": len(found),
		})
	})

	schema := mcp.NewTool(
		"discover_schema",
		mcp.WithDescription("Discover tables and fields of a schema-unknown source by sampling rows"),
		mcp.WithString("base_id",
			mcp.Description("Airtable base ID to inspect; omit to inspect the currently selected source"),
		),
	)
	s.AddTool(schema, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profiles, err := orch.DiscoverSchema(ctx, trimString(req.GetString("base_id", "")))
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]any{
			"tables": profiles,
			"count":  len(profiles),
		})
	})

	find := mcp.NewTool(
		"find_customer_tables",
		mcp.WithDescription("Find tables that likely contain customer data, with confidence scores"),
		mcp.WithString("base_id",
			mcp.Description("Airtable base ID to inspect; omit to inspect the currently selected source"),
		),
	)
	s.AddTool(find, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scored, err := orch.FindCustomerTables(ctx, trimString(req.GetString("base_id", "")))
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]any{
			"customer_tables": scored,
			"count":           len(scored),
		})
	})
}
