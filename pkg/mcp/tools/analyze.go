package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthsignal/health-engine/pkg/services"
)

// RegisterAnalysisTools adds the health-analysis and customer-inspection
// tools.
func RegisterAnalysisTools(s *server.MCPServer, orch *services.Orchestrator) {
	analyze := mcp.NewTool(
		"analyze_customer_health",
		mcp.WithDescription("Analyze customer health scores for all customers or a specific customer from the currently selected data source"),
		mcp.WithString("customer_id",
			mcp.Description("Customer ID or email to analyze; omit to analyze all customers"),
		),
		mcp.WithBoolean("detail",
			mcp.Description("For whole-dataset analysis, include full per-customer scores instead of a summary (default false)"),
		),
	)
	s.AddTool(analyze, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		customerID := trimString(req.GetString("customer_id", ""))
		if customerID == "" || customerID == "all" {
			report, err := orch.AnalyzeAll(ctx, req.GetBool("detail", false))
			if err != nil {
				return errResult(err), nil
			}
			return jsonResult(report)
		}

		score, err := orch.AnalyzeCustomer(ctx, customerID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(score)
	})

	list := mcp.NewTool(
		"list_customers",
		mcp.WithDescription("List all available customers in the currently selected data source"),
	)
	s.AddTool(list, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		customers, err := orch.ListCustomers(ctx)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]any{
			"customers": customers,
			"count":     len(customers),
		})
	})

	details := mcp.NewTool(
		"get_customer_details",
		mcp.WithDescription("Get detailed information about a specific customer"),
		mcp.WithString("customer_id",
			mcp.Required(),
			mcp.Description("Customer ID or email to look up"),
		),
	)
	s.AddTool(details, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		customerID := trimString(req.GetString("customer_id", ""))
		if customerID == "" {
			return NewErrorResult("invalid_params", "customer_id parameter is required"), nil
		}
		detail, err := orch.CustomerDetails(ctx, customerID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(detail)
	})

	recommend := mcp.NewTool(
		"get_recommendations",
		mcp.WithDescription("Get recommendations for improving a customer's health"),
		mcp.WithString("customer_id",
			mcp.Required(),
			mcp.Description("Customer ID or email to generate recommendations for"),
		),
	)
	s.AddTool(recommend, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		customerID := trimString(req.GetString("customer_id", ""))
		if customerID == "" {
			return NewErrorResult("invalid_params", "customer_id parameter is required"), nil
		}
		recs, err := orch.Recommendations(ctx, customerID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]any{
			"customer_id":     customerID,
			"recommendations": recs,
		})
	})
}
