// Package mcp exposes plan generation over the Model Context Protocol so
// agent frontends can drive the planner as a tool provider.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/planr/pkg/history"
	"github.com/ternarybob/planr/pkg/plan"
)

// Generator produces a plan for a request.
type Generator interface {
	Generate(ctx context.Context, req *plan.Request) (*plan.Plan, error)
	Model() string
}

// Server wraps the plan generator and history store as MCP tools.
type Server struct {
	generator Generator
	store     *history.Store
	server    *server.MCPServer
}

// NewServer creates an MCP server exposing the planning tools.
func NewServer(generator Generator, store *history.Store, version string) *Server {
	s := &Server{
		generator: generator,
		store:     store,
	}

	mcpServer := server.NewMCPServer(
		"planr",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("generate_plan",
			mcp.WithDescription("Generate a structured task plan (tasks, dependencies, assumptions, risks) for a goal using the configured LLM."),
			mcp.WithString("goal",
				mcp.Required(),
				mcp.Description("The goal to plan for (e.g., 'Launch a product in 2 weeks')"),
			),
			mcp.WithString("deadline",
				mcp.Description("Deadline or timebox for the plan (e.g., '2 weeks')"),
			),
			mcp.WithString("constraints",
				mcp.Description("Comma-separated constraints (e.g., 'team of 2, limited budget')"),
			),
		),
		s.handleGeneratePlan,
	)

	mcpServer.AddTool(
		mcp.NewTool("plan_history",
			mcp.WithDescription("List recently generated plans, newest first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of entries to return (default: 10)"),
			),
		),
		s.handlePlanHistory,
	)
}

// handleGeneratePlan handles the generate_plan tool.
func (s *Server) handleGeneratePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal := request.GetString("goal", "")

	req := &plan.Request{
		Goal:        goal,
		Deadline:    request.GetString("deadline", ""),
		Constraints: plan.SplitConstraints(request.GetString("constraints", "")),
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}

	p, err := s.generator.Generate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("plan generation failed: %v", err)), nil
	}

	if s.store != nil {
		_, _ = s.store.Record(req.Goal, p)
	}

	return mcp.NewToolResultText(plan.RenderText(p)), nil
}

// handlePlanHistory handles the plan_history tool.
func (s *Server) handlePlanHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("history store not initialized"), nil
	}

	limit := request.GetInt("limit", history.DefaultLimit)
	items := s.store.List()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		entries = append(entries, map[string]interface{}{
			"id":        item.ID,
			"goal":      item.Goal,
			"timestamp": item.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}

	jsonBytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal history failed: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}
