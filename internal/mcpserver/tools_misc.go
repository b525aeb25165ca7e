package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getAgentActivityInput struct {
	Project  string `json:"project,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (s *Server) registerMiscTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_agent_activity",
		Description: "Return the project's audit trail of memory entries, most recent first. OPTIONAL: project, category, limit.",
		Annotations: &mcp.ToolAnnotations{Title: "Get Agent Activity", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleGetAgentActivity)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "health",
		Description: "Report that the server is reachable and ready to accept tool calls.",
		Annotations: &mcp.ToolAnnotations{Title: "Health", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleHealth)
}

func (s *Server) handleGetAgentActivity(ctx context.Context, req *mcp.CallToolRequest, input getAgentActivityInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "get_agent_activity")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	entries, err := s.core.GetAgentActivity(ctx, resolved.SessionID, input.Project, input.Category, input.Limit)
	if err != nil {
		return fail(err)
	}
	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{"category": e.Category, "content": e.Content, "metadata": e.Metadata, "created_at": e.CreatedAt}
	}
	return ok(map[string]any{"activity": out})
}

func (s *Server) handleHealth(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	if _, err := s.resolve(ctx, req, "health"); err != nil {
		return fail(err)
	}
	return ok(map[string]any{"status": "ok"})
}
