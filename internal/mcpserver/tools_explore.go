package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type exploreContextTreeInput struct {
	Project string `json:"project,omitempty"`
	Flat    bool   `json:"flat,omitempty"`
}

type contextDashboardInput struct {
	Project string `json:"project,omitempty"`
}

func (s *Server) registerExploreTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "explore_context_tree",
		Description: "List every label and its versions in the resolved project. OPTIONAL: project, flat (one node per version instead of grouped by label).",
		Annotations: &mcp.ToolAnnotations{Title: "Explore Context Tree", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleExploreContextTree)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "context_dashboard",
		Description: "Summarize a project's contexts: counts by priority, storage size, top/least/never-accessed, and staleness warnings. OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Context Dashboard", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleContextDashboard)
}

func (s *Server) handleExploreContextTree(ctx context.Context, req *mcp.CallToolRequest, input exploreContextTreeInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "explore_context_tree")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	nodes, err := s.core.ExploreContextTree(ctx, resolved.SessionID, input.Project, input.Flat)
	if err != nil {
		return fail(err)
	}
	tree := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		tree[i] = map[string]any{"label": n.Label, "versions": n.Versions}
	}
	return ok(map[string]any{"tree": tree})
}

func (s *Server) handleContextDashboard(ctx context.Context, req *mcp.CallToolRequest, input contextDashboardInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "context_dashboard")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	d, err := s.core.ContextDashboard(ctx, resolved.SessionID, input.Project)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{
		"counts_by_priority": d.CountsByPriority,
		"storage_size":       d.StorageSize,
		"top_accessed":       lockFieldsList(d.TopAccessed),
		"least_accessed":     lockFieldsList(d.LeastAccessed),
		"never_accessed":     lockFieldsList(d.NeverAccessed),
		"stale":              lockFieldsList(d.Stale),
	})
}
