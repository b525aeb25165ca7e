package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type emptyInput struct{}

type createProjectInput struct {
	Name string `json:"name"`
}

type selectProjectInput struct {
	Name string `json:"name"`
}

func (s *Server) registerProjectTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_projects",
		Description: "List every project in the catalog, each with its display name and storage namespace.",
		Annotations: &mcp.ToolAnnotations{Title: "List Projects", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleListProjects)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a project, sanitizing name to a storage namespace and provisioning its schema. REQUIRED: name.",
		Annotations: &mcp.ToolAnnotations{Title: "Create Project", DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)},
	}, s.handleCreateProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "select_project_for_session",
		Description: "Bind this session to project name for the rest of the session, creating it if new. REQUIRED: name.",
		Annotations: &mcp.ToolAnnotations{Title: "Select Project For Session", OpenWorldHint: boolPtr(false)},
	}, s.handleSelectProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "switch_project",
		Description: "Rebind this session to a different project. REQUIRED: name.",
		Annotations: &mcp.ToolAnnotations{Title: "Switch Project", OpenWorldHint: boolPtr(false)},
	}, s.handleSwitchProject)
}

func (s *Server) handleListProjects(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	if _, err := s.resolve(ctx, req, "list_projects"); err != nil {
		return fail(err)
	}
	views, err := s.core.ListProjects(ctx)
	if err != nil {
		return fail(err)
	}
	projects := make([]map[string]any, len(views))
	for i, v := range views {
		projects[i] = map[string]any{"name": v.Name, "namespace": v.Namespace}
	}
	return ok(map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(ctx context.Context, req *mcp.CallToolRequest, input createProjectInput) (*mcp.CallToolResult, any, error) {
	if _, err := s.resolve(ctx, req, "create_project"); err != nil {
		return fail(err)
	}
	view, err := s.core.CreateProject(ctx, input.Name)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"project": view.Name, "namespace": view.Namespace})
}

func (s *Server) handleSelectProject(ctx context.Context, req *mcp.CallToolRequest, input selectProjectInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "select_project_for_session")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	view, err := s.core.SelectProjectForSession(ctx, resolved.SessionID, input.Name)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"project": view.Name, "schema": view.Namespace})
}

func (s *Server) handleSwitchProject(ctx context.Context, req *mcp.CallToolRequest, input selectProjectInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "switch_project")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	view, err := s.core.SwitchProject(ctx, resolved.SessionID, input.Name)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"project": view.Name, "schema": view.Namespace})
}
