package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
	"github.com/dementia-mcp/dementia/internal/session"
)

type getLastHandoverInput struct {
	Project string `json:"project,omitempty"`
}

type sleepInput struct {
	Project          string            `json:"project,omitempty"`
	WorkDone         []string          `json:"work_done,omitempty"`
	ToolsUsed        []string          `json:"tools_used,omitempty"`
	NextSteps        []string          `json:"next_steps,omitempty"`
	ImportantContext map[string]string `json:"important_context,omitempty"`
}

func (s *Server) registerHandoverTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_last_handover",
		Description: "Return the current session's in-progress summary, or the most recent packaged handover if this session has gone idle. OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Get Last Handover", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleGetLastHandover)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "sleep",
		Description: "Package the session's current work into a handover entry. OPTIONAL: project, work_done[], tools_used[], next_steps[], important_context{}.",
		Annotations: &mcp.ToolAnnotations{Title: "Sleep", OpenWorldHint: boolPtr(false)},
	}, s.handleSleep)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "wake_up",
		Description: "Alias of get_last_handover: load the prior handover at the start of a new session. OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Wake Up", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleWakeUp)
}

func (s *Server) handleGetLastHandover(ctx context.Context, req *mcp.CallToolRequest, input getLastHandoverInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "get_last_handover")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	h, err := s.core.GetLastHandover(ctx, resolved.SessionID, input.Project)
	if err != nil {
		return fail(err)
	}
	return ok(handoverFields(h))
}

func (s *Server) handleWakeUp(ctx context.Context, req *mcp.CallToolRequest, input getLastHandoverInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "wake_up")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	h, err := s.core.WakeUp(ctx, resolved.SessionID, input.Project)
	if err != nil {
		return fail(err)
	}
	return ok(handoverFields(h))
}

func (s *Server) handleSleep(ctx context.Context, req *mcp.CallToolRequest, input sleepInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "sleep")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	summary := session.Summary{
		WorkDone:         input.WorkDone,
		ToolsUsed:        input.ToolsUsed,
		NextSteps:        input.NextSteps,
		ImportantContext: input.ImportantContext,
	}
	if err := s.core.Sleep(ctx, resolved.SessionID, input.Project, summary); err != nil {
		return fail(err)
	}
	return ok(map[string]any{"work_done": len(summary.WorkDone), "next_steps": len(summary.NextSteps)})
}

func handoverFields(h memory.Handover) map[string]any {
	fields := map[string]any{
		"status":    h.Status,
		"hours_ago": h.HoursAgo,
	}
	if h.Status == memory.HandoverCurrent {
		fields["summary"] = h.Summary
	}
	if h.Entry != nil {
		fields["entry"] = map[string]any{
			"content":    h.Entry.Content,
			"metadata":   h.Entry.Metadata,
			"created_at": h.Entry.CreatedAt,
		}
	}
	return fields
}
