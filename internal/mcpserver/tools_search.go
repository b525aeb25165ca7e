package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
)

type searchContextsInput struct {
	Query    string   `json:"query"`
	Project  string   `json:"project,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

type semanticSearchInput struct {
	Query   string `json:"query"`
	Project string `json:"project,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type checkContextsInput struct {
	Text    string `json:"text"`
	Project string `json:"project,omitempty"`
}

func (s *Server) registerSearchTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_contexts",
		Description: "Keyword search over label/content/preview/key_concepts within the resolved project. REQUIRED: query. OPTIONAL: project, priority, tags[], limit.",
		Annotations: &mcp.ToolAnnotations{Title: "Search Contexts", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleSearchContexts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "semantic_search_contexts",
		Description: "Vector similarity search over embedded contexts; degrades to keyword search if the embedding service is unavailable. REQUIRED: query. OPTIONAL: project, limit.",
		Annotations: &mcp.ToolAnnotations{Title: "Semantic Search Contexts", ReadOnlyHint: true, OpenWorldHint: boolPtr(true)},
	}, s.handleSemanticSearchContexts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_contexts",
		Description: "Return always_check contexts plus any whose key_concepts intersect text. REQUIRED: text. OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Check Contexts", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleCheckContexts)
}

func (s *Server) handleSearchContexts(ctx context.Context, req *mcp.CallToolRequest, input searchContextsInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "search_contexts")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	hits, err := s.core.SearchContexts(ctx, resolved.SessionID, input.Project, input.Query, input.Priority, input.Tags, input.Limit)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"results": hitFields(hits)})
}

func (s *Server) handleSemanticSearchContexts(ctx context.Context, req *mcp.CallToolRequest, input semanticSearchInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "semantic_search_contexts")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	hits, degraded, err := s.core.SemanticSearchContexts(ctx, resolved.SessionID, input.Project, input.Query, input.Limit)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"results": hitFields(hits), "degraded": degraded})
}

func (s *Server) handleCheckContexts(ctx context.Context, req *mcp.CallToolRequest, input checkContextsInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "check_contexts")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	locks, err := s.core.CheckContexts(ctx, resolved.SessionID, input.Project, input.Text)
	if err != nil {
		return fail(err)
	}
	results := make([]map[string]any, len(locks))
	for i, l := range locks {
		results[i] = lockFields(l)
	}
	return ok(map[string]any{"contexts": results})
}

func hitFields(hits []memory.SearchHit) []map[string]any {
	out := make([]map[string]any, len(hits))
	for i, h := range hits {
		f := lockFields(h.Lock)
		f["score"] = h.Score
		out[i] = f
	}
	return out
}
