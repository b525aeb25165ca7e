package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
)

type lockContextInput struct {
	Topic       string   `json:"topic"`
	Content     string   `json:"content"`
	Project     string   `json:"project,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	VersionBase string   `json:"version_base,omitempty"`
}

type recallContextInput struct {
	Topic   string `json:"topic"`
	Project string `json:"project,omitempty"`
	Version string `json:"version,omitempty"`
}

type unlockContextInput struct {
	Topic   string `json:"topic"`
	Project string `json:"project,omitempty"`
	Version string `json:"version,omitempty"`
	Force   bool   `json:"force,omitempty"`
	Archive bool   `json:"archive,omitempty"`
}

func (s *Server) registerContextTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "lock_context",
		Description: `Store content under topic as a new version. REQUIRED: topic, content.
OPTIONAL: project (defaults to the session's selected project), tags[], priority (always_check|important|reference, auto-detected if omitted), version_base (branch from an older version instead of the latest).`,
		Annotations: &mcp.ToolAnnotations{Title: "Lock Context", DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)},
	}, s.handleLockContext)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recall_context",
		Description: "Retrieve a locked context by topic. REQUIRED: topic. OPTIONAL: project, version (defaults to latest).",
		Annotations: &mcp.ToolAnnotations{Title: "Recall Context", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleRecallContext)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "unlock_context",
		Description: `Delete one, several, or all versions of topic. REQUIRED: topic.
OPTIONAL: project, version (defaults to all), force (required to unlock an always_check context), archive (preserve a copy before deleting).`,
		Annotations: &mcp.ToolAnnotations{Title: "Unlock Context", DestructiveHint: boolPtr(true), OpenWorldHint: boolPtr(false)},
	}, s.handleUnlockContext)
}

func (s *Server) handleLockContext(ctx context.Context, req *mcp.CallToolRequest, input lockContextInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "lock_context")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	result, err := s.core.LockContext(ctx, resolved.SessionID, input.Project, input.Content, input.Topic, input.Tags, input.Priority, input.VersionBase)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{
		"label":         result.Label,
		"version":       result.Version,
		"hash":          result.Hash,
		"preview":       result.Preview,
		"priority":      result.Priority,
		"key_concepts":  result.KeyConcepts,
		"branched":      result.Branched,
		"branched_from": result.BranchedFrom,
		"embedded":      result.Embedded,
	})
}

func (s *Server) handleRecallContext(ctx context.Context, req *mcp.CallToolRequest, input recallContextInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "recall_context")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	lock, err := s.core.RecallContext(ctx, resolved.SessionID, input.Project, input.Topic, input.Version)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"context": lockFields(lock)})
}

func (s *Server) handleUnlockContext(ctx context.Context, req *mcp.CallToolRequest, input unlockContextInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "unlock_context")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	result, err := s.core.UnlockContext(ctx, resolved.SessionID, input.Project, input.Topic, input.Version, input.Force, input.Archive)
	if err != nil {
		return fail(err)
	}
	affected := make([]map[string]any, len(result.Affected))
	for i, a := range result.Affected {
		affected[i] = map[string]any{"label": a.Label, "version": a.Version}
	}
	return ok(map[string]any{"archived": result.Archived, "affected": affected})
}

// lockFieldsList maps lockFields over a slice, used by every handler that
// returns several contexts at once.
func lockFieldsList(locks []memory.ContextLock) []map[string]any {
	out := make([]map[string]any, len(locks))
	for i, l := range locks {
		out[i] = lockFields(l)
	}
	return out
}

// lockFields flattens a ContextLock into the envelope's JSON shape, shared
// by every handler that returns one.
func lockFields(l memory.ContextLock) map[string]any {
	return map[string]any{
		"label":         l.Label,
		"version":       l.Version,
		"content":       l.Content,
		"content_hash":  l.ContentHash,
		"preview":       l.Preview,
		"key_concepts":  l.KeyConcepts,
		"priority":      l.Priority,
		"metadata":      l.Metadata,
		"locked_at":     l.LockedAt,
		"last_accessed": l.LastAccessed,
		"access_count":  l.AccessCount,
	}
}
