package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
)

type batchLockItem struct {
	Topic       string   `json:"topic"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	VersionBase string   `json:"version_base,omitempty"`
}

type batchLockContextsInput struct {
	Project  string          `json:"project,omitempty"`
	Requests []batchLockItem `json:"requests"`
}

type batchRecallItem struct {
	Topic   string `json:"topic"`
	Version string `json:"version,omitempty"`
}

type batchRecallContextsInput struct {
	Project  string            `json:"project,omitempty"`
	Requests []batchRecallItem `json:"requests"`
}

func (s *Server) registerBatchTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "batch_lock_contexts",
		Description: "lock_context for several topics in one round-trip; each item resolves and commits independently. REQUIRED: requests[] (topic, content, tags[], priority, version_base). OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Batch Lock Contexts", DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)},
	}, s.handleBatchLockContexts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "batch_recall_contexts",
		Description: "recall_context for several topics in one round-trip, sharing a single connection. REQUIRED: requests[] (topic, version). OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Batch Recall Contexts", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleBatchRecallContexts)
}

func (s *Server) handleBatchLockContexts(ctx context.Context, req *mcp.CallToolRequest, input batchLockContextsInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "batch_lock_contexts")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	requests := make([]memory.LockRequest, len(input.Requests))
	for i, r := range input.Requests {
		requests[i] = memory.LockRequest{Topic: r.Topic, Content: r.Content, Tags: r.Tags, Priority: r.Priority, VersionBase: r.VersionBase}
	}
	results, errs := s.core.BatchLockContexts(ctx, resolved.SessionID, input.Project, requests)
	items := make([]map[string]any, len(results))
	for i, r := range results {
		item := map[string]any{
			"label":         r.Label,
			"version":       r.Version,
			"hash":          r.Hash,
			"preview":       r.Preview,
			"priority":      r.Priority,
			"key_concepts":  r.KeyConcepts,
			"branched":      r.Branched,
			"branched_from": r.BranchedFrom,
			"embedded":      r.Embedded,
		}
		if errs[i] != nil {
			item["error"] = errs[i].Error()
		}
		items[i] = item
	}
	return ok(map[string]any{"results": items})
}

func (s *Server) handleBatchRecallContexts(ctx context.Context, req *mcp.CallToolRequest, input batchRecallContextsInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "batch_recall_contexts")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	requests := make([]memory.RecallRequest, len(input.Requests))
	for i, r := range input.Requests {
		requests[i] = memory.RecallRequest{Topic: r.Topic, Version: r.Version}
	}
	locks, errs := s.core.BatchRecallContexts(ctx, resolved.SessionID, input.Project, requests)
	items := make([]map[string]any, len(locks))
	for i, l := range locks {
		item := lockFields(l)
		if errs[i] != nil {
			item["error"] = errs[i].Error()
		}
		items[i] = item
	}
	return ok(map[string]any{"results": items})
}
