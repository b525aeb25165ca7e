package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
)

type exportProjectInput struct {
	Project string `json:"project,omitempty"`
}

type importLockInput struct {
	Label       string         `json:"label"`
	Version     string         `json:"version"`
	Content     string         `json:"content"`
	ContentHash string         `json:"content_hash"`
	Preview     string         `json:"preview"`
	KeyConcepts []string       `json:"key_concepts,omitempty"`
	Priority    string         `json:"priority"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type importEntryInput struct {
	Category string         `json:"category"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type importProjectInput struct {
	TargetProject string             `json:"target_project"`
	Locks         []importLockInput  `json:"locks,omitempty"`
	Entries       []importEntryInput `json:"entries,omitempty"`
}

func (s *Server) registerTransferTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_project",
		Description: "Serialize every context and memory entry of the resolved project for import elsewhere. OPTIONAL: project.",
		Annotations: &mcp.ToolAnnotations{Title: "Export Project", ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, s.handleExportProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "import_project",
		Description: "Insert previously exported locks/entries under target_project, preserving (label, version) uniqueness; colliding rows are skipped. REQUIRED: target_project.",
		Annotations: &mcp.ToolAnnotations{Title: "Import Project", DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)},
	}, s.handleImportProject)
}

func (s *Server) handleExportProject(ctx context.Context, req *mcp.CallToolRequest, input exportProjectInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "export_project")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	export, err := s.core.ExportProject(ctx, resolved.SessionID, input.Project)
	if err != nil {
		return fail(err)
	}
	entries := make([]map[string]any, len(export.Entries))
	for i, e := range export.Entries {
		entries[i] = map[string]any{"category": e.Category, "content": e.Content, "metadata": e.Metadata, "created_at": e.CreatedAt}
	}
	return ok(map[string]any{"locks": lockFieldsList(export.Locks), "entries": entries})
}

func (s *Server) handleImportProject(ctx context.Context, req *mcp.CallToolRequest, input importProjectInput) (*mcp.CallToolResult, any, error) {
	resolved, err := s.resolve(ctx, req, "import_project")
	if err != nil {
		return fail(err)
	}
	defer s.finish(ctx, resolved.SessionID)

	data := memory.ProjectExport{
		Locks:   make([]memory.ContextLock, len(input.Locks)),
		Entries: make([]memory.MemoryEntry, len(input.Entries)),
	}
	for i, l := range input.Locks {
		data.Locks[i] = memory.ContextLock{
			Label: l.Label, Version: l.Version, Content: l.Content, ContentHash: l.ContentHash,
			Preview: l.Preview, KeyConcepts: l.KeyConcepts, Priority: l.Priority, Metadata: l.Metadata,
		}
	}
	for i, e := range input.Entries {
		data.Entries[i] = memory.MemoryEntry{Category: e.Category, Content: e.Content, Metadata: e.Metadata}
	}

	imported, err := s.core.ImportProject(ctx, resolved.SessionID, input.TargetProject, data)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]any{"imported": imported})
}
