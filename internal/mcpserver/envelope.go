package mcpserver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// envelope builds the response shape spec.md §6 requires of every tool:
// {success, <fields>, error?, error_type?, timestamp?}. Grounded on the
// teacher's textResult/wrapResultAsObject in internal/mcp/server.go, but
// the fixed taxonomy fields replace the teacher's ad-hoc "_context" blob.
func envelope(fields map[string]any, err error) map[string]any {
	if err != nil {
		out := map[string]any{
			"success":    false,
			"error":      err.Error(),
			"error_type": string(engine.KindOf(err)),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		}
		var engErr *engine.Error
		if engine.As(err, &engErr) && engErr.Kind == engine.KindConfirmationRequired {
			out["context"] = engErr.Message
		}
		return out
	}
	out := map[string]any{"success": true, "timestamp": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// textResult renders data as a single JSON TextContent block, matching the
// teacher's textResult in internal/mcp/server.go (Content, not
// StructuredContent, for compatibility across MCP clients).
func textResult(data map[string]any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

// ok renders a successful envelope.
func ok(fields map[string]any) (*mcp.CallToolResult, any, error) {
	return textResult(envelope(fields, nil))
}

// fail renders a failed envelope. The tool call itself still succeeds at
// the transport level — spec.md §6 "errors are in-band" — so this never
// returns a non-nil error to mcp.AddTool.
func fail(err error) (*mcp.CallToolResult, any, error) {
	return textResult(envelope(nil, err))
}
