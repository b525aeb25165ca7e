package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/session"
)

// transportSessionID extracts the stable per-connection id the go-sdk
// assigns each ServerSession, the "transport metadata" spec.md §4.3 step 1
// describes. A request with no active session (the very first call on a
// fresh transport) yields "", which Identify synthesizes a fresh id for.
func transportSessionID(req *mcp.CallToolRequest) string {
	if req == nil || req.Session == nil {
		return ""
	}
	return req.Session.ID()
}

// resolve runs the Session Middleware's identify/gate steps for toolName
// and returns the session id dispatch should use. Every handler calls this
// first; on error the handler renders fail(err) without touching the Core.
func (s *Server) resolve(ctx context.Context, req *mcp.CallToolRequest, toolName string) (*session.Resolved, error) {
	return s.middleware.Resolve(ctx, transportSessionID(req), toolName)
}

// finish runs step 5 of spec.md §4.3's pipeline (touch last_active) after
// the handler has its result, regardless of whether the Core operation
// succeeded. A touch failure is logged, not surfaced — it must never mask
// the operation's own result.
func (s *Server) finish(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.middleware.Touch(ctx, sessionID); err != nil {
		s.logger.Warn("touch session failed", "session_id", sessionID, "error", err)
	}
}
