// Package mcpserver is the Tool Surface (spec.md §4.5): the only
// component aware of the MCP transport's request/response types. It
// registers each Memory Core operation under a stable tool name,
// coerces arguments, and formats every outgoing payload as the JSON
// envelope spec.md §6 defines. Grounded on the teacher's
// internal/mcp/register_v4.go (mcp.AddTool registration shape) and
// internal/mcp/server.go (response helpers), generalized from the
// teacher's project-management domain to memory operations.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dementia-mcp/dementia/internal/memory"
	"github.com/dementia-mcp/dementia/internal/session"
)

// Server wires the Memory Core and Session Middleware to an MCP server
// instance. There is exactly one per process (spec.md §1.5's
// no-package-level-state rule), constructed at bootstrap.
type Server struct {
	core       *memory.Core
	middleware *session.Middleware
	logger     *slog.Logger
	mcp        *mcp.Server
}

// New constructs a Server and registers every tool.
func New(core *memory.Core, middleware *session.Middleware, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{core: core, middleware: middleware, logger: logger}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "dementia", Version: "1.0.0"}, nil)
	s.registerTools()
	return s
}

// ServeStdio runs the server over stdio until ctx is canceled or the
// transport closes, the deployment shape spec.md §1 names as the MCP
// transport boundary.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.registerProjectTools()
	s.registerContextTools()
	s.registerSearchTools()
	s.registerExploreTools()
	s.registerHandoverTools()
	s.registerBatchTools()
	s.registerTransferTools()
	s.registerMiscTools()
}

func boolPtr(b bool) *bool { return &b }
