// Package commands holds the dementia CLI's urfave/cli/v2 subcommands,
// grounded on the teacher's internal/cli/commands/mcp.go shape (one
// top-level "mcp" command with serve/config/tools subcommands); this
// package retargets that shape to the MCP-only dementia process.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dementia-mcp/dementia/internal/catalog"
	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/embedclient"
	"github.com/dementia-mcp/dementia/internal/mcpserver"
	"github.com/dementia-mcp/dementia/internal/memory"
	"github.com/dementia-mcp/dementia/internal/session"
	"github.com/dementia-mcp/dementia/internal/storage"
)

// NewServeCommand starts the MCP server over stdio, wiring every
// collaborator bootstrap ordered the way SPEC_FULL.md §2 lays the pieces
// out: catalog first (owns the sessions table the middleware needs), then
// the storage adapter, then session/memory, then the tool surface.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the MCP server (stdio transport)",
		Action: func(c *cli.Context) error {
			ctx := c.Context

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			registry, err := catalog.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}

			adapter, err := storage.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("open storage adapter: %w", err)
			}
			defer adapter.Close()

			sessions := session.NewStore(registry)
			middleware := session.NewMiddleware(sessions)

			embedder := embedclient.NewEmbedder(cfg.Embedding)
			completer := embedclient.NewCompleter(cfg.LLM)

			core := memory.NewCore(adapter, registry, sessions, middleware, embedder, completer, cfg.Session, logger)

			cleanupCtx, stopCleanup := context.WithCancel(ctx)
			defer stopCleanup()
			go session.RunCleanup(cleanupCtx, sessions, cfg.Session.IdleTTL, cfg.Session.CleanupInterval, logger)

			srv := mcpserver.New(core, middleware, logger)
			return srv.ServeStdio(ctx)
		},
	}
}

// NewMigrateCommand provisions the catalog tables (public schema, via
// gorm AutoMigrate) without starting the server. Per-project namespace
// tables are provisioned lazily by EnsureNamespace on first use
// (spec.md §4.4), so there is nothing else to migrate up front.
func NewMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the catalog schema (projects, sessions)",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			registry, err := catalog.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer registry.Close()
			fmt.Println("catalog schema is up to date")
			return nil
		},
	}
}

// NewConfigCommand prints an MCP client config snippet, grounded on the
// teacher's printGenericConfig/printCodexConfig.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print MCP config examples for clients",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "client",
				Aliases: []string{"c"},
				Usage:   "target client (generic|codex)",
				Value:   "generic",
			},
		},
		Action: func(c *cli.Context) error {
			switch strings.ToLower(c.String("client")) {
			case "codex":
				printCodexConfig()
			default:
				printGenericConfig()
			}
			return nil
		},
	}
}

func printGenericConfig() {
	cfg := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"dementia": map[string]interface{}{
				"command": "dementia",
				"args":    []string{"serve"},
			},
		},
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(b))
}

func printCodexConfig() {
	fmt.Println("# Add the following to ~/.codex/config.toml (merge with existing settings)")
	fmt.Println("[mcp_servers.dementia]")
	fmt.Println("command = \"dementia\"")
	fmt.Println("args = [\"serve\"]")
	fmt.Println("enabled = true")
}
