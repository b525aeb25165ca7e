package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dementia-mcp/dementia/internal/cli/commands"
)

// Version is set during build with ldflags.
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "dementia",
		Usage:   "MCP server for durable, project-scoped agent memory",
		Version: Version,
		Commands: []*cli.Command{
			commands.NewServeCommand(),
			commands.NewMigrateCommand(),
			commands.NewConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
