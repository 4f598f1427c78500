package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	crewmcp "github.com/crewdeskhq/crewdesk/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  add_persona    - create a persona
  route_question - pick the persona for a question
  remember       - store a knowledge item in the brain
  search_brain   - substring search over the brain
  chat           - send a message to a persona
  stats          - workspace statistics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}
			defer func() { _ = ws.Close() }()

			srv := crewmcp.NewServer(ws.registry, ws.brain, ws.chat, ws.router, ws.entities, cfg.Workspace.UserID, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: crewdesk MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
