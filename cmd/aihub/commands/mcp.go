// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to search and save conversation history via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs AIHub as an MCP (Model Context Protocol) server, enabling LLM
agents to save, search, and manage conversation history via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  aihub mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "aihub": {
  #       "command": "aihub",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	attachEmbedder(store)

	server := mcpserver.NewMCPServer(
		"AIHub History",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, store)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("AIHub MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, closing store...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: error closing storage: %v", err)
		}
	case err := <-serverErr:
		_ = store.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
