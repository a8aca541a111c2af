// ABOUTME: Standalone MCP server entry point with stdio transport
// ABOUTME: Opens the history store and registers all tools; embedder is optional
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aihub/aihub/internal/config"
	"github.com/aihub/aihub/internal/llm"
	"github.com/aihub/aihub/internal/mcp"
	"github.com/aihub/aihub/internal/storage"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := storage.New(settings.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	// Embeddings are optional: without a key, semantic_search reports that
	// it needs an API and everything else keeps working.
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - semantic search will not work")
	} else {
		client, err := llm.NewClient(llm.ConfigFromSettings(settings))
		if err != nil {
			log.Printf("Warning: failed to initialize embedding client: %v", err)
		} else {
			store.SetEmbedder(client)
		}
	}

	server := mcpserver.NewMCPServer(
		"AIHub History",
		"0.1.0",
	)
	mcp.RegisterTools(server, store)

	log.Println("AIHub MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
