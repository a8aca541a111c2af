// ABOUTME: MCP tool definitions and registration for the AIHub history server
// ABOUTME: Exposes save, search, history, and delete operations over the store
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aihub/aihub/internal/storage"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *storage.Storage) *Handlers {
	handlers := &Handlers{storage: store}

	// 1. save_conversation - capture a conversation transcript
	server.AddTool(mcp.Tool{
		Name:        "save_conversation",
		Description: "Save a captured AI conversation. When tab_id matches an existing conversation, it is updated in place.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"site_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the AI site the conversation came from",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Plain-text conversation transcript",
				},
				"tab_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional stable tab identifier used as the upsert key",
				},
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Page URL the conversation was captured from",
				},
				"markdown": map[string]interface{}{
					"type":        "string",
					"description": "Optional markdown rendition of the transcript",
				},
			},
			Required: []string{"site_name", "content"},
		},
	}, handlers.SaveConversation)

	// 2. search_conversations - full-text keyword search
	server.AddTool(mcp.Tool{
		Name:        "search_conversations",
		Description: "Full-text search over saved conversations. Handles CJK text; returns up to 50 previews, best match first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query; all words must match",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchConversations)

	// 3. semantic_search - embedding similarity search
	server.AddTool(mcp.Tool{
		Name:        "semantic_search",
		Description: "Search saved conversations by meaning using embedding similarity. Requires an embedding API to be configured.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SemanticSearch)

	// 4. recent_conversations - newest first
	server.AddTool(mcp.Tool{
		Name:        "recent_conversations",
		Description: "List the most recently saved conversations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum conversations to return, 1-50 (default: 20)",
					"default":     20,
				},
			},
		},
	}, handlers.RecentConversations)

	// 5. list_history - filtered pagination with total count
	server.AddTool(mcp.Tool{
		Name:        "list_history",
		Description: "Page through conversation history with filters. Returns previews plus the total count of matching conversations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"keyword": map[string]interface{}{
					"type":        "string",
					"description": "Full-text filter; all words must match",
				},
				"site_name": map[string]interface{}{
					"type":        "string",
					"description": "Only conversations from this site",
				},
				"created_from": map[string]interface{}{
					"type":        "number",
					"description": "Inclusive lower bound on creation time (unix seconds)",
				},
				"created_to": map[string]interface{}{
					"type":        "number",
					"description": "Inclusive upper bound on creation time (unix seconds)",
				},
				"code_only": map[string]interface{}{
					"type":        "boolean",
					"description": "Only conversations whose markdown contains a fenced code block",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Page size, 1-50 (default: 20)",
					"default":     20,
				},
				"offset": map[string]interface{}{
					"type":        "number",
					"description": "Rows to skip (default: 0)",
				},
			},
		},
	}, handlers.ListHistory)

	// 6. get_conversation - full content by id
	server.AddTool(mcp.Tool{
		Name:        "get_conversation",
		Description: "Fetch one conversation with its full, untruncated content.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "number",
					"description": "Conversation id",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.GetConversation)

	// 7. delete_conversations - bulk delete by id
	server.AddTool(mcp.Tool{
		Name:        "delete_conversations",
		Description: "Delete conversations by id, including their search index entries and embeddings. Unknown ids are ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "number"},
					"description": "Conversation ids to delete",
				},
			},
			Required: []string{"ids"},
		},
	}, handlers.DeleteConversations)

	// 8. clear_history - wipe everything
	server.AddTool(mcp.Tool{
		Name:        "clear_history",
		Description: "Delete ALL saved conversations. Irreversible; set confirm to true.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"confirm": map[string]interface{}{
					"type":        "boolean",
					"description": "Must be true to actually clear the history",
				},
			},
			Required: []string{"confirm"},
		},
	}, handlers.ClearHistory)

	return handlers
}
