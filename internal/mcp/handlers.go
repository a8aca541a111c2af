// ABOUTME: MCP tool handler implementations for the AIHub history server
// ABOUTME: Each handler validates arguments, calls the store, and returns JSON
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aihub/aihub/internal/models"
	"github.com/aihub/aihub/internal/storage"
	"github.com/aihub/aihub/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage *storage.Storage
}

// SaveConversation handles the save_conversation tool
func (h *Handlers) SaveConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	siteName, err := request.RequireString("site_name")
	if err != nil {
		return mcp.NewToolResultError("site_name argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	conv, err := h.storage.Save(ctx, storage.SaveInput{
		TabID:    request.GetString("tab_id", ""),
		SiteName: siteName,
		URL:      request.GetString("url", ""),
		Content:  content,
		Markdown: request.GetString("markdown", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":         conv.ID,
		"site_name":  conv.SiteName,
		"created_at": conv.CreatedAt,
	})
}

// SearchConversations handles the search_conversations tool
func (h *Handlers) SearchConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	previews, err := h.storage.SearchKeyword(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"conversations": previewsOrEmpty(previews),
	})
}

// SemanticSearch handles the semantic_search tool
func (h *Handlers) SemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	results, err := h.storage.SearchSemanticText(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("semantic search failed: %v", err)), nil
	}
	if results == nil {
		results = []storage.SemanticResult{}
	}
	return jsonResult(map[string]interface{}{
		"conversations": results,
	})
}

// RecentConversations handles the recent_conversations tool
func (h *Handlers) RecentConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)

	previews, err := h.storage.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"conversations": previewsOrEmpty(previews),
	})
}

// ListHistory handles the list_history tool
func (h *Handlers) ListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := sqlite.HistoryFilter{
		Keyword:     request.GetString("keyword", ""),
		SiteName:    request.GetString("site_name", ""),
		CreatedFrom: int64(request.GetInt("created_from", 0)),
		CreatedTo:   int64(request.GetInt("created_to", 0)),
		CodeOnly:    request.GetBool("code_only", false),
		Limit:       request.GetInt("limit", 20),
		Offset:      request.GetInt("offset", 0),
	}

	page, err := h.storage.History(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history listing failed: %v", err)), nil
	}
	return jsonResult(page)
}

// GetConversation handles the get_conversation tool
func (h *Handlers) GetConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id argument is required and must be a positive number"), nil
	}

	conv, err := h.storage.Get(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}
	if conv == nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversation %d not found", id)), nil
	}
	return jsonResult(conv)
}

// DeleteConversations handles the delete_conversations tool
func (h *Handlers) DeleteConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["ids"].([]interface{})
	if !ok {
		return mcp.NewToolResultError("ids argument is required and must be an array of numbers"), nil
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok {
			return mcp.NewToolResultError("ids must contain only numbers"), nil
		}
		ids = append(ids, int64(n))
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids must not be empty"), nil
	}

	if err := h.storage.Delete(ctx, ids); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"deleted_ids": ids,
	})
}

// ClearHistory handles the clear_history tool
func (h *Handlers) ClearHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !request.GetBool("confirm", false) {
		return mcp.NewToolResultError("confirm must be set to true to clear all history"), nil
	}

	if err := h.storage.Clear(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"cleared": true,
	})
}

func previewsOrEmpty(previews []models.Preview) []models.Preview {
	if previews == nil {
		return []models.Preview{}
	}
	return previews
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
