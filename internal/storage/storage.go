// ABOUTME: Storage facade joining the SQLite store with an optional embedder
// ABOUTME: Saves compute vectors best-effort; semantic search can embed query text
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aihub/aihub/internal/models"
	"github.com/aihub/aihub/internal/storage/sqlite"
)

// Embedder produces embedding vectors for text. The store runs fully without
// one; saves then carry no vector and text-based semantic search is refused.
type Embedder interface {
	GenerateEmbedding(text string) ([]float64, error)
}

// Storage is the application-facing view of conversation history.
type Storage struct {
	store    *sqlite.Store
	embedder Embedder
}

// SaveInput is one captured conversation to persist.
type SaveInput struct {
	TabID     string
	SiteName  string
	URL       string
	Content   string
	Markdown  string
	CreatedAt int64
}

// HistoryPage is one page of filtered history with the total match count.
type HistoryPage struct {
	Conversations []models.Preview `json:"conversations"`
	Total         int64            `json:"total"`
}

// SemanticResult pairs a preview with its similarity score.
type SemanticResult struct {
	models.Preview
	Similarity float64 `json:"similarity"`
}

// New opens the store at path. An empty path uses the default location.
func New(path string) (*Storage, error) {
	var (
		store *sqlite.Store
		err   error
	)
	if path == "" {
		store, err = sqlite.OpenDefault()
	} else {
		store, err = sqlite.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Storage{store: store}, nil
}

// SetEmbedder attaches an embedder. Call before serving requests.
func (s *Storage) SetEmbedder(e Embedder) {
	s.embedder = e
}

// Close releases the underlying store.
func (s *Storage) Close() error {
	return s.store.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.store.Path()
}

// Save persists one conversation. When an embedder is attached the vector is
// computed here; embedding failures are logged and the save proceeds without
// a vector rather than failing the capture.
func (s *Storage) Save(ctx context.Context, in SaveInput) (*models.Conversation, error) {
	createdAt := in.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	req := sqlite.SaveRequest{
		TabID:     in.TabID,
		SiteName:  in.SiteName,
		URL:       in.URL,
		Content:   in.Content,
		Markdown:  in.Markdown,
		CreatedAt: createdAt,
	}
	if s.embedder != nil && in.Content != "" {
		vec, err := s.embedder.GenerateEmbedding(in.Content)
		if err != nil {
			log.Printf("embedding generation failed, saving without vector: %v", err)
		} else {
			req.Embedding = vec
		}
	}

	return s.store.SaveConversation(ctx, req)
}

// Recent returns the newest conversations as previews.
func (s *Storage) Recent(ctx context.Context, limit int) ([]models.Preview, error) {
	return s.store.ListRecent(ctx, limit)
}

// SearchKeyword runs full-text search over conversation content.
func (s *Storage) SearchKeyword(ctx context.Context, query string) ([]models.Preview, error) {
	return s.store.SearchKeyword(ctx, query)
}

// SearchSemanticText embeds the query and ranks stored conversations by
// cosine similarity. Requires an embedder.
func (s *Storage) SearchSemanticText(ctx context.Context, query string) ([]SemanticResult, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("semantic search requires an embedding client")
	}
	vec, err := s.embedder.GenerateEmbedding(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.SearchSemanticVector(ctx, vec)
}

// SearchSemanticVector ranks stored conversations against a caller-supplied
// vector, returning previews in similarity order.
func (s *Storage) SearchSemanticVector(ctx context.Context, vec []float64) ([]SemanticResult, error) {
	matches, err := s.store.SearchSemantic(ctx, vec)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ConversationID
	}
	convs, err := s.store.FetchConversations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Conversation, len(convs))
	for _, c := range convs {
		byID[c.ID] = c
	}

	// Keep similarity order, not the fetch's recency order.
	results := make([]SemanticResult, 0, len(matches))
	for _, m := range matches {
		conv, ok := byID[m.ConversationID]
		if !ok {
			continue
		}
		results = append(results, SemanticResult{Preview: conv.Preview(), Similarity: m.Similarity})
	}
	return results, nil
}

// History returns one filtered page along with the total match count.
func (s *Storage) History(ctx context.Context, filter sqlite.HistoryFilter) (*HistoryPage, error) {
	previews, err := s.store.ListHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	if previews == nil {
		previews = []models.Preview{}
	}
	return &HistoryPage{Conversations: previews, Total: total}, nil
}

// Get returns the full conversation for id, or (nil, nil) when absent.
func (s *Storage) Get(ctx context.Context, id int64) (*models.Conversation, error) {
	return s.store.FetchConversation(ctx, id)
}

// GetMany returns full conversations for ids, most recent first.
func (s *Storage) GetMany(ctx context.Context, ids []int64) ([]models.Conversation, error) {
	return s.store.FetchConversations(ctx, ids)
}

// Delete removes conversations by id.
func (s *Storage) Delete(ctx context.Context, ids []int64) error {
	return s.store.DeleteConversations(ctx, ids)
}

// Clear wipes all stored history.
func (s *Storage) Clear(ctx context.Context) error {
	return s.store.ClearHistory(ctx)
}
