// ABOUTME: Tests for the storage facade: embedder wiring and semantic ordering
// ABOUTME: Uses a deterministic fake embedder; no network involved
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aihub/aihub/internal/storage/sqlite"
)

// fakeEmbedder maps known strings to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) GenerateEmbedding(text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveWithoutEmbedder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	conv, err := s.Save(ctx, SaveInput{SiteName: "ChatGPT", Content: "plain save"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if conv.CreatedAt == 0 {
		t.Error("Save() did not default CreatedAt")
	}

	// No embedder, no vector: semantic text search is refused...
	if _, err := s.SearchSemanticText(ctx, "plain"); err == nil {
		t.Error("SearchSemanticText() without embedder error = nil, want error")
	}
	// ...but keyword search works.
	hits, err := s.SearchKeyword(ctx, "plain")
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("SearchKeyword() = %d hits, want 1", len(hits))
	}
}

func TestSemanticTextSearchOrdersBySimilarity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.SetEmbedder(&fakeEmbedder{vectors: map[string][]float64{
		"close text": {1, 0, 0},
		"far text":   {0, 1, 0},
		"the query":  {1, 0.1, 0},
	}})

	far, err := s.Save(ctx, SaveInput{SiteName: "A", Content: "far text", CreatedAt: 100})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	close_, err := s.Save(ctx, SaveInput{SiteName: "A", Content: "close text", CreatedAt: 50})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	results, err := s.SearchSemanticText(ctx, "the query")
	if err != nil {
		t.Fatalf("SearchSemanticText() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SearchSemanticText() = %d results, want 2", len(results))
	}
	// Similarity order wins over recency: the older row is the better match.
	if results[0].ID != close_.ID || results[1].ID != far.ID {
		t.Errorf("result order = [%d %d], want [%d %d]", results[0].ID, results[1].ID, close_.ID, far.ID)
	}
	if results[0].Similarity <= results[1].Similarity {
		t.Errorf("similarities = %v, want decreasing", results)
	}
}

func TestSaveSurvivesEmbedderFailure(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.SetEmbedder(&fakeEmbedder{err: errors.New("api down")})

	conv, err := s.Save(ctx, SaveInput{SiteName: "A", Content: "still saved"})
	if err != nil {
		t.Fatalf("Save() with failing embedder error = %v, want best-effort save", err)
	}

	got, err := s.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Content != "still saved" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestHistoryPageCarriesTotal(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Save(ctx, SaveInput{SiteName: "A", Content: "row", CreatedAt: int64(i + 1)}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	page, err := s.History(ctx, sqlite.HistoryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if len(page.Conversations) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Conversations))
	}
}
