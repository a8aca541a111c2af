// ABOUTME: Behavioral tests for the history store: upsert, search, paging, healing
// ABOUTME: Runs against in-memory databases; corruption is injected via the tx seam
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aihub/aihub/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustSave(t *testing.T, s *Store, req SaveRequest) *models.Conversation {
	t.Helper()
	conv, err := s.SaveConversation(context.Background(), req)
	if err != nil {
		t.Fatalf("SaveConversation() error = %v", err)
	}
	if conv == nil || conv.ID == 0 {
		t.Fatalf("SaveConversation() returned conv = %+v, want assigned id", conv)
	}
	return conv
}

func TestSaveAssignsID(t *testing.T) {
	s := newTestStore(t)

	conv := mustSave(t, s, SaveRequest{
		SiteName:  "ChatGPT",
		URL:       "https://chat.example/c/1",
		Content:   "how do I sort a slice in go",
		CreatedAt: 1000,
	})

	got, err := s.FetchConversation(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("FetchConversation() error = %v", err)
	}
	if got == nil {
		t.Fatal("FetchConversation() = nil, want stored row")
	}
	if got.Content != "how do I sort a slice in go" || got.SiteName != "ChatGPT" {
		t.Errorf("FetchConversation() = %+v", got)
	}
}

func TestFetchMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.FetchConversation(context.Background(), 9999)
	if err != nil {
		t.Fatalf("FetchConversation() error = %v", err)
	}
	if got != nil {
		t.Errorf("FetchConversation(missing) = %+v, want nil", got)
	}
}

func TestUpsertByTabIDKeepsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := mustSave(t, s, SaveRequest{
		TabID: "tab-1", SiteName: "DeepSeek", URL: "https://ds.example/a",
		Content: "first capture", CreatedAt: 1000,
	})
	second := mustSave(t, s, SaveRequest{
		TabID: "tab-1", SiteName: "DeepSeek", URL: "https://ds.example/a",
		Content: "second capture with more text", CreatedAt: 2000,
	})

	if second.ID != first.ID {
		t.Errorf("upsert assigned new id %d, want %d", second.ID, first.ID)
	}

	var count int64
	if err := s.db.conn.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}

	got, err := s.FetchConversation(ctx, first.ID)
	if err != nil {
		t.Fatalf("FetchConversation() error = %v", err)
	}
	if got.Content != "second capture with more text" || got.CreatedAt != 2000 {
		t.Errorf("row not updated in place: %+v", got)
	}

	// Upsert must refresh the search index too: only the new text matches.
	if hits, _ := s.SearchKeyword(ctx, "second"); len(hits) != 1 {
		t.Errorf("SearchKeyword(new text) = %d hits, want 1", len(hits))
	}
	if hits, _ := s.SearchKeyword(ctx, "first"); len(hits) != 0 {
		t.Errorf("SearchKeyword(old text) = %d hits, want 0", len(hits))
	}
}

func TestSaveTrimsTabID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	padded := mustSave(t, s, SaveRequest{
		TabID: "  tab-9  ", SiteName: "ChatGPT", Content: "padded", CreatedAt: 1,
	})
	if padded.TabID != "tab-9" {
		t.Errorf("returned TabID = %q, want trimmed %q", padded.TabID, "tab-9")
	}

	got, err := s.FetchConversation(ctx, padded.ID)
	if err != nil {
		t.Fatalf("FetchConversation() error = %v", err)
	}
	if got.TabID != "tab-9" {
		t.Errorf("stored TabID = %q, want %q", got.TabID, "tab-9")
	}

	// The trimmed id is the upsert key, whatever padding the caller sends.
	again := mustSave(t, s, SaveRequest{
		TabID: "tab-9", SiteName: "ChatGPT", Content: "updated", CreatedAt: 2,
	})
	if again.ID != padded.ID {
		t.Errorf("padded and trimmed tab ids made separate rows: %d vs %d", again.ID, padded.ID)
	}
}

func TestEmptyTabIDAlwaysInserts(t *testing.T) {
	s := newTestStore(t)

	a := mustSave(t, s, SaveRequest{SiteName: "ChatGPT", Content: "one", CreatedAt: 1})
	b := mustSave(t, s, SaveRequest{SiteName: "ChatGPT", Content: "two", CreatedAt: 2})

	if a.ID == b.ID {
		t.Errorf("rows without tab id collapsed into one: id %d", a.ID)
	}
}

func TestListRecentOrderAndClamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 60; i++ {
		mustSave(t, s, SaveRequest{
			SiteName: "ChatGPT", Content: fmt.Sprintf("conversation %d", i),
			CreatedAt: int64(i * 100),
		})
	}

	previews, err := s.ListRecent(ctx, 500)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(previews) != 50 {
		t.Fatalf("ListRecent(500) = %d previews, want clamp to 50", len(previews))
	}
	for i := 1; i < len(previews); i++ {
		if previews[i].CreatedAt > previews[i-1].CreatedAt {
			t.Fatalf("previews out of order at %d: %d after %d", i, previews[i].CreatedAt, previews[i-1].CreatedAt)
		}
	}
	if previews[0].CreatedAt != 6000 {
		t.Errorf("newest preview CreatedAt = %d, want 6000", previews[0].CreatedAt)
	}

	if got, _ := s.ListRecent(ctx, 0); len(got) != 1 {
		t.Errorf("ListRecent(0) = %d previews, want clamp to 1", len(got))
	}
}

func TestKeywordSearchCJK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	target := mustSave(t, s, SaveRequest{
		SiteName: "豆包", Content: "你好 world, how are you", CreatedAt: 1000,
	})
	mustSave(t, s, SaveRequest{
		SiteName: "ChatGPT", Content: "unrelated english text", CreatedAt: 2000,
	})

	// CJK characters segment individually, so a single character must match.
	hits, err := s.SearchKeyword(ctx, "你")
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != target.ID {
		t.Fatalf("SearchKeyword(\"你\") = %+v, want the CJK conversation", hits)
	}

	// Mixed-script queries AND their tokens together.
	hits, err = s.SearchKeyword(ctx, "你好 world")
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != target.ID {
		t.Fatalf("SearchKeyword(\"你好 world\") = %+v, want one hit", hits)
	}
}

func TestKeywordSearchEmptyQuery(t *testing.T) {
	s := newTestStore(t)
	mustSave(t, s, SaveRequest{SiteName: "ChatGPT", Content: "anything", CreatedAt: 1})

	hits, err := s.SearchKeyword(context.Background(), "   ,,, !!!")
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if hits != nil {
		t.Errorf("SearchKeyword(punctuation only) = %+v, want nil", hits)
	}
}

func TestKeywordSearchPrefix(t *testing.T) {
	s := newTestStore(t)

	mustSave(t, s, SaveRequest{SiteName: "ChatGPT", Content: "goroutine scheduling details", CreatedAt: 1})

	hits, err := s.SearchKeyword(context.Background(), "gorout")
	if err != nil {
		t.Fatalf("SearchKeyword() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("prefix query = %d hits, want 1", len(hits))
	}
}

func TestHistoryFiltersAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Two rows on site A at t1 and t2, one on site B at t3.
	a1 := mustSave(t, s, SaveRequest{SiteName: "A", Content: "alpha topic", CreatedAt: 100})
	a2 := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "beta topic", Markdown: "```go\nfmt.Println()\n```", CreatedAt: 200,
	})
	b3 := mustSave(t, s, SaveRequest{SiteName: "B", Content: "gamma topic", CreatedAt: 300})

	t.Run("site filter", func(t *testing.T) {
		previews, err := s.ListHistory(ctx, HistoryFilter{SiteName: "A", Limit: 10})
		if err != nil {
			t.Fatalf("ListHistory() error = %v", err)
		}
		if len(previews) != 2 || previews[0].ID != a2.ID || previews[1].ID != a1.ID {
			t.Errorf("site A page = %+v, want [a2 a1]", previews)
		}
		total, err := s.CountHistory(ctx, HistoryFilter{SiteName: "A"})
		if err != nil {
			t.Fatalf("CountHistory() error = %v", err)
		}
		if total != 2 {
			t.Errorf("site A total = %d, want 2", total)
		}
	})

	t.Run("time bounds inclusive", func(t *testing.T) {
		total, err := s.CountHistory(ctx, HistoryFilter{CreatedFrom: 200, CreatedTo: 300})
		if err != nil {
			t.Fatalf("CountHistory() error = %v", err)
		}
		if total != 2 {
			t.Errorf("range [200,300] total = %d, want 2", total)
		}
	})

	t.Run("code only", func(t *testing.T) {
		previews, err := s.ListHistory(ctx, HistoryFilter{CodeOnly: true, Limit: 10})
		if err != nil {
			t.Fatalf("ListHistory() error = %v", err)
		}
		if len(previews) != 1 || previews[0].ID != a2.ID {
			t.Errorf("code-only page = %+v, want just a2", previews)
		}
	})

	t.Run("keyword filter", func(t *testing.T) {
		previews, err := s.ListHistory(ctx, HistoryFilter{Keyword: "gamma", Limit: 10})
		if err != nil {
			t.Fatalf("ListHistory() error = %v", err)
		}
		if len(previews) != 1 || previews[0].ID != b3.ID {
			t.Errorf("keyword page = %+v, want just b3", previews)
		}
	})

	t.Run("pagination agrees with count", func(t *testing.T) {
		total, err := s.CountHistory(ctx, HistoryFilter{})
		if err != nil {
			t.Fatalf("CountHistory() error = %v", err)
		}
		var seen []int64
		for offset := 0; offset < int(total); offset++ {
			page, err := s.ListHistory(ctx, HistoryFilter{Limit: 1, Offset: offset})
			if err != nil {
				t.Fatalf("ListHistory(offset=%d) error = %v", offset, err)
			}
			if len(page) != 1 {
				t.Fatalf("page at offset %d has %d rows", offset, len(page))
			}
			seen = append(seen, page[0].ID)
		}
		want := []int64{b3.ID, a2.ID, a1.ID}
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("walked pages = %v, want %v", seen, want)
			}
		}
	})
}

func TestPreviewTruncation(t *testing.T) {
	s := newTestStore(t)

	long := ""
	for i := 0; i < 100; i++ {
		long += "chunk "
	}
	mustSave(t, s, SaveRequest{SiteName: "ChatGPT", Content: long, CreatedAt: 1})

	previews, err := s.ListRecent(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("got %d previews", len(previews))
	}
	if n := len([]rune(previews[0].Snippet)); n > models.PreviewSnippetLen {
		t.Errorf("snippet length = %d runes, want <= %d", n, models.PreviewSnippetLen)
	}
}

func TestSemanticSearchRanking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	near := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "near", CreatedAt: 1, Embedding: []float64{1, 0, 0},
	})
	mid := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "mid", CreatedAt: 2, Embedding: []float64{1, 1, 0},
	})
	far := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "far", CreatedAt: 3, Embedding: []float64{0, 0, 1},
	})

	matches, err := s.SearchSemantic(ctx, []float64{1, 0, 0})
	if err != nil {
		t.Fatalf("SearchSemantic() error = %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("SearchSemantic() = %d matches, want 3", len(matches))
	}
	if matches[0].ConversationID != near.ID || matches[1].ConversationID != mid.ID || matches[2].ConversationID != far.ID {
		t.Errorf("ranking = %+v, want near > mid > far", matches)
	}
	if matches[0].Similarity <= matches[1].Similarity || matches[1].Similarity <= matches[2].Similarity {
		t.Errorf("similarities not strictly decreasing: %+v", matches)
	}
}

func TestSemanticSearchDimensionIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	small := make([]float64, 384)
	small[0] = 1
	large := make([]float64, 768)
	large[0] = 1

	smallConv := mustSave(t, s, SaveRequest{SiteName: "A", Content: "small", CreatedAt: 1, Embedding: small})
	mustSave(t, s, SaveRequest{SiteName: "A", Content: "large", CreatedAt: 2, Embedding: large})

	matches, err := s.SearchSemantic(ctx, small)
	if err != nil {
		t.Fatalf("SearchSemantic() error = %v", err)
	}
	if len(matches) != 1 || matches[0].ConversationID != smallConv.ID {
		t.Errorf("384-dim query matched %+v, want only the 384-dim row", matches)
	}
}

func TestSemanticSearchZeroVector(t *testing.T) {
	s := newTestStore(t)

	mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "zeroed", CreatedAt: 1, Embedding: []float64{0, 0, 0},
	})

	matches, err := s.SearchSemantic(context.Background(), []float64{1, 0, 0})
	if err != nil {
		t.Fatalf("SearchSemantic() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Similarity != 0 {
		t.Errorf("zero-magnitude vector similarity = %+v, want 0", matches)
	}
}

func TestDeleteConversationsRemovesDependents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "keep me", CreatedAt: 1, Embedding: []float64{1, 0},
	})
	drop := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "drop me", CreatedAt: 2, Embedding: []float64{0, 1},
	})

	if err := s.DeleteConversations(ctx, []int64{drop.ID, drop.ID, 12345}); err != nil {
		t.Fatalf("DeleteConversations() error = %v", err)
	}

	if got, _ := s.FetchConversation(ctx, drop.ID); got != nil {
		t.Errorf("deleted row still present: %+v", got)
	}
	if got, _ := s.FetchConversation(ctx, keep.ID); got == nil {
		t.Error("untargeted row was deleted")
	}
	if hits, _ := s.SearchKeyword(ctx, "drop"); len(hits) != 0 {
		t.Errorf("FTS entry survived delete: %+v", hits)
	}
	if emb, _ := s.FetchEmbedding(ctx, drop.ID); emb != nil {
		t.Errorf("embedding survived delete: %+v", emb)
	}
	if emb, _ := s.FetchEmbedding(ctx, keep.ID); emb == nil {
		t.Error("untargeted embedding was deleted")
	}
}

func TestClearHistoryWipesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustSave(t, s, SaveRequest{SiteName: "A", Content: "one", CreatedAt: 1, Embedding: []float64{1}})
	mustSave(t, s, SaveRequest{SiteName: "B", Content: "two", CreatedAt: 2})

	if err := s.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}

	if total, _ := s.CountHistory(ctx, HistoryFilter{}); total != 0 {
		t.Errorf("CountHistory after clear = %d, want 0", total)
	}
	if hits, _ := s.SearchKeyword(ctx, "one"); len(hits) != 0 {
		t.Errorf("FTS survived clear: %+v", hits)
	}
}

func TestSaveAtomicOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustSave(t, s, SaveRequest{SiteName: "A", Content: "existing", CreatedAt: 1})

	// Fail the embedding write; the whole save must roll back.
	boom := errors.New("injected failure")
	orig := s.txExec
	s.txExec = func(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
		if len(args) == 3 { // the embedding upsert carries (id, dimension, blob)
			return nil, boom
		}
		return orig(tx, query, args...)
	}

	_, err := s.SaveConversation(ctx, SaveRequest{
		SiteName: "A", Content: "half written", CreatedAt: 2, Embedding: []float64{1, 0},
	})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("SaveConversation() error = %v, want ErrWriteFailed", err)
	}
	s.txExec = orig

	if total, _ := s.CountHistory(ctx, HistoryFilter{}); total != 1 {
		t.Errorf("row count after failed save = %d, want 1", total)
	}
	if hits, _ := s.SearchKeyword(ctx, "half"); len(hits) != 0 {
		t.Errorf("FTS entry leaked from rolled-back save: %+v", hits)
	}
}

func TestDeleteAtomicOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := mustSave(t, s, SaveRequest{
		SiteName: "A", Content: "keep me", CreatedAt: 1, Embedding: []float64{1, 0},
	})

	// Fail after the dependent rows are gone but before the primary row is
	// touched; the rollback must restore everything.
	boom := errors.New("injected failure")
	orig := s.txExec
	s.txExec = func(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
		if strings.Contains(query, "DELETE FROM conversations WHERE") {
			return nil, boom
		}
		return orig(tx, query, args...)
	}

	err := s.DeleteConversations(ctx, []int64{conv.ID})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("DeleteConversations() error = %v, want ErrWriteFailed", err)
	}
	s.txExec = orig

	got, err := s.FetchConversation(ctx, conv.ID)
	if err != nil || got == nil {
		t.Fatalf("FetchConversation() after rollback = %v, %v, want row intact", got, err)
	}
	if hits, _ := s.SearchKeyword(ctx, "keep"); len(hits) != 1 {
		t.Errorf("FTS entry lost in rolled-back delete: %+v", hits)
	}
	if emb, _ := s.FetchEmbedding(ctx, conv.ID); emb == nil {
		t.Error("embedding lost in rolled-back delete")
	}
}

func TestCorruptionHealOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	mustSave(t, s, SaveRequest{SiteName: "A", Content: "doomed data", CreatedAt: 1})

	// First statement reports corruption; the store must destroy itself,
	// recreate the schema, and retry the save successfully.
	corrupt := errors.New("database disk image is malformed")
	orig := s.txExec
	fired := false
	s.txExec = func(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
		if !fired {
			fired = true
			return nil, corrupt
		}
		return orig(tx, query, args...)
	}

	conv, err := s.SaveConversation(ctx, SaveRequest{
		SiteName: "B", Content: "fresh start", CreatedAt: 2,
	})
	if err != nil {
		t.Fatalf("SaveConversation() after corruption error = %v, want healed save", err)
	}
	if conv == nil || conv.ID == 0 {
		t.Fatalf("healed save returned %+v", conv)
	}

	// Old data is gone with the destroyed file; the new row survives.
	if total, _ := s.CountHistory(ctx, HistoryFilter{}); total != 1 {
		t.Errorf("row count after heal = %d, want 1", total)
	}
	if hits, _ := s.SearchKeyword(ctx, "doomed"); len(hits) != 0 {
		t.Errorf("pre-corruption data survived reset: %+v", hits)
	}
	if hits, _ := s.SearchKeyword(ctx, "fresh"); len(hits) != 1 {
		t.Errorf("post-heal row not searchable: %+v", hits)
	}
}

func TestCorruptionHealOnDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	conv := mustSave(t, s, SaveRequest{SiteName: "A", Content: "anything", CreatedAt: 1})

	orig := s.txExec
	s.txExec = func(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
		return nil, errors.New("file is not a database")
	}

	// Corruption on delete surfaces no error; the store comes back empty.
	if err := s.DeleteConversations(ctx, []int64{conv.ID}); err != nil {
		t.Fatalf("DeleteConversations() error = %v, want healed nil", err)
	}
	s.txExec = orig

	if total, _ := s.CountHistory(ctx, HistoryFilter{}); total != 0 {
		t.Errorf("row count after heal = %d, want 0", total)
	}
}

func TestCorruptionHealOnClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	mustSave(t, s, SaveRequest{SiteName: "A", Content: "anything", CreatedAt: 1})

	orig := s.txExec
	s.txExec = func(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
		return nil, errors.New("database disk image is malformed")
	}

	// Corruption on clear surfaces no error and leaves a schema-valid empty
	// store behind.
	if err := s.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory() error = %v, want healed nil", err)
	}
	s.txExec = orig

	if total, _ := s.CountHistory(ctx, HistoryFilter{}); total != 0 {
		t.Errorf("row count after heal = %d, want 0", total)
	}
	if _, err := s.SaveConversation(ctx, SaveRequest{SiteName: "B", Content: "works again", CreatedAt: 2}); err != nil {
		t.Errorf("SaveConversation() on healed store error = %v", err)
	}
}

func TestSearchRebuildsBrokenIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustSave(t, s, SaveRequest{SiteName: "A", Content: "searchable content", CreatedAt: 1})

	// Sabotage the FTS table out from under the store.
	if _, err := s.db.conn.Exec(`DROP TABLE conversations_fts`); err != nil {
		t.Fatalf("drop fts table: %v", err)
	}

	hits, err := s.SearchKeyword(ctx, "searchable")
	if err != nil {
		t.Fatalf("SearchKeyword() after index loss error = %v, want rebuild", err)
	}
	if len(hits) != 1 {
		t.Errorf("SearchKeyword() after rebuild = %d hits, want 1", len(hits))
	}
}

func TestSubmitAfterClose(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := s.ListRecent(context.Background(), 10)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("ListRecent() after close error = %v, want ErrStorageUnavailable", err)
	}
}

func TestSubmitContextCanceledBeforeDequeue(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With the lane busy, an already-canceled context gives up before the
	// worker ever sees the job.
	block := make(chan struct{})
	started := make(chan struct{})
	go func() { _ = s.submit(context.Background(), func() { close(started); <-block }) }()
	<-started

	_, err := s.ListRecent(ctx, 10)
	close(block)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ListRecent() with canceled context error = %v, want context.Canceled", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := initSchema(s.db.conn); err != nil {
			t.Fatalf("initSchema() pass %d error = %v", i, err)
		}
	}

	has, err := columnExists(s.db.conn, "conversations", "markdown")
	if err != nil {
		t.Fatalf("columnExists() error = %v", err)
	}
	if !has {
		t.Error("markdown column missing after migrations")
	}
}

func TestMigrateAddsMissingColumns(t *testing.T) {
	db, err := openDB(memoryPath)
	if err != nil {
		t.Fatalf("openDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	// Simulate a database created before tab_id and markdown existed.
	if _, err := db.conn.Exec(`
		CREATE TABLE conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			site_name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`); err != nil {
		t.Fatalf("create legacy table: %v", err)
	}

	if err := initSchema(db.conn); err != nil {
		t.Fatalf("initSchema() error = %v", err)
	}
	for _, col := range []string{"tab_id", "markdown"} {
		has, err := columnExists(db.conn, "conversations", col)
		if err != nil {
			t.Fatalf("columnExists(%s) error = %v", col, err)
		}
		if !has {
			t.Errorf("column %s not added by migration", col)
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float64{0.25, -1.5, 3.14159, 0}
	got, err := blobToVector(vectorToBlob(vec))
	if err != nil {
		t.Fatalf("blobToVector() error = %v", err)
	}
	if len(got) != len(vec) {
		t.Fatalf("round trip length = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], vec[i])
		}
	}

	if _, err := blobToVector([]byte{1, 2, 3}); err == nil {
		t.Error("blobToVector(truncated) error = nil, want error")
	}
}
