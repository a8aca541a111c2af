// ABOUTME: Mutation engine: save (upsert by tab id), delete-by-id, clear-all
// ABOUTME: Direct primary-key fetches returning full, untruncated content
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aihub/aihub/internal/models"
)

// SaveRequest carries everything the sole collaborator (session/summarizer
// logic) supplies for one captured conversation. Embedding is optional and
// produced elsewhere.
type SaveRequest struct {
	TabID     string
	SiteName  string
	URL       string
	Content   string
	Markdown  string
	CreatedAt int64
	Embedding []float64
}

// SaveConversation upserts a conversation. When TabID is set and a row with
// that tab id exists, the row is updated in place and keeps its id; otherwise
// a new row is inserted. The FTS entry is refreshed and the embedding row is
// written or removed to match the request. Returns the stored row including
// its assigned id.
func (s *Store) SaveConversation(ctx context.Context, req SaveRequest) (*models.Conversation, error) {
	var (
		conv *models.Conversation
		err  error
	)
	if serr := s.submit(ctx, func() { conv, err = s.saveWithHeal(req) }); serr != nil {
		return nil, serr
	}
	return conv, err
}

func (s *Store) saveWithHeal(req SaveRequest) (*models.Conversation, error) {
	conv, err := s.save(req)
	if err == nil || !isCorruptionError(err) {
		return conv, err
	}
	if rerr := s.healCorruption(err); rerr != nil {
		return nil, rerr
	}
	// One retry on the freshly recreated store.
	return s.save(req)
}

func (s *Store) save(req SaveRequest) (*models.Conversation, error) {
	req.TabID = strings.TrimSpace(req.TabID)

	tx, err := s.db.conn.Begin()
	if err != nil {
		return nil, writeErr("begin save", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.upsertRow(tx, req)
	if err != nil {
		return nil, err
	}

	// Delete-then-insert keeps the FTS entry 1:1 with the row. If the index
	// is broken, rebuild it once from primary data and retry before giving up.
	if err := s.refreshFTS(tx, id, req.Content); err != nil {
		if rerr := s.rebuildFTS(tx); rerr != nil {
			return nil, rerr
		}
		if err := s.refreshFTS(tx, id, req.Content); err != nil {
			return nil, err
		}
	}

	if len(req.Embedding) > 0 {
		if err := s.putEmbedding(tx, id, req.Embedding); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.txExec(tx, `DELETE FROM embeddings WHERE conversation_id = ?`, id); err != nil {
			return nil, writeErr("remove embedding", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, writeErr("commit save", err)
	}

	return &models.Conversation{
		ID:        id,
		TabID:     req.TabID,
		SiteName:  req.SiteName,
		URL:       req.URL,
		Content:   req.Content,
		Markdown:  req.Markdown,
		CreatedAt: req.CreatedAt,
	}, nil
}

func (s *Store) upsertRow(tx *sql.Tx, req SaveRequest) (int64, error) {
	tabID := req.TabID
	if tabID != "" {
		var existing int64
		err := tx.QueryRow(`SELECT id FROM conversations WHERE tab_id = ?`, tabID).Scan(&existing)
		switch {
		case err == nil:
			if _, uerr := s.txExec(tx, `
				UPDATE conversations
				SET site_name = ?, url = ?, content = ?, markdown = ?, created_at = ?
				WHERE id = ?`,
				req.SiteName, req.URL, req.Content, nullString(req.Markdown), req.CreatedAt, existing,
			); uerr != nil {
				return 0, writeErr("update conversation", uerr)
			}
			return existing, nil
		case errors.Is(err, sql.ErrNoRows):
			// fall through to insert
		default:
			return 0, readErr("lookup tab id", err)
		}
	}

	res, err := s.txExec(tx, `
		INSERT INTO conversations (tab_id, site_name, url, content, markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullString(tabID), req.SiteName, req.URL, req.Content, nullString(req.Markdown), req.CreatedAt,
	)
	if err != nil {
		return 0, writeErr("insert conversation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("insert conversation", err)
	}
	return id, nil
}

// DeleteConversations removes the given conversations along with their FTS
// entries and embeddings in one transaction. Unknown ids are ignored.
func (s *Store) DeleteConversations(ctx context.Context, ids []int64) error {
	var err error
	if serr := s.submit(ctx, func() { err = s.healCorruption(s.deleteRows(dedupeIDs(ids))) }); serr != nil {
		return serr
	}
	return err
}

func (s *Store) deleteRows(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.conn.Begin()
	if err != nil {
		return writeErr("begin delete", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders, args := inArgs(ids)
	// Dependent rows first, primary rows last.
	for _, stmt := range []struct {
		op    string
		query string
	}{
		{"delete embeddings", `DELETE FROM embeddings WHERE conversation_id IN (` + placeholders + `)`},
		{"delete fts entries", `DELETE FROM conversations_fts WHERE rowid IN (` + placeholders + `)`},
		{"delete conversations", `DELETE FROM conversations WHERE id IN (` + placeholders + `)`},
	} {
		if _, err := s.txExec(tx, stmt.query, args...); err != nil {
			return writeErr(stmt.op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return writeErr("commit delete", err)
	}
	return nil
}

// ClearHistory wipes all three tables atomically.
func (s *Store) ClearHistory(ctx context.Context) error {
	var err error
	if serr := s.submit(ctx, func() { err = s.healCorruption(s.clearAll()) }); serr != nil {
		return serr
	}
	return err
}

func (s *Store) clearAll() error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return writeErr("begin clear", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []struct {
		op    string
		query string
	}{
		{"clear embeddings", `DELETE FROM embeddings`},
		{"clear fts", `DELETE FROM conversations_fts`},
		{"clear conversations", `DELETE FROM conversations`},
	} {
		if _, err := s.txExec(tx, stmt.query); err != nil {
			return writeErr(stmt.op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return writeErr("commit clear", err)
	}
	return nil
}

// FetchConversation returns the full conversation for id, or (nil, nil) when
// no such row exists.
func (s *Store) FetchConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	var (
		conv *models.Conversation
		err  error
	)
	if serr := s.submit(ctx, func() { conv, err = s.fetchOne(id) }); serr != nil {
		return nil, serr
	}
	return conv, err
}

func (s *Store) fetchOne(id int64) (*models.Conversation, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, tab_id, site_name, url, content, markdown, created_at
		FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("fetch conversation", err)
	}
	return conv, nil
}

// FetchConversations returns full conversations for the given ids, most
// recent first. Duplicate ids are collapsed; unknown ids are skipped.
func (s *Store) FetchConversations(ctx context.Context, ids []int64) ([]models.Conversation, error) {
	var (
		convs []models.Conversation
		err   error
	)
	if serr := s.submit(ctx, func() { convs, err = s.fetchMany(dedupeIDs(ids)) }); serr != nil {
		return nil, serr
	}
	return convs, err
}

func (s *Store) fetchMany(ids []int64) ([]models.Conversation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inArgs(ids)
	rows, err := s.db.conn.Query(`
		SELECT id, tab_id, site_name, url, content, markdown, created_at
		FROM conversations
		WHERE id IN (`+placeholders+`)
		ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, readErr("fetch conversations", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, readErr("fetch conversations", err)
		}
		out = append(out, *conv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var (
		conv     models.Conversation
		tabID    sql.NullString
		markdown sql.NullString
	)
	if err := row.Scan(&conv.ID, &tabID, &conv.SiteName, &conv.URL, &conv.Content, &markdown, &conv.CreatedAt); err != nil {
		return nil, err
	}
	conv.TabID = tabID.String
	conv.Markdown = markdown.String
	return &conv, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func inArgs(ids []int64) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
