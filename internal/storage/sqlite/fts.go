// ABOUTME: Full-text index maintenance and keyword search over conversations
// ABOUTME: The FTS table holds pre-segmented tokens, rebuildable from primary data
package sqlite

import (
	"context"
	"database/sql"
	"log"

	"github.com/aihub/aihub/internal/models"
	"github.com/aihub/aihub/internal/tokenize"
)

const searchResultCap = 50

// refreshFTS replaces the FTS entry for one conversation via delete-then-insert.
func (s *Store) refreshFTS(tx *sql.Tx, id int64, content string) error {
	if _, err := s.txExec(tx, `DELETE FROM conversations_fts WHERE rowid = ?`, id); err != nil {
		return writeErr("delete fts entry", err)
	}
	if _, err := s.txExec(tx, `INSERT INTO conversations_fts (rowid, tokens) VALUES (?, ?)`,
		id, tokenize.ForIndex(content)); err != nil {
		return writeErr("insert fts entry", err)
	}
	return nil
}

// rebuildFTS drops and recreates the FTS table, repopulating it from the
// conversations table. Used when index maintenance or a keyword query fails:
// the index is secondary data and can always be regenerated.
func (s *Store) rebuildFTS(tx *sql.Tx) error {
	log.Printf("history store: rebuilding full-text index")

	if _, err := s.txExec(tx, `DROP TABLE IF EXISTS conversations_fts`); err != nil {
		return writeErr("drop fts table", err)
	}
	if _, err := s.txExec(tx, `CREATE VIRTUAL TABLE conversations_fts USING fts5(tokens)`); err != nil {
		return writeErr("recreate fts table", err)
	}

	rows, err := tx.Query(`SELECT id, content FROM conversations`)
	if err != nil {
		return readErr("read conversations for rebuild", err)
	}
	type entry struct {
		id      int64
		content string
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.content); err != nil {
			_ = rows.Close()
			return readErr("read conversations for rebuild", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return readErr("read conversations for rebuild", err)
	}
	_ = rows.Close()

	for _, e := range entries {
		if _, err := s.txExec(tx, `INSERT INTO conversations_fts (rowid, tokens) VALUES (?, ?)`,
			e.id, tokenize.ForIndex(e.content)); err != nil {
			return writeErr("repopulate fts table", err)
		}
	}
	return nil
}

// rebuildIndex runs a full FTS rebuild in its own transaction, for recovery
// outside a save.
func (s *Store) rebuildIndex() error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return writeErr("begin rebuild", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.rebuildFTS(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return writeErr("commit rebuild", err)
	}
	return nil
}

// SearchKeyword runs a full-text query: every query token becomes a quoted
// prefix term, terms are AND-joined, and results come back best-match first
// (BM25), capped at 50. A failing query triggers one index rebuild and one
// retry before the error propagates.
func (s *Store) SearchKeyword(ctx context.Context, query string) ([]models.Preview, error) {
	var (
		previews []models.Preview
		err      error
	)
	if serr := s.submit(ctx, func() { previews, err = s.searchKeyword(query) }); serr != nil {
		return nil, serr
	}
	return previews, err
}

func (s *Store) searchKeyword(query string) ([]models.Preview, error) {
	match := tokenize.MatchExpression(query)
	if match == "" {
		return nil, nil
	}

	previews, err := s.runKeywordQuery(match)
	if err == nil {
		return previews, nil
	}
	if rerr := s.rebuildIndex(); rerr != nil {
		return nil, err
	}
	return s.runKeywordQuery(match)
}

func (s *Store) runKeywordQuery(match string) ([]models.Preview, error) {
	rows, err := s.db.conn.Query(`
		SELECT c.id, c.site_name, c.url, c.content, c.created_at
		FROM conversations_fts f
		JOIN conversations c ON c.id = f.rowid
		WHERE conversations_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, match, searchResultCap)
	if err != nil {
		return nil, readErr("keyword search", err)
	}
	defer func() { _ = rows.Close() }()
	return scanPreviews(rows)
}
