// ABOUTME: Schema creation and additive migrations for the history database
// ABOUTME: Idempotent DDL plus column probing so older databases gain new columns safely
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// Schema creates the three persisted structures: the conversations table, the
// FTS index aligned to it by rowid, and the embeddings table.
const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tab_id TEXT,
    site_name TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    markdown TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_created ON conversations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_conversations_site ON conversations(site_name, created_at DESC);

CREATE VIRTUAL TABLE IF NOT EXISTS conversations_fts USING fts5(tokens);

CREATE TABLE IF NOT EXISTS embeddings (
    conversation_id INTEGER PRIMARY KEY,
    dimension INTEGER NOT NULL,
    vector BLOB NOT NULL
);
`

// initSchema creates tables and applies additive migrations. Runs once at
// store construction, inside the work queue. Errors here are reported to the
// caller for logging but are not fatal to store availability.
func initSchema(conn *sql.DB) error {
	if _, err := conn.Exec(Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return migrate(conn)
}

// migrate applies additive, nullable-column migrations. Columns are probed
// before each alteration so re-running is always safe; nothing here is
// destructive.
func migrate(conn *sql.DB) error {
	for _, m := range []struct {
		column string
		ddl    string
	}{
		{"tab_id", `ALTER TABLE conversations ADD COLUMN tab_id TEXT`},
		{"markdown", `ALTER TABLE conversations ADD COLUMN markdown TEXT`},
	} {
		has, err := columnExists(conn, "conversations", m.column)
		if err != nil {
			return err
		}
		if !has {
			if _, err := conn.Exec(m.ddl); err != nil {
				return fmt.Errorf("add column %s: %w", m.column, err)
			}
		}
	}

	// At most one row per non-null tab_id; multiple NULLs remain allowed.
	if _, err := conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_tab_id
		 ON conversations(tab_id) WHERE tab_id IS NOT NULL`,
	); err != nil {
		return fmt.Errorf("create tab_id index: %w", err)
	}
	return nil
}

func columnExists(conn *sql.DB, table, column string) (bool, error) {
	rows, err := conn.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notNull    int
			defaultVal sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultVal, &primaryKey); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}
