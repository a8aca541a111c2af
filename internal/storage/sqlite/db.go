// ABOUTME: SQLite connection lifecycle for the AIHub history database
// ABOUTME: Uses modernc.org/sqlite with WAL journaling and a single-connection handle
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// DB wraps the SQLite handle for the history database.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDataDir returns the data directory for AIHub history following XDG conventions.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "aihub")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "aihub")
}

// DefaultDBPath returns the default history database file path.
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "history.db")
}

func dsn(path string) string {
	// WAL permits readers during a write; the store serializes all calls
	// anyway, so this only matters for external inspection of the file.
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(3000)"
}

// openDB opens or creates the SQLite database file at path.
func openDB(path string) (*DB, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// One connection for the lifetime of the store: every operation runs on
	// the single work-queue lane, and a second pooled connection would see a
	// separate :memory: database in tests.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// destroy closes the handle and deletes the on-disk database file along with
// its WAL sidecars. Used by the corruption self-heal path.
func (db *DB) destroy() {
	_ = db.Close()
	if db.path == memoryPath {
		return
	}
	for _, p := range []string{db.path, db.path + "-wal", db.path + "-shm"} {
		_ = os.Remove(p)
	}
}
