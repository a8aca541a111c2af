// ABOUTME: Error kinds surfaced by the store and corruption-signature detection
// ABOUTME: Statement failures wrap a sentinel plus the underlying engine error
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds. Statement-level failures wrap one of these sentinels together
// with the underlying engine error, so callers can match with errors.Is while
// still seeing the engine message.
var (
	// ErrStorageUnavailable means the database handle is missing or closed.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrPrepareFailed means a statement could not be prepared or compiled.
	ErrPrepareFailed = errors.New("prepare failed")
	// ErrWriteFailed means a mutation statement failed.
	ErrWriteFailed = errors.New("write failed")
	// ErrReadFailed means a query statement failed.
	ErrReadFailed = errors.New("read failed")
	// ErrNotFound marks lookup misses. Fetches return (nil, nil) for absent
	// rows; this sentinel exists for callers that need an explicit error.
	ErrNotFound = errors.New("not found")
)

func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWriteFailed, err)
}

func readErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrReadFailed, err)
}

// isCorruptionError reports whether err carries SQLite's corruption signature.
// Structured result codes are checked first; the message match is a fallback
// for errors that arrive already flattened to strings.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "not a database")
}
