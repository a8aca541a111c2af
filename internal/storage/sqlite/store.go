// ABOUTME: Store is the conversation history store: one SQLite handle behind a work queue
// ABOUTME: All public operations run strictly one-at-a-time on a single worker goroutine
package sqlite

import (
	"context"
	"database/sql"
	"log"
	"sync"
)

// Store persists captured AI-conversation transcripts with full-text and
// semantic search. Every public method is submitted to a single work-queue
// lane: the caller blocks until its job completes, and no two operations ever
// interleave against the database handle, which keeps the cross-table
// invariants (conversation / FTS entry / embedding 1:1) intact without row
// locking.
type Store struct {
	db *DB

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	// txExec is a test seam for injecting statement failures mid-transaction.
	txExec func(tx *sql.Tx, query string, args ...any) (sql.Result, error)
}

type job struct {
	fn   func()
	done chan struct{}
}

// Open opens or creates the history store at path.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return newStore(db), nil
}

// OpenDefault opens the store at the default XDG data path.
func OpenDefault() (*Store, error) {
	return Open(DefaultDBPath())
}

// OpenInMemory creates an in-memory store (for testing).
func OpenInMemory() (*Store, error) {
	return Open(memoryPath)
}

func newStore(db *DB) *Store {
	s := &Store{
		db:     db,
		jobs:   make(chan job),
		quit:   make(chan struct{}),
		txExec: func(tx *sql.Tx, query string, args ...any) (sql.Result, error) { return tx.Exec(query, args...) },
	}
	s.wg.Add(1)
	go s.worker()

	// Schema creation is best-effort: a failure leaves the store degraded
	// but available, and missing optional columns default safely.
	_ = s.submit(context.Background(), func() {
		if err := initSchema(s.db.conn); err != nil {
			log.Printf("history store: schema init failed (continuing): %v", err)
		}
	})
	return s
}

func (s *Store) worker() {
	defer s.wg.Done()
	for {
		select {
		case j := <-s.jobs:
			j.fn()
			close(j.done)
		case <-s.quit:
			return
		}
	}
}

// submit runs fn on the work-queue lane and waits for it to finish. The wait
// is cancelable only until the worker dequeues the job; once running, the job
// always completes (each mutation holds its own transaction, so nothing is
// ever left uncommitted).
func (s *Store) submit(ctx context.Context, fn func()) error {
	if s == nil {
		return ErrStorageUnavailable
	}
	select {
	case <-s.quit:
		return ErrStorageUnavailable
	default:
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrStorageUnavailable
	}
	<-j.done
	return nil
}

// Close stops the work queue and closes the database handle. Safe to call
// more than once.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Path returns the on-disk database path.
func (s *Store) Path() string {
	if s == nil || s.db == nil {
		return ""
	}
	return s.db.Path()
}

// reset destroys the database file and recreates an empty, schema-valid store
// on the same path. Called from the work-queue lane when a mutation hits the
// corruption signature: stored history is traded for availability.
func (s *Store) reset() error {
	path := s.db.Path()
	s.db.destroy()

	db, err := openDB(path)
	if err != nil {
		return ErrStorageUnavailable
	}
	s.db = db
	if err := initSchema(db.conn); err != nil {
		log.Printf("history store: schema init after reset failed: %v", err)
	}
	return nil
}

// healCorruption applies the corruption policy to a failed mutation: if err
// matches the corruption signature the store is destroyed and recreated and
// no error is surfaced; otherwise err propagates unchanged.
func (s *Store) healCorruption(err error) error {
	if err == nil || !isCorruptionError(err) {
		return err
	}
	log.Printf("history store: corruption detected, resetting database: %v", err)
	return s.reset()
}
