/*
Package sqlite provides SQLite-backed implementations of the storage
interfaces.

PURPOSE:
  Durable persistence for the settlement record and the submission outbox.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  settlement.DraftStore: the single settlement record (status + draft JSON)
  queue.Queue:           submission outbox (append-only)

KEY TABLES:
  settlement:        single-row record; the row id is fixed at 1 so writes
                     are upserts and the at-most-one invariant holds at the
                     schema level
  submission_outbox: append-only outbound payloads awaiting delivery

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.Open("./data/claims.db", logger)
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on Open(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - settlement/store.go: DraftStore interface definition
  - settlement/store/memory.go: In-memory implementation for testing
  - queue/queue.go: Queue interface definition
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mycompass/travel-engine/queue"
	"github.com/mycompass/travel-engine/settlement"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	mu  sync.RWMutex
}

var (
	_ settlement.DraftStore = (*Store)(nil)
	_ queue.Queue           = (*Store)(nil)
)

// outboxTimeLayout is fixed width so lexicographic ORDER BY matches
// chronological order.
const outboxTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func Open(dbPath string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database ready", zap.String("path", dbPath))
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Settlement record (single row, id pinned to 1)
	CREATE TABLE IF NOT EXISTS settlement (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		status     TEXT NOT NULL,
		draft_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Submission outbox (append-only)
	CREATE TABLE IF NOT EXISTS submission_outbox (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		payload     BLOB NOT NULL,
		enqueued_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_outbox_kind_enqueued
		ON submission_outbox(kind, enqueued_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DRAFT STORE (settlement.DraftStore interface)
// =============================================================================

// Save upserts the settlement record.
func (s *Store) Save(ctx context.Context, rec settlement.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draftJSON, err := json.Marshal(rec.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := `
		INSERT INTO settlement (id, status, draft_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			draft_json = excluded.draft_json,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		string(rec.Status),
		string(draftJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save settlement: %w", err)
	}
	return nil
}

// Load returns the settlement record and whether one exists.
func (s *Store) Load(ctx context.Context) (settlement.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var status, draftJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT status, draft_json FROM settlement WHERE id = 1",
	).Scan(&status, &draftJSON)

	if err == sql.ErrNoRows {
		return settlement.Record{}, false, nil
	}
	if err != nil {
		return settlement.Record{}, false, fmt.Errorf("failed to load settlement: %w", err)
	}

	rec := settlement.Record{Status: settlement.Status(status)}
	if err := json.Unmarshal([]byte(draftJSON), &rec.Draft); err != nil {
		return settlement.Record{}, false, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return rec, true, nil
}

// =============================================================================
// SUBMISSION OUTBOX (queue.Queue interface)
// =============================================================================

// Enqueue appends an outbound payload to the outbox and returns its entry ID.
func (s *Store) Enqueue(ctx context.Context, kind string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO submission_outbox (id, kind, payload, enqueued_at) VALUES (?, ?, ?, ?)",
		id, kind, payload, time.Now().UTC().Format(outboxTimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue submission: %w", err)
	}

	s.log.Info("submission enqueued",
		zap.String("entry_id", id),
		zap.String("kind", kind),
	)
	return id, nil
}

// Pending returns outbox entries of the given kind, oldest first. A delivery
// worker outside this engine drains these.
func (s *Store) Pending(ctx context.Context, kind string) ([]queue.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, payload, enqueued_at FROM submission_outbox WHERE kind = ? ORDER BY enqueued_at ASC",
		kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var entries []queue.Entry
	for rows.Next() {
		var e queue.Entry
		var enqueuedAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Payload, &enqueuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
		}
		e.EnqueuedAt, _ = time.Parse(outboxTimeLayout, enqueuedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"settlement", "submission_outbox"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
