/*
Package queue provides the outbound sync queue capability.

PURPOSE:
  On successful submission the settlement lifecycle hands the finalized
  claim to outbound processing with a single fire-and-forget enqueue. The
  lifecycle does not wait for or interpret the result beyond the returned
  entry ID.

IMPLEMENTATIONS:
  - Memory (this file): in-process queue for tests and development
  - store/sqlite: durable outbox table
*/
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a queued outbound payload.
type Entry struct {
	ID         string
	Kind       string
	Payload    []byte
	EnqueuedAt time.Time
}

// Queue accepts outbound payloads for asynchronous delivery.
type Queue interface {
	// Enqueue records a payload for delivery and returns its entry ID.
	Enqueue(ctx context.Context, kind string, payload []byte) (string, error)
}

// =============================================================================
// MEMORY QUEUE
// =============================================================================

// Memory is an in-process Queue. Entries are retained for inspection,
// which the tests rely on.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Enqueue(_ context.Context, kind string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Entry{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    append([]byte(nil), payload...),
		EnqueuedAt: time.Now(),
	}
	m.entries = append(m.entries, e)
	return e.ID, nil
}

// Entries returns a snapshot of everything enqueued so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
