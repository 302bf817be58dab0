// Package store provides DraftStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/mycompass/travel-engine/settlement"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	rec settlement.Record
	set bool
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(_ context.Context, rec settlement.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Store a deep copy so later draft mutations can't alias the record.
	m.rec = settlement.Record{Status: rec.Status, Draft: rec.Draft.Clone()}
	m.set = true
	return nil
}

func (m *Memory) Load(_ context.Context) (settlement.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return settlement.Record{}, false, nil
	}
	return settlement.Record{Status: m.rec.Status, Draft: m.rec.Draft.Clone()}, true, nil
}
