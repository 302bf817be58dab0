package settlement

import (
	"context"

	"github.com/mycompass/travel-engine/claim"
)

// =============================================================================
// DRAFT STORE - Persistence for the single settlement record
// =============================================================================

// Record is the persisted settlement state: the lifecycle status plus the
// owned draft snapshot. There is at most one record.
type Record struct {
	Status Status             `json:"status"`
	Draft  *claim.TravelClaim `json:"draft"`
}

// DraftStore persists the settlement record. Implementations:
//   - store/memory.go: in-memory, for tests and development
//   - store/sqlite:    durable single-row store
type DraftStore interface {
	// Save writes the record, replacing any previous one.
	Save(ctx context.Context, rec Record) error

	// Load returns the record and whether one exists.
	Load(ctx context.Context) (Record, bool, error)
}
