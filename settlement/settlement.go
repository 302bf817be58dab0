/*
Package settlement implements the travel claim settlement draft lifecycle.

PURPOSE:
  A state machine over {idle, draft, submitted} wrapping the single active
  travel claim draft: creation from upstream trip data, field-level patch
  updates with mandatory recalculation, and certified submission.

LIFECYCLE:

  ┌──────┐  Init(seed)   ┌───────┐  Submit (certified)  ┌───────────┐
  │ idle │ ────────────▶ │ draft │ ───────────────────▶ │ submitted │
  └──────┘               └───────┘                      └───────────┘
                          │    ▲                              │
                          └────┘                              │
                       Update(patch)                Init(seed) for a new move
                     (recalculates totals)

INVARIANTS:
  - At most one unsubmitted draft exists at a time; Init fails with
    ErrDraftExists while one is active.
  - Every mutation goes through recalculate(); no code path writes the
    derived totals directly.
  - Submit requires member certification; failure leaves the draft intact
    and re-editable.
  - A submitted draft is immutable from this engine's perspective.

CONCURRENCY:
  The calculation functions are pure and reentrant; the mutex here guards
  only the active-draft reference, since the HTTP host is multi-threaded.

SEE ALSO:
  - claim: the calculation engine this lifecycle drives
  - store.go: draft persistence interface
*/
package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mycompass/travel-engine/claim"
	"github.com/mycompass/travel-engine/queue"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusIdle      Status = "idle"
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// submissionKind tags outbound queue entries carrying finalized claims.
const submissionKind = "travelClaim:submit"

// =============================================================================
// SEED - Upstream trip/financial-review data
// =============================================================================

// Seed carries the externally supplied values a new draft starts from:
// trip facts from the orders segments and prior entitlement computations
// from the financial review.
type Seed struct {
	OrderNumber         string
	TravelMode          claim.TravelMode
	DepartureDate       time.Time
	ReturnDate          time.Time
	DepartureLocation   string
	DestinationLocation string

	MALTMiles     int64
	DLAAmount     decimal.Decimal
	TLEDays       int
	AdvanceAmount decimal.Decimal

	Expenses    []claim.Expense
	PerDiemDays []claim.PerDiemDay
}

// =============================================================================
// PATCH - Partial field update
// =============================================================================

// Patch is a partial update applied to the active draft. Nil pointer
// fields are left untouched. Expense mutations come in three forms:
// full replacement, appends, and removals by ID (removal of an absent ID
// is a no-op so UI retries stay idempotent).
type Patch struct {
	MALTMiles           *int64
	TLEDays             *int
	AdvanceAmount       *decimal.Decimal
	MemberCertification *bool
	MemberRemarks       *string
	DepartureDate       *time.Time
	ReturnDate          *time.Time

	Expenses         *[]claim.Expense
	AddExpenses      []claim.Expense
	RemoveExpenseIDs []claim.ExpenseID

	PerDiemDays *[]claim.PerDiemDay
}

// validate rejects values that upstream validation should never let
// through. These are contract breaches, not user states.
func (p Patch) validate() error {
	if p.MALTMiles != nil && *p.MALTMiles < 0 {
		return &claim.InputError{Field: "maltMiles", Reason: "must be non-negative"}
	}
	if p.TLEDays != nil && *p.TLEDays < 0 {
		return &claim.InputError{Field: "tleDays", Reason: "must be non-negative"}
	}
	if p.AdvanceAmount != nil && p.AdvanceAmount.IsNegative() {
		return &claim.InputError{Field: "advanceAmount", Reason: "must be non-negative"}
	}
	for _, e := range p.AddExpenses {
		if !e.Type.Valid() {
			return &claim.InputError{Field: "expenses", Reason: fmt.Sprintf("unknown expense type %q", e.Type)}
		}
		if e.Amount.IsNegative() {
			return &claim.InputError{Field: "expenses", Reason: "amount must be non-negative"}
		}
	}
	if p.Expenses != nil {
		for _, e := range *p.Expenses {
			if !e.Type.Valid() {
				return &claim.InputError{Field: "expenses", Reason: fmt.Sprintf("unknown expense type %q", e.Type)}
			}
			if e.Amount.IsNegative() {
				return &claim.InputError{Field: "expenses", Reason: "amount must be non-negative"}
			}
		}
	}
	return nil
}

// =============================================================================
// SERVICE - Owns the single active draft
// =============================================================================

// Service owns the active settlement draft and enforces the lifecycle
// invariants. All access to the draft goes through it.
type Service struct {
	calc  *claim.Calculator
	store DraftStore
	queue queue.Queue
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a settlement service. If the store holds a persisted record
// the lifecycle resumes from it; otherwise it starts idle.
func New(calc *claim.Calculator, store DraftStore, q queue.Queue, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		calc:  calc,
		store: store,
		queue: q,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current lifecycle status.
func (s *Service) Status(ctx context.Context) (Status, error) {
	rec, ok, err := s.store.Load(ctx)
	if err != nil {
		return StatusIdle, fmt.Errorf("load settlement: %w", err)
	}
	if !ok {
		return StatusIdle, nil
	}
	return rec.Status, nil
}

// Draft returns a copy of the active draft. Callers get a snapshot, never
// the owned reference.
func (s *Service) Draft(ctx context.Context) (*claim.TravelClaim, error) {
	rec, ok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}
	if !ok || rec.Draft == nil {
		return nil, &claim.PreconditionError{Op: "draft", Status: string(StatusIdle), Err: claim.ErrNoActiveDraft}
	}
	return rec.Draft.Clone(), nil
}

// Init starts a new draft from upstream seed data: idle -> draft. A
// submitted record may also be superseded by a new move. Fails with
// ErrDraftExists while an unsubmitted draft is active.
func (s *Service) Init(ctx context.Context, seed Seed) (*claim.TravelClaim, error) {
	rec, ok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}
	if ok && rec.Status == StatusDraft {
		return nil, &claim.PreconditionError{Op: "init", Status: string(rec.Status), Err: claim.ErrDraftExists}
	}

	now := s.now()
	draft := &claim.TravelClaim{
		ID:                  claim.NewClaimID(),
		OrderNumber:         seed.OrderNumber,
		TravelMode:          seed.TravelMode,
		DepartureDate:       seed.DepartureDate,
		ReturnDate:          seed.ReturnDate,
		DepartureLocation:   seed.DepartureLocation,
		DestinationLocation: seed.DestinationLocation,
		MALTMiles:           seed.MALTMiles,
		DLAAmount:           seed.DLAAmount,
		TLEDays:             seed.TLEDays,
		AdvanceAmount:       seed.AdvanceAmount,
		Expenses:            append([]claim.Expense(nil), seed.Expenses...),
		PerDiemDays:         append([]claim.PerDiemDay(nil), seed.PerDiemDays...),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for i := range draft.Expenses {
		draft.Expenses[i].ClaimID = draft.ID
	}

	s.recalculate(draft)

	if err := s.store.Save(ctx, Record{Status: StatusDraft, Draft: draft}); err != nil {
		return nil, fmt.Errorf("save settlement: %w", err)
	}

	s.log.Info("settlement draft initialized",
		zap.String("claim_id", string(draft.ID)),
		zap.String("order_number", draft.OrderNumber))

	return draft.Clone(), nil
}

// Update applies a partial patch to the active draft and recomputes every
// derived total: draft -> draft. This is the ONLY mutation path.
func (s *Service) Update(ctx context.Context, patch Patch) (*claim.TravelClaim, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	rec, ok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}
	if !ok || rec.Draft == nil {
		return nil, &claim.PreconditionError{Op: "update", Status: string(StatusIdle), Err: claim.ErrNoActiveDraft}
	}
	if rec.Status == StatusSubmitted {
		return nil, &claim.PreconditionError{Op: "update", Status: string(rec.Status), Err: claim.ErrDraftSubmitted}
	}

	draft := rec.Draft
	applyPatch(draft, patch)
	draft.UpdatedAt = s.now()
	s.recalculate(draft)

	if err := s.store.Save(ctx, Record{Status: StatusDraft, Draft: draft}); err != nil {
		return nil, fmt.Errorf("save settlement: %w", err)
	}

	return draft.Clone(), nil
}

// AddExpense appends a single expense to the draft. A patch special case.
func (s *Service) AddExpense(ctx context.Context, e claim.Expense) (*claim.TravelClaim, error) {
	return s.Update(ctx, Patch{AddExpenses: []claim.Expense{e}})
}

// RemoveExpense deletes an expense by ID. Removing an absent ID is a
// no-op, tolerating idempotent retries from the UI layer.
func (s *Service) RemoveExpense(ctx context.Context, id claim.ExpenseID) (*claim.TravelClaim, error) {
	return s.Update(ctx, Patch{RemoveExpenseIDs: []claim.ExpenseID{id}})
}

// Submit finalizes the draft: draft -> submitted. Requires member
// certification; otherwise fails with ErrCertificationRequired and changes
// nothing. On success the finalized snapshot is enqueued for outbound
// processing and the draft becomes immutable.
func (s *Service) Submit(ctx context.Context) (*claim.TravelClaim, error) {
	rec, ok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}
	if !ok || rec.Draft == nil {
		return nil, &claim.PreconditionError{Op: "submit", Status: string(StatusIdle), Err: claim.ErrNoActiveDraft}
	}
	if rec.Status == StatusSubmitted {
		return nil, &claim.PreconditionError{Op: "submit", Status: string(rec.Status), Err: claim.ErrDraftSubmitted}
	}

	draft := rec.Draft
	if !draft.MemberCertification {
		return nil, &claim.PreconditionError{Op: "submit", Status: string(rec.Status), Err: claim.ErrCertificationRequired}
	}

	now := s.now()
	draft.SubmittedAt = &now
	draft.UpdatedAt = now

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	entryID, err := s.queue.Enqueue(ctx, submissionKind, payload)
	if err != nil {
		// Fire-and-forget hand-off failed before any state change; the
		// draft stays submittable.
		draft.SubmittedAt = nil
		return nil, fmt.Errorf("enqueue submission: %w", err)
	}

	if err := s.store.Save(ctx, Record{Status: StatusSubmitted, Draft: draft}); err != nil {
		return nil, fmt.Errorf("save settlement: %w", err)
	}

	s.log.Info("settlement submitted",
		zap.String("claim_id", string(draft.ID)),
		zap.String("queue_entry", entryID),
		zap.String("net_payable", draft.NetPayable.StringFixed(2)))

	return draft.Clone(), nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func applyPatch(draft *claim.TravelClaim, patch Patch) {
	if patch.MALTMiles != nil {
		draft.MALTMiles = *patch.MALTMiles
	}
	if patch.TLEDays != nil {
		draft.TLEDays = *patch.TLEDays
	}
	if patch.AdvanceAmount != nil {
		draft.AdvanceAmount = *patch.AdvanceAmount
	}
	if patch.MemberCertification != nil {
		draft.MemberCertification = *patch.MemberCertification
	}
	if patch.MemberRemarks != nil {
		draft.MemberRemarks = *patch.MemberRemarks
	}
	if patch.DepartureDate != nil {
		draft.DepartureDate = *patch.DepartureDate
	}
	if patch.ReturnDate != nil {
		draft.ReturnDate = *patch.ReturnDate
	}

	if patch.Expenses != nil {
		draft.Expenses = append([]claim.Expense(nil), (*patch.Expenses)...)
	}
	for _, e := range patch.AddExpenses {
		if e.ID == "" {
			e.ID = claim.NewExpenseID()
		}
		e.ClaimID = draft.ID
		draft.Expenses = append(draft.Expenses, e)
	}
	for _, id := range patch.RemoveExpenseIDs {
		for i, e := range draft.Expenses {
			if e.ID == id {
				draft.Expenses = append(draft.Expenses[:i], draft.Expenses[i+1:]...)
				break
			}
		}
	}

	if patch.PerDiemDays != nil {
		draft.PerDiemDays = append([]claim.PerDiemDay(nil), (*patch.PerDiemDays)...)
	}
}

// recalculate recomputes all derived totals from the calculation engine.
// Totals are rounded here because the draft record is a persistence
// boundary; the engine itself accumulates at full precision.
func (s *Service) recalculate(draft *claim.TravelClaim) {
	result := s.calc.Calculate(draft)
	draft.MALTAmount = claim.Round2(result.MALTAmount)
	draft.TLEAmount = claim.Round2(result.TLEAmount)
	draft.PerDiemAmount = claim.Round2(result.PerDiemAmount)
	draft.MiscExpensesAmount = claim.Round2(result.MiscExpensesAmount)
	draft.TotalEntitlements = claim.Round2(result.TotalEntitlements)
	draft.TotalExpenses = claim.Round2(result.TotalExpenses)
	draft.NetPayable = claim.Round2(result.NetPayable)
}
