/*
errors.go - Error types for the claim engine and settlement lifecycle

PURPOSE:
  Distinct, named error kinds so callers can branch: prompting for
  certification is a different UI path than warning about an existing draft.

ERROR CATEGORIES:
  1. Input defaulting  - not errors: missing numerics default to zero,
     unknown localities fall back to the default rate entry (see rates)
  2. Validation warning - non-fatal, surfaced as ValidationResult warnings
  3. Precondition violation - fatal to the operation, recoverable by caller
  4. Programming error - upstream contract breach; fails loudly

USAGE:
  if errors.Is(err, claim.ErrCertificationRequired) {
      // prompt the member to certify, draft is intact
  }
*/
package claim

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDraftExists is returned when starting a settlement draft while an
	// unsubmitted draft already exists. At most one active draft at a time.
	ErrDraftExists = errors.New("active settlement draft already exists")

	// ErrNoActiveDraft is returned when updating or submitting without a draft.
	ErrNoActiveDraft = errors.New("no active settlement draft")

	// ErrDraftSubmitted is returned when mutating a submitted draft.
	// Submitted drafts are immutable; start a new lifecycle instead.
	ErrDraftSubmitted = errors.New("settlement draft already submitted")

	// ErrCertificationRequired is returned by submission when the member has
	// not certified the claim. No state change occurs.
	ErrCertificationRequired = errors.New("member certification required")

	// ErrInvalidInput is returned when upstream validation should have
	// rejected a value (negative mileage, unknown expense type). Indicates a
	// contract breach, not a valid user state.
	ErrInvalidInput = errors.New("invalid claim input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PreconditionError reports a lifecycle precondition violation with the
// state that caused it.
type PreconditionError struct {
	Op     string // "init", "update", "submit"
	Status string // lifecycle status at the time of the call
	Err    error  // sentinel kind
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v (status: %s)", e.Op, e.Err, e.Status)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// InputError reports a programming-error input with the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid claim input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPrecondition reports whether the error is a recoverable lifecycle
// precondition violation rather than a programming error.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrDraftExists) ||
		errors.Is(err, ErrNoActiveDraft) ||
		errors.Is(err, ErrDraftSubmitted) ||
		errors.Is(err, ErrCertificationRequired)
}
