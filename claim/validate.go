/*
validate.go - Cap checks, claim warnings, and trip detail validation

PURPOSE:
  Non-fatal policy checks surfaced to the caller. Warnings are advisory:
  the claim stays editable and viewable, and the caller decides whether to
  block progress. Only trip-detail validation produces hard errors, and
  those are field-level messages, not lifecycle failures.

CAP POLICY:
  Only lodging has a defined cap in this engine. An over-cap nightly rate
  marks the result invalid with a warning containing "exceeds locality cap".
  Regulation treats over-cap lodging as payable-with-justification, so the
  lifecycle does not block on it; the flag tells the caller a justification
  is needed.
*/
package claim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// THRESHOLDS
// =============================================================================

var (
	// receiptRequiredThreshold: receipts are mandatory at or above $75.
	receiptRequiredThreshold = decimal.NewFromInt(75)

	// highAmountThreshold: claims at or above $5,000 may need extra review.
	highAmountThreshold = decimal.NewFromInt(5000)

	// autoApprovalThreshold: claims at or above $10,000 need O-6+ approval.
	autoApprovalThreshold = decimal.NewFromInt(10000)
)

// MaxTLEDays is the statutory TLE limit (CONUS to CONUS).
const MaxTLEDays = 14

// =============================================================================
// EXPENSE CAP VALIDATION
// =============================================================================

// RateCaps is the ceiling pair applicable to one locality on one day.
type RateCaps struct {
	LodgingCap decimal.Decimal
	MIECap     decimal.Decimal
}

// ValidationResult is returned by all validation functions.
type ValidationResult struct {
	IsValid  bool
	Warnings []string
}

// ValidateExpenseAgainstCaps checks a single expense against locality caps.
// Only lodging is checked; every other type passes with no warnings (not
// every expense type has a defined cap in this engine).
func ValidateExpenseAgainstCaps(e Expense, caps RateCaps) ValidationResult {
	result := ValidationResult{IsValid: true}

	if e.Type == ExpenseLodging && e.Lodging != nil {
		if e.Lodging.NightlyRate.GreaterThan(caps.LodgingCap) {
			// Payable out of pocket, but flagged: requires justification.
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Lodging rate $%s exceeds locality cap of $%s.",
				e.Lodging.NightlyRate.StringFixed(2), caps.LodgingCap.StringFixed(2)))
			result.IsValid = false
		}
	}

	return result
}

// =============================================================================
// CLAIM-LEVEL WARNINGS
// =============================================================================

type WarningType string

const (
	WarnMissingReceipt WarningType = "missing_receipt"
	WarnTLECapExceeded WarningType = "tle_cap_exceeded"
	WarnHighAmount     WarningType = "high_amount"
	WarnNoExpenses     WarningType = "no_expenses"
)

type WarningSeverity string

const (
	SeverityWarning WarningSeverity = "warning"
	SeverityError   WarningSeverity = "error"
)

// Warning is an advisory finding on a full claim.
type Warning struct {
	Type     WarningType     `json:"type"`
	Message  string          `json:"message"`
	Severity WarningSeverity `json:"severity"`
	Field    string          `json:"field,omitempty"`
}

// RequiresReceipt reports whether an expense amount mandates an attached
// receipt.
func RequiresReceipt(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(receiptRequiredThreshold)
}

// ClaimWarnings analyzes a complete claim and returns advisory findings:
// TLE day-cap overruns, missing receipts, high totals, and empty claims.
func ClaimWarnings(tc *TravelClaim) []Warning {
	var warnings []Warning

	if tc.TLEDays > MaxTLEDays {
		warnings = append(warnings, Warning{
			Type:     WarnTLECapExceeded,
			Message:  fmt.Sprintf("TLE days (%d) exceed the maximum allowed (%d days)", tc.TLEDays, MaxTLEDays),
			Severity: SeverityError,
			Field:    "tleDays",
		})
	}

	missing := 0
	for _, e := range tc.Expenses {
		if RequiresReceipt(e.Amount) && len(e.Receipts) == 0 {
			missing++
		}
	}
	if missing > 0 {
		warnings = append(warnings, Warning{
			Type:     WarnMissingReceipt,
			Message:  fmt.Sprintf("%d expense(s) >= $%s missing receipt photo", missing, receiptRequiredThreshold.StringFixed(0)),
			Severity: SeverityWarning,
			Field:    "receipts",
		})
	}

	total := tc.TotalEntitlements
	switch {
	case total.GreaterThanOrEqual(autoApprovalThreshold):
		warnings = append(warnings, Warning{
			Type:     WarnHighAmount,
			Message:  fmt.Sprintf("Total claim amount ($%s) exceeds the auto-approval threshold and requires O-6+ approval", total.StringFixed(2)),
			Severity: SeverityError,
			Field:    "totalEntitlements",
		})
	case total.GreaterThanOrEqual(highAmountThreshold):
		warnings = append(warnings, Warning{
			Type:     WarnHighAmount,
			Message:  fmt.Sprintf("Total claim amount ($%s) may require additional approving official review", total.StringFixed(2)),
			Severity: SeverityWarning,
			Field:    "totalEntitlements",
		})
	}

	if len(tc.Expenses) == 0 {
		warnings = append(warnings, Warning{
			Type:     WarnNoExpenses,
			Message:  "No expenses have been entered. Add lodging, fuel, or miscellaneous expenses.",
			Severity: SeverityWarning,
			Field:    "expenses",
		})
	}

	return warnings
}

// =============================================================================
// TRIP DETAIL VALIDATION
// =============================================================================

// ValidateTripDetails checks the seed trip facts before a draft is worked:
// dates present and ordered, locations set, POV mode carries mileage.
// Returns field-level messages; an empty slice means the trip is valid.
func ValidateTripDetails(tc *TravelClaim) []string {
	var errs []string

	if tc.DepartureDate.IsZero() {
		errs = append(errs, "departure date is required")
	}
	if tc.ReturnDate.IsZero() {
		errs = append(errs, "return date is required")
	}
	if !tc.DepartureDate.IsZero() && !tc.ReturnDate.IsZero() &&
		!normalizeDay(tc.ReturnDate).After(normalizeDay(tc.DepartureDate)) {
		errs = append(errs, "return date must be after departure date")
	}
	if tc.DepartureLocation == "" {
		errs = append(errs, "departure location is required")
	}
	if tc.DestinationLocation == "" {
		errs = append(errs, "destination location is required")
	}
	if tc.TravelMode == "" {
		errs = append(errs, "travel mode is required")
	}
	if tc.TravelMode == ModePOV && tc.MALTMiles <= 0 {
		errs = append(errs, "mileage must be greater than 0 for POV travel mode")
	}
	if tc.OrderNumber == "" {
		errs = append(errs, "PCS order number is required")
	}

	return errs
}
