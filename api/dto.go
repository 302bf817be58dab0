/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers returned to clients

MONEY FIELDS:
  decimal.Decimal marshals as a quoted JSON string and unmarshals from
  both numbers and strings, so request bodies may send either form.

VALIDATION:
  Validation is done in handlers and the settlement service, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - claim/types.go: TravelClaim carries the wire field names directly
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mycompass/travel-engine/claim"
	"github.com/mycompass/travel-engine/settlement"
)

// =============================================================================
// SETTLEMENT TYPES
// =============================================================================

// SettlementResponse wraps the lifecycle status with the active claim
// snapshot and its advisory warnings.
type SettlementResponse struct {
	Status   settlement.Status  `json:"status"`
	Claim    *claim.TravelClaim `json:"claim,omitempty"`
	Warnings []claim.Warning    `json:"warnings,omitempty"`
}

// InitSettlementRequest seeds a new draft from upstream trip data.
type InitSettlementRequest struct {
	OrderNumber         string           `json:"orderNumber"`
	TravelMode          claim.TravelMode `json:"travelMode"`
	DepartureDate       time.Time        `json:"departureDate"`
	ReturnDate          time.Time        `json:"returnDate"`
	DepartureLocation   string           `json:"departureLocation"`
	DestinationLocation string           `json:"destinationLocation"`

	MALTMiles     int64           `json:"maltMiles"`
	DLAAmount     decimal.Decimal `json:"dlaAmount"`
	TLEDays       int             `json:"tleDays"`
	AdvanceAmount decimal.Decimal `json:"advanceAmount"`

	Expenses    []claim.Expense    `json:"expenses"`
	PerDiemDays []claim.PerDiemDay `json:"perDiemDays"`
}

// UpdateSettlementRequest is a partial draft update. Absent fields are
// left untouched.
type UpdateSettlementRequest struct {
	MALTMiles           *int64           `json:"maltMiles,omitempty"`
	TLEDays             *int             `json:"tleDays,omitempty"`
	AdvanceAmount       *decimal.Decimal `json:"advanceAmount,omitempty"`
	MemberCertification *bool            `json:"memberCertification,omitempty"`
	MemberRemarks       *string          `json:"memberRemarks,omitempty"`
	DepartureDate       *time.Time       `json:"departureDate,omitempty"`
	ReturnDate          *time.Time       `json:"returnDate,omitempty"`

	Expenses    *[]claim.Expense    `json:"expenses,omitempty"`
	PerDiemDays *[]claim.PerDiemDay `json:"perDiemDays,omitempty"`
}

func (r UpdateSettlementRequest) toPatch() settlement.Patch {
	return settlement.Patch{
		MALTMiles:           r.MALTMiles,
		TLEDays:             r.TLEDays,
		AdvanceAmount:       r.AdvanceAmount,
		MemberCertification: r.MemberCertification,
		MemberRemarks:       r.MemberRemarks,
		DepartureDate:       r.DepartureDate,
		ReturnDate:          r.ReturnDate,
		Expenses:            r.Expenses,
		PerDiemDays:         r.PerDiemDays,
	}
}

// =============================================================================
// RATE TYPES
// =============================================================================

// MileageRateResponse carries the MALT per-mile allowance.
type MileageRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// TLERateResponse carries a locality's daily TLE lodging ceiling.
type TLERateResponse struct {
	Zip  string          `json:"zip"`
	Rate decimal.Decimal `json:"rate"`
}

// PerDiemRateResponse carries a locality's per diem pair.
type PerDiemRateResponse struct {
	Zip     string          `json:"zip"`
	Lodging decimal.Decimal `json:"lodging"`
	MIE     decimal.Decimal `json:"mie"`
}

// DLARateResponse carries a paygrade's dislocation allowance.
type DLARateResponse struct {
	Paygrade      string          `json:"paygrade"`
	HasDependents bool            `json:"hasDependents"`
	Rate          decimal.Decimal `json:"rate"`
}

// TravelDaysResponse carries an inclusive travel day count.
type TravelDaysResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// =============================================================================
// VALIDATION TYPES
// =============================================================================

// ValidateExpenseRequest checks one expense against a locality's caps.
type ValidateExpenseRequest struct {
	Expense claim.Expense `json:"expense"`
	Zip     string        `json:"zip"`
}

// ValidateExpenseResponse mirrors claim.ValidationResult on the wire.
type ValidateExpenseResponse struct {
	IsValid  bool     `json:"isValid"`
	Warnings []string `json:"warnings"`
}

// =============================================================================
// ESTIMATE TYPES
// =============================================================================

// EstimateRequest asks for a PCS entitlement projection.
type EstimateRequest struct {
	Paygrade           string          `json:"paygrade"`
	MonthlyBasePay     decimal.Decimal `json:"monthlyBasePay"`
	HasDependents      bool            `json:"hasDependents"`
	NumberOfDependents int             `json:"numberOfDependents"`

	OriginStation      string `json:"originStation"`
	DestinationStation string `json:"destinationStation"`
	AuthorizedMiles    int64  `json:"authorizedMiles"`
	TLEDaysAuthorized  int    `json:"tleDaysAuthorized"`
}

// EstimateResponse is the itemized projection.
type EstimateResponse struct {
	MALT        decimal.Decimal `json:"malt"`
	DLA         decimal.Decimal `json:"dla"`
	TLE         decimal.Decimal `json:"tle"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
}

// AdvanceScheduleRequest asks for an advance-pay repayment timeline.
type AdvanceScheduleRequest struct {
	MonthlyBasePay  decimal.Decimal `json:"monthlyBasePay"`
	MonthsRequested int             `json:"monthsRequested"`
	RepaymentMonths int             `json:"repaymentMonths"`
}

// AdvanceScheduleRow is one month of the repayment timeline.
type AdvanceScheduleRow struct {
	MonthIndex      int             `json:"monthIndex"`
	OriginalNetPay  decimal.Decimal `json:"originalNetPay"`
	DeductionAmount decimal.Decimal `json:"deductionAmount"`
	ProjectedNetPay decimal.Decimal `json:"projectedNetPay"`
}

// AdvanceScheduleResponse is the full timeline.
type AdvanceScheduleResponse struct {
	Timeline []AdvanceScheduleRow `json:"timeline"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
