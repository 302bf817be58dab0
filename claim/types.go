/*
Package claim provides the travel claim calculation engine.

PURPOSE:
  This package turns a trip's raw facts (authorized mileage, captured
  expenses, per diem day records, rate tables) into an itemized, auditable
  reimbursement figure. The arithmetic encodes travel-regulation policy, so
  errors here are financial errors, not cosmetic ones.

KEY CONCEPTS IN THIS FILE (types.go):
  - Expense: a single reimbursable line item with a type-tagged detail payload
  - PerDiemDay: one calendar day of M&IE entitlement
  - TravelClaim: the claim snapshot, raw fields plus derived totals

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money; no float drift across sums
  2. Tagged payloads: each expense type owns exactly one detail variant,
     enforced by constructors, so the aggregator needs no scattered nil checks
  3. Purity: calculation never mutates its input; derived totals are only
     written by the settlement lifecycle after recalculation

SEE ALSO:
  - calculator.go: entitlement aggregation
  - validate.go: cap checks and claim warnings
  - settlement: the draft lifecycle that owns the active snapshot
*/
package claim

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClaimID string
type ExpenseID string

// NewExpenseID returns a fresh random expense identifier.
func NewExpenseID() ExpenseID { return ExpenseID(uuid.NewString()) }

// NewClaimID returns a fresh random claim identifier.
func NewClaimID() ClaimID { return ClaimID(uuid.NewString()) }

// =============================================================================
// EXPENSE TYPES - Closed set of reimbursable categories
// =============================================================================

type ExpenseType string

const (
	ExpenseLodging   ExpenseType = "lodging"
	ExpenseFuel      ExpenseType = "fuel"
	ExpenseToll      ExpenseType = "toll"
	ExpenseParking   ExpenseType = "parking"
	ExpenseRentalCar ExpenseType = "rental_car"
	ExpenseAirfare   ExpenseType = "airfare"
	ExpenseMisc      ExpenseType = "misc"
)

var validExpenseTypes = map[ExpenseType]bool{
	ExpenseLodging:   true,
	ExpenseFuel:      true,
	ExpenseToll:      true,
	ExpenseParking:   true,
	ExpenseRentalCar: true,
	ExpenseAirfare:   true,
	ExpenseMisc:      true,
}

func (t ExpenseType) Valid() bool { return validExpenseTypes[t] }

// ReimbursableMisc reports whether the type feeds the miscellaneous
// entitlement bucket. Lodging feeds TLE instead; airfare and rental car are
// tracked under total expenses only.
func (t ExpenseType) ReimbursableMisc() bool {
	switch t {
	case ExpenseToll, ExpenseParking, ExpenseMisc, ExpenseFuel:
		return true
	}
	return false
}

// =============================================================================
// RECEIPTS
// =============================================================================

type ReceiptUploadStatus string

const (
	ReceiptPending   ReceiptUploadStatus = "pending"
	ReceiptUploading ReceiptUploadStatus = "uploading"
	ReceiptUploaded  ReceiptUploadStatus = "uploaded"
	ReceiptFailed    ReceiptUploadStatus = "failed"
)

// Receipt is a photo or document attached to an expense. Captured locally,
// uploaded on sync.
type Receipt struct {
	ID           string              `json:"id"`
	ExpenseID    string              `json:"expenseId"`
	LocalURI     string              `json:"localUri,omitempty"`
	RemoteURL    string              `json:"remoteUrl,omitempty"`
	MimeType     string              `json:"mimeType"`
	UploadStatus ReceiptUploadStatus `json:"uploadStatus"`
	CapturedAt   time.Time           `json:"capturedAt"`
}

// =============================================================================
// EXPENSE DETAIL VARIANTS - One per expense type
// =============================================================================

// LodgingDetails carries the lodging-specific payload. NightlyRate times
// NumberOfNights need not equal the expense Amount: manual overrides are
// permitted, and Amount is the value actually reimbursed.
type LodgingDetails struct {
	NightlyRate        decimal.Decimal `json:"nightlyRate"`
	NumberOfNights     int             `json:"numberOfNights"`
	LocalityMaxRate    decimal.Decimal `json:"localityMaxRate"`
	IsTLE              bool            `json:"isTLE"`
	HotelName          string          `json:"hotelName,omitempty"`
	ConfirmationNumber string          `json:"confirmationNumber,omitempty"`
}

type FuelDetails struct {
	Gallons        decimal.Decimal `json:"gallons,omitempty"`
	PricePerGallon decimal.Decimal `json:"pricePerGallon,omitempty"`
	OdometerStart  int             `json:"odometerStart,omitempty"`
	OdometerEnd    int             `json:"odometerEnd,omitempty"`
	TotalMiles     int             `json:"totalMiles,omitempty"`
}

type TollDetails struct {
	TollAmount       decimal.Decimal `json:"tollAmount"`
	RoadOrBridgeName string          `json:"roadOrBridgeName,omitempty"`
}

type ParkingDetails struct {
	DailyRate    decimal.Decimal `json:"dailyRate"`
	NumberOfDays int             `json:"numberOfDays"`
	FacilityName string          `json:"facilityName,omitempty"`
}

type MiscDetails struct {
	Description   string `json:"description"`
	Justification string `json:"justification,omitempty"`
}

// =============================================================================
// EXPENSE - Reimbursable line item with tagged detail payload
// =============================================================================

// Expense is a single reimbursable line item. Exactly the detail field
// matching Type is populated; the constructors below enforce this, so
// downstream code can branch on Type alone.
type Expense struct {
	ID          ExpenseID       `json:"id"`
	ClaimID     ClaimID         `json:"claimId"`
	Type        ExpenseType     `json:"expenseType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Receipts    []Receipt       `json:"receipts"`

	Lodging *LodgingDetails `json:"lodgingDetails,omitempty"`
	Fuel    *FuelDetails    `json:"fuelDetails,omitempty"`
	Toll    *TollDetails    `json:"tollDetails,omitempty"`
	Parking *ParkingDetails `json:"parkingDetails,omitempty"`
	Misc    *MiscDetails    `json:"miscDetails,omitempty"`
}

// NewLodgingExpense builds a lodging line item with its detail payload.
func NewLodgingExpense(claimID ClaimID, amount decimal.Decimal, date time.Time, d LodgingDetails) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    ExpenseLodging,
		Amount:  amount,
		Date:    date,
		Lodging: &d,
	}
}

// NewFuelExpense builds a POV fuel line item.
func NewFuelExpense(claimID ClaimID, amount decimal.Decimal, date time.Time, d FuelDetails) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    ExpenseFuel,
		Amount:  amount,
		Date:    date,
		Fuel:    &d,
	}
}

// NewTollExpense builds a road or bridge toll line item.
func NewTollExpense(claimID ClaimID, amount decimal.Decimal, date time.Time, d TollDetails) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    ExpenseToll,
		Amount:  amount,
		Date:    date,
		Toll:    &d,
	}
}

// NewParkingExpense builds a parking fee line item.
func NewParkingExpense(claimID ClaimID, amount decimal.Decimal, date time.Time, d ParkingDetails) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    ExpenseParking,
		Amount:  amount,
		Date:    date,
		Parking: &d,
	}
}

// NewMiscExpense builds a miscellaneous line item (laundry, tips, etc.).
func NewMiscExpense(claimID ClaimID, amount decimal.Decimal, date time.Time, d MiscDetails) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    ExpenseMisc,
		Amount:  amount,
		Date:    date,
		Misc:    &d,
	}
}

// NewSimpleExpense builds a line item with no detail payload
// (rental car, airfare).
func NewSimpleExpense(claimID ClaimID, t ExpenseType, amount decimal.Decimal, date time.Time) Expense {
	return Expense{
		ID:      NewExpenseID(),
		ClaimID: claimID,
		Type:    t,
		Amount:  amount,
		Date:    date,
	}
}

// IsTLE reports whether this is a lodging expense flagged as Temporary
// Lodging Expense.
func (e Expense) IsTLE() bool {
	return e.Type == ExpenseLodging && e.Lodging != nil && e.Lodging.IsTLE
}

// =============================================================================
// PER DIEM DAY - One calendar day of M&IE entitlement
// =============================================================================

type MealsRate string

const (
	MealsStandard     MealsRate = "standard"        // full locality M&IE rate
	MealsProportional MealsRate = "proportional"    // first/last travel day (75%)
	MealsGovernment   MealsRate = "government_mess" // government meals available
)

// PerDiemDay is one travel day's per diem record. ActualMIEAmount is the
// amount actually credited for the day, already adjusted for
// government-provided meals; the aggregator trusts it as-is.
type PerDiemDay struct {
	Date         time.Time       `json:"date"`
	Locality     string          `json:"locality"`
	LocalityRate decimal.Decimal `json:"localityRate"`
	LodgingRate  decimal.Decimal `json:"lodgingRate"`
	MIERate      decimal.Decimal `json:"mieRate"`

	BreakfastProvided bool `json:"breakfastProvided"`
	LunchProvided     bool `json:"lunchProvided"`
	DinnerProvided    bool `json:"dinnerProvided"`

	MealsRate       MealsRate       `json:"mealsRate"`
	IsProrated      bool            `json:"isProrated"`
	ActualMIEAmount decimal.Decimal `json:"actualMieAmount"`
}

// =============================================================================
// TRAVEL CLAIM - The claim snapshot (raw facts + derived totals)
// =============================================================================

type TravelMode string

const (
	ModePOV           TravelMode = "pov"
	ModeCommercialAir TravelMode = "commercial_air"
	ModeGovVehicle    TravelMode = "gov_vehicle"
	ModeMixed         TravelMode = "mixed"
	ModeRail          TravelMode = "rail"
)

// TravelClaim is the aggregate claim snapshot. The derived fields are
// recomputed by the settlement lifecycle after every mutation and must
// never be written directly elsewhere.
type TravelClaim struct {
	ID          ClaimID    `json:"id"`
	OrderNumber string     `json:"orderNumber,omitempty"`
	TravelMode  TravelMode `json:"travelMode"`

	DepartureDate       time.Time `json:"departureDate"`
	ReturnDate          time.Time `json:"returnDate"`
	DepartureLocation   string    `json:"departureLocation"`
	DestinationLocation string    `json:"destinationLocation"`

	MALTMiles int64           `json:"maltMiles"`
	DLAAmount decimal.Decimal `json:"dlaAmount"`
	TLEDays   int             `json:"tleDays"`

	Expenses    []Expense    `json:"expenses"`
	PerDiemDays []PerDiemDay `json:"perDiemDays"`

	AdvanceAmount       decimal.Decimal `json:"advanceAmount"`
	MemberCertification bool            `json:"memberCertification"`
	MemberRemarks       string          `json:"memberRemarks,omitempty"`

	// Derived - recomputed, never independently mutated.
	MALTAmount         decimal.Decimal `json:"maltAmount"`
	TLEAmount          decimal.Decimal `json:"tleAmount"`
	PerDiemAmount      decimal.Decimal `json:"perDiemAmount"`
	MiscExpensesAmount decimal.Decimal `json:"miscExpensesAmount"`
	TotalEntitlements  decimal.Decimal `json:"totalEntitlements"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	NetPayable         decimal.Decimal `json:"netPayable"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// Clone returns a deep copy of the claim. The lifecycle hands copies to
// callers so external code can never reach the owned draft.
func (tc *TravelClaim) Clone() *TravelClaim {
	if tc == nil {
		return nil
	}
	out := *tc
	out.Expenses = make([]Expense, len(tc.Expenses))
	for i, e := range tc.Expenses {
		out.Expenses[i] = cloneExpense(e)
	}
	out.PerDiemDays = append([]PerDiemDay(nil), tc.PerDiemDays...)
	if tc.SubmittedAt != nil {
		t := *tc.SubmittedAt
		out.SubmittedAt = &t
	}
	return &out
}

func cloneExpense(e Expense) Expense {
	out := e
	out.Receipts = append([]Receipt(nil), e.Receipts...)
	if e.Lodging != nil {
		d := *e.Lodging
		out.Lodging = &d
	}
	if e.Fuel != nil {
		d := *e.Fuel
		out.Fuel = &d
	}
	if e.Toll != nil {
		d := *e.Toll
		out.Toll = &d
	}
	if e.Parking != nil {
		d := *e.Parking
		out.Parking = &d
	}
	if e.Misc != nil {
		d := *e.Misc
		out.Misc = &d
	}
	return out
}
