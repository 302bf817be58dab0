package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECEIPT BRIDGE - Captured receipts promoted to expense line items
// =============================================================================

// ReceiptCategory is the lightweight category assigned at capture time.
type ReceiptCategory string

const (
	CategoryGas     ReceiptCategory = "GAS"
	CategoryLodging ReceiptCategory = "LODGING"
	CategoryTolls   ReceiptCategory = "TOLLS"
	CategoryMeals   ReceiptCategory = "MEALS"
	CategoryOther   ReceiptCategory = "OTHER"
)

// CapturedReceipt is the record produced by the capture pipeline. It is
// intentionally lightweight; type-specific detail is filled in during
// settlement.
type CapturedReceipt struct {
	ID         string
	Category   ReceiptCategory
	Amount     decimal.Decimal
	ImageURI   string
	Note       string
	CapturedAt time.Time
}

var categoryExpenseType = map[ReceiptCategory]ExpenseType{
	CategoryGas:     ExpenseFuel,
	CategoryLodging: ExpenseLodging,
	CategoryTolls:   ExpenseToll,
	CategoryMeals:   ExpenseMisc,
	CategoryOther:   ExpenseMisc,
}

var categoryDescription = map[ReceiptCategory]string{
	CategoryGas:     "Fuel",
	CategoryLodging: "Lodging",
	CategoryTolls:   "Toll",
	CategoryMeals:   "Meals",
	CategoryOther:   "Other expense",
}

// BridgeReceipts promotes captured receipts into expense line items for a
// claim. The receipt image rides along as an attachment; detail payloads
// are seeded with what capture provides and completed during settlement.
func BridgeReceipts(receipts []CapturedReceipt, claimID ClaimID) []Expense {
	expenses := make([]Expense, 0, len(receipts))
	for _, r := range receipts {
		expenses = append(expenses, receiptToExpense(r, claimID))
	}
	return expenses
}

func receiptToExpense(r CapturedReceipt, claimID ClaimID) Expense {
	description := r.Note
	if description == "" {
		description = categoryDescription[r.Category]
	}

	e := Expense{
		ID:          ExpenseID(r.ID),
		ClaimID:     claimID,
		Type:        categoryExpenseType[r.Category],
		Amount:      r.Amount,
		Date:        r.CapturedAt,
		Description: description,
		Receipts: []Receipt{{
			ID:           "rcpt-" + r.ID,
			ExpenseID:    r.ID,
			LocalURI:     r.ImageURI,
			MimeType:     "image/jpeg",
			UploadStatus: ReceiptPending,
			CapturedAt:   r.CapturedAt,
		}},
	}

	switch r.Category {
	case CategoryGas:
		// Capture only yields the total; gallons and price come later.
		e.Fuel = &FuelDetails{}
	case CategoryLodging:
		e.Lodging = &LodgingDetails{
			NightlyRate:    r.Amount,
			NumberOfNights: 1,
		}
	case CategoryTolls:
		e.Toll = &TollDetails{
			TollAmount:       r.Amount,
			RoadOrBridgeName: r.Note,
		}
	default:
		e.Misc = &MiscDetails{Description: description}
	}

	return e
}
