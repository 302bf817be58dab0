/*
calculator.go - Entitlement aggregation

PURPOSE:
  The pure function at the heart of the engine. Given a claim snapshot it
  produces the itemized entitlement result:

    1. MALT        = maltMiles x mileage rate
    2. TLE         = sum of lodging expenses flagged isTLE
    3. Per Diem    = sum of actualMieAmount over perDiemDays
    4. Misc        = sum over {toll, parking, misc, fuel} expenses
    5. Total Exp   = sum over ALL expenses (audit total, not an entitlement)
    6. Entitlement = MALT + TLE + Per Diem + Misc
    7. Net Payable = Entitlement - advance (may be negative)

RESPONSIBILITY SPLIT:
  The aggregator sums already-validated entries. Capping over-limit lodging
  is the cap validator's job at entry time, not the aggregator's.

NUMERIC POLICY:
  Decimal accumulation at full precision throughout; rounding to cents
  happens only where a value is displayed or persisted. Rounding between
  intermediate sums compounds error across dozens of expense lines.
*/
package claim

import (
	"github.com/shopspring/decimal"

	"github.com/mycompass/travel-engine/rates"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is the itemized calculation output. All values are full precision;
// callers round at the display/persistence boundary.
type Result struct {
	MALTAmount         decimal.Decimal
	TLEAmount          decimal.Decimal
	PerDiemAmount      decimal.Decimal
	MiscExpensesAmount decimal.Decimal
	TotalEntitlements  decimal.Decimal
	TotalExpenses      decimal.Decimal
	NetPayable         decimal.Decimal
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator aggregates a claim snapshot into entitlement totals. It holds
// only the injected rate capability and no mutable state, so Calculate is
// safely reentrant.
type Calculator struct {
	Rates rates.Provider
}

func NewCalculator(p rates.Provider) *Calculator {
	return &Calculator{Rates: p}
}

// Calculate produces the itemized entitlement result for a claim snapshot.
// It never mutates its input. Empty expense and per diem collections yield
// all-zero results; a zero MALTMiles claim simply earns no mileage.
//
// Negative mileage indicates an upstream contract breach and panics rather
// than silently producing a nonsensical total.
func (c *Calculator) Calculate(tc *TravelClaim) Result {
	if tc.MALTMiles < 0 {
		panic("claim: negative MALT miles reached the calculator")
	}

	maltAmount := decimal.NewFromInt(tc.MALTMiles).Mul(c.Rates.MileageRate())

	tleAmount := decimal.Zero
	miscAmount := decimal.Zero
	totalExpenses := decimal.Zero
	for _, e := range tc.Expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
		switch {
		case e.IsTLE():
			tleAmount = tleAmount.Add(e.Amount)
		case e.Type.ReimbursableMisc():
			miscAmount = miscAmount.Add(e.Amount)
		}
		// Non-TLE lodging, airfare, and rental car feed other entitlement
		// lines elsewhere or are tracked for display only.
	}

	perDiemAmount := decimal.Zero
	for _, day := range tc.PerDiemDays {
		perDiemAmount = perDiemAmount.Add(day.ActualMIEAmount)
	}

	totalEntitlements := maltAmount.Add(tleAmount).Add(perDiemAmount).Add(miscAmount)
	netPayable := totalEntitlements.Sub(tc.AdvanceAmount)

	return Result{
		MALTAmount:         maltAmount,
		TLEAmount:          tleAmount,
		PerDiemAmount:      perDiemAmount,
		MiscExpensesAmount: miscAmount,
		TotalEntitlements:  totalEntitlements,
		TotalExpenses:      totalExpenses,
		NetPayable:         netPayable,
	}
}

// Round2 rounds a decimal to currency-minor-unit precision. Boundary use
// only: display and persistence, never between intermediate sums.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
