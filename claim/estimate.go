/*
estimate.go - PCS entitlements sandbox and advance-pay visualizer

PURPOSE:
  Planning-quality estimates, distinct from the settlement calculation:
  an itemized MALT + DLA + TLE projection for an upcoming move, and a
  month-by-month advance-pay repayment schedule. Actual entitlements are
  determined downstream from orders, receipts, and locality rates.

TLE SCALING:
  TLE is estimated as days x daily rate x household percentage:
  65% for the member alone, +35% for the first dependent, +25% for each
  additional dependent, capped at 100%.
*/
package claim

import (
	"github.com/shopspring/decimal"

	"github.com/mycompass/travel-engine/rates"
)

// =============================================================================
// PCS ENTITLEMENT ESTIMATE
// =============================================================================

// FinancialProfile is the member's profile relevant to PCS entitlements.
type FinancialProfile struct {
	Paygrade           string
	MonthlyBasePay     decimal.Decimal
	HasDependents      bool
	NumberOfDependents int
}

// Route describes the authorized PCS route between duty stations.
type Route struct {
	OriginStation      string
	DestinationStation string
	AuthorizedMiles    int64
	TLEDaysAuthorized  int // 0 means the statutory maximum
}

// EstimateResult is an itemized PCS entitlement projection.
type EstimateResult struct {
	MALT        decimal.Decimal
	DLA         decimal.Decimal
	TLE         decimal.Decimal
	TotalPayout decimal.Decimal
}

var (
	memberShare        = decimal.NewFromFloat(0.65)
	firstDepShare      = decimal.NewFromFloat(0.35)
	additionalDepShare = decimal.NewFromFloat(0.25)
	fullShare          = decimal.NewFromInt(1)
)

// tlePercentage computes the household TLE share from the traveling
// dependent count, capped at 100%.
func tlePercentage(dependents int) decimal.Decimal {
	if dependents <= 0 {
		return memberShare
	}
	total := memberShare.Add(firstDepShare)
	if dependents > 1 {
		total = total.Add(additionalDepShare.Mul(decimal.NewFromInt(int64(dependents - 1))))
	}
	if total.GreaterThan(fullShare) {
		return fullShare
	}
	return total
}

// EstimatePCSEntitlements produces an itemized projection of the payout for
// a PCS route: mileage allowance, dislocation allowance, and a TLE estimate
// against the default daily lodging rate.
func EstimatePCSEntitlements(p rates.Provider, profile FinancialProfile, route Route) EstimateResult {
	malt := decimal.NewFromInt(route.AuthorizedMiles).Mul(p.MileageRate())

	dla := rates.DLARate(profile.Paygrade, profile.HasDependents)

	tleDays := route.TLEDaysAuthorized
	if tleDays <= 0 || tleDays > MaxTLEDays {
		tleDays = MaxTLEDays
	}
	dailyRate := p.TLERate("") // default CONUS rate
	tle := decimal.NewFromInt(int64(tleDays)).Mul(dailyRate).Mul(tlePercentage(profile.NumberOfDependents))

	return EstimateResult{
		MALT:        Round2(malt),
		DLA:         Round2(dla),
		TLE:         Round2(tle),
		TotalPayout: Round2(malt.Add(dla).Add(tle)),
	}
}

// =============================================================================
// ADVANCE PAY AMORTIZATION
// =============================================================================

// netPayFactor approximates take-home pay as a share of gross base pay
// (taxes, SGLI, TSP, TRICARE).
var netPayFactor = decimal.NewFromFloat(0.75)

// AmortizationRow is one month of the advance-pay repayment timeline.
type AmortizationRow struct {
	MonthIndex      int
	OriginalNetPay  decimal.Decimal
	DeductionAmount decimal.Decimal
	ProjectedNetPay decimal.Decimal
}

// AdvancePaySchedule builds the equal-installment repayment timeline for an
// advance of monthsRequested months of base pay over repaymentMonths.
// Members may advance up to 3 months' base pay, repaid over 12 or 24 months.
func AdvancePaySchedule(basePay decimal.Decimal, monthsRequested, repaymentMonths int) []AmortizationRow {
	if monthsRequested < 1 {
		monthsRequested = 1
	}
	if monthsRequested > 3 {
		monthsRequested = 3
	}
	if repaymentMonths != 12 && repaymentMonths != 24 {
		repaymentMonths = 12
	}

	advanceTotal := basePay.Mul(decimal.NewFromInt(int64(monthsRequested)))
	originalNetPay := Round2(basePay.Mul(netPayFactor))
	deduction := Round2(advanceTotal.Div(decimal.NewFromInt(int64(repaymentMonths))))

	timeline := make([]AmortizationRow, 0, repaymentMonths)
	for i := 1; i <= repaymentMonths; i++ {
		timeline = append(timeline, AmortizationRow{
			MonthIndex:      i,
			OriginalNetPay:  originalNetPay,
			DeductionAmount: deduction,
			ProjectedNetPay: Round2(originalNetPay.Sub(deduction)),
		})
	}
	return timeline
}
