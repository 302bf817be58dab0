package claim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycompass/travel-engine/claim"
	"github.com/mycompass/travel-engine/rates"
)

// =============================================================================
// PCS ESTIMATE TESTS
// =============================================================================

func TestEstimatePCSEntitlements_MemberAlone(t *testing.T) {
	// GIVEN: An E-5 without dependents, 1000 authorized miles, max TLE days
	// WHEN: Estimating the PCS payout
	// THEN: MALT 1000 x 0.21 = 210; DLA 2200; TLE 14 x 150 x 65% = 1365

	result := claim.EstimatePCSEntitlements(rates.NewStatic(),
		claim.FinancialProfile{Paygrade: "E-5"},
		claim.Route{AuthorizedMiles: 1000})

	assertAmount(t, "210", result.MALT, "MALT")
	assertAmount(t, "2200", result.DLA, "DLA")
	assertAmount(t, "1365", result.TLE, "TLE")
	assertAmount(t, "3775", result.TotalPayout, "total")
}

func TestEstimatePCSEntitlements_HouseholdPercentageCapped(t *testing.T) {
	// GIVEN: A member with 3 dependents (65% + 35% + 2x25% would be 150%)
	// WHEN: Estimating TLE
	// THEN: The household share caps at 100%: 14 x 150 = 2100

	result := claim.EstimatePCSEntitlements(rates.NewStatic(),
		claim.FinancialProfile{Paygrade: "E-5", HasDependents: true, NumberOfDependents: 3},
		claim.Route{AuthorizedMiles: 0})

	assertAmount(t, "2100", result.TLE, "TLE")
	assertAmount(t, "2800", result.DLA, "DLA with dependents")
}

func TestEstimatePCSEntitlements_OneDependent(t *testing.T) {
	// 65% + 35% = 100% exactly.
	result := claim.EstimatePCSEntitlements(rates.NewStatic(),
		claim.FinancialProfile{Paygrade: "O-3", HasDependents: true, NumberOfDependents: 1},
		claim.Route{AuthorizedMiles: 0, TLEDaysAuthorized: 10})

	assertAmount(t, "1500", result.TLE, "TLE for 10 days at full share")
	assertAmount(t, "3100", result.DLA, "O-3 DLA with dependents")
}

func TestEstimatePCSEntitlements_TLEDaysClampedToStatutoryMax(t *testing.T) {
	// Requests beyond 14 days fall back to the statutory maximum.
	over := claim.EstimatePCSEntitlements(rates.NewStatic(),
		claim.FinancialProfile{Paygrade: "E-5"},
		claim.Route{TLEDaysAuthorized: 30})
	max := claim.EstimatePCSEntitlements(rates.NewStatic(),
		claim.FinancialProfile{Paygrade: "E-5"},
		claim.Route{TLEDaysAuthorized: claim.MaxTLEDays})

	assert.True(t, over.TLE.Equal(max.TLE))
}

// =============================================================================
// ADVANCE PAY SCHEDULE TESTS
// =============================================================================

func TestAdvancePaySchedule_EqualInstallments(t *testing.T) {
	// GIVEN: $4,000 base pay, 2 months advanced, repaid over 12 months
	// WHEN: Building the repayment timeline
	// THEN: Net pay $3,000, deduction $666.67/month, projected $2,333.33

	timeline := claim.AdvancePaySchedule(d("4000"), 2, 12)

	require.Len(t, timeline, 12)
	first := timeline[0]
	assert.Equal(t, 1, first.MonthIndex)
	assertAmount(t, "3000", first.OriginalNetPay, "net pay")
	assertAmount(t, "666.67", first.DeductionAmount, "deduction")
	assertAmount(t, "2333.33", first.ProjectedNetPay, "projected net")

	last := timeline[11]
	assert.Equal(t, 12, last.MonthIndex)
	assert.True(t, first.DeductionAmount.Equal(last.DeductionAmount), "installments are equal")
}

func TestAdvancePaySchedule_TwentyFourMonthRepayment(t *testing.T) {
	timeline := claim.AdvancePaySchedule(d("3600"), 1, 24)

	require.Len(t, timeline, 24)
	assertAmount(t, "150", timeline[0].DeductionAmount, "deduction")
}

func TestAdvancePaySchedule_ClampsRequestBounds(t *testing.T) {
	// Months requested clamp to [1, 3]; invalid repayment terms default to 12.
	timeline := claim.AdvancePaySchedule(d("3000"), 9, 18)

	require.Len(t, timeline, 12)
	// 3 months of base pay over 12 months: 9000 / 12 = 750.
	assertAmount(t, "750", timeline[0].DeductionAmount, "deduction")
}
