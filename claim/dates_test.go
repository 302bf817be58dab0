package claim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mycompass/travel-engine/claim"
)

// =============================================================================
// TRAVEL DAY COUNTING TESTS
// =============================================================================

func TestTravelDays_InclusiveRange(t *testing.T) {
	// GIVEN: Travel from Jan 1 through Jan 5
	// WHEN: Counting travel days
	// THEN: Both endpoints count, so 5 days

	days := claim.TravelDays(testDate(2023, time.January, 1), testDate(2023, time.January, 5))
	assert.Equal(t, 5, days)
}

func TestTravelDays_SameDay_IsOne(t *testing.T) {
	days := claim.TravelDays(testDate(2023, time.March, 10), testDate(2023, time.March, 10))
	assert.Equal(t, 1, days)
}

func TestTravelDays_ReversedRange_AbsoluteDistance(t *testing.T) {
	// GIVEN: End date before start date
	// WHEN: Counting travel days
	// THEN: The count is the absolute distance, never negative

	days := claim.TravelDays(testDate(2023, time.January, 5), testDate(2023, time.January, 1))
	assert.Equal(t, 5, days)
}

func TestTravelDays_IgnoresTimeOfDay(t *testing.T) {
	// GIVEN: A late-evening departure and early-morning return
	// WHEN: Counting travel days
	// THEN: Only calendar dates matter

	start := time.Date(2023, time.June, 1, 23, 45, 0, 0, time.UTC)
	end := time.Date(2023, time.June, 3, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 3, claim.TravelDays(start, end))
}

func TestTravelDays_AcrossDSTTransition(t *testing.T) {
	// GIVEN: A range spanning the March DST change in a local zone
	// WHEN: Counting travel days
	// THEN: Normalization to midnight UTC avoids the off-by-one

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	start := time.Date(2023, time.March, 11, 22, 0, 0, 0, loc)
	end := time.Date(2023, time.March, 13, 1, 0, 0, 0, loc)
	assert.Equal(t, 3, claim.TravelDays(start, end))
}

func TestTravelDays_AcrossMonthBoundary(t *testing.T) {
	days := claim.TravelDays(testDate(2023, time.January, 30), testDate(2023, time.February, 2))
	assert.Equal(t, 4, days)
}
