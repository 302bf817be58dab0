package claim

import "time"

// =============================================================================
// TRAVEL DAYS - Inclusive calendar day counting
// =============================================================================

// normalizeDay strips time-of-day and timezone, anchoring the date at
// midnight UTC. Differencing normalized days avoids DST off-by-one errors.
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TravelDays returns the inclusive day count between two calendar dates:
// the same start and end date yields 1, Jan 1 through Jan 5 yields 5.
//
// If end precedes start the distance is treated as absolute, so a reversed
// range never produces a negative count.
func TravelDays(start, end time.Time) int {
	s := normalizeDay(start)
	e := normalizeDay(end)
	days := int(e.Sub(s).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days + 1
}
