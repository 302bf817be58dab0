/*
perdiem.go - Per diem day schedule builder

PURPOSE:
  Builds one PerDiemDay per travel day from the locality rate tables. The
  aggregator trusts each day's actualMieAmount as already adjusted; this
  builder is where those adjustments happen.

PRORATION:
  First and last travel days earn 75% of the locality M&IE rate
  (proportional rate). Intermediate days earn the full standard rate.

MEAL DEDUCTIONS:
  Government-provided meals deduct their component rates (breakfast, lunch,
  dinner) from the day's M&IE. The result never drops below the incidentals
  component: a fully fed traveler still receives incidentals.
*/
package claim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mycompass/travel-engine/rates"
)

// proportionalFactor is the first/last travel day M&IE share.
var proportionalFactor = decimal.NewFromFloat(0.75)

// MealFlags marks which meals the government provided on a day.
type MealFlags struct {
	Breakfast bool
	Lunch     bool
	Dinner    bool
}

// BuildPerDiemSchedule creates one PerDiemDay per inclusive travel day
// between start and end, looking up locality rates by zip. Meal flags are
// applied per day when provided; missing entries mean no meals provided.
func BuildPerDiemSchedule(p rates.Provider, start, end time.Time, locality, zip string, meals map[string]MealFlags) []PerDiemDay {
	n := TravelDays(start, end)
	pd := p.PerDiemRate(zip)

	days := make([]PerDiemDay, 0, n)
	cur := normalizeDay(start)
	if normalizeDay(end).Before(cur) {
		cur = normalizeDay(end)
	}
	for i := 0; i < n; i++ {
		date := cur.AddDate(0, 0, i)
		prorated := i == 0 || i == n-1
		if n == 1 {
			prorated = true
		}

		flags := meals[date.Format("2006-01-02")]
		day := PerDiemDay{
			Date:              date,
			Locality:          locality,
			LocalityRate:      pd.Lodging.Add(pd.MIE),
			LodgingRate:       pd.Lodging,
			MIERate:           pd.MIE,
			BreakfastProvided: flags.Breakfast,
			LunchProvided:     flags.Lunch,
			DinnerProvided:    flags.Dinner,
			MealsRate:         MealsStandard,
			IsProrated:        prorated,
		}
		if prorated {
			day.MealsRate = MealsProportional
		}
		day.ActualMIEAmount = dailyMIE(p.MealRates(), pd.MIE, prorated, flags)
		days = append(days, day)
	}
	return days
}

// RecalculateMIE recomputes a single day's actualMieAmount from its flags,
// for callers that toggle provided meals on an existing schedule.
func RecalculateMIE(p rates.Provider, day PerDiemDay) decimal.Decimal {
	return dailyMIE(p.MealRates(), day.MIERate, day.IsProrated, MealFlags{
		Breakfast: day.BreakfastProvided,
		Lunch:     day.LunchProvided,
		Dinner:    day.DinnerProvided,
	})
}

func dailyMIE(mc rates.MealComponents, mieRate decimal.Decimal, prorated bool, flags MealFlags) decimal.Decimal {
	amount := mieRate
	if prorated {
		amount = amount.Mul(proportionalFactor)
	}

	if flags.Breakfast {
		amount = amount.Sub(mc.Breakfast)
	}
	if flags.Lunch {
		amount = amount.Sub(mc.Lunch)
	}
	if flags.Dinner {
		amount = amount.Sub(mc.Dinner)
	}

	// Incidentals floor: deductions never take the day below incidentals.
	if amount.LessThan(mc.Incidentals) {
		return mc.Incidentals
	}
	return amount
}
