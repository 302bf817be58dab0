/*
Package rates provides government travel rate lookups.

PURPOSE:
  Rate tables are the regulatory inputs to every entitlement calculation:
  the per-mile MALT allowance, the daily TLE lodging ceiling, and the
  locality per diem pair (lodging + M&IE). Callers depend on the Provider
  interface, never on a concrete table, so a live DTMO-backed provider can
  replace the static CONUS table without touching the calculator.

LOOKUP CONTRACT:
  Lookups never fail. An unrecognized locality (zip code) falls back to the
  designated default entry, which is itself a valid non-zero rate. This is
  deliberate: a missing table row must degrade to the standard CONUS rate,
  not block a claim.

RATE EDITION:
  The bundled table carries mock FY24 rates. Swap the table, not the code,
  when a new regulation edition lands.

SEE ALSO:
  - dla.go: Dislocation Allowance table (paygrade keyed)
  - claim/calculator.go: primary consumer
*/
package rates

import "github.com/shopspring/decimal"

// =============================================================================
// PROVIDER - Rate lookup capability
// =============================================================================

// PerDiem is the locality rate pair: the lodging ceiling and the
// meals-and-incidentals (M&IE) daily rate.
type PerDiem struct {
	Lodging decimal.Decimal
	MIE     decimal.Decimal
}

// MealComponents breaks the standard M&IE rate into its government meal
// rate components. Used to deduct government-provided meals.
type MealComponents struct {
	Breakfast   decimal.Decimal
	Lunch       decimal.Decimal
	Dinner      decimal.Decimal
	Incidentals decimal.Decimal
}

// Provider is the rate lookup capability injected into the calculation
// engine. Implementations must honor the default-fallback contract:
// unknown localities return the default entry, never an error.
type Provider interface {
	// MileageRate returns the MALT per-mile allowance for POV travel.
	MileageRate() decimal.Decimal

	// TLERate returns the daily TLE lodging ceiling for a zip code.
	TLERate(zip string) decimal.Decimal

	// PerDiemRate returns the locality per diem pair for a zip code.
	PerDiemRate(zip string) PerDiem

	// MealRates returns the standard meal rate components.
	MealRates() MealComponents
}

// =============================================================================
// STATIC TABLE - Bundled CONUS rates with default fallback
// =============================================================================

// Static is the bundled rate table. Reads are pure; the zero-cost maps are
// never mutated after construction, so Static is safe for concurrent use.
type Static struct {
	mileageRate decimal.Decimal
	tle         map[string]decimal.Decimal
	tleDefault  decimal.Decimal
	perDiem     map[string]PerDiem
	pdDefault   PerDiem
	meals       MealComponents
}

var _ Provider = (*Static)(nil)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("rates: bad literal " + s)
	}
	return d
}

// NewStatic builds the mock FY24 CONUS table.
//
// Sample localities:
//
//	23508  Norfolk, VA
//	92136  San Diego, CA (high cost)
//	32212  Jacksonville, FL (low cost)
func NewStatic() *Static {
	return &Static{
		mileageRate: dec("0.21"),
		tle: map[string]decimal.Decimal{
			"23508": dec("161"),
			"92136": dec("210"),
			"32212": dec("120"),
		},
		tleDefault: dec("150"), // standard CONUS
		perDiem: map[string]PerDiem{
			"23508": {Lodging: dec("161"), MIE: dec("64")},
			"92136": {Lodging: dec("210"), MIE: dec("74")},
			"32212": {Lodging: dec("120"), MIE: dec("59")},
		},
		pdDefault: PerDiem{Lodging: dec("107"), MIE: dec("59")},
		meals: MealComponents{
			Breakfast:   dec("13"),
			Lunch:       dec("15"),
			Dinner:      dec("26"),
			Incidentals: dec("5"),
		},
	}
}

func (s *Static) MileageRate() decimal.Decimal { return s.mileageRate }

func (s *Static) TLERate(zip string) decimal.Decimal {
	if r, ok := s.tle[zip]; ok {
		return r
	}
	return s.tleDefault
}

func (s *Static) PerDiemRate(zip string) PerDiem {
	if r, ok := s.perDiem[zip]; ok {
		return r
	}
	return s.pdDefault
}

func (s *Static) MealRates() MealComponents { return s.meals }
