package rates_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mycompass/travel-engine/rates"
)

func assertRate(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	assert.NoError(t, err)
	assert.True(t, want.Equal(actual), "%s: expected %s, got %s", msg, expected, actual.String())
}

// =============================================================================
// STATIC TABLE TESTS
// =============================================================================

func TestStatic_MileageRate(t *testing.T) {
	assertRate(t, "0.21", rates.NewStatic().MileageRate(), "MALT per mile")
}

func TestStatic_TLERate_KnownLocalities(t *testing.T) {
	p := rates.NewStatic()

	assertRate(t, "161", p.TLERate("23508"), "Norfolk")
	assertRate(t, "210", p.TLERate("92136"), "San Diego")
	assertRate(t, "120", p.TLERate("32212"), "Jacksonville")
}

func TestStatic_TLERate_UnknownZipFallsBack(t *testing.T) {
	// GIVEN: A zip code with no table entry
	// WHEN: Looking up the TLE rate
	// THEN: The standard CONUS default, never an error or zero

	p := rates.NewStatic()
	assertRate(t, "150", p.TLERate("99999"), "default CONUS")
	assertRate(t, "150", p.TLERate(""), "empty zip")
}

func TestStatic_PerDiemRate_KnownAndDefault(t *testing.T) {
	p := rates.NewStatic()

	sd := p.PerDiemRate("92136")
	assertRate(t, "210", sd.Lodging, "San Diego lodging")
	assertRate(t, "74", sd.MIE, "San Diego M&IE")

	def := p.PerDiemRate("00000")
	assertRate(t, "107", def.Lodging, "default lodging")
	assertRate(t, "59", def.MIE, "default M&IE")
}

func TestStatic_MealRates(t *testing.T) {
	mc := rates.NewStatic().MealRates()

	assertRate(t, "13", mc.Breakfast, "breakfast")
	assertRate(t, "15", mc.Lunch, "lunch")
	assertRate(t, "26", mc.Dinner, "dinner")
	assertRate(t, "5", mc.Incidentals, "incidentals")
}

// =============================================================================
// DLA TESTS
// =============================================================================

func TestDLARate_ByPaygradeAndDependency(t *testing.T) {
	assertRate(t, "2800", rates.DLARate("E-5", true), "E-5 with dependents")
	assertRate(t, "2200", rates.DLARate("E-5", false), "E-5 without dependents")
	assertRate(t, "4000", rates.DLARate("O-6", true), "O-6 with dependents")
}

func TestDLARate_NormalizesInput(t *testing.T) {
	assertRate(t, "2800", rates.DLARate(" e-5 ", true), "trimmed and uppercased")
}

func TestDLARate_UnknownPaygradeFallsBack(t *testing.T) {
	assertRate(t, "2800", rates.DLARate("X-9", true), "unknown with dependents")
	assertRate(t, "2200", rates.DLARate("X-9", false), "unknown without dependents")
}
