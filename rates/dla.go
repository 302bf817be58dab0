package rates

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DLA - Dislocation Allowance (flat rate by paygrade + dependency status)
// =============================================================================

type dlaRate struct {
	withDep    decimal.Decimal
	withoutDep decimal.Decimal
}

// Approximate 2024 CONUS values. A production deployment pulls these from a
// versioned rate-table service.
var dlaTable = map[string]dlaRate{
	"E-1": {dec("2633"), dec("2000")},
	"E-2": {dec("2633"), dec("2000")},
	"E-3": {dec("2633"), dec("2000")},
	"E-4": {dec("2633"), dec("2050")},
	"E-5": {dec("2800"), dec("2200")},
	"E-6": {dec("3100"), dec("2400")},
	"E-7": {dec("3250"), dec("2600")},
	"E-8": {dec("3400"), dec("2800")},
	"E-9": {dec("3600"), dec("3000")},

	"W-1": {dec("2700"), dec("2200")},
	"W-2": {dec("2900"), dec("2400")},
	"W-3": {dec("3100"), dec("2600")},
	"W-4": {dec("3300"), dec("2800")},
	"W-5": {dec("3500"), dec("3000")},

	"O-1":  {dec("2700"), dec("2200")},
	"O-1E": {dec("2700"), dec("2200")},
	"O-2":  {dec("2900"), dec("2400")},
	"O-2E": {dec("2900"), dec("2400")},
	"O-3":  {dec("3100"), dec("2600")},
	"O-3E": {dec("3100"), dec("2600")},
	"O-4":  {dec("3400"), dec("2900")},
	"O-5":  {dec("3700"), dec("3200")},
	"O-6":  {dec("4000"), dec("3500")},
	"O-7":  {dec("4200"), dec("3700")},
	"O-8":  {dec("4200"), dec("3700")},
	"O-9":  {dec("4200"), dec("3700")},
	"O-10": {dec("4200"), dec("3700")},
}

// Mid-range fallback for unrecognized paygrades.
var dlaDefault = dlaRate{withDep: dec("2800"), withoutDep: dec("2200")}

// DLARate returns the Dislocation Allowance for a paygrade. Input is
// normalized (trimmed, uppercased) before lookup; unknown paygrades fall
// back to a mid-range default rather than failing.
func DLARate(paygrade string, hasDependents bool) decimal.Decimal {
	r, ok := dlaTable[strings.ToUpper(strings.TrimSpace(paygrade))]
	if !ok {
		r = dlaDefault
	}
	if hasDependents {
		return r.withDep
	}
	return r.withoutDep
}
