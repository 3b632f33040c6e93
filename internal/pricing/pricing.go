// Package pricing computes quote totals from the material's per-gram
// rate.  Real mass estimation from model geometry is out of scope: every
// unit is assumed to weigh a flat 50 grams regardless of the uploaded
// file.  All amounts are in currency minor units.
package pricing

import "math"

// EstimatedGramsPerUnit is the flat assumed mass of one printed unit.
const EstimatedGramsPerUnit = 50

// UrgentSurcharge is the fraction added to the base price when the
// customer requests urgent service.
const UrgentSurcharge = 0.3

// Total returns the total price in minor units for a quantity of units
// printed at the given per-gram rate.  base = rate * 50g * quantity;
// urgent requests pay a 30% surcharge on top.  The result is rounded to
// the nearest minor unit.  The function is pure and performs no lookups;
// callers resolve the rate from the material catalog first.
func Total(ratePerGramCents int64, quantity int, urgent bool) int64 {
	base := float64(ratePerGramCents) * EstimatedGramsPerUnit * float64(quantity)
	if urgent {
		base += base * UrgentSurcharge
	}
	return int64(math.Round(base))
}
