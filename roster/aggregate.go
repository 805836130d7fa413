/*
aggregate.go - Pay aggregation

PURPOSE:
  Walks the duty collection once and builds the CalculationResult.
  Pure and idempotent: the same duties and rates always produce the
  identical result, and totals are rebuilt wholesale - never patched -
  so the salary identity cannot drift.

IDENTITY:
  TotalSalary = FixedSubtotal + FlightPay + PerDiem + ASBYPay
*/
package roster

import "github.com/shopspring/decimal"

// Aggregate sums the duty collection into buckets and applies the
// layover totals produced by the pairing pass.
func Aggregate(duties []Duty, layover layoverTotals, rates RoleRates) CalculationResult {
	result := CalculationResult{
		FlightPay: decimal.Zero,
		ASBYPay:   decimal.Zero,
	}

	for i := range duties {
		d := &duties[i]
		if !d.Timed {
			continue
		}
		switch d.Kind {
		case KindAirportStandby:
			result.TotalASBYHours += d.Hours
			result.ASBYPay = result.ASBYPay.Add(d.Pay)
		default:
			result.TotalFlightHours += d.Hours
			result.FlightPay = result.FlightPay.Add(d.Pay)
		}
	}

	result.TotalLayoverHours = layover.RestHours
	result.PerDiem = layover.PerDiem
	result.FixedSubtotal = rates.FixedSubtotal()
	result.TotalSalary = result.FixedSubtotal.
		Add(result.FlightPay).
		Add(result.PerDiem).
		Add(result.ASBYPay)
	return result
}

// Recalculate re-derives pairing flags and the full aggregate for a
// duty collection. Every mutation path ends here: no partial updates,
// no cached state beyond the collection itself.
func Recalculate(duties []Duty, rates RoleRates, opts Options) CalculationResult {
	layover := pairLayovers(duties, rates, opts)
	return Aggregate(duties, layover, rates)
}
