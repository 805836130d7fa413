/*
pairing.go - Greedy layover pairing

PURPOSE:
  Links outbound flight duties leaving home base with the first later
  return duty from the same destination, and prices the rest period in
  between as per-diem.

POLICY:
  Pairing is greedy, first-match, left-to-right. It is NOT globally
  optimal and can mis-pair rosters with overlapping candidate
  destinations; displayed pay depends on this exact behavior, so it is
  preserved as a documented approximation.
*/
package roster

import (
	"strings"

	"github.com/shopspring/decimal"
)

// layoverTotals is the pairing pass's contribution to the aggregate.
type layoverTotals struct {
	RestHours float64
	PerDiem   decimal.Decimal
}

// pairLayovers clears all pairing flags, re-links layover pairs in
// place, and returns the per-diem totals. Each duty participates in at
// most one pair; the first unconsumed matching return wins.
func pairLayovers(duties []Duty, rates RoleRates, opts Options) layoverTotals {
	opts = opts.withDefaults()
	outboundPrefix := opts.HomeBase + " - "

	for i := range duties {
		duties[i].LayoverOutbound = false
		duties[i].LayoverInbound = false
	}

	totals := layoverTotals{PerDiem: decimal.Zero}

	for i := range duties {
		out := &duties[i]
		if out.Kind != KindFlight || !out.Timed || out.Paired() {
			continue
		}
		if !strings.HasPrefix(out.Sector, outboundPrefix) {
			continue
		}
		destination := strings.TrimPrefix(out.Sector, outboundPrefix)
		returnSector := destination + " - " + opts.HomeBase

		for j := i + 1; j < len(duties); j++ {
			in := &duties[j]
			if in.Kind != KindFlight || in.Paired() {
				continue
			}
			if in.Sector != returnSector {
				continue
			}

			out.LayoverOutbound = true
			in.LayoverInbound = true

			rest := LayoverRestHours(out.Date, out.DebriefTime, in.Date, in.ReportTime)
			totals.RestHours += rest
			totals.PerDiem = totals.PerDiem.Add(payFor(rest, rates.PerDiemRate))
			break
		}
	}
	return totals
}
