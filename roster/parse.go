/*
parse.go - Duty classification and row parsing

PURPOSE:
  Converts one schedule row into zero or more normalized Duty records.
  A row carries six cells: Date, Duties, Details, Reporting,
  Actual Times, Debriefing.

CLASSIFICATION:
  OFF / *OFF / X      rest day, no duty
  SBY                 home standby, unpaid, no duty
  ASBY                airport standby, paid hourly from Actual Times
  <prefix> in Duties  flight duty (single leg or multi-leg turnaround)
  anything else       unrecognized, skipped (forward compatibility)

TURNAROUND GRAMMAR:
  A sector string is airport codes joined by " - ". A simple leg has
  exactly two codes ("DXB - BOM"); more than two dash-separated
  segments means the row encodes a same-day turnaround through
  intermediate stops ("DXB - IKA IKA - DXB"). This one grammar is the
  canonical turnaround test; nothing downstream re-derives it.

SEE ALSO:
  - segment.go: Produces the cleaned rows this file consumes
  - clock.go:   Time parsing used throughout
*/
package roster

import "strings"

// Row is one schedule row after cell cleaning.
type Row struct {
	Date        string
	Duties      string
	Details     string
	Reporting   string
	ActualTimes string
	Debriefing  string
}

// rowFromCells adapts a raw table row, tolerating short rows.
func rowFromCells(cells []string) Row {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return Row{
		Date:        get(0),
		Duties:      get(1),
		Details:     get(2),
		Reporting:   get(3),
		ActualTimes: get(4),
		Debriefing:  get(5),
	}
}

// =============================================================================
// CLASSIFIER
// =============================================================================

type dutyClass int

const (
	classUnknown dutyClass = iota
	classOffRest
	classHomeStandby
	classAirportStandby
	classFlight
)

func classify(dutyCode, carrierPrefix string) dutyClass {
	switch dutyCode {
	case "OFF", "*OFF", "X":
		return classOffRest
	case "SBY":
		return classHomeStandby
	case "ASBY":
		return classAirportStandby
	}
	if strings.Contains(dutyCode, carrierPrefix) {
		return classFlight
	}
	return classUnknown
}

// IsTurnaroundSector applies the canonical sector grammar: more than
// two " - "-separated segments means a multi-stop same-day turnaround.
func IsTurnaroundSector(sector string) bool {
	return len(strings.Split(sector, " - ")) > 2
}

// =============================================================================
// ROW PARSER
// =============================================================================

// ParseRow classifies one schedule row and prices the duties it
// produces. Malformed times skip the affected duty; the row never
// errors.
func ParseRow(row Row, rates RoleRates, opts Options) []Duty {
	opts = opts.withDefaults()

	switch classify(row.Duties, opts.CarrierPrefix) {
	case classAirportStandby:
		return parseAirportStandby(row, rates)
	case classFlight:
		return parseFlightDuty(row, rates)
	default:
		// Rest days, home standby, and unknown codes produce nothing.
		return nil
	}
}

// parseAirportStandby prices an ASBY row from its "HH:MM - HH:MM"
// actual-times range. No debrief deduction applies to standby.
func parseAirportStandby(row Row, rates RoleRates) []Duty {
	timeRange := strings.Split(row.ActualTimes, " - ")
	if len(timeRange) != 2 {
		return nil
	}
	start, ok1 := ParseClockTime(timeRange[0])
	end, ok2 := ParseClockTime(timeRange[1])
	if !ok1 || !ok2 {
		return nil
	}

	hours := DurationHours(start, end)
	day, _ := ParseRosterDate(row.Date)
	return []Duty{{
		Date:         row.Date,
		Day:          day,
		Kind:         KindAirportStandby,
		FlightNumber: "ASBY",
		Sector:       "Airport Standby",
		ReportTime:   strings.TrimSpace(timeRange[0]),
		DebriefTime:  strings.TrimSpace(timeRange[1]),
		Timed:        true,
		Hours:        hours,
		Pay:          payFor(hours, rates.ASBYRate),
	}}
}

// parseFlightDuty handles single-leg flights and newline-separated
// multi-leg turnarounds.
func parseFlightDuty(row Row, rates RoleRates) []Duty {
	flightNumbers := strings.Split(row.Duties, "\n")
	sectors := strings.Split(row.Details, "\n")

	if len(flightNumbers) == 1 {
		return parseSingleLeg(row, rates)
	}
	return parseMultiLeg(row, flightNumbers, sectors, rates)
}

func parseSingleLeg(row Row, rates RoleRates) []Duty {
	start, ok1 := ParseClockTime(row.Reporting)
	end, ok2 := ParseClockTime(row.Debriefing)
	if !ok1 || !ok2 {
		return nil
	}

	hours := DurationHours(start, end) - DebriefDeductionHours
	if hours < 0 {
		hours = 0
	}

	kind := KindFlight
	if IsTurnaroundSector(row.Details) {
		kind = KindTurnaround
	}

	day, _ := ParseRosterDate(row.Date)
	return []Duty{{
		Date:         row.Date,
		Day:          day,
		Kind:         kind,
		FlightNumber: row.Duties,
		Sector:       row.Details,
		ReportTime:   row.Reporting,
		DebriefTime:  row.Debriefing,
		Timed:        true,
		Hours:        hours,
		Pay:          payFor(hours, rates.FlightPayRate),
	}}
}

// parseMultiLeg emits one duty per turnaround leg. The roster only
// times the whole duty period: the first leg carries the report time,
// the last leg the debrief time, and no leg has both. Legs without
// both times are kept as explicit untimed, unpriced records rather
// than silently dropped. A leg with both times (only possible in a
// degenerate single-leg list) gets the debrief deduction on the last
// leg only.
func parseMultiLeg(row Row, flightNumbers, sectors []string, rates RoleRates) []Duty {
	day, _ := ParseRosterDate(row.Date)

	duties := make([]Duty, 0, len(flightNumbers))
	for i, fn := range flightNumbers {
		last := i == len(flightNumbers)-1

		report := ""
		if i == 0 {
			report = row.Reporting
		}
		debrief := ""
		if last {
			debrief = row.Debriefing
		}

		sector := ""
		if i < len(sectors) {
			sector = sectors[i]
		}

		d := Duty{
			Date:         row.Date,
			Day:          day,
			Kind:         KindTurnaround,
			FlightNumber: strings.TrimSpace(fn),
			Sector:       strings.TrimSpace(sector),
			ReportTime:   report,
			DebriefTime:  debrief,
		}

		if report != "" && debrief != "" {
			if start, ok1 := ParseClockTime(report); ok1 {
				if end, ok2 := ParseClockTime(debrief); ok2 {
					hours := DurationHours(start, end)
					if last {
						hours -= DebriefDeductionHours
					}
					if hours < 0 {
						hours = 0
					}
					d.Timed = true
					d.Hours = hours
					d.Pay = payFor(hours, rates.FlightPayRate)
				}
			}
		}

		duties = append(duties, d)
	}
	return duties
}
