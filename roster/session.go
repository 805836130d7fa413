/*
session.go - Mutation/recalculation engine

PURPOSE:
  A Session owns one roster month: the parsed duty collection, the
  rate card it was priced with, and the derived aggregate. Mutations
  (edit a debrief time, delete a duty or layover pair, add a manual
  duty) transform the collection and end with a full deterministic
  recompute - pairing and aggregation are cheap and pure, so nothing
  is ever patched incrementally.

STATE:
  Each roster/caller gets its own Session instance; the engine's
  functions are transforms over it. No package-level state.

ATOMICITY:
  Each mutation is all-or-nothing from the caller's perspective:
  validation failures reject the operation before anything changes.
*/
package roster

import (
	"sort"
	"strings"
	"time"
)

// Session is the in-memory state for one roster month.
type Session struct {
	Rates RoleRates
	Opts  Options

	Duties []Duty
	Calc   CalculationResult

	Month       time.Month
	Year        int
	MonthName   string
	MonthSource MonthSource

	ExcludedRows int
	Warnings     []string
}

// NewSession creates an empty session for the given rate card.
func NewSession(rates RoleRates, opts Options) *Session {
	return &Session{Rates: rates, Opts: opts.withDefaults()}
}

// =============================================================================
// FULL PIPELINE - table in, computed session out
// =============================================================================

// LoadTable runs the full pipeline over a raw roster table: clean,
// segment, classify rows, pair layovers, aggregate. Rows outside the
// primary month are excluded and counted. Returns ErrEmptyTable for an
// empty input and ErrNoDutiesFound when parsing produced nothing; in
// the latter case the session still carries the segmentation metadata.
func (s *Session) LoadTable(table [][]string) error {
	if len(table) == 0 {
		return ErrEmptyTable
	}

	cleaned := CleanTable(table)
	seg := FindSegment(cleaned, s.Opts)

	s.Month = seg.Month
	s.Year = seg.Year
	s.MonthName = seg.MonthName
	s.MonthSource = seg.Source
	s.Warnings = seg.Warnings
	s.ExcludedRows = 0
	s.Duties = nil

	for i := seg.Start; i < seg.End && i < len(cleaned); i++ {
		row := rowFromCells(cleaned[i])
		if row.Date == "Date" { // embedded header row
			continue
		}
		if row.Date == "" || row.Duties == "" {
			continue
		}

		// Exports bleed trailing/leading days from adjacent months.
		if month, ok := MonthOf(row.Date); !ok || month != seg.Month {
			s.ExcludedRows++
			continue
		}

		s.Duties = append(s.Duties, ParseRow(row, s.Rates, s.Opts)...)
	}

	s.recalc()

	if len(s.Duties) == 0 {
		return ErrNoDutiesFound
	}
	return nil
}

// recalc re-derives pairing and the aggregate from the current
// collection. Every mutation ends with this call.
func (s *Session) recalc() {
	s.Calc = Recalculate(s.Duties, s.Rates, s.Opts)
}

// Refresh recomputes pairing and the aggregate without mutating the
// collection. Callers that rehydrate a session from storage use it to
// guarantee the salary identity before serving results.
func (s *Session) Refresh() { s.recalc() }

// Reprice swaps the rate card and re-prices every duty and the
// aggregate, preserving hours and pairing topology. Used when the
// crew member switches role.
func (s *Session) Reprice(rates RoleRates) {
	s.Rates = rates
	for i := range s.Duties {
		d := &s.Duties[i]
		if !d.Timed {
			continue
		}
		if d.Kind == KindAirportStandby {
			d.Pay = payFor(d.Hours, rates.ASBYRate)
		} else {
			d.Pay = payFor(d.Hours, rates.FlightPayRate)
		}
	}
	s.recalc()
}

// =============================================================================
// MUTATIONS
// =============================================================================

// EditDebriefTime updates one duty's debrief time and recomputes its
// hours and pay from its own report time. An unparseable time rejects
// the edit with a ValidationError and mutates nothing.
func (s *Session) EditDebriefTime(index int, newTime string) error {
	if index < 0 || index >= len(s.Duties) {
		return ErrDutyNotFound
	}
	d := &s.Duties[index]

	start, ok := ParseClockTime(d.ReportTime)
	if !ok {
		return invalidf("report_time", "duty has no parseable report time")
	}
	end, ok := ParseClockTime(newTime)
	if !ok {
		return invalidf("debrief_time", "not a valid HH:MM time: %q", newTime)
	}

	hours := DurationHours(start, end)
	rate := s.Rates.FlightPayRate
	if d.Kind == KindAirportStandby {
		rate = s.Rates.ASBYRate
	} else {
		hours -= DebriefDeductionHours
	}
	if hours < 0 {
		hours = 0
	}

	d.DebriefTime = newTime
	d.Timed = true
	d.Hours = hours
	d.Pay = payFor(hours, rate)

	s.recalc()
	return nil
}

// DeleteDuty removes the duty at index. Deleting a layover outbound
// also removes its paired inbound, located by destination-sector match
// rather than a stored back-reference, so prior edits cannot orphan
// the pair. Returns the number of duties removed. Ends with a full
// re-pair and re-aggregate over the remainder.
func (s *Session) DeleteDuty(index int) (int, error) {
	if index < 0 || index >= len(s.Duties) {
		return 0, ErrDutyNotFound
	}

	remove := map[int]bool{index: true}

	target := s.Duties[index]
	if target.LayoverOutbound {
		prefix := s.Opts.HomeBase + " - "
		if strings.HasPrefix(target.Sector, prefix) {
			destination := strings.TrimPrefix(target.Sector, prefix)
			returnSector := destination + " - " + s.Opts.HomeBase
			for j := range s.Duties {
				if j != index && s.Duties[j].LayoverInbound && s.Duties[j].Sector == returnSector {
					remove[j] = true
					break
				}
			}
		}
	}

	kept := s.Duties[:0]
	for i := range s.Duties {
		if !remove[i] {
			kept = append(kept, s.Duties[i])
		}
	}
	s.Duties = kept

	s.recalc()
	return len(remove), nil
}

// =============================================================================
// MANUAL ENTRY
// =============================================================================

// ManualDutyKind selects the manual-entry form.
type ManualDutyKind string

const (
	ManualTurnaround ManualDutyKind = "turnaround"
	ManualLayover    ManualDutyKind = "layover"
	ManualASBY       ManualDutyKind = "asby"
)

// ManualDutyInput is the manual-entry contract. Dates are DD/MM/YYYY
// or YYYY-MM-DD; times are strict 24-hour HH:MM.
type ManualDutyInput struct {
	Kind         ManualDutyKind `json:"kind"`
	Date         string         `json:"date"`
	FlightNumber string         `json:"flight_number,omitempty"`
	Sector       string         `json:"sector,omitempty"`
	ReportTime   string         `json:"report_time"`
	DebriefTime  string         `json:"debrief_time"`

	// Layover only: the return leg.
	ReturnDate         string `json:"return_date,omitempty"`
	ReturnFlightNumber string `json:"return_flight_number,omitempty"`
	ReturnReportTime   string `json:"return_report_time,omitempty"`
	ReturnDebriefTime  string `json:"return_debrief_time,omitempty"`
}

// AddManualDuty validates the input, constructs the duty record(s) -
// two for a layover, the return leg synthesized with the swapped
// sector - inserts them, re-sorts the collection, and recomputes.
// Validation failures reject the whole operation with no mutation.
func (s *Session) AddManualDuty(in ManualDutyInput) error {
	day, ok := ParseRosterDate(in.Date)
	if !ok {
		return invalidf("date", "not a valid date: %q", in.Date)
	}
	if !isStrictClockTime(in.ReportTime) {
		return invalidf("report_time", "not a valid HH:MM time: %q", in.ReportTime)
	}
	if !isStrictClockTime(in.DebriefTime) {
		return invalidf("debrief_time", "not a valid HH:MM time: %q", in.DebriefTime)
	}

	var added []Duty

	switch in.Kind {
	case ManualASBY:
		start, _ := ParseClockTime(in.ReportTime)
		end, _ := ParseClockTime(in.DebriefTime)
		hours := DurationHours(start, end)
		added = append(added, Duty{
			Date:         in.Date,
			Day:          day,
			Kind:         KindAirportStandby,
			FlightNumber: "ASBY",
			Sector:       "Airport Standby",
			ReportTime:   in.ReportTime,
			DebriefTime:  in.DebriefTime,
			Timed:        true,
			Hours:        hours,
			Pay:          payFor(hours, s.Rates.ASBYRate),
		})

	case ManualTurnaround, ManualLayover:
		if in.FlightNumber == "" {
			return invalidf("flight_number", "required for flight duties")
		}
		if in.Sector == "" {
			return invalidf("sector", "required for flight duties")
		}

		sector := in.Sector
		if in.Kind == ManualLayover && !strings.HasPrefix(sector, s.Opts.HomeBase) {
			// Outbound legs leave home base; reorient a reversed entry.
			parts := strings.Split(sector, " - ")
			if len(parts) == 2 {
				sector = s.Opts.HomeBase + " - " + parts[0]
			}
		}

		outbound := s.manualFlightDuty(in.Date, day, in.FlightNumber, sector, in.ReportTime, in.DebriefTime)

		if in.Kind == ManualLayover {
			retDay, ok := ParseRosterDate(in.ReturnDate)
			if !ok {
				return invalidf("return_date", "not a valid date: %q", in.ReturnDate)
			}
			if in.ReturnFlightNumber == "" {
				return invalidf("return_flight_number", "required for layovers")
			}
			if !isStrictClockTime(in.ReturnReportTime) {
				return invalidf("return_report_time", "not a valid HH:MM time: %q", in.ReturnReportTime)
			}
			if !isStrictClockTime(in.ReturnDebriefTime) {
				return invalidf("return_debrief_time", "not a valid HH:MM time: %q", in.ReturnDebriefTime)
			}

			parts := strings.Split(sector, " - ")
			if len(parts) != 2 {
				return invalidf("sector", "layover sector must be %q - destination", s.Opts.HomeBase)
			}
			returnSector := parts[1] + " - " + s.Opts.HomeBase

			inbound := s.manualFlightDuty(in.ReturnDate, retDay, in.ReturnFlightNumber, returnSector,
				in.ReturnReportTime, in.ReturnDebriefTime)

			// Pre-flag so the same-date sort tie-break sees the pair;
			// recalc re-derives the flags from the sectors anyway.
			outbound.LayoverOutbound = true
			inbound.LayoverInbound = true
			added = append(added, outbound, inbound)
		} else {
			added = append(added, outbound)
		}

	default:
		return invalidf("kind", "unknown duty kind: %q", in.Kind)
	}

	s.Duties = append(s.Duties, added...)
	s.sortDuties()
	s.recalc()
	return nil
}

func (s *Session) manualFlightDuty(date string, day time.Time, flightNumber, sector, report, debrief string) Duty {
	start, _ := ParseClockTime(report)
	end, _ := ParseClockTime(debrief)
	hours := DurationHours(start, end) - DebriefDeductionHours
	if hours < 0 {
		hours = 0
	}
	return Duty{
		Date:         date,
		Day:          day,
		Kind:         KindFlight,
		FlightNumber: flightNumber,
		Sector:       sector,
		ReportTime:   report,
		DebriefTime:  debrief,
		Timed:        true,
		Hours:        hours,
		Pay:          payFor(hours, s.Rates.FlightPayRate),
	}
}

// isStrictClockTime enforces the manual-entry "HH:MM" contract, which
// is stricter than the tolerant roster parser.
func isStrictClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for i, c := range []byte(s) {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}

// sortDuties orders the collection by date, then - for two layover
// halves on the same date - outbound before inbound (home-base sector
// first), then by report time. Keeps the pairing scan and the display
// order stable after manual inserts.
func (s *Session) sortDuties() {
	homePrefix := s.Opts.HomeBase + " - "
	sort.SliceStable(s.Duties, func(i, j int) bool {
		a, b := &s.Duties[i], &s.Duties[j]
		if !a.Day.Equal(b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.Paired() && b.Paired() {
			aHome := strings.HasPrefix(a.Sector, homePrefix)
			bHome := strings.HasPrefix(b.Sector, homePrefix)
			if aHome != bHome {
				return aHome
			}
		}
		at, _ := ParseClockTime(a.ReportTime)
		bt, _ := ParseClockTime(b.ReportTime)
		return at < bt
	})
}
