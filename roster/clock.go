/*
clock.go - Clock-time and duration arithmetic

PURPOSE:
  Parses roster clock-time strings into fractional hours and computes
  elapsed durations, including midnight rollover and multi-day layover
  rest periods.

TOLERANCE POLICY:
  Every parser here reports failure instead of erroring. A malformed
  time means "skip this duty", never "abort the roster": a botched
  export must not block salary calculation for the valid rows.

SEE ALSO:
  - parse.go:   Callers that skip duties on parse failure
  - pairing.go: LayoverRestHours consumer
*/
package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CLOCK TIME
// =============================================================================

// ParseClockTime parses a roster clock time into fractional hours.
// It tolerates the export's quirks: a leading 'A' marks an actual
// (vs. scheduled) time, stray non-digit characters appear around the
// value, and the colon is sometimes missing ("1430" -> "14:30").
// ok is false on anything that does not reduce to a valid HH:MM.
func ParseClockTime(raw string) (hours float64, ok bool) {
	if raw == "" {
		return 0, false
	}
	s := raw
	if s[0] == 'A' {
		s = s[1:]
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if len(s) == 4 && !strings.Contains(s, ":") {
		s = s[:2] + ":" + s[2:]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

// DurationHours returns the elapsed hours from start to end, rolling
// over midnight when end precedes start. Never negative for inputs in
// [0, 24).
func DurationHours(start, end float64) float64 {
	if end < start {
		return (24 - start) + end
	}
	return end - start
}

// FormatHoursMinutes renders decimal hours as "H:MM" for display.
func FormatHoursMinutes(decimalHours float64) string {
	h := int(decimalHours)
	m := int(math.Round((decimalHours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%d:%02d", h, m)
}

// =============================================================================
// DATES
// =============================================================================

// ParseRosterDate parses a roster date. It accepts the export's native
// "DD/MM/YYYY" (with an optional trailing weekday, "01/04/2025 Tue")
// and the manual-entry form's "YYYY-MM-DD".
func ParseRosterDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Drop a trailing weekday token.
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}

	if strings.Contains(s, "/") {
		t, err := time.Parse("2/1/2006", s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthOf extracts the calendar month from a roster date string.
// ok is false when the string has no parseable month.
func MonthOf(dateStr string) (time.Month, bool) {
	t, ok := ParseRosterDate(dateStr)
	if !ok {
		return 0, false
	}
	return t.Month(), true
}

// LayoverRestHours computes the rest period between an outbound duty's
// debrief and the return duty's report, across date boundaries.
//
// Roster convention: a duty that debriefs before 12:00 debriefed after
// midnight, so the outbound date advances one day. Returns 0 on any
// unparseable component; the pair then contributes no per diem.
func LayoverRestHours(outboundDate, outboundDebrief, returnDate, returnReport string) float64 {
	outDay, ok1 := ParseRosterDate(outboundDate)
	retDay, ok2 := ParseRosterDate(returnDate)
	if !ok1 || !ok2 {
		return 0
	}
	outTime, ok1 := ParseClockTime(outboundDebrief)
	retTime, ok2 := ParseClockTime(returnReport)
	if !ok1 || !ok2 {
		return 0
	}

	if outTime < 12 {
		outDay = outDay.AddDate(0, 0, 1)
	}

	outInstant := atClock(outDay, outTime)
	retInstant := atClock(retDay, retTime)

	rest := retInstant.Sub(outInstant).Hours()
	return math.Max(0, rest)
}

func atClock(day time.Time, clock float64) time.Time {
	h := int(clock)
	m := int(math.Round((clock - float64(h)) * 60))
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

// =============================================================================
// MONTH NAMES
// =============================================================================

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name for 1-12, "" otherwise.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// PaymentMonth returns the month salary for the given roster month is
// paid in: the following month, with December rolling into the next
// year.
func PaymentMonth(month time.Month, year int) (time.Month, int) {
	if month == time.December {
		return time.January, year + 1
	}
	return month + 1, year
}
