/*
segment.go - Schedule-section and primary-month detection

PURPOSE:
  Locates the schedule rows inside the full tabular dump and decides
  which calendar month the roster represents. Exports bleed a few days
  from adjacent months; those rows are excluded and counted.

MARKERS:
  "Schedule Details"            row before the schedule header
  Date / Duties / Details       fallback header row
  "Total Hours and Statistics"  end of the schedule section

MONTH DETECTION (in order):
  1. A "D/M/Y - D/M/Y" date-range cell in the first ten rows
  2. The first dated row inside the schedule bounds
  3. The current calendar month, surfaced as a warning
*/
package roster

import (
	"fmt"
	"strings"
	"time"
)

const (
	markerScheduleStart = "Schedule Details"
	markerScheduleEnd   = "Total Hours and Statistics"
)

// MonthSource records how the primary month was determined, so the
// caller can explain a fallback to the user instead of hiding it.
type MonthSource string

const (
	MonthFromHeaderRange MonthSource = "header_range"
	MonthFromFirstRow    MonthSource = "first_row"
	MonthFromClock       MonthSource = "clock_fallback"
)

// Segment describes the located schedule section and detected month.
type Segment struct {
	Start int // first schedule row (inclusive)
	End   int // one past the last schedule row

	Month     time.Month
	Year      int
	MonthName string
	Source    MonthSource

	Warnings []string
}

// =============================================================================
// CELL CLEANING
// =============================================================================

// CleanTable pre-processes every cell: strips mojibake replacement
// characters, normalizes CRLF, and collapses runs of spaces and tabs.
// Newlines inside a cell are kept - they separate turnaround legs.
func CleanTable(table [][]string) [][]string {
	cleaned := make([][]string, len(table))
	for i, row := range table {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = cleanCell(cell)
		}
		cleaned[i] = out
	}
	return cleaned
}

func cleanCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\r\n", "\n")
	cell = strings.Map(func(r rune) rune {
		if r == '�' || r == ' ' {
			return -1
		}
		return r
	}, cell)

	// Collapse runs of spaces/tabs without touching newlines.
	var b strings.Builder
	space := false
	for _, r := range cell {
		switch r {
		case ' ', '\t':
			space = true
		case '\n':
			b.WriteRune('\n')
			space = false
		default:
			if space && b.Len() > 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

// =============================================================================
// SEGMENTATION
// =============================================================================

// FindSegment locates the schedule bounds and the primary month.
// Missing markers degrade to heuristics; nothing here errors.
func FindSegment(table [][]string, opts Options) Segment {
	opts = opts.withDefaults()
	seg := Segment{End: len(table)}

	for i, row := range table {
		if len(row) > 0 && row[0] == markerScheduleStart {
			seg.Start = i + 1
			break
		}
	}
	if seg.Start == 0 {
		for i, row := range table {
			if len(row) >= 3 && row[0] == "Date" && row[1] == "Duties" && row[2] == "Details" {
				seg.Start = i + 1
				break
			}
		}
	}
	if seg.Start == 0 {
		seg.Warnings = append(seg.Warnings, "schedule markers not found; scanning whole table")
	}

	for i := seg.Start; i < len(table); i++ {
		if len(table[i]) > 0 && table[i][0] == markerScheduleEnd {
			seg.End = i
			break
		}
	}

	detectPrimaryMonth(table, &seg, opts)
	return seg
}

// detectPrimaryMonth fills the Month/Year/Source fields.
func detectPrimaryMonth(table [][]string, seg *Segment, opts Options) {
	// 1. A "D/M/Y - D/M/Y" range cell near the top of the export.
	limit := len(table)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		for _, cell := range table[i] {
			if !strings.Contains(cell, "/") || !strings.Contains(cell, " - ") {
				continue
			}
			rangeParts := strings.Split(cell, " - ")
			if len(rangeParts) != 2 {
				continue
			}
			startDate, ok := ParseRosterDate(rangeParts[0])
			if !ok {
				continue
			}
			seg.Month = startDate.Month()
			seg.Year = startDate.Year()
			seg.MonthName = MonthName(int(seg.Month))
			seg.Source = MonthFromHeaderRange
			return
		}
	}

	// 2. The first dated row within the schedule bounds.
	for i := seg.Start; i < seg.End && i < len(table); i++ {
		if len(table[i]) == 0 || !strings.Contains(table[i][0], "/") {
			continue
		}
		day, ok := ParseRosterDate(table[i][0])
		if !ok {
			continue
		}
		seg.Month = day.Month()
		seg.Year = day.Year()
		seg.MonthName = MonthName(int(seg.Month))
		seg.Source = MonthFromFirstRow
		return
	}

	// 3. Current calendar month. Surfaced, not hidden.
	now := opts.Now()
	seg.Month = now.Month()
	seg.Year = now.Year()
	seg.MonthName = MonthName(int(seg.Month))
	seg.Source = MonthFromClock
	seg.Warnings = append(seg.Warnings,
		fmt.Sprintf("roster month not detected; assuming current month %s %d", seg.MonthName, seg.Year))
}
