/*
store.go - Persistence interface for computed roster months

PURPOSE:
  The engine itself is stateless beyond a Session; storing months is
  the surrounding shell's concern. MonthStore is the low-level
  persistence interface, implemented by store/sqlite for the server
  and store/memory for tests.

One record per crew member per calendar month. Saving the same month
again replaces it - the record is always the latest full recompute,
never an incremental patch.
*/
package roster

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMonthNotFound is returned by stores when no record matches.
var ErrMonthNotFound = errors.New("roster month not found")

// MonthRecord is one stored roster month: the full duty collection and
// the aggregate it derives.
type MonthRecord struct {
	ID     string `json:"id"`
	CrewID string `json:"crew_id"`
	Role   string `json:"role"`

	Month     int    `json:"month"` // 1-12
	Year      int    `json:"year"`
	MonthName string `json:"month_name"`

	Duties       []Duty            `json:"duties"`
	Calc         CalculationResult `json:"calc"`
	ExcludedRows int               `json:"excluded_rows"`

	UpdatedAt time.Time `json:"updated_at"`
}

// MonthStore persists computed roster months.
type MonthStore interface {
	// SaveMonth inserts or replaces the record for (CrewID, Month, Year).
	SaveMonth(ctx context.Context, rec MonthRecord) error

	// GetMonth returns the record or ErrMonthNotFound.
	GetMonth(ctx context.Context, crewID string, month, year int) (*MonthRecord, error)

	// ListMonths returns all records for a crew member, newest first.
	ListMonths(ctx context.Context, crewID string) ([]MonthRecord, error)

	// DeleteMonth removes a record. Missing records are not an error.
	DeleteMonth(ctx context.Context, crewID string, month, year int) error
}

// =============================================================================
// YEAR TO DATE
// =============================================================================

// MonthEarnings is one month's contribution to the year-to-date view.
type MonthEarnings struct {
	Month       int             `json:"month"`
	MonthName   string          `json:"month_name"`
	Year        int             `json:"year"`
	Earnings    decimal.Decimal `json:"earnings"`
	FlightHours float64         `json:"flight_hours"`
}

// YearToDateSummary aggregates stored months for one calendar year.
type YearToDateSummary struct {
	Year             int             `json:"year"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalFlightHours float64         `json:"total_flight_hours"`
	Months           []MonthEarnings `json:"months"`
}

// YearToDate sums stored month records for the given year, months in
// calendar order. Records from other years are ignored.
func YearToDate(records []MonthRecord, year int) YearToDateSummary {
	summary := YearToDateSummary{Year: year, TotalEarnings: decimal.Zero}

	for _, rec := range records {
		if rec.Year != year {
			continue
		}
		summary.TotalEarnings = summary.TotalEarnings.Add(rec.Calc.TotalSalary)
		summary.TotalFlightHours += rec.Calc.TotalFlightHours
		summary.Months = append(summary.Months, MonthEarnings{
			Month:       rec.Month,
			MonthName:   rec.MonthName,
			Year:        rec.Year,
			Earnings:    rec.Calc.TotalSalary,
			FlightHours: rec.Calc.TotalFlightHours,
		})
	}

	sort.Slice(summary.Months, func(i, j int) bool {
		return summary.Months[i].Month < summary.Months[j].Month
	})
	return summary
}
