/*
Package roster is the core roster-parsing and pay-aggregation engine.

PURPOSE:
  This package turns a raw tabular roster export into typed Duty records,
  links outbound/inbound legs into layover pairs, and aggregates the pay
  components that make up a cabin-crew monthly salary: flight pay, per
  diem, airport-standby pay, and the fixed monthly allowances.

KEY CONCEPTS IN THIS FILE (types.go):
  - Duty: one unit of paid or unpaid work on a calendar date
  - RoleRates: the immutable rate card for a crew rank
  - CalculationResult: the monthly salary aggregate
  - Options: engine configuration (home base, carrier prefix)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every currency amount
  2. Purity: Aggregation is a pure function of duties + rates
  3. Tolerance: A malformed row skips that duty, never the whole roster
  4. No globals: All state lives in a Session owned by the caller

USAGE:
  s := roster.NewSession(rates, roster.Options{})
  if err := s.LoadTable(table); err != nil { ... }
  fmt.Println(s.Calc.TotalSalary)

SEE ALSO:
  - clock.go:     Clock-time and duration arithmetic
  - parse.go:     Duty classification and row parsing
  - segment.go:   Schedule-section and primary-month detection
  - pairing.go:   Greedy layover pairing
  - aggregate.go: Pay aggregation
  - session.go:   Mutation/recalculation engine
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DUTY - One unit of work on a date
// =============================================================================

type DutyKind string

const (
	KindFlight         DutyKind = "flight"
	KindTurnaround     DutyKind = "turnaround"
	KindAirportStandby DutyKind = "asby"
)

// Duty is one parsed roster entry. Unpaid entries (home standby, days
// off) never become Duty records; the classifier drops them.
type Duty struct {
	// Date is the roster's native date string, preserved for display
	// (e.g. "01/04/2025 Tue"). Day is the parsed calendar date used
	// for sorting and month checks; zero when the string is malformed.
	Date string    `json:"date"`
	Day  time.Time `json:"day"`

	Kind         DutyKind `json:"kind"`
	FlightNumber string   `json:"flight_number"` // "FZ123" or "ASBY"
	Sector       string   `json:"sector"`        // canonical "ORIGIN - DESTINATION"

	ReportTime  string `json:"report_time"`  // HH:MM
	DebriefTime string `json:"debrief_time"` // HH:MM

	// Timed is false for intermediate turnaround legs that the roster
	// gives no times for. Untimed duties carry zero hours and zero pay
	// but stay in the collection so the gap is visible.
	Timed bool            `json:"timed"`
	Hours float64         `json:"hours"`
	Pay   decimal.Decimal `json:"pay"`

	// Pairing flags, mutually exclusive. Set only by the pairing pass.
	LayoverOutbound bool `json:"layover_outbound"`
	LayoverInbound  bool `json:"layover_inbound"`
}

// Paired reports whether this duty is half of a layover pair.
func (d *Duty) Paired() bool { return d.LayoverOutbound || d.LayoverInbound }

// =============================================================================
// ROLE RATES - Immutable rate card per crew rank
// =============================================================================

// RoleRates is the rate card for one crew rank. Fixed components are
// monthly currency amounts; the rates are currency per hour.
type RoleRates struct {
	Role                    string          `json:"role"`
	BasicSalary             decimal.Decimal `json:"basic_salary"`
	HousingAllowance        decimal.Decimal `json:"housing_allowance"`
	TransportationAllowance decimal.Decimal `json:"transportation_allowance"`
	FlightPayRate           decimal.Decimal `json:"flight_pay_rate"`
	ASBYRate                decimal.Decimal `json:"asby_rate"`
	PerDiemRate             decimal.Decimal `json:"per_diem_rate"`
}

// FixedSubtotal is the sum of the fixed monthly components.
func (r RoleRates) FixedSubtotal() decimal.Decimal {
	return r.BasicSalary.Add(r.HousingAllowance).Add(r.TransportationAllowance)
}

// RateTable maps a role key ("ccm", "sccm", ...) to its rate card.
type RateTable map[string]RoleRates

// =============================================================================
// CALCULATION RESULT - Monthly salary aggregate
// =============================================================================

// CalculationResult is rebuilt wholesale on every recompute. It is a
// pure function of the duty collection and the rate card; the engine
// never patches it incrementally.
//
// Invariant: TotalSalary = FixedSubtotal + FlightPay + PerDiem + ASBYPay.
type CalculationResult struct {
	TotalFlightHours  float64 `json:"total_flight_hours"`
	TotalLayoverHours float64 `json:"total_layover_hours"`
	TotalASBYHours    float64 `json:"total_asby_hours"`

	FlightPay     decimal.Decimal `json:"flight_pay"`
	PerDiem       decimal.Decimal `json:"per_diem"`
	ASBYPay       decimal.Decimal `json:"asby_pay"`
	FixedSubtotal decimal.Decimal `json:"fixed_subtotal"`
	TotalSalary   decimal.Decimal `json:"total_salary"`
}

// =============================================================================
// OPTIONS - Engine configuration
// =============================================================================

const (
	DefaultHomeBase      = "DXB"
	DefaultCarrierPrefix = "FZ"

	// DebriefDeductionHours is deducted from every timed flight leg's
	// duty period (the 30-minute debrief is unpaid). ASBY is exempt.
	DebriefDeductionHours = 0.5
)

// Options configures the engine. The zero value is usable: defaults are
// applied on first use.
type Options struct {
	HomeBase      string // airport code layovers pivot on (default "DXB")
	CarrierPrefix string // flight-number prefix that marks a flight duty (default "FZ")

	// Now supplies the clock for the primary-month fallback. Tests
	// pin it; production leaves it nil for time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.HomeBase == "" {
		o.HomeBase = DefaultHomeBase
	}
	if o.CarrierPrefix == "" {
		o.CarrierPrefix = DefaultCarrierPrefix
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// payFor prices a duration at an hourly rate.
func payFor(hours float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(rate)
}
