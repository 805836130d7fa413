/*
Package rates provides JSON to Go rate-card conversion.

PURPOSE:
  Converts JSON rate-table definitions into roster.RateTable objects.
  Rates are configuration, not code: airlines and ranks vary, so the
  engine never hard-codes a rate card - it receives one from here.

JSON SCHEMA:
  {
    "roles": [
      {
        "role": "ccm",
        "basic_salary": 3275,
        "housing_allowance": 4000,
        "transportation_allowance": 1000,
        "flight_pay_rate": 50,
        "per_diem_rate": 8.82,
        "asby_rate": 50
      }
    ]
  }

DEFAULTS:
  Default() carries the two known ranks - Cabin Crew Member ("ccm")
  and Senior Cabin Crew Member ("sccm") - with the carrier's published
  AED figures. A missing asby_rate defaults to the flight pay rate.

USAGE:
  table := rates.Default()
  rr, err := table.Lookup("ccm")

SEE ALSO:
  - roster/types.go: RoleRates and RateTable definitions
*/
package rates

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/skywage/roster-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TableJSON is the JSON representation of a rate table.
type TableJSON struct {
	Roles []RoleJSON `json:"roles"`
}

// RoleJSON is one role's rate card in JSON form.
type RoleJSON struct {
	Role                    string  `json:"role"`
	BasicSalary             float64 `json:"basic_salary"`
	HousingAllowance        float64 `json:"housing_allowance"`
	TransportationAllowance float64 `json:"transportation_allowance"`
	FlightPayRate           float64 `json:"flight_pay_rate"`
	PerDiemRate             float64 `json:"per_diem_rate"`
	ASBYRate                float64 `json:"asby_rate,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// Parse converts a JSON rate table into a roster.RateTable.
func Parse(data []byte) (roster.RateTable, error) {
	var tj TableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return nil, fmt.Errorf("parse rate table JSON: %w", err)
	}
	if len(tj.Roles) == 0 {
		return nil, fmt.Errorf("rate table defines no roles")
	}

	table := make(roster.RateTable, len(tj.Roles))
	for _, rj := range tj.Roles {
		if rj.Role == "" {
			return nil, fmt.Errorf("rate table entry missing role key")
		}
		if rj.FlightPayRate <= 0 {
			return nil, fmt.Errorf("role %q: flight_pay_rate must be positive", rj.Role)
		}
		asby := rj.ASBYRate
		if asby == 0 {
			asby = rj.FlightPayRate
		}
		table[rj.Role] = roster.RoleRates{
			Role:                    rj.Role,
			BasicSalary:             decimal.NewFromFloat(rj.BasicSalary),
			HousingAllowance:        decimal.NewFromFloat(rj.HousingAllowance),
			TransportationAllowance: decimal.NewFromFloat(rj.TransportationAllowance),
			FlightPayRate:           decimal.NewFromFloat(rj.FlightPayRate),
			PerDiemRate:             decimal.NewFromFloat(rj.PerDiemRate),
			ASBYRate:                decimal.NewFromFloat(asby),
		}
	}
	return table, nil
}

// Lookup fetches a role's rate card with the engine's sentinel error.
func Lookup(table roster.RateTable, role string) (roster.RoleRates, error) {
	rr, ok := table[role]
	if !ok {
		return roster.RoleRates{}, fmt.Errorf("%w: %q", roster.ErrUnknownRole, role)
	}
	return rr, nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	RoleCCM  = "ccm"  // Cabin Crew Member
	RoleSCCM = "sccm" // Senior Cabin Crew Member
)

// Default returns the built-in rate table for the two known ranks.
func Default() roster.RateTable {
	table, err := Parse([]byte(defaultJSON))
	if err != nil {
		// The literal below is part of the package; failing to parse
		// it is a programming error.
		panic(err)
	}
	return table
}

const defaultJSON = `{
  "roles": [
    {
      "role": "ccm",
      "basic_salary": 3275,
      "housing_allowance": 4000,
      "transportation_allowance": 1000,
      "flight_pay_rate": 50,
      "per_diem_rate": 8.82,
      "asby_rate": 50
    },
    {
      "role": "sccm",
      "basic_salary": 4275,
      "housing_allowance": 5000,
      "transportation_allowance": 1000,
      "flight_pay_rate": 62,
      "per_diem_rate": 8.82,
      "asby_rate": 62
    }
  ]
}`
