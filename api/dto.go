/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and in the engine, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/session.go: ManualDutyInput, the manual-entry contract
*/
package api

import (
	"time"

	"github.com/skywage/roster-engine/roster"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UploadRosterRequest submits a raw roster CSV for one crew member.
type UploadRosterRequest struct {
	CrewID string `json:"crew_id"`
	Role   string `json:"role"`
	CSV    string `json:"csv"`
}

// EditDebriefRequest updates one duty's debrief time.
type EditDebriefRequest struct {
	DebriefTime string `json:"debrief_time"`
}

// RepriceRequest re-prices a stored month under a different role.
type RepriceRequest struct {
	Role string `json:"role"`
}

// DutyDTO represents one duty in API responses.
type DutyDTO struct {
	Index           int     `json:"index"`
	Date            string  `json:"date"`
	Kind            string  `json:"kind"`
	FlightNumber    string  `json:"flight_number"`
	Sector          string  `json:"sector"`
	ReportTime      string  `json:"report_time"`
	DebriefTime     string  `json:"debrief_time"`
	Timed           bool    `json:"timed"`
	Hours           float64 `json:"hours"`
	HoursDisplay    string  `json:"hours_display"`
	Pay             float64 `json:"pay"`
	LayoverOutbound bool    `json:"layover_outbound"`
	LayoverInbound  bool    `json:"layover_inbound"`
}

// CalculationResultDTO is the monthly salary aggregate.
type CalculationResultDTO struct {
	TotalFlightHours  float64 `json:"total_flight_hours"`
	TotalLayoverHours float64 `json:"total_layover_hours"`
	TotalASBYHours    float64 `json:"total_asby_hours"`
	FlightPay         float64 `json:"flight_pay"`
	PerDiem           float64 `json:"per_diem"`
	ASBYPay           float64 `json:"asby_pay"`
	FixedSubtotal     float64 `json:"fixed_subtotal"`
	TotalSalary       float64 `json:"total_salary"`
}

// RosterDTO is one computed roster month.
type RosterDTO struct {
	ID           string               `json:"id"`
	CrewID       string               `json:"crew_id"`
	Role         string               `json:"role"`
	Month        int                  `json:"month"`
	Year         int                  `json:"year"`
	MonthName    string               `json:"month_name"`
	PaymentMonth string               `json:"payment_month"`
	PaymentYear  int                  `json:"payment_year"`
	ExcludedRows int                  `json:"excluded_rows"`
	Warnings     []string             `json:"warnings,omitempty"`
	Duties       []DutyDTO            `json:"duties"`
	Results      CalculationResultDTO `json:"results"`
	UpdatedAt    string               `json:"updated_at,omitempty"`
}

// RosterSummaryDTO is the list-view projection of a stored month.
type RosterSummaryDTO struct {
	CrewID      string  `json:"crew_id"`
	Role        string  `json:"role"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	MonthName   string  `json:"month_name"`
	TotalSalary float64 `json:"total_salary"`
	DutyCount   int     `json:"duty_count"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// RoleRatesDTO is one role's rate card.
type RoleRatesDTO struct {
	Role                    string  `json:"role"`
	BasicSalary             float64 `json:"basic_salary"`
	HousingAllowance        float64 `json:"housing_allowance"`
	TransportationAllowance float64 `json:"transportation_allowance"`
	FlightPayRate           float64 `json:"flight_pay_rate"`
	PerDiemRate             float64 `json:"per_diem_rate"`
	ASBYRate                float64 `json:"asby_rate"`
}

// YearToDateDTO is the year-to-date earnings view.
type YearToDateDTO struct {
	Year             int                `json:"year"`
	TotalEarnings    float64            `json:"total_earnings"`
	TotalFlightHours float64            `json:"total_flight_hours"`
	Months           []MonthEarningsDTO `json:"months"`
}

// MonthEarningsDTO is one month's slice of the year-to-date view.
type MonthEarningsDTO struct {
	Month       int     `json:"month"`
	MonthName   string  `json:"month_name"`
	Year        int     `json:"year"`
	Earnings    float64 `json:"earnings"`
	FlightHours float64 `json:"flight_hours"`
}

// ScenarioDTO represents a demo roster scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest loads a demo scenario for a crew member.
type LoadScenarioRequest struct {
	ID     string `json:"id"`
	CrewID string `json:"crew_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDutyDTO(index int, d roster.Duty) DutyDTO {
	pay, _ := d.Pay.Float64()
	return DutyDTO{
		Index:           index,
		Date:            d.Date,
		Kind:            string(d.Kind),
		FlightNumber:    d.FlightNumber,
		Sector:          d.Sector,
		ReportTime:      d.ReportTime,
		DebriefTime:     d.DebriefTime,
		Timed:           d.Timed,
		Hours:           d.Hours,
		HoursDisplay:    roster.FormatHoursMinutes(d.Hours),
		Pay:             pay,
		LayoverOutbound: d.LayoverOutbound,
		LayoverInbound:  d.LayoverInbound,
	}
}

func toCalculationResultDTO(c roster.CalculationResult) CalculationResultDTO {
	flightPay, _ := c.FlightPay.Float64()
	perDiem, _ := c.PerDiem.Float64()
	asbyPay, _ := c.ASBYPay.Float64()
	fixed, _ := c.FixedSubtotal.Float64()
	total, _ := c.TotalSalary.Float64()
	return CalculationResultDTO{
		TotalFlightHours:  c.TotalFlightHours,
		TotalLayoverHours: c.TotalLayoverHours,
		TotalASBYHours:    c.TotalASBYHours,
		FlightPay:         flightPay,
		PerDiem:           perDiem,
		ASBYPay:           asbyPay,
		FixedSubtotal:     fixed,
		TotalSalary:       total,
	}
}

func toRosterDTO(rec *roster.MonthRecord, warnings []string) RosterDTO {
	duties := make([]DutyDTO, len(rec.Duties))
	for i, d := range rec.Duties {
		duties[i] = toDutyDTO(i, d)
	}

	payMonth, payYear := roster.PaymentMonth(time.Month(rec.Month), rec.Year)

	dto := RosterDTO{
		ID:           rec.ID,
		CrewID:       rec.CrewID,
		Role:         rec.Role,
		Month:        rec.Month,
		Year:         rec.Year,
		MonthName:    rec.MonthName,
		PaymentMonth: roster.MonthName(int(payMonth)),
		PaymentYear:  payYear,
		ExcludedRows: rec.ExcludedRows,
		Warnings:     warnings,
		Duties:       duties,
		Results:      toCalculationResultDTO(rec.Calc),
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toRosterSummaryDTO(rec roster.MonthRecord) RosterSummaryDTO {
	total, _ := rec.Calc.TotalSalary.Float64()
	dto := RosterSummaryDTO{
		CrewID:      rec.CrewID,
		Role:        rec.Role,
		Month:       rec.Month,
		Year:        rec.Year,
		MonthName:   rec.MonthName,
		TotalSalary: total,
		DutyCount:   len(rec.Duties),
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toRoleRatesDTO(rr roster.RoleRates) RoleRatesDTO {
	basic, _ := rr.BasicSalary.Float64()
	housing, _ := rr.HousingAllowance.Float64()
	transport, _ := rr.TransportationAllowance.Float64()
	flight, _ := rr.FlightPayRate.Float64()
	perDiem, _ := rr.PerDiemRate.Float64()
	asby, _ := rr.ASBYRate.Float64()
	return RoleRatesDTO{
		Role:                    rr.Role,
		BasicSalary:             basic,
		HousingAllowance:        housing,
		TransportationAllowance: transport,
		FlightPayRate:           flight,
		PerDiemRate:             perDiem,
		ASBYRate:                asby,
	}
}

func toYearToDateDTO(summary roster.YearToDateSummary) YearToDateDTO {
	total, _ := summary.TotalEarnings.Float64()
	months := make([]MonthEarningsDTO, len(summary.Months))
	for i, m := range summary.Months {
		earnings, _ := m.Earnings.Float64()
		months[i] = MonthEarningsDTO{
			Month:       m.Month,
			MonthName:   m.MonthName,
			Year:        m.Year,
			Earnings:    earnings,
			FlightHours: m.FlightHours,
		}
	}
	return YearToDateDTO{
		Year:             summary.Year,
		TotalEarnings:    total,
		TotalFlightHours: summary.TotalFlightHours,
		Months:           months,
	}
}
