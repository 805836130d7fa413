package roster_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywage/roster-engine/roster"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func sccmRates() roster.RoleRates {
	return roster.RoleRates{
		Role:                    "sccm",
		BasicSalary:             decimal.NewFromInt(4275),
		HousingAllowance:        decimal.NewFromInt(5000),
		TransportationAllowance: decimal.NewFromInt(1000),
		FlightPayRate:           decimal.NewFromInt(62),
		ASBYRate:                decimal.NewFromInt(62),
		PerDiemRate:             decimal.NewFromFloat(8.82),
	}
}

// marchTable is one month with a turnaround, a layover pairing, an
// airport standby, and a bleed row from February.
func marchTable() [][]string {
	return [][]string{
		{"Crew Roster"},
		{"01/03/2025 - 31/03/2025"},
		{"Schedule Details"},
		{"Date", "Duties", "Details", "Report", "Actual Times", "Debrief"},
		{"28/02/2025 Fri", "FZ999", "DXB - DOH", "A08:00", "", "A12:00"},
		{"01/03/2025 Sat", "FZ001 FZ002", "DXB - IKA IKA - DXB", "A06:30", "", "A14:10"},
		{"02/03/2025 Sun", "OFF", "", "", "", ""},
		{"03/03/2025 Mon", "FZ561", "DXB - BOM", "A21:15", "", "A02:30"},
		{"04/03/2025 Tue", "FZ562", "BOM - DXB", "A20:00", "", "A02:00"},
		{"05/03/2025 Wed", "ASBY", "Airport Standby", "", "08:00 - 12:00", ""},
		{"Total Hours and Statistics"},
	}
}

func loadMarch(t *testing.T) *roster.Session {
	t.Helper()
	s := roster.NewSession(ccmRates(), roster.Options{})
	require.NoError(t, s.LoadTable(marchTable()))
	return s
}

// assertSalaryIdentity checks the one invariant every mutation must
// preserve: the total is exactly the sum of its parts.
func assertSalaryIdentity(t *testing.T, c roster.CalculationResult) {
	t.Helper()
	sum := c.FixedSubtotal.Add(c.FlightPay).Add(c.PerDiem).Add(c.ASBYPay)
	assert.True(t, c.TotalSalary.Equal(sum),
		"total %s != fixed %s + flight %s + perdiem %s + asby %s",
		c.TotalSalary, c.FixedSubtotal, c.FlightPay, c.PerDiem, c.ASBYPay)
}

// =============================================================================
// FULL PIPELINE
// =============================================================================

func TestSession_LoadTable_FullPipeline(t *testing.T) {
	// GIVEN: A March roster with a turnaround, layover pair, ASBY, and
	//        one bleed row from February
	// WHEN: Loading the table
	// THEN: Four duties, the February row excluded and counted, the
	//       layover paired and priced, and the salary identity holding

	s := loadMarch(t)

	assert.Equal(t, 3, int(s.Month))
	assert.Equal(t, 2025, s.Year)
	assert.Equal(t, "March", s.MonthName)
	assert.Equal(t, roster.MonthFromHeaderRange, s.MonthSource)
	assert.Equal(t, 1, s.ExcludedRows)
	require.Len(t, s.Duties, 4)

	turnaround, outbound, inbound, asby := s.Duties[0], s.Duties[1], s.Duties[2], s.Duties[3]

	assert.Equal(t, roster.KindTurnaround, turnaround.Kind)
	assert.InDelta(t, 7.0+10.0/60, turnaround.Hours, 1e-9)
	assert.False(t, turnaround.Paired())

	assert.True(t, outbound.LayoverOutbound)
	assert.InDelta(t, 4.75, outbound.Hours, 1e-9)
	assert.True(t, inbound.LayoverInbound)
	assert.InDelta(t, 5.5, inbound.Hours, 1e-9)

	assert.Equal(t, roster.KindAirportStandby, asby.Kind)
	assert.InDelta(t, 4.0, asby.Hours, 1e-9)

	// Outbound debriefed 02:30, so its duty ended on the 4th; the
	// return reported 20:00 the same day. 17.5h rest at 8.82/h.
	assert.InDelta(t, 17.5, s.Calc.TotalLayoverHours, 1e-9)
	perDiem, _ := s.Calc.PerDiem.Float64()
	assert.InDelta(t, 17.5*8.82, perDiem, 1e-6)

	assert.True(t, s.Calc.ASBYPay.Equal(decimal.NewFromInt(200)))
	assert.InDelta(t, 7.0+10.0/60+4.75+5.5, s.Calc.TotalFlightHours, 1e-9)
	assert.True(t, s.Calc.FixedSubtotal.Equal(decimal.NewFromInt(8275)))
	assertSalaryIdentity(t, s.Calc)
}

func TestSession_LoadTable_EmptyTable(t *testing.T) {
	s := roster.NewSession(ccmRates(), roster.Options{})
	assert.ErrorIs(t, s.LoadTable(nil), roster.ErrEmptyTable)
}

func TestSession_LoadTable_NoDutiesFound(t *testing.T) {
	// GIVEN: A roster that is all rest days
	// WHEN: Loading
	// THEN: ErrNoDutiesFound, but the month metadata is still usable

	table := [][]string{
		{"01/03/2025 - 31/03/2025"},
		{"Schedule Details"},
		{"01/03/2025", "OFF", "", "", "", ""},
		{"02/03/2025", "SBY", "", "", "", ""},
		{"Total Hours and Statistics"},
	}
	s := roster.NewSession(ccmRates(), roster.Options{})
	err := s.LoadTable(table)
	assert.ErrorIs(t, err, roster.ErrNoDutiesFound)
	assert.Equal(t, "March", s.MonthName)
}

func TestSession_LoadTable_Idempotent(t *testing.T) {
	// Loading the same table twice replaces, never accumulates.
	s := roster.NewSession(ccmRates(), roster.Options{})
	require.NoError(t, s.LoadTable(marchTable()))
	first := s.Calc
	require.NoError(t, s.LoadTable(marchTable()))

	assert.Len(t, s.Duties, 4)
	assert.True(t, first.TotalSalary.Equal(s.Calc.TotalSalary))
}

func TestSession_Refresh_IsIdempotent(t *testing.T) {
	s := loadMarch(t)
	before := s.Calc
	s.Refresh()
	s.Refresh()
	assert.True(t, before.TotalSalary.Equal(s.Calc.TotalSalary))
	assert.Equal(t, before.TotalFlightHours, s.Calc.TotalFlightHours)
}

// =============================================================================
// EDIT DEBRIEF
// =============================================================================

func TestSession_EditDebriefTime_RecomputesDutyAndTotals(t *testing.T) {
	// GIVEN: The loaded March roster
	// WHEN: Extending the turnaround's debrief from 14:10 to 16:10
	// THEN: Its hours grow by 2 and the aggregate follows

	s := loadMarch(t)
	beforeHours := s.Duties[0].Hours

	require.NoError(t, s.EditDebriefTime(0, "16:10"))

	assert.InDelta(t, beforeHours+2, s.Duties[0].Hours, 1e-9)
	assert.Equal(t, "16:10", s.Duties[0].DebriefTime)
	assertSalaryIdentity(t, s.Calc)
}

func TestSession_EditDebriefTime_ASBYUsesStandbyRate(t *testing.T) {
	// ASBY duties re-price at the standby rate with no debrief deduction.
	s := loadMarch(t)

	require.NoError(t, s.EditDebriefTime(3, "14:00"))

	asby := s.Duties[3]
	assert.InDelta(t, 6.0, asby.Hours, 1e-9)
	assert.True(t, asby.Pay.Equal(decimal.NewFromInt(300)))
}

func TestSession_EditDebriefTime_InvalidTimeRejectedWithoutMutation(t *testing.T) {
	// GIVEN: The loaded roster
	// WHEN: Editing with a garbage time
	// THEN: ValidationError, and nothing about the duty or totals moved

	s := loadMarch(t)
	before := s.Duties[0]
	beforeTotal := s.Calc.TotalSalary

	err := s.EditDebriefTime(0, "25:99")
	require.Error(t, err)
	assert.True(t, roster.IsClientError(err))

	var vErr *roster.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "debrief_time", vErr.Field)

	assert.Equal(t, before, s.Duties[0])
	assert.True(t, beforeTotal.Equal(s.Calc.TotalSalary))
}

func TestSession_EditDebriefTime_IndexOutOfRange(t *testing.T) {
	s := loadMarch(t)
	assert.ErrorIs(t, s.EditDebriefTime(42, "12:00"), roster.ErrDutyNotFound)
	assert.ErrorIs(t, s.EditDebriefTime(-1, "12:00"), roster.ErrDutyNotFound)
}

// =============================================================================
// DELETE
// =============================================================================

func TestSession_DeleteDuty_OutboundTakesInboundWithIt(t *testing.T) {
	// GIVEN: The loaded roster with its DXB-BOM / BOM-DXB pair
	// WHEN: Deleting the outbound half
	// THEN: Both halves go, per diem drops to zero, identity holds

	s := loadMarch(t)

	removed, err := s.DeleteDuty(1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.Len(t, s.Duties, 2)
	for _, d := range s.Duties {
		assert.NotEqual(t, "FZ561", d.FlightNumber)
		assert.NotEqual(t, "FZ562", d.FlightNumber)
	}
	assert.Zero(t, s.Calc.TotalLayoverHours)
	assert.True(t, s.Calc.PerDiem.IsZero())
	assertSalaryIdentity(t, s.Calc)
}

func TestSession_DeleteDuty_PlainDutyRemovesOne(t *testing.T) {
	s := loadMarch(t)

	removed, err := s.DeleteDuty(0) // the turnaround
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, s.Duties, 3)

	// The layover pair is untouched and re-paired by the recompute.
	assert.True(t, s.Duties[0].LayoverOutbound)
	assert.True(t, s.Duties[1].LayoverInbound)
	assert.InDelta(t, 17.5, s.Calc.TotalLayoverHours, 1e-9)
}

func TestSession_DeleteDuty_IndexOutOfRange(t *testing.T) {
	s := loadMarch(t)
	_, err := s.DeleteDuty(99)
	assert.ErrorIs(t, err, roster.ErrDutyNotFound)
	assert.True(t, roster.IsNotFound(err))
}

// =============================================================================
// REPRICE
// =============================================================================

func TestSession_Reprice_PreservesHoursAndPairing(t *testing.T) {
	// GIVEN: A CCM-priced roster
	// WHEN: Repricing as SCCM
	// THEN: Hours and pairing topology are unchanged; pay follows the
	//       new rate card

	s := loadMarch(t)
	beforeFlightHours := s.Calc.TotalFlightHours
	beforeRest := s.Calc.TotalLayoverHours

	s.Reprice(sccmRates())

	assert.Equal(t, beforeFlightHours, s.Calc.TotalFlightHours)
	assert.Equal(t, beforeRest, s.Calc.TotalLayoverHours)
	assert.True(t, s.Duties[1].LayoverOutbound)

	// 4h ASBY at the SCCM rate.
	assert.True(t, s.Calc.ASBYPay.Equal(decimal.NewFromInt(248)))
	assert.True(t, s.Calc.FixedSubtotal.Equal(decimal.NewFromInt(10275)))
	assertSalaryIdentity(t, s.Calc)
}

// =============================================================================
// MANUAL ENTRY
// =============================================================================

func TestSession_AddManualDuty_Turnaround(t *testing.T) {
	s := loadMarch(t)

	err := s.AddManualDuty(roster.ManualDutyInput{
		Kind:         roster.ManualTurnaround,
		Date:         "10/03/2025",
		FlightNumber: "FZ301 FZ302",
		Sector:       "DXB - AMM - DXB",
		ReportTime:   "07:00",
		DebriefTime:  "15:30",
	})
	require.NoError(t, err)

	require.Len(t, s.Duties, 5)
	added := s.Duties[4] // latest date sorts last
	assert.InDelta(t, 8.0, added.Hours, 1e-9)
	assert.True(t, added.Pay.Equal(decimal.NewFromInt(400)))
	assertSalaryIdentity(t, s.Calc)
}

func TestSession_AddManualDuty_LayoverSynthesizesReturnLeg(t *testing.T) {
	// GIVEN: A manual layover entered for DXB - KTM
	// WHEN: Adding it
	// THEN: Two duties appear, the return sector swapped, the pair
	//       linked and per diem increased

	s := loadMarch(t)
	beforeRest := s.Calc.TotalLayoverHours

	err := s.AddManualDuty(roster.ManualDutyInput{
		Kind:               roster.ManualLayover,
		Date:               "12/03/2025",
		FlightNumber:       "FZ035",
		Sector:             "DXB - KTM",
		ReportTime:         "12:20",
		DebriefTime:        "18:00",
		ReturnDate:         "13/03/2025",
		ReturnFlightNumber: "FZ036",
		ReturnReportTime:   "16:15",
		ReturnDebriefTime:  "22:55",
	})
	require.NoError(t, err)

	require.Len(t, s.Duties, 6)
	out, in := s.Duties[4], s.Duties[5]
	assert.Equal(t, "DXB - KTM", out.Sector)
	assert.True(t, out.LayoverOutbound)
	assert.Equal(t, "KTM - DXB", in.Sector)
	assert.True(t, in.LayoverInbound)

	// Debrief 18:00 on the 12th to report 16:15 on the 13th: 22.25h.
	assert.InDelta(t, beforeRest+22.25, s.Calc.TotalLayoverHours, 1e-9)
	assertSalaryIdentity(t, s.Calc)
}

func TestSession_AddManualDuty_ReversedLayoverSectorReoriented(t *testing.T) {
	// An entry written from the destination's point of view still
	// produces an outbound leaving home base.
	s := loadMarch(t)

	err := s.AddManualDuty(roster.ManualDutyInput{
		Kind:               roster.ManualLayover,
		Date:               "12/03/2025",
		FlightNumber:       "FZ035",
		Sector:             "KTM - DXB",
		ReportTime:         "12:20",
		DebriefTime:        "18:00",
		ReturnDate:         "13/03/2025",
		ReturnFlightNumber: "FZ036",
		ReturnReportTime:   "16:15",
		ReturnDebriefTime:  "22:55",
	})
	require.NoError(t, err)
	assert.Equal(t, "DXB - KTM", s.Duties[4].Sector)
}

func TestSession_AddManualDuty_ASBY(t *testing.T) {
	s := loadMarch(t)

	err := s.AddManualDuty(roster.ManualDutyInput{
		Kind:        roster.ManualASBY,
		Date:        "2025-03-15",
		ReportTime:  "06:00",
		DebriefTime: "10:00",
	})
	require.NoError(t, err)

	added := s.Duties[len(s.Duties)-1]
	assert.Equal(t, roster.KindAirportStandby, added.Kind)
	assert.InDelta(t, 4.0, added.Hours, 1e-9)
	assert.True(t, added.Pay.Equal(decimal.NewFromInt(200)))
}

func TestSession_AddManualDuty_ValidationRejectsWithoutMutation(t *testing.T) {
	s := loadMarch(t)
	before := len(s.Duties)
	beforeTotal := s.Calc.TotalSalary

	cases := []roster.ManualDutyInput{
		{Kind: roster.ManualTurnaround, Date: "bad", FlightNumber: "FZ1", Sector: "DXB - AMM", ReportTime: "07:00", DebriefTime: "15:00"},
		{Kind: roster.ManualTurnaround, Date: "10/03/2025", FlightNumber: "FZ1", Sector: "DXB - AMM", ReportTime: "7:00", DebriefTime: "15:00"},
		{Kind: roster.ManualTurnaround, Date: "10/03/2025", FlightNumber: "", Sector: "DXB - AMM", ReportTime: "07:00", DebriefTime: "15:00"},
		{Kind: roster.ManualLayover, Date: "10/03/2025", FlightNumber: "FZ1", Sector: "DXB - AMM", ReportTime: "07:00", DebriefTime: "15:00", ReturnDate: "11/03/2025", ReturnFlightNumber: "FZ2", ReturnReportTime: "25:00", ReturnDebriefTime: "15:00"},
		{Kind: "banana", Date: "10/03/2025", ReportTime: "07:00", DebriefTime: "15:00"},
	}
	for _, in := range cases {
		err := s.AddManualDuty(in)
		require.Error(t, err, "input %+v", in)
		assert.True(t, roster.IsClientError(err))
	}

	assert.Len(t, s.Duties, before)
	assert.True(t, beforeTotal.Equal(s.Calc.TotalSalary))
}

func TestSession_AddManualDuty_SortsIntoDateOrder(t *testing.T) {
	// A duty added for the 2nd lands between the 1st and the 3rd.
	s := loadMarch(t)

	err := s.AddManualDuty(roster.ManualDutyInput{
		Kind:         roster.ManualTurnaround,
		Date:         "02/03/2025",
		FlightNumber: "FZ201",
		Sector:       "DXB - KWI - DXB",
		ReportTime:   "08:00",
		DebriefTime:  "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "FZ201", s.Duties[1].FlightNumber)
	assert.Equal(t, "FZ561", s.Duties[2].FlightNumber)
}
