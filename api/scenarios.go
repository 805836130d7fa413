/*
scenarios.go - Demo roster loaders for testing and demonstrations

PURPOSE:

	Provides pre-built roster CSVs that populate the store with realistic
	months for testing and demos. Each scenario is a raw roster export
	that runs through the exact same upload pipeline as user data.

AVAILABLE SCENARIOS:

	standard-month:  CCM month with turnarounds, a layover pair, and ASBY
	layover-heavy:   SCCM month dominated by layover pairings

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "standard-month"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add the CSV constant and a case to scenarioCSV

SEE ALSO:
  - handlers.go: Shared response helpers
  - roster/session.go: The pipeline every scenario runs through
*/
package api

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/skywage/roster-engine/rates"
	"github.com/skywage/roster-engine/roster"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-month",
		Name:        "Standard Month",
		Description: "CCM month with turnarounds, one layover pairing, and an airport standby",
	},
	{
		ID:          "layover-heavy",
		Name:        "Layover Heavy",
		Description: "SCCM month dominated by layover pairings and per diem",
	},
}

// standardMonthCSV mirrors a real roster export: preamble, month range,
// schedule markers, and the six-column schedule body.
const standardMonthCSV = `Crew Roster,,,,,
01/03/2025 - 31/03/2025,,,,,
,,,,,
Schedule Details,,,,,
Date,Duties,Details,Report,Actual Times,Debrief
01/03/2025 Sat,FZ001 FZ002,DXB - IKA IKA - DXB,A06:30,,A14:10
02/03/2025 Sun,OFF,,,,
03/03/2025 Mon,FZ561,DXB - BOM,A21:15,,A02:30
04/03/2025 Tue,FZ562,BOM - DXB,A20:00,,A02:00
05/03/2025 Wed,ASBY,Airport Standby,,08:00 - 12:00,
06/03/2025 Thu,FZ837,DXB - COK,A08:10,,A16:40
07/03/2025 Fri,*OFF,,,,
Total Hours and Statistics,,,,,
`

const layoverHeavyCSV = `Crew Roster,,,,,
01/04/2025 - 30/04/2025,,,,,
,,,,,
Schedule Details,,,,,
Date,Duties,Details,Report,Actual Times,Debrief
01/04/2025 Tue,FZ321,DXB - BEY,A05:00,,A12:30
02/04/2025 Wed,FZ322,BEY - DXB,A10:30,,A16:00
03/04/2025 Thu,OFF,,,,
04/04/2025 Fri,FZ711,DXB - SLL,A07:45,,A12:30
05/04/2025 Sat,FZ712,SLL - DXB,A09:00,,A13:30
06/04/2025 Sun,SBY,Home Standby,,,
07/04/2025 Mon,FZ035,DXB - KTM,A12:20,,A18:45
08/04/2025 Tue,FZ036,KTM - DXB,A14:15,,A20:55
Total Hours and Statistics,,,,,
`

func scenarioCSV(id string) (csv, role string, ok bool) {
	switch id {
	case "standard-month":
		return standardMonthCSV, rates.RoleCCM, true
	case "layover-heavy":
		return layoverHeavyCSV, rates.RoleSCCM, true
	}
	return "", "", false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo rosters.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario runs a demo roster through the upload pipeline and
// stores the resulting month.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	csv, role, ok := scenarioCSV(req.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}
	if req.Role != "" {
		role = req.Role
	}
	rr, err := rates.Lookup(h.Rates, role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown role", err)
		return
	}

	table, err := roster.ReadTable(strings.NewReader(csv))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Scenario CSV is unreadable", err)
		return
	}
	session := roster.NewSession(rr, h.Opts)
	if err := session.LoadTable(table); err != nil {
		writeError(w, http.StatusInternalServerError, "Scenario failed to load", err)
		return
	}

	id := req.CrewID
	if id == "" {
		id = defaultCrewID
	}
	rec := recordFromSession(id, role, session)
	if err := h.Store.SaveMonth(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store scenario month", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRosterDTO(&rec, session.Warnings))
}
