/*
handlers.go - HTTP API handlers for the roster pay engine

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Rosters:
    POST   /api/rosters                        Upload a roster CSV + role
    GET    /api/rosters                        List stored months
    GET    /api/rosters/{year}/{month}         Duties + calculation result
    DELETE /api/rosters/{year}/{month}         Delete a stored month
    POST   /api/rosters/{year}/{month}/reprice Re-price under another role

  Duties (mutations; every one ends in a full recompute):
    POST   /api/rosters/{year}/{month}/duties                  Add manual duty
    PUT    /api/rosters/{year}/{month}/duties/{index}/debrief  Edit debrief time
    DELETE /api/rosters/{year}/{month}/duties/{index}          Delete duty (pairs atomically)

  Misc:
    GET    /api/rates        Role rate table
    GET    /api/ytd          Year-to-date earnings
    GET    /api/scenarios    Demo rosters
    POST   /api/scenarios/load

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Month or duty not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo roster loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/skywage/roster-engine/rates"
	"github.com/skywage/roster-engine/roster"
)

// defaultCrewID serves single-user deployments that never pass crew_id.
const defaultCrewID = "default"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store roster.MonthStore
	Rates roster.RateTable
	Opts  roster.Options
}

// NewHandler creates a new handler with the given store and rate table.
func NewHandler(store roster.MonthStore, table roster.RateTable, opts roster.Options) *Handler {
	return &Handler{Store: store, Rates: table, Opts: opts}
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// UploadRoster parses a raw CSV roster, computes the month, and stores it.
func (h *Handler) UploadRoster(w http.ResponseWriter, r *http.Request) {
	var req UploadRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CSV == "" {
		writeError(w, http.StatusBadRequest, "csv is required", nil)
		return
	}

	rr, err := rates.Lookup(h.Rates, req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown role", err)
		return
	}

	table, err := roster.ReadTable(strings.NewReader(req.CSV))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read roster CSV", err)
		return
	}

	session := roster.NewSession(rr, h.Opts)
	if err := session.LoadTable(table); err != nil {
		if errors.Is(err, roster.ErrNoDutiesFound) || errors.Is(err, roster.ErrEmptyTable) {
			writeError(w, http.StatusUnprocessableEntity, "No flight duties found in the roster", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to process roster", err)
		return
	}

	crewID := req.CrewID
	if crewID == "" {
		crewID = defaultCrewID
	}
	rec := recordFromSession(crewID, req.Role, session)
	if err := h.Store.SaveMonth(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store roster month", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRosterDTO(&rec, session.Warnings))
}

// ListRosters returns the stored months for a crew member, newest first.
func (h *Handler) ListRosters(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListMonths(r.Context(), crewID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list roster months", err)
		return
	}

	dtos := make([]RosterSummaryDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRosterSummaryDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRoster returns one stored month's duties and results.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadMonth(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRosterDTO(rec, nil))
}

// DeleteRoster removes a stored month.
func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYear(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteMonth(r.Context(), crewID(r), month, year); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete roster month", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RepriceRoster re-prices a stored month under a different role's rates.
func (h *Handler) RepriceRoster(w http.ResponseWriter, r *http.Request) {
	var req RepriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rr, err := rates.Lookup(h.Rates, req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown role", err)
		return
	}

	h.mutateMonth(w, r, req.Role, func(s *roster.Session) error {
		s.Reprice(rr)
		return nil
	})
}

// =============================================================================
// DUTY MUTATION HANDLERS
// =============================================================================

// AddDuty adds a manual duty (turnaround, layover pair, or ASBY).
func (h *Handler) AddDuty(w http.ResponseWriter, r *http.Request) {
	var input roster.ManualDutyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mutateMonth(w, r, "", func(s *roster.Session) error {
		return s.AddManualDuty(input)
	})
}

// EditDebrief updates one duty's debrief time.
func (h *Handler) EditDebrief(w http.ResponseWriter, r *http.Request) {
	var req EditDebriefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid duty index", err)
		return
	}

	h.mutateMonth(w, r, "", func(s *roster.Session) error {
		return s.EditDebriefTime(index, req.DebriefTime)
	})
}

// DeleteDuty removes a duty; an outbound layover takes its inbound
// half with it.
func (h *Handler) DeleteDuty(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid duty index", err)
		return
	}

	h.mutateMonth(w, r, "", func(s *roster.Session) error {
		_, err := s.DeleteDuty(index)
		return err
	})
}

// =============================================================================
// RATES AND YEAR-TO-DATE
// =============================================================================

// ListRates returns the configured role rate table.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	dtos := make([]RoleRatesDTO, 0, len(h.Rates))
	for _, rr := range h.Rates {
		dtos = append(dtos, toRoleRatesDTO(rr))
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Role < dtos[j].Role })
	writeJSON(w, http.StatusOK, dtos)
}

// YearToDate sums stored months for one calendar year.
func (h *Handler) YearToDate(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}

	records, err := h.Store.ListMonths(r.Context(), crewID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list roster months", err)
		return
	}
	writeJSON(w, http.StatusOK, toYearToDateDTO(roster.YearToDate(records, year)))
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// mutateMonth rehydrates a session from the stored month, applies the
// mutation, and persists the fully recomputed record. newRole is empty
// unless the mutation changes the role.
func (h *Handler) mutateMonth(w http.ResponseWriter, r *http.Request, newRole string, fn func(*roster.Session) error) {
	rec, ok := h.loadMonth(w, r)
	if !ok {
		return
	}

	rr, err := rates.Lookup(h.Rates, rec.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored month has unknown role", err)
		return
	}

	session := roster.NewSession(rr, h.Opts)
	session.Duties = rec.Duties
	session.Month = time.Month(rec.Month)
	session.Year = rec.Year
	session.MonthName = rec.MonthName
	session.ExcludedRows = rec.ExcludedRows
	session.Refresh()

	if err := fn(session); err != nil {
		switch {
		case roster.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid operation", err)
		case roster.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Duty not found", err)
		default:
			writeError(w, http.StatusInternalServerError, "Mutation failed", err)
		}
		return
	}

	role := rec.Role
	if newRole != "" {
		role = newRole
	}
	updated := recordFromSession(rec.CrewID, role, session)
	updated.ID = rec.ID
	if err := h.Store.SaveMonth(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store roster month", err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterDTO(&updated, nil))
}

func (h *Handler) loadMonth(w http.ResponseWriter, r *http.Request) (*roster.MonthRecord, bool) {
	month, year, ok := monthYear(w, r)
	if !ok {
		return nil, false
	}
	rec, err := h.Store.GetMonth(r.Context(), crewID(r), month, year)
	if errors.Is(err, roster.ErrMonthNotFound) {
		writeError(w, http.StatusNotFound, "Roster month not found", err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster month", err)
		return nil, false
	}
	return rec, true
}

func recordFromSession(crewID, role string, s *roster.Session) roster.MonthRecord {
	return roster.MonthRecord{
		CrewID:       crewID,
		Role:         role,
		Month:        int(s.Month),
		Year:         s.Year,
		MonthName:    s.MonthName,
		Duties:       s.Duties,
		Calc:         s.Calc,
		ExcludedRows: s.ExcludedRows,
		UpdatedAt:    time.Now().UTC(),
	}
}

func crewID(r *http.Request) string {
	if id := r.URL.Query().Get("crew_id"); id != "" {
		return id
	}
	return defaultCrewID
}

func monthYear(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month/year", nil)
		return 0, 0, false
	}
	return month, year, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = message + ": " + err.Error()
	}
	writeJSON(w, status, resp)
}
