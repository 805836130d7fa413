package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywage/roster-engine/roster"
	"github.com/skywage/roster-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func marchRecord(crewID string) roster.MonthRecord {
	return roster.MonthRecord{
		CrewID:    crewID,
		Role:      "ccm",
		Month:     3,
		Year:      2025,
		MonthName: "March",
		Duties: []roster.Duty{
			{
				Date:         "03/03/2025 Mon",
				Kind:         roster.KindFlight,
				FlightNumber: "FZ561",
				Sector:       "DXB - BOM",
				ReportTime:   "A21:15",
				DebriefTime:  "A02:30",
				Timed:        true,
				Hours:        4.75,
				Pay:          decimal.NewFromFloat(237.5),
			},
		},
		Calc: roster.CalculationResult{
			TotalFlightHours: 4.75,
			FlightPay:        decimal.NewFromFloat(237.5),
			FixedSubtotal:    decimal.NewFromInt(8275),
			TotalSalary:      decimal.NewFromFloat(8512.5),
		},
		ExcludedRows: 1,
	}
}

func TestStore_SaveAndGet_RoundTrip(t *testing.T) {
	// GIVEN: A computed March record
	// WHEN: Saving and fetching it
	// THEN: Duties and the aggregate survive the JSON round trip intact

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMonth(ctx, marchRecord("crew-1")))

	got, err := store.GetMonth(ctx, "crew-1", 3, 2025)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "March", got.MonthName)
	assert.Equal(t, 1, got.ExcludedRows)
	assert.False(t, got.UpdatedAt.IsZero())

	require.Len(t, got.Duties, 1)
	assert.Equal(t, "FZ561", got.Duties[0].FlightNumber)
	assert.InDelta(t, 4.75, got.Duties[0].Hours, 1e-9)
	assert.True(t, got.Duties[0].Pay.Equal(decimal.NewFromFloat(237.5)))
	assert.True(t, got.Calc.TotalSalary.Equal(decimal.NewFromFloat(8512.5)))
}

func TestStore_SaveUpsertsOnCrewMonthYear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMonth(ctx, marchRecord("crew-1")))

	updated := marchRecord("crew-1")
	updated.Role = "sccm"
	require.NoError(t, store.SaveMonth(ctx, updated))

	got, err := store.GetMonth(ctx, "crew-1", 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, "sccm", got.Role)

	list, err := store.ListMonths(ctx, "crew-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetMonth(context.Background(), "crew-1", 3, 2025)
	assert.ErrorIs(t, err, roster.ErrMonthNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	jan := marchRecord("crew-1")
	jan.Month, jan.MonthName = 1, "January"
	dec := marchRecord("crew-1")
	dec.Month, dec.Year, dec.MonthName = 12, 2024, "December"

	require.NoError(t, store.SaveMonth(ctx, marchRecord("crew-1")))
	require.NoError(t, store.SaveMonth(ctx, jan))
	require.NoError(t, store.SaveMonth(ctx, dec))
	require.NoError(t, store.SaveMonth(ctx, marchRecord("crew-2")))

	list, err := store.ListMonths(ctx, "crew-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Month)
	assert.Equal(t, 1, list[1].Month)
	assert.Equal(t, 2024, list[2].Year)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMonth(ctx, marchRecord("crew-1")))
	require.NoError(t, store.DeleteMonth(ctx, "crew-1", 3, 2025))
	require.NoError(t, store.DeleteMonth(ctx, "crew-1", 3, 2025))

	_, err := store.GetMonth(ctx, "crew-1", 3, 2025)
	assert.ErrorIs(t, err, roster.ErrMonthNotFound)
}
