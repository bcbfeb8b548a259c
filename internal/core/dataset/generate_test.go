package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateSalesLedger_SeededIsReproducible(t *testing.T) {
	a := SimulateSalesLedger(SimulateOptions{Rows: 200, Days: 30, Seed: 42})
	b := SimulateSalesLedger(SimulateOptions{Rows: 200, Days: 30, Seed: 42})

	require.Equal(t, a.Len(), b.Len())
	for i := range a.All() {
		ra, rb := a.All()[i], b.All()[i]
		require.True(t, ra.Timestamp.Equal(rb.Timestamp), "row %d", i)
		require.True(t, ra.Value.Equal(rb.Value), "row %d", i)
		require.Equal(t, ra.Category, rb.Category, "row %d", i)
		require.Equal(t, ra.Extras, rb.Extras, "row %d", i)
	}
}

func TestSimulateSalesLedger_DifferentSeedsDiffer(t *testing.T) {
	a := SimulateSalesLedger(SimulateOptions{Rows: 200, Days: 30, Seed: 1})
	b := SimulateSalesLedger(SimulateOptions{Rows: 200, Days: 30, Seed: 2})

	same := true
	for i := range a.All() {
		if !a.All()[i].Value.Equal(b.All()[i].Value) {
			same = false
			break
		}
	}
	require.False(t, same)
}

func TestSimulateSalesLedger_Invariants(t *testing.T) {
	store := SimulateSalesLedger(SimulateOptions{Rows: 500, Days: 365, Seed: 7})

	require.Equal(t, 500, store.Len())
	window := store.MaxDate().Sub(store.MinDate())
	require.LessOrEqual(t, window.Hours(), 365*24.0)

	regions := map[string]struct{}{}
	for _, r := range Regions {
		regions[r] = struct{}{}
	}
	for _, r := range store.All() {
		require.True(t, r.Value.GreaterThanOrEqual(SaleFloor), "amount below floor: %s", r.Value)
		require.Equal(t, r.Value, r.Value.Round(2))
		_, known := regions[r.Category]
		require.True(t, known, "unknown region %q", r.Category)
		require.NotEmpty(t, r.Extras[ExtraVendor])
		require.NotEmpty(t, r.Extras[ExtraProduct])
		require.NotEmpty(t, r.Extras[ExtraUnits])
	}
}

func TestSimulateSalesLedger_Defaults(t *testing.T) {
	store := SimulateSalesLedger(SimulateOptions{Seed: 3})
	require.Equal(t, 1000, store.Len())
}
