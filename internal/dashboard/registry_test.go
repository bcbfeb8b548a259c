package dashboard

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
)

const pricesCSV = "Date,Close,Symbol\n2026-01-02,10,ABC\n2026-01-03,11,ABC\n"

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry(4)

	ds, created, err := reg.Register("prices.csv", profile.PriceSeries(), []byte(pricesCSV))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 2, ds.Store.Len())
	require.Equal(t, 1, reg.Len())

	got, ok := reg.Get(ds.ID)
	require.True(t, ok)
	require.Same(t, ds, got)

	_, ok = reg.Get("nope")
	require.False(t, ok)
}

func TestRegistry_MemoizesIdenticalInput(t *testing.T) {
	reg := NewRegistry(4)

	first, created, err := reg.Register("a.csv", profile.PriceSeries(), []byte(pricesCSV))
	require.NoError(t, err)
	require.True(t, created)
	second, created, err := reg.Register("b.csv", profile.PriceSeries(), []byte(pricesCSV))
	require.NoError(t, err)
	require.False(t, created)

	// Same bytes, same profile: the built store is reused, ID included.
	require.Same(t, first, second)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_CreatedFlagSurvivesEviction(t *testing.T) {
	reg := NewRegistry(1)

	// Registering different bytes into a capacity-1 registry keeps the
	// size constant across calls; created must still be reported from
	// the build itself, not inferred from registry size.
	_, created, err := reg.Register("a.csv", profile.PriceSeries(), []byte(pricesCSV))
	require.NoError(t, err)
	require.True(t, created)

	other := "Date,Close,Symbol\n2026-01-02,20,XYZ\n"
	_, created, err = reg.Register("b.csv", profile.PriceSeries(), []byte(other))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_ProfileIsPartOfTheKey(t *testing.T) {
	reg := NewRegistry(4)

	// SalesLedger won't bind "Close" as a value column, so the same
	// bytes under a different profile must build (and fail) separately.
	_, _, err := reg.Register("a.csv", profile.PriceSeries(), []byte(pricesCSV))
	require.NoError(t, err)
	_, _, err = reg.Register("a.csv", profile.SalesLedger(), []byte(pricesCSV))
	require.Error(t, err)
}

func TestRegistry_ConcurrentRegisterDedupes(t *testing.T) {
	reg := NewRegistry(8)

	var wg sync.WaitGroup
	results := make([]*Dataset, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, _, err := reg.Register("prices.csv", profile.PriceSeries(), []byte(pricesCSV))
			require.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, reg.Len())
	for _, ds := range results {
		require.Same(t, results[0], ds)
	}
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	reg := NewRegistry(2)

	mk := func(name string) *Dataset {
		store := dataset.NewStore([]dataset.Record{
			{Timestamp: day(1), Value: decimal.NewFromInt(1), Category: "X"},
		})
		return reg.RegisterStore(name, profile.SalesLedger(), store, dataset.BuildReport{Rows: 1})
	}

	a := mk("a")
	b := mk("b")
	_, ok := reg.Get(a.ID)
	require.True(t, ok) // a is now most recently used

	c := mk("c") // evicts b
	require.Equal(t, 2, reg.Len())

	_, ok = reg.Get(b.ID)
	require.False(t, ok)
	_, ok = reg.Get(a.ID)
	require.True(t, ok)
	_, ok = reg.Get(c.ID)
	require.True(t, ok)
}

func TestRegistry_SchemaErrorSurfacesFromBuild(t *testing.T) {
	reg := NewRegistry(4)

	_, _, err := reg.Register("bad.csv", profile.PriceSeries(), []byte("Volume,Symbol\n1,ABC\n"))
	var schemaErr *dataset.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, dataset.MissingDateColumn, schemaErr.Kind)
	require.Equal(t, 0, reg.Len())
}
