package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Synthetic sales-ledger vocabulary.
var (
	Regions  = []string{"Norte", "Sur", "Este", "Oeste"}
	Products = []string{"Licencia A", "Servicio B", "Hardware C"}
)

// ExtraVendor and ExtraProduct name the extra columns carried by
// generated sales records.
const (
	ExtraVendor  = "Vendedor"
	ExtraProduct = "Producto"
	ExtraUnits   = "Unidades"
)

// SaleFloor is the lowest amount a generated sale can have.
var SaleFloor = decimal.NewFromInt(10)

// SimulateOptions controls the synthetic sales-ledger generator.
// Seed 0 derives the seed from the clock; any other value makes the
// generated dataset fully reproducible.
type SimulateOptions struct {
	Rows int
	Days int
	Seed int64
}

// SimulateSalesLedger generates a sales ledger over a Days-long window
// ending today: amounts drawn from Normal(150, 50) rounded to 2 decimals
// and clipped at SaleFloor, spread over regions, ten vendors and three
// products.
func SimulateSalesLedger(opts SimulateOptions) *Store {
	if opts.Rows <= 0 {
		opts.Rows = 1000
	}
	if opts.Days <= 0 {
		opts.Days = 365
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	end := DayStart(time.Now().UTC())

	records := make([]Record, 0, opts.Rows)
	for i := 0; i < opts.Rows; i++ {
		amount := decimal.NewFromFloat(rng.NormFloat64()*50 + 150).Round(2)
		if amount.LessThan(SaleFloor) {
			amount = SaleFloor
		}

		records = append(records, Record{
			Timestamp: end.AddDate(0, 0, -rng.Intn(opts.Days+1)),
			Value:     amount,
			Category:  Regions[rng.Intn(len(Regions))],
			Extras: map[string]string{
				ExtraVendor:  fmt.Sprintf("Vendedor %d", rng.Intn(10)+1),
				ExtraProduct: Products[rng.Intn(len(Products))],
				ExtraUnits:   fmt.Sprintf("%d", rng.Intn(9)+1),
			},
		})
	}
	return NewStore(records)
}

// DayStart truncates a timestamp to midnight of its calendar day,
// keeping the location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
