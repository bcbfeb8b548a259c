// Package profile defines dataset profiles: named configurations binding
// semantic column roles, the sentinel category and the KPI set that
// apply to a dataset. Two profiles ship built in; a directory of YAML
// files can override or extend them.
package profile

import (
	"github.com/mirador-lab/project-mirador/internal/core/dataset"
)

// Kind selects which metric calculators and charts apply.
type Kind string

const (
	KindSalesLedger Kind = "sales_ledger"
	KindPriceSeries Kind = "price_series"
)

// Built-in profile names.
const (
	NameSalesLedger = "SalesLedger"
	NamePriceSeries = "PriceSeries"
)

// SentinelCategory labels every row of a dataset that has no category
// column. Synthesizing it is normal operation, not an error.
const SentinelCategory = "STOCK_PRINCIPAL"

// Profile is a named dataset configuration. Filesystem-loaded profiles
// carry a SHA-256 fingerprint of their source file.
type Profile struct {
	Name        string
	Kind        Kind
	Columns     dataset.ColumnRules
	EntityExtra string // extras field for the summary table; empty means group by category
	Fingerprint string
}

// ValidKind reports whether k names a supported profile kind.
func ValidKind(k Kind) bool {
	return k == KindSalesLedger || k == KindPriceSeries
}

// SalesLedger is the synthetic sales-ledger profile: value is the sale
// amount, category the region, and the breakdown table groups by vendor.
func SalesLedger() Profile {
	return Profile{
		Name: NameSalesLedger,
		Kind: KindSalesLedger,
		Columns: dataset.ColumnRules{
			Date:     []string{"date", "fecha", "time"},
			Value:    []string{"monto", "amount", "venta"},
			Category: []string{"region"},
			Sentinel: SentinelCategory,
		},
		EntityExtra: dataset.ExtraVendor,
	}
}

// PriceSeries is the uploaded price-history profile: value is the
// closing price and category the ticker symbol.
func PriceSeries() Profile {
	return Profile{
		Name: NamePriceSeries,
		Kind: KindPriceSeries,
		Columns: dataset.ColumnRules{
			Date:     []string{"date", "fecha", "time"},
			Value:    []string{"close", "precio", "price"},
			Category: []string{"ticker", "symbol", "simbolo"},
			Sentinel: SentinelCategory,
		},
	}
}

// Defaults returns the built-in profiles keyed by name.
func Defaults() map[string]Profile {
	return map[string]Profile{
		NameSalesLedger: SalesLedger(),
		NamePriceSeries: PriceSeries(),
	}
}
