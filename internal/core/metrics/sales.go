package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
)

// SalesKPIs are the sales-ledger headline numbers.
type SalesKPIs struct {
	TotalRevenue     decimal.Decimal
	TransactionCount int64
	AverageSale      decimal.Decimal
}

// Sales computes the sales-ledger KPIs over a filtered view. An empty
// view yields zero revenue, zero count and an AverageSale of 0 — the
// zero-count case is guarded, never a division by zero.
func Sales(view []dataset.Record) SalesKPIs {
	total := decimal.Zero
	for _, r := range view {
		total = total.Add(r.Value)
	}
	total = total.Round(2)

	kpis := SalesKPIs{
		TotalRevenue:     total,
		TransactionCount: int64(len(view)),
		AverageSale:      decimal.Zero,
	}
	if kpis.TransactionCount > 0 {
		kpis.AverageSale = total.Div(decimal.NewFromInt(kpis.TransactionCount)).Round(2)
	}
	return kpis
}
