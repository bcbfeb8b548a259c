package metrics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// PriceKPIs are the price-series headline numbers. Returns and
// volatility are percentages.
type PriceKPIs struct {
	LastPrice            decimal.Decimal
	AvgDailyReturn       float64
	AnnualizedVolatility float64
	TotalDaysAnalyzed    int
}

// DayValue is one calendar-day bucket of a derived series.
type DayValue struct {
	Day   time.Time
	Value decimal.Decimal
}

// DailyMeans resamples a view to calendar days, averaging value across
// all records (and categories) within each day. Days absent from the
// data are not synthesized. The view's timestamp order makes the output
// day-ordered for free.
func DailyMeans(view []dataset.Record) []DayValue {
	var out []DayValue
	var sum decimal.Decimal
	count := 0

	flush := func(day time.Time) {
		out = append(out, DayValue{
			Day:   day,
			Value: sum.Div(decimal.NewFromInt(int64(count))),
		})
	}

	var day time.Time
	for _, r := range view {
		d := dataset.DayStart(r.Timestamp)
		if count > 0 && !d.Equal(day) {
			flush(day)
			sum, count = decimal.Zero, 0
		}
		day = d
		sum = sum.Add(r.Value)
		count++
	}
	if count > 0 {
		flush(day)
	}
	return out
}

// DailyReturns is the percent change of the daily mean price series.
// Fewer than two days means no returns.
func DailyReturns(view []dataset.Record) []float64 {
	means := DailyMeans(view)
	xs := make([]float64, len(means))
	for i, m := range means {
		xs[i] = m.Value.InexactFloat64()
	}
	return PercentChange(xs)
}

// Price computes the price-series KPIs over a filtered view. An empty
// view yields all-zero KPIs; an empty returns series reports 0 for the
// average return and volatility rather than NaN.
func Price(view []dataset.Record) PriceKPIs {
	if len(view) == 0 {
		return PriceKPIs{LastPrice: decimal.Zero}
	}

	means := DailyMeans(view)
	returns := DailyReturns(view)

	kpis := PriceKPIs{
		LastPrice:         view[len(view)-1].Value,
		TotalDaysAnalyzed: len(means),
	}
	if len(returns) > 0 {
		kpis.AvgDailyReturn = Mean(returns) * 100
		kpis.AnnualizedVolatility = SampleStdDev(returns) * math.Sqrt(tradingDaysPerYear) * 100
	}
	return kpis
}
