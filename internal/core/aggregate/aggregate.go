// Package aggregate derives chartable series and summary tables from a
// filtered view. All functions preserve determinism: group output order
// is the key's first appearance in the view, which is itself
// timestamp-ordered.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
)

// Point is one element of a grouped series.
type Point struct {
	Key    string
	Metric decimal.Decimal
}

// DayPoint is one element of a daily time series.
type DayPoint struct {
	Day    time.Time
	Metric decimal.Decimal
}

// GroupByCategory folds the view's values per category with the given
// reduction operator. Output order is each category's first appearance
// in the view.
func GroupByCategory(view []dataset.Record, op string) []Point {
	reducer, ok := Operators[op]
	if !ok {
		return nil
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, r := range view {
		cur, seen := totals[r.Category]
		if !seen {
			totals[r.Category] = reducer.Initial(r.Value)
			order = append(order, r.Category)
			continue
		}
		totals[r.Category] = reducer.Apply(cur, r.Value)
	}

	out := make([]Point, 0, len(order))
	for _, key := range order {
		out = append(out, Point{Key: key, Metric: totals[key]})
	}
	return out
}

// SumByCategory groups the view by category and sums value, rounded to
// 2 decimals.
func SumByCategory(view []dataset.Record) []Point {
	points := GroupByCategory(view, OpSum)
	for i := range points {
		points[i].Metric = points[i].Metric.Round(2)
	}
	return points
}

// DailyTotals resamples the view to calendar-day buckets, summing value
// per day. Only days present in the data appear — gaps are not filled.
func DailyTotals(view []dataset.Record) []DayPoint {
	var out []DayPoint
	for _, r := range view {
		day := dataset.DayStart(r.Timestamp)
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) {
			out[n-1].Metric = out[n-1].Metric.Add(r.Value)
			continue
		}
		out = append(out, DayPoint{Day: day, Metric: r.Value})
	}
	for i := range out {
		out[i].Metric = out[i].Metric.Round(2)
	}
	return out
}

// SummaryRow is one per-entity line of the breakdown table. Sum and Mean
// carry the 2-decimal rounding contract; currency formatting is a
// presentation overlay.
type SummaryRow struct {
	Entity string
	Sum    decimal.Decimal
	Count  int64
	Mean   decimal.Decimal
}

// SummaryRows groups the view by entityOf and computes {sum, count,
// mean} of value per entity, in first-appearance order.
func SummaryRows(view []dataset.Record, entityOf func(dataset.Record) string) []SummaryRow {
	type acc struct {
		sum   decimal.Decimal
		count int64
	}
	totals := make(map[string]*acc)
	var order []string
	for _, r := range view {
		key := entityOf(r)
		a, seen := totals[key]
		if !seen {
			a = &acc{}
			totals[key] = a
			order = append(order, key)
		}
		a.sum = a.sum.Add(r.Value)
		a.count++
	}

	out := make([]SummaryRow, 0, len(order))
	for _, key := range order {
		a := totals[key]
		out = append(out, SummaryRow{
			Entity: key,
			Sum:    a.sum.Round(2),
			Count:  a.count,
			Mean:   a.sum.Div(decimal.NewFromInt(a.count)).Round(2),
		})
	}
	return out
}

// ReturnPoint is one observation of the per-category return distribution.
type ReturnPoint struct {
	Date     time.Time
	Category string
	Return   float64
}

// ReturnDistribution computes percent change within each category's
// chronological subsequence and flattens the result. The first record of
// every category has no prior value and is dropped.
func ReturnDistribution(view []dataset.Record) []ReturnPoint {
	type prev struct {
		value float64
		set   bool
	}
	last := make(map[string]prev)

	var out []ReturnPoint
	for _, r := range view {
		v := r.Value.InexactFloat64()
		if p := last[r.Category]; p.set {
			out = append(out, ReturnPoint{
				Date:     r.Timestamp,
				Category: r.Category,
				Return:   (v - p.value) / p.value,
			})
		}
		last[r.Category] = prev{value: v, set: true}
	}
	return out
}
