// Package dashboard turns a registered dataset plus filter parameters
// into one render bundle per request: KPIs, chart series and the
// breakdown table. The package owns the HTTP surface; the computation it
// delegates to lives in internal/core and stays display-agnostic.
package dashboard

import (
	v1 "github.com/mirador-lab/project-mirador/internal/api/v1"
	"github.com/mirador-lab/project-mirador/internal/core/aggregate"
	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	"github.com/mirador-lab/project-mirador/internal/core/filter"
	"github.com/mirador-lab/project-mirador/internal/core/metrics"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
)

// Chart names used as Series keys in the bundle.
const (
	ChartRevenueByCategory  = "revenue_by_category"
	ChartDailyRevenue       = "daily_revenue"
	ChartDailyMeanPrice     = "daily_mean_price"
	ChartReturnDistribution = "return_distribution"
)

// Service computes render bundles and serves the dashboard API.
type Service struct {
	registry     *Registry
	profiles     *profile.Repository
	maxBodyBytes int
}

// NewService creates the dashboard service over a dataset registry and
// profile repository. maxBodySizeMB bounds CSV uploads.
func NewService(registry *Registry, profiles *profile.Repository, maxBodySizeMB int) *Service {
	return &Service{
		registry:     registry,
		profiles:     profiles,
		maxBodyBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// Registry exposes the dataset registry for handler wiring.
func (s *Service) Registry() *Registry { return s.registry }

// BuildBundle recomputes the full dashboard for one dataset and one set
// of filter parameters: clamp, filter, then KPIs + aggregates per the
// dataset's profile kind. An empty filtered view yields a well-formed
// zero bundle carrying the no-data warning.
func (s *Service) BuildBundle(ds *Dataset, params filter.Params) *v1.Bundle {
	clamped := params.Clamp(ds.Store)
	view := filter.Apply(ds.Store, clamped)

	bundle := &v1.Bundle{
		Profile:   ds.Profile.Name,
		KPIs:      make(map[string]interface{}),
		Series:    make(map[string][]v1.SeriesPoint),
		TableRows: []v1.TableRow{},
	}

	switch ds.Profile.Kind {
	case profile.KindPriceSeries:
		s.fillPrice(bundle, view, ds.Profile)
	default:
		s.fillSales(bundle, view, ds.Profile)
	}

	if len(view) == 0 {
		bundle.Warning = v1.WarningNoData
	}
	return bundle
}

func (s *Service) fillSales(bundle *v1.Bundle, view []dataset.Record, p profile.Profile) {
	kpis := metrics.Sales(view)
	bundle.KPIs["total_revenue"] = kpis.TotalRevenue.InexactFloat64()
	bundle.KPIs["transaction_count"] = kpis.TransactionCount
	bundle.KPIs["average_sale"] = kpis.AverageSale.InexactFloat64()

	byCategory := make([]v1.SeriesPoint, 0, 4)
	for _, pt := range aggregate.SumByCategory(view) {
		byCategory = append(byCategory, v1.SeriesPoint{Key: pt.Key, Metric: pt.Metric.InexactFloat64()})
	}
	bundle.Series[ChartRevenueByCategory] = byCategory

	daily := []v1.SeriesPoint{}
	for _, pt := range aggregate.DailyTotals(view) {
		daily = append(daily, v1.SeriesPoint{Key: isoDay(pt.Day), Metric: pt.Metric.InexactFloat64()})
	}
	bundle.Series[ChartDailyRevenue] = daily

	bundle.TableRows = tableRows(aggregate.SummaryRows(view, entityOf(p)))
}

func (s *Service) fillPrice(bundle *v1.Bundle, view []dataset.Record, p profile.Profile) {
	kpis := metrics.Price(view)
	bundle.KPIs["last_price"] = kpis.LastPrice.InexactFloat64()
	bundle.KPIs["avg_daily_return_pct"] = kpis.AvgDailyReturn
	bundle.KPIs["annualized_volatility_pct"] = kpis.AnnualizedVolatility
	bundle.KPIs["total_days_analyzed"] = kpis.TotalDaysAnalyzed

	daily := []v1.SeriesPoint{}
	for _, dv := range metrics.DailyMeans(view) {
		daily = append(daily, v1.SeriesPoint{Key: isoDay(dv.Day), Metric: dv.Value.InexactFloat64()})
	}
	bundle.Series[ChartDailyMeanPrice] = daily

	returns := []v1.SeriesPoint{}
	for _, rp := range aggregate.ReturnDistribution(view) {
		returns = append(returns, v1.SeriesPoint{
			Key:    rp.Category,
			Date:   isoDay(rp.Date),
			Metric: rp.Return,
		})
	}
	bundle.Series[ChartReturnDistribution] = returns

	bundle.TableRows = tableRows(aggregate.SummaryRows(view, entityOf(p)))
}

// entityOf picks the grouping key for the breakdown table: the profile's
// extra field when configured (sales groups by vendor), else category.
func entityOf(p profile.Profile) func(dataset.Record) string {
	if p.EntityExtra == "" {
		return func(r dataset.Record) string { return r.Category }
	}
	return func(r dataset.Record) string { return r.Extras[p.EntityExtra] }
}

func tableRows(rows []aggregate.SummaryRow) []v1.TableRow {
	out := make([]v1.TableRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, v1.TableRow{
			Entity: row.Entity,
			Sum:    row.Sum.InexactFloat64(),
			Count:  row.Count,
			Mean:   row.Mean.InexactFloat64(),
		})
	}
	return out
}
