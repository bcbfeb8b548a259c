package v1

// Warning values carried by a Bundle. An empty filtered view is a
// well-formed bundle plus WarningNoData — never an error.
const WarningNoData = "no_data"

// Bundle is one full render cycle's worth of dashboard output: KPIs,
// chart series and the breakdown table. The server never writes to a
// display surface; clients own all widget concerns.
type Bundle struct {
	Profile   string                   `json:"profile"`
	KPIs      map[string]interface{}   `json:"kpis"`
	Series    map[string][]SeriesPoint `json:"series_by_chart"`
	TableRows []TableRow               `json:"table_rows"`
	Warning   string                   `json:"warning,omitempty"`
}

// SeriesPoint is one element of a chart series. Key is a category label
// or an ISO calendar day, depending on the chart; Date is set when the
// point carries both a category and a day (the return distribution).
type SeriesPoint struct {
	Key    string  `json:"key"`
	Date   string  `json:"date,omitempty"`
	Metric float64 `json:"metric"`
}

// TableRow is one line of the per-entity breakdown. Sum and Mean are the
// raw 2-decimal numbers; the Label fields carry the currency-formatted
// presentation strings.
type TableRow struct {
	Entity    string  `json:"entity"`
	Sum       float64 `json:"sum"`
	Count     int64   `json:"count"`
	Mean      float64 `json:"mean"`
	SumLabel  string  `json:"sum_label"`
	MeanLabel string  `json:"mean_label"`
}

// DatasetMeta describes a registered dataset.
type DatasetMeta struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Profile     string   `json:"profile"`
	Rows        int      `json:"rows"`
	SkippedRows int      `json:"skipped_rows"`
	MinDate     string   `json:"min_date"`
	MaxDate     string   `json:"max_date"`
	Categories  []string `json:"categories"`
}
