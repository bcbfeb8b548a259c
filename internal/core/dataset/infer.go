package dataset

import (
	"strings"
	"time"
)

// ColumnRules names the lowercase substrings that bind a source column to
// a semantic role. Rules are evaluated in fixed priority order (date,
// value, category) and within a role the FIRST matching column wins, so
// ambiguous headers resolve deterministically.
type ColumnRules struct {
	Date     []string `yaml:"date"`
	Value    []string `yaml:"value"`
	Category []string `yaml:"category"`

	// Sentinel is the single category synthesized for every row when no
	// category column matches. An absent category column is not an error.
	Sentinel string `yaml:"sentinel"`
}

// Columns holds the resolved source-column names for each role.
// Category is empty when the sentinel is in effect.
type Columns struct {
	Date     string
	Value    string
	Category string
}

// matchColumn returns the first column whose lowercased name contains any
// of the given substrings.
func matchColumn(columns []string, patterns []string) (string, bool) {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return col, true
			}
		}
	}
	return "", false
}

// ResolveColumns runs inference over the header. Date and value are
// required roles; category falls back to the sentinel.
func ResolveColumns(header []string, rules ColumnRules) (Columns, error) {
	var cols Columns

	date, ok := matchColumn(header, rules.Date)
	if !ok {
		return Columns{}, &SchemaError{Kind: MissingDateColumn, Columns: header}
	}
	cols.Date = date

	value, ok := matchColumn(header, rules.Value)
	if !ok {
		return Columns{}, &SchemaError{Kind: MissingValueColumn, Columns: header}
	}
	cols.Value = value

	if cat, ok := matchColumn(header, rules.Category); ok {
		cols.Category = cat
	}
	return cols, nil
}

// BuildReport summarizes a store build: which columns were bound and how
// many rows were dropped by per-row parse failures.
type BuildReport struct {
	Columns Columns
	Rows    int
	Skipped int
}

// BuildFromTable resolves columns against rules, parses every row and
// returns the sorted store. Rows with an unparseable date or value are
// dropped and counted in the report, never fatal. A SchemaError from
// inference aborts the whole build.
func BuildFromTable(table Table, rules ColumnRules) (*Store, BuildReport, error) {
	cols, err := ResolveColumns(table.Columns, rules)
	if err != nil {
		return nil, BuildReport{}, err
	}

	report := BuildReport{Columns: cols}
	records := make([]Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		ts, ok := parseDate(row[cols.Date])
		if !ok {
			report.Skipped++
			continue
		}
		value, ok := ParseValue(row[cols.Value])
		if !ok {
			report.Skipped++
			continue
		}

		category := rules.Sentinel
		if cols.Category != "" {
			category = row[cols.Category]
		}

		var extras map[string]string
		for _, name := range table.Columns {
			if name == cols.Date || name == cols.Value || name == cols.Category {
				continue
			}
			if extras == nil {
				extras = make(map[string]string)
			}
			extras[name] = row[name]
		}

		records = append(records, Record{
			Timestamp: ts,
			Value:     value,
			Category:  category,
			Extras:    extras,
		})
	}

	if len(records) == 0 {
		return nil, report, ErrEmptyTable
	}

	report.Rows = len(records)
	return NewStore(records), report, nil
}

// dateLayouts are tried in order; first parse wins. Day-first layouts
// come before month-first so "13/02/2026" style exports parse, while
// purely ambiguous dates resolve the same way on every run.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
