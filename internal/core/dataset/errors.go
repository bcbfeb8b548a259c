package dataset

import (
	"errors"
	"fmt"
)

// Schema error kinds. A SchemaError is fatal to the whole build — no
// partial store is returned alongside one.
const (
	MissingDateColumn  = "missing_date_column"
	MissingValueColumn = "missing_value_column"
)

// ErrEmptyTable is returned when the input has a header but no data rows
// survive parsing.
var ErrEmptyTable = errors.New("no parseable rows in input")

// SchemaError reports that column inference could not resolve a required
// semantic role from the input's header.
type SchemaError struct {
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case MissingDateColumn:
		return fmt.Sprintf("no date-like column found in %v", e.Columns)
	case MissingValueColumn:
		return fmt.Sprintf("no value-like column found in %v", e.Columns)
	}
	return fmt.Sprintf("schema error %q in %v", e.Kind, e.Columns)
}

// Details returns the structured fields for API error responses.
func (e *SchemaError) Details() map[string]interface{} {
	return map[string]interface{}{
		"kind":    e.Kind,
		"columns": e.Columns,
	}
}
