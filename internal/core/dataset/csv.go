package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrMissingHeader is returned when the CSV input has no header row.
var ErrMissingHeader = errors.New("csv input has no header row")

// Table is a raw tabular input: a header plus rows keyed by column name.
// Column order is arbitrary; inference binds roles by name, not position.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ReadTable parses CSV with a mandatory header row into a Table.
// Short rows are padded with empty cells rather than rejected.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated; padded below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, ErrMissingHeader
	}
	if err != nil {
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}

	table := Table{Columns: header}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row %d: %w", len(table.Rows)+2, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			} else {
				row[name] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
