package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	input := "Symbol,Close,Date\nABC,10.5,2026-01-02\nXYZ,20,2026-01-03\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"Symbol", "Close", "Date"}, table.Columns)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "10.5", table.Rows[0]["Close"])
	require.Equal(t, "2026-01-03", table.Rows[1]["Date"])
}

func TestReadTable_ShortRowsPadded(t *testing.T) {
	input := "Date,Close,Symbol\n2026-01-02,10\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "", table.Rows[0]["Symbol"])
}

func TestReadTable_EmptyInput(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingHeader)
}
