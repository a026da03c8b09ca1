// Package normalize projects raw tabular record sets from any source into the
// canonical price, volatility and breadth Day-Series.
package normalize

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// Table is a raw record set: a header row plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeSchema, "failed to read csv", err)
	}

	if len(records) == 0 {
		return Table{}, errors.New(errors.ErrCodeEmptyResult, "csv has no header row")
	}

	columns := records[0]
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	return Table{Columns: columns, Rows: records[1:]}, nil
}

// cell returns the value at row and column index, or "" when the row is short.
func (t Table) cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[index])
}
