package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a rectangular table headed by column names. Rows are kept
// positionally, in the same order as the columns.
type Dataset struct {
	columns []string
	rows    [][]string
}

// NewDataset builds an empty table with the given column names.
func NewDataset(columns ...string) *Dataset {
	return &Dataset{columns: columns}
}

// AddRow appends one row. Missing trailing values render empty; extras
// beyond the column count are dropped.
func (d *Dataset) AddRow(values ...string) {
	row := make([]string, len(d.columns))
	copy(row, values)
	d.rows = append(d.rows, row)
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data *Dataset) ([]byte, error) {
	if data == nil || len(data.columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range data.rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
