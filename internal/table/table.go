// Package table holds the raw tabular payload handed to the prediction
// pipeline: a header row naming columns and a grid of string cells.
// Parsing files into a RawTable is the caller's concern (HTTP upload,
// CLI); the pipeline itself never touches the filesystem.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawTable is parsed-but-unvalidated tabular data.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// NumRows returns the data row count (header excluded).
func (t *RawTable) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a header column by name, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadCSV parses CSV content into a RawTable. The first record is the
// header; header names are trimmed of surrounding whitespace. Records
// may carry differing field counts — the validator reports those as
// malformed cells rather than failing the whole parse.
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return &RawTable{
		Header: header,
		Rows:   records[1:],
	}, nil
}
