package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ReadCSV parses a delimited file with a header row into a table. Cells are
// parsed eagerly: numeric strings become numbers, empty cells become nulls.
// Short records are padded with nulls, long records truncated to the header.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	header := records[0]
	// Strip a UTF-8 BOM Excel likes to prepend.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t := New(header...)
	for _, rec := range records[1:] {
		row := make(map[string]Cell, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = ParseCell(strings.TrimSpace(rec[i]))
			}
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
