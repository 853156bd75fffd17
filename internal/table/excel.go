package table

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadExcel parses the first sheet carrying tabular data (a header row plus
// at least one data row) from an .xlsx workbook. Simulation batches export
// one sheet per workbook, but empty cover sheets do occur.
func ReadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		header := rows[0]
		if !hasHeader(header) {
			continue
		}

		var cols []string
		for _, c := range header {
			if strings.TrimSpace(c) != "" {
				cols = append(cols, c)
			}
		}
		t := New(cols...)
		for _, rec := range rows[1:] {
			row := make(map[string]Cell, len(header))
			for i, col := range header {
				if col == "" {
					continue
				}
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

	return nil, fmt.Errorf("no tabular sheet found in workbook")
}

func hasHeader(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
