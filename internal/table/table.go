package table

import (
	"fmt"
	"strconv"
)

// SourceColumn is the provenance column recording each row's originating file.
const SourceColumn = "_source_file"

// Kind discriminates the nullable cell variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// Cell is one nullable table value.
type Cell struct {
	Kind Kind
	Num  float64
	Text string
}

// Null is the explicit missing-value cell.
var Null = Cell{}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: KindNumber, Num: v}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// String renders the cell for CSV export. Numbers use the shortest exact
// representation; nulls render empty.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// Table is an in-memory column-ordered table with nullable cells and a
// contiguous zero-based row index.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Cell
}

// New creates an empty table with the given columns, in order.
func New(cols ...string) *Table {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a column, filling existing rows with nulls.
// Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Null)
	}
}

// AppendRow appends one row. Missing columns are filled with nulls; cells
// for unknown columns are an error, the caller declares columns up front.
func (t *Table) AppendRow(cells map[string]Cell) error {
	row := make([]Cell, len(t.cols))
	for name, c := range cells {
		i, ok := t.index[name]
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		row[i] = c
	}
	t.rows = append(t.rows, row)
	return nil
}

// Cell returns the cell at (row, col). Unknown columns read as null.
func (t *Table) Cell(row int, col string) Cell {
	i, ok := t.index[col]
	if !ok {
		return Null
	}
	return t.rows[row][i]
}

// SetCell overwrites the cell at (row, col). Unknown columns are ignored.
func (t *Table) SetCell(row int, col string, c Cell) {
	if i, ok := t.index[col]; ok {
		t.rows[row][i] = c
	}
}

// Fill sets every cell of the named column to c.
func (t *Table) Fill(col string, c Cell) {
	i, ok := t.index[col]
	if !ok {
		return
	}
	for r := range t.rows {
		t.rows[r][i] = c
	}
}

// SelectRows returns a new table containing the given rows in order, with
// a freshly reset contiguous index.
func (t *Table) SelectRows(idx []int) *Table {
	out := New(t.cols...)
	out.rows = make([][]Cell, 0, len(idx))
	for _, r := range idx {
		row := make([]Cell, len(t.rows[r]))
		copy(row, t.rows[r])
		out.rows = append(out.rows, row)
	}
	return out
}

// NumericColumn returns the numeric values of a column along with the rows
// they came from. Null and text cells are skipped.
func (t *Table) NumericColumn(col string) (vals []float64, rows []int) {
	i, ok := t.index[col]
	if !ok {
		return nil, nil
	}
	for r := range t.rows {
		if c := t.rows[r][i]; c.Kind == KindNumber {
			vals = append(vals, c.Num)
			rows = append(rows, r)
		}
	}
	return vals, rows
}

// Records renders all rows as strings in column order, for CSV export.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.rows))
	for r, row := range t.rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.String()
		}
		records[r] = rec
	}
	return records
}

// Concat merges tables as a union of columns, in first-seen order, filling
// absences with nulls. Rows are never merged or de-duplicated: the result
// holds every input row exactly once, in input order.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		for _, c := range t.cols {
			out.AddColumn(c)
		}
	}
	for _, t := range tables {
		for r := range t.rows {
			row := make([]Cell, len(out.cols))
			for i, c := range t.cols {
				row[out.index[c]] = t.rows[r][i]
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// ParseCell converts one raw string value into a cell: empty and NaN-like
// markers become null, numeric strings become numbers, anything else text.
func ParseCell(raw string) Cell {
	switch raw {
	case "", "nan", "NaN", "NAN", "null", "NULL", "None":
		return Null
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(v)
	}
	return Text(raw)
}
