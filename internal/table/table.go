// Package table holds the in-memory tabular model shared by the loaders and
// analyzers.
//
// Rows are never reordered: a row's index is its 0-based position at load
// time and is the only identity analyzers report back to callers.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is matched by every ColumnNotFoundError.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError reports a designated column that is not in the header.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Column == "" {
		return "column not found: no column name given"
	}
	return fmt.Sprintf("column not found: %q", e.Column)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// Table is an ordered header plus ordered rows of cells aligned with it.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// New creates an empty table with the given header.
func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// AppendRow adds a row, padding short rows with absent cells and dropping
// cells beyond the header width.
func (t *Table) AppendRow(cells []Cell) {
	row := make([]Cell, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex resolves a column name. An exact match wins; otherwise the
// first header equal after trimming and case folding is used.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	want := strings.TrimSpace(name)
	if want == "" {
		return -1, false
	}
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of one column's cells in row order.
func (t *Table) Column(name string) ([]Cell, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name, Available: t.Columns}
	}
	return t.ColumnAt(idx), nil
}

// ColumnAt returns a copy of the cells at header position idx.
func (t *Table) ColumnAt(idx int) []Cell {
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Records returns the rows as header-keyed string maps, absent cells as "".
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j].String()
			} else {
				rec[col] = ""
			}
		}
		out[i] = rec
	}
	return out
}
