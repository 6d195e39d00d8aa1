// Package core — tabular data shared by every tier.
package core

import "slices"

// Table is an ordered, column-stable set of string rows.
type Table struct {
	Columns []string
	Rows    [][]string
	// Single marks a one-record topic, serialized in the raw tier as a
	// dict of scalars instead of a dict of lists.
	Single bool
}

// NewTable creates an empty multi-row table with the given columns.
func NewTable(columns ...string) Table {
	return Table{Columns: slices.Clone(columns), Rows: [][]string{}}
}

// NewRecord creates a single-record table.
func NewRecord(columns []string, values []string) Table {
	t := NewTable(columns...)
	t.Single = true
	t.Append(values...)
	return t
}

// Append adds a row, padding missing trailing values with "" and dropping
// extras so every row matches the column count.
func (t *Table) Append(values ...string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t Table) Index(column string) int {
	return slices.Index(t.Columns, column)
}

// Value returns the cell at row i for the named column, or "" when either is missing.
func (t Table) Value(i int, column string) string {
	c := t.Index(column)
	if c < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][c]
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Columns: slices.Clone(t.Columns), Rows: make([][]string, len(t.Rows)), Single: t.Single}
	for i, r := range t.Rows {
		out.Rows[i] = slices.Clone(r)
	}
	return out
}

// Map returns a copy with fn applied to every cell.
func (t Table) Map(fn func(column, value string) string) Table {
	out := t.Clone()
	for _, r := range out.Rows {
		for c := range r {
			r[c] = fn(out.Columns[c], r[c])
		}
	}
	return out
}

// WithColumns returns a copy with extra columns appended; values are
// computed per row by fn.
func (t Table) WithColumns(columns []string, fn func(row []string) []string) Table {
	out := Table{Columns: append(slices.Clone(t.Columns), columns...), Rows: make([][]string, 0, len(t.Rows)), Single: t.Single}
	for _, r := range t.Rows {
		extra := make([]string, len(columns))
		copy(extra, fn(r))
		out.Rows = append(out.Rows, append(slices.Clone(r), extra...))
	}
	return out
}
