package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a named column is not part of the table
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when an operation would produce two columns with the same name
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrRowWidth is returned when a row or column does not match the table shape
	ErrRowWidth = errors.New("row width mismatch")
)

// Table is an ordered set of named columns with rows of cells.
// Row positions double as the sequential row index.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// NewTable creates an empty table with the given column names
func NewTable(columns []string) (*Table, error) {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, name := range columns {
		if _, exists := t.index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
	}
	return t, nil
}

// Columns returns a copy of the column names in table order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row. The row must have exactly Width cells.
func (t *Table) AppendRow(cells []Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRowWidth, len(cells), len(t.columns))
	}
	row := make([]Cell, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the cells of row i. The slice is owned by the table.
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// Cell returns the cell at row i of the named column
func (t *Table) Cell(i int, column string) (Cell, error) {
	c, ok := t.index[column]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	if i < 0 || i >= len(t.rows) {
		return Cell{}, fmt.Errorf("row %d out of range [0,%d)", i, len(t.rows))
	}
	return t.rows[i][c], nil
}

// Column returns a copy of the values of the named column
func (t *Table) Column(name string) ([]Cell, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, nil
}

// Rename renames a column. Renaming an absent column is a no-op and returns false.
func (t *Table) Rename(from, to string) (bool, error) {
	c, ok := t.index[from]
	if !ok {
		return false, nil
	}
	if from == to {
		return true, nil
	}
	if _, exists := t.index[to]; exists {
		return false, fmt.Errorf("%w: rename %q to %q", ErrDuplicateColumn, from, to)
	}
	delete(t.index, from)
	t.index[to] = c
	t.columns[c] = to
	return true, nil
}

// Drop removes the named columns that exist and ignores the rest.
// It returns the names that were actually removed, in table order.
func (t *Table) Drop(names ...string) []string {
	remove := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := t.index[n]; ok {
			remove[n] = true
		}
	}
	if len(remove) == 0 {
		return nil
	}

	keep := make([]int, 0, len(t.columns)-len(remove))
	var dropped []string
	for i, name := range t.columns {
		if remove[name] {
			dropped = append(dropped, name)
			continue
		}
		keep = append(keep, i)
	}

	columns := make([]string, len(keep))
	index := make(map[string]int, len(keep))
	for j, i := range keep {
		columns[j] = t.columns[i]
		index[columns[j]] = j
	}
	for r, row := range t.rows {
		next := make([]Cell, len(keep))
		for j, i := range keep {
			next[j] = row[i]
		}
		t.rows[r] = next
	}
	t.columns = columns
	t.index = index
	return dropped
}

// SetColumn replaces the values of an existing column or appends a new one
func (t *Table) SetColumn(name string, values []Cell) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", ErrRowWidth, name, len(values), len(t.rows))
	}
	if c, ok := t.index[name]; ok {
		for i, row := range t.rows {
			row[c] = values[i]
		}
		return nil
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}
	return nil
}

// Head returns a copy of the first n rows
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	out := t.shape()
	for _, row := range t.rows[:n] {
		cp := make([]Cell, len(row))
		copy(cp, row)
		out.rows = append(out.rows, cp)
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	return t.Head(len(t.rows))
}

// Each calls fn for every cell in row-major order
func (t *Table) Each(fn func(row int, column string, c Cell)) {
	for i, row := range t.rows {
		for j, c := range row {
			fn(i, t.columns[j], c)
		}
	}
}

// Replace rewrites every cell in place with the result of fn and returns the number of changed cells
func (t *Table) Replace(fn func(c Cell) (Cell, bool)) int {
	changed := 0
	for _, row := range t.rows {
		for j, c := range row {
			if next, ok := fn(c); ok {
				row[j] = next
				changed++
			}
		}
	}
	return changed
}

// shape returns an empty table with the same columns
func (t *Table) shape() *Table {
	out := &Table{
		columns: make([]string, len(t.columns)),
		index:   make(map[string]int, len(t.columns)),
		rows:    make([][]Cell, 0),
	}
	copy(out.columns, t.columns)
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}
