package dataprocessing

import (
	"errors"
	"fmt"

	"hiveingest/pkg/contracts/domain"
)

// ErrNoTables is returned when there is nothing to concatenate
var ErrNoTables = errors.New("no tables to concatenate")

// Concat stacks tables in order and re-indexes rows sequentially.
// The result has the union of the input columns in order of first appearance;
// rows whose source lacks a column hold the missing marker there.
func Concat(tables []*domain.Table) (*domain.Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("concat: nil table")
		}
		for _, name := range t.Columns() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}

	combined, err := domain.NewTable(columns)
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		// position of each combined column in t, -1 when absent
		positions := make([]int, len(columns))
		for j, name := range columns {
			if idx, ok := t.ColumnIndex(name); ok {
				positions[j] = idx
			} else {
				positions[j] = -1
			}
		}

		for i := 0; i < t.Len(); i++ {
			src := t.Row(i)
			row := make([]domain.Cell, len(columns))
			for j, p := range positions {
				if p < 0 {
					row[j] = domain.Missing()
					continue
				}
				row[j] = src[p]
			}
			if err := combined.AppendRow(row); err != nil {
				return nil, err
			}
		}
	}

	return combined, nil
}

// SuccessfulTables returns the tables of the results that succeeded, in order
func SuccessfulTables(results []domain.FileResult) []*domain.Table {
	var tables []*domain.Table
	for _, r := range results {
		if r.OK() {
			tables = append(tables, r.Table)
		}
	}
	return tables
}
