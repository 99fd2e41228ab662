package dataprocessing

import (
	"errors"

	apperrors "hiveingest/internal/errors"
	"hiveingest/pkg/contracts/domain"
)

// ErrNilTable is returned by the sentinel steps when there is no table to work on
var ErrNilTable = errors.New("nil table")

// ScanSentinel finds every numeric cell equal to sentinel. Columns are reported
// in table order and rows in ascending order. A panic during the scan is
// returned as an error.
func ScanSentinel(t *domain.Table, sentinel float64) (report domain.SentinelReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			report = domain.SentinelReport{Sentinel: sentinel}
			err = apperrors.NewSentinelError("sentinel scan failed", apperrors.FromPanic(rec))
		}
	}()

	report = domain.SentinelReport{
		Sentinel:   sentinel,
		ColumnHits: make(map[string]int),
	}
	if t == nil {
		return report, apperrors.NewSentinelError("sentinel scan failed", ErrNilTable)
	}

	lastRow := -1
	t.Each(func(row int, column string, c domain.Cell) {
		if !c.IsNumber(sentinel) {
			return
		}
		if report.ColumnHits[column] == 0 {
			report.Columns = append(report.Columns, column)
		}
		report.ColumnHits[column]++
		if row != lastRow {
			report.Rows = append(report.Rows, row)
			lastRow = row
		}
	})

	// Each walks rows in order but columns of one row before the next, so
	// Columns is in first-hit order; put it back in table order.
	report.Columns = inTableOrder(t, report.Columns)
	return report, nil
}

// ReplaceSentinel returns a copy of t with every sentinel cell set to the
// missing marker, and the number of cells replaced. t itself is not modified,
// so on error the caller still holds the table as it was before the step.
func ReplaceSentinel(t *domain.Table, sentinel float64) (out *domain.Table, replaced int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, replaced = t, 0
			err = apperrors.NewSentinelError("sentinel replacement failed", apperrors.FromPanic(rec))
		}
	}()

	if t == nil {
		return nil, 0, apperrors.NewSentinelError("sentinel replacement failed", ErrNilTable)
	}

	out = t.Clone()
	replaced = out.Replace(func(c domain.Cell) (domain.Cell, bool) {
		if c.IsNumber(sentinel) {
			return domain.Missing(), true
		}
		return c, false
	})
	return out, replaced, nil
}

func inTableOrder(t *domain.Table, names []string) []string {
	if len(names) < 2 {
		return names
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	ordered := make([]string, 0, len(names))
	for _, c := range t.Columns() {
		if want[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
