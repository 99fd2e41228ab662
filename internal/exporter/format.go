package exporter

import (
	"strconv"
	"time"

	"hiveingest/pkg/contracts/domain"
)

// formatFloat formats a reading in its shortest exact decimal form
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTime formats a timestamp as RFC 3339 in UTC
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatCell renders a cell for text outputs. Missing cells are empty.
func formatCell(c domain.Cell) string {
	switch c.Kind {
	case domain.CellNumber:
		return formatFloat(c.Num)
	case domain.CellText:
		return c.Str
	case domain.CellTime:
		return formatTime(c.Time)
	default:
		return ""
	}
}

// formatRow renders a table row for CSV output
func formatRow(cells []domain.Cell) []string {
	record := make([]string, len(cells))
	for i, c := range cells {
		record[i] = formatCell(c)
	}
	return record
}
