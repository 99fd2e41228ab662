package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// HiveHeader is the header row of a trimmed BeeHUB export. It carries the
// timestamp column, three readings kept by the cleaner and three that are dropped.
var HiveHeader = []string{
	"Time (UTC+0)",
	"Temperature",
	"Humidity",
	"Weight",
	"windForce",
	"bhDewPoint",
	"Microprocessor temperature",
}

// HiveRow builds a data row matching HiveHeader
func HiveRow(timestamp string, temperature, humidity, weight any) []any {
	return []any{timestamp, temperature, humidity, weight, 3, 11.5, 36.6}
}

// WriteWorkbook saves a single-sheet workbook to dir/name and returns its path.
// Nil values leave the cell empty.
func WriteWorkbook(t testing.TB, dir, name string, header []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				t.Fatalf("failed to resolve cell: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("failed to write %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook %s: %v", path, err)
	}
	return path
}

// WriteHiveWorkbook saves a BeeHUB-shaped workbook with the given rows
func WriteHiveWorkbook(t testing.TB, dir, name string, rows ...[]any) string {
	t.Helper()
	return WriteWorkbook(t, dir, name, HiveHeader, rows)
}

// WriteCorruptWorkbook saves a file with an .xlsx name that is not a zip archive
func WriteCorruptWorkbook(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a workbook"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// HiveTimestamp formats a reading time the way BeeHUB exports it
func HiveTimestamp(day, month, year, hour, minute, second int) string {
	return fmt.Sprintf("%02d.%02d.%d, %02d:%02d:%02d", day, month, year, hour, minute, second)
}
