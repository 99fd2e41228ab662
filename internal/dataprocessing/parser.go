package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"hiveingest/pkg/contracts/domain"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets
	ErrNoSheets = errors.New("workbook has no worksheets")
	// ErrEmptySheet is returned when the first worksheet has no header row
	ErrEmptySheet = errors.New("first worksheet is empty")
)

// Values that load as the missing-data marker in addition to empty cells
var missingValues = map[string]bool{
	"NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"NA": true, "N/A": true, "n/a": true, "#N/A": true, "#NA": true, "<NA>": true,
	"NULL": true, "null": true, "None": true,
}

// ParseFile reads the first worksheet of the workbook at filePath.
func ParseFile(filePath string) (*domain.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return LoadWorkbook(f)
}

// LoadWorkbook reads the first worksheet of an xlsx workbook into a table keyed
// by the header row. Cells are read unformatted so that numbers keep full precision.
func LoadWorkbook(r io.Reader) (*domain.Table, error) {
	opts := excelize.Options{RawCellValue: true}

	f, err := excelize.OpenReader(r, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheets[0])
	}

	// GetRows trims trailing empty cells, so the widest row sets the table width
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	table, err := domain.NewTable(headerNames(rows[0], width))
	if err != nil {
		return nil, err
	}

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		cells := make([]domain.Cell, width)
		for i := range cells {
			if i < len(row) {
				cells[i] = parseCell(row[i])
			} else {
				cells[i] = domain.Missing()
			}
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// headerNames builds unique column names from the header row.
// Blank headers become "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseCell types a raw cell value
func parseCell(raw string) domain.Cell {
	v := strings.TrimSpace(raw)
	if v == "" || missingValues[v] {
		return domain.Missing()
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return domain.Number(f)
	}
	return domain.Text(raw)
}
