package dataprocessing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"hiveingest/internal/config"
	"hiveingest/pkg/contracts/domain"
)

// CleanerConfig holds the per-file transformation settings
type CleanerConfig struct {
	TimestampColumn string   // source column renamed to DateColumn
	DateColumn      string   // column parsed as a date-time
	DateLayout      string   // Go layout of the timestamp text
	DropColumns     []string // removed when present
}

// DefaultCleanerConfig returns the BeeHUB export settings
func DefaultCleanerConfig() CleanerConfig {
	drop := make([]string, len(config.DefaultDropColumns))
	copy(drop, config.DefaultDropColumns)
	return CleanerConfig{
		TimestampColumn: config.DefaultTimestampColumn,
		DateColumn:      config.DefaultDateColumn,
		DateLayout:      config.DefaultDateLayout,
		DropColumns:     drop,
	}
}

// CleanerConfigFrom maps the cleaning section of the application config
func CleanerConfigFrom(cfg config.CleaningConfig) CleanerConfig {
	return CleanerConfig{
		TimestampColumn: cfg.TimestampColumn,
		DateColumn:      cfg.DateColumn,
		DateLayout:      cfg.DateLayout,
		DropColumns:     cfg.DropColumns,
	}
}

// CleanReport describes what Clean changed in a table
type CleanReport struct {
	Renamed       bool
	Dropped       []string
	UnparsedDates int
}

// Cleaner turns a raw workbook table into a cleaned hive table
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// NewCleaner creates a cleaner. Empty settings fall back to the defaults.
func NewCleaner(logger *slog.Logger, cfg CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultCleanerConfig()
	if cfg.TimestampColumn == "" {
		cfg.TimestampColumn = defaults.TimestampColumn
	}
	if cfg.DateColumn == "" {
		cfg.DateColumn = defaults.DateColumn
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = defaults.DateLayout
	}
	if cfg.DropColumns == nil {
		cfg.DropColumns = defaults.DropColumns
	}

	return &Cleaner{logger: logger, config: cfg}
}

// Clean transforms t in place: rename the timestamp column, parse dates, drop
// the unwanted columns, tag the device and add the calendar fields.
// A table without the date column after the rename is an error.
func (c *Cleaner) Clean(t *domain.Table, device string) (CleanReport, error) {
	var report CleanReport

	renamed, err := t.Rename(c.config.TimestampColumn, c.config.DateColumn)
	if err != nil {
		return report, err
	}
	report.Renamed = renamed

	raw, err := t.Column(c.config.DateColumn)
	if err != nil {
		return report, fmt.Errorf("timestamp column: %w", err)
	}

	dates := make([]domain.Cell, len(raw))
	for i, cell := range raw {
		dates[i] = c.parseDate(cell)
		if dates[i].IsMissing() && !cell.IsMissing() {
			report.UnparsedDates++
		}
	}
	if err := t.SetColumn(c.config.DateColumn, dates); err != nil {
		return report, err
	}

	report.Dropped = t.Drop(c.config.DropColumns...)

	labels := make([]domain.Cell, t.Len())
	for i := range labels {
		labels[i] = domain.Text(device)
	}
	if err := t.SetColumn(domain.ColumnDevice, labels); err != nil {
		return report, err
	}

	for i, values := range calendarFields(dates) {
		if err := t.SetColumn(domain.CalendarColumns[i], values); err != nil {
			return report, err
		}
	}

	c.logger.Debug("table cleaned",
		slog.String("device", device),
		slog.Int("rows", t.Len()),
		slog.Bool("renamed", report.Renamed),
		slog.Any("dropped", report.Dropped),
		slog.Int("unparsed_dates", report.UnparsedDates))

	return report, nil
}

// parseDate coerces a cell to a timestamp. Text must match the layout exactly;
// numbers are Excel date serials. Anything else becomes missing.
func (c *Cleaner) parseDate(cell domain.Cell) domain.Cell {
	switch cell.Kind {
	case domain.CellTime:
		return cell
	case domain.CellText:
		ts, err := time.ParseInLocation(c.config.DateLayout, cell.Str, time.UTC)
		if err != nil {
			return domain.Missing()
		}
		return domain.Timestamp(ts)
	case domain.CellNumber:
		ts, err := excelize.ExcelDateToTime(cell.Num, false)
		if err != nil {
			return domain.Missing()
		}
		return domain.Timestamp(ts)
	default:
		return domain.Missing()
	}
}

// calendarFields derives the calendar columns from parsed dates, in
// domain.CalendarColumns order. Weekday counts from Monday = 0.
func calendarFields(dates []domain.Cell) [][]domain.Cell {
	fields := make([][]domain.Cell, len(domain.CalendarColumns))
	for f := range fields {
		fields[f] = make([]domain.Cell, len(dates))
	}

	for i, d := range dates {
		if d.Kind != domain.CellTime {
			for f := range fields {
				fields[f][i] = domain.Missing()
			}
			continue
		}
		ts := d.Time
		parts := []int{
			(int(ts.Weekday()) + 6) % 7,
			int(ts.Month()),
			ts.Day(),
			ts.Year(),
			ts.Hour(),
			ts.Minute(),
		}
		for f, v := range parts {
			fields[f][i] = domain.Number(float64(v))
		}
	}
	return fields
}
