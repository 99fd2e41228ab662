package exporter

import (
	"context"
	"log/slog"
	"time"

	"hiveingest/internal/config"
	apperrors "hiveingest/internal/errors"
	"hiveingest/pkg/contracts/domain"
)

// TableExporter writes a hive table to one destination
type TableExporter interface {
	Format() string
	Path() string
	Export(ctx context.Context, t *domain.Table) error
}

// FromConfig returns the exporters enabled in cfg, in CSV, Parquet, SQLite order
func FromConfig(cfg config.ExportConfig) []TableExporter {
	var exporters []TableExporter
	if cfg.CSVPath != "" {
		exporters = append(exporters, NewCSVExporter(cfg.CSVPath))
	}
	if cfg.ParquetPath != "" {
		exporters = append(exporters, NewParquetExporter(cfg.ParquetPath, cfg.ParquetSchema))
	}
	if cfg.SQLitePath != "" {
		exporters = append(exporters, NewSQLiteExporter(cfg.SQLitePath, cfg.SQLiteTable))
	}
	return exporters
}

// ExportAll runs every exporter against t. A failing exporter does not stop
// the others; its error is returned as an EXPORT AppError.
func ExportAll(ctx context.Context, logger *slog.Logger, exporters []TableExporter, t *domain.Table) []error {
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	for _, e := range exporters {
		start := time.Now()
		if err := e.Export(ctx, t); err != nil {
			appErr := apperrors.NewExportError(e.Format(), err).WithContext("path", e.Path())
			logger.ErrorContext(ctx, "export failed",
				slog.String("format", e.Format()),
				slog.String("path", e.Path()),
				slog.String("error", err.Error()))
			errs = append(errs, appErr)
			continue
		}
		logger.InfoContext(ctx, "table exported",
			slog.String("format", e.Format()),
			slog.String("path", e.Path()),
			slog.Int("rows", t.Len()),
			slog.Duration("duration", time.Since(start)))
	}
	return errs
}
