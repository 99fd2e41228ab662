// Package exporter writes the combined hive table to files.
//
// Three exporters implement TableExporter:
//
// CSVExporter: UTF-8 CSV with a BOM for Excel, streamed row by row through
// WriteTable.
//
// ParquetExporter: one optional column per table column. Numeric columns are
// DOUBLE, timestamp columns are millisecond TIMESTAMPs, the rest are strings.
//
// SQLiteExporter: recreates a table with one column per table column.
//
// In every format a missing cell is empty or NULL, never zero.
//
// Example usage:
//
//	exporters := exporter.FromConfig(cfg.Export)
//	for _, err := range exporter.ExportAll(ctx, logger, exporters, table) {
//	    reporter.ExportFailed(err)
//	}
package exporter
