package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"hiveingest/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamWriter provides streaming CSV writing for large tables
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates the file at filePath, writes a UTF-8 BOM for Excel
// and the header row, and returns a writer for the records
func CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// WriteTable streams a table to filePath: BOM, header row, then one record per row.
func WriteTable(ctx context.Context, filePath string, t *domain.Table) error {
	slog.DebugContext(ctx, "Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", t.Len()))

	stream, err := CreateStreamWriter(filePath, t.Columns())
	if err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				stream.Close()
				return err
			}
		}
		if err := stream.WriteRecord(formatRow(t.Row(i))); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	return stream.Close()
}

// CSVExporter writes the combined table to a CSV file
type CSVExporter struct {
	path string
}

// NewCSVExporter creates a CSV exporter for path
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Format implements TableExporter
func (e *CSVExporter) Format() string { return "csv" }

// Path implements TableExporter
func (e *CSVExporter) Path() string { return e.path }

// Export implements TableExporter
func (e *CSVExporter) Export(ctx context.Context, t *domain.Table) error {
	return WriteTable(ctx, e.path, t)
}
