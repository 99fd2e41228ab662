package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"hiveingest/internal/config"
	"hiveingest/pkg/contracts/domain"
)

const parquetBatchSize = 1024

type columnKind int

const (
	kindString columnKind = iota
	kindDouble
	kindTimestamp
)

// columnKinds picks a physical type per column. A column whose non-missing
// cells are all numbers is DOUBLE, all times is a millisecond TIMESTAMP, and
// anything else (including an all-missing column) is a string.
func columnKinds(t *domain.Table) []columnKind {
	kinds := make([]columnKind, t.Width())
	for j := range kinds {
		numbers, times, other := 0, 0, 0
		for i := 0; i < t.Len(); i++ {
			switch t.Row(i)[j].Kind {
			case domain.CellNumber:
				numbers++
			case domain.CellTime:
				times++
			case domain.CellText:
				other++
			}
		}
		switch {
		case other > 0 || (numbers > 0 && times > 0):
			kinds[j] = kindString
		case numbers > 0:
			kinds[j] = kindDouble
		case times > 0:
			kinds[j] = kindTimestamp
		default:
			kinds[j] = kindString
		}
	}
	return kinds
}

func parquetSchema(name string, columns []string, kinds []columnKind) *parquet.Schema {
	group := parquet.Group{}
	for i, c := range columns {
		var node parquet.Node
		switch kinds[i] {
		case kindDouble:
			node = parquet.Leaf(parquet.DoubleType)
		case kindTimestamp:
			node = parquet.Timestamp(parquet.Millisecond)
		default:
			node = parquet.String()
		}
		group[c] = parquet.Optional(node)
	}
	return parquet.NewSchema(name, group)
}

// ParquetExporter writes the combined table to a Parquet file with one
// optional column per table column. Missing cells are nulls.
type ParquetExporter struct {
	path       string
	schemaName string
}

// NewParquetExporter creates a Parquet exporter for path
func NewParquetExporter(path, schemaName string) *ParquetExporter {
	if schemaName == "" {
		schemaName = config.DefaultParquetSchema
	}
	return &ParquetExporter{path: path, schemaName: schemaName}
}

// Format implements TableExporter
func (e *ParquetExporter) Format() string { return "parquet" }

// Path implements TableExporter
func (e *ParquetExporter) Path() string { return e.path }

// Export implements TableExporter
func (e *ParquetExporter) Export(ctx context.Context, t *domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := writeParquet(ctx, file, e.schemaName, t); err != nil {
		return err
	}
	return file.Close()
}

func writeParquet(ctx context.Context, file *os.File, schemaName string, t *domain.Table) error {
	columns := t.Columns()
	kinds := columnKinds(t)
	schema := parquetSchema(schemaName, columns, kinds)

	// Group fields are ordered by name, so leaf indexes differ from table positions
	leaves := make([]int, len(columns))
	for j, c := range columns {
		leaf, ok := schema.Lookup(c)
		if !ok {
			return fmt.Errorf("parquet schema has no column %q", c)
		}
		leaves[j] = leaf.ColumnIndex
	}

	writer := parquet.NewWriter(file, schema)
	batch := make([]parquet.Row, 0, parquetBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.WriteRows(batch); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < t.Len(); i++ {
		row := make(parquet.Row, len(columns))
		for j, c := range t.Row(i) {
			row[leaves[j]] = parquetValue(c, kinds[j]).Level(0, definitionLevel(c), leaves[j])
		}
		batch = append(batch, row)

		if len(batch) == parquetBatchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func definitionLevel(c domain.Cell) int {
	if c.IsMissing() {
		return 0
	}
	return 1
}

func parquetValue(c domain.Cell, kind columnKind) parquet.Value {
	if c.IsMissing() {
		return parquet.NullValue()
	}
	switch kind {
	case kindDouble:
		return parquet.DoubleValue(c.Num)
	case kindTimestamp:
		return parquet.Int64Value(c.Time.UnixMilli())
	default:
		return parquet.ByteArrayValue([]byte(formatCell(c)))
	}
}
