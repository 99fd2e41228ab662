package exporter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiveingest/pkg/contracts/domain"
)

func TestColumnKinds(t *testing.T) {
	table := hiveTable(t)
	extra, err := domain.NewTable([]string{"empty", "mixed"})
	require.NoError(t, err)
	require.NoError(t, extra.AppendRow([]domain.Cell{domain.Missing(), domain.Number(1)}))
	require.NoError(t, extra.AppendRow([]domain.Cell{domain.Missing(), domain.Timestamp(time.Now())}))

	assert.Equal(t, []columnKind{kindTimestamp, kindDouble, kindString, kindString}, columnKinds(table))
	assert.Equal(t, []columnKind{kindString, kindString}, columnKinds(extra))
}

func TestParquetExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive.parquet")
	exporter := NewParquetExporter(path, "")
	assert.Equal(t, "parquet", exporter.Format())

	require.NoError(t, exporter.Export(context.Background(), hiveTable(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	reader := parquet.NewReader(f)
	defer reader.Close()
	require.EqualValues(t, 3, reader.NumRows())

	schema := reader.Schema()
	leaf := func(name string) int {
		col, ok := schema.Lookup(name)
		require.True(t, ok, "column %s missing from schema", name)
		return col.ColumnIndex
	}

	rows := make([]parquet.Row, 3)
	n, err := reader.ReadRows(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)

	date := leaf("Date")
	temp := leaf("Temperature")
	device := leaf("Device")
	note := leaf("note")

	ts := time.Date(2024, 6, 3, 14, 25, 9, 0, time.UTC)
	assert.Equal(t, ts.UnixMilli(), rows[0][date].Int64())
	assert.Equal(t, 34.25, rows[0][temp].Double())
	assert.Equal(t, "hiveA", string(rows[0][device].ByteArray()))
	assert.Equal(t, "ok", string(rows[0][note].ByteArray()))

	assert.True(t, rows[1][date].IsNull())
	assert.True(t, rows[1][temp].IsNull())
	assert.True(t, rows[1][note].IsNull())
	assert.False(t, rows[1][device].IsNull())

	assert.Equal(t, -3.0, rows[2][temp].Double())
	assert.Equal(t, "7", string(rows[2][note].ByteArray()))
}
