package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiveingest/pkg/contracts/domain"
)

func hiveTable(t *testing.T) *domain.Table {
	t.Helper()
	table, err := domain.NewTable([]string{"Date", "Temperature", "Device", "note"})
	require.NoError(t, err)

	ts := time.Date(2024, 6, 3, 14, 25, 9, 0, time.UTC)
	rows := [][]domain.Cell{
		{domain.Timestamp(ts), domain.Number(34.25), domain.Text("hiveA"), domain.Text("ok")},
		{domain.Missing(), domain.Missing(), domain.Text("hiveA"), domain.Missing()},
		{domain.Timestamp(ts.Add(10 * time.Minute)), domain.Number(-3), domain.Text("hiveB"), domain.Number(7)},
	}
	for _, r := range rows {
		require.NoError(t, table.AppendRow(r))
	}
	return table
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, utf8BOM), "file should start with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(content[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCreateStreamWriter(t *testing.T) {
	dir := t.TempDir()

	stream, err := CreateStreamWriter(filepath.Join(dir, "stream.csv"), []string{"Device", "Weight"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"hiveA", "1"}))
	require.NoError(t, stream.WriteRecord([]string{"hiveB", "2"}))
	require.NoError(t, stream.Close())

	assert.Equal(t,
		[][]string{{"Device", "Weight"}, {"hiveA", "1"}, {"hiveB", "2"}},
		readCSV(t, filepath.Join(dir, "stream.csv")))
}

func TestWriteTableQuotesFields(t *testing.T) {
	table, err := domain.NewTable([]string{"Time (UTC+0)", "note"})
	require.NoError(t, err)
	require.NoError(t, table.AppendRow([]domain.Cell{domain.Text("01.06.2024, 12:00:00"), domain.Text(`say "hi"`)}))

	path := filepath.Join(t.TempDir(), "out", "nested", "quoted.csv")
	require.NoError(t, WriteTable(context.Background(), path, table))

	assert.Equal(t,
		[][]string{{"Time (UTC+0)", "note"}, {"01.06.2024, 12:00:00", `say "hi"`}},
		readCSV(t, path))
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "hive.csv")
	exporter := NewCSVExporter(path)

	assert.Equal(t, "csv", exporter.Format())
	assert.Equal(t, path, exporter.Path())
	require.NoError(t, exporter.Export(context.Background(), hiveTable(t)))

	assert.Equal(t, [][]string{
		{"Date", "Temperature", "Device", "note"},
		{"2024-06-03T14:25:09Z", "34.25", "hiveA", "ok"},
		{"", "", "hiveA", ""},
		{"2024-06-03T14:35:09Z", "-3", "hiveB", "7"},
	}, readCSV(t, path))
}

func TestCSVExporterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCSVExporter(filepath.Join(t.TempDir(), "hive.csv")).Export(ctx, hiveTable(t))
	assert.ErrorIs(t, err, context.Canceled)
}
