package exporter

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "hive.db")
	exporter := NewSQLiteExporter(path, "hive_readings")
	assert.Equal(t, "sqlite", exporter.Format())

	ctx := context.Background()
	require.NoError(t, exporter.Export(ctx, hiveTable(t)))
	// a second run replaces the table instead of appending
	require.NoError(t, exporter.Export(ctx, hiveTable(t)))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM hive_readings`).Scan(&count))
	assert.Equal(t, 3, count)

	rows, err := db.Query(`SELECT "Date", "Temperature", "Device", "note" FROM hive_readings ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close()

	type record struct {
		date   sql.NullString
		temp   sql.NullFloat64
		device string
		note   sql.NullString
	}
	var got []record
	for rows.Next() {
		var r record
		require.NoError(t, rows.Scan(&r.date, &r.temp, &r.device, &r.note))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 3)

	assert.Equal(t, "2024-06-03T14:25:09Z", got[0].date.String)
	assert.Equal(t, 34.25, got[0].temp.Float64)
	assert.Equal(t, "hiveA", got[0].device)

	assert.False(t, got[1].date.Valid, "missing date is NULL")
	assert.False(t, got[1].temp.Valid, "missing reading is NULL")
	assert.False(t, got[1].note.Valid)

	assert.Equal(t, "7", got[2].note.String)
}

func TestSQLiteExporterEmptyTableName(t *testing.T) {
	err := NewSQLiteExporter(filepath.Join(t.TempDir(), "hive.db"), "").Export(context.Background(), hiveTable(t))
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Time (UTC+0)"`, quoteIdent("Time (UTC+0)"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
