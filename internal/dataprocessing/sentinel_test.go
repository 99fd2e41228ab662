package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hiveingest/internal/errors"
	"hiveingest/pkg/contracts/domain"
)

const sentinel = -2137

func sentinelTable(t *testing.T) *domain.Table {
	return buildTable(t, []string{"Temperature", "Humidity", "Weight", "Device"},
		[]domain.Cell{domain.Number(20), domain.Number(sentinel), domain.Number(40), domain.Text("hiveA")},
		[]domain.Cell{domain.Number(21), domain.Number(60), domain.Number(41), domain.Text("hiveA")},
		[]domain.Cell{domain.Number(sentinel), domain.Number(sentinel), domain.Missing(), domain.Text("hiveB")},
		[]domain.Cell{domain.Number(-2137.5), domain.Text("-2137"), domain.Number(0), domain.Text("hiveB")},
	)
}

func TestScanSentinel(t *testing.T) {
	report, err := ScanSentinel(sentinelTable(t), sentinel)
	require.NoError(t, err)

	assert.True(t, report.Found())
	assert.Equal(t, []string{"Temperature", "Humidity"}, report.Columns, "columns in table order")
	assert.Equal(t, []int{0, 2}, report.Rows)
	assert.Equal(t, 2, report.RowCount())
	assert.Equal(t, 3, report.CellCount())
	assert.Equal(t, map[string]int{"Humidity": 2, "Temperature": 1}, report.ColumnHits)
	assert.Equal(t, float64(sentinel), report.Sentinel)
}

func TestScanSentinelClean(t *testing.T) {
	table := buildTable(t, []string{"Temperature"},
		[]domain.Cell{domain.Number(20)},
		[]domain.Cell{domain.Missing()},
	)
	report, err := ScanSentinel(table, sentinel)
	require.NoError(t, err)
	assert.False(t, report.Found())
	assert.Empty(t, report.Columns)
	assert.Zero(t, report.RowCount())
}

func TestScanSentinelNilTable(t *testing.T) {
	_, err := ScanSentinel(nil, sentinel)
	assert.ErrorIs(t, err, ErrNilTable)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSentinel))
}

func TestReplaceSentinel(t *testing.T) {
	original := sentinelTable(t)

	replaced, n, err := ReplaceSentinel(original, sentinel)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, pos := range []struct {
		row int
		col string
	}{{0, "Humidity"}, {2, "Temperature"}, {2, "Humidity"}} {
		c, err := replaced.Cell(pos.row, pos.col)
		require.NoError(t, err)
		assert.True(t, c.IsMissing(), "row %d %s", pos.row, pos.col)
	}

	// near misses and text are untouched
	c, err := replaced.Cell(3, "Temperature")
	require.NoError(t, err)
	assert.True(t, c.IsNumber(-2137.5))
	c, err = replaced.Cell(3, "Humidity")
	require.NoError(t, err)
	assert.Equal(t, domain.Text("-2137"), c)

	// the input table is unchanged
	c, err = original.Cell(0, "Humidity")
	require.NoError(t, err)
	assert.True(t, c.IsNumber(sentinel))

	rescan, err := ScanSentinel(replaced, sentinel)
	require.NoError(t, err)
	assert.False(t, rescan.Found())
}

func TestReplaceSentinelIdempotent(t *testing.T) {
	once, _, err := ReplaceSentinel(sentinelTable(t), sentinel)
	require.NoError(t, err)

	twice, n, err := ReplaceSentinel(once, sentinel)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Equal(t, once.Columns(), twice.Columns())
	require.Equal(t, once.Len(), twice.Len())
	for i := 0; i < once.Len(); i++ {
		for j, c := range once.Row(i) {
			assert.True(t, c.Equal(twice.Row(i)[j]), "row %d col %d", i, j)
		}
	}
}

func TestReplaceSentinelNilTable(t *testing.T) {
	out, n, err := ReplaceSentinel(nil, sentinel)
	assert.ErrorIs(t, err, ErrNilTable)
	assert.Nil(t, out)
	assert.Zero(t, n)
}
