package dataprocessing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiveingest/internal/shared/testutil"
	"hiveingest/pkg/contracts/domain"
)

func TestSummarizerSummarize(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	summarizer := NewSummarizer(logger, DefaultSummarizerConfig())

	table := buildTable(t, []string{"Temperature", "Device", "Weight", "hour", "Note"},
		[]domain.Cell{domain.Number(2), domain.Text("hiveA"), domain.Number(40), domain.Number(1), domain.Text("x")},
		[]domain.Cell{domain.Number(4), domain.Text("hiveA"), domain.Missing(), domain.Number(2), domain.Missing()},
		[]domain.Cell{domain.Missing(), domain.Text("hiveB"), domain.Missing(), domain.Number(3), domain.Text("y")},
		[]domain.Cell{domain.Number(6), domain.Text("hiveB"), domain.Text("err"), domain.Number(4), domain.Text("z")},
	)

	summaries := summarizer.Summarize(context.Background(), table)
	require.Len(t, summaries, 2, "text-only and calendar columns are skipped")

	temp := summaries[0]
	assert.Equal(t, "Temperature", temp.Column)
	assert.Equal(t, 3, temp.Count)
	assert.Equal(t, 1, temp.Missing)
	assert.InDelta(t, 4.0, temp.Mean, 1e-9)
	assert.InDelta(t, 2.0, temp.StdDev, 1e-9)
	assert.Equal(t, 2.0, temp.Min)
	assert.Equal(t, 6.0, temp.Max)

	weight := summaries[1]
	assert.Equal(t, "Weight", weight.Column)
	assert.Equal(t, 1, weight.Count)
	assert.Equal(t, 2, weight.Missing)
	assert.Equal(t, 40.0, weight.Mean)
	assert.True(t, math.IsNaN(weight.StdDev))

	assert.True(t, handler.ContainsMessage("column summary computed"))
}

func TestSummarizerNilTable(t *testing.T) {
	assert.Nil(t, NewSummarizer(nil, SummarizerConfig{}).Summarize(context.Background(), nil))
}

func TestSummarizerCustomSkip(t *testing.T) {
	table := buildTable(t, []string{"Temperature", "hour"},
		[]domain.Cell{domain.Number(1), domain.Number(5)},
	)
	summaries := NewSummarizer(nil, SummarizerConfig{SkipColumns: []string{"Temperature"}}).
		Summarize(context.Background(), table)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hour", summaries[0].Column)
}
