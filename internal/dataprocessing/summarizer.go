package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hiveingest/pkg/contracts/domain"
)

// Summarizer computes descriptive statistics for the numeric columns of a table.
type Summarizer struct {
	logger *slog.Logger
	skip   map[string]bool
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	SkipColumns []string // columns never summarised
}

// DefaultSummarizerConfig skips the derived calendar fields
func DefaultSummarizerConfig() SummarizerConfig {
	skip := make([]string, len(domain.CalendarColumns))
	copy(skip, domain.CalendarColumns)
	return SummarizerConfig{SkipColumns: skip}
}

// NewSummarizer creates a new column summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}

	skip := make(map[string]bool, len(config.SkipColumns))
	for _, c := range config.SkipColumns {
		skip[c] = true
	}
	return &Summarizer{logger: logger, skip: skip}
}

// Summarize returns one summary per column holding at least one number, in
// table order. Text cells are neither counted nor missing. StdDev is the
// sample standard deviation and is NaN for a single value.
func (s *Summarizer) Summarize(ctx context.Context, t *domain.Table) []domain.ColumnSummary {
	if t == nil {
		return nil
	}

	var summaries []domain.ColumnSummary
	for _, name := range t.Columns() {
		if s.skip[name] {
			continue
		}
		cells, err := t.Column(name)
		if err != nil {
			continue
		}

		var values []float64
		missing := 0
		for _, c := range cells {
			switch c.Kind {
			case domain.CellNumber:
				values = append(values, c.Num)
			case domain.CellMissing:
				missing++
			}
		}
		if len(values) == 0 {
			continue
		}

		summary := domain.ColumnSummary{
			Column:  name,
			Count:   len(values),
			Missing: missing,
			Min:     floats.Min(values),
			Max:     floats.Max(values),
		}
		if len(values) == 1 {
			summary.Mean = values[0]
			summary.StdDev = math.NaN()
		} else {
			summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)
		}
		summaries = append(summaries, summary)
	}

	s.logger.DebugContext(ctx, "column summary computed",
		slog.Int("columns", len(summaries)),
		slog.Int("rows", t.Len()))

	return summaries
}
