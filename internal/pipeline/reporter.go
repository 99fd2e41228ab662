package pipeline

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"hiveingest/pkg/contracts/domain"
)

// Reporter prints the human-readable run report
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out. A nil writer means stdout.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func formatSentinel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Selected reports which files will be processed
func (r *Reporter) Selected(location string, selected, matched int) {
	r.printf("🔹 Processing %d of %d file(s) from %s", selected, matched, location)
}

// FileFailed reports a skipped file
func (r *Reporter) FileFailed(name string, err error) {
	r.printf("[⚠️] Error processing %s: %v", name, err)
}

// Preview prints the first rows of the labeled table
func (r *Reporter) Preview(t *domain.Table) {
	r.printf("✅ Hive data successfully labeled. Sample:")
	r.printf("%s", renderGrid(t))
}

// DeviceMissing warns that the combined table has no device labels
func (r *Reporter) DeviceMissing() {
	r.printf("⚠️ Warning: 'Device' column missing!")
}

// Scan prints the sentinel scan result
func (r *Reporter) Scan(report domain.SentinelReport) {
	if !report.Found() {
		r.printf("✅ No sensor error codes detected.")
		return
	}
	r.printf("⚠️ Found sensor error code (%s) in columns: [%s]",
		formatSentinel(report.Sentinel), strings.Join(report.Columns, ", "))
	r.printf("🔹 Rows affected: %d", report.RowCount())
}

// ScanFailed reports a fault during the sentinel scan
func (r *Reporter) ScanFailed(sentinel float64, err error) {
	r.printf("⚠️ Error checking for %s: %v", formatSentinel(sentinel), err)
}

// Replaced reports a successful sentinel replacement
func (r *Reporter) Replaced(sentinel float64, cells int) {
	r.printf("✅ All %s values replaced with NaN. (%d cell(s))", formatSentinel(sentinel), cells)
}

// ReplaceFailed reports a fault during the sentinel replacement
func (r *Reporter) ReplaceFailed(sentinel float64, err error) {
	r.printf("⚠️ Error replacing %s: %v", formatSentinel(sentinel), err)
}

// Summary prints the column statistics
func (r *Reporter) Summary(summaries []domain.ColumnSummary) {
	if len(summaries) == 0 {
		return
	}
	r.printf("📊 Column summary:")

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Column,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Missing),
			formatStat(s.Mean),
			formatStat(s.StdDev),
			formatStat(s.Min),
			formatStat(s.Max),
		}
	}
	r.printf("%s", grid([]string{"column", "count", "missing", "mean", "std", "min", "max"}, rows))
}

// Exported reports a written export file
func (r *Reporter) Exported(format, path string) {
	r.printf("💾 Exported %s: %s", format, path)
}

// ExportFailed reports an export that could not be written
func (r *Reporter) ExportFailed(err error) {
	r.printf("⚠️ %v", err)
}

// Done prints the closing line of a run
func (r *Reporter) Done(rows, files, failed int) {
	r.printf("✅ Combined table: %d row(s) from %d file(s), %d skipped.", rows, files, failed)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// renderGrid renders a table with a leading row-index column
func renderGrid(t *domain.Table) string {
	headers := append([]string{""}, t.Columns()...)
	rows := make([][]string, t.Len())
	for i := range rows {
		cells := t.Row(i)
		row := make([]string, 0, len(cells)+1)
		row = append(row, strconv.Itoa(i))
		for _, c := range cells {
			row = append(row, c.String())
		}
		rows[i] = row
	}
	return grid(headers, rows)
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
