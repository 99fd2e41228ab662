package domain

// Column names the ingest pipeline produces
const (
	ColumnDate    = "Date"
	ColumnDevice  = "Device"
	ColumnWeekday = "weekday"
	ColumnMonth   = "month"
	ColumnDay     = "day"
	ColumnYear    = "year"
	ColumnHour    = "hour"
	ColumnMinute  = "minute"
)

// CalendarColumns lists the derived calendar fields in the order they are added
var CalendarColumns = []string{
	ColumnWeekday,
	ColumnMonth,
	ColumnDay,
	ColumnYear,
	ColumnHour,
	ColumnMinute,
}

// FileResult is the outcome of loading and cleaning one source file.
// Exactly one of Table and Err is set.
type FileResult struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Table *Table `json:"-"`
	Err   error  `json:"-"`
}

// OK reports whether the file produced a cleaned table
func (r FileResult) OK() bool {
	return r.Err == nil && r.Table != nil
}

// SentinelReport describes where a sensor-fault sentinel occurs in a table
type SentinelReport struct {
	Sentinel   float64        `json:"sentinel"`
	Columns    []string       `json:"columns"`
	ColumnHits map[string]int `json:"column_hits"`
	Rows       []int          `json:"rows"`
}

// Found reports whether any cell held the sentinel
func (r SentinelReport) Found() bool {
	return len(r.Rows) > 0
}

// RowCount returns the number of rows containing the sentinel in any column
func (r SentinelReport) RowCount() int {
	return len(r.Rows)
}

// CellCount returns the total number of sentinel cells
func (r SentinelReport) CellCount() int {
	total := 0
	for _, n := range r.ColumnHits {
		total += n
	}
	return total
}

// ColumnSummary holds descriptive statistics of one numeric column
type ColumnSummary struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}
