package domain

import (
	"strconv"
	"time"
)

// CellKind identifies which field of a Cell carries its value
type CellKind uint8

const (
	// CellMissing is the missing-data marker. It is distinct from zero and from empty text.
	CellMissing CellKind = iota
	CellNumber
	CellText
	CellTime
)

// String returns the kind name used in logs
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellTime:
		return "time"
	default:
		return "missing"
	}
}

// DisplayTimeLayout is the layout used when a time cell is rendered as text
const DisplayTimeLayout = "2006-01-02 15:04:05"

// Cell is a single value of a hive reading table
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Time time.Time
}

// Missing returns the missing-data marker
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// Number returns a numeric cell
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Num: v}
}

// Text returns a text cell
func Text(s string) Cell {
	return Cell{Kind: CellText, Str: s}
}

// Timestamp returns a time cell normalised to UTC
func Timestamp(t time.Time) Cell {
	return Cell{Kind: CellTime, Time: t.UTC()}
}

// IsMissing reports whether the cell is the missing-data marker
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// IsNumber reports whether the cell holds exactly v
func (c Cell) IsNumber(v float64) bool {
	return c.Kind == CellNumber && c.Num == v
}

// Equal compares two cells by kind and value
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Str == o.Str
	case CellTime:
		return c.Time.Equal(o.Time)
	default:
		return true
	}
}

// String renders the cell for previews and CSV output.
// Missing cells render as "NaN" here; exporters choose their own null form.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Str
	case CellTime:
		return c.Time.Format(DisplayTimeLayout)
	default:
		return "NaN"
	}
}
