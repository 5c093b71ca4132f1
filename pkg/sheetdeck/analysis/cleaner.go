// Package analysis cleans sheet tables, classifies sheets, and extracts the
// series values drawn on each chart.
package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

// MarkerPrefix starts the label of reserved marker rows, which are never charted.
const MarkerPrefix = "Base"

// Mode selects how rows with non-numeric values are treated.
type Mode int

const (
	// Strict drops rows where any target column fails numeric coercion.
	Strict Mode = iota
	// Lenient keeps such rows and substitutes zero, keeping series aligned.
	Lenient
)

// Cleaned is the output of Clean.
type Cleaned struct {
	// Rows holds the surviving source row indices in table order.
	Rows []int
	// Categories holds the label of each surviving row.
	Categories []string
	// Values holds, per target column, one value per surviving row.
	Values [][]float64
}

// Len returns the number of surviving rows.
func (c Cleaned) Len() int {
	return len(c.Rows)
}

// Clean filters the table rows and coerces the target columns to numbers.
// Marker rows and rows with an empty label are always dropped. Row order is
// preserved and categories are not deduplicated.
func Clean(t models.Table, columns []int, mode Mode) Cleaned {
	out := Cleaned{Values: make([][]float64, len(columns))}

	values := make([]float64, len(columns))
	for rowIdx := range t.Rows {
		label, ok := rowLabel(t, rowIdx)
		if !ok {
			continue
		}

		keep := true
		for i, col := range columns {
			v, valid := Coerce(t.Cell(rowIdx, col))
			if !valid {
				if mode == Strict {
					keep = false
					break
				}
				v = 0
			}
			values[i] = v
		}
		if !keep {
			continue
		}

		out.Rows = append(out.Rows, rowIdx)
		out.Categories = append(out.Categories, label)
		for i := range columns {
			out.Values[i] = append(out.Values[i], values[i])
		}
	}

	return out
}

// rowLabel returns the category label of a row, and false when the row is a
// marker row or has no label.
func rowLabel(t models.Table, row int) (string, bool) {
	cell := t.Cell(row, 0)
	if cell.IsEmpty() {
		return "", false
	}
	label := cell.String()
	if label == "" || strings.HasPrefix(label, MarkerPrefix) {
		return "", false
	}
	return label, true
}

// Coerce converts a cell to a finite number. Text is trimmed and parsed as a
// decimal number; empty cells, NaN, and infinities are invalid.
func Coerce(c models.Cell) (float64, bool) {
	var v float64
	switch c.Kind {
	case models.CellNumber:
		v = c.Number
	case models.CellText:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
