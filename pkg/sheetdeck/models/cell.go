// Package models defines data structures shared by the sheet analysis, planning, and
// rendering stages.
package models

import (
	"math"
	"strconv"
)

// CellKind identifies the type of a cell value.
type CellKind int

const (
	// CellEmpty is a missing or blank cell.
	CellEmpty CellKind = iota
	// CellText is a text cell.
	CellText
	// CellNumber is a numeric cell.
	CellNumber
)

// Cell is a single typed cell value.
type Cell struct {
	// Kind is the value type.
	Kind CellKind `json:"kind"`
	// Text holds the value when Kind is CellText.
	Text string `json:"text,omitempty"`
	// Number holds the value when Kind is CellNumber.
	Number float64 `json:"number,omitempty"`
}

// TextCell returns a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String converts the cell to text. Numbers use the shortest representation
// that round-trips, so 10 becomes "10" and 2.5 becomes "2.5".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if math.IsInf(c.Number, 0) || math.IsNaN(c.Number) {
			return ""
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}
