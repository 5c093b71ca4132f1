package models

// Table is the content of one sheet below its header row.
// A Table is treated as immutable once loaded.
type Table struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Columns holds the column labels taken from the header row.
	Columns []string `json:"columns"`
	// Rows holds data rows in sheet order. Rows may be shorter than Columns.
	Rows [][]Cell `json:"rows"`
}

// NumColumns returns the number of columns in the table.
func (t Table) NumColumns() int {
	return len(t.Columns)
}

// NumRows returns the number of data rows in the table.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// Cell returns the cell at the given row and column, or an empty cell when the
// position lies outside the row.
func (t Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// ColumnName returns the label of a column, or "" when out of range.
func (t Table) ColumnName(col int) string {
	if col < 0 || col >= len(t.Columns) {
		return ""
	}
	return t.Columns[col]
}
