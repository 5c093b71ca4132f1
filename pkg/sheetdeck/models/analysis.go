package models

// NumericColumn describes a column holding at least one numeric value.
type NumericColumn struct {
	// Index is the column position within a row. The label column is 0, so
	// numeric columns always have Index >= 1.
	Index int `json:"index"`
	// Name is the column label.
	Name string `json:"name"`
	// ValidCount is the number of cleaned rows whose value coerces to a number.
	ValidCount int `json:"valid_count"`
}

// SheetAnalysis is the validity classification of one sheet.
type SheetAnalysis struct {
	// SheetName is the sheet name.
	SheetName string `json:"sheet_name"`
	// IsValid reports whether the sheet can be charted.
	IsValid bool `json:"is_valid"`
	// ValidRowCount is the number of cleaned rows carrying numeric data.
	ValidRowCount int `json:"valid_row_count"`
	// NumericColumns lists the numeric columns in table order.
	NumericColumns []NumericColumn `json:"numeric_columns"`
}

// NumericColumn returns the numeric column with the given index.
func (a SheetAnalysis) NumericColumn(index int) (NumericColumn, bool) {
	for _, c := range a.NumericColumns {
		if c.Index == index {
			return c, true
		}
	}
	return NumericColumn{}, false
}

// NumericColumnByName returns the first numeric column with the given label.
func (a SheetAnalysis) NumericColumnByName(name string) (NumericColumn, bool) {
	for _, c := range a.NumericColumns {
		if c.Name == name {
			return c, true
		}
	}
	return NumericColumn{}, false
}
