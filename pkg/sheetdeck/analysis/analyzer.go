package analysis

import "github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"

// Analyze classifies a table and lists its numeric columns.
// It never fails: cells that do not coerce only exclude their row from the
// column being probed.
func Analyze(t models.Table) models.SheetAnalysis {
	result := models.SheetAnalysis{
		SheetName:      t.Name,
		NumericColumns: []models.NumericColumn{},
	}
	if t.NumColumns() < 2 || t.NumRows() == 0 {
		return result
	}

	// Rows holding a number in at least one numeric column.
	numericRows := make(map[int]struct{})
	for col := 1; col < t.NumColumns(); col++ {
		probe := Clean(t, []int{col}, Strict)
		if probe.Len() == 0 {
			continue
		}
		result.NumericColumns = append(result.NumericColumns, models.NumericColumn{
			Index:      col,
			Name:       t.ColumnName(col),
			ValidCount: probe.Len(),
		})
		for _, row := range probe.Rows {
			numericRows[row] = struct{}{}
		}
	}

	labeled := Clean(t, nil, Strict)
	result.ValidRowCount = len(numericRows)
	result.IsValid = len(result.NumericColumns) > 0 && labeled.Len() > 0

	return result
}

// AnalyzeAll analyzes each table in order.
func AnalyzeAll(tables []models.Table) []models.SheetAnalysis {
	analyses := make([]models.SheetAnalysis, 0, len(tables))
	for _, t := range tables {
		analyses = append(analyses, Analyze(t))
	}
	return analyses
}
