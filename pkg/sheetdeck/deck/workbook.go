package deck

import (
	"fmt"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/xuri/excelize/v2"
)

// embeddedSheet is the worksheet holding chart data in embedded workbooks.
const embeddedSheet = "Sheet1"

// buildWorkbook writes the chart data workbook that PowerPoint opens when the
// chart data is edited. Categories run down column A from row 2, and each
// series occupies one column from B with its name in row 1.
func buildWorkbook(payload models.SeriesPayload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range payload.Series {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(embeddedSheet, cell, s.Name); err != nil {
			return nil, fmt.Errorf("write series name: %w", err)
		}
	}

	for row, category := range payload.Categories {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(embeddedSheet, cell, category); err != nil {
			return nil, fmt.Errorf("write category: %w", err)
		}
		for i, s := range payload.Series {
			if row >= len(s.Values) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+2, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellFloat(embeddedSheet, cell, s.Values[row], -1, 64); err != nil {
				return nil, fmt.Errorf("write value: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write chart workbook: %w", err)
	}
	return buf.Bytes(), nil
}
