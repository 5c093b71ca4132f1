// Package parser reads spreadsheet workbooks into typed tables.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads every sheet of an .xlsx workbook as a table.
type XLSXSource struct {
	// Path is the workbook file path.
	Path string
}

// ReadTables opens the workbook and reads all sheets in workbook order.
// headerRow is the 0-based sheet row holding the column labels.
func (s XLSXSource) ReadTables(headerRow int) ([]models.Table, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWorkbook(f, headerRow)
}

// ReadWorkbook reads all sheets of an open workbook in sheet order.
func ReadWorkbook(f *excelize.File, headerRow int) ([]models.Table, error) {
	if headerRow < 0 {
		return nil, fmt.Errorf("header row must not be negative: %d", headerRow)
	}

	sheetList := f.GetSheetList()
	tables := make([]models.Table, 0, len(sheetList))
	for _, sheetName := range sheetList {
		table, err := ReadTable(f, sheetName, headerRow)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		tables = append(tables, table)
	}

	return tables, nil
}

// ReadTable reads one sheet. Rows above headerRow are ignored, the header row
// supplies the column labels, and every following row becomes a data row.
func ReadTable(f *excelize.File, sheetName string, headerRow int) (models.Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Table{}, err
	}

	table := models.Table{Name: sheetName}
	if headerRow >= len(rows) {
		return table, nil
	}

	rows = rows[headerRow:]
	b := dataBounds(rows)
	if b.empty() {
		return table, nil
	}
	// Column A stays the label column even when blank, so width counts from it.
	width := b.maxCol + 1

	table.Columns = make([]string, width)
	header := rows[0]
	for colIdx := 0; colIdx < width; colIdx++ {
		var label string
		if colIdx < len(header) {
			label = strings.TrimSpace(header[colIdx])
		}
		if label == "" {
			// Unlabeled columns are named after their column letter.
			label, _ = excelize.ColumnNumberToName(colIdx + 1)
		}
		table.Columns[colIdx] = label
	}

	// Trailing blank rows are dropped.
	for rowIdx, row := range rows[1 : b.maxRow+1] {
		cells := make([]models.Cell, len(row))
		for colIdx, cellValue := range row {
			if colIdx >= width {
				break
			}
			if cellValue == "" {
				continue
			}
			// Data rows start one below the header; sheet rows are 1-based.
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, headerRow+rowIdx+2)
			if err != nil {
				return models.Table{}, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return models.Table{}, err
			}
			cells[colIdx] = parseValue(cellValue, cellType)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// parseValue converts a raw cell value using its stored type.
// Only number cells and untyped cells are read as numbers; string, boolean,
// error and formula-string cells keep their text. NaN and infinities are
// never numbers.
func parseValue(s string, cellType excelize.CellType) models.Cell {
	if s == "" {
		return models.Cell{}
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return models.NumberCell(v)
		}
	}
	return models.TextCell(s)
}
