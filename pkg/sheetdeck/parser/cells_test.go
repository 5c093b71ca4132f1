package parser

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/analysis"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/xuri/excelize/v2"
)

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestReadTables(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet1 holds a labeled table, Costs holds a second one.
	f.SetCellValue("Sheet1", "A1", "Region")
	f.SetCellValue("Sheet1", "B1", "Total")
	f.SetCellValue("Sheet1", "C1", "Share")
	f.SetCellValue("Sheet1", "A2", "North")
	f.SetCellValue("Sheet1", "B2", 100)
	f.SetCellValue("Sheet1", "C2", 0.25)
	f.SetCellValue("Sheet1", "A3", "South")
	f.SetCellValue("Sheet1", "B3", "n/a")

	if _, err := f.NewSheet("Costs"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Costs", "A1", "Item")
	f.SetCellValue("Costs", "B1", "Amount")
	f.SetCellValue("Costs", "A2", "Rent")
	f.SetCellValue("Costs", "B2", 1200.5)

	tables, err := XLSXSource{Path: saveWorkbook(t, f)}.ReadTables(0)
	if err != nil {
		t.Fatalf("ReadTables failed: %v", err)
	}

	if len(tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(tables))
	}
	if tables[0].Name != "Sheet1" || tables[1].Name != "Costs" {
		t.Errorf("Expected sheet order [Sheet1 Costs], got [%s %s]", tables[0].Name, tables[1].Name)
	}

	revenue := tables[0]
	if revenue.NumColumns() != 3 {
		t.Fatalf("Expected 3 columns, got %d", revenue.NumColumns())
	}
	if revenue.ColumnName(1) != "Total" {
		t.Errorf("Expected column 'Total', got %q", revenue.ColumnName(1))
	}
	if revenue.NumRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", revenue.NumRows())
	}

	tests := []struct {
		row, col int
		expected models.Cell
	}{
		{0, 0, models.TextCell("North")},
		{0, 1, models.NumberCell(100)},
		{0, 2, models.NumberCell(0.25)},
		{1, 0, models.TextCell("South")},
		{1, 1, models.TextCell("n/a")},
		{1, 2, models.Cell{}},
	}
	for _, tt := range tests {
		if got := revenue.Cell(tt.row, tt.col); got != tt.expected {
			t.Errorf("Cell(%d, %d) = %+v, expected %+v", tt.row, tt.col, got, tt.expected)
		}
	}

	if got := tables[1].Cell(0, 1); got != models.NumberCell(1200.5) {
		t.Errorf("Expected 1200.5, got %+v", got)
	}
}

func TestReadTableHeaderRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Quarterly report")
	f.SetCellValue("Sheet1", "A3", "Quarter")
	f.SetCellValue("Sheet1", "C3", "Sales")
	f.SetCellValue("Sheet1", "A4", "Q1")
	f.SetCellValue("Sheet1", "B4", 1)
	f.SetCellValue("Sheet1", "C4", 10)

	table, err := ReadTable(f, "Sheet1", 2)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	expected := []string{"Quarter", "B", "Sales"}
	if len(table.Columns) != len(expected) {
		t.Fatalf("Expected columns %v, got %v", expected, table.Columns)
	}
	for i, name := range expected {
		if table.Columns[i] != name {
			t.Errorf("Column %d = %q, expected %q", i, table.Columns[i], name)
		}
	}
	if table.NumRows() != 1 {
		t.Errorf("Expected 1 row, got %d", table.NumRows())
	}
}

func TestReadTableEmpty(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	table, err := ReadTable(f, "Sheet1", 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.Name != "Sheet1" {
		t.Errorf("Expected name 'Sheet1', got %q", table.Name)
	}
	if table.NumColumns() != 0 || table.NumRows() != 0 {
		t.Errorf("Expected empty table, got %d columns and %d rows", table.NumColumns(), table.NumRows())
	}

	// A header row past the end of the sheet also yields an empty table.
	f.SetCellValue("Sheet1", "A1", "Label")
	table, err = ReadTable(f, "Sheet1", 5)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.NumColumns() != 0 {
		t.Errorf("Expected no columns, got %v", table.Columns)
	}
}

func TestReadWorkbookNegativeHeaderRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := ReadWorkbook(f, -1); err == nil {
		t.Error("Expected error for negative header row")
	}
}

func TestReadTablesMissingFile(t *testing.T) {
	src := XLSXSource{Path: filepath.Join(t.TempDir(), "missing.xlsx")}
	if _, err := src.ReadTables(0); err == nil {
		t.Error("Expected error for missing workbook")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		cellType excelize.CellType
		expected models.Cell
	}{
		{"123", excelize.CellTypeUnset, models.NumberCell(123)},
		{"123.45", excelize.CellTypeNumber, models.NumberCell(123.45)},
		{"-100", excelize.CellTypeUnset, models.NumberCell(-100)},
		{"hello", excelize.CellTypeUnset, models.TextCell("hello")},
		{" 12 ", excelize.CellTypeUnset, models.TextCell(" 12 ")},
		{"", excelize.CellTypeUnset, models.Cell{}},
		{"007", excelize.CellTypeSharedString, models.TextCell("007")},
		{"1e3", excelize.CellTypeInlineString, models.TextCell("1e3")},
		{"42", excelize.CellTypeFormula, models.TextCell("42")},
		{"1", excelize.CellTypeBool, models.TextCell("1")},
		{"NaN", excelize.CellTypeUnset, models.TextCell("NaN")},
		{"Inf", excelize.CellTypeNumber, models.TextCell("Inf")},
	}

	for _, tt := range tests {
		result := parseValue(tt.input, tt.cellType)
		if result != tt.expected {
			t.Errorf("parseValue(%q, %v) = %+v, expected %+v", tt.input, tt.cellType, result, tt.expected)
		}
	}
}

func TestReadTableTextLabels(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Code")
	f.SetCellValue("Sheet1", "B1", "Count")
	labels := []string{"007", "NaN", "1e3", "Infinity"}
	for i, label := range labels {
		row := i + 2
		f.SetCellStr("Sheet1", fmt.Sprintf("A%d", row), label)
		f.SetCellValue("Sheet1", fmt.Sprintf("B%d", row), row*10)
	}

	table, err := ReadTable(f, "Sheet1", 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.NumRows() != len(labels) {
		t.Fatalf("Expected %d rows, got %d", len(labels), table.NumRows())
	}
	for i, label := range labels {
		if got := table.Cell(i, 0); got != models.TextCell(label) {
			t.Errorf("Row %d label = %+v, expected text %q", i, got, label)
		}
		if got := table.Cell(i, 1); got != models.NumberCell(float64((i+2)*10)) {
			t.Errorf("Row %d count = %+v, expected %d", i, got, (i+2)*10)
		}
	}

	categories := analysis.Clean(table, []int{1}, analysis.Lenient).Categories
	for i, label := range labels {
		if i >= len(categories) || categories[i] != label {
			t.Errorf("Expected categories %v, got %v", labels, categories)
			break
		}
	}
}

func TestDataBounds(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected bounds
	}{
		{
			name:     "empty",
			rows:     nil,
			expected: bounds{-1, -1, -1, -1},
		},
		{
			name:     "blank cells only",
			rows:     [][]string{{"", ""}, {""}},
			expected: bounds{-1, -1, -1, -1},
		},
		{
			name: "offset block",
			rows: [][]string{
				{},
				{"", "a", "b"},
				{"", "", "", "c"},
				{""},
			},
			expected: bounds{minRow: 1, maxRow: 2, minCol: 1, maxCol: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dataBounds(tt.rows)
			if got != tt.expected {
				t.Errorf("dataBounds() = %+v, expected %+v", got, tt.expected)
			}
			if got.empty() != (tt.expected.maxRow < 0) {
				t.Errorf("empty() = %v", got.empty())
			}
		})
	}
}
