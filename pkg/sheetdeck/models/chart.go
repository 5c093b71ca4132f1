package models

import (
	"fmt"
	"strings"
)

// ChartType is the chart drawn on a slide.
type ChartType string

const (
	// ChartBar is a clustered horizontal bar chart. It is the default chart type.
	ChartBar ChartType = "bar"
	// ChartColumn is a clustered vertical bar chart.
	ChartColumn ChartType = "column"
	// ChartLine is a line chart with markers.
	ChartLine ChartType = "line"
	// ChartArea is an area chart.
	ChartArea ChartType = "area"
	// ChartStackedBar is a stacked horizontal bar chart.
	ChartStackedBar ChartType = "stacked_bar"
	// ChartStackedColumn is a stacked vertical bar chart.
	ChartStackedColumn ChartType = "stacked_column"
	// ChartPie is a pie chart.
	ChartPie ChartType = "pie"
	// ChartDoughnut is a doughnut chart.
	ChartDoughnut ChartType = "doughnut"
)

// DefaultChartType is used when no chart type was chosen for a sheet.
const DefaultChartType = ChartBar

// ChartTypes lists every supported chart type in display order.
var ChartTypes = []ChartType{
	ChartBar,
	ChartColumn,
	ChartLine,
	ChartArea,
	ChartStackedBar,
	ChartStackedColumn,
	ChartPie,
	ChartDoughnut,
}

// chartLabels maps chart types to their display names.
var chartLabels = map[ChartType]string{
	ChartBar:           "Bar",
	ChartColumn:        "Column",
	ChartLine:          "Line",
	ChartArea:          "Area",
	ChartStackedBar:    "Stacked Bar",
	ChartStackedColumn: "Stacked Column",
	ChartPie:           "Pie",
	ChartDoughnut:      "Doughnut",
}

// ParseChartType parses a chart type name. Matching ignores case, and
// dashes or spaces are accepted in place of underscores.
func ParseChartType(s string) (ChartType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	ct := ChartType(norm)
	if !ct.Valid() {
		return "", fmt.Errorf("unknown chart type %q", s)
	}
	return ct, nil
}

// Valid reports whether t is a supported chart type.
func (t ChartType) Valid() bool {
	_, ok := chartLabels[t]
	return ok
}

// Label returns the display name, e.g. "Stacked Bar".
func (t ChartType) Label() string {
	if l, ok := chartLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsProportional reports whether slices represent parts of a whole (pie, doughnut).
func (t ChartType) IsProportional() bool {
	return t == ChartPie || t == ChartDoughnut
}

// IsStacked reports whether series are stacked on one another.
func (t ChartType) IsStacked() bool {
	return t == ChartStackedBar || t == ChartStackedColumn
}

// ColumnSelection is the ordered set of numeric columns charted for a sheet.
type ColumnSelection struct {
	// Indices are column positions, unique and in chart order.
	Indices []int `json:"indices"`
	// Names are the labels matching Indices.
	Names []string `json:"names"`
}

// Len returns the number of selected columns.
func (s ColumnSelection) Len() int {
	return len(s.Indices)
}

// ChartConfig is one fully resolved chart slide.
type ChartConfig struct {
	// SheetName is the source sheet.
	SheetName string `json:"sheet_name"`
	// ChartType is the chart drawn on the slide.
	ChartType ChartType `json:"chart_type"`
	// Columns is the selected series.
	Columns ColumnSelection `json:"columns"`
	// Percentage marks values as percentages for display.
	Percentage bool `json:"percentage"`
	// SlideNumber is the 1-based slide position in the deck.
	SlideNumber int `json:"slide_number"`
}

// Title returns the slide title, e.g. "Bar Chart - Revenue".
func (c ChartConfig) Title() string {
	return fmt.Sprintf("%s Chart - %s", c.ChartType.Label(), c.SheetName)
}

// ChartPlan is the ordered set of chart slides ready for rendering.
type ChartPlan struct {
	// StartSlide is the slide number of the first chart.
	StartSlide int `json:"start_slide"`
	// Charts holds one entry per enabled, valid sheet in workbook order.
	Charts []ChartConfig `json:"charts"`
}

// Series is one named dataset aligned to the payload categories.
type Series struct {
	// Name is the series display name.
	Name string `json:"name"`
	// Values holds one value per category.
	Values []float64 `json:"values"`
}

// SeriesPayload is the numeric content of one chart.
type SeriesPayload struct {
	// Categories holds the category labels.
	Categories []string `json:"categories"`
	// Series holds one entry per selected column.
	Series []Series `json:"series"`
}
