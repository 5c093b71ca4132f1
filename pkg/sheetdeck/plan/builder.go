// Package plan assigns slide numbers to the charts chosen for each sheet.
package plan

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

// SheetChoice is the operator configuration for one sheet.
type SheetChoice struct {
	// Enabled includes the sheet in the deck.
	Enabled bool `json:"enabled"`
	// ChartType is the chart drawn for the sheet. Empty selects models.DefaultChartType.
	ChartType models.ChartType `json:"chart_type,omitempty"`
	// Columns are the numeric column indices to chart, in order.
	Columns []int `json:"columns"`
	// Percentage displays the values as percentages.
	Percentage bool `json:"percentage"`
}

// Request is the complete operator configuration for one build.
type Request struct {
	// StartSlide is the slide number of the first chart. Must be >= 1.
	StartSlide int `json:"start_slide"`
	// Sheets maps sheet names to their configuration. Sheets without an
	// entry are disabled.
	Sheets map[string]SheetChoice `json:"sheets"`
}

// ConfigError reports an operator configuration that cannot be planned.
type ConfigError struct {
	SheetName string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in sheet %q: %s", e.SheetName, e.Reason)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(sheetName, reason string) *ConfigError {
	return &ConfigError{SheetName: sheetName, Reason: reason}
}

// DefaultChoice returns an enabled choice charting the first numeric column of
// the sheet with the default chart type. Columns is empty when the sheet has
// no numeric column.
func DefaultChoice(a models.SheetAnalysis) SheetChoice {
	choice := SheetChoice{Enabled: true, ChartType: models.DefaultChartType}
	if len(a.NumericColumns) > 0 {
		choice.Columns = []int{a.NumericColumns[0].Index}
	}
	return choice
}

// Build creates the chart plan. Sheets are visited in workbook order and a
// sheet yields a chart when it is enabled and valid. Slide numbers start at
// req.StartSlide and advance only when a chart is emitted. Build does not
// invent column selections: an enabled, valid sheet with an empty or invalid
// selection is a configuration error. All errors found are returned joined.
func Build(analyses []models.SheetAnalysis, req Request) (models.ChartPlan, error) {
	if req.StartSlide < 1 {
		return models.ChartPlan{}, NewConfigError("", fmt.Sprintf("start slide must be positive, got %d", req.StartSlide))
	}

	result := models.ChartPlan{
		StartSlide: req.StartSlide,
		Charts:     []models.ChartConfig{},
	}
	var errs []error
	slide := req.StartSlide

	for _, a := range analyses {
		choice, ok := req.Sheets[a.SheetName]
		if !ok || !choice.Enabled || !a.IsValid {
			continue
		}

		cfg, err := resolve(a, choice)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cfg.SlideNumber = slide
		slide++
		result.Charts = append(result.Charts, cfg)
	}

	if len(errs) > 0 {
		return models.ChartPlan{}, errors.Join(errs...)
	}
	return result, nil
}

// resolve validates a choice against the sheet analysis.
func resolve(a models.SheetAnalysis, choice SheetChoice) (models.ChartConfig, error) {
	chartType := choice.ChartType
	if chartType == "" {
		chartType = models.DefaultChartType
	}
	if !chartType.Valid() {
		return models.ChartConfig{}, NewConfigError(a.SheetName, fmt.Sprintf("unknown chart type %q", chartType))
	}
	if len(choice.Columns) == 0 {
		return models.ChartConfig{}, NewConfigError(a.SheetName, "no columns selected")
	}

	sel := models.ColumnSelection{
		Indices: make([]int, 0, len(choice.Columns)),
		Names:   make([]string, 0, len(choice.Columns)),
	}
	seen := make(map[int]struct{}, len(choice.Columns))
	for _, idx := range choice.Columns {
		if _, dup := seen[idx]; dup {
			return models.ChartConfig{}, NewConfigError(a.SheetName, fmt.Sprintf("column %d selected twice", idx))
		}
		seen[idx] = struct{}{}

		col, ok := a.NumericColumn(idx)
		if !ok {
			return models.ChartConfig{}, NewConfigError(a.SheetName, fmt.Sprintf("column %d is not a numeric column", idx))
		}
		sel.Indices = append(sel.Indices, col.Index)
		sel.Names = append(sel.Names, col.Name)
	}

	return models.ChartConfig{
		SheetName:  a.SheetName,
		ChartType:  chartType,
		Columns:    sel,
		Percentage: choice.Percentage,
	}, nil
}
