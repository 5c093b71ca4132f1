package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

// ErrEmptySelection is returned when a chart has no selected columns.
var ErrEmptySelection = errors.New("no columns selected")

// Extract builds the series values for a chart. Every selected column shares
// the same category axis; values that fail coercion become zero. In
// percentage mode values are rounded to one decimal place and otherwise left
// unchanged.
func Extract(t models.Table, cfg models.ChartConfig) (models.SeriesPayload, error) {
	sel := cfg.Columns
	if sel.Len() == 0 {
		return models.SeriesPayload{}, fmt.Errorf("sheet %q: %w", cfg.SheetName, ErrEmptySelection)
	}
	for _, col := range sel.Indices {
		if col < 1 || col >= t.NumColumns() {
			return models.SeriesPayload{}, fmt.Errorf("sheet %q: column %d out of range", cfg.SheetName, col)
		}
	}

	cleaned := Clean(t, sel.Indices, Lenient)

	payload := models.SeriesPayload{
		Categories: cleaned.Categories,
		Series:     make([]models.Series, len(sel.Indices)),
	}
	if payload.Categories == nil {
		payload.Categories = []string{}
	}
	for i, col := range sel.Indices {
		name := t.ColumnName(col)
		if i < len(sel.Names) && sel.Names[i] != "" {
			name = sel.Names[i]
		}
		values := append([]float64{}, cleaned.Values[i]...)
		if cfg.Percentage {
			for j, v := range values {
				values[j] = roundTenth(v)
			}
		}
		payload.Series[i] = models.Series{Name: name, Values: values}
	}

	return payload, nil
}

// roundTenth rounds to one decimal place, halves away from zero.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
