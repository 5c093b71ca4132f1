package deck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/format"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoPreviewData is returned when a slide has no values to draw.
var ErrNoPreviewData = errors.New("no data to preview")

// RenderPreview draws a PNG approximation of the slide chart. Proportional
// charts draw the first series, colored per category. Stacked charts draw one
// bar per category with every bar scaled to full height, so the preview shows
// series shares rather than totals. Multi-series bar and column charts are
// drawn as one line per series.
func RenderPreview(s Slide, w io.Writer) error {
	if len(s.Payload.Series) == 0 || len(s.Payload.Categories) == 0 {
		return ErrNoPreviewData
	}
	width, height := EMUToPixels(defaultChartRect.width), EMUToPixels(defaultChartRect.height)

	switch {
	case s.ChartType.IsProportional():
		values := previewValues(s, true)
		if s.ChartType == models.ChartDoughnut {
			donut := chart.DonutChart{Title: s.Title, Width: width, Height: height, Values: values}
			return donut.Render(chart.PNG, w)
		}
		pie := chart.PieChart{Title: s.Title, Width: width, Height: height, Values: values}
		return pie.Render(chart.PNG, w)

	case s.ChartType.IsStacked() && len(s.Payload.Series) > 1:
		stacked := chart.StackedBarChart{
			Title:        s.Title,
			Width:        width,
			Height:       height,
			IsHorizontal: s.ChartType == models.ChartStackedBar,
			Bars:         stackedBars(s, width),
		}
		return stacked.Render(chart.PNG, w)

	case len(s.Payload.Series) == 1 && s.ChartType != models.ChartLine && s.ChartType != models.ChartArea:
		bars := chart.BarChart{
			Title:    s.Title,
			Width:    width,
			Height:   height,
			BarWidth: 40,
			Bars:     previewValues(s, false),
		}
		return bars.Render(chart.PNG, w)
	}

	graph := chart.Chart{
		Title:  s.Title,
		Width:  width,
		Height: height,
	}
	xs := make([]float64, len(s.Payload.Categories))
	ticks := make([]chart.Tick, len(s.Payload.Categories))
	for i, cat := range s.Payload.Categories {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: cat}
	}
	graph.XAxis = chart.XAxis{Ticks: ticks}

	for i, series := range s.Payload.Series {
		color := drawing.ColorFromHex(seriesColor(s.Format, i))
		style := chart.Style{StrokeColor: color, StrokeWidth: 2}
		if s.ChartType == models.ChartArea {
			style.FillColor = color.WithAlpha(96)
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    series.Name,
			XValues: xs,
			YValues: series.Values,
			Style:   style,
		})
	}
	if legend, ok := s.Format.Lookup(format.KindLegend); ok && legend.Show {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	return graph.Render(chart.PNG, w)
}

// WritePreviews writes one PNG per slide into dir and returns the file paths.
// A slide that cannot be drawn does not stop the others; the joined errors are
// returned alongside the paths written.
func WritePreviews(slides []Slide, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	var errs []error
	for _, s := range slides {
		var buf bytes.Buffer
		if err := RenderPreview(s, &buf); err != nil {
			errs = append(errs, fmt.Errorf("preview slide %d: %w", s.Number, err))
			continue
		}
		filename := filepath.Join(dir, fmt.Sprintf("slide%02d.png", s.Number))
		if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, filename)
	}

	return paths, errors.Join(errs...)
}

// previewValues converts the first series to chart values. With perPoint
// each value is colored from the point palette, otherwise from the first
// series color.
func previewValues(s Slide, perPoint bool) []chart.Value {
	series := s.Payload.Series[0]
	points, _ := s.Format.Lookup(format.KindPointColors)
	palette := format.Palette(points.Colors)

	values := make([]chart.Value, 0, len(series.Values))
	for i, v := range series.Values {
		hex := seriesColor(s.Format, 0)
		if perPoint && len(palette) > 0 {
			hex = palette.Color(i)
		}
		color := drawing.ColorFromHex(hex)
		values = append(values, chart.Value{
			Label: s.Payload.Categories[i],
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	return values
}

// stackedBars builds one bar per category holding a section per series.
// Negative values draw as empty sections.
func stackedBars(s Slide, width int) []chart.StackedBar {
	n := len(s.Payload.Categories)
	barWidth := 50
	if n > 0 && width/(2*n) < barWidth {
		barWidth = max(width/(2*n), 1)
	}

	bars := make([]chart.StackedBar, n)
	for i, cat := range s.Payload.Categories {
		bar := chart.StackedBar{Name: cat, Width: barWidth}
		for j, series := range s.Payload.Series {
			v := 0.0
			if i < len(series.Values) {
				v = max(series.Values[i], 0)
			}
			color := drawing.ColorFromHex(seriesColor(s.Format, j))
			bar.Values = append(bar.Values, chart.Value{
				Label: series.Name,
				Value: v,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars[i] = bar
	}
	return bars
}

// seriesColor returns the series color from the directives, falling back to
// the default palette.
func seriesColor(set format.Set, i int) string {
	if d, ok := set.Lookup(format.KindSeriesColors); ok && i < len(d.Colors) {
		return d.Colors[i]
	}
	return format.DefaultPalette.Color(i)
}
