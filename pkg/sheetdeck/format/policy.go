// Package format derives the visual formatting of a chart from its type,
// series count, and percentage flag.
package format

import "github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"

// Family groups chart types that are formatted alike.
type Family string

const (
	// FamilyProportional covers pie and doughnut charts.
	FamilyProportional Family = "proportional"
	// FamilyCartesian covers charts drawn on two axes.
	FamilyCartesian Family = "cartesian"
)

// FamilyOf returns the family of a chart type.
func FamilyOf(t models.ChartType) Family {
	if t.IsProportional() {
		return FamilyProportional
	}
	return FamilyCartesian
}

// Kind names a formatting directive.
type Kind string

const (
	KindLegend          Kind = "legend"
	KindGridlines       Kind = "gridlines"
	KindTickLabels      Kind = "tick_labels"
	KindValueAxisFormat Kind = "value_axis_format"
	KindDataLabels      Kind = "data_labels"
	KindSeriesColors    Kind = "series_colors"
	KindPointColors     Kind = "point_colors"
)

// LabelMode selects what a data label displays.
type LabelMode string

const (
	// LabelValue shows the value itself.
	LabelValue LabelMode = "value"
	// LabelPercent shows the share of the whole.
	LabelPercent LabelMode = "percent"
)

// Legend positions.
const (
	PositionRight  = "right"
	PositionBottom = "bottom"
)

const (
	// PercentFormat renders a value as a literal percentage with one decimal,
	// e.g. 12.5 as "12.5%". The value is not multiplied by 100.
	PercentFormat = `0.0"%"`
	// GeneralFormat is the spreadsheet default number format.
	GeneralFormat = "General"
	// TickLabelSize is the axis tick label size in points.
	TickLabelSize = 10.0
)

// Directive is one formatting instruction for the renderer. Only the fields
// relevant to Kind are set.
type Directive struct {
	Kind         Kind      `json:"kind"`
	Show         bool      `json:"show"`
	Position     string    `json:"position,omitempty"`
	NumberFormat string    `json:"number_format,omitempty"`
	LabelMode    LabelMode `json:"label_mode,omitempty"`
	Size         float64   `json:"size,omitempty"`
	// Colors for series_colors has one entry per series. For point_colors it
	// is the palette, cycled by category position.
	Colors []string `json:"colors,omitempty"`
}

// Set is the ordered list of directives for one chart.
type Set struct {
	Family     Family      `json:"family"`
	Directives []Directive `json:"directives"`
}

// Lookup returns the directive of the given kind.
func (s Set) Lookup(kind Kind) (Directive, bool) {
	for _, d := range s.Directives {
		if d.Kind == kind {
			return d, true
		}
	}
	return Directive{}, false
}

// Policy returns the formatting directives for a chart using DefaultPalette.
func Policy(chartType models.ChartType, seriesCount int, percentage bool) Set {
	return PolicyWithPalette(chartType, seriesCount, percentage, DefaultPalette)
}

// PolicyWithPalette returns the formatting directives for a chart.
func PolicyWithPalette(chartType models.ChartType, seriesCount int, percentage bool, palette Palette) Set {
	family := FamilyOf(chartType)
	if family == FamilyProportional {
		return proportional(percentage, palette)
	}
	return cartesian(seriesCount, percentage, palette)
}

func proportional(percentage bool, palette Palette) Set {
	labels := Directive{Kind: KindDataLabels, Show: true, LabelMode: LabelPercent}
	if percentage {
		// Value and share-of-whole labels are exclusive.
		labels.LabelMode = LabelValue
		labels.NumberFormat = PercentFormat
	}

	return Set{
		Family: FamilyProportional,
		Directives: []Directive{
			{Kind: KindLegend, Show: true, Position: PositionRight},
			{Kind: KindPointColors, Show: true, Colors: append([]string{}, palette...)},
			labels,
		},
	}
}

func cartesian(seriesCount int, percentage bool, palette Palette) Set {
	legend := Directive{Kind: KindLegend, Show: seriesCount > 1}
	if legend.Show {
		legend.Position = PositionBottom
	}

	labels := Directive{Kind: KindDataLabels, Show: seriesCount == 1, LabelMode: LabelValue, NumberFormat: GeneralFormat}
	if percentage {
		labels.NumberFormat = PercentFormat
	}

	directives := []Directive{
		legend,
		{Kind: KindGridlines, Show: false},
		{Kind: KindTickLabels, Show: true, Size: TickLabelSize},
	}
	if percentage {
		directives = append(directives, Directive{Kind: KindValueAxisFormat, Show: true, NumberFormat: PercentFormat})
	}
	directives = append(directives,
		labels,
		Directive{Kind: KindSeriesColors, Show: true, Colors: palette.Cycle(seriesCount)},
	)

	return Set{Family: FamilyCartesian, Directives: directives}
}
