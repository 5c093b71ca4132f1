package format

import (
	"reflect"
	"testing"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

func TestPaletteColor(t *testing.T) {
	p := Palette{"111111", "222222", "333333"}

	tests := []struct {
		index    int
		expected string
	}{
		{0, "111111"},
		{2, "333333"},
		{3, "111111"},
		{7, "222222"},
		{-1, "333333"},
	}
	for _, tt := range tests {
		if got := p.Color(tt.index); got != tt.expected {
			t.Errorf("Color(%d) = %q, expected %q", tt.index, got, tt.expected)
		}
	}

	if got := (Palette{}).Color(4); got != "" {
		t.Errorf("Expected empty color for empty palette, got %q", got)
	}
}

func TestPaletteCycle(t *testing.T) {
	n := len(DefaultPalette) + 3
	colors := DefaultPalette.Cycle(n)
	if len(colors) != n {
		t.Fatalf("Expected %d colors, got %d", n, len(colors))
	}
	for i, c := range colors {
		if c != DefaultPalette[i%len(DefaultPalette)] {
			t.Errorf("Color %d = %q, expected %q", i, c, DefaultPalette[i%len(DefaultPalette)])
		}
	}
	if DefaultPalette[0] != "0070C0" {
		t.Errorf("Expected first palette color 0070C0, got %q", DefaultPalette[0])
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		chartType models.ChartType
		expected  Family
	}{
		{models.ChartPie, FamilyProportional},
		{models.ChartDoughnut, FamilyProportional},
		{models.ChartBar, FamilyCartesian},
		{models.ChartColumn, FamilyCartesian},
		{models.ChartLine, FamilyCartesian},
		{models.ChartArea, FamilyCartesian},
		{models.ChartStackedBar, FamilyCartesian},
		{models.ChartStackedColumn, FamilyCartesian},
	}
	for _, tt := range tests {
		if got := FamilyOf(tt.chartType); got != tt.expected {
			t.Errorf("FamilyOf(%q) = %q, expected %q", tt.chartType, got, tt.expected)
		}
	}
}

func TestPolicyProportional(t *testing.T) {
	tests := []struct {
		name       string
		chartType  models.ChartType
		percentage bool
		labelMode  LabelMode
		numFmt     string
	}{
		{"pie share of whole", models.ChartPie, false, LabelPercent, ""},
		{"doughnut share of whole", models.ChartDoughnut, false, LabelPercent, ""},
		{"pie percentage values", models.ChartPie, true, LabelValue, PercentFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Policy(tt.chartType, 1, tt.percentage)
			if set.Family != FamilyProportional {
				t.Errorf("Family = %q", set.Family)
			}

			legend, ok := set.Lookup(KindLegend)
			if !ok || !legend.Show || legend.Position != PositionRight {
				t.Errorf("Unexpected legend: %+v", legend)
			}

			points, ok := set.Lookup(KindPointColors)
			if !ok || !reflect.DeepEqual(points.Colors, []string(DefaultPalette)) {
				t.Errorf("Unexpected point colors: %+v", points)
			}

			labels, ok := set.Lookup(KindDataLabels)
			if !ok || !labels.Show {
				t.Fatalf("Expected data labels, got %+v", labels)
			}
			if labels.LabelMode != tt.labelMode || labels.NumberFormat != tt.numFmt {
				t.Errorf("Labels = %+v, expected mode %q format %q", labels, tt.labelMode, tt.numFmt)
			}

			for _, kind := range []Kind{KindGridlines, KindTickLabels, KindValueAxisFormat, KindSeriesColors} {
				if _, ok := set.Lookup(kind); ok {
					t.Errorf("Unexpected %s directive on a proportional chart", kind)
				}
			}
		})
	}
}

func TestPolicyCartesian(t *testing.T) {
	tests := []struct {
		name        string
		seriesCount int
		percentage  bool
		legend      bool
		labels      bool
		numFmt      string
		axisFormat  bool
	}{
		{"single series", 1, false, false, true, GeneralFormat, false},
		{"single series percentage", 1, true, false, true, PercentFormat, true},
		{"two series", 2, false, true, false, GeneralFormat, false},
		{"many series percentage", 12, true, true, false, PercentFormat, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Policy(models.ChartColumn, tt.seriesCount, tt.percentage)
			if set.Family != FamilyCartesian {
				t.Errorf("Family = %q", set.Family)
			}

			legend, _ := set.Lookup(KindLegend)
			if legend.Show != tt.legend {
				t.Errorf("Legend shown = %v, expected %v", legend.Show, tt.legend)
			}
			if tt.legend && legend.Position != PositionBottom {
				t.Errorf("Legend position = %q, expected %q", legend.Position, PositionBottom)
			}

			grid, ok := set.Lookup(KindGridlines)
			if !ok || grid.Show {
				t.Errorf("Expected hidden gridlines, got %+v", grid)
			}

			ticks, ok := set.Lookup(KindTickLabels)
			if !ok || ticks.Size != TickLabelSize {
				t.Errorf("Expected %vpt tick labels, got %+v", TickLabelSize, ticks)
			}

			axis, ok := set.Lookup(KindValueAxisFormat)
			if ok != tt.axisFormat {
				t.Errorf("Value axis format present = %v, expected %v", ok, tt.axisFormat)
			}
			if ok && axis.NumberFormat != PercentFormat {
				t.Errorf("Value axis format = %q", axis.NumberFormat)
			}

			labels, _ := set.Lookup(KindDataLabels)
			if labels.Show != tt.labels || labels.NumberFormat != tt.numFmt || labels.LabelMode != LabelValue {
				t.Errorf("Unexpected labels: %+v", labels)
			}

			colors, _ := set.Lookup(KindSeriesColors)
			if len(colors.Colors) != tt.seriesCount {
				t.Fatalf("Expected %d series colors, got %d", tt.seriesCount, len(colors.Colors))
			}
			for i, c := range colors.Colors {
				if c != DefaultPalette.Color(i) {
					t.Errorf("Series %d color = %q, expected %q", i, c, DefaultPalette.Color(i))
				}
			}

			if _, ok := set.Lookup(KindPointColors); ok {
				t.Error("Unexpected point colors on a cartesian chart")
			}
		})
	}
}

func TestPolicyPure(t *testing.T) {
	a := Policy(models.ChartStackedBar, 3, true)
	b := Policy(models.ChartStackedBar, 3, true)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Policy is not deterministic: %+v vs %+v", a, b)
	}

	// Mutating a returned set must not leak into the palette.
	pie := Policy(models.ChartPie, 1, false)
	d, _ := pie.Lookup(KindPointColors)
	d.Colors[0] = "FFFFFF"
	if DefaultPalette[0] != "0070C0" {
		t.Error("Policy shares its palette with callers")
	}
}

func TestApply(t *testing.T) {
	set := Policy(models.ChartBar, 1, false)
	failing := map[Kind]bool{KindGridlines: true, KindSeriesColors: true}

	var seen []Kind
	results := Apply(set, func(d Directive) error {
		seen = append(seen, d.Kind)
		if failing[d.Kind] {
			return ErrUnsupported
		}
		return nil
	})

	if len(results) != len(set.Directives) {
		t.Fatalf("Expected %d results, got %d", len(set.Directives), len(results))
	}
	if len(seen) != len(set.Directives) {
		t.Errorf("Expected every directive to run, ran %v", seen)
	}
	for i, r := range results {
		if r.Kind != set.Directives[i].Kind {
			t.Errorf("Result %d kind = %q, expected %q", i, r.Kind, set.Directives[i].Kind)
		}
		expected := StatusApplied
		if failing[r.Kind] {
			expected = StatusUnsupported
		}
		if r.Status != expected {
			t.Errorf("Result %s status = %q, expected %q", r.Kind, r.Status, expected)
		}
		if r.Status == StatusUnsupported && r.Reason != ErrUnsupported.Error() {
			t.Errorf("Result %s reason = %q", r.Kind, r.Reason)
		}
	}

	unsupported := Unsupported(results)
	if len(unsupported) != 2 {
		t.Errorf("Expected 2 unsupported results, got %+v", unsupported)
	}
}
