package deck

import (
	"fmt"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/format"
)

// apply applies one formatting directive to the chart. It returns an error
// wrapping format.ErrUnsupported when the directive does not fit the chart
// type; the chart is left unchanged in that case.
func (d *chartDoc) apply(dir format.Directive) error {
	proportional := d.chartType.IsProportional()

	switch dir.Kind {
	case format.KindLegend:
		if !dir.Show {
			d.legendPos = ""
			return nil
		}
		pos, ok := legendPositions[dir.Position]
		if !ok {
			return d.unsupported(dir, fmt.Sprintf("legend position %q", dir.Position))
		}
		d.legendPos = pos

	case format.KindGridlines:
		if proportional {
			return d.unsupported(dir, "chart has no axes")
		}
		d.gridlines = dir.Show

	case format.KindTickLabels:
		if proportional {
			return d.unsupported(dir, "chart has no axes")
		}
		if dir.Size <= 0 {
			return d.unsupported(dir, fmt.Sprintf("tick label size %v", dir.Size))
		}
		d.tickLabelSize = hundredthsOfPoint(dir.Size)

	case format.KindValueAxisFormat:
		if proportional {
			return d.unsupported(dir, "chart has no value axis")
		}
		d.valueFormat = dir.NumberFormat

	case format.KindDataLabels:
		if !dir.Show {
			d.labels = nil
			return nil
		}
		labels := &dataLabels{numberFormat: dir.NumberFormat}
		switch dir.LabelMode {
		case format.LabelPercent:
			if !proportional {
				return d.unsupported(dir, "share-of-whole labels need a proportional chart")
			}
			labels.showPercent = true
		case format.LabelValue, "":
			labels.showValue = true
		default:
			return d.unsupported(dir, fmt.Sprintf("label mode %q", dir.LabelMode))
		}
		d.labels = labels

	case format.KindSeriesColors:
		if proportional {
			return d.unsupported(dir, "slices are colored per point")
		}
		d.seriesColors = append([]string{}, dir.Colors...)

	case format.KindPointColors:
		if !proportional {
			return d.unsupported(dir, "series are colored per series")
		}
		if len(dir.Colors) == 0 {
			return d.unsupported(dir, "empty palette")
		}
		d.pointColors = append([]string{}, dir.Colors...)

	default:
		return d.unsupported(dir, "unknown directive")
	}

	return nil
}

func (d *chartDoc) unsupported(dir format.Directive, reason string) error {
	return fmt.Errorf("%w: %s on %s chart: %s", format.ErrUnsupported, dir.Kind, d.chartType, reason)
}
