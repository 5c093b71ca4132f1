package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

// plotElementMap maps OOXML plot elements to chart types. Bar plots are
// refined by their direction and grouping.
var plotElementMap = map[string]models.ChartType{
	"barChart":      models.ChartColumn,
	"lineChart":     models.ChartLine,
	"areaChart":     models.ChartArea,
	"pieChart":      models.ChartPie,
	"doughnutChart": models.ChartDoughnut,
}

// otherPlotElements are chart plots sheetdeck never writes but may find in templates.
var otherPlotElements = map[string]string{
	"line3DChart":    "3DLine",
	"bar3DChart":     "3DBar",
	"area3DChart":    "3DArea",
	"pie3DChart":     "3DPie",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// SeriesInfo describes one chart series found in a deck.
type SeriesInfo struct {
	// Name is the series display name.
	Name string `json:"name"`
	// NameRange is the embedded workbook reference for the name.
	NameRange string `json:"name_range,omitempty"`
	// CategoryRange is the embedded workbook reference for categories.
	CategoryRange string `json:"category_range,omitempty"`
	// ValueRange is the embedded workbook reference for values.
	ValueRange string `json:"value_range,omitempty"`
	// DataLabels reports whether the series shows data labels.
	DataLabels bool `json:"data_labels"`
}

// ChartInfo describes one chart found in a deck.
type ChartInfo struct {
	// Name is the chart frame name.
	Name string `json:"name"`
	// Part is the chart part name.
	Part string `json:"part"`
	// ChartType is the chart type, e.g. "pie". Plots sheetdeck does not write
	// are reported by their OOXML name, and "unknown" when none is found.
	ChartType string `json:"chart_type"`
	// LegendPosition is the c:legendPos value, empty without a legend.
	LegendPosition string `json:"legend_position,omitempty"`
	// Gridlines reports major gridlines on the value axis.
	Gridlines bool `json:"gridlines"`
	// ValueFormat is the value axis number format.
	ValueFormat string `json:"value_format,omitempty"`
	// Series lists the chart series.
	Series []SeriesInfo `json:"series"`
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the frame width in pixels.
	W int `json:"w"`
	// H is the frame height in pixels.
	H int `json:"h"`
}

// SlideInfo describes one slide of a deck.
type SlideInfo struct {
	// Number is the 1-based slide position.
	Number int `json:"number"`
	// Part is the slide part name.
	Part string `json:"part"`
	// Title is the title placeholder text.
	Title string `json:"title,omitempty"`
	// Charts lists the charts on the slide.
	Charts []ChartInfo `json:"charts,omitempty"`
}

// InspectFile lists the slides and charts of a presentation file.
func InspectFile(pptxPath string) ([]SlideInfo, error) {
	data, err := os.ReadFile(pptxPath)
	if err != nil {
		return nil, err
	}
	return Inspect(data)
}

// Inspect lists the slides and charts of a presentation in deck order.
func Inspect(data []byte) ([]SlideInfo, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	presXML, err := readZipFile(r, presentationPart)
	if err != nil {
		return nil, err
	}
	if presXML == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, presentationPart)
	}
	presRels, err := readZipFile(r, presentationRelsPart)
	if err != nil {
		return nil, err
	}
	slideTargets := parseRels(presRels, "slide")

	var slides []SlideInfo
	for i, ref := range existingSlides(presXML) {
		target, ok := slideTargets[ref.rID]
		if !ok {
			continue
		}
		slidePath := resolveRelativePath(target, "ppt")
		info, err := inspectSlide(r, slidePath)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", slidePath, err)
		}
		info.Number = i + 1
		slides = append(slides, info)
	}

	return slides, nil
}

func inspectSlide(r *zip.Reader, slidePath string) (SlideInfo, error) {
	info := SlideInfo{Part: slidePath}

	slideData, err := readZipFile(r, slidePath)
	if err != nil || slideData == nil {
		return info, err
	}
	title, frames := parseSlideXML(slideData)
	info.Title = title
	if len(frames) == 0 {
		return info, nil
	}

	relsData, err := readZipFile(r, relsPartFor(slidePath))
	if err != nil {
		return info, err
	}
	chartPaths := parseRels(relsData, "chart")

	for _, frame := range frames {
		target, ok := chartPaths[frame.rID]
		if !ok {
			continue
		}
		chartPath := resolveRelativePath(target, path.Dir(slidePath))
		chartData, err := readZipFile(r, chartPath)
		if err != nil {
			return info, err
		}
		if chartData == nil {
			continue
		}
		chart := parseChartXML(chartData)
		chart.Name = frame.name
		chart.Part = chartPath
		chart.L, chart.T, chart.W, chart.H = frame.left, frame.top, frame.width, frame.height
		info.Charts = append(info.Charts, chart)
	}

	return info, nil
}

// chartFrame holds a chart graphic frame found on a slide.
type chartFrame struct {
	rID    string
	name   string
	left   int
	top    int
	width  int
	height int
}

// parseSlideXML returns the slide title and its chart frames.
func parseSlideXML(data []byte) (string, []chartFrame) {
	var title string
	var frames []chartFrame
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "sp":
			if t, isTitle := parseShapeTitle(decoder); isTitle && title == "" {
				title = t
			}
		case "graphicFrame":
			if frame := parseGraphicFrameContent(decoder); frame.rID != "" {
				frames = append(frames, frame)
			}
		}
	}

	return title, frames
}

// parseShapeTitle reads a shape and returns its text when it is a title placeholder.
func parseShapeTitle(decoder *xml.Decoder) (string, bool) {
	var text strings.Builder
	isTitle := false
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "ph":
				for _, attr := range t.Attr {
					if attr.Name.Local == "type" && (attr.Value == "title" || attr.Value == "ctrTitle") {
						isTitle = true
					}
				}
			case "t":
				if txt, err := readElementText(decoder); err == nil {
					text.WriteString(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(text.String()), isTitle
}

// parseGraphicFrameContent parses graphicFrame content.
func parseGraphicFrameContent(decoder *xml.Decoder) chartFrame {
	var frame chartFrame
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" {
						frame.name = attr.Value
					}
				}
			case "xfrm":
				frame.left, frame.top, frame.width, frame.height = parseXfrm(decoder)
				depth--
			case "chart":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						frame.rID = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return frame
}

// parseXfrm reads an xfrm element and returns its geometry in pixels.
func parseXfrm(decoder *xml.Decoder) (left, top, width, height int) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			for _, attr := range t.Attr {
				var v int64
				if _, err := fmt.Sscan(attr.Value, &v); err != nil {
					continue
				}
				switch {
				case t.Name.Local == "off" && attr.Name.Local == "x":
					left = EMUToPixels(v)
				case t.Name.Local == "off" && attr.Name.Local == "y":
					top = EMUToPixels(v)
				case t.Name.Local == "ext" && attr.Name.Local == "cx":
					width = EMUToPixels(v)
				case t.Name.Local == "ext" && attr.Name.Local == "cy":
					height = EMUToPixels(v)
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseRels returns relationship targets by id, keeping relationships whose
// type ends with "/"+kind.
func parseRels(data []byte, kind string) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target, relType string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				case "Type":
					relType = attr.Value
				}
			}
			if strings.HasSuffix(relType, "/"+kind) {
				result[rID] = target
			}
		}
	}

	return result
}

// parseChartXML parses chart XML content.
func parseChartXML(data []byte) ChartInfo {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	chart := ChartInfo{ChartType: "unknown"}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "chart" {
			parseChartElement(decoder, &chart)
		}
	}

	return chart
}

// parseChartElement parses c:chart element.
func parseChartElement(decoder *xml.Decoder, chart *ChartInfo) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "plotArea":
				parsePlotArea(decoder, chart)
				depth--
			case "legendPos":
				chart.LegendPosition = attrValue(t, "val")
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parsePlotArea parses plot area element.
func parsePlotArea(decoder *xml.Decoder, chart *ChartInfo) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if ct, ok := plotElementMap[t.Name.Local]; ok {
				chart.ChartType, chart.Series = parsePlot(decoder, ct)
				depth--
			} else if name, ok := otherPlotElements[t.Name.Local]; ok {
				chart.ChartType = name
			} else if t.Name.Local == "valAx" {
				chart.Gridlines, chart.ValueFormat = parseValueAxis(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parsePlot parses a plot element and refines bar plots by direction and grouping.
func parsePlot(decoder *xml.Decoder, ct models.ChartType) (string, []SeriesInfo) {
	var series []SeriesInfo
	horizontal, stacked := false, false
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "barDir":
				horizontal = attrValue(t, "val") == "bar"
			case "grouping":
				v := attrValue(t, "val")
				stacked = v == "stacked" || v == "percentStacked"
			case "ser":
				series = append(series, parseSingleSeries(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if ct == models.ChartColumn {
		switch {
		case horizontal && stacked:
			ct = models.ChartStackedBar
		case horizontal:
			ct = models.ChartBar
		case stacked:
			ct = models.ChartStackedColumn
		}
	}
	return string(ct), series
}

// parseSingleSeries parses a single series element.
func parseSingleSeries(decoder *xml.Decoder) SeriesInfo {
	var s SeriesInfo
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "tx":
				s.Name, s.NameRange = parseSeriesName(decoder)
				depth--
			case "cat":
				s.CategoryRange = parseSeriesRange(decoder)
				depth--
			case "val":
				s.ValueRange = parseSeriesRange(decoder)
				depth--
			case "showVal", "showPercent":
				if attrValue(t, "val") == "1" {
					s.DataLabels = true
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return s
}

// parseSeriesName parses series name from tx element.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				if txt, err := readElementText(decoder); err == nil {
					nameRange = strings.TrimSpace(txt)
				}
				depth--
			case "v":
				if txt, err := readElementText(decoder); err == nil {
					name = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseSeriesRange parses the range reference of a cat or val element and
// skips the rest of it.
func parseSeriesRange(decoder *xml.Decoder) string {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" && ref == "" {
				if txt, err := readElementText(decoder); err == nil {
					ref = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref
}

// parseValueAxis parses value axis element.
func parseValueAxis(decoder *xml.Decoder) (gridlines bool, numFmt string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "majorGridlines":
				gridlines = true
			case "numFmt":
				if depth == 2 {
					numFmt = attrValue(t, "formatCode")
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// resolveRelativePath resolves a relationship target against the directory
// of its source part. Targets starting with "/" are package-absolute.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(baseDir, target))
}
