package deck

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/xuri/excelize/v2"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	catAxisID = 500000001
	valAxisID = 500000002
)

// chartElementMap maps chart types to their OOXML plot element.
var chartElementMap = map[models.ChartType]string{
	models.ChartBar:           "barChart",
	models.ChartColumn:        "barChart",
	models.ChartStackedBar:    "barChart",
	models.ChartStackedColumn: "barChart",
	models.ChartLine:          "lineChart",
	models.ChartArea:          "areaChart",
	models.ChartPie:           "pieChart",
	models.ChartDoughnut:      "doughnutChart",
}

// legendPositions maps directive positions to c:legendPos values.
var legendPositions = map[string]string{
	"right":  "r",
	"bottom": "b",
	"left":   "l",
	"top":    "t",
}

// dataLabels describes the data labels of every series.
type dataLabels struct {
	showValue    bool
	showPercent  bool
	numberFormat string
}

// chartDoc is a chart part under construction. Formatting directives adjust
// its fields before it is marshaled.
type chartDoc struct {
	chartType models.ChartType
	payload   models.SeriesPayload
	sheet     string

	legendPos     string
	gridlines     bool
	tickLabelSize int
	valueFormat   string
	labels        *dataLabels
	seriesColors  []string
	pointColors   []string
}

func newChartDoc(chartType models.ChartType, payload models.SeriesPayload) *chartDoc {
	return &chartDoc{
		chartType: chartType,
		payload:   payload,
		sheet:     embeddedSheet,
		gridlines: true,
	}
}

// marshal renders the chart part XML.
func (d *chartDoc) marshal() ([]byte, error) {
	element, ok := chartElementMap[d.chartType]
	if !ok {
		return nil, fmt.Errorf("unsupported chart type %q", d.chartType)
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	b.WriteString(`<c:date1904 val="0"/><c:roundedCorners val="0"/>`)
	b.WriteString(`<c:chart><c:autoTitleDeleted val="1"/><c:plotArea><c:layout/>`)

	fmt.Fprintf(&b, "<c:%s>", element)
	switch d.chartType {
	case models.ChartBar, models.ChartStackedBar:
		b.WriteString(`<c:barDir val="bar"/>`)
	case models.ChartColumn, models.ChartStackedColumn:
		b.WriteString(`<c:barDir val="col"/>`)
	}
	switch {
	case d.chartType.IsStacked():
		b.WriteString(`<c:grouping val="stacked"/>`)
	case element == "barChart":
		b.WriteString(`<c:grouping val="clustered"/>`)
	case element == "lineChart", element == "areaChart":
		b.WriteString(`<c:grouping val="standard"/>`)
	}
	fmt.Fprintf(&b, `<c:varyColors val="%s"/>`, boolVal(d.chartType.IsProportional()))

	for i, s := range d.payload.Series {
		d.writeSeries(&b, i, s)
	}

	switch element {
	case "barChart":
		b.WriteString(`<c:gapWidth val="150"/>`)
		if d.chartType.IsStacked() {
			b.WriteString(`<c:overlap val="100"/>`)
		}
	case "lineChart":
		b.WriteString(`<c:marker val="1"/>`)
	case "pieChart":
		b.WriteString(`<c:firstSliceAng val="0"/>`)
	case "doughnutChart":
		b.WriteString(`<c:firstSliceAng val="0"/><c:holeSize val="50"/>`)
	}
	if !d.chartType.IsProportional() {
		fmt.Fprintf(&b, `<c:axId val="%d"/><c:axId val="%d"/>`, catAxisID, valAxisID)
	}
	fmt.Fprintf(&b, "</c:%s>", element)

	if !d.chartType.IsProportional() {
		d.writeAxes(&b)
	}
	b.WriteString(`</c:plotArea>`)

	if d.legendPos != "" {
		fmt.Fprintf(&b, `<c:legend><c:legendPos val="%s"/><c:overlay val="0"/></c:legend>`, d.legendPos)
	}
	b.WriteString(`<c:plotVisOnly val="1"/><c:dispBlanksAs val="gap"/></c:chart>`)
	b.WriteString(`<c:externalData r:id="rId1"><c:autoUpdate val="0"/></c:externalData>`)
	b.WriteString(`</c:chartSpace>`)

	return []byte(b.String()), nil
}

func (d *chartDoc) writeSeries(b *strings.Builder, i int, s models.Series) {
	n := len(d.payload.Categories)
	valueCol := i + 2

	fmt.Fprintf(b, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)

	nameRef := d.cellRef(valueCol, 1)
	fmt.Fprintf(b, `<c:tx><c:strRef><c:f>%s</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>`,
		escapeXML(nameRef), escapeXML(s.Name))

	if i < len(d.seriesColors) && !d.chartType.IsProportional() {
		color := d.seriesColors[i]
		if d.chartType == models.ChartLine {
			fmt.Fprintf(b, `<c:spPr><a:ln w="28575" cap="rnd"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:round/></a:ln></c:spPr>`, color)
		} else {
			fmt.Fprintf(b, `<c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr>`, color)
		}
	}
	switch d.chartType {
	case models.ChartBar, models.ChartColumn, models.ChartStackedBar, models.ChartStackedColumn:
		b.WriteString(`<c:invertIfNegative val="0"/>`)
	case models.ChartLine:
		b.WriteString(`<c:marker><c:symbol val="circle"/><c:size val="5"/></c:marker>`)
	}

	if len(d.pointColors) > 0 {
		for pt := 0; pt < n; pt++ {
			color := d.pointColors[pt%len(d.pointColors)]
			fmt.Fprintf(b, `<c:dPt><c:idx val="%d"/><c:bubble3D val="0"/><c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr></c:dPt>`, pt, color)
		}
	}

	if d.labels != nil {
		d.writeDataLabels(b)
	}

	catRef := d.rangeRef(1, n)
	b.WriteString(`<c:cat><c:strRef>`)
	fmt.Fprintf(b, `<c:f>%s</c:f><c:strCache><c:ptCount val="%d"/>`, escapeXML(catRef), n)
	for pt, cat := range d.payload.Categories {
		fmt.Fprintf(b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, pt, escapeXML(cat))
	}
	b.WriteString(`</c:strCache></c:strRef></c:cat>`)

	valRef := d.rangeRef(valueCol, n)
	b.WriteString(`<c:val><c:numRef>`)
	fmt.Fprintf(b, `<c:f>%s</c:f><c:numCache><c:formatCode>General</c:formatCode><c:ptCount val="%d"/>`, escapeXML(valRef), len(s.Values))
	for pt, v := range s.Values {
		fmt.Fprintf(b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, pt, strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteString(`</c:numCache></c:numRef></c:val>`)

	if d.chartType == models.ChartLine {
		b.WriteString(`<c:smooth val="0"/>`)
	}
	b.WriteString(`</c:ser>`)
}

func (d *chartDoc) writeDataLabels(b *strings.Builder) {
	l := d.labels
	b.WriteString(`<c:dLbls>`)
	if l.numberFormat != "" {
		fmt.Fprintf(b, `<c:numFmt formatCode="%s" sourceLinked="0"/>`, escapeXML(l.numberFormat))
	}
	b.WriteString(`<c:spPr><a:noFill/><a:ln><a:noFill/></a:ln></c:spPr>`)
	fmt.Fprintf(b, `<c:showLegendKey val="0"/><c:showVal val="%s"/><c:showCatName val="0"/><c:showSerName val="0"/><c:showPercent val="%s"/><c:showBubbleSize val="0"/>`,
		boolVal(l.showValue), boolVal(l.showPercent))
	b.WriteString(`</c:dLbls>`)
}

func (d *chartDoc) writeAxes(b *strings.Builder) {
	catPos, valPos := "b", "l"
	if d.chartType == models.ChartBar || d.chartType == models.ChartStackedBar {
		catPos, valPos = "l", "b"
	}

	fmt.Fprintf(b, `<c:catAx><c:axId val="%d"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="%s"/>`, catAxisID, catPos)
	b.WriteString(`<c:numFmt formatCode="General" sourceLinked="1"/><c:majorTickMark val="out"/><c:minorTickMark val="none"/><c:tickLblPos val="nextTo"/>`)
	d.writeTickLabels(b)
	fmt.Fprintf(b, `<c:crossAx val="%d"/><c:crosses val="autoZero"/><c:auto val="1"/><c:lblAlgn val="ctr"/><c:lblOffset val="100"/><c:noMultiLvlLbl val="0"/></c:catAx>`, valAxisID)

	fmt.Fprintf(b, `<c:valAx><c:axId val="%d"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="%s"/>`, valAxisID, valPos)
	if d.gridlines {
		b.WriteString(`<c:majorGridlines/>`)
	}
	if d.valueFormat != "" {
		fmt.Fprintf(b, `<c:numFmt formatCode="%s" sourceLinked="0"/>`, escapeXML(d.valueFormat))
	} else {
		b.WriteString(`<c:numFmt formatCode="General" sourceLinked="1"/>`)
	}
	b.WriteString(`<c:majorTickMark val="out"/><c:minorTickMark val="none"/><c:tickLblPos val="nextTo"/>`)
	d.writeTickLabels(b)
	fmt.Fprintf(b, `<c:crossAx val="%d"/><c:crosses val="autoZero"/><c:crossBetween val="between"/></c:valAx>`, catAxisID)
}

func (d *chartDoc) writeTickLabels(b *strings.Builder) {
	if d.tickLabelSize <= 0 {
		return
	}
	fmt.Fprintf(b, `<c:txPr><a:bodyPr/><a:lstStyle/><a:p><a:pPr><a:defRPr sz="%d"/></a:pPr><a:endParaRPr lang="en-US"/></a:p></c:txPr>`, d.tickLabelSize)
}

// cellRef returns an absolute sheet-qualified reference, e.g. Sheet1!$B$1.
func (d *chartDoc) cellRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row, true)
	return d.sheet + "!" + cell
}

// rangeRef returns the data range of column col for n categories.
func (d *chartDoc) rangeRef(col, n int) string {
	last := n + 1
	if n == 0 {
		last = 2
	}
	from, _ := excelize.CoordinatesToCellName(col, 2, true)
	to, _ := excelize.CoordinatesToCellName(col, last, true)
	return d.sheet + "!" + from + ":" + to
}

func boolVal(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
