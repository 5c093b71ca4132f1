package deck

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
const EMUPerInch = 914400

// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
// 914400 / 96 = 9525 EMU per pixel.
const EMUPerPixel = 9525

// Inches converts inches to EMU.
func Inches(in float64) int64 {
	return int64(in * EMUPerInch)
}

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// Slide size of the built-in 16:9 presentation.
const (
	defaultSlideWidth  int64 = 12192000
	defaultSlideHeight int64 = 6858000
)

// rect is a shape position and size in EMU.
type rect struct {
	left, top, width, height int64
}

// defaultChartRect is the chart frame on the built-in presentation.
var defaultChartRect = chartRect(defaultSlideWidth, defaultSlideHeight)

// chartRect returns the chart frame for a slide of the given size: 1in side
// margins, 1.5in from the top and 0.5in from the bottom. Slides too small
// for the margins get the built-in frame.
func chartRect(slideWidth, slideHeight int64) rect {
	r := rect{left: Inches(1), top: Inches(1.5)}
	r.width = slideWidth - 2*r.left
	r.height = slideHeight - r.top - Inches(0.5)
	if r.width <= 0 || r.height <= 0 {
		return chartRect(defaultSlideWidth, defaultSlideHeight)
	}
	return r
}

// hundredthsOfPoint converts a font size in points to the unit used by DrawingML sz attributes.
func hundredthsOfPoint(pt float64) int {
	return int(pt*100 + 0.5)
}
