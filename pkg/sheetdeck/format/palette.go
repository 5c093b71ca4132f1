package format

// Palette is an ordered list of RGB hex colors cycled by index.
type Palette []string

// DefaultPalette is used for every chart. The first entry is the solid bar
// color used for single-series charts.
var DefaultPalette = Palette{
	"0070C0",
	"ED7D31",
	"A5A5A5",
	"FFC000",
	"5B9BD5",
	"70AD47",
	"264478",
	"9E480E",
	"636363",
	"997300",
}

// Color returns the color for position i, wrapping around the palette.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return ""
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// Cycle returns the first n colors of the palette, repeating as needed.
func (p Palette) Cycle(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = p.Color(i)
	}
	return colors
}
