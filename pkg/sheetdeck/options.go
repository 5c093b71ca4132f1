// Package sheetdeck turns spreadsheet workbooks into chart presentations.
package sheetdeck

import "log/slog"

// Options configures a conversion.
type Options struct {
	// HeaderRow is the 0-based sheet row holding column labels.
	HeaderRow int
	// StartSlide is the slide number of the first chart, used when the
	// configuration file does not set one.
	StartSlide int
	// TemplatePath is an optional presentation whose layouts and slides are reused.
	TemplatePath string
	// PreviewDir, when set, receives a PNG preview per chart slide.
	PreviewDir string
	// Logger receives progress and warnings. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		HeaderRow:  0,
		StartSlide: 1,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
