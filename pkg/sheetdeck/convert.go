package sheetdeck

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/analysis"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/config"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/deck"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/format"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/parser"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/plan"
)

// TableSource loads the sheets of a workbook in workbook order.
type TableSource interface {
	ReadTables(headerRow int) ([]models.Table, error)
}

// DeckRenderer writes chart slides as a presentation.
type DeckRenderer interface {
	Render(slides []deck.Slide, w io.Writer) (deck.Report, error)
}

// Workbook holds the loaded sheets of a workbook and their analyses.
type Workbook struct {
	// BookName is the workbook file name.
	BookName string `json:"book_name"`
	// Tables are the sheets in workbook order.
	Tables []models.Table `json:"-"`
	// Analyses are the sheet analyses, parallel to Tables.
	Analyses []models.SheetAnalysis `json:"sheets"`
}

// Table returns the sheet with the given name.
func (wb *Workbook) Table(name string) (models.Table, bool) {
	for _, t := range wb.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return models.Table{}, false
}

// Result is the outcome of a conversion.
type Result struct {
	// Plan is the chart plan that was rendered.
	Plan models.ChartPlan `json:"plan"`
	// Report describes the written deck.
	Report deck.Report `json:"report"`
	// Previews lists the written preview images.
	Previews []string `json:"previews,omitempty"`
}

// OpenSource returns a TableSource for a workbook file. Failures are
// reported as table reader CollaboratorErrors.
func OpenSource(path string) (TableSource, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, NewCollaboratorError(CollaboratorTableReader, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return parser.XLSXSource{Path: path}, nil
	default:
		return nil, NewCollaboratorError(CollaboratorTableReader, fmt.Errorf("%s: %w", path, ErrInvalidFormat))
	}
}

// Analyze loads every sheet from src and classifies it.
func Analyze(src TableSource, opts Options) (*Workbook, error) {
	logger := opts.logger()

	tables, err := src.ReadTables(opts.HeaderRow)
	if err != nil {
		return nil, NewCollaboratorError(CollaboratorTableReader, err)
	}

	wb := &Workbook{
		Tables:   tables,
		Analyses: make([]models.SheetAnalysis, 0, len(tables)),
	}
	if s, ok := src.(parser.XLSXSource); ok {
		wb.BookName = filepath.Base(s.Path)
	}
	for _, t := range tables {
		a := analysis.Analyze(t)
		logger.Debug("sheet analyzed",
			"sheet", a.SheetName,
			"valid", a.IsValid,
			"rows", a.ValidRowCount,
			"numeric_columns", len(a.NumericColumns))
		wb.Analyses = append(wb.Analyses, a)
	}
	return wb, nil
}

// AnalyzeFile loads and classifies the workbook at path.
func AnalyzeFile(path string, opts Options) (*Workbook, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	return Analyze(src, opts)
}

// BuildPlan resolves cfg against the workbook and builds the chart plan.
// A nil cfg charts every valid sheet with default choices.
func BuildPlan(wb *Workbook, cfg *config.File, opts Options) (models.ChartPlan, error) {
	logger := opts.logger()

	req, err := cfg.Resolve(wb.Analyses, opts.StartSlide)
	if err != nil {
		return models.ChartPlan{}, err
	}
	p, err := plan.Build(wb.Analyses, req)
	if err != nil {
		return models.ChartPlan{}, err
	}

	planned := make(map[string]bool, len(p.Charts))
	for _, c := range p.Charts {
		planned[c.SheetName] = true
	}
	for _, a := range wb.Analyses {
		if planned[a.SheetName] {
			continue
		}
		reason := "disabled"
		if !a.IsValid {
			reason = "no numeric data"
		}
		logger.Info("sheet skipped", "sheet", a.SheetName, "reason", reason)
	}
	return p, nil
}

// Slides pairs every planned chart with its series and formatting.
func Slides(wb *Workbook, p models.ChartPlan) ([]deck.Slide, error) {
	slides := make([]deck.Slide, 0, len(p.Charts))
	for _, cfg := range p.Charts {
		t, ok := wb.Table(cfg.SheetName)
		if !ok {
			return nil, fmt.Errorf("sheet %q not found in workbook", cfg.SheetName)
		}
		payload, err := analysis.Extract(t, cfg)
		if err != nil {
			return nil, err
		}
		slides = append(slides, deck.Slide{
			Number:    cfg.SlideNumber,
			Title:     cfg.Title(),
			ChartType: cfg.ChartType,
			Payload:   payload,
			Format:    format.Policy(cfg.ChartType, len(payload.Series), cfg.Percentage),
		})
	}
	return slides, nil
}

// Render writes slides with r.
func Render(r DeckRenderer, slides []deck.Slide, w io.Writer) (deck.Report, error) {
	report, err := r.Render(slides, w)
	if err != nil {
		return deck.Report{}, NewCollaboratorError(CollaboratorDeckRenderer, err)
	}
	return report, nil
}

// Convert reads the workbook at inputPath and writes its chart deck to
// outputPath. The header row and template set in cfg take precedence over
// the matching Options.
func Convert(inputPath, outputPath string, cfg *config.File, opts Options) (*Result, error) {
	logger := opts.logger()

	if cfg != nil {
		if cfg.HeaderRow != nil {
			opts.HeaderRow = *cfg.HeaderRow
		}
		if cfg.Template != "" {
			opts.TemplatePath = cfg.Template
		}
	}

	wb, err := AnalyzeFile(inputPath, opts)
	if err != nil {
		return nil, err
	}
	p, err := BuildPlan(wb, cfg, opts)
	if err != nil {
		return nil, err
	}
	if len(p.Charts) == 0 {
		return nil, ErrNoCharts
	}
	slides, err := Slides(wb, p)
	if err != nil {
		return nil, err
	}

	var template []byte
	if opts.TemplatePath != "" {
		template, err = deck.LoadTemplate(opts.TemplatePath)
		if err != nil {
			return nil, NewCollaboratorError(CollaboratorDeckRenderer, err)
		}
	}

	report, err := writeDeck(deck.NewWriter(template, logger), slides, outputPath)
	if err != nil {
		return nil, err
	}
	logger.Info("deck written", "path", outputPath, "charts", len(report.Slides), "slides", report.TotalSlides)

	result := &Result{Plan: p, Report: report}
	if opts.PreviewDir != "" {
		paths, err := deck.WritePreviews(slides, opts.PreviewDir)
		result.Previews = paths
		if err != nil {
			logger.Warn("preview failed", "error", err)
		}
	}
	return result, nil
}

func writeDeck(r DeckRenderer, slides []deck.Slide, outputPath string) (report deck.Report, err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return deck.Report{}, NewCollaboratorError(CollaboratorDeckRenderer, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewCollaboratorError(CollaboratorDeckRenderer, cerr)
		}
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	return Render(r, slides, f)
}

// IsConfigError reports whether err holds a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
