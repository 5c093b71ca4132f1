// Package deck renders chart slides into a PowerPoint presentation.
package deck

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/format"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
)

// Slide is one chart slide to render.
type Slide struct {
	// Number is the 1-based deck position of the slide.
	Number int `json:"number"`
	// Title is the slide title.
	Title string `json:"title"`
	// ChartType is the chart drawn on the slide.
	ChartType models.ChartType `json:"chart_type"`
	// Payload holds the chart data.
	Payload models.SeriesPayload `json:"payload"`
	// Format holds the formatting directives.
	Format format.Set `json:"format"`
}

// SlideReport describes one rendered chart slide.
type SlideReport struct {
	Number    int             `json:"number"`
	Title     string          `json:"title"`
	SlidePart string          `json:"slide_part"`
	ChartPart string          `json:"chart_part"`
	Results   []format.Result `json:"results"`
}

// Report describes a rendered deck.
type Report struct {
	// Slides lists the chart slides in render order.
	Slides []SlideReport `json:"slides"`
	// TotalSlides counts every slide in the deck, template slides included.
	TotalSlides int `json:"total_slides"`
}

// Writer writes chart slides into a new presentation, optionally based on a
// template presentation whose masters, layouts, and slides are kept.
type Writer struct {
	template []byte
	logger   *slog.Logger
}

// NewWriter creates a Writer. template may be nil to use the built-in
// presentation. A nil logger uses slog.Default().
func NewWriter(template []byte, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{template: template, logger: logger}
}

// LoadTemplate reads a template presentation from disk.
func LoadTemplate(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return data, nil
}

// RenderFile renders the slides into a presentation file at path.
func (w *Writer) RenderFile(slides []Slide, path string) (Report, error) {
	f, err := os.Create(path)
	if err != nil {
		return Report{}, err
	}

	report, err := w.Render(slides, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return Report{}, err
	}
	return report, nil
}

// Render writes a presentation holding the slides to out. A slide numbered n
// is placed at deck position n, or appended when the deck is shorter.
// The chart frame is sized to the deck's slide size.
// Each formatting directive is applied on its own; directives that do not fit
// the chart are reported and skipped.
func (w *Writer) Render(slides []Slide, out io.Writer) (Report, error) {
	pkg, err := w.load()
	if err != nil {
		return Report{}, err
	}

	layoutPart, err := findLayout(pkg)
	if err != nil {
		return Report{}, err
	}
	presXML, err := pkg.read(presentationPart)
	if err != nil {
		return Report{}, err
	}
	presRels, err := pkg.read(presentationRelsPart)
	if err != nil {
		return Report{}, err
	}
	contentTypes, err := pkg.read(contentTypesPart)
	if err != nil {
		return Report{}, err
	}

	frame := chartRect(slideSize(presXML))
	order := existingSlides(presXML)
	slideID := maxSlideID(order)
	relID := nextRelID(presRels)
	contentTypes = ensureDefault(contentTypes, "xlsx", contentTypeXLSX)

	report := Report{Slides: make([]SlideReport, 0, len(slides))}
	for _, s := range slides {
		if s.Number < 1 {
			return Report{}, fmt.Errorf("slide %q: invalid slide number %d", s.Title, s.Number)
		}

		slideN := pkg.nextPartIndex("ppt/slides/slide", ".xml")
		chartN := pkg.nextPartIndex("ppt/charts/chart", ".xml")
		embedN := pkg.nextPartIndex("ppt/embeddings/Microsoft_Excel_Worksheet", ".xlsx")

		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", slideN)
		chartPart := fmt.Sprintf("ppt/charts/chart%d.xml", chartN)
		embedPart := fmt.Sprintf("ppt/embeddings/Microsoft_Excel_Worksheet%d.xlsx", embedN)

		doc := newChartDoc(s.ChartType, s.Payload)
		results := format.Apply(s.Format, doc.apply)
		for _, r := range format.Unsupported(results) {
			w.logger.Warn("formatting directive skipped",
				"slide", s.Number, "title", s.Title, "directive", r.Kind, "reason", r.Reason)
		}

		chartXML, err := doc.marshal()
		if err != nil {
			return Report{}, fmt.Errorf("slide %q: %w", s.Title, err)
		}
		workbook, err := buildWorkbook(s.Payload)
		if err != nil {
			return Report{}, fmt.Errorf("slide %q: %w", s.Title, err)
		}

		pkg.write(chartPart, chartXML)
		pkg.write(relsPartFor(chartPart), relationshipsXML(
			[3]string{"rId1", relTypePackage, fmt.Sprintf("../embeddings/Microsoft_Excel_Worksheet%d.xlsx", embedN)},
		))
		pkg.write(embedPart, workbook)
		pkg.write(slidePart, slideXML(s.Title, "rId2", frame))
		pkg.write(relsPartFor(slidePart), relationshipsXML(
			[3]string{"rId1", relTypeSlideLayout, "../slideLayouts/" + path.Base(layoutPart)},
			[3]string{"rId2", relTypeChart, fmt.Sprintf("../charts/chart%d.xml", chartN)},
		))

		rID := fmt.Sprintf("rId%d", relID)
		relID++
		presRels = addRelationship(presRels, rID, relTypeSlide, fmt.Sprintf("slides/slide%d.xml", slideN))
		contentTypes = addOverride(contentTypes, slidePart, contentTypeSlide)
		contentTypes = addOverride(contentTypes, chartPart, contentTypeChart)

		slideID++
		pos := s.Number - 1
		if pos > len(order) {
			pos = len(order)
		}
		order = append(order, slideRef{})
		copy(order[pos+1:], order[pos:])
		order[pos] = slideRef{id: slideID, rID: rID}

		report.Slides = append(report.Slides, SlideReport{
			Number:    s.Number,
			Title:     s.Title,
			SlidePart: slidePart,
			ChartPart: chartPart,
			Results:   results,
		})
		w.logger.Debug("chart slide added", "slide", s.Number, "title", s.Title, "chart", s.ChartType, "part", slidePart)
	}

	presXML, err = writeSlideList(presXML, order)
	if err != nil {
		return Report{}, err
	}
	pkg.write(presentationPart, presXML)
	pkg.write(presentationRelsPart, presRels)
	pkg.write(contentTypesPart, contentTypes)

	if err := pkg.save(out); err != nil {
		return Report{}, err
	}
	report.TotalSlides = len(order)
	return report, nil
}

func (w *Writer) load() (*opcPackage, error) {
	if len(w.template) == 0 {
		return loadBase()
	}
	return loadTemplate(w.template)
}

// relsPartFor returns the relationships part of a part,
// e.g. ppt/slides/_rels/slide1.xml.rels for ppt/slides/slide1.xml.
func relsPartFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}
