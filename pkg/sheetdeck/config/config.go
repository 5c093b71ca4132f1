// Package config loads the operator configuration file and resolves it into a
// plan request.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/models"
	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/plan"
	"gopkg.in/yaml.v3"
)

// File is the operator configuration file.
type File struct {
	// StartSlide is the slide number of the first chart. 0 means unset.
	StartSlide int `yaml:"start_slide,omitempty"`
	// HeaderRow is the 0-based sheet row holding column labels.
	HeaderRow *int `yaml:"header_row,omitempty"`
	// Template is the path of a template presentation.
	Template string `yaml:"template,omitempty"`
	// DefaultChartType is used for sheets without a chart type.
	DefaultChartType string `yaml:"default_chart_type,omitempty"`
	// IncludeUnlisted enables sheets not listed in Sheets. Defaults to true.
	IncludeUnlisted *bool `yaml:"include_unlisted,omitempty"`
	// Sheets holds per-sheet settings.
	Sheets []Sheet `yaml:"sheets,omitempty"`
}

// Sheet holds the settings of one sheet.
type Sheet struct {
	// Name is the sheet name.
	Name string `yaml:"name"`
	// Enabled includes the sheet. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`
	// ChartType is the chart type name.
	ChartType string `yaml:"chart_type,omitempty"`
	// Columns selects series by column label or by column index.
	// Defaults to the first numeric column.
	Columns []string `yaml:"columns,omitempty"`
	// Percentage displays values as percentages.
	Percentage bool `yaml:"percentage,omitempty"`
}

// Load reads a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes configuration YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to the zero configuration.
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Sheets))
	for _, s := range f.Sheets {
		if s.Name == "" {
			return nil, errors.New("parse config: sheet entry without name")
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("parse config: sheet %q listed twice", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &f, nil
}

// Lookup returns the settings of a sheet.
func (f *File) Lookup(name string) (Sheet, bool) {
	for _, s := range f.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Resolve builds the plan request for the analyzed sheets. Missing settings
// take their defaults here: sheets are enabled, the chart type is the
// configured default, and the first numeric column is charted. startSlide is
// used when the file does not set one. Errors name the offending sheet,
// including listed sheets the workbook does not have.
func (f *File) Resolve(analyses []models.SheetAnalysis, startSlide int) (plan.Request, error) {
	if f == nil {
		f = &File{}
	}
	req := plan.Request{
		StartSlide: startSlide,
		Sheets:     make(map[string]plan.SheetChoice, len(analyses)),
	}
	if f.StartSlide != 0 {
		req.StartSlide = f.StartSlide
	}

	defaultType := models.DefaultChartType
	if f.DefaultChartType != "" {
		ct, err := models.ParseChartType(f.DefaultChartType)
		if err != nil {
			return plan.Request{}, plan.NewConfigError("", err.Error())
		}
		defaultType = ct
	}
	includeUnlisted := f.IncludeUnlisted == nil || *f.IncludeUnlisted

	var errs []error
	for _, a := range analyses {
		s, listed := f.Lookup(a.SheetName)
		if !listed && !includeUnlisted {
			continue
		}

		choice := plan.DefaultChoice(a)
		choice.ChartType = defaultType
		if s.Enabled != nil {
			choice.Enabled = *s.Enabled
		}
		choice.Percentage = s.Percentage

		if s.ChartType != "" {
			ct, err := models.ParseChartType(s.ChartType)
			if err != nil {
				errs = append(errs, plan.NewConfigError(a.SheetName, err.Error()))
				continue
			}
			choice.ChartType = ct
		}

		// Invalid sheets are never planned, so their column references are not checked.
		if len(s.Columns) > 0 && a.IsValid {
			cols, err := resolveColumns(a, s.Columns)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			choice.Columns = cols
		}

		req.Sheets[a.SheetName] = choice
	}

	known := make(map[string]struct{}, len(analyses))
	for _, a := range analyses {
		known[a.SheetName] = struct{}{}
	}
	for _, s := range f.Sheets {
		if _, ok := known[s.Name]; !ok {
			errs = append(errs, plan.NewConfigError(s.Name, "sheet not found in workbook"))
		}
	}

	if len(errs) > 0 {
		return plan.Request{}, errors.Join(errs...)
	}
	return req, nil
}

// resolveColumns maps column references to indices. A reference matching a
// numeric column label wins over its reading as an index.
func resolveColumns(a models.SheetAnalysis, refs []string) ([]int, error) {
	cols := make([]int, 0, len(refs))
	for _, ref := range refs {
		if col, ok := a.NumericColumnByName(ref); ok {
			cols = append(cols, col.Index)
			continue
		}
		if idx, err := strconv.Atoi(ref); err == nil {
			cols = append(cols, idx)
			continue
		}
		return nil, plan.NewConfigError(a.SheetName, fmt.Sprintf("no numeric column %q", ref))
	}
	return cols, nil
}
