package sheetdeck

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetdeck-go/pkg/sheetdeck/plan"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a supported workbook format.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ErrNoCharts indicates that no sheet produced a chart.
var ErrNoCharts = errors.New("no chartable sheets")

// Collaborator names used in CollaboratorError.
const (
	CollaboratorTableReader  = "table reader"
	CollaboratorDeckRenderer = "deck renderer"
)

// ConfigError reports an operator configuration that cannot be planned.
type ConfigError = plan.ConfigError

// CollaboratorError reports a failure of the table reader or deck renderer.
// It is fatal for the run.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError creates a new CollaboratorError.
func NewCollaboratorError(collaborator string, err error) *CollaboratorError {
	return &CollaboratorError{
		Collaborator: collaborator,
		Err:          err,
	}
}
