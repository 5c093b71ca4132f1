package format

import "errors"

// ErrUnsupported is returned by a renderer that cannot apply a directive to a
// chart type.
var ErrUnsupported = errors.New("directive not supported for chart type")

// Status is the outcome of applying one directive.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusUnsupported Status = "unsupported"
)

// Result records how one directive was handled.
type Result struct {
	Kind   Kind   `json:"kind"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Apply runs fn for every directive in the set. A failing directive is
// recorded as unsupported and the remaining directives still run.
func Apply(s Set, fn func(Directive) error) []Result {
	results := make([]Result, 0, len(s.Directives))
	for _, d := range s.Directives {
		if err := fn(d); err != nil {
			results = append(results, Result{Kind: d.Kind, Status: StatusUnsupported, Reason: err.Error()})
			continue
		}
		results = append(results, Result{Kind: d.Kind, Status: StatusApplied})
	}
	return results
}

// Unsupported returns the results that were not applied.
func Unsupported(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status != StatusApplied {
			out = append(out, r)
		}
	}
	return out
}
