package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sunholo/etude/internal/ast"
)

// Report is the canonical structured error type. Every error builder in
// the pipeline returns a *Report (wrapped via WrapReport so it survives
// errors.As), which the CLI boundary renders either as the spec's
// one-line diagnostic or, with -json, as this structure verbatim.
type Report struct {
	Code     string         `json:"code"`
	Phase    string         `json:"phase"`
	Message  string         `json:"message"`
	Loc      *ast.Location  `json:"loc,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      string         `json:"fix,omitempty"`
}

// ReportError wraps a Report so it travels through the error interface
// while remaining recoverable via AsReport.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Loc != nil {
		return fmt.Sprintf("%s: %s: %s", e.Rep.Loc.Display(), e.Rep.Code, e.Rep.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// WrapReport wraps a Report as an error. Callers should always return
// through this helper rather than constructing *ReportError directly.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// At constructs a location-bearing report.
func At(code, phase string, loc ast.Location, format string, args ...any) error {
	l := loc
	return WrapReport(&Report{
		Code:    code,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
		Loc:     &l,
	})
}

// New constructs a non-located report (e.g. MissingStandardLibrary).
func New(code, phase string, format string, args ...any) error {
	return WrapReport(&Report{
		Code:    code,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
	})
}

// Internal constructs an InternalInvariant report: reaching this
// indicates a bug in the compiler, not a malformed input program.
func Internal(phase string, format string, args ...any) error {
	return New(USG001, phase, format, args...)
}

// Line renders the spec's one-line diagnostic format: a single line of
// `line = L, column = C: <message>`, 1-indexed, for located reports, or
// just the message for non-located ones.
func (r *Report) Line() string {
	if r.Loc != nil {
		return fmt.Sprintf("%s: %s", r.Loc.Display(), r.Message)
	}
	return r.Message
}

// ToJSON renders the report as JSON, for the CLI's -json diagnostic mode.
func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
