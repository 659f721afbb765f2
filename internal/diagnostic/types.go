package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by the error returned from Diagnostics.Err.
var ErrInvalid = errors.New("validation failed")

type DiagnosticSeverity int

const (
	DiagnosticWarning DiagnosticSeverity = iota + 1
	DiagnosticError
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one problem found while validating.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Code     string // stable identifier, e.g. "unknown_field"
	Message  string

	TypeName  string // record type the problem belongs to, if any
	FieldPath string // field, key or file path inside it, if any

	Suggestions []string
}

// String renders "[Type] path: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.TypeName != "" {
		fmt.Fprintf(&b, "[%s]", d.TypeName)
	}

	if d.FieldPath != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.FieldPath)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", Quote(d.Suggestions))
	}

	return b.String()
}

// Diagnostics collects every problem of one validation pass instead of stopping at the first.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

func (d *Diagnostics) AddError(code, message, typeName, fieldPath string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{DiagnosticError, code, message, typeName, fieldPath, suggestions})
}

func (d *Diagnostics) AddWarning(code, message, typeName, fieldPath string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{DiagnosticWarning, code, message, typeName, fieldPath, suggestions})
}

// Merge appends everything other holds.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }
func (d *Diagnostics) IsValid() bool   { return !d.HasErrors() }

// Err joins every error into one wrapping ErrInvalid, nil when there are none.
// Warnings never fail validation.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, "; "))
}

// Quote renders names as `"a" or "b"`.
func Quote(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	return strings.Join(quoted, " or ")
}
