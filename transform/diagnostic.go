package transform

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Span is the half-open source range [Start, End).
type Span struct {
	Start token.Position
	End   token.Position
}

// SpanOf returns the span of node.
func SpanOf(node ast.Node) Span {
	return Span{Start: node.Pos(), End: node.End()}
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return s.Start.Char <= other.Start.Char && other.End.Char <= s.End.Char
}

func (s Span) String() string {
	if s.Start.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.Start.File, s.Start.LineNumber(), s.Start.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", s.Start.LineNumber(), s.Start.ColumnNumber())
}

// Diagnostic is a structured report tied to a source span. Diagnostics are
// never formatted by this package; see errors.Handler.
type Diagnostic struct {
	Span     Span
	Severity Severity
	Code     errors.ErrorCode
	Message  string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
}

// Diagnostics is the ordered list of diagnostics produced by one run.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(SeverityError)
}

// Warnings returns the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

func (ds Diagnostics) filter(sev Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Err combines the error-severity diagnostics into a single error, or
// returns nil when there are none.
func (ds Diagnostics) Err() error {
	var result *multierror.Error
	for _, d := range ds.Errors() {
		result = multierror.Append(result, d)
	}
	return result.ErrorOrNil()
}
