package transform

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	saraswatierrors "github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diag(sev Severity, code saraswatierrors.ErrorCode, msg string, line, col int) Diagnostic {
	pos := token.Position{Line: line, Column: col, Char: line*10 + col}
	return Diagnostic{
		Span:     Span{Start: pos, End: pos.Advance(3)},
		Severity: sev,
		Code:     code,
		Message:  msg,
	}
}

func TestDiagnosticError(t *testing.T) {
	d := diag(SeverityError, saraswatierrors.E2001, "bad placement", 1, 4)
	assert.Equal(t, "2:5: error[E2001]: bad placement", d.Error())

	d.Span.Start.File = "main.js"
	assert.Equal(t, "main.js:2:5: error[E2001]: bad placement", d.Error())
}

func TestDiagnosticsFilters(t *testing.T) {
	ds := Diagnostics{
		diag(SeverityWarning, saraswatierrors.E2100, "shadowed", 0, 0),
		diag(SeverityError, saraswatierrors.E2002, "context", 1, 0),
		diag(SeverityError, saraswatierrors.E2004, "arity", 2, 0),
	}
	assert.True(t, ds.HasErrors())
	assert.Len(t, ds.Errors(), 2)
	assert.Len(t, ds.Warnings(), 1)

	err := ds.Err()
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "error[E2004]: arity")

	warnings := ds.Warnings()
	assert.False(t, warnings.HasErrors())
	assert.NoError(t, warnings.Err())
	assert.NoError(t, Diagnostics(nil).Err())
}

func TestSpan(t *testing.T) {
	outer := Span{Start: token.Position{Char: 2}, End: token.Position{Char: 10}}
	inner := Span{Start: token.Position{Char: 4}, End: token.Position{Char: 10}}
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.Equal(t, "1:1", outer.String())
}
