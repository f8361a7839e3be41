package saraswati

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati/ast"
	saraswatierrors "github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/parser"
	"github.com/saraswati-lib/saraswati/printer"
	"github.com/saraswati-lib/saraswati/syntax"
	"github.com/saraswati-lib/saraswati/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSourceDirect(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), "function f() { yield(1) }", "main.js")
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n  __rt.yield(1);\n}\n", res.Code)
	assert.Equal(t, "main.js", res.Filename)
	assert.Equal(t, 1, res.Rewrites)
	assert.Empty(t, res.Diagnostics)
	assert.NoError(t, res.Err())
	assert.Len(t, res.RunID, 36)
}

func TestCompileSourceModes(t *testing.T) {
	src := "function f() { a(); yield(x); b() }"
	tests := []struct {
		mode     transform.Mode
		expected string
	}{
		{transform.ModeDirect, "function f() {\n  a();\n  __rt.yield(x);\n  b();\n}\n"},
		{transform.ModeLowered, "function f() {\n  a();\n  const __yield0 = x;\n  __rt.yield(__yield0);\n  b();\n}\n"},
		{transform.ModeContinuation, "function f() {\n  a();\n  __rt.yield(x, () => {\n    b();\n  });\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			c, err := New(WithMode(tt.mode))
			require.NoError(t, err)
			assert.Equal(t, tt.mode, c.Mode())
			res, err := c.CompileSource(context.Background(), src, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Code)
		})
	}
}

func TestCompileSourceDiagnostics(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), "yield(1)", "main.js")
	require.NoError(t, err)
	assert.Equal(t, "yield(1);\n", res.Code)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, saraswatierrors.E2002, res.Diagnostics[0].Code)

	err = res.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yield(...) must be used inside a function body")
}

func TestCompileSourceStrict(t *testing.T) {
	c, err := New(WithStrict(true))
	require.NoError(t, err)
	_, err = c.CompileSource(context.Background(), "yield(1)", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, transform.ErrStrict))
}

func TestCompileSourceParseError(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	_, err = c.CompileSource(context.Background(), "function f( {", "")
	require.Error(t, err)
	var perr *parser.Errors
	assert.True(t, errors.As(err, &perr))
}

func TestCompileSourceCanceled(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.CompileSource(ctx, "a()\nb()", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	sig := transform.DefaultSignature()
	sig.Placement = transform.PlacementExpression
	_, err := New(WithMode(transform.ModeLowered), WithSignature(sig))
	require.Error(t, err)
	assert.Equal(t, "lowered mode requires statement placement (got expression)", err.Error())

	sig = transform.DefaultSignature()
	sig.Callee = ""
	_, err = New(WithSignature(sig))
	require.Error(t, err)
}

func TestWithSyntax(t *testing.T) {
	c, err := New(WithSyntax(syntax.ContinuationSafe))
	require.NoError(t, err)
	_, err = c.CompileSource(context.Background(), "var x = 1\nlet y = 2", "")
	require.Error(t, err)
	var verr *syntax.ValidationErrors
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "var declarations are not allowed", verr.Errors[0].Message)
}

func TestWithTransformer(t *testing.T) {
	rename := syntax.TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		ast.Inspect(p, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok && id.Name == "suspend" {
				id.Name = "yield"
			}
			return true
		})
		return p, nil
	})
	c, err := New(WithTransformer(rename))
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), "function f() { suspend(1) }", "")
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n  __rt.yield(1);\n}\n", res.Code)

	failing := syntax.TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		return nil, errors.New("boom")
	})
	c, err = New(WithTransformer(failing))
	require.NoError(t, err)
	_, err = c.CompileSource(context.Background(), "a()", "")
	require.Error(t, err)
	assert.Equal(t, "pass failed: boom", err.Error())
}

func TestWithPrinterConfig(t *testing.T) {
	c, err := New(WithPrinterConfig(printer.Config{Indent: 4}))
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), "function f() { yield() }", "")
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n    __rt.yield();\n}\n", res.Code)
}

func TestWithParseMaxDepth(t *testing.T) {
	c, err := New(WithParseMaxDepth(5))
	require.NoError(t, err)
	src := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	_, err = c.CompileSource(context.Background(), src, "")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	c, err := New(WithMode(transform.ModeContinuation))
	require.NoError(t, err)
	src := "function f() { yield(1); return 2 }"
	diags, err := c.Check(context.Background(), src, "")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, saraswatierrors.E2006, diags[0].Code)
}

func TestCheckStrict(t *testing.T) {
	c, err := New(WithStrict(true))
	require.NoError(t, err)
	diags, err := c.Check(context.Background(), "yield(1)", "main.js")
	require.Error(t, err)
	assert.Nil(t, diags)
	assert.True(t, errors.Is(err, transform.ErrStrict))
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(path, []byte("function f() { yield(1) }"), 0o644))

	c, err := New()
	require.NoError(t, err)
	res, err := c.CompileFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Filename)
	assert.Equal(t, "function f() {\n  __rt.yield(1);\n}\n", res.Code)

	_, err = c.CompileFile(context.Background(), filepath.Join(dir, "missing.js"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunIDIsLogged(t *testing.T) {
	var buf bytes.Buffer
	c, err := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), "function f() { yield(1) }", "main.js")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"run_id":"`+res.RunID+`"`)
	assert.Contains(t, buf.String(), `"message":"compiled"`)
}

func TestEmitDiagnostics(t *testing.T) {
	src := "yield(1)"
	c, err := New()
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), src, "main.js")
	require.NoError(t, err)

	var buf bytes.Buffer
	h := saraswatierrors.NewHandler(&buf, "main.js", src)
	Emit(h, res.Err())
	out := buf.String()
	assert.Contains(t, out, "error[E2002]: yield(...) must be used inside a function body")
	assert.Contains(t, out, "--> main.js:1:1")
	assert.Contains(t, out, " 1 | yield(1)")
	assert.Contains(t, out, "^^^^^^^^")
	assert.Equal(t, 1, h.ErrorCount())
}

func TestEmitWarnings(t *testing.T) {
	src := "function f() {\n  let yield = g;\n  yield(1);\n}"
	c, err := New()
	require.NoError(t, err)
	res, err := c.CompileSource(context.Background(), src, "")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)

	var buf bytes.Buffer
	h := saraswatierrors.NewHandler(&buf, "main.js", src)
	EmitDiagnostics(h, res.Diagnostics)
	assert.Contains(t, buf.String(), "warning[E2100]")
	assert.Equal(t, 0, h.ErrorCount())
	assert.Equal(t, 1, h.WarningCount())
}

func TestEmitValidationErrors(t *testing.T) {
	src := "let a = 1\nvar b = 2"
	c, err := New(WithSyntax(syntax.ContinuationSafe))
	require.NoError(t, err)
	_, err = c.CompileSource(context.Background(), src, "main.js")
	require.Error(t, err)

	var buf bytes.Buffer
	h := saraswatierrors.NewHandler(&buf, "main.js", src)
	Emit(h, err)
	assert.Contains(t, buf.String(), "error[E3001]: var declarations are not allowed")
	assert.Contains(t, buf.String(), "--> main.js:2:1")
}

func TestTransformerSatisfiesSyntaxTransformer(t *testing.T) {
	tr, err := transform.New(transform.ModeDirect, transform.DefaultSignature())
	require.NoError(t, err)
	var _ syntax.Transformer = tr
}
