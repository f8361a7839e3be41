package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Handler renders diagnostics for a single source file. It owns the source
// text so that positions can be mapped back to the lines they point at.
type Handler struct {
	filename  string
	lines     []string
	out       io.Writer
	formatter *Formatter
	errors    int
	warnings  int
}

// NewHandler returns a Handler writing to out. Color is enabled when out is
// a terminal.
func NewHandler(out io.Writer, filename, source string) *Handler {
	return &Handler{
		filename:  filename,
		lines:     strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n"),
		out:       out,
		formatter: NewFormatter(isTerminal(out)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor overrides terminal detection.
func (h *Handler) SetColor(enabled bool) {
	h.formatter.UseColor = enabled
}

// Line returns the 1-based line of source, or "" if out of range.
func (h *Handler) Line(n int) string {
	if n < 1 || n > len(h.lines) {
		return ""
	}
	return h.lines[n-1]
}

// Locate builds a CompileError for the half-open span [start, end).
func (h *Handler) Locate(code ErrorCode, kind, message string, start, end token.Position) *CompileError {
	line := h.Line(start.LineNumber())
	return &CompileError{
		Code:       code,
		Kind:       kind,
		Message:    message,
		Filename:   h.filename,
		Line:       start.LineNumber(),
		Column:     start.ColumnNumber(),
		EndColumn:  EndColumn(start, end, line),
		SourceLine: line,
	}
}

// Emit writes a formatted rendering of err and updates the counters.
func (h *Handler) Emit(err error) {
	var formatted *FormattedError
	switch e := err.(type) {
	case *CompileError:
		if e.IsWarning() {
			h.warnings++
		} else {
			h.errors++
		}
		formatted = e.ToFormatted()
	case FormattableError:
		h.errors++
		formatted = e.ToFormatted()
	default:
		h.errors++
		formatted = &FormattedError{Kind: "error", Message: err.Error(), Filename: h.filename}
	}
	fmt.Fprint(h.out, h.formatter.Format(formatted))
}

// ErrorCount returns the number of errors emitted so far.
func (h *Handler) ErrorCount() int { return h.errors }

// WarningCount returns the number of warnings emitted so far.
func (h *Handler) WarningCount() int { return h.warnings }

// HasErrors reports whether any error was emitted.
func (h *Handler) HasErrors() bool { return h.errors > 0 }

// Summary returns a one-line count of emitted diagnostics, or "" if none.
func (h *Handler) Summary() string {
	if h.errors == 0 && h.warnings == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s, %s emitted", h.filename,
		plural(h.errors, "error"), plural(h.warnings, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
