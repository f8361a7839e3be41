package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors with colors and professional styling.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for error formatting. They are forced on so that the
// formatter, not the process-wide color.NoColor switch, decides.
var (
	colorError     = forced(color.FgRed)
	colorErrorBold = forced(color.FgHiRed, color.Bold)
	colorWarning   = forced(color.FgHiYellow, color.Bold)
	colorCode      = forced(color.FgHiBlack)
	colorLocation  = forced(color.FgCyan)
	colorLineNum   = forced(color.FgHiBlack)
	colorSource    = forced(color.FgWhite)
	colorCaret     = forced(color.FgHiRed)
	colorHint      = forced(color.FgHiYellow)
	colorNote      = forced(color.FgHiBlue)
)

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "warning", "parse error", "syntax error", etc.
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int               // For multi-character underlines
	SourceLines []SourceLineEntry // Multiple lines for context
	Hint        string            // "Did you mean?" suggestion
	Note        string            // Additional context
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats the error as a string using a consistent Rust-like style.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "[1/5]".
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	lineNumWidth := 2
	if err.Line >= 100 {
		lineNumWidth = len(fmt.Sprintf("%d", err.Line))
	}

	// "error[E2001]: message" or "error[1/5]: message"
	f.writeHeader(&b, err, prefix)

	// "  --> file.js:10:5"
	f.writeLocation(&b, err, lineNumWidth)

	f.writeSource(&b, err, lineNumWidth)

	if err.Hint != "" {
		f.writeAnnotation(&b, "hint: ", colorHint, err.Hint, lineNumWidth, true)
	}
	if err.Note != "" {
		f.writeAnnotation(&b, "note: ", colorNote, err.Note, lineNumWidth, false)
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, err *FormattedError, prefix string) {
	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	labelColor := colorErrorBold
	if label == "warning" {
		labelColor = colorWarning
	}
	b.WriteString(f.paint(labelColor, label))

	switch {
	case err.Code != "":
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", err.Code)))
	case prefix != "":
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", prefix)))
	}

	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(f.paint(colorLocation, "-->"))
	b.WriteString(" ")

	loc := ""
	if err.Filename != "" {
		loc = err.Filename
		if err.Line > 0 {
			loc += fmt.Sprintf(":%d:%d", err.Line, err.Column)
		}
	} else if err.Line > 0 {
		loc = fmt.Sprintf("%d:%d", err.Line, err.Column)
	}
	b.WriteString(f.paint(colorLocation, loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if len(err.SourceLines) == 0 {
		return
	}
	padding := strings.Repeat(" ", lineNumWidth)

	b.WriteString(padding)
	b.WriteString(f.paint(colorLineNum, " |\n"))

	for _, line := range err.SourceLines {
		// " 6 | source"
		b.WriteString(f.paint(colorLineNum, fmt.Sprintf("%*d", lineNumWidth, line.Number)))
		b.WriteString(f.paint(colorLineNum, " | "))
		b.WriteString(f.paint(colorSource, line.Text))
		b.WriteString("\n")

		if !line.IsMain || err.Column <= 0 {
			continue
		}
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " | "))
		b.WriteString(strings.Repeat(" ", err.Column-1))
		caretLen := 1
		if err.EndColumn > err.Column {
			caretLen = err.EndColumn - err.Column + 1
		}
		b.WriteString(f.paint(colorCaret, strings.Repeat("^", caretLen)))
		b.WriteString("\n")
	}
}

func (f *Formatter) writeAnnotation(b *strings.Builder, label string, c *color.Color, text string, lineNumWidth int, separate bool) {
	padding := strings.Repeat(" ", lineNumWidth)
	if separate {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " |\n"))
	}
	b.WriteString(padding)
	b.WriteString(f.paint(colorLineNum, " = "))
	b.WriteString(f.paint(c, label))
	b.WriteString(text)
	b.WriteString("\n")
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}

	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorBold, fmt.Sprintf("found %d errors", total)))
	b.WriteString("\n")
	return b.String()
}
