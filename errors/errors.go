// Package errors defines error types with source locations and renders them
// for display.
package errors

import (
	"fmt"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// SourceLocation is a resolved, 1-based position in a named file.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Source   string // text of the line, when known
}

// LocationOf resolves pos. The filename carried by pos wins over filename.
func LocationOf(filename string, pos token.Position) SourceLocation {
	if pos.File != "" {
		filename = pos.File
	}
	return SourceLocation{
		Filename: filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
}

func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero reports whether the location is unset.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// EndColumn returns the last 1-based column to underline for the half-open
// span [start, end) on a line of the given text. Spans running past the
// line are cut at its end.
func EndColumn(start, end token.Position, line string) int {
	col := start.ColumnNumber()
	switch {
	case end.Line == start.Line && end.Column > start.Column:
		return end.ColumnNumber() - 1
	case end.Line > start.Line && len(line) >= col:
		return len(line)
	}
	return col
}

// FriendlyError is an error with a longer rendering for people.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an error the Formatter can render with source
// context.
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}
