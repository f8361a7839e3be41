package parser

import (
	"fmt"

	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Class says which stage of parsing rejected the input.
type Class int

const (
	// ClassLexical errors come from the lexer: bad characters, unterminated
	// strings, malformed numbers and escapes.
	ClassLexical Class = iota
	// ClassToken errors are unexpected or missing tokens inside a construct.
	ClassToken
	// ClassStatementEnd errors are statements followed by something other
	// than ";", "}", a line break or the end of input.
	ClassStatementEnd
	// ClassTemplate errors are malformed "${...}" interpolations.
	ClassTemplate
	// ClassDepth errors report input nested beyond the configured limit.
	ClassDepth
	// ClassCanceled errors report that the parse context was canceled.
	ClassCanceled
)

var classKinds = map[Class]string{
	ClassLexical:      "syntax error",
	ClassToken:        "parse error",
	ClassStatementEnd: "parse error",
	ClassTemplate:     "template error",
	ClassDepth:        "parse error",
	ClassCanceled:     "context error",
}

// String returns the label used when the error is rendered.
func (c Class) String() string {
	if kind, ok := classKinds[c]; ok {
		return kind
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Error is a single parse failure located in the source.
type Error struct {
	Class Class
	Code  errors.ErrorCode
	Msg   string
	Err   error // lexer or context error behind the failure, if any
	File  string
	Start token.Position
	End   token.Position // exclusive
	Line  string         // text of the line holding Start
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	msg = e.Class.String() + ": " + msg
	if e.Start.IsValid() || e.File != "" {
		msg += " (" + errors.LocationOf(e.File, e.Start).String() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// hint suggests a fix for the error classes that have an obvious one.
func (e *Error) hint() string {
	switch e.Class {
	case ClassStatementEnd:
		return `separate statements with ";" or a line break`
	case ClassTemplate:
		return "each ${...} in a template literal must hold exactly one expression"
	}
	return ""
}

// ToFormatted renders the error with its source line for the Formatter.
func (e *Error) ToFormatted() *errors.FormattedError {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return &errors.FormattedError{
		Code:      e.Code,
		Kind:      e.Class.String(),
		Message:   msg,
		Filename:  e.File,
		Line:      e.Start.LineNumber(),
		Column:    e.Start.ColumnNumber(),
		EndColumn: errors.EndColumn(e.Start, e.End, e.Line),
		SourceLines: []errors.SourceLineEntry{
			{Number: e.Start.LineNumber(), Text: e.Line, IsMain: true},
		},
		Hint: e.hint(),
	}
}

func (e *Error) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// describe names a token for messages, preferring its literal text.
func describe(typ token.Type, literal string) string {
	switch typ {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		if literal == "" {
			return "identifier"
		}
	case token.NUMBER:
		if literal == "" {
			return "number"
		}
	case token.STRING:
		return "string"
	case token.TEMPLATE:
		return "template literal"
	}
	if literal == "" {
		literal = string(typ)
	}
	return fmt.Sprintf("%q", literal)
}

func tokenDescription(t token.Token) string { return describe(t.Type, t.Literal) }

func tokenTypeDescription(t token.Type) string { return describe(t, "") }

// Errors is the error returned by Parse when one or more statements could
// not be parsed. Errors are kept in source order, at most MaxErrors of them.
type Errors struct {
	list []*Error
}

// NewErrors returns nil when list is empty.
func NewErrors(list []*Error) *Errors {
	if len(list) == 0 {
		return nil
	}
	return &Errors{list: list}
}

func (e *Errors) Error() string {
	switch len(e.list) {
	case 0:
		return ""
	case 1:
		return e.list[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.list[0].Error(), len(e.list)-1)
}

// Errors returns the individual errors.
func (e *Errors) Errors() []*Error { return e.list }

// Len returns the number of errors.
func (e *Errors) Len() int { return len(e.list) }

// First returns the earliest error.
func (e *Errors) First() *Error {
	if len(e.list) == 0 {
		return nil
	}
	return e.list[0]
}

// FriendlyErrorMessage renders every error with its source line.
func (e *Errors) FriendlyErrorMessage() string {
	formatted := make([]*errors.FormattedError, len(e.list))
	for i, err := range e.list {
		formatted[i] = err.ToFormatted()
	}
	return errors.NewFormatter(false).FormatMultiple(formatted)
}

func (e *Errors) Unwrap() []error {
	out := make([]error, len(e.list))
	for i, err := range e.list {
		out[i] = err
	}
	return out
}
