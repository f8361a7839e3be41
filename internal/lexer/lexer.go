// Package lexer converts source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	pos       int // byte offset of the next unread character
	line      int // 0-indexed line of pos
	lineStart int // byte offset where the current line begins
	file      string
	newline   bool // a line break was skipped since the last token
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFile sets the filename recorded in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) { l.file = file }
}

// WithStart begins lexing at the given position of the input rather than at
// its first byte. Used to lex a fragment embedded in a larger source, such as
// a template interpolation, while keeping absolute positions.
func WithStart(pos token.Position) Option {
	return func(l *Lexer) {
		l.pos = pos.Char
		l.line = pos.Line
		l.lineStart = pos.LineStart
	}
}

// New creates a Lexer instance from the given string
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetFilename sets the filename for the lexer.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.file,
	}
}

// PositionAt returns the position of the given byte offset of the input.
func (l *Lexer) PositionAt(offset int) token.Position {
	if offset > len(l.input) {
		offset = len(l.input)
	}
	line, lineStart := 0, 0
	for i := 0; i < offset; i++ {
		if l.input[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return token.Position{
		Char:      offset,
		LineStart: lineStart,
		Line:      line,
		Column:    offset - lineStart,
		File:      l.file,
	}
}

// Input returns the source text being lexed.
func (l *Lexer) Input() string {
	return l.input
}

// Next returns the next token in the input. At the end of input it keeps
// returning EOF tokens.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}
	start := l.Position()
	nl := l.newline
	l.newline = false

	if l.pos >= len(l.input) {
		return token.Token{
			Type:          token.EOF,
			StartPosition: start,
			EndPosition:   start,
			NewlineBefore: nl,
		}, nil
	}

	tok, err := l.scan(start)
	if err != nil {
		return token.Token{}, err
	}
	tok.StartPosition = start
	tok.EndPosition = l.Position()
	tok.NewlineBefore = nl
	return tok, nil
}

func (l *Lexer) scan(start token.Position) (token.Token, error) {
	c := l.input[l.pos]
	switch {
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.readNumber()
	case c == '"' || c == '\'':
		return l.readString(c)
	case c == '`':
		return l.readTemplate()
	}
	if tok, ok := l.readPunctuator(); ok {
		return tok, nil
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if isIdentStart(r) {
		return l.readIdentifier(), nil
	}
	l.pos += size
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return token.Token{}, fmt.Errorf("invalid identifier: %s", string(r))
	}
	return token.Token{}, fmt.Errorf("unexpected character: %q", r)
}

// punctuators ordered so that longer operators are tried first.
var punctuators = []token.Type{
	token.SPREAD,
	token.EQ_STRICT,
	token.NOT_EQ_STRICT,
	token.GT_GT_GT,
	token.NULLISH_EQUALS,
	token.ARROW,
	token.EQ,
	token.NOT_EQ,
	token.PLUS_EQUALS,
	token.MINUS_EQUALS,
	token.ASTERISK_EQUALS,
	token.SLASH_EQUALS,
	token.MOD_EQUALS,
	token.AND,
	token.OR,
	token.NULLISH,
	token.QUESTION_DOT,
	token.PLUS_PLUS,
	token.MINUS_MINUS,
	token.POW,
	token.LT_LT,
	token.GT_GT,
	token.LT_EQUALS,
	token.GT_EQUALS,
	token.ASSIGN,
	token.PLUS,
	token.MINUS,
	token.ASTERISK,
	token.SLASH,
	token.MOD,
	token.BANG,
	token.TILDE,
	token.AMPERSAND,
	token.BITOR,
	token.CARET,
	token.LT,
	token.GT,
	token.QUESTION,
	token.COLON,
	token.COMMA,
	token.SEMICOLON,
	token.PERIOD,
	token.LPAREN,
	token.RPAREN,
	token.LBRACKET,
	token.RBRACKET,
	token.LBRACE,
	token.RBRACE,
}

func (l *Lexer) readPunctuator() (token.Token, bool) {
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		op := string(p)
		if !strings.HasPrefix(rest, op) {
			continue
		}
		// "a?.5:1" is a conditional, not optional chaining.
		if p == token.QUESTION_DOT && isDigit(l.peekAt(2)) {
			continue
		}
		l.pos += len(op)
		return token.Token{Type: p, Literal: op}, true
	}
	return token.Token{}, false
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	literal := l.input[start:l.pos]
	return token.Token{Type: token.LookupIdentifier(literal), Literal: literal}
}

func (l *Lexer) readNumber() (token.Token, error) {
	start := l.pos
	invalid := func() (token.Token, error) {
		end := l.pos + 1
		if end > len(l.input) {
			end = len(l.input)
		}
		return token.Token{}, fmt.Errorf("invalid decimal literal: %s", l.input[start:end])
	}
	if l.input[l.pos] == '0' && l.pos+1 < len(l.input) {
		var digit func(byte) bool
		switch l.input[l.pos+1] {
		case 'x', 'X':
			digit = isHexDigit
		case 'b', 'B':
			digit = func(c byte) bool { return c == '0' || c == '1' }
		case 'o', 'O':
			digit = func(c byte) bool { return c >= '0' && c <= '7' }
		}
		if digit != nil {
			l.pos += 2
			n := l.consume(digit)
			if n == 0 || isIdentByte(l.peekAt(0)) || l.peekAt(0) == '.' {
				return invalid()
			}
			return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos]}, nil
		}
	}
	l.consume(isDigit)
	if l.peekAt(0) == '.' {
		l.pos++
		l.consume(isDigit)
	}
	if c := l.peekAt(0); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if c := l.peekAt(0); c == '+' || c == '-' {
			l.pos++
		}
		if l.consume(isDigit) == 0 {
			l.pos = save
			return invalid()
		}
	}
	if isIdentByte(l.peekAt(0)) {
		return invalid()
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos]}, nil
}

func (l *Lexer) readString(quote byte) (token.Token, error) {
	l.pos++ // opening quote
	var out strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, fmt.Errorf("unterminated string literal")
		}
		c := l.input[l.pos]
		switch c {
		case quote:
			l.pos++
			return token.Token{Type: token.STRING, Literal: out.String()}, nil
		case '\n':
			return token.Token{}, fmt.Errorf("unterminated string literal")
		case '\\':
			if err := l.readEscape(&out); err != nil {
				return token.Token{}, err
			}
		default:
			out.WriteByte(c)
			l.pos++
		}
	}
}

// readEscape decodes the escape sequence at l.pos into out.
func (l *Lexer) readEscape(out *strings.Builder) error {
	l.pos++ // backslash
	if l.pos >= len(l.input) {
		return fmt.Errorf("unterminated string literal")
	}
	c := l.input[l.pos]
	l.pos++
	switch c {
	case 'n':
		out.WriteByte('\n')
	case 'r':
		out.WriteByte('\r')
	case 't':
		out.WriteByte('\t')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case 'v':
		out.WriteByte('\v')
	case '0':
		out.WriteByte(0)
	case '\n':
		// line continuation
		l.line++
		l.lineStart = l.pos
	case 'x':
		return l.readHexEscape(out, 2)
	case 'u':
		if l.peekAt(0) == '{' {
			end := strings.IndexByte(l.input[l.pos:], '}')
			if end < 0 {
				return fmt.Errorf("invalid escape sequence: \\u%s", l.input[l.pos:])
			}
			digits := l.input[l.pos+1 : l.pos+end]
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || v > unicode.MaxRune {
				return fmt.Errorf("invalid escape sequence: \\u{%s}", digits)
			}
			out.WriteRune(rune(v))
			l.pos += end + 1
			return nil
		}
		return l.readHexEscape(out, 4)
	default:
		out.WriteByte(c)
	}
	return nil
}

func (l *Lexer) readHexEscape(out *strings.Builder, n int) error {
	if l.pos+n > len(l.input) {
		return fmt.Errorf("invalid escape sequence: %s", l.input[l.pos-2:])
	}
	digits := l.input[l.pos : l.pos+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid escape sequence: %s", l.input[l.pos-2:l.pos+n])
	}
	out.WriteRune(rune(v))
	l.pos += n
	return nil
}

// readTemplate reads a backtick template. The literal is the raw text between
// the backticks; interpolations are split later by the parser.
func (l *Lexer) readTemplate() (token.Token, error) {
	l.pos++ // opening backtick
	start := l.pos
	depth := 0
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\':
			l.pos++
			if l.pos < len(l.input) {
				l.advance()
			}
			continue
		case c == '`' && depth == 0:
			literal := l.input[start:l.pos]
			l.pos++
			return token.Token{Type: token.TEMPLATE, Literal: literal}, nil
		case c == '`':
			// Nested template inside an interpolation.
			if _, err := l.readTemplate(); err != nil {
				return token.Token{}, err
			}
			continue
		case c == '$' && l.peekAt(1) == '{':
			depth++
			l.pos += 2
			continue
		case c == '{' && depth > 0:
			depth++
		case c == '}' && depth > 0:
			depth--
		case (c == '"' || c == '\'') && depth > 0:
			if _, err := l.readString(c); err != nil {
				return token.Token{}, err
			}
			continue
		}
		l.advance()
	}
	return token.Token{}, fmt.Errorf("unterminated template literal")
}

// advance consumes one byte, tracking line breaks.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() error {
	if l.pos == 0 && strings.HasPrefix(l.input, "#!") {
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
	}
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			l.newline = true
			l.advance()
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekAt(1) == '*':
			l.pos += 2
			for l.pos < len(l.input) && !strings.HasPrefix(l.input[l.pos:], "*/") {
				if l.input[l.pos] == '\n' {
					l.newline = true
				}
				l.advance()
			}
			if l.pos < len(l.input) {
				l.pos += 2
			}
		default:
			return nil
		}
	}
	return nil
}

// GetLineText returns the full text of the line the token starts on. For an
// EOF token on an empty final line the previous line is returned instead.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	if tok.Type == token.EOF && start == len(l.input) && start > 0 {
		prev := strings.LastIndexByte(l.input[:start-1], '\n')
		return strings.TrimSuffix(l.input[prev+1:start-1], "\r")
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return strings.TrimSuffix(l.input[start:start+end], "\r")
}

func (l *Lexer) consume(match func(byte) bool) int {
	n := 0
	for l.pos < len(l.input) && match(l.input[l.pos]) {
		l.pos++
		n++
	}
	return n
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s is a valid identifier that is not a
// reserved word.
func IsIdentifier(s string) bool {
	if s == "" || token.IsKeyword(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
