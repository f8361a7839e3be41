// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Used for computing End positions from a start position.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// Before reports whether p is located strictly before q in the same input.
func (p Position) Before(q Position) bool {
	return p.Char < q.Char
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position // position immediately after the last byte of the token

	// NewlineBefore is set when at least one line break separates this token
	// from the previous one. The parser uses it for automatic semicolon
	// insertion and restricted productions such as "return\nx".
	NewlineBefore bool
}

// Token types
const (
	AND              Type = "&&"
	ARROW            Type = "=>"
	ASSIGN           Type = "="
	ASTERISK         Type = "*"
	ASTERISK_EQUALS  Type = "*="
	AMPERSAND        Type = "&"
	BANG             Type = "!"
	BITOR            Type = "|"
	CARET            Type = "^"
	COLON            Type = ":"
	COMMA            Type = ","
	EOF              Type = "EOF"
	EQ               Type = "=="
	EQ_STRICT        Type = "==="
	GT               Type = ">"
	GT_EQUALS        Type = ">="
	GT_GT            Type = ">>"
	GT_GT_GT         Type = ">>>"
	IDENT            Type = "IDENT"
	ILLEGAL          Type = "ILLEGAL"
	LBRACE           Type = "{"
	LBRACKET         Type = "["
	LPAREN           Type = "("
	LT               Type = "<"
	LT_EQUALS        Type = "<="
	LT_LT            Type = "<<"
	MINUS            Type = "-"
	MINUS_EQUALS     Type = "-="
	MINUS_MINUS      Type = "--"
	MOD              Type = "%"
	MOD_EQUALS       Type = "%="
	NOT_EQ           Type = "!="
	NOT_EQ_STRICT    Type = "!=="
	NULLISH          Type = "??"
	NULLISH_EQUALS   Type = "??="
	NUMBER           Type = "NUMBER"
	OR               Type = "||"
	PERIOD           Type = "."
	PLUS             Type = "+"
	PLUS_EQUALS      Type = "+="
	PLUS_PLUS        Type = "++"
	POW              Type = "**"
	QUESTION         Type = "?"
	QUESTION_DOT     Type = "?."
	RBRACE           Type = "}"
	RBRACKET         Type = "]"
	RPAREN           Type = ")"
	SEMICOLON        Type = ";"
	SLASH            Type = "/"
	SLASH_EQUALS     Type = "/="
	SPREAD           Type = "..."
	STRING           Type = "STRING"
	TEMPLATE         Type = "TEMPLATE"
	TILDE            Type = "~"
	BREAK            Type = "BREAK"
	CASE             Type = "CASE"
	CATCH            Type = "CATCH"
	CONST            Type = "CONST"
	CONTINUE         Type = "CONTINUE"
	DEFAULT          Type = "DEFAULT"
	DELETE           Type = "DELETE"
	DO               Type = "DO"
	ELSE             Type = "ELSE"
	FALSE            Type = "FALSE"
	FINALLY          Type = "FINALLY"
	FOR              Type = "FOR"
	FUNCTION         Type = "FUNCTION"
	IF               Type = "IF"
	IN               Type = "IN"
	INSTANCEOF       Type = "INSTANCEOF"
	LET              Type = "LET"
	NEW              Type = "NEW"
	NULL             Type = "NULL"
	RETURN           Type = "RETURN"
	SWITCH           Type = "SWITCH"
	THROW            Type = "THROW"
	TRUE             Type = "TRUE"
	TRY              Type = "TRY"
	TYPEOF           Type = "TYPEOF"
	VAR              Type = "VAR"
	VOID             Type = "VOID"
	WHILE            Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"const":      CONST,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"return":     RETURN,
	"switch":     SWITCH,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the given word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
