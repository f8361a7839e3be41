// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/lexer"
	"github.com/saraswati-lib/saraswati/internal/token"
)

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// Parse the provided input as source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	// Extract filename from options before creating the lexer, so that
	// token positions carry it from the first token on.
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input)
	if probe.filename != "" {
		l.SetFilename(probe.filename)
	}
	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// tokens is the whole token stream, ending with EOF. The stream is read
	// up front so that arrow functions and for-of heads can be recognized
	// with unbounded lookahead.
	tokens []token.Token

	// index of curToken in tokens
	pos int

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token.
	curToken token.Token

	// peekToken holds the next token.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*Error

	// stmtErrorCount tracks error count at start of current statement.
	// Used by inner methods to detect if an error was added during this statement.
	stmtErrorCount int

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// noIn disables the "in" operator while parsing a for-loop initializer.
	noIn bool

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename == "" {
		p.filename = l.Filename()
	}

	p.readTokens()
	p.pos = -1
	p.nextToken()

	// Register prefix-functions
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.DELETE, p.parsePrefixExpr)
	p.registerPrefix(token.EOF, p.illegalToken)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.FUNCTION, p.parseFunc)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	p.registerPrefix(token.LBRACE, p.parseObject)
	p.registerPrefix(token.LBRACKET, p.parseList)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.MINUS_MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.PLUS, p.parsePrefixExpr)
	p.registerPrefix(token.PLUS_PLUS, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TEMPLATE, p.parseTemplate)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.TYPEOF, p.parsePrefixExpr)
	p.registerPrefix(token.VOID, p.parsePrefixExpr)

	// Register infix functions
	for _, t := range []token.Type{
		token.AMPERSAND, token.AND, token.ASTERISK, token.BITOR, token.CARET,
		token.EQ, token.EQ_STRICT, token.GT, token.GT_EQUALS, token.GT_GT,
		token.GT_GT_GT, token.IN, token.INSTANCEOF, token.LT, token.LT_EQUALS,
		token.LT_LT, token.MINUS, token.MOD, token.NOT_EQ, token.NOT_EQ_STRICT,
		token.NULLISH, token.OR, token.PLUS, token.POW, token.SLASH,
	} {
		p.registerInfix(t, p.parseInfixExpr)
	}
	for _, t := range []token.Type{
		token.ASSIGN, token.ASTERISK_EQUALS, token.MINUS_EQUALS, token.MOD_EQUALS,
		token.NULLISH_EQUALS, token.PLUS_EQUALS, token.SLASH_EQUALS,
	} {
		p.registerInfix(t, p.parseAssign)
	}
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)
	p.registerInfix(token.PERIOD, p.parseGetAttr)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.QUESTION_DOT, p.parseOptionalChain)

	return p
}

// readTokens drains the lexer. A lexer error is recorded as a syntax error
// and ends the stream with an EOF at the failure position.
func (p *Parser) readTokens() {
	for {
		tok, err := p.l.Next()
		if err != nil {
			at := p.l.Position()
			end := at
			if at.Char < len(p.l.Input()) {
				end = at.Advance(1)
			}
			p.addError(&Error{
				Class: ClassLexical,
				Code:  lexErrorCode(err),
				Err:   err,
				File:  p.filename,
				Start: at,
				End:   end,
				Line:  p.l.GetLineText(token.Token{StartPosition: at}),
			})
			p.tokens = append(p.tokens, token.Token{Type: token.EOF, StartPosition: at, EndPosition: at})
			return
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			return
		}
	}
}

// nextToken moves to the next token, updating all of prevToken, curToken,
// and peekToken. Moving past EOF keeps returning EOF.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

// tokenAt returns the token at index i of the stream, or the final EOF.
func (p *Parser) tokenAt(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// Parse the program that is provided via the lexer.
// Returns the AST and any errors encountered. If there are errors, the AST
// may be partial (containing only successfully parsed statements).
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	// The token stream is read in the constructor, so lexer errors are
	// already known here.
	if p.hasErrors() {
		return nil, NewErrors(p.errors)
	}
	var statements []ast.Node
	for !p.curTokenIs(token.EOF) {
		// Check for context timeout
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		// Stop if we've collected too many errors
		if p.tooManyErrors() {
			break
		}
		// Track error count for this statement so inner methods can detect new errors
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			// Statement failed - synchronize and continue
			p.synchronize()
		}
		p.nextToken()
	}
	if p.hasErrors() {
		return &ast.Program{Stmts: statements}, NewErrors(p.errors)
	}
	return &ast.Program{Stmts: statements}, nil
}

// registerPrefix registers a function for handling a prefix-based statement.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based statement.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err *Error) {
	p.errors = append(p.errors, err)
}

// errorAt records an error of class c spanning tok.
func (p *Parser) errorAt(c Class, code errors.ErrorCode, tok token.Token, msg string, args ...any) {
	p.addError(&Error{
		Class: c,
		Code:  code,
		Msg:   fmt.Sprintf(msg, args...),
		File:  p.filename,
		Start: tok.StartPosition,
		End:   tok.EndPosition,
		Line:  p.l.GetLineText(tok),
	})
}

// hasErrors returns true if any errors have been recorded.
func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached.
// This is used for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) {
			return
		}
		if p.peekToken.NewlineBefore || p.peekTokenIs(token.EOF) {
			return
		}
		switch p.peekToken.Type {
		case token.LET, token.CONST, token.VAR, token.RETURN, token.IF,
			token.FUNCTION, token.SWITCH, token.TRY, token.THROW,
			token.FOR, token.WHILE, token.DO:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.errorAt(ClassToken, errors.E1001, t, "invalid syntax (unexpected %s)", tokenDescription(t))
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	code := errors.E1001
	if got.Type == token.EOF {
		code = errors.E1007
	} else if expected == token.IDENT {
		code = errors.E1006
	}
	p.errorAt(ClassToken, code, got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.addError(&Error{Class: ClassCanceled, Err: p.ctx.Err(), File: p.filename})
		return true
	default:
		return false
	}
}

// enter increments the nesting depth, reporting an error at the limit.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorAt(ClassDepth, errors.E1009, p.curToken, "maximum nesting depth exceeded")
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) parseNode(precedence int) ast.Node {
	if p.hadNewError() {
		return nil
	}
	defer p.leave()
	if !p.enter() {
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.hadNewError() || leftExp == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if p.hadNewError() || leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	node := p.parseNode(precedence)
	if node == nil {
		return nil
	}
	if expr, ok := node.(ast.Expr); ok {
		return expr
	}
	p.setTokenError(p.curToken, "expected expression")
	return nil
}

func (p *Parser) illegalToken() ast.Node {
	if p.curTokenIs(token.EOF) {
		p.setCodeError(errors.E1004, p.curToken, "unexpected end of file")
		return nil
	}
	p.setTokenError(p.curToken, "illegal token %s", p.curToken.Literal)
	return nil
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...interface{}) ast.Node {
	return p.setCodeError(errors.E1003, t, msg, args...)
}

func (p *Parser) setCodeError(code errors.ErrorCode, t token.Token, msg string, args ...interface{}) ast.Node {
	p.errorAt(ClassToken, code, t, msg, args...)
	return nil
}

// newIdent creates a new Ident node from a token.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal, NameEnd: tok.EndPosition}
}

// raw returns the source text of a token.
func (p *Parser) raw(tok token.Token) string {
	return p.l.Input()[tok.StartPosition.Char:tok.EndPosition.Char]
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek validates if the next token is of the given type, and advances if
// it is. If it's a different type, then an error is stored.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// peekPrecedence returns the precedence of the next token.
func (p *Parser) peekPrecedence() int {
	switch p.peekToken.Type {
	case token.PLUS_PLUS, token.MINUS_MINUS:
		// A line break before ++ or -- ends the expression.
		if p.peekToken.NewlineBefore {
			return LOWEST
		}
	case token.IN:
		if p.noIn {
			return LOWEST
		}
	}
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// currentPrecedence returns the precedence of the current token.
func (p *Parser) currentPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func lexErrorCode(err error) errors.ErrorCode {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unterminated"):
		return errors.E1002
	case strings.HasPrefix(msg, "invalid decimal"):
		return errors.E1008
	case strings.HasPrefix(msg, "invalid escape"):
		return errors.E1010
	}
	return errors.E1001
}
