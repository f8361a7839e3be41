package parser

import (
	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Expression parsing methods for the Parser.
// This file contains methods that parse expression constructs:
// - Identifiers and prefix/infix expressions
// - Grouped expressions and arrow functions
// - Assignment, ternary and postfix expressions
// - Calls, "new", attribute access and indexing

func (p *Parser) parseIdent() ast.Node {
	if p.curToken.Literal == "" {
		p.setTokenError(p.curToken, "invalid identifier")
		return nil
	}
	ident := p.newIdent(p.curToken)

	// Check for single-param arrow function: x => expr
	if p.peekTokenIs(token.ARROW) && !p.peekToken.NewlineBefore {
		fn := &ast.Func{Func: ident.NamePos, IsArrow: true, Params: []ast.FuncParam{ident}}
		p.nextToken() // move to '=>'
		return p.parseArrowBody(fn)
	}
	return ident
}

func (p *Parser) parsePrefixExpr() ast.Node {
	opTok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		if !p.hadNewError() {
			p.setCodeError(errors.E1004, p.curToken, "invalid prefix expression")
		}
		return nil
	}
	if opTok.Type == token.PLUS_PLUS || opTok.Type == token.MINUS_MINUS {
		if !isAssignable(right) {
			p.setCodeError(errors.E1005, opTok, "invalid operand for prefix %s", opTok.Literal)
			return nil
		}
	}
	return &ast.Prefix{OpPos: opTok.StartPosition, Op: opTok.Literal, X: right}
}

func (p *Parser) parseInfixExpr(leftNode ast.Node) ast.Node {
	left, ok := leftNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid expression")
		return nil
	}
	opPos := p.curToken.StartPosition
	op := p.curToken.Literal
	precedence := p.currentPrecedence()
	// ** is right-associative: 2**3**2 = 2**(3**2)
	if rightAssociative[p.curToken.Type] {
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		if !p.hadNewError() {
			p.setCodeError(errors.E1004, p.curToken, "invalid expression")
		}
		return nil
	}
	return &ast.Infix{X: left, OpPos: opPos, Op: op, Y: right}
}

func (p *Parser) parseAssign(leftNode ast.Node) ast.Node {
	target, ok := leftNode.(ast.Expr)
	if !ok || !isAssignable(target) {
		p.setCodeError(errors.E1005, p.curToken, "invalid assignment target")
		return nil
	}
	opTok := p.curToken
	p.nextToken() // move to the RHS value
	// Assignment is right-associative: a = b = c
	right := p.parseExpression(ASSIGN - 1)
	if right == nil {
		if !p.hadNewError() {
			p.setCodeError(errors.E1004, opTok, "assignment is missing a value")
		}
		return nil
	}
	return &ast.Assign{X: target, OpPos: opTok.StartPosition, Op: opTok.Literal, Value: right}
}

func (p *Parser) parsePostfix(leftNode ast.Node) ast.Node {
	expr, ok := leftNode.(ast.Expr)
	if !ok || !isAssignable(expr) {
		p.setCodeError(errors.E1005, p.curToken, "cannot apply postfix operator to this expression")
		return nil
	}
	return &ast.Postfix{X: expr, OpPos: p.curToken.StartPosition, Op: p.curToken.Literal}
}

func (p *Parser) parseTernary(condNode ast.Node) ast.Node {
	cond, ok := condNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid ternary condition")
		return nil
	}
	question := p.curToken.StartPosition
	p.nextToken() // move past '?'
	noIn := p.noIn
	p.noIn = false
	ifTrue := p.parseExpression(LOWEST)
	p.noIn = noIn
	if ifTrue == nil {
		return nil
	}
	if !p.expectPeek("ternary expression", token.COLON) {
		return nil
	}
	colon := p.curToken.StartPosition
	p.nextToken() // move past ':'
	ifFalse := p.parseExpression(TERNARY - 1)
	if ifFalse == nil {
		return nil
	}
	return &ast.Ternary{
		Cond:     cond,
		Question: question,
		IfTrue:   ifTrue,
		Colon:    colon,
		IfFalse:  ifFalse,
	}
}

func (p *Parser) parseGroupedExpr() ast.Node {
	if p.isArrowParams() {
		return p.parseArrowFunc()
	}
	p.nextToken() // move past '('
	noIn := p.noIn
	p.noIn = false
	expr := p.parseExpression(LOWEST)
	p.noIn = noIn
	if expr == nil {
		return nil
	}
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return expr
}

// isArrowParams reports whether the parenthesized list starting at
// curToken is followed by "=>".
func (p *Parser) isArrowParams() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				next := p.tokenAt(i + 1)
				return p.tokens[i].Type == token.RPAREN &&
					next.Type == token.ARROW && !next.NewlineBefore
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrowFunc() ast.Node {
	fn := &ast.Func{Func: p.curToken.StartPosition, IsArrow: true}
	if !p.parseFuncParams(fn) {
		return nil
	}
	if !p.expectPeek("arrow function", token.ARROW) {
		return nil
	}
	return p.parseArrowBody(fn)
}

// parseArrowBody parses what follows "=>", with curToken on the arrow.
func (p *Parser) parseArrowBody(fn *ast.Func) ast.Node {
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		fn.Body = body
		return fn
	}
	p.nextToken()
	noIn := p.noIn
	p.noIn = false
	fn.ExprBody = p.parseExpression(ASSIGN - 1)
	p.noIn = noIn
	if fn.ExprBody == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseCall(fnNode ast.Node) ast.Node {
	fn, ok := fnNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid function call")
		return nil
	}
	call := &ast.Call{Fun: fn, Lparen: p.curToken.StartPosition}
	args, rparen, ok := p.parseExprList("call arguments", token.RPAREN)
	if !ok {
		return nil
	}
	call.Args = args
	call.Rparen = rparen
	return call
}

// parseExprList parses a comma separated list of expressions (spreads
// allowed, trailing comma allowed) with curToken on the opening delimiter.
// It returns the position of the closing delimiter.
func (p *Parser) parseExprList(context string, end token.Type) ([]ast.Expr, token.Position, bool) {
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()

	var items []ast.Expr
	for !p.peekTokenIs(end) {
		p.nextToken()
		item := p.parseListItem()
		if item == nil {
			return nil, token.NoPos, false
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(context, end) {
		return nil, token.NoPos, false
	}
	return items, p.curToken.StartPosition, true
}

func (p *Parser) parseListItem() ast.Expr {
	if p.curTokenIs(token.SPREAD) {
		ellipsis := p.curToken.StartPosition
		p.nextToken()
		x := p.parseExpression(ASSIGN - 1)
		if x == nil {
			return nil
		}
		return &ast.Spread{Ellipsis: ellipsis, X: x}
	}
	return p.parseExpression(ASSIGN - 1)
}

func (p *Parser) parseNew() ast.Node {
	newPos := p.curToken.StartPosition
	p.nextToken() // move past "new"

	// The constructor is a member expression: calls are not part of it.
	var callee ast.Node
	if p.curTokenIs(token.NEW) {
		callee = p.parseNew()
	} else if prefix := p.prefixParseFns[p.curToken.Type]; prefix != nil {
		callee = prefix()
	} else {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	for callee != nil && (p.peekTokenIs(token.PERIOD) || p.peekTokenIs(token.LBRACKET)) {
		p.nextToken()
		if p.curTokenIs(token.PERIOD) {
			callee = p.parseGetAttr(callee)
		} else {
			callee = p.parseIndex(callee)
		}
	}
	if callee == nil {
		return nil
	}
	fun, ok := callee.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid constructor expression")
		return nil
	}
	node := &ast.New{New: newPos, Fun: fun}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		node.HasArgs = true
		node.Lparen = p.curToken.StartPosition
		args, rparen, ok := p.parseExprList("constructor arguments", token.RPAREN)
		if !ok {
			return nil
		}
		node.Args = args
		node.Rparen = rparen
	}
	return node
}

// parsePropertyName reads the identifier following "." or "?.". Keywords
// are valid property names.
func (p *Parser) parsePropertyName(context string) *ast.Ident {
	if p.peekTokenIs(token.IDENT) || token.IsKeyword(p.peekToken.Literal) {
		p.nextToken()
		return p.newIdent(p.curToken)
	}
	p.peekError(context, token.IDENT, p.peekToken)
	return nil
}

func (p *Parser) parseGetAttr(objNode ast.Node) ast.Node {
	obj, ok := objNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid attribute access")
		return nil
	}
	period := p.curToken.StartPosition
	attr := p.parsePropertyName("attribute access")
	if attr == nil {
		return nil
	}
	return &ast.GetAttr{X: obj, Period: period, Attr: attr}
}

func (p *Parser) parseOptionalChain(objNode ast.Node) ast.Node {
	obj, ok := objNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid optional chain")
		return nil
	}
	period := p.curToken.StartPosition
	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		node := p.parseCall(obj)
		if call, ok := node.(*ast.Call); ok {
			call.Optional = true
		}
		return node
	case p.peekTokenIs(token.LBRACKET):
		p.nextToken()
		node := p.parseIndex(obj)
		if idx, ok := node.(*ast.Index); ok {
			idx.Optional = true
		}
		return node
	}
	attr := p.parsePropertyName("optional chain")
	if attr == nil {
		return nil
	}
	return &ast.GetAttr{X: obj, Period: period, Optional: true, Attr: attr}
}

func (p *Parser) parseIndex(objNode ast.Node) ast.Node {
	obj, ok := objNode.(ast.Expr)
	if !ok {
		p.setTokenError(p.curToken, "invalid index expression")
		return nil
	}
	lbrack := p.curToken.StartPosition
	p.nextToken() // move past '['
	noIn := p.noIn
	p.noIn = false
	index := p.parseExpression(LOWEST)
	p.noIn = noIn
	if index == nil {
		return nil
	}
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Index{X: obj, Lbrack: lbrack, Index: index, Rbrack: p.curToken.StartPosition}
}

func isAssignable(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.Ident, *ast.GetAttr, *ast.Index:
		return true
	}
	return false
}
