package parser

import (
	"slices"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Statement parsing methods for the Parser.
// Every method starts with curToken on the first token of the construct
// and leaves curToken on its last token, including a consumed semicolon.

func (p *Parser) parseStatement() ast.Node {
	if p.cancelled() {
		return nil
	}
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		return p.endStatement(p.parseVar())
	case token.FUNCTION:
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunc()
		}
	case token.RETURN:
		return p.endStatement(p.parseReturn())
	case token.THROW:
		return p.endStatement(p.parseThrow())
	case token.BREAK:
		return p.endStatement(&ast.Break{Break: p.curToken.StartPosition})
	case token.CONTINUE:
		return p.endStatement(&ast.Continue{Continue: p.curToken.StartPosition})
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.SEMICOLON:
		return &ast.Empty{Semicolon: p.curToken.StartPosition}
	}
	return p.endStatement(p.parseExpressionStatement())
}

// endStatement checks that stmt is properly terminated: by a semicolon,
// a closing brace, the end of input, or a line break.
func (p *Parser) endStatement(stmt ast.Node) ast.Node {
	if stmt == nil {
		return nil
	}
	switch {
	case p.peekTokenIs(token.SEMICOLON):
		p.nextToken()
	case p.peekTokenIs(token.RBRACE), p.peekTokenIs(token.EOF), p.peekToken.NewlineBefore:
	default:
		p.errorAt(ClassStatementEnd, errors.E1001, p.peekToken, "unexpected %s following statement",
			tokenDescription(p.peekToken))
		return nil
	}
	return stmt
}

// atStatementEnd reports whether the statement may end after curToken.
func (p *Parser) atStatementEnd() bool {
	return p.peekTokenIs(token.SEMICOLON) ||
		p.peekTokenIs(token.RBRACE) ||
		p.peekTokenIs(token.EOF) ||
		p.peekToken.NewlineBefore
}

// parseStatementList parses statements until curToken is one of the
// terminators or EOF.
func (p *Parser) parseStatementList(terminators ...token.Type) ([]ast.Node, bool) {
	var stmts []ast.Node
	for !p.curTokenIs(token.EOF) && !slices.Contains(terminators, p.curToken.Type) {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil, false
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}
	return stmts, true
}

func (p *Parser) parseBlock() *ast.Block {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	open := p.curToken
	block := &ast.Block{Lbrace: open.StartPosition}
	p.nextToken() // move past '{'
	stmts, ok := p.parseStatementList(token.RBRACE)
	if !ok {
		return nil
	}
	if !p.curTokenIs(token.RBRACE) {
		p.setCodeError(errors.E1007, open, "unterminated block (expected \"}\")")
		return nil
	}
	block.Stmts = stmts
	block.Rbrace = p.curToken.StartPosition
	return block
}

// parseBody parses the single statement used as the body of an if, loop,
// or else clause.
func (p *Parser) parseBody(context string) ast.Node {
	switch p.curToken.Type {
	case token.LET, token.CONST:
		p.setTokenError(p.curToken, "lexical declaration cannot be the body of %s", context)
		return nil
	case token.EOF:
		p.setCodeError(errors.E1004, p.curToken, "unexpected end of file (expected body of %s)", context)
		return nil
	}
	return p.parseStatement()
}

func (p *Parser) parseVar() ast.Node {
	decl := p.curToken
	stmt := &ast.Var{Decl: decl.StartPosition, Kind: decl.Literal}
	context := decl.Literal + " statement"
	for {
		if p.peekTokenIs(token.LBRACE) || p.peekTokenIs(token.LBRACKET) {
			p.setTokenError(p.peekToken, "destructuring declarations are not supported")
			return nil
		}
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		d := &ast.Declarator{Name: p.newIdent(p.curToken)}
		if p.peekTokenIs(token.ASSIGN) {
			assign := p.peekToken
			p.nextToken() // move to '='
			p.nextToken() // move past '='
			d.Value = p.parseExpression(LOWEST)
			if d.Value == nil {
				if !p.hadNewError() {
					p.setCodeError(errors.E1004, assign, "assignment is missing a value")
				}
				return nil
			}
		} else if stmt.Kind == "const" {
			p.setCodeError(errors.E1004, p.curToken, "missing initializer in const declaration")
			return nil
		}
		stmt.Decls = append(stmt.Decls, d)
		if !p.peekTokenIs(token.COMMA) {
			return stmt
		}
		p.nextToken()
	}
}

func (p *Parser) parseReturn() ast.Node {
	stmt := &ast.Return{Return: p.curToken.StartPosition}
	if p.atStatementEnd() {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Node {
	throwPos := p.curToken.StartPosition
	if p.atStatementEnd() {
		p.setCodeError(errors.E1004, p.curToken, "throw statement requires a value")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Throw{Throw: throwPos, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Node {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		// Only add error if none was added during parsing
		if !p.hadNewError() {
			p.setTokenError(p.curToken, "invalid syntax")
		}
		return nil
	}
	return expr
}

// parseCondition parses "(cond)" following a keyword, leaving curToken on ")".
func (p *Parser) parseCondition(context string) ast.Expr {
	if !p.expectPeek(context, token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseIf() ast.Node {
	stmt := &ast.If{If: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("if statement"); stmt.Cond == nil {
		return nil
	}
	p.nextToken()
	if stmt.Consequence = p.parseBody("an if statement"); stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken() // move to "else"
		p.nextToken() // move past "else"
		if stmt.Alternative = p.parseBody("an else clause"); stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Node {
	stmt := &ast.While{While: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("while statement"); stmt.Cond == nil {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseBody("a while loop"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDoWhile() ast.Node {
	stmt := &ast.DoWhile{Do: p.curToken.StartPosition}
	p.nextToken()
	if stmt.Body = p.parseBody("a do-while loop"); stmt.Body == nil {
		return nil
	}
	if !p.expectPeek("do-while statement", token.WHILE) {
		return nil
	}
	if stmt.Cond = p.parseCondition("do-while statement"); stmt.Cond == nil {
		return nil
	}
	stmt.Rparen = p.curToken.StartPosition
	// The semicolon after a do-while loop is always optional.
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// isForOfHead reports whether the tokens at curToken start a
// "[kind] name of|in" loop head.
func (p *Parser) isForOfHead() bool {
	i := p.pos
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		i++
	}
	name, op := p.tokenAt(i), p.tokenAt(i+1)
	if name.Type != token.IDENT {
		return false
	}
	return op.Type == token.IN || (op.Type == token.IDENT && op.Literal == "of")
}

func (p *Parser) parseFor() ast.Node {
	forPos := p.curToken.StartPosition
	if !p.expectPeek("for statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	if p.isForOfHead() {
		return p.parseForOf(forPos)
	}

	stmt := &ast.For{For: forPos}
	if !p.curTokenIs(token.SEMICOLON) {
		noIn := p.noIn
		p.noIn = true
		switch p.curToken.Type {
		case token.LET, token.CONST, token.VAR:
			stmt.Init = p.parseVar()
		default:
			if init := p.parseExpression(LOWEST); init != nil {
				stmt.Init = init
			}
		}
		p.noIn = noIn
		if stmt.Init == nil {
			return nil
		}
		if !p.expectPeek("for statement", token.SEMICOLON) {
			return nil
		}
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		if stmt.Cond = p.parseExpression(LOWEST); stmt.Cond == nil {
			return nil
		}
	}
	if !p.expectPeek("for statement", token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if stmt.Post = p.parseExpression(LOWEST); stmt.Post == nil {
			return nil
		}
	}
	if !p.expectPeek("for statement", token.RPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseBody("a for loop"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseForOf(forPos token.Position) ast.Node {
	stmt := &ast.ForOf{For: forPos}
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		stmt.Kind = p.curToken.Literal
		p.nextToken()
	}
	stmt.Name = p.newIdent(p.curToken)
	p.nextToken() // move to "of" or "in"
	stmt.In = p.curTokenIs(token.IN)
	p.nextToken()
	if stmt.Iter = p.parseExpression(LOWEST); stmt.Iter == nil {
		return nil
	}
	if !p.expectPeek("for statement", token.RPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseBody("a for loop"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseTry() ast.Node {
	stmt := &ast.Try{Try: p.curToken.StartPosition}
	if !p.expectPeek("try statement", token.LBRACE) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.CATCH) {
		p.nextToken() // move to "catch"
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek("catch clause", token.IDENT) {
				return nil
			}
			stmt.CatchIdent = p.newIdent(p.curToken)
			if !p.expectPeek("catch clause", token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek("catch block", token.LBRACE) {
			return nil
		}
		if stmt.CatchBlock = p.parseBlock(); stmt.CatchBlock == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken() // move to "finally"
		if !p.expectPeek("finally block", token.LBRACE) {
			return nil
		}
		if stmt.FinallyBlock = p.parseBlock(); stmt.FinallyBlock == nil {
			return nil
		}
	}
	if stmt.CatchBlock == nil && stmt.FinallyBlock == nil {
		p.setTokenError(p.curToken, "try statement requires at least one of catch or finally")
		return nil
	}
	return stmt
}

func (p *Parser) parseSwitch() ast.Node {
	stmt := &ast.Switch{Switch: p.curToken.StartPosition}
	if stmt.Value = p.parseCondition("switch statement"); stmt.Value == nil {
		return nil
	}
	if !p.expectPeek("switch statement", token.LBRACE) {
		return nil
	}
	open := p.curToken
	stmt.Lbrace = open.StartPosition
	p.nextToken()

	hasDefault := false
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		clause := &ast.Case{Case: p.curToken.StartPosition}
		switch p.curToken.Type {
		case token.CASE:
			p.nextToken()
			if clause.Expr = p.parseExpression(LOWEST); clause.Expr == nil {
				return nil
			}
		case token.DEFAULT:
			if hasDefault {
				p.setTokenError(p.curToken, "multiple default clauses in switch statement")
				return nil
			}
			hasDefault = true
			clause.Default = true
		default:
			p.setCodeError(errors.E1001, p.curToken,
				"unexpected %s in switch body (expected case or default)", tokenDescription(p.curToken))
			return nil
		}
		if !p.expectPeek("case clause", token.COLON) {
			return nil
		}
		clause.Colon = p.curToken.StartPosition
		p.nextToken()
		body, ok := p.parseStatementList(token.CASE, token.DEFAULT, token.RBRACE)
		if !ok {
			return nil
		}
		clause.Body = body
		stmt.Cases = append(stmt.Cases, clause)
	}
	if !p.curTokenIs(token.RBRACE) {
		p.setCodeError(errors.E1007, open, "unterminated switch body (expected \"}\")")
		return nil
	}
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}
