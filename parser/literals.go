package parser

import (
	"strings"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/internal/lexer"
	"github.com/saraswati-lib/saraswati/internal/tmpl"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Literal parsing methods for the Parser.
// This file contains methods that parse literal values:
// - Numbers, strings, booleans, null
// - Template literals
// - Lists and objects
// - Function literals and their parameters

func (p *Parser) parseNumber() ast.Node {
	return &ast.Number{ValuePos: p.curToken.StartPosition, Literal: p.raw(p.curToken)}
}

func (p *Parser) parseBoolean() ast.Node {
	return &ast.Bool{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.curToken.Literal,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parseNull() ast.Node {
	return &ast.Null{NullPos: p.curToken.StartPosition}
}

func (p *Parser) parseString() ast.Node {
	return &ast.String{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.raw(p.curToken),
		Value:    p.curToken.Literal,
	}
}

func (p *Parser) parseTemplate() ast.Node {
	tok := p.curToken
	t, err := tmpl.Parse(tok.Literal)
	if err != nil {
		p.errorAt(ClassTemplate, errors.E1007, tok, "%s", err.Error())
		return nil
	}
	node := &ast.Template{
		Lquote: tok.StartPosition,
		Rquote: p.l.PositionAt(tok.EndPosition.Char - 1),
	}
	var text strings.Builder
	for _, frag := range t.Fragments() {
		if !frag.IsVariable() {
			text.WriteString(frag.Value())
			continue
		}
		node.Quasis = append(node.Quasis, text.String())
		text.Reset()
		expr := p.parseInterpolation(tok, frag)
		if expr == nil {
			return nil
		}
		node.Exprs = append(node.Exprs, expr)
	}
	node.Quasis = append(node.Quasis, text.String())
	return node
}

// parseInterpolation parses the expression of a "${...}" fragment with a
// nested parser whose lexer starts at the fragment's absolute position, so
// the resulting nodes carry positions in the enclosing source.
func (p *Parser) parseInterpolation(tok token.Token, frag *tmpl.Fragment) ast.Expr {
	if strings.TrimSpace(frag.Value()) == "" {
		p.errorAt(ClassTemplate, errors.E1004, tok, "empty expression in template literal")
		return nil
	}
	start := tok.StartPosition.Char + 1 + frag.Offset()
	end := start + len(frag.Value())
	l := lexer.New(p.l.Input()[:end],
		lexer.WithFile(p.l.Filename()),
		lexer.WithStart(p.l.PositionAt(start)))
	sub := New(l, WithFilename(p.filename), WithMaxDepth(max(p.maxDepth-p.depth, 1)))
	sub.ctx = p.ctx
	if !sub.hasErrors() {
		expr := sub.parseExpression(LOWEST)
		if expr != nil && !sub.peekTokenIs(token.EOF) {
			sub.errorAt(ClassTemplate, errors.E1001, sub.peekToken, "unexpected %s in template literal",
				tokenDescription(sub.peekToken))
		}
		if !sub.hasErrors() {
			return expr
		}
	}
	p.errors = append(p.errors, sub.errors...)
	return nil
}

func (p *Parser) parseList() ast.Node {
	lbrack := p.curToken.StartPosition
	items, rbrack, ok := p.parseExprList("list", token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.List{Lbrack: lbrack, Items: items, Rbrack: rbrack}
}

func (p *Parser) parseObject() ast.Node {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()

	obj := &ast.Object{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		item, ok := p.parseObjectItem()
		if !ok {
			return nil
		}
		obj.Items = append(obj.Items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("object literal", token.RBRACE) {
		return nil
	}
	obj.Rbrace = p.curToken.StartPosition
	return obj
}

func (p *Parser) parseObjectItem() (ast.ObjectItem, bool) {
	var item ast.ObjectItem
	switch {
	case p.curTokenIs(token.SPREAD):
		ellipsis := p.curToken.StartPosition
		p.nextToken()
		x := p.parseExpression(ASSIGN - 1)
		if x == nil {
			return item, false
		}
		item.Value = &ast.Spread{Ellipsis: ellipsis, X: x}
		return item, true
	case p.curTokenIs(token.LBRACKET):
		p.nextToken()
		if item.Key = p.parseExpression(LOWEST); item.Key == nil {
			return item, false
		}
		if !p.expectPeek("computed property name", token.RBRACKET) {
			return item, false
		}
		item.Computed = true
	case p.curTokenIs(token.STRING):
		item.Key = p.parseString().(ast.Expr)
	case p.curTokenIs(token.NUMBER):
		item.Key = p.parseNumber().(ast.Expr)
	case p.curTokenIs(token.IDENT) || token.IsKeyword(p.curToken.Literal):
		item.Key = p.newIdent(p.curToken)
		if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RBRACE)) {
			item.Shorthand = true
			item.Value = p.newIdent(p.curToken)
			return item, true
		}
	default:
		p.setCodeError(errors.E1001, p.curToken, "unexpected %s in object literal",
			tokenDescription(p.curToken))
		return item, false
	}

	// Method shorthand: { name(a) { ... } }
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fn := &ast.Func{Func: p.curToken.StartPosition}
		if !p.parseFuncParams(fn) || !p.expectPeek("method", token.LBRACE) {
			return item, false
		}
		if fn.Body = p.parseBlock(); fn.Body == nil {
			return item, false
		}
		item.Value = fn
		return item, true
	}

	if !p.expectPeek("object literal", token.COLON) {
		return item, false
	}
	p.nextToken()
	if item.Value = p.parseExpression(ASSIGN - 1); item.Value == nil {
		return item, false
	}
	return item, true
}

func (p *Parser) parseFunc() ast.Node {
	fn := &ast.Func{Func: p.curToken.StartPosition}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.newIdent(p.curToken)
	}
	if !p.expectPeek("function", token.LPAREN) {
		return nil
	}
	if !p.parseFuncParams(fn) {
		return nil
	}
	if !p.expectPeek("function", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn.Body = body
	return fn
}

// parseFuncParams parses "(a, b = 1, ...rest)" with curToken on "(",
// leaving curToken on ")".
func (p *Parser) parseFuncParams(fn *ast.Func) bool {
	fn.Lparen = p.curToken.StartPosition
	seen := map[string]bool{}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if p.curTokenIs(token.SPREAD) {
			if !p.expectPeek("rest parameter", token.IDENT) {
				return false
			}
			fn.RestParam = p.newIdent(p.curToken)
			break
		}
		if !p.curTokenIs(token.IDENT) {
			p.setCodeError(errors.E1006, p.curToken, "expected parameter name (got %s)",
				tokenDescription(p.curToken))
			return false
		}
		ident := p.newIdent(p.curToken)
		if seen[ident.Name] {
			p.setTokenError(p.curToken, "duplicate parameter name %q", ident.Name)
			return false
		}
		seen[ident.Name] = true
		var param ast.FuncParam = ident
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken() // move to '='
			p.nextToken() // move past '='
			def := p.parseExpression(ASSIGN - 1)
			if def == nil {
				return false
			}
			param = &ast.DefaultValue{Name: ident, Default: def}
		}
		fn.Params = append(fn.Params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("function parameters", token.RPAREN) {
		return false
	}
	fn.Rparen = p.curToken.StartPosition
	return true
}
