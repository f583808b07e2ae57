package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression implements Pratt parsing: a prefix parser produces the
// left operand, then infix parsers fold in operators of higher precedence
// than the caller's minimum, left to right.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.curIs(lexer.PONTO_VIRGULA) && precedence < p.curPrecedenceAsInfix() {
		switch p.cur.Type {
		case lexer.PONTO:
			left = p.parseMemberOrCall(left)
		case lexer.COLCHETE_ESQ:
			left = p.parseIndex(left)
		case lexer.PAREN_ESQ:
			left = p.parseFunctionCall(left)
		case lexer.MAIS, lexer.MENOS, lexer.MULTIPLICACAO, lexer.DIVISAO, lexer.MODULO:
			left = p.parseArithmetic(left)
		case lexer.IGUAL, lexer.DIFERENTE, lexer.MENOR, lexer.MENOR_IGUAL, lexer.MAIOR, lexer.MAIOR_IGUAL:
			left = p.parseComparison(left)
		case lexer.E_LOGICO, lexer.OU_LOGICO:
			left = p.parseLogical(left)
		default:
			return left
		}
	}
	return left
}

// curPrecedenceAsInfix treats the current token (not yet consumed) as the
// would-be infix operator for the loop condition above.
func (p *Parser) curPrecedenceAsInfix() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.VERDADEIRO, lexer.FALSO:
		return p.parseBooleanLiteral()
	case lexer.NULO:
		tok := p.cur
		p.next()
		return &ast.NullLiteral{Token: tok}
	case lexer.ESTE:
		tok := p.cur
		p.next()
		return &ast.This{Token: tok}
	case lexer.IDENT:
		return p.parseIdentifier()
	case lexer.NOVO:
		return p.parseNewObject()
	case lexer.PAREN_ESQ:
		p.next()
		expr := p.parseExpression(LOWEST)
		if p.curIs(lexer.PAREN_DIR) {
			p.next()
		}
		return expr
	case lexer.COLCHETE_ESQ:
		return p.parseListLiteral()
	case lexer.NAO:
		tok := p.cur
		p.next()
		operand := p.parseExpression(PREFIX)
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, Token: tok}
	case lexer.MENOS:
		tok := p.cur
		p.next()
		operand := p.parseExpression(PREFIX)
		return &ast.UnaryExpr{Op: ast.OpNegate, Operand: operand, Token: tok}
	default:
		p.errorf("unexpected token %q in expression at line %d", p.cur.Literal, p.cur.Pos.Line)
		p.next()
		return nil
	}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", tok.Literal)
	}
	p.next()
	return &ast.IntegerLiteral{Value: v, Token: tok}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf("invalid float literal %q", tok.Literal)
	}
	p.next()
	return &ast.FloatLiteral{Value: v, Token: tok}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	p.next()
	if !strings.Contains(tok.Literal, "{") {
		return &ast.TextLiteral{Value: tok.Literal, Token: tok}
	}
	return p.parseInterpolatedString(tok)
}

// parseInterpolatedString splits `"texto {expr} mais texto"` into ordered
// text-part / expression-part fragments, re-lexing and re-parsing each
// `{...}` span as an expression (the interpolated-string literal variant).
func (p *Parser) parseInterpolatedString(tok lexer.Token) ast.Expression {
	raw := tok.Literal
	result := &ast.InterpolatedString{Token: tok}
	var textBuf strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			if textBuf.Len() > 0 {
				result.Parts = append(result.Parts, ast.InterpolatedPart{Text: textBuf.String()})
				textBuf.Reset()
			}
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				break
			}
			exprSrc := raw[i+1 : i+end]
			sub := New(lexer.New(exprSrc))
			expr := sub.parseExpression(LOWEST)
			result.Parts = append(result.Parts, ast.InterpolatedPart{Expr: expr})
			i += end + 1
			continue
		}
		textBuf.WriteByte(raw[i])
		i++
	}
	if textBuf.Len() > 0 {
		result.Parts = append(result.Parts, ast.InterpolatedPart{Text: textBuf.String()})
	}
	return result
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur
	p.next()
	return &ast.BooleanLiteral{Value: tok.Type == lexer.VERDADEIRO, Token: tok}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.cur
	p.next()
	return &ast.Identifier{Value: tok.Literal, Token: tok}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume '['
	lit := &ast.ListLiteral{Token: tok}
	for !p.curIs(lexer.COLCHETE_DIR) && !p.curIs(lexer.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.curIs(lexer.VIRGULA) {
			p.next()
		}
	}
	if p.curIs(lexer.COLCHETE_DIR) {
		p.next()
	}
	return lit
}

func (p *Parser) parseNewObject() ast.Expression {
	tok := p.cur
	p.next() // consume 'novo'
	name := p.cur.Literal
	p.next()
	for p.curIs(lexer.PONTO) {
		p.next()
		name += "." + p.cur.Literal
		p.next()
	}
	args := p.parseArgumentList()
	return &ast.NewObjectExpr{ClassName: name, Args: args, Token: tok}
}

func (p *Parser) parseArgumentList() []ast.Expression {
	var args []ast.Expression
	if !p.curIs(lexer.PAREN_ESQ) {
		return args
	}
	p.next()
	for !p.curIs(lexer.PAREN_DIR) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(lexer.VIRGULA) {
			p.next()
		}
	}
	if p.curIs(lexer.PAREN_DIR) {
		p.next()
	}
	return args
}

// parseMemberOrCall folds `left.Name` into either a MemberAccessExpr or,
// when immediately followed by '(', a MethodCallExpr.
func (p *Parser) parseMemberOrCall(left ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume '.'
	name := p.cur.Literal
	p.next()
	if p.curIs(lexer.PAREN_ESQ) {
		args := p.parseArgumentList()
		return &ast.MethodCallExpr{Receiver: left, Name: name, Args: args, Token: tok}
	}
	return &ast.MemberAccessExpr{Receiver: left, Member: name, Token: tok}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume '['
	idx := p.parseExpression(LOWEST)
	if p.curIs(lexer.COLCHETE_DIR) {
		p.next()
	}
	return &ast.IndexAccessExpr{Receiver: left, Index: idx, Token: tok}
}

// parseFunctionCall handles a bare call `name(args)`, which always becomes
// a FunctionCallExpr: a call to a free function. A bare method name inside
// a class is not treated as an implicit-this method call by any later phase.
func (p *Parser) parseFunctionCall(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf("cannot call non-identifier expression at line %d", p.cur.Pos.Line)
		p.next()
		return left
	}
	tok := p.cur
	args := p.parseArgumentList()
	return &ast.FunctionCallExpr{Name: ident.Value, Args: args, Token: tok}
}

func (p *Parser) parseArithmetic(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := precedences[tok.Type]
	var op ast.ArithOp
	switch tok.Type {
	case lexer.MAIS:
		op = ast.OpAdd
	case lexer.MENOS:
		op = ast.OpSub
	case lexer.MULTIPLICACAO:
		op = ast.OpMul
	case lexer.DIVISAO:
		op = ast.OpDiv
	case lexer.MODULO:
		op = ast.OpMod
	}
	p.next()
	right := p.parseExpression(prec)
	return &ast.ArithmeticExpr{Left: left, Right: right, Op: op, Token: tok}
}

func (p *Parser) parseComparison(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := precedences[tok.Type]
	var op ast.CompareOp
	switch tok.Type {
	case lexer.IGUAL:
		op = ast.OpEq
	case lexer.DIFERENTE:
		op = ast.OpNe
	case lexer.MENOR:
		op = ast.OpLt
	case lexer.MENOR_IGUAL:
		op = ast.OpLe
	case lexer.MAIOR:
		op = ast.OpGt
	case lexer.MAIOR_IGUAL:
		op = ast.OpGe
	}
	p.next()
	right := p.parseExpression(prec)
	return &ast.ComparisonExpr{Left: left, Right: right, Op: op, Token: tok}
}

func (p *Parser) parseLogical(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := precedences[tok.Type]
	op := ast.OpAnd
	if tok.Type == lexer.OU_LOGICO {
		op = ast.OpOr
	}
	p.next()
	right := p.parseExpression(prec)
	return &ast.LogicalExpr{Left: left, Right: right, Op: op, Token: tok}
}
