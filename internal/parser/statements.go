package parser

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

func (p *Parser) parseBlock() *ast.BlockStatement {
	tok := p.cur
	block := &ast.BlockStatement{Token: tok}
	if !p.curIs(lexer.CHAVE_ESQ) {
		p.errorf("expected '{' to start block, got %q", p.cur.Literal)
		return block
	}
	p.next()
	for !p.curIs(lexer.CHAVE_DIR) && !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.next()
		}
	}
	if p.curIs(lexer.CHAVE_DIR) {
		p.next()
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.VAR:
		return p.parseVarDecl()
	case lexer.IMPRIMA:
		return p.parsePrint()
	case lexer.RETORNE:
		return p.parseReturn()
	case lexer.SE:
		return p.parseIf()
	case lexer.ENQUANTO:
		return p.parseWhile()
	case lexer.PARA:
		return p.parseFor()
	case lexer.CHAVE_ESQ:
		return p.parseBlock()
	case lexer.IDENT:
		return p.parseIdentifierLedStatement()
	case lexer.ESTE:
		return p.parseIdentifierLedStatement()
	case lexer.TIPO_INTEIRO, lexer.TIPO_TEXTO, lexer.TIPO_BOOLEANO, lexer.TIPO_VAZIO,
		lexer.TIPO_DECIMAL, lexer.TIPO_FLOAT, lexer.TIPO_DOUBLE, lexer.TIPO_LISTA:
		return p.parseTypedVarDecl()
	case lexer.NOVO:
		return p.parseCreateObjectStatement()
	case lexer.PONTO_VIRGULA:
		p.next()
		return nil
	default:
		expr := p.parseExpression(LOWEST)
		stmt := &ast.ExpressionStatement{Expr: expr, Token: p.cur}
		if p.curIs(lexer.PONTO_VIRGULA) {
			p.next()
		}
		return stmt
	}
}

// parseVarDecl parses the inferred form `var nome [= expr];`, starting on
// VAR. Typed declarations (`Tipo nome = expr;` / `Tipo nome;`) are not
// handled here: they go to parseTypedVarDecl, reached from parseStatement
// for a type keyword and from parseIdentifierLedStatement for `IDENT IDENT`.
func (p *Parser) parseVarDecl() *ast.VarDeclStatement {
	tok := p.cur
	p.next() // consume 'var'
	name := p.cur.Literal
	p.next()

	stmt := &ast.VarDeclStatement{Token: tok, Name: name, Type: &ast.TypeAnnotation{Inferred: true}}
	if p.curIs(lexer.ATRIBUICAO) {
		p.next()
		stmt.Initializer = p.parseExpression(LOWEST)
	}
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return stmt
}

// parseIdentifierLedStatement disambiguates between:
//   - `Tipo nome = expr;`        (typed var decl: IDENT IDENT)
//   - `nome = expr;`             (assignment)
//   - `recv.membro = expr;`      (property assignment)
//   - `recv[idx] = expr;`        (index assignment)
//   - `recv.metodo(args);`       (method-call statement)
//   - any other expression statement
func (p *Parser) parseIdentifierLedStatement() ast.Statement {
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.IDENT) {
		return p.parseTypedVarDecl()
	}

	tok := p.cur
	expr := p.parseExpression(LOWEST)

	switch p.cur.Type {
	case lexer.ATRIBUICAO:
		p.next()
		value := p.parseExpression(LOWEST)
		if p.curIs(lexer.PONTO_VIRGULA) {
			p.next()
		}
		switch target := expr.(type) {
		case *ast.Identifier:
			return &ast.AssignmentStatement{Name: target.Value, Value: value, Token: tok}
		case *ast.MemberAccessExpr:
			return &ast.PropertyAssignmentStatement{Receiver: target.Receiver, Name: target.Member, Value: value, Token: tok}
		case *ast.IndexAccessExpr:
			return &ast.IndexAssignmentStatement{Receiver: target.Receiver, Index: target.Index, Value: value, Token: tok}
		default:
			p.errorf("invalid assignment target at line %d", tok.Pos.Line)
			return &ast.ExpressionStatement{Expr: expr, Token: tok}
		}
	default:
		if p.curIs(lexer.PONTO_VIRGULA) {
			p.next()
		}
		if call, ok := expr.(*ast.MethodCallExpr); ok {
			return &ast.CallMethodStatement{Call: call, Token: tok}
		}
		return &ast.ExpressionStatement{Expr: expr, Token: tok}
	}
}

func (p *Parser) parseTypedVarDecl() *ast.VarDeclStatement {
	typ := p.parseTypeAnnotation()
	tok := p.cur
	name := p.cur.Literal
	p.next()
	stmt := &ast.VarDeclStatement{Token: tok, Name: name, Type: typ}
	if p.curIs(lexer.ATRIBUICAO) {
		p.next()
		stmt.Initializer = p.parseExpression(LOWEST)
	}
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return stmt
}

func (p *Parser) parsePrint() *ast.PrintStatement {
	tok := p.cur
	p.next() // consume 'imprima'
	value := p.parseExpression(LOWEST)
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return &ast.PrintStatement{Value: value, Token: tok}
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	tok := p.cur
	p.next() // consume 'retorne'
	stmt := &ast.ReturnStatement{Token: tok}
	if !p.curIs(lexer.PONTO_VIRGULA) {
		stmt.Value = p.parseExpression(LOWEST)
	}
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return stmt
}

func (p *Parser) parseIf() *ast.IfStatement {
	tok := p.cur
	p.next() // consume 'se'
	p.expect(lexer.PAREN_ESQ)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.PAREN_DIR)
	p.next()
	if p.curIs(lexer.ENTAO) {
		p.next()
	}
	then := p.parseBlock()

	stmt := &ast.IfStatement{Condition: cond, Then: then, Token: tok}
	if p.curIs(lexer.SENAO) {
		p.next()
		if p.curIs(lexer.SE) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	tok := p.cur
	p.next() // consume 'enquanto'
	p.expect(lexer.PAREN_ESQ)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.PAREN_DIR)
	p.next()
	if p.curIs(lexer.FACA) {
		p.next()
	}
	body := p.parseBlock()
	return &ast.WhileStatement{Condition: cond, Body: body, Token: tok}
}

func (p *Parser) parseFor() *ast.ForStatement {
	tok := p.cur
	p.next() // consume 'para'
	p.expect(lexer.PAREN_ESQ)
	p.next()

	stmt := &ast.ForStatement{Token: tok}
	stmt.Init = p.parseStatement()
	stmt.Condition = p.parseExpression(LOWEST)
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	stmt.Step = p.parseStatement()
	if p.curIs(lexer.PAREN_DIR) {
		p.next()
	}
	if p.curIs(lexer.FACA) {
		p.next()
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseCreateObjectStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	if newExpr, ok := expr.(*ast.NewObjectExpr); ok {
		return &ast.CreateObjectStatement{New: newExpr, Token: tok}
	}
	return &ast.ExpressionStatement{Expr: expr, Token: tok}
}
