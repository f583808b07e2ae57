package parser

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

// parseFunction parses `funcao Nome(params) [: TipoRetorno] { corpo }`.
func (p *Parser) parseFunction() *ast.FunctionDecl {
	tok := p.cur
	p.next() // consume 'funcao'
	fn := &ast.FunctionDecl{Token: tok, Name: p.cur.Literal}
	p.next()

	fn.Parameters = p.parseParameterList()

	if p.curIs(lexer.DOIS_PONTOS) {
		p.next()
		fn.ReturnType = p.parseTypeAnnotation()
	} else {
		fn.ReturnType = &ast.TypeAnnotation{Name: "vazio"}
	}

	fn.Body = p.parseBlock()
	return fn
}
