package parser

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

// parseClass parses:
//
//	[abstrato] [estatico] classe Nome [herda Pai] { membros... }
func (p *Parser) parseClass() *ast.ClassDecl {
	tok := p.cur // CLASSE (modifiers are consumed by caller via parseModifiers)
	decl := &ast.ClassDecl{Token: tok}
	p.next() // consume 'classe'
	decl.Name = p.cur.Literal
	p.next()

	if p.curIs(lexer.HERDA) {
		p.next()
		parent := p.cur.Literal
		decl.Parent = &parent
		p.next()
	}

	if !p.curIs(lexer.CHAVE_ESQ) {
		p.errorf("expected '{' to start body of class %s", decl.Name)
		return decl
	}
	p.next()

	for !p.curIs(lexer.CHAVE_DIR) && !p.curIs(lexer.EOF) {
		p.parseClassMember(decl)
	}
	if p.curIs(lexer.CHAVE_DIR) {
		p.next()
	}
	return decl
}

func (p *Parser) parseClassMember(decl *ast.ClassDecl) {
	// visibility modifiers are accepted and discarded: the checker does not
	// gate on visibility, only on static/abstract/virtual/override.
	for p.curIs(lexer.PUBLICO) || p.curIs(lexer.PRIVADO) || p.curIs(lexer.PROTEGIDO) {
		p.next()
	}

	isStatic, isVirtual, isOverride, isAbstract := false, false, false, false
	for {
		switch p.cur.Type {
		case lexer.ESTATICO:
			isStatic = true
			p.next()
			continue
		case lexer.VIRTUAL:
			isVirtual = true
			p.next()
			continue
		case lexer.OVERRIDE:
			isOverride = true
			p.next()
			continue
		case lexer.ABSTRATO:
			isAbstract = true
			p.next()
			continue
		}
		break
	}

	switch p.cur.Type {
	case lexer.CONSTRUTOR:
		decl.Constructors = append(decl.Constructors, p.parseMethod(true, isStatic, isVirtual, isOverride, isAbstract))
	case lexer.METODO:
		decl.Methods = append(decl.Methods, p.parseMethod(false, isStatic, isVirtual, isOverride, isAbstract))
	default:
		field := p.parseField(isStatic)
		if isStatic {
			decl.Properties = append(decl.Properties, field)
		} else {
			decl.Fields = append(decl.Fields, field)
		}
	}
}

func (p *Parser) parseField(isStatic bool) *ast.FieldDecl {
	tok := p.cur
	name := p.cur.Literal
	p.next()
	p.expect(lexer.DOIS_PONTOS)
	p.next()
	typ := p.parseTypeAnnotation()
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return &ast.FieldDecl{Name: name, Type: typ, Token: tok}
}

func (p *Parser) parseMethod(isCtor, isStatic, isVirtual, isOverride, isAbstract bool) *ast.MethodDecl {
	tok := p.cur
	p.next() // consume 'construtor'/'metodo'

	m := &ast.MethodDecl{
		Token:      tok,
		IsStatic:   isStatic,
		IsVirtual:  isVirtual,
		IsOverride: isOverride,
		IsAbstract: isAbstract,
	}
	if isCtor {
		m.Name = "construtor"
	} else {
		m.Name = p.cur.Literal
		p.next()
	}

	m.Parameters = p.parseParameterList()

	if !isCtor && p.curIs(lexer.DOIS_PONTOS) {
		p.next()
		m.ReturnType = p.parseTypeAnnotation()
	}
	if isCtor && p.curIs(lexer.DOIS_PONTOS) {
		p.next() // consume ':'
		if !p.curIs(lexer.SUPER) {
			p.errorf("expected 'super' after ':' in constructor, got %q", p.cur.Literal)
		} else {
			p.next() // consume 'super'
			m.HasBaseCall = true
			m.BaseArgs = p.parseArgumentList()
		}
	}

	if isAbstract {
		if p.curIs(lexer.PONTO_VIRGULA) {
			p.next()
		}
		return m
	}

	m.Body = p.parseBlock()
	return m
}

func (p *Parser) parseParameterList() []ast.Parameter {
	var params []ast.Parameter
	if !p.curIs(lexer.PAREN_ESQ) {
		p.errorf("expected '(' to start parameter list")
		return params
	}
	p.next()
	for !p.curIs(lexer.PAREN_DIR) && !p.curIs(lexer.EOF) {
		name := p.cur.Literal
		p.next()
		p.expect(lexer.DOIS_PONTOS)
		p.next()
		typ := p.parseTypeAnnotation()
		param := ast.Parameter{Name: name, Type: typ}
		if p.curIs(lexer.ATRIBUICAO) {
			p.next()
			def := p.parseExpression(LOWEST)
			param.Default = &def
		}
		params = append(params, param)
		if p.curIs(lexer.VIRGULA) {
			p.next()
		}
	}
	if p.curIs(lexer.PAREN_DIR) {
		p.next()
	}
	return params
}

func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	if p.curIs(lexer.TIPO_LISTA) {
		p.next()
		p.expect(lexer.MENOR) // 'Lista<T>' surface syntax
		p.next()
		elem := p.parseTypeAnnotation()
		if p.curIs(lexer.MAIOR) {
			p.next()
		}
		return &ast.TypeAnnotation{Name: "Lista", Elem: elem}
	}
	name := p.cur.Literal
	p.next()
	return &ast.TypeAnnotation{Name: name}
}

func (p *Parser) parseEnum() *ast.EnumDecl {
	tok := p.cur
	p.next() // consume 'enum'
	decl := &ast.EnumDecl{Token: tok, Name: p.cur.Literal}
	p.next()
	if !p.curIs(lexer.CHAVE_ESQ) {
		p.errorf("expected '{' to start body of enum %s", decl.Name)
		return decl
	}
	p.next()
	for !p.curIs(lexer.CHAVE_DIR) && !p.curIs(lexer.EOF) {
		decl.Members = append(decl.Members, p.cur.Literal)
		p.next()
		if p.curIs(lexer.VIRGULA) {
			p.next()
		}
	}
	if p.curIs(lexer.CHAVE_DIR) {
		p.next()
	}
	return decl
}
