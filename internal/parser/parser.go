// Package parser is a small hand-written recursive-descent / Pratt parser
// that turns a token stream from internal/lexer into the internal/ast tree.
//
// Like the lexer, this package sits outside the pipeline's hard engineering
// surface (the grammar itself is treated as an external collaborator); it
// exists so the resolver/checker/lowerer/VM pipeline is exercisable end to
// end.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

// Precedence levels, lowest to highest, mirroring a standard Pratt parser.
const (
	_ int = iota
	LOWEST
	OR
	AND
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
	MEMBER
)

var precedences = map[lexer.TokenType]int{
	lexer.OU_LOGICO:    OR,
	lexer.E_LOGICO:     AND,
	lexer.IGUAL:        EQUALS,
	lexer.DIFERENTE:    EQUALS,
	lexer.MENOR:        LESSGREATER,
	lexer.MAIOR:        LESSGREATER,
	lexer.MENOR_IGUAL:  LESSGREATER,
	lexer.MAIOR_IGUAL:  LESSGREATER,
	lexer.MAIS:         SUM,
	lexer.MENOS:        SUM,
	lexer.MULTIPLICACAO: PRODUCT,
	lexer.DIVISAO:      PRODUCT,
	lexer.MODULO:       PRODUCT,
	lexer.PAREN_ESQ:    CALL,
	lexer.COLCHETE_ESQ: INDEX,
	lexer.PONTO:        MEMBER,
}

// Parser consumes tokens from a Lexer and builds an *ast.Program.
type Parser struct {
	lex       *lexer.Lexer
	errors    []string
	cur, peek lexer.Token
}

// New creates a Parser reading from lex and primes the two-token lookahead.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.next()
	p.next()
	return p
}

// Errors returns the accumulated parse errors: this phase, like the ones
// downstream of it, accumulates and continues as far as safely possible
// rather than aborting on the first mistake.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		return true
	}
	p.errorf("expected token %d, got %d (%q) at line %d", t, p.cur.Type, p.cur.Literal, p.cur.Pos.Line)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.USANDO:
			prog.Usings = append(prog.Usings, p.parseUsing())
		case lexer.NAMESPACE:
			prog.Namespaces = append(prog.Namespaces, p.parseNamespace())
		default:
			if decl := p.parseTopLevelDeclaration(); decl != nil {
				prog.Declarations = append(prog.Declarations, decl)
			} else {
				p.next()
			}
		}
	}
	return prog
}

func (p *Parser) parseUsing() string {
	p.next() // consume 'usando'
	name := p.parseQualifiedName()
	if p.curIs(lexer.PONTO_VIRGULA) {
		p.next()
	}
	return name
}

func (p *Parser) parseQualifiedName() string {
	name := p.cur.Literal
	for p.peekIs(lexer.PONTO) {
		p.next()
		p.next()
		name += "." + p.cur.Literal
	}
	p.next()
	return name
}

func (p *Parser) parseNamespace() *ast.Namespace {
	tok := p.cur
	p.next()
	name := p.parseDottedNameNoAdvance()
	ns := &ast.Namespace{Name: name, Token: tok}
	if !p.expect(lexer.CHAVE_ESQ) {
		return ns
	}
	p.next()
	for !p.curIs(lexer.CHAVE_DIR) && !p.curIs(lexer.EOF) {
		if decl := p.parseTopLevelDeclaration(); decl != nil {
			ns.Declarations = append(ns.Declarations, decl)
		} else {
			p.next()
		}
	}
	if p.curIs(lexer.CHAVE_DIR) {
		p.next()
	}
	return ns
}

// parseDottedNameNoAdvance parses `a.b.c` starting at the current token and
// leaves cur positioned on the token after the name.
func (p *Parser) parseDottedNameNoAdvance() string {
	name := p.cur.Literal
	for p.peekIs(lexer.PONTO) {
		p.next()
		p.next()
		name += "." + p.cur.Literal
	}
	p.next()
	return name
}

func (p *Parser) parseTopLevelDeclaration() ast.Declaration {
	isAbstract, isStatic := false, false
	for p.curIs(lexer.ABSTRATO) || p.curIs(lexer.ESTATICO) {
		if p.curIs(lexer.ABSTRATO) {
			isAbstract = true
		} else {
			isStatic = true
		}
		p.next()
	}

	switch p.cur.Type {
	case lexer.CLASSE:
		decl := p.parseClass()
		decl.IsAbstract = isAbstract
		decl.IsStatic = isStatic
		return decl
	case lexer.ENUM:
		return p.parseEnum()
	case lexer.FUNCAO:
		return p.parseFunction()
	default:
		tok := p.cur
		if stmt := p.parseStatement(); stmt != nil {
			return &ast.TopLevelCommand{Command: stmt, Token: tok}
		}
		return nil
	}
}
