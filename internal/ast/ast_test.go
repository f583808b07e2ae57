package ast

import (
	"testing"

	"github.com/cwbudde/go-portugol/internal/lexer"
)

func TestExprString(t *testing.T) {
	ident := &Identifier{Value: "saldo", Token: lexer.Token{Literal: "saldo"}}
	if got := ExprString(ident); got != "saldo" {
		t.Errorf("ExprString(Identifier) = %q, want %q", got, "saldo")
	}

	this := &This{Token: lexer.Token{Literal: "este"}}
	if got := ExprString(this); got != "este" {
		t.Errorf("ExprString(This) = %q, want %q", got, "este")
	}

	intLit := &IntegerLiteral{Value: 10, Token: lexer.Token{Literal: "10"}}
	if got := ExprString(intLit); got != "10" {
		t.Errorf("ExprString(IntegerLiteral) = %q, want %q", got, "10")
	}

	textLit := &TextLiteral{Value: "ola", Token: lexer.Token{Literal: "\"ola\""}}
	if got := ExprString(textLit); got != `"ola"` {
		t.Errorf("ExprString(TextLiteral) = %q, want %q", got, `"ola"`)
	}
}

func TestProgramTokenLiteralAndPos(t *testing.T) {
	p := &Program{}
	if p.TokenLiteral() != "programa" {
		t.Errorf("TokenLiteral() = %q, want %q", p.TokenLiteral(), "programa")
	}
	pos := p.Pos()
	if pos.Line != 1 || pos.Column != 1 {
		t.Errorf("Pos() = %+v, want {Line:1 Column:1}", pos)
	}
}

func TestInterpolatedPartIsExpr(t *testing.T) {
	textPart := InterpolatedPart{Text: "valor: "}
	if textPart.IsExpr() {
		t.Error("text-only part reports IsExpr() = true")
	}
	exprPart := InterpolatedPart{Expr: &Identifier{Value: "x"}}
	if !exprPart.IsExpr() {
		t.Error("expr part reports IsExpr() = false")
	}
}

// Compile-time interface satisfaction checks: each of these node types must
// implement Expression, Statement, or Declaration as appropriate.
var (
	_ Expression  = (*Identifier)(nil)
	_ Expression  = (*This)(nil)
	_ Expression  = (*IntegerLiteral)(nil)
	_ Expression  = (*TextLiteral)(nil)
	_ Expression  = (*BooleanLiteral)(nil)
	_ Expression  = (*FloatLiteral)(nil)
	_ Expression  = (*DoubleLiteral)(nil)
	_ Expression  = (*DecimalLiteral)(nil)
	_ Expression  = (*NullLiteral)(nil)
	_ Expression  = (*ListLiteral)(nil)
	_ Expression  = (*InterpolatedString)(nil)
	_ Expression  = (*ArithmeticExpr)(nil)
	_ Expression  = (*ComparisonExpr)(nil)
	_ Expression  = (*LogicalExpr)(nil)
	_ Expression  = (*UnaryExpr)(nil)
	_ Expression  = (*MemberAccessExpr)(nil)
	_ Expression  = (*IndexAccessExpr)(nil)
	_ Expression  = (*NewObjectExpr)(nil)
	_ Expression  = (*MethodCallExpr)(nil)
	_ Expression  = (*FunctionCallExpr)(nil)
	_ Declaration = (*Namespace)(nil)
)
