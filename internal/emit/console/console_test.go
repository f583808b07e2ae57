package console

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/check"
	"github.com/cwbudde/go-portugol/internal/lexer"
	"github.com/cwbudde/go-portugol/internal/lower"
	"github.com/cwbudde/go-portugol/internal/parser"
)

func compile(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	res := check.Run(prog)
	if res.Errs.HasErrors() {
		t.Fatalf("unexpected check errors: %v", res.Errs.Errors())
	}
	l := lower.New(res)
	bc := l.Run(prog)
	if l.Errs().HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", l.Errs().Errors())
	}
	return bc
}

func TestGenerateWrapsMainMethodScaffolding(t *testing.T) {
	out := Generate(compile(t, `imprima(1);`))
	if !strings.Contains(out, "using System;") {
		t.Error("missing using directive")
	}
	if !strings.Contains(out, "class Principal") {
		t.Error("missing Principal class")
	}
	if !strings.Contains(out, "static void Main()") {
		t.Error("missing Main method")
	}
}

func TestGenerateArithmeticExpression(t *testing.T) {
	out := Generate(compile(t, `imprima(1 + 2 * 3);`))
	if !strings.Contains(out, "Console.WriteLine((1 + (2 * 3)));") {
		t.Errorf("Generate() = %q, missing expected precedence-correct expression", out)
	}
}

func TestGenerateVarDeclEmitsVarStatement(t *testing.T) {
	out := Generate(compile(t, `var x = 10;`))
	if !strings.Contains(out, "var x = 10;") {
		t.Errorf("Generate() = %q, missing var declaration", out)
	}
}

func TestGenerateStringLiteralIsQuoted(t *testing.T) {
	out := Generate(compile(t, `imprima("ola");`))
	if !strings.Contains(out, `Console.WriteLine("ola");`) {
		t.Errorf("Generate() = %q, missing quoted string literal", out)
	}
}

func TestGenerateClassDefinitionIsSkipped(t *testing.T) {
	out := Generate(compile(t, `classe Conta {
    saldo: inteiro;
}
var x = 1;`))
	if strings.Contains(out, "DEFINE_CLASS") {
		t.Errorf("Generate() leaked a raw bytecode opcode: %q", out)
	}
	if !strings.Contains(out, "var x = 1;") {
		t.Error("expected the top-level statement following the class to still be translated")
	}
}

func TestGenerateFallsBackToCommentForUnsupportedOpcode(t *testing.T) {
	out := Generate(compile(t, `var xs = [1, 2, 3];`))
	if !strings.Contains(out, "not implemented for console") {
		t.Errorf("Generate() = %q, expected a fallback comment for NEW_ARRAY", out)
	}
}
