package llvmir

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

func TestGenerateEmitsModuleHeaderAndMainFunction(t *testing.T) {
	out := Generate(compile(t, `imprima(1);`))
	if !strings.Contains(out, "target triple") {
		t.Error("missing target triple directive")
	}
	if !strings.Contains(out, "declare i32 @printf") {
		t.Error("missing printf declaration")
	}
	if !strings.Contains(out, "define i32 @main() {") {
		t.Error("missing @main function")
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Error("missing terminating ret")
	}
}

func TestGenerateIntegerAdditionEmitsAddInstruction(t *testing.T) {
	out := Generate(compile(t, `var x = 1 + 2;`))
	if !strings.Contains(out, "= add i64 1, 2") {
		t.Errorf("Generate() = %q, missing add i64 instruction", out)
	}
}

func TestGenerateStringLiteralEmitsPrivateConstant(t *testing.T) {
	out := Generate(compile(t, `imprima("ola");`))
	if !strings.Contains(out, "@.str1 = private unnamed_addr constant") {
		t.Errorf("Generate() = %q, missing string constant declaration", out)
	}
	if !strings.Contains(out, "@.str_fmt") {
		t.Error("expected PRINT on a text value to select the string format constant")
	}
}

func TestGenerateIntegerPrintUsesIntFormat(t *testing.T) {
	out := Generate(compile(t, `imprima(42);`))
	if !strings.Contains(out, "@.int_fmt") {
		t.Error("expected PRINT on an integer value to select the int format constant")
	}
}

func TestGenerateTextAddFallsBackToComment(t *testing.T) {
	out := Generate(compile(t, `imprima("a" + "b");`))
	if !strings.Contains(out, "not lowered (no runtime concat helper)") {
		t.Errorf("Generate() = %q, expected a fallback comment for text ADD", out)
	}
}

func TestGenerateComparisonEmitsIcmp(t *testing.T) {
	out := Generate(compile(t, `var ok = 1 < 2;`))
	if !strings.Contains(out, "icmp slt i64 1, 2") {
		t.Errorf("Generate() = %q, missing icmp slt instruction", out)
	}
}
