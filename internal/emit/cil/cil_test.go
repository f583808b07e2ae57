package cil

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

func TestGenerateEmitsAssemblyAndEntrypointScaffolding(t *testing.T) {
	out := Generate(compile(t, `imprima(1);`))
	if !strings.Contains(out, ".assembly extern mscorlib") {
		t.Error("missing mscorlib extern assembly directive")
	}
	if !strings.Contains(out, ".entrypoint") {
		t.Error("missing .entrypoint directive")
	}
	if !strings.Contains(out, "class private auto ansi beforefieldinit Principal") {
		t.Error("missing Principal class declaration")
	}
}

func TestGenerateDeclaresOneLocalPerDistinctVariable(t *testing.T) {
	out := Generate(compile(t, `var x = 1;
var y = 2;
x = x + y;`))
	if !strings.Contains(out, ".locals init (object V_0, object V_1)") {
		t.Errorf("Generate() = %q, expected two distinct locals", out)
	}
}

func TestGenerateIntegerLiteralBoxesAsInt32(t *testing.T) {
	out := Generate(compile(t, `imprima(7);`))
	if !strings.Contains(out, "ldc.i4 7") || !strings.Contains(out, "box [mscorlib]System.Int32") {
		t.Errorf("Generate() = %q, missing boxed int32 literal", out)
	}
}

func TestGenerateStringLiteralEmitsLdstr(t *testing.T) {
	out := Generate(compile(t, `imprima("ola");`))
	if !strings.Contains(out, `ldstr "ola"`) {
		t.Errorf("Generate() = %q, missing ldstr instruction", out)
	}
}

func TestGenerateComparisonOperators(t *testing.T) {
	cases := map[string]string{
		`var ok = 1 == 2;`: "ceq",
		`var ok = 1 < 2;`:  "clt",
		`var ok = 1 > 2;`:  "cgt",
	}
	for src, want := range cases {
		out := Generate(compile(t, src))
		if !strings.Contains(out, want) {
			t.Errorf("Generate(%q) missing %q instruction: %q", src, want, out)
		}
	}
}

func TestGenerateStoreAndLoadVarUseSameLocalSlot(t *testing.T) {
	out := Generate(compile(t, `var x = 1;
imprima(x);`))
	if !strings.Contains(out, "stloc V_0") {
		t.Error("missing stloc V_0")
	}
	if !strings.Contains(out, "ldloc V_0") {
		t.Error("missing ldloc V_0")
	}
}

func TestGenerateEndsMethodBodyWithRet(t *testing.T) {
	out := Generate(compile(t, `imprima(1);`))
	if !strings.Contains(out, "\n    ret\n") {
		t.Errorf("Generate() = %q, missing trailing ret", out)
	}
}
