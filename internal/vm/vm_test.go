package vm

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/check"
	"github.com/cwbudde/go-portugol/internal/lexer"
	"github.com/cwbudde/go-portugol/internal/lower"
	"github.com/cwbudde/go-portugol/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// runSrc compiles src through the full C1-C6 pipeline and returns its
// captured stdout. Test helper, not a production entry point — cmd/portugolvm
// wires the same sequence for real runs.
func runSrc(t *testing.T, src string) string {
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

	var out bytes.Buffer
	vm := New(bc, &out)
	if err := vm.Run(); err != nil {
		t.Fatalf("unexpected VM error: %v", err)
	}
	return out.String()
}

func TestVMPrintsIntegerLiteral(t *testing.T) {
	got := runSrc(t, `imprima(42);`)
	if got != "42\n" {
		t.Errorf("stdout = %q, want %q", got, "42\n")
	}
}

func TestVMArithmeticPrecedence(t *testing.T) {
	got := runSrc(t, `imprima(1 + 2 * 3);`)
	if got != "7\n" {
		t.Errorf("stdout = %q, want %q", got, "7\n")
	}
}

func TestVMWhileLoopAccumulates(t *testing.T) {
	got := runSrc(t, `inteiro soma = 0;
inteiro i = 1;
enquanto (i <= 5) faça {
    soma = soma + i;
    i = i + 1;
}
imprima(soma);`)
	if got != "15\n" {
		t.Errorf("stdout = %q, want %q", got, "15\n")
	}
}

func TestVMForLoopPrintsEachIteration(t *testing.T) {
	snaps.MatchSnapshot(t, "for_loop_output", runSrc(t, `para (var i = 0; i < 3; i = i + 1) faça {
    imprima(i);
}`))
}

func TestVMIfElseBranchesCorrectly(t *testing.T) {
	got := runSrc(t, `inteiro x = 10;
se (x > 5) então {
    imprima("grande");
} senão {
    imprima("pequeno");
}`)
	if got != "grande\n" {
		t.Errorf("stdout = %q, want %q", got, "grande\n")
	}
}

func TestVMClassConstructorAndMethod(t *testing.T) {
	got := runSrc(t, `classe Conta {
    saldo: inteiro;
    construtor(valorInicial: inteiro) {
        este.saldo = valorInicial;
    }
    metodo depositar(valor: inteiro) {
        este.saldo = este.saldo + valor;
    }
    metodo ver(): inteiro {
        retorne este.saldo;
    }
}
var c = novo Conta(100);
c.depositar(50);
imprima(c.ver());`)
	if got != "150\n" {
		t.Errorf("stdout = %q, want %q", got, "150\n")
	}
}

func TestVMInheritedMethodCalledOnChildInstance(t *testing.T) {
	got := runSrc(t, `classe Conta {
    saldo: inteiro;
    construtor(valorInicial: inteiro) {
        este.saldo = valorInicial;
    }
    virtual metodo extrato(): texto {
        retorne "saldo: {este.saldo}";
    }
}
classe Poupanca herda Conta {
    taxa: decimal;
    construtor(valorInicial: inteiro): super(valorInicial) { }
}
var p = novo Poupanca(200);
imprima(p.extrato());`)
	if got != "saldo: 200\n" {
		t.Errorf("stdout = %q, want %q", got, "saldo: 200\n")
	}
}

func TestVMOverriddenMethodDispatchesVirtually(t *testing.T) {
	got := runSrc(t, `classe Conta {
    virtual metodo nome(): texto {
        retorne "conta";
    }
}
classe Poupanca herda Conta {
    override metodo nome(): texto {
        retorne "poupanca";
    }
}
var p = novo Poupanca();
imprima(p.nome());`)
	if got != "poupanca\n" {
		t.Errorf("stdout = %q, want %q", got, "poupanca\n")
	}
}

func TestVMStaticMethodCall(t *testing.T) {
	got := runSrc(t, `estatico classe Util {
    estatico metodo dobro(x: inteiro): inteiro {
        retorne x * 2;
    }
}
imprima(Util.dobro(21));`)
	if got != "42\n" {
		t.Errorf("stdout = %q, want %q", got, "42\n")
	}
}

func TestVMFunctionCallWithDefaultParameter(t *testing.T) {
	got := runSrc(t, `funcao saudacao(nome: texto = "mundo"): texto {
    retorne "ola {nome}";
}
imprima(saudacao());
imprima(saudacao("Ana"));`)
	want := "ola mundo\nola Ana\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestVMListIndexingAndAssignment(t *testing.T) {
	got := runSrc(t, `var xs = [10, 20, 30];
xs[1] = 99;
imprima(xs[0]);
imprima(xs[1]);
imprima(xs[2]);`)
	want := "10\n99\n30\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestVMTextConcatenationViaAdd(t *testing.T) {
	got := runSrc(t, `imprima("saldo: " + 10);`)
	if got != "saldo: 10\n" {
		t.Errorf("stdout = %q, want %q", got, "saldo: 10\n")
	}
}

func TestVMDivisionByZeroIsFatal(t *testing.T) {
	p := parser.New(lexer.New(`imprima(1 / 0);`))
	prog := p.ParseProgram()
	res := check.Run(prog)
	l := lower.New(res)
	bc := l.Run(prog)

	var out bytes.Buffer
	vm := New(bc, &out)
	if err := vm.Run(); err == nil {
		t.Fatal("expected a division-by-zero runtime error, got none")
	}
}

func TestVMUnknownInstructionIsFatal(t *testing.T) {
	bc := &bytecode.Program{}
	bc.Emit("NAO_EXISTE 1")
	bc.Emit(bytecode.OpHalt)

	var out bytes.Buffer
	vm := New(bc, &out)
	if err := vm.Run(); err == nil {
		t.Fatal("expected a fatal error for an unrecognized opcode")
	}
}

func TestVMNewObjectOnAbstractClassIsFatal(t *testing.T) {
	bc := &bytecode.Program{}
	bc.Emitf("%s %s %s %s", bytecode.OpDefineClass, "Forma", bytecode.NullParentName, bytecode.JoinMeta(nil, nil, true))
	bc.Emit(bytecode.OpEndClass)
	bc.Emitf("%s %s %d", bytecode.OpNewObject, "Forma", 0)
	bc.Emit(bytecode.OpPop)
	bc.Emit(bytecode.OpHalt)

	var out bytes.Buffer
	vm := New(bc, &out)
	if err := vm.Run(); err == nil {
		t.Fatal("expected a fatal error instantiating an abstract class")
	}
}

func TestVMComparisonBetweenMismatchedTagsIsFatal(t *testing.T) {
	bc := &bytecode.Program{}
	bc.Emitf("%s %d", bytecode.OpLoadConstInt, 1)
	bc.Emitf("%s %s", bytecode.OpLoadConstStr, "um")
	bc.Emit(bytecode.OpCompareEq)
	bc.Emit(bytecode.OpPop)
	bc.Emit(bytecode.OpHalt)

	var out bytes.Buffer
	vm := New(bc, &out)
	if err := vm.Run(); err == nil {
		t.Fatal("expected a fatal error comparing an integer to text")
	}
}

func TestVMComparisonOfNullToNonNullIsFalseNotFatal(t *testing.T) {
	got := runSrc(t, `imprima(1 == nulo);`)
	if got != "falso\n" {
		t.Errorf("stdout = %q, want %q", got, "falso\n")
	}
}

func TestVMExplicitSuperCallInvokesParentConstructor(t *testing.T) {
	got := runSrc(t, `classe Conta {
    saldo: inteiro;
    construtor(valorInicial: inteiro) {
        este.saldo = valorInicial;
    }
}
classe Poupanca herda Conta {
    taxa: flutuante;
    construtor(valorInicial: inteiro): super(valorInicial) {
        este.taxa = 0.5;
    }
}
var p = novo Poupanca(300);
imprima(p.saldo);
imprima(p.taxa);`)
	want := "300\n0.5\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestVMFlattenedPropertiesIncludeInheritedFields(t *testing.T) {
	got := runSrc(t, `classe Conta {
    saldo: inteiro;
}
classe Poupanca herda Conta {
    taxa: flutuante;
    construtor() {
        este.taxa = 0.5;
    }
}
var p = novo Poupanca();
imprima(p.saldo);
imprima(p.taxa);`)
	want := "nulo\n0.5\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

// A function body's JUMP/JUMP_IF_FALSE targets are computed 0-based relative
// to that body's own instruction stream, then rebased once spliced after the
// DEFINE_FUNCTION header; this exercises that an if/else inside a function
// body (not just at top level) branches to the correct instruction.
func TestVMIfElseInsideFunctionBodyBranchesCorrectly(t *testing.T) {
	got := runSrc(t, `funcao f(x: inteiro): inteiro {
    se (x == 1) então {
        retorne 1;
    } senão {
        retorne 2;
    }
}
imprima(f(1));
imprima(f(0));`)
	want := "1\n2\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

// Same rebasing concern, but for a loop (forward skip-past-loop JUMP_IF_FALSE
// plus a backward JUMP to the loop condition) inside a method body.
func TestVMWhileLoopInsideMethodBodyAccumulatesCorrectly(t *testing.T) {
	got := runSrc(t, `classe Somador {
    metodo somarAte(n: inteiro): inteiro {
        inteiro total = 0;
        inteiro i = 1;
        enquanto (i <= n) faça {
            total = total + i;
            i = i + 1;
        }
        retorne total;
    }
}
var s = novo Somador();
imprima(s.somarAte(5));`)
	if got != "15\n" {
		t.Errorf("stdout = %q, want %q", got, "15\n")
	}
}

// tipo is non-virtual and re-declared (hidden, not overridden) in Poupanca.
// este.tipo() inside Conta.chamarTipo must statically bind to Conta's own
// body, even when called on a dynamically-Poupanca receiver.
func TestVMNonVirtualMethodCalledThroughEsteIgnoresDynamicHiding(t *testing.T) {
	got := runSrc(t, `classe Conta {
    metodo tipo(): texto {
        retorne "conta";
    }
    metodo chamarTipo(): texto {
        retorne este.tipo();
    }
}
classe Poupanca herda Conta {
    metodo tipo(): texto {
        retorne "poupanca";
    }
}
var p = novo Poupanca();
imprima(p.chamarTipo());
imprima(p.tipo());`)
	want := "conta\npoupanca\n"
	if got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
