package resolve

import (
	"testing"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/lexer"
	"github.com/cwbudde/go-portugol/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestBuildTablesRegistersTopLevelAndNamespaced(t *testing.T) {
	prog := parseProgram(t, `classe Conta {
    saldo: inteiro;
}
namespace Banco.Modelos {
    classe Poupanca {
        saldo: inteiro;
    }
    funcao taxa(): decimal {
        retorne 0;
    }
}`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if _, ok := tables.Classes["Conta"]; !ok {
		t.Error("top-level class Conta not registered")
	}
	if _, ok := tables.Classes["Banco.Modelos.Poupanca"]; !ok {
		t.Error("namespaced class Banco.Modelos.Poupanca not registered")
	}
	if _, ok := tables.Functions["Banco.Modelos.taxa"]; !ok {
		t.Error("namespaced function Banco.Modelos.taxa not registered")
	}
}

func TestBuildTablesDetectsDuplicateClass(t *testing.T) {
	prog := parseProgram(t, `classe Conta { saldo: inteiro; }
classe Conta { saldo: inteiro; }`)
	_, errs := BuildTables(prog)
	if !errs.HasErrors() {
		t.Fatal("expected a duplicate-declaration error, got none")
	}
}

func TestTablesHas(t *testing.T) {
	prog := parseProgram(t, `classe Conta { saldo: inteiro; }
enum Cor { Vermelho, Verde, Azul }`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	if !tables.Has("Conta") {
		t.Error("Has(Conta) = false, want true")
	}
	if !tables.Has("Cor") {
		t.Error("Has(Cor) = false, want true")
	}
	if tables.Has("Inexistente") {
		t.Error("Has(Inexistente) = true, want false")
	}
}

func TestResolveNameFallsBackThroughUsings(t *testing.T) {
	prog := parseProgram(t, `namespace Banco.Modelos {
    classe Conta { saldo: inteiro; }
}`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	r := New(tables)

	if got := r.ResolveName("Banco.Modelos.Conta", "", nil); got != "Banco.Modelos.Conta" {
		t.Errorf("already-qualified name changed: got %q", got)
	}
	if got := r.ResolveName("Conta", "", []string{"Banco.Modelos"}); got != "Banco.Modelos.Conta" {
		t.Errorf("ResolveName via using = %q, want Banco.Modelos.Conta", got)
	}
	if got := r.ResolveName("Inexistente", "", []string{"Banco.Modelos"}); got != "Inexistente" {
		t.Errorf("unresolved name should pass through unchanged, got %q", got)
	}
}

func TestResolveNamePrefersNamespaceOverUsing(t *testing.T) {
	prog := parseProgram(t, `namespace A {
    classe Item { valor: inteiro; }
}
namespace B {
    classe Item { valor: inteiro; }
}`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	r := New(tables)
	got := r.ResolveName("Item", "B", []string{"A"})
	if got != "B.Item" {
		t.Errorf("ResolveName = %q, want B.Item (own namespace wins over using)", got)
	}
}

func TestResolveEnumMember(t *testing.T) {
	prog := parseProgram(t, `enum Cor { Vermelho, Verde, Azul }`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	r := New(tables)

	ordinal, ok := r.ResolveEnumMember("Cor", "Verde", "", nil)
	if !ok || ordinal != 1 {
		t.Errorf("ResolveEnumMember(Cor, Verde) = (%d, %v), want (1, true)", ordinal, ok)
	}
	if _, ok := r.ResolveEnumMember("Cor", "Roxo", "", nil); ok {
		t.Error("ResolveEnumMember(Cor, Roxo) reported found, want not found")
	}
	if _, ok := r.ResolveEnumMember("NaoExiste", "X", "", nil); ok {
		t.Error("ResolveEnumMember on unknown enum reported found, want not found")
	}
}

func TestRewriterFoldsEnumMemberAccessToOrdinal(t *testing.T) {
	prog := parseProgram(t, `enum Cor { Vermelho, Verde, Azul }
var x = Cor.Azul;`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	NewRewriter(New(tables)).Run(prog)

	top := prog.Declarations[1].(*ast.TopLevelCommand)
	decl := top.Command.(*ast.VarDeclStatement)
	lit, ok := decl.Initializer.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("Initializer = %#v, want folded *ast.IntegerLiteral", decl.Initializer)
	}
	if lit.Value != 2 {
		t.Errorf("folded ordinal = %d, want 2", lit.Value)
	}
}

func TestRewriterQualifiesClassParentAndFieldType(t *testing.T) {
	prog := parseProgram(t, `namespace Banco {
    classe Conta { saldo: inteiro; }
    classe Poupanca herda Conta { taxa: decimal; }
}`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	NewRewriter(New(tables)).Run(prog)

	ns := prog.Namespaces[0]
	var poupanca *ast.ClassDecl
	for _, d := range ns.Declarations {
		if c, ok := d.(*ast.ClassDecl); ok && c.Name == "Poupanca" {
			poupanca = c
		}
	}
	if poupanca == nil {
		t.Fatal("Poupanca class not found after rewrite")
	}
	if poupanca.Parent == nil || *poupanca.Parent != "Banco.Conta" {
		t.Errorf("Parent = %v, want Banco.Conta", poupanca.Parent)
	}
}

func TestRewriterQualifiesNewObjectAndFunctionCall(t *testing.T) {
	prog := parseProgram(t, `usando Banco;
namespace Banco {
    classe Conta { saldo: inteiro; }
}
var c = novo Conta();`)
	tables, errs := BuildTables(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	NewRewriter(New(tables)).Run(prog)

	top := prog.Declarations[len(prog.Declarations)-1].(*ast.TopLevelCommand)
	decl := top.Command.(*ast.VarDeclStatement)
	newExpr, ok := decl.Initializer.(*ast.NewObjectExpr)
	if !ok {
		t.Fatalf("Initializer = %#v, want *ast.NewObjectExpr", decl.Initializer)
	}
	if newExpr.ClassName != "Banco.Conta" {
		t.Errorf("ClassName = %q, want Banco.Conta", newExpr.ClassName)
	}
}
