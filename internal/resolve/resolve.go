package resolve

import (
	"strings"

	"github.com/cwbudde/go-portugol/internal/ast"
)

// primitiveTypeNames are TypeAnnotation.Name spellings that never go
// through class/function resolution.
var primitiveTypeNames = map[string]bool{
	"inteiro": true, "texto": true, "booleano": true, "vazio": true,
	"decimal": true, "flutuante": true, "duplo": true, "Lista": true,
}

// Resolver implements the name-resolution algorithm.
type Resolver struct {
	Tables *Tables
}

func New(t *Tables) *Resolver { return &Resolver{Tables: t} }

// ResolveName maps an unqualified name N, used in namespace NS with
// using-list U, to its fully-qualified form, per the five-step algorithm:
// already-qualified names pass through; then NS.N; then each using uᵢ.N in
// order; then N itself; otherwise N is returned unchanged and the caller
// (checker/lowerer) treats it as unresolved.
func (r *Resolver) ResolveName(name, namespace string, usings []string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if namespace != "" {
		if cand := namespace + "." + name; r.Tables.Has(cand) {
			return cand
		}
	}
	for _, u := range usings {
		if cand := u + "." + name; r.Tables.Has(cand) {
			return cand
		}
	}
	if r.Tables.Has(name) {
		return name
	}
	return name
}

// ResolveEnumMember resolves `E.M`: E through ResolveName restricted to the
// enum table, M looked up among its declared members. ok is false if E does
// not name a known enum or M is not one of its members.
func (r *Resolver) ResolveEnumMember(enumName, member, namespace string, usings []string) (ordinal int, ok bool) {
	fqn := r.ResolveName(enumName, namespace, usings)
	decl, found := r.Tables.Enums[fqn]
	if !found {
		return 0, false
	}
	return decl.Ordinal(member)
}

// Rewriter walks a Program once, rewriting unqualified class/function/enum
// references to their fully-qualified form and folding enum member access
// to integer ordinals. The AST is mutated exactly once this way, by the
// name resolver, and is treated as immutable afterward.
type Rewriter struct {
	r *Resolver
}

func NewRewriter(r *Resolver) *Rewriter { return &Rewriter{r: r} }

// Run rewrites prog in place.
func (rw *Rewriter) Run(prog *ast.Program) {
	rw.declarations(prog.Declarations, "", prog.Usings)
	for _, ns := range prog.Namespaces {
		rw.declarations(ns.Declarations, ns.Name, prog.Usings)
	}
}

func (rw *Rewriter) declarations(decls []ast.Declaration, namespace string, usings []string) {
	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			rw.class(decl, namespace, usings)
		case *ast.FunctionDecl:
			rw.typeAnnotation(decl.ReturnType, namespace, usings)
			rw.params(decl.Parameters, namespace, usings)
			rw.block(decl.Body, namespace, usings)
		case *ast.ModuleDecl:
			rw.declarations(decl.Declarations, qualify(namespace, decl.Name), usings)
		case *ast.Namespace:
			rw.declarations(decl.Declarations, qualify(namespace, decl.Name), usings)
		case *ast.TopLevelCommand:
			rw.statement(decl.Command, namespace, usings)
		}
	}
}

func (rw *Rewriter) class(decl *ast.ClassDecl, namespace string, usings []string) {
	if decl.Parent != nil {
		resolved := rw.r.ResolveName(*decl.Parent, namespace, usings)
		decl.Parent = &resolved
	}
	for _, f := range decl.Properties {
		rw.typeAnnotation(f.Type, namespace, usings)
	}
	for _, f := range decl.Fields {
		rw.typeAnnotation(f.Type, namespace, usings)
	}
	for _, m := range decl.Constructors {
		rw.method(m, namespace, usings)
	}
	for _, m := range decl.Methods {
		rw.method(m, namespace, usings)
	}
}

func (rw *Rewriter) method(m *ast.MethodDecl, namespace string, usings []string) {
	rw.typeAnnotation(m.ReturnType, namespace, usings)
	rw.params(m.Parameters, namespace, usings)
	rw.block(m.Body, namespace, usings)
}

func (rw *Rewriter) params(params []ast.Parameter, namespace string, usings []string) {
	for i := range params {
		rw.typeAnnotation(params[i].Type, namespace, usings)
		if params[i].Default != nil {
			replaced := rw.expr(*params[i].Default, namespace, usings)
			params[i].Default = &replaced
		}
	}
}

func (rw *Rewriter) typeAnnotation(t *ast.TypeAnnotation, namespace string, usings []string) {
	if t == nil {
		return
	}
	if t.Elem != nil {
		rw.typeAnnotation(t.Elem, namespace, usings)
	}
	if t.Inferred || t.Name == "" || primitiveTypeNames[t.Name] {
		return
	}
	t.Name = rw.r.ResolveName(t.Name, namespace, usings)
}

func (rw *Rewriter) block(b *ast.BlockStatement, namespace string, usings []string) {
	if b == nil {
		return
	}
	for i, s := range b.Statements {
		b.Statements[i] = rw.statement(s, namespace, usings)
	}
}

// statement rewrites s (and any expressions or nested statements it holds)
// in place and returns it; the return value only ever differs from s when a
// future statement-level fold is added, but callers reassign uniformly so
// that pattern is free to land in either layer without a call-site change.
func (rw *Rewriter) statement(s ast.Statement, namespace string, usings []string) ast.Statement {
	switch st := s.(type) {
	case *ast.VarDeclStatement:
		rw.typeAnnotation(st.Type, namespace, usings)
		if st.Initializer != nil {
			st.Initializer = rw.expr(st.Initializer, namespace, usings)
		}
	case *ast.AssignmentStatement:
		st.Value = rw.expr(st.Value, namespace, usings)
	case *ast.PropertyAssignmentStatement:
		st.Receiver = rw.expr(st.Receiver, namespace, usings)
		st.Value = rw.expr(st.Value, namespace, usings)
	case *ast.IndexAssignmentStatement:
		st.Receiver = rw.expr(st.Receiver, namespace, usings)
		st.Index = rw.expr(st.Index, namespace, usings)
		st.Value = rw.expr(st.Value, namespace, usings)
	case *ast.ExpressionStatement:
		st.Expr = rw.expr(st.Expr, namespace, usings)
	case *ast.PrintStatement:
		st.Value = rw.expr(st.Value, namespace, usings)
	case *ast.ReturnStatement:
		if st.Value != nil {
			st.Value = rw.expr(st.Value, namespace, usings)
		}
	case *ast.IfStatement:
		st.Condition = rw.expr(st.Condition, namespace, usings)
		rw.block(st.Then, namespace, usings)
		if st.Else != nil {
			st.Else = rw.statement(st.Else, namespace, usings)
		}
	case *ast.WhileStatement:
		st.Condition = rw.expr(st.Condition, namespace, usings)
		rw.block(st.Body, namespace, usings)
	case *ast.ForStatement:
		if st.Init != nil {
			st.Init = rw.statement(st.Init, namespace, usings)
		}
		if st.Condition != nil {
			st.Condition = rw.expr(st.Condition, namespace, usings)
		}
		if st.Step != nil {
			st.Step = rw.statement(st.Step, namespace, usings)
		}
		rw.block(st.Body, namespace, usings)
	case *ast.BlockStatement:
		rw.block(st, namespace, usings)
	case *ast.CreateObjectStatement:
		if rewritten := rw.expr(st.New, namespace, usings); rewritten != ast.Expression(st.New) {
			if newExpr, ok := rewritten.(*ast.NewObjectExpr); ok {
				st.New = newExpr
			}
		}
	case *ast.CallMethodStatement:
		if rewritten := rw.expr(st.Call, namespace, usings); rewritten != ast.Expression(st.Call) {
			if call, ok := rewritten.(*ast.MethodCallExpr); ok {
				st.Call = call
			}
		}
	case *ast.ClassDecl:
		rw.class(st, namespace, usings)
	}
	return s
}

// expr rewrites e's children in place and returns the (possibly replaced)
// expression: MemberAccessExpr folds to an IntegerLiteral when its receiver
// resolves to a known enum and its member is one of that enum's declared
// members.
func (rw *Rewriter) expr(e ast.Expression, namespace string, usings []string) ast.Expression {
	switch ex := e.(type) {
	case *ast.NewObjectExpr:
		ex.ClassName = rw.r.ResolveName(ex.ClassName, namespace, usings)
		for i, a := range ex.Args {
			ex.Args[i] = rw.expr(a, namespace, usings)
		}
		return ex
	case *ast.FunctionCallExpr:
		ex.Name = rw.r.ResolveName(ex.Name, namespace, usings)
		for i, a := range ex.Args {
			ex.Args[i] = rw.expr(a, namespace, usings)
		}
		return ex
	case *ast.MethodCallExpr:
		if ex.Receiver != nil {
			ex.Receiver = rw.expr(ex.Receiver, namespace, usings)
		}
		for i, a := range ex.Args {
			ex.Args[i] = rw.expr(a, namespace, usings)
		}
		return ex
	case *ast.MemberAccessExpr:
		if ident, ok := ex.Receiver.(*ast.Identifier); ok {
			if ordinal, found := rw.r.ResolveEnumMember(ident.Value, ex.Member, namespace, usings); found {
				return &ast.IntegerLiteral{Value: int64(ordinal), Token: ex.Token}
			}
		}
		ex.Receiver = rw.expr(ex.Receiver, namespace, usings)
		return ex
	case *ast.IndexAccessExpr:
		ex.Receiver = rw.expr(ex.Receiver, namespace, usings)
		ex.Index = rw.expr(ex.Index, namespace, usings)
		return ex
	case *ast.ArithmeticExpr:
		ex.Left = rw.expr(ex.Left, namespace, usings)
		ex.Right = rw.expr(ex.Right, namespace, usings)
		return ex
	case *ast.ComparisonExpr:
		ex.Left = rw.expr(ex.Left, namespace, usings)
		ex.Right = rw.expr(ex.Right, namespace, usings)
		return ex
	case *ast.LogicalExpr:
		ex.Left = rw.expr(ex.Left, namespace, usings)
		ex.Right = rw.expr(ex.Right, namespace, usings)
		return ex
	case *ast.UnaryExpr:
		ex.Operand = rw.expr(ex.Operand, namespace, usings)
		return ex
	case *ast.ListLiteral:
		for i, el := range ex.Elements {
			ex.Elements[i] = rw.expr(el, namespace, usings)
		}
		return ex
	case *ast.InterpolatedString:
		for i := range ex.Parts {
			if ex.Parts[i].IsExpr() {
				ex.Parts[i].Expr = rw.expr(ex.Parts[i].Expr, namespace, usings)
			}
		}
		return ex
	default:
		return e
	}
}
