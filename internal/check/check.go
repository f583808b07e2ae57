// Package check is the type and inheritance-override checker (component
// C4): it walks the resolved AST with a scope stack, validating
// declarations, assignments, calls, member access and override legality,
// accumulating diagnostics rather than stopping at the first one.
package check

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/errors"
	"github.com/cwbudde/go-portugol/internal/inherit"
	"github.com/cwbudde/go-portugol/internal/resolve"
)

// Checker walks one Program, threading an ambient namespace, using-list,
// optional enclosing class, and scope stack of name -> type.
type Checker struct {
	Tables *resolve.Tables
	Res    *resolve.Resolver
	Inh    *inherit.Resolver
	Errs   *errors.List

	namespace string
	usings    []string
	class     *inherit.ResolvedClass
	scopes    []map[string]ast.Type
}

// Result bundles everything the lowerer (C5) needs out of name resolution,
// inheritance flattening and type checking.
type Result struct {
	Tables *resolve.Tables
	Inh    *inherit.Resolver
	Errs   *errors.List
}

// Run executes C2 (BuildTables + Rewriter), C3 (per-class inheritance
// flattening + override validation) and C4 (this package) in sequence,
// stopping before lowering if any phase's error list is non-empty — a phase
// fails iff its error list is non-empty, and subsequent phases do not run.
// Callers should check Result.Errs.HasErrors() before proceeding to
// internal/lower.
func Run(prog *ast.Program) *Result {
	tables, buildErrs := resolve.BuildTables(prog)
	if buildErrs.HasErrors() {
		return &Result{Tables: tables, Errs: buildErrs}
	}

	res := resolve.New(tables)
	resolve.NewRewriter(res).Run(prog)

	errs := &errors.List{}
	inh := inherit.New(tables.Classes, errs)
	for fqn := range tables.Classes {
		rc := inh.Resolve(fqn)
		if rc != nil {
			inherit.ValidateOverrides(rc, errs)
		}
	}
	if errs.HasErrors() {
		return &Result{Tables: tables, Inh: inh, Errs: errs}
	}

	c := &Checker{Tables: tables, Res: res, Inh: inh, Errs: errs, usings: prog.Usings}
	c.checkDeclarations(prog.Declarations, "")
	for _, ns := range prog.Namespaces {
		c.checkDeclarations(ns.Declarations, ns.Name)
	}

	return &Result{Tables: tables, Inh: inh, Errs: errs}
}

func (c *Checker) pushScope()     { c.scopes = append(c.scopes, map[string]ast.Type{}) }
func (c *Checker) popScope()      { c.scopes = c.scopes[:len(c.scopes)-1] }
func (c *Checker) declare(name string, t ast.Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookup(name string) (ast.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return ast.Type{}, false
}

func (c *Checker) checkDeclarations(decls []ast.Declaration, namespace string) {
	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			top := c.scopes
			c.scopes = nil
			c.checkClass(decl, namespace)
			c.scopes = top
		case *ast.FunctionDecl:
			top := c.scopes
			c.scopes = nil
			c.checkFunction(decl, namespace)
			c.scopes = top
		case *ast.ModuleDecl:
			c.checkDeclarations(decl.Declarations, qualifyNS(namespace, decl.Name))
		case *ast.Namespace:
			c.checkDeclarations(decl.Declarations, qualifyNS(namespace, decl.Name))
		case *ast.TopLevelCommand:
			c.namespace = namespace
			if len(c.scopes) == 0 {
				c.pushScope()
			}
			c.checkStatement(decl.Command)
		}
	}
}

func qualifyNS(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func (c *Checker) checkFunction(fn *ast.FunctionDecl, namespace string) {
	c.namespace = namespace
	c.class = nil
	c.pushScope()
	for _, p := range fn.Parameters {
		c.declare(p.Name, c.resolveType(p.Type))
		if p.Default != nil {
			c.typeOf(*p.Default)
		}
	}
	c.checkBlock(fn.Body)
	c.popScope()
}

func (c *Checker) checkClass(decl *ast.ClassDecl, namespace string) {
	fqn := qualifyNS(namespace, decl.Name)
	rc := c.Inh.Resolve(fqn)
	if rc == nil {
		return
	}
	c.namespace = namespace
	c.class = rc

	for _, ctor := range decl.Constructors {
		c.checkBaseCall(ctor)
		c.checkMethod(ctor)
	}
	for _, m := range decl.Methods {
		if m.IsAbstract {
			continue
		}
		c.checkMethod(m)
	}
}

// checkBaseCall validates a constructor's explicit "super(args)" clause, if
// any: the class must have a parent, the parent must declare its own
// constructor, and the forwarded argument count must match it.
func (c *Checker) checkBaseCall(ctor *ast.MethodDecl) {
	if !ctor.HasBaseCall {
		return
	}
	if c.class.Parent == nil {
		c.Errs.Addf(errors.KindInheritance, ctor.Pos(), "constructor calls super(...) but class %q has no parent", c.class.Name)
		return
	}
	_, parentCtor := c.class.Parent.FindMethodOwner(bytecode.ConstructorName)
	if parentCtor == nil {
		c.Errs.Addf(errors.KindInheritance, ctor.Pos(), "class %q has no constructor for super(...) to call", c.class.Parent.Name)
	} else if len(ctor.BaseArgs) != len(parentCtor.Parameters) {
		c.Errs.Addf(errors.KindTypeMismatch, ctor.Pos(), "super(...) passes %d argument(s), constructor of %q expects %d", len(ctor.BaseArgs), c.class.Parent.Name, len(parentCtor.Parameters))
	}

	c.pushScope()
	for _, p := range ctor.Parameters {
		c.declare(p.Name, c.resolveType(p.Type))
	}
	for _, a := range ctor.BaseArgs {
		c.typeOf(a)
	}
	c.popScope()
}

func (c *Checker) checkMethod(m *ast.MethodDecl) {
	c.pushScope()
	for _, p := range m.Parameters {
		c.declare(p.Name, c.resolveType(p.Type))
		if p.Default != nil {
			c.typeOf(*p.Default)
		}
	}
	c.checkBlock(m.Body)
	c.popScope()
}

func (c *Checker) checkBlock(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	c.pushScope()
	for _, s := range b.Statements {
		c.checkStatement(s)
	}
	c.popScope()
}

func (c *Checker) checkStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDeclStatement:
		c.checkVarDecl(st)
	case *ast.AssignmentStatement:
		c.checkAssignment(st)
	case *ast.PropertyAssignmentStatement:
		c.checkPropertyAssignment(st)
	case *ast.IndexAssignmentStatement:
		c.checkIndexAssignment(st)
	case *ast.ExpressionStatement:
		c.typeOf(st.Expr)
	case *ast.PrintStatement:
		c.typeOf(st.Value)
	case *ast.ReturnStatement:
		if st.Value != nil {
			c.typeOf(st.Value)
		}
	case *ast.IfStatement:
		cond := c.typeOf(st.Condition)
		if !cond.Equal(ast.Boolean()) {
			c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "if-condition must be booleano, got %s", cond)
		}
		c.checkBlock(st.Then)
		if st.Else != nil {
			c.checkStatement(st.Else)
		}
	case *ast.WhileStatement:
		cond := c.typeOf(st.Condition)
		if !cond.Equal(ast.Boolean()) {
			c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "while-condition must be booleano, got %s", cond)
		}
		c.checkBlock(st.Body)
	case *ast.ForStatement:
		c.pushScope()
		if st.Init != nil {
			c.checkStatement(st.Init)
		}
		if st.Condition != nil {
			c.typeOf(st.Condition)
		}
		if st.Step != nil {
			c.checkStatement(st.Step)
		}
		c.checkBlock(st.Body)
		c.popScope()
	case *ast.BlockStatement:
		c.checkBlock(st)
	case *ast.CreateObjectStatement:
		c.typeOf(st.New)
	case *ast.CallMethodStatement:
		c.typeOf(st.Call)
	case *ast.ClassDecl:
		c.checkClass(st, c.namespace)
	}
}

func (c *Checker) checkVarDecl(st *ast.VarDeclStatement) {
	if st.Type.Inferred {
		if st.Initializer == nil {
			c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "var %q needs an initializer to infer its type", st.Name)
			c.declare(st.Name, ast.Inferred())
			return
		}
		t := c.typeOf(st.Initializer)
		c.declare(st.Name, t)
		return
	}
	declared := c.resolveType(st.Type)
	if st.Initializer != nil {
		actual := c.typeOf(st.Initializer)
		if !typesCompatible(declared, actual) {
			c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign %s to variable %q of type %s", actual, st.Name, declared)
		}
	}
	c.declare(st.Name, declared)
}

func (c *Checker) checkAssignment(st *ast.AssignmentStatement) {
	valueType := c.typeOf(st.Value)
	if c.class != nil && c.class.HasMember(st.Name) {
		if _, shadowed := c.lookup(st.Name); !shadowed {
			memberType, _ := c.class.MemberType(st.Name)
			declared := c.resolveType(memberType)
			if !typesCompatible(declared, valueType) {
				c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign %s to property %q of type %s", valueType, st.Name, declared)
			}
			return
		}
	}
	declared, ok := c.lookup(st.Name)
	if !ok {
		c.Errs.Addf(errors.KindNameResolution, st.Pos(), "assignment to undeclared variable %q", st.Name)
		return
	}
	if !typesCompatible(declared, valueType) {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign %s to variable %q of type %s", valueType, st.Name, declared)
	}
}

func (c *Checker) checkPropertyAssignment(st *ast.PropertyAssignmentStatement) {
	recvType := c.typeOf(st.Receiver)
	valueType := c.typeOf(st.Value)
	if recvType.Kind != ast.KindClass {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign property %q on non-class receiver of type %s", st.Name, recvType)
		return
	}
	rc := c.Inh.Resolve(recvType.ClassName)
	if rc == nil {
		c.Errs.Addf(errors.KindNameResolution, st.Pos(), "unknown class %q", recvType.ClassName)
		return
	}
	memberType, ok := rc.MemberType(st.Name)
	if !ok {
		c.Errs.Addf(errors.KindNameResolution, st.Pos(), "class %q has no property %q", rc.Name, st.Name)
		return
	}
	declared := c.resolveType(memberType)
	if !typesCompatible(declared, valueType) {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign %s to property %q of type %s", valueType, st.Name, declared)
	}
}

func (c *Checker) checkIndexAssignment(st *ast.IndexAssignmentStatement) {
	recvType := c.typeOf(st.Receiver)
	idxType := c.typeOf(st.Index)
	valueType := c.typeOf(st.Value)
	if !idxType.Equal(ast.Integer()) {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "index must be inteiro, got %s", idxType)
	}
	if recvType.Kind != ast.KindList {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot index non-list type %s", recvType)
		return
	}
	if !typesCompatible(*recvType.Elem, valueType) {
		c.Errs.Addf(errors.KindTypeMismatch, st.Pos(), "cannot assign %s into list of %s", valueType, *recvType.Elem)
	}
}
