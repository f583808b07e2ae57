package check

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/errors"
	"github.com/cwbudde/go-portugol/internal/inherit"
	"github.com/cwbudde/go-portugol/internal/lexer"
)

// typeOf computes the type of an expression, recording a type-mismatch or
// name-resolution diagnostic and returning Inferred (the wildcard) whenever
// it cannot determine one — this lets the walk continue and surface as many
// diagnostics as possible in one pass.
func (c *Checker) typeOf(e ast.Expression) ast.Type {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		return ast.Integer()
	case *ast.TextLiteral:
		return ast.Text()
	case *ast.BooleanLiteral:
		return ast.Boolean()
	case *ast.FloatLiteral:
		return ast.Float()
	case *ast.DoubleLiteral:
		return ast.Double()
	case *ast.DecimalLiteral:
		return ast.Decimal()
	case *ast.NullLiteral:
		return ast.Inferred()
	case *ast.This:
		if c.class == nil {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "este used outside an instance method")
			return ast.Inferred()
		}
		return ast.ClassType(c.class.Name)
	case *ast.Identifier:
		return c.identifierType(ex)
	case *ast.MemberAccessExpr:
		return c.memberAccessType(ex)
	case *ast.IndexAccessExpr:
		return c.indexAccessType(ex)
	case *ast.NewObjectExpr:
		return c.newObjectType(ex)
	case *ast.MethodCallExpr:
		return c.methodCallType(ex)
	case *ast.FunctionCallExpr:
		return c.functionCallType(ex)
	case *ast.ArithmeticExpr:
		return c.arithmeticType(ex)
	case *ast.ComparisonExpr:
		c.typeOf(ex.Left)
		c.typeOf(ex.Right)
		return ast.Boolean()
	case *ast.LogicalExpr:
		left := c.typeOf(ex.Left)
		right := c.typeOf(ex.Right)
		if !left.Equal(ast.Boolean()) || !right.Equal(ast.Boolean()) {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "logical operator requires booleano operands, got %s and %s", left, right)
		}
		return ast.Boolean()
	case *ast.UnaryExpr:
		operand := c.typeOf(ex.Operand)
		if ex.Op == ast.OpNot {
			if !operand.Equal(ast.Boolean()) {
				c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "negation requires a booleano operand, got %s", operand)
			}
			return ast.Boolean()
		}
		if !operand.IsNumeric() {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "unary minus requires a numeric operand, got %s", operand)
		}
		return operand
	case *ast.ListLiteral:
		return c.listLiteralType(ex)
	case *ast.InterpolatedString:
		for _, p := range ex.Parts {
			if p.IsExpr() {
				t := c.typeOf(p.Expr)
				if !isTextExpressible(t) {
					c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "value of type %s cannot appear inside an interpolated string", t)
				}
			}
		}
		return ast.Text()
	default:
		return ast.Inferred()
	}
}

func (c *Checker) identifierType(ex *ast.Identifier) ast.Type {
	if t, ok := c.lookup(ex.Value); ok {
		return t
	}
	if c.class != nil && c.class.HasMember(ex.Value) {
		memberType, _ := c.class.MemberType(ex.Value)
		return c.resolveType(memberType)
	}
	c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "undeclared identifier %q", ex.Value)
	return ast.Inferred()
}

func (c *Checker) memberAccessType(ex *ast.MemberAccessExpr) ast.Type {
	recvType := c.typeOf(ex.Receiver)
	if recvType.Kind != ast.KindClass {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "cannot access member %q on non-class type %s", ex.Member, recvType)
		return ast.Inferred()
	}
	rc := c.Inh.Resolve(recvType.ClassName)
	if rc == nil {
		c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "unknown class %q", recvType.ClassName)
		return ast.Inferred()
	}
	memberType, ok := rc.MemberType(ex.Member)
	if !ok {
		c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "class %q has no member %q", rc.Name, ex.Member)
		return ast.Inferred()
	}
	return c.resolveType(memberType)
}

func (c *Checker) indexAccessType(ex *ast.IndexAccessExpr) ast.Type {
	recvType := c.typeOf(ex.Receiver)
	idxType := c.typeOf(ex.Index)
	if !idxType.Equal(ast.Integer()) {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "index must be inteiro, got %s", idxType)
	}
	if recvType.Kind != ast.KindList {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "cannot index non-list type %s", recvType)
		return ast.Inferred()
	}
	return *recvType.Elem
}

// newObjectType validates abstract-instantiation rejection and constructor
// argument-count/defaults matching, then yields the class's own type.
func (c *Checker) newObjectType(ex *ast.NewObjectExpr) ast.Type {
	for _, a := range ex.Args {
		c.typeOf(a)
	}
	rc := c.Inh.Resolve(ex.ClassName)
	if rc == nil {
		c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "unknown class %q", ex.ClassName)
		return ast.Inferred()
	}
	if rc.IsAbstract {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "cannot instantiate abstract class %q", rc.Name)
	}

	ctor := constructorFor(rc)
	if ctor == nil {
		if len(ex.Args) != 0 {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "class %q has no constructor accepting %d argument(s)", rc.Name, len(ex.Args))
		}
		return ast.ClassType(rc.Name)
	}
	minArgs := 0
	for _, p := range ctor.Parameters {
		if p.Default == nil {
			minArgs++
		}
	}
	if len(ex.Args) < minArgs || len(ex.Args) > len(ctor.Parameters) {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "constructor for %q expects between %d and %d argument(s), got %d", rc.Name, minArgs, len(ctor.Parameters), len(ex.Args))
	}
	return ast.ClassType(rc.Name)
}

// constructorFor returns the class's own declared constructor. Overload
// resolution here is arity-only: the parser accepts several constructors in
// one class, but only the first declared one is ever considered.
func constructorFor(rc *inherit.ResolvedClass) *ast.MethodDecl {
	if len(rc.Decl.Constructors) == 0 {
		return nil
	}
	return rc.Decl.Constructors[0]
}

func (c *Checker) methodCallType(ex *ast.MethodCallExpr) ast.Type {
	for _, a := range ex.Args {
		c.typeOf(a)
	}
	if ex.Receiver == nil {
		if c.class == nil {
			c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "bare call to %q outside any class", ex.Name)
			return ast.Inferred()
		}
		return c.resolveMethodReturn(c.class, ex.Name, ex.Pos())
	}

	if ident, ok := ex.Receiver.(*ast.Identifier); ok {
		if rc := c.Inh.Resolve(ident.Value); rc != nil && rc.IsStatic {
			return c.resolveMethodReturn(rc, ex.Name, ex.Pos())
		}
	}

	recvType := c.typeOf(ex.Receiver)
	if recvType.Kind != ast.KindClass {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "cannot call method %q on non-class type %s", ex.Name, recvType)
		return ast.Inferred()
	}
	rc := c.Inh.Resolve(recvType.ClassName)
	if rc == nil {
		c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "unknown class %q", recvType.ClassName)
		return ast.Inferred()
	}
	return c.resolveMethodReturn(rc, ex.Name, ex.Pos())
}

func (c *Checker) resolveMethodReturn(rc *inherit.ResolvedClass, name string, pos lexer.Position) ast.Type {
	m, ok := rc.Methods[name]
	if !ok {
		c.Errs.Addf(errors.KindNameResolution, pos, "class %q has no method %q", rc.Name, name)
		return ast.Inferred()
	}
	if m.ReturnType == nil {
		return ast.Void()
	}
	return c.resolveType(m.ReturnType)
}

func (c *Checker) functionCallType(ex *ast.FunctionCallExpr) ast.Type {
	for _, a := range ex.Args {
		c.typeOf(a)
	}
	fn, ok := c.Tables.Functions[ex.Name]
	if !ok {
		c.Errs.Addf(errors.KindNameResolution, ex.Pos(), "undeclared function %q", ex.Name)
		return ast.Inferred()
	}
	if fn.ReturnType == nil {
		return ast.Void()
	}
	return c.resolveType(fn.ReturnType)
}

// arithmeticType implements arithmetic typing: `+` is polymorphic (text-
// concat when either side is texto, else numeric add widened to the wider
// operand's type); the other four operators require identical numeric types
// on both sides.
func (c *Checker) arithmeticType(ex *ast.ArithmeticExpr) ast.Type {
	left := c.typeOf(ex.Left)
	right := c.typeOf(ex.Right)

	if ex.Op == ast.OpAdd {
		if left.Kind == ast.KindText || right.Kind == ast.KindText {
			return ast.Text()
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "+ requires numeric or texto operands, got %s and %s", left, right)
			return ast.Inferred()
		}
		return ast.WiderNumeric(left, right)
	}

	if !left.IsNumeric() || !right.IsNumeric() {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "arithmetic operator requires numeric operands, got %s and %s", left, right)
		return ast.Inferred()
	}
	if !left.Equal(right) {
		c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "arithmetic operator requires operands of the same numeric type, got %s and %s", left, right)
		return left
	}
	return left
}

func (c *Checker) listLiteralType(ex *ast.ListLiteral) ast.Type {
	if len(ex.Elements) == 0 {
		return ast.ListOf(ast.Inferred())
	}
	elem := c.typeOf(ex.Elements[0])
	for _, el := range ex.Elements[1:] {
		t := c.typeOf(el)
		if !typesCompatible(elem, t) {
			c.Errs.Addf(errors.KindTypeMismatch, ex.Pos(), "list literal mixes %s and %s", elem, t)
		}
	}
	return ast.ListOf(elem)
}
