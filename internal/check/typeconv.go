package check

import "github.com/cwbudde/go-portugol/internal/ast"

// resolveType turns a parsed TypeAnnotation into the runtime ast.Type used
// for structural equality throughout checking. Enum-typed annotations carry
// no dedicated Kind in the closed variant set, so they are represented as a
// KindClass wearing the enum's fully-qualified name: this is enough for the
// checker's structural-equality needs (an enum-typed slot only ever compares
// against its own enum), while the lowerer/VM already treat enum *values* as
// plain integers via ordinal folding in internal/resolve. See DESIGN.md's
// "Enum representation" entry.
func (c *Checker) resolveType(ta *ast.TypeAnnotation) ast.Type {
	if ta == nil || ta.Inferred {
		return ast.Inferred()
	}
	switch ta.Name {
	case "inteiro":
		return ast.Integer()
	case "texto":
		return ast.Text()
	case "booleano":
		return ast.Boolean()
	case "vazio":
		return ast.Void()
	case "decimal":
		return ast.Decimal()
	case "flutuante":
		return ast.Float()
	case "duplo":
		return ast.Double()
	case "Lista":
		elem := c.resolveType(ta.Elem)
		return ast.ListOf(elem)
	default:
		return ast.ClassType(ta.Name)
	}
}

// typesCompatible implements the one widening rule shared by typed var
// decls, assignments, property assignments and index assignments: exact
// structural equality, with one sanctioned widening, text <- integer.
func typesCompatible(declared, actual ast.Type) bool {
	if declared.Equal(actual) {
		return true
	}
	if declared.Kind == ast.KindText && actual.Kind == ast.KindInteger {
		return true
	}
	return false
}

// isTextExpressible reports whether t can appear as an interpolated-string
// expression part: integer, float, double, decimal, text, boolean, an
// inferred type, or a class (which carries its own canonical textual form
// via value.Value.String at runtime). Every other kind is rejected.
func isTextExpressible(t ast.Type) bool {
	switch t.Kind {
	case ast.KindInteger, ast.KindText, ast.KindBoolean, ast.KindClass,
		ast.KindFloat, ast.KindDouble, ast.KindDecimal, ast.KindInferred:
		return true
	default:
		return false
	}
}
