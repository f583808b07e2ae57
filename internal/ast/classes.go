package ast

import "github.com/cwbudde/go-portugol/internal/lexer"

// Parameter is a method/function/constructor formal parameter, with an
// optional default-value expression.
type Parameter struct {
	Default *Expression
	Type    *TypeAnnotation
	Name    string
}

// ClassDecl declares a class: its parent, its own properties/fields,
// constructors and methods. Inheritance flattening (internal/inherit) adds
// the ancestor-derived properties, fields and methods at resolution time;
// this node only ever holds what the class itself declares.
type ClassDecl struct {
	Parent       *string
	Name         string
	Properties   []*FieldDecl
	Fields       []*FieldDecl
	Constructors []*MethodDecl
	Methods      []*MethodDecl
	Token        lexer.Token
	IsAbstract   bool
	IsStatic     bool
}

func (c *ClassDecl) declarationNode()     {}
func (c *ClassDecl) statementNode()       {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) Pos() lexer.Position  { return c.Token.Pos }

// FieldDecl declares a field or a property (both are named, typed slots on
// an object; properties additionally may be read through accessor sugar,
// which this language surface does not expose — they are data slots).
type FieldDecl struct {
	Type  *TypeAnnotation
	Token lexer.Token
	Name  string
}

func (f *FieldDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FieldDecl) Pos() lexer.Position  { return f.Token.Pos }

// MethodDecl declares a constructor or an ordinary method.
//
// HasBaseCall/BaseArgs hold a constructor's explicit "super(args...)"
// clause. CALL_BASE_CONSTRUCTOR is only ever lowered when HasBaseCall is
// true, never merely because the class has a parent.
type MethodDecl struct {
	ReturnType  *TypeAnnotation // nil for constructors and void methods
	Body        *BlockStatement
	Token       lexer.Token
	Name        string
	Parameters  []Parameter
	BaseArgs    []Expression
	HasBaseCall bool
	IsStatic    bool
	IsVirtual   bool
	IsOverride  bool
	IsAbstract  bool
}

func (m *MethodDecl) TokenLiteral() string { return m.Token.Literal }
func (m *MethodDecl) Pos() lexer.Position  { return m.Token.Pos }

// ParamTypes returns the method's parameter types in order, used by
// override-signature comparison.
func (m *MethodDecl) ParamTypes() []*TypeAnnotation {
	types := make([]*TypeAnnotation, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}
