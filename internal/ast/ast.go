package ast

import (
	"strings"

	"github.com/cwbudde/go-portugol/internal/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	Pos() lexer.Position
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level or namespace-level declaration.
type Declaration interface {
	Node
	declarationNode()
}

// Program is the root of the AST: an ordered list of using directives,
// namespaces, and top-level declarations.
type Program struct {
	Usings       []string
	Namespaces   []*Namespace
	Declarations []Declaration
}

func (p *Program) TokenLiteral() string { return "programa" }
func (p *Program) Pos() lexer.Position  { return lexer.Position{Line: 1, Column: 1} }

// Namespace groups an ordered list of declarations under a dot-separated
// qualified name.
type Namespace struct {
	Name         string
	Declarations []Declaration
	Token        lexer.Token
}

func (n *Namespace) TokenLiteral() string { return n.Token.Literal }
func (n *Namespace) Pos() lexer.Position  { return n.Token.Pos }
func (n *Namespace) declarationNode()     {}

// Identifier names a variable, class, function, or member.
type Identifier struct {
	Value string
	Token lexer.Token
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// This refers to the receiver inside an instance method body.
type This struct {
	Token lexer.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Token.Literal }
func (t *This) Pos() lexer.Position  { return t.Token.Pos }

// ---- Literals ----

type IntegerLiteral struct {
	Value int64
	Token lexer.Token
}

func (l *IntegerLiteral) expressionNode()      {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *IntegerLiteral) Pos() lexer.Position  { return l.Token.Pos }

type TextLiteral struct {
	Value string
	Token lexer.Token
}

func (l *TextLiteral) expressionNode()      {}
func (l *TextLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *TextLiteral) Pos() lexer.Position  { return l.Token.Pos }

type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (l *BooleanLiteral) expressionNode()      {}
func (l *BooleanLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *BooleanLiteral) Pos() lexer.Position  { return l.Token.Pos }

type FloatLiteral struct {
	Value float64
	Token lexer.Token
}

func (l *FloatLiteral) expressionNode()      {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *FloatLiteral) Pos() lexer.Position  { return l.Token.Pos }

type DoubleLiteral struct {
	Value float64
	Token lexer.Token
}

func (l *DoubleLiteral) expressionNode()      {}
func (l *DoubleLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *DoubleLiteral) Pos() lexer.Position  { return l.Token.Pos }

type DecimalLiteral struct {
	Value string // preserved textual form; exact decimal semantics are host-defined
	Token lexer.Token
}

func (l *DecimalLiteral) expressionNode()      {}
func (l *DecimalLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *DecimalLiteral) Pos() lexer.Position  { return l.Token.Pos }

// NullLiteral is the literal for an absent reference or optional value.
type NullLiteral struct {
	Token lexer.Token
}

func (l *NullLiteral) expressionNode()      {}
func (l *NullLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *NullLiteral) Pos() lexer.Position  { return l.Token.Pos }

// ListLiteral is an expression constructing a List of T in place.
type ListLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) Pos() lexer.Position  { return l.Token.Pos }

// ---- Interpolated strings ----

// InterpolatedPart is either a literal text fragment or an embedded
// expression inside an interpolated string.
type InterpolatedPart struct {
	Expr Expression
	Text string
}

func (p InterpolatedPart) IsExpr() bool { return p.Expr != nil }

type InterpolatedString struct {
	Token lexer.Token
	Parts []InterpolatedPart
}

func (i *InterpolatedString) expressionNode()      {}
func (i *InterpolatedString) TokenLiteral() string { return i.Token.Literal }
func (i *InterpolatedString) Pos() lexer.Position  { return i.Token.Pos }

// ---- Operators ----

type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
)

type ArithmeticExpr struct {
	Left, Right Expression
	Token       lexer.Token
	Op          ArithOp
}

func (e *ArithmeticExpr) expressionNode()      {}
func (e *ArithmeticExpr) TokenLiteral() string { return e.Token.Literal }
func (e *ArithmeticExpr) Pos() lexer.Position  { return e.Token.Pos }

type ComparisonExpr struct {
	Left, Right Expression
	Token       lexer.Token
	Op          CompareOp
}

func (e *ComparisonExpr) expressionNode()      {}
func (e *ComparisonExpr) TokenLiteral() string { return e.Token.Literal }
func (e *ComparisonExpr) Pos() lexer.Position  { return e.Token.Pos }

type LogicalExpr struct {
	Left, Right Expression
	Token       lexer.Token
	Op          LogicalOp
}

func (e *LogicalExpr) expressionNode()      {}
func (e *LogicalExpr) TokenLiteral() string { return e.Token.Literal }
func (e *LogicalExpr) Pos() lexer.Position  { return e.Token.Pos }

type UnaryExpr struct {
	Operand Expression
	Token   lexer.Token
	Op      UnaryOp
}

func (e *UnaryExpr) expressionNode()      {}
func (e *UnaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *UnaryExpr) Pos() lexer.Position  { return e.Token.Pos }

// ---- Member / index access ----

type MemberAccessExpr struct {
	Receiver Expression
	Member   string
	Token    lexer.Token
}

func (e *MemberAccessExpr) expressionNode()      {}
func (e *MemberAccessExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MemberAccessExpr) Pos() lexer.Position  { return e.Token.Pos }

type IndexAccessExpr struct {
	Receiver Expression
	Index    Expression
	Token    lexer.Token
}

func (e *IndexAccessExpr) expressionNode()      {}
func (e *IndexAccessExpr) TokenLiteral() string { return e.Token.Literal }
func (e *IndexAccessExpr) Pos() lexer.Position  { return e.Token.Pos }

// ---- Calls ----

// NewObjectExpr instantiates a class: novo NomeDaClasse(args...).
type NewObjectExpr struct {
	Token     lexer.Token
	ClassName string
	Args      []Expression
}

func (e *NewObjectExpr) expressionNode()      {}
func (e *NewObjectExpr) TokenLiteral() string { return e.Token.Literal }
func (e *NewObjectExpr) Pos() lexer.Position  { return e.Token.Pos }

// MethodCallExpr calls receiver.Name(args...). Receiver is nil for a bare
// call inside a method body (implicit this).
type MethodCallExpr struct {
	Receiver Expression
	Token    lexer.Token
	Name     string
	Args     []Expression
}

func (e *MethodCallExpr) expressionNode()      {}
func (e *MethodCallExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MethodCallExpr) Pos() lexer.Position  { return e.Token.Pos }

// FunctionCallExpr calls a free function by (possibly unqualified) name.
type FunctionCallExpr struct {
	Token lexer.Token
	Name  string
	Args  []Expression
}

func (e *FunctionCallExpr) expressionNode()      {}
func (e *FunctionCallExpr) TokenLiteral() string { return e.Token.Literal }
func (e *FunctionCallExpr) Pos() lexer.Position  { return e.Token.Pos }

// ExprString renders a minimal debug form, used by error messages and tests.
func ExprString(e Expression) string {
	switch n := e.(type) {
	case *Identifier:
		return n.Value
	case *This:
		return "este"
	case *IntegerLiteral:
		return n.Token.Literal
	case *TextLiteral:
		return "\"" + n.Value + "\""
	default:
		return strings.TrimSpace(e.TokenLiteral())
	}
}
