package ast

import "github.com/cwbudde/go-portugol/internal/lexer"

// TypeAnnotation is the parser's surface-syntax representation of a type;
// the name resolver and type checker turn it into an ast.Type.
type TypeAnnotation struct {
	Name     string // e.g. "inteiro", "Pessoa", "Lista"
	Elem     *TypeAnnotation
	Inferred bool
}

// VarDeclStatement declares a local variable, typed or (Inferred==true) not.
type VarDeclStatement struct {
	Type        *TypeAnnotation
	Initializer Expression
	Token       lexer.Token
	Name        string
}

func (s *VarDeclStatement) statementNode()     {}
func (s *VarDeclStatement) TokenLiteral() string { return s.Token.Literal }
func (s *VarDeclStatement) Pos() lexer.Position  { return s.Token.Pos }

// AssignmentStatement assigns to a plain identifier (which the checker may
// rewrite to a PropertyAssignmentStatement if the name is a class member).
type AssignmentStatement struct {
	Value Expression
	Token lexer.Token
	Name  string
}

func (s *AssignmentStatement) statementNode()     {}
func (s *AssignmentStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AssignmentStatement) Pos() lexer.Position  { return s.Token.Pos }

// PropertyAssignmentStatement assigns to receiver.Name.
type PropertyAssignmentStatement struct {
	Receiver Expression
	Value    Expression
	Token    lexer.Token
	Name     string
}

func (s *PropertyAssignmentStatement) statementNode()     {}
func (s *PropertyAssignmentStatement) TokenLiteral() string { return s.Token.Literal }
func (s *PropertyAssignmentStatement) Pos() lexer.Position  { return s.Token.Pos }

// IndexAssignmentStatement assigns to receiver[index].
type IndexAssignmentStatement struct {
	Receiver Expression
	Index    Expression
	Value    Expression
	Token    lexer.Token
}

func (s *IndexAssignmentStatement) statementNode()     {}
func (s *IndexAssignmentStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IndexAssignmentStatement) Pos() lexer.Position  { return s.Token.Pos }

// ExpressionStatement evaluates an expression and discards its value,
// covering bare method-call and function-call statements.
type ExpressionStatement struct {
	Expr  Expression
	Token lexer.Token
}

func (s *ExpressionStatement) statementNode()     {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) Pos() lexer.Position  { return s.Token.Pos }

// PrintStatement prints the canonical textual form of a value.
type PrintStatement struct {
	Value Expression
	Token lexer.Token
}

func (s *PrintStatement) statementNode()     {}
func (s *PrintStatement) TokenLiteral() string { return s.Token.Literal }
func (s *PrintStatement) Pos() lexer.Position  { return s.Token.Pos }

// ReturnStatement returns from the enclosing method or function.
type ReturnStatement struct {
	Value Expression // nil for a void return
	Token lexer.Token
}

func (s *ReturnStatement) statementNode()     {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) Pos() lexer.Position  { return s.Token.Pos }

// BlockStatement is an ordered sequence of statements sharing one scope.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (s *BlockStatement) statementNode()     {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) Pos() lexer.Position  { return s.Token.Pos }
