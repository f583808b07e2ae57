package ast

import "github.com/cwbudde/go-portugol/internal/lexer"

// IfStatement is `se (Cond) Then [senao Else]`.
type IfStatement struct {
	Condition Expression
	Then      *BlockStatement
	Else      Statement // *BlockStatement or *IfStatement (else-if chain), nil if absent
	Token     lexer.Token
}

func (s *IfStatement) statementNode()     {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) Pos() lexer.Position  { return s.Token.Pos }

// WhileStatement is `enquanto (Cond) faca Body`.
type WhileStatement struct {
	Condition Expression
	Body      *BlockStatement
	Token     lexer.Token
}

func (s *WhileStatement) statementNode()     {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) Pos() lexer.Position  { return s.Token.Pos }

// ForStatement is a counted loop: `para (Init; Cond; Step) faca Body`.
type ForStatement struct {
	Init      Statement // typically a VarDeclStatement or AssignmentStatement
	Condition Expression
	Step      Statement
	Body      *BlockStatement
	Token     lexer.Token
}

func (s *ForStatement) statementNode()     {}
func (s *ForStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForStatement) Pos() lexer.Position  { return s.Token.Pos }

// CreateObjectStatement is `novo NomeDaClasse(args);` used as a bare
// statement (object created and discarded, e.g. for constructor side
// effects on static state).
type CreateObjectStatement struct {
	New   *NewObjectExpr
	Token lexer.Token
}

func (s *CreateObjectStatement) statementNode()     {}
func (s *CreateObjectStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CreateObjectStatement) Pos() lexer.Position  { return s.Token.Pos }

// CallMethodStatement calls a method purely for its side effect.
type CallMethodStatement struct {
	Call  *MethodCallExpr
	Token lexer.Token
}

func (s *CallMethodStatement) statementNode()     {}
func (s *CallMethodStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CallMethodStatement) Pos() lexer.Position  { return s.Token.Pos }
