package ast

import "github.com/cwbudde/go-portugol/internal/lexer"

// FunctionDecl declares a free (non-method) function.
type FunctionDecl struct {
	ReturnType *TypeAnnotation
	Body       *BlockStatement
	Token      lexer.Token
	Name       string
	Parameters []Parameter
}

func (f *FunctionDecl) declarationNode()     {}
func (f *FunctionDecl) statementNode()       {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Pos() lexer.Position  { return f.Token.Pos }

// EnumDecl declares an ordered set of named members. Each member's lowered
// value is its 0-based ordinal.
type EnumDecl struct {
	Token   lexer.Token
	Name    string
	Members []string
}

func (e *EnumDecl) declarationNode()     {}
func (e *EnumDecl) statementNode()       {}
func (e *EnumDecl) TokenLiteral() string { return e.Token.Literal }
func (e *EnumDecl) Pos() lexer.Position  { return e.Token.Pos }

// Ordinal returns the 0-based position of member in the enum, and whether
// it was found.
func (e *EnumDecl) Ordinal(member string) (int, bool) {
	for i, m := range e.Members {
		if m == member {
			return i, true
		}
	}
	return 0, false
}
