package ast

import "github.com/cwbudde/go-portugol/internal/lexer"

// TopLevelCommand wraps a command appearing directly at the top level of a
// program, e.g. for a script-style entry point with no explicit `principal`
// function.
type TopLevelCommand struct {
	Command Statement
	Token   lexer.Token
}

func (t *TopLevelCommand) declarationNode()     {}
func (t *TopLevelCommand) TokenLiteral() string { return t.Token.Literal }
func (t *TopLevelCommand) Pos() lexer.Position  { return t.Token.Pos }

// TypeAliasDecl introduces an alternate name for an existing type. The
// checker resolves Target eagerly; the alias itself never appears in
// lowered bytecode.
type TypeAliasDecl struct {
	Target *TypeAnnotation
	Token  lexer.Token
	Name   string
}

func (t *TypeAliasDecl) declarationNode()     {}
func (t *TypeAliasDecl) TokenLiteral() string { return t.Token.Literal }
func (t *TypeAliasDecl) Pos() lexer.Position  { return t.Token.Pos }

// ModuleDecl and ImportDecl/ExportDecl are accepted by the parser and
// carried in the AST so the module/importing subsystem (treated as an
// external collaborator here) has something to consume; the core pipeline
// (C2-C6) treats a ModuleDecl's body as an ordinary Namespace and ignores
// Import/Export markers, since cross-file resolution is out of scope here.
type ModuleDecl struct {
	Token        lexer.Token
	Name         string
	Declarations []Declaration
}

func (m *ModuleDecl) declarationNode()     {}
func (m *ModuleDecl) TokenLiteral() string { return m.Token.Literal }
func (m *ModuleDecl) Pos() lexer.Position  { return m.Token.Pos }

type ImportDecl struct {
	Token lexer.Token
	Path  string
}

func (i *ImportDecl) declarationNode()     {}
func (i *ImportDecl) TokenLiteral() string { return i.Token.Literal }
func (i *ImportDecl) Pos() lexer.Position  { return i.Token.Pos }

type ExportDecl struct {
	Token lexer.Token
	Name  string
}

func (e *ExportDecl) declarationNode()     {}
func (e *ExportDecl) TokenLiteral() string { return e.Token.Literal }
func (e *ExportDecl) Pos() lexer.Position  { return e.Token.Pos }

// InterfaceDecl declares a named method signature set. The type system's
// closed Kind set (types.go) has no Interface variant: a class that lists
// an interface only promises the method names exist, which is exactly what
// the checker already validates for any method call, so no separate
// conformance pass is needed.
type InterfaceDecl struct {
	Token      lexer.Token
	Name       string
	MethodDecl []*MethodSignature
}

func (i *InterfaceDecl) declarationNode()     {}
func (i *InterfaceDecl) TokenLiteral() string { return i.Token.Literal }
func (i *InterfaceDecl) Pos() lexer.Position  { return i.Token.Pos }

// MethodSignature names a method an interface requires, without a body.
type MethodSignature struct {
	ReturnType *TypeAnnotation
	Name       string
	Parameters []Parameter
}
