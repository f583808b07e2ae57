// Package resolve is the name resolver (component C2): it builds the global
// class/function/enum tables and rewrites unqualified names in the AST to
// fully-qualified ones, once, before C3/C4 run.
package resolve

import (
	"fmt"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/errors"
)

// Tables is the frozen-after-build symbol table the rest of the pipeline
// consults by fully-qualified name.
type Tables struct {
	Classes    map[string]*ast.ClassDecl
	Functions  map[string]*ast.FunctionDecl
	Enums      map[string]*ast.EnumDecl
	Interfaces map[string]*ast.InterfaceDecl
}

func newTables() *Tables {
	return &Tables{
		Classes:    map[string]*ast.ClassDecl{},
		Functions:  map[string]*ast.FunctionDecl{},
		Enums:      map[string]*ast.EnumDecl{},
		Interfaces: map[string]*ast.InterfaceDecl{},
	}
}

// Has reports whether fqn names any registered class, function, enum or
// interface — the global symbol table every name-resolution lookup runs
// against.
func (t *Tables) Has(fqn string) bool {
	if _, ok := t.Classes[fqn]; ok {
		return true
	}
	if _, ok := t.Functions[fqn]; ok {
		return true
	}
	if _, ok := t.Enums[fqn]; ok {
		return true
	}
	if _, ok := t.Interfaces[fqn]; ok {
		return true
	}
	return false
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// BuildTables walks Program once, registering every class/function/enum/
// interface declaration under its fully-qualified name. Symbol tables are
// populated in this one pass before checking, then frozen.
func BuildTables(prog *ast.Program) (*Tables, *errors.List) {
	t := newTables()
	list := &errors.List{}
	register(t, list, prog.Declarations, "")
	for _, ns := range prog.Namespaces {
		register(t, list, ns.Declarations, ns.Name)
	}
	return t, list
}

func register(t *Tables, list *errors.List, decls []ast.Declaration, namespace string) {
	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			fqn := qualify(namespace, decl.Name)
			if _, dup := t.Classes[fqn]; dup {
				list.Addf(errors.KindNameResolution, decl.Pos(), "class %q declared more than once", fqn)
				continue
			}
			t.Classes[fqn] = decl
		case *ast.FunctionDecl:
			fqn := qualify(namespace, decl.Name)
			if _, dup := t.Functions[fqn]; dup {
				list.Addf(errors.KindNameResolution, decl.Pos(), "function %q declared more than once", fqn)
				continue
			}
			t.Functions[fqn] = decl
		case *ast.EnumDecl:
			fqn := qualify(namespace, decl.Name)
			if _, dup := t.Enums[fqn]; dup {
				list.Addf(errors.KindNameResolution, decl.Pos(), "enum %q declared more than once", fqn)
				continue
			}
			t.Enums[fqn] = decl
		case *ast.InterfaceDecl:
			fqn := qualify(namespace, decl.Name)
			t.Interfaces[fqn] = decl
		case *ast.ModuleDecl:
			// A module behaves as a nested namespace for resolution purposes
			// (declarations.go's ModuleDecl doc comment).
			register(t, list, decl.Declarations, qualify(namespace, decl.Name))
		case *ast.Namespace:
			register(t, list, decl.Declarations, qualify(namespace, decl.Name))
		case *ast.TypeAliasDecl, *ast.ImportDecl, *ast.ExportDecl, *ast.TopLevelCommand:
			// Carried in the AST but not registered as resolvable symbols.
		default:
			list.Addf(errors.KindNameResolution, d.Pos(), "unrecognized declaration %T", d)
		}
	}
}

func (t *Tables) String() string {
	return fmt.Sprintf("Tables{classes=%d, functions=%d, enums=%d}", len(t.Classes), len(t.Functions), len(t.Enums))
}
