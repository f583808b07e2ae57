// Package inherit is the inheritance resolver (component C3): it flattens
// each class into a ResolvedClass carrying the union of properties/fields
// and the most-derived method table visible from it, with derived-class-wins
// shadowing and cycle detection.
package inherit

import (
	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/errors"
)

// ResolvedClass is the flattened view of a class produced by inheritance
// resolution.
type ResolvedClass struct {
	Decl       *ast.ClassDecl
	Parent     *ResolvedClass
	Name       string
	Properties []*ast.FieldDecl // includes own + inherited, derived wins, own order first
	Fields     []*ast.FieldDecl
	Methods    map[string]*ast.MethodDecl // most-derived visible definition, by name
	IsAbstract bool
	IsStatic   bool
}

// HasMember reports whether name is one of C's flattened properties or
// fields.
func (c *ResolvedClass) HasMember(name string) bool {
	for _, p := range c.Properties {
		if p.Name == name {
			return true
		}
	}
	for _, f := range c.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// MemberType returns the declared type of a flattened property or field.
func (c *ResolvedClass) MemberType(name string) (*ast.TypeAnnotation, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p.Type, true
		}
	}
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FindMethodOwner walks the chain starting at C looking for the nearest
// ancestor (including C itself) that *declares* name directly — used by
// override validation, which needs the declaring class, not the flattened
// most-derived one.
func (c *ResolvedClass) FindMethodOwner(name string) (*ResolvedClass, *ast.MethodDecl) {
	for cur := c; cur != nil; cur = cur.Parent {
		for _, m := range cur.Decl.Methods {
			if m.Name == name {
				return cur, m
			}
		}
		for _, m := range cur.Decl.Constructors {
			if m.Name == name {
				return cur, m
			}
		}
	}
	return nil, nil
}

// IsAncestor reports whether other is c or a transitive parent of c.
func (c *ResolvedClass) IsAncestor(other *ResolvedClass) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Resolver memoizes ResolvedClass by fully-qualified name and detects
// inheritance cycles with a per-run visiting set.
type Resolver struct {
	classes  map[string]*ast.ClassDecl
	resolved map[string]*ResolvedClass
	visiting map[string]bool
	errs     *errors.List
}

func New(classes map[string]*ast.ClassDecl, errs *errors.List) *Resolver {
	return &Resolver{
		classes:  classes,
		resolved: map[string]*ResolvedClass{},
		visiting: map[string]bool{},
		errs:     errs,
	}
}

// Resolve returns the flattened ResolvedClass for fqn, resolving its parent
// chain first and memoizing the result.
func (r *Resolver) Resolve(fqn string) *ResolvedClass {
	if rc, ok := r.resolved[fqn]; ok {
		return rc
	}
	decl, ok := r.classes[fqn]
	if !ok {
		return nil
	}

	if r.visiting[fqn] {
		r.errs.Addf(errors.KindInheritance, decl.Pos(), "class %q participates in an inheritance cycle", fqn)
		empty := &ResolvedClass{Decl: decl, Name: fqn, Methods: map[string]*ast.MethodDecl{}}
		r.resolved[fqn] = empty
		return empty
	}
	r.visiting[fqn] = true
	defer delete(r.visiting, fqn)

	rc := &ResolvedClass{
		Decl:       decl,
		Name:       fqn,
		IsAbstract: decl.IsAbstract,
		IsStatic:   decl.IsStatic,
		Methods:    map[string]*ast.MethodDecl{},
	}

	var parent *ResolvedClass
	if decl.Parent != nil && *decl.Parent != "" && *decl.Parent != "NULO" {
		parent = r.Resolve(*decl.Parent)
		if parent == nil {
			r.errs.Addf(errors.KindInheritance, decl.Pos(), "class %q declares unknown parent %q", fqn, *decl.Parent)
		}
	}
	rc.Parent = parent

	rc.Properties = flatten(decl.Properties, parent, func(p *ResolvedClass) []*ast.FieldDecl { return p.Properties })
	rc.Fields = flatten(decl.Fields, parent, func(p *ResolvedClass) []*ast.FieldDecl { return p.Fields })

	for _, m := range decl.Methods {
		rc.Methods[m.Name] = m
	}
	for _, m := range decl.Constructors {
		rc.Methods[m.Name] = m
	}
	if parent != nil {
		for name, m := range parent.Methods {
			if _, shadowed := rc.Methods[name]; !shadowed {
				rc.Methods[name] = m
			}
		}
	}

	r.resolved[fqn] = rc
	return rc
}

// flatten builds own-first, then each parent field whose name isn't already
// present: the derived class's own member always wins over an inherited one
// of the same name.
func flatten(own []*ast.FieldDecl, parent *ResolvedClass, parentFields func(*ResolvedClass) []*ast.FieldDecl) []*ast.FieldDecl {
	seen := map[string]bool{}
	result := make([]*ast.FieldDecl, 0, len(own))
	for _, f := range own {
		if !seen[f.Name] {
			result = append(result, f)
			seen[f.Name] = true
		}
	}
	if parent != nil {
		for _, f := range parentFields(parent) {
			if !seen[f.Name] {
				result = append(result, f)
				seen[f.Name] = true
			}
		}
	}
	return result
}

// ValidateOverrides checks override validation rules for one class (run
// together with type checking, once per declared class).
func ValidateOverrides(rc *ResolvedClass, errs *errors.List) {
	for _, m := range rc.Decl.Methods {
		if m.IsVirtual && m.IsOverride {
			errs.Addf(errors.KindInheritance, m.Pos(), "method %q cannot be both virtual and override", m.Name)
		}
		if !m.IsOverride {
			continue
		}
		if rc.Parent == nil {
			errs.Addf(errors.KindInheritance, m.Pos(), "method %q is marked override but class %q has no parent", m.Name, rc.Name)
			continue
		}
		owner, ancestorMethod := rc.Parent.FindMethodOwner(m.Name)
		if owner == nil || ancestorMethod == nil {
			errs.Addf(errors.KindInheritance, m.Pos(), "method %q overrides nothing in an ancestor of %q", m.Name, rc.Name)
			continue
		}
		if !ancestorMethod.IsVirtual {
			errs.Addf(errors.KindInheritance, m.Pos(), "method %q overrides non-virtual method %q declared in %q", m.Name, ancestorMethod.Name, owner.Name)
			continue
		}
		if !sameParamTypes(m.ParamTypes(), ancestorMethod.ParamTypes()) {
			errs.Addf(errors.KindInheritance, m.Pos(), "method %q overrides %q in %q with a different parameter list", m.Name, ancestorMethod.Name, owner.Name)
		}
	}
}

func sameParamTypes(a, b []*ast.TypeAnnotation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if typeAnnotationName(a[i]) != typeAnnotationName(b[i]) {
			return false
		}
	}
	return true
}

func typeAnnotationName(t *ast.TypeAnnotation) string {
	if t == nil {
		return ""
	}
	if t.Elem != nil {
		return t.Name + "<" + typeAnnotationName(t.Elem) + ">"
	}
	return t.Name
}
