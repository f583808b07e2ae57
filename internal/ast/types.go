// Package ast defines the abstract syntax tree and the closed type-variant
// set shared by the name resolver, inheritance resolver, type checker and
// bytecode lowerer.
package ast

import "fmt"

// Kind enumerates the closed set of type variants a Portugol value or
// declaration can carry.
type Kind int

const (
	KindInferred Kind = iota
	KindInteger
	KindText
	KindBoolean
	KindVoid
	KindDecimal
	KindFloat
	KindDouble
	KindList
	KindClass
	KindFunction
	KindOptional
)

// Type is the closed, structurally-equal type representation used
// throughout the pipeline. Inferred compares equal to anything: it is the
// lattice bottom used while a type has not yet been determined.
type Type struct {
	// ClassName is set when Kind == KindClass; it is a fully-qualified name.
	ClassName string
	// Elem is the element type for KindList and KindOptional.
	Elem *Type
	// Params and Result describe a KindFunction type.
	Params []Type
	Result *Type
	Kind   Kind
}

func Integer() Type { return Type{Kind: KindInteger} }
func Text() Type    { return Type{Kind: KindText} }
func Boolean() Type { return Type{Kind: KindBoolean} }
func Void() Type    { return Type{Kind: KindVoid} }
func Decimal() Type { return Type{Kind: KindDecimal} }
func Float() Type   { return Type{Kind: KindFloat} }
func Double() Type  { return Type{Kind: KindDouble} }
func Inferred() Type { return Type{Kind: KindInferred} }

func ListOf(elem Type) Type     { return Type{Kind: KindList, Elem: &elem} }
func OptionalOf(elem Type) Type { return Type{Kind: KindOptional, Elem: &elem} }
func ClassType(fqn string) Type { return Type{Kind: KindClass, ClassName: fqn} }
func FuncType(params []Type, result Type) Type {
	return Type{Kind: KindFunction, Params: params, Result: &result}
}

// IsNumeric reports whether t is one of the four numeric kinds.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindInteger, KindDecimal, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// Equal implements structural type equality, with Inferred acting as a
// wildcard that compares equal to any other type.
func (t Type) Equal(other Type) bool {
	if t.Kind == KindInferred || other.Kind == KindInferred {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindClass:
		return t.ClassName == other.ClassName
	case KindList, KindOptional:
		return t.Elem.Equal(*other.Elem)
	case KindFunction:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return t.Result.Equal(*other.Result)
	default:
		return true
	}
}

// WiderNumeric returns the wider of two numeric types, per the ranking
// Integer < Float < Double < Decimal used by arithmetic coercion.
func WiderNumeric(a, b Type) Type {
	rank := func(k Kind) int {
		switch k {
		case KindInteger:
			return 0
		case KindFloat:
			return 1
		case KindDouble:
			return 2
		case KindDecimal:
			return 3
		default:
			return -1
		}
	}
	if rank(b.Kind) > rank(a.Kind) {
		return b
	}
	return a
}

func (t Type) String() string {
	switch t.Kind {
	case KindInferred:
		return "inferred"
	case KindInteger:
		return "inteiro"
	case KindText:
		return "texto"
	case KindBoolean:
		return "booleano"
	case KindVoid:
		return "vazio"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "flutuante"
	case KindDouble:
		return "duplo"
	case KindList:
		return fmt.Sprintf("Lista de %s", t.Elem.String())
	case KindClass:
		return t.ClassName
	case KindFunction:
		return "funcao"
	case KindOptional:
		return fmt.Sprintf("%s?", t.Elem.String())
	default:
		return "?"
	}
}
