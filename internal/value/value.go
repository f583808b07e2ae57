// Package value is the runtime tagged-value model: the shared representation
// the lowerer emits constants into and the VM pushes onto its operand stack.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Kind int

const (
	KindVoid Kind = iota
	KindInteger
	KindText
	KindBoolean
	KindDecimal
	KindFloat
	KindDouble
	KindList
	KindObject
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "vazio"
	case KindInteger:
		return "inteiro"
	case KindText:
		return "texto"
	case KindBoolean:
		return "booleano"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "flutuante"
	case KindDouble:
		return "duplo"
	case KindList:
		return "lista"
	case KindObject:
		return "objeto"
	case KindNull:
		return "nulo"
	default:
		return "?"
	}
}

// Object is a reference-counted class instance: a qualified class name plus
// a field table. The language surface has no way to observe destructor
// timing (no dispose/finalize operation), so RefCount is bookkeeping only —
// actual storage reclamation is left to the Go garbage collector, per the
// Open Question decision recorded in DESIGN.md.
type Object struct {
	Class    string
	Fields   map[string]Value
	RefCount int
}

// Retain increments the object's reference count, called whenever a
// reference is duplicated (stored into a variable, a field, or passed as an
// argument).
func (o *Object) Retain() { o.RefCount++ }

// Release decrements the reference count. It never frees memory itself; it
// exists so tests can assert the count never goes negative, which would
// indicate a retain/release mismatch in the VM.
func (o *Object) Release() {
	o.RefCount--
}

// Value is the tagged union every VM stack slot and every lowered constant
// carries.
type Value struct {
	Obj  *Object
	List *[]Value
	Text string
	I    int64
	F    float64 // Float and Double share this field; Kind disambiguates
	Dec  string  // Decimal's textual form, preserved exactly (no binary float rounding)
	B    bool
	Kind Kind
}

func Void() Value                  { return Value{Kind: KindVoid} }
func Null() Value                  { return Value{Kind: KindNull} }
func Integer(i int64) Value        { return Value{Kind: KindInteger, I: i} }
func Text(s string) Value          { return Value{Kind: KindText, Text: s} }
func Boolean(b bool) Value         { return Value{Kind: KindBoolean, B: b} }
func Float(f float64) Value        { return Value{Kind: KindFloat, F: f} }
func Double(f float64) Value       { return Value{Kind: KindDouble, F: f} }
func Decimal(s string) Value       { return Value{Kind: KindDecimal, Dec: s} }
func List(elems []Value) Value     { return Value{Kind: KindList, List: &elems} }
func Obj(o *Object) Value          { return Value{Kind: KindObject, Obj: o} }

// IsNumeric reports whether v holds one of the four numeric kinds.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindInteger, KindDecimal, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// AsFloat64 widens any numeric value to float64 for comparison/arithmetic
// against other numeric kinds; decimal uses its parsed value.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindInteger:
		return float64(v.I)
	case KindFloat, KindDouble:
		return v.F
	case KindDecimal:
		f, _ := strconv.ParseFloat(v.Dec, 64)
		return f
	default:
		return 0
	}
}

// String renders the canonical textual form used by IMPRIMA and by
// text-concatenation ADD: text+non-text always uses this canonical form,
// never a user method.
func (v Value) String() string {
	switch v.Kind {
	case KindVoid:
		return ""
	case KindNull:
		return "nulo"
	case KindInteger:
		return strconv.FormatInt(v.I, 10)
	case KindText:
		return v.Text
	case KindBoolean:
		if v.B {
			return "verdadeiro"
		}
		return "falso"
	case KindFloat, KindDouble:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case KindDecimal:
		return v.Dec
	case KindList:
		parts := make([]string, len(*v.List))
		for i, e := range *v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		return fmt.Sprintf("<%s>", v.Obj.Class)
	default:
		return "?"
	}
}

// TextLength returns the canonical rune count of v.Text, used by GET_LENGTH.
// Normalizing to NFC first means combining-mark sequences that denote a
// single accented letter count once, matching what a user reading the
// string on screen would call its length rather than Go's raw byte count.
func (v Value) TextLength() int {
	normalized := norm.NFC.String(v.Text)
	n := 0
	for range normalized {
		n++
	}
	return n
}

// Equal implements structural equality: numeric kinds compare by widened
// value, text/boolean by value, lists element-wise, objects by identity,
// null only equals null.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return a.AsFloat64() == b.AsFloat64()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindText:
		return a.Text == b.Text
	case KindBoolean:
		return a.B == b.B
	case KindVoid, KindNull:
		return true
	case KindList:
		if len(*a.List) != len(*b.List) {
			return false
		}
		for i := range *a.List {
			if !Equal((*a.List)[i], (*b.List)[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return a.Obj == b.Obj
	default:
		return false
	}
}
