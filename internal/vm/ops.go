package vm

import "github.com/cwbudde/go-portugol/internal/value"

// binaryAdd implements ADD's polymorphic rule: text concatenation whenever
// either operand is texto, else numeric addition widened to the result's
// wider numeric kind.
func (v *VM) binaryAdd() error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	if a.Kind == value.KindText || b.Kind == value.KindText {
		v.push(value.Text(a.String() + b.String()))
		return nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return v.fail("ADD requires numeric or texto operands")
	}
	v.push(widenedNumeric(a, b, a.AsFloat64()+b.AsFloat64()))
	return nil
}

// binaryArith implements SUB/MUL/DIV/MOD: both operands are already the
// same numeric type by the time lowering emits these (the checker rejects
// mismatched numeric types), so the result keeps that type.
func (v *VM) binaryArith(op string) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return v.fail("arithmetic operator requires numeric operands")
	}

	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		switch op {
		case "SUB":
			v.push(value.Integer(a.I - b.I))
		case "MUL":
			v.push(value.Integer(a.I * b.I))
		case "DIV":
			if b.I == 0 {
				return v.fail("division by zero")
			}
			v.push(value.Integer(a.I / b.I))
		case "MOD":
			if b.I == 0 {
				return v.fail("division by zero")
			}
			v.push(value.Integer(a.I % b.I))
		}
		return nil
	}

	af, bf := a.AsFloat64(), b.AsFloat64()
	var result float64
	switch op {
	case "SUB":
		result = af - bf
	case "MUL":
		result = af * bf
	case "DIV":
		if bf == 0 {
			return v.fail("division by zero")
		}
		result = af / bf
	case "MOD":
		if bf == 0 {
			return v.fail("division by zero")
		}
		result = float64(int64(af) % int64(bf))
	}
	v.push(widenedNumeric(a, b, result))
	return nil
}

func widenedNumeric(a, b value.Value, result float64) value.Value {
	wider := a.Kind
	if rank(b.Kind) > rank(a.Kind) {
		wider = b.Kind
	}
	switch wider {
	case value.KindInteger:
		return value.Integer(int64(result))
	case value.KindFloat:
		return value.Float(result)
	case value.KindDouble:
		return value.Double(result)
	default:
		return value.Double(result)
	}
}

func rank(k value.Kind) int {
	switch k {
	case value.KindInteger:
		return 0
	case value.KindFloat:
		return 1
	case value.KindDouble:
		return 2
	case value.KindDecimal:
		return 3
	default:
		return -1
	}
}

// compare implements COMPARE_EQ/NE (structural equality for any kind; Null
// only equals Null) and the four ordering comparisons (numeric only; a
// mismatched-tag ordering comparison is a fatal VM error).
func (v *VM) compare(op string) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	switch op {
	case "COMPARE_EQ", "COMPARE_NE":
		eq, err := v.equalFor(a, b)
		if err != nil {
			return err
		}
		if op == "COMPARE_NE" {
			eq = !eq
		}
		v.push(value.Boolean(eq))
		return nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return v.fail("ordering comparison requires numeric operands")
	}
	af, bf := a.AsFloat64(), b.AsFloat64()
	var result bool
	switch op {
	case "COMPARE_LT":
		result = af < bf
	case "COMPARE_LE":
		result = af <= bf
	case "COMPARE_GT":
		result = af > bf
	case "COMPARE_GE":
		result = af >= bf
	}
	v.push(value.Boolean(result))
	return nil
}

// equalFor implements COMPARE_EQ's tag-matching rule: Null compares equal
// only to Null (never fatal), numeric kinds compare by widened value, and
// any other mismatched-tag pair is a fatal VM error rather than a silent
// false.
func (v *VM) equalFor(a, b value.Value) (bool, error) {
	if a.Kind == value.KindNull || b.Kind == value.KindNull {
		return a.Kind == value.KindNull && b.Kind == value.KindNull, nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		return a.AsFloat64() == b.AsFloat64(), nil
	}
	if a.Kind != b.Kind {
		return false, v.fail("comparison between mismatched types %s and %s", a.Kind, b.Kind)
	}
	return value.Equal(a, b), nil
}

func (v *VM) logical(op string) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	if op == "AND" {
		v.push(value.Boolean(a.B && b.B))
	} else {
		v.push(value.Boolean(a.B || b.B))
	}
	return nil
}

func (v *VM) getIndex() error {
	idx, err := v.pop()
	if err != nil {
		return err
	}
	recv, err := v.pop()
	if err != nil {
		return err
	}
	if recv.Kind != value.KindList {
		return v.fail("GET_INDEX on non-list value")
	}
	i := int(idx.I)
	if i < 0 || i >= len(*recv.List) {
		return v.fail("list index %d out of range (length %d)", i, len(*recv.List))
	}
	v.push((*recv.List)[i])
	return nil
}

func (v *VM) setIndex() error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	idx, err := v.pop()
	if err != nil {
		return err
	}
	recv, err := v.pop()
	if err != nil {
		return err
	}
	if recv.Kind != value.KindList {
		return v.fail("SET_INDEX on non-list value")
	}
	i := int(idx.I)
	if i < 0 || i >= len(*recv.List) {
		return v.fail("list index %d out of range (length %d)", i, len(*recv.List))
	}
	(*recv.List)[i] = val
	return nil
}

func (v *VM) getProperty(name string) error {
	recv, err := v.pop()
	if err != nil {
		return err
	}
	if recv.Kind != value.KindObject {
		return v.fail("GET_PROPERTY %q on non-object value", name)
	}
	val, ok := recv.Obj.Fields[name]
	if !ok {
		return v.fail("object of class %q has no property %q", recv.Obj.Class, name)
	}
	v.push(val)
	return nil
}

func (v *VM) setProperty(name string) error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	recv, err := v.pop()
	if err != nil {
		return err
	}
	if recv.Kind != value.KindObject {
		return v.fail("SET_PROPERTY %q on non-object value", name)
	}
	recv.Obj.Fields[name] = val
	return nil
}

func (v *VM) getStaticProperty(class, name string) error {
	ci, err := v.classOf(class)
	if err != nil {
		return err
	}
	val, ok := ci.StaticFields[name]
	if !ok {
		val = value.Null()
	}
	v.push(val)
	return nil
}

func (v *VM) setStaticProperty(class, name string) error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	ci, err := v.classOf(class)
	if err != nil {
		return err
	}
	ci.StaticFields[name] = val
	return nil
}
