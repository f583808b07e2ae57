package vm

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/value"
)

// exec runs one non-control-flow-header instruction and returns the next
// instruction pointer: ip+1 for ordinary instructions, a patched target for
// jumps, or the caller's saved return address for RETURN.
func (v *VM) exec(op, rest string, ip int) (int, error) {
	switch op {
	case bytecode.OpLoadConstInt:
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return 0, v.fail("invalid LOAD_CONST_INT operand %q", rest)
		}
		v.push(value.Integer(n))
	case bytecode.OpLoadConstStr:
		v.push(value.Text(rest))
	case bytecode.OpLoadConstBool:
		v.push(value.Boolean(rest == "true"))
	case bytecode.OpLoadConstFloat:
		f, _ := strconv.ParseFloat(rest, 64)
		v.push(value.Float(f))
	case bytecode.OpLoadConstDouble:
		f, _ := strconv.ParseFloat(rest, 64)
		v.push(value.Double(f))
	case bytecode.OpLoadConstDecimal:
		v.push(value.Decimal(rest))
	case bytecode.OpLoadConstNull:
		v.push(value.Null())
	case bytecode.OpLoadVar:
		name := rest
		val, ok := v.locals()[name]
		if !ok {
			val = value.Null()
		}
		v.push(val)
	case bytecode.OpStoreVar:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		v.locals()[rest] = val
	case bytecode.OpSetDefault:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		if _, bound := v.locals()[rest]; !bound {
			v.locals()[rest] = val
		}
	case bytecode.OpPop:
		if _, err := v.pop(); err != nil {
			return 0, err
		}

	case bytecode.OpAdd:
		return ip + 1, v.binaryAdd()
	case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
		return ip + 1, v.binaryArith(op)
	case bytecode.OpCompareEq, bytecode.OpCompareNe, bytecode.OpCompareLt,
		bytecode.OpCompareLe, bytecode.OpCompareGt, bytecode.OpCompareGe:
		return ip + 1, v.compare(op)
	case bytecode.OpAnd, bytecode.OpOr:
		return ip + 1, v.logical(op)
	case bytecode.OpNegateBool:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		v.push(value.Boolean(!val.B))
	case bytecode.OpNegateInt:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		switch val.Kind {
		case value.KindInteger:
			v.push(value.Integer(-val.I))
		default:
			v.push(value.Value{Kind: val.Kind, F: -val.F})
		}
	case bytecode.OpConcat:
		n, _ := strconv.Atoi(rest)
		if len(v.stack) < n {
			return 0, v.fail("stack underflow in CONCAT %d", n)
		}
		parts := v.stack[len(v.stack)-n:]
		text := ""
		for _, p := range parts {
			text += p.String()
		}
		v.stack = v.stack[:len(v.stack)-n]
		v.push(value.Text(text))
	case bytecode.OpPrint:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		fmt.Fprintln(v.Stdout, val.String())

	case bytecode.OpJump:
		target, err := strconv.Atoi(rest)
		if err != nil {
			return 0, v.fail("invalid JUMP target %q", rest)
		}
		return target, nil
	case bytecode.OpJumpIfFalse:
		cond, err := v.pop()
		if err != nil {
			return 0, err
		}
		target, terr := strconv.Atoi(rest)
		if terr != nil {
			return 0, v.fail("invalid JUMP_IF_FALSE target %q", rest)
		}
		if !cond.B {
			return target, nil
		}
		return ip + 1, nil
	case bytecode.OpReturn:
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		return v.doReturn(val)

	case bytecode.OpNewArray:
		n, _ := strconv.Atoi(rest)
		if len(v.stack) < n {
			return 0, v.fail("stack underflow in NEW_ARRAY %d", n)
		}
		elems := append([]value.Value(nil), v.stack[len(v.stack)-n:]...)
		v.stack = v.stack[:len(v.stack)-n]
		v.push(value.List(elems))
	case bytecode.OpGetIndex:
		return ip + 1, v.getIndex()
	case bytecode.OpSetIndex:
		return ip + 1, v.setIndex()
	case bytecode.OpGetLength:
		recv, err := v.pop()
		if err != nil {
			return 0, err
		}
		switch recv.Kind {
		case value.KindList:
			v.push(value.Integer(int64(len(*recv.List))))
		case value.KindText:
			v.push(value.Integer(int64(recv.TextLength())))
		default:
			return 0, v.fail("GET_LENGTH on a value with no length")
		}

	case bytecode.OpGetProperty:
		return ip + 1, v.getProperty(rest)
	case bytecode.OpSetProperty:
		return ip + 1, v.setProperty(rest)
	case bytecode.OpGetStaticProperty:
		fields := bytecode.Fields(rest)
		return ip + 1, v.getStaticProperty(fields[0], fields[1])
	case bytecode.OpSetStaticProperty:
		fields := bytecode.Fields(rest)
		return ip + 1, v.setStaticProperty(fields[0], fields[1])

	case bytecode.OpNewObject:
		fields := bytecode.Fields(rest)
		argc, _ := strconv.Atoi(fields[1])
		return v.newObject(fields[0], argc, ip)
	case bytecode.OpCallMethod:
		fields := bytecode.Fields(rest)
		argc, _ := strconv.Atoi(fields[1])
		return v.callMethod(fields[0], argc, ip)
	case bytecode.OpCallMethodStatic:
		fields := bytecode.Fields(rest)
		argc, _ := strconv.Atoi(fields[2])
		return v.callMethodStatic(fields[0], fields[1], argc, ip)
	case bytecode.OpCallStaticMethod:
		fields := bytecode.Fields(rest)
		argc, _ := strconv.Atoi(fields[2])
		return v.callStaticMethod(fields[0], fields[1], argc, ip)
	case bytecode.OpCallFunction:
		fields := bytecode.Fields(rest)
		argc, _ := strconv.Atoi(fields[1])
		return v.callFunction(fields[0], argc, ip)
	case bytecode.OpCallBaseConstructor:
		argc, _ := strconv.Atoi(rest)
		return v.callBaseConstructor(argc, ip)

	default:
		return ip, v.fail("unknown instruction %q", op)
	}
	return ip + 1, nil
}
