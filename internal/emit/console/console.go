// Package console is a minimal, table-driven translator from the top-level
// bytecode stream to a C# console-application body: each bytecode
// instruction maps to one (or a short fixed sequence of) C# lines, with an
// explicit "not implemented" fallback comment for anything this translator
// doesn't cover. This is not an optimizing code generator; it exists only
// so --target=console has something concrete to emit.
package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-portugol/internal/bytecode"
)

// Generate renders prog's top-level instruction stream as a C# Main method
// body. Class/method/function bodies (anything reached only via CALL_*
// or NEW_OBJECT) are out of scope for this translator.
func Generate(prog *bytecode.Program) string {
	var sb strings.Builder
	sb.WriteString("using System;\n\n")
	sb.WriteString("class Principal\n{\n")
	sb.WriteString("    static void Main()\n    {\n")

	var stack []string
	for _, line := range bytecode.TopLevelLines(prog) {
		op, rest := bytecode.SplitOp(line)
		emitLine(&sb, &stack, op, rest)
	}

	sb.WriteString("    }\n}\n")
	return sb.String()
}

func push(stack *[]string, expr string) { *stack = append(*stack, expr) }

func pop(stack *[]string) string {
	if len(*stack) == 0 {
		return "/* stack underflow */"
	}
	top := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return top
}

func popN(stack *[]string, n int) []string {
	if len(*stack) < n {
		n = len(*stack)
	}
	parts := append([]string(nil), (*stack)[len(*stack)-n:]...)
	*stack = (*stack)[:len(*stack)-n]
	return parts
}

func emitLine(sb *strings.Builder, stack *[]string, op, rest string) {
	switch op {
	case bytecode.OpLoadConstInt, bytecode.OpLoadConstFloat, bytecode.OpLoadConstDouble:
		push(stack, rest)
	case bytecode.OpLoadConstStr:
		push(stack, strconv.Quote(rest))
	case bytecode.OpLoadConstBool:
		push(stack, rest)
	case bytecode.OpLoadConstDecimal:
		push(stack, rest+"m")
	case bytecode.OpLoadConstNull:
		push(stack, "null")
	case bytecode.OpLoadVar:
		push(stack, rest)
	case bytecode.OpStoreVar:
		fmt.Fprintf(sb, "        var %s = %s;\n", rest, pop(stack))
	case bytecode.OpAdd:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s + %s)", a, b))
	case bytecode.OpSub:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s - %s)", a, b))
	case bytecode.OpMul:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s * %s)", a, b))
	case bytecode.OpDiv:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s / %s)", a, b))
	case bytecode.OpMod:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s %% %s)", a, b))
	case bytecode.OpCompareEq:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s == %s)", a, b))
	case bytecode.OpCompareNe:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s != %s)", a, b))
	case bytecode.OpCompareLt:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s < %s)", a, b))
	case bytecode.OpCompareLe:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s <= %s)", a, b))
	case bytecode.OpCompareGt:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s > %s)", a, b))
	case bytecode.OpCompareGe:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s >= %s)", a, b))
	case bytecode.OpAnd:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s && %s)", a, b))
	case bytecode.OpOr:
		b, a := pop(stack), pop(stack)
		push(stack, fmt.Sprintf("(%s || %s)", a, b))
	case bytecode.OpNegateBool:
		push(stack, "!"+pop(stack))
	case bytecode.OpNegateInt:
		push(stack, "-"+pop(stack))
	case bytecode.OpConcat:
		n, _ := strconv.Atoi(rest)
		push(stack, "string.Concat("+strings.Join(popN(stack, n), ", ")+")")
	case bytecode.OpPrint:
		fmt.Fprintf(sb, "        Console.WriteLine(%s);\n", pop(stack))
	case bytecode.OpPop:
		fmt.Fprintf(sb, "        _ = %s;\n", pop(stack))
	default:
		fmt.Fprintf(sb, "        // %s not implemented for console\n", op)
	}
}
