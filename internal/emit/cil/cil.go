// Package cil is a minimal, table-driven translator from the top-level
// bytecode stream to CIL (.NET Common Intermediate Language) text, with
// assembly/class/entrypoint scaffolding around the translated body. CIL is
// itself a stack machine, so most instructions translate near 1:1; the few
// that don't (object/class features, CONCAT) fall back to a comment.
package cil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-portugol/internal/bytecode"
)

// Generate renders prog's top-level instruction stream as a single
// Main() method body inside a "Principal" class. Class/method/function
// bodies are out of scope.
func Generate(prog *bytecode.Program) string {
	var sb strings.Builder
	sb.WriteString(".assembly extern mscorlib\n")
	sb.WriteString(".assembly portugol\n\n")
	sb.WriteString(".class private auto ansi beforefieldinit Principal extends [mscorlib]System.Object\n{\n")
	sb.WriteString("  .method public hidebysig static void Main() cil managed\n  {\n")
	sb.WriteString("    .entrypoint\n")
	sb.WriteString("    .maxstack  8\n")

	locals := map[string]int{}
	for _, line := range bytecode.TopLevelLines(prog) {
		op, rest := bytecode.SplitOp(line)
		if op == bytecode.OpStoreVar {
			if _, ok := locals[rest]; !ok {
				locals[rest] = len(locals)
			}
		}
	}
	if len(locals) > 0 {
		names := make([]string, len(locals))
		for _, idx := range locals {
			names[idx] = fmt.Sprintf("object V_%d", idx)
		}
		fmt.Fprintf(&sb, "    .locals init (%s)\n", strings.Join(names, ", "))
	}

	for _, line := range bytecode.TopLevelLines(prog) {
		op, rest := bytecode.SplitOp(line)
		emitLine(&sb, locals, op, rest)
	}

	sb.WriteString("    ret\n")
	sb.WriteString("  }\n")
	sb.WriteString("  .method public hidebysig specialname rtspecialname instance void .ctor() cil managed { ret }\n")
	sb.WriteString("}\n")
	return sb.String()
}

func emitLine(sb *strings.Builder, locals map[string]int, op, rest string) {
	switch op {
	case bytecode.OpLoadConstInt:
		fmt.Fprintf(sb, "    ldc.i4 %s\n    box [mscorlib]System.Int32\n", rest)
	case bytecode.OpLoadConstBool:
		v := "0"
		if rest == "true" {
			v = "1"
		}
		fmt.Fprintf(sb, "    ldc.i4.%s\n    box [mscorlib]System.Boolean\n", v)
	case bytecode.OpLoadConstStr:
		fmt.Fprintf(sb, "    ldstr %s\n", strconv.Quote(rest))
	case bytecode.OpLoadConstNull:
		sb.WriteString("    ldnull\n")
	case bytecode.OpLoadVar:
		fmt.Fprintf(sb, "    ldloc V_%d\n", locals[rest])
	case bytecode.OpStoreVar:
		fmt.Fprintf(sb, "    stloc V_%d\n", locals[rest])
	case bytecode.OpAdd:
		sb.WriteString("    call object [mscorlib]System.Runtime.CompilerServices.RuntimeHelpers::Add(object, object)\n")
	case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
		fmt.Fprintf(sb, "    %s\n", cilArith(op))
	case bytecode.OpCompareEq:
		sb.WriteString("    ceq\n")
	case bytecode.OpCompareLt:
		sb.WriteString("    clt\n")
	case bytecode.OpCompareGt:
		sb.WriteString("    cgt\n")
	case bytecode.OpCompareNe:
		sb.WriteString("    ceq\n    ldc.i4.0\n    ceq\n")
	case bytecode.OpCompareLe:
		sb.WriteString("    cgt\n    ldc.i4.0\n    ceq\n")
	case bytecode.OpCompareGe:
		sb.WriteString("    clt\n    ldc.i4.0\n    ceq\n")
	case bytecode.OpAnd:
		sb.WriteString("    and\n")
	case bytecode.OpOr:
		sb.WriteString("    or\n")
	case bytecode.OpNegateBool:
		sb.WriteString("    ldc.i4.0\n    ceq\n")
	case bytecode.OpNegateInt:
		sb.WriteString("    neg\n")
	case bytecode.OpPrint:
		sb.WriteString("    call void [mscorlib]System.Console::WriteLine(object)\n")
	case bytecode.OpPop:
		sb.WriteString("    pop\n")
	default:
		fmt.Fprintf(sb, "    // %s not implemented for CIL\n", op)
	}
}

func cilArith(op string) string {
	switch op {
	case bytecode.OpSub:
		return "sub"
	case bytecode.OpMul:
		return "mul"
	case bytecode.OpDiv:
		return "div"
	default:
		return "rem"
	}
}
