// Package llvmir is a minimal, table-driven translator from the top-level
// bytecode stream to textual LLVM IR: each bytecode instruction feeds a
// virtual register stack (no alloca/store, since SSA renaming at emission
// time is sufficient for a non-optimizing translator) that is flushed to
// one or a few IR lines. Instructions with no IR mapping (object/class/
// control-flow features) emit a comment rather than attempting one.
package llvmir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-portugol/internal/bytecode"
)

type reg struct {
	name   string
	isText bool
}

// Generate renders prog's top-level instruction stream as a single @main
// function body. Class/method/function bodies are out of scope.
func Generate(prog *bytecode.Program) string {
	var header, body strings.Builder
	header.WriteString("target triple = \"x86_64-pc-linux-gnu\"\n\n")
	header.WriteString("declare i32 @printf(i8*, ...)\n\n")
	header.WriteString("@.int_fmt = private unnamed_addr constant [4 x i8] c\"%d\\0A\\00\", align 1\n")
	header.WriteString("@.str_fmt = private unnamed_addr constant [4 x i8] c\"%s\\0A\\00\", align 1\n")

	body.WriteString("\ndefine i32 @main() {\nentry:\n")

	g := &generator{vars: map[string]reg{}}
	var stack []reg
	for _, line := range bytecode.TopLevelLines(prog) {
		op, rest := bytecode.SplitOp(line)
		g.emit(&header, &body, &stack, op, rest)
	}

	body.WriteString("  ret i32 0\n}\n")
	return header.String() + body.String()
}

type generator struct {
	tempCounter   int
	stringCounter int
	vars          map[string]reg
}

func (g *generator) temp() string {
	g.tempCounter++
	return fmt.Sprintf("%%t%d", g.tempCounter)
}

func (g *generator) stringConstant(header *strings.Builder, s string) string {
	g.stringCounter++
	name := fmt.Sprintf("@.str%d", g.stringCounter)
	fmt.Fprintf(header, "%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"\n", name, len(s)+1, s)
	return name
}

func push(stack *[]reg, r reg) { *stack = append(*stack, r) }

func pop(stack *[]reg) reg {
	if len(*stack) == 0 {
		return reg{name: "0"}
	}
	top := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return top
}

func popN(stack *[]reg, n int) []reg {
	if len(*stack) < n {
		n = len(*stack)
	}
	parts := append([]reg(nil), (*stack)[len(*stack)-n:]...)
	*stack = (*stack)[:len(*stack)-n]
	return parts
}

func (g *generator) emit(header, body *strings.Builder, stack *[]reg, op, rest string) {
	switch op {
	case bytecode.OpLoadConstInt:
		push(stack, reg{name: rest})
	case bytecode.OpLoadConstBool:
		v := "0"
		if rest == "true" {
			v = "1"
		}
		push(stack, reg{name: v})
	case bytecode.OpLoadConstStr:
		ptr := g.stringConstant(header, rest)
		push(stack, reg{name: ptr, isText: true})
	case bytecode.OpLoadVar:
		if r, ok := g.vars[rest]; ok {
			push(stack, r)
			return
		}
		push(stack, reg{name: "0"})
	case bytecode.OpStoreVar:
		g.vars[rest] = pop(stack)
	case bytecode.OpAdd:
		b, a := pop(stack), pop(stack)
		if a.isText || b.isText {
			fmt.Fprintf(body, "  ; text ADD of %s, %s not lowered (no runtime concat helper)\n", a.name, b.name)
			push(stack, reg{name: "null", isText: true})
			return
		}
		t := g.temp()
		fmt.Fprintf(body, "  %s = add i64 %s, %s\n", t, a.name, b.name)
		push(stack, reg{name: t})
	case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
		b, a := pop(stack), pop(stack)
		t := g.temp()
		fmt.Fprintf(body, "  %s = %s i64 %s, %s\n", t, llvmArith(op), a.name, b.name)
		push(stack, reg{name: t})
	case bytecode.OpCompareEq, bytecode.OpCompareNe, bytecode.OpCompareLt,
		bytecode.OpCompareLe, bytecode.OpCompareGt, bytecode.OpCompareGe:
		b, a := pop(stack), pop(stack)
		t := g.temp()
		fmt.Fprintf(body, "  %s = icmp %s i64 %s, %s\n", t, llvmCompare(op), a.name, b.name)
		push(stack, reg{name: t})
	case bytecode.OpPrint:
		v := pop(stack)
		fmtName := "@.int_fmt"
		if v.isText {
			fmtName = "@.str_fmt"
		}
		fmt.Fprintf(body, "  call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* %s, i32 0, i32 0), i8* %s)\n", fmtName, v.name)
	case bytecode.OpPop:
		pop(stack)
	case bytecode.OpConcat:
		n, _ := strconv.Atoi(rest)
		parts := popN(stack, n)
		fmt.Fprintf(body, "  ; CONCAT %d of %v not lowered (no runtime concat helper)\n", n, parts)
		push(stack, reg{name: "null", isText: true})
	default:
		fmt.Fprintf(body, "  ; %s not implemented for llvm-ir\n", op)
	}
}

func llvmArith(op string) string {
	switch op {
	case bytecode.OpSub:
		return "sub"
	case bytecode.OpMul:
		return "mul"
	case bytecode.OpDiv:
		return "sdiv"
	case bytecode.OpMod:
		return "srem"
	default:
		return "add"
	}
}

func llvmCompare(op string) string {
	switch op {
	case bytecode.OpCompareEq:
		return "eq"
	case bytecode.OpCompareNe:
		return "ne"
	case bytecode.OpCompareLt:
		return "slt"
	case bytecode.OpCompareLe:
		return "sle"
	case bytecode.OpCompareGt:
		return "sgt"
	default:
		return "sge"
	}
}
