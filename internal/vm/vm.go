// Package vm is the stack machine (component C6) that executes the textual
// bytecode internal/lower produces: a split-whitespace instruction dispatch
// loop extended with a class registry, call frames and virtual dispatch.
// Unlike the earlier compiler phases, VM failures are fatal and immediate:
// the first error aborts the run rather than being accumulated.
package vm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/errors"
	"github.com/cwbudde/go-portugol/internal/lexer"
	"github.com/cwbudde/go-portugol/internal/value"
)

// MethodInfo is a registered method or constructor body's location within
// the flat instruction listing.
type MethodInfo struct {
	Name   string
	Params []string
	Start  int
	Length int
}

// ClassInfo is the pre-scanned registry entry for one DEFINE_CLASS block.
type ClassInfo struct {
	Name          string
	Parent        string
	Properties    []string
	IsAbstract    bool
	Methods       map[string]*MethodInfo
	StaticMethods map[string]*MethodInfo
	StaticFields  map[string]value.Value
}

// FunctionInfo is a registered free function's location.
type FunctionInfo struct {
	Name   string
	Params []string
	Start  int
	Length int
}

type frame struct {
	locals   map[string]value.Value
	class    string
	returnIP int
	// resultOverride, when set, replaces whatever RETURN pushes — used by
	// NEW_OBJECT so the constructor's own (void) return value doesn't
	// shadow the newly constructed object on the stack.
	resultOverride *value.Value
	// discardResult marks a frame whose RETURN value is never pushed back
	// onto the shared operand stack — used by CALL_BASE_CONSTRUCTOR, whose
	// parent constructor body returns nothing the caller's expression stack
	// is expecting.
	discardResult bool
}

// VM executes one bytecode.Program to completion, writing PRINT output to
// Stdout.
type VM struct {
	prog      *bytecode.Program
	classes   map[string]*ClassInfo
	functions map[string]*FunctionInfo
	globals   map[string]value.Value
	stack     []value.Value
	frames    []*frame
	Stdout    io.Writer
	// RunID identifies this execution for multi-run log correlation: every
	// fatal error this VM raises carries it, so an operator scanning combined
	// console output can tell which run a given failure line belongs to.
	RunID string
}

// New builds a VM over prog and runs its pre-scan pass.
func New(prog *bytecode.Program, stdout io.Writer) *VM {
	v := &VM{
		prog:      prog,
		classes:   map[string]*ClassInfo{},
		functions: map[string]*FunctionInfo{},
		globals:   map[string]value.Value{},
		Stdout:    stdout,
		RunID:     uuid.NewString(),
	}
	v.preScan()
	return v
}

func (v *VM) fail(format string, a ...any) error {
	return errors.New(errors.KindRuntime, lexer.Position{}, fmt.Sprintf("[run %s] %s", v.RunID, fmt.Sprintf(format, a...)))
}

// preScan walks the listing once, registering every class (and its methods)
// and every top-level function, without executing any instruction body —
// the main Run loop then skips straight over these header/body regions,
// leaving only top-level statements as its stream.
func (v *VM) preScan() {
	lines := v.prog.Lines
	for ip := 0; ip < len(lines); {
		if bytecode.IsComment(lines[ip]) {
			ip++
			continue
		}
		op, rest := bytecode.SplitOp(lines[ip])
		switch op {
		case bytecode.OpDefineClass:
			fields := bytecode.Fields(rest)
			fqn, parent := fields[0], fields[1]
			meta := ""
			if len(fields) > 2 {
				meta = fields[2]
			}
			props, _, abstract := bytecode.SplitMeta(meta)
			ci := &ClassInfo{
				Name:          fqn,
				Parent:        parent,
				Properties:    props,
				IsAbstract:    abstract,
				Methods:       map[string]*MethodInfo{},
				StaticMethods: map[string]*MethodInfo{},
				StaticFields:  map[string]value.Value{},
			}
			v.classes[fqn] = ci
			ip++
			ip = v.scanClassBody(lines, ip, ci)
		case bytecode.OpDefineFunction:
			fields := bytecode.Fields(rest)
			name := fields[0]
			length, _ := strconv.Atoi(fields[1])
			params := fields[2:]
			v.functions[name] = &FunctionInfo{Name: name, Params: params, Start: ip + 1, Length: length}
			ip += 1 + length
		default:
			ip++
		}
	}
}

func (v *VM) scanClassBody(lines []string, ip int, ci *ClassInfo) int {
	for ip < len(lines) {
		if bytecode.IsComment(lines[ip]) {
			ip++
			continue
		}
		op, rest := bytecode.SplitOp(lines[ip])
		switch op {
		case bytecode.OpEndClass:
			return ip + 1
		case bytecode.OpDefineMethod:
			fields := bytecode.Fields(rest)
			name := fields[0]
			length, _ := strconv.Atoi(fields[1])
			params := fields[2:]
			ci.Methods[name] = &MethodInfo{Name: name, Params: params, Start: ip + 1, Length: length}
			ip += 1 + length
		case bytecode.OpDefineStaticMethod:
			fields := bytecode.Fields(rest)
			// fields[0] is the owning class name, redundant with ci here.
			name := fields[1]
			length, _ := strconv.Atoi(fields[2])
			params := fields[3:]
			ci.StaticMethods[name] = &MethodInfo{Name: name, Params: params, Start: ip + 1, Length: length}
			ip += 1 + length
		default:
			ip++
		}
	}
	return ip
}

func (v *VM) push(val value.Value) { v.stack = append(v.stack, val) }

func (v *VM) pop() (value.Value, error) {
	if len(v.stack) == 0 {
		return value.Value{}, v.fail("stack underflow")
	}
	val := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return val, nil
}

func (v *VM) locals() map[string]value.Value {
	if len(v.frames) == 0 {
		return v.globals
	}
	return v.frames[len(v.frames)-1].locals
}

// classOf returns the object's own class registry entry.
func (v *VM) classOf(className string) (*ClassInfo, error) {
	ci, ok := v.classes[className]
	if !ok {
		return nil, v.fail("unknown class %q", className)
	}
	return ci, nil
}

// findMethod walks className's parent chain for the most-derived definition
// of method name, implementing virtual dispatch from the receiver's dynamic
// class.
func (v *VM) findMethod(className, name string) (*MethodInfo, error) {
	for cur := className; cur != "" && cur != bytecode.NullParentName; {
		ci, ok := v.classes[cur]
		if !ok {
			break
		}
		if m, ok := ci.Methods[name]; ok {
			return m, nil
		}
		cur = ci.Parent
	}
	return nil, v.fail("class %q has no method %q", className, name)
}

// flattenedProperties collects className's own-then-ancestor property
// names, derived-class-wins.
func (v *VM) flattenedProperties(className string) []string {
	seen := map[string]bool{}
	var result []string
	for cur := className; cur != "" && cur != bytecode.NullParentName; {
		ci, ok := v.classes[cur]
		if !ok {
			break
		}
		for _, p := range ci.Properties {
			if !seen[p] {
				result = append(result, p)
				seen[p] = true
			}
		}
		cur = ci.Parent
	}
	return result
}

// Run executes the program's top-level statement stream to completion.
func (v *VM) Run() error {
	lines := v.prog.Lines
	ip := 0
	for ip < len(lines) {
		next, err := v.step(lines, ip)
		if err != nil {
			return err
		}
		if next == -1 {
			return nil // HALT
		}
		ip = next
	}
	return nil
}

// step executes the instruction at ip and returns the next ip, or -1 on
// HALT. Class/function definition blocks are skipped wholesale: they are
// only ever entered via CALL_* or NEW_OBJECT.
func (v *VM) step(lines []string, ip int) (int, error) {
	if bytecode.IsComment(lines[ip]) {
		return ip + 1, nil
	}
	op, rest := bytecode.SplitOp(lines[ip])

	switch op {
	case bytecode.OpDefineClass:
		ci, err := v.classOf(bytecode.Fields(rest)[0])
		if err != nil {
			return 0, err
		}
		return v.skipClassBody(lines, ip+1, ci), nil
	case bytecode.OpDefineFunction:
		fields := bytecode.Fields(rest)
		length, _ := strconv.Atoi(fields[1])
		return ip + 1 + length, nil
	case bytecode.OpHalt:
		return -1, nil
	}

	return v.exec(op, rest, ip)
}

func (v *VM) skipClassBody(lines []string, ip int, ci *ClassInfo) int {
	for ip < len(lines) {
		if bytecode.IsComment(lines[ip]) {
			ip++
			continue
		}
		op, rest := bytecode.SplitOp(lines[ip])
		if op == bytecode.OpEndClass {
			return ip + 1
		}
		if op == bytecode.OpDefineMethod {
			length, _ := strconv.Atoi(bytecode.Fields(rest)[1])
			ip += 1 + length
			continue
		}
		if op == bytecode.OpDefineStaticMethod {
			length, _ := strconv.Atoi(bytecode.Fields(rest)[2])
			ip += 1 + length
			continue
		}
		ip++
	}
	return ip
}
