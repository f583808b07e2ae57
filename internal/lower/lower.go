// Package lower is the bytecode lowerer (component C5): it walks a
// type-checked, name-resolved Program and emits textual bytecode lines.
// Constructors with a `: super(...)` clause lower to CALL_BASE_CONSTRUCTOR,
// then SET_DEFAULT for any defaulted parameter assigned by the caller's
// omission, then the constructor body; DEFINE_CLASS carries a '|'-separated
// metadata tail; and every forward jump is emitted as a placeholder and
// patched once its target offset is known (a loop's backward JUMP is
// emitted once, with its already-known target). Each method/function body is lowered into its own
// bytecode.Program, so its jump targets start 0-based and get rebased to
// absolute instruction indices once spliced into the enclosing program.
package lower

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/check"
	"github.com/cwbudde/go-portugol/internal/errors"
	"github.com/cwbudde/go-portugol/internal/inherit"
)

// Lowerer threads the tables produced by C2-C4 through the AST walk so call
// sites can commit to static-vs-virtual dispatch and constructor-default
// expansion once, here, rather than at VM runtime.
type Lowerer struct {
	inh    *inherit.Resolver
	errs   *errors.List
	params map[string]bool   // current method/function's own parameter names, for este-vs-property disambiguation
	locals map[string]string // current scope's variable name -> statically known class name, for virtual-vs-static call binding
	class  *inherit.ResolvedClass
}

// New builds a Lowerer from a completed check.Result; callers must have
// already verified result.Errs.HasErrors() is false.
func New(result *check.Result) *Lowerer {
	return &Lowerer{inh: result.Inh, errs: &errors.List{}, params: map[string]bool{}, locals: map[string]string{}}
}

// Errs returns diagnostics raised during lowering (e.g. an abstract class
// instantiation, which the lowerer rejects again against the flattened
// class even though the checker already reports it).
func (l *Lowerer) Errs() *errors.List { return l.errs }

// Run lowers prog to a textual bytecode Program, stamped with a
// `; build <uuid>` header line. Declarations are emitted in source order,
// top-level ones before each namespace's, with class/function definitions
// interleaved with top-level statements; the VM's pre-scan pass registers
// the definitions and its main pass skips over their bodies.
func (l *Lowerer) Run(prog *ast.Program) *bytecode.Program {
	out := &bytecode.Program{}
	out.Emit("; build " + uuid.NewString())
	l.declarations(out, prog.Declarations, "")
	for _, ns := range prog.Namespaces {
		l.declarations(out, ns.Declarations, ns.Name)
	}
	out.Emit(bytecode.OpHalt)
	return out
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func (l *Lowerer) declarations(out *bytecode.Program, decls []ast.Declaration, namespace string) {
	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			l.class_(out, decl, namespace)
		case *ast.FunctionDecl:
			l.function(out, decl, namespace)
		case *ast.ModuleDecl:
			l.declarations(out, decl.Declarations, qualify(namespace, decl.Name))
		case *ast.Namespace:
			l.declarations(out, decl.Declarations, qualify(namespace, decl.Name))
		case *ast.TopLevelCommand:
			l.class = nil
			l.params = map[string]bool{}
			l.statement(out, decl.Command)
		}
	}
}

func (l *Lowerer) class_(out *bytecode.Program, decl *ast.ClassDecl, namespace string) {
	fqn := qualify(namespace, decl.Name)
	rc := l.inh.Resolve(fqn)
	if rc == nil {
		return
	}
	l.class = rc

	parent := bytecode.NullParentName
	if decl.Parent != nil && *decl.Parent != "" {
		parent = *decl.Parent
	}

	props := make([]string, 0, len(rc.Properties)+len(rc.Fields))
	for _, p := range rc.Properties {
		props = append(props, p.Name)
	}
	for _, f := range rc.Fields {
		props = append(props, f.Name)
	}

	var ctorParams []string
	if len(decl.Constructors) > 0 {
		ctor := decl.Constructors[0]
		for _, p := range ctor.Parameters {
			ctorParams = append(ctorParams, p.Name)
		}
	}

	meta := bytecode.JoinMeta(props, ctorParams, decl.IsAbstract)
	out.Emitf("%s %s %s %s", bytecode.OpDefineClass, fqn, parent, meta)

	for _, ctor := range decl.Constructors {
		l.method(out, fqn, ctor, true)
	}
	for _, m := range decl.Methods {
		if m.IsAbstract {
			continue
		}
		l.method(out, fqn, m, false)
	}

	out.Emit(bytecode.OpEndClass)
}

func (l *Lowerer) method(out *bytecode.Program, className string, m *ast.MethodDecl, isConstructor bool) {
	l.params = map[string]bool{}
	l.locals = map[string]string{}
	for _, p := range m.Parameters {
		l.params[p.Name] = true
		if cls := l.classOfAnnotation(p.Type); cls != "" {
			l.locals[p.Name] = cls
		}
	}

	body := &bytecode.Program{}
	name := m.Name
	if isConstructor {
		name = bytecode.ConstructorName
	}

	// CALL_BASE_CONSTRUCTOR is only lowered when the constructor wrote an
	// explicit ": super(args)" clause — a class merely having a parent is
	// not enough, since the parent's own fields are already zero-initialized
	// by NEW_OBJECT before this body runs.
	if isConstructor && m.HasBaseCall {
		for _, a := range m.BaseArgs {
			l.expr(body, a)
		}
		body.Emitf("%s %d", bytecode.OpCallBaseConstructor, len(m.BaseArgs))
	}

	for _, p := range m.Parameters {
		if p.Default == nil {
			continue
		}
		l.emitSetDefault(body, p)
	}

	for _, s := range m.Body.Statements {
		l.statement(body, s)
	}
	// Always end with an explicit RETURN, even for constructors: the call
	// frame mechanism needs a RETURN to resume the caller. NEW_OBJECT
	// discards a constructor's return value in favor of the object itself.
	body.Emit(bytecode.OpLoadConstNull)
	body.Emit(bytecode.OpReturn)

	opcode := bytecode.OpDefineMethod
	if m.IsStatic {
		opcode = bytecode.OpDefineStaticMethod
	}
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.Name
	}
	if m.IsStatic {
		out.Emitf("%s %s %s %d %s", opcode, className, name, body.Len(), joinFields(params))
	} else {
		out.Emitf("%s %s %d %s", opcode, name, body.Len(), joinFields(params))
	}
	out.Lines = append(out.Lines, rebaseJumps(body.Lines, out.Len())...)
}

// emitSetDefault lowers the default-value expression, then SET_DEFAULT name
// pops it and binds it only if name is not already bound — i.e. only when
// the caller's call site passed fewer arguments than there are declared
// parameters.
func (l *Lowerer) emitSetDefault(out *bytecode.Program, p ast.Parameter) {
	l.expr(out, *p.Default)
	out.Emitf("%s %s", bytecode.OpSetDefault, p.Name)
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += " "
		}
		out += f
	}
	return out
}

func (l *Lowerer) function(out *bytecode.Program, fn *ast.FunctionDecl, namespace string) {
	fqn := qualify(namespace, fn.Name)
	l.class = nil
	l.params = map[string]bool{}
	l.locals = map[string]string{}
	for _, p := range fn.Parameters {
		l.params[p.Name] = true
		if cls := l.classOfAnnotation(p.Type); cls != "" {
			l.locals[p.Name] = cls
		}
	}

	body := &bytecode.Program{}
	for _, p := range fn.Parameters {
		if p.Default != nil {
			l.emitSetDefault(body, p)
		}
	}
	for _, s := range fn.Body.Statements {
		l.statement(body, s)
	}
	body.Emit(bytecode.OpLoadConstNull)
	body.Emit(bytecode.OpReturn)

	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Name
	}
	out.Emitf("%s %s %d %s", bytecode.OpDefineFunction, fqn, body.Len(), joinFields(params))
	out.Lines = append(out.Lines, rebaseJumps(body.Lines, out.Len())...)
}

// rebaseJumps rewrites JUMP/JUMP_IF_FALSE targets in lines — computed as
// 0-based offsets into a method/function body lowered in its own
// bytecode.Program — by adding base, the absolute index the body's first
// line lands at once spliced into the surrounding program. The VM resolves
// jump operands as absolute instruction indices (internal/vm/exec.go), so a
// body lowered in isolation and appended at a nonzero offset would otherwise
// jump to the wrong line.
func rebaseJumps(lines []string, base int) []string {
	if base == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		op, rest := bytecode.SplitOp(line)
		if op != bytecode.OpJump && op != bytecode.OpJumpIfFalse {
			out[i] = line
			continue
		}
		target, err := strconv.Atoi(rest)
		if err != nil {
			out[i] = line
			continue
		}
		out[i] = op + " " + strconv.Itoa(target+base)
	}
	return out
}

func (l *Lowerer) statement(out *bytecode.Program, s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDeclStatement:
		if st.Initializer != nil {
			l.expr(out, st.Initializer)
		} else {
			out.Emit(bytecode.OpLoadConstNull)
		}
		out.Emitf("%s %s", bytecode.OpStoreVar, st.Name)
		cls := l.classOfAnnotation(st.Type)
		if cls == "" && st.Initializer != nil {
			cls = l.staticClassOf(st.Initializer)
		}
		if cls != "" {
			l.locals[st.Name] = cls
		} else {
			delete(l.locals, st.Name)
		}
	case *ast.AssignmentStatement:
		if l.class != nil && !l.params[st.Name] && l.class.HasMember(st.Name) {
			out.Emitf("%s %s", bytecode.OpLoadVar, bytecode.ReceiverVar)
			l.expr(out, st.Value)
			out.Emitf("%s %s", bytecode.OpSetProperty, st.Name)
			return
		}
		l.expr(out, st.Value)
		out.Emitf("%s %s", bytecode.OpStoreVar, st.Name)
	case *ast.PropertyAssignmentStatement:
		l.expr(out, st.Receiver)
		l.expr(out, st.Value)
		out.Emitf("%s %s", bytecode.OpSetProperty, st.Name)
	case *ast.IndexAssignmentStatement:
		l.expr(out, st.Receiver)
		l.expr(out, st.Index)
		l.expr(out, st.Value)
		out.Emit(bytecode.OpSetIndex)
	case *ast.ExpressionStatement:
		l.expr(out, st.Expr)
		out.Emit(bytecode.OpPop)
	case *ast.PrintStatement:
		l.expr(out, st.Value)
		out.Emit(bytecode.OpPrint)
	case *ast.ReturnStatement:
		if st.Value != nil {
			l.expr(out, st.Value)
		} else {
			out.Emit(bytecode.OpLoadConstNull)
		}
		out.Emit(bytecode.OpReturn)
	case *ast.IfStatement:
		l.ifStatement(out, st)
	case *ast.WhileStatement:
		l.whileStatement(out, st)
	case *ast.ForStatement:
		l.forStatement(out, st)
	case *ast.BlockStatement:
		for _, inner := range st.Statements {
			l.statement(out, inner)
		}
	case *ast.CreateObjectStatement:
		l.expr(out, st.New)
		out.Emit(bytecode.OpPop)
	case *ast.CallMethodStatement:
		l.expr(out, st.Call)
		out.Emit(bytecode.OpPop)
	}
}

func (l *Lowerer) ifStatement(out *bytecode.Program, st *ast.IfStatement) {
	l.expr(out, st.Condition)
	jumpFalse := out.Len()
	out.Emit(bytecode.OpJumpIfFalse + " 0")
	for _, s := range st.Then.Statements {
		l.statement(out, s)
	}
	if st.Else != nil {
		jumpEnd := out.Len()
		out.Emit(bytecode.OpJump + " 0")
		out.Patch(jumpFalse, bytecode.OpJumpIfFalse+" "+strconv.Itoa(out.Len()))
		l.statement(out, st.Else)
		out.Patch(jumpEnd, bytecode.OpJump+" "+strconv.Itoa(out.Len()))
		return
	}
	out.Patch(jumpFalse, bytecode.OpJumpIfFalse+" "+strconv.Itoa(out.Len()))
}

func (l *Lowerer) whileStatement(out *bytecode.Program, st *ast.WhileStatement) {
	loopStart := out.Len()
	l.expr(out, st.Condition)
	jumpFalse := out.Len()
	out.Emit(bytecode.OpJumpIfFalse + " 0")
	for _, s := range st.Body.Statements {
		l.statement(out, s)
	}
	out.Emit(bytecode.OpJump + " " + strconv.Itoa(loopStart))
	out.Patch(jumpFalse, bytecode.OpJumpIfFalse+" "+strconv.Itoa(out.Len()))
}

func (l *Lowerer) forStatement(out *bytecode.Program, st *ast.ForStatement) {
	if st.Init != nil {
		l.statement(out, st.Init)
	}
	loopStart := out.Len()
	jumpFalse := -1
	if st.Condition != nil {
		l.expr(out, st.Condition)
		jumpFalse = out.Len()
		out.Emit(bytecode.OpJumpIfFalse + " 0")
	}
	for _, s := range st.Body.Statements {
		l.statement(out, s)
	}
	if st.Step != nil {
		l.statement(out, st.Step)
	}
	out.Emit(bytecode.OpJump + " " + strconv.Itoa(loopStart))
	if jumpFalse >= 0 {
		out.Patch(jumpFalse, bytecode.OpJumpIfFalse+" "+strconv.Itoa(out.Len()))
	}
}

func (l *Lowerer) expr(out *bytecode.Program, e ast.Expression) {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		out.Emitf("%s %d", bytecode.OpLoadConstInt, ex.Value)
	case *ast.TextLiteral:
		out.Emitf("%s %s", bytecode.OpLoadConstStr, ex.Value)
	case *ast.BooleanLiteral:
		out.Emitf("%s %t", bytecode.OpLoadConstBool, ex.Value)
	case *ast.FloatLiteral:
		out.Emitf("%s %s", bytecode.OpLoadConstFloat, strconv.FormatFloat(ex.Value, 'g', -1, 64))
	case *ast.DoubleLiteral:
		out.Emitf("%s %s", bytecode.OpLoadConstDouble, strconv.FormatFloat(ex.Value, 'g', -1, 64))
	case *ast.DecimalLiteral:
		out.Emitf("%s %s", bytecode.OpLoadConstDecimal, ex.Value)
	case *ast.NullLiteral:
		out.Emit(bytecode.OpLoadConstNull)
	case *ast.This:
		out.Emitf("%s %s", bytecode.OpLoadVar, bytecode.ReceiverVar)
	case *ast.Identifier:
		if l.class != nil && !l.params[ex.Value] && l.class.HasMember(ex.Value) {
			out.Emitf("%s %s", bytecode.OpLoadVar, bytecode.ReceiverVar)
			out.Emitf("%s %s", bytecode.OpGetProperty, ex.Value)
			return
		}
		out.Emitf("%s %s", bytecode.OpLoadVar, ex.Value)
	case *ast.MemberAccessExpr:
		l.expr(out, ex.Receiver)
		out.Emitf("%s %s", bytecode.OpGetProperty, ex.Member)
	case *ast.IndexAccessExpr:
		l.expr(out, ex.Receiver)
		l.expr(out, ex.Index)
		out.Emit(bytecode.OpGetIndex)
	case *ast.NewObjectExpr:
		if rc := l.inh.Resolve(ex.ClassName); rc != nil && rc.IsAbstract {
			l.errs.Addf(errors.KindLowering, ex.Pos(), "cannot instantiate abstract class %q", rc.Name)
		}
		for _, a := range ex.Args {
			l.expr(out, a)
		}
		out.Emitf("%s %s %d", bytecode.OpNewObject, ex.ClassName, len(ex.Args))
	case *ast.MethodCallExpr:
		l.methodCall(out, ex)
	case *ast.FunctionCallExpr:
		for _, a := range ex.Args {
			l.expr(out, a)
		}
		out.Emitf("%s %s %d", bytecode.OpCallFunction, ex.Name, len(ex.Args))
	case *ast.ArithmeticExpr:
		l.expr(out, ex.Left)
		l.expr(out, ex.Right)
		out.Emit(arithOpcode(ex.Op))
	case *ast.ComparisonExpr:
		l.expr(out, ex.Left)
		l.expr(out, ex.Right)
		out.Emit(compareOpcode(ex.Op))
	case *ast.LogicalExpr:
		l.expr(out, ex.Left)
		l.expr(out, ex.Right)
		if ex.Op == ast.OpAnd {
			out.Emit(bytecode.OpAnd)
		} else {
			out.Emit(bytecode.OpOr)
		}
	case *ast.UnaryExpr:
		l.expr(out, ex.Operand)
		if ex.Op == ast.OpNot {
			out.Emit(bytecode.OpNegateBool)
		} else {
			out.Emit(bytecode.OpNegateInt)
		}
	case *ast.ListLiteral:
		for _, el := range ex.Elements {
			l.expr(out, el)
		}
		out.Emitf("%s %d", bytecode.OpNewArray, len(ex.Elements))
	case *ast.InterpolatedString:
		n := 0
		for _, p := range ex.Parts {
			if p.IsExpr() {
				l.expr(out, p.Expr)
			} else {
				out.Emitf("%s %s", bytecode.OpLoadConstStr, p.Text)
			}
			n++
		}
		out.Emitf("%s %d", bytecode.OpConcat, n)
	}
}

// methodCall commits to CALL_STATIC_METHOD when the receiver identifier
// names a static class. Otherwise, when the receiver's static class is known
// and the method it names there is neither virtual nor an override, the call
// binds at lowering time to that declaring class via CALL_METHOD_STATIC —
// calling a non-virtual method of the same name through a base-typed
// reference must run the base's body, not whatever the receiver's dynamic
// class happens to redeclare. Every other call falls back to CALL_METHOD,
// resolved from the receiver's dynamic class at runtime.
func (l *Lowerer) methodCall(out *bytecode.Program, ex *ast.MethodCallExpr) {
	if ident, ok := ex.Receiver.(*ast.Identifier); ok {
		if rc := l.inh.Resolve(ident.Value); rc != nil && rc.IsStatic {
			for _, a := range ex.Args {
				l.expr(out, a)
			}
			out.Emitf("%s %s %s %d", bytecode.OpCallStaticMethod, rc.Name, ex.Name, len(ex.Args))
			return
		}
	}

	if owner := l.staticMethodOwner(ex); owner != "" {
		l.pushReceiver(out, ex.Receiver)
		for _, a := range ex.Args {
			l.expr(out, a)
		}
		out.Emitf("%s %s %s %d", bytecode.OpCallMethodStatic, owner, ex.Name, len(ex.Args))
		return
	}

	l.pushReceiver(out, ex.Receiver)
	for _, a := range ex.Args {
		l.expr(out, a)
	}
	out.Emitf("%s %s %d", bytecode.OpCallMethod, ex.Name, len(ex.Args))
}

// staticMethodOwner returns the fully-qualified class name ex should
// statically bind to, or "" to fall back to virtual CALL_METHOD — either
// because the receiver's static class could not be determined, or because
// the method it names there is virtual/an override and must dispatch from
// the receiver's dynamic class instead.
func (l *Lowerer) staticMethodOwner(ex *ast.MethodCallExpr) string {
	class := l.receiverStaticClass(ex.Receiver)
	if class == "" {
		return ""
	}
	rc := l.inh.Resolve(class)
	if rc == nil {
		return ""
	}
	m, ok := rc.Methods[ex.Name]
	if !ok || m.IsVirtual || m.IsOverride {
		return ""
	}
	if owner, _ := rc.FindMethodOwner(ex.Name); owner != nil {
		return owner.Name
	}
	return rc.Name
}

// receiverStaticClass is ex.Receiver's statically known class, or the
// enclosing method's own class for a bare (implicit este) call.
func (l *Lowerer) receiverStaticClass(receiver ast.Expression) string {
	if receiver == nil {
		if l.class != nil {
			return l.class.Name
		}
		return ""
	}
	return l.staticClassOf(receiver)
}

// pushReceiver emits the receiver value a method call dispatches on: este
// for a bare call, otherwise the receiver expression itself.
func (l *Lowerer) pushReceiver(out *bytecode.Program, receiver ast.Expression) {
	if receiver == nil {
		out.Emitf("%s %s", bytecode.OpLoadVar, bytecode.ReceiverVar)
		return
	}
	l.expr(out, receiver)
}

// staticClassOf returns the fully-qualified class name e statically
// evaluates to, or "" when e is not class-typed or its static type isn't one
// of the shapes the lowerer tracks (este, a declared local/parameter, a
// class member, a member-access chain, or object construction). A "" result
// is always safe: it just falls back to dynamic CALL_METHOD dispatch.
func (l *Lowerer) staticClassOf(e ast.Expression) string {
	switch ex := e.(type) {
	case *ast.This:
		if l.class != nil {
			return l.class.Name
		}
	case *ast.Identifier:
		if cls, ok := l.locals[ex.Value]; ok {
			return cls
		}
		if l.class != nil && !l.params[ex.Value] && l.class.HasMember(ex.Value) {
			if t, ok := l.class.MemberType(ex.Value); ok {
				return l.classOfAnnotation(t)
			}
		}
	case *ast.MemberAccessExpr:
		recvClass := l.staticClassOf(ex.Receiver)
		if recvClass == "" {
			return ""
		}
		if rc := l.inh.Resolve(recvClass); rc != nil {
			if t, ok := rc.MemberType(ex.Member); ok {
				return l.classOfAnnotation(t)
			}
		}
	case *ast.NewObjectExpr:
		return ex.ClassName
	}
	return ""
}

// classOfAnnotation returns the fully-qualified class name a (already
// name-resolved by internal/resolve) type annotation denotes, or "" for a
// primitive, list, or inferred/absent type.
func (l *Lowerer) classOfAnnotation(t *ast.TypeAnnotation) string {
	if t == nil || t.Inferred || t.Elem != nil || t.Name == "" {
		return ""
	}
	if rc := l.inh.Resolve(t.Name); rc != nil {
		return rc.Name
	}
	return ""
}

func arithOpcode(op ast.ArithOp) string {
	switch op {
	case ast.OpAdd:
		return bytecode.OpAdd
	case ast.OpSub:
		return bytecode.OpSub
	case ast.OpMul:
		return bytecode.OpMul
	case ast.OpDiv:
		return bytecode.OpDiv
	default:
		return bytecode.OpMod
	}
}

func compareOpcode(op ast.CompareOp) string {
	switch op {
	case ast.OpEq:
		return bytecode.OpCompareEq
	case ast.OpNe:
		return bytecode.OpCompareNe
	case ast.OpLt:
		return bytecode.OpCompareLt
	case ast.OpLe:
		return bytecode.OpCompareLe
	case ast.OpGt:
		return bytecode.OpCompareGt
	default:
		return bytecode.OpCompareGe
	}
}
