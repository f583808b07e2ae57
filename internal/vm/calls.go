package vm

import (
	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/value"
)

// newObject implements NEW_OBJECT: zero-initialize the flattened property
// set, bind the provided constructor arguments to the leading parameters in
// declared order, then run the constructor body as a call frame bound to
// the new object as este.
func (v *VM) newObject(className string, argc, ip int) (int, error) {
	ci, err := v.classOf(className)
	if err != nil {
		return 0, err
	}
	if ci.IsAbstract {
		return 0, v.fail("cannot instantiate abstract class %q", className)
	}

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}

	obj := &value.Object{Class: className, Fields: map[string]value.Value{}}
	for _, p := range v.flattenedProperties(className) {
		obj.Fields[p] = value.Null()
	}

	objVal := value.Obj(obj)
	ctor, ok := ci.Methods[bytecode.ConstructorName]
	if !ok {
		v.push(objVal)
		return ip + 1, nil
	}

	locals := map[string]value.Value{bytecode.ReceiverVar: objVal}
	for i, val := range args {
		if i < len(ctor.Params) {
			locals[ctor.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, class: className, returnIP: ip + 1, resultOverride: &objVal})
	return ctor.Start, nil
}

// callBaseConstructor implements CALL_BASE_CONSTRUCTOR: invoke the current
// frame's class's parent constructor, reusing the same receiver (este) and
// forwarding argc arguments popped from the stack. A no-op if the parent
// declares no constructor of its own.
func (v *VM) callBaseConstructor(argc, ip int) (int, error) {
	if len(v.frames) == 0 {
		return 0, v.fail("CALL_BASE_CONSTRUCTOR with no active call frame")
	}
	cur := v.frames[len(v.frames)-1]

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}

	ci, err := v.classOf(cur.class)
	if err != nil {
		return 0, err
	}
	if ci.Parent == "" || ci.Parent == bytecode.NullParentName {
		return 0, v.fail("class %q has no parent to call base constructor on", cur.class)
	}
	parentCI, err := v.classOf(ci.Parent)
	if err != nil {
		return 0, err
	}
	ctor, ok := parentCI.Methods[bytecode.ConstructorName]
	if !ok {
		return ip + 1, nil
	}

	recv := cur.locals[bytecode.ReceiverVar]
	locals := map[string]value.Value{bytecode.ReceiverVar: recv}
	for i, val := range args {
		if i < len(ctor.Params) {
			locals[ctor.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, class: ci.Parent, returnIP: ip + 1, discardResult: true})
	return ctor.Start, nil
}

// callMethod implements CALL_METHOD: virtual dispatch from the receiver's
// dynamic class. The receiver is pushed before the arguments by the
// lowerer, so it sits beneath them on the stack.
func (v *VM) callMethod(name string, argc, ip int) (int, error) {
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}
	recv, err := v.pop()
	if err != nil {
		return 0, err
	}
	if recv.Kind != value.KindObject {
		return 0, v.fail("CALL_METHOD %q on non-object value", name)
	}

	m, err := v.findMethod(recv.Obj.Class, name)
	if err != nil {
		return 0, err
	}

	locals := map[string]value.Value{bytecode.ReceiverVar: recv}
	for i, val := range args {
		if i < len(m.Params) {
			locals[m.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, class: recv.Obj.Class, returnIP: ip + 1})
	return m.Start, nil
}

// callMethodStatic implements CALL_METHOD_STATIC: the lowerer already
// resolved name to its statically-declaring class (a non-virtual,
// non-override instance method), so dispatch starts there instead of at the
// receiver's dynamic class — unlike callMethod, this never walks up from a
// subclass override.
func (v *VM) callMethodStatic(class, name string, argc, ip int) (int, error) {
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}
	recv, err := v.pop()
	if err != nil {
		return 0, err
	}
	if recv.Kind != value.KindObject {
		return 0, v.fail("CALL_METHOD_STATIC %q on non-object value", name)
	}

	m, err := v.findMethod(class, name)
	if err != nil {
		return 0, err
	}

	locals := map[string]value.Value{bytecode.ReceiverVar: recv}
	for i, val := range args {
		if i < len(m.Params) {
			locals[m.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, class: class, returnIP: ip + 1})
	return m.Start, nil
}

func (v *VM) callStaticMethod(class, name string, argc, ip int) (int, error) {
	ci, err := v.classOf(class)
	if err != nil {
		return 0, err
	}
	m, ok := ci.StaticMethods[name]
	if !ok {
		return 0, v.fail("class %q has no static method %q", class, name)
	}

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}

	locals := map[string]value.Value{}
	for i, val := range args {
		if i < len(m.Params) {
			locals[m.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, returnIP: ip + 1})
	return m.Start, nil
}

func (v *VM) callFunction(name string, argc, ip int) (int, error) {
	fn, ok := v.functions[name]
	if !ok {
		return 0, v.fail("undeclared function %q", name)
	}

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return 0, err
		}
		args[i] = val
	}

	locals := map[string]value.Value{}
	for i, val := range args {
		if i < len(fn.Params) {
			locals[fn.Params[i]] = val
		}
	}
	v.frames = append(v.frames, &frame{locals: locals, returnIP: ip + 1})
	return fn.Start, nil
}

// doReturn pops the current call frame and resumes at its saved return
// address, leaving the returned value on the shared operand stack for the
// caller.
func (v *VM) doReturn(result value.Value) (int, error) {
	if len(v.frames) == 0 {
		return 0, v.fail("RETURN with no active call frame")
	}
	fr := v.frames[len(v.frames)-1]
	v.frames = v.frames[:len(v.frames)-1]
	switch {
	case fr.discardResult:
		// parent constructor body's own return value never reaches the
		// caller's expression stack.
	case fr.resultOverride != nil:
		v.push(*fr.resultOverride)
	default:
		v.push(result)
	}
	return fr.returnIP, nil
}
