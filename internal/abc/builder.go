// Package abc models the AVM2 side of the lowering: opcode constants, the
// mutable Label symbol, and the MethodBuilder instruction-stream
// accumulator that §3 calls the "method builder (output accumulator)".
package abc

import "fmt"

// Instr is one emitted AVM2 instruction. Only the fields relevant to Op are
// populated; the rest are zero.
type Instr struct {
	Op Op

	Int    int64   // pushint/pushbyte immediate, local index, byte offset
	Double float64 // pushdouble immediate
	Name   string  // multiname: property name, function name, import slot name

	Target  *Label   // jump/conditional-jump destination
	Default *Label   // lookupswitch default destination
	Cases   []*Label // lookupswitch case destinations, in order

	ArgCount int // callproperty/callpropvoid/construct argument count
}

// MethodBuilder accumulates the AVM2 instruction stream for a single method
// body, together with the high-watermarks the ABC method_body record needs
// (§3 "Method builder").
type MethodBuilder struct {
	Instrs []Instr

	stackDepth int
	MaxStack   int

	// MaxLocal is the highest AVM2 local index ever touched. Local 0 (the
	// receiver) is pre-accounted for by NewMethodBuilder.
	MaxLocal int

	labelStack []*Label

	// freeLocalNext is the scoped stack allocator for temporaries (§5): the
	// next AVM2 local index a temporary acquisition would hand out.
	freeLocalNext int
}

// NewMethodBuilder returns a builder ready to emit a method whose first
// numParamsAndLocals AVM2 locals (after the receiver at index 0) are already
// reserved for Wasm parameters and locals.
func NewMethodBuilder(numParamsAndLocals int) *MethodBuilder {
	b := &MethodBuilder{freeLocalNext: numParamsAndLocals + 1}
	b.touchLocal(numParamsAndLocals) // account for the receiver plus params/locals
	return b
}

func (b *MethodBuilder) touchLocal(idx int) {
	if idx > b.MaxLocal {
		b.MaxLocal = idx
	}
}

func (b *MethodBuilder) adjustStack(delta int) {
	b.stackDepth += delta
	if b.stackDepth < 0 {
		panic(fmt.Sprintf("abc: max_stack underflow at instruction %d (op %s)", len(b.Instrs), b.Instrs[len(b.Instrs)-1].Op))
	}
	if b.stackDepth > b.MaxStack {
		b.MaxStack = b.stackDepth
	}
}

// StackDepth returns the current simulated operand-stack depth.
func (b *MethodBuilder) StackDepth() int { return b.stackDepth }

// SyncStackDepth forcibly sets the simulated depth to d. The emitter's depth
// tracking is a single linear pass over the instruction stream, which is
// exact for straight-line code and for void-typed branches (every arm nets
// zero), but a value-producing branch (Select's two arms, each pushing one
// result) cannot be summed across both arms the way linear simulation does
// by default. Callers that know the true post-merge depth independent of the
// preceding arms -- i.e. at a label bound after such a branch -- call this to
// correct it.
func (b *MethodBuilder) SyncStackDepth(d int) {
	b.stackDepth = d
	if d > b.MaxStack {
		b.MaxStack = d
	}
}

func (b *MethodBuilder) emit(ins Instr, stackDelta int) {
	b.Instrs = append(b.Instrs, ins)
	b.adjustStack(stackDelta)
}

// --- label stack (§4.1.1, §9) ---

// PushLabel creates a fresh label and pushes it onto the label stack; used
// at Block/Loop/If entry.
func (b *MethodBuilder) PushLabel(name string) *Label {
	l := &Label{Name: name}
	b.labelStack = append(b.labelStack, l)
	return l
}

// PopLabel pops the top of the label stack. Callers must have already bound
// the label if it was ever referenced (PopLabel does not bind).
func (b *MethodBuilder) PopLabel() *Label {
	tail := len(b.labelStack) - 1
	l := b.labelStack[tail]
	b.labelStack = b.labelStack[:tail]
	return l
}

// FindLabel searches the label stack from the top for a label with the
// given name, returning (label, true) if found. This backs Break/Switch
// target resolution (§4.1.1).
func (b *MethodBuilder) FindLabel(name string) (*Label, bool) {
	for i := len(b.labelStack) - 1; i >= 0; i-- {
		if b.labelStack[i].Name == name {
			return b.labelStack[i], true
		}
	}
	return nil, false
}

// LabelStackDepth reports how many labels are currently pushed; used to
// assert the stack is empty at function entry/exit (§3 invariant).
func (b *MethodBuilder) LabelStackDepth() int { return len(b.labelStack) }

// Bind marks l as bound at the current instruction position and emits a
// zero-cost marker instruction at that position. Binding an already-bound
// label is an internal invariant violation.
func (b *MethodBuilder) Bind(l *Label) {
	if l.bound {
		panic(fmt.Sprintf("abc: label %q bound twice", l.Name))
	}
	l.bound = true
	l.index = len(b.Instrs)
	b.emit(Instr{Op: OpLabel}, 0)
}

// markUsed records that some branch now targets l. Binding is still
// required separately; the flag is what Label.Used reports.
func (l *Label) markUsed() { l.used = true }

// --- temporaries (§3 "Lifecycles", §5) ---

// AcquireTemp hands out the next free AVM2 local index for a scratch value,
// e.g. the temporaries used by the CallIndirect reordering escape hatch
// (§4.1.6). Acquisitions must be released, in reverse order, before the
// enclosing expression finishes lowering.
func (b *MethodBuilder) AcquireTemp() int {
	idx := b.freeLocalNext
	b.freeLocalNext++
	b.touchLocal(idx)
	return idx
}

// ReleaseTemp releases the most recently acquired temporary. idx must be the
// index returned by the matching AcquireTemp call (LIFO discipline).
func (b *MethodBuilder) ReleaseTemp(idx int) {
	if idx != b.freeLocalNext-1 {
		panic(fmt.Sprintf("abc: ReleaseTemp(%d) out of LIFO order (next free is %d)", idx, b.freeLocalNext))
	}
	b.freeLocalNext--
}

// --- instruction emission ---

// EmitSimple appends a zero-operand instruction with the given net stack
// effect (may be negative).
func (b *MethodBuilder) EmitSimple(op Op, stackDelta int) {
	b.emit(Instr{Op: op}, stackDelta)
}

// EmitPushInt appends pushint v (§4.1.3 "i32 uses pushint").
func (b *MethodBuilder) EmitPushInt(v int32) {
	b.emit(Instr{Op: OpPushInt, Int: int64(v)}, 1)
}

// EmitPushDouble appends pushdouble v (§4.1.3 "f32/f64 use pushdouble").
func (b *MethodBuilder) EmitPushDouble(v float64) {
	b.emit(Instr{Op: OpPushDouble, Double: v}, 1)
}

// EmitPushNaN appends the dedicated pushnan opcode (§4.1.3).
func (b *MethodBuilder) EmitPushNaN() {
	b.emit(Instr{Op: OpPushNaN}, 1)
}

// EmitPushString appends pushstring s.
func (b *MethodBuilder) EmitPushString(s string) {
	b.emit(Instr{Op: OpPushString, Name: s}, 1)
}

// EmitConstruct appends construct with argc arguments and the constructor
// reference already on the stack (§4.1.1 Unreachable's `throw new
// Error(...)`).
func (b *MethodBuilder) EmitConstruct(argc int) {
	b.emit(Instr{Op: OpConstruct, ArgCount: argc}, -argc) // pops argc args and the ctor ref, pushes the new instance
}

// EmitGetLocal appends getlocal idx, or the dedicated getlocal0..3 shorthand
// when idx <= 3.
func (b *MethodBuilder) EmitGetLocal(idx int) {
	b.touchLocal(idx)
	if idx <= 3 {
		b.emit(Instr{Op: Op(int(OpGetLocal0) + idx)}, 1)
		return
	}
	b.emit(Instr{Op: OpGetLocal, Int: int64(idx)}, 1)
}

// EmitSetLocal appends setlocal idx.
func (b *MethodBuilder) EmitSetLocal(idx int) {
	b.touchLocal(idx)
	b.emit(Instr{Op: OpSetLocal, Int: int64(idx)}, -1)
}

// EmitIncLocalI/EmitDecLocalI implement the LocalSet peephole (§4.1.5).
func (b *MethodBuilder) EmitIncLocalI(idx int) {
	b.touchLocal(idx)
	b.emit(Instr{Op: OpIncLocalI, Int: int64(idx)}, 0)
}

func (b *MethodBuilder) EmitDecLocalI(idx int) {
	b.touchLocal(idx)
	b.emit(Instr{Op: OpDecLocalI, Int: int64(idx)}, 0)
}

// EmitDup/EmitPop/EmitSwap are plain stack-shuffle instructions.
func (b *MethodBuilder) EmitDup()  { b.emit(Instr{Op: OpDup}, 1) }
func (b *MethodBuilder) EmitPop()  { b.emit(Instr{Op: OpPop}, -1) }
func (b *MethodBuilder) EmitSwap() { b.emit(Instr{Op: OpSwap}, 0) }

// EmitUnary appends a one-operand, one-result opcode (negate, convert_i, …).
func (b *MethodBuilder) EmitUnary(op Op) {
	b.emit(Instr{Op: op}, 0)
}

// EmitBinary appends a two-operand, one-result opcode (add, subtract, …).
func (b *MethodBuilder) EmitBinary(op Op) {
	b.emit(Instr{Op: op}, -1)
}

// EmitJump appends an unconditional jump to target and marks it used.
func (b *MethodBuilder) EmitJump(target *Label) {
	target.markUsed()
	b.emit(Instr{Op: OpJump, Target: target}, 0)
}

// EmitConditionalJump appends one of the if* family, which pops its boolean
// (or, for the folded comparators, two operands already pushed by the
// caller — see internal/lower/fold.go) and marks target used.
func (b *MethodBuilder) EmitConditionalJump(op Op, target *Label, operandsPopped int) {
	target.markUsed()
	b.emit(Instr{Op: op, Target: target}, -operandsPopped)
}

// EmitLookupSwitch appends a lookupswitch over an i32 already on the stack
// (§4.1.1 Switch).
func (b *MethodBuilder) EmitLookupSwitch(def *Label, cases []*Label) {
	def.markUsed()
	for _, c := range cases {
		c.markUsed()
	}
	b.emit(Instr{Op: OpLookupSwitch, Default: def, Cases: cases}, -1)
}

// EmitGetProperty/EmitSetProperty access a named (possibly late-bound)
// property. name == "" means the property name itself is on the stack
// (late-bound / runtime multiname, §4.1.6 CallIndirect).
func (b *MethodBuilder) EmitGetProperty(name string) {
	delta := 0
	if name == "" {
		delta = -1 // the multiname was pushed as a value
	}
	b.emit(Instr{Op: OpGetProperty, Name: name}, delta)
}

func (b *MethodBuilder) EmitSetProperty(name string) {
	// pops value and (if late-bound) the multiname value; object already on stack is also popped.
	delta := -2
	if name == "" {
		delta = -3
	}
	b.emit(Instr{Op: OpSetProperty, Name: name}, delta)
}

// EmitGetLex appends getlex name (receiver-free global lookup).
func (b *MethodBuilder) EmitGetLex(name string) {
	b.emit(Instr{Op: OpGetLex, Name: name}, 1)
}

// EmitCallProperty/EmitCallPropVoid call a (possibly late-bound) method.
// The receiver and argc arguments must already be on the stack; name == ""
// means the method name itself was pushed as a runtime multiname between
// the receiver and the arguments (§4.1.6).
func (b *MethodBuilder) EmitCallProperty(name string, argc int, void bool) {
	op := OpCallProperty
	if void {
		op = OpCallPropVoid
	}
	// pops receiver + argc args (+1 more if late-bound name was pushed), pushes 1 result unless void.
	popped := 1 + argc
	if name == "" {
		popped++
	}
	delta := -popped
	if !void {
		delta++
	}
	b.emit(Instr{Op: op, Name: name, ArgCount: argc}, delta)
}

// EmitCall appends the generic `call` opcode used for call_indirect (§4.1.6):
// the function reference, a receiver (undefined, via pushundefined-less
// getlocal0 or similar caller-supplied value) and argc arguments must
// already be on the stack in that order; it pushes one result.
func (b *MethodBuilder) EmitCall(argc int) {
	b.emit(Instr{Op: OpCall, ArgCount: argc}, -(argc + 2) + 1)
}

// EmitThrow appends throw, consuming the error value on the stack.
func (b *MethodBuilder) EmitThrow() {
	b.emit(Instr{Op: OpThrow}, -1)
}

// EmitReturnVoid/EmitReturnValue terminate the method.
func (b *MethodBuilder) EmitReturnVoid() {
	b.emit(Instr{Op: OpReturnVoid}, 0)
}

func (b *MethodBuilder) EmitReturnValue() {
	b.emit(Instr{Op: OpReturnValue}, -1)
}

// EmitNewObject appends newobject with n key/value pairs already on the
// stack (§4.3 building the exports object).
func (b *MethodBuilder) EmitNewObject(n int) {
	b.emit(Instr{Op: OpNewObject, ArgCount: n}, -2*n+1)
}

// EmitNewArray appends newarray with n elements already on the stack (§4.3
// building the function table).
func (b *MethodBuilder) EmitNewArray(n int) {
	b.emit(Instr{Op: OpNewArray, ArgCount: n}, -n+1)
}

// EmitFindPropStrict/EmitConstructSuper support the instance initializer
// (§4.3).
func (b *MethodBuilder) EmitFindPropStrict(name string) {
	b.emit(Instr{Op: OpFindPropStrict, Name: name}, 1)
}

func (b *MethodBuilder) EmitConstructSuper(argc int) {
	b.emit(Instr{Op: OpConstructSuper, ArgCount: argc}, -(argc + 1))
}

// EmitPushScope pushes the value on top of the operand stack onto the scope
// stack, used by the script initializer to enter global scope before
// constructing the synthesized class (§4.3 "Script initializer").
func (b *MethodBuilder) EmitPushScope() {
	b.emit(Instr{Op: OpPushScope}, -1)
}

// EmitGetScopeObject pushes the scope stack entry at idx.
func (b *MethodBuilder) EmitGetScopeObject(idx int) {
	b.emit(Instr{Op: OpGetScopeObject, Int: int64(idx)}, 1)
}

// EmitNewClass appends newclass classIndex: pops the base class reference
// already on the stack and pushes the constructed class object (§4.3
// "Script initializer").
func (b *MethodBuilder) EmitNewClass(classIndex int) {
	b.emit(Instr{Op: OpNewClass, Int: int64(classIndex)}, 0)
}

// EmitInitProperty appends initproperty name, installing the class object on
// top of the stack as a property of the object beneath it.
func (b *MethodBuilder) EmitInitProperty(name string) {
	b.emit(Instr{Op: OpInitProperty, Name: name}, -2)
}

// EmitDebugLine/EmitDebugFile implement the --debug instrumentation (§4.2).
func (b *MethodBuilder) EmitDebugLine(line int) {
	b.emit(Instr{Op: OpDebugLine, Int: int64(line)}, 0)
}

func (b *MethodBuilder) EmitDebugFile(name string) {
	b.emit(Instr{Op: OpDebugFile, Name: name}, 0)
}
