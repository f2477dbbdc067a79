package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/trace"
)

// fakeEnv is a minimal Env for tests that don't exercise module assembly;
// each method returns a deterministic, inspectable name.
type fakeEnv struct {
	callResults map[string]api.ValueType
}

func newFakeEnv() *fakeEnv { return &fakeEnv{callResults: map[string]api.ValueType{}} }

func (e *fakeEnv) RegisterGlobal(name string, typ api.ValueType) string {
	return "global$" + name
}

func (e *fakeEnv) RegisterImport(module, base string) string {
	return "import$" + module + "$" + base
}

func (e *fakeEnv) CallTarget(name string) (string, api.ValueType) {
	if rt, ok := e.callResults[name]; ok {
		return "func$" + name, rt
	}
	return "func$" + name, api.ValueTypeI32
}

func (e *fakeEnv) TableTraitName() string   { return "wasm$table" }
func (e *fakeEnv) MemorySizeHelper() string { return "memory_size" }
func (e *fakeEnv) MemoryGrowHelper() string { return "memory_grow" }
func (e *fakeEnv) Clz32Helper() string      { return "clz32" }

func simpleFunc(body ir.Expr, result api.ValueType) *ir.Function {
	return &ir.Function{Name: "f", Params: nil, Locals: nil, Result: result, Body: body}
}

func newLowerer(fn *ir.Function) (*Lowerer, *abc.MethodBuilder) {
	b := abc.NewMethodBuilder(fn.NumParamsAndLocals())
	return New(newFakeEnv(), b, fn, trace.Options{}), b
}

func ops(b *abc.MethodBuilder) []abc.Op {
	out := make([]abc.Op, len(b.Instrs))
	for i, in := range b.Instrs {
		out[i] = in.Op
	}
	return out
}

func TestEmitConstI32(t *testing.T) {
	fn := simpleFunc(&ir.Const{Typ: api.ValueTypeI32, I32: 42}, api.ValueTypeI32)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpPushInt}, ops(b))
	require.Equal(t, 1, b.MaxStack)
}

func TestEmitConstNaN(t *testing.T) {
	fn := simpleFunc(&ir.Const{Typ: api.ValueTypeF64, IsNaN: true}, api.ValueTypeF64)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpPushNaN}, ops(b))
}

func TestEmitBinaryI32Add(t *testing.T) {
	expr := &ir.Binary{
		Op:   ir.OpAdd,
		Left: &ir.Const{Typ: api.ValueTypeI32, I32: 1},
		Right: &ir.Const{Typ: api.ValueTypeI32, I32: 2},
		Typ:  api.ValueTypeI32,
	}
	fn := simpleFunc(expr, api.ValueTypeI32)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpPushInt, abc.OpPushInt, abc.OpAddI}, ops(b))
	require.Equal(t, 2, b.MaxStack)
	require.Equal(t, 1, b.StackDepth())
}

func TestEmitBinaryDivU(t *testing.T) {
	expr := &ir.Binary{
		Op:   ir.OpDivU,
		Left: &ir.Const{Typ: api.ValueTypeI32, I32: 10},
		Right: &ir.Const{Typ: api.ValueTypeI32, I32: 3},
		Typ:  api.ValueTypeI32,
	}
	fn := simpleFunc(expr, api.ValueTypeI32)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpPushInt, abc.OpConvertU,
		abc.OpPushInt, abc.OpConvertU,
		abc.OpDivide, abc.OpConvertU, abc.OpConvertI,
	}, ops(b))
}

func TestEmitStandaloneCompareEq(t *testing.T) {
	// Eq as a Drop'd value (not the direct condition of an if/br) must take
	// the strictequals+convert_i path, not the folded conditional-jump path.
	expr := &ir.Drop{Value: &ir.Binary{
		Op:   ir.OpEq,
		Left: &ir.Const{Typ: api.ValueTypeI32, I32: 1},
		Right: &ir.Const{Typ: api.ValueTypeI32, I32: 1},
		Typ:  api.ValueTypeI32,
	}}
	fn := simpleFunc(expr, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpPushInt, abc.OpPushInt, abc.OpStrictEquals, abc.OpConvertI, abc.OpPop,
	}, ops(b))
}

func TestEmitFoldedIfCondition(t *testing.T) {
	ifNode := &ir.If{
		Cond: &ir.Binary{Op: ir.OpLtS, Left: &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32}, Right: &ir.Const{Typ: api.ValueTypeI32, I32: 0}, Typ: api.ValueTypeI32},
		Then: &ir.Return{},
	}
	fn := simpleFunc(ifNode, api.ValueTypeNone)
	fn.Params = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	// getlocal1, pushint 0, ifge(folded-inverse), returnvoid, label
	require.Equal(t, []abc.Op{abc.OpGetLocal1, abc.OpPushInt, abc.OpIfGe, abc.OpReturnVoid, abc.OpLabel}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestEmitBreakToBlock(t *testing.T) {
	block := &ir.Block{Name: "b0", Children: []ir.Expr{
		&ir.Break{Name: "b0"},
		&ir.Unreachable{},
	}}
	fn := simpleFunc(block, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpJump, abc.OpFindPropStrict, abc.OpPushString, abc.OpConstruct, abc.OpThrow, abc.OpLabel,
	}, ops(b))
}

func TestEmitBreakUnboundLabelErrors(t *testing.T) {
	fn := simpleFunc(&ir.Break{Name: "nowhere"}, api.ValueTypeNone)
	l, _ := newLowerer(fn)
	err := l.Emit(fn.Body)
	require.Error(t, err)
	var le *LoweringError
	require.ErrorAs(t, err, &le)
	require.Equal(t, ErrMalformedIR, le.Class)
}

func TestEmitBreakWithValueErrors(t *testing.T) {
	block := &ir.Block{Name: "b0", Children: []ir.Expr{
		&ir.Break{Name: "b0", Value: &ir.Const{Typ: api.ValueTypeI32, I32: 1}},
	}}
	fn := simpleFunc(block, api.ValueTypeNone)
	l, _ := newLowerer(fn)
	err := l.Emit(fn.Body)
	require.Error(t, err)
}

func TestLocalSetIncPeephole(t *testing.T) {
	set := &ir.LocalSet{
		Index: 0,
		Typ:   api.ValueTypeI32,
		Value: &ir.Binary{
			Op:   ir.OpAdd,
			Left: &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
			Right: &ir.Const{Typ: api.ValueTypeI32, I32: 1},
			Typ:  api.ValueTypeI32,
		},
	}
	fn := simpleFunc(set, api.ValueTypeNone)
	fn.Locals = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpIncLocalI}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestLocalTee(t *testing.T) {
	set := &ir.LocalSet{Index: 0, IsTee: true, Typ: api.ValueTypeI32, Value: &ir.Const{Typ: api.ValueTypeI32, I32: 9}}
	fn := simpleFunc(&ir.Drop{Value: set}, api.ValueTypeNone)
	fn.Locals = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpPushInt, abc.OpDup, abc.OpSetLocal, abc.OpPop}, ops(b))
}

func TestGlobalSet(t *testing.T) {
	set := &ir.GlobalSet{Name: "g", Value: &ir.Const{Typ: api.ValueTypeI32, I32: 5}}
	fn := simpleFunc(set, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpGetLocal0, abc.OpPushInt, abc.OpSetProperty}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

// TestGlobalGet checks the read side: getlocal_0 then getproperty against
// the global's Slot trait, with no coercion opcode trailing it (the Slot
// trait itself is declared with the global's type, so AVM2 coerces on
// every write and a read of a typed Slot always yields that exact type).
func TestGlobalGet(t *testing.T) {
	get := &ir.GlobalGet{Name: "g", Typ: api.ValueTypeI32}
	fn := simpleFunc(&ir.Drop{Value: get}, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpGetLocal0, abc.OpGetProperty, abc.OpPop}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestSelect(t *testing.T) {
	sel := &ir.Select{
		IfTrue:  &ir.Const{Typ: api.ValueTypeI32, I32: 1},
		IfFalse: &ir.Const{Typ: api.ValueTypeI32, I32: 2},
		Cond:    &ir.Const{Typ: api.ValueTypeI32, I32: 1},
		Typ:     api.ValueTypeI32,
	}
	fn := simpleFunc(&ir.Drop{Value: sel}, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, 0, b.StackDepth())
}

func TestHostMemorySize(t *testing.T) {
	fn := simpleFunc(&ir.Drop{Value: &ir.Host{Op: ir.HostMemorySize}}, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpGetLocal0, abc.OpCallProperty, abc.OpPop}, ops(b))
}

func TestCallDirectVoid(t *testing.T) {
	call := &ir.Call{Target: "helper", ResultType: api.ValueTypeNone}
	fn := simpleFunc(call, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpGetLocal0, abc.OpCallPropVoid}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestCallIndirectSideEffectFreeTarget(t *testing.T) {
	ci := &ir.CallIndirect{
		Target:     &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
		Operands:   []ir.Expr{&ir.Const{Typ: api.ValueTypeI32, I32: 1}},
		ResultType: api.ValueTypeI32,
	}
	fn := simpleFunc(&ir.Drop{Value: ci}, api.ValueTypeNone)
	fn.Params = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpGetLocal0, abc.OpGetProperty, abc.OpGetLocal1, abc.OpGetProperty,
		abc.OpGetLocal0, abc.OpPushInt, abc.OpCall, abc.OpPop,
	}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestStoreSideEffectFreePointer(t *testing.T) {
	st := &ir.Store{
		Ptr:   &ir.Const{Typ: api.ValueTypeI32, I32: 100},
		Value: &ir.Const{Typ: api.ValueTypeI32, I32: 7},
		Width: ir.Width32,
		Typ:   api.ValueTypeI32,
	}
	fn := simpleFunc(st, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{abc.OpPushInt, abc.OpPushInt, abc.OpSI32}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

func TestStoreSideEffectingPointerUsesTemp(t *testing.T) {
	st := &ir.Store{
		Ptr:   &ir.Call{Target: "addr", ResultType: api.ValueTypeI32},
		Value: &ir.Const{Typ: api.ValueTypeI32, I32: 7},
		Width: ir.Width32,
		Typ:   api.ValueTypeI32,
	}
	fn := simpleFunc(st, api.ValueTypeNone)
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpGetLocal0, abc.OpCallProperty, abc.OpSetLocal,
		abc.OpPushInt, abc.OpGetLocal1, abc.OpSI32,
	}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

// TestStoreSideEffectFreePointerEffectingValueUsesTemp is the counterpart
// the pointer-only check misses: ptr is a bare LocalGet (side-effect free)
// but value is a tee that mutates that very local. Wasm evaluates ptr
// first, so the address must be captured from the OLD local value before
// value runs; taking the ptr-only fast path would instead read value first
// (via the tee) and compute the address from the mutated local.
func TestStoreSideEffectFreePointerEffectingValueUsesTemp(t *testing.T) {
	st := &ir.Store{
		Ptr:   &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
		Value: &ir.LocalSet{Index: 0, IsTee: true, Value: &ir.Const{Typ: api.ValueTypeI32, I32: 5}, Typ: api.ValueTypeI32},
		Width: ir.Width32,
		Typ:   api.ValueTypeI32,
	}
	fn := simpleFunc(st, api.ValueTypeNone)
	fn.Params = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpGetLocal1, abc.OpSetLocal,
		abc.OpPushInt, abc.OpDup, abc.OpSetLocal,
		abc.OpGetLocal2, abc.OpSI32,
	}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}

// TestCallIndirectSideEffectFreeTargetEffectingOperandUsesTemp is the
// call_indirect counterpart: target is a bare LocalGet but an operand is a
// tee that mutates that local. Wasm evaluates operands before the table
// index, so the fetch must use the NEW local value; gating the fast path on
// target alone would fetch the table entry from the OLD value first.
func TestCallIndirectSideEffectFreeTargetEffectingOperandUsesTemp(t *testing.T) {
	ci := &ir.CallIndirect{
		Target:     &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
		Operands:   []ir.Expr{&ir.LocalSet{Index: 0, IsTee: true, Value: &ir.Const{Typ: api.ValueTypeI32, I32: 5}, Typ: api.ValueTypeI32}},
		ResultType: api.ValueTypeI32,
	}
	fn := simpleFunc(&ir.Drop{Value: ci}, api.ValueTypeNone)
	fn.Params = []api.ValueType{api.ValueTypeI32}
	l, b := newLowerer(fn)
	require.NoError(t, l.Emit(fn.Body))
	require.Equal(t, []abc.Op{
		abc.OpPushInt, abc.OpDup, abc.OpSetLocal, abc.OpSetLocal,
		abc.OpGetLocal0, abc.OpGetProperty, abc.OpGetLocal1, abc.OpGetProperty,
		abc.OpGetLocal0, abc.OpGetLocal2, abc.OpCall, abc.OpPop,
	}, ops(b))
	require.Equal(t, 0, b.StackDepth())
}
