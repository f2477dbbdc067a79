package container

import (
	"fmt"

	"github.com/brion/wasm2swf/internal/abc"
)

// methodCodeEncoder turns one MethodBuilder's instruction stream into ABC
// method_body code bytes. Every variable-length immediate (u30 indices and
// counts) is emitted in a fixed 5-byte over-long LEB128 form rather than
// its minimal width -- legal per the varint encoding, and it lets every
// instruction's byte length be known before any constant-pool index is
// resolved. That in turn makes label offsets computable in one pass instead
// of the fixed-point iteration a size-optimizing assembler would need.
type methodCodeEncoder struct {
	pool *constantPool
}

func newMethodCodeEncoder(pool *constantPool) *methodCodeEncoder {
	return &methodCodeEncoder{pool: pool}
}

// encode returns the method_body code bytes for mb.
func (e *methodCodeEncoder) encode(mb *abc.MethodBuilder) ([]byte, error) {
	starts := instrStarts(mb)

	w := &byteWriter{}
	for i := range mb.Instrs {
		ins := &mb.Instrs[i]
		if ins.Op == abc.OpLabel {
			continue
		}
		if err := e.emitOne(w, ins, starts); err != nil {
			return nil, fmt.Errorf("container: %w", err)
		}
	}
	return w.buf, nil
}

// instrStarts returns, for every index in mb.Instrs, the byte offset at
// which that instruction's encoding begins (OpLabel markers are zero-width
// and share the offset of the instruction that would follow them).
func instrStarts(mb *abc.MethodBuilder) []int {
	starts := make([]int, len(mb.Instrs)+1)
	pos := 0
	for i := range mb.Instrs {
		starts[i] = pos
		if mb.Instrs[i].Op != abc.OpLabel {
			pos += instrLen(&mb.Instrs[i])
		}
	}
	starts[len(mb.Instrs)] = pos
	return starts
}

// instrLen returns the fixed byte length of ins's encoding (opcode byte
// plus immediate operands), independent of constant-pool contents.
func instrLen(ins *abc.Instr) int {
	const u30 = 5 // over-long, fixed-width LEB128 (see methodCodeEncoder doc)
	switch ins.Op {
	case abc.OpNop, abc.OpThrow, abc.OpPop, abc.OpDup, abc.OpSwap,
		abc.OpReturnVoid, abc.OpReturnValue,
		abc.OpGetLocal0, abc.OpGetLocal1, abc.OpGetLocal2, abc.OpGetLocal3,
		abc.OpPushTrue, abc.OpPushFalse, abc.OpPushNaN,
		abc.OpConvertI, abc.OpConvertU, abc.OpConvertD, abc.OpCoerce,
		abc.OpNegate, abc.OpNegateI, abc.OpNot, abc.OpBitNot,
		abc.OpAdd, abc.OpSubtract, abc.OpMultiply, abc.OpDivide, abc.OpModulo,
		abc.OpLShift, abc.OpRShift, abc.OpURShift, abc.OpBitAnd, abc.OpBitOr, abc.OpBitXor,
		abc.OpEquals, abc.OpStrictEquals, abc.OpLessThan, abc.OpLessEquals,
		abc.OpGreaterThan, abc.OpGreaterEquals,
		abc.OpAddI, abc.OpSubtractI, abc.OpMultiplyI,
		abc.OpLI8, abc.OpLI16, abc.OpLI32, abc.OpLF32, abc.OpLF64,
		abc.OpSI8, abc.OpSI16, abc.OpSI32, abc.OpSF32, abc.OpSF64,
		abc.OpSxI8, abc.OpSxI16, abc.OpGetGlobalScope, abc.OpPushScope:
		return 1
	case abc.OpPushByte:
		return 2
	case abc.OpPushInt, abc.OpPushDouble, abc.OpPushString,
		abc.OpGetLocal, abc.OpSetLocal, abc.OpIncLocal, abc.OpDecLocal,
		abc.OpIncLocalI, abc.OpDecLocalI,
		abc.OpGetLex, abc.OpFindPropStrict,
		abc.OpConstruct, abc.OpConstructSuper, abc.OpNewObject, abc.OpNewArray, abc.OpNewClass,
		abc.OpDebugLine, abc.OpDebugFile, abc.OpGetScopeObject,
		abc.OpGetProperty, abc.OpSetProperty, abc.OpInitProperty, abc.OpCall:
		return 1 + u30
	case abc.OpCallProperty, abc.OpCallPropVoid, abc.OpCallPropLex:
		return 1 + u30 + u30
	case abc.OpJump, abc.OpIfTrue, abc.OpIfFalse, abc.OpIfEq, abc.OpIfNe,
		abc.OpIfLt, abc.OpIfLe, abc.OpIfGt, abc.OpIfGe,
		abc.OpIfStrictEq, abc.OpIfStrictNe:
		return 1 + 3
	case abc.OpLookupSwitch:
		return 1 + 3 + u30 + 3*(len(ins.Cases)+1)
	case abc.OpDebug:
		return 1 + 1 + u30 + 1 + u30
	}
	panic(fmt.Sprintf("container: no length rule for opcode %s", ins.Op))
}

func (e *methodCodeEncoder) emitOne(w *byteWriter, ins *abc.Instr, starts []int) error {
	start := len(w.buf)
	w.byte(byte(ins.Op))
	switch ins.Op {
	case abc.OpPushByte:
		w.byte(byte(ins.Int))
	case abc.OpPushInt:
		w.u30fixed(e.pool.addInt(int32(ins.Int)))
	case abc.OpPushDouble:
		w.u30fixed(e.pool.addDouble(ins.Double))
	case abc.OpPushString:
		w.u30fixed(e.pool.addString(ins.Name))
	case abc.OpDebugFile:
		w.u30fixed(e.pool.addString(ins.Name))
	case abc.OpGetLocal, abc.OpSetLocal, abc.OpIncLocal, abc.OpDecLocal,
		abc.OpIncLocalI, abc.OpDecLocalI, abc.OpDebugLine, abc.OpGetScopeObject:
		w.u30fixed(uint32(ins.Int))
	case abc.OpNewClass:
		w.u30fixed(uint32(ins.Int))
	case abc.OpConstruct, abc.OpConstructSuper, abc.OpNewObject, abc.OpNewArray, abc.OpCall:
		w.u30fixed(uint32(ins.ArgCount))
	case abc.OpGetLex, abc.OpFindPropStrict:
		w.u30fixed(e.pool.qname(ins.Name))
	case abc.OpGetProperty, abc.OpSetProperty, abc.OpInitProperty:
		w.u30fixed(e.multinameIndex(ins.Name))
	case abc.OpCallProperty, abc.OpCallPropVoid, abc.OpCallPropLex:
		w.u30fixed(e.multinameIndex(ins.Name))
		w.u30fixed(uint32(ins.ArgCount))
	case abc.OpJump, abc.OpIfTrue, abc.OpIfFalse, abc.OpIfEq, abc.OpIfNe,
		abc.OpIfLt, abc.OpIfLe, abc.OpIfGt, abc.OpIfGe,
		abc.OpIfStrictEq, abc.OpIfStrictNe:
		from := start + instrLen(ins)
		target := starts[ins.Target.Index()]
		w.s24(int32(target - from))
	case abc.OpLookupSwitch:
		return fmt.Errorf("lookupswitch encoding not implemented")
	}
	return nil
}

// multinameIndex resolves a property-access instruction's multiname pool
// index: the runtime (late-bound) entry when Name == "" (§4.1.6), else the
// QName for that property name.
func (e *methodCodeEncoder) multinameIndex(name string) uint32 {
	if name == "" {
		return e.pool.runtimeMultiname()
	}
	return e.pool.qname(name)
}
