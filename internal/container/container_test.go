package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/internal/abc"
)

func TestConstantPoolDedupesEntries(t *testing.T) {
	p := newConstantPool()
	a := p.addInt(42)
	b := p.addInt(42)
	require.Equal(t, a, b)
	c := p.addInt(7)
	require.NotEqual(t, a, c)

	s1 := p.addString("foo")
	s2 := p.addString("foo")
	require.Equal(t, s1, s2)
}

func TestQNameInternsByNameAndNamespace(t *testing.T) {
	p := newConstantPool()
	q1 := p.qname("clz32")
	q2 := p.qname("clz32")
	require.Equal(t, q1, q2)
	q3 := p.qname("memory_grow")
	require.NotEqual(t, q1, q3)
}

func TestRuntimeMultinameIsShared(t *testing.T) {
	p := newConstantPool()
	r1 := p.runtimeMultiname()
	r2 := p.runtimeMultiname()
	require.Equal(t, r1, r2)
	q := p.qname("func$main")
	require.NotEqual(t, r1, q)
}

func TestConstantPoolWriteProducesNonEmptyBytes(t *testing.T) {
	p := newConstantPool()
	p.addInt(1)
	p.addString("hello")
	p.qname("Object")
	w := &byteWriter{}
	p.write(w)
	require.NotEmpty(t, w.buf)
}

func TestMethodCodeEncoderStraightLine(t *testing.T) {
	mb := abc.NewMethodBuilder(0)
	mb.EmitPushInt(1)
	mb.EmitPushInt(2)
	mb.EmitBinary(abc.OpAdd)
	mb.EmitReturnValue()

	pool := newConstantPool()
	enc := newMethodCodeEncoder(pool)
	code, err := enc.encode(mb)
	require.NoError(t, err)
	// pushint (1 opcode + 5-byte fixed operand) x2, then add(1), returnvalue(1).
	require.Equal(t, 6+6+1+1, len(code))
	require.Equal(t, byte(abc.OpPushInt), code[0])
	require.Equal(t, byte(abc.OpAdd), code[12])
	require.Equal(t, byte(abc.OpReturnValue), code[13])
}

func TestMethodCodeEncoderResolvesForwardJump(t *testing.T) {
	mb := abc.NewMethodBuilder(0)
	done := mb.PushLabel("")
	mb.PopLabel()
	mb.EmitJump(done)
	mb.EmitPushInt(1) // dead code the jump skips, still encoded and counted
	mb.Bind(done)
	mb.EmitReturnVoid()

	pool := newConstantPool()
	enc := newMethodCodeEncoder(pool)
	code, err := enc.encode(mb)
	require.NoError(t, err)

	// jump(4) + pushint(1 opcode + 5-byte operand) + returnvoid(1) == 11 bytes.
	require.Equal(t, 11, len(code))
	// The jump's s24 operand is relative to the byte immediately after the
	// 3-byte offset field (byte index 4); its target (returnvoid) sits at
	// byte index 10, right after the dead pushint it skips.
	from := 4
	target := 10
	want := int32(target - from)
	got := int32(code[1]) | int32(code[2])<<8 | int32(int8(code[3]))<<16
	require.Equal(t, want, got)
}

func TestMethodCodeEncoderLateBoundProperty(t *testing.T) {
	mb := abc.NewMethodBuilder(1)
	mb.EmitGetLocal(0)
	mb.EmitGetLocal(1)
	mb.EmitGetProperty("")
	mb.EmitReturnValue()

	pool := newConstantPool()
	enc := newMethodCodeEncoder(pool)
	_, err := enc.encode(mb)
	require.NoError(t, err)
	require.Len(t, pool.multinames, 1)
	require.True(t, pool.multinames[0].LateBound)
}

func TestBuildABCFileProducesNonEmptyOutput(t *testing.T) {
	trts := abc.NewInstanceTraits()
	trts.AddSlot("wasm$memory", abc.SlotObject, "flash.utils.ByteArray")
	mainFn := abc.NewMethodBuilder(0)
	mainFn.EmitReturnVoid()
	trts.AddMethod("func$main", mainFn, nil, 0)

	iinit := abc.NewMethodBuilder(0)
	iinit.EmitGetLocal(0)
	iinit.EmitConstructSuper(0)
	iinit.EmitReturnVoid()
	cinit := abc.NewMethodBuilder(0)
	cinit.EmitReturnVoid()

	out, err := BuildABCFile("WasmModule", trts, iinit, cinit, "")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, byte(16), out[0]) // minor_version low byte
}

func TestBuildABCFileWithWrapperAddsSecondClass(t *testing.T) {
	trts := abc.NewInstanceTraits()
	iinit := abc.NewMethodBuilder(0)
	iinit.EmitGetLocal(0)
	iinit.EmitConstructSuper(0)
	iinit.EmitReturnVoid()
	cinit := abc.NewMethodBuilder(0)
	cinit.EmitReturnVoid()

	out, err := BuildABCFile("WasmModule", trts, iinit, cinit, "Wrapper")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	withoutWrapper, err := BuildABCFile("WasmModule", trts, iinit, cinit, "")
	require.NoError(t, err)
	require.Greater(t, len(out), len(withoutWrapper))
}

func TestBuildSWFWrapsABCBlobUncompressed(t *testing.T) {
	abcBytes := []byte{1, 2, 3, 4}
	out, err := BuildSWF(abcBytes, SWFOptions{Sprite: "Instance"})
	require.NoError(t, err)
	require.Equal(t, "FWS", string(out[:3]))
	require.Equal(t, byte(6), out[3])
}

func TestBuildSWFCompressedHasCWSSignature(t *testing.T) {
	abcBytes := make([]byte, 256)
	out, err := BuildSWF(abcBytes, SWFOptions{Sprite: "Instance", Compress: true})
	require.NoError(t, err)
	require.Equal(t, "CWS", string(out[:3]))
}
