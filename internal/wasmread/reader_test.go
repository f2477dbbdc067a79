package wasmread

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderVarU32(t *testing.T) {
	// 300 encodes as 0xAC 0x02 in LEB128.
	r := &reader{buf: []byte{0xAC, 0x02}}
	v, err := r.varU32()
	require.NoError(t, err)
	require.EqualValues(t, 300, v)
	require.True(t, r.done())
}

func TestReaderVarU32Overflow(t *testing.T) {
	r := &reader{buf: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}}
	_, err := r.varU32()
	require.Error(t, err)
}

func TestReaderVarI32Negative(t *testing.T) {
	// -1 encodes as a single 0x7f byte.
	r := &reader{buf: []byte{0x7f}}
	v, err := r.varI32()
	require.NoError(t, err)
	require.EqualValues(t, -1, v)
}

func TestReaderVarI32SignExtendsPartialByte(t *testing.T) {
	// -128 needs sign extension from a shift that lands mid-byte.
	r := &reader{buf: []byte{0x80, 0x7f}}
	v, err := r.varI32()
	require.NoError(t, err)
	require.EqualValues(t, -128, v)
}

func TestReaderVarI64RoundTrips(t *testing.T) {
	r := &reader{buf: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}}
	v, err := r.varI64()
	require.NoError(t, err)
	require.EqualValues(t, -1, v)
}

func TestReaderNameDecodesLengthPrefixedUTF8(t *testing.T) {
	r := &reader{buf: append([]byte{3}, []byte("abc")...)}
	s, err := r.name()
	require.NoError(t, err)
	require.Equal(t, "abc", s)
}

func TestReaderBytesRejectsShortInput(t *testing.T) {
	r := &reader{buf: []byte{1, 2}}
	_, err := r.bytes(3)
	require.Error(t, err)
}

func TestReaderF32F64(t *testing.T) {
	r := &reader{buf: []byte{0, 0, 0x80, 0x3f}} // 1.0f little-endian
	f, err := r.f32()
	require.NoError(t, err)
	require.Equal(t, float32(1.0), f)

	r2 := &reader{buf: []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}} // 1.0 little-endian
	d, err := r2.f64()
	require.NoError(t, err)
	require.Equal(t, float64(1.0), d)
}
