// Package container implements §6's output side: serializing a synthesized
// ABC class (internal/abc.InstanceTraits plus the assembler's instance/class
// initializers) into an abc_file byte stream, and optionally wrapping that
// stream in a minimal SWF movie.
package container

import (
	"encoding/binary"
	"math"

	"github.com/brion/wasm2swf/internal/leb128"
)

// byteWriter is a small append-only byte accumulator, in the spirit of
// tetratelabs-wazero's internal/asm.Buffer but without the mmap-backed code
// segment machinery that package needs for executable memory -- this
// package only ever produces a []byte to hand to an io.Writer.
type byteWriter struct {
	buf []byte
}

func (w *byteWriter) byte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *byteWriter) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// u30 writes an unsigned LEB128 varint, ABC's encoding for u30 and u32 pool
// indices and counts.
func (w *byteWriter) u30(v uint32) {
	w.buf = leb128.EncodeUint32(w.buf, v)
}

// s32 writes a signed LEB128 varint, ABC's encoding for the int constant
// pool's entries.
func (w *byteWriter) s32(v int32) {
	w.buf = leb128.EncodeInt32(w.buf, v)
}

// d64 writes an IEEE-754 double, little-endian, ABC's fixed encoding for the
// double constant pool.
func (w *byteWriter) d64(v float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	w.bytes(tmp[:])
}

// u30fixed writes v as an over-long, fixed-width 5-byte LEB128 varint. The
// ABC format only requires LEB128's continuation-bit convention, not a
// minimal-width encoding, so padding every u30 field to 5 bytes regardless
// of v's magnitude is legal -- see methodCodeEncoder's doc comment for why
// this package always does so.
func (w *byteWriter) u30fixed(v uint32) {
	w.byte(byte(v&0x7f) | 0x80)
	w.byte(byte((v>>7)&0x7f) | 0x80)
	w.byte(byte((v>>14)&0x7f) | 0x80)
	w.byte(byte((v>>21)&0x7f) | 0x80)
	w.byte(byte((v >> 28) & 0x7f))
}

// s24 writes a signed 24-bit little-endian value, AVM2's jump/branch
// instruction offset encoding.
func (w *byteWriter) s24(v int32) {
	w.byte(byte(v))
	w.byte(byte(v >> 8))
	w.byte(byte(v >> 16))
}

// u16le writes a fixed little-endian 16-bit value, used by the SWF header
// and tag-length fields.
func (w *byteWriter) u16le(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.bytes(tmp[:])
}

// u32le writes a fixed little-endian 32-bit value, used by the SWF header's
// file length field.
func (w *byteWriter) u32le(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.bytes(tmp[:])
}

// utf8String writes an ABC string_info entry body: a u30 byte length
// followed by the raw UTF-8 bytes (no trailing NUL).
func (w *byteWriter) utf8String(s string) {
	w.u30(uint32(len(s)))
	w.bytes([]byte(s))
}
