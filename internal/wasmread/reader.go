package wasmread

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a forward-only cursor over a Wasm binary, mirroring the
// bytes.Reader section-cursor idiom the teacher's frontend compiler uses
// for its own branch-table decoding.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) done() bool {
	return r.pos >= len(r.buf)
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("wasmread: unexpected end of input at offset %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("wasmread: unexpected end of input at offset %d (wanted %d bytes)", r.pos, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u32le() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// varU32 decodes an unsigned LEB128 value, matching the teacher's
// §6 wasm binary varuint32 convention.
func (r *reader) varU32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, fmt.Errorf("wasmread: varuint32: %w", err)
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, fmt.Errorf("wasmread: varuint32 overflows at offset %d", r.pos)
		}
	}
}

// varI32 decodes a signed LEB128 value (Wasm's varint32/si32 encoding,
// used by i32.const payloads).
func (r *reader) varI32() (int32, error) {
	var result int32
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.byte()
		if err != nil {
			return 0, fmt.Errorf("wasmread: varint32: %w", err)
		}
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 35 {
			return 0, fmt.Errorf("wasmread: varint32 overflows at offset %d", r.pos)
		}
	}
	if shift < 32 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

// varI64 decodes a signed LEB128 value up to 64 bits wide (an i64.const
// payload). Decode itself does not call it.
func (r *reader) varI64() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.byte()
		if err != nil {
			return 0, fmt.Errorf("wasmread: varint64: %w", err)
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 70 {
			return 0, fmt.Errorf("wasmread: varint64 overflows at offset %d", r.pos)
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

func (r *reader) f32() (float32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, fmt.Errorf("wasmread: f32 literal: %w", err)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) f64() (float64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, fmt.Errorf("wasmread: f64 literal: %w", err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// name decodes a Wasm "name": a varuint32 byte length followed by that many
// UTF-8 bytes.
func (r *reader) name() (string, error) {
	n, err := r.varU32()
	if err != nil {
		return "", fmt.Errorf("wasmread: name length: %w", err)
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", fmt.Errorf("wasmread: name bytes: %w", err)
	}
	return string(b), nil
}
