// Package leb128 implements unsigned LEB128 variable-length integer
// encoding, the encoding ABC uses for its u30 constant-pool indices and
// method-body integers (and that Wasm itself uses for its own varints,
// hence reusing the teacher's API shape for a new wire format).
package leb128

// EncodeUint32 appends the LEB128 encoding of v to dst and returns the
// extended slice.
func EncodeUint32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// DecodeUint32 decodes a LEB128 unsigned integer from the front of b,
// returning the value and the number of bytes consumed.
func DecodeUint32(b []byte) (v uint32, n int) {
	var shift uint
	for {
		c := b[n]
		n++
		v |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, n
		}
		shift += 7
	}
}

// EncodeUint32Size returns the number of bytes EncodeUint32 would append for v.
func EncodeUint32Size(v uint32) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// EncodeInt32 appends the signed LEB128 encoding of v to dst. ABC's s32-typed
// constant pool entries (and Wasm's si32 payloads) use this form.
func EncodeInt32(dst []byte, v int32) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// DecodeInt32 decodes a signed LEB128 integer from the front of b, returning
// the value and the number of bytes consumed.
func DecodeInt32(b []byte) (v int32, n int) {
	var shift uint
	var c byte
	for {
		c = b[n]
		n++
		v |= int32(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 32 && c&0x40 != 0 {
		v |= -1 << shift
	}
	return v, n
}
