package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
)

// Wasm's own value-type and reference-type encoding bytes (§6 binary
// format), distinct from api.ValueType's narrowed i32/f32/f64/none subset.
const (
	binI32     = 0x7f
	binI64     = 0x7e
	binF32     = 0x7d
	binF64     = 0x7c
	binFuncRef = 0x70
	binEmpty   = 0x40 // block type: no result
)

// decodeValueType maps a Wasm value-type byte to api.ValueType, rejecting
// i64 as a precondition violation (§1: i64 is expected already lowered to
// i32 pairs upstream).
func decodeValueType(b byte) (api.ValueType, error) {
	switch b {
	case binI32:
		return api.ValueTypeI32, nil
	case binF32:
		return api.ValueTypeF32, nil
	case binF64:
		return api.ValueTypeF64, nil
	case binI64:
		return 0, newPreconditionError("i64 value type encountered; i64 must be lowered to i32 pairs before this reader runs")
	default:
		return 0, fmt.Errorf("wasmread: unrecognized value type byte %#x", b)
	}
}
