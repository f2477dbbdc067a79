package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/internal/ir"
)

// decodeDataSection reads the vector of data segments (§6 binary format
// data section): memory index (always 0), a constant i32 offset expr, then
// the raw byte payload.
func decodeDataSection(r *reader) ([]ir.MemorySegment, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: data section count: %w", err)
	}
	out := make([]ir.MemorySegment, count)
	for i := range out {
		memIdx, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: data %d memory index: %w", i, err)
		}
		if memIdx != 0 {
			return nil, fmt.Errorf("wasmread: data %d: only memory index 0 is supported", i)
		}
		offset, err := decodeOffsetExpr(r)
		if err != nil {
			return nil, fmt.Errorf("wasmread: data %d offset: %w", i, err)
		}
		n, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: data %d length: %w", i, err)
		}
		bytes, err := r.bytes(int(n))
		if err != nil {
			return nil, fmt.Errorf("wasmread: data %d payload: %w", i, err)
		}
		out[i] = ir.MemorySegment{ByteOffset: offset, Bytes: append([]byte(nil), bytes...)}
	}
	return out, nil
}
