package wasmread

import "fmt"

// rawElement is one active element segment, before its function indices
// are resolved to names in the function index space.
type rawElement struct {
	offset  uint32
	funcIdx []uint32
}

// decodeElementSection reads the vector of table segments (§6 binary
// format element section): table index (always 0, a single table), a
// constant i32 offset expr, then a vector of function indices.
func decodeElementSection(r *reader) ([]rawElement, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: element section count: %w", err)
	}
	out := make([]rawElement, count)
	for i := range out {
		tableIdx, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: element %d table index: %w", i, err)
		}
		if tableIdx != 0 {
			return nil, fmt.Errorf("wasmread: element %d: only table index 0 is supported", i)
		}
		offset, err := decodeOffsetExpr(r)
		if err != nil {
			return nil, fmt.Errorf("wasmread: element %d offset: %w", i, err)
		}
		n, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: element %d function count: %w", i, err)
		}
		idx := make([]uint32, n)
		for j := range idx {
			idx[j], err = r.varU32()
			if err != nil {
				return nil, fmt.Errorf("wasmread: element %d function %d: %w", i, j, err)
			}
		}
		out[i] = rawElement{offset: offset, funcIdx: idx}
	}
	return out, nil
}
