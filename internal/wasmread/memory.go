package wasmread

import "fmt"

// decodeMemorySection reads the vector of memory entries, returning each
// one's initial page count. §1's single-linear-memory precondition is
// enforced by the caller once both the import section and this section's
// counts are known.
func decodeMemorySection(r *reader) ([]uint32, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: memory section count: %w", err)
	}
	out := make([]uint32, count)
	for i := range out {
		l, err := decodeLimits(r)
		if err != nil {
			return nil, fmt.Errorf("wasmread: memory %d limits: %w", i, err)
		}
		out[i] = l.min
	}
	return out, nil
}
