package wasmread

import "fmt"

// decodeFunctionSection reads the vector of type indices for defined
// functions (§6 binary format function section). The function body for
// entry i comes from the code section's i-th entry, matched up positionally
// by the caller.
func decodeFunctionSection(r *reader) ([]uint32, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: function section count: %w", err)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i], err = r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: function %d type index: %w", i, err)
		}
	}
	return out, nil
}
