package wasmread

import "fmt"

// decodeCodeSection reads the vector of raw function bodies (§6 binary
// format code section): each entry is a byte length followed by that many
// bytes, which decodeFunctionBody parses separately once each defined
// function's signature is known.
func decodeCodeSection(r *reader) ([][]byte, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: code section count: %w", err)
	}
	out := make([][]byte, count)
	for i := range out {
		size, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: code %d size: %w", i, err)
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("wasmread: code %d body: %w", i, err)
		}
		out[i] = append([]byte(nil), body...)
	}
	return out, nil
}
