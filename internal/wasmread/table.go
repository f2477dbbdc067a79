package wasmread

import "fmt"

// decodeTableSection reads the vector of table entries (§6 binary format):
// an element type byte (always funcref for the MVP table kind this core
// uses) followed by limits. Only the count matters here -- this IR has no
// field for a table's declared size, since the instance initializer grows
// the backing Array lazily from its segments instead (§4.3).
func decodeTableSection(r *reader) (int, error) {
	count, err := r.varU32()
	if err != nil {
		return 0, fmt.Errorf("wasmread: table section count: %w", err)
	}
	for i := 0; i < int(count); i++ {
		elemType, err := r.byte()
		if err != nil {
			return 0, fmt.Errorf("wasmread: table %d element type: %w", i, err)
		}
		if elemType != binFuncRef {
			return 0, fmt.Errorf("wasmread: table %d: unsupported element type %#x", i, elemType)
		}
		if _, err := decodeLimits(r); err != nil {
			return 0, fmt.Errorf("wasmread: table %d limits: %w", i, err)
		}
	}
	return int(count), nil
}
