package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
)

// rawExport is one export section entry before its index has been resolved
// to a name in the appropriate index space.
type rawExport struct {
	name  string
	kind  api.ExternType
	index uint32
}

func decodeExportSection(r *reader) ([]rawExport, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: export section count: %w", err)
	}
	out := make([]rawExport, count)
	for i := range out {
		name, err := r.name()
		if err != nil {
			return nil, fmt.Errorf("wasmread: export %d name: %w", i, err)
		}
		kind, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: export %d kind: %w", i, err)
		}
		index, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: export %d index: %w", i, err)
		}
		out[i] = rawExport{name: name, kind: kind, index: index}
	}
	return out, nil
}
